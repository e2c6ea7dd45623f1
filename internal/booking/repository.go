package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repository interface {
	// Create persists a booking. A violation of the partial unique index on
	// (calendar_id, date, start_hour) WHERE status = 'confirmed' is reported
	// as ErrSlotTaken: it means a concurrent writer won the slot between our
	// overlap pre-check and this insert.
	Create(ctx context.Context, b *Booking) error

	GetByID(ctx context.Context, id string) (*Booking, error)

	// ListConfirmedForDay returns the confirmed bookings of one calendar on
	// one calendar day, ascending by start hour. This is the conflict
	// snapshot both the read and the write path resolve against.
	ListConfirmedForDay(ctx context.Context, calendarID string, day time.Time) ([]*Booking, error)

	List(ctx context.Context, filter Filter) ([]*Booking, int, error)
	UpdateStatus(ctx context.Context, id string, status Status) error
}

type pgxRepository struct {
	pool *pgxpool.Pool
}

func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{pool: pool}
}

func (r *pgxRepository) Create(ctx context.Context, b *Booking) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Insert("public.bookings").
		Columns("calendar_id", "date", "start_hour", "end_hour", "name", "email", "notes", "status").
		Values(b.CalendarID, b.Date, b.StartHour, b.EndHour, b.Name, b.Email, b.Notes, b.Status).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build create booking query failed: %w", err)
	}

	if err := r.pool.QueryRow(ctx, query, args...).Scan(&b.ID, &b.CreatedAt); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return ErrSlotTaken
		}
		return fmt.Errorf("create booking failed: %w", err)
	}
	return nil
}

func (r *pgxRepository) GetByID(ctx context.Context, id string) (*Booking, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Select(
		"b.id", "b.calendar_id", "c.name",
		"b.date", "b.start_hour", "b.end_hour",
		"b.name", "b.email", "b.notes", "b.status", "b.created_at",
	).
		From("public.bookings b").
		Join("public.calendars c ON b.calendar_id = c.id").
		Where(squirrel.Eq{"b.id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get booking query failed: %w", err)
	}

	var b Booking
	if err := r.pool.QueryRow(ctx, query, args...).Scan(
		&b.ID, &b.CalendarID, &b.CalendarName,
		&b.Date, &b.StartHour, &b.EndHour,
		&b.Name, &b.Email, &b.Notes, &b.Status, &b.CreatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get booking failed: %w", err)
	}
	return &b, nil
}

func (r *pgxRepository) ListConfirmedForDay(ctx context.Context, calendarID string, day time.Time) ([]*Booking, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Select(
		"id", "calendar_id", "date", "start_hour", "end_hour",
		"name", "email", "notes", "status", "created_at",
	).
		From("public.bookings").
		Where(squirrel.Eq{
			"calendar_id": calendarID,
			"date":        day,
			"status":      StatusConfirmed,
		}).
		OrderBy("start_hour ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list bookings query failed: %w", err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list bookings for day failed: %w", err)
	}
	defer rows.Close()

	var bookings []*Booking
	for rows.Next() {
		var b Booking
		if err := rows.Scan(
			&b.ID, &b.CalendarID, &b.Date, &b.StartHour, &b.EndHour,
			&b.Name, &b.Email, &b.Notes, &b.Status, &b.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan booking failed: %w", err)
		}
		bookings = append(bookings, &b)
	}
	return bookings, rows.Err()
}

func (r *pgxRepository) List(ctx context.Context, filter Filter) ([]*Booking, int, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query := psql.Select(
		"b.id", "b.calendar_id", "c.name",
		"b.date", "b.start_hour", "b.end_hour",
		"b.name", "b.email", "b.notes", "b.status", "b.created_at",
		"count(*) OVER() AS total_count",
	).
		From("public.bookings b").
		Join("public.calendars c ON b.calendar_id = c.id")

	if filter.CalendarID != "" {
		query = query.Where(squirrel.Eq{"b.calendar_id": filter.CalendarID})
	}
	if filter.OwnerUserID != "" {
		query = query.Where(squirrel.Eq{"c.user_id": filter.OwnerUserID})
	}
	if filter.Status != "" {
		query = query.Where(squirrel.Eq{"b.status": filter.Status})
	}

	order := "b.date ASC, b.start_hour ASC"
	if filter.SortDesc {
		order = "b.date DESC, b.start_hour DESC"
	}
	query = query.OrderBy(order)

	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 {
		filter.PageSize = 20
	}
	offset := (filter.Page - 1) * filter.PageSize

	sql, args, err := query.
		Limit(uint64(filter.PageSize)).
		Offset(uint64(offset)).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build list bookings query failed: %w", err)
	}

	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list bookings failed: %w", err)
	}
	defer rows.Close()

	var (
		bookings []*Booking
		total    int
	)
	for rows.Next() {
		var b Booking
		if err := rows.Scan(
			&b.ID, &b.CalendarID, &b.CalendarName,
			&b.Date, &b.StartHour, &b.EndHour,
			&b.Name, &b.Email, &b.Notes, &b.Status, &b.CreatedAt,
			&total,
		); err != nil {
			return nil, 0, fmt.Errorf("scan booking failed: %w", err)
		}
		bookings = append(bookings, &b)
	}
	return bookings, total, rows.Err()
}

func (r *pgxRepository) UpdateStatus(ctx context.Context, id string, status Status) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Update("public.bookings").
		Set("status", status).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update booking query failed: %w", err)
	}

	ct, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update booking status failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
