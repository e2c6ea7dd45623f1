package calendar

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repository interface {
	Create(ctx context.Context, cal *Calendar) error
	GetByID(ctx context.Context, id string) (*Calendar, error)
	GetByPublicID(ctx context.Context, publicID string) (*Calendar, error)
	ListForUser(ctx context.Context, userID string) ([]*Calendar, error)
	List(ctx context.Context, filter Filter) ([]*Calendar, int, error)
	Update(ctx context.Context, cal *Calendar) error

	// Delete removes the calendar; its bookings go with it via the
	// ON DELETE CASCADE foreign key.
	Delete(ctx context.Context, id string) error
}

type pgxRepository struct {
	pool *pgxpool.Pool
}

func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{pool: pool}
}

var calendarColumns = []string{
	"c.id", "c.user_id", "u.name", "u.email",
	"c.name", "c.description", "c.timezone", "c.public_id",
	"c.available_days", "c.hours_start", "c.hours_end",
	"c.slot_duration_minutes", "c.disabled_dates", "c.created_at",
}

func selectCalendars() squirrel.SelectBuilder {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	return psql.Select(calendarColumns...).
		From("public.calendars c").
		Join("public.users u ON c.user_id = u.id")
}

// scanCalendar reads one joined calendar row. The integer[] and date[]
// columns come back as []int32 and []time.Time and are converted into the
// Rules representation.
func scanCalendar(row pgx.Row) (*Calendar, error) {
	var (
		c        Calendar
		days     []int32
		disabled []time.Time
	)
	if err := row.Scan(
		&c.ID, &c.UserID, &c.OwnerName, &c.OwnerEmail,
		&c.Name, &c.Description, &c.Timezone, &c.PublicID,
		&days, &c.Rules.HoursStart, &c.Rules.HoursEnd,
		&c.Rules.SlotDurationMinutes, &disabled, &c.CreatedAt,
	); err != nil {
		return nil, err
	}

	c.Rules.Weekdays = make([]int, 0, len(days))
	for _, d := range days {
		c.Rules.Weekdays = append(c.Rules.Weekdays, int(d))
	}
	c.Rules.DisabledDates = make([]time.Time, 0, len(disabled))
	for _, d := range disabled {
		c.Rules.DisabledDates = append(c.Rules.DisabledDates, DayOf(d))
	}
	return &c, nil
}

func daysToInt32(days []int) []int32 {
	out := make([]int32, 0, len(days))
	for _, d := range days {
		out = append(out, int32(d))
	}
	return out
}

func (r *pgxRepository) Create(ctx context.Context, cal *Calendar) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Insert("public.calendars").
		Columns(
			"user_id", "name", "description", "timezone", "public_id",
			"available_days", "hours_start", "hours_end",
			"slot_duration_minutes", "disabled_dates",
		).
		Values(
			cal.UserID, cal.Name, cal.Description, cal.Timezone, cal.PublicID,
			daysToInt32(cal.Rules.Weekdays), cal.Rules.HoursStart, cal.Rules.HoursEnd,
			cal.Rules.SlotDurationMinutes, cal.Rules.DisabledDates,
		).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build create calendar query failed: %w", err)
	}

	return r.pool.QueryRow(ctx, query, args...).Scan(&cal.ID, &cal.CreatedAt)
}

func (r *pgxRepository) GetByID(ctx context.Context, id string) (*Calendar, error) {
	query, args, err := selectCalendars().
		Where(squirrel.Eq{"c.id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get calendar query failed: %w", err)
	}

	cal, err := scanCalendar(r.pool.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get calendar failed: %w", err)
	}
	return cal, nil
}

func (r *pgxRepository) GetByPublicID(ctx context.Context, publicID string) (*Calendar, error) {
	query, args, err := selectCalendars().
		Where(squirrel.Eq{"c.public_id": publicID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get calendar query failed: %w", err)
	}

	cal, err := scanCalendar(r.pool.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get calendar by public id failed: %w", err)
	}
	return cal, nil
}

func (r *pgxRepository) ListForUser(ctx context.Context, userID string) ([]*Calendar, error) {
	query, args, err := selectCalendars().
		Where(squirrel.Eq{"c.user_id": userID}).
		OrderBy("c.created_at ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list calendars query failed: %w", err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list calendars failed: %w", err)
	}
	defer rows.Close()

	var calendars []*Calendar
	for rows.Next() {
		cal, err := scanCalendar(rows)
		if err != nil {
			return nil, fmt.Errorf("scan calendar failed: %w", err)
		}
		calendars = append(calendars, cal)
	}
	return calendars, rows.Err()
}

func (r *pgxRepository) List(ctx context.Context, filter Filter) ([]*Calendar, int, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

	columns := append(append([]string{}, calendarColumns...), "count(*) OVER() AS total_count")
	query := psql.Select(columns...).
		From("public.calendars c").
		Join("public.users u ON c.user_id = u.id")

	if filter.UserID != "" {
		query = query.Where(squirrel.Eq{"c.user_id": filter.UserID})
	}

	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 {
		filter.PageSize = 20
	}
	offset := (filter.Page - 1) * filter.PageSize

	sql, args, err := query.
		OrderBy("c.created_at DESC").
		Limit(uint64(filter.PageSize)).
		Offset(uint64(offset)).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build list calendars query failed: %w", err)
	}

	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list calendars failed: %w", err)
	}
	defer rows.Close()

	var (
		calendars []*Calendar
		total     int
	)
	for rows.Next() {
		var (
			c        Calendar
			days     []int32
			disabled []time.Time
		)
		if err := rows.Scan(
			&c.ID, &c.UserID, &c.OwnerName, &c.OwnerEmail,
			&c.Name, &c.Description, &c.Timezone, &c.PublicID,
			&days, &c.Rules.HoursStart, &c.Rules.HoursEnd,
			&c.Rules.SlotDurationMinutes, &disabled, &c.CreatedAt,
			&total,
		); err != nil {
			return nil, 0, fmt.Errorf("scan calendar failed: %w", err)
		}
		for _, d := range days {
			c.Rules.Weekdays = append(c.Rules.Weekdays, int(d))
		}
		for _, d := range disabled {
			c.Rules.DisabledDates = append(c.Rules.DisabledDates, DayOf(d))
		}
		calendars = append(calendars, &c)
	}
	return calendars, total, rows.Err()
}

func (r *pgxRepository) Update(ctx context.Context, cal *Calendar) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Update("public.calendars").
		Set("name", cal.Name).
		Set("description", cal.Description).
		Set("timezone", cal.Timezone).
		Set("available_days", daysToInt32(cal.Rules.Weekdays)).
		Set("hours_start", cal.Rules.HoursStart).
		Set("hours_end", cal.Rules.HoursEnd).
		Set("slot_duration_minutes", cal.Rules.SlotDurationMinutes).
		Set("disabled_dates", cal.Rules.DisabledDates).
		Where(squirrel.Eq{"id": cal.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update calendar query failed: %w", err)
	}

	ct, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update calendar failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *pgxRepository) Delete(ctx context.Context, id string) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Delete("public.calendars").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete calendar query failed: %w", err)
	}

	ct, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("delete calendar failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
