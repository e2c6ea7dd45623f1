package admin

import (
	"context"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/schedly/schedly-backend/internal/booking"
)

type Service interface {
	Stats(ctx context.Context) (*Stats, error)
}

type service struct {
	repo     Repository
	bookings booking.Service
}

func NewService(repo Repository, bookings booking.Service) Service {
	return &service{
		repo:     repo,
		bookings: bookings,
	}
}

func (s *service) Stats(ctx context.Context) (*Stats, error) {
	stats := &Stats{}

	var err error
	if stats.TotalUsers, err = s.repo.CountRows(ctx, "public.users", nil); err != nil {
		return nil, err
	}
	if stats.TotalCalendars, err = s.repo.CountRows(ctx, "public.calendars", nil); err != nil {
		return nil, err
	}
	if stats.TotalBookings, err = s.repo.CountRows(ctx, "public.bookings", nil); err != nil {
		return nil, err
	}
	if stats.CancelledBookings, err = s.repo.CountRows(ctx, "public.bookings",
		squirrel.Eq{"status": booking.StatusCancelled}); err != nil {
		return nil, err
	}

	since := time.Now().UTC().AddDate(0, 0, -7)
	if stats.SignupsLastWeek, err = s.repo.CountPerDay(ctx, "public.users", since); err != nil {
		return nil, err
	}
	if stats.BookingsLastWeek, err = s.repo.CountPerDay(ctx, "public.bookings", since); err != nil {
		return nil, err
	}

	recent, _, err := s.bookings.List(ctx, booking.Filter{SortDesc: true, Page: 1, PageSize: 5})
	if err != nil {
		return nil, err
	}
	stats.RecentBookings = recent

	return stats, nil
}
