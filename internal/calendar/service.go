package calendar

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
)

type CreateRequest struct {
	Name                string
	Description         string
	Timezone            string
	Weekdays            []int
	HoursStart          float64
	HoursEnd            float64
	SlotDurationMinutes int
	DisabledDates       []time.Time
}

type UpdateRequest struct {
	Name                *string
	Description         *string
	Timezone            *string
	Weekdays            *[]int
	HoursStart          *float64
	HoursEnd            *float64
	SlotDurationMinutes *int
	DisabledDates       *[]time.Time
}

type Service interface {
	Create(ctx context.Context, userID string, req CreateRequest) (*Calendar, error)
	GetByID(ctx context.Context, id string) (*Calendar, error)

	// GetByRef resolves a calendar by UUID or by its public booking id.
	GetByRef(ctx context.Context, ref string) (*Calendar, error)

	ListForUser(ctx context.Context, userID string) ([]*Calendar, error)
	List(ctx context.Context, filter Filter) ([]*Calendar, int, error)
	Update(ctx context.Context, id string, req UpdateRequest, actorUserID string, isAdmin bool) (*Calendar, error)
	Delete(ctx context.Context, id string, actorUserID string, isAdmin bool) error
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) Create(ctx context.Context, userID string, req CreateRequest) (*Calendar, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, ErrNameRequired
	}

	rules := Rules{
		Weekdays:            req.Weekdays,
		HoursStart:          req.HoursStart,
		HoursEnd:            req.HoursEnd,
		SlotDurationMinutes: req.SlotDurationMinutes,
		DisabledDates:       req.DisabledDates,
	}
	applyRuleDefaults(&rules)

	cal := &Calendar{
		UserID:      userID,
		Name:        req.Name,
		Description: req.Description,
		Timezone:    req.Timezone,
		Rules:       rules,
	}
	if cal.Timezone == "" {
		cal.Timezone = "UTC"
	}

	if err := validateCalendar(cal); err != nil {
		return nil, err
	}
	normalizeRules(&cal.Rules)

	publicID, err := newPublicID()
	if err != nil {
		return nil, fmt.Errorf("generate public id failed: %w", err)
	}
	cal.PublicID = publicID

	if err := s.repo.Create(ctx, cal); err != nil {
		return nil, err
	}
	return cal, nil
}

func (s *service) GetByID(ctx context.Context, id string) (*Calendar, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) GetByRef(ctx context.Context, ref string) (*Calendar, error) {
	if _, err := uuid.Parse(ref); err == nil {
		return s.repo.GetByID(ctx, ref)
	}
	return s.repo.GetByPublicID(ctx, ref)
}

func (s *service) ListForUser(ctx context.Context, userID string) ([]*Calendar, error) {
	return s.repo.ListForUser(ctx, userID)
}

func (s *service) List(ctx context.Context, filter Filter) ([]*Calendar, int, error) {
	return s.repo.List(ctx, filter)
}

func (s *service) Update(ctx context.Context, id string, req UpdateRequest, actorUserID string, isAdmin bool) (*Calendar, error) {
	cal, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if cal.UserID != actorUserID && !isAdmin {
		return nil, ErrPermissionDenied
	}

	if req.Name != nil {
		if strings.TrimSpace(*req.Name) == "" {
			return nil, ErrNameRequired
		}
		cal.Name = *req.Name
	}
	if req.Description != nil {
		cal.Description = *req.Description
	}
	if req.Timezone != nil {
		cal.Timezone = *req.Timezone
	}
	if req.Weekdays != nil {
		cal.Rules.Weekdays = *req.Weekdays
	}
	if req.HoursStart != nil {
		cal.Rules.HoursStart = *req.HoursStart
	}
	if req.HoursEnd != nil {
		cal.Rules.HoursEnd = *req.HoursEnd
	}
	if req.SlotDurationMinutes != nil {
		cal.Rules.SlotDurationMinutes = *req.SlotDurationMinutes
	}
	if req.DisabledDates != nil {
		cal.Rules.DisabledDates = *req.DisabledDates
	}

	if err := validateCalendar(cal); err != nil {
		return nil, err
	}
	normalizeRules(&cal.Rules)

	if err := s.repo.Update(ctx, cal); err != nil {
		return nil, err
	}
	return cal, nil
}

func (s *service) Delete(ctx context.Context, id string, actorUserID string, isAdmin bool) error {
	cal, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if cal.UserID != actorUserID && !isAdmin {
		return ErrPermissionDenied
	}
	return s.repo.Delete(ctx, id)
}

// applyRuleDefaults fills unset rule fields with the platform defaults:
// Monday-Friday, 9:00-17:00, one-hour slots.
func applyRuleDefaults(r *Rules) {
	if r.Weekdays == nil {
		r.Weekdays = []int{1, 2, 3, 4, 5}
	}
	if r.HoursStart == 0 && r.HoursEnd == 0 {
		r.HoursStart = 9
		r.HoursEnd = 17
	}
	if r.SlotDurationMinutes == 0 {
		r.SlotDurationMinutes = 60
	}
}

func validateCalendar(cal *Calendar) error {
	if len(cal.Name) > 100 {
		return ErrNameTooLong
	}
	if len(cal.Description) > 500 {
		return ErrDescriptionTooLong
	}

	for _, d := range cal.Rules.Weekdays {
		if d < 0 || d > 6 {
			return ErrInvalidWeekday
		}
	}
	if cal.Rules.HoursStart < 0 || cal.Rules.HoursEnd > 24 || cal.Rules.HoursStart >= cal.Rules.HoursEnd {
		return ErrInvalidHours
	}
	if !slices.Contains(SlotDurations, cal.Rules.SlotDurationMinutes) {
		return ErrInvalidSlotDuration
	}
	return nil
}

// normalizeRules sorts and dedupes the weekday set and snaps disabled dates
// to their canonical calendar day.
func normalizeRules(r *Rules) {
	slices.Sort(r.Weekdays)
	r.Weekdays = slices.Compact(r.Weekdays)

	dates := make([]time.Time, 0, len(r.DisabledDates))
	for _, d := range r.DisabledDates {
		day := DayOf(d)
		if !slices.ContainsFunc(dates, func(t time.Time) bool { return t.Equal(day) }) {
			dates = append(dates, day)
		}
	}
	slices.SortFunc(dates, func(a, b time.Time) int { return a.Compare(b) })
	r.DisabledDates = dates
}

func newPublicID() (string, error) {
	buf := make([]byte, 10)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
