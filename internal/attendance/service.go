// Package attendance implements the daily clock rules and the views derived
// from the attendance log.
package attendance

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/protomem/timeclock/internal/database"
	"github.com/protomem/timeclock/internal/localday"
	"github.com/protomem/timeclock/internal/model"
	"github.com/protomem/timeclock/internal/session"
)

type EmployeeRepository interface {
	Insert(ctx context.Context, dto database.InsertEmployeeDTO) (model.ID, error)
	Get(ctx context.Context, id model.ID) (model.Employee, error)
	GetByPasscode(ctx context.Context, passcode string) (model.Employee, error)
	List(ctx context.Context) ([]model.Employee, error)
}

// EventRepository is the attendance log. Append must reject a second event
// of the same type for the same employee and local date with model.ErrExists.
type EventRepository interface {
	Append(ctx context.Context, dto database.AppendEventDTO) (model.AttendanceEvent, error)
	ExistsInRange(ctx context.Context, employee model.ID, typ model.EventType, start, end time.Time) (bool, error)
	Latest(ctx context.Context, employee model.ID) (model.AttendanceEvent, error)
	LatestOfTypeAtOrBefore(ctx context.Context, employee model.ID, typ model.EventType, at time.Time) (model.AttendanceEvent, error)
	AllOrdered(ctx context.Context, employee model.ID) ([]model.AttendanceEvent, error)
	ListAll(ctx context.Context) ([]model.AttendanceEvent, error)
}

type Service struct {
	logger    *slog.Logger
	employees EmployeeRepository
	events    EventRepository
	resolver  *localday.Resolver
	pairer    *session.Pairer
	now       func() time.Time
}

type Option func(*Service)

// WithClock replaces time.Now as the source of event instants.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

func NewService(
	logger *slog.Logger,
	employees EmployeeRepository, events EventRepository,
	resolver *localday.Resolver,
	opts ...Option,
) *Service {
	s := &Service{
		logger:    logger.With("module", "attendance"),
		employees: employees,
		events:    events,
		resolver:  resolver,
		pairer:    session.NewPairer(resolver),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) Resolver() *localday.Resolver {
	return s.resolver
}

// storeError passes domain errors through and marks anything else as a
// store failure, logging the cause.
func (s *Service) storeError(op string, err error) error {
	switch {
	case errors.Is(err, model.ErrNotFound),
		errors.Is(err, model.ErrExists),
		errors.Is(err, model.ErrInvalidInput),
		model.IsRuleViolation(err):
		return err
	}

	s.logger.Error("store failure", "op", op, "error", err)

	return model.Unavailable(err)
}
