package attendance

import (
	"context"
	"errors"

	"github.com/protomem/timeclock/internal/database"
	"github.com/protomem/timeclock/internal/model"
	"github.com/protomem/timeclock/internal/payroll"
)

type ClockResult struct {
	ID           model.ID        `json:"id"`
	Type         model.EventType `json:"type"`
	EmployeeName string          `json:"employeeName"`
	Timestamp    string          `json:"timestamp"`

	// Set on OUT only.
	Hours      *float64 `json:"hours,omitempty"`
	Amount     *float64 `json:"amount,omitempty"`
	HourlyRate *float64 `json:"hourlyRate,omitempty"`
}

// ClockAction records an IN or OUT for employee on the current local day.
//
// A day allows one IN, then one OUT. Violations are returned as
// model.ErrAlreadyClockedIn, model.ErrNotClockedIn and
// model.ErrAlreadyClockedOut. The checks are repeated by the store on
// append, so a concurrent duplicate yields the same errors.
func (s *Service) ClockAction(ctx context.Context, employeeID model.ID, action model.EventType) (ClockResult, error) {
	if employeeID == 0 {
		return ClockResult{}, model.NewError("employeeId", model.ErrInvalidInput)
	}
	if !action.Valid() {
		return ClockResult{}, model.NewError("action", model.ErrInvalidInput)
	}

	employee, err := s.employees.Get(ctx, employeeID)
	if err != nil {
		return ClockResult{}, s.storeError("get employee", err)
	}

	now := s.now().UTC()
	start, end := s.resolver.DayRange(now)

	hasIn, err := s.events.ExistsInRange(ctx, employeeID, model.EventIn, start, end)
	if err != nil {
		return ClockResult{}, s.storeError("check in", err)
	}

	dto := database.AppendEventDTO{
		EmployeeID:   employeeID,
		Type:         action,
		EmployeeName: employee.Name,
		At:           now,
		LocalDate:    s.resolver.DateKey(now),
	}

	if action == model.EventIn {
		if hasIn {
			return ClockResult{}, model.ErrAlreadyClockedIn
		}

		event, err := s.events.Append(ctx, dto)
		if err != nil {
			if errors.Is(err, model.ErrExists) {
				return ClockResult{}, model.ErrAlreadyClockedIn
			}
			return ClockResult{}, s.storeError("append in", err)
		}

		return s.result(event), nil
	}

	if !hasIn {
		return ClockResult{}, model.ErrNotClockedIn
	}

	hasOut, err := s.events.ExistsInRange(ctx, employeeID, model.EventOut, start, end)
	if err != nil {
		return ClockResult{}, s.storeError("check out", err)
	}
	if hasOut {
		return ClockResult{}, model.ErrAlreadyClockedOut
	}

	dto.RequireIn = true
	event, err := s.events.Append(ctx, dto)
	if err != nil {
		switch {
		case errors.Is(err, model.ErrExists):
			return ClockResult{}, model.ErrAlreadyClockedOut
		case errors.Is(err, model.ErrNotClockedIn):
			return ClockResult{}, model.ErrNotClockedIn
		}
		return ClockResult{}, s.storeError("append out", err)
	}

	result := s.result(event)

	// Pay is paired with the latest IN before this OUT, which is not
	// necessarily today's.
	var pay payroll.Pay
	in, err := s.events.LatestOfTypeAtOrBefore(ctx, employeeID, model.EventIn, event.At)
	switch {
	case err == nil:
		if in.LocalDate != event.LocalDate {
			s.logger.Warn("out paired with in from another day",
				"employeeId", employeeID, "inDate", in.LocalDate, "outDate", event.LocalDate)
		}
		pay = payroll.Compute(&in.At, &event.At, employee.HourlyRate)
	case errors.Is(err, model.ErrNotFound):
		pay = payroll.Compute(nil, &event.At, employee.HourlyRate)
	default:
		return ClockResult{}, s.storeError("find in", err)
	}

	rate := employee.HourlyRate
	result.Hours = &pay.Hours
	result.Amount = &pay.Amount
	result.HourlyRate = &rate

	return result, nil
}

func (s *Service) result(event model.AttendanceEvent) ClockResult {
	return ClockResult{
		ID:           event.ID,
		Type:         event.Type,
		EmployeeName: event.EmployeeName,
		Timestamp:    s.resolver.Format(event.At),
	}
}
