package attendance

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/protomem/timeclock/internal/model"
	"golang.org/x/exp/slices"
)

type StatusEvent struct {
	Type      model.EventType `json:"type"`
	Timestamp string          `json:"timestamp"`
}

// Status returns the latest event of employee, or nil if there is none.
func (s *Service) Status(ctx context.Context, employeeID model.ID) (*StatusEvent, error) {
	if employeeID == 0 {
		return nil, model.NewError("employeeId", model.ErrInvalidInput)
	}

	event, err := s.events.Latest(ctx, employeeID)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return nil, nil
		}
		return nil, s.storeError("latest", err)
	}

	return &StatusEvent{
		Type:      event.Type,
		Timestamp: s.resolver.Format(event.At),
	}, nil
}

type SessionView struct {
	InTime  *string `json:"inTime"`
	OutTime *string `json:"outTime"`
}

type DayHistory struct {
	Date     string        `json:"date"`
	Sessions []SessionView `json:"sessions"`
}

// History returns the sessions of employee grouped by local date, most
// recent first, with local display timestamps.
func (s *Service) History(ctx context.Context, employeeID model.ID) ([]DayHistory, error) {
	if employeeID == 0 {
		return nil, model.NewError("employeeId", model.ErrInvalidInput)
	}

	events, err := s.events.AllOrdered(ctx, employeeID)
	if err != nil {
		return nil, s.storeError("all ordered", err)
	}

	days := s.pairer.Pair(events)

	history := make([]DayHistory, 0, len(days))
	for _, day := range days {
		views := make([]SessionView, 0, len(day.Sessions))
		for _, sess := range day.Sessions {
			views = append(views, SessionView{
				InTime:  s.resolver.FormatPtr(sess.In),
				OutTime: s.resolver.FormatPtr(sess.Out),
			})
		}
		history = append(history, DayHistory{Date: day.Date, Sessions: views})
	}

	return history, nil
}

type ReportRow struct {
	EmployeeName string  `json:"employeeName"`
	HourlyRate   float64 `json:"hourlyRate"`
	InTime       *string `json:"inTime"`
	OutTime      *string `json:"outTime"`
	Hours        float64 `json:"hours"`
	Amount       float64 `json:"amount"`

	employeeID model.ID
}

// ExportReport returns one row per session across all employees, sorted by
// employee name and then chronologically.
func (s *Service) ExportReport(ctx context.Context) ([]ReportRow, error) {
	employees, err := s.employees.List(ctx)
	if err != nil {
		return nil, s.storeError("list employees", err)
	}

	byID := make(map[model.ID]model.Employee, len(employees))
	for _, e := range employees {
		byID[e.ID] = e
	}

	events, err := s.events.ListAll(ctx)
	if err != nil {
		return nil, s.storeError("list events", err)
	}

	rows := make([]ReportRow, 0, len(events))
	for len(events) > 0 {
		// Events are ordered by employee, so each run is one employee's log.
		n := 1
		for n < len(events) && events[n].EmployeeID == events[0].EmployeeID {
			n++
		}

		rows = append(rows, s.reportRows(byID, events[0].EmployeeID, events[:n])...)
		events = events[n:]
	}

	slices.SortStableFunc(rows, func(a, b ReportRow) int {
		if c := strings.Compare(a.EmployeeName, b.EmployeeName); c != 0 {
			return c
		}
		return cmp.Compare(a.employeeID, b.employeeID)
	})

	return rows, nil
}

func (s *Service) reportRows(byID map[model.ID]model.Employee, employeeID model.ID, events []model.AttendanceEvent) []ReportRow {
	employee := byID[employeeID]

	rows := make([]ReportRow, 0, len(events))
	for _, day := range s.pairer.PairAscending(events) {
		for _, sess := range day.Sessions {
			name := sess.EmployeeName
			if name == "" {
				name = employee.Name
			}
			if name == "" {
				name = fmt.Sprintf("#%d", employeeID)
			}

			rate := employee.HourlyRate
			pay := sess.Pay(rate)
			rows = append(rows, ReportRow{
				EmployeeName: name,
				HourlyRate:   rate,
				InTime:       s.resolver.FormatPtr(sess.In),
				OutTime:      s.resolver.FormatPtr(sess.Out),
				Hours:        pay.Hours,
				Amount:       pay.Amount,
				employeeID:   employeeID,
			})
		}
	}

	return rows
}
