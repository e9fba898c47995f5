// Package session groups an employee's attendance log into per-day sessions.
package session

import (
	"time"

	"github.com/protomem/timeclock/internal/localday"
	"github.com/protomem/timeclock/internal/model"
	"github.com/protomem/timeclock/internal/payroll"
	"golang.org/x/exp/slices"
)

// Session is an IN/OUT interval on one local day. Either side is nil for a
// stray event.
type Session struct {
	Date         string
	EmployeeName string
	In           *time.Time
	Out          *time.Time
}

func (s Session) Start() time.Time {
	if s.In != nil {
		return *s.In
	}
	return *s.Out
}

func (s Session) Pay(rate float64) payroll.Pay {
	return payroll.Compute(s.In, s.Out, rate)
}

type Day struct {
	Date     string
	Sessions []Session
}

type Pairer struct {
	resolver *localday.Resolver
}

func NewPairer(resolver *localday.Resolver) *Pairer {
	return &Pairer{resolver: resolver}
}

// Pair returns the sessions of events grouped by local date, most recent
// date first. events must be in chronological order.
func (p *Pairer) Pair(events []model.AttendanceEvent) []Day {
	days := p.PairAscending(events)
	slices.Reverse(days)
	return days
}

// PairAscending is Pair with dates oldest first.
func (p *Pairer) PairAscending(events []model.AttendanceEvent) []Day {
	byDate := make(map[string]*Day)
	order := make([]string, 0)

	for _, event := range events {
		at := event.At
		date := p.resolver.DateKey(at)

		day, ok := byDate[date]
		if !ok {
			day = &Day{Date: date}
			byDate[date] = day
			order = append(order, date)
		}

		switch event.Type {
		case model.EventIn:
			day.Sessions = append(day.Sessions, Session{
				Date:         date,
				EmployeeName: event.EmployeeName,
				In:           &at,
			})
		case model.EventOut:
			if n := len(day.Sessions); n > 0 && day.Sessions[n-1].Out == nil {
				day.Sessions[n-1].Out = &at
				continue
			}
			day.Sessions = append(day.Sessions, Session{
				Date:         date,
				EmployeeName: event.EmployeeName,
				Out:          &at,
			})
		}
	}

	// Dates are YYYY-MM-DD, so string order is calendar order.
	slices.Sort(order)

	result := make([]Day, 0, len(order))
	for _, date := range order {
		result = append(result, *byDate[date])
	}

	return result
}
