// Package localday maps stored UTC instants onto calendar days of the single
// zone the service runs in.
package localday

import (
	"fmt"
	"time"
	_ "time/tzdata"

	"github.com/protomem/timeclock/internal/model"
)

const (
	DefaultZone = "Australia/Sydney"

	DateLayout      = "2006-01-02"
	TimestampLayout = "2006-01-02 15:04:05"
)

type Resolver struct {
	loc *time.Location
}

func New(zone string) (*Resolver, error) {
	loc, err := time.LoadLocation(zone)
	if err != nil {
		return nil, fmt.Errorf("timezone %q: %w", zone, model.ErrInvalidInput)
	}
	return &Resolver{loc: loc}, nil
}

func MustNew(zone string) *Resolver {
	r, err := New(zone)
	if err != nil {
		panic(err)
	}
	return r
}

func (r *Resolver) Location() *time.Location {
	return r.loc
}

// DateKey returns the local calendar date of t as YYYY-MM-DD.
func (r *Resolver) DateKey(t time.Time) string {
	return t.In(r.loc).Format(DateLayout)
}

// DayRange returns the UTC bounds of the local day containing t. end is the
// last instant before the next local midnight, so both bounds are inclusive.
func (r *Resolver) DayRange(t time.Time) (start, end time.Time) {
	local := t.In(r.loc)
	y, m, d := local.Date()

	// time.Date normalizes a midnight skipped by a DST jump forward.
	startLocal := time.Date(y, m, d, 0, 0, 0, 0, r.loc)
	nextLocal := time.Date(y, m, d+1, 0, 0, 0, 0, r.loc)

	return startLocal.UTC(), nextLocal.Add(-time.Nanosecond).UTC()
}

// Format renders t as a local display timestamp. The zero time renders empty.
func (r *Resolver) Format(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.In(r.loc).Format(TimestampLayout)
}

func (r *Resolver) FormatPtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := r.Format(*t)
	return &s
}
