package attendance

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"math/rand"
	"testing"
	"time"

	"github.com/protomem/timeclock/internal/database"
	"github.com/protomem/timeclock/internal/localday"
	"github.com/protomem/timeclock/internal/memstore"
	"github.com/protomem/timeclock/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var _sydney = localday.MustNew(localday.DefaultZone)

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

// set moves the clock to a Sydney wall time in June 2024.
func (c *fakeClock) set(day, hour, minute int) {
	c.now = time.Date(2024, 6, day, hour, minute, 0, 0, _sydney.Location())
}

type fixture struct {
	svc   *Service
	store *memstore.Store
	clock *fakeClock
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	store := memstore.New()
	clock := &fakeClock{}
	clock.set(10, 8, 0)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := NewService(logger, store, store, _sydney, WithClock(clock.Now))

	return &fixture{svc: svc, store: store, clock: clock}
}

func (f *fixture) employee(t *testing.T, name, passcode string, rate float64) model.ID {
	t.Helper()
	e, err := f.svc.AddEmployee(context.Background(), name, passcode, rate)
	require.NoError(t, err)
	return e.ID
}

func TestClockInOut(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	id := f.employee(t, "Anmol", "1111", 30)

	in, err := f.svc.ClockAction(ctx, id, model.EventIn)
	require.NoError(t, err)
	assert.Equal(t, model.EventIn, in.Type)
	assert.Equal(t, "Anmol", in.EmployeeName)
	assert.Equal(t, "2024-06-10 08:00:00", in.Timestamp)
	assert.Nil(t, in.Hours)

	f.clock.set(10, 16, 0)
	out, err := f.svc.ClockAction(ctx, id, model.EventOut)
	require.NoError(t, err)
	assert.Equal(t, model.EventOut, out.Type)
	assert.Equal(t, "2024-06-10 16:00:00", out.Timestamp)
	require.NotNil(t, out.Hours)
	assert.Equal(t, 8.0, *out.Hours)
	assert.Equal(t, 240.0, *out.Amount)
	assert.Equal(t, 30.0, *out.HourlyRate)
}

func TestClockRuleViolations(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	id := f.employee(t, "Anmol", "1111", 30)

	_, err := f.svc.ClockAction(ctx, id, model.EventOut)
	assert.ErrorIs(t, err, model.ErrNotClockedIn)

	_, err = f.svc.ClockAction(ctx, id, model.EventIn)
	require.NoError(t, err)

	f.clock.set(10, 9, 0)
	_, err = f.svc.ClockAction(ctx, id, model.EventIn)
	assert.ErrorIs(t, err, model.ErrAlreadyClockedIn)

	f.clock.set(10, 17, 0)
	_, err = f.svc.ClockAction(ctx, id, model.EventOut)
	require.NoError(t, err)

	f.clock.set(10, 18, 0)
	_, err = f.svc.ClockAction(ctx, id, model.EventOut)
	assert.ErrorIs(t, err, model.ErrAlreadyClockedOut)

	_, err = f.svc.ClockAction(ctx, id, model.EventIn)
	assert.ErrorIs(t, err, model.ErrAlreadyClockedIn)

	// New local day starts clean.
	f.clock.set(11, 0, 5)
	_, err = f.svc.ClockAction(ctx, id, model.EventIn)
	assert.NoError(t, err)
}

func TestClockInvalidInput(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	_, err := f.svc.ClockAction(ctx, 0, model.EventIn)
	assert.ErrorIs(t, err, model.ErrInvalidInput)

	_, err = f.svc.ClockAction(ctx, 1, model.EventType("BREAK"))
	assert.ErrorIs(t, err, model.ErrInvalidInput)

	_, err = f.svc.ClockAction(ctx, 5, model.EventIn)
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestClockUsesLocalDay(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	id := f.employee(t, "Anmol", "1111", 30)

	// 23:30 and 00:30 Sydney share a UTC date but not a local one.
	f.clock.set(10, 23, 30)
	_, err := f.svc.ClockAction(ctx, id, model.EventIn)
	require.NoError(t, err)

	f.clock.set(11, 0, 30)
	_, err = f.svc.ClockAction(ctx, id, model.EventOut)
	assert.ErrorIs(t, err, model.ErrNotClockedIn)

	_, err = f.svc.ClockAction(ctx, id, model.EventIn)
	assert.NoError(t, err)
}

// racyEvents reports no existing events, as a concurrent request that read
// before the other one's write would see.
type racyEvents struct {
	*memstore.Store
}

func (racyEvents) ExistsInRange(context.Context, model.ID, model.EventType, time.Time, time.Time) (bool, error) {
	return false, nil
}

func TestClockConflictFromStore(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	id := f.employee(t, "Anmol", "1111", 30)

	_, err := f.svc.ClockAction(ctx, id, model.EventIn)
	require.NoError(t, err)

	racy := NewService(f.svc.logger, f.store, racyEvents{f.store}, _sydney, WithClock(f.clock.Now))

	_, err = racy.ClockAction(ctx, id, model.EventIn)
	assert.ErrorIs(t, err, model.ErrAlreadyClockedIn)

	// With no IN visible the engine refuses before touching the store.
	_, err = racy.ClockAction(ctx, id, model.EventOut)
	assert.ErrorIs(t, err, model.ErrNotClockedIn)

	f.clock.set(10, 16, 0)
	_, err = f.svc.ClockAction(ctx, id, model.EventOut)
	require.NoError(t, err)

	racyOut := NewService(f.svc.logger, f.store, racyOutEvents{f.store}, _sydney, WithClock(f.clock.Now))

	_, err = racyOut.ClockAction(ctx, id, model.EventOut)
	assert.ErrorIs(t, err, model.ErrAlreadyClockedOut)
}

// racyOutEvents sees today's IN but not a concurrent OUT.
type racyOutEvents struct {
	*memstore.Store
}

func (racyOutEvents) ExistsInRange(_ context.Context, _ model.ID, typ model.EventType, _, _ time.Time) (bool, error) {
	return typ == model.EventIn, nil
}

type failingEvents struct {
	*memstore.Store
}

func (failingEvents) ExistsInRange(context.Context, model.ID, model.EventType, time.Time, time.Time) (bool, error) {
	return false, errors.New("connection refused")
}

func (failingEvents) Latest(context.Context, model.ID) (model.AttendanceEvent, error) {
	return model.AttendanceEvent{}, errors.New("connection refused")
}

func TestClockStoreUnavailable(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	id := f.employee(t, "Anmol", "1111", 30)

	svc := NewService(f.svc.logger, f.store, failingEvents{f.store}, _sydney, WithClock(f.clock.Now))

	_, err := svc.ClockAction(ctx, id, model.EventIn)
	assert.ErrorIs(t, err, model.ErrStoreUnavailable)
	assert.False(t, model.IsRuleViolation(err))

	_, err = svc.Status(ctx, id)
	assert.ErrorIs(t, err, model.ErrStoreUnavailable)
}

func TestClockPairsWithPriorIn(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	id := f.employee(t, "Anmol", "1111", 20)

	// A stale IN from an earlier day must not be picked when today's exists.
	_, err := f.store.Append(ctx, database.AppendEventDTO{
		EmployeeID: id, Type: model.EventIn, EmployeeName: "Anmol",
		At: time.Date(2024, 6, 8, 9, 0, 0, 0, _sydney.Location()), LocalDate: "2024-06-08",
	})
	require.NoError(t, err)

	f.clock.set(10, 9, 0)
	_, err = f.svc.ClockAction(ctx, id, model.EventIn)
	require.NoError(t, err)

	f.clock.now = f.clock.now.Add(7*time.Hour + 18*time.Second)
	out, err := f.svc.ClockAction(ctx, id, model.EventOut)
	require.NoError(t, err)
	assert.Equal(t, 140.1, *out.Amount)
}

func TestClockRulesHoldAcrossDays(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	ids := []model.ID{
		f.employee(t, "Anmol", "1111", 30),
		f.employee(t, "Harshit", "2222", 25.5),
		f.employee(t, "Shivani", "3333", 28.75),
	}

	rnd := rand.New(rand.NewSource(42))
	f.clock.now = time.Date(2024, 3, 30, 20, 0, 0, 0, _sydney.Location())

	for i := 0; i < 2000; i++ {
		// Steps of up to 3h cross local midnights and the April DST change.
		f.clock.now = f.clock.now.Add(time.Duration(rnd.Intn(180)+1) * time.Minute)

		id := ids[rnd.Intn(len(ids))]
		action := model.EventIn
		if rnd.Intn(2) == 0 {
			action = model.EventOut
		}

		_, err := f.svc.ClockAction(ctx, id, action)
		if err != nil && !model.IsRuleViolation(err) {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	for _, id := range ids {
		events, err := f.store.AllOrdered(ctx, id)
		require.NoError(t, err)
		require.NotEmpty(t, events)

		seen := make(map[string]bool)
		ins := make(map[string]bool)
		for _, e := range events {
			date := _sydney.DateKey(e.At)
			require.Equal(t, date, e.LocalDate)

			key := date + "/" + string(e.Type)
			require.False(t, seen[key], "duplicate %s", key)
			seen[key] = true

			if e.Type == model.EventIn {
				ins[date] = true
			} else {
				require.True(t, ins[date], "OUT without IN on %s", date)
			}
		}
	}
}

func TestStatus(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	id := f.employee(t, "Anmol", "1111", 30)

	status, err := f.svc.Status(ctx, id)
	require.NoError(t, err)
	assert.Nil(t, status)

	_, err = f.svc.ClockAction(ctx, id, model.EventIn)
	require.NoError(t, err)

	status, err = f.svc.Status(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, status)
	assert.Equal(t, &StatusEvent{Type: model.EventIn, Timestamp: "2024-06-10 08:00:00"}, status)

	_, err = f.svc.Status(ctx, 0)
	assert.ErrorIs(t, err, model.ErrInvalidInput)
}
