// Package memstore keeps employees and the attendance log in process memory.
// Records live in append-only arenas; each employee's events are indexed in
// chronological order.
package memstore

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/protomem/timeclock/internal/database"
	"github.com/protomem/timeclock/internal/model"
)

type dailyKey struct {
	employee model.ID
	typ      model.EventType
	date     string
}

type Store struct {
	mu sync.RWMutex

	employees  []model.Employee
	byPasscode map[string]model.ID

	events     []model.AttendanceEvent
	byEmployee map[model.ID][]int
	daily      map[dailyKey]model.ID

	now func() time.Time
}

func New() *Store {
	return &Store{
		byPasscode: make(map[string]model.ID),
		byEmployee: make(map[model.ID][]int),
		daily:      make(map[dailyKey]model.ID),
		now:        time.Now,
	}
}

func (s *Store) Insert(_ context.Context, dto database.InsertEmployeeDTO) (model.ID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.byPasscode[dto.Passcode]; ok {
		return 0, model.NewError("employee", model.ErrExists)
	}

	id := model.ID(len(s.employees) + 1)
	s.employees = append(s.employees, model.Employee{
		ID:         id,
		CreatedAt:  s.now().UTC(),
		Name:       dto.Name,
		Passcode:   dto.Passcode,
		HourlyRate: dto.HourlyRate,
	})
	s.byPasscode[dto.Passcode] = id

	return id, nil
}

func (s *Store) Get(_ context.Context, id model.ID) (model.Employee, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.employee(id)
}

func (s *Store) employee(id model.ID) (model.Employee, error) {
	if id == 0 || int(id) > len(s.employees) {
		return model.Employee{}, model.NewError("employee", model.ErrNotFound)
	}
	return s.employees[id-1], nil
}

func (s *Store) GetByPasscode(_ context.Context, passcode string) (model.Employee, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.byPasscode[passcode]
	if !ok {
		return model.Employee{}, model.NewError("employee", model.ErrNotFound)
	}
	return s.employee(id)
}

func (s *Store) List(_ context.Context) ([]model.Employee, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	employees := make([]model.Employee, len(s.employees))
	copy(employees, s.employees)
	sort.SliceStable(employees, func(i, j int) bool {
		return employees[i].Name < employees[j].Name
	})

	return employees, nil
}

// Append stores an event. The daily uniqueness and RequireIn checks run
// under the same lock as the write.
func (s *Store) Append(_ context.Context, dto database.AppendEventDTO) (model.AttendanceEvent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.employee(dto.EmployeeID); err != nil {
		return model.AttendanceEvent{}, err
	}

	key := dailyKey{employee: dto.EmployeeID, typ: dto.Type, date: dto.LocalDate}
	if _, ok := s.daily[key]; ok {
		return model.AttendanceEvent{}, model.NewError("attendance", model.ErrExists)
	}
	if dto.RequireIn {
		in := dailyKey{employee: dto.EmployeeID, typ: model.EventIn, date: dto.LocalDate}
		if _, ok := s.daily[in]; !ok {
			return model.AttendanceEvent{}, model.NewError("attendance", model.ErrNotClockedIn)
		}
	}

	event := model.AttendanceEvent{
		ID:           model.ID(len(s.events) + 1),
		EmployeeID:   dto.EmployeeID,
		Type:         dto.Type,
		EmployeeName: dto.EmployeeName,
		At:           dto.At.UTC(),
		LocalDate:    dto.LocalDate,
	}

	s.events = append(s.events, event)
	s.daily[key] = event.ID
	s.index(event.EmployeeID, len(s.events)-1)

	return event, nil
}

// index inserts pos into the employee's index keeping (At, ID) order.
func (s *Store) index(employee model.ID, pos int) {
	idx := s.byEmployee[employee]
	at := s.events[pos].At

	i := sort.Search(len(idx), func(i int) bool {
		return s.events[idx[i]].At.After(at)
	})

	idx = append(idx, 0)
	copy(idx[i+1:], idx[i:])
	idx[i] = pos
	s.byEmployee[employee] = idx
}

func (s *Store) ExistsInRange(_ context.Context, employee model.ID, typ model.EventType, start, end time.Time) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, pos := range s.byEmployee[employee] {
		e := s.events[pos]
		if e.Type == typ && !e.At.Before(start) && !e.At.After(end) {
			return true, nil
		}
	}
	return false, nil
}

func (s *Store) Latest(_ context.Context, employee model.ID) (model.AttendanceEvent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	idx := s.byEmployee[employee]
	if len(idx) == 0 {
		return model.AttendanceEvent{}, model.NewError("attendance", model.ErrNotFound)
	}
	return s.events[idx[len(idx)-1]], nil
}

func (s *Store) LatestOfTypeAtOrBefore(_ context.Context, employee model.ID, typ model.EventType, at time.Time) (model.AttendanceEvent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	idx := s.byEmployee[employee]
	for i := len(idx) - 1; i >= 0; i-- {
		e := s.events[idx[i]]
		if e.Type == typ && !e.At.After(at) {
			return e, nil
		}
	}
	return model.AttendanceEvent{}, model.NewError("attendance", model.ErrNotFound)
}

func (s *Store) AllOrdered(_ context.Context, employee model.ID) ([]model.AttendanceEvent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.collect(employee), nil
}

func (s *Store) collect(employee model.ID) []model.AttendanceEvent {
	idx := s.byEmployee[employee]
	events := make([]model.AttendanceEvent, 0, len(idx))
	for _, pos := range idx {
		events = append(events, s.events[pos])
	}
	return events
}

func (s *Store) ListAll(_ context.Context) ([]model.AttendanceEvent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]model.ID, 0, len(s.byEmployee))
	for id := range s.byEmployee {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	events := make([]model.AttendanceEvent, 0, len(s.events))
	for _, id := range ids {
		events = append(events, s.collect(id)...)
	}
	return events, nil
}
