package model

import (
	"strings"
	"time"
)

type ID = uint

type EventType string

const (
	EventIn  EventType = "IN"
	EventOut EventType = "OUT"
)

func (t EventType) Valid() bool {
	return t == EventIn || t == EventOut
}

// ParseAction maps a client action ("in", "OUT", ...) to an event type.
func ParseAction(action string) (EventType, error) {
	switch EventType(strings.ToUpper(strings.TrimSpace(action))) {
	case EventIn:
		return EventIn, nil
	case EventOut:
		return EventOut, nil
	default:
		return "", NewError("action", ErrInvalidInput)
	}
}

type Employee struct {
	ID        ID        `json:"id" db:"id"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`

	Name       string  `json:"name" db:"name"`
	Passcode   string  `json:"-" db:"passcode"`
	HourlyRate float64 `json:"hourlyRate" db:"hourly_rate"`
}

// AttendanceEvent is immutable once stored. EmployeeName is the name at the
// time of the event, LocalDate the calendar date of At in the service zone.
type AttendanceEvent struct {
	ID           ID        `json:"id" db:"id"`
	EmployeeID   ID        `json:"employeeId" db:"employee_id"`
	Type         EventType `json:"type" db:"type"`
	EmployeeName string    `json:"employeeName" db:"employee_name"`
	At           time.Time `json:"at" db:"at"`
	LocalDate    string    `json:"localDate" db:"local_date"`
}
