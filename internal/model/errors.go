package model

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrNotFound = errors.New("not found")
	ErrExists   = errors.New("already exists")

	ErrInvalidInput        = errors.New("invalid input")
	ErrDuplicateCredential = errors.New("passcode already exists")
	ErrStoreUnavailable    = errors.New("store unavailable")
)

// Clock rule violations. These are expected outcomes of a clock action,
// returned as plain values and never logged as failures.
var (
	ErrAlreadyClockedIn  = errors.New("already clocked IN today")
	ErrAlreadyClockedOut = errors.New("already clocked OUT today")
	ErrNotClockedIn      = errors.New("cannot clock OUT without clocking IN today")
)

func NewError(model string, err error) error {
	return fmt.Errorf("%s: %w", strings.ToLower(model), err)
}

// Unavailable wraps a persistence failure so callers can match it with
// errors.Is(err, ErrStoreUnavailable) while the cause stays in the chain.
func Unavailable(err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
}

// IsRuleViolation reports whether err is one of the clock rule outcomes.
func IsRuleViolation(err error) bool {
	return errors.Is(err, ErrAlreadyClockedIn) ||
		errors.Is(err, ErrAlreadyClockedOut) ||
		errors.Is(err, ErrNotClockedIn)
}
