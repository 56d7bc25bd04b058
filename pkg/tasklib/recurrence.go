package tasklib

import (
	"fmt"
	"strings"
	"time"

	"github.com/adhocore/gronx"
)

// recurrenceHorizon bounds how far ahead a recurrence must fire at least once.
const recurrenceHorizon = 366 * 24 * time.Hour

// ValidateRecurrence checks a recurrence cron expression. An empty expression
// means the task does not recur. Exactly 5 fields are accepted since
// gronx.IsValid also takes a 6-field form with seconds.
func ValidateRecurrence(expr string) error {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return nil
	}
	if len(strings.Fields(expr)) != 5 || !gronx.IsValid(expr) {
		return fmt.Errorf("%w: %q", ErrInvalidRecurrence, expr)
	}
	return nil
}

// NextOccurrence returns the first time expr fires strictly after from.
// Expressions that never fire within a year are rejected.
func NextOccurrence(expr string, from time.Time) (time.Time, error) {
	if err := ValidateRecurrence(expr); err != nil {
		return time.Time{}, err
	}
	if strings.TrimSpace(expr) == "" {
		return time.Time{}, fmt.Errorf("%w: empty expression", ErrInvalidRecurrence)
	}
	next, err := gronx.NextTickAfter(expr, from, false)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %v", ErrInvalidRecurrence, err)
	}
	if !next.Before(from.Add(recurrenceHorizon)) {
		return time.Time{}, fmt.Errorf("%w: %q has no occurrence within a year", ErrInvalidRecurrence, expr)
	}
	return next, nil
}
