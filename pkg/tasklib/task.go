// Package tasklib holds the CheXy task model and the Store that owns the task
// collection and persists it as a single versioned snapshot file.
package tasklib

import (
	"fmt"
	"strings"
	"time"
)

// Importance ranks a task. High importance escalates notifications to a
// blocking acknowledgment prompt.
type Importance string

const (
	ImportanceLow    Importance = "low"
	ImportanceMedium Importance = "medium"
	ImportanceHigh   Importance = "high"
)

// DefaultReminderDays is used when a reminder time is unset or not positive.
const DefaultReminderDays = 1

// ParseImportance parses an importance level case-insensitively.
func ParseImportance(s string) (Importance, error) {
	switch imp := Importance(strings.ToLower(strings.TrimSpace(s))); imp {
	case ImportanceLow, ImportanceMedium, ImportanceHigh:
		return imp, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidImportance, s)
	}
}

// Task is a single schedule entry.
type Task struct {
	ID             string     `json:"id"`
	Name           string     `json:"name"`
	Importance     Importance `json:"importance"`
	CompletionTime time.Time  `json:"completionTime"`
	InCharge       string     `json:"inCharge"`
	// ReminderTime is the number of days before the due moment at which the
	// custom reminder fires. Always >= 1.
	ReminderTime int `json:"reminderTime"`
	// ActualTime is set when the task is completed and nil while pending.
	ActualTime *time.Time `json:"actualTime,omitempty"`
	Starred    bool       `json:"starred"`
	// NotificationShown latches once any notification fired in the current
	// due cycle.
	NotificationShown bool `json:"notificationShown"`
	// Recurrence is an optional 5-field cron expression. Completing a
	// recurring task schedules its next occurrence.
	Recurrence string `json:"recurrence,omitempty"`
}

// IsCompleted reports whether the task has an actual completion time.
func (t *Task) IsCompleted() bool {
	return t.ActualTime != nil
}

// Clone returns a deep copy of the task.
func (t *Task) Clone() *Task {
	c := *t
	if t.ActualTime != nil {
		at := *t.ActualTime
		c.ActualTime = &at
	}
	return &c
}

// NormalizeReminder clamps a reminder day count to the default when it is
// not positive.
func NormalizeReminder(days int) int {
	if days < 1 {
		return DefaultReminderDays
	}
	return days
}

// NewTask carries the fields assigned to a task at creation.
type NewTask struct {
	Name           string
	Importance     Importance
	CompletionTime time.Time
	InCharge       string
	ReminderTime   int
	Recurrence     string
}

func (n *NewTask) build(id string) (*Task, error) {
	name := strings.TrimSpace(n.Name)
	if name == "" {
		return nil, ErrEmptyName
	}
	imp, err := ParseImportance(string(n.Importance))
	if err != nil {
		return nil, err
	}
	if n.CompletionTime.IsZero() {
		return nil, ErrMissingDueTime
	}
	if err := ValidateRecurrence(n.Recurrence); err != nil {
		return nil, err
	}
	return &Task{
		ID:             id,
		Name:           name,
		Importance:     imp,
		CompletionTime: n.CompletionTime,
		InCharge:       n.InCharge,
		ReminderTime:   NormalizeReminder(n.ReminderTime),
		Recurrence:     strings.TrimSpace(n.Recurrence),
	}, nil
}

// Patch lists the fields to change on an existing task. Nil fields are left
// untouched.
type Patch struct {
	Name           *string
	Importance     *Importance
	CompletionTime *time.Time
	InCharge       *string
	ReminderTime   *int
	Recurrence     *string
}

// apply validates the whole patch before touching t so a task is never left
// partially modified. Changing any due-affecting field resets the
// notification latch.
func (p *Patch) apply(t *Task) error {
	next := t.Clone()
	if p.Name != nil {
		name := strings.TrimSpace(*p.Name)
		if name == "" {
			return ErrEmptyName
		}
		next.Name = name
	}
	if p.Importance != nil {
		imp, err := ParseImportance(string(*p.Importance))
		if err != nil {
			return err
		}
		next.Importance = imp
	}
	if p.InCharge != nil {
		next.InCharge = *p.InCharge
	}
	if p.CompletionTime != nil {
		if p.CompletionTime.IsZero() {
			return ErrMissingDueTime
		}
		next.CompletionTime = *p.CompletionTime
		next.NotificationShown = false
	}
	if p.ReminderTime != nil {
		next.ReminderTime = NormalizeReminder(*p.ReminderTime)
		next.NotificationShown = false
	}
	if p.Recurrence != nil {
		expr := strings.TrimSpace(*p.Recurrence)
		if err := ValidateRecurrence(expr); err != nil {
			return err
		}
		next.Recurrence = expr
		next.NotificationShown = false
	}
	*t = *next
	return nil
}

// IsEmpty reports whether the patch changes nothing.
func (p *Patch) IsEmpty() bool {
	return p.Name == nil && p.Importance == nil && p.CompletionTime == nil &&
		p.InCharge == nil && p.ReminderTime == nil && p.Recurrence == nil
}
