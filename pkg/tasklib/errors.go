package tasklib

import "errors"

var (
	// ErrTaskNotFound is returned when no task carries the requested id.
	ErrTaskNotFound = errors.New("task not found")
	// ErrEmptyName is returned when a task is created or renamed with a blank name.
	ErrEmptyName = errors.New("task name is empty")
	// ErrInvalidImportance is returned for importance values outside low/medium/high.
	ErrInvalidImportance = errors.New("invalid importance, expected low, medium or high")
	// ErrMissingDueTime is returned when a task is created without a completion time.
	ErrMissingDueTime = errors.New("completion time is required")
	// ErrInvalidRecurrence is returned for cron expressions that are not 5-field or never fire.
	ErrInvalidRecurrence = errors.New("invalid recurrence, expected 5-field cron expression")
	// ErrInvalidView is returned by ParseView for unknown view names.
	ErrInvalidView = errors.New("invalid view")
	// ErrSaveFailed wraps every snapshot write failure. The in-memory state is
	// kept and the store stays dirty until a later save succeeds.
	ErrSaveFailed = errors.New("snapshot save failed")
)
