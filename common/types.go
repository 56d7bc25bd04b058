package common

import (
	"time"

	"github.com/chexy/chexy/internal/history"
	"github.com/chexy/chexy/pkg/tasklib"
)

// VersionResult is the response for system.getVersion.
type VersionResult struct {
	Version   string `json:"version"`
	Commit    string `json:"commit,omitempty"`
	BuildType string `json:"buildType,omitempty"`
}

// AddParams is the input for task.add.
type AddParams struct {
	Name           string    `json:"name"`
	Importance     string    `json:"importance"`
	CompletionTime time.Time `json:"completionTime"`
	InCharge       string    `json:"inCharge,omitempty"`
	ReminderTime   int       `json:"reminderTime,omitempty"`
	Recurrence     string    `json:"recurrence,omitempty"`
}

// ModifyParams is the input for task.modify. Absent fields are unchanged.
type ModifyParams struct {
	ID             string     `json:"id"`
	Name           *string    `json:"name,omitempty"`
	Importance     *string    `json:"importance,omitempty"`
	CompletionTime *time.Time `json:"completionTime,omitempty"`
	InCharge       *string    `json:"inCharge,omitempty"`
	ReminderTime   *int       `json:"reminderTime,omitempty"`
	Recurrence     *string    `json:"recurrence,omitempty"`
}

// IDParams addresses a single task.
type IDParams struct {
	ID string `json:"id"`
}

// CompleteParams is the input for task.complete. Undo clears the completion.
type CompleteParams struct {
	ID   string `json:"id"`
	Undo bool   `json:"undo,omitempty"`
}

// CompleteResult is the response for task.complete. Next is the spawned
// occurrence of a recurring task.
type CompleteResult struct {
	Task *tasklib.Task `json:"task"`
	Next *tasklib.Task `json:"next,omitempty"`
}

// ListParams is the input for task.list. Date (YYYY-MM-DD) takes precedence
// over View; Search narrows either.
type ListParams struct {
	View   string `json:"view,omitempty"`
	Date   string `json:"date,omitempty"`
	Search string `json:"search,omitempty"`
}

// ListDateLayout is the layout of ListParams.Date.
const ListDateLayout = "2006-01-02"

// ListResult is the response for task.list.
type ListResult struct {
	Tasks []*tasklib.Task `json:"tasks"`
}

// HistoryParams is the input for history.list.
type HistoryParams struct {
	Limit int `json:"limit,omitempty"`
}

// HistoryResult is the response for history.list.
type HistoryResult struct {
	Entries []history.Entry `json:"entries"`
}

// TickResult is the response for scheduler.tick. Ran is false when a tick
// was already in flight.
type TickResult struct {
	Ran      bool   `json:"ran"`
	Notified int    `json:"notified"`
	Error    string `json:"error,omitempty"`
}

// EmptyResult is a placeholder for methods that return no data.
type EmptyResult struct{}

// TaskDueNotification is pushed as task.due when a notification fires.
type TaskDueNotification struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Importance string `json:"importance"`
	Reason     string `json:"reason"`
	Title      string `json:"title"`
	Message    string `json:"message"`
}

// TaskAcknowledgedNotification is pushed as task.acknowledged once the
// prompt for a high importance task was dismissed.
type TaskAcknowledgedNotification struct {
	ID string `json:"id"`
}
