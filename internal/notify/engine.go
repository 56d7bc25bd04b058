// Package notify decides which tasks need a due notification and routes the
// resulting notifications to their sinks.
//
// Classification is pure: Classify maps a task and an instant to a Reason.
// The Engine adds the at-most-once latch on top, and the Dispatcher performs
// the side effects outside the store lock.
package notify

import (
	"time"

	"github.com/chexy/chexy/pkg/tasklib"
)

const day = 24 * time.Hour

// fixedThresholds are the day counts that always fire, in match order.
var fixedThresholds = []int{7, 3, 2, 1}

// Classify returns the reason a notification should fire for t at now, if
// any. The first matching rule wins: overdue, then the fixed day thresholds,
// then the task's own reminder day count. Day counts are whole days rounded
// down.
func Classify(t *tasklib.Task, now time.Time) (Reason, bool) {
	until := t.CompletionTime.Sub(now)
	if until <= 0 {
		return Reason{Kind: ReasonDueNow}, true
	}
	days := int(until / day)
	for _, n := range fixedThresholds {
		if days == n {
			return Reason{Kind: ReasonDueIn, Days: n}, true
		}
	}
	if days == tasklib.NormalizeReminder(t.ReminderTime) {
		return Reason{Kind: ReasonCustom, Days: days}, true
	}
	return Reason{}, false
}

// Eligible reports whether t may still be notified in its current due cycle.
func Eligible(t *tasklib.Task) bool {
	return !t.IsCompleted() && !t.NotificationShown
}

// Due is a task that crossed a threshold. Task is a copy taken at scan time.
type Due struct {
	Task   *tasklib.Task
	Reason Reason
	At     time.Time
}

// Updater runs a mutation on the live task collection and persists it.
// *tasklib.Store implements it.
type Updater interface {
	Update(fn func(tasks []*tasklib.Task) (changed bool)) error
}

// Engine applies Classify to a task collection and latches every task it
// emits so the same due cycle never fires twice.
type Engine struct{}

// NewEngine returns an Engine.
func NewEngine() *Engine {
	return &Engine{}
}

// Scan classifies every eligible task at now and sets the latch on each
// emitted task. Scanning twice at the same instant emits nothing the second
// time.
func (e *Engine) Scan(now time.Time, tasks []*tasklib.Task) []Due {
	var dues []Due
	for _, t := range tasks {
		if !Eligible(t) {
			continue
		}
		reason, ok := Classify(t, now)
		if !ok {
			continue
		}
		t.NotificationShown = true
		dues = append(dues, Due{Task: t.Clone(), Reason: reason, At: now})
	}
	return dues
}

// Sweep runs Scan inside a single store update so the latch flips are
// persisted together with any pending save. The dues are returned even when
// the save fails: the latches are set in memory and the store retries the
// save on its next update.
func (e *Engine) Sweep(u Updater, now time.Time) ([]Due, error) {
	var dues []Due
	err := u.Update(func(tasks []*tasklib.Task) bool {
		dues = e.Scan(now, tasks)
		return len(dues) > 0
	})
	return dues, err
}
