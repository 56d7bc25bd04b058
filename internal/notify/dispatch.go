package notify

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/chexy/chexy/internal/history"
	"github.com/chexy/chexy/pkg/logger"
	"github.com/chexy/chexy/pkg/tasklib"
)

const (
	// TitleReminder is used for low and medium importance tasks.
	TitleReminder = "Task Reminder"
	// TitleImportant is used for high importance tasks.
	TitleImportant = "Important Task Reminder"
)

// Message renders the notification body for a due task.
func Message(name string, r Reason) string {
	return fmt.Sprintf("'%s' is %s.", name, r)
}

// Build turns a Due into the Notification handed to sinks.
func Build(d Due, source string) Notification {
	title := TitleReminder
	if d.Task.Importance == tasklib.ImportanceHigh {
		title = TitleImportant
	}
	return Notification{
		TaskID:     d.Task.ID,
		Name:       d.Task.Name,
		Importance: string(d.Task.Importance),
		Reason:     d.Reason.String(),
		Title:      title,
		Body:       Message(d.Task.Name, d.Reason),
		Source:     source,
	}
}

// Recorder stores delivery attempts. *history.Log implements it.
type Recorder interface {
	Record(ctx context.Context, e history.Entry) error
}

// DispatcherConfig wires a Dispatcher. Only Sink is required.
type DispatcherConfig struct {
	Sink Sink
	// Prompter receives high importance notifications in addition to Sink.
	Prompter Prompter
	Recorder Recorder
	// OnAcknowledged runs after a prompt was dismissed.
	OnAcknowledged func(d Due)
	Logger         logger.Logger
	// Source is the notification source label.
	Source string
}

// Dispatcher routes dues to sinks by importance. Delivery failures are
// logged and recorded but never retried: the latch was already set by the
// engine.
type Dispatcher struct {
	cfg DispatcherConfig
	log logger.Logger
	wg  sync.WaitGroup
}

// NewDispatcher returns a Dispatcher for cfg.
func NewDispatcher(cfg DispatcherConfig) *Dispatcher {
	l := cfg.Logger
	if l == nil {
		l = logger.NewNopLogger()
	}
	if cfg.Sink == nil {
		cfg.Sink = NewLogSink(l)
	}
	return &Dispatcher{cfg: cfg, log: l}
}

// Dispatch delivers every due to the passive sink. High importance dues also
// open an acknowledgment prompt, which runs in the background so one
// unanswered prompt does not hold back later ticks.
func (d *Dispatcher) Dispatch(ctx context.Context, dues []Due) {
	for _, due := range dues {
		n := Build(due, d.cfg.Source)
		err := d.cfg.Sink.Notify(ctx, n)
		if err != nil {
			d.log.Error("notify: failed to deliver %q for task %s: %v", n.Reason, n.TaskID, err)
		}
		d.record(ctx, due, err)

		if due.Task.Importance == tasklib.ImportanceHigh && d.cfg.Prompter != nil {
			d.wg.Add(1)
			go d.prompt(ctx, due, n)
		}
	}
}

func (d *Dispatcher) prompt(ctx context.Context, due Due, n Notification) {
	defer d.wg.Done()
	err := d.cfg.Prompter.Prompt(ctx, n)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return
		}
		d.log.Error("notify: acknowledgment prompt for task %s failed: %v", n.TaskID, err)
		d.record(ctx, due, fmt.Errorf("prompt: %w", err))
		return
	}
	if d.cfg.OnAcknowledged != nil {
		d.cfg.OnAcknowledged(due)
	}
}

func (d *Dispatcher) record(ctx context.Context, due Due, deliveryErr error) {
	if d.cfg.Recorder == nil {
		return
	}
	e := history.Entry{
		TaskID:     due.Task.ID,
		Name:       due.Task.Name,
		Importance: string(due.Task.Importance),
		Reason:     due.Reason.String(),
		FiredAt:    due.At,
		Delivered:  deliveryErr == nil,
	}
	if deliveryErr != nil {
		e.Error = deliveryErr.Error()
	}
	// record even while shutting down
	if err := d.cfg.Recorder.Record(context.WithoutCancel(ctx), e); err != nil {
		d.log.Warning("notify: %v", err)
	}
}

// Wait blocks until all open prompts have returned.
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}
