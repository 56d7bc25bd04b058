package notify

import (
	"context"
	"errors"

	"github.com/chexy/chexy/pkg/logger"
)

// Notification is what a sink delivers. Title, Body and Source are the
// platform notification fields; the rest identifies the task for sinks that
// push structured events.
type Notification struct {
	TaskID     string
	Name       string
	Importance string
	Reason     string
	Title      string
	Body       string
	Source     string
}

// Sink performs a best-effort passive notification.
type Sink interface {
	Notify(ctx context.Context, n Notification) error
}

// Prompter shows a blocking acknowledgment prompt and returns once the user
// dismissed it or ctx is done.
type Prompter interface {
	Prompt(ctx context.Context, n Notification) error
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(ctx context.Context, n Notification) error

func (f SinkFunc) Notify(ctx context.Context, n Notification) error {
	return f(ctx, n)
}

// MultiSink delivers to every sink and joins their errors.
type MultiSink []Sink

func (m MultiSink) Notify(ctx context.Context, n Notification) error {
	var errs []error
	for _, s := range m {
		if s == nil {
			continue
		}
		if err := s.Notify(ctx, n); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// LogSink writes notifications to a logger. It is the fallback when no
// desktop notification service is reachable.
type LogSink struct {
	log logger.Logger
}

// NewLogSink returns a sink logging through l.
func NewLogSink(l logger.Logger) *LogSink {
	return &LogSink{log: l}
}

func (s *LogSink) Notify(_ context.Context, n Notification) error {
	s.log.Info("%s [%s]: %s", n.Title, n.Source, n.Body)
	return nil
}

var (
	_ Sink = MultiSink(nil)
	_ Sink = (*LogSink)(nil)
	_ Sink = SinkFunc(nil)
)
