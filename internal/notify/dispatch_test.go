package notify

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/godbus/dbus/v5"
	"github.com/spf13/afero"

	"github.com/chexy/chexy/internal/history"
	"github.com/chexy/chexy/pkg/logger"
	"github.com/chexy/chexy/pkg/tasklib"
)

type memStore struct {
	*tasklib.Store
	fs   afero.Fs
	path string
}

func newMemStore(t *testing.T) *memStore {
	t.Helper()
	fs := afero.NewMemMapFs()
	path := "/cfg/schedules.chx"
	return &memStore{Store: tasklib.OpenStore(fs, path, nil), fs: fs, path: path}
}

type recordingSink struct {
	mu  sync.Mutex
	got []Notification
	err error
}

func (r *recordingSink) Notify(_ context.Context, n Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.got = append(r.got, n)
	return r.err
}

func (r *recordingSink) all() []Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Notification(nil), r.got...)
}

type fakePrompter struct {
	mu    sync.Mutex
	got   []Notification
	err   error
	block chan struct{}
}

func (p *fakePrompter) Prompt(ctx context.Context, n Notification) error {
	p.mu.Lock()
	p.got = append(p.got, n)
	p.mu.Unlock()
	if p.block != nil {
		select {
		case <-p.block:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return p.err
}

func (p *fakePrompter) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.got)
}

type memRecorder struct {
	mu      sync.Mutex
	entries []history.Entry
}

func (m *memRecorder) Record(_ context.Context, e history.Entry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = append(m.entries, e)
	return nil
}

func due(name string, imp tasklib.Importance, r Reason) Due {
	return Due{
		Task:   &tasklib.Task{ID: name + "-id", Name: name, Importance: imp},
		Reason: r,
		At:     now,
	}
}

func TestBuild(t *testing.T) {
	tests := []struct {
		imp       tasklib.Importance
		wantTitle string
	}{
		{tasklib.ImportanceLow, TitleReminder},
		{tasklib.ImportanceMedium, TitleReminder},
		{tasklib.ImportanceHigh, TitleImportant},
	}
	for _, tt := range tests {
		n := Build(due("Report", tt.imp, Reason{Kind: ReasonDueIn, Days: 3}), "CheXy")
		if n.Title != tt.wantTitle {
			t.Errorf("%s: title = %q, want %q", tt.imp, n.Title, tt.wantTitle)
		}
		if n.Body != "'Report' is due in 3 days." {
			t.Errorf("body = %q", n.Body)
		}
		if n.Source != "CheXy" || n.TaskID != "Report-id" {
			t.Errorf("unexpected notification: %+v", n)
		}
	}
}

func TestDispatcher_RoutesByImportance(t *testing.T) {
	sink := &recordingSink{}
	prompt := &fakePrompter{}
	rec := &memRecorder{}
	var acked []string
	var ackMu sync.Mutex
	d := NewDispatcher(DispatcherConfig{
		Sink:     sink,
		Prompter: prompt,
		Recorder: rec,
		OnAcknowledged: func(d Due) {
			ackMu.Lock()
			acked = append(acked, d.Task.ID)
			ackMu.Unlock()
		},
		Source: "CheXy",
	})
	d.Dispatch(context.Background(), []Due{
		due("low", tasklib.ImportanceLow, Reason{Kind: ReasonDueNow}),
		due("high", tasklib.ImportanceHigh, Reason{Kind: ReasonDueNow}),
		due("medium", tasklib.ImportanceMedium, Reason{Kind: ReasonDueNow}),
	})
	d.Wait()

	if got := len(sink.all()); got != 3 {
		t.Errorf("passive sink got %d notifications, want 3", got)
	}
	if prompt.count() != 1 || prompt.got[0].TaskID != "high-id" {
		t.Errorf("prompter got %+v, want only the high task", prompt.got)
	}
	if len(acked) != 1 || acked[0] != "high-id" {
		t.Errorf("acknowledged = %v", acked)
	}
	if len(rec.entries) != 3 {
		t.Errorf("recorded %d entries, want 3", len(rec.entries))
	}
}

func TestDispatcher_SinkFailureIsLoggedAndRecorded(t *testing.T) {
	sink := &recordingSink{err: errors.New("no notification daemon")}
	rec := &memRecorder{}
	l := logger.NewMockLogger()
	d := NewDispatcher(DispatcherConfig{Sink: sink, Recorder: rec, Logger: l})
	d.Dispatch(context.Background(), []Due{due("x", tasklib.ImportanceLow, Reason{Kind: ReasonDueNow})})

	if len(l.Errors()) != 1 {
		t.Errorf("errors logged = %v", l.Errors())
	}
	if len(rec.entries) != 1 || rec.entries[0].Delivered || rec.entries[0].Error == "" {
		t.Errorf("entry = %+v", rec.entries)
	}
}

func TestDispatcher_PromptDoesNotBlockDispatch(t *testing.T) {
	prompt := &fakePrompter{block: make(chan struct{})}
	d := NewDispatcher(DispatcherConfig{Sink: &recordingSink{}, Prompter: prompt})

	done := make(chan struct{})
	go func() {
		d.Dispatch(context.Background(), []Due{due("h", tasklib.ImportanceHigh, Reason{Kind: ReasonDueNow})})
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Dispatch blocked on the prompt")
	}
	close(prompt.block)
	d.Wait()
}

func TestDispatcher_PromptCancelled(t *testing.T) {
	prompt := &fakePrompter{block: make(chan struct{})}
	rec := &memRecorder{}
	acked := false
	d := NewDispatcher(DispatcherConfig{
		Sink:           &recordingSink{},
		Prompter:       prompt,
		Recorder:       rec,
		OnAcknowledged: func(Due) { acked = true },
	})
	ctx, cancel := context.WithCancel(context.Background())
	d.Dispatch(ctx, []Due{due("h", tasklib.ImportanceHigh, Reason{Kind: ReasonDueNow})})
	cancel()
	d.Wait()
	if acked {
		t.Error("cancelled prompt reported as acknowledged")
	}
	if len(rec.entries) != 1 {
		t.Errorf("cancelled prompt recorded as failure: %+v", rec.entries)
	}
}

func TestMultiSink_JoinsErrors(t *testing.T) {
	e1 := errors.New("dbus down")
	a := &recordingSink{err: e1}
	b := &recordingSink{}
	err := MultiSink{a, nil, b}.Notify(context.Background(), Notification{Title: "t"})
	if !errors.Is(err, e1) {
		t.Fatalf("err = %v", err)
	}
	if len(b.all()) != 1 {
		t.Error("second sink skipped after first failed")
	}
}

func TestLogSink(t *testing.T) {
	l := logger.NewMockLogger()
	if err := NewLogSink(l).Notify(context.Background(), Notification{Title: TitleReminder, Body: "'x' is due now.", Source: "CheXy"}); err != nil {
		t.Fatal(err)
	}
	if len(l.InfoCalls) != 1 || l.InfoCalls[0] != "Task Reminder [CheXy]: 'x' is due now." {
		t.Errorf("InfoCalls = %v", l.InfoCalls)
	}
}

type fakeBus struct {
	mu      sync.Mutex
	calls   [][]interface{}
	err     error
	chans   []chan<- *dbus.Signal
	onCall  func(f *fakeBus)
	removed int
}

func (f *fakeBus) CallWithContext(_ context.Context, method string, _ dbus.Flags, args ...interface{}) *dbus.Call {
	f.mu.Lock()
	f.calls = append(f.calls, append([]interface{}{method}, args...))
	f.mu.Unlock()
	if f.onCall != nil {
		go f.onCall(f)
	}
	return &dbus.Call{Err: f.err, Body: []interface{}{uint32(7)}}
}

func (f *fakeBus) Signal(ch chan<- *dbus.Signal) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.chans = append(f.chans, ch)
}

func (f *fakeBus) RemoveSignal(ch chan<- *dbus.Signal) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.removed++
}

func (f *fakeBus) emit(s *dbus.Signal) {
	f.mu.Lock()
	chans := append([]chan<- *dbus.Signal(nil), f.chans...)
	f.mu.Unlock()
	for _, ch := range chans {
		ch <- s
	}
}

func TestDBus_Notify(t *testing.T) {
	bus := &fakeBus{}
	d := &DBus{obj: bus, sig: bus, icon: "chexy"}
	n := Notification{Title: TitleReminder, Body: "'x' is due now.", Source: "CheXy"}
	if err := d.Notify(context.Background(), n); err != nil {
		t.Fatal(err)
	}
	call := bus.calls[0]
	if call[0] != dbusNotify || call[1] != "CheXy" || call[3] != "chexy" || call[4] != TitleReminder || call[5] != n.Body {
		t.Errorf("Notify call = %v", call)
	}
	if timeout, _ := call[8].(int32); timeout != -1 {
		t.Errorf("timeout = %v, want -1", call[8])
	}
}

func TestDBus_NotifyError(t *testing.T) {
	bus := &fakeBus{err: errors.New("service unknown")}
	d := &DBus{obj: bus, sig: bus}
	if err := d.Notify(context.Background(), Notification{}); err == nil {
		t.Fatal("expected error")
	}
}

func TestDBus_PromptWaitsForAcknowledgment(t *testing.T) {
	bus := &fakeBus{}
	bus.onCall = func(f *fakeBus) {
		f.emit(&dbus.Signal{Name: signalAction, Body: []interface{}{uint32(99), ackActionKey}})
		f.emit(&dbus.Signal{Name: signalAction, Body: []interface{}{uint32(7), ackActionKey}})
	}
	d := &DBus{obj: bus, sig: bus}
	errc := make(chan error, 1)
	go func() { errc <- d.Prompt(context.Background(), Notification{Title: TitleImportant}) }()
	select {
	case err := <-errc:
		if err != nil {
			t.Fatalf("Prompt: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Prompt did not return after ActionInvoked")
	}
	actions, _ := bus.calls[0][6].([]string)
	if len(actions) != 2 || actions[0] != ackActionKey {
		t.Errorf("actions = %v", bus.calls[0][6])
	}
	if bus.removed != 1 {
		t.Errorf("signal channel not removed")
	}
}

func TestDBus_PromptCancelled(t *testing.T) {
	bus := &fakeBus{}
	d := &DBus{obj: bus, sig: bus}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := d.Prompt(ctx, Notification{}); !errors.Is(err, context.Canceled) {
		t.Errorf("Prompt = %v, want context.Canceled", err)
	}
}
