package cmd

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/spf13/afero"

	"github.com/chexy/chexy/internal/scheduler"
	"github.com/chexy/chexy/pkg/logger"
	"github.com/chexy/chexy/pkg/tasklib"
)

func TestInitDaemonComponents(t *testing.T) {
	withConfigDir(t)
	l := logger.NewMockLogger()

	comps, err := initDaemonComponents(l, daemonOptions{Embedded: true, NoDesktop: true, Port: 45871, Secret: "s"})
	if err != nil {
		t.Fatalf("initDaemonComponents: %v", err)
	}
	if comps.History == nil {
		t.Fatalf("history not opened, warnings: %v", l.Warnings())
	}
	if comps.Driver.Interval() != scheduler.EmbeddedInterval {
		t.Errorf("interval = %s, want %s", comps.Driver.Interval(), scheduler.EmbeddedInterval)
	}
	if comps.desktop != nil {
		t.Error("desktop sink created with NoDesktop")
	}

	if _, err := comps.Store.Add(tasklib.NewTask{
		Name:           "Renew passport",
		Importance:     tasklib.ImportanceMedium,
		CompletionTime: time.Now().Add(72 * time.Hour),
	}); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if err := comps.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	reopened := tasklib.OpenStore(afero.NewOsFs(), tasklib.SnapshotPath(), nil)
	if reopened.Len() != 1 {
		t.Fatalf("reopened store has %d tasks, want 1", reopened.Len())
	}
	if _, err := os.Stat(tasklib.HistoryPath()); err != nil {
		t.Errorf("history file: %v", err)
	}
}

func TestInitDaemonComponents_StandaloneInterval(t *testing.T) {
	withConfigDir(t)
	comps, err := initDaemonComponents(logger.NewNopLogger(), daemonOptions{NoDesktop: true})
	if err != nil {
		t.Fatalf("initDaemonComponents: %v", err)
	}
	defer comps.Close()
	if comps.Driver.Interval() != scheduler.StandaloneInterval {
		t.Errorf("interval = %s, want %s", comps.Driver.Interval(), scheduler.StandaloneInterval)
	}
}

func TestDaemonComponents_TickDispatchesToHistory(t *testing.T) {
	withConfigDir(t)
	comps, err := initDaemonComponents(logger.NewNopLogger(), daemonOptions{NoDesktop: true})
	if err != nil {
		t.Fatalf("initDaemonComponents: %v", err)
	}
	defer comps.Close()

	if _, err := comps.Store.Add(tasklib.NewTask{
		Name:           "Submit report",
		Importance:     tasklib.ImportanceLow,
		CompletionTime: time.Now().Add(-time.Hour),
	}); err != nil {
		t.Fatalf("Add: %v", err)
	}
	ran, n, err := comps.Driver.TickNow(context.Background())
	if err != nil || !ran || n != 1 {
		t.Fatalf("TickNow = %t, %d, %v", ran, n, err)
	}
	comps.Dispatcher.Wait()

	entries, err := comps.History.List(context.Background(), 10)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(entries) != 1 || entries[0].Name != "Submit report" || !entries[0].Delivered {
		t.Fatalf("entries = %+v", entries)
	}
}
