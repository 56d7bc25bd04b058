package tasklib

import (
	"bytes"
	"encoding/gob"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/afero"

	"github.com/chexy/chexy/pkg/logger"
)

// SnapshotVersion is the record layout written by SaveSnapshot.
//
//	1: name, importance, completion, in charge, reminder, actual time
//	2: adds id, starred, notification latch, recurrence
const SnapshotVersion = 2

// snapshot is the on-disk envelope. gob matches fields by name, so older
// layouts decode into it with the newer fields absent.
type snapshot struct {
	Version int
	Tasks   []taskRecord
}

// taskRecord is the serialized form of a Task. Fields added after version 1
// are pointers so a decoder can tell "absent" from "false".
type taskRecord struct {
	ID                string
	Name              string
	Importance        string
	CompletionTime    time.Time
	InCharge          string
	ReminderTime      int
	ActualTime        *time.Time
	Starred           *bool
	NotificationShown *bool
	Recurrence        string
}

func toRecord(t *Task) taskRecord {
	starred, shown := t.Starred, t.NotificationShown
	rec := taskRecord{
		ID:                t.ID,
		Name:              t.Name,
		Importance:        string(t.Importance),
		CompletionTime:    t.CompletionTime,
		InCharge:          t.InCharge,
		ReminderTime:      t.ReminderTime,
		Starred:           &starred,
		NotificationShown: &shown,
		Recurrence:        t.Recurrence,
	}
	if t.ActualTime != nil {
		at := *t.ActualTime
		rec.ActualTime = &at
	}
	return rec
}

// migrate turns decoded records of any known version into tasks, filling
// defaults for fields the version lacked.
func migrate(s *snapshot) []*Task {
	tasks := make([]*Task, 0, len(s.Tasks))
	for _, rec := range s.Tasks {
		t := &Task{
			ID:             rec.ID,
			Name:           rec.Name,
			Importance:     ImportanceLow,
			CompletionTime: rec.CompletionTime,
			InCharge:       rec.InCharge,
			ReminderTime:   NormalizeReminder(rec.ReminderTime),
			Recurrence:     rec.Recurrence,
		}
		if rec.ActualTime != nil {
			at := *rec.ActualTime
			t.ActualTime = &at
		}
		if rec.Starred != nil {
			t.Starred = *rec.Starred
		}
		if rec.NotificationShown != nil {
			t.NotificationShown = *rec.NotificationShown
		}
		if t.ID == "" {
			t.ID = uuid.NewString()
		}
		if imp, err := ParseImportance(rec.Importance); err == nil {
			t.Importance = imp
		}
		if ValidateRecurrence(t.Recurrence) != nil {
			t.Recurrence = ""
		}
		tasks = append(tasks, t)
	}
	return tasks
}

// LoadSnapshot reads the task collection from path. It never fails: a
// missing, empty or corrupt snapshot yields an empty collection, and the
// problem is reported through l.
func LoadSnapshot(fs afero.Fs, path string, l logger.Logger) []*Task {
	tasks, _ := loadSnapshot(fs, path, l)
	return tasks
}

// loadSnapshot also reports whether the snapshot was written by an older
// layout, in which case migrated defaults (ids in particular) must be saved.
func loadSnapshot(fs afero.Fs, path string, l logger.Logger) ([]*Task, bool) {
	if l == nil {
		l = logger.NewNopLogger()
	}
	f, err := fs.Open(path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			l.Warning("tasklib: cannot open snapshot %s, starting empty: %v", path, err)
		}
		return []*Task{}, false
	}
	defer f.Close()

	var s snapshot
	if err := gob.NewDecoder(f).Decode(&s); err != nil {
		if err != io.EOF {
			l.Warning("tasklib: failed to decode snapshot %s, starting empty: %v", path, err)
		}
		return []*Task{}, false
	}
	if s.Version > SnapshotVersion {
		l.Warning("tasklib: snapshot version %d is newer than %d, unknown fields are dropped", s.Version, SnapshotVersion)
	}
	return migrate(&s), s.Version < SnapshotVersion && len(s.Tasks) > 0
}

// SaveSnapshot writes the whole collection to path. The encoded snapshot
// goes to a temporary file in the same directory which is synced and then
// renamed over path, so a failed save never leaves a truncated snapshot.
func SaveSnapshot(fs afero.Fs, path string, tasks []*Task) error {
	s := snapshot{
		Version: SnapshotVersion,
		Tasks:   make([]taskRecord, 0, len(tasks)),
	}
	for _, t := range tasks {
		s.Tasks = append(s.Tasks, toRecord(t))
	}
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(&s); err != nil {
		return fmt.Errorf("%w: encode: %w", ErrSaveFailed, err)
	}

	dir := filepath.Dir(path)
	if err := fs.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("%w: mkdir: %w", ErrSaveFailed, err)
	}
	tmp, err := afero.TempFile(fs, dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("%w: create temp: %w", ErrSaveFailed, err)
	}
	tmpName := tmp.Name()
	cleanup := func() { _ = fs.Remove(tmpName) }

	if _, err := tmp.Write(buf.Bytes()); err != nil {
		tmp.Close()
		cleanup()
		return fmt.Errorf("%w: write: %w", ErrSaveFailed, err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		cleanup()
		return fmt.Errorf("%w: sync: %w", ErrSaveFailed, err)
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return fmt.Errorf("%w: close: %w", ErrSaveFailed, err)
	}
	if err := fs.Rename(tmpName, path); err != nil {
		cleanup()
		return fmt.Errorf("%w: rename: %w", ErrSaveFailed, err)
	}
	return nil
}
