package tasklib

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/afero"

	"github.com/chexy/chexy/pkg/logger"
)

// Store exclusively owns the task collection. Every mutation runs
// "mutate then persist" under one mutex, so user edits and scheduler sweeps
// never interleave. Callers only ever see copies of the tasks.
type Store struct {
	fs    afero.Fs
	path  string
	log   logger.Logger
	mu    sync.Mutex
	tasks []*Task
	// dirty is set when the in-memory collection is ahead of the snapshot.
	dirty bool
	newID func() string
}

// OpenStore loads the snapshot at path into a new Store. Load problems never
// fail the call; see LoadSnapshot.
func OpenStore(fs afero.Fs, path string, l logger.Logger) *Store {
	if l == nil {
		l = logger.NewNopLogger()
	}
	tasks, upgraded := loadSnapshot(fs, path, l)
	s := &Store{
		fs:    fs,
		path:  path,
		log:   l,
		tasks: tasks,
		newID: uuid.NewString,
	}
	if upgraded {
		s.log.Info("tasklib: upgrading snapshot %s to version %d", path, SnapshotVersion)
		s.mu.Lock()
		s.dirty = true
		if err := s.persist(); err != nil {
			s.log.Warning("tasklib: %v", err)
		}
		s.mu.Unlock()
	}
	return s
}

// Path returns the snapshot path backing the store.
func (s *Store) Path() string {
	return s.path
}

// persist writes the collection. Caller must hold s.mu.
func (s *Store) persist() error {
	if err := SaveSnapshot(s.fs, s.path, s.tasks); err != nil {
		s.dirty = true
		return err
	}
	s.dirty = false
	return nil
}

// commit marks the collection changed and persists it. Caller must hold s.mu.
func (s *Store) commit() error {
	s.dirty = true
	return s.persist()
}

// find returns the index of the task with id. Caller must hold s.mu.
func (s *Store) find(id string) (int, error) {
	for i, t := range s.tasks {
		if t.ID == id {
			return i, nil
		}
	}
	return -1, fmt.Errorf("%w: %s", ErrTaskNotFound, id)
}

// Tasks returns copies of all tasks in insertion order.
func (s *Store) Tasks() []*Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneAll(s.tasks)
}

// Len returns the number of tasks.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.tasks)
}

// Get returns a copy of the task with id.
func (s *Store) Get(id string) (*Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i, err := s.find(id)
	if err != nil {
		return nil, err
	}
	return s.tasks[i].Clone(), nil
}

// Add creates a task from n and persists the collection.
// A save failure is returned wrapped in ErrSaveFailed; the task stays in
// memory and is written by the next successful save.
func (s *Store) Add(n NewTask) (*Task, error) {
	t, err := n.build(s.newID())
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tasks = append(s.tasks, t)
	return t.Clone(), s.commit()
}

// Modify applies p to the task with id. Changing a due-affecting field
// resets the notification latch so the task is notified again.
func (s *Store) Modify(id string, p Patch) (*Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i, err := s.find(id)
	if err != nil {
		return nil, err
	}
	if p.IsEmpty() {
		return s.tasks[i].Clone(), nil
	}
	if err := p.apply(s.tasks[i]); err != nil {
		return nil, err
	}
	return s.tasks[i].Clone(), s.commit()
}

// Delete removes the task with id.
func (s *Store) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i, err := s.find(id)
	if err != nil {
		return err
	}
	s.tasks = append(s.tasks[:i], s.tasks[i+1:]...)
	return s.commit()
}

// SetCompleted is the completion toggle. Completing records at as the
// actual time; a recurring task additionally gets its next occurrence
// appended as a fresh pending task, returned as next. Un-completing clears
// the actual time and starts a new due cycle.
func (s *Store) SetCompleted(id string, completed bool, at time.Time) (task, next *Task, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i, err := s.find(id)
	if err != nil {
		return nil, nil, err
	}
	t := s.tasks[i]
	if completed == t.IsCompleted() {
		return t.Clone(), nil, nil
	}
	if !completed {
		t.ActualTime = nil
		t.NotificationShown = false
		return t.Clone(), nil, s.commit()
	}

	done := at
	t.ActualTime = &done
	if t.Recurrence != "" {
		due, rerr := NextOccurrence(t.Recurrence, t.CompletionTime)
		if rerr != nil {
			s.log.Warning("tasklib: task %s: cannot schedule next occurrence: %v", t.ID, rerr)
		} else {
			n := &Task{
				ID:             s.newID(),
				Name:           t.Name,
				Importance:     t.Importance,
				CompletionTime: due,
				InCharge:       t.InCharge,
				ReminderTime:   t.ReminderTime,
				Starred:        t.Starred,
				Recurrence:     t.Recurrence,
			}
			s.tasks = append(s.tasks, n)
			next = n.Clone()
		}
	}
	return t.Clone(), next, s.commit()
}

// ToggleStar flips the starred flag of the task with id.
func (s *Store) ToggleStar(id string) (*Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i, err := s.find(id)
	if err != nil {
		return nil, err
	}
	s.tasks[i].Starred = !s.tasks[i].Starred
	return s.tasks[i].Clone(), s.commit()
}

// Update runs fn on the live collection under the store lock and persists
// when fn reports a change or an earlier save is still pending. fn must not
// retain the task pointers.
func (s *Store) Update(fn func(tasks []*Task) (changed bool)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if fn(s.tasks) {
		s.dirty = true
	}
	if !s.dirty {
		return nil
	}
	return s.persist()
}

// Flush persists the collection if it is ahead of the snapshot.
func (s *Store) Flush() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.dirty {
		return nil
	}
	return s.persist()
}

// Dirty reports whether a save is pending.
func (s *Store) Dirty() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dirty
}

func cloneAll(tasks []*Task) []*Task {
	out := make([]*Task, len(tasks))
	for i, t := range tasks {
		out[i] = t.Clone()
	}
	return out
}
