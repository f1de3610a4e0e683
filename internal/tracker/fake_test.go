package tracker

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/alexanderramin/jobshop/internal/domain"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock(t time.Time) *fakeClock { return &fakeClock{now: t} }

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// fakeStore implements both ports in memory and counts every call.
type fakeStore struct {
	mu      sync.Mutex
	clock   *fakeClock
	jobs    map[string]*domain.Job
	order   []string
	entries []*domain.TimeLogEntry
	calls   map[string]int
	errs    map[string]error
	seq     int

	// afterListEntries runs after the entries result was captured and
	// before it is returned.
	afterListEntries func()
	// afterCreateEntry runs once the new entry is committed and before it
	// is returned.
	afterCreateEntry func()
}

func newFakeStore(clock *fakeClock) *fakeStore {
	return &fakeStore{
		clock: clock,
		jobs:  make(map[string]*domain.Job),
		calls: make(map[string]int),
		errs:  make(map[string]error),
	}
}

func (f *fakeStore) addJob(id, number string, status domain.JobStatus) *domain.Job {
	f.mu.Lock()
	defer f.mu.Unlock()
	j := &domain.Job{ID: id, Number: number, Title: "Job " + number, Status: status, CreatedAt: f.clock.Now()}
	f.jobs[id] = j
	f.order = append(f.order, id)
	return j
}

func (f *fakeStore) failOn(method string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.errs[method] = err
}

func (f *fakeStore) callCount(method string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[method]
}

func (f *fakeStore) totalCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		n += c
	}
	return n
}

func (f *fakeStore) enter(method string) error {
	f.calls[method]++
	return f.errs[method]
}

func (f *fakeStore) job(id string) domain.Job {
	f.mu.Lock()
	defer f.mu.Unlock()
	return *f.jobs[id]
}

func (f *fakeStore) ListJobsForOperator(_ context.Context, _ string, _ bool) ([]*domain.Job, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.enter("ListJobsForOperator"); err != nil {
		return nil, err
	}
	out := make([]*domain.Job, 0, len(f.order))
	for _, id := range f.order {
		c := *f.jobs[id]
		out = append(out, &c)
	}
	return out, nil
}

func (f *fakeStore) SetJobStatus(_ context.Context, jobID string, status domain.JobStatus) (*domain.Job, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.enter("SetJobStatus"); err != nil {
		return nil, err
	}
	j, ok := f.jobs[jobID]
	if !ok {
		return nil, fmt.Errorf("job %s: %w", jobID, domain.ErrNotFound)
	}
	if err := j.TransitionTo(status, f.clock.Now()); err != nil {
		return nil, err
	}
	c := *j
	return &c, nil
}

func (f *fakeStore) ListEntriesForOperator(_ context.Context, operatorID string) ([]*domain.TimeLogEntry, error) {
	f.mu.Lock()
	if err := f.enter("ListEntriesForOperator"); err != nil {
		f.mu.Unlock()
		return nil, err
	}
	var out []*domain.TimeLogEntry
	for _, e := range f.entries {
		if e.OperatorID == operatorID {
			c := *e
			out = append(out, &c)
		}
	}
	hook := f.afterListEntries
	f.mu.Unlock()

	if hook != nil {
		hook()
	}
	return out, nil
}

func (f *fakeStore) CreateEntry(_ context.Context, operatorID, jobID string, machineID *string, notes string) (*domain.TimeLogEntry, error) {
	e, err := f.createEntry(operatorID, jobID, machineID, notes)
	if err != nil {
		return nil, err
	}
	f.mu.Lock()
	hook := f.afterCreateEntry
	f.mu.Unlock()
	if hook != nil {
		hook()
	}
	return e, nil
}

func (f *fakeStore) createEntry(operatorID, jobID string, machineID *string, notes string) (*domain.TimeLogEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.enter("CreateEntry"); err != nil {
		return nil, err
	}
	for _, e := range f.entries {
		if e.OperatorID == operatorID && e.IsOpen() {
			return nil, domain.NewConflictError("operator already has an active job")
		}
	}
	j, ok := f.jobs[jobID]
	if !ok {
		return nil, fmt.Errorf("job %s: %w", jobID, domain.ErrNotFound)
	}
	now := f.clock.Now()
	if j.Status == domain.JobPending {
		_ = j.Start(now)
	}
	f.seq++
	e := &domain.TimeLogEntry{
		ID:         fmt.Sprintf("entry-%d", f.seq),
		JobID:      jobID,
		OperatorID: operatorID,
		MachineID:  machineID,
		StartedAt:  now,
		Notes:      notes,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	f.entries = append(f.entries, e)
	c := *e
	return &c, nil
}

func (f *fakeStore) mutate(method, entryID string, apply func(e *domain.TimeLogEntry) error) (*domain.TimeLogEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.enter(method); err != nil {
		return nil, err
	}
	for _, e := range f.entries {
		if e.ID == entryID {
			if err := apply(e); err != nil {
				return nil, err
			}
			c := *e
			return &c, nil
		}
	}
	return nil, fmt.Errorf("entry %s: %w", entryID, domain.ErrNotFound)
}

func (f *fakeStore) AddBreak(_ context.Context, entryID string, minutes int, reason string) (*domain.TimeLogEntry, error) {
	return f.mutate("AddBreak", entryID, func(e *domain.TimeLogEntry) error {
		return e.AddBreak(minutes, reason, f.clock.Now())
	})
}

func (f *fakeStore) CloseEntry(_ context.Context, entryID, notes string, score int) (*domain.TimeLogEntry, error) {
	return f.mutate("CloseEntry", entryID, func(e *domain.TimeLogEntry) error {
		return e.Close(f.clock.Now(), notes, score)
	})
}

// openEntryDirect simulates a clock-in made through another terminal.
func (f *fakeStore) openEntryDirect(operatorID, jobID string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seq++
	f.entries = append(f.entries, &domain.TimeLogEntry{
		ID: fmt.Sprintf("entry-%d", f.seq), JobID: jobID, OperatorID: operatorID, StartedAt: f.clock.Now(),
	})
}
