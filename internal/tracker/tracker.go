// Package tracker keeps each operator's current work session: the active
// time log entry, the jobs and entries behind it, and the derived timer and
// daily statistics. It sits between the shop-floor surfaces (CLI, TUI, HTTP)
// and the backing store.
package tracker

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"
	"unicode/utf8"

	"github.com/alexanderramin/jobshop/internal/domain"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

// Snapshot is a point-in-time copy of one operator's session state.
type Snapshot struct {
	OperatorID  string
	Jobs        []*domain.Job
	Entries     []*domain.TimeLogEntry
	Active      *domain.TimeLogEntry
	State       domain.SessionState
	Paused      bool
	Loaded      bool
	RefreshedAt time.Time
}

// ActiveJob returns the job of the active entry when it is in the snapshot.
func (s Snapshot) ActiveJob() *domain.Job {
	if s.Active == nil {
		return nil
	}
	for _, j := range s.Jobs {
		if j.ID == s.Active.JobID {
			return j
		}
	}
	return nil
}

// Completion is the outcome of CompleteOrClockOut. ClosedEntry is nil when
// no entry was closed; Job is nil for a plain clock-out.
type Completion struct {
	ClosedEntry *domain.TimeLogEntry
	Job         *domain.Job
}

// Tracker serves any number of operators. Actions for one operator are
// serialized; different operators never block each other.
type Tracker struct {
	jobs    JobStore
	entries TimeLogStore
	opts    Options

	mu       sync.Mutex
	sessions map[string]*operatorSession
}

type operatorSession struct {
	// actionMu serializes StartJob, AddBreak and CompleteOrClockOut.
	actionMu sync.Mutex
	fetching atomic.Bool
	limiter  *rate.Limiter

	stateMu     sync.RWMutex
	version     uint64
	loaded      bool
	jobs        []*domain.Job
	entries     []*domain.TimeLogEntry
	active      *domain.TimeLogEntry
	paused      bool
	refreshedAt time.Time
}

func New(jobs JobStore, entries TimeLogStore, opts Options) *Tracker {
	return &Tracker{
		jobs:     jobs,
		entries:  entries,
		opts:     opts.withDefaults(),
		sessions: make(map[string]*operatorSession),
	}
}

func (t *Tracker) now() time.Time { return t.opts.Now() }

func (t *Tracker) session(operatorID string) *operatorSession {
	t.mu.Lock()
	defer t.mu.Unlock()
	s, ok := t.sessions[operatorID]
	if !ok {
		limit := rate.Inf
		if t.opts.MinRefreshInterval > 0 {
			limit = rate.Every(t.opts.MinRefreshInterval)
		}
		s = &operatorSession{limiter: rate.NewLimiter(limit, 1)}
		t.sessions[operatorID] = s
	}
	return s
}

// lookup returns the operator's session without creating one. Readers use
// it so unknown operator IDs do not grow the session map.
func (t *Tracker) lookup(operatorID string) *operatorSession {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.sessions[operatorID]
}

func validateOperator(operatorID string) error {
	if strings.TrimSpace(operatorID) == "" {
		return domain.NewValidationError("operator", "operator is required")
	}
	return nil
}

// Refresh reloads the operator's jobs and entries. Calls closer together
// than MinRefreshInterval, or made while another refresh for the operator is
// in flight, are dropped and report refreshed=false. A failed fetch leaves
// the snapshot untouched.
func (t *Tracker) Refresh(ctx context.Context, operatorID string) (refreshed bool, err error) {
	if err := validateOperator(operatorID); err != nil {
		return false, err
	}
	s := t.session(operatorID)
	if !s.fetching.CompareAndSwap(false, true) {
		return false, nil
	}
	defer s.fetching.Store(false)

	// A failed fetch still spends the slot so a broken store is not hammered.
	if !s.limiter.AllowN(t.now(), 1) {
		return false, nil
	}
	return t.fetch(ctx, operatorID, s)
}

// fetch loads both lists concurrently and applies them unless an action
// changed the session while the fetch was running.
func (t *Tracker) fetch(ctx context.Context, operatorID string, s *operatorSession) (bool, error) {
	s.stateMu.RLock()
	startVersion := s.version
	s.stateMu.RUnlock()

	var jobs []*domain.Job
	var entries []*domain.TimeLogEntry
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		jobs, err = t.jobs.ListJobsForOperator(gctx, operatorID, true)
		return domain.AsTransport("listing jobs", err)
	})
	g.Go(func() error {
		var err error
		entries, err = t.entries.ListEntriesForOperator(gctx, operatorID)
		return domain.AsTransport("listing time log entries", err)
	})
	if err := g.Wait(); err != nil {
		return false, err
	}

	s.stateMu.Lock()
	defer s.stateMu.Unlock()
	if s.version != startVersion {
		return false, nil
	}
	s.jobs = jobs
	s.entries = entries
	s.active = domain.FindOpenEntry(entries)
	if s.active == nil {
		s.paused = false
	}
	s.loaded = true
	s.refreshedAt = t.now()
	return true, nil
}

// ensureLoaded fetches once, unthrottled, before the first action on a
// session that was never refreshed. Caller holds actionMu.
func (t *Tracker) ensureLoaded(ctx context.Context, operatorID string, s *operatorSession) error {
	s.stateMu.RLock()
	loaded := s.loaded
	s.stateMu.RUnlock()
	if loaded {
		return nil
	}
	_, err := t.fetch(ctx, operatorID, s)
	return err
}

// StartJob clocks the operator in on jobID. The machine is taken from the
// job when the snapshot knows it.
func (t *Tracker) StartJob(ctx context.Context, operatorID, jobID, notes string) (*domain.TimeLogEntry, error) {
	if err := validateOperator(operatorID); err != nil {
		return nil, err
	}
	if strings.TrimSpace(jobID) == "" {
		return nil, domain.NewValidationError("job_id", "job is required")
	}

	s := t.session(operatorID)
	s.actionMu.Lock()
	defer s.actionMu.Unlock()
	if err := t.ensureLoaded(ctx, operatorID, s); err != nil {
		return nil, err
	}

	s.stateMu.RLock()
	active := s.active
	job := findJob(s.jobs, jobID)
	s.stateMu.RUnlock()
	if active != nil {
		return nil, domain.NewConflictError("operator already has an active job")
	}

	var machineID *string
	if job != nil {
		machineID = job.MachineID
	}
	entry, err := t.entries.CreateEntry(ctx, operatorID, jobID, machineID, strings.TrimSpace(notes))
	if err != nil {
		return nil, domain.AsTransport("creating time log entry", err)
	}

	s.stateMu.Lock()
	s.version++
	// A refresh that ran while CreateEntry was committing may already hold
	// the entry.
	s.entries = replaceEntry(s.entries, entry)
	s.active = entry
	s.paused = false
	if job != nil && job.Status == domain.JobPending {
		started := *job
		_ = started.Start(entry.StartedAt)
		s.jobs = replaceJob(s.jobs, &started)
	}
	s.stateMu.Unlock()

	return copyEntry(entry), nil
}

// AddBreak records a break on the active entry. The timer keeps running:
// breaks only reduce working time in the daily statistics.
func (t *Tracker) AddBreak(ctx context.Context, operatorID string, minutes int, reason string) (*domain.TimeLogEntry, error) {
	if err := validateOperator(operatorID); err != nil {
		return nil, err
	}
	if minutes < 1 || minutes > t.opts.MaxBreakMinutes {
		return nil, domain.NewValidationError("minutes",
			fmt.Sprintf("break must be between 1 and %d minutes", t.opts.MaxBreakMinutes))
	}

	s := t.session(operatorID)
	s.actionMu.Lock()
	defer s.actionMu.Unlock()
	if err := t.ensureLoaded(ctx, operatorID, s); err != nil {
		return nil, err
	}

	s.stateMu.RLock()
	active := s.active
	s.stateMu.RUnlock()
	if active == nil {
		return nil, domain.NewConflictError("no active job to take a break from")
	}

	updated, err := t.entries.AddBreak(ctx, active.ID, minutes, strings.TrimSpace(reason))
	if err != nil {
		return nil, domain.AsTransport("adding break", err)
	}

	s.stateMu.Lock()
	s.version++
	s.entries = replaceEntry(s.entries, updated)
	if updated.IsOpen() {
		s.active = updated
	}
	s.stateMu.Unlock()

	return copyEntry(updated), nil
}

// CompleteOrClockOut has two modes.
//
// With an empty jobID it is a plain clock-out: notes (trimmed) must be at
// least MinClockOutNoteLen characters and score within [1,10].
//
// With a jobID it completes that job. If it is the active job the entry is
// closed first with a generated note and the caller's note. Its score is
// DefaultProductivityScore unless the caller passes a non-zero score, which
// overrides the default. If closing succeeds and
// the status update fails, the returned error is a PartialFailureError and
// the Completion still carries the closed entry; retrying only repeats the
// status update.
func (t *Tracker) CompleteOrClockOut(ctx context.Context, operatorID, jobID, notes string, score int) (*Completion, error) {
	if err := validateOperator(operatorID); err != nil {
		return nil, err
	}
	notes = strings.TrimSpace(notes)
	jobID = strings.TrimSpace(jobID)

	if jobID == "" {
		if utf8.RuneCountInString(notes) < t.opts.MinClockOutNoteLen {
			return nil, domain.NewValidationError("notes",
				fmt.Sprintf("clock-out notes must be at least %d characters", t.opts.MinClockOutNoteLen))
		}
		if err := domain.ValidateProductivityScore(score); err != nil {
			return nil, err
		}
		return t.clockOut(ctx, operatorID, notes, score)
	}

	if score == 0 {
		score = t.opts.DefaultProductivityScore
	}
	if err := domain.ValidateProductivityScore(score); err != nil {
		return nil, err
	}
	return t.completeJob(ctx, operatorID, jobID, notes, score)
}

func (t *Tracker) clockOut(ctx context.Context, operatorID, notes string, score int) (*Completion, error) {
	s := t.session(operatorID)
	s.actionMu.Lock()
	defer s.actionMu.Unlock()
	if err := t.ensureLoaded(ctx, operatorID, s); err != nil {
		return nil, err
	}

	s.stateMu.RLock()
	active := s.active
	s.stateMu.RUnlock()
	if active == nil {
		return nil, domain.NewConflictError("no active job to clock out of")
	}

	closed, err := t.closeActive(ctx, s, active, notes, score)
	if err != nil {
		return nil, err
	}
	return &Completion{ClosedEntry: copyEntry(closed)}, nil
}

func (t *Tracker) completeJob(ctx context.Context, operatorID, jobID, notes string, score int) (*Completion, error) {
	s := t.session(operatorID)
	s.actionMu.Lock()
	defer s.actionMu.Unlock()
	if err := t.ensureLoaded(ctx, operatorID, s); err != nil {
		return nil, err
	}

	s.stateMu.RLock()
	active := s.active
	label := jobID
	if j := findJob(s.jobs, jobID); j != nil {
		label = j.DisplayID()
	}
	s.stateMu.RUnlock()

	result := &Completion{}
	if active != nil && active.JobID == jobID {
		closeNotes := fmt.Sprintf("Job %s completed.", label)
		if notes != "" {
			closeNotes += "\n" + notes
		}
		closed, err := t.closeActive(ctx, s, active, closeNotes, score)
		if err != nil {
			return nil, err
		}
		result.ClosedEntry = copyEntry(closed)
	}

	job, err := t.jobs.SetJobStatus(ctx, jobID, domain.JobCompleted)
	if err != nil {
		err = domain.AsTransport("updating job status", err)
		if result.ClosedEntry != nil {
			return result, &domain.PartialFailureError{
				Completed: "clock-out",
				Failed:    "job status update",
				Err:       err,
			}
		}
		return nil, err
	}

	s.stateMu.Lock()
	s.version++
	s.jobs = replaceJob(s.jobs, job)
	s.stateMu.Unlock()

	copied := *job
	result.Job = &copied
	return result, nil
}

// closeActive closes the active entry and clears it from the session.
// Caller holds actionMu.
func (t *Tracker) closeActive(ctx context.Context, s *operatorSession, active *domain.TimeLogEntry, notes string, score int) (*domain.TimeLogEntry, error) {
	closed, err := t.entries.CloseEntry(ctx, active.ID, notes, score)
	if err != nil {
		return nil, domain.AsTransport("closing time log entry", err)
	}

	s.stateMu.Lock()
	s.version++
	s.entries = replaceEntry(s.entries, closed)
	s.active = nil
	s.paused = false
	s.stateMu.Unlock()
	return closed, nil
}

// ElapsedTime is the wall-clock time since the active entry started, zero
// when idle. Breaks and pause do not stop it.
func (t *Tracker) ElapsedTime(operatorID string) time.Duration {
	s := t.lookup(operatorID)
	if s == nil {
		return 0
	}
	s.stateMu.RLock()
	defer s.stateMu.RUnlock()
	if s.active == nil {
		return 0
	}
	return s.active.Duration(t.now())
}

// TodaysStatistics aggregates entries started on the current local day.
func (t *Tracker) TodaysStatistics(operatorID string) domain.DailyStats {
	s := t.lookup(operatorID)
	if s == nil {
		return domain.DailyStats{}
	}
	s.stateMu.RLock()
	defer s.stateMu.RUnlock()

	status := make(map[string]domain.JobStatus, len(s.jobs))
	for _, j := range s.jobs {
		status[j.ID] = j.Status
	}
	return domain.ComputeDailyStats(s.entries, status, t.now(), t.opts.Location)
}

// TogglePause flips the display-only pause flag and returns the new value.
// It never reaches the store and the timer keeps running. With no active
// job the flag stays off.
func (t *Tracker) TogglePause(operatorID string) bool {
	s := t.lookup(operatorID)
	if s == nil {
		return false
	}
	s.stateMu.Lock()
	defer s.stateMu.Unlock()
	if s.active == nil {
		s.paused = false
		return false
	}
	s.paused = !s.paused
	return s.paused
}

func (t *Tracker) IsPaused(operatorID string) bool {
	s := t.lookup(operatorID)
	if s == nil {
		return false
	}
	s.stateMu.RLock()
	defer s.stateMu.RUnlock()
	return s.paused
}

// Snapshot returns a copy of the operator's session state.
func (t *Tracker) Snapshot(operatorID string) Snapshot {
	s := t.lookup(operatorID)
	if s == nil {
		return Snapshot{OperatorID: operatorID, State: domain.SessionIdle}
	}
	s.stateMu.RLock()
	defer s.stateMu.RUnlock()

	snap := Snapshot{
		OperatorID:  operatorID,
		Jobs:        make([]*domain.Job, 0, len(s.jobs)),
		Entries:     make([]*domain.TimeLogEntry, 0, len(s.entries)),
		Active:      copyEntry(s.active),
		Paused:      s.paused,
		Loaded:      s.loaded,
		RefreshedAt: s.refreshedAt,
		State:       domain.SessionIdle,
	}
	for _, j := range s.jobs {
		c := *j
		snap.Jobs = append(snap.Jobs, &c)
	}
	for _, e := range s.entries {
		snap.Entries = append(snap.Entries, copyEntry(e))
	}
	switch {
	case s.active != nil && s.paused:
		snap.State = domain.SessionOnBreak
	case s.active != nil:
		snap.State = domain.SessionActive
	}
	return snap
}

func findJob(jobs []*domain.Job, id string) *domain.Job {
	for _, j := range jobs {
		if j.ID == id {
			return j
		}
	}
	return nil
}

func copyEntry(e *domain.TimeLogEntry) *domain.TimeLogEntry {
	if e == nil {
		return nil
	}
	c := *e
	return &c
}

// Session slices are replaced, never mutated in place, so snapshots handed
// out earlier stay valid.

func replaceEntry(entries []*domain.TimeLogEntry, e *domain.TimeLogEntry) []*domain.TimeLogEntry {
	out := make([]*domain.TimeLogEntry, 0, len(entries)+1)
	found := false
	for _, existing := range entries {
		if existing.ID == e.ID {
			out = append(out, e)
			found = true
			continue
		}
		out = append(out, existing)
	}
	if !found {
		out = append([]*domain.TimeLogEntry{e}, out...)
	}
	return out
}

func replaceJob(jobs []*domain.Job, j *domain.Job) []*domain.Job {
	out := make([]*domain.Job, 0, len(jobs)+1)
	found := false
	for _, existing := range jobs {
		if existing.ID == j.ID {
			out = append(out, j)
			found = true
			continue
		}
		out = append(out, existing)
	}
	if !found {
		out = append(out, j)
	}
	return out
}
