package xpander

import (
	"fmt"
	"slices"
	"sync"

	"github.com/Defacto2/xpander/listing"
	"github.com/google/uuid"
)

// State of a job.
type State int

const (
	Queued     State = iota // Queued jobs are processed by the next batch.
	Skip                    // Skip jobs are ignored by batches.
	Processing              // Processing jobs are being run by the unace program.
	Aborted                 // Aborted jobs were cancelled while processing.
	Success                 // Success jobs had unace exit with a zero code.
	Failure                 // Failure jobs had unace exit with a non-zero code or not start.
)

func (s State) String() string {
	switch s {
	case Queued:
		return "Queued"
	case Skip:
		return "Skip"
	case Processing:
		return "Processing"
	case Aborted:
		return "Aborted"
	case Success:
		return "Success"
	case Failure:
		return "Failure"
	}
	return "Undefined"
}

// Valid reports whether s is one of the six job states.
func (s State) Valid() bool {
	return s >= Queued && s <= Failure
}

// Allowed reports whether a job may move from one state to the other.
// Any job can be requeued or skipped by the user, while the runner moves
// queued jobs to processing and processing jobs to a result.
func Allowed(from, to State) bool {
	if !from.Valid() || !to.Valid() {
		return false
	}
	switch to {
	case Queued, Skip:
		return true
	case Processing:
		return from == Queued
	case Aborted, Success, Failure:
		return from == Processing
	}
	return false
}

// Job is one archive tracked through its processing.
// The path is fixed at creation, every other field is changed by the
// runner while a batch is processing the job.
type Job struct {
	id   uuid.UUID
	path string

	mu       sync.RWMutex
	state    State
	exitCode int
	stdout   string
	stderr   string
	entries  []listing.Entry

	changed func(*Job)
}

// NewJob returns a queued job for the named archive.
func NewJob(path string) *Job {
	return &Job{
		id:    uuid.New(),
		path:  path,
		state: Queued,
	}
}

// ID returns the unique identity of the job.
func (j *Job) ID() uuid.UUID { return j.id }

// Path returns the absolute path of the archive.
func (j *Job) Path() string { return j.path }

// State returns the current state.
func (j *Job) State() State {
	j.mu.RLock()
	defer j.mu.RUnlock()
	return j.state
}

// ExitCode returns the exit code of the last unace run, or ExitSpawn.
func (j *Job) ExitCode() int {
	j.mu.RLock()
	defer j.mu.RUnlock()
	return j.exitCode
}

// Stdout returns the standard output captured from the last unace run.
func (j *Job) Stdout() string {
	j.mu.RLock()
	defer j.mu.RUnlock()
	return j.stdout
}

// Stderr returns the standard error captured from the last unace run.
// Failed and aborted jobs show this text verbatim to the user.
func (j *Job) Stderr() string {
	j.mu.RLock()
	defer j.mu.RUnlock()
	return j.stderr
}

// Entries returns a copy of the archive content parsed from the last
// successful list command.
func (j *Job) Entries() []listing.Entry {
	j.mu.RLock()
	defer j.mu.RUnlock()
	return slices.Clone(j.entries)
}

// SetState moves the job to the state s.
// An unknown state or a move that is not [Allowed] returns [ErrInvalidState]
// and leaves the job unchanged.
func (j *Job) SetState(s State) error {
	if err := j.transition(s); err != nil {
		return err
	}
	j.notify()
	return nil
}

func (j *Job) transition(s State) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	if !s.Valid() {
		return fmt.Errorf("%w: %d", ErrInvalidState, s)
	}
	if !Allowed(j.state, s) {
		return fmt.Errorf("%w: %s to %s", ErrInvalidState, j.state, s)
	}
	j.state = s
	return nil
}

// begin moves the queued job to processing and clears the previous results.
func (j *Job) begin() error {
	j.mu.Lock()
	if !Allowed(j.state, Processing) {
		from := j.state
		j.mu.Unlock()
		return fmt.Errorf("%w: %s to %s", ErrInvalidState, from, Processing)
	}
	j.state = Processing
	j.exitCode = 0
	j.stdout, j.stderr = "", ""
	j.entries = nil
	j.mu.Unlock()
	j.notify()
	return nil
}

// finish stores the process output together with the resulting state,
// so an observer never sees one without the other.
// The content entries are replaced when the output is a successful listing.
func (j *Job) finish(s State, out Output, list bool) error {
	j.mu.Lock()
	if !Allowed(j.state, s) || s == Queued || s == Skip {
		from := j.state
		j.mu.Unlock()
		return fmt.Errorf("%w: %s to %s", ErrInvalidState, from, s)
	}
	j.state = s
	j.exitCode = out.ExitCode
	j.stdout, j.stderr = out.Stdout, out.Stderr
	j.entries = nil
	if list && s == Success {
		j.entries = listing.Parse(out.Stdout)
	}
	j.mu.Unlock()
	j.notify()
	return nil
}

func (j *Job) notify() {
	if j.changed != nil {
		j.changed(j)
	}
}
