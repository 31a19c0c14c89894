package xpander

import (
	"context"
	"fmt"
	"path/filepath"
	"slices"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Observer receives the change notifications of a controller.
// Both methods are called from the batch goroutine while a batch runs,
// and JobChanged is always called after the change has been stored.
// The batch still counts as running while BatchFinished is called,
// so the controller refuses changes and new batches until it returns.
type Observer interface {
	JobChanged(job *Job)
	BatchFinished(res Result)
}

// Funcs is an Observer made of optional functions.
type Funcs struct {
	Changed  func(job *Job)
	Finished func(res Result)
}

// JobChanged calls f.Changed when it is set.
func (f Funcs) JobChanged(job *Job) {
	if f.Changed != nil {
		f.Changed(job)
	}
}

// BatchFinished calls f.Finished when it is set.
func (f Funcs) BatchFinished(res Result) {
	if f.Finished != nil {
		f.Finished(res)
	}
}

// Controller owns the list of jobs and runs at most one batch at a time.
// While a batch runs the runner is the only writer of the job states, so
// the controller refuses any other change with [ErrBusy].
type Controller struct {
	runner   *Runner
	observer Observer
	log      *zap.Logger

	mu      sync.Mutex
	jobs    []*Job
	running bool
	cancel  context.CancelFunc
	done    chan struct{}
}

// NewController returns a controller for the runner.
// The observer is optional.
func NewController(runner *Runner, observer Observer) *Controller {
	if runner == nil {
		runner = NewRunner(nil)
	}
	if observer == nil {
		observer = Funcs{}
	}
	return &Controller{
		runner:   runner,
		observer: observer,
		log:      runner.logger(),
	}
}

// Enqueue adds a queued job for the named archive and returns its id.
// The name is made absolute, a name that is already listed returns the
// existing job id.
func (c *Controller) Enqueue(name string) (uuid.UUID, error) {
	if name == "" {
		return uuid.Nil, ErrPath
	}
	path, err := filepath.Abs(name)
	if err != nil {
		return uuid.Nil, fmt.Errorf("enqueue %w", err)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, job := range c.jobs {
		if job.Path() == path {
			return job.ID(), nil
		}
	}
	job := NewJob(path)
	job.changed = c.observer.JobChanged
	c.jobs = append(c.jobs, job)
	c.log.Debug("enqueue", zap.String("archive", path), zap.Stringer("id", job.ID()))
	return job.ID(), nil
}

// EnqueueFolder adds a job for every archive found by [Scan] in the root folder.
func (c *Controller) EnqueueFolder(root string, treatAll bool) ([]uuid.UUID, error) {
	paths, err := Scan(root, treatAll)
	if err != nil {
		return nil, fmt.Errorf("enqueue folder %w", err)
	}
	ids := make([]uuid.UUID, 0, len(paths))
	for _, path := range paths {
		id, err := c.Enqueue(path)
		if err != nil {
			return ids, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// Start runs the options command on the jobs of ids, in the given order,
// in a new goroutine. It returns false when ids is empty, when none of the
// ids are listed or while another batch is running.
func (c *Controller) Start(ctx context.Context, opts Options, ids ...uuid.UUID) bool {
	if len(ids) == 0 {
		return false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.running {
		c.log.Warn("batch start refused", zap.Error(ErrBusy))
		return false
	}
	jobs := make([]*Job, 0, len(ids))
	for _, id := range ids {
		if job := c.find(id); job != nil {
			jobs = append(jobs, job)
		}
	}
	if len(jobs) == 0 {
		return false
	}
	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	c.running, c.cancel, c.done = true, cancel, done
	go func() {
		res := c.runner.Run(ctx, opts, jobs...)
		cancel()
		c.observer.BatchFinished(res)
		c.mu.Lock()
		c.running, c.cancel = false, nil
		c.mu.Unlock()
		close(done)
	}()
	return true
}

// Cancel stops the running batch, killing the running unace process.
// It does nothing when no batch is running.
func (c *Controller) Cancel() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.cancel != nil {
		c.cancel()
	}
}

// Running reports whether a batch is running.
func (c *Controller) Running() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.running
}

// Wait blocks until the last started batch has finished
// and its BatchFinished notification has returned.
func (c *Controller) Wait() {
	c.mu.Lock()
	done := c.done
	c.mu.Unlock()
	if done != nil {
		<-done
	}
}

// Jobs returns the listed jobs in their enqueued order.
func (c *Controller) Jobs() []*Job {
	c.mu.Lock()
	defer c.mu.Unlock()
	return slices.Clone(c.jobs)
}

// Job returns the job of the id.
func (c *Controller) Job(id uuid.UUID) (*Job, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	job := c.find(id)
	return job, job != nil
}

func (c *Controller) find(id uuid.UUID) *Job {
	for _, job := range c.jobs {
		if job.ID() == id {
			return job
		}
	}
	return nil
}

// Remove deletes the jobs of ids from the list, unknown ids are ignored.
func (c *Controller) Remove(ids ...uuid.UUID) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.running {
		return fmt.Errorf("remove %w", ErrBusy)
	}
	c.jobs = slices.DeleteFunc(c.jobs, func(job *Job) bool {
		return slices.Contains(ids, job.ID())
	})
	return nil
}

// RemoveAll empties the list.
func (c *Controller) RemoveAll() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.running {
		return fmt.Errorf("remove all %w", ErrBusy)
	}
	c.jobs = nil
	return nil
}

// SetState moves the job of the id to the state s, usually to requeue
// or to skip it.
func (c *Controller) SetState(id uuid.UUID, s State) error {
	c.mu.Lock()
	if c.running {
		c.mu.Unlock()
		return fmt.Errorf("set state %w", ErrBusy)
	}
	job := c.find(id)
	if job == nil {
		c.mu.Unlock()
		return fmt.Errorf("set state %w: %s", ErrJob, id)
	}
	err := job.transition(s)
	c.mu.Unlock()
	if err != nil {
		return err
	}
	job.notify()
	return nil
}

// SetAllState moves every job to the state s.
// When from states are given, only the jobs in one of those states are moved.
// Nothing is changed when any of the moves is not allowed.
func (c *Controller) SetAllState(s State, from ...State) error {
	if !s.Valid() {
		return fmt.Errorf("set all state %w: %d", ErrInvalidState, s)
	}
	c.mu.Lock()
	if c.running {
		c.mu.Unlock()
		return fmt.Errorf("set all state %w", ErrBusy)
	}
	moves := []*Job{}
	for _, job := range c.jobs {
		cur := job.State()
		if cur == s || (len(from) > 0 && !slices.Contains(from, cur)) {
			continue
		}
		if !Allowed(cur, s) {
			c.mu.Unlock()
			return fmt.Errorf("set all state %w: %s to %s", ErrInvalidState, cur, s)
		}
		moves = append(moves, job)
	}
	moved := moves[:0]
	for _, job := range moves {
		if err := job.transition(s); err != nil {
			c.log.Error("set all state", zap.String("archive", job.Path()), zap.Error(err))
			continue
		}
		moved = append(moved, job)
	}
	c.mu.Unlock()
	for _, job := range moved {
		job.notify()
	}
	return nil
}

// HaveAllState reports whether there are jobs and all of them are in the state s.
func (c *Controller) HaveAllState(s State) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.jobs) == 0 {
		return false
	}
	for _, job := range c.jobs {
		if job.State() != s {
			return false
		}
	}
	return true
}

// WithState returns the ids of the jobs in the state s, in their listed order.
func (c *Controller) WithState(s State) []uuid.UUID {
	c.mu.Lock()
	defer c.mu.Unlock()
	ids := []uuid.UUID{}
	for _, job := range c.jobs {
		if job.State() == s {
			ids = append(ids, job.ID())
		}
	}
	return ids
}
