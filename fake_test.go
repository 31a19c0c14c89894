package xpander_test

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"sync"

	"github.com/Defacto2/xpander"
)

// behavior of a fake unace run.
type behavior struct {
	stdout string
	stderr string
	code   int
	block  bool  // block until killed
	err    error // spawn error
}

// call is a recorded fake spawn.
type call struct {
	dir  string
	name string
	args []string
}

// spawner is a fake xpander.Spawner, the behavior is chosen by the archive name.
type spawner struct {
	mu      sync.Mutex
	calls   []call
	plays   map[string]behavior
	started chan string
}

func newSpawner(plays map[string]behavior) *spawner {
	return &spawner{plays: plays, started: make(chan string, 16)}
}

func (s *spawner) Spawn(_ context.Context, dir, name string, args ...string) (xpander.Process, error) {
	archive := filepath.Base(args[len(args)-1])
	s.mu.Lock()
	s.calls = append(s.calls, call{dir: dir, name: name, args: args})
	b := s.plays[archive]
	s.mu.Unlock()
	if b.err != nil {
		return nil, fmt.Errorf("%w: %w", xpander.ErrSpawn, b.err)
	}
	p := newProc(b)
	s.started <- archive
	return p, nil
}

func (s *spawner) Calls() []call {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]call{}, s.calls...)
}

// proc is a fake xpander.Process.
type proc struct {
	stdout, stderr *io.PipeReader
	code           int
	exited         chan struct{}
	kill           chan struct{}
	once           sync.Once
	mu             sync.Mutex
	killed         bool
}

func newProc(b behavior) *proc {
	outR, outW := io.Pipe()
	errR, errW := io.Pipe()
	p := &proc{
		stdout: outR, stderr: errR, code: b.code,
		exited: make(chan struct{}), kill: make(chan struct{}),
	}
	go func() {
		var wg sync.WaitGroup
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, _ = io.Copy(outW, strings.NewReader(b.stdout))
		}()
		go func() {
			defer wg.Done()
			_, _ = io.Copy(errW, strings.NewReader(b.stderr))
		}()
		wg.Wait()
		if b.block {
			<-p.kill
		}
		outW.Close()
		errW.Close()
		close(p.exited)
	}()
	return p
}

func (p *proc) Stdout() io.Reader { return p.stdout }
func (p *proc) Stderr() io.Reader { return p.stderr }

func (p *proc) Wait() (int, error) {
	<-p.exited
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.killed {
		return -1, nil
	}
	return p.code, nil
}

func (p *proc) Kill() error {
	p.once.Do(func() {
		p.mu.Lock()
		p.killed = true
		p.mu.Unlock()
		close(p.kill)
	})
	return nil
}

// event is a recorded observer notification.
type event struct {
	path     string
	state    xpander.State
	finished bool
}

// recorder is an xpander.Observer that keeps every notification.
type recorder struct {
	mu     sync.Mutex
	events []event
	result xpander.Result
}

func (r *recorder) JobChanged(job *xpander.Job) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event{path: filepath.Base(job.Path()), state: job.State()})
}

func (r *recorder) BatchFinished(res xpander.Result) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.result = res
	r.events = append(r.events, event{finished: true})
}

func (r *recorder) Events() []event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]event{}, r.events...)
}

func (r *recorder) Finished() int {
	n := 0
	for _, e := range r.Events() {
		if e.finished {
			n++
		}
	}
	return n
}

const listing2 = "Contents of archive X.ACE\n\nDate |Time |Packed |Size |Ratio|File\n----\n" +
	"2024-01-01 10:00 100 200 50% a.txt\n" +
	"2024-01-01 10:01 300 400 75% b.txt\n" +
	"\nlisted: 2 file(s)\n"
