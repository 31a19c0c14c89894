package xpander

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/Defacto2/xpander/command"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// DirMode is the file mode of a created destination folder.
const DirMode os.FileMode = 0o755

// Output is the result of one unace run.
type Output struct {
	ExitCode int    // ExitCode of the process, or ExitSpawn.
	Stdout   string // Stdout is the complete standard output.
	Stderr   string // Stderr is the complete standard error.
}

// Result summarizes a batch run.
type Result struct {
	Command Command       // Command that was run.
	States  map[State]int // States counts the batch jobs by their state after the run.
	// Err is nil when every queued job was processed,
	// context.Canceled when the batch was cancelled
	// or ErrBatchAborted when the user declined to choose a destination.
	Err error
}

// Runner processes jobs one after the other, never running more than one
// unace process at a time.
type Runner struct {
	Executable  string      // Executable is the unace program name or path.
	Destination Destination // Destination of the expanded files.
	Prompter    Prompter    // Prompter asks for the folder of the AskWhenExtracting policy.
	Spawner     Spawner     // Spawner starts the unace processes, nil uses Exec.
	Logger      *zap.Logger // Logger is optional.
}

// NewRunner returns a runner that uses the unace program found in the PATH
// and expands the archives next to themselves.
func NewRunner(logger *zap.Logger) *Runner {
	return &Runner{
		Executable:  command.Unace,
		Destination: Destination{Policy: SameAsArchive},
		Spawner:     Exec{},
		Logger:      logger,
	}
}

// Run processes the queued jobs in their given order using the options.
// Jobs that are not queued when they are reached are left untouched.
//
// Cancelling the ctx kills the running process, the job being processed
// is then aborted and the remaining jobs stay queued. When the user declines
// to choose a destination folder, the job waiting for it and all the
// remaining jobs stay queued.
//
// A process that cannot be started fails its job with the ExitSpawn code
// and the batch continues with the next job.
func (r *Runner) Run(ctx context.Context, opts Options, jobs ...*Job) Result {
	log := r.logger().With(zap.Stringer("command", opts.Command))
	log.Info("batch started", zap.Int("jobs", len(jobs)))
	res := Result{Command: opts.Command}
	choice := &Choice{}
	for _, job := range jobs {
		if err := ctx.Err(); err != nil {
			res.Err = err
			break
		}
		if job.State() != Queued {
			continue
		}
		dir, dirErr := r.workdir(ctx, opts, job.Path(), choice)
		if errors.Is(dirErr, ErrBatchAborted) {
			log.Warn("batch aborted", zap.String("archive", job.Path()))
			res.Err = ErrBatchAborted
			break
		}
		if err := job.begin(); err != nil {
			log.Warn("job skipped", zap.String("archive", job.Path()), zap.Error(err))
			continue
		}
		out := Output{ExitCode: ExitSpawn}
		if dirErr != nil {
			log.Warn("destination", zap.String("archive", job.Path()), zap.Error(dirErr))
		} else {
			var err error
			out, err = r.run(ctx, log, dir, opts, job.Path())
			if err != nil {
				log.Warn("unace", zap.String("archive", job.Path()), zap.Error(err))
			}
		}
		state := Failure
		switch {
		case ctx.Err() != nil:
			state = Aborted
		case out.ExitCode == 0:
			state = Success
		}
		if err := job.finish(state, out, opts.Command == List); err != nil {
			log.Error("job finish", zap.String("archive", job.Path()), zap.Error(err))
		}
		log.Info("job finished", zap.String("archive", job.Path()),
			zap.Stringer("state", state), zap.Int("exit", out.ExitCode))
		if state == Aborted {
			res.Err = ctx.Err()
			break
		}
	}
	res.States = make(map[State]int)
	for _, job := range jobs {
		res.States[job.State()]++
	}
	log.Info("batch finished", zap.Error(res.Err))
	return res
}

// workdir returns the working directory of the unace process.
// unace expands into its working directory, so an expansion runs in the
// destination folder which is created when missing. Other commands run
// in the folder holding the archive.
func (r *Runner) workdir(ctx context.Context, opts Options, archive string, choice *Choice) (string, error) {
	if opts.Command != Expand {
		return filepath.Dir(archive), nil
	}
	dir, err := r.Destination.Resolve(ctx, archive, r.Prompter, choice)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, DirMode); err != nil {
		return "", fmt.Errorf("destination %w", err)
	}
	return dir, nil
}

// run starts unace and waits for it to exit.
// Both output streams are read to their end before the exit code is
// collected, so a full pipe cannot block the process.
func (r *Runner) run(ctx context.Context, log *zap.Logger, dir string, opts Options, archive string) (Output, error) {
	out := Output{ExitCode: ExitSpawn}
	args, err := Args(opts, archive)
	if err != nil {
		return out, err
	}
	if opts.Debug {
		log.Debug("unace", zap.String("dir", dir), zap.String("program", r.executable()),
			zap.Strings("args", redact(args)))
	}
	p, err := r.spawner().Spawn(ctx, dir, r.executable(), args...)
	if err != nil {
		return out, err
	}
	stop := context.AfterFunc(ctx, func() {
		if err := p.Kill(); err != nil {
			log.Warn("unace kill", zap.Error(err))
		}
	})
	defer stop()

	var stdout, stderr bytes.Buffer
	var g errgroup.Group
	g.Go(func() error {
		_, err := io.Copy(&stdout, p.Stdout())
		return err
	})
	g.Go(func() error {
		_, err := io.Copy(&stderr, p.Stderr())
		return err
	})
	readErr := g.Wait()
	code, waitErr := p.Wait()
	out = Output{ExitCode: code, Stdout: stdout.String(), Stderr: stderr.String()}
	if opts.Debug {
		log.Debug("unace output", zap.Int("exit", code),
			zap.String("stdout", out.Stdout), zap.String("stderr", out.Stderr))
	}
	if waitErr != nil {
		return out, fmt.Errorf("unace wait %w", waitErr)
	}
	if readErr != nil {
		return out, fmt.Errorf("unace read %w", readErr)
	}
	return out, nil
}

func (r *Runner) executable() string {
	if r.Executable == "" {
		return command.Unace
	}
	return r.Executable
}

func (r *Runner) spawner() Spawner {
	if r.Spawner == nil {
		return Exec{}
	}
	return r.Spawner
}

func (r *Runner) logger() *zap.Logger {
	if r.Logger == nil {
		return zap.NewNop()
	}
	return r.Logger
}

// redact hides the password value of the arguments.
func redact(args []string) []string {
	s := make([]string, len(args))
	for i, arg := range args {
		if strings.HasPrefix(arg, command.Password) && i < len(args)-1 {
			arg = command.Password + "****"
		}
		s[i] = arg
	}
	return s
}
