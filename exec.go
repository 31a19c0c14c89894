package xpander

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"
)

// TimeoutVersion is the maximum time allowed for the program to print its version.
const TimeoutVersion = 2 * time.Second

// Process is a started program whose output streams must be read to the end
// before waiting for it to exit.
type Process interface {
	Stdout() io.Reader  // Stdout is the standard output stream.
	Stderr() io.Reader  // Stderr is the standard error stream.
	Wait() (int, error) // Wait returns the exit code once the process has exited.
	Kill() error        // Kill forcefully stops the process.
}

// Spawner starts the named program with the args in the dir working directory.
// A program that cannot be started returns an error wrapping [ErrSpawn].
type Spawner interface {
	Spawn(ctx context.Context, dir, name string, args ...string) (Process, error)
}

// Exec spawns programs as operating system processes.
type Exec struct{}

// Spawn looks up the named program and starts it.
func (Exec) Spawn(_ context.Context, dir, name string, args ...string) (Process, error) {
	prog, err := lookPath(name)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSpawn, err)
	}
	cmd := exec.Command(prog, args...)
	cmd.Dir = dir
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("%w: stdout %w", ErrSpawn, err)
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return nil, fmt.Errorf("%w: stderr %w", ErrSpawn, err)
	}
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("%w: %s %w", ErrSpawn, prog, err)
	}
	return &process{cmd: cmd, stdout: stdout, stderr: stderr}, nil
}

type process struct {
	cmd    *exec.Cmd
	stdout io.Reader
	stderr io.Reader
}

func (p *process) Stdout() io.Reader { return p.stdout }
func (p *process) Stderr() io.Reader { return p.stderr }

// Wait returns the exit code, which is -1 when the process was killed by a signal.
func (p *process) Wait() (int, error) {
	err := p.cmd.Wait()
	var exitErr *exec.ExitError
	switch {
	case err == nil, errors.As(err, &exitErr):
		return p.cmd.ProcessState.ExitCode(), nil
	case p.cmd.ProcessState != nil:
		return p.cmd.ProcessState.ExitCode(), err
	}
	return ExitSpawn, err
}

func (p *process) Kill() error {
	if p.cmd.Process == nil {
		return nil
	}
	if err := p.cmd.Process.Kill(); err != nil && !errors.Is(err, os.ErrProcessDone) {
		return fmt.Errorf("process kill %w", err)
	}
	return nil
}

// Version returns the first line of the banner the named unace program
// prints when it is run without any arguments.
func Version(ctx context.Context, name string) (string, error) {
	prog, err := lookPath(name)
	if err != nil {
		return "", fmt.Errorf("version %w: %w", ErrSpawn, err)
	}
	var b bytes.Buffer
	ctx, cancel := context.WithTimeout(ctx, TimeoutVersion)
	defer cancel()
	cmd := exec.CommandContext(ctx, prog)
	cmd.Stderr = &b
	out, err := cmd.Output()
	var exitErr *exec.ExitError
	if err != nil && !errors.As(err, &exitErr) {
		return "", fmt.Errorf("version %s %w", prog, err)
	}
	for line := range strings.Lines(string(out)) {
		if s := strings.TrimSpace(line); s != "" {
			return s, nil
		}
	}
	if s := strings.TrimSpace(b.String()); s != "" {
		return "", fmt.Errorf("version %w: %s: %q", ErrVersion, prog, s)
	}
	return "", fmt.Errorf("version %w: %s", ErrVersion, prog)
}

// lookPath returns the absolute path of the named program.
// A relative result of exec.LookPath would otherwise be resolved against
// the working directory of the process, not the current directory.
func lookPath(name string) (string, error) {
	prog, err := exec.LookPath(name)
	if err != nil {
		return "", err
	}
	abs, err := filepath.Abs(prog)
	if err != nil {
		return "", fmt.Errorf("%s %w", prog, err)
	}
	return abs, nil
}
