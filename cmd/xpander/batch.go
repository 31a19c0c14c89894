package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/Defacto2/xpander"
	"github.com/Defacto2/xpander/config"
	"github.com/Defacto2/xpander/listing"
	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/schollz/progressbar/v3"
	"github.com/urfave/cli/v3"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/term"
)

var (
	ErrArgs   = errors.New("at least one archive or folder is required")
	ErrFailed = errors.New("archives failed")
	ErrNone   = errors.New("no archives were found")
)

// batch returns the action that runs the cmd command on the arguments.
func batch(cmd xpander.Command) cli.ActionFunc {
	return func(ctx context.Context, c *cli.Command) error {
		if c.Args().Len() == 0 {
			return ErrArgs
		}
		cfg, err := config.Load(c.String("config"))
		if err != nil {
			return err
		}
		if err := flags(cfg, c); err != nil {
			return err
		}
		logger, err := newLogger(cfg.Logging.Level, c.Bool("debug"))
		if err != nil {
			return err
		}
		defer func() { _ = logger.Sync() }()

		opts := cfg.RunOptions(cmd)
		opts.Overwrite = opts.Overwrite || c.Bool("overwrite")
		opts.AssumeYes = opts.AssumeYes || opts.Overwrite || c.Bool("yes")
		opts.FullPath = opts.FullPath || c.Bool("full-path")
		opts.ShowComments = opts.ShowComments || c.Bool("comments")
		opts.Verbose = opts.Verbose || c.Bool("verbose")
		opts.Debug = opts.Debug || c.Bool("debug")
		if c.Bool("password") {
			pw, err := password()
			if err != nil {
				return err
			}
			opts.UsePassword, opts.Password = true, pw
		}

		runner := xpander.NewRunner(logger)
		runner.Executable = cfg.Executable
		runner.Destination = cfg.Dest()
		runner.Prompter = Prompt{In: os.Stdin, Out: os.Stderr}
		rep := &report{}
		ctrl := xpander.NewController(runner, rep)

		ids, err := enqueue(ctrl, c.Args().Slice(), cfg)
		if err != nil {
			return err
		}
		if len(ids) == 0 {
			return ErrNone
		}
		if !c.Bool("quiet") {
			rep.bar = progressbar.NewOptions(len(ids),
				progressbar.OptionSetDescription(description(cmd)),
				progressbar.OptionSetWriter(os.Stderr),
				progressbar.OptionShowCount(),
				progressbar.OptionClearOnFinish(),
			)
		}
		if !ctrl.Start(ctx, opts, ids...) {
			return fmt.Errorf("%s: %w", cmd, xpander.ErrBusy)
		}
		ctrl.Wait()

		jobs := make([]*xpander.Job, 0, len(ids))
		for _, id := range ids {
			if job, ok := ctrl.Job(id); ok {
				jobs = append(jobs, job)
			}
		}
		summary(os.Stdout, cmd, c.Bool("quiet"), jobs...)
		if errors.Is(rep.res.Err, xpander.ErrBatchAborted) {
			return rep.res.Err
		}
		if n := rep.res.States[xpander.Failure]; n > 0 {
			return fmt.Errorf("%d %w", n, ErrFailed)
		}
		return nil
	}
}

// flags applies the destination and scan flags over the settings.
func flags(cfg *config.Config, c *cli.Command) error {
	switch {
	case c.Bool("ask"):
		cfg.Destination.Policy = xpander.AskWhenExtracting.String()
	case c.String("dest") != "":
		abs, err := filepath.Abs(c.String("dest"))
		if err != nil {
			return fmt.Errorf("dest %w", err)
		}
		cfg.Destination.Policy = xpander.FixedLocation.String()
		cfg.Destination.Folder = abs
	}
	cfg.Destination.Surrounding = cfg.Destination.Surrounding || c.Bool("surround")
	cfg.Scan.LookIntoFolders = cfg.Scan.LookIntoFolders || c.Bool("recurse")
	cfg.Scan.TreatAllFiles = cfg.Scan.TreatAllFiles || c.Bool("all")
	return cfg.Validate()
}

// enqueue adds the named archives, and the archives found in the named
// folders when looking into folders is enabled.
func enqueue(ctrl *xpander.Controller, names []string, cfg *config.Config) ([]uuid.UUID, error) {
	ids := []uuid.UUID{}
	for _, name := range names {
		st, err := os.Stat(name)
		if err != nil {
			return nil, err
		}
		if !st.IsDir() {
			id, err := ctrl.Enqueue(name)
			if err != nil {
				return nil, err
			}
			ids = append(ids, id)
			continue
		}
		if !cfg.Scan.LookIntoFolders {
			return nil, fmt.Errorf("%w, use --recurse: %s", xpander.ErrFolder, name)
		}
		found, err := ctrl.EnqueueFolder(name, cfg.Scan.TreatAllFiles)
		if err != nil {
			return nil, err
		}
		ids = append(ids, found...)
	}
	return ids, nil
}

func newLogger(level string, debug bool) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("logging level %w", err)
	}
	if debug {
		lvl = zapcore.DebugLevel
	}
	cfg := zap.NewProductionConfig()
	cfg.Encoding = "console"
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	return cfg.Build()
}

func password() (string, error) {
	fmt.Fprint(os.Stderr, "Password: ")
	b, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", fmt.Errorf("password %w", err)
	}
	return string(b), nil
}

func description(cmd xpander.Command) string {
	switch cmd {
	case xpander.Expand:
		return "Expanding"
	case xpander.List:
		return "Listing"
	case xpander.Test:
		return "Testing"
	}
	return ""
}

// report follows the batch progress.
type report struct {
	bar *progressbar.ProgressBar
	res xpander.Result
}

func (r *report) JobChanged(job *xpander.Job) {
	if r.bar == nil {
		return
	}
	switch job.State() {
	case xpander.Success, xpander.Failure, xpander.Aborted:
		_ = r.bar.Add(1)
	}
}

func (r *report) BatchFinished(res xpander.Result) {
	r.res = res
	if r.bar != nil {
		_ = r.bar.Finish()
	}
}

// summary prints the state and the output of the jobs.
func summary(w io.Writer, cmd xpander.Command, quiet bool, jobs ...*xpander.Job) {
	green := color.New(color.FgGreen).SprintFunc()
	red := color.New(color.FgRed).SprintFunc()
	yellow := color.New(color.FgYellow).SprintFunc()
	cyan := color.New(color.FgCyan).SprintFunc()
	for _, job := range jobs {
		state := job.State()
		switch state {
		case xpander.Success:
			if quiet {
				continue
			}
			fmt.Fprintf(w, "%s %s\n", green(state), job.Path())
		case xpander.Failure, xpander.Aborted:
			fmt.Fprintf(w, "%s %s (exit %d)\n", red(state), job.Path(), job.ExitCode())
			if s := job.Stderr(); s != "" {
				fmt.Fprintln(w, s)
			}
			continue
		default:
			if !quiet {
				fmt.Fprintf(w, "%s %s\n", yellow(state), job.Path())
			}
			continue
		}
		if cmd != xpander.List {
			continue
		}
		entries := job.Entries()
		for _, e := range entries {
			fmt.Fprintf(w, "  %-10s %-5s %10s %10s %5s  %s\n",
				e.Date, e.Time, e.Packed, e.Size, e.Ratio, e.Name)
		}
		if name := listing.Readme(job.Path(), entries...); name != "" {
			fmt.Fprintf(w, "  readme: %s\n", cyan(name))
		}
	}
}
