package xpander

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
)

// SurroundingSuffix is appended to the archive name to create the surrounding folder.
const SurroundingSuffix = " Folder"

// Policy decides where the archives of a batch are expanded.
type Policy int

const (
	SameAsArchive     Policy = iota // SameAsArchive expands into the folder holding the archive.
	FixedLocation                   // FixedLocation expands into a configured folder.
	AskWhenExtracting               // AskWhenExtracting asks the user once per batch.
)

func (p Policy) String() string {
	switch p {
	case SameAsArchive:
		return "same-as-archive"
	case FixedLocation:
		return "fixed-location"
	case AskWhenExtracting:
		return "ask-when-extracting"
	}
	return "unknown"
}

// ParsePolicy returns the policy named s, the names match Policy.String.
func ParsePolicy(s string) (Policy, error) {
	for _, p := range []Policy{SameAsArchive, FixedLocation, AskWhenExtracting} {
		if strings.EqualFold(strings.TrimSpace(s), p.String()) {
			return p, nil
		}
	}
	return SameAsArchive, fmt.Errorf("%w: %q", ErrPolicy, s)
}

// Prompter asks the user for a destination folder.
// The ok result is false when the user cancelled the question.
type Prompter interface {
	PromptFolder(ctx context.Context) (folder string, ok bool)
}

// PromptFunc is an adapter to use an ordinary function as a Prompter.
type PromptFunc func(ctx context.Context) (string, bool)

// PromptFolder calls f(ctx).
func (f PromptFunc) PromptFolder(ctx context.Context) (string, bool) {
	return f(ctx)
}

// Destination is the configured policy for the extraction folder.
type Destination struct {
	Policy      Policy // Policy to locate the folder.
	Folder      string // Folder is the absolute path used by FixedLocation.
	Surrounding bool   // Surrounding creates a folder named after the archive within the destination.
}

// Choice holds the folder chosen by the user for the current batch.
// A new batch must use a new, zero value Choice.
type Choice struct {
	asked  bool
	folder string
}

// Folder returns the chosen folder and whether the user was asked.
func (c *Choice) Folder() (string, bool) {
	return c.folder, c.asked
}

// Resolve returns the destination folder for the archive.
//
// With the AskWhenExtracting policy the prompter is only used when the
// choice is still empty, the answer is then kept in choice for the rest of
// the batch. A cancelled or missing prompter returns [ErrBatchAborted].
func (d Destination) Resolve(ctx context.Context, archive string, p Prompter, choice *Choice) (string, error) {
	if archive == "" {
		return "", ErrPath
	}
	dir := ""
	switch d.Policy {
	case SameAsArchive:
		dir = filepath.Dir(archive)
	case FixedLocation:
		if d.Folder == "" {
			return "", ErrDest
		}
		if !filepath.IsAbs(d.Folder) {
			return "", fmt.Errorf("%w, the fixed location is not absolute: %q", ErrDest, d.Folder)
		}
		dir = filepath.Clean(d.Folder)
	case AskWhenExtracting:
		folder, err := ask(ctx, p, choice)
		if err != nil {
			return "", err
		}
		dir = folder
	default:
		return "", fmt.Errorf("%w: %d", ErrPolicy, d.Policy)
	}
	if d.Surrounding {
		dir = filepath.Join(dir, Surrounding(archive))
	}
	return dir, nil
}

func ask(ctx context.Context, p Prompter, choice *Choice) (string, error) {
	if choice == nil {
		choice = &Choice{}
	}
	if choice.asked {
		return choice.folder, nil
	}
	if p == nil {
		return "", ErrBatchAborted
	}
	folder, ok := p.PromptFolder(ctx)
	if !ok || strings.TrimSpace(folder) == "" {
		return "", ErrBatchAborted
	}
	abs, err := filepath.Abs(folder)
	if err != nil {
		return "", fmt.Errorf("destination prompt %w", err)
	}
	choice.asked, choice.folder = true, abs
	return abs, nil
}

// Surrounding returns the name of the folder that surrounds the expanded
// files of the archive, the archive name without its extension and with
// the SurroundingSuffix.
func Surrounding(archive string) string {
	base := filepath.Base(archive)
	name := strings.TrimSuffix(base, filepath.Ext(base))
	if name == "" {
		name = base
	}
	return name + SurroundingSuffix
}
