package xpander

import (
	"fmt"

	"github.com/Defacto2/xpander/command"
)

// Command is the kind of work a batch asks unace to do.
type Command int

const (
	Expand Command = iota // Expand the archive files.
	List                  // List the archive content.
	Test                  // Test the archive integrity.
)

func (c Command) String() string {
	switch c {
	case Expand:
		return "expand"
	case List:
		return "list"
	case Test:
		return "test"
	}
	return "unknown"
}

// Options are the settings of a single batch run.
//
// AssumeYes must be set whenever Overwrite is set, as unace otherwise stops
// to ask about every existing file. The options are used as given.
type Options struct {
	Command      Command // Command to run.
	Overwrite    bool    // Overwrite existing files.
	FullPath     bool    // FullPath extracts the files with their stored paths.
	AssumeYes    bool    // AssumeYes answers yes to all the unace queries.
	ShowComments bool    // ShowComments displays the archive comments.
	Verbose      bool    // Verbose lists the archive content with the technical details.
	Debug        bool    // Debug logs the complete command line and output of each run.
	UsePassword  bool    // UsePassword passes the Password to unace.
	Password     string  // Password of encrypted archives.
}

// Args returns the unace arguments to run the command on the archive.
// The archive is always the last argument. Neither the archive nor any
// other argument is ever an empty string.
//
//	args, _ := xpander.Args(xpander.Options{Command: xpander.List}, "/tmp/a.ace")
//	// [l -o- -y- -c- /tmp/a.ace]
func Args(o Options, archive string) ([]string, error) {
	if archive == "" {
		return nil, ErrPath
	}
	mode := ""
	switch o.Command {
	case Expand:
		mode = command.Extract
		if o.FullPath {
			mode = command.ExtractFullPath
		}
	case List:
		mode = command.List
		if o.Verbose {
			mode = command.ListVerbosely
		}
	case Test:
		mode = command.Test
	default:
		return nil, fmt.Errorf("%w: %d", ErrCommand, o.Command)
	}
	args := []string{
		mode,
		toggle(command.OverwriteFiles, o.Overwrite),
		toggle(command.AssumeYes, o.AssumeYes),
		toggle(command.ShowComments, o.ShowComments),
	}
	if o.UsePassword {
		args = append(args, command.Password+o.Password)
	}
	args = append(args, archive)
	return args, nil
}

func toggle(flag string, on bool) string {
	if on {
		return flag + command.On
	}
	return flag + command.Off
}
