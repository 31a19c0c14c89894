// Package command lists the external unace program and the command letters
// and switches it understands.
package command

// A note about unace: the command letter must be the first argument and every
// switch must be a single token. The program treats an empty argument as the
// name of an archive, so an empty string must never be passed to it.

const (
	Unace = "unace" // Unace is the ACE decompression command.
)

// Command letters, exactly one is given per invocation.
const (
	Extract         = "e" // Extract files without their stored paths.
	ExtractFullPath = "x" // ExtractFullPath extracts files with their stored paths.
	List            = "l" // List the archive content briefly.
	ListVerbosely   = "v" // ListVerbosely lists the archive content with the technical details.
	Test            = "t" // Test the archive integrity.
)

// Switches, each toggle is suffixed with On or Off.
const (
	ShowComments   = "-c" // ShowComments displays the archive comments.
	OverwriteFiles = "-o" // OverwriteFiles overwrites existing files.
	Password       = "-p" // Password is followed by the password without a separator.
	AssumeYes      = "-y" // AssumeYes answers yes to all the program queries.

	On  = "+"
	Off = "-"
)
