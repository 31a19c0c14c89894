// Package listing parses the archive content table printed by the unace list
// commands into entries.
//
// The listing body is located by prefix only, the header lines are not
// validated. Output that does not match the expected layout returns fewer or
// no entries rather than an error.
package listing

import (
	"strings"
	"unicode"
)

const (
	// Trigger is the prefix of the line that announces the listing.
	Trigger = "Contents of archive"
	// Terminator is the prefix of the summary line that ends the listing.
	Terminator = "listed:"
	// LeadIn is the number of lines following the trigger that are discarded,
	// the blank line and the two column header lines.
	LeadIn = 3
	// Fields is the number of columns of a content line.
	Fields = 6
)

// Entry is one content line of the listing.
// A line with fewer than six columns leaves the trailing fields empty.
type Entry struct {
	Date   string // Date the file was last modified.
	Time   string // Time the file was last modified.
	Packed string // Packed is the compressed size.
	Size   string // Size is the original size.
	Ratio  string // Ratio is the compression ratio.
	Name   string // Name is the filename including any stored path.
}

// Parser scans the listing. The zero value discards no lead-in lines,
// use Parse or set LeadIn for the unace layout.
type Parser struct {
	LeadIn int // LeadIn lines are skipped after the trigger line.
}

// Parse returns the entries of the unace listing in the out text.
//
//	func ListACE(out string) {
//	    for _, e := range listing.Parse(out) {
//	        fmt.Println(e.Name, e.Size)
//	    }
//	}
func Parse(out string) []Entry {
	return Parser{LeadIn: LeadIn}.Parse(out)
}

// Parse returns the entries found in the out text, in their listed order.
// Text without the trigger line returns an empty slice.
func (p Parser) Parse(out string) []Entry {
	entries := []Entry{}
	found, skip := false, 0
	for line := range strings.Lines(out) {
		line = strings.TrimRight(line, "\r\n")
		if !found {
			if strings.HasPrefix(strings.TrimLeftFunc(line, unicode.IsSpace), Trigger) {
				found = true
				skip = max(p.LeadIn, 0)
			}
			continue
		}
		if skip > 0 {
			skip--
			continue
		}
		if strings.HasPrefix(strings.TrimLeftFunc(line, unicode.IsSpace), Terminator) {
			return entries
		}
		if strings.TrimSpace(line) == "" {
			continue
		}
		entries = append(entries, NewEntry(line))
	}
	return entries
}

// NewEntry splits the whitespace separated columns of line into an entry.
// Anything beyond the fifth column belongs to the filename,
// so names containing spaces are kept intact.
func NewEntry(line string) Entry {
	cols := split(line, Fields)
	cols = append(cols, make([]string, Fields-len(cols))...)
	return Entry{
		Date:   cols[0],
		Time:   cols[1],
		Packed: cols[2],
		Size:   cols[3],
		Ratio:  cols[4],
		Name:   cols[5],
	}
}

// split returns at most n whitespace separated fields of s,
// the last field holds the trimmed remainder.
func split(s string, n int) []string {
	fields := make([]string, 0, n)
	s = strings.TrimSpace(s)
	for s != "" && len(fields) < n-1 {
		i := strings.IndexFunc(s, unicode.IsSpace)
		if i < 0 {
			break
		}
		fields = append(fields, s[:i])
		s = strings.TrimLeftFunc(s[i:], unicode.IsSpace)
	}
	if s != "" {
		fields = append(fields, s)
	}
	return fields
}
