package listing

// Package file listing/readme.go contains the readme search of the listed filenames.

import (
	"cmp"
	"path"
	"path/filepath"
	"slices"
	"strings"
)

const (
	diz = ".diz"
	nfo = ".nfo"
	txt = ".txt"
)

// Usability of a filename as the archive readme, a lower value is better.
type Usability uint

const (
	// Lvl1 is the highest usability.
	Lvl1 Usability = iota + 1
	Lvl2
	Lvl3
	Lvl4
	Lvl5
	Lvl6
	Lvl7 // Lvl7 is the least usable.
)

// Readme returns the listed filename that most likely is the text readme
// of the named archive, or an empty string when there is no candidate.
// Matches ignore case as ACE archives were mostly made on DOS and Windows.
func Readme(archive string, entries ...Entry) string {
	base := strings.ToLower(strings.TrimSuffix(filepath.Base(archive), filepath.Ext(archive)))
	type match struct {
		name string
		use  Usability
	}
	matches := []match{}
	for _, e := range entries {
		if use := usable(e.Name, base); use > 0 {
			matches = append(matches, match{e.Name, use})
		}
	}
	if len(matches) == 0 {
		return ""
	}
	slices.SortStableFunc(matches, func(a, b match) int {
		return cmp.Compare(a.use, b.use)
	})
	return matches[0].name
}

// usable ranks the listed name against the archive base name,
// zero means the name is not a readme.
func usable(listed, base string) Usability {
	name := strings.ToLower(path.Base(strings.ReplaceAll(listed, `\`, "/")))
	ext := path.Ext(name)
	switch {
	case name == base+nfo:
		return Lvl1
	case name == base+txt:
		return Lvl2
	case ext == nfo:
		return Lvl3
	case name == "file_id.diz":
		return Lvl4
	case name == base+diz:
		return Lvl5
	case ext == txt:
		return Lvl6
	case ext == diz:
		return Lvl7
	}
	return 0
}
