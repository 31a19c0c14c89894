package listing_test

import (
	"fmt"
	"testing"

	"github.com/Defacto2/xpander/listing"
)

func names(s ...string) []listing.Entry {
	entries := make([]listing.Entry, 0, len(s))
	for _, name := range s {
		entries = append(entries, listing.Entry{Name: name})
	}
	return entries
}

func ExampleReadme() {
	name := listing.Readme("/tmp/APP.ACE", names("APP.EXE", "APP.TXT",
		"APP.BIN", "APP.DAT", "STUFF.DAT")...)
	fmt.Println(name)
	// Output: APP.TXT
}

func TestReadme(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		filename string
		files    []string
		want     string
	}{
		{"NFO #1", "APP.ACE", []string{"APP.EXE", "APP.NFO"}, "APP.NFO"},
		{"TXT #1", "APP.ACE", []string{"APP.EXE", "APP.TXT"}, "APP.TXT"},
		{"NFO #2", "APP.ACE", []string{"APP.EXE", "STUFF.NFO"}, "STUFF.NFO"},
		{"DIZ #1", "APP.ACE", []string{"APP.EXE", "FILE_ID.DIZ", "APP.DIZ"}, "FILE_ID.DIZ"},
		{"DIZ #2", "APP.ACE", []string{"APP.EXE", "APP.DIZ"}, "APP.DIZ"},
		{"TXT #2", "APP.ACE", []string{"APP.EXE", "STUFF.TXT"}, "STUFF.TXT"},
		{"DIZ #3", "APP.ACE", []string{"APP.EXE", "STUFF.DIZ"}, "STUFF.DIZ"},
		{"Stored path", "app.ace", []string{"DOCS\\APP.NFO", "STUFF.TXT"}, "DOCS\\APP.NFO"},
		{"None", "APP.ACE", []string{"APP.EXE", "STUFF.DAT"}, ""},
		{"Empty", "APP.ACE", nil, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := listing.Readme(tt.filename, names(tt.files...)...)
			if got != tt.want {
				t.Errorf("Readme() = %v, want %v", got, tt.want)
			}
		})
	}
}
