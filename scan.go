package xpander

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/Defacto2/magicnumber"
)

// ErrFolder is returned when the scanned root is not a folder.
var ErrFolder = errors.New("path is not a folder")

// aceMagic is the signature found after the header CRC and size fields.
var aceMagic = []byte("**ACE**")

const aceOffset = 7

// Scan returns the absolute paths of the archives within the root folder
// and its sub folders, in lexical order.
// When treatAll is set every regular file is returned, otherwise only the
// files confirmed by [IsACE].
func Scan(root string, treatAll bool) ([]string, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("scan %w", err)
	}
	st, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("scan %w", err)
	}
	if !st.IsDir() {
		return nil, fmt.Errorf("scan %w: %s", ErrFolder, abs)
	}
	paths := []string{}
	err = filepath.WalkDir(abs, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.Type().IsRegular() {
			return nil
		}
		if treatAll || IsACE(path) {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan walk %w", err)
	}
	return paths, nil
}

// IsACE reports whether the named file is likely an ACE archive.
//
// A file with the ACE header signature is always an archive. A file that
// is identified as any other archive format is not, even when it uses
// the .ace extension. Otherwise the extension decides.
func IsACE(name string) bool {
	r, err := os.Open(name)
	if err != nil {
		return false
	}
	defer r.Close()
	if aceHeader(r) {
		return true
	}
	sign, err := magicnumber.Archive(r)
	if err == nil && sign != magicnumber.Unknown {
		return false
	}
	return strings.EqualFold(filepath.Ext(name), Ext)
}

func aceHeader(r io.ReaderAt) bool {
	buf := make([]byte, len(aceMagic))
	if _, err := r.ReadAt(buf, aceOffset); err != nil {
		return false
	}
	return bytes.Equal(buf, aceMagic)
}
