package config

import (
	"fmt"
	"path/filepath"
	"strings"
)

// FileErrorKind classifies what went wrong with a configuration file.
type FileErrorKind string

const (
	KindRead  FileErrorKind = "read"
	KindParse FileErrorKind = "parse"
)

// FileError reports a problem with a specific configuration file. It wraps
// the underlying cause so errors.Is keeps working.
type FileError struct {
	Path  string        `json:"path"`
	Kind  FileErrorKind `json:"kind"`
	Err   error         `json:"-"`
	Hints []string      `json:"hints,omitempty"`
}

func newFileError(path string, kind FileErrorKind, err error, hints ...string) *FileError {
	return &FileError{Path: path, Kind: kind, Err: err, Hints: hints}
}

func (e *FileError) Error() string {
	return fmt.Sprintf("%s: %s failed: %v", filepath.Base(e.Path), e.Kind, e.Err)
}

func (e *FileError) Unwrap() error { return e.Err }

// Explain renders the error over several lines with the full path and any
// hints, for display by the CLI.
func (e *FileError) Explain() string {
	var b strings.Builder
	fmt.Fprintf(&b, "cannot %s %s\n  %v", e.Kind, e.Path, e.Err)
	for _, h := range e.Hints {
		fmt.Fprintf(&b, "\n  hint: %s", h)
	}
	return b.String()
}
