package savewatch

import (
	"errors"
	"fmt"

	"github.com/stellarstats/savewatch/saveparser"
)

type FailureKind int

const (
	// ArchiveBad means the save container could not be opened or read.
	ArchiveBad FailureKind = iota + 1
	// EntryMissing means the container holds no entry named gamestate.
	EntryMissing
	// DecodeBad means the gamestate entry is not valid UTF-8.
	DecodeBad
	// DuplicateSave means the gamestate content was byte-identical to an
	// already-dispatched save. Only reported when duplicate skipping is on.
	DuplicateSave
)

var failureKindDescription = map[FailureKind]string{
	ArchiveBad:    "ArchiveBad",
	EntryMissing:  "EntryMissing",
	DecodeBad:     "DecodeBad",
	DuplicateSave: "DuplicateSave",
}

func (k FailureKind) String() string {
	return failureKindDescription[k]
}

// SaveError describes a per-file failure in the pipeline. It wraps the
// underlying cause, if any; parse and lex failures keep their own type
// (saveparser.Error) and are not wrapped in a SaveError.
type SaveError struct {
	Path string
	Kind FailureKind
	Err  error
}

func (e *SaveError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Path, e.Kind)
	}
	return fmt.Sprintf("%s: %s: %s", e.Path, e.Kind, e.Err)
}

func (e *SaveError) Unwrap() error {
	return e.Err
}

// ErrorKind classifies any error produced by the pipeline into a short
// stable label, used for one-line failure logging.
func ErrorKind(err error) string {
	var serr *SaveError
	if errors.As(err, &serr) {
		return serr.Kind.String()
	}
	var perr saveparser.Error
	if errors.As(err, &perr) {
		return perr.Kind.String()
	}
	return "Unknown"
}
