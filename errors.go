package packedrtree

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyTree is returned when a tree is built from zero entries or
	// decoded from an empty file.
	ErrEmptyTree = errors.New("empty tree: no entries")

	// ErrInvalidK is returned when k is not positive.
	ErrInvalidK = errors.New("k must be positive")
)

// ErrMalformedInput indicates an unparsable or inconsistent input record.
//
// It is fatal: the loader does not attempt partial recovery. The original
// underlying error (if any) can be accessed via errors.Unwrap.
type ErrMalformedInput struct {
	File  string
	Line  int
	Msg   string
	cause error
}

func (e *ErrMalformedInput) Error() string {
	return fmt.Sprintf("malformed input: %s:%d: %s", e.File, e.Line, e.Msg)
}

func (e *ErrMalformedInput) Unwrap() error { return e.cause }

// NewMalformedInput creates an ErrMalformedInput for the given file and line.
func NewMalformedInput(file string, line int, msg string, cause error) *ErrMalformedInput {
	return &ErrMalformedInput{File: file, Line: line, Msg: msg, cause: cause}
}

// ErrDanglingReference indicates that an internal node referenced a child id
// that has not been seen yet during deserialization. Serialized trees are
// emitted bottom-up, so this means the file is corrupted or hand-edited.
type ErrDanglingReference struct {
	NodeID  int
	ChildID int
}

func (e *ErrDanglingReference) Error() string {
	return fmt.Sprintf("dangling reference: node %d references unknown child %d", e.NodeID, e.ChildID)
}
