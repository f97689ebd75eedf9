package layout

import (
	"errors"
	"fmt"
)

// ErrBadSignature is returned when a file does not start with Signature.
var ErrBadSignature = errors.New("invalid resource file signature")

// IOError records a failed read of a fixed-size record. Short reads and
// device errors are not told apart here; Err holds whatever the stream
// returned.
type IOError struct {
	Op  string
	Err error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("I/O error: %s: %v", e.Op, e.Err)
}

func (e *IOError) Unwrap() error {
	return e.Err
}

// UTF8Error is returned when the comment is not valid UTF-8. Offset is the
// position of the first invalid byte.
type UTF8Error struct {
	Offset int
}

func (e *UTF8Error) Error() string {
	return fmt.Sprintf("invalid UTF-8 sequence at byte %d", e.Offset)
}
