package object

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound means no object with the requested address is stored.
	ErrNotFound = errors.New("object not found")
	// ErrFormat means bytes violate the "<kind> <len>\0" envelope, the tree
	// record framing, or the commit header layout.
	ErrFormat = errors.New("malformed object")
	// ErrIO covers filesystem and compression stream failures.
	ErrIO = errors.New("object i/o failure")
)

// ObjectError describes a failed store or codec operation. It matches its
// Kind with errors.Is and unwraps to the underlying cause.
type ObjectError struct {
	Op   string
	Hash Hash
	Kind error
	Err  error
}

func (e *ObjectError) Error() string {
	if e == nil {
		return "<nil>"
	}
	msg := e.Op
	if e.Hash != "" {
		msg += " " + string(e.Hash)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v: %v", msg, e.Kind, e.Err)
	}
	return fmt.Sprintf("%s: %v", msg, e.Kind)
}

func (e *ObjectError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

func (e *ObjectError) Is(target error) bool {
	return e != nil && target == e.Kind
}

func formatErrorf(op string, h Hash, format string, args ...any) error {
	return &ObjectError{Op: op, Hash: h, Kind: ErrFormat, Err: fmt.Errorf(format, args...)}
}

func ioError(op string, h Hash, err error) error {
	return &ObjectError{Op: op, Hash: h, Kind: ErrIO, Err: err}
}

func notFound(op string, h Hash, err error) error {
	return &ObjectError{Op: op, Hash: h, Kind: ErrNotFound, Err: err}
}
