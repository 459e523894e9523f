package bridgefs

import (
	"errors"
	"io/fs"
)

// Kind classifies every failure the adapter reports. Driver-native errors are
// collapsed into this closed set at the boundary so the composition layer
// reasons about exactly three failure outcomes instead of an open set.
type Kind int

const (
	KindNotFound Kind = iota
	KindAlreadyExists
	KindUnknown
)

// Error is a canonical adapter error. It carries no path; the caller already
// has it from the call context. Instances are never retried or mutated.
type Error struct {
	Kind Kind
}

var (
	ErrNotFound      = &Error{Kind: KindNotFound}
	ErrAlreadyExists = &Error{Kind: KindAlreadyExists}
	ErrUnknown       = &Error{Kind: KindUnknown}
)

func (e *Error) Error() string {
	switch e.Kind {
	case KindNotFound:
		return "not found"
	case KindAlreadyExists:
		return "already exists"
	default:
		return "unknown error"
	}
}

// Is reports kind equality so errors.Is matches across distinct instances.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

// Translate maps a driver-native error to its canonical form. nil stays nil.
// Already-canonical errors pass through unchanged, so translation is
// idempotent. Anything unrecognized maps to [ErrUnknown] rather than leaking
// the native error shape to callers.
func Translate(err error) error {
	if err == nil {
		return nil
	}
	var ce *Error
	switch {
	case errors.As(err, &ce):
		return ce
	case errors.Is(err, fs.ErrNotExist):
		return ErrNotFound
	case errors.Is(err, fs.ErrExist):
		return ErrAlreadyExists
	default:
		return ErrUnknown
	}
}
