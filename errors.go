package persisted

import "errors"

// The error taxonomy is a fixed, closed set. Every error returned by this
// package wraps exactly one of these sentinels, checkable with errors.Is.
var (
	// ErrIOFailure means the backing file could not be created, opened,
	// read, written, or replaced.
	ErrIOFailure = errors.New("persisted: io failure")

	// ErrMalformedLog means the backing file's content failed parsing at
	// construction time, or replay encountered an unknown operation name.
	ErrMalformedLog = errors.New("persisted: malformed log")

	// ErrEncodingFailure means a supplied parameter, key, or value is not
	// JSON-encodable.
	ErrEncodingFailure = errors.New("persisted: value not JSON-encodable")

	// ErrOutOfBounds means a list index fell outside [0, Len()).
	ErrOutOfBounds = errors.New("persisted: index out of bounds")

	// ErrNotFound means a value was absent from a list, or a key was
	// absent from a map.
	ErrNotFound = errors.New("persisted: not found")

	// ErrEmpty means PopBack was called on an empty list.
	ErrEmpty = errors.New("persisted: list is empty")
)
