package core

import "errors"

var (
	// ErrNotFound means the data document itself is missing.
	// It is distinct from ErrConnection: the backend was reachable but had nothing to load.
	ErrNotFound = errors.New("no data document found")

	// ErrConnection covers transport failures: dial, handshake and authentication.
	ErrConnection = errors.New("connection failure")

	// ErrNoActiveContext is returned when a command needs an active context and none is flagged.
	ErrNoActiveContext = errors.New("no active context, create one using: tasks use <name>")

	// ErrEntityNotFound is returned when no task or context matches the given id.
	ErrEntityNotFound = errors.New("not found")

	// ErrMalformedInput marks an id token that is not a positive integer.
	ErrMalformedInput = errors.New("malformed input")

	// ErrDuplicateName is returned when a context rename collides with another context.
	ErrDuplicateName = errors.New("context name already in use")

	// ErrWatchUnsupported is returned by Watch when the backend cannot report changes.
	ErrWatchUnsupported = errors.New("backend does not support watching")
)
