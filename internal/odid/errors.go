package odid

import "errors"

// Decode outcomes. None of them is fatal: a frame that hits one simply
// yields fewer messages.
var (
	// ErrSignatureNotFound means the frame carries no Remote ID element
	ErrSignatureNotFound = errors.New("remote ID signature not found")

	// ErrTruncatedPack means the declared message count runs past the buffer
	ErrTruncatedPack = errors.New("truncated message pack")

	// ErrUnrecognizedType means a slot's header does not name a known message type
	ErrUnrecognizedType = errors.New("unrecognized message type")
)
