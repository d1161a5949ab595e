package usecases

import "errors"

// Errors surfaced synchronously by queue operations. Transport-level failures
// are never raised here; they arrive as queue error events instead.
var (
	// ErrInvalidChannelKind is returned when connecting to a channel that is
	// neither voice- nor stage-capable.
	ErrInvalidChannelKind = errors.New("channel is not voice-capable")

	// ErrNoVoiceConnection is returned when an operation requires a prior
	// successful connect.
	ErrNoVoiceConnection = errors.New("no voice connection")

	// ErrUnknownRepeatMode is returned when setting a repeat mode that is not
	// off, track, or queue.
	ErrUnknownRepeatMode = errors.New("unknown repeat mode")

	// ErrQueueDestroyed is returned when operating on a queue after destroy.
	ErrQueueDestroyed = errors.New("queue has been destroyed")

	// ErrNoResults is returned when a search yields no playable tracks.
	ErrNoResults = errors.New("no results found")
)
