package ports

import (
	"context"
	"io"

	"github.com/hizuru/quaver/internal/modules/player/domain"
)

// Resource is a playable unit: an audio byte stream with its track attached
// as metadata.
type Resource interface {
	Track() *domain.Track
}

// PlayDispatch is the signal pair for a single play attempt. Started closes
// once the transport begins streaming; Finished closes once the underlying
// stream has fully stopped, whether it ran to completion or was ended early.
// A handle must close Finished promptly after End or Disconnect.
type PlayDispatch struct {
	Started  <-chan struct{}
	Finished <-chan struct{}
}

// ConnectionHandle represents the live audio session for one guild. A queue
// owns at most one handle at a time; a new connect replaces, never merges.
type ConnectionHandle interface {
	// NewResource wraps an audio byte stream and its track into a playable
	// resource.
	NewResource(stream io.ReadCloser, track *domain.Track) Resource

	// Play starts streaming the resource and returns the dispatch for this
	// attempt. Starting a new resource supersedes the previous one.
	Play(ctx context.Context, res Resource) (*PlayDispatch, error)

	// End stops the current stream. The dispatch's Finished channel closes
	// once the transport has actually stopped.
	End() error

	// Disconnect tears down the voice session.
	Disconnect() error

	// SetPaused pauses or resumes streaming and reports the resulting state.
	SetPaused(paused bool) bool

	// SetVolume applies a volume percentage to the session and reports
	// whether it took effect.
	SetVolume(percent int) bool

	// Volume returns the session volume percentage.
	Volume() int

	// SetBitrate sets the encoder bitrate in bps for subsequent streams.
	// No-op when the session has no encoder attached.
	SetBitrate(bitrate int)

	// RequestSpeaker asks for speaker permission in a stage channel.
	// Best-effort; callers ignore the error.
	RequestSpeaker(ctx context.Context) error

	// Errors delivers transport-level errors. Closed on disconnect.
	Errors() <-chan error

	// Debug delivers transport debug messages. Closed on disconnect.
	Debug() <-chan string
}
