package domain

// StreamOrigin describes how a track's audio bytes are obtained. It is a
// closed set: the stream resolver dispatches on the concrete type rather than
// inspecting string fields.
type StreamOrigin interface {
	streamOrigin()
}

// DirectOrigin is a source whose URL can be streamed directly (radio streams,
// plain audio files).
type DirectOrigin struct {
	StreamURL string
}

func (DirectOrigin) streamOrigin() {}

// SessionOrigin is a provider-backed source that requires opening a
// progressive download session before any bytes can be read. Provider names
// the resolution strategy; Reference is the provider-specific handle.
type SessionOrigin struct {
	Provider  string
	Reference string
}

func (SessionOrigin) streamOrigin() {}
