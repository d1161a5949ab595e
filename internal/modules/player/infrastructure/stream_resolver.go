package infrastructure

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/jonas747/dca"

	"github.com/hizuru/quaver/internal/modules/player/application/ports"
	"github.com/hizuru/quaver/internal/modules/player/domain"
)

// ErrNoStreamOrigin indicates a track without any way to fetch its audio.
var ErrNoStreamOrigin = errors.New("track has no stream origin")

// Compile-time check that DCAStreamResolver implements ports.StreamResolver.
var _ ports.StreamResolver = (*DCAStreamResolver)(nil)

// SessionOpener opens provider-hosted audio sessions by provider key and
// reference.
type SessionOpener interface {
	Open(ctx context.Context, provider, reference string) (io.ReadCloser, error)
}

// encodeFunc turns raw audio into a DCA frame stream. Swapped out in tests.
type encodeFunc func(source io.ReadCloser, options *dca.EncodeOptions) (io.ReadCloser, error)

// DCAStreamResolver fetches a track's audio from its origin and transcodes it
// into DCA frames ready for a voice connection. Seek offsets, volume, and
// filter arguments are applied at encode time.
type DCAStreamResolver struct {
	client *http.Client
	opener SessionOpener
	encode encodeFunc
}

// NewDCAStreamResolver creates a resolver. The opener may be nil when no
// session provider is configured; session-origin tracks then fail to resolve.
func NewDCAStreamResolver(client *http.Client, opener SessionOpener) *DCAStreamResolver {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	return &DCAStreamResolver{
		client: client,
		opener: opener,
		encode: encodeDCA,
	}
}

// Resolve opens the track's audio source and returns the encoded stream.
func (r *DCAStreamResolver) Resolve(
	ctx context.Context,
	track *domain.Track,
	opts ports.StreamOptions,
) (io.ReadCloser, error) {
	source, err := r.open(ctx, track)
	if err != nil {
		return nil, err
	}

	stream, err := r.encode(source, encodeOptions(opts))
	if err != nil {
		_ = source.Close()
		return nil, fmt.Errorf("failed to encode audio stream: %w", err)
	}
	return stream, nil
}

func (r *DCAStreamResolver) open(ctx context.Context, track *domain.Track) (io.ReadCloser, error) {
	switch origin := track.Origin.(type) {
	case domain.DirectOrigin:
		return r.fetch(ctx, origin.StreamURL)
	case domain.SessionOrigin:
		if r.opener == nil {
			return nil, fmt.Errorf("no session opener configured for provider %q", origin.Provider)
		}
		source, err := r.opener.Open(ctx, origin.Provider, origin.Reference)
		if err != nil {
			return nil, fmt.Errorf("failed to open %s session: %w", origin.Provider, err)
		}
		return source, nil
	default:
		return nil, ErrNoStreamOrigin
	}
}

func (r *DCAStreamResolver) fetch(ctx context.Context, url string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build stream request: %w", err)
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch audio stream: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		_ = resp.Body.Close()
		return nil, fmt.Errorf("audio stream request returned status %d", resp.StatusCode)
	}
	return resp.Body, nil
}

// encodeOptions maps stream options onto the DCA encoder configuration.
func encodeOptions(opts ports.StreamOptions) *dca.EncodeOptions {
	options := *dca.StdEncodeOptions
	options.RawOutput = true
	options.Application = dca.AudioApplicationAudio

	if opts.Bitrate > 0 {
		// The encoder works in kb/s.
		options.Bitrate = opts.Bitrate / 1000
	}
	if opts.Volume > 0 {
		// 256 is unity gain.
		options.Volume = opts.Volume * 256 / 100
	}
	if opts.Seek > 0 {
		options.StartTime = int(opts.Seek.Seconds())
	}
	if len(opts.EncoderArgs) > 0 {
		options.AudioFilter = strings.Join(opts.EncoderArgs, ",")
	}

	return &options
}

// encodedStream ties the encoder session's lifetime to the source stream's.
type encodedStream struct {
	session *dca.EncodeSession
	source  io.ReadCloser
}

func (s *encodedStream) Read(p []byte) (int, error) { return s.session.Read(p) }

func (s *encodedStream) Close() error {
	s.session.Cleanup()
	return s.source.Close()
}

func encodeDCA(source io.ReadCloser, options *dca.EncodeOptions) (io.ReadCloser, error) {
	session, err := dca.EncodeMem(source, options)
	if err != nil {
		return nil, err
	}
	return &encodedStream{session: session, source: source}, nil
}
