package ports

import (
	"context"
	"io"
	"time"

	"github.com/hizuru/quaver/internal/modules/player/domain"
)

// StreamOptions shape the byte stream a resolver produces.
type StreamOptions struct {
	Seek        time.Duration // start offset into the track
	EncoderArgs []string      // extra encoder/filter arguments
	Volume      int           // volume percentage baked into the encode
	Bitrate     int           // encoder bitrate in bps, 0 for the default
}

// StreamResolver turns a track's origin into a readable audio byte stream,
// honoring the requested seek offset and encoder arguments. Resolution
// strategy is dispatched on the track's StreamOrigin variant; session-based
// origins open a progressive download session first.
type StreamResolver interface {
	Resolve(ctx context.Context, track *domain.Track, opts StreamOptions) (io.ReadCloser, error)
}
