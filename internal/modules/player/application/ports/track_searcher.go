package ports

import (
	"context"

	"github.com/hizuru/quaver/internal/modules/player/domain"
)

// TrackSearcher resolves a user query into playable tracks.
type TrackSearcher interface {
	// Search returns the tracks matching the query, best match first.
	// An empty result is returned as a nil slice with a nil error.
	Search(ctx context.Context, query string) ([]*domain.Track, error)
}
