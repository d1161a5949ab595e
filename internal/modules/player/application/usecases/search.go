package usecases

import (
	"context"
	"time"

	"github.com/disgoorg/snowflake/v2"
	"github.com/hizuru/quaver/internal/modules/player/application/ports"
	"github.com/hizuru/quaver/internal/modules/player/domain"
)

// FindTrackInput contains the input for the FindTrack use case.
type FindTrackInput struct {
	Query       string
	RequestedBy snowflake.ID
	AllowLive   bool // live tracks are skipped when false
}

// SearchService resolves user queries into playable tracks.
type SearchService struct {
	searcher ports.TrackSearcher
}

// NewSearchService creates a new SearchService.
func NewSearchService(searcher ports.TrackSearcher) *SearchService {
	return &SearchService{searcher: searcher}
}

// FindTrack returns the best match for the query, stamped with the requester.
func (s *SearchService) FindTrack(ctx context.Context, input FindTrackInput) (*domain.Track, error) {
	tracks, err := s.find(ctx, input)
	if err != nil {
		return nil, err
	}
	return tracks[0], nil
}

// FindTracks returns all matches for the query (e.g. a playlist), stamped
// with the requester.
func (s *SearchService) FindTracks(ctx context.Context, input FindTrackInput) ([]*domain.Track, error) {
	return s.find(ctx, input)
}

func (s *SearchService) find(ctx context.Context, input FindTrackInput) ([]*domain.Track, error) {
	query := domain.NewSearchQuery(input.Query)
	if !query.IsValid() {
		return nil, ErrNoResults
	}

	results, err := s.searcher.Search(ctx, query.ResolverQuery())
	if err != nil {
		return nil, err
	}

	tracks := make([]*domain.Track, 0, len(results))
	for _, result := range results {
		if result.IsLive && !input.AllowLive {
			continue
		}
		track := *result
		track.RequestedBy = input.RequestedBy
		track.EnqueuedAt = time.Now().UTC()
		tracks = append(tracks, &track)
	}
	if len(tracks) == 0 {
		return nil, ErrNoResults
	}
	return tracks, nil
}
