package usecases

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/disgoorg/snowflake/v2"
	"github.com/hizuru/quaver/internal/modules/player/domain"
)

type mockSearcher struct {
	mu      sync.Mutex
	results []*domain.Track
	err     error
	queries []string
}

func (m *mockSearcher) Search(_ context.Context, query string) ([]*domain.Track, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.queries = append(m.queries, query)
	if m.err != nil {
		return nil, m.err
	}
	return m.results, nil
}

func TestSearchServiceFindTrack(t *testing.T) {
	searcher := &mockSearcher{results: []*domain.Track{testTrack("a"), testTrack("b")}}
	service := NewSearchService(searcher)

	track, err := service.FindTrack(context.Background(), FindTrackInput{
		Query:       "some song",
		RequestedBy: snowflake.ID(42),
		AllowLive:   true,
	})
	if err != nil {
		t.Fatalf("FindTrack() failed: %v", err)
	}
	if track.ID != "a" {
		t.Errorf("track.ID = %q, want the first result", track.ID)
	}
	if track.RequestedBy != snowflake.ID(42) {
		t.Errorf("RequestedBy = %v, want 42", track.RequestedBy)
	}
	if track.EnqueuedAt.IsZero() {
		t.Error("EnqueuedAt should be stamped")
	}
	if searcher.queries[0] != "ytsearch:some song" {
		t.Errorf("query = %q, want default source prefix", searcher.queries[0])
	}
}

func TestSearchServiceFindTrackURLPassesThrough(t *testing.T) {
	searcher := &mockSearcher{results: []*domain.Track{testTrack("a")}}
	service := NewSearchService(searcher)

	_, err := service.FindTrack(context.Background(), FindTrackInput{
		Query:     "https://example.com/watch?v=abc",
		AllowLive: true,
	})
	if err != nil {
		t.Fatalf("FindTrack() failed: %v", err)
	}
	if searcher.queries[0] != "https://example.com/watch?v=abc" {
		t.Errorf("query = %q, want the raw URL", searcher.queries[0])
	}
}

func TestSearchServiceSkipsLiveTracks(t *testing.T) {
	live := testTrack("live")
	live.IsLive = true
	searcher := &mockSearcher{results: []*domain.Track{live, testTrack("b")}}
	service := NewSearchService(searcher)

	track, err := service.FindTrack(context.Background(), FindTrackInput{Query: "radio"})
	if err != nil {
		t.Fatalf("FindTrack() failed: %v", err)
	}
	if track.ID != "b" {
		t.Errorf("track.ID = %q, want the first non-live result", track.ID)
	}

	tracks, err := service.FindTracks(context.Background(), FindTrackInput{Query: "radio", AllowLive: true})
	if err != nil {
		t.Fatalf("FindTracks() failed: %v", err)
	}
	if len(tracks) != 2 {
		t.Errorf("FindTracks() with AllowLive = %d tracks, want 2", len(tracks))
	}
}

func TestSearchServiceNoResults(t *testing.T) {
	service := NewSearchService(&mockSearcher{})

	if _, err := service.FindTrack(context.Background(), FindTrackInput{Query: "nothing"}); !errors.Is(err, ErrNoResults) {
		t.Fatalf("FindTrack() error = %v, want ErrNoResults", err)
	}
	if _, err := service.FindTrack(context.Background(), FindTrackInput{Query: "   "}); !errors.Is(err, ErrNoResults) {
		t.Fatalf("blank query error = %v, want ErrNoResults", err)
	}
}

func TestSearchServicePropagatesSearcherError(t *testing.T) {
	searchErr := errors.New("node unavailable")
	service := NewSearchService(&mockSearcher{err: searchErr})

	if _, err := service.FindTrack(context.Background(), FindTrackInput{Query: "song"}); !errors.Is(err, searchErr) {
		t.Fatalf("FindTrack() error = %v, want %v", err, searchErr)
	}
}

func TestSearchServiceDoesNotMutateResults(t *testing.T) {
	original := testTrack("a")
	service := NewSearchService(&mockSearcher{results: []*domain.Track{original}})

	track, err := service.FindTrack(context.Background(), FindTrackInput{
		Query:       "song",
		RequestedBy: snowflake.ID(7),
		AllowLive:   true,
	})
	if err != nil {
		t.Fatalf("FindTrack() failed: %v", err)
	}
	if original.RequestedBy != 0 {
		t.Error("searcher results must not be mutated")
	}
	if track == original {
		t.Error("returned track should be a copy")
	}
}
