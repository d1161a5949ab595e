package infrastructure

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/disgoorg/disgolink/v3/disgolink"
	"github.com/disgoorg/disgolink/v3/lavalink"
	"github.com/disgoorg/snowflake/v2"

	"github.com/hizuru/quaver/internal/modules/player/application/ports"
	"github.com/hizuru/quaver/internal/modules/player/domain"
)

// directSourceName is the Lavalink source whose URIs can be fetched without a
// provider session.
const directSourceName = "http"

// Compile-time check that LavalinkSearcher implements ports.TrackSearcher.
var _ ports.TrackSearcher = (*LavalinkSearcher)(nil)

// LavalinkConfig contains Lavalink node connection configuration.
type LavalinkConfig struct {
	Address  string
	Password string
}

// LavalinkSearcher resolves search queries and URLs into tracks through a
// Lavalink node's REST API.
type LavalinkSearcher struct {
	link disgolink.Client
}

// NewLavalinkSearcher connects to the configured Lavalink node.
func NewLavalinkSearcher(
	ctx context.Context,
	botID snowflake.ID,
	config LavalinkConfig,
) (*LavalinkSearcher, error) {
	link := disgolink.New(botID)

	node, err := link.AddNode(ctx, disgolink.NodeConfig{
		Name:     "main",
		Address:  config.Address,
		Password: config.Password,
		Secure:   false,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to add Lavalink node: %w", err)
	}

	slog.Info("connected to Lavalink", "node", node.Config().Name, "address", config.Address)

	return &LavalinkSearcher{link: link}, nil
}

// Search loads tracks for the query. An empty result is returned as an empty
// slice, not an error.
func (s *LavalinkSearcher) Search(ctx context.Context, query string) ([]*domain.Track, error) {
	node := s.link.BestNode()
	if node == nil {
		return nil, fmt.Errorf("no available Lavalink node")
	}

	result, err := node.LoadTracks(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to load tracks: %w", err)
	}

	switch data := result.Data.(type) {
	case lavalink.Track:
		return []*domain.Track{convertLavalinkTrack(data)}, nil

	case lavalink.Playlist:
		tracks := make([]*domain.Track, len(data.Tracks))
		for i, track := range data.Tracks {
			tracks[i] = convertLavalinkTrack(track)
		}
		return tracks, nil

	case lavalink.Search:
		tracks := make([]*domain.Track, len(data))
		for i, track := range data {
			tracks[i] = convertLavalinkTrack(track)
		}
		return tracks, nil

	case lavalink.Exception:
		return nil, fmt.Errorf("track load failed: %s", data.Message)

	default:
		return nil, nil
	}
}

// Close shuts down the node connections.
func (s *LavalinkSearcher) Close() {
	s.link.Close()
}

func convertLavalinkTrack(track lavalink.Track) *domain.Track {
	info := track.Info

	var artworkURL string
	if info.ArtworkURL != nil {
		artworkURL = *info.ArtworkURL
	}
	var uri string
	if info.URI != nil {
		uri = *info.URI
	}

	var origin domain.StreamOrigin
	if info.SourceName == directSourceName && uri != "" {
		origin = domain.DirectOrigin{StreamURL: uri}
	} else {
		origin = domain.SessionOrigin{
			Provider:  info.SourceName,
			Reference: info.Identifier,
		}
	}

	return &domain.Track{
		ID:         domain.TrackID(info.Identifier),
		Title:      info.Title,
		Author:     info.Author,
		URL:        uri,
		ArtworkURL: artworkURL,
		Duration:   time.Duration(info.Length) * time.Millisecond,
		IsLive:     info.IsStream,
		Origin:     origin,
	}
}
