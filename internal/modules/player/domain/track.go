package domain

import (
	"strconv"
	"time"

	"github.com/disgoorg/snowflake/v2"
)

// TrackID is a stable identifier for a playable track.
type TrackID string

// Track is an immutable description of a playable item. The queue treats it
// as read-only; the Origin carries whatever the stream resolver needs to
// obtain the track's audio bytes.
type Track struct {
	ID          TrackID
	Title       string
	Author      string
	URL         string
	ArtworkURL  string
	Duration    time.Duration
	IsLive      bool
	RequestedBy snowflake.ID
	Origin      StreamOrigin
	EnqueuedAt  time.Time
}

// NewTrack creates a Track with the enqueue timestamp set to now.
func NewTrack(
	id TrackID,
	title string,
	author string,
	url string,
	artworkURL string,
	duration time.Duration,
	isLive bool,
	requestedBy snowflake.ID,
	origin StreamOrigin,
) *Track {
	return &Track{
		ID:          id,
		Title:       title,
		Author:      author,
		URL:         url,
		ArtworkURL:  artworkURL,
		Duration:    duration,
		IsLive:      isLive,
		RequestedBy: requestedBy,
		Origin:      origin,
		EnqueuedAt:  time.Now().UTC(),
	}
}

// IsValid returns true if the track has the minimum required fields.
func (t *Track) IsValid() bool {
	return t.ID != "" && t.Title != "" && t.Origin != nil
}

// TrackSnapshot is the serialized form of a Track, used for display and
// debugging snapshots. It is not a durable store.
type TrackSnapshot struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Author      string `json:"author"`
	URL         string `json:"url"`
	ArtworkURL  string `json:"artwork_url,omitempty"`
	DurationMS  int64  `json:"duration_ms"`
	IsLive      bool   `json:"is_live"`
	RequestedBy string `json:"requested_by,omitempty"`
}

// Serialize returns the track's snapshot form.
func (t *Track) Serialize() TrackSnapshot {
	requestedBy := ""
	if t.RequestedBy != 0 {
		requestedBy = t.RequestedBy.String()
	}
	return TrackSnapshot{
		ID:          string(t.ID),
		Title:       t.Title,
		Author:      t.Author,
		URL:         t.URL,
		ArtworkURL:  t.ArtworkURL,
		DurationMS:  t.Duration.Milliseconds(),
		IsLive:      t.IsLive,
		RequestedBy: requestedBy,
	}
}

// FormattedDuration returns the duration as mm:ss or hh:mm:ss, or "LIVE" for
// live tracks.
func (t *Track) FormattedDuration() string {
	if t.IsLive {
		return "LIVE"
	}

	totalSeconds := int(t.Duration.Seconds())
	hours := totalSeconds / 3600
	minutes := (totalSeconds % 3600) / 60
	seconds := totalSeconds % 60

	if hours > 0 {
		return pad(hours) + ":" + pad(minutes) + ":" + pad(seconds)
	}
	return pad(minutes) + ":" + pad(seconds)
}

func pad(n int) string {
	if n < 10 {
		return "0" + strconv.Itoa(n)
	}
	return strconv.Itoa(n)
}
