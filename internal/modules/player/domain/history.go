package domain

// DefaultHistoryLimit caps how many previously played tracks are retained.
const DefaultHistoryLimit = 100

// History is the previous-track record of a queue. It never contains two
// entries with the same TrackID: replaying a track moves its entry to the
// most recent position instead of duplicating it.
type History struct {
	tracks []*Track
	limit  int
}

// NewHistory creates a History capped at limit entries. A non-positive limit
// falls back to DefaultHistoryLimit.
func NewHistory(limit int) *History {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	return &History{limit: limit}
}

// Push records track as the most recent play, removing any existing entry
// with the same ID first. The oldest entry is dropped once the cap is hit.
func (h *History) Push(track *Track) {
	filtered := h.tracks[:0]
	for _, t := range h.tracks {
		if t.ID != track.ID {
			filtered = append(filtered, t)
		}
	}
	h.tracks = append(filtered, track)

	if len(h.tracks) > h.limit {
		h.tracks = h.tracks[len(h.tracks)-h.limit:]
	}
}

// Last returns the most recently played track, or nil if the history is empty.
func (h *History) Last() *Track {
	if len(h.tracks) == 0 {
		return nil
	}
	return h.tracks[len(h.tracks)-1]
}

// Len returns the number of recorded tracks.
func (h *History) Len() int {
	return len(h.tracks)
}

// List returns a copy of the history, oldest first.
func (h *History) List() []*Track {
	result := make([]*Track, len(h.tracks))
	copy(result, h.tracks)
	return result
}
