package domain

// RepeatMode governs what happens when the active track finishes.
type RepeatMode int

const (
	RepeatModeOff   RepeatMode = iota // advance through the queue, stop at the end
	RepeatModeTrack                   // replay the current track indefinitely
	RepeatModeQueue                   // cycle finished tracks back onto the tail
)

// IsValid returns true for one of the three recognized modes.
func (m RepeatMode) IsValid() bool {
	switch m {
	case RepeatModeOff, RepeatModeTrack, RepeatModeQueue:
		return true
	default:
		return false
	}
}

// String returns a human-readable representation of the repeat mode.
func (m RepeatMode) String() string {
	switch m {
	case RepeatModeTrack:
		return "track"
	case RepeatModeQueue:
		return "queue"
	default:
		return "off"
	}
}

// ParseRepeatMode converts a string to a RepeatMode. The second return value
// reports whether the input named a recognized mode.
func ParseRepeatMode(s string) (RepeatMode, bool) {
	switch s {
	case "off":
		return RepeatModeOff, true
	case "track":
		return RepeatModeTrack, true
	case "queue":
		return RepeatModeQueue, true
	default:
		return RepeatModeOff, false
	}
}
