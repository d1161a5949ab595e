package domain

import (
	"github.com/disgoorg/snowflake/v2"
)

// Lifecycle notifications emitted by a queue. Each event names the
// originating queue by its guild ID, the key under which the registry holds
// at most one queue.

// TrackAddEvent is published when a single track joins the queue.
type TrackAddEvent struct {
	GuildID snowflake.ID
	Track   *Track
}

// TracksAddEvent is published when several tracks join the queue at once.
type TracksAddEvent struct {
	GuildID snowflake.ID
	Tracks  []*Track
}

// TrackStartEvent is published when a track starts streaming. Filter-update
// replays of the same track do not produce it.
type TrackStartEvent struct {
	GuildID snowflake.ID
	Track   *Track
}

// QueueEndEvent is published when the queue empties with repeat off and the
// queue destroys itself.
type QueueEndEvent struct {
	GuildID snowflake.ID
}

// QueueErrorEvent forwards a transport-level error. The queue never acts on
// these itself; recovery policy belongs to the owning player.
type QueueErrorEvent struct {
	GuildID snowflake.ID
	Err     error
}

// QueueDebugEvent forwards a transport debug message.
type QueueDebugEvent struct {
	GuildID snowflake.ID
	Message string
}
