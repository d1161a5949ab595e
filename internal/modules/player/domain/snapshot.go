package domain

// QueueSnapshot is the serialized form of a queue: its guild, full options,
// and the pending track list. It is a display/debugging snapshot, not a
// durable store.
type QueueSnapshot struct {
	GuildID string          `json:"guild_id"`
	Options Options         `json:"options"`
	Tracks  []TrackSnapshot `json:"tracks"`
}
