package ports

import (
	"context"

	"github.com/disgoorg/snowflake/v2"
)

// ChannelKind classifies a Discord channel for connection purposes.
type ChannelKind int

const (
	ChannelKindOther ChannelKind = iota
	ChannelKindVoice
	ChannelKindStage
)

// IsVoiceCapable returns true for the two channel kinds a queue may connect to.
func (k ChannelKind) IsVoiceCapable() bool {
	return k == ChannelKindVoice || k == ChannelKindStage
}

// VoiceChannel describes the channel a queue connects to.
type VoiceChannel struct {
	ID      snowflake.ID
	GuildID snowflake.ID
	Kind    ChannelKind
	Bitrate int // channel-configured bitrate in bps, 0 if unknown
}

// ConnectOptions carries per-connection settings.
type ConnectOptions struct {
	SelfDeaf bool
}

// VoiceTransport acquires connection handles for voice-capable channels.
// This is the network/voice transport collaborator; the queue core never
// touches the wire itself.
type VoiceTransport interface {
	Connect(ctx context.Context, channel VoiceChannel, opts ConnectOptions) (ConnectionHandle, error)
}

// VoiceStateProvider looks up where a user currently is, for presentation
// handlers that connect the queue to the caller's channel.
type VoiceStateProvider interface {
	// UserVoiceChannel returns the channel the user occupies, or nil if the
	// user is not in a voice channel.
	UserVoiceChannel(guildID, userID snowflake.ID) (*VoiceChannel, error)
}
