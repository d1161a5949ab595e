package infrastructure

import (
	"fmt"

	"github.com/bwmarrin/discordgo"
	"github.com/disgoorg/snowflake/v2"
	"github.com/hizuru/quaver/internal/modules/player/application/ports"
)

// Ensure VoiceStateProvider implements ports.VoiceStateProvider.
var _ ports.VoiceStateProvider = (*VoiceStateProvider)(nil)

// VoiceStateProvider resolves Discord voice state from the session cache.
type VoiceStateProvider struct {
	session *discordgo.Session
}

// NewVoiceStateProvider creates a new VoiceStateProvider.
func NewVoiceStateProvider(session *discordgo.Session) *VoiceStateProvider {
	return &VoiceStateProvider{
		session: session,
	}
}

// UserVoiceChannel returns the voice channel the user currently occupies, or
// nil when the user is not in one.
func (v *VoiceStateProvider) UserVoiceChannel(
	guildID, userID snowflake.ID,
) (*ports.VoiceChannel, error) {
	guild, err := v.session.State.Guild(guildID.String())
	if err != nil {
		return nil, fmt.Errorf("failed to look up guild: %w", err)
	}

	for _, vs := range guild.VoiceStates {
		if vs.UserID != userID.String() || vs.ChannelID == "" {
			continue
		}
		return v.describeChannel(guildID, vs.ChannelID)
	}

	return nil, nil
}

func (v *VoiceStateProvider) describeChannel(
	guildID snowflake.ID,
	channelID string,
) (*ports.VoiceChannel, error) {
	channel, err := v.session.State.Channel(channelID)
	if err != nil {
		// Not cached; fall back to the API.
		channel, err = v.session.Channel(channelID)
		if err != nil {
			return nil, fmt.Errorf("failed to look up channel: %w", err)
		}
	}

	id, err := snowflake.Parse(channel.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to parse channel ID: %w", err)
	}

	return &ports.VoiceChannel{
		ID:      id,
		GuildID: guildID,
		Kind:    channelKind(channel.Type),
		Bitrate: channel.Bitrate,
	}, nil
}

func channelKind(channelType discordgo.ChannelType) ports.ChannelKind {
	switch channelType {
	case discordgo.ChannelTypeGuildVoice:
		return ports.ChannelKindVoice
	case discordgo.ChannelTypeGuildStageVoice:
		return ports.ChannelKindStage
	default:
		return ports.ChannelKindOther
	}
}
