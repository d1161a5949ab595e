package infrastructure

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/disgoorg/snowflake/v2"
	"github.com/hizuru/quaver/internal/modules/player/domain"
)

// Embed colors.
const (
	colorAccent = 0x5865F2
	colorRed    = 0xE74C3C
)

// Notifier posts queue lifecycle announcements to each guild's bound text
// channel. Guilds without a bound channel are announced nowhere.
type Notifier struct {
	session *discordgo.Session

	mu       sync.RWMutex
	channels map[snowflake.ID]snowflake.ID
}

// NewNotifier creates a new Notifier.
func NewNotifier(session *discordgo.Session) *Notifier {
	return &Notifier{
		session:  session,
		channels: make(map[snowflake.ID]snowflake.ID),
	}
}

// BindChannel routes the guild's announcements to the given text channel.
func (n *Notifier) BindChannel(guildID, channelID snowflake.ID) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.channels[guildID] = channelID
}

// Unbind stops announcements for the guild.
func (n *Notifier) Unbind(guildID snowflake.ID) {
	n.mu.Lock()
	defer n.mu.Unlock()
	delete(n.channels, guildID)
}

// Register subscribes the notifier to the bus.
func (n *Notifier) Register(bus *ChannelEventBus) {
	bus.OnTrackAdd(n.onTrackAdd)
	bus.OnTracksAdd(n.onTracksAdd)
	bus.OnTrackStart(n.onTrackStart)
	bus.OnQueueEnd(n.onQueueEnd)
	bus.OnQueueError(n.onQueueError)
	bus.OnQueueDebug(n.onQueueDebug)
}

func (n *Notifier) channelFor(guildID snowflake.ID) (snowflake.ID, bool) {
	n.mu.RLock()
	defer n.mu.RUnlock()
	channelID, ok := n.channels[guildID]
	return channelID, ok
}

func (n *Notifier) send(guildID snowflake.ID, embed *discordgo.MessageEmbed) {
	channelID, ok := n.channelFor(guildID)
	if !ok {
		return
	}
	if _, err := n.session.ChannelMessageSendEmbed(channelID.String(), embed); err != nil {
		slog.Warn("failed to send announcement", "guild", guildID, "error", err)
	}
}

func (n *Notifier) onTrackAdd(_ context.Context, event domain.TrackAddEvent) {
	n.send(event.GuildID, &discordgo.MessageEmbed{
		Description: fmt.Sprintf("Added **%s** to the queue.", event.Track.Title),
	})
}

func (n *Notifier) onTracksAdd(_ context.Context, event domain.TracksAddEvent) {
	n.send(event.GuildID, &discordgo.MessageEmbed{
		Description: fmt.Sprintf("Added **%d** tracks to the queue.", len(event.Tracks)),
	})
}

func (n *Notifier) onTrackStart(_ context.Context, event domain.TrackStartEvent) {
	track := event.Track

	embed := &discordgo.MessageEmbed{
		Author:    &discordgo.MessageEmbedAuthor{Name: "Now Playing"},
		Title:     track.Title,
		URL:       track.URL,
		Color:     colorAccent,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Fields: []*discordgo.MessageEmbedField{
			{
				Name:   "Artist",
				Value:  track.Author,
				Inline: true,
			},
			{
				Name:   "Duration",
				Value:  track.FormattedDuration(),
				Inline: true,
			},
		},
	}
	if track.RequestedBy != 0 {
		embed.Footer = &discordgo.MessageEmbedFooter{
			Text: fmt.Sprintf("Requested by %s", requesterName(n.session, track.RequestedBy)),
		}
	}
	if track.ArtworkURL != "" {
		embed.Thumbnail = &discordgo.MessageEmbedThumbnail{URL: track.ArtworkURL}
	}

	n.send(event.GuildID, embed)
}

func requesterName(session *discordgo.Session, userID snowflake.ID) string {
	user, err := session.User(userID.String())
	if err != nil {
		return userID.String()
	}
	return user.Username
}

func (n *Notifier) onQueueEnd(_ context.Context, event domain.QueueEndEvent) {
	n.send(event.GuildID, &discordgo.MessageEmbed{
		Description: "Queue finished. Leaving the voice channel.",
	})
	n.Unbind(event.GuildID)
}

func (n *Notifier) onQueueError(_ context.Context, event domain.QueueErrorEvent) {
	n.send(event.GuildID, &discordgo.MessageEmbed{
		Description: fmt.Sprintf("Playback error: %s", event.Err),
		Color:       colorRed,
	})
}

func (n *Notifier) onQueueDebug(_ context.Context, event domain.QueueDebugEvent) {
	slog.Debug("queue debug", "guild", event.GuildID, "message", event.Message)
}
