package presentation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/disgoorg/snowflake/v2"
	"github.com/hizuru/quaver/internal/bot"
	"github.com/hizuru/quaver/internal/modules/player/application/ports"
	"github.com/hizuru/quaver/internal/modules/player/application/usecases"
	"github.com/hizuru/quaver/internal/modules/player/domain"
)

// Embed colors.
const (
	colorSuccess = 0x08c404
	colorError   = 0xE74C3C
)

// ChannelBinder routes a guild's announcements to a text channel.
type ChannelBinder interface {
	BindChannel(guildID, channelID snowflake.ID)
}

// Handlers holds all the command handlers.
type Handlers struct {
	registry   *usecases.Registry
	search     *usecases.SearchService
	voiceState ports.VoiceStateProvider
	binder     ChannelBinder
}

// NewHandlers creates new Handlers.
func NewHandlers(
	registry *usecases.Registry,
	search *usecases.SearchService,
	voiceState ports.VoiceStateProvider,
	binder ChannelBinder,
) *Handlers {
	return &Handlers{
		registry:   registry,
		search:     search,
		voiceState: voiceState,
		binder:     binder,
	}
}

// HandleJoin handles the /join command.
func (h *Handlers) HandleJoin(
	s *discordgo.Session,
	i *discordgo.InteractionCreate,
	r bot.Responder,
) error {
	guildID, err := snowflake.Parse(i.GuildID)
	if err != nil {
		return respondError(r, "Invalid guild")
	}

	userID, err := snowflake.Parse(i.Member.User.ID)
	if err != nil {
		return respondError(r, "Invalid user")
	}

	var channel *ports.VoiceChannel
	for _, opt := range i.ApplicationCommandData().Options {
		if opt.Name == "channel" {
			channel = describeChannel(guildID, opt.ChannelValue(s))
		}
	}
	if channel == nil {
		channel, err = h.voiceState.UserVoiceChannel(guildID, userID)
		if err != nil || channel == nil {
			return respondError(r, "Join a voice channel first, or name one.")
		}
	}

	queue := h.registry.GetOrCreate(guildID)
	if _, err := queue.Connect(context.Background(), *channel); err != nil {
		if errors.Is(err, usecases.ErrInvalidChannelKind) {
			return respondError(r, "That channel cannot carry audio.")
		}
		return respondError(r, err.Error())
	}

	h.bindAnnouncements(guildID, i.ChannelID)

	return respondJoined(r, channel.ID)
}

// HandleLeave handles the /leave command.
func (h *Handlers) HandleLeave(
	_ *discordgo.Session,
	i *discordgo.InteractionCreate,
	r bot.Responder,
) error {
	queue, err := h.lookupQueue(i.GuildID)
	if err != nil {
		return respondError(r, err.Error())
	}

	if err := queue.Destroy(); err != nil {
		return respondError(r, err.Error())
	}

	return respondDisconnected(r)
}

// HandlePlay handles the /play command. It joins the requester's voice
// channel when not yet connected, resolves the query, and either starts
// playback or appends to the queue.
func (h *Handlers) HandlePlay(
	s *discordgo.Session,
	i *discordgo.InteractionCreate,
	r bot.Responder,
) error {
	ctx := context.Background()

	guildID, err := snowflake.Parse(i.GuildID)
	if err != nil {
		return respondError(r, "Invalid guild")
	}

	userID, err := snowflake.Parse(i.Member.User.ID)
	if err != nil {
		return respondError(r, "Invalid user")
	}

	var query string
	var immediate bool
	for _, opt := range i.ApplicationCommandData().Options {
		switch opt.Name {
		case "query":
			query = opt.StringValue()
		case "now":
			immediate = opt.BoolValue()
		}
	}

	queue := h.registry.GetOrCreate(guildID)
	if !queue.Connected() {
		channel, err := h.voiceState.UserVoiceChannel(guildID, userID)
		if err != nil || channel == nil {
			return respondError(r, "Join a voice channel first.")
		}
		if _, err := queue.Connect(ctx, *channel); err != nil {
			return respondError(r, err.Error())
		}
	}
	h.bindAnnouncements(guildID, i.ChannelID)

	track, err := h.search.FindTrack(ctx, usecases.FindTrackInput{
		Query:       query,
		RequestedBy: userID,
		AllowLive:   queue.Options().EnableLive,
	})
	if err != nil {
		if errors.Is(err, usecases.ErrNoResults) {
			return respondError(r, "No tracks found for that query.")
		}
		return respondError(r, err.Error())
	}

	if err := queue.Play(ctx, track, usecases.PlayOptions{Immediate: immediate}); err != nil {
		return respondError(r, err.Error())
	}

	if immediate {
		return respondPlayingNow(r, track)
	}
	return respondQueueAdded(r, track)
}

// HandleSkip handles the /skip command.
func (h *Handlers) HandleSkip(
	_ *discordgo.Session,
	i *discordgo.InteractionCreate,
	r bot.Responder,
) error {
	queue, err := h.lookupQueue(i.GuildID)
	if err != nil {
		return respondError(r, err.Error())
	}

	skipped := queue.CurrentTrack()
	if !queue.Skip() {
		return respondError(r, "Nothing to skip.")
	}

	return respondSkipped(r, skipped)
}

// HandlePause handles the /pause command.
func (h *Handlers) HandlePause(
	_ *discordgo.Session,
	i *discordgo.InteractionCreate,
	r bot.Responder,
) error {
	return h.setPaused(i, r, true)
}

// HandleResume handles the /resume command.
func (h *Handlers) HandleResume(
	_ *discordgo.Session,
	i *discordgo.InteractionCreate,
	r bot.Responder,
) error {
	return h.setPaused(i, r, false)
}

func (h *Handlers) setPaused(i *discordgo.InteractionCreate, r bot.Responder, paused bool) error {
	queue, err := h.lookupQueue(i.GuildID)
	if err != nil {
		return respondError(r, err.Error())
	}

	if !queue.SetPaused(paused) {
		return respondError(r, "Nothing is playing.")
	}

	if paused {
		return respondMessage(r, "Paused playback.")
	}
	return respondMessage(r, "Resumed playback.")
}

// HandleSeek handles the /seek command. The current track is re-streamed
// from the requested offset; queue order and history stay untouched.
func (h *Handlers) HandleSeek(
	_ *discordgo.Session,
	i *discordgo.InteractionCreate,
	r bot.Responder,
) error {
	queue, err := h.lookupQueue(i.GuildID)
	if err != nil {
		return respondError(r, err.Error())
	}

	var position int64
	for _, opt := range i.ApplicationCommandData().Options {
		if opt.Name == "position" {
			position = opt.IntValue()
		}
	}

	if !queue.Playing() {
		return respondError(r, "Nothing is playing.")
	}

	opts := usecases.PlayOptions{
		FiltersUpdate: true,
		Seek:          time.Duration(position) * time.Second,
	}
	if err := queue.Play(context.Background(), nil, opts); err != nil {
		return respondError(r, err.Error())
	}

	return respondMessage(r, fmt.Sprintf("Jumped to %d:%02d.", position/60, position%60))
}

// HandleVolume handles the /volume command.
func (h *Handlers) HandleVolume(
	_ *discordgo.Session,
	i *discordgo.InteractionCreate,
	r bot.Responder,
) error {
	queue, err := h.lookupQueue(i.GuildID)
	if err != nil {
		return respondError(r, err.Error())
	}

	var amount int64
	for _, opt := range i.ApplicationCommandData().Options {
		if opt.Name == "amount" {
			amount = opt.IntValue()
		}
	}

	if !queue.SetVolume(int(amount)) {
		return respondError(r, "Not connected to a voice channel.")
	}

	return respondMessage(r, fmt.Sprintf("Volume set to %d%%.", amount))
}

// HandleBitrate handles the /bitrate command.
func (h *Handlers) HandleBitrate(
	_ *discordgo.Session,
	i *discordgo.InteractionCreate,
	r bot.Responder,
) error {
	queue, err := h.lookupQueue(i.GuildID)
	if err != nil {
		return respondError(r, err.Error())
	}

	var kbps int64
	for _, opt := range i.ApplicationCommandData().Options {
		if opt.Name == "kbps" {
			kbps = opt.IntValue()
		}
	}

	if !queue.SetBitrate(int(kbps) * 1000) {
		return respondError(r, "Not connected to a voice channel.")
	}

	if kbps == 0 {
		return respondMessage(r, "Bitrate matched to the voice channel.")
	}
	return respondMessage(r, fmt.Sprintf("Bitrate set to %d kb/s.", kbps))
}

// HandleRepeat handles the /repeat command.
func (h *Handlers) HandleRepeat(
	_ *discordgo.Session,
	i *discordgo.InteractionCreate,
	r bot.Responder,
) error {
	queue, err := h.lookupQueue(i.GuildID)
	if err != nil {
		return respondError(r, err.Error())
	}

	var raw string
	for _, opt := range i.ApplicationCommandData().Options {
		if opt.Name == "mode" {
			raw = opt.StringValue()
		}
	}

	mode, ok := domain.ParseRepeatMode(raw)
	if !ok {
		return respondError(r, "Unknown repeat mode.")
	}

	changed, err := queue.SetRepeatMode(mode)
	if err != nil {
		return respondError(r, err.Error())
	}
	if !changed {
		return respondMessage(r, fmt.Sprintf("Repeat mode is already %s.", mode))
	}

	return respondRepeatModeChanged(r, mode)
}

// HandleQueue handles the /queue command.
func (h *Handlers) HandleQueue(
	_ *discordgo.Session,
	i *discordgo.InteractionCreate,
	r bot.Responder,
) error {
	queue, err := h.lookupQueue(i.GuildID)
	if err != nil {
		return respondError(r, err.Error())
	}

	return respondQueueList(r, queue)
}

// HandleNowPlaying handles the /nowplaying command.
func (h *Handlers) HandleNowPlaying(
	_ *discordgo.Session,
	i *discordgo.InteractionCreate,
	r bot.Responder,
) error {
	queue, err := h.lookupQueue(i.GuildID)
	if err != nil {
		return respondError(r, err.Error())
	}

	track := queue.CurrentTrack()
	if track == nil {
		return respondError(r, "Nothing is playing.")
	}

	return respondNowPlaying(r, track)
}

// lookupQueue fetches the guild's live queue for control commands.
func (h *Handlers) lookupQueue(rawGuildID string) (*usecases.Queue, error) {
	guildID, err := snowflake.Parse(rawGuildID)
	if err != nil {
		return nil, errors.New("Invalid guild")
	}

	queue := h.registry.Get(guildID)
	if queue == nil {
		return nil, errors.New("Nothing is queued in this server.")
	}
	return queue, nil
}

func (h *Handlers) bindAnnouncements(guildID snowflake.ID, rawChannelID string) {
	if h.binder == nil {
		return
	}
	if channelID, err := snowflake.Parse(rawChannelID); err == nil {
		h.binder.BindChannel(guildID, channelID)
	}
}

func describeChannel(guildID snowflake.ID, channel *discordgo.Channel) *ports.VoiceChannel {
	if channel == nil {
		return nil
	}
	id, err := snowflake.Parse(channel.ID)
	if err != nil {
		return nil
	}

	kind := ports.ChannelKindOther
	switch channel.Type {
	case discordgo.ChannelTypeGuildVoice:
		kind = ports.ChannelKindVoice
	case discordgo.ChannelTypeGuildStageVoice:
		kind = ports.ChannelKindStage
	}

	return &ports.VoiceChannel{
		ID:      id,
		GuildID: guildID,
		Kind:    kind,
		Bitrate: channel.Bitrate,
	}
}

// Response helpers.

func respondError(r bot.Responder, message string) error {
	return r.Respond(&discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Embeds: []*discordgo.MessageEmbed{
				{
					Title:       "Error",
					Description: message,
					Color:       colorError,
				},
			},
		},
	})
}

func respondMessage(r bot.Responder, message string) error {
	return r.Respond(&discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Embeds: []*discordgo.MessageEmbed{
				{
					Description: message,
					Color:       colorSuccess,
				},
			},
		},
	})
}

func respondJoined(r bot.Responder, voiceChannelID snowflake.ID) error {
	return respondMessage(r, fmt.Sprintf("Connected to <#%d>.", voiceChannelID))
}

func respondDisconnected(r bot.Responder) error {
	return respondMessage(r, "Disconnected.")
}

func respondSkipped(r bot.Responder, track *domain.Track) error {
	if track == nil {
		return respondMessage(r, "Skipped.")
	}
	return respondMessage(r, fmt.Sprintf("Skipped %s.", trackLink(track)))
}

func respondPlayingNow(r bot.Responder, track *domain.Track) error {
	return respondMessage(r, fmt.Sprintf("Playing %s now.", trackLink(track)))
}

func respondQueueAdded(r bot.Responder, track *domain.Track) error {
	return respondMessage(r, fmt.Sprintf("Added %s to the queue.", trackLink(track)))
}

func respondRepeatModeChanged(r bot.Responder, mode domain.RepeatMode) error {
	var description string
	switch mode {
	case domain.RepeatModeTrack:
		description = "Now repeating the current track."
	case domain.RepeatModeQueue:
		description = "Now repeating the queue."
	default:
		description = "Repeat disabled."
	}
	return respondMessage(r, description)
}

func respondQueueList(r bot.Responder, queue *usecases.Queue) error {
	embed := &discordgo.MessageEmbed{
		Title:       "Queue",
		Description: queue.String(),
	}
	if current := queue.CurrentTrack(); current != nil && queue.Playing() {
		embed.Fields = []*discordgo.MessageEmbedField{
			{
				Name:  "Now Playing",
				Value: fmt.Sprintf("%s (%s)", trackLink(current), current.FormattedDuration()),
			},
		}
	}

	return r.Respond(&discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Embeds: []*discordgo.MessageEmbed{embed},
		},
	})
}

func respondNowPlaying(r bot.Responder, track *domain.Track) error {
	embed := &discordgo.MessageEmbed{
		Title: track.Title,
		URL:   track.URL,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Artist", Value: track.Author, Inline: true},
			{Name: "Duration", Value: track.FormattedDuration(), Inline: true},
		},
	}
	if track.ArtworkURL != "" {
		embed.Thumbnail = &discordgo.MessageEmbedThumbnail{URL: track.ArtworkURL}
	}

	return r.Respond(&discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Embeds: []*discordgo.MessageEmbed{embed},
		},
	})
}

func trackLink(track *domain.Track) string {
	if track.URL != "" {
		return fmt.Sprintf("[%s](%s)", track.Title, track.URL)
	}
	return fmt.Sprintf("**%s**", track.Title)
}
