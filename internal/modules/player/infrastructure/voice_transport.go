package infrastructure

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/jonas747/dca"

	"github.com/hizuru/quaver/internal/modules/player/application/ports"
	"github.com/hizuru/quaver/internal/modules/player/domain"
)

// Compile-time checks for the ports interfaces.
var (
	_ ports.VoiceTransport   = (*DiscordVoiceTransport)(nil)
	_ ports.ConnectionHandle = (*discordConnection)(nil)
)

// DiscordVoiceTransport joins voice channels over the Discord gateway and
// streams DCA-encoded audio through the resulting connections.
type DiscordVoiceTransport struct {
	session *discordgo.Session
}

// NewDiscordVoiceTransport creates a transport bound to the given session.
func NewDiscordVoiceTransport(session *discordgo.Session) *DiscordVoiceTransport {
	return &DiscordVoiceTransport{session: session}
}

// Connect joins the voice channel and returns a handle for streaming into it.
func (t *DiscordVoiceTransport) Connect(
	_ context.Context,
	channel ports.VoiceChannel,
	opts ports.ConnectOptions,
) (ports.ConnectionHandle, error) {
	vc, err := t.session.ChannelVoiceJoin(
		channel.GuildID.String(),
		channel.ID.String(),
		false,
		opts.SelfDeaf,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to join voice channel: %w", err)
	}

	return &discordConnection{
		session: t.session,
		guildID: channel.GuildID.String(),
		vc:      vc,
		volume:  100,
		errs:    make(chan error, 8),
		debug:   make(chan string, 8),
	}, nil
}

// voiceResource pairs a resolved audio stream with its track.
type voiceResource struct {
	stream io.ReadCloser
	track  *domain.Track
}

func (r *voiceResource) Track() *domain.Track { return r.track }

// voicePlayback is one streaming attempt on a connection.
type voicePlayback struct {
	source   io.ReadCloser
	session  *dca.StreamingSession
	started  chan struct{}
	finished chan struct{}

	mu      sync.Mutex
	stopped bool // End or supersession; the done error is not a failure
}

// stop closes the source so the streaming loop hits EOF and winds down.
func (p *voicePlayback) stop() {
	p.mu.Lock()
	already := p.stopped
	p.stopped = true
	p.mu.Unlock()

	if !already {
		_ = p.source.Close()
	}
}

func (p *voicePlayback) wasStopped() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.stopped
}

// discordConnection streams one track at a time into a Discord voice
// connection. Starting a new playback supersedes the previous one.
type discordConnection struct {
	session *discordgo.Session
	guildID string

	mu     sync.Mutex
	vc     *discordgo.VoiceConnection
	active *voicePlayback
	volume int
	closed bool

	errs      chan error
	debug     chan string
	closeOnce sync.Once
}

// NewResource wraps a resolved stream for playback.
func (c *discordConnection) NewResource(stream io.ReadCloser, track *domain.Track) ports.Resource {
	return &voiceResource{stream: stream, track: track}
}

// Play starts streaming the resource, superseding any active playback. The
// returned dispatch signals when frames start flowing and when the stream
// winds down.
func (c *discordConnection) Play(_ context.Context, res ports.Resource) (*ports.PlayDispatch, error) {
	vr, ok := res.(*voiceResource)
	if !ok {
		return nil, errors.New("resource was not created by this connection")
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed || c.vc == nil {
		return nil, errors.New("voice connection is closed")
	}
	if prior := c.active; prior != nil {
		prior.stop()
	}

	if err := c.vc.Speaking(true); err != nil {
		return nil, fmt.Errorf("failed to set speaking state: %w", err)
	}

	playback := &voicePlayback{
		source:   vr.stream,
		started:  make(chan struct{}),
		finished: make(chan struct{}),
	}

	decoder := dca.NewDecoder(vr.stream)
	done := make(chan error)
	playback.session = dca.NewStream(decoder, c.vc, done)
	close(playback.started)
	c.active = playback

	go c.monitor(playback, done)

	return &ports.PlayDispatch{
		Started:  playback.started,
		Finished: playback.finished,
	}, nil
}

// monitor waits for the streaming session to wind down, forwards unexpected
// errors, and emits the finish signal.
func (c *discordConnection) monitor(playback *voicePlayback, done <-chan error) {
	err := <-done

	playback.stop()

	c.mu.Lock()
	last := c.active == playback
	if last {
		c.active = nil
	}
	vc := c.vc
	closed := c.closed
	c.mu.Unlock()

	if last && vc != nil && !closed {
		if err := vc.Speaking(false); err != nil {
			slog.Debug("failed to clear speaking state", "guild", c.guildID, "error", err)
		}
	}

	if err != nil && !errors.Is(err, io.EOF) && !playback.wasStopped() {
		c.emitError(fmt.Errorf("voice stream failed: %w", err))
	} else {
		c.emitDebug("voice stream finished")
	}

	close(playback.finished)
}

// End stops the active playback. The finish signal fires once the streaming
// loop has wound down.
func (c *discordConnection) End() error {
	c.mu.Lock()
	playback := c.active
	c.mu.Unlock()

	if playback != nil {
		playback.stop()
	}
	return nil
}

// Disconnect stops playback, leaves the voice channel, and closes the error
// and debug channels.
func (c *discordConnection) Disconnect() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	playback := c.active
	c.active = nil
	vc := c.vc
	c.vc = nil
	c.mu.Unlock()

	if playback != nil {
		playback.stop()
	}

	var err error
	if vc != nil {
		if sErr := vc.Speaking(false); sErr != nil {
			slog.Debug("failed to clear speaking state", "guild", c.guildID, "error", sErr)
		}
		err = vc.Disconnect()
	}

	// Emitters check the closed flag and send under the same mutex, so no
	// send can race this close.
	c.mu.Lock()
	c.closeOnce.Do(func() {
		close(c.errs)
		close(c.debug)
	})
	c.mu.Unlock()
	return err
}

// SetPaused pauses or resumes the active stream. Returns false when nothing
// is streaming.
func (c *discordConnection) SetPaused(paused bool) bool {
	c.mu.Lock()
	playback := c.active
	c.mu.Unlock()

	if playback == nil || playback.session == nil {
		return false
	}
	playback.session.SetPaused(paused)
	return true
}

// SetVolume records the playback volume. The DCA frames are encoded at a
// fixed gain, so the change applies from the next encode onward.
func (c *discordConnection) SetVolume(percent int) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.volume = percent
	return true
}

// Volume returns the recorded playback volume.
func (c *discordConnection) Volume() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.volume
}

// SetBitrate is carried by the encoder options of the next stream; the
// connection itself has nothing to reconfigure.
func (c *discordConnection) SetBitrate(int) {}

// RequestSpeaker asks to become a speaker on a stage channel.
func (c *discordConnection) RequestSpeaker(_ context.Context) error {
	data := struct {
		ChannelID               string    `json:"channel_id"`
		RequestToSpeakTimestamp time.Time `json:"request_to_speak_timestamp"`
	}{
		ChannelID:               c.channelID(),
		RequestToSpeakTimestamp: time.Now().UTC(),
	}

	endpoint := discordgo.EndpointGuild(c.guildID) + "/voice-states/@me"
	_, err := c.session.RequestWithBucketID("PATCH", endpoint, data, endpoint)
	if err != nil {
		return fmt.Errorf("failed to request speaker: %w", err)
	}
	return nil
}

func (c *discordConnection) channelID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.vc == nil {
		return ""
	}
	return c.vc.ChannelID
}

// Errors delivers stream failures; closed on disconnect.
func (c *discordConnection) Errors() <-chan error { return c.errs }

// Debug delivers low-importance lifecycle notes; closed on disconnect.
func (c *discordConnection) Debug() <-chan string { return c.debug }

func (c *discordConnection) emitError(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}

	select {
	case c.errs <- err:
	default:
		slog.Warn("dropping voice stream error", "guild", c.guildID, "error", err)
	}
}

func (c *discordConnection) emitDebug(msg string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}

	select {
	case c.debug <- msg:
	default:
	}
}
