package usecases

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/disgoorg/snowflake/v2"
	"github.com/hizuru/quaver/internal/modules/player/application/ports"
	"github.com/hizuru/quaver/internal/modules/player/domain"
)

// DefaultBitrate is used when a channel has no configured bitrate and the
// caller asked for automatic selection.
const DefaultBitrate = 64000

const emptyQueueMessage = "There are no songs in the queue."

// PlayOptions modify a single Play call.
type PlayOptions struct {
	// Immediate forces the supplied track to play now instead of degrading to
	// an enqueue when something is already playing or pending.
	Immediate bool

	// FiltersUpdate replays the current track (typically at a seek offset
	// with new encoder arguments) without consuming the queue. The replay's
	// finish does not trigger a transition.
	FiltersUpdate bool

	// Seek is the offset to start streaming from.
	Seek time.Duration

	// EncoderArgs are extra encoder/filter arguments for the stream resolver.
	EncoderArgs []string
}

// Queue owns the ordered track list, previous-track history, playback flag,
// repeat mode, and the active connection handle for one guild. It drives all
// playback transitions and emits lifecycle events to its publisher.
//
// All state changes happen under the queue mutex. Each play attempt carries
// an attempt number; start/finish signals from a superseded attempt are
// discarded, so a rapid skip racing an in-flight play cannot corrupt the
// transition sequence.
type Queue struct {
	mu         sync.Mutex
	guildID    snowflake.ID
	tracks     []*domain.Track
	previous   *domain.History
	playing    bool
	repeatMode domain.RepeatMode
	connection ports.ConnectionHandle
	channel    ports.VoiceChannel
	options    domain.Options
	volume     int // initialVolume baseline, applied to every started track
	bitrate    int
	current    *domain.Track
	attempt    uint64
	destroyed  bool

	// ctx scopes internally triggered replays (repeat transitions); cancelled
	// on destroy.
	ctx    context.Context
	cancel context.CancelFunc

	transport ports.VoiceTransport
	resolver  ports.StreamResolver
	publisher ports.EventPublisher
	registry  *Registry
}

// GuildID returns the guild this queue belongs to.
func (q *Queue) GuildID() snowflake.ID {
	return q.guildID
}

// Connect acquires a connection handle for the given channel, replacing any
// prior handle, and wires the handle's error and debug signals to the queue's
// publisher. For stage channels a speaker request is made best-effort.
// Returns the queue itself for chaining.
func (q *Queue) Connect(ctx context.Context, channel ports.VoiceChannel) (*Queue, error) {
	if !channel.Kind.IsVoiceCapable() {
		return nil, ErrInvalidChannelKind
	}

	q.mu.Lock()
	if q.destroyed {
		q.mu.Unlock()
		return nil, ErrQueueDestroyed
	}
	selfDeaf := q.options.AutoSelfDeaf
	prior := q.connection
	q.mu.Unlock()

	handle, err := q.transport.Connect(ctx, channel, ports.ConnectOptions{SelfDeaf: selfDeaf})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to voice channel: %w", err)
	}

	if prior != nil {
		if err := prior.Disconnect(); err != nil {
			slog.Warn("failed to disconnect replaced voice session",
				"guild", q.guildID, "error", err)
		}
	}

	q.mu.Lock()
	q.connection = handle
	q.channel = channel
	q.mu.Unlock()

	go q.forwardSignals(handle)

	if channel.Kind == ports.ChannelKindStage {
		// Not having speaker permission degrades the session, not the queue.
		_ = handle.RequestSpeaker(ctx)
	}

	return q, nil
}

// forwardSignals relays transport error and debug signals to the publisher,
// tagged with this queue's guild, until both channels close.
func (q *Queue) forwardSignals(handle ports.ConnectionHandle) {
	errs, debug := handle.Errors(), handle.Debug()
	for errs != nil || debug != nil {
		select {
		case err, ok := <-errs:
			if !ok {
				errs = nil
				continue
			}
			q.publisher.PublishQueueError(domain.QueueErrorEvent{GuildID: q.guildID, Err: err})
		case msg, ok := <-debug:
			if !ok {
				debug = nil
				continue
			}
			q.publisher.PublishQueueDebug(domain.QueueDebugEvent{GuildID: q.guildID, Message: msg})
		}
	}
}

// Destroy ends active streaming, disconnects the voice session, and removes
// the queue from its registry. Calling Destroy without an active connection
// is a precondition violation and returns ErrNoVoiceConnection.
func (q *Queue) Destroy() error {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.destroyLocked()
}

func (q *Queue) destroyLocked() error {
	if q.destroyed {
		return ErrQueueDestroyed
	}
	if q.connection == nil {
		return ErrNoVoiceConnection
	}

	if err := q.connection.End(); err != nil {
		slog.Debug("failed to end stream during destroy", "guild", q.guildID, "error", err)
	}
	if err := q.connection.Disconnect(); err != nil {
		slog.Warn("failed to disconnect voice session", "guild", q.guildID, "error", err)
	}

	q.connection = nil
	q.playing = false
	q.destroyed = true
	q.attempt++ // discard signals from any in-flight play attempt
	q.cancel()
	q.registry.remove(q.guildID)

	return nil
}

// Skip ends the current stream, letting the normal finish transition pick the
// next track. Returns false if there is no connection.
func (q *Queue) Skip() bool {
	q.mu.Lock()
	conn := q.connection
	q.mu.Unlock()

	if conn == nil {
		return false
	}
	if err := conn.End(); err != nil {
		slog.Warn("failed to end stream on skip", "guild", q.guildID, "error", err)
		return false
	}
	return true
}

// SetPaused pauses or resumes the current stream. Returns false if there is
// no connection.
func (q *Queue) SetPaused(paused bool) bool {
	q.mu.Lock()
	conn := q.connection
	q.mu.Unlock()

	if conn == nil {
		return false
	}
	return conn.SetPaused(paused)
}

// SetVolume stores amount as the new baseline volume, so future tracks start
// at it, and applies it to the live connection. Returns false if there is no
// connection.
func (q *Queue) SetVolume(amount int) bool {
	q.mu.Lock()
	conn := q.connection
	if conn == nil {
		q.mu.Unlock()
		return false
	}
	q.volume = amount
	q.mu.Unlock()

	return conn.SetVolume(amount)
}

// Volume returns the current baseline volume.
func (q *Queue) Volume() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.volume
}

// SetBitrate sets the encoder bitrate in bps for subsequent streams. A
// non-positive value selects the channel's configured bitrate, falling back
// to DefaultBitrate. No-op (false) without a connection.
func (q *Queue) SetBitrate(bitrate int) bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.connection == nil {
		return false
	}
	if bitrate <= 0 {
		bitrate = q.channel.Bitrate
		if bitrate <= 0 {
			bitrate = DefaultBitrate
		}
	}
	q.bitrate = bitrate
	q.connection.SetBitrate(bitrate)
	return true
}

// AddTrack appends a track to the queue and publishes a track-add event. The
// event goes out under the queue lock (the publisher never blocks), so event
// order always matches queue order.
func (q *Queue) AddTrack(track *domain.Track) {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.tracks = append(q.tracks, track)
	q.publisher.PublishTrackAdd(domain.TrackAddEvent{GuildID: q.guildID, Track: track})
}

// AddTracks appends several tracks at once and publishes a tracks-add event.
func (q *Queue) AddTracks(tracks []*domain.Track) {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.tracks = append(q.tracks, tracks...)
	q.publisher.PublishTracksAdd(domain.TracksAddEvent{GuildID: q.guildID, Tracks: tracks})
}

// SetRepeatMode updates the repeat mode. Returns false without error when the
// mode is unchanged, and ErrUnknownRepeatMode for unrecognized values.
func (q *Queue) SetRepeatMode(mode domain.RepeatMode) (bool, error) {
	if !mode.IsValid() {
		return false, ErrUnknownRepeatMode
	}

	q.mu.Lock()
	defer q.mu.Unlock()

	if q.repeatMode == mode {
		return false, nil
	}
	q.repeatMode = mode
	return true, nil
}

// RepeatMode returns the active repeat mode.
func (q *Queue) RepeatMode() domain.RepeatMode {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.repeatMode
}

// Play starts streaming. With src nil it plays the head of the queue; with a
// src it either plays it now or, when something is already playing or pending
// and Immediate is not set, enqueues it instead. A FiltersUpdate replays the
// current track without consuming the queue.
func (q *Queue) Play(ctx context.Context, src *domain.Track, opts PlayOptions) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.playLocked(ctx, src, opts)
}

func (q *Queue) playLocked(ctx context.Context, src *domain.Track, opts PlayOptions) error {
	if q.destroyed {
		return ErrQueueDestroyed
	}
	if q.connection == nil {
		return ErrNoVoiceConnection
	}

	// Something is already playing or waiting and no override was requested:
	// the supplied track joins the back of the queue.
	if src != nil && !opts.Immediate && !opts.FiltersUpdate &&
		(q.playing || len(q.tracks) > 0) {
		q.tracks = append(q.tracks, src)
		q.publisher.PublishTrackAdd(domain.TrackAddEvent{GuildID: q.guildID, Track: src})
		return nil
	}

	var track *domain.Track
	switch {
	case opts.FiltersUpdate:
		track = q.current
	case src != nil:
		track = src
	case len(q.tracks) > 0:
		track = q.tracks[0]
		q.tracks = q.tracks[1:]
	}
	if track == nil {
		// Nothing to play; the queue stays idle.
		return nil
	}

	q.previous.Push(track)

	stream, err := q.resolver.Resolve(ctx, track, ports.StreamOptions{
		Seek:        opts.Seek,
		EncoderArgs: opts.EncoderArgs,
		Volume:      q.volume,
		Bitrate:     q.bitrate,
	})
	if err != nil {
		return fmt.Errorf("failed to resolve audio stream: %w", err)
	}

	res := q.connection.NewResource(stream, track)
	dispatch, err := q.connection.Play(ctx, res)
	if err != nil {
		_ = stream.Close()
		return fmt.Errorf("failed to start playback: %w", err)
	}
	q.connection.SetVolume(q.volume)

	q.current = track
	q.attempt++
	go q.watch(q.attempt, track, dispatch, opts.FiltersUpdate)

	return nil
}

// watch reacts to the start and finish signals of one play attempt. The
// attempt number scopes the handlers: once a newer attempt exists, signals
// from this one are ignored.
func (q *Queue) watch(attempt uint64, track *domain.Track, dispatch *ports.PlayDispatch, filtersUpdate bool) {
	started := dispatch.Started
	for {
		select {
		case <-started:
			started = nil
			q.handleStart(attempt, track, filtersUpdate)
		case <-dispatch.Finished:
			q.handleFinish(attempt, filtersUpdate)
			return
		}
	}
}

func (q *Queue) handleStart(attempt uint64, track *domain.Track, filtersUpdate bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if attempt != q.attempt || q.destroyed {
		return
	}

	q.playing = true
	if !filtersUpdate {
		q.publisher.PublishTrackStart(domain.TrackStartEvent{GuildID: q.guildID, Track: track})
	}
}

func (q *Queue) handleFinish(attempt uint64, filtersUpdate bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if attempt != q.attempt || q.destroyed {
		return
	}

	q.playing = false

	// A filter-update replay is conceptually still in progress; its owner
	// decides what happens next.
	if filtersUpdate {
		return
	}

	if len(q.tracks) == 0 && q.repeatMode == domain.RepeatModeOff {
		if err := q.destroyLocked(); err != nil {
			slog.Warn("failed to destroy queue after final track",
				"guild", q.guildID, "error", err)
		}
		q.publisher.PublishQueueEnd(domain.QueueEndEvent{GuildID: q.guildID})
		return
	}

	if q.repeatMode == domain.RepeatModeTrack {
		last := q.previous.Last()
		if last == nil {
			return
		}
		if err := q.playLocked(q.ctx, last, PlayOptions{Immediate: true}); err != nil {
			q.publisher.PublishQueueError(domain.QueueErrorEvent{GuildID: q.guildID, Err: err})
		}
		return
	}

	if q.repeatMode == domain.RepeatModeQueue {
		if last := q.previous.Last(); last != nil {
			q.tracks = append(q.tracks, last)
		}
	}
	if err := q.playLocked(q.ctx, nil, PlayOptions{Immediate: true}); err != nil {
		q.publisher.PublishQueueError(domain.QueueErrorEvent{GuildID: q.guildID, Err: err})
	}
}

// Playing reports whether the connection is actively streaming a track.
func (q *Queue) Playing() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.playing
}

// Connected reports whether the queue holds a connection handle.
func (q *Queue) Connected() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.connection != nil
}

// CurrentTrack returns what is conceptually playing now: the track handed to
// the connection if it is streaming, otherwise the head of the pending list.
func (q *Queue) CurrentTrack() *domain.Track {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.connection != nil && q.playing {
		return q.current
	}
	if len(q.tracks) > 0 {
		return q.tracks[0]
	}
	return nil
}

// Tracks returns a copy of the pending tracks in play order.
func (q *Queue) Tracks() []*domain.Track {
	q.mu.Lock()
	defer q.mu.Unlock()

	result := make([]*domain.Track, len(q.tracks))
	copy(result, q.tracks)
	return result
}

// Previous returns a copy of the play history, oldest first.
func (q *Queue) Previous() []*domain.Track {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.previous.List()
}

// Options returns the queue's configuration.
func (q *Queue) Options() domain.Options {
	return q.options
}

// Serialize returns a snapshot of the queue for display and debugging.
func (q *Queue) Serialize() domain.QueueSnapshot {
	q.mu.Lock()
	defer q.mu.Unlock()

	tracks := make([]domain.TrackSnapshot, len(q.tracks))
	for i, track := range q.tracks {
		tracks[i] = track.Serialize()
	}
	return domain.QueueSnapshot{
		GuildID: q.guildID.String(),
		Options: q.options,
		Tracks:  tracks,
	}
}

// String returns a numbered listing of pending track titles, or a fixed
// message when the queue is empty.
func (q *Queue) String() string {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.tracks) == 0 {
		return emptyQueueMessage
	}

	var b strings.Builder
	for i, track := range q.tracks {
		fmt.Fprintf(&b, "%d. %s\n", i+1, track.Title)
	}
	return strings.TrimSuffix(b.String(), "\n")
}
