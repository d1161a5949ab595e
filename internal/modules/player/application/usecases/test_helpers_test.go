package usecases

import (
	"context"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/disgoorg/snowflake/v2"
	"github.com/hizuru/quaver/internal/modules/player/application/ports"
	"github.com/hizuru/quaver/internal/modules/player/domain"
)

func testTrack(id string) *domain.Track {
	return &domain.Track{
		ID:     domain.TrackID(id),
		Title:  "Track " + id,
		Author: "Artist",
		URL:    "https://example.com/" + id,
		Origin: domain.DirectOrigin{StreamURL: "https://example.com/" + id + ".mp3"},
	}
}

func voiceChannel(guildID snowflake.ID) ports.VoiceChannel {
	return ports.VoiceChannel{
		ID:      snowflake.ID(200),
		GuildID: guildID,
		Kind:    ports.ChannelKindVoice,
		Bitrate: 96000,
	}
}

// waitFor polls cond until it holds or the deadline passes.
func waitFor(t *testing.T, cond func() bool, msg string) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(2 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", msg)
}

type mockResource struct {
	stream io.ReadCloser
	track  *domain.Track
}

func (r *mockResource) Track() *domain.Track { return r.track }

// mockDispatch drives the start/finish signals of one play attempt from a
// test.
type mockDispatch struct {
	started    chan struct{}
	finished   chan struct{}
	startOnce  sync.Once
	finishOnce sync.Once
}

func newMockDispatch() *mockDispatch {
	return &mockDispatch{
		started:  make(chan struct{}),
		finished: make(chan struct{}),
	}
}

func (d *mockDispatch) start()  { d.startOnce.Do(func() { close(d.started) }) }
func (d *mockDispatch) finish() { d.finishOnce.Do(func() { close(d.finished) }) }

type mockConnection struct {
	mu              sync.Mutex
	dispatches      []*mockDispatch
	played          []*domain.Track
	playErr         error
	endCalls        int
	disconnectCalls int
	paused          bool
	volume          int
	bitrate         int
	speakerRequests int
	errs            chan error
	debug           chan string
	closeOnce       sync.Once
}

func newMockConnection() *mockConnection {
	return &mockConnection{
		errs:  make(chan error, 8),
		debug: make(chan string, 8),
	}
}

func (c *mockConnection) NewResource(stream io.ReadCloser, track *domain.Track) ports.Resource {
	return &mockResource{stream: stream, track: track}
}

func (c *mockConnection) Play(_ context.Context, res ports.Resource) (*ports.PlayDispatch, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.playErr != nil {
		return nil, c.playErr
	}

	d := newMockDispatch()
	c.dispatches = append(c.dispatches, d)
	c.played = append(c.played, res.Track())
	return &ports.PlayDispatch{Started: d.started, Finished: d.finished}, nil
}

// End emits the finish signal for the most recent dispatch, mimicking a
// transport that stops promptly.
func (c *mockConnection) End() error {
	c.mu.Lock()
	c.endCalls++
	var last *mockDispatch
	if len(c.dispatches) > 0 {
		last = c.dispatches[len(c.dispatches)-1]
	}
	c.mu.Unlock()

	if last != nil {
		last.finish()
	}
	return nil
}

func (c *mockConnection) Disconnect() error {
	c.mu.Lock()
	c.disconnectCalls++
	c.mu.Unlock()

	c.closeOnce.Do(func() {
		close(c.errs)
		close(c.debug)
	})
	return nil
}

func (c *mockConnection) SetPaused(paused bool) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.paused = paused
	return true
}

func (c *mockConnection) SetVolume(percent int) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.volume = percent
	return true
}

func (c *mockConnection) Volume() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.volume
}

func (c *mockConnection) SetBitrate(bitrate int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.bitrate = bitrate
}

func (c *mockConnection) RequestSpeaker(_ context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.speakerRequests++
	return nil
}

func (c *mockConnection) Errors() <-chan error { return c.errs }
func (c *mockConnection) Debug() <-chan string { return c.debug }

func (c *mockConnection) dispatch(i int) *mockDispatch {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.dispatches[i]
}

func (c *mockConnection) dispatchCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.dispatches)
}

func (c *mockConnection) playedIDs() []domain.TrackID {
	c.mu.Lock()
	defer c.mu.Unlock()

	ids := make([]domain.TrackID, len(c.played))
	for i, track := range c.played {
		ids[i] = track.ID
	}
	return ids
}

var _ ports.ConnectionHandle = (*mockConnection)(nil)

type mockTransport struct {
	mu    sync.Mutex
	conns []*mockConnection
	err   error

	lastChannel ports.VoiceChannel
	lastOpts    ports.ConnectOptions
}

func (m *mockTransport) Connect(
	_ context.Context,
	channel ports.VoiceChannel,
	opts ports.ConnectOptions,
) (ports.ConnectionHandle, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.err != nil {
		return nil, m.err
	}

	conn := newMockConnection()
	m.conns = append(m.conns, conn)
	m.lastChannel = channel
	m.lastOpts = opts
	return conn, nil
}

func (m *mockTransport) conn(i int) *mockConnection {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.conns[i]
}

func (m *mockTransport) lastConn() *mockConnection {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.conns[len(m.conns)-1]
}

var _ ports.VoiceTransport = (*mockTransport)(nil)

type resolveCall struct {
	track *domain.Track
	opts  ports.StreamOptions
}

type mockResolver struct {
	mu    sync.Mutex
	err   error
	calls []resolveCall
}

func (m *mockResolver) Resolve(
	_ context.Context,
	track *domain.Track,
	opts ports.StreamOptions,
) (io.ReadCloser, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.err != nil {
		return nil, m.err
	}
	m.calls = append(m.calls, resolveCall{track: track, opts: opts})
	return io.NopCloser(strings.NewReader("audio")), nil
}

func (m *mockResolver) call(i int) resolveCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls[i]
}

var _ ports.StreamResolver = (*mockResolver)(nil)

type mockPublisher struct {
	mu          sync.Mutex
	trackAdds   []domain.TrackAddEvent
	tracksAdds  []domain.TracksAddEvent
	trackStarts []domain.TrackStartEvent
	queueEnds   []domain.QueueEndEvent
	queueErrors []domain.QueueErrorEvent
	queueDebugs []domain.QueueDebugEvent
}

func (m *mockPublisher) PublishTrackAdd(event domain.TrackAddEvent) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.trackAdds = append(m.trackAdds, event)
}

func (m *mockPublisher) PublishTracksAdd(event domain.TracksAddEvent) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tracksAdds = append(m.tracksAdds, event)
}

func (m *mockPublisher) PublishTrackStart(event domain.TrackStartEvent) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.trackStarts = append(m.trackStarts, event)
}

func (m *mockPublisher) PublishQueueEnd(event domain.QueueEndEvent) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.queueEnds = append(m.queueEnds, event)
}

func (m *mockPublisher) PublishQueueError(event domain.QueueErrorEvent) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.queueErrors = append(m.queueErrors, event)
}

func (m *mockPublisher) PublishQueueDebug(event domain.QueueDebugEvent) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.queueDebugs = append(m.queueDebugs, event)
}

func (m *mockPublisher) trackAddCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.trackAdds)
}

func (m *mockPublisher) trackAddIDs() []domain.TrackID {
	m.mu.Lock()
	defer m.mu.Unlock()
	ids := make([]domain.TrackID, len(m.trackAdds))
	for i, event := range m.trackAdds {
		ids[i] = event.Track.ID
	}
	return ids
}

func (m *mockPublisher) trackStartCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.trackStarts)
}

func (m *mockPublisher) queueEndCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.queueEnds)
}

func (m *mockPublisher) queueErrorCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.queueErrors)
}

func (m *mockPublisher) queueDebugCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.queueDebugs)
}

var _ ports.EventPublisher = (*mockPublisher)(nil)

type fixture struct {
	registry  *Registry
	transport *mockTransport
	resolver  *mockResolver
	publisher *mockPublisher
}

func newFixture() *fixture {
	transport := &mockTransport{}
	resolver := &mockResolver{}
	publisher := &mockPublisher{}
	return &fixture{
		registry:  NewRegistry(transport, resolver, publisher, domain.DefaultOptions()),
		transport: transport,
		resolver:  resolver,
		publisher: publisher,
	}
}

// connectedQueue creates a queue for the guild and connects it to a plain
// voice channel.
func (f *fixture) connectedQueue(t *testing.T, guildID snowflake.ID) (*Queue, *mockConnection) {
	t.Helper()

	q := f.registry.GetOrCreate(guildID)
	if _, err := q.Connect(context.Background(), voiceChannel(guildID)); err != nil {
		t.Fatalf("Connect() failed: %v", err)
	}
	return q, f.transport.lastConn()
}
