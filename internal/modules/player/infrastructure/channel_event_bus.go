package infrastructure

import (
	"context"
	"log/slog"
	"sync"

	"github.com/hizuru/quaver/internal/modules/player/application/ports"
	"github.com/hizuru/quaver/internal/modules/player/domain"
)

// DefaultEventBufferSize is the default buffer size for event channels.
const DefaultEventBufferSize = 100

// Compile-time check that ChannelEventBus implements ports.EventPublisher.
var _ ports.EventPublisher = (*ChannelEventBus)(nil)

// ChannelEventBus provides a channel-based event bus for async event
// handling. Publishing never blocks: queue transitions must not stall on slow
// consumers, so a full buffer drops the event with a warning.
type ChannelEventBus struct {
	trackAdd   chan domain.TrackAddEvent
	tracksAdd  chan domain.TracksAddEvent
	trackStart chan domain.TrackStartEvent
	queueEnd   chan domain.QueueEndEvent
	queueError chan domain.QueueErrorEvent
	queueDebug chan domain.QueueDebugEvent

	trackAddHandlers   []func(context.Context, domain.TrackAddEvent)
	tracksAddHandlers  []func(context.Context, domain.TracksAddEvent)
	trackStartHandlers []func(context.Context, domain.TrackStartEvent)
	queueEndHandlers   []func(context.Context, domain.QueueEndEvent)
	queueErrorHandlers []func(context.Context, domain.QueueErrorEvent)
	queueDebugHandlers []func(context.Context, domain.QueueDebugEvent)

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
	closed bool
	mu     sync.RWMutex
}

// NewChannelEventBus creates a new ChannelEventBus with the given buffer size.
func NewChannelEventBus(bufferSize int) *ChannelEventBus {
	if bufferSize <= 0 {
		bufferSize = DefaultEventBufferSize
	}

	ctx, cancel := context.WithCancel(context.Background())

	bus := &ChannelEventBus{
		trackAdd:   make(chan domain.TrackAddEvent, bufferSize),
		tracksAdd:  make(chan domain.TracksAddEvent, bufferSize),
		trackStart: make(chan domain.TrackStartEvent, bufferSize),
		queueEnd:   make(chan domain.QueueEndEvent, bufferSize),
		queueError: make(chan domain.QueueErrorEvent, bufferSize),
		queueDebug: make(chan domain.QueueDebugEvent, bufferSize),
		ctx:        ctx,
		cancel:     cancel,
	}

	bus.startDispatchers()

	return bus
}

func (b *ChannelEventBus) startDispatchers() {
	b.wg.Add(6)

	go dispatch(b, b.trackAdd, func() []func(context.Context, domain.TrackAddEvent) {
		return b.trackAddHandlers
	})
	go dispatch(b, b.tracksAdd, func() []func(context.Context, domain.TracksAddEvent) {
		return b.tracksAddHandlers
	})
	go dispatch(b, b.trackStart, func() []func(context.Context, domain.TrackStartEvent) {
		return b.trackStartHandlers
	})
	go dispatch(b, b.queueEnd, func() []func(context.Context, domain.QueueEndEvent) {
		return b.queueEndHandlers
	})
	go dispatch(b, b.queueError, func() []func(context.Context, domain.QueueErrorEvent) {
		return b.queueErrorHandlers
	})
	go dispatch(b, b.queueDebug, func() []func(context.Context, domain.QueueDebugEvent) {
		return b.queueDebugHandlers
	})
}

// dispatch drains one event channel, fanning every event out to the handlers
// registered at delivery time.
func dispatch[E any](b *ChannelEventBus, ch <-chan E, handlers func() []func(context.Context, E)) {
	defer b.wg.Done()
	for {
		select {
		case <-b.ctx.Done():
			return
		case event, ok := <-ch:
			if !ok {
				return
			}
			b.mu.RLock()
			hs := handlers()
			b.mu.RUnlock()
			for _, handler := range hs {
				handler(b.ctx, event)
			}
		}
	}
}

// publish sends an event without blocking, dropping it when the buffer is
// full or the bus is closed.
func publish[E any](b *ChannelEventBus, ch chan<- E, eventType string, event E) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.closed {
		slog.Warn("attempted to publish to closed event bus", "type", eventType)
		return
	}

	select {
	case ch <- event:
		slog.Debug("published event", "type", eventType)
	default:
		slog.Warn("event buffer full, dropping event", "type", eventType)
	}
}

// --- ports.EventPublisher ---

// PublishTrackAdd publishes a TrackAddEvent.
func (b *ChannelEventBus) PublishTrackAdd(event domain.TrackAddEvent) {
	publish(b, b.trackAdd, "TrackAdd", event)
}

// PublishTracksAdd publishes a TracksAddEvent.
func (b *ChannelEventBus) PublishTracksAdd(event domain.TracksAddEvent) {
	publish(b, b.tracksAdd, "TracksAdd", event)
}

// PublishTrackStart publishes a TrackStartEvent.
func (b *ChannelEventBus) PublishTrackStart(event domain.TrackStartEvent) {
	publish(b, b.trackStart, "TrackStart", event)
}

// PublishQueueEnd publishes a QueueEndEvent.
func (b *ChannelEventBus) PublishQueueEnd(event domain.QueueEndEvent) {
	publish(b, b.queueEnd, "QueueEnd", event)
}

// PublishQueueError publishes a QueueErrorEvent.
func (b *ChannelEventBus) PublishQueueError(event domain.QueueErrorEvent) {
	publish(b, b.queueError, "QueueError", event)
}

// PublishQueueDebug publishes a QueueDebugEvent.
func (b *ChannelEventBus) PublishQueueDebug(event domain.QueueDebugEvent) {
	publish(b, b.queueDebug, "QueueDebug", event)
}

// --- subscription ---

// OnTrackAdd registers a handler for TrackAddEvent.
func (b *ChannelEventBus) OnTrackAdd(handler func(context.Context, domain.TrackAddEvent)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.trackAddHandlers = append(b.trackAddHandlers, handler)
}

// OnTracksAdd registers a handler for TracksAddEvent.
func (b *ChannelEventBus) OnTracksAdd(handler func(context.Context, domain.TracksAddEvent)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.tracksAddHandlers = append(b.tracksAddHandlers, handler)
}

// OnTrackStart registers a handler for TrackStartEvent.
func (b *ChannelEventBus) OnTrackStart(handler func(context.Context, domain.TrackStartEvent)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.trackStartHandlers = append(b.trackStartHandlers, handler)
}

// OnQueueEnd registers a handler for QueueEndEvent.
func (b *ChannelEventBus) OnQueueEnd(handler func(context.Context, domain.QueueEndEvent)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.queueEndHandlers = append(b.queueEndHandlers, handler)
}

// OnQueueError registers a handler for QueueErrorEvent.
func (b *ChannelEventBus) OnQueueError(handler func(context.Context, domain.QueueErrorEvent)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.queueErrorHandlers = append(b.queueErrorHandlers, handler)
}

// OnQueueDebug registers a handler for QueueDebugEvent.
func (b *ChannelEventBus) OnQueueDebug(handler func(context.Context, domain.QueueDebugEvent)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.queueDebugHandlers = append(b.queueDebugHandlers, handler)
}

// Close stops the dispatchers and closes all event channels. After Close,
// publishing no longer sends events.
func (b *ChannelEventBus) Close() {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return
	}
	b.closed = true
	b.mu.Unlock()

	b.cancel()

	close(b.trackAdd)
	close(b.tracksAdd)
	close(b.trackStart)
	close(b.queueEnd)
	close(b.queueError)
	close(b.queueDebug)

	b.wg.Wait()

	slog.Debug("channel event bus closed")
}
