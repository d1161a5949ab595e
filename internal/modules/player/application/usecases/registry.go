package usecases

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/disgoorg/snowflake/v2"
	"github.com/hizuru/quaver/internal/modules/player/application/ports"
	"github.com/hizuru/quaver/internal/modules/player/domain"
)

// Registry holds at most one queue per guild. Queues remove themselves from
// the registry when destroyed.
type Registry struct {
	mu     sync.RWMutex
	queues map[snowflake.ID]*Queue

	transport ports.VoiceTransport
	resolver  ports.StreamResolver
	publisher ports.EventPublisher
	defaults  domain.Options
}

// NewRegistry creates a Registry whose queues share the given collaborators
// and default options.
func NewRegistry(
	transport ports.VoiceTransport,
	resolver ports.StreamResolver,
	publisher ports.EventPublisher,
	defaults domain.Options,
) *Registry {
	return &Registry{
		queues:    make(map[snowflake.ID]*Queue),
		transport: transport,
		resolver:  resolver,
		publisher: publisher,
		defaults:  defaults,
	}
}

// GetOrCreate returns the guild's queue, creating it if none exists.
func (r *Registry) GetOrCreate(guildID snowflake.ID) *Queue {
	r.mu.Lock()
	defer r.mu.Unlock()

	if q, ok := r.queues[guildID]; ok {
		return q
	}

	ctx, cancel := context.WithCancel(context.Background())
	q := &Queue{
		guildID:    guildID,
		previous:   domain.NewHistory(0),
		repeatMode: domain.RepeatModeOff,
		options:    r.defaults,
		volume:     r.defaults.InitialVolume,
		ctx:        ctx,
		cancel:     cancel,
		transport:  r.transport,
		resolver:   r.resolver,
		publisher:  r.publisher,
		registry:   r,
	}
	r.queues[guildID] = q
	return q
}

// Get returns the guild's queue, or nil if none exists.
func (r *Registry) Get(guildID snowflake.ID) *Queue {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.queues[guildID]
}

// Count returns the number of live queues.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.queues)
}

// remove drops the guild's queue. Called by Queue.Destroy.
func (r *Registry) remove(guildID snowflake.ID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.queues, guildID)
}

// Shutdown destroys every live queue. Queues that never connected are simply
// dropped.
func (r *Registry) Shutdown() {
	r.mu.Lock()
	queues := make([]*Queue, 0, len(r.queues))
	for _, q := range r.queues {
		queues = append(queues, q)
	}
	r.queues = make(map[snowflake.ID]*Queue)
	r.mu.Unlock()

	for _, q := range queues {
		err := q.Destroy()
		if err != nil && !errors.Is(err, ErrNoVoiceConnection) && !errors.Is(err, ErrQueueDestroyed) {
			slog.Warn("failed to destroy queue during shutdown", "guild", q.GuildID(), "error", err)
		}
	}
}
