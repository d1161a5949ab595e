package ports

import "github.com/hizuru/quaver/internal/modules/player/domain"

// EventPublisher is the notification sink a queue emits lifecycle events to.
// Implementations must not block the caller.
type EventPublisher interface {
	PublishTrackAdd(event domain.TrackAddEvent)
	PublishTracksAdd(event domain.TracksAddEvent)
	PublishTrackStart(event domain.TrackStartEvent)
	PublishQueueEnd(event domain.QueueEndEvent)
	PublishQueueError(event domain.QueueErrorEvent)
	PublishQueueDebug(event domain.QueueDebugEvent)
}
