package runtime

import (
	"context"
	"log/slog"

	"github.com/rautela2003/realtime-chat-app/domain"
	"github.com/rautela2003/realtime-chat-app/domain/event"
)

// Bus fans events out to room members. Delivery is best-effort and
// fire-and-forget: membership is snapshotted before iteration, and a
// failing or slow sink is logged and skipped, never allowed to block
// delivery to the rest. The Bus is not a message broker.
type Bus struct {
	log      *slog.Logger
	registry *Registry
}

func NewBus(log *slog.Logger, registry *Registry) *Bus {
	return &Bus{log: log, registry: registry}
}

// Publish delivers an event to every connection bound to the room, and
// only those. Events never leak across rooms.
func (b *Bus) Publish(ctx context.Context, room domain.RoomID, e event.DomainEvent) {
	b.deliver(ctx, b.registry.SinksForRoom(room), e)
}

// PublishExcept excludes the originating connection, for typing signals
// and join announcements where the sender already knows.
func (b *Bus) PublishExcept(ctx context.Context, room domain.RoomID, exceptID string, e event.DomainEvent) {
	b.deliver(ctx, b.registry.SinksForRoomExcept(room, exceptID), e)
}

// PublishGlobal delivers to every admitted connection regardless of
// room. Used only for the deployment-global online list.
func (b *Bus) PublishGlobal(ctx context.Context, e event.DomainEvent) {
	b.deliver(ctx, b.registry.AllSinks(), e)
}

// PublishTo delivers to a single connection, e.g. the private welcome.
func (b *Bus) PublishTo(ctx context.Context, connectionID string, e event.DomainEvent) {
	if sink, ok := b.registry.SinkFor(connectionID); ok {
		b.deliver(ctx, []EventSink{sink}, e)
	}
}

func (b *Bus) deliver(ctx context.Context, sinks []EventSink, e event.DomainEvent) {
	for _, sink := range sinks {
		if err := sink.Consume(ctx, e); err != nil {
			b.log.Debug("Dropped event for slow or closed sink", "error", err)
		}
	}
}
