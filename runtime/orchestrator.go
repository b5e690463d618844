package runtime

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/rautela2003/realtime-chat-app/domain"
	"github.com/rautela2003/realtime-chat-app/domain/event"
	"github.com/rautela2003/realtime-chat-app/repositories"
)

// Orchestrator ties the registry, the bus, the debouncer and the
// stores into the session & room-broadcast engine. The transport layer
// calls it for every lifecycle step and event.
type Orchestrator struct {
	log      *slog.Logger
	registry *Registry
	bus      *Bus
	typing   *TypingDebouncer
	users    repositories.IUserRepository
	messages repositories.IMessageRepository

	// roomScopedPresence scopes the online list to the event's room
	// instead of the whole deployment. The global default mirrors the
	// source behavior; see the design notes before flipping it.
	roomScopedPresence bool
}

func NewOrchestrator(log *slog.Logger, registry *Registry, bus *Bus, typing *TypingDebouncer,
	users repositories.IUserRepository, messages repositories.IMessageRepository,
	roomScopedPresence bool) *Orchestrator {
	return &Orchestrator{
		log:                log,
		registry:           registry,
		bus:                bus,
		typing:             typing,
		users:              users,
		messages:           messages,
		roomScopedPresence: roomScopedPresence,
	}
}

// Admit binds an authenticated connection and marks the identity
// online. Token validation happened at the transport handshake; by the
// time Admit runs the identity is trusted.
func (o *Orchestrator) Admit(connectionID string, identity domain.Identity, sink EventSink) {
	o.registry.Bind(connectionID, identity, sink)
	if err := o.users.SetPresence(identity.Email, true, connectionID); err != nil {
		o.log.Warn("Failed to mark identity online", "email", identity.Email, "error", err)
	}
	o.log.Info("Connection admitted", "connection", connectionID, "username", identity.Username)
}

// JoinRoom binds the connection to a room, vacating any previous one,
// announces the arrival to the room, welcomes the joiner privately and
// refreshes the online list.
func (o *Orchestrator) JoinRoom(ctx context.Context, connectionID string, room domain.RoomID) {
	if room == "" {
		room = domain.DefaultRoom
	}
	previous, ok := o.registry.Join(connectionID, room)
	if !ok {
		return
	}
	if previous != "" && previous != room {
		o.typing.Forget(connectionID)
	}

	identity, _ := o.registry.IdentityFor(connectionID)
	now := time.Now().UTC()
	o.bus.PublishExcept(ctx, room, connectionID,
		event.UserJoined{Username: identity.Username, RoomName: room, CreatedAt: now})
	o.bus.PublishTo(ctx, connectionID,
		event.Welcome{Username: identity.Username, RoomName: room, CreatedAt: now})
	o.publishOnline(ctx, room)
}

// Disconnect tears a connection down. Idempotent: it is a no-op for a
// connection that was never admitted, and safe to run twice when both
// the read pump and the write pump observe the same drop.
func (o *Orchestrator) Disconnect(ctx context.Context, connectionID string) {
	identity, room, ok := o.registry.Remove(connectionID)
	if !ok {
		return
	}
	o.typing.Forget(connectionID)
	if err := o.users.SetPresence(identity.Email, false, ""); err != nil {
		o.log.Warn("Failed to mark identity offline", "email", identity.Email, "error", err)
	}
	if room != "" {
		o.bus.Publish(ctx, room,
			event.UserLeft{Username: identity.Username, RoomName: room, CreatedAt: time.Now().UTC()})
	}
	o.publishOnline(ctx, room)
	o.log.Info("Connection closed", "connection", connectionID, "username", identity.Username)
}

// PostMessage persists a message and fans it out to the room.
func (o *Orchestrator) PostMessage(ctx context.Context, username, text string, room domain.RoomID) (domain.Message, error) {
	if room == "" {
		room = domain.DefaultRoom
	}
	message := domain.Message{
		ID:        uuid.New(),
		Username:  username,
		Text:      text,
		Room:      room,
		CreatedAt: time.Now().UTC(),
	}
	if err := o.messages.Append(message); err != nil {
		return domain.Message{}, err
	}
	o.bus.Publish(ctx, room, event.MessagePosted{
		Username:  message.Username,
		Text:      message.Text,
		RoomName:  message.Room,
		CreatedAt: message.CreatedAt,
	})
	return message, nil
}

// History replays the most recent messages, oldest first.
func (o *Orchestrator) History() ([]domain.Message, error) {
	return o.messages.Latest(domain.HistoryLimit)
}

// Typing relays a typing signal to the room minus the sender, debounced
// per connection.
func (o *Orchestrator) Typing(ctx context.Context, connectionID, username string, room domain.RoomID) {
	if !o.typing.ShouldRelay(connectionID, room) {
		return
	}
	o.bus.PublishExcept(ctx, room, connectionID, event.Typing{Username: username, RoomName: room})
}

// StopTyping always relays immediately; there is nothing to debounce
// about a signal that clears state.
func (o *Orchestrator) StopTyping(ctx context.Context, connectionID, username string, room domain.RoomID) {
	o.bus.PublishExcept(ctx, room, connectionID, event.StopTyping{Username: username, RoomName: room})
}

func (o *Orchestrator) publishOnline(ctx context.Context, room domain.RoomID) {
	if o.roomScopedPresence {
		if room == "" {
			return
		}
		o.bus.Publish(ctx, room, event.OnlineUsers{
			Usernames: o.registry.UsernamesInRoom(room),
			RoomName:  room,
		})
		return
	}
	o.bus.PublishGlobal(ctx, event.OnlineUsers{Usernames: o.registry.OnlineUsernames()})
}
