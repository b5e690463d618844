// Package runtime owns the live session state: which connection is
// which identity, which room it occupies, and how events reach it.
// It orchestrates the system without containing domain rules.
package runtime

import (
	"context"
	"sync"

	"github.com/samber/lo"

	"github.com/rautela2003/realtime-chat-app/domain"
	"github.com/rautela2003/realtime-chat-app/domain/event"
)

// EventSink is one delivery target, usually a websocket connection.
// Implementations must not block: a slow consumer drops events rather
// than stalling fan-out.
type EventSink interface {
	Consume(ctx context.Context, e event.DomainEvent) error
}

type Set map[string]struct{}

type session struct {
	identity domain.Identity
	room     domain.RoomID // empty until the first explicit join
	sink     EventSink
}

// Registry maps live connections to authenticated identities and room
// membership. All mutation happens under one mutex so that a
// connection's bound room and the room's member set can never disagree.
// Room entries are created lazily on first join and removed when the
// last member leaves.
type Registry struct {
	mu       sync.RWMutex
	sessions map[string]*session
	rooms    map[domain.RoomID]Set
}

func NewRegistry() *Registry {
	return &Registry{
		sessions: make(map[string]*session),
		rooms:    make(map[domain.RoomID]Set),
	}
}

// Bind records an admitted connection. The connection has no room until
// it explicitly joins one.
func (r *Registry) Bind(connectionID string, identity domain.Identity, sink EventSink) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[connectionID] = &session{identity: identity, sink: sink}
}

// Join moves a connection into a room. A connection belongs to at most
// one room, so membership in any previous room is dropped first.
// Returns the vacated room ("" if none) and whether the connection was
// known.
func (r *Registry) Join(connectionID string, room domain.RoomID) (domain.RoomID, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[connectionID]
	if !ok {
		return "", false
	}

	previous := s.room
	if previous == room {
		return previous, true
	}
	r.leaveLocked(connectionID, previous)

	if _, ok := r.rooms[room]; !ok {
		r.rooms[room] = make(Set)
	}
	r.rooms[room][connectionID] = struct{}{}
	s.room = room
	return previous, true
}

// Remove deletes a connection and its room membership in one step.
// Safe to call for unknown connections; disconnect cleanup must be
// idempotent because it also runs on abnormal transport termination.
func (r *Registry) Remove(connectionID string) (domain.Identity, domain.RoomID, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[connectionID]
	if !ok {
		return domain.Identity{}, "", false
	}
	r.leaveLocked(connectionID, s.room)
	delete(r.sessions, connectionID)
	return s.identity, s.room, true
}

func (r *Registry) leaveLocked(connectionID string, room domain.RoomID) {
	if room == "" {
		return
	}
	if members, ok := r.rooms[room]; ok {
		delete(members, connectionID)
		if len(members) == 0 {
			delete(r.rooms, room)
		}
	}
}

// SinksForRoom snapshots the delivery targets of a room so that fan-out
// iterates without holding the lock.
func (r *Registry) SinksForRoom(room domain.RoomID) []EventSink {
	return r.sinksForRoom(room, "")
}

// SinksForRoomExcept is SinksForRoom minus the sender, used for typing
// signals and join announcements.
func (r *Registry) SinksForRoomExcept(room domain.RoomID, exceptID string) []EventSink {
	return r.sinksForRoom(room, exceptID)
}

func (r *Registry) sinksForRoom(room domain.RoomID, exceptID string) []EventSink {
	r.mu.RLock()
	defer r.mu.RUnlock()
	members, ok := r.rooms[room]
	if !ok {
		return nil
	}
	sinks := make([]EventSink, 0, len(members))
	for connectionID := range members {
		if connectionID == exceptID {
			continue
		}
		if s, exists := r.sessions[connectionID]; exists {
			sinks = append(sinks, s.sink)
		}
	}
	return sinks
}

// AllSinks snapshots every admitted connection regardless of room.
func (r *Registry) AllSinks() []EventSink {
	r.mu.RLock()
	defer r.mu.RUnlock()
	sinks := make([]EventSink, 0, len(r.sessions))
	for _, s := range r.sessions {
		sinks = append(sinks, s.sink)
	}
	return sinks
}

// IdentityFor returns the identity bound to a connection.
func (r *Registry) IdentityFor(connectionID string) (domain.Identity, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.sessions[connectionID]
	if !ok {
		return domain.Identity{}, false
	}
	return s.identity, true
}

// SinkFor resolves a single connection, used for private delivery.
func (r *Registry) SinkFor(connectionID string) (EventSink, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.sessions[connectionID]
	if !ok {
		return nil, false
	}
	return s.sink, true
}

// OnlineUsernames lists every admitted identity, deployment-wide.
func (r *Registry) OnlineUsernames() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return lo.Map(lo.Values(r.sessions), func(s *session, _ int) string {
		return s.identity.Username
	})
}

// UsernamesInRoom lists the identities currently in one room.
func (r *Registry) UsernamesInRoom(room domain.RoomID) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	members := r.rooms[room]
	usernames := make([]string, 0, len(members))
	for connectionID := range members {
		if s, ok := r.sessions[connectionID]; ok {
			usernames = append(usernames, s.identity.Username)
		}
	}
	return usernames
}
