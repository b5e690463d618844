// Package event defines the domain events fanned out to connected clients.
package event

import (
	"time"

	"github.com/rautela2003/realtime-chat-app/domain"
)

// DomainEvent is anything the broadcast bus can deliver to a sink.
// Room is the scope the event belongs to; the empty RoomID marks an
// event published globally.
type DomainEvent interface {
	Room() domain.RoomID
}

// MessagePosted carries a chat message to room members.
type MessagePosted struct {
	Username  string
	Text      string
	RoomName  domain.RoomID
	CreatedAt time.Time
}

func (e MessagePosted) Room() domain.RoomID { return e.RoomName }

// UserJoined announces a new room member to everyone already there.
type UserJoined struct {
	Username  string
	RoomName  domain.RoomID
	CreatedAt time.Time
}

func (e UserJoined) Room() domain.RoomID { return e.RoomName }

// UserLeft announces a departure to the vacated room.
type UserLeft struct {
	Username  string
	RoomName  domain.RoomID
	CreatedAt time.Time
}

func (e UserLeft) Room() domain.RoomID { return e.RoomName }

// Welcome is delivered privately to a connection that just joined.
type Welcome struct {
	Username  string
	RoomName  domain.RoomID
	CreatedAt time.Time
}

func (e Welcome) Room() domain.RoomID { return e.RoomName }

// Typing signals that a member is composing a message. Ephemeral,
// never persisted.
type Typing struct {
	Username string
	RoomName domain.RoomID
}

func (e Typing) Room() domain.RoomID { return e.RoomName }

// StopTyping clears a previously relayed Typing signal.
type StopTyping struct {
	Username string
	RoomName domain.RoomID
}

func (e StopTyping) Room() domain.RoomID { return e.RoomName }

// OnlineUsers is the refreshed presence list. RoomName is empty when
// presence is broadcast deployment-wide.
type OnlineUsers struct {
	Usernames []string
	RoomName  domain.RoomID
}

func (e OnlineUsers) Room() domain.RoomID { return e.RoomName }
