package ws

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/rautela2003/realtime-chat-app/domain"
	"github.com/rautela2003/realtime-chat-app/domain/event"
)

// Frame is the JSON envelope of every websocket exchange.
type Frame struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

// Client -> server event names.
const (
	eventJoinRoom    = "joinRoom"
	eventChatMessage = "chatMessage"
	eventTyping      = "typing"
	eventStopTyping  = "stopTyping"
)

// Server -> client event names.
const (
	eventMessage     = "message"
	eventOnlineUsers = "online-users"
)

type joinRoomPayload struct {
	Username string `json:"username"`
	Room     string `json:"room"`
}

type chatMessagePayload struct {
	Username string `json:"username"`
	Text     string `json:"text"`
	Room     string `json:"room"`
}

type typingPayload struct {
	Username string `json:"username"`
	Room     string `json:"room"`
}

type messagePayload struct {
	Username  string    `json:"username"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"createdAt"`
}

func encodeFrame(name string, data any) ([]byte, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}
	return json.Marshal(Frame{Event: name, Data: raw})
}

// renderEvent maps a domain event onto the wire protocol. Join, leave
// and welcome announcements surface as regular messages authored by
// "System", which keeps the client protocol to four event names.
func renderEvent(e event.DomainEvent) ([]byte, error) {
	switch evt := e.(type) {
	case event.MessagePosted:
		return encodeFrame(eventMessage, messagePayload{
			Username:  evt.Username,
			Text:      evt.Text,
			CreatedAt: evt.CreatedAt,
		})
	case event.UserJoined:
		return encodeFrame(eventMessage, messagePayload{
			Username:  domain.SystemUsername,
			Text:      fmt.Sprintf("%s has joined the chat", evt.Username),
			CreatedAt: evt.CreatedAt,
		})
	case event.UserLeft:
		return encodeFrame(eventMessage, messagePayload{
			Username:  domain.SystemUsername,
			Text:      fmt.Sprintf("%s has left the chat", evt.Username),
			CreatedAt: evt.CreatedAt,
		})
	case event.Welcome:
		return encodeFrame(eventMessage, messagePayload{
			Username:  domain.SystemUsername,
			Text:      fmt.Sprintf("Welcome to the chat, %s!", evt.Username),
			CreatedAt: evt.CreatedAt,
		})
	case event.Typing:
		return encodeFrame(eventTyping, evt.Username)
	case event.StopTyping:
		return encodeFrame(eventStopTyping, evt.Username)
	case event.OnlineUsers:
		return encodeFrame(eventOnlineUsers, evt.Usernames)
	default:
		return nil, fmt.Errorf("unknown event type %T", e)
	}
}
