package ws

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/rautela2003/realtime-chat-app/domain"
	"github.com/rautela2003/realtime-chat-app/domain/event"
	"github.com/rautela2003/realtime-chat-app/services"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
	sendBufferSize = 64
)

// Client is one live websocket connection after a successful handshake.
// It feeds inbound frames to the chat service and implements
// runtime.EventSink for outbound delivery. The send channel is buffered
// and Consume never blocks: when the buffer is full the event is
// dropped for this client only.
type Client struct {
	id       string
	identity domain.Identity
	conn     *websocket.Conn
	chat     services.IChatService
	log      *slog.Logger

	mu     sync.Mutex
	closed bool
	send   chan []byte
}

func NewClient(log *slog.Logger, conn *websocket.Conn, chat services.IChatService,
	connectionID string, identity domain.Identity) *Client {
	conn.SetReadLimit(maxMessageSize)
	return &Client{
		id:       connectionID,
		identity: identity,
		conn:     conn,
		chat:     chat,
		log:      log,
		send:     make(chan []byte, sendBufferSize),
	}
}

// Consume renders a domain event and queues it for the write pump.
func (c *Client) Consume(_ context.Context, e event.DomainEvent) error {
	data, err := renderEvent(e)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return fmt.Errorf("connection %s is closed", c.id)
	}
	select {
	case c.send <- data:
		return nil
	default:
		return fmt.Errorf("send buffer full for connection %s", c.id)
	}
}

// ReadPump consumes inbound frames until the connection dies, then runs
// the disconnect path. Any read error, graceful close or network drop
// alike, ends the loop, so cleanup happens on abnormal termination too.
func (c *Client) ReadPump() {
	defer func() {
		c.chat.Disconnect(context.Background(), c.id)
		c.close()
		_ = c.conn.Close()
	}()

	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.log.Debug("Websocket read failed", "connection", c.id, "error", err)
			}
			return
		}
		c.dispatch(raw)
	}
}

func (c *Client) dispatch(raw []byte) {
	var frame Frame
	if err := json.Unmarshal(raw, &frame); err != nil {
		c.log.Debug("Dropping malformed frame", "connection", c.id, "error", err)
		return
	}

	// The username on the wire is ignored in favor of the identity the
	// session token proved at the handshake.
	ctx := context.Background()
	switch frame.Event {
	case eventJoinRoom:
		var payload joinRoomPayload
		if err := json.Unmarshal(frame.Data, &payload); err != nil {
			return
		}
		c.chat.JoinRoom(ctx, c.id, domain.RoomID(payload.Room))
	case eventChatMessage:
		var payload chatMessagePayload
		if err := json.Unmarshal(frame.Data, &payload); err != nil {
			return
		}
		if _, err := c.chat.PostMessage(ctx, c.identity.Username, payload.Text, domain.RoomID(payload.Room)); err != nil {
			c.log.Warn("Failed to post message", "connection", c.id, "error", err)
		}
	case eventTyping:
		var payload typingPayload
		if err := json.Unmarshal(frame.Data, &payload); err != nil {
			return
		}
		c.chat.Typing(ctx, c.id, c.identity.Username, domain.RoomID(payload.Room))
	case eventStopTyping:
		var payload typingPayload
		if err := json.Unmarshal(frame.Data, &payload); err != nil {
			return
		}
		c.chat.StopTyping(ctx, c.id, c.identity.Username, domain.RoomID(payload.Room))
	default:
		c.log.Debug("Unknown event", "connection", c.id, "event", frame.Event)
	}
}

// WritePump drains the send channel onto the socket and keeps the
// connection alive with pings.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case data, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (c *Client) close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.closed {
		c.closed = true
		close(c.send)
	}
}
