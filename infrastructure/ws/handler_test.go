package ws

import (
	"encoding/json"
	"log/slog"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"

	"github.com/rautela2003/realtime-chat-app/auth"
	"github.com/rautela2003/realtime-chat-app/domain"
	"github.com/rautela2003/realtime-chat-app/repositories"
	"github.com/rautela2003/realtime-chat-app/runtime"
	"github.com/rautela2003/realtime-chat-app/services"
)

type channelFixture struct {
	server   *httptest.Server
	tokens   *auth.TokenService
	registry *runtime.Registry
}

func newChannel(t *testing.T) channelFixture {
	t.Helper()
	log := slog.Default()
	registry := runtime.NewRegistry()
	orchestrator := runtime.NewOrchestrator(log, registry, runtime.NewBus(log, registry),
		runtime.NewTypingDebouncer(runtime.TypingInterval), repositories.NewMemoryUserRepository(),
		repositories.NewMemoryMessageRepository(domain.HistoryLimit), false)
	tokens := auth.NewTokenService("ws-test-secret", time.Hour)

	server := httptest.NewServer(NewHandler(log, services.NewChatService(orchestrator), tokens))
	t.Cleanup(server.Close)
	return channelFixture{server: server, tokens: tokens, registry: registry}
}

func (f channelFixture) issue(t *testing.T, username string) string {
	t.Helper()
	token, err := f.tokens.Issue(domain.Identity{
		ID:       uuid.New(),
		Email:    username + "@example.com",
		Username: username,
	})
	require.NoError(t, err)
	return token
}

func (f channelFixture) dial(t *testing.T, token string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(f.server.URL, "http") + "/?token=" + token
	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	resp.Body.Close()
	t.Cleanup(func() { conn.Close() })
	return conn
}

func sendFrame(t *testing.T, conn *websocket.Conn, name string, data any) {
	t.Helper()
	raw, err := json.Marshal(data)
	require.NoError(t, err)
	frame, err := json.Marshal(Frame{Event: name, Data: raw})
	require.NoError(t, err)
	require.NoError(t, conn.WriteMessage(websocket.TextMessage, frame))
}

// awaitMessage reads frames until a chat message arrives, skipping
// presence refreshes and typing signals along the way.
func awaitMessage(t *testing.T, conn *websocket.Conn) messagePayload {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	for {
		_, raw, err := conn.ReadMessage()
		require.NoError(t, err)
		var frame Frame
		require.NoError(t, json.Unmarshal(raw, &frame))
		if frame.Event != eventMessage {
			continue
		}
		var payload messagePayload
		require.NoError(t, json.Unmarshal(frame.Data, &payload))
		return payload
	}
}

func TestHandler_Refuses_Bad_Tokens(t *testing.T) {
	req := require.New(t)
	f := newChannel(t)

	for name, token := range map[string]string{
		"absent":    "",
		"malformed": "not-a-token",
	} {
		t.Run(name, func(t *testing.T) {
			url := "ws" + strings.TrimPrefix(f.server.URL, "http") + "/?token=" + token
			conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
			req.ErrorIs(err, websocket.ErrBadHandshake)
			req.Nil(conn)
			req.Equal(401, resp.StatusCode)
			resp.Body.Close()
		})
	}

	t.Run("expired", func(t *testing.T) {
		expired := auth.NewTokenService("ws-test-secret", -time.Hour)
		token, err := expired.Issue(domain.Identity{ID: uuid.New(), Email: "a@b.c", Username: "a"})
		req.NoError(err)

		url := "ws" + strings.TrimPrefix(f.server.URL, "http") + "/?token=" + token
		conn, resp, dialErr := websocket.DefaultDialer.Dial(url, nil)
		req.ErrorIs(dialErr, websocket.ErrBadHandshake)
		req.Nil(conn)
		req.Equal(401, resp.StatusCode)
		resp.Body.Close()
	})

	// None of the refused handshakes left anything behind.
	req.Empty(f.registry.OnlineUsernames())
}

func TestHandler_Welcomes_The_Joiner(t *testing.T) {
	req := require.New(t)
	f := newChannel(t)

	conn := f.dial(t, f.issue(t, "alice"))
	sendFrame(t, conn, eventJoinRoom, joinRoomPayload{Room: "general"})

	welcome := awaitMessage(t, conn)
	req.Equal(domain.SystemUsername, welcome.Username)
	req.Equal("Welcome to the chat, alice!", welcome.Text)
}

func TestHandler_Broadcasts_Between_Connections(t *testing.T) {
	req := require.New(t)
	f := newChannel(t)

	alice := f.dial(t, f.issue(t, "alice"))
	sendFrame(t, alice, eventJoinRoom, joinRoomPayload{Room: "general"})
	welcome := awaitMessage(t, alice)
	req.Contains(welcome.Text, "alice")

	bob := f.dial(t, f.issue(t, "bob"))
	sendFrame(t, bob, eventJoinRoom, joinRoomPayload{Room: "general"})
	joined := awaitMessage(t, alice)
	req.Equal("bob has joined the chat", joined.Text)

	sendFrame(t, bob, eventChatMessage, chatMessagePayload{Text: "hello room", Room: "general"})
	received := awaitMessage(t, alice)
	req.Equal("bob", received.Username)
	req.Equal("hello room", received.Text)
}

func TestHandler_Ignores_Spoofed_Usernames(t *testing.T) {
	req := require.New(t)
	f := newChannel(t)

	alice := f.dial(t, f.issue(t, "alice"))
	sendFrame(t, alice, eventJoinRoom, joinRoomPayload{Room: "general"})
	awaitMessage(t, alice)

	bob := f.dial(t, f.issue(t, "bob"))
	sendFrame(t, bob, eventJoinRoom, joinRoomPayload{Room: "general"})
	awaitMessage(t, bob) // bob's own welcome; he is in the room now

	// The wire says "mallory" but the session token proved "alice".
	sendFrame(t, alice, eventChatMessage,
		chatMessagePayload{Username: "mallory", Text: "hi", Room: "general"})
	received := awaitMessage(t, bob)
	req.Equal("alice", received.Username)
	req.Equal("hi", received.Text)
}
