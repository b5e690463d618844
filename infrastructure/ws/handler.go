// Package ws is the realtime channel: it gates the websocket handshake
// behind a session token and pumps events between the socket and the
// broadcast engine.
package ws

import (
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/rautela2003/realtime-chat-app/auth"
	"github.com/rautela2003/realtime-chat-app/domain"
	"github.com/rautela2003/realtime-chat-app/services"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// The UI collaborator is served from arbitrary origins in
	// development; same-origin enforcement belongs to the deployment
	// proxy.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Handler upgrades authenticated connections. An absent or invalid
// token refuses the handshake itself with 401: no room interaction is
// possible before the upgrade completes.
type Handler struct {
	log    *slog.Logger
	chat   services.IChatService
	tokens *auth.TokenService
}

func NewHandler(log *slog.Logger, chat services.IChatService, tokens *auth.TokenService) *Handler {
	return &Handler{log: log, chat: chat, tokens: tokens}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	claims, err := h.tokens.Validate(r.URL.Query().Get("token"))
	if err != nil {
		h.log.Info("Handshake refused", "remote", r.RemoteAddr)
		http.Error(w, "invalid or expired token", http.StatusUnauthorized)
		return
	}
	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		http.Error(w, "invalid or expired token", http.StatusUnauthorized)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn("Websocket upgrade failed", "remote", r.RemoteAddr, "error", err)
		return
	}

	identity := domain.Identity{
		ID:       userID,
		Email:    claims.Email,
		Username: claims.Username,
	}
	connectionID := uuid.NewString()
	client := NewClient(h.log, conn, h.chat, connectionID, identity)
	h.chat.Admit(connectionID, identity, client)

	go client.WritePump()
	go client.ReadPump()
}
