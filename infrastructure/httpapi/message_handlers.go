package httpapi

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/samber/lo"

	"github.com/rautela2003/realtime-chat-app/domain"
)

type messageBody struct {
	Username  string    `json:"username"`
	Text      string    `json:"text"`
	Room      string    `json:"room"`
	CreatedAt time.Time `json:"createdAt"`
}

type postMessageBody struct {
	Username string `json:"username"`
	Text     string `json:"text"`
	Room     string `json:"room"`
}

func toMessageBody(m domain.Message, _ int) messageBody {
	return messageBody{
		Username:  m.Username,
		Text:      m.Text,
		Room:      string(m.Room),
		CreatedAt: m.CreatedAt,
	}
}

// latestMessages replays history: most recent 50, oldest first.
func (h *handlers) latestMessages(w http.ResponseWriter, _ *http.Request) {
	messages, err := h.chat.History()
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, lo.Map(messages, toMessageBody))
}

// postMessage is the hybrid REST path: the message is persisted and
// also broadcast to the room, exactly as if it had arrived over the
// realtime channel.
func (h *handlers) postMessage(w http.ResponseWriter, r *http.Request) {
	var body postMessageBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "Invalid message payload"})
		return
	}
	message, err := h.chat.PostMessage(r.Context(), body.Username, body.Text, domain.RoomID(body.Room))
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toMessageBody(message, 0))
}
