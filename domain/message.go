package domain

import (
	"time"

	"github.com/google/uuid"
)

// HistoryLimit caps history reads on every backend: retrieval is always
// "most recent HistoryLimit, oldest first". The bounded volatile backend
// also uses it as its retention capacity.
const HistoryLimit = 50

// Message is an immutable chat event. There is no update or delete.
type Message struct {
	ID        uuid.UUID
	Username  string
	Text      string
	Room      RoomID
	CreatedAt time.Time
}
