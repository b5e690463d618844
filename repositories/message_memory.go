package repositories

import (
	"sync"

	"github.com/rautela2003/realtime-chat-app/domain"
)

// MemoryMessageRepository is the bounded volatile history backend: a
// fixed-capacity FIFO ring. Appending past capacity evicts the oldest
// entry.
type MemoryMessageRepository struct {
	mu       sync.Mutex
	capacity int
	messages []domain.Message // oldest first
}

func NewMemoryMessageRepository(capacity int) *MemoryMessageRepository {
	if capacity <= 0 {
		capacity = domain.HistoryLimit
	}
	return &MemoryMessageRepository{capacity: capacity}
}

func (r *MemoryMessageRepository) Append(message domain.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.messages = append(r.messages, message)
	if len(r.messages) > r.capacity {
		r.messages = r.messages[len(r.messages)-r.capacity:]
	}
	return nil
}

func (r *MemoryMessageRepository) Latest(limit int) ([]domain.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if limit <= 0 || limit > domain.HistoryLimit {
		limit = domain.HistoryLimit
	}
	if limit > len(r.messages) {
		limit = len(r.messages)
	}
	out := make([]domain.Message, limit)
	copy(out, r.messages[len(r.messages)-limit:])
	return out, nil
}
