package runtime

import (
	"sync"
	"time"

	"github.com/rautela2003/realtime-chat-app/domain"
)

// TypingInterval is the minimum gap between two relayed typing events
// from the same connection in the same room.
const TypingInterval = 300 * time.Millisecond

type typingKey struct {
	connectionID string
	room         domain.RoomID
}

// TypingDebouncer rate-limits typing signals per (connection, room).
// It only keeps the last-relayed timestamp; clients clear their own
// typing display and send an explicit stop signal, so the server never
// times typing state out on its own.
type TypingDebouncer struct {
	mu       sync.Mutex
	interval time.Duration
	now      func() time.Time
	last     map[typingKey]time.Time
}

func NewTypingDebouncer(interval time.Duration) *TypingDebouncer {
	return &TypingDebouncer{
		interval: interval,
		now:      time.Now,
		last:     make(map[typingKey]time.Time),
	}
}

// ShouldRelay reports whether a typing event may be published, and if
// so records the emission. Events inside the interval are dropped.
func (d *TypingDebouncer) ShouldRelay(connectionID string, room domain.RoomID) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	key := typingKey{connectionID: connectionID, room: room}
	now := d.now()
	if last, ok := d.last[key]; ok && now.Sub(last) < d.interval {
		return false
	}
	d.last[key] = now
	return true
}

// Forget clears the state of a connection on disconnect or room switch.
func (d *TypingDebouncer) Forget(connectionID string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for key := range d.last {
		if key.connectionID == connectionID {
			delete(d.last, key)
		}
	}
}
