package runtime

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// fakeClock advances only when told to, keeping the debounce tests
// deterministic.
type fakeClock struct {
	at time.Time
}

func (c *fakeClock) now() time.Time { return c.at }

func (c *fakeClock) advance(d time.Duration) { c.at = c.at.Add(d) }

func newTestDebouncer() (*TypingDebouncer, *fakeClock) {
	clock := &fakeClock{at: time.Unix(1_700_000_000, 0)}
	d := NewTypingDebouncer(TypingInterval)
	d.now = clock.now
	return d, clock
}

func TestTypingDebouncer_Drops_Within_Interval(t *testing.T) {
	req := require.New(t)
	d, clock := newTestDebouncer()

	req.True(d.ShouldRelay("conn-1", "general"))
	clock.advance(100 * time.Millisecond)
	req.False(d.ShouldRelay("conn-1", "general"))
}

func TestTypingDebouncer_Relays_After_Interval(t *testing.T) {
	req := require.New(t)
	d, clock := newTestDebouncer()

	req.True(d.ShouldRelay("conn-1", "general"))
	clock.advance(400 * time.Millisecond)
	req.True(d.ShouldRelay("conn-1", "general"))
}

func TestTypingDebouncer_Keys_Per_Connection_And_Room(t *testing.T) {
	req := require.New(t)
	d, _ := newTestDebouncer()

	req.True(d.ShouldRelay("conn-1", "general"))
	// A different connection or a different room is debounced apart.
	req.True(d.ShouldRelay("conn-2", "general"))
	req.True(d.ShouldRelay("conn-1", "random"))
	req.False(d.ShouldRelay("conn-1", "general"))
}

func TestTypingDebouncer_Forget_Resets(t *testing.T) {
	req := require.New(t)
	d, _ := newTestDebouncer()

	req.True(d.ShouldRelay("conn-1", "general"))
	d.Forget("conn-1")
	req.True(d.ShouldRelay("conn-1", "general"))
}
