package runtime

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/rautela2003/realtime-chat-app/domain"
	"github.com/rautela2003/realtime-chat-app/domain/event"
)

// recordingSink captures everything it consumes.
type recordingSink struct {
	mu     sync.Mutex
	events []event.DomainEvent
	fail   bool
}

func (s *recordingSink) Consume(_ context.Context, e event.DomainEvent) error {
	if s.fail {
		return fmt.Errorf("sink gone")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, e)
	return nil
}

func (s *recordingSink) Events() []event.DomainEvent {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]event.DomainEvent(nil), s.events...)
}

func joinSink(t *testing.T, registry *Registry, username string, room domain.RoomID) (string, *recordingSink) {
	t.Helper()
	sink := &recordingSink{}
	connID := uuid.NewString()
	registry.Bind(connID, identityNamed(username), sink)
	_, ok := registry.Join(connID, room)
	require.True(t, ok)
	return connID, sink
}

func TestBus_Publish_Never_Leaks_Across_Rooms(t *testing.T) {
	req := require.New(t)
	registry := NewRegistry()
	bus := NewBus(slog.Default(), registry)
	_, inA := joinSink(t, registry, "alice", "A")
	_, inB := joinSink(t, registry, "bob", "B")

	posted := event.MessagePosted{Username: "alice", Text: "hi", RoomName: "A"}
	bus.Publish(context.Background(), "A", posted)

	req.Equal([]event.DomainEvent{posted}, inA.Events())
	req.Empty(inB.Events())
}

func TestBus_PublishExcept_Skips_Sender(t *testing.T) {
	req := require.New(t)
	registry := NewRegistry()
	bus := NewBus(slog.Default(), registry)
	sender, senderSink := joinSink(t, registry, "alice", "A")
	_, otherSink := joinSink(t, registry, "bob", "A")

	typing := event.Typing{Username: "alice", RoomName: "A"}
	bus.PublishExcept(context.Background(), "A", sender, typing)

	req.Empty(senderSink.Events())
	req.Equal([]event.DomainEvent{typing}, otherSink.Events())
}

func TestBus_PublishGlobal_Reaches_Every_Room(t *testing.T) {
	req := require.New(t)
	registry := NewRegistry()
	bus := NewBus(slog.Default(), registry)
	_, inA := joinSink(t, registry, "alice", "A")
	_, inB := joinSink(t, registry, "bob", "B")

	online := event.OnlineUsers{Usernames: []string{"alice", "bob"}}
	bus.PublishGlobal(context.Background(), online)

	req.Equal([]event.DomainEvent{online}, inA.Events())
	req.Equal([]event.DomainEvent{online}, inB.Events())
}

func TestBus_Failing_Sink_Does_Not_Block_Others(t *testing.T) {
	req := require.New(t)
	registry := NewRegistry()
	bus := NewBus(slog.Default(), registry)

	broken := &recordingSink{fail: true}
	brokenID := uuid.NewString()
	registry.Bind(brokenID, identityNamed("ghost"), broken)
	registry.Join(brokenID, "A")
	_, healthy := joinSink(t, registry, "alice", "A")

	posted := event.MessagePosted{Username: "alice", Text: "hi", RoomName: "A"}
	bus.Publish(context.Background(), "A", posted)

	req.Equal([]event.DomainEvent{posted}, healthy.Events())
}
