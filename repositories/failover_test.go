package repositories

import (
	"fmt"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/rautela2003/realtime-chat-app/domain"
)

// faultyMessageRepository simulates a durable backend that went away.
type faultyMessageRepository struct{}

func (faultyMessageRepository) Append(domain.Message) error {
	return fmt.Errorf("disk on fire")
}

func (faultyMessageRepository) Latest(int) ([]domain.Message, error) {
	return nil, fmt.Errorf("disk on fire")
}

func Test_Failover_Degrades_To_Volatile(t *testing.T) {
	req := require.New(t)
	health := NewHealth(slog.Default())
	fallback := NewMemoryMessageRepository(domain.HistoryLimit)
	repo := NewFailoverMessageRepository(faultyMessageRepository{}, fallback, health)

	message := domain.Message{
		ID:        uuid.New(),
		Username:  "alice",
		Text:      "hello",
		Room:      domain.DefaultRoom,
		CreatedAt: time.Now().UTC(),
	}

	// The first durable fault trips the shared health signal but the
	// call still succeeds through the fallback.
	req.True(health.Healthy())
	req.NoError(repo.Append(message))
	req.False(health.Healthy())

	fetched, err := repo.Latest(domain.HistoryLimit)
	req.NoError(err)
	req.Equal([]domain.Message{message}, fetched)
}

func Test_Failover_Healthy_Path_Stays_Durable(t *testing.T) {
	req := require.New(t)
	health := NewHealth(slog.Default())
	primary := NewMessageRepository(openTestDB(t))
	fallback := NewMemoryMessageRepository(domain.HistoryLimit)
	repo := NewFailoverMessageRepository(primary, fallback, health)

	message := domain.Message{
		ID:        uuid.New(),
		Username:  "alice",
		Text:      "hello",
		Room:      domain.DefaultRoom,
		CreatedAt: time.Now().UTC(),
	}
	req.NoError(repo.Append(message))
	req.True(health.Healthy())

	// The volatile side never saw the write.
	fromFallback, err := fallback.Latest(domain.HistoryLimit)
	req.NoError(err)
	req.Empty(fromFallback)

	fetched, err := repo.Latest(domain.HistoryLimit)
	req.NoError(err)
	req.Len(fetched, 1)
}

func Test_Failover_Shared_Health_Affects_All_Stores(t *testing.T) {
	req := require.New(t)
	health := NewHealth(slog.Default())
	messages := NewFailoverMessageRepository(faultyMessageRepository{}, NewMemoryMessageRepository(0), health)

	users := NewFailoverUserRepository(NewUserRepository(openTestDB(t)), NewMemoryUserRepository(), health)
	identity := domain.Identity{ID: uuid.New(), Email: "a@b.c", Username: "a", CreatedAt: time.Now().UTC()}

	// Trip the signal through the message store.
	req.NoError(messages.Append(domain.Message{ID: uuid.New(), CreatedAt: time.Now().UTC()}))
	req.False(health.Healthy())

	// The user store now writes to its volatile side as well.
	req.NoError(users.Create(identity))
	_, err := users.fallback.GetByEmail("a@b.c")
	req.NoError(err)
}
