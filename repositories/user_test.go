package repositories

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/rautela2003/realtime-chat-app/domain"
	apperrors "github.com/rautela2003/realtime-chat-app/errors"
)

func newIdentity(email, username string) domain.Identity {
	return domain.Identity{
		ID:        uuid.New(),
		Email:     email,
		Username:  username,
		CreatedAt: time.Now().UTC().Truncate(time.Second),
	}
}

func TestUserRepository_Create_And_Lookups(t *testing.T) {
	req := require.New(t)
	repo := NewUserRepository(openTestDB(t))
	alice := newIdentity("alice@example.com", "alice")

	req.NoError(repo.Create(alice))

	byEmail, err := repo.GetByEmail("alice@example.com")
	req.NoError(err)
	req.Equal(alice, byEmail)

	byName, err := repo.GetByUsername("alice")
	req.NoError(err)
	req.Equal(alice, byName)
}

func TestUserRepository_Username_Is_Unique(t *testing.T) {
	req := require.New(t)
	repo := NewUserRepository(openTestDB(t))

	req.NoError(repo.Create(newIdentity("alice@example.com", "alice")))
	err := repo.Create(newIdentity("other@example.com", "alice"))
	req.ErrorIs(err, apperrors.ErrUsernameTaken)

	// The loser's email key was never written.
	_, err = repo.GetByEmail("other@example.com")
	req.ErrorIs(err, apperrors.ErrIdentityNotFound)
}

func TestUserRepository_Unknown_Identity(t *testing.T) {
	req := require.New(t)
	repo := NewUserRepository(openTestDB(t))

	_, err := repo.GetByEmail("ghost@example.com")
	req.ErrorIs(err, apperrors.ErrIdentityNotFound)
	_, err = repo.GetByUsername("ghost")
	req.ErrorIs(err, apperrors.ErrIdentityNotFound)
	req.ErrorIs(repo.SetPresence("ghost@example.com", true, "conn"), apperrors.ErrIdentityNotFound)
}

func TestUserRepository_SetPresence(t *testing.T) {
	req := require.New(t)
	repo := NewUserRepository(openTestDB(t))
	req.NoError(repo.Create(newIdentity("alice@example.com", "alice")))

	req.NoError(repo.SetPresence("alice@example.com", true, "conn-1"))
	online, err := repo.GetByEmail("alice@example.com")
	req.NoError(err)
	req.True(online.Online)
	req.Equal("conn-1", online.ConnectionID)

	req.NoError(repo.SetPresence("alice@example.com", false, ""))
	offline, err := repo.GetByEmail("alice@example.com")
	req.NoError(err)
	req.False(offline.Online)
	req.Empty(offline.ConnectionID)
}

func TestMemoryUserRepository_Same_Contract(t *testing.T) {
	req := require.New(t)
	repo := NewMemoryUserRepository()
	alice := newIdentity("alice@example.com", "alice")

	req.NoError(repo.Create(alice))
	req.ErrorIs(repo.Create(newIdentity("other@example.com", "alice")), apperrors.ErrUsernameTaken)

	byName, err := repo.GetByUsername("alice")
	req.NoError(err)
	req.Equal(alice, byName)

	req.NoError(repo.SetPresence("alice@example.com", true, "conn-1"))
	online, err := repo.GetByEmail("alice@example.com")
	req.NoError(err)
	req.True(online.Online)

	_, err = repo.GetByEmail("ghost@example.com")
	req.ErrorIs(err, apperrors.ErrIdentityNotFound)
}
