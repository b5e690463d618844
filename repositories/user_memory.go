package repositories

import (
	"sync"

	"github.com/rautela2003/realtime-chat-app/domain"
	apperrors "github.com/rautela2003/realtime-chat-app/errors"
)

// MemoryUserRepository is the volatile identity store.
type MemoryUserRepository struct {
	mu      sync.Mutex
	byEmail map[string]domain.Identity
	byName  map[string]string // username -> email
}

func NewMemoryUserRepository() *MemoryUserRepository {
	return &MemoryUserRepository{
		byEmail: make(map[string]domain.Identity),
		byName:  make(map[string]string),
	}
}

func (r *MemoryUserRepository) Create(identity domain.Identity) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, taken := r.byName[identity.Username]; taken {
		return apperrors.ErrUsernameTaken
	}
	r.byEmail[identity.Email] = identity
	r.byName[identity.Username] = identity.Email
	return nil
}

func (r *MemoryUserRepository) GetByEmail(email string) (domain.Identity, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	identity, ok := r.byEmail[email]
	if !ok {
		return domain.Identity{}, apperrors.ErrIdentityNotFound
	}
	return identity, nil
}

func (r *MemoryUserRepository) GetByUsername(username string) (domain.Identity, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	email, ok := r.byName[username]
	if !ok {
		return domain.Identity{}, apperrors.ErrIdentityNotFound
	}
	return r.byEmail[email], nil
}

func (r *MemoryUserRepository) SetPresence(email string, online bool, connectionID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	identity, ok := r.byEmail[email]
	if !ok {
		return apperrors.ErrIdentityNotFound
	}
	identity.Online = online
	identity.ConnectionID = connectionID
	r.byEmail[email] = identity
	return nil
}
