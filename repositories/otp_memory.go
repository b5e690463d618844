package repositories

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/rautela2003/realtime-chat-app/domain"
	apperrors "github.com/rautela2003/realtime-chat-app/errors"
)

// MemoryOtpRepository is the volatile challenge store used when the
// durable backend is absent or degraded. Same contract as the Badger
// implementation, process lifetime only.
type MemoryOtpRepository struct {
	mu         sync.Mutex
	challenges map[string][]domain.OtpChallenge // email -> oldest first
}

func NewMemoryOtpRepository() *MemoryOtpRepository {
	return &MemoryOtpRepository{challenges: make(map[string][]domain.OtpChallenge)}
}

func (r *MemoryOtpRepository) Put(challenge domain.OtpChallenge) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.challenges[challenge.Email] = append(r.pruned(challenge.Email), challenge)
	return nil
}

func (r *MemoryOtpRepository) Current(email string) (domain.OtpChallenge, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	list := r.challenges[email]
	if len(list) == 0 {
		return domain.OtpChallenge{}, apperrors.ErrChallengeNotFound
	}
	return list[len(list)-1], nil
}

func (r *MemoryOtpRepository) CountRecent(email string, window time.Duration) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	cutoff := time.Now().Add(-window)
	count := 0
	for _, c := range r.challenges[email] {
		if c.CreatedAt.After(cutoff) {
			count++
		}
	}
	return count, nil
}

func (r *MemoryOtpRepository) IncrementAttempts(challenge domain.OtpChallenge) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	list := r.challenges[challenge.Email]
	for i := range list {
		if list[i].ID == challenge.ID {
			list[i].Attempts++
			return nil
		}
	}
	return apperrors.ErrChallengeNotFound
}

func (r *MemoryOtpRepository) Delete(challenge domain.OtpChallenge) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	list := r.challenges[challenge.Email]
	for i := range list {
		if list[i].ID == challenge.ID {
			r.challenges[challenge.Email] = append(list[:i], list[i+1:]...)
			return nil
		}
	}
	return nil
}

// pruned drops challenges older than the rate window, mirroring the
// Badger TTL so the map does not grow without bound.
func (r *MemoryOtpRepository) pruned(email string) []domain.OtpChallenge {
	cutoff := time.Now().Add(-domain.OtpRequestWindow)
	kept := r.challenges[email][:0]
	for _, c := range r.challenges[email] {
		if c.CreatedAt.After(cutoff) {
			kept = append(kept, c)
		}
	}
	return kept
}

// seed is a test hook to install a challenge with a chosen CreatedAt.
func (r *MemoryOtpRepository) seed(email string, createdAt time.Time, hash string) domain.OtpChallenge {
	c := domain.OtpChallenge{ID: uuid.New(), Email: email, CodeHash: hash, CreatedAt: createdAt}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.challenges[email] = append(r.challenges[email], c)
	return c
}
