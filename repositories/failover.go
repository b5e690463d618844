package repositories

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/rautela2003/realtime-chat-app/domain"
	apperrors "github.com/rautela2003/realtime-chat-app/errors"
)

// Health is the shared "backend healthy" signal that selects between
// the durable and the volatile backend. The first durable fault trips
// it; from then on every store serves from its volatile side. Business
// logic never branches on backend identity, only the wrappers do.
type Health struct {
	mu      sync.RWMutex
	healthy bool
	log     *slog.Logger
}

func NewHealth(log *slog.Logger) *Health {
	return &Health{healthy: true, log: log}
}

func (h *Health) Healthy() bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.healthy
}

// Trip marks the durable backend unusable. A persistence fault must not
// crash the service or propagate to callers.
func (h *Health) Trip(err error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.healthy {
		h.log.Warn("Durable backend failed, degrading to volatile store",
			"error", fmt.Errorf("%w: %v", apperrors.ErrPersistence, err))
	}
	h.healthy = false
}

// failover runs the primary call while the backend is healthy, trips
// the signal on a fault, and degrades to the fallback.
func failover[T any](h *Health, primary, fallback func() (T, error)) (T, error) {
	if h.Healthy() {
		v, err := primary()
		if err == nil {
			return v, nil
		}
		h.Trip(err)
	}
	return fallback()
}

type FailoverOtpRepository struct {
	primary  IOtpRepository
	fallback IOtpRepository
	health   *Health
}

func NewFailoverOtpRepository(primary, fallback IOtpRepository, health *Health) *FailoverOtpRepository {
	return &FailoverOtpRepository{primary: primary, fallback: fallback, health: health}
}

func (r *FailoverOtpRepository) Put(c domain.OtpChallenge) error {
	_, err := failover(r.health,
		func() (struct{}, error) { return struct{}{}, r.primary.Put(c) },
		func() (struct{}, error) { return struct{}{}, r.fallback.Put(c) })
	return err
}

func (r *FailoverOtpRepository) Current(email string) (domain.OtpChallenge, error) {
	if r.health.Healthy() {
		c, err := r.primary.Current(email)
		if err == nil || err == apperrors.ErrChallengeNotFound {
			return c, err
		}
		r.health.Trip(err)
	}
	return r.fallback.Current(email)
}

func (r *FailoverOtpRepository) CountRecent(email string, window time.Duration) (int, error) {
	return failover(r.health,
		func() (int, error) { return r.primary.CountRecent(email, window) },
		func() (int, error) { return r.fallback.CountRecent(email, window) })
}

func (r *FailoverOtpRepository) IncrementAttempts(c domain.OtpChallenge) error {
	_, err := failover(r.health,
		func() (struct{}, error) { return struct{}{}, r.primary.IncrementAttempts(c) },
		func() (struct{}, error) { return struct{}{}, r.fallback.IncrementAttempts(c) })
	return err
}

func (r *FailoverOtpRepository) Delete(c domain.OtpChallenge) error {
	_, err := failover(r.health,
		func() (struct{}, error) { return struct{}{}, r.primary.Delete(c) },
		func() (struct{}, error) { return struct{}{}, r.fallback.Delete(c) })
	return err
}

type FailoverUserRepository struct {
	primary  IUserRepository
	fallback IUserRepository
	health   *Health
}

func NewFailoverUserRepository(primary, fallback IUserRepository, health *Health) *FailoverUserRepository {
	return &FailoverUserRepository{primary: primary, fallback: fallback, health: health}
}

func (r *FailoverUserRepository) Create(identity domain.Identity) error {
	if r.health.Healthy() {
		err := r.primary.Create(identity)
		if err == nil || err == apperrors.ErrUsernameTaken {
			return err
		}
		r.health.Trip(err)
	}
	return r.fallback.Create(identity)
}

func (r *FailoverUserRepository) GetByEmail(email string) (domain.Identity, error) {
	if r.health.Healthy() {
		identity, err := r.primary.GetByEmail(email)
		if err == nil || err == apperrors.ErrIdentityNotFound {
			return identity, err
		}
		r.health.Trip(err)
	}
	return r.fallback.GetByEmail(email)
}

func (r *FailoverUserRepository) GetByUsername(username string) (domain.Identity, error) {
	if r.health.Healthy() {
		identity, err := r.primary.GetByUsername(username)
		if err == nil || err == apperrors.ErrIdentityNotFound {
			return identity, err
		}
		r.health.Trip(err)
	}
	return r.fallback.GetByUsername(username)
}

func (r *FailoverUserRepository) SetPresence(email string, online bool, connectionID string) error {
	if r.health.Healthy() {
		err := r.primary.SetPresence(email, online, connectionID)
		if err == nil || err == apperrors.ErrIdentityNotFound {
			return err
		}
		r.health.Trip(err)
	}
	return r.fallback.SetPresence(email, online, connectionID)
}

type FailoverMessageRepository struct {
	primary  IMessageRepository
	fallback IMessageRepository
	health   *Health
}

func NewFailoverMessageRepository(primary, fallback IMessageRepository, health *Health) *FailoverMessageRepository {
	return &FailoverMessageRepository{primary: primary, fallback: fallback, health: health}
}

func (r *FailoverMessageRepository) Append(message domain.Message) error {
	_, err := failover(r.health,
		func() (struct{}, error) { return struct{}{}, r.primary.Append(message) },
		func() (struct{}, error) { return struct{}{}, r.fallback.Append(message) })
	return err
}

func (r *FailoverMessageRepository) Latest(limit int) ([]domain.Message, error) {
	return failover(r.health,
		func() ([]domain.Message, error) { return r.primary.Latest(limit) },
		func() ([]domain.Message, error) { return r.fallback.Latest(limit) })
}
