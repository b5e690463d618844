//go:generate go run go.uber.org/mock/mockgen -source=user.go -destination=../mocks/mock_user_repository.go -package=mocks
package repositories

import (
	"errors"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/fxamacker/cbor/v2"
	"github.com/google/uuid"

	"github.com/rautela2003/realtime-chat-app/domain"
	apperrors "github.com/rautela2003/realtime-chat-app/errors"
)

type IUserRepository interface {
	// Create persists a new identity. Email and username are unique
	// keys; a username collision returns ErrUsernameTaken.
	Create(identity domain.Identity) error
	GetByEmail(email string) (domain.Identity, error)
	GetByUsername(username string) (domain.Identity, error)
	// SetPresence flips the online flag and the last-known-connection
	// reference on connect/disconnect.
	SetPresence(email string, online bool, connectionID string) error
}

// UserRepository persists identities in BadgerDB under two keys:
// "user:email:{email}" holds the record, "user:name:{username}" is a
// uniqueness index mapping back to the email.
type UserRepository struct {
	db *badger.DB
}

func NewUserRepository(db *badger.DB) *UserRepository {
	return &UserRepository{db: db}
}

type userRecord struct {
	ID           string `cbor:"id"`
	Email        string `cbor:"email"`
	Username     string `cbor:"username"`
	Online       bool   `cbor:"online"`
	ConnectionID string `cbor:"connection_id"`
	CreatedAt    int64  `cbor:"created_at"`
}

func userEmailKey(email string) []byte   { return []byte("user:email:" + email) }
func userNameKey(username string) []byte { return []byte("user:name:" + username) }

func (r *UserRepository) Create(identity domain.Identity) error {
	data, err := cbor.Marshal(fromIdentity(identity))
	if err != nil {
		return err
	}
	return r.db.Update(func(txn *badger.Txn) error {
		if _, err := txn.Get(userNameKey(identity.Username)); err == nil {
			return apperrors.ErrUsernameTaken
		}
		if err := txn.Set(userEmailKey(identity.Email), data); err != nil {
			return err
		}
		return txn.Set(userNameKey(identity.Username), []byte(identity.Email))
	})
}

func (r *UserRepository) GetByEmail(email string) (domain.Identity, error) {
	var record userRecord
	err := r.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(userEmailKey(email))
		if err != nil {
			return err
		}
		return item.Value(func(value []byte) error {
			return cbor.Unmarshal(value, &record)
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return domain.Identity{}, apperrors.ErrIdentityNotFound
	}
	if err != nil {
		return domain.Identity{}, err
	}
	return toIdentity(record)
}

func (r *UserRepository) GetByUsername(username string) (domain.Identity, error) {
	var email string
	err := r.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(userNameKey(username))
		if err != nil {
			return err
		}
		return item.Value(func(value []byte) error {
			email = string(value)
			return nil
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return domain.Identity{}, apperrors.ErrIdentityNotFound
	}
	if err != nil {
		return domain.Identity{}, err
	}
	return r.GetByEmail(email)
}

func (r *UserRepository) SetPresence(email string, online bool, connectionID string) error {
	key := userEmailKey(email)
	err := r.db.Update(func(txn *badger.Txn) error {
		item, err := txn.Get(key)
		if err != nil {
			return err
		}
		var record userRecord
		if err = item.Value(func(value []byte) error {
			return cbor.Unmarshal(value, &record)
		}); err != nil {
			return err
		}
		record.Online = online
		record.ConnectionID = connectionID
		data, err := cbor.Marshal(record)
		if err != nil {
			return err
		}
		return txn.Set(key, data)
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return apperrors.ErrIdentityNotFound
	}
	return err
}

func fromIdentity(identity domain.Identity) userRecord {
	return userRecord{
		ID:           identity.ID.String(),
		Email:        identity.Email,
		Username:     identity.Username,
		Online:       identity.Online,
		ConnectionID: identity.ConnectionID,
		CreatedAt:    identity.CreatedAt.Unix(),
	}
}

func toIdentity(record userRecord) (domain.Identity, error) {
	parsedID, err := uuid.Parse(record.ID)
	if err != nil {
		return domain.Identity{}, err
	}
	return domain.Identity{
		ID:           parsedID,
		Email:        record.Email,
		Username:     record.Username,
		Online:       record.Online,
		ConnectionID: record.ConnectionID,
		CreatedAt:    time.Unix(record.CreatedAt, 0).UTC(),
	}, nil
}
