//go:generate go run go.uber.org/mock/mockgen -source=otp.go -destination=../mocks/mock_otp_repository.go -package=mocks
package repositories

import (
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/fxamacker/cbor/v2"
	"github.com/google/uuid"

	"github.com/rautela2003/realtime-chat-app/domain"
	apperrors "github.com/rautela2003/realtime-chat-app/errors"
)

type IOtpRepository interface {
	// Put records a fresh challenge. Earlier challenges for the same
	// email are kept (they still count toward rate limiting) but only
	// the newest one is retrievable as current.
	Put(challenge domain.OtpChallenge) error
	// Current returns the newest challenge for the email, or
	// ErrChallengeNotFound.
	Current(email string) (domain.OtpChallenge, error)
	// CountRecent counts challenges created within the trailing window.
	CountRecent(email string, window time.Duration) (int, error)
	IncrementAttempts(challenge domain.OtpChallenge) error
	// Delete removes a consumed challenge (single-use on success).
	Delete(challenge domain.OtpChallenge) error
}

// OtpRepository persists challenges in BadgerDB.
// The key is formatted as "otp:{email}:{timestamp_padded}:{uuid}" to:
//  1. Keep every challenge of one email under a single prefix.
//  2. Sort challenges chronologically via 19-digit zero padding, so the
//     newest challenge is the first hit of a reverse scan and the rate
//     window reduces to a seek.
//
// Entries carry a Badger TTL of the rate-limit window: once a challenge
// no longer counts toward the window it has no reason to exist.
type OtpRepository struct {
	db *badger.DB
}

func NewOtpRepository(db *badger.DB) *OtpRepository {
	return &OtpRepository{db: db}
}

type otpRecord struct {
	ID        string `cbor:"id"`
	Email     string `cbor:"email"`
	CodeHash  string `cbor:"code_hash"`
	Attempts  int    `cbor:"attempts"`
	CreatedAt int64  `cbor:"created_at"`
}

func otpKey(c domain.OtpChallenge) []byte {
	return []byte(fmt.Sprintf("otp:%s:%019d:%s", c.Email, c.CreatedAt.UnixNano(), c.ID))
}

func otpPrefix(email string) []byte {
	return []byte(fmt.Sprintf("otp:%s:", email))
}

func (r *OtpRepository) Put(challenge domain.OtpChallenge) error {
	data, err := cbor.Marshal(fromChallenge(challenge))
	if err != nil {
		return err
	}
	return r.db.Update(func(txn *badger.Txn) error {
		entry := badger.NewEntry(otpKey(challenge), data).WithTTL(domain.OtpRequestWindow)
		return txn.SetEntry(entry)
	})
}

func (r *OtpRepository) Current(email string) (domain.OtpChallenge, error) {
	var record otpRecord
	err := r.db.View(func(txn *badger.Txn) error {
		prefix := otpPrefix(email)
		options := badger.DefaultIteratorOptions
		options.Reverse = true
		it := txn.NewIterator(options)
		defer it.Close()

		// Reverse seek from past the newest possible timestamp lands on
		// the most recent real entry.
		it.Seek(append(prefix, []byte("9999999999999999999")...))
		if !it.ValidForPrefix(prefix) {
			return apperrors.ErrChallengeNotFound
		}
		return it.Item().Value(func(value []byte) error {
			return cbor.Unmarshal(value, &record)
		})
	})
	if err != nil {
		return domain.OtpChallenge{}, err
	}
	return toChallenge(record)
}

func (r *OtpRepository) CountRecent(email string, window time.Duration) (int, error) {
	count := 0
	err := r.db.View(func(txn *badger.Txn) error {
		prefix := otpPrefix(email)
		cutoff := time.Now().Add(-window)
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		// Keys sort by creation time, so seeking to the cutoff skips
		// everything outside the window without decoding values.
		seekKey := append(prefix, []byte(fmt.Sprintf("%019d", cutoff.UnixNano()))...)
		for it.Seek(seekKey); it.ValidForPrefix(prefix); it.Next() {
			count++
		}
		return nil
	})
	return count, err
}

func (r *OtpRepository) IncrementAttempts(challenge domain.OtpChallenge) error {
	key := otpKey(challenge)
	return r.db.Update(func(txn *badger.Txn) error {
		item, err := txn.Get(key)
		if err != nil {
			return err
		}
		var record otpRecord
		if err = item.Value(func(value []byte) error {
			return cbor.Unmarshal(value, &record)
		}); err != nil {
			return err
		}
		record.Attempts++
		data, err := cbor.Marshal(record)
		if err != nil {
			return err
		}
		return txn.SetEntry(badger.NewEntry(key, data).WithTTL(domain.OtpRequestWindow))
	})
}

func (r *OtpRepository) Delete(challenge domain.OtpChallenge) error {
	return r.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(otpKey(challenge))
	})
}

func fromChallenge(c domain.OtpChallenge) otpRecord {
	return otpRecord{
		ID:        c.ID.String(),
		Email:     c.Email,
		CodeHash:  c.CodeHash,
		Attempts:  c.Attempts,
		CreatedAt: c.CreatedAt.UnixNano(),
	}
}

func toChallenge(record otpRecord) (domain.OtpChallenge, error) {
	parsedID, err := uuid.Parse(record.ID)
	if err != nil {
		return domain.OtpChallenge{}, err
	}
	return domain.OtpChallenge{
		ID:        parsedID,
		Email:     record.Email,
		CodeHash:  record.CodeHash,
		Attempts:  record.Attempts,
		CreatedAt: time.Unix(0, record.CreatedAt).UTC(),
	}, nil
}
