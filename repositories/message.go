//go:generate go run go.uber.org/mock/mockgen -source=message.go -destination=../mocks/mock_message_repository.go -package=mocks
package repositories

import (
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/fxamacker/cbor/v2"
	"github.com/google/uuid"

	"github.com/rautela2003/realtime-chat-app/domain"
)

type IMessageRepository interface {
	// Append records a message. Messages are immutable; there is no
	// update or delete.
	Append(message domain.Message) error
	// Latest returns the most recent messages, oldest first. The limit
	// is capped at domain.HistoryLimit on every backend.
	Latest(limit int) ([]domain.Message, error)
}

// MessageRepository is the durable append-only log in BadgerDB.
// The key is formatted as "msg:{timestamp_padded}:{uuid}" to:
//  1. Sort messages chronologically using 19-digit zero padding.
//  2. Disambiguate two messages written in the same nanosecond by UUID.
//
// Reads are capped at domain.HistoryLimit regardless of stored volume;
// there is no pagination.
type MessageRepository struct {
	db *badger.DB
}

func NewMessageRepository(db *badger.DB) *MessageRepository {
	return &MessageRepository{db: db}
}

type messageRecord struct {
	ID        string `cbor:"id"`
	Username  string `cbor:"username"`
	Text      string `cbor:"text"`
	Room      string `cbor:"room"`
	CreatedAt int64  `cbor:"created_at"`
}

func messageKey(m domain.Message) []byte {
	return []byte(fmt.Sprintf("msg:%019d:%s", m.CreatedAt.UnixNano(), m.ID))
}

func (r *MessageRepository) Append(message domain.Message) error {
	data, err := cbor.Marshal(fromMessage(message))
	if err != nil {
		return err
	}
	return r.db.Update(func(txn *badger.Txn) error {
		return txn.Set(messageKey(message), data)
	})
}

func (r *MessageRepository) Latest(limit int) ([]domain.Message, error) {
	if limit <= 0 || limit > domain.HistoryLimit {
		limit = domain.HistoryLimit
	}

	var raw [][]byte
	err := r.db.View(func(txn *badger.Txn) error {
		prefix := []byte("msg:")
		options := badger.DefaultIteratorOptions
		options.Reverse = true
		it := txn.NewIterator(options)
		defer it.Close()

		// Newest first while scanning, reversed below for replay order.
		it.Seek(append(prefix, []byte("9999999999999999999")...))
		for ; it.ValidForPrefix(prefix) && len(raw) < limit; it.Next() {
			if err := it.Item().Value(func(value []byte) error {
				raw = append(raw, append([]byte(nil), value...))
				return nil
			}); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	messages := make([]domain.Message, 0, len(raw))
	for i := len(raw) - 1; i >= 0; i-- {
		var record messageRecord
		if err := cbor.Unmarshal(raw[i], &record); err != nil {
			return nil, err
		}
		message, err := toMessage(record)
		if err != nil {
			return nil, err
		}
		messages = append(messages, message)
	}
	return messages, nil
}

func fromMessage(m domain.Message) messageRecord {
	return messageRecord{
		ID:        m.ID.String(),
		Username:  m.Username,
		Text:      m.Text,
		Room:      string(m.Room),
		CreatedAt: m.CreatedAt.UnixNano(),
	}
}

func toMessage(record messageRecord) (domain.Message, error) {
	parsedID, err := uuid.Parse(record.ID)
	if err != nil {
		return domain.Message{}, err
	}
	return domain.Message{
		ID:        parsedID,
		Username:  record.Username,
		Text:      record.Text,
		Room:      domain.RoomID(record.Room),
		CreatedAt: time.Unix(0, record.CreatedAt).UTC(),
	}, nil
}
