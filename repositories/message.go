//go:generate go run go.uber.org/mock/mockgen -source=message.go -destination=../mocks/mock_message_repository.go -package=mocks
package repositories

import (
	"context"
	"dm-lab/domain"
	"dm-lab/errors"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/dgraph-io/badger/v4"
)

type IMessageRepository interface {
	Append(ctx context.Context, senderID, recipientID, content string) (domain.Message, error)
	RangeBetween(ctx context.Context, userA, userB string) ([]domain.Message, error)
	AllInvolving(ctx context.Context, userID string) ([]domain.Message, error)
	Count(ctx context.Context, userID string) (int, error)
}

type MessageRepository struct {
	db               *badger.DB
	log              *slog.Logger
	seq              *badger.Sequence
	maxContentLength int
	// Serialises id and timestamp assignment so both grow together.
	mu sync.Mutex
}

func NewMessageRepository(db *badger.DB, log *slog.Logger, maxContentLength int) (*MessageRepository, error) {
	seq, err := db.GetSequence([]byte(messageSequence), sequenceBandwidth)
	if err != nil {
		return nil, fmt.Errorf("message sequence: %w", err)
	}
	return &MessageRepository{db: db, log: log, seq: seq, maxContentLength: maxContentLength}, nil
}

// Close returns the unused part of the sequence lease.
func (m *MessageRepository) Close() error {
	return m.seq.Release()
}

// StoredMessage is the on-disk representation of a message.
// Only participant ids are persisted, profiles are resolved when reading.
type StoredMessage struct {
	ID          uint64 `json:"id"`
	SenderID    string `json:"sender_id"`
	RecipientID string `json:"recipient_id"`
	Content     string `json:"content"`
	At          int64  `json:"at"`
}

// Append persists a message under the pair index and both inboxes in a
// single transaction. Either every key is written or none is.
func (m *MessageRepository) Append(ctx context.Context, senderID, recipientID, content string) (domain.Message, error) {
	if err := ctx.Err(); err != nil {
		return domain.Message{}, err
	}
	if err := m.validate(senderID, recipientID, content); err != nil {
		return domain.Message{}, err
	}

	m.mu.Lock()
	next, err := m.seq.Next()
	at := time.Now().UTC()
	m.mu.Unlock()
	if err != nil {
		return domain.Message{}, unavailable(err)
	}

	stored := StoredMessage{
		ID:          next + 1, // badger sequences start at 0
		SenderID:    senderID,
		RecipientID: recipientID,
		Content:     content,
		At:          at.UnixNano(),
	}
	bytes, err := json.Marshal(stored)
	if err != nil {
		return domain.Message{}, err
	}
	message := toMessage(stored)

	err = m.db.Update(func(txn *badger.Txn) error {
		for _, id := range []string{senderID, recipientID} {
			if _, err := txn.Get(userKey(id)); err != nil {
				if stderrors.Is(err, badger.ErrKeyNotFound) {
					return fmt.Errorf("%w: %s", errors.ErrUnknownUser, id)
				}
				return err
			}
		}
		keys := [][]byte{
			pairKeyFor(message.Key(), message.ID),
			inboxKeyFor(senderID, message.ID),
			inboxKeyFor(recipientID, message.ID),
		}
		for _, key := range keys {
			if err := txn.Set(key, bytes); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		if errors.IsIdentity(err) {
			return domain.Message{}, err
		}
		return domain.Message{}, unavailable(err)
	}
	m.log.Debug("Message appended", "id", message.ID, "sender", senderID, "recipient", recipientID)
	return message, nil
}

func (m *MessageRepository) validate(senderID, recipientID, content string) error {
	if strings.TrimSpace(content) == "" {
		return errors.ErrEmptyContent
	}
	if m.maxContentLength > 0 && utf8.RuneCountInString(content) > m.maxContentLength {
		return errors.ErrContentTooLong
	}
	if err := validUserIDs(senderID, recipientID); err != nil {
		return err
	}
	if senderID == recipientID {
		return errors.ErrSelfMessage
	}
	return nil
}

// RangeBetween returns the whole conversation between two users ordered by
// (createdAt, id) ascending. The pair index is already keyed by id, the
// final sort only matters if the clock went backwards between two appends.
func (m *MessageRepository) RangeBetween(ctx context.Context, userA, userB string) ([]domain.Message, error) {
	if err := validUserIDs(userA, userB); err != nil {
		return nil, err
	}
	messages, err := m.scan(ctx, pairPrefixFor(domain.NewPairKey(userA, userB)))
	if err != nil {
		return nil, err
	}
	slices.SortStableFunc(messages, compareMessages)
	return messages, nil
}

// AllInvolving returns every message sent or received by userID, in no
// particular order.
func (m *MessageRepository) AllInvolving(ctx context.Context, userID string) ([]domain.Message, error) {
	if err := validUserID(userID); err != nil {
		return nil, err
	}
	return m.scan(ctx, inboxPrefixFor(userID))
}

func (m *MessageRepository) Count(ctx context.Context, userID string) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if err := validUserID(userID); err != nil {
		return 0, err
	}
	count := 0
	prefix := inboxPrefixFor(userID)
	err := m.db.View(func(txn *badger.Txn) error {
		options := badger.DefaultIteratorOptions
		options.PrefetchValues = false
		it := txn.NewIterator(options)
		defer it.Close()
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			count++
		}
		return nil
	})
	if err != nil {
		return 0, unavailable(err)
	}
	return count, nil
}

func (m *MessageRepository) scan(ctx context.Context, prefix []byte) ([]domain.Message, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	messages := make([]domain.Message, 0)
	err := m.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			var stored StoredMessage
			err := it.Item().Value(func(value []byte) error {
				return json.Unmarshal(value, &stored)
			})
			if err != nil {
				return err
			}
			messages = append(messages, toMessage(stored))
		}
		return nil
	})
	if err != nil {
		return nil, unavailable(err)
	}
	return messages, nil
}

func compareMessages(a, b domain.Message) int {
	switch {
	case a.Before(b):
		return -1
	case b.Before(a):
		return 1
	default:
		return 0
	}
}

func toMessage(stored StoredMessage) domain.Message {
	return domain.Message{
		ID:        domain.MessageID(stored.ID),
		Sender:    domain.UserRef{ID: stored.SenderID},
		Recipient: domain.UserRef{ID: stored.RecipientID},
		Content:   stored.Content,
		CreatedAt: time.Unix(0, stored.At).UTC(),
	}
}
