// Package domain contains core concepts of the direct messaging system.
// This file defines Message values and the conversation pair key.
// Messages are immutable once persisted.
package domain

import "time"

// MessageID is assigned by the store at persist time and grows monotonically.
type MessageID uint64

// Message represents an immutable point-to-point message.
type Message struct {
	ID        MessageID
	Sender    UserRef
	Recipient UserRef
	Content   string
	CreatedAt time.Time
}

// Involves reports whether userID is the sender or the recipient.
func (m Message) Involves(userID string) bool {
	return m.Sender.ID == userID || m.Recipient.ID == userID
}

// Counterpart returns the participant that is not viewer.
// The boolean is false when viewer takes no part in the message.
func (m Message) Counterpart(viewer string) (string, bool) {
	switch viewer {
	case m.Sender.ID:
		return m.Recipient.ID, true
	case m.Recipient.ID:
		return m.Sender.ID, true
	default:
		return "", false
	}
}

// Before orders messages by creation time, then by id.
func (m Message) Before(other Message) bool {
	if !m.CreatedAt.Equal(other.CreatedAt) {
		return m.CreatedAt.Before(other.CreatedAt)
	}
	return m.ID < other.ID
}

// Key returns the conversation the message belongs to.
func (m Message) Key() PairKey {
	return NewPairKey(m.Sender.ID, m.Recipient.ID)
}

// PairKey identifies a conversation as an unordered pair of user ids.
// A->B and B->A map to the same key.
type PairKey struct {
	Low  string
	High string
}

func NewPairKey(a, b string) PairKey {
	if a > b {
		a, b = b, a
	}
	return PairKey{Low: a, High: b}
}
