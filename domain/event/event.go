package event

import (
	"dm-lab/domain"
	"time"

	"github.com/google/uuid"
)

const MessageSentType = "message.created"

type DomainEvent interface {
	Name() string
	OccurredAt() time.Time
}

// MessageSent is emitted once a message has been durably appended.
// It only carries ids: consumers resolve profiles on their own.
type MessageSent struct {
	ID          uuid.UUID
	MessageID   domain.MessageID
	SenderID    string
	RecipientID string
	Content     string
	At          time.Time
}

func NewMessageSent(message domain.Message) MessageSent {
	return MessageSent{
		ID:          uuid.New(),
		MessageID:   message.ID,
		SenderID:    message.Sender.ID,
		RecipientID: message.Recipient.ID,
		Content:     message.Content,
		At:          message.CreatedAt,
	}
}

func (m MessageSent) Name() string { return MessageSentType }

func (m MessageSent) OccurredAt() time.Time { return m.At }

// ConversationKey is used as partition key so both directions of a
// conversation land in the same partition.
func (m MessageSent) ConversationKey() string {
	key := domain.NewPairKey(m.SenderID, m.RecipientID)
	return key.Low + ":" + key.High
}
