// Package payload holds the JSON shapes exchanged over the HTTP API together
// with their mapping from and to domain values. Both the server and the
// terminal client speak these types.
package payload

import (
	"dm-lab/domain"
	"dm-lab/errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/samber/lo"
)

var validate = validator.New()

// SendRequest carries a new message. Only the key separator is refused here:
// empty fields are left to the dispatcher so rejections keep its order and reason.
type SendRequest struct {
	RecipientID string `json:"recipientId" validate:"excludes=:"`
	Content     string `json:"content"`
}

type ProfileRequest struct {
	Name      string `json:"name" validate:"required,max=64"`
	AvatarRef string `json:"avatarRef" validate:"omitempty,max=512"`
}

// Validate checks struct tags and reports violations as ErrInvalidRequest.
func Validate(v any) error {
	if err := validate.Struct(v); err != nil {
		return fmt.Errorf("%w: %v", errors.ErrInvalidRequest, err)
	}
	return nil
}

type UserRefResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name,omitempty"`
	AvatarRef string `json:"avatarRef,omitempty"`
}

type MessageResponse struct {
	ID        uint64          `json:"id"`
	Sender    UserRefResponse `json:"sender"`
	Recipient UserRefResponse `json:"recipient"`
	Content   string          `json:"content"`
	CreatedAt time.Time       `json:"createdAt"`
}

type ConversationResponse struct {
	Counterpart   UserRefResponse `json:"counterpart"`
	LastMessage   string          `json:"lastMessage"`
	LastMessageID uint64          `json:"lastMessageId"`
	Timestamp     time.Time       `json:"timestamp"`
}

type UserResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	AvatarRef string    `json:"avatarRef,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// ListResponse wraps collections so the envelope can grow without breaking clients.
type ListResponse[T any] struct {
	Items []T `json:"items"`
}

type ErrorResponse struct {
	Error  string `json:"error"`
	Reason string `json:"reason"`
}

func FromUserRef(ref domain.UserRef) UserRefResponse {
	return UserRefResponse{ID: ref.ID, Name: ref.Name, AvatarRef: ref.AvatarRef}
}

func (r UserRefResponse) ToDomain() domain.UserRef {
	return domain.UserRef{ID: r.ID, Name: r.Name, AvatarRef: r.AvatarRef}
}

func FromMessage(m domain.Message) MessageResponse {
	return MessageResponse{
		ID:        uint64(m.ID),
		Sender:    FromUserRef(m.Sender),
		Recipient: FromUserRef(m.Recipient),
		Content:   m.Content,
		CreatedAt: m.CreatedAt,
	}
}

func (r MessageResponse) ToDomain() domain.Message {
	return domain.Message{
		ID:        domain.MessageID(r.ID),
		Sender:    r.Sender.ToDomain(),
		Recipient: r.Recipient.ToDomain(),
		Content:   r.Content,
		CreatedAt: r.CreatedAt,
	}
}

func FromConversation(c domain.Conversation) ConversationResponse {
	return ConversationResponse{
		Counterpart:   FromUserRef(c.Counterpart),
		LastMessage:   c.LastMessage,
		LastMessageID: uint64(c.LastMessageID),
		Timestamp:     c.Timestamp,
	}
}

func (r ConversationResponse) ToDomain() domain.Conversation {
	return domain.Conversation{
		Counterpart:   r.Counterpart.ToDomain(),
		LastMessage:   r.LastMessage,
		LastMessageID: domain.MessageID(r.LastMessageID),
		Timestamp:     r.Timestamp,
	}
}

func FromUser(u domain.User) UserResponse {
	return UserResponse{ID: u.ID, Name: u.Name, AvatarRef: u.AvatarRef, CreatedAt: u.CreatedAt}
}

func ToMessageList(messages []domain.Message) ListResponse[MessageResponse] {
	return ListResponse[MessageResponse]{Items: lo.Map(messages, func(m domain.Message, _ int) MessageResponse {
		return FromMessage(m)
	})}
}

func ToConversationList(conversations []domain.Conversation) ListResponse[ConversationResponse] {
	return ListResponse[ConversationResponse]{Items: lo.Map(conversations, func(c domain.Conversation, _ int) ConversationResponse {
		return FromConversation(c)
	})}
}
