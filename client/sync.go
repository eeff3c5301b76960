package client

import (
	"context"
	"dm-lab/domain"
	"log/slog"
	"slices"
	"sync"
)

// ActiveConversation is the transcript currently shown to the user.
// Loaded stays false until the first pull for this counterpart succeeded.
type ActiveConversation struct {
	Counterpart string
	Messages    []domain.Message
	Loaded      bool
}

// SyncController keeps the signed-in user's view of the conversation list
// and of at most one open transcript. Nothing is pushed: state only changes
// when the presentation layer calls one of the pull operations.
//
// A pulled result replaces the local snapshot whole, and only when the call
// was not cancelled and no newer pull of the same kind started meanwhile.
// Messages sent to the active counterpart stay visible until a pull has
// returned them.
type SyncController struct {
	api             MessagingAPI
	log             *slog.Logger
	transcriptLimit int

	mu            sync.Mutex
	conversations []domain.Conversation
	active        *ActiveConversation
	sent          []domain.Message
	listGen       uint64
	transcriptGen uint64
}

func NewSyncController(log *slog.Logger, api MessagingAPI, transcriptLimit int) *SyncController {
	return &SyncController{api: api, log: log, transcriptLimit: transcriptLimit}
}

// RefreshConversations re-pulls the conversation list.
func (c *SyncController) RefreshConversations(ctx context.Context) error {
	c.mu.Lock()
	c.listGen++
	gen := c.listGen
	c.mu.Unlock()

	conversations, err := c.api.Conversations(ctx)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return err
	}
	if gen != c.listGen {
		c.log.Debug("Discarding superseded conversation list", "generation", gen)
		return nil
	}
	c.conversations = conversations
	return nil
}

// OpenConversation makes counterpart the active conversation and pulls its
// transcript. The previous transcript is dropped right away.
func (c *SyncController) OpenConversation(ctx context.Context, counterpart string) error {
	c.mu.Lock()
	c.active = &ActiveConversation{Counterpart: counterpart}
	c.sent = nil
	c.mu.Unlock()
	return c.RefreshActive(ctx)
}

// RefreshActive re-pulls the transcript of the active conversation, if any.
func (c *SyncController) RefreshActive(ctx context.Context) error {
	c.mu.Lock()
	if c.active == nil {
		c.mu.Unlock()
		return nil
	}
	c.transcriptGen++
	gen := c.transcriptGen
	counterpart := c.active.Counterpart
	c.mu.Unlock()

	messages, err := c.api.Transcript(ctx, counterpart, c.transcriptLimit)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return err
	}
	if gen != c.transcriptGen || c.active == nil || c.active.Counterpart != counterpart {
		c.log.Debug("Discarding superseded transcript", "counterpart", counterpart, "generation", gen)
		return nil
	}
	c.active.Messages, c.sent = withUnseen(messages, c.sent)
	c.active.Loaded = true
	return nil
}

// withUnseen appends the sent messages missing from pulled and returns
// those still missing.
func withUnseen(pulled, sent []domain.Message) ([]domain.Message, []domain.Message) {
	var unseen []domain.Message
	for _, m := range sent {
		if !containsMessage(pulled, m.ID) {
			unseen = append(unseen, m)
		}
	}
	if len(unseen) == 0 {
		return pulled, nil
	}
	return append(slices.Clone(pulled), unseen...), unseen
}

func containsMessage(messages []domain.Message, id domain.MessageID) bool {
	return slices.ContainsFunc(messages, func(m domain.Message) bool { return m.ID == id })
}

// CloseConversation forgets the active transcript. Pulls still in flight
// for it are discarded when they complete.
func (c *SyncController) CloseConversation() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.active = nil
	c.sent = nil
	c.transcriptGen++
}

// Send dispatches a message and returns it as stored. The message shows up
// in the active transcript when it belongs to it, then the conversation
// list is refreshed. A failed refresh does not fail the send.
func (c *SyncController) Send(ctx context.Context, counterpart, content string) (domain.Message, error) {
	message, err := c.api.Send(ctx, counterpart, content)
	if err != nil {
		return domain.Message{}, err
	}

	c.mu.Lock()
	if c.active != nil && c.active.Counterpart == counterpart {
		if !containsMessage(c.active.Messages, message.ID) {
			c.active.Messages = append(c.active.Messages, message)
		}
		// A transcript pull started before the send may not contain it.
		c.sent = append(c.sent, message)
	}
	c.mu.Unlock()

	if err := c.RefreshConversations(ctx); err != nil {
		c.log.Warn("Conversation refresh after send failed", "counterpart", counterpart, "error", err)
	}
	return message, nil
}

func (c *SyncController) Conversations() []domain.Conversation {
	c.mu.Lock()
	defer c.mu.Unlock()
	return slices.Clone(c.conversations)
}

// Active returns a copy of the active conversation, false when none is open.
func (c *SyncController) Active() (ActiveConversation, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.active == nil {
		return ActiveConversation{}, false
	}
	active := *c.active
	active.Messages = slices.Clone(active.Messages)
	return active, true
}
