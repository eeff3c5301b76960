package services

import (
	"context"
	"dm-lab/contract"
	"dm-lab/domain"
	"dm-lab/domain/event"
	"dm-lab/errors"
	"dm-lab/observability"
	"dm-lab/projection"
	"dm-lab/repositories"
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/samber/lo"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
)

var tracer = otel.Tracer("dm-lab/services")

type IMessagingService interface {
	Send(ctx context.Context, cmd domain.SendMessageCommand) (domain.Message, error)
	Conversations(ctx context.Context, viewer string) ([]domain.Conversation, error)
	Transcript(ctx context.Context, query domain.TranscriptQuery) ([]domain.Message, error)
}

// MessagingService holds the dispatcher and both read paths. It keeps no
// state between calls: every read is recomputed from the message store.
type MessagingService struct {
	log              *slog.Logger
	messages         repositories.IMessageRepository
	identity         contract.IdentityProvider
	profiles         contract.ProfileLookup
	outbox           chan<- event.DomainEvent
	maxContentLength int
}

// NewMessagingService wires the dispatcher. outbox may be nil when no
// notification channel is configured.
func NewMessagingService(log *slog.Logger, messages repositories.IMessageRepository,
	identity contract.IdentityProvider, profiles contract.ProfileLookup,
	outbox chan<- event.DomainEvent, maxContentLength int) *MessagingService {
	return &MessagingService{
		log:              log,
		messages:         messages,
		identity:         identity,
		profiles:         profiles,
		outbox:           outbox,
		maxContentLength: maxContentLength,
	}
}

// Send validates then persists a message and returns it as stored, with
// store assigned id and timestamp, so callers can display it right away.
func (s *MessagingService) Send(ctx context.Context, cmd domain.SendMessageCommand) (domain.Message, error) {
	ctx, span := tracer.Start(ctx, "MessagingService.Send")
	defer span.End()

	if err := s.validate(ctx, cmd); err != nil {
		observability.SendRejected.WithLabelValues(string(errors.ReasonOf(err))).Inc()
		s.log.Debug("Send rejected", "sender", cmd.SenderID, "recipient", cmd.RecipientID, "error", err)
		return domain.Message{}, err
	}

	message, err := s.messages.Append(ctx, cmd.SenderID, cmd.RecipientID, cmd.Content)
	if err != nil {
		observability.SendRejected.WithLabelValues(string(errors.ReasonOf(err))).Inc()
		return domain.Message{}, err
	}
	span.SetAttributes(attribute.Int64("message.id", int64(message.ID)))
	observability.MessagesSent.Inc()
	s.publish(event.NewMessageSent(message))

	refs, err := s.resolve(ctx, []string{message.Sender.ID, message.Recipient.ID})
	if err != nil {
		// The message is stored: report it with bare ids rather than failing the send.
		s.log.Warn("Profile resolution failed after send", "message_id", message.ID, "error", err)
		return message, nil
	}
	return withRefs(message, refs), nil
}

// validate applies checks in a fixed order, the first failure wins.
func (s *MessagingService) validate(ctx context.Context, cmd domain.SendMessageCommand) error {
	if strings.TrimSpace(cmd.Content) == "" {
		return errors.ErrEmptyContent
	}
	if s.maxContentLength > 0 && utf8.RuneCountInString(cmd.Content) > s.maxContentLength {
		return fmt.Errorf("%w: %d characters max", errors.ErrContentTooLong, s.maxContentLength)
	}
	if cmd.SenderID == cmd.RecipientID {
		return errors.ErrSelfMessage
	}
	if _, err := s.identity.Resolve(ctx, cmd.RecipientID); err != nil {
		if errors.IsIdentity(err) {
			return fmt.Errorf("%w: %s", errors.ErrUnknownRecipient, cmd.RecipientID)
		}
		return err
	}
	return nil
}

// publish never blocks the sender: a full outbox drops the notification.
func (s *MessagingService) publish(evt event.DomainEvent) {
	if s.outbox == nil {
		return
	}
	select {
	case s.outbox <- evt:
	default:
		observability.EventsDropped.Inc()
		s.log.Warn("Event outbox full, dropping event", "event", evt.Name())
	}
}

// Conversations lists the viewer's counterparts, most recent first.
func (s *MessagingService) Conversations(ctx context.Context, viewer string) ([]domain.Conversation, error) {
	ctx, span := tracer.Start(ctx, "MessagingService.Conversations")
	defer span.End()

	messages, err := s.messages.AllInvolving(ctx, viewer)
	if err != nil {
		return nil, err
	}
	conversations := projection.Conversations(viewer, messages)

	refs, err := s.resolve(ctx, lo.Map(conversations, func(c domain.Conversation, _ int) string {
		return c.Counterpart.ID
	}))
	if err != nil {
		return nil, err
	}
	for i := range conversations {
		conversations[i].Counterpart = refs[conversations[i].Counterpart.ID]
	}

	span.SetAttributes(attribute.Int("conversations", len(conversations)))
	observability.ConversationListSize.Observe(float64(len(conversations)))
	return conversations, nil
}

// Transcript returns the messages exchanged by the viewer and the
// counterpart in chronological order. A counterpart that was never messaged,
// or does not exist, yields an empty transcript.
func (s *MessagingService) Transcript(ctx context.Context, query domain.TranscriptQuery) ([]domain.Message, error) {
	ctx, span := tracer.Start(ctx, "MessagingService.Transcript")
	defer span.End()

	messages, err := s.messages.RangeBetween(ctx, query.Viewer, query.Counterpart)
	if err != nil {
		return nil, err
	}
	transcript := projection.Transcript(messages, query.Limit)
	observability.TranscriptSize.Observe(float64(len(transcript)))
	if len(transcript) == 0 {
		return transcript, nil
	}

	refs, err := s.resolve(ctx, []string{query.Viewer, query.Counterpart})
	if err != nil {
		return nil, err
	}
	return lo.Map(transcript, func(m domain.Message, _ int) domain.Message {
		return withRefs(m, refs)
	}), nil
}

// resolve looks every distinct id up once. Users missing from the directory
// keep a bare reference, any other failure is returned.
func (s *MessagingService) resolve(ctx context.Context, userIDs []string) (map[string]domain.UserRef, error) {
	refs := make(map[string]domain.UserRef, len(userIDs))
	for _, id := range lo.Uniq(userIDs) {
		profile, err := s.profiles.DisplayInfo(ctx, id)
		switch {
		case err == nil:
			refs[id] = profile.Ref(id)
		case errors.IsIdentity(err):
			refs[id] = domain.UserRef{ID: id}
		default:
			return nil, err
		}
	}
	return refs, nil
}

func withRefs(message domain.Message, refs map[string]domain.UserRef) domain.Message {
	if ref, ok := refs[message.Sender.ID]; ok {
		message.Sender = ref
	}
	if ref, ok := refs[message.Recipient.ID]; ok {
		message.Recipient = ref
	}
	return message
}
