package sink

import (
	"context"
	"dm-lab/domain/event"
	"fmt"
	"log/slog"
)

// LogSink writes every event to the structured log. It is always wired so
// the notification channel leaves a trace even without a broker.
type LogSink struct {
	log *slog.Logger
}

func NewLogSink(log *slog.Logger) LogSink {
	return LogSink{log: log}
}

func (l LogSink) Consume(_ context.Context, e event.DomainEvent) error {
	switch evt := e.(type) {
	case event.MessageSent:
		l.log.Info("Message created",
			"event_id", evt.ID,
			"message_id", evt.MessageID,
			"sender", evt.SenderID,
			"recipient", evt.RecipientID)
	default:
		l.log.Debug(fmt.Sprintf("Not implemented event : %v", evt))
	}
	return nil
}
