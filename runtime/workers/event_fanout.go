package workers

import (
	"context"
	"dm-lab/contract"
	"dm-lab/domain/event"
	"dm-lab/observability"
	"log/slog"
	"time"
)

// EventFanout drains the message outbox and hands every event to each sink
// in turn. Delivery is best effort: a failing or slow sink is logged and
// counted, never retried, and never blocks the send path since the
// dispatcher only enqueues.
type EventFanout struct {
	log         *slog.Logger
	events      <-chan event.DomainEvent
	sinks       []contract.EventSink
	sinkTimeout time.Duration
}

func NewEventFanout(log *slog.Logger, events <-chan event.DomainEvent, sinkTimeout time.Duration,
	sinks ...contract.EventSink) *EventFanout {
	return &EventFanout{log: log, events: events, sinks: sinks, sinkTimeout: sinkTimeout}
}

func (w *EventFanout) Run(ctx context.Context) error {
	for {
		select {
		case evt, ok := <-w.events:
			if !ok {
				w.log.Debug("Outbox closed, stopping fanout")
				return nil
			}
			w.Fanout(ctx, evt)
		case <-ctx.Done():
			w.log.Debug("Context done, stopping fanout")
			return nil
		}
	}
}

// Fanout delivers one event to every sink, each under its own timeout.
func (w *EventFanout) Fanout(ctx context.Context, evt event.DomainEvent) {
	for _, sink := range w.sinks {
		name := contract.GetSinkName(sink)
		sinkCtx, cancel := context.WithTimeout(ctx, w.sinkTimeout)
		err := sink.Consume(sinkCtx, evt)
		cancel()
		if err != nil {
			observability.EventsFailed.WithLabelValues(name).Inc()
			w.log.Warn("Sink failed to consume event", "sink", name, "event", evt.Name(), "error", err)
			continue
		}
		observability.EventsPublished.WithLabelValues(name).Inc()
	}
}
