package observability

import "github.com/prometheus/client_golang/prometheus"

var (
	MessagesSent = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "dm_messages_sent_total",
		Help: "Total messages durably appended.",
	})
	SendRejected = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "dm_send_rejected_total",
		Help: "Send requests refused, by reason code.",
	}, []string{"reason"})
	SendRateLimited = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "dm_send_rate_limited_total",
		Help: "Send requests refused by the rate limiter.",
	})

	ConversationListSize = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "dm_conversation_list_size",
		Help:    "Number of conversations returned per listing.",
		Buckets: prometheus.ExponentialBuckets(1, 2, 10),
	})
	TranscriptSize = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "dm_transcript_size",
		Help:    "Number of messages returned per transcript.",
		Buckets: prometheus.ExponentialBuckets(1, 4, 8),
	})

	EventsPublished = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "dm_events_published_total",
		Help: "Domain events delivered to a sink.",
	}, []string{"sink"})
	EventsFailed = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "dm_events_failed_total",
		Help: "Domain events a sink failed to consume.",
	}, []string{"sink"})
	EventsDropped = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "dm_events_dropped_total",
		Help: "Domain events dropped because the outbox was full.",
	})
)

func Register(registerer prometheus.Registerer) {
	registerer.MustRegister(
		MessagesSent, SendRejected, SendRateLimited,
		ConversationListSize, TranscriptSize,
		EventsPublished, EventsFailed, EventsDropped,
	)
}
