//go:generate go run go.uber.org/mock/mockgen -source=kafka_sink.go -destination=../mocks/mock_kafka_writer.go -package=mocks
package sink

import (
	"context"
	"dm-lab/domain/event"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/segmentio/kafka-go"
)

// MessageWriter is the subset of *kafka.Writer the sink needs.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaSink publishes message.created events, keyed by conversation so
// both directions of a conversation keep their relative order.
type KafkaSink struct {
	writer MessageWriter
	log    *slog.Logger
}

type messageCreated struct {
	EventID     string    `json:"eventId"`
	Type        string    `json:"type"`
	MessageID   uint64    `json:"messageId"`
	SenderID    string    `json:"senderId"`
	RecipientID string    `json:"recipientId"`
	Content     string    `json:"content"`
	CreatedAt   time.Time `json:"createdAt"`
}

// NewKafkaWriter builds a synchronous writer on the given brokers, so broker
// errors reach the caller within its context deadline.
func NewKafkaWriter(brokers []string, topic string) *kafka.Writer {
	return &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		BatchTimeout: 50 * time.Millisecond,
		RequiredAcks: kafka.RequireOne,
	}
}

func NewKafkaSink(log *slog.Logger, writer MessageWriter) *KafkaSink {
	return &KafkaSink{writer: writer, log: log}
}

func (k *KafkaSink) Consume(ctx context.Context, e event.DomainEvent) error {
	evt, ok := e.(event.MessageSent)
	if !ok {
		k.log.Debug(fmt.Sprintf("Not implemented event : %v", e))
		return nil
	}
	value, err := json.Marshal(messageCreated{
		EventID:     evt.ID.String(),
		Type:        evt.Name(),
		MessageID:   uint64(evt.MessageID),
		SenderID:    evt.SenderID,
		RecipientID: evt.RecipientID,
		Content:     evt.Content,
		CreatedAt:   evt.At,
	})
	if err != nil {
		return err
	}
	return k.writer.WriteMessages(ctx, kafka.Message{
		Key:     []byte(evt.ConversationKey()),
		Value:   value,
		Time:    evt.At,
		Headers: []kafka.Header{{Key: "type", Value: []byte(evt.Name())}},
	})
}

func (k *KafkaSink) Close() error {
	return k.writer.Close()
}
