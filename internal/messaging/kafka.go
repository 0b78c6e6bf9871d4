package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"github.com/sirupsen/logrus"

	"github.com/reelwise/discovery/internal/config"
	"github.com/reelwise/discovery/pkg/models"
)

const ConsumerGroup = "discovery-indexers"

// CatalogEvent announces a catalog or interaction change on the
// catalog-updates topic. Consumers treat every event the same way: as a
// signal that the discovery snapshot is stale and should be rebuilt.
type CatalogEvent struct {
	EventID     uuid.UUID                 `json:"event_id"`
	Kind        string                    `json:"kind"` // content_upserted, interaction_recorded
	Content     *models.ContentItem       `json:"content,omitempty"`
	Interaction *models.InteractionRecord `json:"interaction,omitempty"`
	Timestamp   time.Time                 `json:"timestamp"`
}

// MessageBus publishes and consumes catalog change events.
type MessageBus struct {
	writer *kafka.Writer
	reader *kafka.Reader
	topic  string
	logger *logrus.Logger
}

func NewMessageBus(cfg *config.Config, logger *logrus.Logger) (*MessageBus, error) {
	topic := cfg.Kafka.Topics.CatalogUpdates

	writer := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Kafka.Brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireOne,
		Async:        false,
		BatchTimeout: 10 * time.Millisecond,
		BatchSize:    100,
	}

	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:        cfg.Kafka.Brokers,
		Topic:          topic,
		GroupID:        ConsumerGroup,
		MinBytes:       10e3, // 10KB
		MaxBytes:       10e6, // 10MB
		CommitInterval: time.Second,
		StartOffset:    kafka.LastOffset,
	})

	return &MessageBus{
		writer: writer,
		reader: reader,
		topic:  topic,
		logger: logger,
	}, nil
}

// PublishContentUpsert announces a new or updated catalog item.
func (mb *MessageBus) PublishContentUpsert(item *models.ContentItem) error {
	return mb.publish(&CatalogEvent{
		EventID:   uuid.New(),
		Kind:      "content_upserted",
		Content:   item,
		Timestamp: time.Now(),
	}, item.ID)
}

// PublishInteraction announces a recorded user interaction.
func (mb *MessageBus) PublishInteraction(rec *models.InteractionRecord) error {
	return mb.publish(&CatalogEvent{
		EventID:     uuid.New(),
		Kind:        "interaction_recorded",
		Interaction: rec,
		Timestamp:   time.Now(),
	}, rec.UserID)
}

func (mb *MessageBus) publish(event *CatalogEvent, key string) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal catalog event: %w", err)
	}

	message := kafka.Message{
		Key:   []byte(key),
		Value: payload,
		Headers: []kafka.Header{
			{Key: "event_id", Value: []byte(event.EventID.String())},
			{Key: "kind", Value: []byte(event.Kind)},
			{Key: "timestamp", Value: []byte(event.Timestamp.Format(time.RFC3339))},
		},
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := mb.writer.WriteMessages(ctx, message); err != nil {
		mb.logger.WithError(err).WithField("event_id", event.EventID).Error("Failed to publish catalog event")
		return fmt.Errorf("failed to write catalog event: %w", err)
	}

	mb.logger.WithFields(logrus.Fields{
		"event_id": event.EventID,
		"kind":     event.Kind,
		"topic":    mb.topic,
	}).Debug("Catalog event published")

	return nil
}

// ConsumeEvents reads catalog events until the context is cancelled and
// passes each one to handler. Malformed payloads are logged and skipped;
// losing one event only delays a rebuild the next event will trigger.
func (mb *MessageBus) ConsumeEvents(ctx context.Context, handler func(CatalogEvent) error) error {
	for {
		message, err := mb.reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			mb.logger.WithError(err).Error("Failed to read catalog event")
			continue
		}

		var event CatalogEvent
		if err := json.Unmarshal(message.Value, &event); err != nil {
			mb.logger.WithError(err).Error("Failed to unmarshal catalog event, skipping")
			continue
		}

		if err := handler(event); err != nil {
			mb.logger.WithError(err).WithField("event_id", event.EventID).Error("Catalog event handler failed")
		}
	}
}

func (mb *MessageBus) Close() error {
	var errors []error

	if err := mb.writer.Close(); err != nil {
		errors = append(errors, fmt.Errorf("failed to close producer: %w", err))
	}
	if err := mb.reader.Close(); err != nil {
		errors = append(errors, fmt.Errorf("failed to close consumer: %w", err))
	}

	if len(errors) > 0 {
		return fmt.Errorf("errors closing message bus: %v", errors)
	}
	return nil
}

// Stats exposes consumer lag counters for the health endpoint.
func (mb *MessageBus) Stats() map[string]interface{} {
	stats := mb.reader.Stats()
	return map[string]interface{}{
		"consumer_lag":    stats.Lag,
		"consumer_offset": stats.Offset,
		"messages_read":   stats.Messages,
		"errors":          stats.Errors,
	}
}
