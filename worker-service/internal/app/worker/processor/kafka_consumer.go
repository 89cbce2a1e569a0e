package processor

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"cookboard/pkg/logger"
	"cookboard/pkg/metrics"
	"cookboard/worker-service/internal/app/worker/entity"
	"cookboard/worker-service/internal/app/worker/service"

	"github.com/segmentio/kafka-go"
)

const serviceName = "worker-service"

// KafkaConsumer обрабатывает события из Kafka топика rating_events
type KafkaConsumer struct {
	reader   *kafka.Reader
	auditSvc service.AuditServiceInterface
	topic    string
	groupID  string
	stopChan chan struct{}
	doneChan chan struct{}
}

// NewKafkaConsumer создает новый Kafka consumer
func NewKafkaConsumer(
	brokers []string,
	topic string,
	groupID string,
	minBytes int,
	maxBytes int,
	auditSvc service.AuditServiceInterface,
) *KafkaConsumer {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:     brokers,
		Topic:       topic,
		GroupID:     groupID,
		MinBytes:    minBytes,
		MaxBytes:    maxBytes,
		StartOffset: kafka.LastOffset,
		// Автоматический коммит offset раз в секунду
		CommitInterval: time.Second,
		ReadBackoffMin: 100 * time.Millisecond,
		ReadBackoffMax: 1 * time.Second,
	})

	return &KafkaConsumer{
		reader:   reader,
		auditSvc: auditSvc,
		topic:    topic,
		groupID:  groupID,
		stopChan: make(chan struct{}),
		doneChan: make(chan struct{}),
	}
}

// Start запускает consumer в отдельной горутине
func (c *KafkaConsumer) Start(ctx context.Context) {
	logger.Info().Str("topic", c.topic).Str("group", c.groupID).Msg("Starting Kafka consumer")
	go c.consume(ctx)
}

// Stop останавливает consumer
func (c *KafkaConsumer) Stop() {
	logger.Info().Msg("Stopping Kafka consumer...")
	close(c.stopChan)
	<-c.doneChan
	c.reader.Close()
	logger.Info().Msg("Kafka consumer stopped")
}

// consume читает и обрабатывает сообщения из Kafka
func (c *KafkaConsumer) consume(ctx context.Context) {
	defer close(c.doneChan)

	for {
		select {
		case <-c.stopChan:
			return
		default:
			readCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			message, err := c.reader.FetchMessage(readCtx)
			cancel()

			if err != nil {
				if ctx.Err() != nil {
					return
				}
				logger.Error().Err(err).Msg("Error fetching Kafka message")
				time.Sleep(time.Second)
				continue
			}

			if err := c.processMessage(ctx, message); err != nil {
				// Offset не коммитим: сообщение будет обработано повторно
				logger.Error().Err(err).
					Int64("offset", message.Offset).
					Int("partition", message.Partition).
					Msg("Error processing Kafka message")
			} else {
				if err := c.reader.CommitMessages(ctx, message); err != nil {
					logger.Error().Err(err).Msg("Error committing Kafka message")
				}
			}
		}
	}
}

// processMessage обрабатывает одно сообщение из Kafka
func (c *KafkaConsumer) processMessage(ctx context.Context, message kafka.Message) error {
	var event entity.RatingEvent
	if err := json.Unmarshal(message.Value, &event); err != nil {
		return fmt.Errorf("failed to unmarshal rating event: %w", err)
	}

	metrics.KafkaMessagesConsumed.WithLabelValues(serviceName, c.topic, c.groupID).Inc()

	logger.Debug().
		Str("event_type", event.EventType).
		Str("recipe_id", event.RecipeID).
		Int64("offset", message.Offset).
		Int("partition", message.Partition).
		Msg("Received rating event")

	if err := c.auditSvc.ProcessRatingEvent(ctx, &event); err != nil {
		return fmt.Errorf("failed to process rating event: %w", err)
	}

	return nil
}

// GetStats возвращает статистику consumer
func (c *KafkaConsumer) GetStats() kafka.ReaderStats {
	return c.reader.Stats()
}
