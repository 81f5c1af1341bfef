package events

import (
	"context"
	"encoding/json"
	"time"

	"epinera-marketplace/models"
	awspkg "epinera-marketplace/pkg/aws"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// Publisher fans order events out to Kafka and SNS. Both sinks are
// best-effort: a publish failure is logged and never fails the checkout
// that produced the event.
type Publisher struct {
	writer   *kafka.Writer
	sns      awspkg.SNSPublisher
	topicArn string
	logger   *zap.Logger
}

// NewPublisher creates a Publisher. Either sink may be absent: pass no
// brokers to skip Kafka, a nil SNS client or empty ARN to skip SNS.
func NewPublisher(brokers []string, topic string, sns awspkg.SNSPublisher, topicArn string, logger *zap.Logger) *Publisher {
	p := &Publisher{sns: sns, topicArn: topicArn, logger: logger}
	if len(brokers) > 0 && topic != "" {
		p.writer = &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			Balancer:     &kafka.LeastBytes{},
			WriteTimeout: 5 * time.Second,
		}
	}
	return p
}

// PublishOrderEvent serializes the event once and sends it to every
// configured sink.
func (p *Publisher) PublishOrderEvent(ctx context.Context, event models.OrderEvent) {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	payload, err := json.Marshal(event)
	if err != nil {
		p.logger.Error("failed to serialize order event", zap.Error(err))
		return
	}

	if p.writer != nil {
		msg := kafka.Message{
			Key:   []byte(event.OrderID),
			Value: payload,
		}
		if err := p.writer.WriteMessages(ctx, msg); err != nil {
			p.logger.Warn("kafka publish failed",
				zap.String("order_id", event.OrderID),
				zap.Error(err))
		}
	}

	if p.sns != nil && p.topicArn != "" {
		if err := p.sns.Publish(ctx, p.topicArn, payload); err != nil {
			p.logger.Warn("sns publish failed",
				zap.String("order_id", event.OrderID),
				zap.Error(err))
		}
	}
}

// Close flushes and closes the Kafka writer.
func (p *Publisher) Close() error {
	if p.writer != nil {
		return p.writer.Close()
	}
	return nil
}
