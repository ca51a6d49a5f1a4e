package payout

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/jekabolt/privshop-seller/internal/entity"
	"github.com/segmentio/kafka-go"
)

// KafkaPublisher writes payout requests to a Kafka topic keyed by seller id.
type KafkaPublisher struct {
	w *kafka.Writer
}

// NewKafkaPublisher creates a synchronous writer; a payout is only recorded once the brokers
// acknowledged it.
func NewKafkaPublisher(brokers []string, topic string) *KafkaPublisher {
	return &KafkaPublisher{
		w: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			Balancer:     &kafka.Hash{},
			RequiredAcks: kafka.RequireAll,
		},
	}
}

func (p *KafkaPublisher) PublishPayout(ctx context.Context, req *entity.PayoutRequested) error {
	value, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("can't marshal payout: %w", err)
	}
	err = p.w.WriteMessages(ctx, kafka.Message{
		Key:   []byte(req.SellerId),
		Value: value,
		Time:  time.Now(),
	})
	if err != nil {
		return fmt.Errorf("can't write payout message: %w", err)
	}
	return nil
}

func (p *KafkaPublisher) Close() error {
	return p.w.Close()
}

// LogPublisher only logs payout requests. Used when no brokers are configured.
type LogPublisher struct{}

func (LogPublisher) PublishPayout(ctx context.Context, req *entity.PayoutRequested) error {
	slog.Default().InfoContext(ctx, "payout requested",
		slog.String("seller", req.SellerId),
		slog.String("method", string(req.Method)),
		slog.String("total", req.Total.String()),
	)
	return nil
}

func (LogPublisher) Close() error {
	return nil
}
