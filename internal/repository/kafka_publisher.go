package repository

import (
	"context"
	"fmt"
	"time"

	"StockCast/internal/domain/models"
	pkgkafka "StockCast/pkg/kafka"
)

// PredictionEvent is the wire format of a completion event.
type PredictionEvent struct {
	ID           string    `json:"id"`
	DataID       string    `json:"data_id"`
	Symbol       string    `json:"symbol"`
	ForecastDays int       `json:"forecast_days"`
	RMSE         float64   `json:"rmse"`
	MAPE         float64   `json:"mape"`
	CreatedAt    time.Time `json:"created_at"`
}

// KafkaPublisher implements EventPublisher over a Kafka topic. Events
// are keyed by symbol so per-symbol ordering survives partitioning.
type KafkaPublisher struct {
	producer *pkgkafka.Producer
	topic    string
}

func NewKafkaPublisher(producer *pkgkafka.Producer, topic string) *KafkaPublisher {
	return &KafkaPublisher{producer: producer, topic: topic}
}

func (p *KafkaPublisher) PredictionCompleted(ctx context.Context, result *models.PredictionResult) error {
	event := PredictionEvent{
		ID:           result.ID,
		DataID:       result.DataID,
		Symbol:       result.Symbol,
		ForecastDays: result.ForecastDays,
		RMSE:         result.RMSE,
		MAPE:         result.MAPE,
		CreatedAt:    result.CreatedAt,
	}
	if err := p.producer.Publish(ctx, p.topic, []byte(result.Symbol), event); err != nil {
		return fmt.Errorf("publish prediction event: %w", err)
	}
	return nil
}

func (p *KafkaPublisher) Close() error {
	return p.producer.Close()
}
