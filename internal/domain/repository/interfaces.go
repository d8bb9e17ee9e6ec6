package repository

import (
	"context"

	"StockCast/internal/domain/models"
)

// DatasetStore persists uploaded price datasets.
type DatasetStore interface {
	Save(ctx context.Context, d *models.Dataset) error
	Get(ctx context.Context, id string) (*models.Dataset, error)
	Health(ctx context.Context) error
	Close() error
}

// PredictionStore persists prediction results. Each Save is a single
// atomic insert; results are immutable once written.
type PredictionStore interface {
	Save(ctx context.Context, r *models.PredictionResult) error
	Get(ctx context.Context, id string) (*models.PredictionResult, error)
	List(ctx context.Context, limit int) ([]*models.PredictionResult, error)
	Health(ctx context.Context) error
	Close() error
}

// JobStore tracks asynchronous predict job state.
type JobStore interface {
	Put(ctx context.Context, s *models.JobStatus) error
	Get(ctx context.Context, id string) (*models.JobStatus, error)
}

// EventPublisher emits prediction lifecycle events to external consumers.
type EventPublisher interface {
	PredictionCompleted(ctx context.Context, r *models.PredictionResult) error
	Close() error
}

// Metrics records operational metrics for the pipeline.
type Metrics interface {
	RecordPrediction(symbol, outcome string)
	RecordError(kind string)
	RecordAccuracy(symbol string, rmse, mape float64)
	RecordLatency(op string, seconds float64)
}
