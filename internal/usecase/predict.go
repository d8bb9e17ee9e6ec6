package usecase

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"

	"StockCast/internal/domain/models"
	domrepo "StockCast/internal/domain/repository"
	domsvc "StockCast/internal/domain/service"
	"StockCast/internal/services/backtest"
	"StockCast/internal/services/chart"
	"StockCast/internal/services/series"
	xlogger "StockCast/pkg/logger"
)

// Broadcaster pushes completed predictions to live subscribers.
type Broadcaster interface {
	Broadcast(v interface{})
}

// PipelineConfig carries the tunable pipeline constants.
type PipelineConfig struct {
	TrainFraction  float64
	MinHorizonDays int
	MaxHorizonDays int
}

// Pipeline sequences validation, splitting, fitting, backtesting and
// forecast assembly into the single predict operation. Every invocation
// owns its series, split and fitted model exclusively, so concurrent
// invocations share nothing but the stores.
type Pipeline struct {
	cfg       PipelineConfig
	validator *series.Validator
	model     domsvc.ForecastModel
	datasets  domrepo.DatasetStore
	results   domrepo.PredictionStore
	metrics   domrepo.Metrics
	events    domrepo.EventPublisher // optional
	notify    Broadcaster            // optional
	logger    *xlogger.Logger
}

func NewPipeline(
	cfg PipelineConfig,
	validator *series.Validator,
	model domsvc.ForecastModel,
	datasets domrepo.DatasetStore,
	results domrepo.PredictionStore,
	metrics domrepo.Metrics,
	logger *xlogger.Logger,
) *Pipeline {
	if cfg.TrainFraction == 0 {
		cfg.TrainFraction = series.DefaultTrainFraction
	}
	if cfg.MinHorizonDays == 0 {
		cfg.MinHorizonDays = 7
	}
	if cfg.MaxHorizonDays == 0 {
		cfg.MaxHorizonDays = 30
	}
	return &Pipeline{
		cfg:       cfg,
		validator: validator,
		model:     model,
		datasets:  datasets,
		results:   results,
		metrics:   metrics,
		logger:    logger,
	}
}

// SetEventPublisher wires an optional completion event publisher.
func (p *Pipeline) SetEventPublisher(pub domrepo.EventPublisher) { p.events = pub }

// SetBroadcaster wires an optional live-subscriber broadcaster.
func (p *Pipeline) SetBroadcaster(b Broadcaster) { p.notify = b }

// Predict runs one full pipeline invocation over a stored dataset and
// persists one immutable result. Stage failures abort the invocation and
// surface the originating error wrapped only with a stage label.
func (p *Pipeline) Predict(ctx context.Context, dataID string, forecastDays int) (*models.PredictionResult, error) {
	if forecastDays < p.cfg.MinHorizonDays || forecastDays > p.cfg.MaxHorizonDays {
		p.metrics.RecordError("range")
		return nil, &models.RangeError{Days: forecastDays, Min: p.cfg.MinHorizonDays, Max: p.cfg.MaxHorizonDays}
	}

	ds, err := p.datasets.Get(ctx, dataID)
	if err != nil {
		p.metrics.RecordError("load")
		return nil, fmt.Errorf("load dataset: %w", err)
	}

	s, err := p.validator.FromRows(ds.Rows)
	if err != nil {
		p.metrics.RecordError("validate")
		return nil, fmt.Errorf("validate: %w", err)
	}

	split, err := series.Split(s, p.cfg.TrainFraction)
	if err != nil {
		p.metrics.RecordError("split")
		return nil, fmt.Errorf("split: %w", err)
	}

	fitStart := time.Now()
	fitted, err := p.model.Fit(ctx, split.Train)
	if err != nil {
		p.metrics.RecordError("fit")
		return nil, fmt.Errorf("fit: %w", err)
	}
	p.metrics.RecordLatency("fit", time.Since(fitStart).Seconds())

	bt, err := backtest.Evaluate(fitted, split.Validation)
	if err != nil {
		p.metrics.RecordError("backtest")
		return nil, fmt.Errorf("backtest: %w", err)
	}
	if bt.ZeroActuals > 0 {
		p.logger.Warn("zero-valued actuals excluded from MAPE",
			xlogger.String("data_id", dataID),
			xlogger.Int("excluded", bt.ZeroActuals))
	}

	future := futureDates(s.Last().Date, forecastDays)
	fc, err := fitted.Predict(future)
	if err != nil {
		p.metrics.RecordError("forecast")
		return nil, fmt.Errorf("forecast: %w", err)
	}

	payload, err := chart.Assemble(s, fc, forecastDays, ds.Symbol)
	if err != nil {
		p.metrics.RecordError("assemble")
		return nil, fmt.Errorf("assemble: %w", err)
	}

	result := &models.PredictionResult{
		ID:           uuid.NewString(),
		DataID:       dataID,
		Symbol:       ds.Symbol,
		ForecastDays: forecastDays,
		CreatedAt:    time.Now().UTC(),
		RMSE:         round4(bt.RMSE),
		MAPE:         round4(bt.MAPE),
		ChartData:    payload,
		ForecastRows: chart.Rows(fc, forecastDays),
	}

	if err := p.results.Save(ctx, result); err != nil {
		p.metrics.RecordError("persist")
		return nil, fmt.Errorf("persist: %w", err)
	}

	p.metrics.RecordPrediction(ds.Symbol, "ok")
	p.metrics.RecordAccuracy(ds.Symbol, result.RMSE, result.MAPE)
	p.logger.Info("prediction completed",
		xlogger.String("id", result.ID),
		xlogger.String("symbol", ds.Symbol),
		xlogger.Int("forecast_days", forecastDays),
		xlogger.Float64("rmse", result.RMSE),
		xlogger.Float64("mape", result.MAPE))

	// Completion fan-out is best-effort; the persisted result is the
	// source of truth.
	if p.events != nil {
		if err := p.events.PredictionCompleted(ctx, result); err != nil {
			p.metrics.RecordError("publish")
			p.logger.Warn("completion event publish failed", xlogger.Error(err))
		}
	}
	if p.notify != nil {
		p.notify.Broadcast(result)
	}

	return result, nil
}

// futureDates returns the horizon of consecutive calendar days strictly
// after the last observed date.
func futureDates(last time.Time, days int) []time.Time {
	out := make([]time.Time, days)
	for i := range out {
		out[i] = last.AddDate(0, 0, i+1)
	}
	return out
}

func round4(v float64) float64 {
	return math.Round(v*1e4) / 1e4
}
