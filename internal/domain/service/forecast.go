package service

import (
	"context"
	"time"

	"StockCast/internal/domain/models"
)

// ForecastModel learns trend and seasonal structure from a training series.
// Implementations must be safe for concurrent use; every Fit call returns
// an independent FittedModel owned by the caller.
type ForecastModel interface {
	Fit(ctx context.Context, train models.Series) (FittedModel, error)
}

// FittedModel extrapolates the learned components over an arbitrary date
// range, including dates inside the training window (backtesting) and
// dates beyond the last observation (live forecasting). One entry is
// returned per requested date, with uncertainty bounds whose width never
// shrinks as the horizon extends past the training data.
type FittedModel interface {
	Predict(dates []time.Time) (models.Forecast, error)
}
