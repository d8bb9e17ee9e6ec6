package models

import "time"

// ForecastPoint is one model prediction with uncertainty bounds.
// Lower <= Value <= Upper always holds.
type ForecastPoint struct {
	Date  time.Time
	Value float64
	Lower float64
	Upper float64
	Trend float64
}

// Forecast is an ordered sequence of predictions, one per requested date.
type Forecast []ForecastPoint

// BacktestMetrics holds accuracy metrics from comparing predictions
// against held-out actuals.
type BacktestMetrics struct {
	RMSE float64 `json:"rmse"`
	MAPE float64 `json:"mape"`
	// ZeroActuals counts validation points excluded from MAPE because the
	// actual value was exactly zero.
	ZeroActuals int `json:"-"`
}
