package models

import "time"

// HistoricalData carries the observed series for charting.
type HistoricalData struct {
	Dates  []string  `json:"dates"`
	Actual []float64 `json:"actual"`
}

// ForecastData carries the forward forecast for charting. All four arrays
// have the same length, equal to the requested horizon.
type ForecastData struct {
	Dates      []string  `json:"dates"`
	Forecast   []float64 `json:"forecast"`
	LowerBound []float64 `json:"lower_bound"`
	UpperBound []float64 `json:"upper_bound"`
}

// ChartData is the presentation-ready payload returned to the frontend.
type ChartData struct {
	Historical HistoricalData `json:"historical"`
	Forecast   ForecastData   `json:"forecast"`
	Symbol     string         `json:"symbol"`
}

// ForecastRow is one exportable forecast row. Numeric values round-trip
// through their CSV text form exactly.
type ForecastRow struct {
	Date       string  `json:"date"`
	Forecast   float64 `json:"forecast"`
	LowerBound float64 `json:"lower_bound"`
	UpperBound float64 `json:"upper_bound"`
	Trend      float64 `json:"trend"`
}

// PredictionResult is the persisted outcome of one predict invocation.
// Created once, immutable thereafter.
type PredictionResult struct {
	ID           string        `json:"id"`
	DataID       string        `json:"data_id"`
	Symbol       string        `json:"symbol"`
	ForecastDays int           `json:"forecast_days"`
	CreatedAt    time.Time     `json:"created_timestamp"`
	RMSE         float64       `json:"rmse"`
	MAPE         float64       `json:"mape"`
	ChartData    ChartData     `json:"chart_data"`
	ForecastRows []ForecastRow `json:"-"`
}
