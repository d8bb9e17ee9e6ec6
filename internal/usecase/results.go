package usecase

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"time"

	"StockCast/internal/domain/models"
	domrepo "StockCast/internal/domain/repository"
	"StockCast/internal/service/cache"
	"StockCast/pkg/util"
)

const maxListLimit = 100

// Results serves stored predictions and their CSV exports. Exports are
// cached because results are immutable once written.
type Results struct {
	store    domrepo.PredictionStore
	exports  cache.BytesCache
	cacheTTL time.Duration
}

func NewResults(store domrepo.PredictionStore, exports cache.BytesCache, cacheTTL time.Duration) *Results {
	return &Results{store: store, exports: exports, cacheTTL: cacheTTL}
}

func (r *Results) Get(ctx context.Context, id string) (*models.PredictionResult, error) {
	return r.store.Get(ctx, id)
}

// List returns the most recent predictions, newest first. The limit is
// capped; zero or negative means the cap.
func (r *Results) List(ctx context.Context, limit int) ([]*models.PredictionResult, error) {
	if limit <= 0 || limit > maxListLimit {
		limit = maxListLimit
	}
	return r.store.List(ctx, limit)
}

// ExportCSV renders the forecast rows of a stored prediction as CSV.
// Float columns use the shortest round-trip representation, so parsing
// an exported value reproduces the stored one exactly.
func (r *Results) ExportCSV(ctx context.Context, id string) ([]byte, error) {
	key := "forecast_csv:" + id
	if r.exports != nil {
		if cached, ok := r.exports.Get(ctx, key); ok {
			return cached, nil
		}
	}

	result, err := r.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	data, err := renderCSV(result.ForecastRows)
	if err != nil {
		return nil, err
	}
	if r.exports != nil {
		r.exports.Set(ctx, key, data, r.cacheTTL)
	}
	return data, nil
}

func renderCSV(rows []models.ForecastRow) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write([]string{"date", "forecast", "lower_bound", "upper_bound", "trend"}); err != nil {
		return nil, fmt.Errorf("write csv header: %w", err)
	}
	for _, row := range rows {
		rec := []string{
			row.Date,
			util.FormatFloat(row.Forecast),
			util.FormatFloat(row.LowerBound),
			util.FormatFloat(row.UpperBound),
			util.FormatFloat(row.Trend),
		}
		if err := w.Write(rec); err != nil {
			return nil, fmt.Errorf("write csv row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("flush csv: %w", err)
	}
	return buf.Bytes(), nil
}
