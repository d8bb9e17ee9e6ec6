package usecase

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"StockCast/internal/domain/models"
	domsvc "StockCast/internal/domain/service"
	"StockCast/internal/services/series"
	applogger "StockCast/pkg/logger"
)

type fakeDatasetStore struct {
	datasets map[string]*models.Dataset
}

func newFakeDatasetStore() *fakeDatasetStore {
	return &fakeDatasetStore{datasets: make(map[string]*models.Dataset)}
}

func (s *fakeDatasetStore) Save(_ context.Context, d *models.Dataset) error {
	s.datasets[d.ID] = d
	return nil
}

func (s *fakeDatasetStore) Get(_ context.Context, id string) (*models.Dataset, error) {
	d, ok := s.datasets[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	return d, nil
}

func (s *fakeDatasetStore) Health(context.Context) error { return nil }
func (s *fakeDatasetStore) Close() error                 { return nil }

type fakePredictionStore struct {
	saved   []*models.PredictionResult
	saveErr error
}

func (s *fakePredictionStore) Save(_ context.Context, r *models.PredictionResult) error {
	if s.saveErr != nil {
		return s.saveErr
	}
	s.saved = append(s.saved, r)
	return nil
}

func (s *fakePredictionStore) Get(_ context.Context, id string) (*models.PredictionResult, error) {
	for _, r := range s.saved {
		if r.ID == id {
			return r, nil
		}
	}
	return nil, models.ErrNotFound
}

func (s *fakePredictionStore) List(_ context.Context, limit int) ([]*models.PredictionResult, error) {
	if limit > len(s.saved) {
		limit = len(s.saved)
	}
	return s.saved[:limit], nil
}

func (s *fakePredictionStore) Health(context.Context) error { return nil }
func (s *fakePredictionStore) Close() error                 { return nil }

type fakeMetrics struct {
	predictions int
	errors      map[string]int
}

func newFakeMetrics() *fakeMetrics { return &fakeMetrics{errors: make(map[string]int)} }

func (m *fakeMetrics) RecordPrediction(string, string)         { m.predictions++ }
func (m *fakeMetrics) RecordError(kind string)                 { m.errors[kind]++ }
func (m *fakeMetrics) RecordAccuracy(string, float64, float64) {}
func (m *fakeMetrics) RecordLatency(string, float64)           {}

// flatModel always predicts its configured value.
type flatModel struct {
	value  float64
	fitErr error
}

func (m *flatModel) Fit(_ context.Context, train models.Series) (domsvc.FittedModel, error) {
	if m.fitErr != nil {
		return nil, m.fitErr
	}
	return &flatFitted{value: m.value}, nil
}

type flatFitted struct {
	value float64
}

func (f *flatFitted) Predict(dates []time.Time) (models.Forecast, error) {
	out := make(models.Forecast, len(dates))
	for i, d := range dates {
		out[i] = models.ForecastPoint{
			Date: d, Value: f.value,
			Lower: f.value - 1, Upper: f.value + 1, Trend: f.value,
		}
	}
	return out, nil
}

type recordingBroadcaster struct {
	got []interface{}
}

func (b *recordingBroadcaster) Broadcast(v interface{}) { b.got = append(b.got, v) }

func testDataset(id string, n int) *models.Dataset {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	rows := make([]models.StockRow, n)
	for i := range rows {
		rows[i] = models.StockRow{Date: start.AddDate(0, 0, i), Last: 100 + float64(i)}
	}
	return &models.Dataset{
		ID: id, Symbol: "BNP", DataPoints: n, Rows: rows,
		DateRange: models.DateRange{StartDate: rows[0].Date, EndDate: rows[n-1].Date},
	}
}

func testLogger(t *testing.T) *applogger.Logger {
	t.Helper()
	l, err := applogger.New(&applogger.Config{Level: "error", Format: "console", Output: "stdout"})
	require.NoError(t, err)
	return l
}

func newTestPipeline(t *testing.T, model domsvc.ForecastModel, datasets *fakeDatasetStore, results *fakePredictionStore, mx *fakeMetrics) *Pipeline {
	t.Helper()
	return NewPipeline(PipelineConfig{}, series.NewValidator(30), model, datasets, results, mx, testLogger(t))
}

func TestPredictHorizonOutOfRange(t *testing.T) {
	datasets := newFakeDatasetStore()
	p := newTestPipeline(t, &flatModel{value: 100}, datasets, &fakePredictionStore{}, newFakeMetrics())

	for _, days := range []int{0, 6, 31, -1} {
		_, err := p.Predict(context.Background(), "any", days)
		var rangeErr *models.RangeError
		require.True(t, errors.As(err, &rangeErr), "days=%d got %v", days, err)
	}
}

func TestPredictUnknownDataset(t *testing.T) {
	p := newTestPipeline(t, &flatModel{value: 100}, newFakeDatasetStore(), &fakePredictionStore{}, newFakeMetrics())

	_, err := p.Predict(context.Background(), "missing", 7)
	require.ErrorIs(t, err, models.ErrNotFound)
	assert.Contains(t, err.Error(), "load dataset")
}

func TestPredictSuccess(t *testing.T) {
	datasets := newFakeDatasetStore()
	ds := testDataset("d1", 60)
	require.NoError(t, datasets.Save(context.Background(), ds))

	results := &fakePredictionStore{}
	mx := newFakeMetrics()
	bc := &recordingBroadcaster{}
	p := newTestPipeline(t, &flatModel{value: 120}, datasets, results, mx)
	p.SetBroadcaster(bc)

	result, err := p.Predict(context.Background(), "d1", 14)
	require.NoError(t, err)

	assert.Equal(t, "d1", result.DataID)
	assert.Equal(t, "BNP", result.Symbol)
	assert.Equal(t, 14, result.ForecastDays)
	assert.NotEmpty(t, result.ID)
	assert.False(t, result.CreatedAt.IsZero())

	// chart tail is exactly the horizon, starting the day after the data
	require.Len(t, result.ChartData.Forecast.Dates, 14)
	assert.Equal(t, "2024-03-01", result.ChartData.Forecast.Dates[0])
	require.Len(t, result.ForecastRows, 14)

	// metrics are rounded to 4 decimals
	assert.Equal(t, math.Round(result.RMSE*1e4)/1e4, result.RMSE)
	assert.Equal(t, math.Round(result.MAPE*1e4)/1e4, result.MAPE)

	require.Len(t, results.saved, 1)
	assert.Same(t, results.saved[0], result)
	assert.Equal(t, 1, mx.predictions)

	require.Len(t, bc.got, 1)
	assert.Same(t, result, bc.got[0])
}

func TestPredictFitErrorWrapped(t *testing.T) {
	datasets := newFakeDatasetStore()
	require.NoError(t, datasets.Save(context.Background(), testDataset("d1", 60)))

	fitErr := &models.ConvergenceError{Reason: "input series is constant"}
	mx := newFakeMetrics()
	p := newTestPipeline(t, &flatModel{fitErr: fitErr}, datasets, &fakePredictionStore{}, mx)

	_, err := p.Predict(context.Background(), "d1", 7)
	var convErr *models.ConvergenceError
	require.True(t, errors.As(err, &convErr))
	assert.Contains(t, err.Error(), "fit:")
	assert.Equal(t, 1, mx.errors["fit"])
}

func TestPredictPersistErrorWrapped(t *testing.T) {
	datasets := newFakeDatasetStore()
	require.NoError(t, datasets.Save(context.Background(), testDataset("d1", 60)))

	results := &fakePredictionStore{saveErr: errors.New("disk full")}
	p := newTestPipeline(t, &flatModel{value: 100}, datasets, results, newFakeMetrics())

	_, err := p.Predict(context.Background(), "d1", 7)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "persist:")
}

func TestPredictTooFewRows(t *testing.T) {
	datasets := newFakeDatasetStore()
	require.NoError(t, datasets.Save(context.Background(), testDataset("small", 29)))

	p := newTestPipeline(t, &flatModel{value: 100}, datasets, &fakePredictionStore{}, newFakeMetrics())

	_, err := p.Predict(context.Background(), "small", 7)
	var insuffErr *models.InsufficientDataError
	require.True(t, errors.As(err, &insuffErr), "got %v", err)
}

func TestRound4(t *testing.T) {
	assert.Equal(t, 1.2346, round4(1.23456))
	assert.Equal(t, 0.0, round4(0.000049))
	assert.Equal(t, 100.0, round4(100))
}
