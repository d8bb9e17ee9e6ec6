package usecase

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"StockCast/internal/domain/models"
)

type fakeBytesCache struct {
	entries map[string][]byte
	sets    int
}

func newFakeBytesCache() *fakeBytesCache {
	return &fakeBytesCache{entries: make(map[string][]byte)}
}

func (c *fakeBytesCache) Get(_ context.Context, key string) ([]byte, bool) {
	v, ok := c.entries[key]
	return v, ok
}

func (c *fakeBytesCache) Set(_ context.Context, key string, value []byte, _ time.Duration) {
	c.entries[key] = value
	c.sets++
}

func (c *fakeBytesCache) Delete(_ context.Context, key string) { delete(c.entries, key) }

func storedResult(id string) *models.PredictionResult {
	return &models.PredictionResult{
		ID:     id,
		Symbol: "BNP",
		ForecastRows: []models.ForecastRow{
			{Date: "2024-03-01", Forecast: 120.25, LowerBound: 118.5, UpperBound: 122, Trend: 120},
			{Date: "2024-03-02", Forecast: 121.5, LowerBound: 119.75, UpperBound: 123.25, Trend: 121},
		},
	}
}

func TestResultsListCapsLimit(t *testing.T) {
	store := &fakePredictionStore{}
	for i := 0; i < 3; i++ {
		require.NoError(t, store.Save(context.Background(), storedResult(string(rune('a'+i)))))
	}
	r := NewResults(store, nil, time.Minute)

	got, err := r.List(context.Background(), 2)
	require.NoError(t, err)
	assert.Len(t, got, 2)

	// zero and oversized limits fall back to the cap
	got, err = r.List(context.Background(), 0)
	require.NoError(t, err)
	assert.Len(t, got, 3)

	got, err = r.List(context.Background(), 500)
	require.NoError(t, err)
	assert.Len(t, got, 3)
}

func TestExportCSVFormat(t *testing.T) {
	store := &fakePredictionStore{}
	require.NoError(t, store.Save(context.Background(), storedResult("p1")))
	r := NewResults(store, nil, time.Minute)

	data, err := r.ExportCSV(context.Background(), "p1")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "date,forecast,lower_bound,upper_bound,trend", lines[0])
	assert.Equal(t, "2024-03-01,120.25,118.5,122,120", lines[1])
	assert.Equal(t, "2024-03-02,121.5,119.75,123.25,121", lines[2])
}

func TestExportCSVUnknownID(t *testing.T) {
	r := NewResults(&fakePredictionStore{}, nil, time.Minute)

	_, err := r.ExportCSV(context.Background(), "nope")
	require.ErrorIs(t, err, models.ErrNotFound)
}

func TestExportCSVCaches(t *testing.T) {
	store := &fakePredictionStore{}
	require.NoError(t, store.Save(context.Background(), storedResult("p1")))
	exports := newFakeBytesCache()
	r := NewResults(store, exports, time.Minute)

	first, err := r.ExportCSV(context.Background(), "p1")
	require.NoError(t, err)
	assert.Equal(t, 1, exports.sets)

	// second call is served from the cache, not re-rendered
	store.saved = nil
	second, err := r.ExportCSV(context.Background(), "p1")
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, exports.sets)
}
