package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"StockCast/internal/domain/models"
	"StockCast/internal/services/series"
)

func sampleCSV(rows int) string {
	var b strings.Builder
	b.WriteString("Date,Open,Higher,Lower,Last,Volume\n")
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < rows; i++ {
		d := start.AddDate(0, 0, i)
		fmt.Fprintf(&b, "%s,%.1f,%.1f,%.1f,%.1f,%d\n",
			d.Format("2006-01-02"), 100.0+float64(i), 101.0+float64(i), 99.0+float64(i), 100.5+float64(i), 1000+i)
	}
	return b.String()
}

func newTestUploader(t *testing.T, datasets *fakeDatasetStore) *Uploader {
	t.Helper()
	return NewUploader(datasets, series.NewValidator(30), newFakeMetrics(), "BNP", testLogger(t))
}

func TestUploadStoresDataset(t *testing.T) {
	datasets := newFakeDatasetStore()
	u := newTestUploader(t, datasets)

	ds, err := u.Upload(context.Background(), "ACME", "acme.csv", strings.NewReader(sampleCSV(45)))
	require.NoError(t, err)

	assert.NotEmpty(t, ds.ID)
	assert.Equal(t, "ACME", ds.Symbol)
	assert.Equal(t, "acme.csv", ds.Filename)
	assert.Equal(t, 45, ds.DataPoints)
	assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), ds.DateRange.StartDate)
	assert.Equal(t, time.Date(2024, 2, 14, 0, 0, 0, 0, time.UTC), ds.DateRange.EndDate)
	require.Len(t, ds.Rows, 45)

	stored, err := datasets.Get(context.Background(), ds.ID)
	require.NoError(t, err)
	assert.Same(t, ds, stored)
}

func TestUploadDefaultSymbol(t *testing.T) {
	u := newTestUploader(t, newFakeDatasetStore())

	ds, err := u.Upload(context.Background(), "", "data.csv", strings.NewReader(sampleCSV(30)))
	require.NoError(t, err)
	assert.Equal(t, "BNP", ds.Symbol)
}

func TestUploadEmptyFile(t *testing.T) {
	u := newTestUploader(t, newFakeDatasetStore())

	_, err := u.Upload(context.Background(), "", "empty.csv", strings.NewReader(""))
	require.ErrorIs(t, err, models.ErrEmptyInput)
}

func TestUploadHeaderOnly(t *testing.T) {
	u := newTestUploader(t, newFakeDatasetStore())

	_, err := u.Upload(context.Background(), "", "header.csv",
		strings.NewReader("Date,Open,Higher,Lower,Last,Volume\n"))
	require.ErrorIs(t, err, models.ErrEmptyInput)
}

func TestUploadTooFewRows(t *testing.T) {
	u := newTestUploader(t, newFakeDatasetStore())

	_, err := u.Upload(context.Background(), "", "short.csv", strings.NewReader(sampleCSV(29)))
	var insuffErr *models.InsufficientDataError
	require.True(t, errors.As(err, &insuffErr), "got %v", err)
	assert.Equal(t, 29, insuffErr.Rows)
	assert.Equal(t, 30, insuffErr.Min)
}

func TestUploadMissingColumn(t *testing.T) {
	u := newTestUploader(t, newFakeDatasetStore())

	body := "Date,Open,Higher,Lower,Volume\n2024-01-01,1,2,0.5,100\n"
	_, err := u.Upload(context.Background(), "", "bad.csv", strings.NewReader(body))
	var schemaErr *models.SchemaError
	require.True(t, errors.As(err, &schemaErr), "got %v", err)
	assert.Equal(t, []string{"Last"}, schemaErr.Missing)
}

func TestUploadRaggedCSV(t *testing.T) {
	u := newTestUploader(t, newFakeDatasetStore())

	body := "Date,Open,Higher,Lower,Last,Volume\n2024-01-01,1,2\n"
	_, err := u.Upload(context.Background(), "", "ragged.csv", strings.NewReader(body))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse csv")
}

func TestUploadSortsRows(t *testing.T) {
	datasets := newFakeDatasetStore()
	u := newTestUploader(t, datasets)

	var b strings.Builder
	b.WriteString("Date,Open,Higher,Lower,Last,Volume\n")
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	// emit newest first
	for i := 30; i >= 1; i-- {
		d := start.AddDate(0, 0, i)
		fmt.Fprintf(&b, "%s,1,2,0.5,%d,100\n", d.Format("2006-01-02"), i)
	}

	ds, err := u.Upload(context.Background(), "", "reversed.csv", strings.NewReader(b.String()))
	require.NoError(t, err)
	for i := 1; i < len(ds.Rows); i++ {
		assert.True(t, ds.Rows[i-1].Date.Before(ds.Rows[i].Date), "rows out of order at %d", i)
	}
}
