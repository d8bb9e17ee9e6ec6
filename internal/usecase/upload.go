package usecase

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"

	"StockCast/internal/domain/models"
	domrepo "StockCast/internal/domain/repository"
	"StockCast/internal/services/series"
	xlogger "StockCast/pkg/logger"
)

// Uploader ingests CSV stock histories into the dataset store.
type Uploader struct {
	datasets      domrepo.DatasetStore
	validator     *series.Validator
	metrics       domrepo.Metrics
	defaultSymbol string
	logger        *xlogger.Logger
}

func NewUploader(datasets domrepo.DatasetStore, validator *series.Validator, metrics domrepo.Metrics, defaultSymbol string, logger *xlogger.Logger) *Uploader {
	return &Uploader{
		datasets:      datasets,
		validator:     validator,
		metrics:       metrics,
		defaultSymbol: defaultSymbol,
		logger:        logger,
	}
}

// Upload parses, validates and persists one CSV upload. The stored rows
// are sorted ascending by date; the dataset id is the handle later
// predict calls use.
func (u *Uploader) Upload(ctx context.Context, symbol, filename string, r io.Reader) (*models.Dataset, error) {
	table, err := readTable(r)
	if err != nil {
		u.metrics.RecordError("upload_parse")
		return nil, err
	}

	rows, err := u.validator.Validate(table)
	if err != nil {
		u.metrics.RecordError("upload_validate")
		return nil, err
	}

	if symbol == "" {
		symbol = u.defaultSymbol
	}
	ds := &models.Dataset{
		ID:         uuid.NewString(),
		Symbol:     symbol,
		Filename:   filename,
		UploadedAt: time.Now().UTC(),
		DataPoints: len(rows),
		DateRange: models.DateRange{
			StartDate: rows[0].Date,
			EndDate:   rows[len(rows)-1].Date,
		},
		Rows: rows,
	}

	if err := u.datasets.Save(ctx, ds); err != nil {
		u.metrics.RecordError("upload_persist")
		return nil, fmt.Errorf("persist dataset: %w", err)
	}

	u.logger.Info("dataset uploaded",
		xlogger.String("id", ds.ID),
		xlogger.String("symbol", ds.Symbol),
		xlogger.Int("rows", ds.DataPoints))
	return ds, nil
}

// readTable decodes the CSV stream into a header plus raw records.
// encoding/csv enforces a consistent field count per record, so ragged
// rows fail here rather than in validation.
func readTable(r io.Reader) (*series.Table, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse csv: %w", err)
	}
	if len(records) == 0 {
		return nil, models.ErrEmptyInput
	}
	return &series.Table{Columns: records[0], Records: records[1:]}, nil
}
