package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"StockCast/internal/domain/models"
	pkgch "StockCast/pkg/clickhouse"
	applogger "StockCast/pkg/logger"
)

// Schema returns the idempotent DDL for both stores.
func Schema(database string) []string {
	return []string{
		fmt.Sprintf(`CREATE DATABASE IF NOT EXISTS %s`, database),
		fmt.Sprintf(`
            CREATE TABLE IF NOT EXISTS %s.datasets (
                id String,
                symbol String,
                filename String,
                uploaded_at DateTime64(3, 'UTC'),
                data_points UInt32,
                range_start DateTime('UTC'),
                range_end DateTime('UTC'),
                rows_json String
            ) ENGINE = ReplacingMergeTree(uploaded_at)
            ORDER BY id
        `, database),
		fmt.Sprintf(`
            CREATE TABLE IF NOT EXISTS %s.predictions (
                id String,
                data_id String,
                symbol String,
                forecast_days UInt16,
                created_at DateTime64(3, 'UTC'),
                rmse Float64,
                mape Float64,
                chart_json String,
                rows_json String
            ) ENGINE = ReplacingMergeTree(created_at)
            ORDER BY id
        `, database),
	}
}

// CHDatasetStore implements DatasetStore backed by ClickHouse. Row data
// is stored as a JSON column; datasets are read back whole, never
// queried row by row.
type CHDatasetStore struct {
	db       *sql.DB
	client   *pkgch.Client
	database string
	l        *applogger.Logger
}

func NewCHDatasetStore(ch *pkgch.Client, database string, l *applogger.Logger) *CHDatasetStore {
	return &CHDatasetStore{db: ch.DB(), client: ch, database: database, l: l}
}

func (s *CHDatasetStore) Save(ctx context.Context, ds *models.Dataset) error {
	rowsJSON, err := json.Marshal(ds.Rows)
	if err != nil {
		return fmt.Errorf("marshal rows: %w", err)
	}

	start := time.Now()
	q := fmt.Sprintf(`
        INSERT INTO %s.datasets
            (id, symbol, filename, uploaded_at, data_points, range_start, range_end, rows_json)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?)
    `, s.database)
	_, err = s.db.ExecContext(ctx, q,
		ds.ID, ds.Symbol, ds.Filename, ds.UploadedAt,
		uint32(ds.DataPoints), ds.DateRange.StartDate, ds.DateRange.EndDate, string(rowsJSON))
	if err != nil {
		s.l.Error("clickhouse save dataset",
			applogger.String("id", ds.ID),
			applogger.Error(err))
		return fmt.Errorf("save dataset: %w", err)
	}
	s.l.Info("dataset saved",
		applogger.String("id", ds.ID),
		applogger.Int("rows", ds.DataPoints),
		applogger.Duration("duration_ms", time.Since(start)))
	return nil
}

func (s *CHDatasetStore) Get(ctx context.Context, id string) (*models.Dataset, error) {
	q := fmt.Sprintf(`
        SELECT id, symbol, filename, uploaded_at, data_points, range_start, range_end, rows_json
        FROM %s.datasets FINAL
        WHERE id = ?
        LIMIT 1
    `, s.database)

	var (
		ds         models.Dataset
		dataPoints uint32
		rowsJSON   string
	)
	err := s.db.QueryRowContext(ctx, q, id).Scan(
		&ds.ID, &ds.Symbol, &ds.Filename, &ds.UploadedAt,
		&dataPoints, &ds.DateRange.StartDate, &ds.DateRange.EndDate, &rowsJSON)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("get dataset: %w", err)
	}
	ds.DataPoints = int(dataPoints)
	if err := json.Unmarshal([]byte(rowsJSON), &ds.Rows); err != nil {
		return nil, fmt.Errorf("unmarshal rows: %w", err)
	}
	return &ds, nil
}

func (s *CHDatasetStore) Health(ctx context.Context) error {
	return s.client.Health(ctx)
}

func (s *CHDatasetStore) Close() error {
	return nil // pool owned by the client
}

// CHPredictionStore implements PredictionStore backed by ClickHouse.
type CHPredictionStore struct {
	db       *sql.DB
	client   *pkgch.Client
	database string
	l        *applogger.Logger
}

func NewCHPredictionStore(ch *pkgch.Client, database string, l *applogger.Logger) *CHPredictionStore {
	return &CHPredictionStore{db: ch.DB(), client: ch, database: database, l: l}
}

func (s *CHPredictionStore) Save(ctx context.Context, p *models.PredictionResult) error {
	chartJSON, err := json.Marshal(p.ChartData)
	if err != nil {
		return fmt.Errorf("marshal chart: %w", err)
	}
	rowsJSON, err := json.Marshal(p.ForecastRows)
	if err != nil {
		return fmt.Errorf("marshal forecast rows: %w", err)
	}

	q := fmt.Sprintf(`
        INSERT INTO %s.predictions
            (id, data_id, symbol, forecast_days, created_at, rmse, mape, chart_json, rows_json)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
    `, s.database)
	_, err = s.db.ExecContext(ctx, q,
		p.ID, p.DataID, p.Symbol, uint16(p.ForecastDays), p.CreatedAt,
		p.RMSE, p.MAPE, string(chartJSON), string(rowsJSON))
	if err != nil {
		s.l.Error("clickhouse save prediction",
			applogger.String("id", p.ID),
			applogger.Error(err))
		return fmt.Errorf("save prediction: %w", err)
	}
	return nil
}

func (s *CHPredictionStore) Get(ctx context.Context, id string) (*models.PredictionResult, error) {
	q := fmt.Sprintf(`
        SELECT id, data_id, symbol, forecast_days, created_at, rmse, mape, chart_json, rows_json
        FROM %s.predictions FINAL
        WHERE id = ?
        LIMIT 1
    `, s.database)

	p, err := scanPrediction(s.db.QueryRowContext(ctx, q, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("get prediction: %w", err)
	}
	return p, nil
}

func (s *CHPredictionStore) List(ctx context.Context, limit int) ([]*models.PredictionResult, error) {
	q := fmt.Sprintf(`
        SELECT id, data_id, symbol, forecast_days, created_at, rmse, mape, chart_json, rows_json
        FROM %s.predictions FINAL
        ORDER BY created_at DESC
        LIMIT ?
    `, s.database)

	rows, err := s.db.QueryContext(ctx, q, limit)
	if err != nil {
		return nil, fmt.Errorf("list predictions: %w", err)
	}
	defer rows.Close()

	out := make([]*models.PredictionResult, 0, limit)
	for rows.Next() {
		p, err := scanPrediction(rows)
		if err != nil {
			return nil, fmt.Errorf("scan prediction: %w", err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	return out, nil
}

func (s *CHPredictionStore) Health(ctx context.Context) error {
	return s.client.Health(ctx)
}

func (s *CHPredictionStore) Close() error {
	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanPrediction(r rowScanner) (*models.PredictionResult, error) {
	var (
		p            models.PredictionResult
		forecastDays uint16
		chartJSON    string
		rowsJSON     string
	)
	err := r.Scan(&p.ID, &p.DataID, &p.Symbol, &forecastDays, &p.CreatedAt,
		&p.RMSE, &p.MAPE, &chartJSON, &rowsJSON)
	if err != nil {
		return nil, err
	}
	p.ForecastDays = int(forecastDays)
	if err := json.Unmarshal([]byte(chartJSON), &p.ChartData); err != nil {
		return nil, fmt.Errorf("unmarshal chart: %w", err)
	}
	if err := json.Unmarshal([]byte(rowsJSON), &p.ForecastRows); err != nil {
		return nil, fmt.Errorf("unmarshal forecast rows: %w", err)
	}
	return &p, nil
}
