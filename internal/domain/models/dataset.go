package models

import "time"

// StockRow is one parsed row of an uploaded daily price table.
type StockRow struct {
	Date   time.Time `json:"date"`
	Open   float64   `json:"open"`
	High   float64   `json:"higher"`
	Low    float64   `json:"lower"`
	Last   float64   `json:"last"`
	Volume float64   `json:"volume"`
}

// DateRange is the inclusive calendar span covered by a dataset.
type DateRange struct {
	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`
}

// Dataset is one uploaded price series with its parsed rows.
// Immutable once stored; predictions reference it by ID.
type Dataset struct {
	ID         string     `json:"id"`
	Symbol     string     `json:"symbol"`
	Filename   string     `json:"filename"`
	UploadedAt time.Time  `json:"upload_timestamp"`
	DataPoints int        `json:"data_points"`
	DateRange  DateRange  `json:"date_range"`
	Rows       []StockRow `json:"-"`
}
