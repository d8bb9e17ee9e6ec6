package models

// Requests and responses for the prediction HTTP endpoints. Defined in
// domain for consistency and reuse.

// PredictRequest asks for a forecast over a previously uploaded dataset.
// The horizon bounds are also enforced inside the pipeline so the core
// stays safe without the HTTP layer.
type PredictRequest struct {
	DataID       string `json:"data_id" validate:"required"`
	ForecastDays int    `json:"forecast_days" validate:"required,gte=7,lte=30"`
	Async        bool   `json:"async"`
}

// UploadResponse mirrors the upload reply contract.
type UploadResponse struct {
	Message    string    `json:"message"`
	DataID     string    `json:"data_id"`
	Symbol     string    `json:"symbol"`
	DataPoints int       `json:"data_points"`
	DateRange  DateRange `json:"date_range"`
}

// PredictAccepted is returned for asynchronous predict requests.
type PredictAccepted struct {
	JobID string `json:"job_id"`
}
