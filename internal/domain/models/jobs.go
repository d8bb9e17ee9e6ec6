package models

import "time"

// JobState tracks the lifecycle of an asynchronous predict invocation.
type JobState string

const (
	JobQueued  JobState = "queued"
	JobRunning JobState = "running"
	JobDone    JobState = "done"
	JobFailed  JobState = "failed"
)

// PredictJob is the queued payload for an asynchronous prediction.
type PredictJob struct {
	JobID        string `json:"job_id"`
	DataID       string `json:"data_id"`
	ForecastDays int    `json:"forecast_days"`
}

// JobStatus is the externally visible state of a predict job.
type JobStatus struct {
	ID        string    `json:"id"`
	State     JobState  `json:"state"`
	ResultID  string    `json:"result_id,omitempty"`
	Error     string    `json:"error,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
