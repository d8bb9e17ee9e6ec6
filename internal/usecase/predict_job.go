package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"StockCast/internal/domain/models"
	domrepo "StockCast/internal/domain/repository"
	xlogger "StockCast/pkg/logger"
	"StockCast/pkg/queue"
)

// PredictJobType is the queue message type for background predictions.
const PredictJobType = "predict.request"

// AsyncPredictor enqueues predictions and tracks their job status.
type AsyncPredictor struct {
	publisher queue.Publisher
	jobs      domrepo.JobStore
}

func NewAsyncPredictor(publisher queue.Publisher, jobs domrepo.JobStore) *AsyncPredictor {
	return &AsyncPredictor{publisher: publisher, jobs: jobs}
}

// Submit registers a queued job and enqueues its payload.
func (a *AsyncPredictor) Submit(ctx context.Context, dataID string, forecastDays int) (string, error) {
	jobID := uuid.NewString()
	now := time.Now().UTC()
	status := &models.JobStatus{
		ID:        jobID,
		State:     models.JobQueued,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := a.jobs.Put(ctx, status); err != nil {
		return "", fmt.Errorf("register job: %w", err)
	}

	payload := models.PredictJob{JobID: jobID, DataID: dataID, ForecastDays: forecastDays}
	if err := a.publisher.Enqueue(ctx, PredictJobType, payload); err != nil {
		status.State = models.JobFailed
		status.Error = "enqueue failed"
		status.UpdatedAt = time.Now().UTC()
		_ = a.jobs.Put(ctx, status)
		return "", fmt.Errorf("enqueue job: %w", err)
	}
	return jobID, nil
}

// Status reports the current state of a submitted job.
func (a *AsyncPredictor) Status(ctx context.Context, jobID string) (*models.JobStatus, error) {
	return a.jobs.Get(ctx, jobID)
}

// PredictJobHandler runs queued predictions. Pipeline failures are
// deterministic, so the handler records them on the job status and
// returns nil rather than letting the queue retry.
type PredictJobHandler struct {
	pipeline *Pipeline
	jobs     domrepo.JobStore
	timeout  time.Duration
	logger   *xlogger.Logger
}

func NewPredictJobHandler(pipeline *Pipeline, jobs domrepo.JobStore, timeout time.Duration, logger *xlogger.Logger) *PredictJobHandler {
	if timeout <= 0 {
		timeout = 2 * time.Minute
	}
	return &PredictJobHandler{pipeline: pipeline, jobs: jobs, timeout: timeout, logger: logger}
}

func (h *PredictJobHandler) Name() string { return "predict" }
func (h *PredictJobHandler) Type() string { return PredictJobType }

func (h *PredictJobHandler) Handle(ctx context.Context, payload interface{}) error {
	job, err := queue.ParsePayload[models.PredictJob](payload)
	if err != nil {
		h.logger.Error("predict job payload", xlogger.Error(err))
		return nil
	}

	h.setState(ctx, job.JobID, models.JobRunning, "", "")

	runCtx, cancel := context.WithTimeout(ctx, h.timeout)
	defer cancel()

	result, err := h.pipeline.Predict(runCtx, job.DataID, job.ForecastDays)
	if err != nil {
		h.logger.Warn("predict job failed",
			xlogger.String("job_id", job.JobID),
			xlogger.String("data_id", job.DataID),
			xlogger.Error(err))
		h.setState(ctx, job.JobID, models.JobFailed, "", err.Error())
		return nil
	}

	h.setState(ctx, job.JobID, models.JobDone, result.ID, "")
	return nil
}

func (h *PredictJobHandler) setState(ctx context.Context, jobID string, state models.JobState, resultID, errMsg string) {
	status := &models.JobStatus{
		ID:        jobID,
		State:     state,
		ResultID:  resultID,
		Error:     errMsg,
		UpdatedAt: time.Now().UTC(),
	}
	if prev, err := h.jobs.Get(ctx, jobID); err == nil {
		status.CreatedAt = prev.CreatedAt
	}
	if err := h.jobs.Put(ctx, status); err != nil {
		h.logger.Error("update job status",
			xlogger.String("job_id", jobID),
			xlogger.Error(err))
	}
}
