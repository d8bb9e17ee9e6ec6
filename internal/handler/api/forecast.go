package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"StockCast/internal/domain/models"
	"StockCast/internal/service/ratelimit"
	"StockCast/internal/service/stream"
	"StockCast/internal/usecase"
	xhttp "StockCast/pkg/http"
	xlogger "StockCast/pkg/logger"
)

// ForecastHandler exposes the upload, predict and results endpoints.
type ForecastHandler struct {
	logger   *xlogger.Logger
	uploader *usecase.Uploader
	pipeline *usecase.Pipeline
	results  *usecase.Results
	async    *usecase.AsyncPredictor // nil when the queue is disabled
	hub      *stream.Hub             // nil when streaming is disabled
	uploadRL *ratelimit.Limiter
}

func NewForecastHandler(
	logger *xlogger.Logger,
	uploader *usecase.Uploader,
	pipeline *usecase.Pipeline,
	results *usecase.Results,
	uploadRL *ratelimit.Limiter,
) *ForecastHandler {
	return &ForecastHandler{
		logger:   logger,
		uploader: uploader,
		pipeline: pipeline,
		results:  results,
		uploadRL: uploadRL,
	}
}

// SetAsyncPredictor enables the async predict path.
func (h *ForecastHandler) SetAsyncPredictor(a *usecase.AsyncPredictor) { h.async = a }

// SetStreamHub enables the WebSocket stream endpoint.
func (h *ForecastHandler) SetStreamHub(hub *stream.Hub) { h.hub = hub }

func (h *ForecastHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api")
	g.POST("/upload-stock-data", h.Upload)
	g.POST("/predict", h.Predict)
	g.GET("/predictions", h.List)
	g.GET("/predictions/:id", h.Get)
	g.GET("/download-forecast/:id", h.Download)
	g.GET("/jobs/:id", h.JobStatus)
	if h.hub != nil {
		g.GET("/stream", h.Stream)
	}
}

func (h *ForecastHandler) Upload(c echo.Context) error {
	if h.uploadRL != nil && !h.uploadRL.Allow(c.RealIP()) {
		h.logger.Warn("upload rate limited", xlogger.String("remote", c.RealIP()))
		return xhttp.TooManyRequestsResponse(c, "upload rate limit exceeded")
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return xhttp.BadRequestResponse(c, "file is required")
	}
	src, err := fileHeader.Open()
	if err != nil {
		return xhttp.BadRequestResponse(c, "cannot read file")
	}
	defer src.Close()

	symbol := c.QueryParam("symbol")
	ds, err := h.uploader.Upload(c.Request().Context(), symbol, fileHeader.Filename, src)
	if err != nil {
		h.logger.Warn("upload rejected",
			xlogger.String("filename", fileHeader.Filename),
			xlogger.Error(err))
		return xhttp.AppErrorResponse(c, mapDomainError(err))
	}

	return xhttp.CreatedResponse(c, models.UploadResponse{
		Message:    "stock data uploaded successfully",
		DataID:     ds.ID,
		Symbol:     ds.Symbol,
		DataPoints: ds.DataPoints,
		DateRange:  ds.DateRange,
	})
}

func (h *ForecastHandler) Predict(c echo.Context) error {
	req := &models.PredictRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	if req.Async {
		if h.async == nil {
			return xhttp.BadRequestResponse(c, "async predictions are disabled")
		}
		jobID, err := h.async.Submit(c.Request().Context(), req.DataID, req.ForecastDays)
		if err != nil {
			h.logger.Error("async submit failed", xlogger.Error(err))
			return xhttp.AppErrorResponse(c, mapDomainError(err))
		}
		return xhttp.AcceptedResponse(c, models.PredictAccepted{JobID: jobID})
	}

	result, err := h.pipeline.Predict(c.Request().Context(), req.DataID, req.ForecastDays)
	if err != nil {
		h.logger.Warn("predict failed",
			xlogger.String("data_id", req.DataID),
			xlogger.Error(err))
		return xhttp.AppErrorResponse(c, mapDomainError(err))
	}
	return xhttp.SuccessResponse(c, result)
}

func (h *ForecastHandler) Get(c echo.Context) error {
	result, err := h.results.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return xhttp.AppErrorResponse(c, mapDomainError(err))
	}
	return xhttp.SuccessResponse(c, result)
}

func (h *ForecastHandler) List(c echo.Context) error {
	limit := xhttp.ParseIntDefault(c.QueryParam("limit"), 0)
	list, err := h.results.List(c.Request().Context(), limit)
	if err != nil {
		h.logger.Error("list predictions failed", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, mapDomainError(err))
	}
	return xhttp.ListResponse(c, list, int64(len(list)))
}

func (h *ForecastHandler) Download(c echo.Context) error {
	id := c.Param("id")
	data, err := h.results.ExportCSV(c.Request().Context(), id)
	if err != nil {
		return xhttp.AppErrorResponse(c, mapDomainError(err))
	}

	c.Response().Header().Set(echo.HeaderContentDisposition,
		fmt.Sprintf(`attachment; filename="forecast_%s.csv"`, id))
	return c.Blob(http.StatusOK, "text/csv", data)
}

func (h *ForecastHandler) JobStatus(c echo.Context) error {
	if h.async == nil {
		return xhttp.BadRequestResponse(c, "async predictions are disabled")
	}
	status, err := h.async.Status(c.Request().Context(), c.Param("id"))
	if err != nil {
		return xhttp.AppErrorResponse(c, mapDomainError(err))
	}
	return xhttp.SuccessResponse(c, status)
}

func (h *ForecastHandler) Stream(c echo.Context) error {
	return h.hub.Serve(c.Response(), c.Request())
}

// mapDomainError translates pipeline errors into transport errors.
// Input and range problems are client errors; model failures are 422
// because the data was accepted but cannot be modeled.
func mapDomainError(err error) error {
	var (
		schemaErr *models.SchemaError
		insuffErr *models.InsufficientDataError
		dateErr   *models.DateParseError
		valueErr  *models.ValueParseError
		fracErr   *models.InvalidFractionError
		rangeErr  *models.RangeError
		convErr   *models.ConvergenceError
	)
	switch {
	case errors.Is(err, models.ErrNotFound):
		return xhttp.NotFoundError("resource not found").WithError(err)
	case errors.Is(err, models.ErrEmptyInput),
		errors.As(err, &schemaErr),
		errors.As(err, &insuffErr),
		errors.As(err, &dateErr),
		errors.As(err, &valueErr),
		errors.As(err, &fracErr),
		errors.As(err, &rangeErr):
		return xhttp.BadRequestError(err.Error()).WithError(err)
	case errors.As(err, &convErr), errors.Is(err, models.ErrZeroActuals):
		return xhttp.UnprocessableError(err.Error()).WithError(err)
	default:
		return xhttp.InternalError("prediction failed").WithError(err)
	}
}
