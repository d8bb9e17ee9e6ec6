package api

import (
	"context"
	"time"

	"github.com/labstack/echo/v4"

	domrepo "StockCast/internal/domain/repository"
	xhttp "StockCast/pkg/http"
)

// HealthHandler reports liveness and store connectivity.
type HealthHandler struct {
	datasets domrepo.DatasetStore
}

func NewHealthHandler(datasets domrepo.DatasetStore) *HealthHandler {
	return &HealthHandler{datasets: datasets}
}

func (h *HealthHandler) RegisterRoutes(e *echo.Echo) {
	e.GET("/health", h.Health)
}

func (h *HealthHandler) Health(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
	defer cancel()

	status := map[string]string{"status": "ok", "storage": "ok"}
	if err := h.datasets.Health(ctx); err != nil {
		status["storage"] = "unavailable"
	}
	return xhttp.SuccessResponse(c, status)
}
