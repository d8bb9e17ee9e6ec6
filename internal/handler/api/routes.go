package api

import (
	"github.com/labstack/echo/v4"

	xhttp "StockCast/pkg/http"
)

// Mux aggregates handlers into one route registrar for the server.
type Mux struct {
	handlers []xhttp.Handler
}

func NewMux(handlers ...xhttp.Handler) *Mux {
	return &Mux{handlers: handlers}
}

func (m *Mux) RegisterRoutes(e *echo.Echo) {
	for _, h := range m.handlers {
		h.RegisterRoutes(e)
	}
}
