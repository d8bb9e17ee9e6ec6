package http

import "github.com/labstack/echo/v4"

// Handler is anything that can attach its routes to the echo instance.
// The server calls RegisterRoutes once, before listening.
type Handler interface {
	RegisterRoutes(e *echo.Echo)
}
