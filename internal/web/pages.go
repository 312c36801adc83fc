package web

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// StaticPage renders a template that needs nothing beyond the common view data.
func (h *Handler) StaticPage(name string) echo.HandlerFunc {
	return func(c echo.Context) error {
		return c.Render(http.StatusOK, name, h.view(c))
	}
}
