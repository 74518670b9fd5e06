package server

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/askdeck/askdeck/internal/docs"
)

type DocsHandler struct {
	Docs *docs.Service
}

func (h *DocsHandler) Register(g *echo.Group) {
	g.GET("/stats", h.stats)
	g.POST("/refresh", h.refresh)
}

func (h *DocsHandler) stats(c echo.Context) error {
	return c.JSON(http.StatusOK, h.Docs.Stats())
}

// refresh drops the caches and re-extracts every document on disk.
func (h *DocsHandler) refresh(c echo.Context) error {
	h.Docs.InvalidateAll()
	warmed := h.Docs.Warm()
	return c.JSON(http.StatusOK, map[string]interface{}{
		"status": "refreshed",
		"warmed": warmed,
	})
}
