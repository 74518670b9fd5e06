package server

import (
	"net/http"

	"github.com/labstack/echo/v4"

	chatengine "github.com/askdeck/askdeck/internal/chat"
	"github.com/askdeck/askdeck/internal/history"
	"github.com/askdeck/askdeck/models"
)

type ChatHandler struct {
	Engine *chatengine.Engine
	Store  history.Store
}

func (h *ChatHandler) Register(g *echo.Group) {
	g.POST("", h.chat)
	g.GET("/history/:session_id", h.history)
	g.DELETE("/history/:session_id", h.clear)
}

func (h *ChatHandler) chat(c echo.Context) error {
	var req models.ChatRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if req.Message == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "message required")
	}
	resp, err := h.Engine.Ask(c.Request().Context(), req.SessionID, req.Message)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, resp)
}

func (h *ChatHandler) history(c echo.Context) error {
	sessionID := c.Param("session_id")
	msgs := h.Store.History(sessionID)
	return c.JSON(http.StatusOK, map[string]interface{}{
		"session_id": sessionID,
		"messages":   msgs,
		"count":      len(msgs),
	})
}

func (h *ChatHandler) clear(c echo.Context) error {
	sessionID := c.Param("session_id")
	h.Engine.Reset(sessionID)
	return c.JSON(http.StatusOK, map[string]string{"session_id": sessionID, "status": "cleared"})
}
