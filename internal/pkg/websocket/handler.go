package websocket

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// Handler upgrades live queue viewers to websocket connections
type Handler struct {
	hub    *Hub
	logger zerolog.Logger
}

// NewHandler creates a new WebSocket handler
func NewHandler(hub *Hub, logger zerolog.Logger) *Handler {
	return &Handler{
		hub:    hub,
		logger: logger,
	}
}

// HandleConnection godoc
// @Summary Subscribe to live queue events
// @Description Upgrades to a WebSocket that receives add, resolve and duty events as JSON text frames
// @Tags queue, websocket
// @Success 101 {string} string "Switching Protocols to WebSocket"
// @Router /queue/ws [get]
func (h *Handler) HandleConnection(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// the upgrader has already answered the request
		h.logger.Warn().Err(err).Str("addr", c.ClientIP()).Msg("Failed to upgrade connection to WebSocket")
		return
	}

	client := NewClient(h.hub, conn, h.logger)
	if err := h.hub.Register(client); err != nil {
		h.logger.Warn().Err(err).Msg("Rejecting viewer")
		client.Close()
		return
	}

	go client.writePump()
	go client.readPump()
}
