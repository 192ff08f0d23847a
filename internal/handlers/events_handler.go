package handlers

import (
	"io"

	"github.com/gin-gonic/gin"

	"github.com/turnosuite/turnos-panel/internal/hub"
)

// ======================================================
// HANDLER
// ======================================================

type EventsHandler struct {
	hub *hub.Hub
}

func NewEventsHandler(h *hub.Hub) *EventsHandler {
	return &EventsHandler{hub: h}
}

// ======================================================
// SSE STREAM
// ======================================================

// Stream subscribes the page to live snapshots and announcements. The
// subscription lasts until the client disconnects.
func (h *EventsHandler) Stream(c *gin.Context) {
	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")

	client := h.hub.Subscribe()
	defer h.hub.Unsubscribe(client)

	c.Stream(func(w io.Writer) bool {
		select {
		case payload, ok := <-client.Send:
			if !ok {
				return false
			}
			c.SSEvent("message", string(payload))
			return true
		case <-c.Request.Context().Done():
			return false
		}
	})
}
