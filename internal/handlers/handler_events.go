package handlers

import (
	"io"

	"github.com/gin-gonic/gin"
	portssvc "github.com/wagetrack/wagetrack/internal/core/ports/services"
)

// eventsHandler streams push events to connected clients over SSE.
type eventsHandler struct {
	events portssvc.EventSubscriber
}

func newEventsHandler(events portssvc.EventSubscriber) *eventsHandler {
	return &eventsHandler{events: events}
}

// stream subscribes the caller and forwards events until the client
// disconnects or the hub shuts down.
func (h *eventsHandler) stream(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}

	ch, cancel := h.events.Subscribe(actor.UserID)
	defer cancel()

	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")

	c.Stream(func(w io.Writer) bool {
		select {
		case event, open := <-ch:
			if !open {
				return false
			}
			c.SSEvent(string(event.Type), event.Payload)
			return true
		case <-c.Request.Context().Done():
			return false
		}
	})
}

func registerEventRoutes(rg *gin.RouterGroup, events portssvc.EventSubscriber) {
	handler := newEventsHandler(events)

	rg.GET("/events", handler.stream)
}
