package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/talkative-se/powerbag-backend/internal/modules/serializer"
	"github.com/talkative-se/powerbag-backend/internal/modules/service"
)

type EventHandler struct {
	svc service.EventService
}

func NewEventHandler(svc service.EventService) *EventHandler {
	return &EventHandler{svc: svc}
}

func (h *EventHandler) ListEvents(c *gin.Context) {
	events, err := h.svc.List(c.Request.Context())
	if err != nil {
		c.JSON(serializer.FromError(err))
		return
	}
	c.JSON(http.StatusOK, serializer.Response{Data: events})
}
