package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/talkative-se/powerbag-backend/internal/modules/serializer"
	"github.com/talkative-se/powerbag-backend/internal/modules/service"
)

type InfoHandler struct {
	svc service.InfoService
}

func NewInfoHandler(svc service.InfoService) *InfoHandler {
	return &InfoHandler{svc: svc}
}

func (h *InfoHandler) GetInfo(c *gin.Context) {
	info, err := h.svc.Get(c.Request.Context())
	if err != nil {
		c.JSON(serializer.FromError(err))
		return
	}
	c.JSON(http.StatusOK, serializer.Response{Data: info})
}

type UpdateInfoReq struct {
	En string `json:"en"`
	Nl string `json:"nl"`
}

func (h *InfoHandler) UpdateInfo(c *gin.Context) {
	req := UpdateInfoReq{}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("", err))
		return
	}

	info, err := h.svc.Update(c.Request.Context(), req.En, req.Nl)
	if err != nil {
		c.JSON(serializer.FromError(err))
		return
	}
	c.JSON(http.StatusOK, serializer.Response{Data: info})
}
