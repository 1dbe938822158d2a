package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/talkative-se/powerbag-backend/internal/modules/serializer"
	"github.com/talkative-se/powerbag-backend/internal/modules/service"
)

type SettingHandler struct {
	svc service.SettingService
}

func NewSettingHandler(svc service.SettingService) *SettingHandler {
	return &SettingHandler{svc: svc}
}

func (h *SettingHandler) ListSettings(c *gin.Context) {
	settings, err := h.svc.List(c.Request.Context())
	if err != nil {
		c.JSON(serializer.FromError(err))
		return
	}
	c.JSON(http.StatusOK, serializer.Response{Data: settings})
}

func (h *SettingHandler) ListPublicSettings(c *gin.Context) {
	settings, err := h.svc.ListPublic(c.Request.Context())
	if err != nil {
		c.JSON(serializer.FromError(err))
		return
	}
	c.JSON(http.StatusOK, serializer.Response{Data: settings})
}

func (h *SettingHandler) GetSetting(c *gin.Context) {
	setting, err := h.svc.Get(c.Request.Context(), c.Param("key"))
	if err != nil {
		c.JSON(serializer.FromError(err))
		return
	}
	c.JSON(http.StatusOK, serializer.Response{Data: setting})
}

type UpsertSettingReq struct {
	Key         string `json:"key" binding:"required"`
	Value       string `json:"value"`
	Type        string `json:"type"`
	Description string `json:"description"`
	Category    string `json:"category"`
	IsPublic    bool   `json:"isPublic"`
}

func (h *SettingHandler) UpsertSetting(c *gin.Context) {
	req := UpsertSettingReq{}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("", err))
		return
	}

	setting, err := h.svc.Upsert(c.Request.Context(), service.UpsertSettingInput{
		Key:         req.Key,
		Value:       req.Value,
		Type:        req.Type,
		Description: req.Description,
		Category:    req.Category,
		IsPublic:    req.IsPublic,
	})
	if err != nil {
		c.JSON(serializer.FromError(err))
		return
	}
	c.JSON(http.StatusOK, serializer.Response{Data: setting})
}
