package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/talkative-se/powerbag-backend/internal/modules/model"
	"github.com/talkative-se/powerbag-backend/internal/modules/serializer"
	"github.com/talkative-se/powerbag-backend/internal/modules/service"
)

type StorylineHandler struct {
	svc service.StorylineService
}

func NewStorylineHandler(svc service.StorylineService) *StorylineHandler {
	return &StorylineHandler{svc: svc}
}

type CreateStorylineReq struct {
	Title        string        `json:"title" binding:"required"`
	CollectionID string        `json:"collectionId" binding:"required"`
	Bags         *model.Bags   `json:"bags"`
	Stories      []model.Story `json:"stories"`
}

func (h *StorylineHandler) CreateStoryline(c *gin.Context) {
	req := CreateStorylineReq{}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("", err))
		return
	}

	storyline, err := h.svc.Create(c.Request.Context(), service.CreateStorylineInput{
		Title:        req.Title,
		CollectionID: req.CollectionID,
		Bags:         req.Bags,
		Stories:      req.Stories,
	})
	if err != nil {
		c.JSON(serializer.FromError(err))
		return
	}
	c.JSON(http.StatusCreated, serializer.Response{Data: storyline})
}

type UpdateStorylineReq struct {
	Title       *string        `json:"title"`
	Collections *[]string      `json:"collections"`
	Bags        *model.Bags    `json:"bags"`
	Stories     *[]model.Story `json:"stories"`
}

func (h *StorylineHandler) UpdateStoryline(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("", err))
		return
	}
	req := UpdateStorylineReq{}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("", err))
		return
	}

	storyline, err := h.svc.Update(c.Request.Context(), id, service.UpdateStorylineInput{
		Title:       req.Title,
		Collections: req.Collections,
		Bags:        req.Bags,
		Stories:     req.Stories,
	})
	if err != nil {
		c.JSON(serializer.FromError(err))
		return
	}
	c.JSON(http.StatusOK, serializer.Response{Data: storyline})
}

// ListStorylines serves the public player and the editor list. Defaults to
// published; ?titles=a,b narrows the result.
func (h *StorylineHandler) ListStorylines(c *gin.Context) {
	status := model.Status(c.Query("status"))
	var titles []string
	if raw := c.Query("titles"); raw != "" {
		titles = strings.Split(raw, ",")
	}

	storylines, err := h.svc.List(c.Request.Context(), status, titles)
	if err != nil {
		c.JSON(serializer.FromError(err))
		return
	}
	c.JSON(http.StatusOK, serializer.Response{Data: storylines})
}

func (h *StorylineHandler) GetStoryline(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("", err))
		return
	}

	storyline, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		c.JSON(serializer.FromError(err))
		return
	}
	c.JSON(http.StatusOK, serializer.Response{Data: storyline})
}

func (h *StorylineHandler) DeleteStoryline(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("", err))
		return
	}

	if err := h.svc.Delete(c.Request.Context(), id); err != nil {
		c.JSON(serializer.FromError(err))
		return
	}
	c.JSON(http.StatusOK, serializer.Response{})
}

func (h *StorylineHandler) MigrateStoryline(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("", err))
		return
	}

	storyline, err := h.svc.MigrateLegacyReferences(c.Request.Context(), id)
	if err != nil {
		c.JSON(serializer.FromError(err))
		return
	}
	c.JSON(http.StatusOK, serializer.Response{Data: storyline})
}
