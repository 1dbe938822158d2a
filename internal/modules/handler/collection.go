package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/talkative-se/powerbag-backend/internal/middleware"
	"github.com/talkative-se/powerbag-backend/internal/modules/model"
	"github.com/talkative-se/powerbag-backend/internal/modules/serializer"
	"github.com/talkative-se/powerbag-backend/internal/modules/service"
)

type CollectionHandler struct {
	svc service.CollectionService
}

func NewCollectionHandler(svc service.CollectionService) *CollectionHandler {
	return &CollectionHandler{svc: svc}
}

type CreateCollectionReq struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

func (h *CollectionHandler) CreateCollection(c *gin.Context) {
	req := CreateCollectionReq{}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("", err))
		return
	}

	collection, err := h.svc.Create(c.Request.Context(), middleware.PrincipalFrom(c), req.Name, req.Description)
	if err != nil {
		c.JSON(serializer.FromError(err))
		return
	}
	c.JSON(http.StatusCreated, serializer.Response{Data: collection})
}

type UpdateCollectionReq struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
}

func (h *CollectionHandler) UpdateCollection(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("", err))
		return
	}
	req := UpdateCollectionReq{}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("", err))
		return
	}

	collection, err := h.svc.Update(c.Request.Context(), id, service.UpdateCollectionInput{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		c.JSON(serializer.FromError(err))
		return
	}
	c.JSON(http.StatusOK, serializer.Response{Data: collection})
}

// ListCollections defaults to the published side, which is what the public
// player asks for. The editor passes ?status=preview.
func (h *CollectionHandler) ListCollections(c *gin.Context) {
	collections, err := h.svc.List(c.Request.Context(), model.Status(c.Query("status")))
	if err != nil {
		c.JSON(serializer.FromError(err))
		return
	}
	c.JSON(http.StatusOK, serializer.Response{Data: collections})
}

func (h *CollectionHandler) GetCollection(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("", err))
		return
	}
	status := model.Status(c.DefaultQuery("status", string(model.StatusPublished)))

	collection, err := h.svc.Get(c.Request.Context(), id, status)
	if err != nil {
		c.JSON(serializer.FromError(err))
		return
	}
	c.JSON(http.StatusOK, serializer.Response{Data: collection})
}

func (h *CollectionHandler) DeleteCollection(c *gin.Context) {
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

func (h *CollectionHandler) ListCollectionStorylines(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("", err))
		return
	}
	status := model.Status(c.DefaultQuery("status", string(model.StatusPreview)))

	storylines, err := h.svc.Storylines(c.Request.Context(), id, status)
	if err != nil {
		c.JSON(serializer.FromError(err))
		return
	}
	c.JSON(http.StatusOK, serializer.Response{Data: storylines})
}

func (h *CollectionHandler) AddStoryline(c *gin.Context) {
	collectionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("", err))
		return
	}
	storylineID, err := uuid.Parse(c.Param("storylineId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("", err))
		return
	}

	storyline, err := h.svc.AddStoryline(c.Request.Context(), collectionID, storylineID)
	if err != nil {
		c.JSON(serializer.FromError(err))
		return
	}
	c.JSON(http.StatusOK, serializer.Response{Data: storyline})
}

func (h *CollectionHandler) RemoveStoryline(c *gin.Context) {
	collectionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("", err))
		return
	}
	storylineID, err := uuid.Parse(c.Param("storylineId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("", err))
		return
	}

	storyline, err := h.svc.RemoveStoryline(c.Request.Context(), collectionID, storylineID)
	if err != nil {
		c.JSON(serializer.FromError(err))
		return
	}
	c.JSON(http.StatusOK, serializer.Response{Data: storyline})
}

func (h *CollectionHandler) PublishCollection(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("", err))
		return
	}

	result, err := h.svc.Publish(c.Request.Context(), id)
	if err != nil {
		c.JSON(serializer.FromError(err))
		return
	}
	c.JSON(http.StatusOK, serializer.Response{Data: result})
}

type DuplicateCollectionReq struct {
	IncludeStorylines bool `json:"includeStorylines"`
}

func (h *CollectionHandler) DuplicateCollection(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("", err))
		return
	}
	req := DuplicateCollectionReq{}
	if err := c.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("", err))
		return
	}

	collection, err := h.svc.Duplicate(c.Request.Context(), middleware.PrincipalFrom(c), id, req.IncludeStorylines)
	if err != nil {
		c.JSON(serializer.FromError(err))
		return
	}
	c.JSON(http.StatusCreated, serializer.Response{Data: collection})
}

func (h *CollectionHandler) CompareVersions(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("", err))
		return
	}

	comparison, err := h.svc.CompareVersions(c.Request.Context(), id)
	if err != nil {
		c.JSON(serializer.FromError(err))
		return
	}
	c.JSON(http.StatusOK, serializer.Response{Data: comparison})
}
