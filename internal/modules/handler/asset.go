package handler

import (
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/talkative-se/powerbag-backend/internal/middleware"
	"github.com/talkative-se/powerbag-backend/internal/modules/model"
	"github.com/talkative-se/powerbag-backend/internal/modules/serializer"
	"github.com/talkative-se/powerbag-backend/internal/modules/service"
)

// maxUploadBytes caps a single media file at 200 MiB.
const maxUploadBytes = 200 << 20

type AssetHandler struct {
	svc service.AssetService
}

func NewAssetHandler(svc service.AssetService) *AssetHandler {
	return &AssetHandler{svc: svc}
}

func readPart(fh *multipart.FileHeader) ([]byte, error) {
	if fh.Size > maxUploadBytes {
		return nil, fmt.Errorf("file %s exceeds the upload limit", fh.Filename)
	}
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(io.LimitReader(f, maxUploadBytes))
}

// UploadAsset stores one multipart file under the type named in the path.
func (h *AssetHandler) UploadAsset(c *gin.Context) {
	assetType := model.AssetType(c.Param("type"))
	fh, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("file is required", err))
		return
	}
	data, err := readPart(fh)
	if err != nil {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("", err))
		return
	}

	in := service.UploadInput{
		Type:             assetType,
		OriginalName:     fh.Filename,
		DeclaredMimeType: fh.Header.Get("Content-Type"),
		Data:             data,
	}
	if alt := c.PostForm("altText"); alt != "" {
		in.AltText = &alt
	}

	result, err := h.svc.Upload(c.Request.Context(), middleware.PrincipalFrom(c), in)
	if err != nil {
		c.JSON(serializer.FromError(err))
		return
	}

	status := http.StatusCreated
	if result.Skipped {
		status = http.StatusOK
	}
	c.JSON(status, serializer.Response{Data: result})
}

type batchItem struct {
	Name   string                `json:"name"`
	Result *service.UploadResult `json:"result,omitempty"`
	Error  string                `json:"error,omitempty"`
}

// UploadAssets stores several multipart files, collecting per-file failures
// instead of aborting the batch.
func (h *AssetHandler) UploadAssets(c *gin.Context) {
	assetType := model.AssetType(c.Param("type"))
	form, err := c.MultipartForm()
	if err != nil {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("", err))
		return
	}
	files := form.File["files"]
	if len(files) == 0 {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("files are required", nil))
		return
	}

	principal := middleware.PrincipalFrom(c)
	items := make([]batchItem, 0, len(files))
	for _, fh := range files {
		item := batchItem{Name: fh.Filename}
		data, err := readPart(fh)
		if err != nil {
			item.Error = err.Error()
			items = append(items, item)
			continue
		}
		result, err := h.svc.Upload(c.Request.Context(), principal, service.UploadInput{
			Type:             assetType,
			OriginalName:     fh.Filename,
			DeclaredMimeType: fh.Header.Get("Content-Type"),
			Data:             data,
		})
		if err != nil {
			item.Error = err.Error()
		} else {
			item.Result = result
		}
		items = append(items, item)
	}

	c.JSON(http.StatusOK, serializer.Response{Data: items})
}

type ListAssetsReq struct {
	Type  string `form:"type" binding:"required"`
	Skip  int    `form:"skip,default=0"`
	Limit int    `form:"limit,default=50"`
}

func (h *AssetHandler) ListAssets(c *gin.Context) {
	req := ListAssetsReq{}
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("", err))
		return
	}

	assets, total, err := h.svc.List(c.Request.Context(), model.AssetType(req.Type), req.Skip, req.Limit)
	if err != nil {
		c.JSON(serializer.FromError(err))
		return
	}

	c.JSON(http.StatusOK, serializer.Response{Data: gin.H{
		"items": assets,
		"total": total,
	}})
}

func (h *AssetHandler) GetAsset(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("", err))
		return
	}

	asset, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		c.JSON(serializer.FromError(err))
		return
	}
	c.JSON(http.StatusOK, serializer.Response{Data: asset})
}

type UpdateAssetReq struct {
	OriginalName string `json:"originalName" binding:"required"`
}

func (h *AssetHandler) UpdateAsset(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("", err))
		return
	}
	req := UpdateAssetReq{}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("", err))
		return
	}

	asset, err := h.svc.UpdateDisplayName(c.Request.Context(), middleware.PrincipalFrom(c), id, req.OriginalName)
	if err != nil {
		c.JSON(serializer.FromError(err))
		return
	}
	c.JSON(http.StatusOK, serializer.Response{Data: asset})
}

func (h *AssetHandler) DeleteAsset(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("", err))
		return
	}

	if err := h.svc.Delete(c.Request.Context(), middleware.PrincipalFrom(c), id); err != nil {
		c.JSON(serializer.FromError(err))
		return
	}
	c.JSON(http.StatusOK, serializer.Response{})
}

func (h *AssetHandler) DeleteAllAssets(c *gin.Context) {
	result, err := h.svc.DeleteAll(c.Request.Context(), middleware.PrincipalFrom(c))
	if err != nil {
		c.JSON(serializer.FromError(err))
		return
	}
	c.JSON(http.StatusOK, serializer.Response{Data: result})
}
