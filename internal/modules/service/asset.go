package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"github.com/talkative-se/powerbag-backend/internal/modules/model"
	"github.com/talkative-se/powerbag-backend/internal/modules/repo"
	"github.com/talkative-se/powerbag-backend/internal/pkg/utils/filename"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type UploadInput struct {
	Type         model.AssetType
	OriginalName string
	// DeclaredMimeType comes from the multipart part header and may be empty,
	// in which case the content is sniffed.
	DeclaredMimeType string
	Data             []byte
	AltText          *string
}

// UploadResult reports whether the upload was deduplicated against an
// existing asset instead of stored.
type UploadResult struct {
	Asset   *model.Asset `json:"asset"`
	Skipped bool         `json:"skipped"`
}

type PurgeResult struct {
	DeletedCount int      `json:"deletedCount"`
	Errors       []string `json:"errors"`
}

// BlobStore is the slice of the S3 layer the asset registry needs.
// *blob.S3Deps satisfies it.
type BlobStore interface {
	Upload(ctx context.Context, key string, body io.Reader, contentType string, metadata map[string]string) (string, error)
	Delete(ctx context.Context, key string) error
}

type AssetService interface {
	Upload(ctx context.Context, principal *model.Principal, in UploadInput) (*UploadResult, error)
	Get(ctx context.Context, id uuid.UUID) (*model.Asset, error)
	List(ctx context.Context, t model.AssetType, skip, limit int) ([]*model.Asset, int64, error)
	UpdateDisplayName(ctx context.Context, principal *model.Principal, id uuid.UUID, originalName string) (*model.Asset, error)
	Delete(ctx context.Context, principal *model.Principal, id uuid.UUID) error
	DeleteAll(ctx context.Context, principal *model.Principal) (*PurgeResult, error)
}

type assetService struct {
	r   repo.AssetRepo
	s3  BlobStore
	log *zap.Logger
}

func NewAssetService(r repo.AssetRepo, s3 BlobStore, log *zap.Logger) AssetService {
	return &assetService{r: r, s3: s3, log: log}
}

func (s *assetService) Upload(ctx context.Context, principal *model.Principal, in UploadInput) (*UploadResult, error) {
	if !in.Type.Valid() {
		return nil, fmt.Errorf("%w: unknown asset type %q", ErrValidation, in.Type)
	}
	if len(in.Data) == 0 {
		return nil, fmt.Errorf("%w: empty file", ErrValidation)
	}

	name := filename.Sanitize(in.OriginalName)
	mime := in.DeclaredMimeType
	if mime == "" || mime == "application/octet-stream" {
		mime = mimetype.Detect(in.Data).String()
	}
	size := int64(len(in.Data))

	existing, err := s.r.FindDuplicate(ctx, name, size, mime, principal.ID)
	if err != nil {
		return nil, fmt.Errorf("check duplicate: %w", err)
	}
	if existing != nil {
		return &UploadResult{Asset: existing, Skipped: true}, nil
	}

	key := fmt.Sprintf("assets/%s/%s/%d%s", in.Type, principal.ID, time.Now().UnixNano(), filename.Ext(name))
	url, err := s.s3.Upload(ctx, key, bytes.NewReader(in.Data), mime, map[string]string{
		"original-name": name,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: upload %s: %v", ErrStorage, key, err)
	}

	asset := &model.Asset{
		ID:           uuid.New(),
		Type:         in.Type,
		Filename:     key,
		OriginalName: name,
		MimeType:     mime,
		Size:         size,
		URL:          url,
		UploadedBy:   principal.ID,
	}
	probe(asset)
	if in.Type == model.AssetTypeImage {
		asset.AltText = in.AltText
	}

	if err := s.r.Create(ctx, asset); err != nil {
		// Leave no orphaned blob behind the failed record.
		if derr := s.s3.Delete(ctx, key); derr != nil {
			s.log.Warn("orphaned blob after failed create", zap.String("key", key), zap.Error(derr))
		}
		return nil, fmt.Errorf("create asset record: %w", err)
	}
	return &UploadResult{Asset: asset}, nil
}

// probe fills variant metadata. Real dimension and duration extraction needs
// a media toolchain the backend does not ship, so known-safe defaults are
// recorded instead.
func probe(a *model.Asset) {
	switch a.Type {
	case model.AssetTypeImage:
		a.Format = strings.TrimPrefix(a.MimeType, "image/")
		w, h := 1920, 1080
		a.Width, a.Height = &w, &h
	case model.AssetTypeAudio, model.AssetTypeVideo:
		a.Format = strings.TrimPrefix(filename.Ext(a.OriginalName), ".")
		d := 120.0
		a.Duration = &d
	}
}

func (s *assetService) Get(ctx context.Context, id uuid.UUID) (*model.Asset, error) {
	asset, err := s.r.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: asset %s", ErrNotFound, id)
		}
		return nil, err
	}
	return asset, nil
}

func (s *assetService) List(ctx context.Context, t model.AssetType, skip, limit int) ([]*model.Asset, int64, error) {
	if !t.Valid() {
		return nil, 0, fmt.Errorf("%w: unknown asset type %q", ErrValidation, t)
	}
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	if skip < 0 {
		skip = 0
	}

	assets, err := s.r.List(ctx, t, skip, limit)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.r.Count(ctx, t)
	if err != nil {
		return nil, 0, err
	}
	return assets, total, nil
}

func (s *assetService) UpdateDisplayName(ctx context.Context, principal *model.Principal, id uuid.UUID, originalName string) (*model.Asset, error) {
	asset, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if asset.UploadedBy != principal.ID && !principal.IsAdmin() {
		return nil, fmt.Errorf("%w: not the uploader", ErrForbidden)
	}

	name := filename.Sanitize(originalName)
	if name == "file" && strings.TrimSpace(originalName) == "" {
		return nil, fmt.Errorf("%w: empty name", ErrValidation)
	}
	if name == asset.OriginalName {
		return asset, nil
	}

	taken, err := s.r.ExistsByOwnerAndName(ctx, asset.UploadedBy, name, &asset.ID)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, fmt.Errorf("%w: name %q already in use", ErrConflict, name)
	}

	asset.OriginalName = name
	if err := s.r.Update(ctx, asset); err != nil {
		return nil, fmt.Errorf("update asset: %w", err)
	}
	return asset, nil
}

func (s *assetService) Delete(ctx context.Context, principal *model.Principal, id uuid.UUID) error {
	asset, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if asset.UploadedBy != principal.ID && !principal.IsAdmin() {
		return fmt.Errorf("%w: not the uploader", ErrForbidden)
	}

	if err := s.s3.Delete(ctx, asset.Filename); err != nil {
		return fmt.Errorf("%w: delete %s: %v", ErrStorage, asset.Filename, err)
	}
	return s.r.Delete(ctx, id)
}

// DeleteAll removes every asset the caller uploaded, best effort. Failures on
// individual assets are collected, not fatal.
func (s *assetService) DeleteAll(ctx context.Context, principal *model.Principal) (*PurgeResult, error) {
	assets, err := s.r.ListByOwner(ctx, principal.ID)
	if err != nil {
		return nil, err
	}

	result := &PurgeResult{Errors: []string{}}
	for _, asset := range assets {
		if err := s.s3.Delete(ctx, asset.Filename); err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("%s: %v", asset.ID, err))
			continue
		}
		if err := s.r.Delete(ctx, asset.ID); err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("%s: %v", asset.ID, err))
			continue
		}
		result.DeletedCount++
	}
	return result, nil
}
