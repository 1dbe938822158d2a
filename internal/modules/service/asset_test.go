package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/talkative-se/powerbag-backend/internal/modules/model"
	"go.uber.org/zap"
)

func TestAssetService_Upload(t *testing.T) {
	ctx := context.Background()
	owner := &model.Principal{ID: uuid.New()}
	data := []byte("not really a jpeg but big enough")

	t.Run("stores a new image with sanitized name and probe defaults", func(t *testing.T) {
		repo := &MockAssetRepo{}
		store := &MockBlobStore{}

		repo.On("FindDuplicate", ctx, "my_photo.jpg", int64(len(data)), "image/jpeg", owner.ID).
			Return(nil, nil)
		store.On("Upload", ctx, mock.AnythingOfType("string"), mock.Anything, "image/jpeg", mock.Anything).
			Return("https://cdn.example.com/assets/key.jpg", nil)
		repo.On("Create", ctx, mock.AnythingOfType("*model.Asset")).Return(nil)

		svc := NewAssetService(repo, store, zap.NewNop())
		result, err := svc.Upload(ctx, owner, UploadInput{
			Type:             model.AssetTypeImage,
			OriginalName:     "My Photo.JPG",
			DeclaredMimeType: "image/jpeg",
			Data:             data,
		})

		assert.NoError(t, err)
		assert.False(t, result.Skipped)
		assert.Equal(t, "my_photo.jpg", result.Asset.OriginalName)
		assert.Equal(t, "jpeg", result.Asset.Format)
		assert.Equal(t, owner.ID, result.Asset.UploadedBy)
		assert.NotNil(t, result.Asset.Width)
		assert.NotNil(t, result.Asset.Height)
		repo.AssertExpectations(t)
		store.AssertExpectations(t)
	})

	t.Run("skips an exact duplicate without touching storage", func(t *testing.T) {
		repo := &MockAssetRepo{}
		store := &MockBlobStore{}

		existing := &model.Asset{ID: uuid.New(), OriginalName: "my_photo.jpg", UploadedBy: owner.ID}
		repo.On("FindDuplicate", ctx, "my_photo.jpg", int64(len(data)), "image/jpeg", owner.ID).
			Return(existing, nil)

		svc := NewAssetService(repo, store, zap.NewNop())
		result, err := svc.Upload(ctx, owner, UploadInput{
			Type:             model.AssetTypeImage,
			OriginalName:     "my photo.jpg",
			DeclaredMimeType: "image/jpeg",
			Data:             data,
		})

		assert.NoError(t, err)
		assert.True(t, result.Skipped)
		assert.Equal(t, existing.ID, result.Asset.ID)
		store.AssertNotCalled(t, "Upload", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		repo.AssertExpectations(t)
	})

	t.Run("rejects an unknown asset type", func(t *testing.T) {
		svc := NewAssetService(&MockAssetRepo{}, &MockBlobStore{}, zap.NewNop())
		_, err := svc.Upload(ctx, owner, UploadInput{Type: "document", OriginalName: "a.pdf", Data: data})
		assert.ErrorIs(t, err, ErrValidation)
	})
}

func TestAssetService_Delete(t *testing.T) {
	ctx := context.Background()
	owner := uuid.New()
	assetID := uuid.New()
	asset := &model.Asset{ID: assetID, Filename: "assets/image/key.jpg", UploadedBy: owner}

	t.Run("refuses a caller who is neither uploader nor admin", func(t *testing.T) {
		repo := &MockAssetRepo{}
		store := &MockBlobStore{}
		repo.On("GetByID", ctx, assetID).Return(asset, nil)

		svc := NewAssetService(repo, store, zap.NewNop())
		err := svc.Delete(ctx, &model.Principal{ID: uuid.New()}, assetID)

		assert.ErrorIs(t, err, ErrForbidden)
		store.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})

	t.Run("admin may delete any asset", func(t *testing.T) {
		repo := &MockAssetRepo{}
		store := &MockBlobStore{}
		repo.On("GetByID", ctx, assetID).Return(asset, nil)
		store.On("Delete", ctx, asset.Filename).Return(nil)
		repo.On("Delete", ctx, assetID).Return(nil)

		svc := NewAssetService(repo, store, zap.NewNop())
		admin := &model.Principal{ID: uuid.New(), Roles: []string{model.RoleAdmin}}

		assert.NoError(t, svc.Delete(ctx, admin, assetID))
		repo.AssertExpectations(t)
		store.AssertExpectations(t)
	})
}

func TestAssetService_UpdateDisplayName(t *testing.T) {
	ctx := context.Background()
	owner := uuid.New()
	assetID := uuid.New()

	t.Run("rejects a name already used by another of the owner's assets", func(t *testing.T) {
		repo := &MockAssetRepo{}
		asset := &model.Asset{ID: assetID, OriginalName: "old.jpg", UploadedBy: owner}
		repo.On("GetByID", ctx, assetID).Return(asset, nil)
		repo.On("ExistsByOwnerAndName", ctx, owner, "taken.jpg", &assetID).Return(true, nil)

		svc := NewAssetService(repo, &MockBlobStore{}, zap.NewNop())
		_, err := svc.UpdateDisplayName(ctx, &model.Principal{ID: owner}, assetID, "taken.jpg")

		assert.ErrorIs(t, err, ErrConflict)
	})

	t.Run("renaming to the current name is a no-op", func(t *testing.T) {
		repo := &MockAssetRepo{}
		asset := &model.Asset{ID: assetID, OriginalName: "same.jpg", UploadedBy: owner}
		repo.On("GetByID", ctx, assetID).Return(asset, nil)

		svc := NewAssetService(repo, &MockBlobStore{}, zap.NewNop())
		got, err := svc.UpdateDisplayName(ctx, &model.Principal{ID: owner}, assetID, "same.jpg")

		assert.NoError(t, err)
		assert.Equal(t, "same.jpg", got.OriginalName)
		repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})
}
