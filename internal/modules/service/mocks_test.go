package service

import (
	"context"
	"io"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/talkative-se/powerbag-backend/internal/modules/model"
)

// MockAssetRepo is a mock implementation of repo.AssetRepo
type MockAssetRepo struct {
	mock.Mock
}

func (m *MockAssetRepo) Create(ctx context.Context, a *model.Asset) error {
	args := m.Called(ctx, a)
	return args.Error(0)
}

func (m *MockAssetRepo) Update(ctx context.Context, a *model.Asset) error {
	args := m.Called(ctx, a)
	return args.Error(0)
}

func (m *MockAssetRepo) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockAssetRepo) GetByID(ctx context.Context, id uuid.UUID) (*model.Asset, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Asset), args.Error(1)
}

func (m *MockAssetRepo) List(ctx context.Context, t model.AssetType, skip, limit int) ([]*model.Asset, error) {
	args := m.Called(ctx, t, skip, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Asset), args.Error(1)
}

func (m *MockAssetRepo) Count(ctx context.Context, t model.AssetType) (int64, error) {
	args := m.Called(ctx, t)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockAssetRepo) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*model.Asset, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Asset), args.Error(1)
}

func (m *MockAssetRepo) FindDuplicate(ctx context.Context, originalName string, size int64, mimeType string, ownerID uuid.UUID) (*model.Asset, error) {
	args := m.Called(ctx, originalName, size, mimeType, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Asset), args.Error(1)
}

func (m *MockAssetRepo) ExistsByOwnerAndName(ctx context.Context, ownerID uuid.UUID, originalName string, excludeID *uuid.UUID) (bool, error) {
	args := m.Called(ctx, ownerID, originalName, excludeID)
	return args.Bool(0), args.Error(1)
}

func (m *MockAssetRepo) AddLocation(ctx context.Context, ids []uuid.UUID, key string) error {
	args := m.Called(ctx, ids, key)
	return args.Error(0)
}

func (m *MockAssetRepo) RemoveLocation(ctx context.Context, id uuid.UUID, key string) error {
	args := m.Called(ctx, id, key)
	return args.Error(0)
}

func (m *MockAssetRepo) PullLocationByStoryline(ctx context.Context, storylineID uuid.UUID) error {
	args := m.Called(ctx, storylineID)
	return args.Error(0)
}

func (m *MockAssetRepo) PullLocationByCollection(ctx context.Context, collectionID uuid.UUID) error {
	args := m.Called(ctx, collectionID)
	return args.Error(0)
}

// MockStorylineRepo is a mock implementation of repo.StorylineRepo
type MockStorylineRepo struct {
	mock.Mock
}

func (m *MockStorylineRepo) Create(ctx context.Context, s *model.Storyline) error {
	args := m.Called(ctx, s)
	return args.Error(0)
}

func (m *MockStorylineRepo) Update(ctx context.Context, s *model.Storyline) error {
	args := m.Called(ctx, s)
	return args.Error(0)
}

func (m *MockStorylineRepo) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockStorylineRepo) GetByID(ctx context.Context, id uuid.UUID) (*model.Storyline, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Storyline), args.Error(1)
}

func (m *MockStorylineRepo) List(ctx context.Context, status model.Status, titles []string) ([]*model.Storyline, error) {
	args := m.Called(ctx, status, titles)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Storyline), args.Error(1)
}

func (m *MockStorylineRepo) FindPreviewByCollection(ctx context.Context, collectionID uuid.UUID) ([]*model.Storyline, error) {
	args := m.Called(ctx, collectionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Storyline), args.Error(1)
}

func (m *MockStorylineRepo) FindPublishedByCollection(ctx context.Context, collectionID uuid.UUID) ([]*model.Storyline, error) {
	args := m.Called(ctx, collectionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Storyline), args.Error(1)
}

func (m *MockStorylineRepo) FindPublishedByPreviewID(ctx context.Context, previewID uuid.UUID) (*model.Storyline, error) {
	args := m.Called(ctx, previewID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Storyline), args.Error(1)
}

func (m *MockStorylineRepo) FindPreviewsByTitle(ctx context.Context, title string) ([]*model.Storyline, error) {
	args := m.Called(ctx, title)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Storyline), args.Error(1)
}

func (m *MockStorylineRepo) PullCollection(ctx context.Context, collectionID uuid.UUID) error {
	args := m.Called(ctx, collectionID)
	return args.Error(0)
}

// MockCollectionRepo is a mock implementation of repo.CollectionRepo
type MockCollectionRepo struct {
	mock.Mock
}

func (m *MockCollectionRepo) Create(ctx context.Context, c *model.Collection) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *MockCollectionRepo) Update(ctx context.Context, c *model.Collection) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *MockCollectionRepo) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockCollectionRepo) GetByID(ctx context.Context, id uuid.UUID, status model.Status) (*model.Collection, error) {
	args := m.Called(ctx, id, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Collection), args.Error(1)
}

func (m *MockCollectionRepo) List(ctx context.Context, status model.Status) ([]*model.Collection, error) {
	args := m.Called(ctx, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Collection), args.Error(1)
}

func (m *MockCollectionRepo) FindPreviewByName(ctx context.Context, name string) (*model.Collection, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Collection), args.Error(1)
}

func (m *MockCollectionRepo) FindPublishedByPreviewID(ctx context.Context, previewID uuid.UUID) (*model.Collection, error) {
	args := m.Called(ctx, previewID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Collection), args.Error(1)
}

// MockBlobStore is a mock implementation of BlobStore
type MockBlobStore struct {
	mock.Mock
}

func (m *MockBlobStore) Upload(ctx context.Context, key string, body io.Reader, contentType string, metadata map[string]string) (string, error) {
	args := m.Called(ctx, key, body, contentType, metadata)
	return args.String(0), args.Error(1)
}

func (m *MockBlobStore) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

// MockUserRepo is a mock implementation of repo.UserRepo
type MockUserRepo struct {
	mock.Mock
}

func (m *MockUserRepo) Create(ctx context.Context, u *model.User) error {
	args := m.Called(ctx, u)
	return args.Error(0)
}

func (m *MockUserRepo) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockUserRepo) GetByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepo) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepo) List(ctx context.Context) ([]*model.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.User), args.Error(1)
}
