package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/talkative-se/powerbag-backend/internal/config"
	"github.com/talkative-se/powerbag-backend/internal/modules/model"
	"go.uber.org/zap"
	"gorm.io/datatypes"
)

func newCollectionService(colRepo *MockCollectionRepo, slRepo *MockStorylineRepo, assetRepo *MockAssetRepo) CollectionService {
	log := zap.NewNop()
	return NewCollectionService(
		colRepo,
		NewStorylineService(slRepo, assetRepo, log),
		slRepo,
		assetRepo,
		nil,
		&config.Config{},
		log,
	)
}

func TestCollectionService_Create(t *testing.T) {
	ctx := context.Background()
	principal := &model.Principal{ID: uuid.New()}

	t.Run("rejects a duplicate preview name", func(t *testing.T) {
		colRepo := &MockCollectionRepo{}
		colRepo.On("FindPreviewByName", ctx, "Demo").
			Return(&model.Collection{ID: uuid.New(), Name: "Demo"}, nil)

		svc := newCollectionService(colRepo, &MockStorylineRepo{}, &MockAssetRepo{})
		_, err := svc.Create(ctx, principal, "Demo", "")

		assert.ErrorIs(t, err, ErrConflict)
	})

	t.Run("creates a preview collection", func(t *testing.T) {
		colRepo := &MockCollectionRepo{}
		colRepo.On("FindPreviewByName", ctx, "Demo").Return(nil, nil)
		colRepo.On("Create", ctx, mock.AnythingOfType("*model.Collection")).Return(nil)

		svc := newCollectionService(colRepo, &MockStorylineRepo{}, &MockAssetRepo{})
		collection, err := svc.Create(ctx, principal, "Demo", "a demo")

		assert.NoError(t, err)
		assert.Equal(t, model.StatusPreview, collection.Status)
		assert.Equal(t, principal.ID, collection.CreatedBy)
		assert.Nil(t, collection.PublishedDate)
	})
}

func TestCollectionService_Duplicate(t *testing.T) {
	ctx := context.Background()
	principal := &model.Principal{ID: uuid.New()}
	source := &model.Collection{ID: uuid.New(), Name: "Demo", Status: model.StatusPreview}

	t.Run("picks the smallest free name variant", func(t *testing.T) {
		colRepo := &MockCollectionRepo{}
		colRepo.On("GetByID", ctx, source.ID, model.StatusPreview).Return(source, nil)
		colRepo.On("FindPreviewByName", ctx, "Demo (1)").
			Return(&model.Collection{ID: uuid.New(), Name: "Demo (1)"}, nil)
		colRepo.On("FindPreviewByName", ctx, "Demo (2)").Return(nil, nil)
		colRepo.On("Create", ctx, mock.AnythingOfType("*model.Collection")).Return(nil)

		svc := newCollectionService(colRepo, &MockStorylineRepo{}, &MockAssetRepo{})
		clone, err := svc.Duplicate(ctx, principal, source.ID, false)

		assert.NoError(t, err)
		assert.Equal(t, "Demo (2)", clone.Name)
		assert.NotEqual(t, source.ID, clone.ID)
	})

	t.Run("deep-copies storylines with live references", func(t *testing.T) {
		colRepo := &MockCollectionRepo{}
		slRepo := &MockStorylineRepo{}
		assetRepo := &MockAssetRepo{}
		imageID := uuid.New()
		ref := imageID.String()

		src := previewStoryline("Autumn", source.ID.String())
		src.Bags = datatypes.NewJSONType(model.Bags{
			FirstColumn: []model.Bag{{ID: "b1", ImageAssetID: &ref}},
		})

		colRepo.On("GetByID", ctx, source.ID, model.StatusPreview).Return(source, nil)
		colRepo.On("FindPreviewByName", ctx, "Demo (1)").Return(nil, nil)
		colRepo.On("Create", ctx, mock.AnythingOfType("*model.Collection")).Return(nil)
		slRepo.On("FindPreviewByCollection", ctx, source.ID).Return([]*model.Storyline{src}, nil)
		slRepo.On("Create", ctx, mock.MatchedBy(func(s *model.Storyline) bool {
			return s.ID != src.ID && s.Title == "Autumn" && s.Status == model.StatusPreview
		})).Return(nil)
		assetRepo.On("AddLocation", ctx, []uuid.UUID{imageID}, mock.AnythingOfType("string")).Return(nil)

		svc := newCollectionService(colRepo, slRepo, assetRepo)
		_, err := svc.Duplicate(ctx, principal, source.ID, true)

		assert.NoError(t, err)
		slRepo.AssertExpectations(t)
		assetRepo.AssertExpectations(t)
	})
}

func TestCollectionService_Publish(t *testing.T) {
	ctx := context.Background()
	preview := &model.Collection{
		ID:     uuid.New(),
		Name:   "Demo",
		Status: model.StatusPreview,
	}

	t.Run("first publish creates the twin and stamps the preview", func(t *testing.T) {
		colRepo := &MockCollectionRepo{}
		slRepo := &MockStorylineRepo{}
		assetRepo := &MockAssetRepo{}

		storyline := previewStoryline("Autumn", preview.ID.String())

		colRepo.On("GetByID", ctx, preview.ID, model.StatusPreview).Return(preview, nil)
		colRepo.On("FindPublishedByPreviewID", ctx, preview.ID).Return(nil, nil)
		colRepo.On("Update", ctx, mock.MatchedBy(func(c *model.Collection) bool {
			return c.Status == model.StatusPublished && c.PreviewVersionID != nil && *c.PreviewVersionID == preview.ID
		})).Return(nil)
		slRepo.On("FindPreviewByCollection", ctx, preview.ID).Return([]*model.Storyline{storyline}, nil)
		slRepo.On("FindPublishedByPreviewID", ctx, storyline.ID).Return(nil, nil)
		slRepo.On("Update", ctx, mock.AnythingOfType("*model.Storyline")).Return(nil)
		slRepo.On("FindPublishedByCollection", ctx, mock.AnythingOfType("uuid.UUID")).
			Return([]*model.Storyline{}, nil)
		colRepo.On("Update", ctx, mock.MatchedBy(func(c *model.Collection) bool {
			return c.ID == preview.ID && c.PublishedDate != nil
		})).Return(nil)

		svc := newCollectionService(colRepo, slRepo, assetRepo)
		result, err := svc.Publish(ctx, preview.ID)

		assert.NoError(t, err)
		assert.Equal(t, 1, result.StorylineCount)
		assert.NotNil(t, result.Collection.PublishedDate)
		colRepo.AssertExpectations(t)
		slRepo.AssertExpectations(t)
	})

	t.Run("prunes published storylines whose preview left the collection", func(t *testing.T) {
		colRepo := &MockCollectionRepo{}
		slRepo := &MockStorylineRepo{}

		publishedID := uuid.New()
		published := &model.Collection{
			ID:               publishedID,
			Name:             "Demo",
			Status:           model.StatusPublished,
			PreviewVersionID: &preview.ID,
		}
		goneID := uuid.New()
		staleTwin := &model.Storyline{ID: uuid.New(), Status: model.StatusPublished, PreviewVersionID: &goneID}

		colRepo.On("GetByID", ctx, preview.ID, model.StatusPreview).Return(preview, nil)
		colRepo.On("FindPublishedByPreviewID", ctx, preview.ID).Return(published, nil)
		colRepo.On("Update", ctx, mock.AnythingOfType("*model.Collection")).Return(nil)
		slRepo.On("FindPreviewByCollection", ctx, preview.ID).Return([]*model.Storyline{}, nil)
		slRepo.On("FindPublishedByCollection", ctx, publishedID).Return([]*model.Storyline{staleTwin}, nil)
		slRepo.On("Delete", ctx, staleTwin.ID).Return(nil)

		svc := newCollectionService(colRepo, slRepo, &MockAssetRepo{})
		_, err := svc.Publish(ctx, preview.ID)

		assert.NoError(t, err)
		slRepo.AssertExpectations(t)
	})
}

func TestCollectionService_CompareVersions(t *testing.T) {
	ctx := context.Background()
	preview := &model.Collection{ID: uuid.New(), Name: "Demo", Status: model.StatusPreview}

	t.Run("a never published collection needs publishing", func(t *testing.T) {
		colRepo := &MockCollectionRepo{}
		slRepo := &MockStorylineRepo{}

		colRepo.On("GetByID", ctx, preview.ID, model.StatusPreview).Return(preview, nil)
		slRepo.On("FindPreviewByCollection", ctx, preview.ID).
			Return([]*model.Storyline{previewStoryline("Autumn", preview.ID.String())}, nil)
		colRepo.On("FindPublishedByPreviewID", ctx, preview.ID).Return(nil, nil)

		svc := newCollectionService(colRepo, slRepo, &MockAssetRepo{})
		cmp, err := svc.CompareVersions(ctx, preview.ID)

		assert.NoError(t, err)
		assert.True(t, cmp.NeverPublished)
		assert.True(t, cmp.NeedsPublishing)
		assert.Equal(t, "new", cmp.Storylines[0].State)
	})

	t.Run("a live reference and its embedded snapshot compare as equal", func(t *testing.T) {
		colRepo := &MockCollectionRepo{}
		slRepo := &MockStorylineRepo{}

		imageID := uuid.New()
		ref := imageID.String()

		p := previewStoryline("Autumn", preview.ID.String())
		p.Bags = datatypes.NewJSONType(model.Bags{
			FirstColumn: []model.Bag{{ID: "b1", ImageAssetID: &ref, ImageURL: "legacy.jpg"}},
		})

		publishedCol := &model.Collection{
			ID: uuid.New(), Name: "Demo", Status: model.StatusPublished, PreviewVersionID: &preview.ID,
		}
		twin := &model.Storyline{
			ID:               uuid.New(),
			Title:            "Autumn",
			Status:           model.StatusPublished,
			PreviewVersionID: &p.ID,
			Bags: datatypes.NewJSONType(model.Bags{
				FirstColumn: []model.Bag{{
					ID:                 "b1",
					EmbeddedImageAsset: &model.EmbeddedAsset{AssetID: ref, URL: "https://cdn/x.jpg", Format: "jpeg"},
					ImageURL:           "legacy.jpg",
				}},
			}),
		}

		colRepo.On("GetByID", ctx, preview.ID, model.StatusPreview).Return(preview, nil)
		slRepo.On("FindPreviewByCollection", ctx, preview.ID).Return([]*model.Storyline{p}, nil)
		colRepo.On("FindPublishedByPreviewID", ctx, preview.ID).Return(publishedCol, nil)
		slRepo.On("FindPublishedByCollection", ctx, publishedCol.ID).Return([]*model.Storyline{twin}, nil)

		svc := newCollectionService(colRepo, slRepo, &MockAssetRepo{})
		cmp, err := svc.CompareVersions(ctx, preview.ID)

		assert.NoError(t, err)
		assert.False(t, cmp.NeedsPublishing)
		assert.Equal(t, "unchanged", cmp.Storylines[0].State)
	})
}

func TestCollectionService_Delete(t *testing.T) {
	ctx := context.Background()
	preview := &model.Collection{ID: uuid.New(), Name: "Demo", Status: model.StatusPreview}

	colRepo := &MockCollectionRepo{}
	slRepo := &MockStorylineRepo{}
	assetRepo := &MockAssetRepo{}

	colRepo.On("GetByID", ctx, preview.ID, model.StatusPreview).Return(preview, nil)
	colRepo.On("FindPublishedByPreviewID", ctx, preview.ID).Return(nil, nil)
	colRepo.On("Delete", ctx, preview.ID).Return(nil)
	slRepo.On("PullCollection", ctx, preview.ID).Return(nil)
	assetRepo.On("PullLocationByCollection", ctx, preview.ID).Return(nil)

	svc := newCollectionService(colRepo, slRepo, assetRepo)
	assert.NoError(t, svc.Delete(ctx, preview.ID))

	colRepo.AssertExpectations(t)
	slRepo.AssertExpectations(t)
	assetRepo.AssertExpectations(t)
}
