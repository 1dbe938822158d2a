package repo

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/talkative-se/powerbag-backend/internal/modules/model"
	"gorm.io/gorm"
)

type CollectionRepo interface {
	Create(ctx context.Context, c *model.Collection) error
	Update(ctx context.Context, c *model.Collection) error
	Delete(ctx context.Context, id uuid.UUID) error
	GetByID(ctx context.Context, id uuid.UUID, status model.Status) (*model.Collection, error)
	List(ctx context.Context, status model.Status) ([]*model.Collection, error)

	// FindPreviewByName returns the preview collection with the given name,
	// nil when there is none.
	FindPreviewByName(ctx context.Context, name string) (*model.Collection, error)
	// FindPublishedByPreviewID resolves a preview collection's published twin,
	// nil when it has never been published.
	FindPublishedByPreviewID(ctx context.Context, previewID uuid.UUID) (*model.Collection, error)
}

type collectionRepo struct{ db *gorm.DB }

func NewCollectionRepo(db *gorm.DB) CollectionRepo {
	return &collectionRepo{db: db}
}

func (r *collectionRepo) Create(ctx context.Context, c *model.Collection) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *collectionRepo) Update(ctx context.Context, c *model.Collection) error {
	return r.db.WithContext(ctx).Save(c).Error
}

func (r *collectionRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Collection{}).Error
}

func (r *collectionRepo) GetByID(ctx context.Context, id uuid.UUID, status model.Status) (*model.Collection, error) {
	var c model.Collection
	if err := r.db.WithContext(ctx).Where("id = ? AND status = ?", id, status).First(&c).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *collectionRepo) List(ctx context.Context, status model.Status) ([]*model.Collection, error) {
	var collections []*model.Collection
	err := r.db.WithContext(ctx).
		Where("status = ?", status).
		Order("create_date DESC").
		Find(&collections).Error
	if err != nil {
		return nil, err
	}
	return collections, nil
}

func (r *collectionRepo) FindPreviewByName(ctx context.Context, name string) (*model.Collection, error) {
	var c model.Collection
	err := r.db.WithContext(ctx).
		Where("name = ? AND status = ?", name, model.StatusPreview).
		First(&c).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &c, nil
}

func (r *collectionRepo) FindPublishedByPreviewID(ctx context.Context, previewID uuid.UUID) (*model.Collection, error) {
	var c model.Collection
	err := r.db.WithContext(ctx).
		Where("status = ? AND preview_version_id = ?", model.StatusPublished, previewID).
		First(&c).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &c, nil
}
