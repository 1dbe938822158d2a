package repo

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/talkative-se/powerbag-backend/internal/modules/model"
	"gorm.io/gorm"
)

type AssetRepo interface {
	Create(ctx context.Context, a *model.Asset) error
	Update(ctx context.Context, a *model.Asset) error
	Delete(ctx context.Context, id uuid.UUID) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Asset, error)
	List(ctx context.Context, t model.AssetType, skip, limit int) ([]*model.Asset, error)
	Count(ctx context.Context, t model.AssetType) (int64, error)
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*model.Asset, error)

	// FindDuplicate returns an existing asset with the same identity tuple, or
	// nil when there is none.
	FindDuplicate(ctx context.Context, originalName string, size int64, mimeType string, ownerID uuid.UUID) (*model.Asset, error)
	ExistsByOwnerAndName(ctx context.Context, ownerID uuid.UUID, originalName string, excludeID *uuid.UUID) (bool, error)

	// AddLocation adds key to the location set of every listed asset that does
	// not already carry it.
	AddLocation(ctx context.Context, ids []uuid.UUID, key string) error
	// RemoveLocation removes the exact key from one asset's location set.
	RemoveLocation(ctx context.Context, id uuid.UUID, key string) error
	// PullLocationByStoryline removes, across all assets, every location entry
	// whose storyline suffix matches, whatever collection prefix it was written
	// with.
	PullLocationByStoryline(ctx context.Context, storylineID uuid.UUID) error
	// PullLocationByCollection removes, across all assets, every location entry
	// whose collection prefix names the given collection.
	PullLocationByCollection(ctx context.Context, collectionID uuid.UUID) error
}

type assetRepo struct{ db *gorm.DB }

func NewAssetRepo(db *gorm.DB) AssetRepo {
	return &assetRepo{db: db}
}

func (r *assetRepo) Create(ctx context.Context, a *model.Asset) error {
	return r.db.WithContext(ctx).Create(a).Error
}

func (r *assetRepo) Update(ctx context.Context, a *model.Asset) error {
	return r.db.WithContext(ctx).Save(a).Error
}

func (r *assetRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Asset{}).Error
}

func (r *assetRepo) GetByID(ctx context.Context, id uuid.UUID) (*model.Asset, error) {
	var a model.Asset
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&a).Error; err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *assetRepo) List(ctx context.Context, t model.AssetType, skip, limit int) ([]*model.Asset, error) {
	var assets []*model.Asset
	err := r.db.WithContext(ctx).
		Where("type = ?", t).
		Order("create_date DESC").
		Offset(skip).
		Limit(limit).
		Find(&assets).Error
	if err != nil {
		return nil, err
	}
	return assets, nil
}

func (r *assetRepo) Count(ctx context.Context, t model.AssetType) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Asset{}).Where("type = ?", t).Count(&n).Error
	return n, err
}

func (r *assetRepo) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*model.Asset, error) {
	var assets []*model.Asset
	err := r.db.WithContext(ctx).Where("uploaded_by = ?", ownerID).Find(&assets).Error
	if err != nil {
		return nil, err
	}
	return assets, nil
}

func (r *assetRepo) FindDuplicate(ctx context.Context, originalName string, size int64, mimeType string, ownerID uuid.UUID) (*model.Asset, error) {
	var a model.Asset
	err := r.db.WithContext(ctx).
		Where("original_name = ? AND size = ? AND mime_type = ? AND uploaded_by = ?",
			originalName, size, mimeType, ownerID).
		First(&a).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &a, nil
}

func (r *assetRepo) ExistsByOwnerAndName(ctx context.Context, ownerID uuid.UUID, originalName string, excludeID *uuid.UUID) (bool, error) {
	query := r.db.WithContext(ctx).Model(&model.Asset{}).
		Where("uploaded_by = ? AND original_name = ?", ownerID, originalName)
	if excludeID != nil {
		query = query.Where("id != ?", *excludeID)
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *assetRepo) AddLocation(ctx context.Context, ids []uuid.UUID, key string) error {
	if len(ids) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Model(&model.Asset{}).
		Where("id IN ?", ids).
		Where("NOT (location @> to_jsonb(?::text))", key).
		UpdateColumn("location", gorm.Expr("location || to_jsonb(?::text)", key)).Error
}

func (r *assetRepo) RemoveLocation(ctx context.Context, id uuid.UUID, key string) error {
	// jsonb "- text" removes a string element from an array; a no-op when the
	// element is absent, which keeps the operation idempotent.
	return r.db.WithContext(ctx).Model(&model.Asset{}).
		Where("id = ?", id).
		UpdateColumn("location", gorm.Expr("location - ?::text", key)).Error
}

func (r *assetRepo) PullLocationByStoryline(ctx context.Context, storylineID uuid.UUID) error {
	// Matches on the ":<storylineID>" suffix so keys written under an older
	// collection membership are retracted too.
	return r.db.WithContext(ctx).Exec(`
		UPDATE assets
		SET location = COALESCE((
			SELECT jsonb_agg(elem)
			FROM jsonb_array_elements_text(location) AS elem
			WHERE elem NOT LIKE '%:' || ?
		), '[]'::jsonb)
		WHERE EXISTS (
			SELECT 1
			FROM jsonb_array_elements_text(location) AS elem
			WHERE elem LIKE '%:' || ?
		)`, storylineID.String(), storylineID.String()).Error
}

func (r *assetRepo) PullLocationByCollection(ctx context.Context, collectionID uuid.UUID) error {
	// The collection prefix is a comma-joined id list; a UUID substring match
	// against it is unambiguous.
	return r.db.WithContext(ctx).Exec(`
		UPDATE assets
		SET location = COALESCE((
			SELECT jsonb_agg(elem)
			FROM jsonb_array_elements_text(location) AS elem
			WHERE split_part(elem, ':', 1) NOT LIKE '%' || ? || '%'
		), '[]'::jsonb)
		WHERE EXISTS (
			SELECT 1
			FROM jsonb_array_elements_text(location) AS elem
			WHERE split_part(elem, ':', 1) LIKE '%' || ? || '%'
		)`, collectionID.String(), collectionID.String()).Error
}
