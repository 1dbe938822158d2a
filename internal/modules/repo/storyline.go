package repo

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/talkative-se/powerbag-backend/internal/modules/model"
	"gorm.io/gorm"
)

type StorylineRepo interface {
	Create(ctx context.Context, s *model.Storyline) error
	Update(ctx context.Context, s *model.Storyline) error
	Delete(ctx context.Context, id uuid.UUID) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Storyline, error)
	List(ctx context.Context, status model.Status, titles []string) ([]*model.Storyline, error)

	// FindPreviewByCollection lists the preview storylines belonging to a
	// collection.
	FindPreviewByCollection(ctx context.Context, collectionID uuid.UUID) ([]*model.Storyline, error)
	FindPublishedByCollection(ctx context.Context, collectionID uuid.UUID) ([]*model.Storyline, error)
	// FindPublishedByPreviewID resolves a preview storyline's published twin,
	// nil when it has never been published.
	FindPublishedByPreviewID(ctx context.Context, previewID uuid.UUID) (*model.Storyline, error)
	FindPreviewsByTitle(ctx context.Context, title string) ([]*model.Storyline, error)

	// PullCollection removes a collection id from every storyline's
	// collections set.
	PullCollection(ctx context.Context, collectionID uuid.UUID) error
}

type storylineRepo struct{ db *gorm.DB }

func NewStorylineRepo(db *gorm.DB) StorylineRepo {
	return &storylineRepo{db: db}
}

func (r *storylineRepo) Create(ctx context.Context, s *model.Storyline) error {
	return r.db.WithContext(ctx).Create(s).Error
}

func (r *storylineRepo) Update(ctx context.Context, s *model.Storyline) error {
	return r.db.WithContext(ctx).Save(s).Error
}

func (r *storylineRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Storyline{}).Error
}

func (r *storylineRepo) GetByID(ctx context.Context, id uuid.UUID) (*model.Storyline, error) {
	var s model.Storyline
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&s).Error; err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *storylineRepo) List(ctx context.Context, status model.Status, titles []string) ([]*model.Storyline, error) {
	query := r.db.WithContext(ctx).Where("status = ?", status)
	if len(titles) > 0 {
		query = query.Where("title IN ?", titles)
	}

	var storylines []*model.Storyline
	if err := query.Find(&storylines).Error; err != nil {
		return nil, err
	}
	return storylines, nil
}

func (r *storylineRepo) FindPreviewByCollection(ctx context.Context, collectionID uuid.UUID) ([]*model.Storyline, error) {
	return r.findByCollection(ctx, collectionID, model.StatusPreview)
}

func (r *storylineRepo) FindPublishedByCollection(ctx context.Context, collectionID uuid.UUID) ([]*model.Storyline, error) {
	return r.findByCollection(ctx, collectionID, model.StatusPublished)
}

func (r *storylineRepo) findByCollection(ctx context.Context, collectionID uuid.UUID, status model.Status) ([]*model.Storyline, error) {
	var storylines []*model.Storyline
	err := r.db.WithContext(ctx).
		Where("status = ?", status).
		Where("collections @> to_jsonb(?::text)", collectionID.String()).
		Find(&storylines).Error
	if err != nil {
		return nil, err
	}
	return storylines, nil
}

func (r *storylineRepo) FindPublishedByPreviewID(ctx context.Context, previewID uuid.UUID) (*model.Storyline, error) {
	var s model.Storyline
	err := r.db.WithContext(ctx).
		Where("status = ? AND preview_version_id = ?", model.StatusPublished, previewID).
		First(&s).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &s, nil
}

func (r *storylineRepo) FindPreviewsByTitle(ctx context.Context, title string) ([]*model.Storyline, error) {
	var storylines []*model.Storyline
	err := r.db.WithContext(ctx).
		Where("status = ? AND title = ?", model.StatusPreview, title).
		Find(&storylines).Error
	if err != nil {
		return nil, err
	}
	return storylines, nil
}

func (r *storylineRepo) PullCollection(ctx context.Context, collectionID uuid.UUID) error {
	return r.db.WithContext(ctx).Exec(`
		UPDATE storylines
		SET collections = COALESCE((
			SELECT jsonb_agg(elem)
			FROM jsonb_array_elements_text(collections) AS elem
			WHERE elem <> ?
		), '[]'::jsonb)
		WHERE collections @> to_jsonb(?::text)`,
		collectionID.String(), collectionID.String()).Error
}
