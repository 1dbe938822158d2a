package repo

import (
	"context"
	"errors"

	"github.com/talkative-se/powerbag-backend/internal/modules/model"
	"gorm.io/gorm"
)

type InfoRepo interface {
	// Get returns the singleton info document, nil when none exists yet.
	Get(ctx context.Context) (*model.Info, error)
	Create(ctx context.Context, i *model.Info) error
	Update(ctx context.Context, i *model.Info) error
}

type infoRepo struct{ db *gorm.DB }

func NewInfoRepo(db *gorm.DB) InfoRepo {
	return &infoRepo{db: db}
}

func (r *infoRepo) Get(ctx context.Context) (*model.Info, error) {
	var i model.Info
	err := r.db.WithContext(ctx).First(&i).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &i, nil
}

func (r *infoRepo) Create(ctx context.Context, i *model.Info) error {
	return r.db.WithContext(ctx).Create(i).Error
}

func (r *infoRepo) Update(ctx context.Context, i *model.Info) error {
	return r.db.WithContext(ctx).Save(i).Error
}
