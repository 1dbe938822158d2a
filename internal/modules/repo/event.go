package repo

import (
	"context"

	"github.com/talkative-se/powerbag-backend/internal/modules/model"
	"gorm.io/gorm"
)

type EventRepo interface {
	List(ctx context.Context) ([]*model.Event, error)
}

type eventRepo struct{ db *gorm.DB }

func NewEventRepo(db *gorm.DB) EventRepo {
	return &eventRepo{db: db}
}

func (r *eventRepo) List(ctx context.Context) ([]*model.Event, error) {
	var events []*model.Event
	err := r.db.WithContext(ctx).Order("create_date DESC").Find(&events).Error
	if err != nil {
		return nil, err
	}
	return events, nil
}
