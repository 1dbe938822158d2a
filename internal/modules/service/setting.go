package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/talkative-se/powerbag-backend/internal/modules/model"
	"github.com/talkative-se/powerbag-backend/internal/modules/repo"
)

type UpsertSettingInput struct {
	Key         string
	Value       string
	Type        string
	Description string
	Category    string
	IsPublic    bool
}

type SettingService interface {
	List(ctx context.Context) ([]*model.Setting, error)
	ListPublic(ctx context.Context) ([]*model.Setting, error)
	Get(ctx context.Context, key string) (*model.Setting, error)
	Upsert(ctx context.Context, in UpsertSettingInput) (*model.Setting, error)
}

type settingService struct {
	r           repo.SettingRepo
	collections repo.CollectionRepo
}

func NewSettingService(r repo.SettingRepo, collections repo.CollectionRepo) SettingService {
	return &settingService{r: r, collections: collections}
}

func (s *settingService) List(ctx context.Context) ([]*model.Setting, error) {
	return s.r.List(ctx)
}

func (s *settingService) ListPublic(ctx context.Context) ([]*model.Setting, error) {
	return s.r.ListPublic(ctx)
}

func (s *settingService) Get(ctx context.Context, key string) (*model.Setting, error) {
	setting, err := s.r.FindByKey(ctx, key)
	if err != nil {
		return nil, err
	}
	if setting == nil {
		return nil, fmt.Errorf("%w: setting %q", ErrNotFound, key)
	}
	return setting, nil
}

func (s *settingService) Upsert(ctx context.Context, in UpsertSettingInput) (*model.Setting, error) {
	if in.Key == "" {
		return nil, fmt.Errorf("%w: key is required", ErrValidation)
	}
	if err := s.validateValue(ctx, in); err != nil {
		return nil, err
	}

	if in.Category == "" {
		in.Category = "general"
	}
	setting := &model.Setting{
		ID:          uuid.New(),
		Key:         in.Key,
		Value:       in.Value,
		Type:        in.Type,
		Description: in.Description,
		Category:    in.Category,
		IsPublic:    in.IsPublic,
	}
	if err := s.r.Upsert(ctx, setting); err != nil {
		return nil, fmt.Errorf("upsert setting: %w", err)
	}
	return s.Get(ctx, in.Key)
}

// validateValue guards settings whose values point at other records.
func (s *settingService) validateValue(ctx context.Context, in UpsertSettingInput) error {
	if in.Key != model.SettingWebsiteCollection || in.Value == "" {
		return nil
	}

	id, err := uuid.Parse(in.Value)
	if err != nil {
		return fmt.Errorf("%w: %s must be a collection id", ErrValidation, in.Key)
	}
	if _, err := s.collections.GetByID(ctx, id, model.StatusPublished); err != nil {
		return fmt.Errorf("%w: %s names no published collection", ErrValidation, in.Key)
	}
	return nil
}
