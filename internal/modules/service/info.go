package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/talkative-se/powerbag-backend/internal/modules/model"
	"github.com/talkative-se/powerbag-backend/internal/modules/repo"
)

type InfoService interface {
	Get(ctx context.Context) (*model.Info, error)
	// Update overwrites the singleton document, creating it on first write.
	Update(ctx context.Context, en, nl string) (*model.Info, error)
}

type infoService struct {
	r repo.InfoRepo
}

func NewInfoService(r repo.InfoRepo) InfoService {
	return &infoService{r: r}
}

func (s *infoService) Get(ctx context.Context) (*model.Info, error) {
	info, err := s.r.Get(ctx)
	if err != nil {
		return nil, err
	}
	if info == nil {
		return nil, fmt.Errorf("%w: info document", ErrNotFound)
	}
	return info, nil
}

func (s *infoService) Update(ctx context.Context, en, nl string) (*model.Info, error) {
	info, err := s.r.Get(ctx)
	if err != nil {
		return nil, err
	}
	if info == nil {
		info = &model.Info{ID: uuid.New(), En: en, Nl: nl}
		if err := s.r.Create(ctx, info); err != nil {
			return nil, fmt.Errorf("create info: %w", err)
		}
		return info, nil
	}

	info.En = en
	info.Nl = nl
	if err := s.r.Update(ctx, info); err != nil {
		return nil, fmt.Errorf("update info: %w", err)
	}
	return info, nil
}
