package service

import (
	"context"

	"github.com/talkative-se/powerbag-backend/internal/modules/model"
	"github.com/talkative-se/powerbag-backend/internal/modules/repo"
)

type EventService interface {
	List(ctx context.Context) ([]*model.Event, error)
}

type eventService struct {
	r repo.EventRepo
}

func NewEventService(r repo.EventRepo) EventService {
	return &eventService{r: r}
}

func (s *eventService) List(ctx context.Context) ([]*model.Event, error) {
	return s.r.List(ctx)
}
