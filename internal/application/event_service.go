package application

import (
	"context"

	"github.com/sanosuguru/go-seat-saver/internal/domain/event"
)

const (
	defaultEventPageSize = 20
	maxEventPageSize     = 100
)

type EventService struct {
	eventRepo event.Repository
}

func NewEventService(er event.Repository) *EventService {
	return &EventService{eventRepo: er}
}

func (s *EventService) GetEvent(ctx context.Context, id int64) (*event.Event, error) {
	return s.eventRepo.GetByID(ctx, id)
}

// ListEvents はイベント一覧を取得する
// limit が範囲外の場合は既定値か上限に丸める
func (s *EventService) ListEvents(ctx context.Context, limit, offset int) ([]*event.Event, error) {
	if limit <= 0 {
		limit = defaultEventPageSize
	}
	if limit > maxEventPageSize {
		limit = maxEventPageSize
	}
	if offset < 0 {
		offset = 0
	}
	return s.eventRepo.List(ctx, limit, offset)
}
