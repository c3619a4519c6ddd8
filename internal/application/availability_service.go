package application

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/sanosuguru/go-seat-saver/internal/domain/event"
	"github.com/sanosuguru/go-seat-saver/internal/domain/order"
	"github.com/sanosuguru/go-seat-saver/internal/domain/venue"
	"github.com/sanosuguru/go-seat-saver/internal/pkg/logger"
)

// refreshPageSize は RefreshAll で一度に読むイベント数
const refreshPageSize = 100

// AvailabilityCache はイベントごとの空席数キャッシュ
type AvailabilityCache interface {
	GetAvailableCount(ctx context.Context, eventID int64) (int, error)
	SetAvailableCount(ctx context.Context, eventID int64, count int) error
	AvailabilityInvalidator
}

// Availability はイベントの座席数と空席数
type Availability struct {
	EventID        int64
	TotalSeats     int
	AvailableSeats int
}

type AvailabilityService struct {
	eventRepo event.Repository
	venueRepo venue.Repository
	orderRepo order.Repository
	cache     AvailabilityCache
}

// NewAvailabilityService は AvailabilityService を作成する（cache は nil 可）
func NewAvailabilityService(er event.Repository, vr venue.Repository, or order.Repository, cache AvailabilityCache) *AvailabilityService {
	return &AvailabilityService{eventRepo: er, venueRepo: vr, orderRepo: or, cache: cache}
}

// CountAvailable はイベントの空席数を返す
// キャッシュにあればそれを使い、なければ集計してキャッシュする
func (s *AvailabilityService) CountAvailable(ctx context.Context, eventID int64) (*Availability, error) {
	n, err := s.eventRepo.CountByID(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("イベントの検証に失敗: %w", err)
	}
	if n == 0 {
		return nil, event.ErrEventNotFound
	}

	total, err := s.venueRepo.CountSeatsByEventID(ctx, eventID)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if cached, err := s.cache.GetAvailableCount(ctx, eventID); err == nil {
			return &Availability{EventID: eventID, TotalSeats: total, AvailableSeats: cached}, nil
		}
	}

	return s.refresh(ctx, eventID, total)
}

// RefreshAll は全イベントの空席数を再集計してキャッシュする
func (s *AvailabilityService) RefreshAll(ctx context.Context) (int, error) {
	var refreshed int
	for offset := 0; ; offset += refreshPageSize {
		events, err := s.eventRepo.List(ctx, refreshPageSize, offset)
		if err != nil {
			return refreshed, err
		}
		for _, ev := range events {
			if err := ctx.Err(); err != nil {
				return refreshed, err
			}
			total, err := s.venueRepo.CountSeatsByEventID(ctx, ev.ID)
			if err != nil {
				return refreshed, err
			}
			if _, err := s.refresh(ctx, ev.ID, total); err != nil {
				return refreshed, err
			}
			refreshed++
		}
		if len(events) < refreshPageSize {
			return refreshed, nil
		}
	}
}

func (s *AvailabilityService) refresh(ctx context.Context, eventID int64, total int) (*Availability, error) {
	taken, err := s.orderRepo.CountTakenSeats(ctx, eventID)
	if err != nil {
		return nil, err
	}
	available := total - taken
	if s.cache != nil {
		if err := s.cache.SetAvailableCount(ctx, eventID, available); err != nil {
			logger.Warn("空席数のキャッシュ保存に失敗", zap.Int64("event_id", eventID), zap.Error(err))
		}
	}
	return &Availability{EventID: eventID, TotalSeats: total, AvailableSeats: available}, nil
}
