package handler

import (
	"context"

	"github.com/sanosuguru/go-seat-saver/internal/application"
	"github.com/sanosuguru/go-seat-saver/internal/domain/event"
	"github.com/sanosuguru/go-seat-saver/internal/domain/order"
)

// ReservationServiceInterface は予約サービスのインターフェース
type ReservationServiceInterface interface {
	Reserve(ctx context.Context, input application.ReserveInput) (*application.ReservationResult, error)
	GetOrder(ctx context.Context, id int64) (*order.Order, error)
}

// AvailabilityServiceInterface は空席数サービスのインターフェース
type AvailabilityServiceInterface interface {
	CountAvailable(ctx context.Context, eventID int64) (*application.Availability, error)
}

// EventServiceInterface はイベントサービスのインターフェース
type EventServiceInterface interface {
	GetEvent(ctx context.Context, id int64) (*event.Event, error)
	ListEvents(ctx context.Context, limit, offset int) ([]*event.Event, error)
}

// Pinger は依存先の疎通確認
type Pinger interface {
	Name() string
	Ping(ctx context.Context) error
}
