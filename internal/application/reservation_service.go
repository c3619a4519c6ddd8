package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/sanosuguru/go-seat-saver/internal/domain/allocation"
	"github.com/sanosuguru/go-seat-saver/internal/domain/customer"
	"github.com/sanosuguru/go-seat-saver/internal/domain/event"
	"github.com/sanosuguru/go-seat-saver/internal/domain/order"
	"github.com/sanosuguru/go-seat-saver/internal/domain/transaction"
	"github.com/sanosuguru/go-seat-saver/internal/domain/venue"
	"github.com/sanosuguru/go-seat-saver/internal/pkg/logger"
	"github.com/sanosuguru/go-seat-saver/internal/pkg/metrics"
)

// DefaultMaxRows は最大列数が未指定の場合の値
const DefaultMaxRows = 1

// 予約結果メッセージ（APIの利用者向けにそのまま返す）
const (
	MessageReserved        = "Your seats were successfully reserved."
	MessageInvalidEvent    = "You supplied an invalid EventID."
	MessageInvalidCustomer = "You supplied an invalid CustomerID."
	MessageNotReserved     = "Unable to reserve the requested seats. Try a smaller order or allow seats to be split across more rows."
)

// Reason は予約失敗の理由
type Reason string

const (
	ReasonNone            Reason = ""
	ReasonInvalidEvent    Reason = "invalid_event"
	ReasonInvalidCustomer Reason = "invalid_customer"
	ReasonCriteriaNotMet  Reason = "criteria_not_met"
	ReasonCommitFailed    Reason = "commit_failed"
)

// status はメトリクスのラベル値を返す
func (r Reason) status() string {
	switch r {
	case ReasonNone:
		return metrics.StatusSuccess
	case ReasonInvalidEvent:
		return metrics.StatusInvalidEvent
	case ReasonInvalidCustomer:
		return metrics.StatusInvalidCustomer
	case ReasonCriteriaNotMet:
		return metrics.StatusUnsatisfiable
	case ReasonCommitFailed:
		return metrics.StatusCommitFailed
	}
	return metrics.StatusError
}

type ReserveInput struct {
	CustomerID    int64
	EventID       int64
	NumberOfSeats int
	MaxRows       int
}

// ReservedSeat は確保した座席の列番号と座席番号
type ReservedSeat struct {
	RowNumber  int
	SeatNumber int
}

// ReservationResult は予約の結果
// 失敗時は OrderID が0で Seats は空
type ReservationResult struct {
	Success bool
	Message string
	OrderID int64
	Seats   []ReservedSeat
	Reason  Reason
}

func failure(reason Reason) *ReservationResult {
	msg := MessageNotReserved
	switch reason {
	case ReasonInvalidEvent:
		msg = MessageInvalidEvent
	case ReasonInvalidCustomer:
		msg = MessageInvalidCustomer
	}
	return &ReservationResult{Message: msg, Reason: reason}
}

func success(o *order.Order) *ReservationResult {
	seats := make([]ReservedSeat, len(o.Seats))
	for i, s := range o.Seats {
		seats[i] = ReservedSeat{RowNumber: s.RowNumber, SeatNumber: s.SeatNumber}
	}
	return &ReservationResult{Success: true, Message: MessageReserved, OrderID: o.ID, Seats: seats}
}

// AvailabilityInvalidator は空席数キャッシュの無効化を行う
type AvailabilityInvalidator interface {
	Invalidate(ctx context.Context, eventID int64) error
}

// OrderPublisher は注文確定イベントを外部へ通知する
type OrderPublisher interface {
	PublishOrderCreated(ctx context.Context, o *order.Order) error
}

type ReservationService struct {
	gate         Gate
	committer    *OrderCommitter
	eventRepo    event.Repository
	customerRepo customer.Repository
	venueRepo    venue.Repository
	orderRepo    order.Repository
	cache        AvailabilityInvalidator
	publisher    OrderPublisher
	metrics      *metrics.Metrics
}

// ServiceOption は ReservationService の任意設定
type ServiceOption func(*ReservationService)

// WithAvailabilityCache は確定後に無効化する空席数キャッシュを設定する
func WithAvailabilityCache(c AvailabilityInvalidator) ServiceOption {
	return func(s *ReservationService) { s.cache = c }
}

// WithPublisher は確定後の通知先を設定する
func WithPublisher(p OrderPublisher) ServiceOption {
	return func(s *ReservationService) { s.publisher = p }
}

func WithMetrics(m *metrics.Metrics) ServiceOption {
	return func(s *ReservationService) { s.metrics = m }
}

func NewReservationService(
	gate Gate,
	tm transaction.Manager,
	er event.Repository,
	cr customer.Repository,
	vr venue.Repository,
	or order.Repository,
	opts ...ServiceOption,
) *ReservationService {
	s := &ReservationService{
		gate:         gate,
		committer:    NewOrderCommitter(tm, or),
		eventRepo:    er,
		customerRepo: cr,
		venueRepo:    vr,
		orderRepo:    or,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Reserve は座席を割り当てて注文を確定する
// 検証失敗・割り当て不可・確定失敗は ReservationResult で返し、
// 確定前のインフラ障害は error で返す
func (s *ReservationService) Reserve(ctx context.Context, input ReserveInput) (*ReservationResult, error) {
	if input.MaxRows == 0 {
		input.MaxRows = DefaultMaxRows
	}
	if input.NumberOfSeats < 1 || input.MaxRows < 1 {
		return nil, allocation.ErrInvalidRequest
	}

	log := logger.ForReservation(input.CustomerID, input.EventID)

	result, o, err := s.reserveExclusive(ctx, input, log)
	if err != nil {
		s.count(metrics.StatusError)
		log.Error("予約処理に失敗", zap.Error(err))
		return nil, err
	}
	s.count(result.Reason.status())

	if !result.Success {
		log.Info("予約不成立",
			zap.String("reason", string(result.Reason)),
			zap.Int("number_of_seats", input.NumberOfSeats),
			zap.Int("max_rows", input.MaxRows),
		)
		return result, nil
	}

	if s.metrics != nil {
		s.metrics.SeatsReservedTotal.Add(float64(len(o.Seats)))
	}
	log.Info("予約確定", zap.Int64("order_id", o.ID), zap.Int("seats", len(o.Seats)))
	s.afterCommit(ctx, o, log)
	return result, nil
}

// reserveExclusive はゲート内で検証・割り当て・確定を行う
func (s *ReservationService) reserveExclusive(ctx context.Context, input ReserveInput, log *zap.Logger) (*ReservationResult, *order.Order, error) {
	release, err := s.gate.Acquire(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("予約ゲートの取得に失敗: %w", err)
	}
	defer release()

	n, err := s.eventRepo.CountByID(ctx, input.EventID)
	if err != nil {
		return nil, nil, fmt.Errorf("イベントの検証に失敗: %w", err)
	}
	if n != 1 {
		return failure(ReasonInvalidEvent), nil, nil
	}

	n, err = s.customerRepo.CountByID(ctx, input.CustomerID)
	if err != nil {
		return nil, nil, fmt.Errorf("顧客の検証に失敗: %w", err)
	}
	if n != 1 {
		return failure(ReasonInvalidCustomer), nil, nil
	}

	layout, err := s.venueRepo.GetLayoutByEventID(ctx, input.EventID)
	if err != nil {
		return nil, nil, fmt.Errorf("座席配置の取得に失敗: %w", err)
	}
	takenIDs, err := s.orderRepo.TakenSeatIDs(ctx, input.EventID)
	if err != nil {
		return nil, nil, fmt.Errorf("確保済み座席の取得に失敗: %w", err)
	}

	start := time.Now()
	sel, err := allocation.Allocate(layout, allocation.NewTakenSet(takenIDs), input.NumberOfSeats, input.MaxRows)
	if s.metrics != nil {
		s.metrics.AllocationDuration.Observe(time.Since(start).Seconds())
	}
	if err != nil {
		if errors.Is(err, allocation.ErrUnsatisfiable) {
			return failure(ReasonCriteriaNotMet), nil, nil
		}
		return nil, nil, fmt.Errorf("座席割り当てに失敗: %w", err)
	}

	o, err := s.committer.Commit(ctx, input.CustomerID, input.EventID, sel)
	if err != nil {
		if errors.Is(err, ErrCommitFailed) {
			log.Error("注文の確定に失敗", zap.Error(err), zap.Int64s("seat_ids", sel.SeatIDs()))
			return failure(ReasonCommitFailed), nil, nil
		}
		return nil, nil, err
	}
	return success(o), o, nil
}

// afterCommit は確定後の付随処理を行う
// ここでの失敗は予約結果に影響させない
func (s *ReservationService) afterCommit(ctx context.Context, o *order.Order, log *zap.Logger) {
	if s.cache != nil {
		if err := s.cache.Invalidate(ctx, o.EventID); err != nil {
			log.Warn("空席数キャッシュの無効化に失敗", zap.Error(err))
		}
	}
	if s.publisher != nil {
		if err := s.publisher.PublishOrderCreated(ctx, o); err != nil {
			log.Warn("注文確定イベントの発行に失敗", zap.Int64("order_id", o.ID), zap.Error(err))
		}
	}
}

func (s *ReservationService) count(status string) {
	if s.metrics != nil {
		s.metrics.ReservationsTotal.WithLabelValues(status).Inc()
	}
}

// GetOrder はIDから注文を取得する
func (s *ReservationService) GetOrder(ctx context.Context, id int64) (*order.Order, error) {
	return s.orderRepo.GetByID(ctx, id)
}
