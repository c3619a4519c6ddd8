package application

import (
	"context"
	"errors"

	"github.com/stretchr/testify/mock"

	"github.com/sanosuguru/go-seat-saver/internal/domain/event"
	"github.com/sanosuguru/go-seat-saver/internal/domain/order"
	"github.com/sanosuguru/go-seat-saver/internal/domain/transaction"
)

// MockTxManager implements transaction.Manager
type MockTxManager struct {
	mock.Mock
}

func (m *MockTxManager) Begin(ctx context.Context) (transaction.Tx, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(transaction.Tx), args.Error(1)
}

// MockTx implements transaction.Tx
type MockTx struct {
	mock.Mock
}

func (m *MockTx) Commit() error {
	return m.Called().Error(0)
}

func (m *MockTx) Rollback() error {
	return m.Called().Error(0)
}

// MockOrderRepository implements order.Repository
type MockOrderRepository struct {
	mock.Mock
}

func (m *MockOrderRepository) Create(ctx context.Context, tx transaction.Tx, o *order.Order) error {
	return m.Called(ctx, tx, o).Error(0)
}

func (m *MockOrderRepository) GetByID(ctx context.Context, id int64) (*order.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrderRepository) TakenSeatIDs(ctx context.Context, eventID int64) ([]int64, error) {
	args := m.Called(ctx, eventID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]int64), args.Error(1)
}

func (m *MockOrderRepository) CountTakenSeats(ctx context.Context, eventID int64) (int, error) {
	args := m.Called(ctx, eventID)
	return args.Int(0), args.Error(1)
}

// MockEventRepository implements event.Repository
type MockEventRepository struct {
	mock.Mock
}

func (m *MockEventRepository) CountByID(ctx context.Context, id int64) (int, error) {
	args := m.Called(ctx, id)
	return args.Int(0), args.Error(1)
}

func (m *MockEventRepository) GetByID(ctx context.Context, id int64) (*event.Event, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*event.Event), args.Error(1)
}

func (m *MockEventRepository) List(ctx context.Context, limit, offset int) ([]*event.Event, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*event.Event), args.Error(1)
}

// MockAvailabilityCache implements AvailabilityCache
type MockAvailabilityCache struct {
	mock.Mock
}

func (m *MockAvailabilityCache) GetAvailableCount(ctx context.Context, eventID int64) (int, error) {
	args := m.Called(ctx, eventID)
	return args.Int(0), args.Error(1)
}

func (m *MockAvailabilityCache) SetAvailableCount(ctx context.Context, eventID int64, count int) error {
	return m.Called(ctx, eventID, count).Error(0)
}

func (m *MockAvailabilityCache) Invalidate(ctx context.Context, eventID int64) error {
	return m.Called(ctx, eventID).Error(0)
}

// MockPublisher implements OrderPublisher
type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) PublishOrderCreated(ctx context.Context, o *order.Order) error {
	return m.Called(ctx, o).Error(0)
}

// failingGate は常に取得に失敗するゲート
type failingGate struct{}

var errGateUnavailable = errors.New("gate unavailable")

func (failingGate) Acquire(context.Context) (func(), error) {
	return nil, errGateUnavailable
}
