package handler

import (
	"context"
	"io"
	"net/http/httptest"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/mock"

	"github.com/sanosuguru/go-seat-saver/internal/application"
	"github.com/sanosuguru/go-seat-saver/internal/domain/event"
	"github.com/sanosuguru/go-seat-saver/internal/domain/order"
)

// MockReservationService はReservationServiceInterfaceのモック
type MockReservationService struct {
	mock.Mock
}

func (m *MockReservationService) Reserve(ctx context.Context, input application.ReserveInput) (*application.ReservationResult, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*application.ReservationResult), args.Error(1)
}

func (m *MockReservationService) GetOrder(ctx context.Context, id int64) (*order.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

// MockEventService はEventServiceInterfaceのモック
type MockEventService struct {
	mock.Mock
}

func (m *MockEventService) GetEvent(ctx context.Context, id int64) (*event.Event, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*event.Event), args.Error(1)
}

func (m *MockEventService) ListEvents(ctx context.Context, limit, offset int) ([]*event.Event, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*event.Event), args.Error(1)
}

// MockAvailabilityService はAvailabilityServiceInterfaceのモック
type MockAvailabilityService struct {
	mock.Mock
}

func (m *MockAvailabilityService) CountAvailable(ctx context.Context, eventID int64) (*application.Availability, error) {
	args := m.Called(ctx, eventID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*application.Availability), args.Error(1)
}

// stubPinger は固定結果を返す Pinger
type stubPinger struct {
	name string
	err  error
}

func (p stubPinger) Name() string { return p.name }
func (p stubPinger) Ping(ctx context.Context) error { return p.err }

// newTestServer は全ルートを登録したテスト用サーバーを作る
func newTestServer(rs ReservationServiceInterface, es EventServiceInterface, as AvailabilityServiceInterface, pingers ...Pinger) *echo.Echo {
	e := NewTestEcho()
	RegisterRoutes(e, Handlers{
		Reservation: NewReservationHandler(rs),
		Order:       NewOrderHandler(rs),
		Event:       NewEventHandler(es, as),
		Health:      NewHealthHandler(pingers...),
	})
	return e
}

func doRequest(e *echo.Echo, method, path, body string) *httptest.ResponseRecorder {
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}
