package handler

import "github.com/labstack/echo/v4"

// Handlers はルーティング対象のハンドラー群
type Handlers struct {
	Reservation *ReservationHandler
	Order       *OrderHandler
	Event       *EventHandler
	Health      *HealthHandler
}

// RegisterRoutes はAPIのルートを登録する
func RegisterRoutes(e *echo.Echo, h Handlers) {
	e.GET("/health", h.Health.Check)
	e.GET("/ready", h.Health.Ready)

	v1 := e.Group("/api/v1")
	v1.POST("/reservations", h.Reservation.Reserve)
	v1.GET("/orders/:id", h.Order.GetByID)
	v1.GET("/events", h.Event.List)
	v1.GET("/events/:id", h.Event.GetByID)
	v1.GET("/events/:id/availability", h.Event.Availability)
}
