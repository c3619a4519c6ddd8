package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/sanosuguru/go-seat-saver/internal/domain/order"
)

type OrderHandler struct {
	service ReservationServiceInterface
}

func NewOrderHandler(s ReservationServiceInterface) *OrderHandler {
	return &OrderHandler{service: s}
}

type OrderResponse struct {
	ID         int64          `json:"id" example:"42"`
	CustomerID int64          `json:"customer_id" example:"1"`
	EventID    int64          `json:"event_id" example:"1"`
	Seats      []SeatResponse `json:"seats"`
	CreatedAt  string         `json:"created_at" example:"2025-12-06T10:00:00Z"`
}

func toOrderResponse(o *order.Order) OrderResponse {
	seats := make([]SeatResponse, len(o.Seats))
	for i, s := range o.Seats {
		seats[i] = SeatResponse{RowNumber: s.RowNumber, SeatNumber: s.SeatNumber}
	}
	return OrderResponse{
		ID:         o.ID,
		CustomerID: o.CustomerID,
		EventID:    o.EventID,
		Seats:      seats,
		CreatedAt:  o.CreatedAt.Format(time.RFC3339),
	}
}

// GetByID godoc
// @Summary 注文を取得
// @Tags orders
// @Produce json
// @Param id path int true "注文ID"
// @Success 200 {object} OrderResponse
// @Failure 400 {object} api.ErrorResponse
// @Failure 404 {object} api.ErrorResponse
// @Router /orders/{id} [get]
func (h *OrderHandler) GetByID(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	o, err := h.service.GetOrder(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, order.ErrOrderNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError).SetInternal(err)
	}
	return c.JSON(http.StatusOK, toOrderResponse(o))
}
