package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/sanosuguru/go-seat-saver/internal/application"
	"github.com/sanosuguru/go-seat-saver/internal/domain/allocation"
)

type ReservationHandler struct {
	service ReservationServiceInterface
}

func NewReservationHandler(s ReservationServiceInterface) *ReservationHandler {
	return &ReservationHandler{service: s}
}

// ReserveRequest は座席予約リクエスト
// max_rows を省略した場合は1列に収める
type ReserveRequest struct {
	CustomerID    int64 `json:"customer_id" example:"1"`
	EventID       int64 `json:"event_id" example:"1"`
	NumberOfSeats int   `json:"number_of_seats" validate:"required,gte=1" example:"4"`
	MaxRows       *int  `json:"max_rows" validate:"omitempty,gte=1" example:"2"`
}

type SeatResponse struct {
	RowNumber  int `json:"row_number" example:"3"`
	SeatNumber int `json:"seat_number" example:"7"`
}

type ReservationResponse struct {
	Success bool           `json:"success" example:"true"`
	Message string         `json:"message" example:"Your seats were successfully reserved."`
	OrderID int64          `json:"order_id" example:"42"`
	Seats   []SeatResponse `json:"seats"`
	Reason  string         `json:"reason,omitempty" example:"criteria_not_met"`
}

func toReservationResponse(r *application.ReservationResult) ReservationResponse {
	seats := make([]SeatResponse, len(r.Seats))
	for i, s := range r.Seats {
		seats[i] = SeatResponse{RowNumber: s.RowNumber, SeatNumber: s.SeatNumber}
	}
	return ReservationResponse{
		Success: r.Success,
		Message: r.Message,
		OrderID: r.OrderID,
		Seats:   seats,
		Reason:  string(r.Reason),
	}
}

// statusFor は予約結果に対応するHTTPステータスを返す
func statusFor(r *application.ReservationResult) int {
	switch r.Reason {
	case application.ReasonNone:
		return http.StatusCreated
	case application.ReasonInvalidEvent, application.ReasonInvalidCustomer:
		return http.StatusNotFound
	default:
		return http.StatusConflict
	}
}

// Reserve godoc
// @Summary 座席を予約
// @Description 指定数の座席を最大列数以内で割り当て、注文を確定します
// @Tags reservations
// @Accept json
// @Produce json
// @Param request body ReserveRequest true "予約条件"
// @Success 201 {object} ReservationResponse
// @Failure 400 {object} api.ErrorResponse
// @Failure 404 {object} ReservationResponse "イベントまたは顧客が不正"
// @Failure 409 {object} ReservationResponse "条件を満たす座席がない"
// @Router /reservations [post]
func (h *ReservationHandler) Reserve(c echo.Context) error {
	var req ReserveRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "無効なリクエスト")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	maxRows := application.DefaultMaxRows
	if req.MaxRows != nil {
		maxRows = *req.MaxRows
	}

	result, err := h.service.Reserve(c.Request().Context(), application.ReserveInput{
		CustomerID:    req.CustomerID,
		EventID:       req.EventID,
		NumberOfSeats: req.NumberOfSeats,
		MaxRows:       maxRows,
	})
	if err != nil {
		if errors.Is(err, allocation.ErrInvalidRequest) {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "予約処理に失敗しました").SetInternal(err)
	}
	return c.JSON(statusFor(result), toReservationResponse(result))
}
