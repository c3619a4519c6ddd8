package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/sanosuguru/go-seat-saver/internal/domain/event"
)

type EventHandler struct {
	eventService        EventServiceInterface
	availabilityService AvailabilityServiceInterface
}

func NewEventHandler(es EventServiceInterface, as AvailabilityServiceInterface) *EventHandler {
	return &EventHandler{eventService: es, availabilityService: as}
}

type EventResponse struct {
	ID       int64  `json:"id" example:"1"`
	VenueID  int64  `json:"venue_id" example:"1"`
	Name     string `json:"name" example:"東京ドームコンサート2025"`
	StartsAt string `json:"starts_at" example:"2025-12-31T18:00:00+09:00"`
}

type AvailabilityResponse struct {
	EventID        int64 `json:"event_id" example:"1"`
	TotalSeats     int   `json:"total_seats" example:"25"`
	AvailableSeats int   `json:"available_seats" example:"17"`
}

func toEventResponse(e *event.Event) EventResponse {
	return EventResponse{
		ID:       e.ID,
		VenueID:  e.VenueID,
		Name:     e.Name,
		StartsAt: e.StartsAt.Format(time.RFC3339),
	}
}

// List godoc
// @Summary イベント一覧を取得
// @Tags events
// @Produce json
// @Param limit query int false "取得件数" default(20)
// @Param offset query int false "オフセット" default(0)
// @Success 200 {array} EventResponse
// @Router /events [get]
func (h *EventHandler) List(c echo.Context) error {
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	offset, _ := strconv.Atoi(c.QueryParam("offset"))

	events, err := h.eventService.ListEvents(c.Request().Context(), limit, offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError).SetInternal(err)
	}
	resp := make([]EventResponse, len(events))
	for i, e := range events {
		resp[i] = toEventResponse(e)
	}
	return c.JSON(http.StatusOK, resp)
}

// GetByID godoc
// @Summary イベントを取得
// @Tags events
// @Produce json
// @Param id path int true "イベントID"
// @Success 200 {object} EventResponse
// @Failure 404 {object} api.ErrorResponse
// @Router /events/{id} [get]
func (h *EventHandler) GetByID(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	e, err := h.eventService.GetEvent(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, event.ErrEventNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError).SetInternal(err)
	}
	return c.JSON(http.StatusOK, toEventResponse(e))
}

// Availability godoc
// @Summary 空席数を取得
// @Tags events
// @Produce json
// @Param id path int true "イベントID"
// @Success 200 {object} AvailabilityResponse
// @Failure 404 {object} api.ErrorResponse
// @Router /events/{id}/availability [get]
func (h *EventHandler) Availability(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	a, err := h.availabilityService.CountAvailable(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, event.ErrEventNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError).SetInternal(err)
	}
	return c.JSON(http.StatusOK, AvailabilityResponse{
		EventID:        a.EventID,
		TotalSeats:     a.TotalSeats,
		AvailableSeats: a.AvailableSeats,
	})
}
