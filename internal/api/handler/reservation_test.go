package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/sanosuguru/go-seat-saver/internal/application"
	"github.com/sanosuguru/go-seat-saver/internal/domain/allocation"
)

func TestReservationHandler_Reserve(t *testing.T) {
	reserved := &application.ReservationResult{
		Success: true,
		Message: application.MessageReserved,
		OrderID: 42,
		Seats:   []application.ReservedSeat{{RowNumber: 2, SeatNumber: 1}, {RowNumber: 2, SeatNumber: 2}},
	}
	notReserved := &application.ReservationResult{Message: application.MessageNotReserved, Reason: application.ReasonCriteriaNotMet}

	tests := []struct {
		name       string
		body       string
		wantInput  *application.ReserveInput
		result     *application.ReservationResult
		err        error
		wantStatus int
	}{
		{
			name:       "予約成功は201",
			body:       `{"customer_id":1,"event_id":2,"number_of_seats":2,"max_rows":2}`,
			wantInput:  &application.ReserveInput{CustomerID: 1, EventID: 2, NumberOfSeats: 2, MaxRows: 2},
			result:     reserved,
			wantStatus: http.StatusCreated,
		},
		{
			name:       "max_rows省略時は1列",
			body:       `{"customer_id":1,"event_id":2,"number_of_seats":2}`,
			wantInput:  &application.ReserveInput{CustomerID: 1, EventID: 2, NumberOfSeats: 2, MaxRows: 1},
			result:     reserved,
			wantStatus: http.StatusCreated,
		},
		{
			name:       "不正なイベントは404",
			body:       `{"customer_id":1,"event_id":999,"number_of_seats":2}`,
			wantInput:  &application.ReserveInput{CustomerID: 1, EventID: 999, NumberOfSeats: 2, MaxRows: 1},
			result:     &application.ReservationResult{Message: application.MessageInvalidEvent, Reason: application.ReasonInvalidEvent},
			wantStatus: http.StatusNotFound,
		},
		{
			name:       "不正な顧客は404",
			body:       `{"customer_id":999,"event_id":2,"number_of_seats":2}`,
			wantInput:  &application.ReserveInput{CustomerID: 999, EventID: 2, NumberOfSeats: 2, MaxRows: 1},
			result:     &application.ReservationResult{Message: application.MessageInvalidCustomer, Reason: application.ReasonInvalidCustomer},
			wantStatus: http.StatusNotFound,
		},
		{
			name:       "割り当て不可は409",
			body:       `{"customer_id":1,"event_id":2,"number_of_seats":30}`,
			wantInput:  &application.ReserveInput{CustomerID: 1, EventID: 2, NumberOfSeats: 30, MaxRows: 1},
			result:     notReserved,
			wantStatus: http.StatusConflict,
		},
		{
			name:       "確定失敗は409",
			body:       `{"customer_id":1,"event_id":2,"number_of_seats":3}`,
			wantInput:  &application.ReserveInput{CustomerID: 1, EventID: 2, NumberOfSeats: 3, MaxRows: 1},
			result:     &application.ReservationResult{Message: application.MessageNotReserved, Reason: application.ReasonCommitFailed},
			wantStatus: http.StatusConflict,
		},
		{
			name:       "壊れたJSONは400",
			body:       `{"customer_id":`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "座席数0は400",
			body:       `{"customer_id":1,"event_id":2,"number_of_seats":0}`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "max_rows 0は400",
			body:       `{"customer_id":1,"event_id":2,"number_of_seats":1,"max_rows":0}`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "サービスの入力エラーは400",
			body:       `{"customer_id":1,"event_id":2,"number_of_seats":1}`,
			wantInput:  &application.ReserveInput{CustomerID: 1, EventID: 2, NumberOfSeats: 1, MaxRows: 1},
			err:        allocation.ErrInvalidRequest,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "インフラ障害は500",
			body:       `{"customer_id":1,"event_id":2,"number_of_seats":1}`,
			wantInput:  &application.ReserveInput{CustomerID: 1, EventID: 2, NumberOfSeats: 1, MaxRows: 1},
			err:        errors.New("connection refused"),
			wantStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockReservationService)
			if tt.wantInput != nil {
				if tt.err != nil {
					svc.On("Reserve", mock.Anything, *tt.wantInput).Return(nil, tt.err)
				} else {
					svc.On("Reserve", mock.Anything, *tt.wantInput).Return(tt.result, nil)
				}
			}
			e := newTestServer(svc, nil, nil)

			rec := doRequest(e, http.MethodPost, "/api/v1/reservations", tt.body)

			assert.Equal(t, tt.wantStatus, rec.Code)
			svc.AssertExpectations(t)
			if tt.wantInput == nil {
				svc.AssertNotCalled(t, "Reserve", mock.Anything, mock.Anything)
			}
			if tt.result == nil {
				return
			}
			var resp ReservationResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.Equal(t, tt.result.Success, resp.Success)
			assert.Equal(t, tt.result.Message, resp.Message)
			assert.Equal(t, tt.result.OrderID, resp.OrderID)
			assert.Len(t, resp.Seats, len(tt.result.Seats))
		})
	}
}

func TestReservationResponse_FailureHasEmptySeats(t *testing.T) {
	resp := toReservationResponse(&application.ReservationResult{Message: application.MessageNotReserved, Reason: application.ReasonCriteriaNotMet})

	body, err := json.Marshal(resp)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"success": false,
		"message": "Unable to reserve the requested seats. Try a smaller order or allow seats to be split across more rows.",
		"order_id": 0,
		"seats": [],
		"reason": "criteria_not_met"
	}`, string(body))
}
