package order

import "time"

// SeatLink は注文と座席の紐付けを表す
// 応答組み立て用に列番号・座席番号を解決済みで保持する
type SeatLink struct {
	SeatID     int64
	RowNumber  int
	SeatNumber int
}

// Order は注文エンティティを表す
// 作成後に変更されることはない
type Order struct {
	ID         int64
	CustomerID int64
	EventID    int64
	Seats      []SeatLink
	CreatedAt  time.Time
}

// NewOrder は新しい注文を作成する
func NewOrder(customerID, eventID int64, seats []SeatLink) *Order {
	return &Order{
		CustomerID: customerID,
		EventID:    eventID,
		Seats:      seats,
		CreatedAt:  time.Now(),
	}
}

// SeatIDs は注文に含まれる座席IDを返す
func (o *Order) SeatIDs() []int64 {
	ids := make([]int64, len(o.Seats))
	for i, s := range o.Seats {
		ids[i] = s.SeatID
	}
	return ids
}

// Validate は注文の検証を行う
func (o *Order) Validate() error {
	if o.CustomerID <= 0 {
		return ErrCustomerIDRequired
	}
	if o.EventID <= 0 {
		return ErrEventIDRequired
	}
	if len(o.Seats) == 0 {
		return ErrSeatsRequired
	}
	seen := make(map[int64]struct{}, len(o.Seats))
	for _, s := range o.Seats {
		if _, dup := seen[s.SeatID]; dup {
			return ErrDuplicateSeat
		}
		seen[s.SeatID] = struct{}{}
	}
	return nil
}
