package allocation

import "github.com/sanosuguru/go-seat-saver/internal/domain/venue"

// TakenSet はイベントで確保済みの座席ID集合
type TakenSet map[int64]struct{}

// NewTakenSet は座席ID一覧から集合を作成する
func NewTakenSet(ids []int64) TakenSet {
	t := make(TakenSet, len(ids))
	for _, id := range ids {
		t[id] = struct{}{}
	}
	return t
}

// Contains は座席が確保済みかを返す
func (t TakenSet) Contains(seatID int64) bool {
	_, ok := t[seatID]
	return ok
}

// Selection は割り当て途中・完了の座席候補（未永続化）
type Selection []venue.Seat

// RowCount は候補が使用している列の数を返す
func (s Selection) RowCount() int {
	rows := make(map[int64]struct{})
	for _, seat := range s {
		rows[seat.RowID] = struct{}{}
	}
	return len(rows)
}

// SeatIDs は候補の座席IDを順に返す
func (s Selection) SeatIDs() []int64 {
	ids := make([]int64, len(s))
	for i, seat := range s {
		ids[i] = seat.ID
	}
	return ids
}
