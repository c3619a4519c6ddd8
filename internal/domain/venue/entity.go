package venue

import "sort"

// Venue は会場を表す
type Venue struct {
	ID   int64
	Name string
}

// Row は会場の列を表す（Number が小さいほど前方）
type Row struct {
	ID      int64
	VenueID int64
	Number  int
	Seats   []Seat
}

// Seat は座席を表す
// 占有状態は座席自体には持たせず、確定済み注文から導出する
type Seat struct {
	ID        int64
	RowID     int64
	RowNumber int
	Number    int
}

// Layout はイベント会場の列・座席の読み取り専用ビュー
// 列は列番号順、座席は座席番号順に並ぶ
type Layout struct {
	VenueID int64
	rows    []Row
	seats   map[int64]Seat
}

// NewLayout は列と座席を番号順に整列し、座席IDの索引を作成する
func NewLayout(venueID int64, rows []Row) (*Layout, error) {
	sorted := make([]Row, len(rows))
	rowIDs := make(map[int64]struct{}, len(rows))
	seats := make(map[int64]Seat)

	for i, r := range rows {
		if _, dup := rowIDs[r.ID]; dup {
			return nil, ErrDuplicateRow
		}
		rowIDs[r.ID] = struct{}{}

		rowSeats := make([]Seat, len(r.Seats))
		for j, s := range r.Seats {
			if _, dup := seats[s.ID]; dup {
				return nil, ErrDuplicateSeat
			}
			s.RowID = r.ID
			s.RowNumber = r.Number
			rowSeats[j] = s
			seats[s.ID] = s
		}
		sort.SliceStable(rowSeats, func(a, b int) bool { return rowSeats[a].Number < rowSeats[b].Number })

		r.VenueID = venueID
		r.Seats = rowSeats
		sorted[i] = r
	}
	sort.SliceStable(sorted, func(a, b int) bool { return sorted[a].Number < sorted[b].Number })

	return &Layout{VenueID: venueID, rows: sorted, seats: seats}, nil
}

// Rows は列を列番号の昇順で返す
func (l *Layout) Rows() []Row {
	return l.rows
}

// SeatCount は会場の総座席数を返す
func (l *Layout) SeatCount() int {
	return len(l.seats)
}
