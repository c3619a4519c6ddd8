package allocation

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sanosuguru/go-seat-saver/internal/domain/venue"
)

// seatID は列番号と座席番号からテスト用の座席IDを作る
func seatID(row, seat int) int64 {
	return int64(row*100 + seat)
}

// gridLayout は rows x seats の会場を作成する
func gridLayout(t *testing.T, rows, seats int) *venue.Layout {
	t.Helper()
	rs := make([]venue.Row, 0, rows)
	for r := 1; r <= rows; r++ {
		row := venue.Row{ID: int64(r), Number: r}
		for s := 1; s <= seats; s++ {
			row.Seats = append(row.Seats, venue.Seat{ID: seatID(r, s), Number: s})
		}
		rs = append(rs, row)
	}
	layout, err := venue.NewLayout(1, rs)
	require.NoError(t, err)
	return layout
}

// takeRow は列の全座席を確保済みにする
func takeRow(taken TakenSet, row, seats int) {
	for s := 1; s <= seats; s++ {
		taken[seatID(row, s)] = struct{}{}
	}
}

// positions は候補を (列番号, 座席番号) の組に変換する
func positions(sel Selection) [][2]int {
	out := make([][2]int, len(sel))
	for i, s := range sel {
		out[i] = [2]int{s.RowNumber, s.Number}
	}
	return out
}
