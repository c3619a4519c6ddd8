// Package allocation は会場レイアウトと確保済み座席から注文の座席を選ぶ
//
// 前方の列から順に、残り必要数ぶんの連続空席を列ごとに探す。
// 使用列数が maxRows に達しても必要数が残る場合は、最も前方の列を候補から外して
// 後方の列で探し直す。これは単一列の入れ替えだけを行うヒューリスティックであり、
// 別の列の組み合わせなら満たせる場合でも ErrUnsatisfiable を返すことがある。
package allocation

import (
	"fmt"

	"github.com/sanosuguru/go-seat-saver/internal/domain/venue"
)

// Allocate は numberOfSeats 席を最大 maxRows 列に収まるように選ぶ
// 同じレイアウトと確保済み集合に対しては常に同じ結果を返す
func Allocate(layout *venue.Layout, taken TakenSet, numberOfSeats, maxRows int) (Selection, error) {
	if layout == nil || numberOfSeats < 1 || maxRows < 1 {
		return nil, ErrInvalidRequest
	}
	if numberOfSeats > layout.SeatCount() {
		return nil, ErrUnsatisfiable
	}

	var sel Selection
	needed := numberOfSeats
	rowsRemaining := maxRows

	for _, row := range layout.Rows() {
		run := ScanRow(row, taken, needed)
		if len(run) > 0 {
			needed -= len(run)
			rowsRemaining--
			sel = append(sel, run...)
		}

		switch {
		case needed == 0:
			return sel, nil
		case rowsRemaining == 0:
			var evicted int
			sel, evicted = EvictFrontRow(sel)
			needed += evicted
			rowsRemaining++
		case rowsRemaining < 0:
			panic(fmt.Errorf("%w: 残り列数が負になりました (%d)", ErrInvariantViolation, rowsRemaining))
		}
	}

	return nil, ErrUnsatisfiable
}
