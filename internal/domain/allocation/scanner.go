package allocation

import "github.com/sanosuguru/go-seat-saver/internal/domain/venue"

// ScanRow は列を左から走査し、連続した空席を最大 n 席まで集める
// 確保済みの座席に当たった時点でそれまでの連続分は破棄する
// n 席に達した時点で走査を止めるため、列の最良の並びではなく最初に条件を満たす並びを返す
// 列の終端に達した場合は n 未満（空を含む）の並びを返す
func ScanRow(row venue.Row, taken TakenSet, n int) []venue.Seat {
	if n <= 0 {
		return nil
	}

	run := make([]venue.Seat, 0, min(n, len(row.Seats)))
	for _, seat := range row.Seats {
		if taken.Contains(seat.ID) {
			run = run[:0]
			continue
		}
		run = append(run, seat)
		if len(run) == n {
			break
		}
	}
	return run
}
