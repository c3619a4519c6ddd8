package order

import (
	"context"

	"github.com/sanosuguru/go-seat-saver/internal/domain/transaction"
)

// Repository は注文リポジトリのインターフェース
type Repository interface {
	// Create は注文と座席の紐付けを作成する（トランザクション必須）
	Create(ctx context.Context, tx transaction.Tx, order *Order) error

	// GetByID はIDから注文を取得する
	GetByID(ctx context.Context, id int64) (*Order, error)

	// TakenSeatIDs はイベントで確保済みの座席ID一覧を取得する
	TakenSeatIDs(ctx context.Context, eventID int64) ([]int64, error)

	// CountTakenSeats はイベントで確保済みの座席数を取得する
	CountTakenSeats(ctx context.Context, eventID int64) (int, error)
}
