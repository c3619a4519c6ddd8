package venue

import "context"

// Repository は会場レイアウトのリポジトリインターフェース
type Repository interface {
	// GetLayoutByEventID はイベントの会場レイアウトを取得する
	GetLayoutByEventID(ctx context.Context, eventID int64) (*Layout, error)

	// CountSeatsByEventID はイベント会場の総座席数を取得する
	CountSeatsByEventID(ctx context.Context, eventID int64) (int, error)
}
