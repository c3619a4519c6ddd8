package event

import "context"

// Repository はイベントリポジトリのインターフェース
type Repository interface {
	// CountByID は指定IDに一致するイベント数を返す
	CountByID(ctx context.Context, id int64) (int, error)

	// GetByID はIDからイベントを取得する
	GetByID(ctx context.Context, id int64) (*Event, error)

	// List はイベント一覧を取得する
	List(ctx context.Context, limit, offset int) ([]*Event, error)
}
