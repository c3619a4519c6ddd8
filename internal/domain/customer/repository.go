package customer

import "context"

// Repository は顧客リポジトリのインターフェース
type Repository interface {
	// CountByID は指定IDに一致する顧客数を返す
	CountByID(ctx context.Context, id int64) (int, error)
}
