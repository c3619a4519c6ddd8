package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/sanosuguru/go-seat-saver/internal/domain/customer"
)

// CustomerRepository は顧客リポジトリのPostgreSQL実装
type CustomerRepository struct {
	db *sqlx.DB
}

// NewCustomerRepository はCustomerRepositoryを作成する
func NewCustomerRepository(db *sqlx.DB) *CustomerRepository {
	return &CustomerRepository{db: db}
}

// CountByID は指定IDに一致する顧客数を返す
func (r *CustomerRepository) CountByID(ctx context.Context, id int64) (int, error) {
	var count int
	if err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM customers WHERE id = $1`, id); err != nil {
		return 0, fmt.Errorf("顧客件数の取得に失敗: %w", err)
	}
	return count, nil
}

var _ customer.Repository = (*CustomerRepository)(nil)
