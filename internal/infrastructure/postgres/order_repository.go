package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/sanosuguru/go-seat-saver/internal/domain/order"
	"github.com/sanosuguru/go-seat-saver/internal/domain/transaction"
)

// uniqueViolation はPostgreSQLの一意制約違反コード
const uniqueViolation = "23505"

// orderRow はDBの行を表す構造体
type orderRow struct {
	ID         int64     `db:"id"`
	CustomerID int64     `db:"customer_id"`
	EventID    int64     `db:"event_id"`
	CreatedAt  time.Time `db:"created_at"`
}

// seatLinkRow は注文座席と座席情報を結合した行
type seatLinkRow struct {
	SeatID     int64 `db:"seat_id"`
	RowNumber  int   `db:"row_number"`
	SeatNumber int   `db:"seat_number"`
}

// toEntity はorderRowをOrderエンティティに変換する
func (r *orderRow) toEntity(seats []seatLinkRow) *order.Order {
	links := make([]order.SeatLink, len(seats))
	for i, s := range seats {
		links[i] = order.SeatLink{SeatID: s.SeatID, RowNumber: s.RowNumber, SeatNumber: s.SeatNumber}
	}
	return &order.Order{
		ID:         r.ID,
		CustomerID: r.CustomerID,
		EventID:    r.EventID,
		Seats:      links,
		CreatedAt:  r.CreatedAt,
	}
}

// OrderRepository は注文リポジトリのPostgreSQL実装
type OrderRepository struct {
	db *sqlx.DB
}

// NewOrderRepository はOrderRepositoryを作成する
func NewOrderRepository(db *sqlx.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

// Create は注文と注文座席をトランザクション内で登録する
func (r *OrderRepository) Create(ctx context.Context, tx transaction.Tx, o *order.Order) error {
	sqlxTx, err := unwrapTx(tx)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO orders (customer_id, event_id, created_at)
		VALUES ($1, $2, $3)
		RETURNING id
	`
	if err := sqlxTx.QueryRowxContext(ctx, query, o.CustomerID, o.EventID, o.CreatedAt).Scan(&o.ID); err != nil {
		return fmt.Errorf("注文の作成に失敗: %w", err)
	}

	seatQuery, args := buildOrderSeatsInsert(o)
	if _, err := sqlxTx.ExecContext(ctx, seatQuery, args...); err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return order.ErrSeatAlreadyTaken
		}
		return fmt.Errorf("注文座席の作成に失敗: %w", err)
	}
	return nil
}

// buildOrderSeatsInsert は注文座席の一括INSERT文を組み立てる
func buildOrderSeatsInsert(o *order.Order) (string, []interface{}) {
	var sb strings.Builder
	sb.WriteString("INSERT INTO order_seats (order_id, event_id, seat_id) VALUES ")
	args := make([]interface{}, 0, len(o.Seats)*3)
	for i, s := range o.Seats {
		if i > 0 {
			sb.WriteString(", ")
		}
		n := i * 3
		fmt.Fprintf(&sb, "($%d, $%d, $%d)", n+1, n+2, n+3)
		args = append(args, o.ID, o.EventID, s.SeatID)
	}
	return sb.String(), args
}

// GetByID はIDから注文を取得する
func (r *OrderRepository) GetByID(ctx context.Context, id int64) (*order.Order, error) {
	var row orderRow
	err := r.db.GetContext(ctx, &row, `SELECT id, customer_id, event_id, created_at FROM orders WHERE id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, order.ErrOrderNotFound
		}
		return nil, fmt.Errorf("注文の取得に失敗: %w", err)
	}

	query := `
		SELECT os.seat_id, r.row_number, s.seat_number
		FROM order_seats os
		JOIN seats s ON s.id = os.seat_id
		JOIN venue_rows r ON r.id = s.row_id
		WHERE os.order_id = $1
		ORDER BY r.row_number, s.seat_number
	`
	var seats []seatLinkRow
	if err := r.db.SelectContext(ctx, &seats, query, id); err != nil {
		return nil, fmt.Errorf("注文座席の取得に失敗: %w", err)
	}
	return row.toEntity(seats), nil
}

// TakenSeatIDs はイベントで確保済みの座席IDを取得する
func (r *OrderRepository) TakenSeatIDs(ctx context.Context, eventID int64) ([]int64, error) {
	var ids []int64
	if err := r.db.SelectContext(ctx, &ids, `SELECT seat_id FROM order_seats WHERE event_id = $1`, eventID); err != nil {
		return nil, fmt.Errorf("確保済み座席の取得に失敗: %w", err)
	}
	return ids, nil
}

// CountTakenSeats はイベントで確保済みの座席数を取得する
func (r *OrderRepository) CountTakenSeats(ctx context.Context, eventID int64) (int, error) {
	var count int
	if err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM order_seats WHERE event_id = $1`, eventID); err != nil {
		return 0, fmt.Errorf("確保済み座席数の取得に失敗: %w", err)
	}
	return count, nil
}

var _ order.Repository = (*OrderRepository)(nil)
