package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/sanosuguru/go-seat-saver/internal/domain/venue"
)

// layoutRow は列と座席を結合した1行を表す
// 座席のない列では座席側のカラムがNULLになる
type layoutRow struct {
	RowID      int64         `db:"row_id"`
	RowNumber  int           `db:"row_number"`
	SeatID     sql.NullInt64 `db:"seat_id"`
	SeatNumber sql.NullInt64 `db:"seat_number"`
}

// VenueRepository は会場リポジトリのPostgreSQL実装
type VenueRepository struct {
	db *sqlx.DB
}

// NewVenueRepository はVenueRepositoryを作成する
func NewVenueRepository(db *sqlx.DB) *VenueRepository {
	return &VenueRepository{db: db}
}

// GetLayoutByEventID はイベント会場の座席配置を取得する
func (r *VenueRepository) GetLayoutByEventID(ctx context.Context, eventID int64) (*venue.Layout, error) {
	var venueID int64
	if err := r.db.GetContext(ctx, &venueID, `SELECT venue_id FROM events WHERE id = $1`, eventID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, venue.ErrVenueNotFound
		}
		return nil, fmt.Errorf("会場IDの取得に失敗: %w", err)
	}

	query := `
		SELECT r.id AS row_id, r.row_number, s.id AS seat_id, s.seat_number
		FROM venue_rows r
		LEFT JOIN seats s ON s.row_id = r.id
		WHERE r.venue_id = $1
		ORDER BY r.row_number, s.seat_number
	`
	var rows []layoutRow
	if err := r.db.SelectContext(ctx, &rows, query, venueID); err != nil {
		return nil, fmt.Errorf("座席配置の取得に失敗: %w", err)
	}

	return venue.NewLayout(venueID, groupRows(rows))
}

// CountSeatsByEventID はイベント会場の総座席数を取得する
func (r *VenueRepository) CountSeatsByEventID(ctx context.Context, eventID int64) (int, error) {
	query := `
		SELECT COUNT(s.id)
		FROM events e
		JOIN venue_rows r ON r.venue_id = e.venue_id
		JOIN seats s ON s.row_id = r.id
		WHERE e.id = $1
	`
	var count int
	if err := r.db.GetContext(ctx, &count, query, eventID); err != nil {
		return 0, fmt.Errorf("座席数の取得に失敗: %w", err)
	}
	return count, nil
}

// groupRows は結合結果を列ごとにまとめる
// 入力は row_number 順に並んでいる前提
func groupRows(rows []layoutRow) []venue.Row {
	var result []venue.Row
	for _, lr := range rows {
		if len(result) == 0 || result[len(result)-1].ID != lr.RowID {
			result = append(result, venue.Row{ID: lr.RowID, Number: lr.RowNumber})
		}
		if !lr.SeatID.Valid {
			continue
		}
		last := &result[len(result)-1]
		last.Seats = append(last.Seats, venue.Seat{
			ID:     lr.SeatID.Int64,
			Number: int(lr.SeatNumber.Int64),
		})
	}
	return result
}

var _ venue.Repository = (*VenueRepository)(nil)
