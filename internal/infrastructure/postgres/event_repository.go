package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/sanosuguru/go-seat-saver/internal/domain/event"
)

// eventRow はDBの行を表す構造体
type eventRow struct {
	ID       int64     `db:"id"`
	VenueID  int64     `db:"venue_id"`
	Name     string    `db:"name"`
	StartsAt time.Time `db:"starts_at"`
}

// toEntity はeventRowをEventエンティティに変換する
func (r *eventRow) toEntity() *event.Event {
	return &event.Event{
		ID:       r.ID,
		VenueID:  r.VenueID,
		Name:     r.Name,
		StartsAt: r.StartsAt,
	}
}

// EventRepository はイベントリポジトリのPostgreSQL実装
type EventRepository struct {
	db *sqlx.DB
}

// NewEventRepository はEventRepositoryを作成する
func NewEventRepository(db *sqlx.DB) *EventRepository {
	return &EventRepository{db: db}
}

// CountByID は指定IDに一致するイベント数を返す
func (r *EventRepository) CountByID(ctx context.Context, id int64) (int, error) {
	var count int
	if err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM events WHERE id = $1`, id); err != nil {
		return 0, fmt.Errorf("イベント件数の取得に失敗: %w", err)
	}
	return count, nil
}

// GetByID はIDからイベントを取得する
func (r *EventRepository) GetByID(ctx context.Context, id int64) (*event.Event, error) {
	query := `SELECT id, venue_id, name, starts_at FROM events WHERE id = $1`
	var row eventRow
	if err := r.db.GetContext(ctx, &row, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, event.ErrEventNotFound
		}
		return nil, fmt.Errorf("イベントの取得に失敗: %w", err)
	}
	return row.toEntity(), nil
}

// List はイベント一覧を開催日時順に取得する
func (r *EventRepository) List(ctx context.Context, limit, offset int) ([]*event.Event, error) {
	query := `
		SELECT id, venue_id, name, starts_at
		FROM events
		ORDER BY starts_at, id
		LIMIT $1 OFFSET $2
	`
	var rows []eventRow
	if err := r.db.SelectContext(ctx, &rows, query, limit, offset); err != nil {
		return nil, fmt.Errorf("イベント一覧の取得に失敗: %w", err)
	}

	events := make([]*event.Event, len(rows))
	for i := range rows {
		events[i] = rows[i].toEntity()
	}
	return events, nil
}

var _ event.Repository = (*EventRepository)(nil)
