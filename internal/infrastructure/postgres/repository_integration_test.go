//go:build integration

package postgres

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sanosuguru/go-seat-saver/internal/config"
	"github.com/sanosuguru/go-seat-saver/internal/domain/order"
	"github.com/sanosuguru/go-seat-saver/internal/domain/transaction"
	"github.com/sanosuguru/go-seat-saver/internal/domain/venue"
)

type fixture struct {
	eventID    int64
	customerID int64
}

func setupTestDB(t *testing.T) (*sqlx.DB, func()) {
	t.Helper()
	cfg := config.Load()

	db, err := NewConnection(&cfg.Database)
	if err != nil {
		t.Skipf("DB接続エラー: %v", err)
	}
	if err := RunMigrations(db.DB, "../../../migrations"); err != nil {
		db.Close()
		t.Fatalf("マイグレーションエラー: %v", err)
	}

	truncate := func() {
		for _, table := range []string{"order_seats", "orders", "customers", "events", "seats", "venue_rows", "venues"} {
			db.Exec("DELETE FROM " + table)
		}
	}
	truncate()

	cleanup := func() {
		truncate()
		db.Close()
	}
	return db, cleanup
}

// seedVenue は rows 列 x seatsPerRow 席の会場とイベント・顧客を作成する
func seedVenue(t *testing.T, db *sqlx.DB, rows, seatsPerRow int) fixture {
	t.Helper()
	var venueID, eventID, customerID int64
	require.NoError(t, db.QueryRow(`INSERT INTO venues (name) VALUES ('テスト会場') RETURNING id`).Scan(&venueID))
	for r := rows; r >= 1; r-- {
		var rowID int64
		require.NoError(t, db.QueryRow(`INSERT INTO venue_rows (venue_id, row_number) VALUES ($1, $2) RETURNING id`, venueID, r).Scan(&rowID))
		for s := seatsPerRow; s >= 1; s-- {
			_, err := db.Exec(`INSERT INTO seats (row_id, seat_number) VALUES ($1, $2)`, rowID, s)
			require.NoError(t, err)
		}
	}
	require.NoError(t, db.QueryRow(
		`INSERT INTO events (venue_id, name, starts_at) VALUES ($1, 'テスト公演', $2) RETURNING id`,
		venueID, time.Now().Add(24*time.Hour),
	).Scan(&eventID))
	require.NoError(t, db.QueryRow(
		`INSERT INTO customers (first_name, last_name, address) VALUES ('太郎', '山田', '東京都') RETURNING id`,
	).Scan(&customerID))
	return fixture{eventID: eventID, customerID: customerID}
}

func createOrder(ctx context.Context, db *sqlx.DB, o *order.Order) error {
	repo := NewOrderRepository(db)
	return transaction.Run(ctx, NewTxManager(db), func(tx transaction.Tx) error {
		return repo.Create(ctx, tx, o)
	})
}

func TestVenueRepository_GetLayoutByEventID(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()
	ctx := context.Background()
	fx := seedVenue(t, db, 3, 4)

	layout, err := NewVenueRepository(db).GetLayoutByEventID(ctx, fx.eventID)
	require.NoError(t, err)

	rows := layout.Rows()
	require.Len(t, rows, 3)
	for i, row := range rows {
		assert.Equal(t, i+1, row.Number, "列番号順")
		require.Len(t, row.Seats, 4)
		for j, s := range row.Seats {
			assert.Equal(t, j+1, s.Number, "座席番号順")
		}
	}

	count, err := NewVenueRepository(db).CountSeatsByEventID(ctx, fx.eventID)
	require.NoError(t, err)
	assert.Equal(t, 12, count)

	_, err = NewVenueRepository(db).GetLayoutByEventID(ctx, fx.eventID+1000)
	assert.ErrorIs(t, err, venue.ErrVenueNotFound)
}

func TestEventAndCustomerRepository_CountByID(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()
	ctx := context.Background()
	fx := seedVenue(t, db, 1, 1)

	n, err := NewEventRepository(db).CountByID(ctx, fx.eventID)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	n, err = NewEventRepository(db).CountByID(ctx, fx.eventID+1000)
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	n, err = NewCustomerRepository(db).CountByID(ctx, fx.customerID)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	events, err := NewEventRepository(db).List(ctx, 10, 0)
	require.NoError(t, err)
	assert.Len(t, events, 1)
}

func TestOrderRepository_CreateAndGet(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()
	ctx := context.Background()
	fx := seedVenue(t, db, 2, 3)

	layout, err := NewVenueRepository(db).GetLayoutByEventID(ctx, fx.eventID)
	require.NoError(t, err)
	row := layout.Rows()[1]
	links := []order.SeatLink{
		{SeatID: row.Seats[0].ID, RowNumber: 2, SeatNumber: 1},
		{SeatID: row.Seats[1].ID, RowNumber: 2, SeatNumber: 2},
	}

	o := order.NewOrder(fx.customerID, fx.eventID, links)
	require.NoError(t, createOrder(ctx, db, o))
	assert.NotZero(t, o.ID)

	got, err := NewOrderRepository(db).GetByID(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, links, got.Seats)

	taken, err := NewOrderRepository(db).TakenSeatIDs(ctx, fx.eventID)
	require.NoError(t, err)
	assert.ElementsMatch(t, o.SeatIDs(), taken)

	count, err := NewOrderRepository(db).CountTakenSeats(ctx, fx.eventID)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	t.Run("同じ座席の二重確保は一意制約で拒否", func(t *testing.T) {
		dup := order.NewOrder(fx.customerID, fx.eventID, links[:1])
		err := createOrder(ctx, db, dup)
		assert.ErrorIs(t, err, order.ErrSeatAlreadyTaken)

		count, err := NewOrderRepository(db).CountTakenSeats(ctx, fx.eventID)
		require.NoError(t, err)
		assert.Equal(t, 2, count, "失敗した注文は何も残さない")
	})

	t.Run("存在しない注文", func(t *testing.T) {
		_, err := NewOrderRepository(db).GetByID(ctx, o.ID+1000)
		assert.ErrorIs(t, err, order.ErrOrderNotFound)
	})
}

func TestOrderRepository_ConcurrentCreate(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()
	ctx := context.Background()
	fx := seedVenue(t, db, 1, 1)

	layout, err := NewVenueRepository(db).GetLayoutByEventID(ctx, fx.eventID)
	require.NoError(t, err)
	seat := layout.Rows()[0].Seats[0]

	errs := make(chan error, 5)
	for i := 0; i < 5; i++ {
		go func() {
			o := order.NewOrder(fx.customerID, fx.eventID, []order.SeatLink{{SeatID: seat.ID, RowNumber: 1, SeatNumber: 1}})
			errs <- createOrder(ctx, db, o)
		}()
	}

	var success int
	for i := 0; i < 5; i++ {
		if err := <-errs; err == nil {
			success++
		} else {
			assert.ErrorIs(t, err, order.ErrSeatAlreadyTaken, fmt.Sprintf("想定外のエラー: %v", err))
		}
	}
	assert.Equal(t, 1, success)
}
