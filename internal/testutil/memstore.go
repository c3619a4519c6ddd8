// Package testutil はサービス層テスト用のインメモリストアを提供する
package testutil

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/sanosuguru/go-seat-saver/internal/domain/customer"
	"github.com/sanosuguru/go-seat-saver/internal/domain/event"
	"github.com/sanosuguru/go-seat-saver/internal/domain/order"
	"github.com/sanosuguru/go-seat-saver/internal/domain/transaction"
	"github.com/sanosuguru/go-seat-saver/internal/domain/venue"
)

// ErrForeignTx はストア外のトランザクションが渡された場合のエラー
var ErrForeignTx = errors.New("memstore: 別ストアのトランザクションです")

// Store は各リポジトリとトランザクションマネージャーを兼ねるインメモリストア
// 注文はコミット時にのみ反映される
type Store struct {
	mu          sync.Mutex
	events      []event.Event
	customers   []customer.Customer
	layouts     map[int64]*venue.Layout
	orders      map[int64]*order.Order
	taken       map[int64]map[int64]struct{}
	nextOrderID int64

	// FailCommit が設定されているとコミットはこのエラーで失敗する
	FailCommit error
	// FailCreate が設定されていると注文作成はこのエラーで失敗する
	FailCreate error
}

// NewStore は空のストアを作成する
func NewStore() *Store {
	return &Store{
		layouts: make(map[int64]*venue.Layout),
		orders:  make(map[int64]*order.Order),
		taken:   make(map[int64]map[int64]struct{}),
	}
}

// GridSeatID は AddGridVenue が採番する座席ID
// 1列あたり gridRowStride-1 席、1会場あたり gridRowStride-1 列まで重複しない
func GridSeatID(venueID int64, rowNumber, seatNumber int) int64 {
	return (venueID*gridRowStride+int64(rowNumber))*gridRowStride + int64(seatNumber)
}

const gridRowStride = 100000

// AddGridVenue は rows 列 x seatsPerRow 席の会場を登録する
func (s *Store) AddGridVenue(venueID int64, rows, seatsPerRow int) *venue.Layout {
	if rows >= gridRowStride || seatsPerRow >= gridRowStride {
		panic(fmt.Sprintf("testutil: grid %dx%d exceeds %d", rows, seatsPerRow, gridRowStride-1))
	}
	rs := make([]venue.Row, rows)
	for r := 1; r <= rows; r++ {
		row := venue.Row{ID: venueID*gridRowStride + int64(r), Number: r}
		for n := 1; n <= seatsPerRow; n++ {
			row.Seats = append(row.Seats, venue.Seat{ID: GridSeatID(venueID, r, n), Number: n})
		}
		rs[r-1] = row
	}
	layout, err := venue.NewLayout(venueID, rs)
	if err != nil {
		panic(err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.layouts[venueID] = layout
	return layout
}

// AddEvent はイベントを登録する
// 同じIDを複数回登録すると CountByID は重複件数を返す
func (s *Store) AddEvent(id, venueID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, event.Event{ID: id, VenueID: venueID, Name: "テスト公演"})
}

// AddCustomer は顧客を登録する
func (s *Store) AddCustomer(id int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.customers = append(s.customers, customer.Customer{ID: id, FirstName: "太郎", LastName: "山田"})
}

// Take は注文を経由せずに座席を確保済みにする
func (s *Store) Take(eventID int64, seatIDs ...int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, id := range seatIDs {
		s.takenFor(eventID)[id] = struct{}{}
	}
}

// Orders はコミット済み注文をID順に返す
func (s *Store) Orders() []*order.Order {
	s.mu.Lock()
	defer s.mu.Unlock()
	result := make([]*order.Order, 0, len(s.orders))
	for _, o := range s.orders {
		result = append(result, o)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result
}

// TakenCount はイベントの確保済み座席数を返す
func (s *Store) TakenCount(eventID int64) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.taken[eventID])
}

func (s *Store) takenFor(eventID int64) map[int64]struct{} {
	t, ok := s.taken[eventID]
	if !ok {
		t = make(map[int64]struct{})
		s.taken[eventID] = t
	}
	return t
}

func (s *Store) venueOf(eventID int64) (int64, bool) {
	for _, e := range s.events {
		if e.ID == eventID {
			return e.VenueID, true
		}
	}
	return 0, false
}

// Events は event.Repository を返す
func (s *Store) Events() event.Repository { return eventRepo{s} }

// Customers は customer.Repository を返す
func (s *Store) Customers() customer.Repository { return customerRepo{s} }

// Venues は venue.Repository を返す
func (s *Store) Venues() venue.Repository { return venueRepo{s} }

// OrderRepository は order.Repository を返す
func (s *Store) OrderRepository() order.Repository { return orderRepo{s} }

// TxManager は transaction.Manager を返す
func (s *Store) TxManager() transaction.Manager { return txManager{s} }

type eventRepo struct{ s *Store }

func (r eventRepo) CountByID(_ context.Context, id int64) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var n int
	for _, e := range r.s.events {
		if e.ID == id {
			n++
		}
	}
	return n, nil
}

func (r eventRepo) GetByID(_ context.Context, id int64) (*event.Event, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, e := range r.s.events {
		if e.ID == id {
			ev := e
			return &ev, nil
		}
	}
	return nil, event.ErrEventNotFound
}

func (r eventRepo) List(_ context.Context, limit, offset int) ([]*event.Event, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var result []*event.Event
	for i := offset; i < len(r.s.events) && len(result) < limit; i++ {
		ev := r.s.events[i]
		result = append(result, &ev)
	}
	return result, nil
}

type customerRepo struct{ s *Store }

func (r customerRepo) CountByID(_ context.Context, id int64) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var n int
	for _, c := range r.s.customers {
		if c.ID == id {
			n++
		}
	}
	return n, nil
}

type venueRepo struct{ s *Store }

func (r venueRepo) GetLayoutByEventID(_ context.Context, eventID int64) (*venue.Layout, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	venueID, ok := r.s.venueOf(eventID)
	if !ok {
		return nil, venue.ErrVenueNotFound
	}
	layout, ok := r.s.layouts[venueID]
	if !ok {
		return nil, venue.ErrVenueNotFound
	}
	return layout, nil
}

func (r venueRepo) CountSeatsByEventID(ctx context.Context, eventID int64) (int, error) {
	layout, err := r.GetLayoutByEventID(ctx, eventID)
	if err != nil {
		if errors.Is(err, venue.ErrVenueNotFound) {
			return 0, nil
		}
		return 0, err
	}
	return layout.SeatCount(), nil
}

type orderRepo struct{ s *Store }

func (r orderRepo) Create(_ context.Context, tx transaction.Tx, o *order.Order) error {
	mt, ok := tx.(*memTx)
	if !ok || mt.s != r.s {
		return ErrForeignTx
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.FailCreate != nil {
		return r.s.FailCreate
	}
	if mt.conflicts(o) {
		return order.ErrSeatAlreadyTaken
	}
	r.s.nextOrderID++
	o.ID = r.s.nextOrderID
	mt.staged = append(mt.staged, o)
	return nil
}

func (r orderRepo) GetByID(_ context.Context, id int64) (*order.Order, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	o, ok := r.s.orders[id]
	if !ok {
		return nil, order.ErrOrderNotFound
	}
	return o, nil
}

func (r orderRepo) TakenSeatIDs(_ context.Context, eventID int64) ([]int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	ids := make([]int64, 0, len(r.s.taken[eventID]))
	for id := range r.s.taken[eventID] {
		ids = append(ids, id)
	}
	return ids, nil
}

func (r orderRepo) CountTakenSeats(_ context.Context, eventID int64) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return len(r.s.taken[eventID]), nil
}

type txManager struct{ s *Store }

func (m txManager) Begin(context.Context) (transaction.Tx, error) {
	return &memTx{s: m.s}, nil
}

// memTx はコミットまで注文を保留するトランザクション
type memTx struct {
	s      *Store
	staged []*order.Order
	done   bool
}

// conflicts は確保済みまたは同一トランザクション内で保留中の座席と重なるかを返す
// 呼び出し側で s.mu を保持していること
func (t *memTx) conflicts(o *order.Order) bool {
	pending := make(map[int64]struct{})
	for _, st := range t.staged {
		if st.EventID != o.EventID {
			continue
		}
		for _, id := range st.SeatIDs() {
			pending[id] = struct{}{}
		}
	}
	taken := t.s.taken[o.EventID]
	for _, id := range o.SeatIDs() {
		if _, ok := taken[id]; ok {
			return true
		}
		if _, ok := pending[id]; ok {
			return true
		}
	}
	return false
}

func (t *memTx) Commit() error {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	if t.done {
		return errors.New("memstore: トランザクションは終了済みです")
	}
	t.done = true
	if t.s.FailCommit != nil {
		return t.s.FailCommit
	}
	for _, o := range t.staged {
		for _, id := range o.SeatIDs() {
			if _, ok := t.s.taken[o.EventID][id]; ok {
				return order.ErrSeatAlreadyTaken
			}
		}
	}
	for _, o := range t.staged {
		t.s.orders[o.ID] = o
		for _, id := range o.SeatIDs() {
			t.s.takenFor(o.EventID)[id] = struct{}{}
		}
	}
	return nil
}

func (t *memTx) Rollback() error {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	t.done = true
	t.staged = nil
	return nil
}
