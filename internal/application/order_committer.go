package application

import (
	"context"
	"fmt"

	"github.com/sanosuguru/go-seat-saver/internal/domain/allocation"
	"github.com/sanosuguru/go-seat-saver/internal/domain/order"
	"github.com/sanosuguru/go-seat-saver/internal/domain/transaction"
)

// OrderCommitter は座席選択を注文として永続化する
type OrderCommitter struct {
	txManager transaction.Manager
	orderRepo order.Repository
}

func NewOrderCommitter(tm transaction.Manager, or order.Repository) *OrderCommitter {
	return &OrderCommitter{txManager: tm, orderRepo: or}
}

// Commit は注文と注文座席をひとつのトランザクションで作成する
// 失敗時は ErrCommitFailed をラップしたエラーを返し、何も残さない
func (c *OrderCommitter) Commit(ctx context.Context, customerID, eventID int64, sel allocation.Selection) (*order.Order, error) {
	if len(sel) == 0 {
		return nil, ErrEmptySelection
	}

	links := make([]order.SeatLink, len(sel))
	for i, s := range sel {
		links[i] = order.SeatLink{SeatID: s.ID, RowNumber: s.RowNumber, SeatNumber: s.Number}
	}
	o := order.NewOrder(customerID, eventID, links)
	if err := o.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCommitFailed, err)
	}

	err := transaction.Run(ctx, c.txManager, func(tx transaction.Tx) error {
		return c.orderRepo.Create(ctx, tx, o)
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCommitFailed, err)
	}
	return o, nil
}
