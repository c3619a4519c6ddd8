package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/sanosuguru/go-seat-saver/internal/domain/order"
)

// SeatPayload は通知メッセージ内の座席
type SeatPayload struct {
	RowNumber  int `json:"row_number"`
	SeatNumber int `json:"seat_number"`
}

// OrderCreatedEvent は注文確定時に発行するメッセージ本文
type OrderCreatedEvent struct {
	OrderID    int64         `json:"order_id"`
	CustomerID int64         `json:"customer_id"`
	EventID    int64         `json:"event_id"`
	Seats      []SeatPayload `json:"seats"`
	CreatedAt  time.Time     `json:"created_at"`
}

// channel は amqp.Channel のうち利用するメソッド
type channel interface {
	QueueDeclare(name string, durable, autoDelete, exclusive, noWait bool, args amqp.Table) (amqp.Queue, error)
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

// Publisher は注文確定イベントをキューへ発行する
type Publisher struct {
	conn  *amqp.Connection
	ch    channel
	queue string
}

// NewPublisher はブローカーへ接続し、キューを宣言する
func NewPublisher(url, queue string) (*Publisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("RabbitMQ接続に失敗: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("チャネル作成に失敗: %w", err)
	}
	p, err := newPublisher(ch, queue)
	if err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, err
	}
	p.conn = conn
	return p, nil
}

func newPublisher(ch channel, queue string) (*Publisher, error) {
	// durable: ブローカー再起動後もキューを保持する
	if _, err := ch.QueueDeclare(queue, true, false, false, false, nil); err != nil {
		return nil, fmt.Errorf("キュー宣言に失敗: %w", err)
	}
	return &Publisher{ch: ch, queue: queue}, nil
}

// PublishOrderCreated は注文確定イベントを発行する
func (p *Publisher) PublishOrderCreated(ctx context.Context, o *order.Order) error {
	msg, err := newOrderCreatedMessage(o)
	if err != nil {
		return err
	}
	if err := p.ch.PublishWithContext(ctx, "", p.queue, false, false, msg); err != nil {
		return fmt.Errorf("メッセージ発行に失敗: %w", err)
	}
	return nil
}

// Close はチャネルと接続を閉じる
func (p *Publisher) Close() error {
	if err := p.ch.Close(); err != nil {
		return err
	}
	if p.conn != nil {
		return p.conn.Close()
	}
	return nil
}

func newOrderCreatedMessage(o *order.Order) (amqp.Publishing, error) {
	ev := OrderCreatedEvent{
		OrderID:    o.ID,
		CustomerID: o.CustomerID,
		EventID:    o.EventID,
		Seats:      make([]SeatPayload, len(o.Seats)),
		CreatedAt:  o.CreatedAt.UTC(),
	}
	for i, s := range o.Seats {
		ev.Seats[i] = SeatPayload{RowNumber: s.RowNumber, SeatNumber: s.SeatNumber}
	}

	body, err := json.Marshal(ev)
	if err != nil {
		return amqp.Publishing{}, fmt.Errorf("メッセージ生成に失敗: %w", err)
	}
	return amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}, nil
}
