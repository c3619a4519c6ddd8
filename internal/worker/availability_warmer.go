package worker

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/sanosuguru/go-seat-saver/internal/pkg/logger"
)

// AvailabilityRefresher は全イベントの空席数を再集計するインターフェース
type AvailabilityRefresher interface {
	RefreshAll(ctx context.Context) (int, error)
}

// AvailabilityWarmer は空席数キャッシュを定期的に温め直すワーカー
type AvailabilityWarmer struct {
	service  AvailabilityRefresher
	interval time.Duration
	stopCh   chan struct{}
	doneCh   chan struct{}
}

// NewAvailabilityWarmer は新しいワーカーを作成
func NewAvailabilityWarmer(s AvailabilityRefresher, interval time.Duration) *AvailabilityWarmer {
	return &AvailabilityWarmer{
		service:  s,
		interval: interval,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
}

// Start はワーカーを開始する。起動直後に一度再集計する
func (w *AvailabilityWarmer) Start(ctx context.Context) {
	logger.Info("空席数ウォーマー開始", zap.Duration("interval", w.interval))

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()
	defer close(w.doneCh)

	w.refresh(ctx)
	for {
		select {
		case <-ctx.Done():
			logger.Info("空席数ウォーマー停止（コンテキストキャンセル）")
			return
		case <-w.stopCh:
			logger.Info("空席数ウォーマー停止（シグナル受信）")
			return
		case <-ticker.C:
			w.refresh(ctx)
		}
	}
}

// Stop はワーカーを停止し、終了を待つ
func (w *AvailabilityWarmer) Stop() {
	close(w.stopCh)
	<-w.doneCh
}

func (w *AvailabilityWarmer) refresh(ctx context.Context) {
	log := logger.Get()

	count, err := w.service.RefreshAll(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		log.Error("空席数の再集計に失敗", zap.Int("refreshed", count), zap.Error(err))
		return
	}
	log.Debug("空席数を再集計", zap.Int("events", count))
}
