package redis

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/sanosuguru/go-seat-saver/internal/pkg/logger"
)

// GlobalGateKey は予約処理全体を直列化するロックキー
const GlobalGateKey = "reservation"

// GlobalGate は単一キーの分散ロックで複数プロセスの予約処理を直列化する
// 保持中は TTL の 1/3 ごとにロックを延長する
type GlobalGate struct {
	locks      LockManagerInterface
	ttl        time.Duration
	retries    int
	retryDelay time.Duration
	renewEvery time.Duration
}

// NewGlobalGate は GlobalGate を作成する
func NewGlobalGate(locks LockManagerInterface, ttl time.Duration, retries int, retryDelay time.Duration) *GlobalGate {
	return &GlobalGate{locks: locks, ttl: ttl, retries: retries, retryDelay: retryDelay, renewEvery: ttl / 3}
}

// Acquire はロックを取得し、解放関数を返す
func (g *GlobalGate) Acquire(ctx context.Context) (func(), error) {
	lock, err := g.locks.AcquireLockWithRetry(ctx, GlobalGateKey, g.ttl, g.retries, g.retryDelay)
	if err != nil {
		return nil, err
	}
	stop := make(chan struct{})
	done := make(chan struct{})
	go g.renew(lock, stop, done)

	return func() {
		close(stop)
		<-done
		// 呼び出し元のコンテキストがキャンセル済みでも解放する
		if err := lock.Release(context.Background()); err != nil {
			if errors.Is(err, ErrLockNotOwned) {
				logger.Warn("予約ロックは既に失効していました", zap.Duration("ttl", g.ttl))
				return
			}
			logger.Error("予約ロックの解放に失敗", zap.Error(err))
		}
	}, nil
}

// renew は stop が閉じられるまでロックを延長し続ける
// ロックを失った場合はそれ以上延長しない
func (g *GlobalGate) renew(lock Lock, stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)
	if g.renewEvery <= 0 {
		return
	}

	ticker := time.NewTicker(g.renewEvery)
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			err := lock.Extend(context.Background(), g.ttl)
			switch {
			case err == nil:
			case errors.Is(err, ErrLockNotOwned):
				logger.Error("予約ロックを保持中に失効しました", zap.Duration("ttl", g.ttl))
				return
			default:
				logger.Warn("予約ロックの延長に失敗", zap.Error(err))
			}
		}
	}
}
