package application

import (
	"context"
	"sync"
	"time"

	"github.com/sanosuguru/go-seat-saver/internal/pkg/metrics"
)

// Gate は予約処理（検証・割り当て・確定）を直列化するクリティカルセクション
// Acquire が返す release は必ず一度だけ呼ぶこと
type Gate interface {
	Acquire(ctx context.Context) (release func(), err error)
}

// MutexGate はプロセス内の sync.Mutex によるゲート
// 待機順序は保証しない
type MutexGate struct {
	mu sync.Mutex
}

func NewMutexGate() *MutexGate {
	return &MutexGate{}
}

func (g *MutexGate) Acquire(context.Context) (func(), error) {
	g.mu.Lock()
	return g.mu.Unlock, nil
}

// instrumentedGate は待ち時間をメトリクスに記録する
type instrumentedGate struct {
	Gate
	backend string
	metrics *metrics.Metrics
}

// InstrumentGate はゲートの待ち時間を backend ラベル付きで記録するようにラップする
func InstrumentGate(g Gate, backend string, m *metrics.Metrics) Gate {
	if m == nil {
		return g
	}
	return &instrumentedGate{Gate: g, backend: backend, metrics: m}
}

func (g *instrumentedGate) Acquire(ctx context.Context) (func(), error) {
	start := time.Now()
	release, err := g.Gate.Acquire(ctx)
	status := "acquired"
	if err != nil {
		status = "failed"
	}
	g.metrics.GateWaitDuration.WithLabelValues(g.backend, status).Observe(time.Since(start).Seconds())
	return release, err
}

var _ Gate = (*MutexGate)(nil)
