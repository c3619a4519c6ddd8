package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// 予約結果ラベル
const (
	StatusSuccess         = "success"
	StatusInvalidEvent    = "invalid_event"
	StatusInvalidCustomer = "invalid_customer"
	StatusUnsatisfiable   = "unsatisfiable"
	StatusCommitFailed    = "commit_failed"
	StatusError           = "error"
)

// Metrics はアプリケーションのメトリクスを管理する
type Metrics struct {
	// HTTPリクエストの総数（method, path, status_code）
	HTTPRequestsTotal *prometheus.CounterVec

	// HTTPリクエストのレイテンシ（method, path）
	HTTPRequestDuration *prometheus.HistogramVec

	// 予約の総数（status）
	ReservationsTotal *prometheus.CounterVec

	// 確保した座席の総数
	SeatsReservedTotal prometheus.Counter

	// 座席割り当て計算の所要時間
	AllocationDuration prometheus.Histogram

	// 予約ゲートの待ち時間（backend: local/redis, status: acquired/failed）
	GateWaitDuration *prometheus.HistogramVec
}

// New は新しいMetricsインスタンスを作成し、デフォルトレジストリに登録する
func New() *Metrics {
	return NewWithRegistry(prometheus.DefaultRegisterer)
}

// NewWithRegistry は指定したレジストリにメトリクスを登録する
func NewWithRegistry(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		HTTPRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status_code"},
		),
		HTTPRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request latency in seconds",
				Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
			},
			[]string{"method", "path"},
		),
		ReservationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "reservations_total",
				Help: "Total number of reservation attempts by outcome",
			},
			[]string{"status"},
		),
		SeatsReservedTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "seats_reserved_total",
				Help: "Total number of seats committed to orders",
			},
		),
		AllocationDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "seat_allocation_duration_seconds",
				Help:    "Time spent computing a seat selection",
				Buckets: []float64{.0001, .0005, .001, .005, .01, .05, .1},
			},
		),
		GateWaitDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "reservation_gate_wait_seconds",
				Help:    "Time spent waiting to enter the reservation critical section",
				Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 5},
			},
			[]string{"backend", "status"},
		),
	}

	reg.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.ReservationsTotal,
		m.SeatsReservedTotal,
		m.AllocationDuration,
		m.GateWaitDuration,
	)

	return m
}

var defaultMetrics *Metrics

// Init はデフォルトのメトリクスインスタンスを初期化する
func Init() *Metrics {
	defaultMetrics = New()
	return defaultMetrics
}

// Get はデフォルトのメトリクスインスタンスを返す
func Get() *Metrics {
	return defaultMetrics
}
