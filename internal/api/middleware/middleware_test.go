package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/sanosuguru/go-seat-saver/internal/domain/allocation"
	"github.com/sanosuguru/go-seat-saver/internal/pkg/logger"
	"github.com/sanosuguru/go-seat-saver/internal/pkg/metrics"
)

// observeLogs はテスト中のログを記録するロガーに差し替える
func observeLogs(t *testing.T) *observer.ObservedLogs {
	t.Helper()
	core, logs := observer.New(zap.DebugLevel)
	prev := logger.Get()
	logger.Set(zap.New(core))
	t.Cleanup(func() { logger.Set(prev) })
	return logs
}

func serve(e *echo.Echo, method, path string, header http.Header) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	for k, v := range header {
		req.Header[k] = v
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestSetupMiddleware(t *testing.T) {
	e := echo.New()
	SetupMiddleware(e, metrics.NewWithRegistry(prometheus.NewRegistry()))

	e.GET("/test", func(c echo.Context) error {
		return c.String(http.StatusOK, "test")
	})

	rec := serve(e, http.MethodGet, "/test", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "test", rec.Body.String())
	assert.NotEmpty(t, rec.Header().Get(echo.HeaderXRequestID))
}

func TestSetupMiddleware_RecoversPanic(t *testing.T) {
	logs := observeLogs(t)
	e := echo.New()
	SetupMiddleware(e, nil)

	e.GET("/panic", func(c echo.Context) error {
		panic(allocation.ErrInvariantViolation)
	})

	rec := serve(e, http.MethodGet, "/panic", nil)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, 1, logs.FilterMessage("panic recovered").Len())
}

func TestRequestLogger(t *testing.T) {
	tests := []struct {
		name    string
		handler echo.HandlerFunc
		status  int
		message string
		level   string
	}{
		{
			name:    "成功",
			handler: func(c echo.Context) error { return c.String(http.StatusOK, "success") },
			status:  http.StatusOK,
			message: "request completed",
			level:   "info",
		},
		{
			name:    "クライアントエラー",
			handler: func(c echo.Context) error { return echo.NewHTTPError(http.StatusBadRequest, "bad request") },
			status:  http.StatusBadRequest,
			message: "client error",
			level:   "warn",
		},
		{
			name:    "ハンドラーが返した500",
			handler: func(c echo.Context) error { return c.String(http.StatusInternalServerError, "internal error") },
			status:  http.StatusInternalServerError,
			message: "server error",
			level:   "error",
		},
		{
			name:    "エラーによる500",
			handler: func(c echo.Context) error { return errors.New("boom") },
			status:  http.StatusInternalServerError,
			message: "request failed",
			level:   "error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logs := observeLogs(t)
			e := echo.New()
			e.Use(RequestLogger())
			e.GET("/test", tt.handler)

			rec := serve(e, http.MethodGet, "/test", nil)

			assert.Equal(t, tt.status, rec.Code)
			entries := logs.FilterMessage(tt.message).All()
			if assert.Len(t, entries, 1) {
				assert.Equal(t, tt.level, entries[0].Level.String())
			}
		})
	}
}

func TestRequestIDMiddleware(t *testing.T) {
	e := echo.New()
	e.Use(RequestIDMiddleware())
	e.GET("/test", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	t.Run("IDがなければ生成する", func(t *testing.T) {
		first := serve(e, http.MethodGet, "/test", nil).Header().Get(echo.HeaderXRequestID)
		second := serve(e, http.MethodGet, "/test", nil).Header().Get(echo.HeaderXRequestID)

		assert.Len(t, first, 36)
		assert.NotEqual(t, first, second)
	})

	t.Run("既存のIDを引き継ぐ", func(t *testing.T) {
		header := http.Header{echo.HeaderXRequestID: []string{"existing-request-id"}}
		rec := serve(e, http.MethodGet, "/test", header)

		assert.Equal(t, "existing-request-id", rec.Header().Get(echo.HeaderXRequestID))
	})
}

func TestPrometheusMiddleware(t *testing.T) {
	m := metrics.NewWithRegistry(prometheus.NewRegistry())
	e := echo.New()
	e.Use(PrometheusMiddleware(m))
	e.GET("/api/v1/orders/:id", func(c echo.Context) error {
		if c.Param("id") == "0" {
			return echo.NewHTTPError(http.StatusNotFound, "not found")
		}
		return c.String(http.StatusOK, "ok")
	})

	serve(e, http.MethodGet, "/api/v1/orders/1", nil)
	serve(e, http.MethodGet, "/api/v1/orders/2", nil)
	serve(e, http.MethodGet, "/api/v1/orders/0", nil)

	assert.Equal(t, float64(2), testutil.ToFloat64(m.HTTPRequestsTotal.WithLabelValues("GET", "/api/v1/orders/:id", "200")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.HTTPRequestsTotal.WithLabelValues("GET", "/api/v1/orders/:id", "404")))
	assert.Equal(t, 1, testutil.CollectAndCount(m.HTTPRequestDuration))
}
