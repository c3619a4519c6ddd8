package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

// readyTimeout は依存先ごとの疎通確認の上限時間
const readyTimeout = 2 * time.Second

// HealthHandler はヘルスチェックハンドラー
type HealthHandler struct {
	pingers []Pinger
}

// NewHealthHandler はHealthHandlerを作成する
func NewHealthHandler(pingers ...Pinger) *HealthHandler {
	return &HealthHandler{pingers: pingers}
}

// HealthResponse はヘルスチェックのレスポンス
type HealthResponse struct {
	Status    string            `json:"status"`
	Timestamp string            `json:"timestamp"`
	Checks    map[string]string `json:"checks,omitempty"`
}

// Check はプロセスの生存確認を行う
// @Summary ヘルスチェック
// @Tags health
// @Produce json
// @Success 200 {object} HealthResponse
// @Router /health [get]
func (h *HealthHandler) Check(c echo.Context) error {
	return c.JSON(http.StatusOK, HealthResponse{
		Status:    "ok",
		Timestamp: time.Now().Format(time.RFC3339),
	})
}

// Ready は依存先（DB・Redis）への疎通を確認する
// @Summary レディネスチェック
// @Tags health
// @Produce json
// @Success 200 {object} HealthResponse
// @Failure 503 {object} HealthResponse
// @Router /ready [get]
func (h *HealthHandler) Ready(c echo.Context) error {
	status := http.StatusOK
	resp := HealthResponse{
		Status:    "ok",
		Timestamp: time.Now().Format(time.RFC3339),
		Checks:    make(map[string]string, len(h.pingers)),
	}

	for _, p := range h.pingers {
		ctx, cancel := context.WithTimeout(c.Request().Context(), readyTimeout)
		err := p.Ping(ctx)
		cancel()
		if err != nil {
			resp.Checks[p.Name()] = err.Error()
			resp.Status = "unavailable"
			status = http.StatusServiceUnavailable
			continue
		}
		resp.Checks[p.Name()] = "ok"
	}
	return c.JSON(status, resp)
}
