package middleware

import (
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/sanosuguru/go-seat-saver/internal/pkg/logger"
)

// logPanic はリカバーしたパニックをスタックトレース付きで記録する
func logPanic(c echo.Context, err error, stack []byte) error {
	logger.Error("panic recovered",
		zap.String("request_id", requestID(c)),
		zap.String("path", c.Request().URL.Path),
		zap.Error(err),
		zap.ByteString("stack", stack),
	)
	return err
}
