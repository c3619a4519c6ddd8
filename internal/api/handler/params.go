package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
)

// parseID はパスパラメータを正の整数IDとして読む
func parseID(c echo.Context, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "IDが不正です")
	}
	return id, nil
}
