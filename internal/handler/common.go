package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/vmartins/escala-service/internal/scheduler"
)

// getUserID extracts the user_id from echo.Context and converts it to uint64.
func getUserID(c echo.Context) (uint64, error) {
	v := c.Get("user_id")
	switch t := v.(type) {
	case uint64:
		return t, nil
	case int:
		return uint64(t), nil
	case int64:
		return uint64(t), nil
	case float64:
		return uint64(t), nil
	case string:
		if n, err := strconv.ParseUint(t, 10, 64); err == nil {
			return n, nil
		}
	}
	return 0, errors.New("invalid user_id in context")
}

// pathID parses a numeric path parameter.
func pathID(c echo.Context, name string) (uint64, bool) {
	n, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || n == 0 {
		return 0, false
	}
	return n, true
}

// respondOpError maps scheduling errors to their HTTP shape.  Anything
// that is not an operation error becomes a generic 500.
func respondOpError(c echo.Context, err error) error {
	var oe *scheduler.OpError
	if errors.As(err, &oe) {
		return c.JSON(oe.Status, echo.Map{"message": oe.Message})
	}
	return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
}
