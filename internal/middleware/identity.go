package middleware

import (
	"strconv"

	"github.com/labstack/echo/v4"
)

// userID extracts the authenticated user id that JWTAuth stored under
// "user_id".  The claim arrives as a JSON number (float64) from a
// parsed token, but a string is tolerated too.  It returns "guest"
// when the request carries no valid token.
func userID(c echo.Context) string {
	switch v := c.Get("user_id").(type) {
	case string:
		if v != "" {
			return v
		}
	case float64:
		return strconv.FormatUint(uint64(v), 10)
	case uint64:
		return strconv.FormatUint(v, 10)
	case int64:
		return strconv.FormatInt(v, 10)
	}
	return "guest"
}
