package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"

	"github.com/vmartins/escala-service/internal/config"
)

func newTestContext(t *testing.T) echo.Context {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/v1/shifts", nil)
	return e.NewContext(req, httptest.NewRecorder())
}

func TestUserIDReadsStoredClaim(t *testing.T) {
	c := newTestContext(t)
	// jwt.MapClaims decodes numeric subjects as float64.
	c.Set("user_id", float64(42))
	assert.Equal(t, "42", userID(c))

	c = newTestContext(t)
	c.Set("user_id", "7")
	assert.Equal(t, "7", userID(c))
}

func TestUserIDGuestWithoutToken(t *testing.T) {
	c := newTestContext(t)
	assert.Equal(t, "guest", userID(c))
}

func TestBucketKeySeparatesUsers(t *testing.T) {
	cfg := config.RateLimitConfig{Prefix: "rl", KeyStrategy: "user"}

	c := newTestContext(t)
	c.Set("user_id", float64(42))
	assert.Equal(t, "rl:user:42", bucketKey(cfg, c))

	anon := newTestContext(t)
	assert.Equal(t, "rl:user:anon", bucketKey(cfg, anon))
}
