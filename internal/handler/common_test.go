package handler

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"

	"github.com/vmartins/escala-service/internal/scheduler"
)

func newTestContext(t *testing.T, method, target string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(method, target, nil)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestHealth(t *testing.T) {
	c, rec := newTestContext(t, http.MethodGet, "/healthz")

	assert.NoError(t, Health(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestRespondOpErrorUsesEmbeddedStatus(t *testing.T) {
	c, rec := newTestContext(t, http.MethodPost, "/v1/shifts")

	err := &scheduler.OpError{Status: http.StatusConflict, Message: "a shift already exists for this date and vehicle"}
	assert.NoError(t, respondOpError(c, err))
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.JSONEq(t, `{"message":"a shift already exists for this date and vehicle"}`, rec.Body.String())
}

func TestRespondOpErrorFallsBackTo500(t *testing.T) {
	c, rec := newTestContext(t, http.MethodGet, "/v1/shifts/1")

	assert.NoError(t, respondOpError(c, errors.New("boom")))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"message":"internal error"}`, rec.Body.String())
}

func TestPathID(t *testing.T) {
	c, _ := newTestContext(t, http.MethodGet, "/v1/shifts/44")
	c.SetParamNames("id")
	c.SetParamValues("44")

	id, ok := pathID(c, "id")
	assert.True(t, ok)
	assert.Equal(t, uint64(44), id)

	c.SetParamValues("abc")
	_, ok = pathID(c, "id")
	assert.False(t, ok)

	c.SetParamValues("0")
	_, ok = pathID(c, "id")
	assert.False(t, ok)
}

func TestGetUserID(t *testing.T) {
	c, _ := newTestContext(t, http.MethodGet, "/v1/me")

	c.Set("user_id", float64(9)) // jwt numeric claims decode as float64
	id, err := getUserID(c)
	assert.NoError(t, err)
	assert.Equal(t, uint64(9), id)

	c.Set("user_id", "17")
	id, err = getUserID(c)
	assert.NoError(t, err)
	assert.Equal(t, uint64(17), id)

	c.Set("user_id", nil)
	_, err = getUserID(c)
	assert.Error(t, err)
}
