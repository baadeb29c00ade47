package common

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func decodeError(t *testing.T, rr *httptest.ResponseRecorder) ErrorBody {
	t.Helper()
	var body struct {
		Error ErrorBody `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	return body.Error
}

func TestWriteErrorAppError(t *testing.T) {
	cause := errors.New("strconv failure")
	err := fmt.Errorf("decode: %w", BadRequest("quantity", "quantity must be positive", cause))
	require.True(t, IsAppError(err))
	require.ErrorIs(t, err, cause)

	rr := httptest.NewRecorder()
	WriteError(rr, err)
	require.Equal(t, http.StatusBadRequest, rr.Code)
	body := decodeError(t, rr)
	require.Equal(t, "BAD_REQUEST", body.Code)
	require.Equal(t, "quantity must be positive", body.Message)
	require.Equal(t, map[string]any{"field": "quantity"}, body.Details)
}

func TestWriteErrorHidesInternalErrors(t *testing.T) {
	rr := httptest.NewRecorder()
	WriteError(rr, errors.New("redis: connection refused"))
	require.Equal(t, http.StatusInternalServerError, rr.Code)
	body := decodeError(t, rr)
	require.Equal(t, "INTERNAL", body.Code)
	require.Equal(t, "internal error", body.Message)
}

func TestClientIP(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "192.0.2.1:5555"
	require.Equal(t, "192.0.2.1", ClientIP(req))

	req.Header.Set("X-Real-IP", "198.51.100.7")
	require.Equal(t, "198.51.100.7", ClientIP(req))

	req.Header.Set("X-Forwarded-For", "203.0.113.9, 10.0.0.1")
	require.Equal(t, "203.0.113.9", ClientIP(req))
}

func TestClientIPSkipsGarbage(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "192.0.2.1:5555"
	req.Header.Set("X-Forwarded-For", "unknown, 2001:db8::1")
	require.Equal(t, "2001:db8::1", ClientIP(req))

	req.Header.Set("X-Forwarded-For", "garbage")
	req.Header.Set("X-Real-IP", "also garbage")
	require.Equal(t, "192.0.2.1", ClientIP(req))
}

func TestData(t *testing.T) {
	rr := httptest.NewRecorder()
	Data(rr, http.StatusOK, []string{"P1"})
	require.JSONEq(t, `{"data":["P1"]}`, rr.Body.String())
	require.Equal(t, "application/json", rr.Header().Get("Content-Type"))
}
