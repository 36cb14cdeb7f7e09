package apperr_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/DjordjeVuckovic/news-desk/internal/apperr"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func handle(t *testing.T, err error) (int, map[string]any) {
	t.Helper()
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)

	apperr.GlobalErrorHandler()(err, c)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return rec.Code, body
}

func TestGlobalErrorHandler(t *testing.T) {
	t.Run("missing fields", func(t *testing.T) {
		code, body := handle(t, apperr.NewMissingFields([]string{"title"}, map[string]any{"content": "x"}))
		assert.Equal(t, http.StatusBadRequest, code)
		assert.Equal(t, false, body["success"])
		assert.Equal(t, []any{"title"}, body["missingFields"])
		assert.Equal(t, map[string]any{"content": "x"}, body["receivedData"])
		assert.Len(t, body["requiredFields"], 5)
	})

	t.Run("validation", func(t *testing.T) {
		code, body := handle(t, apperr.NewValidation("url is required"))
		assert.Equal(t, http.StatusBadRequest, code)
		assert.Equal(t, "url is required", body["error"])
	})

	t.Run("not found", func(t *testing.T) {
		code, body := handle(t, apperr.NewNotFound("article", "42"))
		assert.Equal(t, http.StatusNotFound, code)
		assert.Equal(t, "article 42 not found", body["error"])
	})

	t.Run("echo http error", func(t *testing.T) {
		code, body := handle(t, echo.NewHTTPError(http.StatusTooManyRequests, "slow down"))
		assert.Equal(t, http.StatusTooManyRequests, code)
		assert.Equal(t, "slow down", body["error"])
	})

	t.Run("unknown", func(t *testing.T) {
		code, body := handle(t, errors.New("boom"))
		assert.Equal(t, http.StatusInternalServerError, code)
		assert.Equal(t, "internal server error", body["error"])
	})
}
