package health

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func serve(t *testing.T, h *Handler, path string) (int, map[string]interface{}) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h.RegisterRoutes(r)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return w.Code, body
}

func TestLiveness(t *testing.T) {
	code, body := serve(t, NewHandler(nil), "/health/live")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "UP", body["status"])
}

func TestReadiness(t *testing.T) {
	ok := func(context.Context) error { return nil }

	t.Run("all checks pass", func(t *testing.T) {
		code, body := serve(t, NewHandler(map[string]Checker{"database": ok, "redis": ok}), "/health/ready")
		assert.Equal(t, http.StatusOK, code)
		assert.Equal(t, "UP", body["status"])
	})

	t.Run("failing check", func(t *testing.T) {
		h := NewHandler(map[string]Checker{
			"database": ok,
			"redis":    func(context.Context) error { return errors.New("connection refused") },
		})
		code, body := serve(t, h, "/health/ready")
		assert.Equal(t, http.StatusServiceUnavailable, code)
		assert.Equal(t, "DOWN", body["status"])
		assert.Equal(t, map[string]interface{}{"redis": "connection refused"}, body["checks"])
	})
}
