package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSystemHandler_Health(t *testing.T) {
	ok := PingFunc(func(context.Context) error { return nil })
	down := PingFunc(func(context.Context) error { return errors.New("connection refused") })

	tests := []struct {
		name       string
		checks     map[string]Pinger
		wantStatus int
		wantState  string
		wantChecks map[string]string
	}{
		{"no checks", nil, http.StatusOK, "healthy", map[string]string{}},
		{"all up", map[string]Pinger{"database": ok, "redis": ok}, http.StatusOK, "healthy", map[string]string{"database": "ok", "redis": "ok"}},
		{"redis down", map[string]Pinger{"database": ok, "redis": down}, http.StatusServiceUnavailable, "unhealthy", map[string]string{"database": "ok", "redis": "error"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewSystemHandler("SAFE Document Service", "test", tt.checks)
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, "/health", nil)

			h.Health(c)

			assert.Equal(t, tt.wantStatus, w.Code)
			var resp HealthResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Equal(t, tt.wantState, resp.Status)
			assert.Equal(t, tt.wantChecks, resp.Checks)
			_, err := time.Parse(time.RFC3339, resp.Time)
			assert.NoError(t, err)
		})
	}
}

func TestSystemHandler_HealthCheckHasDeadline(t *testing.T) {
	var hadDeadline bool
	h := NewSystemHandler("svc", "test", map[string]Pinger{
		"database": PingFunc(func(ctx context.Context) error {
			_, hadDeadline = ctx.Deadline()
			return nil
		}),
	})
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/health", nil)

	h.Health(c)

	assert.True(t, hadDeadline)
}

func TestSystemHandler_GetSystemInfo(t *testing.T) {
	h := NewSystemHandler("SAFE Document Service", "1.2.3", nil)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/system/info", nil)

	h.GetSystemInfo(c)

	assert.Equal(t, http.StatusOK, w.Code)
	data := decodeResponse(t, w).Data.(map[string]any)
	assert.Equal(t, "SAFE Document Service", data["name"])
	assert.Equal(t, "1.2.3", data["version"])
	assert.NotEmpty(t, data["go_version"])
	assert.NotEmpty(t, data["uptime"])
}
