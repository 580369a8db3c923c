package observability

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestMetricsSnapshot(t *testing.T) {
	m := NewMetrics()
	m.RecordRequest("/api/v1/hospitals", "GET", 200, 2*time.Millisecond)
	m.RecordRequest("/api/v1/hospitals", "GET", 200, 4*time.Millisecond)
	m.RecordError("/api/v1/auth/me", "GET", "UNAUTHENTICATED")
	m.RecordAuthFailure("TOKEN_EXPIRED")

	snap := m.Snapshot()
	assert.Equal(t, int64(2), snap.Requests["/api/v1/hospitals|GET|200"])
	assert.Equal(t, int64(1), snap.Errors["/api/v1/auth/me|GET|UNAUTHENTICATED"])
	assert.Equal(t, int64(1), snap.AuthFailures["TOKEN_EXPIRED"])
	assert.InDelta(t, 3.0, snap.AvgLatencyMsec, 0.01)
}

func TestMetricsNilSafe(t *testing.T) {
	var m *Metrics
	m.RecordRequest("/", "GET", 200, time.Millisecond)
	m.RecordError("/", "GET", "X")
	m.RecordAuthFailure("X")
}

func TestRequestLoggerAssignsRequestID(t *testing.T) {
	app := fiber.New()
	app.Use(RequestLogger(zap.NewNop(), NewMetrics()))
	app.Get("/ping", func(c *fiber.Ctx) error {
		return c.SendString(RequestID(c))
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/ping", nil))
	require.NoError(t, err)
	assert.Len(t, resp.Header.Get(HeaderRequestID), 26)

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(HeaderRequestID, "caller-supplied")
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, "caller-supplied", resp.Header.Get(HeaderRequestID))
}

func TestNewRequestIDMonotonic(t *testing.T) {
	a := NewRequestID()
	b := NewRequestID()
	assert.Less(t, a, b)
}
