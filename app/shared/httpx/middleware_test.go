package httpx

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"

	"github.com/Monthly-Cup-Club/cup-scorer/app/shared/observability/attr"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
}

func TestRateLimitMiddleware(t *testing.T) {
	limiter := NewIPRateLimiter(rate.Limit(0.001), 2)
	h := RateLimitMiddleware(limiter)(okHandler())

	send := func(remote string) int {
		req := httptest.NewRequest(http.MethodPost, "/api/events/x/finalize", nil)
		req.RemoteAddr = remote
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec.Code
	}

	assert.Equal(t, http.StatusNoContent, send("10.0.0.1:1234"))
	assert.Equal(t, http.StatusNoContent, send("10.0.0.1:5678"))
	assert.Equal(t, http.StatusTooManyRequests, send("10.0.0.1:9999"))
	assert.Equal(t, http.StatusNoContent, send("10.0.0.2:1234"), "other clients keep their own bucket")
}

func TestIPRateLimiter_PrunesIdleEntries(t *testing.T) {
	limiter := NewIPRateLimiter(rate.Limit(1), 1)
	clock := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	limiter.now = func() time.Time { return clock }

	for i := 0; i <= cleanupThreshold; i++ {
		limiter.GetLimiter(fmt.Sprintf("10.0.%d.%d", i/256, i%256))
	}
	require.Equal(t, cleanupThreshold+1, limiter.size())

	clock = clock.Add(maxIdleAge + time.Minute)
	limiter.GetLimiter("192.168.0.1")
	assert.Equal(t, 1, limiter.size())
}

func TestCORSMiddleware(t *testing.T) {
	h := CORSMiddleware([]string{"https://cup.example"})(okHandler())

	req := httptest.NewRequest(http.MethodOptions, "/api/scores", nil)
	req.Header.Set("Origin", "https://cup.example")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "https://cup.example", rec.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/api/scores", nil)
	req.Header.Set("Origin", "https://evil.example")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestCorrelationMiddleware(t *testing.T) {
	var seen string
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = attr.CorrelationID(r.Context())
	})
	h := middleware.RequestID(CorrelationMiddleware(inner))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	assert.NotEmpty(t, seen)
}

func TestWriteErrorAndActor(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteError(rec, http.StatusConflict, "event already finalized")

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	var body ErrorBody
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, "event already finalized", body.Error)

	req := httptest.NewRequest(http.MethodPost, "/", nil)
	assert.Equal(t, DefaultActor, Actor(req))
	req.Header.Set(ActorHeader, "  marshal  ")
	assert.Equal(t, "marshal", Actor(req))
}
