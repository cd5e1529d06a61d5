package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/schoolit/servicedesk/internal/shared/logger"
)

type memCounter struct {
	mu   sync.Mutex
	hits map[string]int64
	err  error
}

func (m *memCounter) Hit(_ context.Context, key string, _ time.Duration) (int64, error) {
	if m.err != nil {
		return 0, m.err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.hits == nil {
		m.hits = make(map[string]int64)
	}
	m.hits[key]++
	return m.hits[key], nil
}

func limitedEngine(counter WindowCounter, limit int, now func() time.Time) *gin.Engine {
	rl := NewRateLimiter(counter, limit, time.Minute, logger.NewNop())
	rl.now = now
	r := gin.New()
	r.Use(rl.Limit())
	r.POST("/calls", func(c *gin.Context) { c.Status(http.StatusCreated) })
	r.GET("/calls", func(c *gin.Context) { c.Status(http.StatusOK) })
	return r
}

func do(r http.Handler, method string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, "/calls", nil)
	req.RemoteAddr = "10.0.0.7:5000"
	r.ServeHTTP(w, req)
	return w
}

func TestRateLimiter_BlocksWritesOverLimit(t *testing.T) {
	at := time.Unix(1_700_000_000, 0)
	r := limitedEngine(&memCounter{}, 2, func() time.Time { return at })

	assert.Equal(t, http.StatusCreated, do(r, http.MethodPost).Code)
	assert.Equal(t, http.StatusCreated, do(r, http.MethodPost).Code)

	w := do(r, http.MethodPost)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "60", w.Header().Get("Retry-After"))

	for i := 0; i < 5; i++ {
		assert.Equal(t, http.StatusOK, do(r, http.MethodGet).Code)
	}

	at = at.Add(time.Minute)
	assert.Equal(t, http.StatusCreated, do(r, http.MethodPost).Code)
}

func TestRateLimiter_FailsOpen(t *testing.T) {
	r := limitedEngine(&memCounter{err: errors.New("connection refused")}, 1, time.Now)

	for i := 0; i < 3; i++ {
		assert.Equal(t, http.StatusCreated, do(r, http.MethodPost).Code)
	}
}
