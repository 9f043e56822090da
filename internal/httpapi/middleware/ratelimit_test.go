package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestRateLimit_AllowsThenBlocks(t *testing.T) {
	h := RateLimit(60, 2)(okHandler())
	req := httptest.NewRequest("GET", "/", nil)
	req.RemoteAddr = "1.2.3.4:1234"

	for i := 0; i < 2; i++ {
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, req)
		assert.Equal(t, 200, rr.Code)
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	assert.Equal(t, 429, rr.Code)
	assert.JSONEq(t, `{"error":"rate limit exceeded"}`, rr.Body.String())

	time.Sleep(1100 * time.Millisecond)
	rr2 := httptest.NewRecorder()
	h.ServeHTTP(rr2, req)
	assert.Equal(t, 200, rr2.Code, "want 200 after refill")
}

func TestRateLimit_PerClient(t *testing.T) {
	h := RateLimit(60, 1)(okHandler())

	a := httptest.NewRequest("GET", "/", nil)
	a.RemoteAddr = "1.1.1.1:1"
	b := httptest.NewRequest("GET", "/", nil)
	b.RemoteAddr = "2.2.2.2:2"

	for _, req := range []*http.Request{a, b} {
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, req)
		assert.Equal(t, 200, rr.Code)
	}
}

func TestRateLimit_DisabledWhenZero(t *testing.T) {
	h := RateLimit(0, 0)(okHandler())
	req := httptest.NewRequest("GET", "/", nil)
	for i := 0; i < 50; i++ {
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, req)
		assert.Equal(t, 200, rr.Code)
	}
}

func TestClientIP(t *testing.T) {
	req := httptest.NewRequest("GET", "/", nil)
	req.RemoteAddr = "10.0.0.1:5555"
	assert.Equal(t, "10.0.0.1", clientIP(req))

	req.Header.Set("X-Forwarded-For", " 203.0.113.7 , 10.0.0.1")
	assert.Equal(t, "10.0.0.1", clientIP(req), "forwarded header is not trusted here")
}

func TestRateLimit_ForwardedHeaderDoesNotResetBucket(t *testing.T) {
	h := RateLimit(60, 1)(okHandler())

	codes := make([]int, 0, 3)
	for _, xff := range []string{"203.0.113.1", "203.0.113.2", "203.0.113.3"} {
		req := httptest.NewRequest("GET", "/", nil)
		req.RemoteAddr = "10.0.0.9:4000"
		req.Header.Set("X-Forwarded-For", xff)
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, req)
		codes = append(codes, rr.Code)
	}
	assert.Equal(t, []int{200, 429, 429}, codes)
}
