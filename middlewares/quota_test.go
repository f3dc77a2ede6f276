package middlewares

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

func TestQuotaRejectsOverBudget(t *testing.T) {
	gin.SetMode(gin.TestMode)

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	s := gin.New()
	s.GET("/ping", Quota(rdb, QuotaRule{
		Limit:  2,
		Window: time.Hour,
		KeyFn:  func(c *gin.Context) string { return "quota:test" },
	}), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	do := func() *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		s.ServeHTTP(w, req)
		return w
	}

	if w := do(); w.Code != http.StatusOK || w.Header().Get("X-Quota-Used") != "1/2" {
		t.Fatalf("first request code=%d used=%q", w.Code, w.Header().Get("X-Quota-Used"))
	}
	if w := do(); w.Code != http.StatusOK {
		t.Fatalf("second request code=%d", w.Code)
	}
	if w := do(); w.Code != http.StatusTooManyRequests {
		t.Fatalf("third request code=%d, want 429", w.Code)
	}

	// a new window resets the budget
	mr.FastForward(time.Hour + time.Second)
	if w := do(); w.Code != http.StatusOK {
		t.Fatalf("post-window request code=%d", w.Code)
	}
}

func TestQuotaSkipsEmptyKey(t *testing.T) {
	gin.SetMode(gin.TestMode)

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	s := gin.New()
	s.GET("/ping", Quota(rdb, QuotaRule{
		Limit:  1,
		Window: time.Hour,
		KeyFn:  func(c *gin.Context) string { return "" },
	}), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	for i := 0; i < 5; i++ {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		s.ServeHTTP(w, req)
		if w.Code != http.StatusOK {
			t.Fatalf("request %d code=%d", i, w.Code)
		}
	}
}
