package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/pyy-alt/ppg-admin-sub000/pkg/enums"
	"github.com/pyy-alt/ppg-admin-sub000/pkg/visibility"
)

type fakeLimiter struct {
	counts map[string]int64
	err    error
}

func (f *fakeLimiter) FixedWindowAllow(_ context.Context, scope string, limit int64, _ time.Duration) (bool, int64, error) {
	if f.err != nil {
		return false, 0, f.err
	}
	if f.counts == nil {
		f.counts = map[string]int64{}
	}
	f.counts[scope]++
	return f.counts[scope] <= limit, f.counts[scope], nil
}

func TestWriteRateLimitBlocksAfterLimit(t *testing.T) {
	limiter := &fakeLimiter{}
	handler := WriteRateLimit(limiter, 2, time.Minute, nil)(okHandler())
	viewer := visibility.Viewer{PersonID: uuid.New(), OrganizationID: uuid.New(), Role: enums.PersonRoleShop}

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/parts-orders/abc/actions", nil)
		req = req.WithContext(WithViewer(req.Context(), viewer))
		resp := httptest.NewRecorder()
		handler.ServeHTTP(resp, req)
		codes = append(codes, resp.Code)
	}

	if codes[0] != http.StatusOK || codes[1] != http.StatusOK {
		t.Fatalf("expected first two writes allowed, got %v", codes)
	}
	if codes[2] != http.StatusTooManyRequests {
		t.Fatalf("expected 429 got %d", codes[2])
	}
	if _, ok := limiter.counts["write:person:"+viewer.PersonID.String()]; !ok {
		t.Fatalf("expected person scoped counter, got %v", limiter.counts)
	}
}

func TestWriteRateLimitIgnoresReads(t *testing.T) {
	limiter := &fakeLimiter{}
	handler := WriteRateLimit(limiter, 1, time.Minute, nil)(okHandler())

	for i := 0; i < 3; i++ {
		resp := httptest.NewRecorder()
		handler.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/v1/repair-orders", nil))
		if resp.Code != http.StatusOK {
			t.Fatalf("expected 200 got %d", resp.Code)
		}
	}
	if len(limiter.counts) != 0 {
		t.Fatalf("reads should not be counted")
	}
}

func TestWriteRateLimitFailsOpen(t *testing.T) {
	handler := WriteRateLimit(&fakeLimiter{err: errors.New("redis down")}, 1, time.Minute, nil)(okHandler())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/repair-orders", nil)
	req.RemoteAddr = "10.0.0.1:1234"
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
}

func TestRateLimitSubjectFallsBackToIP(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", nil)
	req.Header.Set("X-Forwarded-For", "203.0.113.7, 10.0.0.1")
	if got, want := rateLimitSubject(req), "ip:"+hashValue("203.0.113.7"); got != want {
		t.Fatalf("expected %s got %s", want, got)
	}
}
