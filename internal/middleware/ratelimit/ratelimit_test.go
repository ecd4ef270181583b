package ratelimit

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestAllowEnforcesLimit(t *testing.T) {
	l := New(3)
	defer l.Stop()

	for i := 0; i < 3; i++ {
		if !l.Allow("10.0.0.1") {
			t.Fatalf("request %d should be allowed", i+1)
		}
	}
	if l.Allow("10.0.0.1") {
		t.Fatalf("fourth request should be rejected")
	}
	// Other clients have their own window.
	if !l.Allow("10.0.0.2") {
		t.Fatalf("different client should be allowed")
	}
}

func TestWrapRejectsWith429(t *testing.T) {
	l := New(1)
	defer l.Stop()

	handler := l.Wrap(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	for i, want := range []int{http.StatusOK, http.StatusTooManyRequests} {
		req := httptest.NewRequest(http.MethodPost, "/import/csv", nil)
		req.RemoteAddr = "10.0.0.1:5555"
		rr := httptest.NewRecorder()
		handler(rr, req)
		if rr.Code != want {
			t.Fatalf("request %d status=%d want %d", i+1, rr.Code, want)
		}
	}
}

func TestClientKeyStripsPort(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "192.168.1.10:41234"
	if got := clientKey(req); got != "192.168.1.10" {
		t.Fatalf("client key: %q", got)
	}
}

func TestStopIsIdempotent(t *testing.T) {
	l := New(1)
	l.Stop()
	l.Stop()
}
