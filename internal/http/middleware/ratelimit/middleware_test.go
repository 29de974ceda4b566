package ratelimit

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestMiddleware(t *testing.T) {
	handler := Middleware(WithLimit(time.Hour, 2))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	request := func(remoteAddr string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/activities", nil)
		req.RemoteAddr = remoteAddr
		res := httptest.NewRecorder()
		handler.ServeHTTP(res, req)
		return res
	}

	for i := 0; i < 2; i++ {
		res := request("192.0.2.1:1234")
		if e, g := http.StatusOK, res.Code; e != g {
			t.Fatalf("request #%d: expected status %d, got %d", i, e, g)
		}

		if e, g := "2", res.Header().Get("X-RateLimit-Limit"); e != g {
			t.Errorf("X-RateLimit-Limit: expected %s, got %s", e, g)
		}
	}

	limited := request("192.0.2.1:4321")

	if e, g := http.StatusTooManyRequests, limited.Code; e != g {
		t.Fatalf("limited: expected status %d, got %d", e, g)
	}

	if limited.Header().Get("Retry-After") == "" {
		t.Errorf("Retry-After: expected non empty header")
	}

	if e, g := http.StatusOK, request("192.0.2.2:1234").Code; e != g {
		t.Errorf("other client: expected status %d, got %d", e, g)
	}
}

func TestClientAddr(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "192.0.2.1:1234"
	req.Header.Set("X-Forwarded-For", "203.0.113.7, 10.0.0.1")

	if e, g := "192.0.2.1", ClientAddr(req, false); e != g {
		t.Errorf("ClientAddr(untrusted): expected %s, got %s", e, g)
	}

	if e, g := "203.0.113.7", ClientAddr(req, true); e != g {
		t.Errorf("ClientAddr(trusted): expected %s, got %s", e, g)
	}

	req.Header.Del("X-Forwarded-For")
	req.Header.Set("X-Real-Ip", "203.0.113.8")

	if e, g := "203.0.113.8", ClientAddr(req, true); e != g {
		t.Errorf("ClientAddr(X-Real-Ip): expected %s, got %s", e, g)
	}
}
