package requestid

import (
	"net/http"
	"net/http/httptest"
	"testing"

	httpCtx "github.com/bornholm/clubhouse/internal/http/context"
)

func TestMiddleware(t *testing.T) {
	var seen, seenHeader string

	handler := Middleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = httpCtx.RequestID(r.Context())
		seenHeader = r.Header.Get(Header)
		w.WriteHeader(http.StatusTeapot)
	}))

	res := httptest.NewRecorder()
	handler.ServeHTTP(res, httptest.NewRequest(http.MethodGet, "/addresses", nil))

	if seen == "" {
		t.Fatalf("request id: expected non empty identifier")
	}

	if e, g := seen, res.Header().Get(Header); e != g {
		t.Errorf("res.Header().Get(%s): expected %s, got %s", Header, e, g)
	}

	if e, g := seen, seenHeader; e != g {
		t.Errorf("r.Header.Get(%s): expected %s, got %s", Header, e, g)
	}

	if e, g := http.StatusTeapot, res.Code; e != g {
		t.Errorf("res.Code: expected %d, got %d", e, g)
	}

	other := httptest.NewRecorder()
	handler.ServeHTTP(other, httptest.NewRequest(http.MethodGet, "/addresses", nil))

	if other.Header().Get(Header) == seen {
		t.Errorf("request ids: expected distinct identifiers, got %s twice", seen)
	}
}
