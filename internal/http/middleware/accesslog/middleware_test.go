package accesslog

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/bornholm/clubhouse/internal/http/middleware/requestid"
)

func TestMiddleware(t *testing.T) {
	var buf bytes.Buffer

	logger := slog.New(slog.NewTextHandler(&buf, nil))

	handler := requestid.Middleware()(Middleware(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
	})))

	res := httptest.NewRecorder()
	handler.ServeHTTP(res, httptest.NewRequest(http.MethodPost, "/addresses", nil))

	if e, g := http.StatusCreated, res.Code; e != g {
		t.Fatalf("res.Code: expected %d, got %d", e, g)
	}

	requestID := res.Header().Get(requestid.Header)
	if requestID == "" {
		t.Fatalf("res.Header().Get(%s): expected non empty identifier", requestid.Header)
	}

	line := buf.String()

	for _, expected := range []string{requestID, "/addresses", "201"} {
		if !strings.Contains(line, expected) {
			t.Errorf("access log: expected %q in %q", expected, line)
		}
	}
}
