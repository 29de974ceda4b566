package http

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestServerHandler(t *testing.T) {
	var seenPath string

	api := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seenPath = r.URL.Path
		w.WriteHeader(http.StatusOK)
	})

	var order []string
	tag := func(name string) Middleware {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				next.ServeHTTP(w, r)
			})
		}
	}

	server := NewServer(
		WithBaseURL("/club"),
		WithMount("/api/v1/", api),
		WithMiddlewares(tag("outer"), tag("inner")),
		WithAllowedOrigins("https://club.example.com"),
	)

	handler := server.Handler()

	req := httptest.NewRequest(http.MethodGet, "/club/api/v1/addresses", nil)
	req.Header.Set("Origin", "https://club.example.com")
	res := httptest.NewRecorder()

	handler.ServeHTTP(res, req)

	if e, g := http.StatusOK, res.Code; e != g {
		t.Fatalf("res.Code: expected %d, got %d", e, g)
	}

	if e, g := "/addresses", seenPath; e != g {
		t.Errorf("seenPath: expected %s, got %s", e, g)
	}

	if e, g := "https://club.example.com", res.Header().Get("Access-Control-Allow-Origin"); e != g {
		t.Errorf("Access-Control-Allow-Origin: expected %s, got %s", e, g)
	}

	if len(order) != 2 || order[0] != "outer" || order[1] != "inner" {
		t.Errorf("order: expected [outer inner], got %v", order)
	}

	notFound := httptest.NewRecorder()
	handler.ServeHTTP(notFound, httptest.NewRequest(http.MethodGet, "/api/v1/addresses", nil))

	if e, g := http.StatusNotFound, notFound.Code; e != g {
		t.Errorf("notFound.Code: expected %d, got %d", e, g)
	}
}
