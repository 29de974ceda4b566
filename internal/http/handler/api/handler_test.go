package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	gormAdapter "github.com/bornholm/clubhouse/internal/adapter/gorm"
	"github.com/bornholm/clubhouse/internal/core/model"
	"github.com/bornholm/clubhouse/internal/core/service"
	"github.com/jonboulle/clockwork"
	"github.com/ncruces/go-sqlite3/gormlite"
	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	_ "github.com/ncruces/go-sqlite3/embed"
)

func newTestHandler(t *testing.T, funcs ...OptionFunc) *Handler {
	t.Helper()

	if len(funcs) == 0 {
		funcs = []OptionFunc{WithHardDelete(true)}
	}

	db, err := gorm.Open(gormlite.Open(filepath.Join(t.TempDir(), "api.sqlite")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("%+v", errors.WithStack(err))
	}

	internalDB, err := db.DB()
	if err != nil {
		t.Fatalf("%+v", errors.WithStack(err))
	}

	internalDB.SetMaxOpenConns(1)

	t.Cleanup(func() {
		_ = internalDB.Close()
	})

	if err := db.Exec("PRAGMA foreign_keys=on").Error; err != nil {
		t.Fatalf("%+v", errors.WithStack(err))
	}

	clock := clockwork.NewFakeClockAt(time.Date(2025, 2, 1, 8, 0, 0, 0, time.UTC))

	store, err := gormAdapter.NewStore(db, gormAdapter.WithClock(clock), gormAdapter.WithRetry(0, 0))
	if err != nil {
		t.Fatalf("%+v", errors.WithStack(err))
	}

	return NewHandler(service.NewClub(store, store), funcs...)
}

func doRequest(t *testing.T, h http.Handler, method string, path string, body any, out any) int {
	t.Helper()

	var payload bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&payload).Encode(body); err != nil {
			t.Fatalf("%+v", errors.WithStack(err))
		}
	}

	req := httptest.NewRequest(method, path, &payload)
	req.Header.Set("Content-Type", "application/json")

	res := httptest.NewRecorder()

	h.ServeHTTP(res, req)

	t.Logf("%s %s -> %d %s", method, path, res.Code, res.Body.String())

	if out != nil && res.Body.Len() > 0 {
		if err := json.Unmarshal(res.Body.Bytes(), out); err != nil {
			t.Fatalf("%+v", errors.WithStack(err))
		}
	}

	return res.Code
}

func TestAddressLifecycle(t *testing.T) {
	h := newTestHandler(t)

	var created model.Address
	status := doRequest(t, h, http.MethodPost, "/addresses", map[string]any{
		"line1":   "Av. de Jaume III, 15",
		"city":    "Palma",
		"country": "Spain",
	}, &created)

	if e, g := http.StatusCreated, status; e != g {
		t.Fatalf("POST /addresses: expected status %d, got %d", e, g)
	}

	if created.PublicID == "" {
		t.Fatalf("created.PublicID: expected non empty identifier")
	}

	var patched model.Address
	status = doRequest(t, h, http.MethodPatch, "/addresses/"+created.PublicID.String(), map[string]any{
		"region": "Balearic Islands",
	}, &patched)

	if e, g := http.StatusOK, status; e != g {
		t.Fatalf("PATCH: expected status %d, got %d", e, g)
	}

	if e, g := "Balearic Islands", patched.Region; e != g {
		t.Errorf("patched.Region: expected %s, got %s", e, g)
	}

	if e, g := "Palma", patched.City; e != g {
		t.Errorf("patched.City: expected %s, got %s", e, g)
	}

	if e, g := http.StatusNoContent, doRequest(t, h, http.MethodDelete, "/addresses/"+created.PublicID.String(), nil, nil); e != g {
		t.Fatalf("DELETE: expected status %d, got %d", e, g)
	}

	if e, g := http.StatusNotFound, doRequest(t, h, http.MethodGet, "/addresses/"+created.PublicID.String(), nil, nil); e != g {
		t.Errorf("GET: expected status %d, got %d", e, g)
	}

	if e, g := http.StatusNotFound, doRequest(t, h, http.MethodDelete, "/addresses/"+created.PublicID.String(), nil, nil); e != g {
		t.Errorf("second DELETE: expected status %d, got %d", e, g)
	}

	var active ListResponse[model.Address]
	doRequest(t, h, http.MethodGet, "/addresses", nil, &active)

	if e, g := int64(0), active.Total; e != g {
		t.Errorf("active.Total: expected %d, got %d", e, g)
	}

	var trash ListResponse[model.Address]
	doRequest(t, h, http.MethodGet, "/trash/addresses", nil, &trash)

	if e, g := int64(1), trash.Total; e != g {
		t.Fatalf("trash.Total: expected %d, got %d", e, g)
	}

	if trash.Items[0].DeletedAt == nil {
		t.Errorf("trash.Items[0].DeletedAt: expected non nil")
	}

	var restored model.Address
	status = doRequest(t, h, http.MethodPost, "/addresses/"+created.PublicID.String()+"/restore", nil, &restored)

	if e, g := http.StatusOK, status; e != g {
		t.Fatalf("restore: expected status %d, got %d", e, g)
	}

	if restored.DeletedAt != nil {
		t.Errorf("restored.DeletedAt: expected nil, got %v", *restored.DeletedAt)
	}

	if e, g := http.StatusNoContent, doRequest(t, h, http.MethodDelete, "/trash/addresses/"+created.PublicID.String(), nil, nil); e != g {
		t.Errorf("hard DELETE: expected status %d, got %d", e, g)
	}

	if e, g := http.StatusNotFound, doRequest(t, h, http.MethodGet, "/trash/addresses/"+created.PublicID.String(), nil, nil); e != g {
		t.Errorf("GET trash: expected status %d, got %d", e, g)
	}
}

func TestErrorResponses(t *testing.T) {
	h := newTestHandler(t)

	var validation ErrorResponse
	status := doRequest(t, h, http.MethodPost, "/venues", map[string]any{
		"name": "Son Moix",
		"type": "moon",
	}, &validation)

	if e, g := http.StatusBadRequest, status; e != g {
		t.Fatalf("POST /venues: expected status %d, got %d", e, g)
	}

	if e, g := 1, len(validation.Fields); e != g {
		t.Fatalf("len(validation.Fields): expected %d, got %d", e, g)
	}

	if e, g := "type", validation.Fields[0].Field; e != g {
		t.Errorf("validation.Fields[0].Field: expected %s, got %s", e, g)
	}

	var unknownField ErrorResponse
	status = doRequest(t, h, http.MethodPost, "/seasons", map[string]any{"title": "2025"}, &unknownField)

	if e, g := http.StatusBadRequest, status; e != g {
		t.Errorf("POST /seasons: expected status %d, got %d", e, g)
	}

	if e, g := http.StatusBadRequest, doRequest(t, h, http.MethodGet, "/venues?type=moon", nil, nil); e != g {
		t.Errorf("GET /venues?type=moon: expected status %d, got %d", e, g)
	}

	if e, g := http.StatusBadRequest, doRequest(t, h, http.MethodGet, "/activities?from=yesterday", nil, nil); e != g {
		t.Errorf("GET /activities?from=yesterday: expected status %d, got %d", e, g)
	}

	var address model.Address
	doRequest(t, h, http.MethodPost, "/addresses", map[string]any{
		"line1":   "Carrer Major, 1",
		"city":    "Manacor",
		"country": "Spain",
	}, &address)

	doRequest(t, h, http.MethodPost, "/venues", map[string]any{
		"name":    "Rafa Nadal Sports Centre",
		"type":    "gymnasium",
		"address": address.PublicID,
	}, nil)

	var conflict ErrorResponse
	status = doRequest(t, h, http.MethodDelete, "/trash/addresses/"+address.PublicID.String(), nil, &conflict)

	if e, g := http.StatusConflict, status; e != g {
		t.Errorf("hard DELETE: expected status %d, got %d", e, g)
	}

	if conflict.Message == "" {
		t.Errorf("conflict.Message: expected non empty message")
	}
}

func TestListActivities(t *testing.T) {
	h := newTestHandler(t)

	var season model.Season
	doRequest(t, h, http.MethodPost, "/seasons", map[string]any{
		"name":     "2025",
		"startsOn": "2025-01-01T00:00:00Z",
		"endsOn":   "2025-12-31T00:00:00Z",
	}, &season)

	if e, g := http.StatusCreated, doRequest(t, h, http.MethodPost, "/trainings", map[string]any{
		"name":   "Footwork",
		"date":   "2025-03-01T10:00:00Z",
		"season": season.PublicID,
		"focus":  "serve",
	}, nil); e != g {
		t.Fatalf("POST /trainings: expected status %d, got %d", e, g)
	}

	if e, g := http.StatusCreated, doRequest(t, h, http.MethodPost, "/competitions", map[string]any{
		"name":     "Spring cup",
		"date":     "2025-04-01T10:00:00Z",
		"season":   season.PublicID,
		"opponent": "Manacor TC",
		"score":    map[string]int{"home": 2, "away": 0},
	}, nil); e != g {
		t.Fatalf("POST /competitions: expected status %d, got %d", e, g)
	}

	var res struct {
		Activities []map[string]any `json:"activities"`
		Limit      int              `json:"limit"`
	}

	if e, g := http.StatusOK, doRequest(t, h, http.MethodGet, "/activities?season="+season.PublicID.String(), nil, &res); e != g {
		t.Fatalf("GET /activities: expected status %d, got %d", e, g)
	}

	if e, g := 2, len(res.Activities); e != g {
		t.Fatalf("len(res.Activities): expected %d, got %d", e, g)
	}

	if e, g := "competition", res.Activities[0]["kind"]; e != g {
		t.Errorf("res.Activities[0].kind: expected %v, got %v", e, g)
	}

	if e, g := "training", res.Activities[1]["kind"]; e != g {
		t.Errorf("res.Activities[1].kind: expected %v, got %v", e, g)
	}

	if e, g := "serve", res.Activities[1]["focus"]; e != g {
		t.Errorf("res.Activities[1].focus: expected %v, got %v", e, g)
	}

	// A plain date upper bound covers the whole day
	if e, g := http.StatusOK, doRequest(t, h, http.MethodGet, "/activities?to=2025-04-01", nil, &res); e != g {
		t.Fatalf("GET /activities?to=2025-04-01: expected status %d, got %d", e, g)
	}

	if e, g := 2, len(res.Activities); e != g {
		t.Errorf("len(res.Activities): expected %d, got %d", e, g)
	}

	if e, g := http.StatusOK, doRequest(t, h, http.MethodGet, "/activities?to=2025-03-31", nil, &res); e != g {
		t.Fatalf("GET /activities?to=2025-03-31: expected status %d, got %d", e, g)
	}

	if e, g := 1, len(res.Activities); e != g {
		t.Errorf("len(res.Activities): expected %d, got %d", e, g)
	}

	if e, g := http.StatusOK, doRequest(t, h, http.MethodGet, "/activities?from=2025-04-01&to=2025-04-01T09:00:00Z", nil, &res); e != g {
		t.Fatalf("GET /activities?from=2025-04-01&to=2025-04-01T09:00:00Z: expected status %d, got %d", e, g)
	}

	if e, g := 0, len(res.Activities); e != g {
		t.Errorf("len(res.Activities): expected %d, got %d", e, g)
	}

	if e, g := http.StatusOK, doRequest(t, h, http.MethodGet, "/activities?limit=1&page=1", nil, &res); e != g {
		t.Fatalf("GET /activities: expected status %d, got %d", e, g)
	}

	if e, g := 1, len(res.Activities); e != g {
		t.Fatalf("len(res.Activities): expected %d, got %d", e, g)
	}

	if e, g := "training", res.Activities[0]["kind"]; e != g {
		t.Errorf("res.Activities[0].kind: expected %v, got %v", e, g)
	}
}

func TestMalformedIdentifier(t *testing.T) {
	h := newTestHandler(t)

	path := "/addresses/not-an-id!"

	type testCase struct {
		Method string
		Path   string
		Body   any
	}

	testCases := []testCase{
		{Method: http.MethodGet, Path: path},
		{Method: http.MethodGet, Path: "/trash" + path},
		{Method: http.MethodPut, Path: path, Body: map[string]any{"line1": "Carrer Major, 1", "city": "Manacor", "country": "Spain"}},
		{Method: http.MethodPatch, Path: path, Body: map[string]any{"city": "Manacor"}},
		{Method: http.MethodDelete, Path: path},
		{Method: http.MethodPost, Path: path + "/restore"},
		{Method: http.MethodDelete, Path: "/trash" + path},
	}

	for _, tc := range testCases {
		if e, g := http.StatusNotFound, doRequest(t, h, tc.Method, tc.Path, tc.Body, nil); e != g {
			t.Errorf("%s %s: expected status %d, got %d", tc.Method, tc.Path, e, g)
		}
	}

	var validation ErrorResponse
	status := doRequest(t, h, http.MethodPost, "/coaches", map[string]any{
		"firstName": "Toni",
		"lastName":  "Nadal",
		"address":   "not-an-id!",
	}, &validation)

	if e, g := http.StatusBadRequest, status; e != g {
		t.Fatalf("POST /coaches: expected status %d, got %d", e, g)
	}

	if e, g := (model.FieldError{Field: "address", Message: "malformed identifier 'not-an-id!'"}), validation.Fields[0]; e != g {
		t.Errorf("validation.Fields[0]: expected %+v, got %+v", e, g)
	}
}

func TestHardDeleteDisabled(t *testing.T) {
	h := newTestHandler(t, WithHardDelete(false))

	var address model.Address
	doRequest(t, h, http.MethodPost, "/addresses", map[string]any{
		"line1":   "Carrer Major, 1",
		"city":    "Manacor",
		"country": "Spain",
	}, &address)

	if e, g := http.StatusNoContent, doRequest(t, h, http.MethodDelete, "/addresses/"+address.PublicID.String(), nil, nil); e != g {
		t.Fatalf("DELETE: expected status %d, got %d", e, g)
	}

	if e, g := http.StatusMethodNotAllowed, doRequest(t, h, http.MethodDelete, "/trash/addresses/"+address.PublicID.String(), nil, nil); e != g {
		t.Errorf("hard DELETE: expected status %d, got %d", e, g)
	}

	if e, g := http.StatusOK, doRequest(t, h, http.MethodGet, "/trash/addresses/"+address.PublicID.String(), nil, nil); e != g {
		t.Errorf("GET trash: expected status %d, got %d", e, g)
	}
}
