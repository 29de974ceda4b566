package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/bornholm/clubhouse/internal/core/model"
	"github.com/bornholm/clubhouse/internal/core/port"
	"github.com/bornholm/go-x/slogx"
	"github.com/pkg/errors"
)

func getQueryPage(query url.Values, defaultValue int) int {
	return getQueryInt(query, "page", defaultValue)
}

func getQueryLimit(query url.Values, defaultValue int) int {
	return getQueryInt(query, "limit", defaultValue)
}

func getQueryInt(query url.Values, name string, defaultValue int) int {
	raw := query.Get(name)
	if raw == "" {
		return defaultValue
	}

	value, err := strconv.ParseInt(raw, 10, 32)
	if err != nil || value < 0 {
		return defaultValue
	}

	return int(value)
}

func getQueryPublicID(query url.Values, name string) *model.PublicID {
	raw := query.Get(name)
	if raw == "" {
		return nil
	}

	id := model.PublicID(raw)
	return &id
}

// getQueryTime accepts RFC 3339 timestamps and plain dates. A plain date
// given as an upper bound stands for the last instant of that day.
func getQueryTime(query url.Values, name string, upperBound bool, verr *model.ValidationError) *time.Time {
	raw := query.Get(name)
	if raw == "" {
		return nil
	}

	if t, err := time.Parse(time.RFC3339Nano, raw); err == nil {
		return &t
	}

	if t, err := time.Parse(time.DateOnly, raw); err == nil {
		if upperBound {
			t = t.AddDate(0, 0, 1).Add(-time.Nanosecond)
		}
		return &t
	}

	verr.Add(name, "must be a RFC 3339 timestamp or a YYYY-MM-DD date")

	return nil
}

func parseAddressFilter(query url.Values, opts port.QueryOptions) (port.AddressFilter, error) {
	return port.AddressFilter{
		QueryOptions: opts,
		City:         query.Get("city"),
		Country:      query.Get("country"),
	}, nil
}

func parsePersonFilter(query url.Values, opts port.QueryOptions) (port.PersonFilter, error) {
	return port.PersonFilter{
		QueryOptions: opts,
		LastName:     query.Get("lastName"),
	}, nil
}

func parseVenueFilter(query url.Values, opts port.QueryOptions) (port.VenueFilter, error) {
	filter := port.VenueFilter{
		QueryOptions: opts,
	}

	if raw := query.Get("type"); raw != "" {
		venueType := model.VenueType(raw)
		if !venueType.Valid() {
			return filter, model.NewValidationError("type", "unknown venue type '"+raw+"'")
		}
		filter.Type = &venueType
	}

	return filter, nil
}

func parseSeasonFilter(query url.Values, opts port.QueryOptions) (port.SeasonFilter, error) {
	verr := &model.ValidationError{}

	filter := port.SeasonFilter{
		QueryOptions: opts,
		Containing:   getQueryTime(query, "containing", false, verr),
	}

	return filter, verr.Err()
}

func parseActivityFilter(query url.Values, opts port.QueryOptions) (port.ActivityFilter, error) {
	verr := &model.ValidationError{}

	filter := port.ActivityFilter{
		QueryOptions: opts,
		Season:       getQueryPublicID(query, "season"),
		Venue:        getQueryPublicID(query, "venue"),
		Coach:        getQueryPublicID(query, "coach"),
		Athlete:      getQueryPublicID(query, "athlete"),
		From:         getQueryTime(query, "from", false, verr),
		To:           getQueryTime(query, "to", true, verr),
	}

	return filter, verr.Err()
}

type ErrorResponse struct {
	Error   string             `json:"error"`
	Message string             `json:"message,omitempty"`
	Fields  []model.FieldError `json:"fields,omitempty"`
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	ctx := r.Context()

	var verr *model.ValidationError

	switch {
	case errors.As(err, &verr):
		writeJSON(w, r, http.StatusBadRequest, ErrorResponse{
			Error:  model.ErrValidation.Error(),
			Fields: verr.Fields,
		})
	case errors.Is(err, port.ErrNotFound):
		writeJSON(w, r, http.StatusNotFound, ErrorResponse{Error: http.StatusText(http.StatusNotFound)})
	case errors.Is(err, port.ErrConflict):
		writeJSON(w, r, http.StatusConflict, ErrorResponse{
			Error:   port.ErrConflict.Error(),
			Message: err.Error(),
		})
	default:
		slog.ErrorContext(ctx, "could not process request", slogx.Error(err))
		writeJSON(w, r, http.StatusInternalServerError, ErrorResponse{Error: http.StatusText(http.StatusInternalServerError)})
	}
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", " ")

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := encoder.Encode(v); err != nil {
		slog.ErrorContext(r.Context(), "could not encode response", slogx.Error(errors.WithStack(err)))
	}
}
