package api

import (
	"net/http"

	"github.com/bornholm/clubhouse/internal/core/port"
	"github.com/bornholm/clubhouse/internal/core/service"
)

type Handler struct {
	club *service.Club
	mux  *http.ServeMux
}

// ServeHTTP implements http.Handler.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mux.ServeHTTP(w, r)
}

func NewHandler(club *service.Club, funcs ...OptionFunc) *Handler {
	opts := NewOptions(funcs...)

	h := &Handler{
		club: club,
		mux:  &http.ServeMux{},
	}

	mountCollection(h.mux, opts, "addresses", club.Addresses, parseAddressFilter)
	mountCollection(h.mux, opts, "athletes", club.Athletes, parsePersonFilter)
	mountCollection(h.mux, opts, "coaches", club.Coaches, parsePersonFilter)
	mountCollection(h.mux, opts, "venues", club.Venues, parseVenueFilter)
	mountCollection(h.mux, opts, "seasons", club.Seasons, parseSeasonFilter)
	mountCollection(h.mux, opts, "trainings", func() port.TrainingRepository { return club.Trainings() }, parseActivityFilter)
	mountCollection(h.mux, opts, "competitions", func() port.CompetitionRepository { return club.Competitions() }, parseActivityFilter)

	h.mux.HandleFunc("GET /activities", h.handleListActivities)

	return h
}

var _ http.Handler = &Handler{}
