package api

import (
	"encoding/json"
	"net/http"

	"github.com/bornholm/clubhouse/internal/core/model"
	"github.com/bornholm/clubhouse/internal/core/port"
	"github.com/pkg/errors"
)

type ListActivitiesResponse struct {
	Activities []ActivityItem `json:"activities"`
	Page       int            `json:"page"`
	Limit      int            `json:"limit"`
}

// ActivityItem is an activity of any kind, serialized with a "kind"
// discriminator next to its own fields.
type ActivityItem struct {
	View model.ActivityView
}

func (i ActivityItem) MarshalJSON() ([]byte, error) {
	data, err := json.Marshal(i.View)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	kind, err := json.Marshal(i.View.Kind())
	if err != nil {
		return nil, errors.WithStack(err)
	}

	item := make([]byte, 0, len(data)+len(kind)+10)
	item = append(item, `{"kind":`...)
	item = append(item, kind...)

	if len(data) > 2 {
		item = append(item, ',')
	}

	return append(item, data[1:]...), nil
}

func (h *Handler) handleListActivities(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	page := getQueryPage(query, 0)
	limit := getQueryLimit(query, 10)

	filter, err := parseActivityFilter(query, port.QueryOptions{Page: &page, Limit: &limit})
	if err != nil {
		writeError(w, r, errors.WithStack(err))
		return
	}

	views, err := h.club.Timeline().List(r.Context(), filter)
	if err != nil {
		writeError(w, r, errors.Wrap(err, "could not list activities"))
		return
	}

	res := ListActivitiesResponse{
		Activities: make([]ActivityItem, 0, len(views)),
		Page:       page,
		Limit:      limit,
	}

	for _, v := range views {
		res.Activities = append(res.Activities, ActivityItem{View: v})
	}

	writeJSON(w, r, http.StatusOK, res)
}
