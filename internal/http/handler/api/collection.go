package api

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/bornholm/clubhouse/internal/core/model"
	"github.com/bornholm/clubhouse/internal/core/port"
	"github.com/pkg/errors"
)

type ListResponse[E any] struct {
	Items []*E  `json:"items"`
	Total int64 `json:"total"`
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
}

type filterParser[F any] func(query url.Values, opts port.QueryOptions) (F, error)

// collectionHandler exposes a repository as a REST collection. Soft-deleted
// records are only reachable under /trash.
type collectionHandler[E any, I any, P any, F any] struct {
	name        string
	repository  func() port.Repository[E, I, P, F]
	parseFilter filterParser[F]
}

func mountCollection[E any, I any, P any, F any](mux *http.ServeMux, opts *Options, name string, repository func() port.Repository[E, I, P, F], parseFilter filterParser[F]) {
	c := &collectionHandler[E, I, P, F]{
		name:        name,
		repository:  repository,
		parseFilter: parseFilter,
	}

	mux.HandleFunc(fmt.Sprintf("GET /%s", name), c.handleList)
	mux.HandleFunc(fmt.Sprintf("POST /%s", name), c.handleCreate)
	mux.HandleFunc(fmt.Sprintf("GET /%s/{id}", name), c.handleGet)
	mux.HandleFunc(fmt.Sprintf("PUT /%s/{id}", name), c.handleReplace)
	mux.HandleFunc(fmt.Sprintf("PATCH /%s/{id}", name), c.handlePatch)
	mux.HandleFunc(fmt.Sprintf("DELETE /%s/{id}", name), c.handleSoftDelete)
	mux.HandleFunc(fmt.Sprintf("POST /%s/{id}/restore", name), c.handleRestore)

	mux.HandleFunc(fmt.Sprintf("GET /trash/%s", name), c.handleListTrash)
	mux.HandleFunc(fmt.Sprintf("GET /trash/%s/{id}", name), c.handleGetTrash)

	if opts.HardDelete {
		mux.HandleFunc(fmt.Sprintf("DELETE /trash/%s/{id}", name), c.handleHardDelete)
	}
}

func (c *collectionHandler[E, I, P, F]) handleList(w http.ResponseWriter, r *http.Request) {
	c.list(w, r, c.repository())
}

func (c *collectionHandler[E, I, P, F]) handleListTrash(w http.ResponseWriter, r *http.Request) {
	c.list(w, r, c.repository().Unrestricted())
}

func (c *collectionHandler[E, I, P, F]) list(w http.ResponseWriter, r *http.Request, reader port.UnrestrictedReader[E, F]) {
	ctx := r.Context()
	query := r.URL.Query()
	page := getQueryPage(query, 0)
	limit := getQueryLimit(query, 10)

	filter, err := c.parseFilter(query, port.QueryOptions{Page: &page, Limit: &limit})
	if err != nil {
		writeError(w, r, errors.WithStack(err))
		return
	}

	items, err := reader.List(ctx, filter)
	if err != nil {
		writeError(w, r, errors.Wrapf(err, "could not list %s", c.name))
		return
	}

	total, err := reader.Count(ctx, filter)
	if err != nil {
		writeError(w, r, errors.Wrapf(err, "could not count %s", c.name))
		return
	}

	if items == nil {
		items = make([]*E, 0)
	}

	writeJSON(w, r, http.StatusOK, ListResponse[E]{
		Items: items,
		Total: total,
		Page:  page,
		Limit: limit,
	})
}

func (c *collectionHandler[E, I, P, F]) handleGet(w http.ResponseWriter, r *http.Request) {
	c.get(w, r, c.repository())
}

func (c *collectionHandler[E, I, P, F]) handleGetTrash(w http.ResponseWriter, r *http.Request) {
	c.get(w, r, c.repository().Unrestricted())
}

func (c *collectionHandler[E, I, P, F]) get(w http.ResponseWriter, r *http.Request, reader port.UnrestrictedReader[E, F]) {
	id := model.PublicID(r.PathValue("id"))

	entity, err := reader.Get(r.Context(), id)
	if err != nil {
		writeError(w, r, errors.WithStack(err))
		return
	}

	writeJSON(w, r, http.StatusOK, entity)
}

func (c *collectionHandler[E, I, P, F]) handleCreate(w http.ResponseWriter, r *http.Request) {
	var input I
	if err := decodeBody(r, &input); err != nil {
		writeError(w, r, errors.WithStack(err))
		return
	}

	entity, err := c.repository().Create(r.Context(), input)
	if err != nil {
		writeError(w, r, errors.WithStack(err))
		return
	}

	writeJSON(w, r, http.StatusCreated, entity)
}

func (c *collectionHandler[E, I, P, F]) handleReplace(w http.ResponseWriter, r *http.Request) {
	id := model.PublicID(r.PathValue("id"))

	var input I
	if err := decodeBody(r, &input); err != nil {
		writeError(w, r, errors.WithStack(err))
		return
	}

	entity, err := c.repository().Replace(r.Context(), id, input)
	if err != nil {
		writeError(w, r, errors.WithStack(err))
		return
	}

	writeJSON(w, r, http.StatusOK, entity)
}

func (c *collectionHandler[E, I, P, F]) handlePatch(w http.ResponseWriter, r *http.Request) {
	id := model.PublicID(r.PathValue("id"))

	var patch P
	if err := decodeBody(r, &patch); err != nil {
		writeError(w, r, errors.WithStack(err))
		return
	}

	entity, err := c.repository().Patch(r.Context(), id, patch)
	if err != nil {
		writeError(w, r, errors.WithStack(err))
		return
	}

	writeJSON(w, r, http.StatusOK, entity)
}

func (c *collectionHandler[E, I, P, F]) handleSoftDelete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := model.PublicID(r.PathValue("id"))

	// Soft-deleted records are not found through this path.
	if err := c.repository().SoftDeleteActive(ctx, id); err != nil {
		writeError(w, r, errors.WithStack(err))
		return
	}

	slog.InfoContext(ctx, "record soft-deleted", slog.String("collection", c.name), slog.String("id", id.String()))

	w.WriteHeader(http.StatusNoContent)
}

func (c *collectionHandler[E, I, P, F]) handleRestore(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := model.PublicID(r.PathValue("id"))

	entity, err := c.repository().Restore(ctx, id)
	if err != nil {
		writeError(w, r, errors.WithStack(err))
		return
	}

	slog.InfoContext(ctx, "record restored", slog.String("collection", c.name), slog.String("id", id.String()))

	writeJSON(w, r, http.StatusOK, entity)
}

func (c *collectionHandler[E, I, P, F]) handleHardDelete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := model.PublicID(r.PathValue("id"))

	if err := c.repository().HardDelete(ctx, id); err != nil {
		writeError(w, r, errors.WithStack(err))
		return
	}

	slog.WarnContext(ctx, "record permanently deleted", slog.String("collection", c.name), slog.String("id", id.String()))

	w.WriteHeader(http.StatusNoContent)
}

func decodeBody(r *http.Request, v any) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()

	if err := decoder.Decode(v); err != nil {
		return model.NewValidationError("body", err.Error())
	}

	return nil
}
