// Package httpapi exposes a read/write HTTP surface over a Store and a
// server-sent-events stream over the notification hub.
package httpapi

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/signadot/jsonkv"
	"github.com/signadot/jsonkv/notify"
)

type API struct {
	store *jsonkv.Store
	hub   *notify.Hub
	log   *slog.Logger
}

func New(store *jsonkv.Store, hub *notify.Hub, log *slog.Logger) *API {
	if log == nil {
		log = slog.Default()
	}
	return &API{store: store, hub: hub, log: log}
}

func (a *API) Router() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Route("/v1", func(r chi.Router) {
		r.Get("/keys/{key}", a.getKey)
		r.Put("/keys/{key}", a.putKey)
		r.Delete("/keys/{key}", a.deleteKey)
		r.Get("/events", a.streamEvents)
	})
	return r
}

func (a *API) getKey(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")
	q := r.URL.Query()
	var opts []jsonkv.GetOpt
	contentType := "application/json"
	if q.Get("format") == "yaml" {
		opts = append(opts, jsonkv.WithFormat(jsonkv.FormatYAML))
		contentType = "application/yaml"
	}
	data, err := a.store.Get(key, q["path"], opts...)
	if err != nil {
		writeError(w, err)
		return
	}
	if data == nil {
		http.Error(w, "not found", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", contentType)
	w.Write(data)
}

func (a *API) putKey(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")
	q := r.URL.Query()
	path := q.Get("path")
	if path == "" {
		path = "$"
	}
	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	var opts []jsonkv.SetOpt
	if q.Has("nx") {
		opts = append(opts, jsonkv.SetNX())
	}
	if q.Has("xx") {
		opts = append(opts, jsonkv.SetXX())
	}
	ok, err := a.store.Set(key, path, string(body), opts...)
	if err != nil {
		writeError(w, err)
		return
	}
	if !ok {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (a *API) deleteKey(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")
	path := r.URL.Query().Get("path")
	if path == "" {
		path = "$"
	}
	n, err := a.store.Del(key, path)
	if err != nil {
		writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	fmt.Fprintf(w, `{"deleted":%d}`, n)
}

// streamEvents serves notification messages matching the pattern query
// parameters (default all channels) as server-sent events.
func (a *API) streamEvents(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}
	patterns := r.URL.Query()["pattern"]
	if len(patterns) == 0 {
		patterns = []string{"*"}
	}
	sub := a.hub.PSubscribe(patterns...)
	defer sub.Close()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	ctx := r.Context()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-sub.C():
			if !ok {
				return
			}
			fmt.Fprintf(w, "event: %s\ndata: %s\n\n", msg.Channel, msg.Payload)
			flusher.Flush()
		}
	}
}

func writeError(w http.ResponseWriter, err error) {
	code := http.StatusInternalServerError
	if jsonkv.IsInvalidArgument(err) {
		code = http.StatusBadRequest
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	fmt.Fprintf(w, `{"error":%s}`, strconv.Quote(err.Error()))
}
