package api

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strconv"

	"github.com/mklimuk/marktask/pkg/dates"
	"github.com/mklimuk/marktask/pkg/filter"
	"github.com/mklimuk/marktask/pkg/tasks"
)

// Handler holds dependencies for API handlers
type Handler struct {
	Source   tasks.Source
	Resolver *dates.Resolver
	Defaults filter.Options
}

// HandleListTasks handles GET /tasks
//
// Query parameters mirror the CLI flags: from, to, show_overdue, status.
// Dates that do not resolve leave their bound open.
func (h *Handler) HandleListTasks(w http.ResponseWriter, r *http.Request) {
	opts, err := h.options(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	all, err := h.Source.Tasks(r.Context())
	if err != nil {
		log.Printf("api: failed to load tasks: %v", err)
		http.Error(w, "failed to load tasks", http.StatusInternalServerError)
		return
	}

	filtered := filter.Build(opts, h.Resolver).Apply(tasks.Refs(all))
	if filtered == nil {
		filtered = []*tasks.Task{}
	}
	writeJSON(w, http.StatusOK, filtered)
}

// HandleHealth handles GET /healthz
func (h *Handler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) options(r *http.Request) (filter.Options, error) {
	opts := h.Defaults
	q := r.URL.Query()

	if v := q.Get("from"); v != "" {
		opts.From = &v
	}
	if v := q.Get("to"); v != "" {
		opts.To = &v
	}
	if v := q.Get("status"); v != "" {
		opts.Status = filter.ParseStatus(v)
	}
	if v := q.Get("show_overdue"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return opts, fmt.Errorf("invalid show_overdue: %q", v)
		}
		opts.ShowOverdue = b
	}
	return opts, nil
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
