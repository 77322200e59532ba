package api

import (
	"net/http"

	"github.com/mklimuk/marktask/pkg/dates"
	"github.com/mklimuk/marktask/pkg/filter"
	"github.com/mklimuk/marktask/pkg/tasks"
)

// NewRouter creates a new HTTP router
func NewRouter(source tasks.Source, resolver *dates.Resolver, defaults filter.Options) *http.ServeMux {
	mux := http.NewServeMux()

	if resolver == nil {
		resolver = dates.NewResolver(nil)
	}
	h := &Handler{
		Source:   source,
		Resolver: resolver,
		Defaults: defaults,
	}

	mux.HandleFunc("GET /tasks", h.HandleListTasks)
	mux.HandleFunc("GET /healthz", h.HandleHealth)

	return mux
}
