// Package httpapi wires the HTTP surface: GraphQL, image upload and
// download, health and metrics endpoints.
package httpapi

import (
	"net/http"

	"github.com/dmitrijs2005/inkpost/internal/logging"
	"github.com/dmitrijs2005/inkpost/internal/server/auth"
	"github.com/dmitrijs2005/inkpost/internal/server/images"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Deps are the collaborators the router needs. Metrics and MetricsHandler
// may be nil.
type Deps struct {
	Logger         logging.Logger
	Verifier       auth.Verifier
	GraphQL        http.Handler
	Images         images.Store
	Metrics        func(http.Handler) http.Handler
	MetricsHandler http.Handler
	CORSOrigin     string
	RateLimit      int
}

func NewRouter(d Deps) http.Handler {
	log := d.Logger.With("module", "http")

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	if d.Metrics != nil {
		r.Use(d.Metrics)
	}
	r.Use(cors(d.CORSOrigin))
	r.Use(secureHeaders(log))
	r.Use(rateLimit(d.RateLimit))
	r.Use(auth.Gate(d.Verifier, log))
	r.Use(requestLogger(log))

	ih := &imageHandler{store: d.Images, log: log}

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	if d.MetricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", d.MetricsHandler)
	}

	r.Handle("/graphql", d.GraphQL)
	r.Put("/post-image", ih.upload)
	r.Get("/images/*", ih.serve)

	return r
}
