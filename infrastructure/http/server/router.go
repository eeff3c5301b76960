package server

import (
	"dm-lab/auth"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewRouter wires HTTP routes to the messaging and user services.
// Everything under /api requires a bearer token.
func NewRouter(log *slog.Logger, tokens *auth.TokenManager, gatherer prometheus.Gatherer,
	messaging *MessagingServer, users *UserServer) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		RespondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))

	r.Route("/api", func(api chi.Router) {
		api.Use(auth.Middleware(tokens, ErrorWriter(log)))
		messaging.RegisterRoutes(api)
		users.RegisterRoutes(api)
	})

	return r
}
