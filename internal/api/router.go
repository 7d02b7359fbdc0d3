package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"stockwatch/internal/metrics"
)

// NewRouter assembles the HTTP routes
func NewRouter(stocks *StocksHandler, watchlists *WatchlistsHandler, health *HealthHandler) http.Handler {
	r := chi.NewRouter()

	r.Use(requestID)
	r.Use(chimiddleware.RealIP)
	r.Use(requestLogger)
	r.Use(recoverer)
	r.Use(chimiddleware.Timeout(60 * time.Second))

	r.Get("/health", health.HandleHealth)
	r.Get("/ready", health.HandleReadiness)
	r.Get("/live", health.HandleLiveness)
	r.Method(http.MethodGet, "/metrics", metrics.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/movers", stocks.GetMovers)
		r.Get("/stocks/{symbol}", stocks.GetStock)
		r.Get("/stocks/{symbol}/overview", stocks.GetOverview)

		r.Route("/watchlists", func(r chi.Router) {
			r.Get("/", watchlists.List)
			r.Post("/", watchlists.Create)
			r.Get("/{id}", watchlists.Get)
			r.Delete("/{id}", watchlists.Delete)
			r.Put("/{id}/stocks/{symbol}", watchlists.AddStock)
			r.Delete("/{id}/stocks/{symbol}", watchlists.RemoveStock)
		})
	})

	return r
}
