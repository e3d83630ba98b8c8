package api

import (
	"fuel-stop-planner/internal/api/handlers"
	"net/http"

	"github.com/bmizerany/pat"
	"github.com/justinas/alice"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
)

// Deps are the collaborators the HTTP layer needs. The API package stays
// unaware of which adapters back them.
type Deps struct {
	Planner     handlers.TripPlanner
	Stations    handlers.StationFinder
	CORSOrigins []string
}

// NewRouter wires HTTP handlers with their dependencies and returns an http.Handler.
func NewRouter(deps Deps) http.Handler {
	planHandler := &handlers.PlanHandler{Planner: deps.Planner}
	stationHandler := &handlers.StationHandler{Stations: deps.Stations}

	mux := pat.New()
	mux.Get("/health", http.HandlerFunc(handlers.Health))
	mux.Post("/plans", http.HandlerFunc(planHandler.Plan))
	mux.Get("/stations", http.HandlerFunc(stationHandler.List))
	mux.Get("/stations/:id", http.HandlerFunc(stationHandler.Get))
	mux.Get("/metrics", promhttp.Handler())

	c := cors.New(cors.Options{
		AllowedOrigins: deps.CORSOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", requestIDHeader},
		ExposedHeaders: []string{requestIDHeader},
	})

	return alice.New(recoverPanic, requestID, loggingMiddleware, c.Handler).Then(mux)
}
