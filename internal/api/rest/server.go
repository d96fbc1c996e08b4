package rest

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/cors"

	"github.com/tlebon/ccb-dashboard/internal/cache"
	"github.com/tlebon/ccb-dashboard/internal/publisher"
	"github.com/tlebon/ccb-dashboard/internal/store"
)

// Server represents the REST API server
type Server struct {
	port    string
	server  *http.Server
	handler *Handler
}

// NewServer creates a new REST API server
func NewServer(port string, db *store.Database, rc *cache.RedisCache, pub *publisher.RedisStreamPublisher) *Server {
	handler := NewHandler(db, rc, pub)

	router := mux.NewRouter()

	// Apply middleware
	router.Use(RecoveryMiddleware)
	router.Use(LoggingMiddleware)

	// Health check
	router.HandleFunc("/health", handler.HealthCheck).Methods("GET")

	// API v1 routes
	api := router.PathPrefix("/api/v1").Subrouter()

	// Shows
	api.HandleFunc("/shows/upcoming", handler.GetUpcomingShows).Methods("GET")
	api.HandleFunc("/shows/merge", handler.MergeShows).Methods("POST")
	api.HandleFunc("/shows", handler.GetShowsByDate).Methods("GET")
	api.HandleFunc("/shows/{showID:[0-9]+}", handler.GetShow).Methods("GET")

	// Performers
	api.HandleFunc("/performers", handler.GetPerformers).Methods("GET")
	api.HandleFunc("/performers/search", handler.SearchPerformers).Methods("GET")
	api.HandleFunc("/performers/{slug}", handler.GetPerformer).Methods("GET")

	// Teams and rotation
	api.HandleFunc("/teams", handler.GetTeams).Methods("GET")
	api.HandleFunc("/teams/on-date", handler.GetTeamsOnDate).Methods("GET")
	api.HandleFunc("/teams/{slug}", handler.GetTeam).Methods("GET")

	// Lineup and schedule tooling
	api.HandleFunc("/lineup/preview", handler.PreviewLineup).Methods("POST")
	api.HandleFunc("/schedule/import", handler.ImportSchedule).Methods("POST")

	corsHandler := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type"},
	}).Handler(router)

	return &Server{
		port:    port,
		handler: handler,
		server: &http.Server{
			Addr:    fmt.Sprintf(":%s", port),
			Handler: corsHandler,
		},
	}
}

// Start starts the REST API server
func (s *Server) Start() error {
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	if s.server != nil {
		return s.server.Shutdown(ctx)
	}
	return nil
}
