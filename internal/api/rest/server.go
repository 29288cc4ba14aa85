package rest

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/gorilla/mux"
)

// Options wires the optional parts of the router.
type Options struct {
	// Metrics serves /metrics when set.
	Metrics http.Handler
	// Live serves /ws/games when set.
	Live http.Handler
	// LiveHealth serves /ws/health when set.
	LiveHealth http.HandlerFunc
	// StaticDir holds index.html for "/" when set.
	StaticDir string
	// PollerStatus serves /api/poller/status when set.
	PollerStatus func() map[string]interface{}
}

// Server represents the REST API server
type Server struct {
	port   string
	server *http.Server
}

// NewRouter builds the HTTP routes.
func NewRouter(games BoardService, ranges RangeRunner, opts Options) *mux.Router {
	handler := NewHandler(games)
	rangeHandler := NewRangeHandler(ranges)

	router := mux.NewRouter()

	router.Use(RecoveryMiddleware)
	router.Use(LoggingMiddleware)
	router.Use(CORSMiddleware)

	router.HandleFunc("/health", handler.HealthCheck).Methods("GET")

	api := router.PathPrefix("/api").Subrouter()
	api.HandleFunc("/games", handler.GetGames).Methods("GET", "OPTIONS")
	api.HandleFunc("/games/range", rangeHandler.GetRange).Methods("GET", "OPTIONS")

	if opts.PollerStatus != nil {
		api.HandleFunc("/poller/status", func(w http.ResponseWriter, r *http.Request) {
			respondJSON(w, http.StatusOK, opts.PollerStatus())
		}).Methods("GET")
	}

	if opts.Metrics != nil {
		router.Handle("/metrics", opts.Metrics).Methods("GET")
	}
	if opts.Live != nil {
		router.Handle("/ws/games", opts.Live)
	}
	if opts.LiveHealth != nil {
		router.HandleFunc("/ws/health", opts.LiveHealth).Methods("GET")
	}
	if opts.StaticDir != "" {
		router.HandleFunc("/", serveIndex(opts.StaticDir)).Methods("GET")
	}

	return router
}

// NewServer creates a new REST API server
func NewServer(port string, router http.Handler) *Server {
	return &Server{
		port: port,
		server: &http.Server{
			Addr:              fmt.Sprintf(":%s", port),
			Handler:           router,
			ReadHeaderTimeout: 10 * time.Second,
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

func serveIndex(dir string) http.HandlerFunc {
	index := filepath.Join(dir, "index.html")
	return func(w http.ResponseWriter, r *http.Request) {
		if _, err := os.Stat(index); err != nil {
			respondError(w, http.StatusNotFound, "index.html not found", nil)
			return
		}
		http.ServeFile(w, r, index)
	}
}
