package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"rifa/domain/entities"
	"rifa/domain/services"
	"rifa/infrastructure/render"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

// EventStore is the raffle event use case layer
type EventStore interface {
	List(ctx context.Context) ([]*entities.RaffleEvent, error)
	Search(ctx context.Context, term string) ([]*entities.RaffleEvent, error)
	Get(ctx context.Context, id string) (*entities.RaffleEvent, error)
	Save(ctx context.Context, event *entities.RaffleEvent) (*entities.RaffleEvent, error)
	Duplicate(ctx context.Context, id string) (*entities.RaffleEvent, error)
	Delete(ctx context.Context, id string) error
}

// DrawService runs draw sessions by key
type DrawService interface {
	Open(ctx context.Context, key, eventID string) (services.DrawSnapshot, error)
	Start(key string) (bool, error)
	Snapshot(key string) (services.DrawSnapshot, error)
	Close(key string) error
}

// RequestObserver records served requests
type RequestObserver interface {
	RecordHTTPRequest(ctx context.Context, method, route string, status int, duration time.Duration)
}

// HealthCheck reports whether a dependency is usable
type HealthCheck func(ctx context.Context) error

type namedCheck struct {
	name  string
	check HealthCheck
}

// Server exposes raffle events, ticket sheets, exports and draws over HTTP
type Server struct {
	events   EventStore
	draws    DrawService
	grid     *services.TicketGrid
	sheets   *render.TicketSheetRenderer
	observer RequestObserver
	checks   []namedCheck
	now      func() time.Time

	router     *mux.Router
	httpServer *http.Server
}

// NewServer creates a server listening on addr. observer may be nil.
func NewServer(addr string, events EventStore, draws DrawService, grid *services.TicketGrid, sheets *render.TicketSheetRenderer, observer RequestObserver) *Server {
	s := &Server{
		events:   events,
		draws:    draws,
		grid:     grid,
		sheets:   sheets,
		observer: observer,
		now:      time.Now,
		router:   mux.NewRouter(),
	}
	s.registerRoutes()

	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// WithHealthCheck adds a dependency to the /health report
func (s *Server) WithHealthCheck(name string, check HealthCheck) *Server {
	s.checks = append(s.checks, namedCheck{name: name, check: check})
	return s
}

// Handler returns the routed handler
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start serves until Shutdown is called
func (s *Server) Start() error {
	log.WithField("addr", s.httpServer.Addr).Info("HTTP API listening")
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("http server failed: %w", err)
	}
	return nil
}

// Shutdown stops accepting requests and waits for in-flight ones
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) registerRoutes() {
	s.router.Use(s.loggingMiddleware)

	s.router.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)

	s.router.HandleFunc("/events", s.handleListEvents).Methods(http.MethodGet)
	s.router.HandleFunc("/events", s.handleCreateEvent).Methods(http.MethodPost)
	s.router.HandleFunc("/events/{id}", s.handleGetEvent).Methods(http.MethodGet)
	s.router.HandleFunc("/events/{id}", s.handleUpdateEvent).Methods(http.MethodPut)
	s.router.HandleFunc("/events/{id}", s.handleDeleteEvent).Methods(http.MethodDelete)
	s.router.HandleFunc("/events/{id}/duplicate", s.handleDuplicateEvent).Methods(http.MethodPost)
	s.router.HandleFunc("/events/{id}/pages/{page:[0-9]+}", s.handleGridPage).Methods(http.MethodGet)
	s.router.HandleFunc("/events/{id}/sheets/{page:[0-9]+}.png", s.handleSheet).Methods(http.MethodGet)

	s.router.HandleFunc("/exports/{format:csv|xlsx}", s.handleExport).Methods(http.MethodGet)

	s.router.HandleFunc("/draws/{key}", s.handleOpenDraw).Methods(http.MethodPost)
	s.router.HandleFunc("/draws/{key}", s.handleDrawState).Methods(http.MethodGet)
	s.router.HandleFunc("/draws/{key}/start", s.handleStartDraw).Methods(http.MethodPost)
	s.router.HandleFunc("/draws/{key}", s.handleCloseDraw).Methods(http.MethodDelete)
}
