// Package server provides the HTTP server of the annotation API. It wires
// repositories, services and handlers together, owns the router and runs the
// server lifecycle including graceful shutdown and periodic maintenance.
package server

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/yasinhessnawi1/Annotate_Backend/internal/auth"
	"github.com/yasinhessnawi1/Annotate_Backend/internal/config"
	"github.com/yasinhessnawi1/Annotate_Backend/internal/constants"
	"github.com/yasinhessnawi1/Annotate_Backend/internal/database"
	"github.com/yasinhessnawi1/Annotate_Backend/internal/handlers"
	"github.com/yasinhessnawi1/Annotate_Backend/internal/repository"
	"github.com/yasinhessnawi1/Annotate_Backend/internal/service"
	"github.com/yasinhessnawi1/Annotate_Backend/migrations"
	"github.com/yasinhessnawi1/Annotate_Backend/scripts"
)

// Handlers contains all HTTP handlers for the application.
type Handlers struct {
	// CardHandler serves cards, card timelines and moderation reviews
	CardHandler *handlers.CardHandler

	// CollectionHandler serves collections and their timelines
	CollectionHandler *handlers.CollectionHandler

	// TableHandler serves table info popovers
	TableHandler *handlers.TableHandler

	// TimelineHandler serves timelines and timeline events
	TimelineHandler *handlers.TimelineHandler
}

// Server represents the API server.
type Server struct {
	// Config contains application configuration
	Config *config.AppConfig

	// Db is used by the health endpoint and closed on shutdown
	Db DBHealthChecker

	// JWT validates bearer tokens on /api routes
	JWT auth.JWTValidator

	// Handlers contains all HTTP request handlers
	Handlers *Handlers

	// Maintenance is run on every maintenance tick; nil disables the loop
	Maintenance Maintainer

	pool       *database.Pool
	router     chi.Router
	httpServer *http.Server

	stopOnce        sync.Once
	stopMaintenance chan struct{}
}

// NewServer creates a server with all components initialised in dependency
// order: database, auth, services, handlers, routes.
func NewServer(cfg *config.AppConfig) (*Server, error) {
	s := &Server{
		Config:          cfg,
		stopMaintenance: make(chan struct{}),
	}

	if err := s.setupDatabase(); err != nil {
		return nil, fmt.Errorf("failed to set up database: %w", err)
	}

	s.JWT = auth.NewJWTService(&cfg.JWT)

	if err := s.setupServices(); err != nil {
		return nil, fmt.Errorf("failed to set up services: %w", err)
	}

	s.SetupRoutes()

	s.httpServer = &http.Server{
		Addr:         cfg.Server.ServerAddress(),
		Handler:      s.router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  constants.DefaultIdleTimeout,
	}

	return s, nil
}

// setupDatabase connects, migrates the schema and seeds the root permissions.
func (s *Server) setupDatabase() error {
	db, err := database.Connect(s.Config)
	if err != nil {
		return err
	}

	s.pool = db
	s.Db = db

	migrator := migrations.NewMigrator(db)
	if err := migrator.RunMigrations(context.Background()); err != nil {
		return fmt.Errorf("failed to run database migrations: %w", err)
	}

	seeder := scripts.NewSeeder(db)
	if err := seeder.SeedDatabase(context.Background()); err != nil {
		return fmt.Errorf("failed to seed database: %w", err)
	}

	return nil
}

// setupServices builds repositories, services and the handlers on top of them.
func (s *Server) setupServices() error {
	users := repository.NewUserRepository(s.pool)
	collections := repository.NewCollectionRepository(s.pool)
	cards := repository.NewCardRepository(s.pool)
	reviews := repository.NewModerationReviewRepository(s.pool)
	tables := repository.NewDataTableRepository(s.pool)
	timelines := repository.NewTimelineRepository(s.pool)
	events := repository.NewTimelineEventRepository(s.pool)

	perms := service.NewPermissionService(users, collections, s.Config.Timeline.RootCollectionName)
	cardService := service.NewCardService(cards, reviews, users, perms)
	moderationService := service.NewModerationService(reviews, cards, perms)

	tableService, err := service.NewTableService(tables, s.Config.Popover)
	if err != nil {
		return fmt.Errorf("failed to create table service: %w", err)
	}

	undo, err := service.NewUndoStore(s.Config.Timeline.UndoCacheSize, s.Config.Timeline.UndoWindow)
	if err != nil {
		return fmt.Errorf("failed to create undo store: %w", err)
	}
	timelineService := service.NewTimelineService(timelines, events, cards, perms, undo, s.Config.Timeline)

	s.Maintenance = timelineService
	s.Handlers = &Handlers{
		CardHandler:       handlers.NewCardHandler(cardService, moderationService, timelineService),
		CollectionHandler: handlers.NewCollectionHandler(perms, timelineService),
		TableHandler:      handlers.NewTableHandler(tableService),
		TimelineHandler:   handlers.NewTimelineHandler(timelineService),
	}

	return nil
}

// Start starts the HTTP server and blocks until it fails or a shutdown
// signal arrives, in which case it shuts down gracefully.
func (s *Server) Start() error {
	serverErrors := make(chan error, 1)

	go func() {
		log.Info().
			Str("address", s.Config.Server.ServerAddress()).
			Msg("Starting server")

		serverErrors <- s.httpServer.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	s.SetupMaintenanceTasks()

	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)
	case sig := <-shutdown:
		log.Info().
			Str("signal", sig.String()).
			Msg("Shutdown signal received")

		ctx, cancel := context.WithTimeout(context.Background(), s.Config.Server.ShutdownTimeout)
		defer cancel()

		if err := s.Shutdown(ctx); err != nil {
			if closeErr := s.httpServer.Close(); closeErr != nil {
				log.Error().Err(closeErr).Msg("failed to close server")
			}
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
	}

	return nil
}

// Shutdown stops the maintenance loop, drains in-flight requests and closes
// the database.
func (s *Server) Shutdown(ctx context.Context) error {
	s.stopMaintenanceLoop()

	if s.httpServer != nil {
		if err := s.httpServer.Shutdown(ctx); err != nil {
			return fmt.Errorf("server shutdown error: %w", err)
		}
		log.Info().Msg("Server stopped gracefully")
	}

	if s.Db != nil {
		s.Db.Close()
		log.Info().Msg("Database connection closed")
	}

	return nil
}

// SetupMaintenanceTasks starts a goroutine that purges expired undo tokens
// every constants.DBMaintenanceInterval until Shutdown.
func (s *Server) SetupMaintenanceTasks() {
	s.runMaintenance(constants.DBMaintenanceInterval)
}

func (s *Server) runMaintenance(interval time.Duration) {
	if s.Maintenance == nil {
		return
	}
	if s.stopMaintenance == nil {
		s.stopMaintenance = make(chan struct{})
	}

	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-s.stopMaintenance:
				return
			case <-ticker.C:
				if n := s.Maintenance.PurgeUndo(); n > 0 {
					log.Debug().Int("count", n).Msg("Purged expired undo tokens")
				}
			}
		}
	}()
}

func (s *Server) stopMaintenanceLoop() {
	s.stopOnce.Do(func() {
		if s.stopMaintenance != nil {
			close(s.stopMaintenance)
		}
	})
}
