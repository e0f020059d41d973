package server

import (
	"context"

	"github.com/go-chi/chi/v5"
)

// Lifecycle is the part of Server exercised by the process entry point and
// by tests.
type Lifecycle interface {
	// SetupRoutes configures the HTTP routes for the server
	SetupRoutes()

	// GetRouter returns the configured router for request handling
	GetRouter() chi.Router

	// Start begins listening for HTTP requests and blocks until shutdown
	Start() error

	// Shutdown gracefully stops the server
	Shutdown(ctx context.Context) error

	// SetupMaintenanceTasks starts the background maintenance loop
	SetupMaintenanceTasks()
}

// DBHealthChecker abstracts the database as seen by the health endpoint.
type DBHealthChecker interface {
	// HealthCheck verifies the database connection is working properly
	HealthCheck(ctx context.Context) error

	// Close terminates the database connection
	Close()
}

// Maintainer is run on every maintenance tick.
type Maintainer interface {
	// PurgeUndo drops expired undo tokens and reports how many were removed.
	PurgeUndo() int
}

var _ Lifecycle = (*Server)(nil)
