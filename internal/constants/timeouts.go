package constants

import "time"

// Server Timeouts
const (
	DefaultReadTimeout     = 5 * time.Second
	DefaultWriteTimeout    = 10 * time.Second
	DefaultShutdownTimeout = 30 * time.Second
	DefaultIdleTimeout     = 120 * time.Second
)

// Database Timeouts
const (
	DBConnectionTimeout   = 10 * time.Second
	DBQueryTimeout        = 15 * time.Second
	DBHealthCheckTimeout  = 5 * time.Second
	DBConnMaxLifetime     = 1 * time.Hour
	DBConnMaxIdleTime     = 30 * time.Minute
	DBMaintenanceInterval = 1 * time.Minute
)

// Token and cache lifetimes
const (
	DefaultJWTExpiry = 15 * time.Minute

	// DefaultUndoWindow is how long an archive can be reverted with its undo token.
	DefaultUndoWindow = 10 * time.Second

	// DefaultTableCacheTTL bounds how stale cached table metadata may get.
	DefaultTableCacheTTL = 5 * time.Minute

	DefaultWriteRateWindow = 1 * time.Minute
)

// Popover timing
const (
	DefaultPopoverShowDelay = 500 * time.Millisecond
	DefaultPopoverHideDelay = 300 * time.Millisecond
)
