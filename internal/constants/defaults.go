// Package constants provides shared constant values used throughout the application.
//
// The defaults.go file defines default values and limits. Configuration falls
// back to these when a setting is absent from both the YAML file and the
// environment.
package constants

// Server Defaults
const (
	// DefaultServerPort is the HTTP port used when none is configured.
	DefaultServerPort = 8080

	// DefaultDBMaxConnections caps open connections in the pool.
	DefaultDBMaxConnections = 20

	// DefaultDBMinConnections is the idle pool size.
	DefaultDBMinConnections = 5

	// DefaultLogLevel is the zerolog level used when none is configured.
	DefaultLogLevel = "info"

	// DefaultLogFormat is either "json" or "console".
	DefaultLogFormat = "json"

	// DefaultAppName is reported in logs and the version endpoint.
	DefaultAppName = "annotate-api"
)

// Environment Names
const (
	EnvDevelopment = "development"
	EnvTesting     = "testing"
	EnvProduction  = "production"
)

// Request Limits
const (
	// MaxRequestBodySize limits JSON bodies to 1MB.
	MaxRequestBodySize = 1048576

	// DefaultWriteRateLimit is the number of write requests allowed per client per window.
	DefaultWriteRateLimit = 60
)

// JWT Defaults
const (
	// DefaultJWTIssuer is the expected issuer claim.
	DefaultJWTIssuer = "annotate-api"

	// BearerTokenPrefix precedes the token in the Authorization header.
	BearerTokenPrefix = "Bearer "
)

// Timeline Defaults
const (
	// DefaultRootCollectionName is the display name of the synthetic root collection.
	DefaultRootCollectionName = "Our analytics"

	// DefaultTimelineSuffix is appended to a collection name to name its default timeline.
	DefaultTimelineSuffix = " events"

	// PersonalTimelineName names the default timeline of a personal collection.
	PersonalTimelineName = "Events"

	// DefaultTimelineIcon is used for timelines and events created without an icon.
	DefaultTimelineIcon = "star"

	// DefaultEventTimezone is stored when an event is created without a timezone.
	DefaultEventTimezone = "UTC"

	// DefaultProductName appears in the timeline empty state ("Events in <product>").
	DefaultProductName = "Metabase"
)

// Popover Defaults
const (
	// DefaultPopoverPlacement is where the table info popover opens relative to its target.
	DefaultPopoverPlacement = "left-start"

	// PopoverOverlayClass identifies the table info popover family.
	PopoverOverlayClass = "table-info-popover"

	// DefaultTableCacheSize bounds the table metadata LRU.
	DefaultTableCacheSize = 512

	// DefaultUndoCacheSize bounds the number of pending undo tokens.
	DefaultUndoCacheSize = 1024
)
