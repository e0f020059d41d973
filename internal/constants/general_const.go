// Package constants provides shared constant values used throughout the application.
//
// The general_const.go file defines route paths together with the path and
// query parameter names used by the handlers. Keeping them in one place keeps
// the router, the handlers and the route documentation endpoint in agreement.
package constants

// Base Routes define the root URL paths for different parts of the API.
const (
	// APIBasePath is the root path prefix for all API endpoints.
	APIBasePath = "/api"

	// HealthPath is the endpoint for health checks and system status.
	HealthPath = "/health"

	// VersionPath reports the running build.
	VersionPath = "/version"

	// RoutesPath serves the self-describing route listing.
	RoutesPath = "/api/routes"
)

// Resource Routes are mounted below APIBasePath.
const (
	CollectionBasePath       = "/collection"
	CardBasePath             = "/card"
	TimelineBasePath         = "/timeline"
	TimelineEventBasePath    = "/timeline-event"
	ModerationReviewBasePath = "/moderation-review"
	TableBasePath            = "/table"
)

// URL Parameters define path parameter names used in route definitions.
const (
	// ParamID is the URL parameter for generic resource identifiers.
	ParamID = "id"

	// ParamToken is the URL parameter carrying an undo token.
	ParamToken = "token"
)

// RootCollectionID is the path value addressing the root collection.
const RootCollectionID = "root"

// IncludeEvents is the include value that nests events in timeline responses.
const IncludeEvents = "events"

// Query Parameters define common query string parameter names.
const (
	// QueryParamView selects the event listing mode (calendar or table).
	QueryParamView = "view"

	// QueryParamStart is the earliest timestamp the chart displays.
	QueryParamStart = "start"

	// QueryParamArchived lists archived entities instead of active ones.
	QueryParamArchived = "archived"

	// QueryParamInclude asks for nested entities, e.g. include=events.
	QueryParamInclude = "include"

	// QueryParamPlacement overrides the popover placement.
	QueryParamPlacement = "placement"

	// QueryParamOffset overrides the popover offset as "skidding,distance".
	QueryParamOffset = "offset"
)
