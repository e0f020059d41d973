// Package constants provides shared constant values used throughout the application.
//
// The errorcodes.go file defines error categories and the messages that are safe
// to show to API clients.
package constants

// Error Types define the categories of errors that can occur in the application.
const (
	ErrorNotFound       = "resource not found"
	ErrorUnauthorized   = "unauthorized access"
	ErrorForbidden      = "forbidden access"
	ErrorBadRequest     = "invalid request"
	ErrorInternalServer = "internal server error"
	ErrorValidation     = "validation error"
	ErrorDuplicate      = "duplicate resource"
	ErrorExpiredToken   = "expired token"
	ErrorInvalidToken   = "invalid token"
	ErrorUndoExpired    = "undo expired"
)

// User-Facing Error Messages define standardized messages that can be safely presented to users.
const (
	// MsgAuthRequired indicates that the user must authenticate to access the resource.
	MsgAuthRequired = "Authentication required"

	// MsgAccessDenied indicates a lack of permission for the requested resource.
	MsgAccessDenied = "You don't have permission to access this resource"

	// MsgCollectionWriteDenied is returned when a write targets a collection the user cannot curate.
	MsgCollectionWriteDenied = "You don't have write access to this collection"

	// MsgModeratorRequired is returned when a non-admin tries to verify a card.
	MsgModeratorRequired = "Only administrators can review cards"

	// MsgInternalServerError is a generic message for unexpected server errors.
	MsgInternalServerError = "An internal server error occurred"

	// MsgTokenExpired indicates that the authentication token has expired.
	MsgTokenExpired = "Authentication token has expired"

	// MsgInvalidToken indicates that the token is invalid or malformed.
	MsgInvalidToken = "Invalid token"

	// MsgRequestBodyTooLarge indicates that the request body exceeds the maximum allowed size.
	MsgRequestBodyTooLarge = "Request body too large"

	// MsgEmptyRequestBody indicates that the request body is empty when content was expected.
	MsgEmptyRequestBody = "Request body must not be empty"

	// MsgMalformedJSON indicates that the request body contains invalid JSON.
	MsgMalformedJSON = "Request body contains malformed JSON"

	// MsgResourceNotFound indicates that the requested resource could not be found.
	MsgResourceNotFound = "The requested resource could not be found"

	// MsgMethodNotAllowed indicates that the HTTP method is not allowed for the resource.
	MsgMethodNotAllowed = "This method is not allowed for this resource"

	// MsgUndoExpired is returned when an undo token is unknown or past its window.
	MsgUndoExpired = "This action can no longer be undone"

	// MsgRateLimited is returned when a client exceeds the write budget.
	MsgRateLimited = "Rate limit exceeded. Please try again later."

	// MsgInvalidID is returned when a path identifier is not a positive integer.
	MsgInvalidID = "Invalid identifier"
)

// Database Error Messages define error patterns returned by database drivers.
const (
	// MySQLErrorDuplicateEntry is the MySQL error number for "Duplicate entry".
	MySQLErrorDuplicateEntry = 1062

	// MySQLErrorForeignKey is the MySQL error number for a failing foreign key constraint.
	MySQLErrorForeignKey = 1452

	// MySQLErrorBadNull is the MySQL error number for a NULL written to a NOT NULL column.
	MySQLErrorBadNull = 1048

	// PGErrorDuplicateConstraint is the PostgreSQL error code for unique constraint violations.
	PGErrorDuplicateConstraint = "23505"

	// PGErrorForeignKeyConstraint is the PostgreSQL error code for foreign key violations.
	PGErrorForeignKeyConstraint = "23503"

	// PGErrorNotNullConstraint is the PostgreSQL error code for not null violations.
	PGErrorNotNullConstraint = "23502"
)

// Log Categories and Events
const (
	LogCategoryTimeline = "timeline"
	LogCategoryCard     = "card"

	LogEventEventCreated   = "event_created"
	LogEventEventUpdated   = "event_updated"
	LogEventEventArchived  = "event_archived"
	LogEventEventRestored  = "event_restored"
	LogEventTimelineEnsure = "timeline_ensured"
	LogEventCardSaved      = "card_saved"
	LogEventCardReviewed   = "card_reviewed"

	// LogRedactedValue replaces sensitive values in logs.
	LogRedactedValue = "[REDACTED]"
)
