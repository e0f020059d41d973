package constants

// Context Key Names
const (
	UserIDContextKey    = "user_id"
	EmailContextKey     = "email"
	RequestIDContextKey = "request_id"
)

// Auth Token Types
const (
	TokenTypeAccess = "access"
)

// Cookie Names
const (
	AuthTokenCookie = "auth_token"
)

// Roles
const (
	RoleAdmin    = "admin"
	RoleEditor   = "editor"
	RoleReadonly = "readonly"
)

// Collection access levels
const (
	AccessWrite = "write"
	AccessRead  = "read"
	AccessNone  = "none"
)

// Moderation statuses
const (
	ModerationStatusVerified = "verified"
)
