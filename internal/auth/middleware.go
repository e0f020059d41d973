// Package auth verifies bearer tokens and carries the caller's identity in
// the request context.
package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	"github.com/yasinhessnawi1/Annotate_Backend/internal/constants"
	"github.com/yasinhessnawi1/Annotate_Backend/internal/utils"
)

// ContextKey is the type of the context keys set by this package.
type ContextKey string

const (
	UserIDContextKey    ContextKey = constants.UserIDContextKey
	EmailContextKey     ContextKey = constants.EmailContextKey
	RequestIDContextKey ContextKey = constants.RequestIDContextKey
)

// Identity is the caller named by a verified access token.
type Identity struct {
	UserID int64
	Email  string
}

// bearerToken reads the access token from the Authorization header, falling
// back to the auth cookie set by the web client.
func bearerToken(r *http.Request) (string, error) {
	header := r.Header.Get(constants.HeaderAuthorization)
	if header == "" {
		cookie, err := r.Cookie(constants.AuthTokenCookie)
		if err != nil || cookie.Value == "" {
			return "", utils.ErrUnauthorized
		}
		return cookie.Value, nil
	}
	if !strings.HasPrefix(header, constants.BearerTokenPrefix) {
		return "", utils.ErrUnauthorized
	}
	return strings.TrimPrefix(header, constants.BearerTokenPrefix), nil
}

// Authenticate verifies the access token carried by r.
func Authenticate(r *http.Request, validator JWTValidator) (*Identity, error) {
	token, err := bearerToken(r)
	if err != nil {
		return nil, err
	}
	claims, err := validator.ValidateToken(token, constants.TokenTypeAccess)
	if err != nil {
		return nil, err
	}
	return &Identity{UserID: claims.UserID, Email: claims.Email}, nil
}

// requestID prefers the id assigned by chi's RequestID middleware.
func requestID(r *http.Request) string {
	if id := chimiddleware.GetReqID(r.Context()); id != "" {
		return id
	}
	return r.Header.Get(constants.HeaderXRequestID)
}

// RequireAuth rejects requests without a valid access token and stores the
// caller's identity in the context of those it lets through.
func RequireAuth(validator JWTValidator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			reqID := requestID(r)
			ctx := context.WithValue(r.Context(), RequestIDContextKey, reqID)

			identity, err := Authenticate(r, validator)
			if err != nil {
				log.Info().
					Err(err).
					Str("request_id", reqID).
					Str("method", r.Method).
					Str("path", r.URL.Path).
					Msg("Authentication failed")
				writeAuthError(w, err)
				return
			}

			ctx = context.WithValue(ctx, UserIDContextKey, identity.UserID)
			ctx = context.WithValue(ctx, EmailContextKey, identity.Email)
			log.Debug().
				Int64("user_id", identity.UserID).
				Str("request_id", reqID).
				Msg("User authenticated")

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func writeAuthError(w http.ResponseWriter, err error) {
	var appErr *utils.AppError
	switch {
	case errors.As(err, &appErr):
		utils.ErrorFromAppError(w, appErr)
	case errors.Is(err, utils.ErrExpiredToken):
		utils.Error(w, constants.StatusUnauthorized, constants.CodeTokenExpired, constants.MsgTokenExpired, nil)
	case errors.Is(err, utils.ErrUnauthorized):
		utils.Unauthorized(w, constants.MsgAuthRequired)
	default:
		utils.Error(w, constants.StatusUnauthorized, constants.CodeAuthenticationFailed, constants.MsgAuthRequired, nil)
	}
}

// GetUserID returns the authenticated user's id.
func GetUserID(r *http.Request) (int64, bool) {
	userID, ok := r.Context().Value(UserIDContextKey).(int64)
	return userID, ok
}

// GetEmail returns the authenticated user's email.
func GetEmail(r *http.Request) (string, bool) {
	email, ok := r.Context().Value(EmailContextKey).(string)
	return email, ok
}

// GetRequestID returns the request id recorded by RequireAuth.
func GetRequestID(r *http.Request) (string, bool) {
	id, ok := r.Context().Value(RequestIDContextKey).(string)
	return id, ok
}

// WithUserID returns a copy of ctx carrying userID, as RequireAuth does.
func WithUserID(ctx context.Context, userID int64) context.Context {
	return context.WithValue(ctx, UserIDContextKey, userID)
}
