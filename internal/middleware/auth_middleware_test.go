package middleware_test

import (
	"bytes"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"

	"github.com/yasinhessnawi1/Annotate_Backend/internal/auth"
	"github.com/yasinhessnawi1/Annotate_Backend/internal/config"
	"github.com/yasinhessnawi1/Annotate_Backend/internal/constants"
	"github.com/yasinhessnawi1/Annotate_Backend/internal/middleware"
)

// MockJWTValidator is a mock implementation of the JWTValidator interface
type MockJWTValidator struct {
	ValidateTokenFunc func(tokenString string, expectedType string) (*auth.CustomClaims, error)
}

func (m *MockJWTValidator) ValidateToken(tokenString string, expectedType string) (*auth.CustomClaims, error) {
	return m.ValidateTokenFunc(tokenString, expectedType)
}

func (m *MockJWTValidator) GetConfig() *config.JWTSettings {
	return &config.JWTSettings{}
}

// MockHandler is a simple http.Handler implementation for testing middleware
type MockHandler struct {
	Called     bool
	StatusCode int
	UserID     int64
}

func (m *MockHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	m.Called = true
	m.UserID, _ = auth.GetUserID(r)
	if m.StatusCode != 0 {
		w.WriteHeader(m.StatusCode)
	}
}

func TestJWTAuth(t *testing.T) {
	validator := &MockJWTValidator{
		ValidateTokenFunc: func(tokenString string, expectedType string) (*auth.CustomClaims, error) {
			if tokenString == "valid-token" && expectedType == constants.TokenTypeAccess {
				return &auth.CustomClaims{UserID: 123, Email: "test@example.com", TokenType: constants.TokenTypeAccess}, nil
			}
			return nil, errors.New("invalid token")
		},
	}

	tests := []struct {
		name           string
		authHeader     string
		cookie         *http.Cookie
		expectedStatus int
		shouldCallNext bool
	}{
		{"valid header", "Bearer valid-token", nil, http.StatusOK, true},
		{"valid cookie", "", &http.Cookie{Name: constants.AuthTokenCookie, Value: "valid-token"}, http.StatusOK, true},
		{"invalid token", "Bearer nope", nil, http.StatusUnauthorized, false},
		{"missing credentials", "", nil, http.StatusUnauthorized, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			next := &MockHandler{StatusCode: http.StatusOK}
			handler := middleware.JWTAuth(validator)(next)

			req := httptest.NewRequest(http.MethodGet, "/api/card/1", nil)
			if tt.authHeader != "" {
				req.Header.Set(constants.HeaderAuthorization, tt.authHeader)
			}
			if tt.cookie != nil {
				req.AddCookie(tt.cookie)
			}
			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, req)

			assert.Equal(t, tt.expectedStatus, rr.Code)
			assert.Equal(t, tt.shouldCallNext, next.Called)
			if tt.shouldCallNext {
				assert.Equal(t, int64(123), next.UserID)
			}
		})
	}
}

func TestSecurityHeaders(t *testing.T) {
	next := &MockHandler{}
	rr := httptest.NewRecorder()
	middleware.SecurityHeaders()(next).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.True(t, next.Called)
	assert.Equal(t, constants.ContentTypeOptionsNoSniff, rr.Header().Get(constants.HeaderXContentTypeOptions))
	assert.Equal(t, constants.FrameOptionsDeny, rr.Header().Get(constants.HeaderXFrameOptions))
	assert.Equal(t, constants.CSPDefaultSrc, rr.Header().Get(constants.HeaderContentSecurityPolicy))
}

func TestRequestLogger(t *testing.T) {
	var logBuf bytes.Buffer
	originalLogger := log.Logger
	log.Logger = zerolog.New(&logBuf)
	defer func() { log.Logger = originalLogger }()

	next := &MockHandler{StatusCode: http.StatusNotFound}
	req := httptest.NewRequest(http.MethodGet, "/api/card/9", nil)
	req.Header.Set(constants.HeaderXRequestID, "req-1")
	middleware.RequestLogger()(next).ServeHTTP(httptest.NewRecorder(), req)

	logs := logBuf.String()
	assert.True(t, strings.Contains(logs, `"status":404`), logs)
	assert.True(t, strings.Contains(logs, "req-1"), logs)
}
