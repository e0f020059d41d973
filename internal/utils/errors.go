package utils

import (
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"strings"

	"github.com/go-sql-driver/mysql"
	"github.com/lib/pq"

	"github.com/yasinhessnawi1/Annotate_Backend/internal/constants"
)

// Sentinels. Every AppError wraps one of them, which selects the error code
// sent to clients.
var (
	ErrNotFound       = errors.New(constants.ErrorNotFound)
	ErrUnauthorized   = errors.New(constants.ErrorUnauthorized)
	ErrForbidden      = errors.New(constants.ErrorForbidden)
	ErrBadRequest     = errors.New(constants.ErrorBadRequest)
	ErrInternalServer = errors.New(constants.ErrorInternalServer)
	ErrValidation     = errors.New(constants.ErrorValidation)
	ErrDuplicate      = errors.New(constants.ErrorDuplicate)
	ErrExpiredToken   = errors.New(constants.ErrorExpiredToken)
	ErrInvalidToken   = errors.New(constants.ErrorInvalidToken)
	ErrUndoExpired    = errors.New(constants.ErrorUndoExpired)
)

// AppError is an error with the HTTP status and client message it maps to.
// DevInfo is logged but never sent.
type AppError struct {
	Err        error
	StatusCode int
	Message    string
	DevInfo    string
	Field      string
	Details    map[string]any
}

func (e *AppError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s", e.Field, e.Message)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewValidationError reports an invalid value for field.
func NewValidationError(field, message string) *AppError {
	return &AppError{Err: ErrValidation, StatusCode: http.StatusBadRequest, Message: message, Field: field}
}

func NewBadRequestError(message string) *AppError {
	return &AppError{Err: ErrBadRequest, StatusCode: http.StatusBadRequest, Message: message}
}

// NewNotFoundError names the missing resource, e.g. "Timeline with
// identifier '7' not found".
func NewNotFoundError(resourceType string, identifier interface{}) *AppError {
	return &AppError{
		Err:        ErrNotFound,
		StatusCode: http.StatusNotFound,
		Message:    fmt.Sprintf("%s with identifier '%v' not found", resourceType, identifier),
	}
}

func NewUnauthorizedError(message string) *AppError {
	if message == "" {
		message = constants.MsgAuthRequired
	}
	return &AppError{Err: ErrUnauthorized, StatusCode: http.StatusUnauthorized, Message: message}
}

// NewForbiddenError is returned when the viewer lacks write capability on
// the target collection.
func NewForbiddenError(message string) *AppError {
	if message == "" {
		message = constants.MsgAccessDenied
	}
	return &AppError{Err: ErrForbidden, StatusCode: http.StatusForbidden, Message: message}
}

// NewInternalServerError hides err from the client and keeps it as DevInfo.
func NewInternalServerError(err error) *AppError {
	appErr := &AppError{
		Err:        ErrInternalServer,
		StatusCode: http.StatusInternalServerError,
		Message:    constants.MsgInternalServerError,
	}
	if err != nil {
		appErr.DevInfo = err.Error()
	}
	return appErr
}

func NewDuplicateError(resourceType, field string, value interface{}) *AppError {
	return &AppError{
		Err:        ErrDuplicate,
		StatusCode: http.StatusConflict,
		Message:    fmt.Sprintf("%s with %s '%v' already exists", resourceType, field, value),
		Field:      field,
	}
}

func NewExpiredTokenError() *AppError {
	return &AppError{Err: ErrExpiredToken, StatusCode: http.StatusUnauthorized, Message: constants.MsgTokenExpired}
}

func NewInvalidTokenError() *AppError {
	return &AppError{Err: ErrInvalidToken, StatusCode: http.StatusUnauthorized, Message: constants.MsgInvalidToken}
}

// NewUndoExpiredError is returned when an undo token is unknown, expired or
// belongs to another user. Clients cannot tell these cases apart.
func NewUndoExpiredError() *AppError {
	return &AppError{Err: ErrUndoExpired, StatusCode: http.StatusGone, Message: constants.MsgUndoExpired}
}

// sentinelErrors builds the default AppError for a bare sentinel.
var sentinelErrors = []struct {
	err  error
	make func(err error) *AppError
}{
	{ErrNotFound, func(error) *AppError { return NewNotFoundError("Resource", "") }},
	{ErrUnauthorized, func(error) *AppError { return NewUnauthorizedError("") }},
	{ErrForbidden, func(error) *AppError { return NewForbiddenError("") }},
	{ErrBadRequest, func(err error) *AppError { return NewBadRequestError(err.Error()) }},
	{ErrValidation, func(err error) *AppError { return NewValidationError("", err.Error()) }},
	{ErrDuplicate, func(error) *AppError { return NewDuplicateError("Resource", "", "") }},
	{ErrExpiredToken, func(error) *AppError { return NewExpiredTokenError() }},
	{ErrInvalidToken, func(error) *AppError { return NewInvalidTokenError() }},
	{ErrUndoExpired, func(error) *AppError { return NewUndoExpiredError() }},
}

// ParseError maps any error returned by a service or repository to the
// AppError the handlers send.
func ParseError(err error) *AppError {
	if err == nil {
		return nil
	}

	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	for _, s := range sentinelErrors {
		if errors.Is(err, s.err) {
			return s.make(err)
		}
	}
	if appErr := driverError(err); appErr != nil {
		return appErr
	}

	errMsg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(errMsg, "duplicate key") || strings.Contains(errMsg, "duplicate entry"):
		return duplicateEntry(err, "")
	case strings.Contains(errMsg, "no rows"):
		return &AppError{
			Err:        ErrNotFound,
			StatusCode: http.StatusNotFound,
			Message:    constants.MsgResourceNotFound,
			DevInfo:    err.Error(),
		}
	}

	return NewInternalServerError(err)
}

func duplicateEntry(err error, field string) *AppError {
	return &AppError{
		Err:        ErrDuplicate,
		StatusCode: http.StatusConflict,
		Message:    "A resource with the same unique identifier already exists",
		DevInfo:    err.Error(),
		Field:      field,
	}
}

func missingReference(err error) *AppError {
	return &AppError{
		Err:        ErrBadRequest,
		StatusCode: http.StatusBadRequest,
		Message:    "This operation references a resource that does not exist",
		DevInfo:    err.Error(),
	}
}

func nullColumn(err error, field string) *AppError {
	return &AppError{
		Err:        ErrValidation,
		StatusCode: http.StatusBadRequest,
		Message:    fmt.Sprintf("The %s field cannot be empty", field),
		DevInfo:    err.Error(),
		Field:      field,
	}
}

var mysqlNullColumn = regexp.MustCompile(`Column '([^']+)' cannot be null`)

// driverError translates constraint violations reported by the MySQL and
// PostgreSQL drivers. It returns nil for anything else.
func driverError(err error) *AppError {
	var mysqlErr *mysql.MySQLError
	if errors.As(err, &mysqlErr) {
		switch mysqlErr.Number {
		case constants.MySQLErrorDuplicateEntry:
			return duplicateEntry(err, "")
		case constants.MySQLErrorForeignKey:
			return missingReference(err)
		case constants.MySQLErrorBadNull:
			field := ""
			if m := mysqlNullColumn.FindStringSubmatch(mysqlErr.Message); m != nil {
				field = m[1]
			}
			return nullColumn(err, field)
		}
		return nil
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch string(pqErr.Code) {
		case constants.PGErrorDuplicateConstraint:
			field := ""
			if _, after, ok := strings.Cut(pqErr.Constraint, "idx_"); ok {
				field = after
			}
			return duplicateEntry(err, field)
		case constants.PGErrorForeignKeyConstraint:
			return missingReference(err)
		case constants.PGErrorNotNullConstraint:
			return nullColumn(err, pqErr.Column)
		}
	}
	return nil
}

// IsNotFoundError reports whether err means the resource does not exist.
func IsNotFoundError(err error) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.StatusCode == http.StatusNotFound
	}
	return errors.Is(err, ErrNotFound)
}

func IsValidationError(err error) bool {
	return errors.Is(err, ErrValidation)
}

func IsForbiddenError(err error) bool {
	return errors.Is(err, ErrForbidden)
}

// StatusCode returns the HTTP status err maps to.
func StatusCode(err error) int {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.StatusCode
	}
	return http.StatusInternalServerError
}
