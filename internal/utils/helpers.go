// Package utils provides utility functions and helpers for common operations
// used throughout the application. It includes nullable column conversion,
// string manipulation, error checking and slice operations.
//
// Functions in this package are designed to be simple, self-contained, and
// have minimal side effects.
package utils

import (
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"

	"github.com/yasinhessnawi1/Annotate_Backend/internal/constants"
)

// NullInt64Ptr converts a scanned nullable integer into a pointer.
//
// Parameters:
//   - v: the value scanned from the database
//
// Returns:
//   - nil when the column was NULL, otherwise a pointer to the value
func NullInt64Ptr(v sql.NullInt64) *int64 {
	if !v.Valid {
		return nil
	}
	id := v.Int64
	return &id
}

// NullStringPtr converts a scanned nullable string into a pointer.
func NullStringPtr(v sql.NullString) *string {
	if !v.Valid {
		return nil
	}
	s := v.String
	return &s
}

// NullTimePtr converts a scanned nullable timestamp into a pointer.
func NullTimePtr(v sql.NullTime) *time.Time {
	if !v.Valid {
		return nil
	}
	t := v.Time
	return &t
}

// NullFloat64Ptr converts a scanned nullable float into a pointer.
func NullFloat64Ptr(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Float64
	return &f
}

// Int64Arg turns an optional identifier into a driver argument, so that nil
// is written as NULL. The root collection is stored this way.
//
// Parameters:
//   - v: the optional identifier
//
// Returns:
//   - nil or the dereferenced value, suitable for database/sql arguments
func Int64Arg(v *int64) interface{} {
	if v == nil {
		return nil
	}
	return *v
}

// StringArg turns an optional string into a driver argument.
func StringArg(v *string) interface{} {
	if v == nil {
		return nil
	}
	return *v
}

// IsDuplicateKeyError checks if an error is a MySQL duplicate key error.
//
// Parameters:
//   - err: the error to check
//
// Returns:
//   - true if the error is a MySQL duplicate key error (code 1062), false otherwise
func IsDuplicateKeyError(err error) bool {
	var mysqlErr *mysql.MySQLError
	if errors.As(err, &mysqlErr) {
		return mysqlErr.Number == constants.MySQLErrorDuplicateEntry
	}
	return false
}

// MaskEmail masks the user part of an email address, showing only the first
// and last character. "bobby@metabase.test" becomes "b***y@metabase.test".
func MaskEmail(email string) string {
	parts := strings.Split(email, "@")
	if len(parts) != 2 {
		return email
	}

	user := parts[0]
	if len(user) <= 2 {
		return email
	}

	return string(user[0]) + strings.Repeat("*", len(user)-2) + string(user[len(user)-1]) + "@" + parts[1]
}
