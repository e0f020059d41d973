package models

import (
	"strings"
	"time"

	"github.com/yasinhessnawi1/Annotate_Backend/internal/constants"
)

// User is an account known to the service. Credentials are managed by the
// identity provider; only profile fields and the role are stored here.
type User struct {
	ID        int64      `json:"id" db:"user_id"`
	Email     string     `json:"email" db:"email"`
	FirstName *string    `json:"first_name" db:"first_name"`
	LastName  *string    `json:"last_name" db:"last_name"`
	Role      string     `json:"role" db:"role"`
	LastLogin *time.Time `json:"last_login" db:"last_login"`
	CreatedAt time.Time  `json:"date_joined" db:"created_at"`
	UpdatedAt time.Time  `json:"updated_at" db:"updated_at"`
}

// TableName returns the database table name for the User model.
func (u *User) TableName() string {
	return constants.TableUsers
}

// CommonName joins first and last name, falling back to the email address
// when neither is set.
func (u *User) CommonName() string {
	var parts []string
	if u.FirstName != nil && strings.TrimSpace(*u.FirstName) != "" {
		parts = append(parts, strings.TrimSpace(*u.FirstName))
	}
	if u.LastName != nil && strings.TrimSpace(*u.LastName) != "" {
		parts = append(parts, strings.TrimSpace(*u.LastName))
	}
	if len(parts) == 0 {
		return u.Email
	}
	return strings.Join(parts, " ")
}

// IsAdmin reports whether the user has the admin role.
func (u *User) IsAdmin() bool {
	return u.Role == constants.RoleAdmin
}

// Profile returns the creator view of the user.
func (u *User) Profile() *CreatorProfile {
	return &CreatorProfile{
		ID:         u.ID,
		CommonName: u.CommonName(),
		FirstName:  u.FirstName,
		LastName:   u.LastName,
		Email:      u.Email,
		LastLogin:  u.LastLogin,
		DateJoined: u.CreatedAt,
	}
}
