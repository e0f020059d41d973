package models

import (
	"encoding/json"
	"time"

	"github.com/yasinhessnawi1/Annotate_Backend/internal/constants"
)

// Collection groups cards and timelines. The root collection is not stored;
// it is represented by a nil ID and addressed as "root".
type Collection struct {
	ID              *int64    `json:"id"`
	Name            string    `json:"name"`
	Description     *string   `json:"description"`
	PersonalOwnerID *int64    `json:"personal_owner_id"`
	Archived        bool      `json:"archived"`
	CanWrite        bool      `json:"can_write"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// RootCollection returns the synthetic root collection.
func RootCollection(name string) *Collection {
	return &Collection{Name: name}
}

// IsRoot reports whether c is the root collection.
func (c *Collection) IsRoot() bool {
	return c.ID == nil
}

// IsPersonal reports whether c is some user's personal collection.
func (c *Collection) IsPersonal() bool {
	return c.PersonalOwnerID != nil
}

// MarshalJSON writes the root collection id as "root".
func (c Collection) MarshalJSON() ([]byte, error) {
	type alias Collection
	out := struct {
		ID interface{} `json:"id"`
		alias
	}{alias: alias(c)}
	if c.ID == nil {
		out.ID = constants.RootCollectionID
	} else {
		out.ID = *c.ID
	}
	return json.Marshal(out)
}

// CollectionPermission grants a role an access level on one collection. A
// nil CollectionID is the root collection.
type CollectionPermission struct {
	ID           int64  `json:"id"`
	Role         string `json:"role"`
	CollectionID *int64 `json:"collection_id"`
	AccessLevel  string `json:"access_level"`
}

// DataTable is warehouse table metadata shown in the table info popover.
type DataTable struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	DisplayName string    `json:"display_name"`
	SchemaName  *string   `json:"schema"`
	Description *string   `json:"description"`
	FieldCount  int       `json:"field_count"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// DefaultRootPermissions are the grants on the root collection created on
// first start: administrators and editors curate it, everyone else reads.
func DefaultRootPermissions() []CollectionPermission {
	return []CollectionPermission{
		{Role: constants.RoleAdmin, AccessLevel: constants.AccessWrite},
		{Role: constants.RoleEditor, AccessLevel: constants.AccessWrite},
		{Role: constants.RoleReadonly, AccessLevel: constants.AccessRead},
	}
}
