package models

import (
	"bytes"
	"encoding/json"
	"time"
)

// UnsavedCard is a card that has never been stored. It only knows how to
// query and how to draw the result.
type UnsavedCard struct {
	Display               string                `json:"display"`
	DatasetQuery          json.RawMessage       `json:"dataset_query"`
	VisualizationSettings VisualizationSettings `json:"visualization_settings"`
}

// Card is a saved question or model. ID is zero until the first save.
type Card struct {
	UnsavedCard

	ID                   int64              `json:"id"`
	CollectionID         *int64             `json:"collection_id"`
	Name                 string             `json:"name"`
	Description          *string            `json:"description"`
	Dataset              bool               `json:"dataset"`
	CanWrite             bool               `json:"can_write"`
	CacheTTL             *int               `json:"cache_ttl"`
	QueryAverageDuration *float64           `json:"query_average_duration,omitempty"`
	LastQueryStart       *time.Time         `json:"last_query_start"`
	ResultMetadata       []Field            `json:"result_metadata"`
	Archived             bool               `json:"archived"`
	CreatorID            *int64             `json:"creator_id"`
	Creator              *CreatorProfile    `json:"creator,omitempty"`
	ModerationReviews    []ModerationReview `json:"moderation_reviews"`
	CreatedAt            time.Time          `json:"created_at"`
	UpdatedAt            time.Time          `json:"updated_at"`
}

// IsSaved reports whether the store has assigned an id.
func (c *Card) IsSaved() bool {
	return c.ID > 0
}

// Normalize replaces nil collections with empty ones so clients always see
// arrays rather than null.
func (c *Card) Normalize() {
	if c.ResultMetadata == nil {
		c.ResultMetadata = []Field{}
	}
	if c.ModerationReviews == nil {
		c.ModerationReviews = []ModerationReview{}
	}
	if len(c.DatasetQuery) == 0 {
		c.DatasetQuery = json.RawMessage("{}")
	}
}

// CurrentReview returns the review flagged most_recent, if any.
func (c *Card) CurrentReview() *ModerationReview {
	for i := range c.ModerationReviews {
		if c.ModerationReviews[i].MostRecent {
			return &c.ModerationReviews[i]
		}
	}
	return nil
}

// CardCreate is the payload for saving a new card.
type CardCreate struct {
	Name                  string                `json:"name" validate:"required,not_blank,max=254"`
	Description           *string               `json:"description"`
	CollectionID          *int64                `json:"collection_id" validate:"omitempty,gt=0"`
	Display               string                `json:"display" validate:"required,not_blank,max=254"`
	DatasetQuery          json.RawMessage       `json:"dataset_query" validate:"required"`
	VisualizationSettings VisualizationSettings `json:"visualization_settings"`
	ResultMetadata        []Field               `json:"result_metadata"`
	Dataset               bool                  `json:"dataset"`
	CacheTTL              *int                  `json:"cache_ttl" validate:"omitempty,min=0"`
}

// CardUpdate is a partial card update. Nil pointers leave the stored value
// alone. CollectionID and CacheTTL distinguish "absent" from an explicit
// null, which moves the card to the root collection or makes it inherit the
// cache policy respectively.
type CardUpdate struct {
	Name                  *string                `json:"name" validate:"omitempty,not_blank,max=254"`
	Description           *string                `json:"description"`
	Display               *string                `json:"display" validate:"omitempty,not_blank,max=254"`
	DatasetQuery          json.RawMessage        `json:"dataset_query"`
	VisualizationSettings *VisualizationSettings `json:"visualization_settings"`
	CollectionID          NullableID             `json:"collection_id"`
	CacheTTL              NullableInt            `json:"cache_ttl"`
	Dataset               *bool                  `json:"dataset"`
	Archived              *bool                  `json:"archived"`
}

// NullableID is an optional id field of a partial update. Set is true when
// the key was present in the payload, even if its value was null.
type NullableID struct {
	Set   bool
	Value *int64
}

// UnmarshalJSON implements json.Unmarshaler.
func (n *NullableID) UnmarshalJSON(data []byte) error {
	n.Set = true
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		n.Value = nil
		return nil
	}
	var id int64
	if err := json.Unmarshal(data, &id); err != nil {
		return err
	}
	n.Value = &id
	return nil
}

// MarshalJSON implements json.Marshaler.
func (n NullableID) MarshalJSON() ([]byte, error) {
	if n.Value == nil {
		return []byte("null"), nil
	}
	return json.Marshal(*n.Value)
}

// NullableInt is an optional integer field of a partial update, with the
// same presence semantics as NullableID.
type NullableInt struct {
	Set   bool
	Value *int
}

// UnmarshalJSON implements json.Unmarshaler.
func (n *NullableInt) UnmarshalJSON(data []byte) error {
	n.Set = true
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		n.Value = nil
		return nil
	}
	var v int
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	n.Value = &v
	return nil
}

// MarshalJSON implements json.Marshaler.
func (n NullableInt) MarshalJSON() ([]byte, error) {
	if n.Value == nil {
		return []byte("null"), nil
	}
	return json.Marshal(*n.Value)
}

// CreatorProfile is the public part of the user who saved a card.
type CreatorProfile struct {
	ID         int64      `json:"id"`
	CommonName string     `json:"common_name"`
	FirstName  *string    `json:"first_name"`
	LastName   *string    `json:"last_name"`
	Email      string     `json:"email"`
	LastLogin  *time.Time `json:"last_login"`
	DateJoined time.Time  `json:"date_joined"`
}

// Field describes one result column. Keys other than the ones modelled here
// are kept in Extra and written back after them.
type Field struct {
	Name          string          `json:"name"`
	DisplayName   string          `json:"display_name"`
	BaseType      string          `json:"base_type"`
	EffectiveType *string         `json:"effective_type,omitempty"`
	SemanticType  *string         `json:"semantic_type,omitempty"`
	FieldRef      json.RawMessage `json:"field_ref,omitempty"`

	Extra Object `json:"-"`
}

var fieldKeys = []string{"name", "display_name", "base_type", "effective_type", "semantic_type", "field_ref"}

// fieldAlias drops the methods of Field so the default codec can be reused.
type fieldAlias Field

// UnmarshalJSON implements json.Unmarshaler.
func (f *Field) UnmarshalJSON(data []byte) error {
	var all Object
	if err := all.UnmarshalJSON(data); err != nil {
		return err
	}
	var known fieldAlias
	if err := json.Unmarshal(data, &known); err != nil {
		return err
	}
	for _, k := range fieldKeys {
		all.Delete(k)
	}
	known.Extra = all
	*f = Field(known)
	return nil
}

// MarshalJSON implements json.Marshaler.
func (f Field) MarshalJSON() ([]byte, error) {
	base, err := json.Marshal(fieldAlias(f))
	if err != nil {
		return nil, err
	}
	if f.Extra.Len() == 0 {
		return base, nil
	}

	var out Object
	if err := out.UnmarshalJSON(base); err != nil {
		return nil, err
	}
	for _, k := range f.Extra.keys {
		if out.Has(k) {
			continue
		}
		out.SetValue(k, Value{raw: f.Extra.values[k]})
	}
	return out.MarshalJSON()
}
