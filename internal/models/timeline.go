package models

import (
	"time"
)

// Timeline is a named group of events attached to a collection. Every card
// in the collection shows the events of its non-archived timelines.
type Timeline struct {
	ID           int64           `json:"id"`
	CollectionID *int64          `json:"collection_id"`
	Name         string          `json:"name"`
	Description  *string         `json:"description"`
	Icon         string          `json:"icon"`
	Default      bool            `json:"default"`
	Archived     bool            `json:"archived"`
	CreatorID    int64           `json:"creator_id"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
	Events       []TimelineEvent `json:"events,omitempty"`
}

// TimelineCreate is the payload for creating a timeline.
type TimelineCreate struct {
	CollectionID *int64  `json:"collection_id" validate:"omitempty,gt=0"`
	Name         string  `json:"name" validate:"required,not_blank,max=255"`
	Description  *string `json:"description" validate:"omitempty,max=4096"`
	Icon         string  `json:"icon" validate:"omitempty,oneof=star balloons mail warning bell cloud"`
	Default      bool    `json:"default"`
}

// TimelineUpdate is a partial timeline update.
type TimelineUpdate struct {
	Name        *string `json:"name" validate:"omitempty,not_blank,max=255"`
	Description *string `json:"description" validate:"omitempty,max=4096"`
	Icon        *string `json:"icon" validate:"omitempty,oneof=star balloons mail warning bell cloud"`
	Archived    *bool   `json:"archived"`
}

// EmptyState is what a client shows when a card has no events to display.
type EmptyState struct {
	Title string `json:"title"`
}

// TimelineView is the timelines of a card's collection as one viewer sees
// them. Affordances lists the controls the viewer may use; controls they may
// not use are absent rather than disabled.
type TimelineView struct {
	CollectionID *int64      `json:"collection_id"`
	Timelines    []Timeline  `json:"timelines"`
	View         string      `json:"view"`
	Start        *time.Time  `json:"start,omitempty"`
	CanWrite     bool        `json:"can_write"`
	Affordances  []string    `json:"affordances"`
	EmptyState   *EmptyState `json:"empty_state,omitempty"`
}

// EventCount returns the number of events across all timelines.
func (v *TimelineView) EventCount() int {
	n := 0
	for _, t := range v.Timelines {
		n += len(t.Events)
	}
	return n
}
