package models

import (
	"fmt"
	"time"

	"github.com/yasinhessnawi1/Annotate_Backend/internal/utils"
)

// TimelineEvent is a dated annotation shown on charts.
type TimelineEvent struct {
	ID              int64     `json:"id"`
	TimelineID      int64     `json:"timeline_id"`
	Name            string    `json:"name"`
	Description     *string   `json:"description"`
	DescriptionHTML string    `json:"description_html,omitempty"`
	Timestamp       time.Time `json:"timestamp"`
	TimeMatters     bool      `json:"time_matters"`
	Timezone        string    `json:"timezone"`
	Icon            string    `json:"icon"`
	Archived        bool      `json:"archived"`
	CreatorID       int64     `json:"creator_id"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// State derives the lifecycle state from the stored fields.
func (e *TimelineEvent) State() EventState {
	switch {
	case e.ID == 0:
		return EventDraft
	case e.Archived:
		return EventArchived
	default:
		return EventActive
	}
}

// TimelineEventCreate is the payload for adding an event. The event goes to
// TimelineID when given, otherwise to the default timeline of CollectionID
// (nil meaning the root collection), which is created on demand.
type TimelineEventCreate struct {
	TimelineID   *int64     `json:"timeline_id" validate:"omitempty,gt=0"`
	CollectionID *int64     `json:"collection_id" validate:"omitempty,gt=0"`
	Name         string     `json:"name" validate:"required,not_blank,max=255"`
	Description  *string    `json:"description" validate:"omitempty,max=4096"`
	Timestamp    *time.Time `json:"timestamp"`
	TimeMatters  *bool      `json:"time_matters"`
	Timezone     string     `json:"timezone" validate:"omitempty,iana_tz"`
	Icon         string     `json:"icon" validate:"omitempty,oneof=star balloons mail warning bell cloud"`
}

// TimelineEventUpdate is a partial event update.
type TimelineEventUpdate struct {
	TimelineID  *int64     `json:"timeline_id" validate:"omitempty,gt=0"`
	Name        *string    `json:"name" validate:"omitempty,not_blank,max=255"`
	Description *string    `json:"description" validate:"omitempty,max=4096"`
	Timestamp   *time.Time `json:"timestamp"`
	TimeMatters *bool      `json:"time_matters"`
	Timezone    *string    `json:"timezone" validate:"omitempty,iana_tz"`
	Icon        *string    `json:"icon" validate:"omitempty,oneof=star balloons mail warning bell cloud"`
	Archived    *bool      `json:"archived"`
}

// HasContentChanges reports whether the update touches anything besides the
// archived flag.
func (u *TimelineEventUpdate) HasContentChanges() bool {
	return u.TimelineID != nil || u.Name != nil || u.Description != nil || u.Timestamp != nil ||
		u.TimeMatters != nil || u.Timezone != nil || u.Icon != nil
}

// ArchiveResult is returned when an event is archived. The token undoes the
// archive until UndoExpiresAt.
type ArchiveResult struct {
	Event         *TimelineEvent `json:"event"`
	UndoToken     string         `json:"undo_token"`
	UndoExpiresAt time.Time      `json:"undo_expires_at"`
}

// EventState is the lifecycle state of an event.
type EventState string

const (
	EventDraft    EventState = "draft"
	EventActive   EventState = "active"
	EventArchived EventState = "archived"
)

// EventAction moves an event between states.
type EventAction string

const (
	ActionSave      EventAction = "save"
	ActionEdit      EventAction = "edit"
	ActionArchive   EventAction = "archive"
	ActionUnarchive EventAction = "unarchive"
)

var eventTransitions = map[EventState]map[EventAction]EventState{
	EventDraft: {
		ActionSave: EventActive,
	},
	EventActive: {
		ActionEdit:    EventActive,
		ActionArchive: EventArchived,
	},
	EventArchived: {
		ActionEdit:      EventArchived,
		ActionUnarchive: EventActive,
	},
}

// Transition returns the state reached by applying action in state from.
// Illegal moves yield a validation error.
func Transition(from EventState, action EventAction) (EventState, error) {
	if to, ok := eventTransitions[from][action]; ok {
		return to, nil
	}
	return from, utils.NewValidationError("archived", fmt.Sprintf("cannot %s an event that is %s", action, from))
}
