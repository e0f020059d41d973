package models

import (
	"time"

	"github.com/yasinhessnawi1/Annotate_Backend/internal/constants"
)

// ModerationReview is a verification record on a card. At most one review
// per card has MostRecent set.
type ModerationReview struct {
	ID                int64     `json:"id"`
	ModeratedItemID   int64     `json:"moderated_item_id"`
	ModeratedItemType string    `json:"moderated_item_type"`
	ModeratorID       int64     `json:"moderator_id"`
	Status            *string   `json:"status"`
	Text              *string   `json:"text"`
	MostRecent        bool      `json:"most_recent"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// IsVerified reports whether the review marks the card as verified.
func (r *ModerationReview) IsVerified() bool {
	return r.Status != nil && *r.Status == constants.ModerationStatusVerified
}

// ModerationReviewCreate is the payload for reviewing a card. A nil status
// removes the verification.
type ModerationReviewCreate struct {
	ModeratedItemID   int64   `json:"moderated_item_id" validate:"required,gt=0"`
	ModeratedItemType string  `json:"moderated_item_type" validate:"required,oneof=card"`
	Status            *string `json:"status" validate:"omitempty,oneof=verified"`
	Text              *string `json:"text" validate:"omitempty,max=1024"`
}
