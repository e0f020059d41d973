// Package handlers provides the HTTP handlers of the annotation API and the
// service interfaces they depend on. Handlers only translate between HTTP and
// the services; every permission decision is made by the services.
package handlers

import (
	"context"

	"github.com/yasinhessnawi1/Annotate_Backend/internal/models"
	"github.com/yasinhessnawi1/Annotate_Backend/internal/popover"
	"github.com/yasinhessnawi1/Annotate_Backend/internal/service"
)

// CardServiceInterface defines the methods required from CardService.
type CardServiceInterface interface {
	// Create saves an unsaved card and returns it with its assigned id.
	Create(ctx context.Context, userID int64, req *models.CardCreate) (*models.Card, error)

	// Get returns a card with its creator, moderation reviews and the
	// viewer's write capability.
	Get(ctx context.Context, userID, cardID int64) (*models.Card, error)

	// Update applies a partial update to a card.
	Update(ctx context.Context, userID, cardID int64, req *models.CardUpdate) (*models.Card, error)
}

// ModerationServiceInterface defines the methods required from ModerationService.
type ModerationServiceInterface interface {
	// Review records a moderation review and makes it the card's most recent one.
	Review(ctx context.Context, userID int64, req *models.ModerationReviewCreate) (*models.ModerationReview, error)
}

// CollectionServiceInterface resolves collections for a viewer.
type CollectionServiceInterface interface {
	// ViewCollection returns a collection with can_write set for the viewer.
	// A nil id is the root collection.
	ViewCollection(ctx context.Context, userID int64, collectionID *int64) (*models.Collection, error)
}

// TableServiceInterface answers table info popover requests.
type TableServiceInterface interface {
	// Popover decides whether a table gets an info overlay. Unknown and
	// virtual tables are not errors; they yield show=false.
	Popover(ctx context.Context, rawID string, overrides popover.Options) (*models.TablePopover, error)
}

// TimelineServiceInterface defines the methods required from TimelineService.
type TimelineServiceInterface interface {
	CreateTimeline(ctx context.Context, userID int64, req *models.TimelineCreate) (*models.Timeline, error)
	GetTimeline(ctx context.Context, userID, timelineID int64, includeEvents bool, q service.EventQuery) (*models.Timeline, error)
	UpdateTimeline(ctx context.Context, userID, timelineID int64, req *models.TimelineUpdate) (*models.Timeline, error)
	CollectionTimelines(ctx context.Context, userID int64, collectionID *int64, includeEvents bool, q service.EventQuery) ([]*models.Timeline, error)
	CardTimelines(ctx context.Context, userID, cardID int64, q service.EventQuery) (*models.TimelineView, error)

	CreateEvent(ctx context.Context, userID int64, req *models.TimelineEventCreate) (*models.TimelineEvent, error)
	GetEvent(ctx context.Context, userID, eventID int64) (*models.TimelineEvent, error)
	UpdateEvent(ctx context.Context, userID, eventID int64, req *models.TimelineEventUpdate) (*models.TimelineEvent, error)

	// ArchiveEvent soft-deletes an event and returns an undo token.
	ArchiveEvent(ctx context.Context, userID, eventID int64) (*models.ArchiveResult, error)

	// UndoArchive restores the event archived under token.
	UndoArchive(ctx context.Context, userID int64, token string) (*models.TimelineEvent, error)
}
