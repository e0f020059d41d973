package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/yasinhessnawi1/Annotate_Backend/internal/constants"
	"github.com/yasinhessnawi1/Annotate_Backend/internal/database"
	"github.com/yasinhessnawi1/Annotate_Backend/internal/models"
	"github.com/yasinhessnawi1/Annotate_Backend/internal/repository"
	"github.com/yasinhessnawi1/Annotate_Backend/internal/utils"
)

// CardService saves and loads cards on behalf of a viewer.
type CardService struct {
	cards   repository.CardRepository
	reviews repository.ModerationReviewRepository
	users   repository.UserRepository
	perms   *PermissionService
}

// NewCardService creates a new CardService.
func NewCardService(
	cards repository.CardRepository,
	reviews repository.ModerationReviewRepository,
	users repository.UserRepository,
	perms *PermissionService,
) *CardService {
	return &CardService{
		cards:   cards,
		reviews: reviews,
		users:   users,
		perms:   perms,
	}
}

// Create saves an unsaved card into a collection the user may write to. The
// store assigns the id.
func (s *CardService) Create(ctx context.Context, userID int64, req *models.CardCreate) (*models.Card, error) {
	user, err := s.perms.CurrentUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := s.perms.RequireWrite(ctx, user, req.CollectionID); err != nil {
		return nil, err
	}

	card := &models.Card{
		UnsavedCard: models.UnsavedCard{
			Display:               req.Display,
			DatasetQuery:          req.DatasetQuery,
			VisualizationSettings: req.VisualizationSettings,
		},
		CollectionID:   req.CollectionID,
		Name:           req.Name,
		Description:    req.Description,
		Dataset:        req.Dataset,
		CacheTTL:       req.CacheTTL,
		ResultMetadata: req.ResultMetadata,
		CreatorID:      &user.ID,
	}

	writeCtx, cancel := database.DetachedContext(ctx)
	defer cancel()

	if err := s.cards.Create(writeCtx, card); err != nil {
		return nil, err
	}

	utils.LogDomainEvent(constants.LogCategoryCard, constants.LogEventCardSaved, user.ID, map[string]interface{}{
		"card_id": card.ID,
		"display": card.Display,
	})

	card.Creator = user.Profile()
	card.CanWrite = true
	return card, nil
}

// Get returns a card with its creator, reviews and the viewer's write
// capability. Archived cards are returned like any other.
func (s *CardService) Get(ctx context.Context, userID, cardID int64) (*models.Card, error) {
	user, err := s.perms.CurrentUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	card, err := s.cards.GetByID(ctx, cardID)
	if err != nil {
		return nil, err
	}

	level, err := s.perms.AccessLevel(ctx, user, card.CollectionID)
	if err != nil {
		return nil, err
	}
	if level == constants.AccessNone {
		return nil, utils.NewForbiddenError("")
	}

	if err := s.hydrate(ctx, card); err != nil {
		return nil, err
	}
	card.CanWrite = level == constants.AccessWrite
	return card, nil
}

// Update applies a partial update. Moving a card needs write access on both
// the source and the destination collection.
func (s *CardService) Update(ctx context.Context, userID, cardID int64, req *models.CardUpdate) (*models.Card, error) {
	if req.CacheTTL.Value != nil && *req.CacheTTL.Value < 0 {
		return nil, utils.NewValidationError("cache_ttl", "must be 0 or greater")
	}

	user, err := s.perms.CurrentUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	card, err := s.cards.GetByID(ctx, cardID)
	if err != nil {
		return nil, err
	}

	if err := s.perms.RequireWrite(ctx, user, card.CollectionID); err != nil {
		return nil, err
	}
	if req.CollectionID.Set {
		if err := s.perms.RequireWrite(ctx, user, req.CollectionID.Value); err != nil {
			return nil, err
		}
		card.CollectionID = req.CollectionID.Value
	}

	applyCardUpdate(card, req)

	writeCtx, cancel := database.DetachedContext(ctx)
	defer cancel()

	if err := s.cards.Update(writeCtx, card); err != nil {
		return nil, err
	}

	utils.LogDomainEvent(constants.LogCategoryCard, constants.LogEventCardSaved, user.ID, map[string]interface{}{
		"card_id":  card.ID,
		"archived": card.Archived,
	})

	if err := s.hydrate(ctx, card); err != nil {
		return nil, err
	}
	card.CanWrite = true
	return card, nil
}

func applyCardUpdate(card *models.Card, req *models.CardUpdate) {
	if req.Name != nil {
		card.Name = *req.Name
	}
	if req.Description != nil {
		card.Description = req.Description
	}
	if req.Display != nil {
		card.Display = *req.Display
	}
	if len(req.DatasetQuery) > 0 {
		card.DatasetQuery = req.DatasetQuery
	}
	if req.VisualizationSettings != nil {
		card.VisualizationSettings = req.VisualizationSettings.Clone()
	}
	if req.CacheTTL.Set {
		card.CacheTTL = req.CacheTTL.Value
	}
	if req.Dataset != nil {
		card.Dataset = *req.Dataset
	}
	if req.Archived != nil {
		card.Archived = *req.Archived
	}
}

// hydrate attaches the creator profile and moderation reviews. A creator
// that no longer exists leaves Creator empty.
func (s *CardService) hydrate(ctx context.Context, card *models.Card) error {
	card.Creator = nil
	if card.CreatorID != nil {
		creator, err := s.users.GetByID(ctx, *card.CreatorID)
		switch {
		case err == nil:
			card.Creator = creator.Profile()
		case utils.IsNotFoundError(err):
			log.Debug().Int64("card_id", card.ID).Msg("Card creator no longer exists")
		default:
			return fmt.Errorf("failed to load card creator: %w", err)
		}
	}

	reviews, err := s.reviews.ListByCard(ctx, card.ID)
	if err != nil {
		return err
	}
	card.ModerationReviews = reviews
	card.Normalize()
	return nil
}
