package service

import (
	"context"

	"github.com/yasinhessnawi1/Annotate_Backend/internal/constants"
	"github.com/yasinhessnawi1/Annotate_Backend/internal/database"
	"github.com/yasinhessnawi1/Annotate_Backend/internal/models"
	"github.com/yasinhessnawi1/Annotate_Backend/internal/repository"
	"github.com/yasinhessnawi1/Annotate_Backend/internal/utils"
)

// ModerationService records verification reviews on cards.
type ModerationService struct {
	reviews repository.ModerationReviewRepository
	cards   repository.CardRepository
	perms   *PermissionService
}

// NewModerationService creates a new ModerationService.
func NewModerationService(reviews repository.ModerationReviewRepository, cards repository.CardRepository, perms *PermissionService) *ModerationService {
	return &ModerationService{reviews: reviews, cards: cards, perms: perms}
}

// Review adds a review to a card, making it the card's most recent one.
// Only administrators moderate.
func (s *ModerationService) Review(ctx context.Context, userID int64, req *models.ModerationReviewCreate) (*models.ModerationReview, error) {
	user, err := s.perms.CurrentUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !user.IsAdmin() {
		return nil, utils.NewForbiddenError(constants.MsgModeratorRequired)
	}

	if _, err := s.cards.GetByID(ctx, req.ModeratedItemID); err != nil {
		return nil, err
	}

	review := &models.ModerationReview{
		ModeratedItemID:   req.ModeratedItemID,
		ModeratedItemType: req.ModeratedItemType,
		ModeratorID:       user.ID,
		Status:            req.Status,
		Text:              req.Text,
	}

	writeCtx, cancel := database.DetachedContext(ctx)
	defer cancel()

	if err := s.reviews.Create(writeCtx, review); err != nil {
		return nil, err
	}

	utils.LogDomainEvent(constants.LogCategoryCard, constants.LogEventCardReviewed, user.ID, map[string]interface{}{
		"card_id":  review.ModeratedItemID,
		"verified": review.IsVerified(),
	})

	return review, nil
}
