package handlers

import (
	"net/http"

	"github.com/yasinhessnawi1/Annotate_Backend/internal/auth"
	"github.com/yasinhessnawi1/Annotate_Backend/internal/constants"
	"github.com/yasinhessnawi1/Annotate_Backend/internal/models"
	"github.com/yasinhessnawi1/Annotate_Backend/internal/utils"
)

// CardHandler handles card and moderation routes
type CardHandler struct {
	cardService       CardServiceInterface
	moderationService ModerationServiceInterface
	timelineService   TimelineServiceInterface
}

// NewCardHandler creates a new CardHandler
func NewCardHandler(cardService CardServiceInterface, moderationService ModerationServiceInterface, timelineService TimelineServiceInterface) *CardHandler {
	return &CardHandler{
		cardService:       cardService,
		moderationService: moderationService,
		timelineService:   timelineService,
	}
}

// CreateCard saves a new card
func (h *CardHandler) CreateCard(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserID(r)
	if !ok {
		utils.Unauthorized(w, constants.MsgAuthRequired)
		return
	}

	var req models.CardCreate
	if err := utils.DecodeAndValidate(r, &req); err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	card, err := h.cardService.Create(r.Context(), userID, &req)
	if err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	utils.JSON(w, constants.StatusCreated, card)
}

// GetCard returns a single card
func (h *CardHandler) GetCard(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserID(r)
	if !ok {
		utils.Unauthorized(w, constants.MsgAuthRequired)
		return
	}

	cardID, err := utils.ParseIDParam(r, constants.ParamID)
	if err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	card, err := h.cardService.Get(r.Context(), userID, cardID)
	if err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	utils.JSON(w, constants.StatusOK, card)
}

// UpdateCard applies a partial update to a card
func (h *CardHandler) UpdateCard(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserID(r)
	if !ok {
		utils.Unauthorized(w, constants.MsgAuthRequired)
		return
	}

	cardID, err := utils.ParseIDParam(r, constants.ParamID)
	if err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	var req models.CardUpdate
	if err := utils.DecodeAndValidate(r, &req); err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	card, err := h.cardService.Update(r.Context(), userID, cardID, &req)
	if err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	utils.JSON(w, constants.StatusOK, card)
}

// GetCardTimelines returns the timelines shown on a card's chart, the
// events for the requested view and the controls the viewer may use.
func (h *CardHandler) GetCardTimelines(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserID(r)
	if !ok {
		utils.Unauthorized(w, constants.MsgAuthRequired)
		return
	}

	cardID, err := utils.ParseIDParam(r, constants.ParamID)
	if err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	q, err := eventQuery(r)
	if err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	view, err := h.timelineService.CardTimelines(r.Context(), userID, cardID, q)
	if err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	utils.JSON(w, constants.StatusOK, view)
}

// CreateModerationReview verifies a card or removes its verification
func (h *CardHandler) CreateModerationReview(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserID(r)
	if !ok {
		utils.Unauthorized(w, constants.MsgAuthRequired)
		return
	}

	var req models.ModerationReviewCreate
	if err := utils.DecodeAndValidate(r, &req); err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	review, err := h.moderationService.Review(r.Context(), userID, &req)
	if err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	utils.JSON(w, constants.StatusCreated, review)
}
