package handlers

import (
	"net/http"

	"github.com/yasinhessnawi1/Annotate_Backend/internal/auth"
	"github.com/yasinhessnawi1/Annotate_Backend/internal/constants"
	"github.com/yasinhessnawi1/Annotate_Backend/internal/utils"
)

// CollectionHandler handles collection routes
type CollectionHandler struct {
	collectionService CollectionServiceInterface
	timelineService   TimelineServiceInterface
}

// NewCollectionHandler creates a new CollectionHandler
func NewCollectionHandler(collectionService CollectionServiceInterface, timelineService TimelineServiceInterface) *CollectionHandler {
	return &CollectionHandler{
		collectionService: collectionService,
		timelineService:   timelineService,
	}
}

// GetCollection returns a collection, or the root collection for "root"
func (h *CollectionHandler) GetCollection(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserID(r)
	if !ok {
		utils.Unauthorized(w, constants.MsgAuthRequired)
		return
	}

	collectionID, err := parseCollectionParam(r, constants.ParamID)
	if err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	collection, err := h.collectionService.ViewCollection(r.Context(), userID, collectionID)
	if err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	utils.JSON(w, constants.StatusOK, collection)
}

// GetCollectionTimelines lists the timelines of a collection
func (h *CollectionHandler) GetCollectionTimelines(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserID(r)
	if !ok {
		utils.Unauthorized(w, constants.MsgAuthRequired)
		return
	}

	collectionID, err := parseCollectionParam(r, constants.ParamID)
	if err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	q, err := eventQuery(r)
	if err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	timelines, err := h.timelineService.CollectionTimelines(r.Context(), userID, collectionID, includesEvents(r), q)
	if err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	utils.List(w, timelines, len(timelines))
}
