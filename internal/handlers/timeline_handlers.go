package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/yasinhessnawi1/Annotate_Backend/internal/auth"
	"github.com/yasinhessnawi1/Annotate_Backend/internal/constants"
	"github.com/yasinhessnawi1/Annotate_Backend/internal/models"
	"github.com/yasinhessnawi1/Annotate_Backend/internal/utils"
)

// TimelineHandler handles timeline and timeline event routes
type TimelineHandler struct {
	timelineService TimelineServiceInterface
}

// NewTimelineHandler creates a new TimelineHandler
func NewTimelineHandler(timelineService TimelineServiceInterface) *TimelineHandler {
	return &TimelineHandler{timelineService: timelineService}
}

// CreateTimeline adds a timeline to a collection
func (h *TimelineHandler) CreateTimeline(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserID(r)
	if !ok {
		utils.Unauthorized(w, constants.MsgAuthRequired)
		return
	}

	var req models.TimelineCreate
	if err := utils.DecodeAndValidate(r, &req); err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	timeline, err := h.timelineService.CreateTimeline(r.Context(), userID, &req)
	if err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	utils.JSON(w, constants.StatusCreated, timeline)
}

// GetTimeline returns a timeline; include=events nests its events
func (h *TimelineHandler) GetTimeline(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserID(r)
	if !ok {
		utils.Unauthorized(w, constants.MsgAuthRequired)
		return
	}

	timelineID, err := utils.ParseIDParam(r, constants.ParamID)
	if err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	q, err := eventQuery(r)
	if err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	timeline, err := h.timelineService.GetTimeline(r.Context(), userID, timelineID, includesEvents(r), q)
	if err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	utils.JSON(w, constants.StatusOK, timeline)
}

// UpdateTimeline applies a partial timeline update
func (h *TimelineHandler) UpdateTimeline(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserID(r)
	if !ok {
		utils.Unauthorized(w, constants.MsgAuthRequired)
		return
	}

	timelineID, err := utils.ParseIDParam(r, constants.ParamID)
	if err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	var req models.TimelineUpdate
	if err := utils.DecodeAndValidate(r, &req); err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	timeline, err := h.timelineService.UpdateTimeline(r.Context(), userID, timelineID, &req)
	if err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	utils.JSON(w, constants.StatusOK, timeline)
}

// CreateEvent adds an event, creating the collection's default timeline
// when no timeline is given
func (h *TimelineHandler) CreateEvent(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserID(r)
	if !ok {
		utils.Unauthorized(w, constants.MsgAuthRequired)
		return
	}

	var req models.TimelineEventCreate
	if err := utils.DecodeAndValidate(r, &req); err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	event, err := h.timelineService.CreateEvent(r.Context(), userID, &req)
	if err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	utils.JSON(w, constants.StatusCreated, event)
}

// GetEvent returns a single event
func (h *TimelineHandler) GetEvent(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserID(r)
	if !ok {
		utils.Unauthorized(w, constants.MsgAuthRequired)
		return
	}

	eventID, err := utils.ParseIDParam(r, constants.ParamID)
	if err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	event, err := h.timelineService.GetEvent(r.Context(), userID, eventID)
	if err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	utils.JSON(w, constants.StatusOK, event)
}

// UpdateEvent applies a partial event update
func (h *TimelineHandler) UpdateEvent(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserID(r)
	if !ok {
		utils.Unauthorized(w, constants.MsgAuthRequired)
		return
	}

	eventID, err := utils.ParseIDParam(r, constants.ParamID)
	if err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	var req models.TimelineEventUpdate
	if err := utils.DecodeAndValidate(r, &req); err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	event, err := h.timelineService.UpdateEvent(r.Context(), userID, eventID, &req)
	if err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	utils.JSON(w, constants.StatusOK, event)
}

// ArchiveEvent archives an event and returns the undo token
func (h *TimelineHandler) ArchiveEvent(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserID(r)
	if !ok {
		utils.Unauthorized(w, constants.MsgAuthRequired)
		return
	}

	eventID, err := utils.ParseIDParam(r, constants.ParamID)
	if err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	result, err := h.timelineService.ArchiveEvent(r.Context(), userID, eventID)
	if err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	utils.JSON(w, constants.StatusOK, result)
}

// UndoArchive restores an archived event while its undo token is live
func (h *TimelineHandler) UndoArchive(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserID(r)
	if !ok {
		utils.Unauthorized(w, constants.MsgAuthRequired)
		return
	}

	token := chi.URLParam(r, constants.ParamToken)
	if token == "" {
		utils.BadRequest(w, constants.MsgUndoExpired, nil)
		return
	}

	event, err := h.timelineService.UndoArchive(r.Context(), userID, token)
	if err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	utils.JSON(w, constants.StatusOK, event)
}
