package service

import (
	"context"
	"fmt"
	"time"

	"github.com/yasinhessnawi1/Annotate_Backend/internal/config"
	"github.com/yasinhessnawi1/Annotate_Backend/internal/constants"
	"github.com/yasinhessnawi1/Annotate_Backend/internal/database"
	"github.com/yasinhessnawi1/Annotate_Backend/internal/markdown"
	"github.com/yasinhessnawi1/Annotate_Backend/internal/models"
	"github.com/yasinhessnawi1/Annotate_Backend/internal/repository"
	"github.com/yasinhessnawi1/Annotate_Backend/internal/utils"
)

// EventQuery selects which events accompany a timeline listing.
type EventQuery struct {
	// View is calendar (events from Start onwards) or table (all events).
	View string
	// Start is the chart's visible range start; only used by the calendar view.
	Start *time.Time
	// Archived lists archived events instead of active ones.
	Archived bool
}

func (q EventQuery) filter() (repository.EventFilter, error) {
	switch q.View {
	case "", constants.ViewCalendar:
		return repository.EventFilter{Archived: q.Archived, Start: q.Start}, nil
	case constants.ViewTable:
		return repository.EventFilter{Archived: q.Archived}, nil
	default:
		return repository.EventFilter{}, utils.NewValidationError(constants.QueryParamView, "must be calendar or table")
	}
}

func (q EventQuery) view() string {
	if q.View == "" {
		return constants.ViewCalendar
	}
	return q.View
}

// TimelineService manages timelines and their events. Every write checks the
// caller's access to the owning collection.
type TimelineService struct {
	timelines repository.TimelineRepository
	events    repository.TimelineEventRepository
	cards     repository.CardRepository
	perms     *PermissionService
	undo      *UndoStore
	cfg       config.TimelineSettings
	now       func() time.Time
}

// NewTimelineService creates a new TimelineService.
func NewTimelineService(
	timelines repository.TimelineRepository,
	events repository.TimelineEventRepository,
	cards repository.CardRepository,
	perms *PermissionService,
	undo *UndoStore,
	cfg config.TimelineSettings,
) *TimelineService {
	if cfg.DefaultIcon == "" {
		cfg.DefaultIcon = constants.DefaultTimelineIcon
	}
	if cfg.RootCollectionName == "" {
		cfg.RootCollectionName = constants.DefaultRootCollectionName
	}
	if cfg.ProductName == "" {
		cfg.ProductName = constants.DefaultProductName
	}
	return &TimelineService{
		timelines: timelines,
		events:    events,
		cards:     cards,
		perms:     perms,
		undo:      undo,
		cfg:       cfg,
		now:       time.Now,
	}
}

// PurgeUndo drops expired undo tokens.
func (s *TimelineService) PurgeUndo() int {
	return s.undo.Purge()
}

// EnsureTimeline returns the first non-archived timeline of a collection,
// creating the collection's default timeline when there is none.
func (s *TimelineService) EnsureTimeline(ctx context.Context, userID int64, collectionID *int64) (*models.Timeline, error) {
	user, err := s.perms.CurrentUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	collection, err := s.perms.Collection(ctx, user, collectionID)
	if err != nil {
		return nil, err
	}
	return s.ensureTimeline(ctx, user, collection)
}

func (s *TimelineService) ensureTimeline(ctx context.Context, user *models.User, collection *models.Collection) (*models.Timeline, error) {
	existing, err := s.timelines.ListByCollection(ctx, collection.ID, false)
	if err != nil {
		return nil, err
	}
	if len(existing) > 0 {
		return existing[0], nil
	}

	if !collection.CanWrite {
		return nil, utils.NewForbiddenError(constants.MsgCollectionWriteDenied)
	}

	timeline := &models.Timeline{
		CollectionID: collection.ID,
		Name:         s.defaultTimelineName(collection),
		Icon:         s.cfg.DefaultIcon,
		Default:      true,
		CreatorID:    user.ID,
	}

	writeCtx, cancel := database.DetachedContext(ctx)
	defer cancel()

	if err := s.timelines.Create(writeCtx, timeline); err != nil {
		return nil, err
	}

	utils.LogDomainEvent(constants.LogCategoryTimeline, constants.LogEventTimelineEnsure, user.ID, map[string]interface{}{
		"timeline_id":   timeline.ID,
		"collection_id": collection.ID,
	})
	return timeline, nil
}

func (s *TimelineService) defaultTimelineName(collection *models.Collection) string {
	switch {
	case collection.IsRoot():
		return s.cfg.RootCollectionName + constants.DefaultTimelineSuffix
	case collection.IsPersonal():
		return constants.PersonalTimelineName
	default:
		return collection.Name + constants.DefaultTimelineSuffix
	}
}

// CreateTimeline adds a timeline to a collection the user may write to.
func (s *TimelineService) CreateTimeline(ctx context.Context, userID int64, req *models.TimelineCreate) (*models.Timeline, error) {
	user, err := s.perms.CurrentUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := s.perms.RequireWrite(ctx, user, req.CollectionID); err != nil {
		return nil, err
	}

	timeline := &models.Timeline{
		CollectionID: req.CollectionID,
		Name:         req.Name,
		Description:  req.Description,
		Icon:         req.Icon,
		Default:      req.Default,
		CreatorID:    user.ID,
	}
	if timeline.Icon == "" {
		timeline.Icon = s.cfg.DefaultIcon
	}

	writeCtx, cancel := database.DetachedContext(ctx)
	defer cancel()

	if err := s.timelines.Create(writeCtx, timeline); err != nil {
		return nil, err
	}
	return timeline, nil
}

// GetTimeline returns a timeline, with its events when includeEvents is set.
func (s *TimelineService) GetTimeline(ctx context.Context, userID, timelineID int64, includeEvents bool, q EventQuery) (*models.Timeline, error) {
	user, err := s.perms.CurrentUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	timeline, err := s.timelines.GetByID(ctx, timelineID)
	if err != nil {
		return nil, err
	}
	if err := s.perms.RequireRead(ctx, user, timeline.CollectionID); err != nil {
		return nil, err
	}

	if includeEvents {
		list := []*models.Timeline{timeline}
		if err := s.attachEvents(ctx, list, q); err != nil {
			return nil, err
		}
	}
	return timeline, nil
}

// UpdateTimeline applies a partial timeline update.
func (s *TimelineService) UpdateTimeline(ctx context.Context, userID, timelineID int64, req *models.TimelineUpdate) (*models.Timeline, error) {
	user, err := s.perms.CurrentUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	timeline, err := s.timelines.GetByID(ctx, timelineID)
	if err != nil {
		return nil, err
	}
	if err := s.perms.RequireWrite(ctx, user, timeline.CollectionID); err != nil {
		return nil, err
	}

	if req.Name != nil {
		timeline.Name = *req.Name
	}
	if req.Description != nil {
		timeline.Description = req.Description
	}
	if req.Icon != nil {
		timeline.Icon = *req.Icon
	}
	if req.Archived != nil {
		timeline.Archived = *req.Archived
	}
	timeline.UpdatedAt = s.now().UTC()

	writeCtx, cancel := database.DetachedContext(ctx)
	defer cancel()

	if err := s.timelines.Update(writeCtx, timeline); err != nil {
		return nil, err
	}
	return timeline, nil
}

// CollectionTimelines lists the non-archived timelines of a collection.
func (s *TimelineService) CollectionTimelines(ctx context.Context, userID int64, collectionID *int64, includeEvents bool, q EventQuery) ([]*models.Timeline, error) {
	user, err := s.perms.CurrentUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := s.perms.RequireRead(ctx, user, collectionID); err != nil {
		return nil, err
	}

	timelines, err := s.timelines.ListByCollection(ctx, collectionID, false)
	if err != nil {
		return nil, err
	}
	if includeEvents {
		if err := s.attachEvents(ctx, timelines, q); err != nil {
			return nil, err
		}
	}
	return timelines, nil
}

// CardTimelines returns the timelines of a card's collection with the events
// visible in the requested view, plus the controls the viewer may use.
func (s *TimelineService) CardTimelines(ctx context.Context, userID, cardID int64, q EventQuery) (*models.TimelineView, error) {
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

	timelines, err := s.timelines.ListByCollection(ctx, card.CollectionID, false)
	if err != nil {
		return nil, err
	}
	if err := s.attachEvents(ctx, timelines, q); err != nil {
		return nil, err
	}

	canWrite := level == constants.AccessWrite
	view := &models.TimelineView{
		CollectionID: card.CollectionID,
		Timelines:    make([]models.Timeline, 0, len(timelines)),
		View:         q.view(),
		Start:        q.Start,
		CanWrite:     canWrite,
		Affordances:  Affordances(canWrite),
	}
	for _, t := range timelines {
		view.Timelines = append(view.Timelines, *t)
	}
	if view.EventCount() == 0 {
		view.EmptyState = &models.EmptyState{Title: "Events in " + s.cfg.ProductName}
	}
	return view, nil
}

// Affordances lists the timeline controls available to a viewer. Viewers
// without write access only get the view switches.
func Affordances(canWrite bool) []string {
	labels := []string{constants.LabelCalendarIcon, constants.LabelTableIcon}
	if !canWrite {
		return labels
	}
	return append(labels,
		constants.LabelAddEvent,
		constants.LabelEventName,
		constants.LabelDate,
		constants.LabelCreate,
		constants.LabelUpdate,
		constants.LabelEditEvent,
		constants.LabelArchiveEvent,
		constants.LabelUndo,
		constants.LabelEllipsis,
	)
}

func (s *TimelineService) attachEvents(ctx context.Context, timelines []*models.Timeline, q EventQuery) error {
	filter, err := q.filter()
	if err != nil {
		return err
	}

	ids := make([]int64, 0, len(timelines))
	byID := make(map[int64]*models.Timeline, len(timelines))
	for _, t := range timelines {
		t.Events = []models.TimelineEvent{}
		ids = append(ids, t.ID)
		byID[t.ID] = t
	}

	events, err := s.events.ListByTimelines(ctx, ids, filter)
	if err != nil {
		return err
	}
	for _, e := range events {
		t, ok := byID[e.TimelineID]
		if !ok {
			continue
		}
		renderDescription(e)
		t.Events = append(t.Events, *e)
	}
	return nil
}

// CreateEvent saves a new event. Without an explicit timeline the event goes
// to the collection's default timeline, created if needed.
func (s *TimelineService) CreateEvent(ctx context.Context, userID int64, req *models.TimelineEventCreate) (*models.TimelineEvent, error) {
	user, err := s.perms.CurrentUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	var timeline *models.Timeline
	if req.TimelineID != nil {
		timeline, err = s.timelines.GetByID(ctx, *req.TimelineID)
		if err != nil {
			return nil, err
		}
		if err := s.perms.RequireWrite(ctx, user, timeline.CollectionID); err != nil {
			return nil, err
		}
	} else {
		collection, err := s.perms.Collection(ctx, user, req.CollectionID)
		if err != nil {
			return nil, err
		}
		if !collection.CanWrite {
			return nil, utils.NewForbiddenError(constants.MsgCollectionWriteDenied)
		}
		timeline, err = s.ensureTimeline(ctx, user, collection)
		if err != nil {
			return nil, err
		}
	}

	event := &models.TimelineEvent{
		TimelineID:  timeline.ID,
		Name:        req.Name,
		Description: req.Description,
		Timestamp:   s.now().UTC(),
		Timezone:    req.Timezone,
		Icon:        req.Icon,
		CreatorID:   user.ID,
	}
	if req.Timestamp != nil {
		event.Timestamp = req.Timestamp.UTC()
	}
	if req.TimeMatters != nil {
		event.TimeMatters = *req.TimeMatters
	}
	if event.Timezone == "" {
		event.Timezone = constants.DefaultEventTimezone
	}
	if event.Icon == "" {
		event.Icon = timeline.Icon
	}

	if _, err := models.Transition(event.State(), models.ActionSave); err != nil {
		return nil, err
	}

	writeCtx, cancel := database.DetachedContext(ctx)
	defer cancel()

	if err := s.events.Create(writeCtx, event); err != nil {
		return nil, err
	}

	utils.LogDomainEvent(constants.LogCategoryTimeline, constants.LogEventEventCreated, user.ID, map[string]interface{}{
		"event_id":    event.ID,
		"timeline_id": event.TimelineID,
	})

	renderDescription(event)
	return event, nil
}

// GetEvent returns a single event, archived or not.
func (s *TimelineService) GetEvent(ctx context.Context, userID, eventID int64) (*models.TimelineEvent, error) {
	user, err := s.perms.CurrentUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	event, timeline, err := s.loadEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if err := s.perms.RequireRead(ctx, user, timeline.CollectionID); err != nil {
		return nil, err
	}
	renderDescription(event)
	return event, nil
}

// UpdateEvent applies a partial update. A change of the archived flag moves
// the event through its lifecycle; moving to another timeline needs write
// access on both collections.
func (s *TimelineService) UpdateEvent(ctx context.Context, userID, eventID int64, req *models.TimelineEventUpdate) (*models.TimelineEvent, error) {
	user, err := s.perms.CurrentUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	event, timeline, err := s.loadEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if err := s.perms.RequireWrite(ctx, user, timeline.CollectionID); err != nil {
		return nil, err
	}

	if req.TimelineID != nil && *req.TimelineID != event.TimelineID {
		target, err := s.timelines.GetByID(ctx, *req.TimelineID)
		if err != nil {
			return nil, err
		}
		if err := s.perms.RequireWrite(ctx, user, target.CollectionID); err != nil {
			return nil, err
		}
	}

	if req.HasContentChanges() {
		if _, err := models.Transition(event.State(), models.ActionEdit); err != nil {
			return nil, err
		}
	}
	applyEventUpdate(event, req)

	logEvent := constants.LogEventEventUpdated
	if req.Archived != nil && *req.Archived != event.Archived {
		action, logged := models.ActionArchive, constants.LogEventEventArchived
		if !*req.Archived {
			action, logged = models.ActionUnarchive, constants.LogEventEventRestored
		}
		to, err := models.Transition(event.State(), action)
		if err != nil {
			return nil, err
		}
		event.Archived = to == models.EventArchived
		logEvent = logged
	}
	event.UpdatedAt = s.now().UTC()

	writeCtx, cancel := database.DetachedContext(ctx)
	defer cancel()

	if err := s.events.Update(writeCtx, event); err != nil {
		return nil, err
	}

	utils.LogDomainEvent(constants.LogCategoryTimeline, logEvent, user.ID, map[string]interface{}{
		"event_id": event.ID,
	})

	renderDescription(event)
	return event, nil
}

func applyEventUpdate(event *models.TimelineEvent, req *models.TimelineEventUpdate) {
	if req.TimelineID != nil {
		event.TimelineID = *req.TimelineID
	}
	if req.Name != nil {
		event.Name = *req.Name
	}
	if req.Description != nil {
		event.Description = req.Description
	}
	if req.Timestamp != nil {
		event.Timestamp = req.Timestamp.UTC()
	}
	if req.TimeMatters != nil {
		event.TimeMatters = *req.TimeMatters
	}
	if req.Timezone != nil {
		event.Timezone = *req.Timezone
	}
	if req.Icon != nil {
		event.Icon = *req.Icon
	}
}

// ArchiveEvent soft-deletes an event and returns a token that restores it
// within the undo window.
func (s *TimelineService) ArchiveEvent(ctx context.Context, userID, eventID int64) (*models.ArchiveResult, error) {
	user, err := s.perms.CurrentUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	event, timeline, err := s.loadEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if err := s.perms.RequireWrite(ctx, user, timeline.CollectionID); err != nil {
		return nil, err
	}

	if _, err := models.Transition(event.State(), models.ActionArchive); err != nil {
		return nil, err
	}
	snapshot := *event

	event.Archived = true
	event.UpdatedAt = s.now().UTC()

	writeCtx, cancel := database.DetachedContext(ctx)
	defer cancel()

	if err := s.events.Update(writeCtx, event); err != nil {
		return nil, err
	}

	token, expiresAt := s.undo.Issue(user.ID, &snapshot)

	utils.LogDomainEvent(constants.LogCategoryTimeline, constants.LogEventEventArchived, user.ID, map[string]interface{}{
		"event_id": event.ID,
	})

	renderDescription(event)
	return &models.ArchiveResult{Event: event, UndoToken: token, UndoExpiresAt: expiresAt}, nil
}

// UndoArchive restores an archived event to the values it had when it was
// archived. The token is consumed.
func (s *TimelineService) UndoArchive(ctx context.Context, userID int64, token string) (*models.TimelineEvent, error) {
	user, err := s.perms.CurrentUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	snapshot, err := s.undo.Redeem(user.ID, token)
	if err != nil {
		return nil, err
	}

	current, timeline, err := s.loadEvent(ctx, snapshot.ID)
	if err != nil {
		return nil, err
	}
	if err := s.perms.RequireWrite(ctx, user, timeline.CollectionID); err != nil {
		return nil, err
	}
	if _, err := models.Transition(current.State(), models.ActionUnarchive); err != nil {
		return nil, err
	}

	restored := *snapshot
	restored.Archived = false
	restored.UpdatedAt = s.now().UTC()

	writeCtx, cancel := database.DetachedContext(ctx)
	defer cancel()

	if err := s.events.Update(writeCtx, &restored); err != nil {
		return nil, err
	}

	utils.LogDomainEvent(constants.LogCategoryTimeline, constants.LogEventEventRestored, user.ID, map[string]interface{}{
		"event_id": restored.ID,
	})

	renderDescription(&restored)
	return &restored, nil
}

func (s *TimelineService) loadEvent(ctx context.Context, eventID int64) (*models.TimelineEvent, *models.Timeline, error) {
	event, err := s.events.GetByID(ctx, eventID)
	if err != nil {
		return nil, nil, err
	}
	timeline, err := s.timelines.GetByID(ctx, event.TimelineID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load timeline of event %d: %w", eventID, err)
	}
	return event, timeline, nil
}

func renderDescription(event *models.TimelineEvent) {
	event.DescriptionHTML = markdown.ToHTMLPtr(event.Description)
}
