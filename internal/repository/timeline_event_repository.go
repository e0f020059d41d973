package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/yasinhessnawi1/Annotate_Backend/internal/database"
	"github.com/yasinhessnawi1/Annotate_Backend/internal/models"
	"github.com/yasinhessnawi1/Annotate_Backend/internal/utils"
)

// EventFilter narrows an event listing.
type EventFilter struct {
	// Archived selects archived events instead of active ones.
	Archived bool
	// Start drops events strictly before it when set.
	Start *time.Time
}

// TimelineEventRepository defines methods for interacting with timeline events
type TimelineEventRepository interface {
	Create(ctx context.Context, event *models.TimelineEvent) error
	GetByID(ctx context.Context, id int64) (*models.TimelineEvent, error)
	Update(ctx context.Context, event *models.TimelineEvent) error
	ListByTimelines(ctx context.Context, timelineIDs []int64, filter EventFilter) ([]*models.TimelineEvent, error)
}

// MySQLTimelineEventRepository is a MySQL implementation of TimelineEventRepository
type MySQLTimelineEventRepository struct {
	db *database.Pool
}

// NewTimelineEventRepository creates a new TimelineEventRepository
func NewTimelineEventRepository(db *database.Pool) TimelineEventRepository {
	return &MySQLTimelineEventRepository{db: db}
}

const eventColumns = `event_id, timeline_id, name, description, event_timestamp, time_matters, timezone, icon, archived, creator_id, created_at, updated_at`

func scanEvent(row interface{ Scan(...interface{}) error }) (*models.TimelineEvent, error) {
	var (
		event       models.TimelineEvent
		description sql.NullString
	)
	if err := row.Scan(
		&event.ID,
		&event.TimelineID,
		&event.Name,
		&description,
		&event.Timestamp,
		&event.TimeMatters,
		&event.Timezone,
		&event.Icon,
		&event.Archived,
		&event.CreatorID,
		&event.CreatedAt,
		&event.UpdatedAt,
	); err != nil {
		return nil, err
	}
	event.Description = utils.NullStringPtr(description)
	return &event, nil
}

// Create stores a new event
func (r *MySQLTimelineEventRepository) Create(ctx context.Context, event *models.TimelineEvent) error {
	startTime := time.Now()

	now := time.Now().UTC()
	event.CreatedAt = now
	event.UpdatedAt = now
	event.Timestamp = event.Timestamp.UTC()

	query := `
        INSERT INTO timeline_events (timeline_id, name, description, event_timestamp, time_matters,
            timezone, icon, archived, creator_id, created_at, updated_at)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
    `
	args := []interface{}{
		event.TimelineID,
		event.Name,
		utils.StringArg(event.Description),
		event.Timestamp,
		event.TimeMatters,
		event.Timezone,
		event.Icon,
		event.Archived,
		event.CreatorID,
		now,
		now,
	}

	result, err := r.db.ExecContext(ctx, query, args...)

	utils.LogDBQuery(query, args, time.Since(startTime), err)

	if err != nil {
		return fmt.Errorf("failed to create timeline event: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get timeline event ID: %w", err)
	}
	event.ID = id

	return nil
}

// GetByID retrieves an event by ID, archived or not
func (r *MySQLTimelineEventRepository) GetByID(ctx context.Context, id int64) (*models.TimelineEvent, error) {
	startTime := time.Now()

	query := `SELECT ` + eventColumns + ` FROM timeline_events WHERE event_id = ?`

	event, err := scanEvent(r.db.QueryRowContext(ctx, query, id))

	utils.LogDBQuery(query, []interface{}{id}, time.Since(startTime), err)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, utils.NewNotFoundError("TimelineEvent", id)
		}
		return nil, fmt.Errorf("failed to get timeline event: %w", err)
	}

	return event, nil
}

// Update writes every mutable column of an event
func (r *MySQLTimelineEventRepository) Update(ctx context.Context, event *models.TimelineEvent) error {
	startTime := time.Now()

	event.UpdatedAt = time.Now().UTC()
	event.Timestamp = event.Timestamp.UTC()

	query := `
        UPDATE timeline_events
        SET timeline_id = ?, name = ?, description = ?, event_timestamp = ?, time_matters = ?,
            timezone = ?, icon = ?, archived = ?, updated_at = ?
        WHERE event_id = ?
    `
	args := []interface{}{
		event.TimelineID,
		event.Name,
		utils.StringArg(event.Description),
		event.Timestamp,
		event.TimeMatters,
		event.Timezone,
		event.Icon,
		event.Archived,
		event.UpdatedAt,
		event.ID,
	}

	result, err := r.db.ExecContext(ctx, query, args...)

	utils.LogDBQuery(query, args, time.Since(startTime), err)

	if err != nil {
		return fmt.Errorf("failed to update timeline event: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return utils.NewNotFoundError("TimelineEvent", event.ID)
	}

	return nil
}

// ListByTimelines returns the events of the given timelines ordered by
// timestamp.
func (r *MySQLTimelineEventRepository) ListByTimelines(ctx context.Context, timelineIDs []int64, filter EventFilter) ([]*models.TimelineEvent, error) {
	if len(timelineIDs) == 0 {
		return []*models.TimelineEvent{}, nil
	}

	startTime := time.Now()

	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(timelineIDs)), ", ")
	query := `SELECT ` + eventColumns + ` FROM timeline_events WHERE timeline_id IN (` + placeholders + `) AND archived = ?`

	args := make([]interface{}, 0, len(timelineIDs)+2)
	for _, id := range timelineIDs {
		args = append(args, id)
	}
	args = append(args, filter.Archived)

	if filter.Start != nil {
		query += ` AND event_timestamp >= ?`
		args = append(args, filter.Start.UTC())
	}
	query += ` ORDER BY event_timestamp, event_id`

	rows, err := r.db.QueryContext(ctx, query, args...)

	utils.LogDBQuery(query, args, time.Since(startTime), err)

	if err != nil {
		return nil, fmt.Errorf("failed to list timeline events: %w", err)
	}
	defer rows.Close()

	events := []*models.TimelineEvent{}
	for rows.Next() {
		event, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan timeline event row: %w", err)
		}
		events = append(events, event)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating timeline event rows: %w", err)
	}

	return events, nil
}
