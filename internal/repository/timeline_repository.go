package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/yasinhessnawi1/Annotate_Backend/internal/database"
	"github.com/yasinhessnawi1/Annotate_Backend/internal/models"
	"github.com/yasinhessnawi1/Annotate_Backend/internal/utils"
)

// TimelineRepository defines methods for interacting with timelines
type TimelineRepository interface {
	Create(ctx context.Context, timeline *models.Timeline) error
	GetByID(ctx context.Context, id int64) (*models.Timeline, error)
	Update(ctx context.Context, timeline *models.Timeline) error
	ListByCollection(ctx context.Context, collectionID *int64, includeArchived bool) ([]*models.Timeline, error)
}

// MySQLTimelineRepository is a MySQL implementation of TimelineRepository
type MySQLTimelineRepository struct {
	db *database.Pool
}

// NewTimelineRepository creates a new TimelineRepository
func NewTimelineRepository(db *database.Pool) TimelineRepository {
	return &MySQLTimelineRepository{db: db}
}

const timelineColumns = `timeline_id, collection_id, name, description, icon, is_default, archived, creator_id, created_at, updated_at`

func scanTimeline(row interface{ Scan(...interface{}) error }) (*models.Timeline, error) {
	var (
		timeline     models.Timeline
		collectionID sql.NullInt64
		description  sql.NullString
	)
	if err := row.Scan(
		&timeline.ID,
		&collectionID,
		&timeline.Name,
		&description,
		&timeline.Icon,
		&timeline.Default,
		&timeline.Archived,
		&timeline.CreatorID,
		&timeline.CreatedAt,
		&timeline.UpdatedAt,
	); err != nil {
		return nil, err
	}
	timeline.CollectionID = utils.NullInt64Ptr(collectionID)
	timeline.Description = utils.NullStringPtr(description)
	return &timeline, nil
}

// Create adds a new timeline
func (r *MySQLTimelineRepository) Create(ctx context.Context, timeline *models.Timeline) error {
	startTime := time.Now()

	now := time.Now().UTC()
	timeline.CreatedAt = now
	timeline.UpdatedAt = now

	query := `
        INSERT INTO timelines (collection_id, name, description, icon, is_default, archived, creator_id, created_at, updated_at)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
    `
	args := []interface{}{
		utils.Int64Arg(timeline.CollectionID),
		timeline.Name,
		utils.StringArg(timeline.Description),
		timeline.Icon,
		timeline.Default,
		timeline.Archived,
		timeline.CreatorID,
		now,
		now,
	}

	result, err := r.db.ExecContext(ctx, query, args...)

	utils.LogDBQuery(query, args, time.Since(startTime), err)

	if err != nil {
		return fmt.Errorf("failed to create timeline: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get timeline ID: %w", err)
	}
	timeline.ID = id

	log.Info().
		Int64("timeline_id", timeline.ID).
		Str("name", timeline.Name).
		Bool("default", timeline.Default).
		Msg("Timeline created")

	return nil
}

// GetByID retrieves a timeline by ID
func (r *MySQLTimelineRepository) GetByID(ctx context.Context, id int64) (*models.Timeline, error) {
	startTime := time.Now()

	query := `SELECT ` + timelineColumns + ` FROM timelines WHERE timeline_id = ?`

	timeline, err := scanTimeline(r.db.QueryRowContext(ctx, query, id))

	utils.LogDBQuery(query, []interface{}{id}, time.Since(startTime), err)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, utils.NewNotFoundError("Timeline", id)
		}
		return nil, fmt.Errorf("failed to get timeline: %w", err)
	}

	return timeline, nil
}

// Update writes the mutable columns of a timeline
func (r *MySQLTimelineRepository) Update(ctx context.Context, timeline *models.Timeline) error {
	startTime := time.Now()

	timeline.UpdatedAt = time.Now().UTC()

	query := `
        UPDATE timelines
        SET name = ?, description = ?, icon = ?, archived = ?, updated_at = ?
        WHERE timeline_id = ?
    `
	args := []interface{}{
		timeline.Name,
		utils.StringArg(timeline.Description),
		timeline.Icon,
		timeline.Archived,
		timeline.UpdatedAt,
		timeline.ID,
	}

	result, err := r.db.ExecContext(ctx, query, args...)

	utils.LogDBQuery(query, args, time.Since(startTime), err)

	if err != nil {
		return fmt.Errorf("failed to update timeline: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return utils.NewNotFoundError("Timeline", timeline.ID)
	}

	return nil
}

// ListByCollection returns the timelines of a collection, default timeline
// first. A nil collectionID lists the root collection.
func (r *MySQLTimelineRepository) ListByCollection(ctx context.Context, collectionID *int64, includeArchived bool) ([]*models.Timeline, error) {
	startTime := time.Now()

	query := `SELECT ` + timelineColumns + ` FROM timelines WHERE collection_id <=> ?`
	args := []interface{}{utils.Int64Arg(collectionID)}
	if !includeArchived {
		query += ` AND archived = FALSE`
	}
	query += ` ORDER BY is_default DESC, timeline_id`

	rows, err := r.db.QueryContext(ctx, query, args...)

	utils.LogDBQuery(query, args, time.Since(startTime), err)

	if err != nil {
		return nil, fmt.Errorf("failed to list timelines: %w", err)
	}
	defer rows.Close()

	var timelines []*models.Timeline
	for rows.Next() {
		timeline, err := scanTimeline(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan timeline row: %w", err)
		}
		timelines = append(timelines, timeline)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating timeline rows: %w", err)
	}

	return timelines, nil
}
