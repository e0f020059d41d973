package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/yasinhessnawi1/Annotate_Backend/internal/database"
	"github.com/yasinhessnawi1/Annotate_Backend/internal/models"
	"github.com/yasinhessnawi1/Annotate_Backend/internal/utils"
)

// CardRepository defines methods for interacting with saved cards
type CardRepository interface {
	Create(ctx context.Context, card *models.Card) error
	GetByID(ctx context.Context, id int64) (*models.Card, error)
	Update(ctx context.Context, card *models.Card) error
	ListByCollection(ctx context.Context, collectionID *int64, archived bool) ([]*models.Card, error)
}

// MySQLCardRepository is a MySQL implementation of CardRepository
type MySQLCardRepository struct {
	db *database.Pool
}

// NewCardRepository creates a new CardRepository
func NewCardRepository(db *database.Pool) CardRepository {
	return &MySQLCardRepository{db: db}
}

const cardColumns = `card_id, collection_id, name, description, display, dataset_query,
        visualization_settings, result_metadata, dataset, cache_ttl, query_average_duration,
        last_query_start, archived, creator_id, created_at, updated_at`

func scanCard(row interface{ Scan(...interface{}) error }) (*models.Card, error) {
	var (
		card           models.Card
		collectionID   sql.NullInt64
		description    sql.NullString
		datasetQuery   []byte
		settings       []byte
		resultMetadata []byte
		cacheTTL       sql.NullInt64
		avgDuration    sql.NullFloat64
		lastQueryStart sql.NullTime
		creatorID      sql.NullInt64
	)
	err := row.Scan(
		&card.ID,
		&collectionID,
		&card.Name,
		&description,
		&card.Display,
		&datasetQuery,
		&settings,
		&resultMetadata,
		&card.Dataset,
		&cacheTTL,
		&avgDuration,
		&lastQueryStart,
		&card.Archived,
		&creatorID,
		&card.CreatedAt,
		&card.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	card.CollectionID = utils.NullInt64Ptr(collectionID)
	card.Description = utils.NullStringPtr(description)
	card.QueryAverageDuration = utils.NullFloat64Ptr(avgDuration)
	card.LastQueryStart = utils.NullTimePtr(lastQueryStart)
	card.CreatorID = utils.NullInt64Ptr(creatorID)
	if cacheTTL.Valid {
		ttl := int(cacheTTL.Int64)
		card.CacheTTL = &ttl
	}

	if len(datasetQuery) > 0 {
		card.DatasetQuery = json.RawMessage(datasetQuery)
	}
	if card.VisualizationSettings, err = models.ParseVisualizationSettings(settings); err != nil {
		return nil, fmt.Errorf("card %d: %w", card.ID, err)
	}
	if len(resultMetadata) > 0 {
		if err := json.Unmarshal(resultMetadata, &card.ResultMetadata); err != nil {
			return nil, fmt.Errorf("card %d: failed to parse result metadata: %w", card.ID, err)
		}
	}
	card.Normalize()

	return &card, nil
}

// encodeCardJSON encodes the JSON columns of a card.
func encodeCardJSON(card *models.Card) (settings, metadata []byte, err error) {
	settings, err = card.VisualizationSettings.MarshalJSON()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to encode visualization settings: %w", err)
	}
	fields := card.ResultMetadata
	if fields == nil {
		fields = []models.Field{}
	}
	metadata, err = json.Marshal(fields)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to encode result metadata: %w", err)
	}
	return settings, metadata, nil
}

func cacheTTLArg(ttl *int) interface{} {
	if ttl == nil {
		return nil
	}
	return int64(*ttl)
}

func datasetQueryArg(q json.RawMessage) interface{} {
	if len(q) == 0 {
		return []byte("{}")
	}
	return []byte(q)
}

// Create stores a new card and assigns its id
func (r *MySQLCardRepository) Create(ctx context.Context, card *models.Card) error {
	startTime := time.Now()

	settings, metadata, err := encodeCardJSON(card)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	card.CreatedAt = now
	card.UpdatedAt = now

	query := `
        INSERT INTO cards (collection_id, name, description, display, dataset_query,
            visualization_settings, result_metadata, dataset, cache_ttl, archived,
            creator_id, created_at, updated_at)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
    `
	args := []interface{}{
		utils.Int64Arg(card.CollectionID),
		card.Name,
		utils.StringArg(card.Description),
		card.Display,
		datasetQueryArg(card.DatasetQuery),
		settings,
		metadata,
		card.Dataset,
		cacheTTLArg(card.CacheTTL),
		card.Archived,
		utils.Int64Arg(card.CreatorID),
		now,
		now,
	}

	result, err := r.db.ExecContext(ctx, query, args...)

	utils.LogDBQuery(query, args, time.Since(startTime), err)

	if err != nil {
		return fmt.Errorf("failed to create card: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get card ID: %w", err)
	}
	card.ID = id
	card.Normalize()

	log.Info().
		Int64("card_id", card.ID).
		Str("display", card.Display).
		Msg("Card created")

	return nil
}

// GetByID retrieves a card by ID, archived or not
func (r *MySQLCardRepository) GetByID(ctx context.Context, id int64) (*models.Card, error) {
	startTime := time.Now()

	query := `SELECT ` + cardColumns + ` FROM cards WHERE card_id = ?`

	card, err := scanCard(r.db.QueryRowContext(ctx, query, id))

	utils.LogDBQuery(query, []interface{}{id}, time.Since(startTime), err)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, utils.NewNotFoundError("Card", id)
		}
		return nil, fmt.Errorf("failed to get card: %w", err)
	}

	return card, nil
}

// Update writes every mutable column of a card
func (r *MySQLCardRepository) Update(ctx context.Context, card *models.Card) error {
	startTime := time.Now()

	settings, metadata, err := encodeCardJSON(card)
	if err != nil {
		return err
	}

	card.UpdatedAt = time.Now().UTC()

	query := `
        UPDATE cards
        SET collection_id = ?, name = ?, description = ?, display = ?, dataset_query = ?,
            visualization_settings = ?, result_metadata = ?, dataset = ?, cache_ttl = ?,
            archived = ?, updated_at = ?
        WHERE card_id = ?
    `
	args := []interface{}{
		utils.Int64Arg(card.CollectionID),
		card.Name,
		utils.StringArg(card.Description),
		card.Display,
		datasetQueryArg(card.DatasetQuery),
		settings,
		metadata,
		card.Dataset,
		cacheTTLArg(card.CacheTTL),
		card.Archived,
		card.UpdatedAt,
		card.ID,
	}

	result, err := r.db.ExecContext(ctx, query, args...)

	utils.LogDBQuery(query, args, time.Since(startTime), err)

	if err != nil {
		return fmt.Errorf("failed to update card: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return utils.NewNotFoundError("Card", card.ID)
	}

	return nil
}

// ListByCollection returns the cards of a collection ordered by name. A nil
// collectionID lists the root collection.
func (r *MySQLCardRepository) ListByCollection(ctx context.Context, collectionID *int64, archived bool) ([]*models.Card, error) {
	startTime := time.Now()

	query := `SELECT ` + cardColumns + ` FROM cards
        WHERE collection_id <=> ? AND archived = ?
        ORDER BY name, card_id`
	args := []interface{}{utils.Int64Arg(collectionID), archived}

	rows, err := r.db.QueryContext(ctx, query, args...)

	utils.LogDBQuery(query, args, time.Since(startTime), err)

	if err != nil {
		return nil, fmt.Errorf("failed to list cards: %w", err)
	}
	defer rows.Close()

	var cards []*models.Card
	for rows.Next() {
		card, err := scanCard(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan card row: %w", err)
		}
		cards = append(cards, card)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating card rows: %w", err)
	}

	return cards, nil
}
