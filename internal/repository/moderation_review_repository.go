package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/yasinhessnawi1/Annotate_Backend/internal/database"
	"github.com/yasinhessnawi1/Annotate_Backend/internal/models"
	"github.com/yasinhessnawi1/Annotate_Backend/internal/utils"
)

// ModerationReviewRepository stores verification records of cards
type ModerationReviewRepository interface {
	Create(ctx context.Context, review *models.ModerationReview) error
	ListByCard(ctx context.Context, cardID int64) ([]models.ModerationReview, error)
}

// MySQLModerationReviewRepository is a MySQL implementation of ModerationReviewRepository
type MySQLModerationReviewRepository struct {
	db *database.Pool
}

// NewModerationReviewRepository creates a new ModerationReviewRepository
func NewModerationReviewRepository(db *database.Pool) ModerationReviewRepository {
	return &MySQLModerationReviewRepository{db: db}
}

// Create stores review as the most recent review of its card. The previous
// most recent review loses the flag in the same transaction.
func (r *MySQLModerationReviewRepository) Create(ctx context.Context, review *models.ModerationReview) error {
	now := time.Now().UTC()
	review.CreatedAt = now
	review.UpdatedAt = now
	review.MostRecent = true

	err := r.db.Transaction(ctx, func(tx *sql.Tx) error {
		startTime := time.Now()

		clearQuery := `
            UPDATE moderation_reviews SET most_recent = FALSE, updated_at = ?
            WHERE card_id = ? AND most_recent = TRUE
        `
		args := []interface{}{now, review.ModeratedItemID}

		_, err := tx.ExecContext(ctx, clearQuery, args...)

		utils.LogDBQuery(clearQuery, args, time.Since(startTime), err)

		if err != nil {
			return fmt.Errorf("failed to clear most recent review: %w", err)
		}

		startTime = time.Now()
		insert := `
            INSERT INTO moderation_reviews (card_id, moderator_id, status, text, most_recent, created_at, updated_at)
            VALUES (?, ?, ?, ?, TRUE, ?, ?)
        `
		args = []interface{}{
			review.ModeratedItemID,
			review.ModeratorID,
			utils.StringArg(review.Status),
			utils.StringArg(review.Text),
			now,
			now,
		}

		result, err := tx.ExecContext(ctx, insert, args...)

		utils.LogDBQuery(insert, args, time.Since(startTime), err)

		if err != nil {
			return fmt.Errorf("failed to create moderation review: %w", err)
		}

		id, err := result.LastInsertId()
		if err != nil {
			return fmt.Errorf("failed to get review ID: %w", err)
		}
		review.ID = id
		return nil
	})
	if err != nil {
		return err
	}

	log.Info().
		Int64("card_id", review.ModeratedItemID).
		Int64("moderator_id", review.ModeratorID).
		Bool("verified", review.IsVerified()).
		Msg("Card reviewed")

	return nil
}

// ListByCard returns the reviews of a card, newest first
func (r *MySQLModerationReviewRepository) ListByCard(ctx context.Context, cardID int64) ([]models.ModerationReview, error) {
	startTime := time.Now()

	query := `
        SELECT review_id, card_id, moderator_id, status, text, most_recent, created_at, updated_at
        FROM moderation_reviews
        WHERE card_id = ?
        ORDER BY created_at DESC, review_id DESC
    `

	rows, err := r.db.QueryContext(ctx, query, cardID)

	utils.LogDBQuery(query, []interface{}{cardID}, time.Since(startTime), err)

	if err != nil {
		return nil, fmt.Errorf("failed to list moderation reviews: %w", err)
	}
	defer rows.Close()

	reviews := []models.ModerationReview{}
	for rows.Next() {
		var (
			review models.ModerationReview
			status sql.NullString
			text   sql.NullString
		)
		if err := rows.Scan(
			&review.ID,
			&review.ModeratedItemID,
			&review.ModeratorID,
			&status,
			&text,
			&review.MostRecent,
			&review.CreatedAt,
			&review.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan moderation review row: %w", err)
		}
		review.ModeratedItemType = "card"
		review.Status = utils.NullStringPtr(status)
		review.Text = utils.NullStringPtr(text)
		reviews = append(reviews, review)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating moderation review rows: %w", err)
	}

	return reviews, nil
}
