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

// CollectionRepository defines methods for collections and their role
// permissions. The root collection has no row; permissions on it are stored
// with a NULL collection_id.
type CollectionRepository interface {
	Create(ctx context.Context, collection *models.Collection) error
	GetByID(ctx context.Context, id int64) (*models.Collection, error)
	List(ctx context.Context) ([]*models.Collection, error)
	GetAccessLevel(ctx context.Context, role string, collectionID *int64) (string, error)
	SetAccessLevel(ctx context.Context, perm *models.CollectionPermission) error
}

// MySQLCollectionRepository is a MySQL implementation of CollectionRepository
type MySQLCollectionRepository struct {
	db *database.Pool
}

// NewCollectionRepository creates a new CollectionRepository
func NewCollectionRepository(db *database.Pool) CollectionRepository {
	return &MySQLCollectionRepository{db: db}
}

const collectionColumns = `collection_id, name, description, personal_owner_id, archived, created_at, updated_at`

func scanCollection(row interface{ Scan(...interface{}) error }) (*models.Collection, error) {
	var (
		c           models.Collection
		id          int64
		description sql.NullString
		ownerID     sql.NullInt64
	)
	if err := row.Scan(&id, &c.Name, &description, &ownerID, &c.Archived, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, err
	}
	c.ID = &id
	c.Description = utils.NullStringPtr(description)
	c.PersonalOwnerID = utils.NullInt64Ptr(ownerID)
	return &c, nil
}

// Create adds a new collection
func (r *MySQLCollectionRepository) Create(ctx context.Context, collection *models.Collection) error {
	startTime := time.Now()

	now := time.Now().UTC()
	collection.CreatedAt = now
	collection.UpdatedAt = now

	query := `
        INSERT INTO collections (name, description, personal_owner_id, archived, created_at, updated_at)
        VALUES (?, ?, ?, ?, ?, ?)
    `
	args := []interface{}{
		collection.Name,
		utils.StringArg(collection.Description),
		utils.Int64Arg(collection.PersonalOwnerID),
		collection.Archived,
		now,
		now,
	}

	result, err := r.db.ExecContext(ctx, query, args...)

	utils.LogDBQuery(query, args, time.Since(startTime), err)

	if err != nil {
		return fmt.Errorf("failed to create collection: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get collection ID: %w", err)
	}
	collection.ID = &id

	log.Info().Int64("collection_id", id).Str("name", collection.Name).Msg("Collection created")

	return nil
}

// GetByID retrieves a stored collection
func (r *MySQLCollectionRepository) GetByID(ctx context.Context, id int64) (*models.Collection, error) {
	startTime := time.Now()

	query := `SELECT ` + collectionColumns + ` FROM collections WHERE collection_id = ?`

	collection, err := scanCollection(r.db.QueryRowContext(ctx, query, id))

	utils.LogDBQuery(query, []interface{}{id}, time.Since(startTime), err)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, utils.NewNotFoundError("Collection", id)
		}
		return nil, fmt.Errorf("failed to get collection: %w", err)
	}

	return collection, nil
}

// List returns every stored collection ordered by name
func (r *MySQLCollectionRepository) List(ctx context.Context) ([]*models.Collection, error) {
	startTime := time.Now()

	query := `SELECT ` + collectionColumns + ` FROM collections ORDER BY name, collection_id`

	rows, err := r.db.QueryContext(ctx, query)

	utils.LogDBQuery(query, nil, time.Since(startTime), err)

	if err != nil {
		return nil, fmt.Errorf("failed to list collections: %w", err)
	}
	defer rows.Close()

	var collections []*models.Collection
	for rows.Next() {
		c, err := scanCollection(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan collection row: %w", err)
		}
		collections = append(collections, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating collection rows: %w", err)
	}

	return collections, nil
}

// GetAccessLevel returns the access level granted to role on a collection.
// A missing grant is reported as NotFound.
func (r *MySQLCollectionRepository) GetAccessLevel(ctx context.Context, role string, collectionID *int64) (string, error) {
	startTime := time.Now()

	query := `
        SELECT access_level FROM collection_permissions
        WHERE role = ? AND collection_id <=> ?
    `
	args := []interface{}{role, utils.Int64Arg(collectionID)}

	var level string
	err := r.db.QueryRowContext(ctx, query, args...).Scan(&level)

	utils.LogDBQuery(query, args, time.Since(startTime), err)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", utils.NewNotFoundError("CollectionPermission", fmt.Sprintf("role=%s", role))
		}
		return "", fmt.Errorf("failed to get collection permission: %w", err)
	}

	return level, nil
}

// SetAccessLevel grants role an access level on a collection, replacing any
// previous grant.
func (r *MySQLCollectionRepository) SetAccessLevel(ctx context.Context, perm *models.CollectionPermission) error {
	return r.db.Transaction(ctx, func(tx *sql.Tx) error {
		startTime := time.Now()

		update := `
            UPDATE collection_permissions SET access_level = ?
            WHERE role = ? AND collection_id <=> ?
        `
		args := []interface{}{perm.AccessLevel, perm.Role, utils.Int64Arg(perm.CollectionID)}

		result, err := tx.ExecContext(ctx, update, args...)

		utils.LogDBQuery(update, args, time.Since(startTime), err)

		if err != nil {
			return fmt.Errorf("failed to update collection permission: %w", err)
		}

		rowsAffected, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to get rows affected: %w", err)
		}
		if rowsAffected > 0 {
			return nil
		}

		startTime = time.Now()
		insert := `
            INSERT INTO collection_permissions (role, collection_id, access_level)
            VALUES (?, ?, ?)
        `
		args = []interface{}{perm.Role, utils.Int64Arg(perm.CollectionID), perm.AccessLevel}

		result, err = tx.ExecContext(ctx, insert, args...)

		utils.LogDBQuery(insert, args, time.Since(startTime), err)

		if err != nil {
			return fmt.Errorf("failed to insert collection permission: %w", err)
		}

		id, err := result.LastInsertId()
		if err != nil {
			return fmt.Errorf("failed to get permission ID: %w", err)
		}
		perm.ID = id

		return nil
	})
}
