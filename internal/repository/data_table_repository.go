package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/yasinhessnawi1/Annotate_Backend/internal/database"
	"github.com/yasinhessnawi1/Annotate_Backend/internal/models"
	"github.com/yasinhessnawi1/Annotate_Backend/internal/utils"
)

// DataTableRepository reads warehouse table metadata
type DataTableRepository interface {
	GetByID(ctx context.Context, id int64) (*models.DataTable, error)
	Save(ctx context.Context, table *models.DataTable) error
}

// MySQLDataTableRepository is a MySQL implementation of DataTableRepository
type MySQLDataTableRepository struct {
	db *database.Pool
}

// NewDataTableRepository creates a new DataTableRepository
func NewDataTableRepository(db *database.Pool) DataTableRepository {
	return &MySQLDataTableRepository{db: db}
}

// GetByID retrieves table metadata by ID
func (r *MySQLDataTableRepository) GetByID(ctx context.Context, id int64) (*models.DataTable, error) {
	startTime := time.Now()

	query := `
        SELECT table_id, name, display_name, schema_name, description, field_count, updated_at
        FROM data_tables
        WHERE table_id = ?
    `

	var (
		table       models.DataTable
		schemaName  sql.NullString
		description sql.NullString
	)
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&table.ID,
		&table.Name,
		&table.DisplayName,
		&schemaName,
		&description,
		&table.FieldCount,
		&table.UpdatedAt,
	)

	utils.LogDBQuery(query, []interface{}{id}, time.Since(startTime), err)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, utils.NewNotFoundError("Table", id)
		}
		return nil, fmt.Errorf("failed to get table: %w", err)
	}

	table.SchemaName = utils.NullStringPtr(schemaName)
	table.Description = utils.NullStringPtr(description)
	return &table, nil
}

// Save inserts or replaces the metadata of a table. A zero ID lets the
// database assign one.
func (r *MySQLDataTableRepository) Save(ctx context.Context, table *models.DataTable) error {
	startTime := time.Now()

	table.UpdatedAt = time.Now().UTC()

	query := `
        INSERT INTO data_tables (table_id, name, display_name, schema_name, description, field_count, updated_at)
        VALUES (NULLIF(?, 0), ?, ?, ?, ?, ?, ?)
        ON DUPLICATE KEY UPDATE
            name = VALUES(name),
            display_name = VALUES(display_name),
            schema_name = VALUES(schema_name),
            description = VALUES(description),
            field_count = VALUES(field_count),
            updated_at = VALUES(updated_at)
    `
	args := []interface{}{
		table.ID,
		table.Name,
		table.DisplayName,
		utils.StringArg(table.SchemaName),
		utils.StringArg(table.Description),
		table.FieldCount,
		table.UpdatedAt,
	}

	result, err := r.db.ExecContext(ctx, query, args...)

	utils.LogDBQuery(query, args, time.Since(startTime), err)

	if err != nil {
		return fmt.Errorf("failed to save table: %w", err)
	}

	if table.ID == 0 {
		id, err := result.LastInsertId()
		if err != nil {
			return fmt.Errorf("failed to get table ID: %w", err)
		}
		table.ID = id
	}

	return nil
}
