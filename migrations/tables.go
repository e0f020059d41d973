package migrations

import (
	"context"
	"database/sql"

	"github.com/yasinhessnawi1/Annotate_Backend/internal/constants"
)

const tableOptions = ` ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci`

// tableMigration builds the migration that creates table with ddl.
func tableMigration(table, ddl string) Migration {
	return Migration{
		Name:        "create_" + table + "_table",
		Description: "Creates the " + table + " table",
		TableName:   table,
		RunSQL: func(ctx context.Context, tx *sql.Tx) error {
			_, err := tx.ExecContext(ctx, ddl+tableOptions)
			return err
		},
	}
}

// createUsersTable creates the users table
func createUsersTable() Migration {
	return tableMigration(constants.TableUsers, `
		CREATE TABLE IF NOT EXISTS users (
			user_id BIGINT NOT NULL AUTO_INCREMENT PRIMARY KEY,
			email VARCHAR(254) NOT NULL,
			first_name VARCHAR(254) NULL,
			last_name VARCHAR(254) NULL,
			role VARCHAR(20) NOT NULL DEFAULT 'readonly',
			last_login DATETIME(6) NULL,
			created_at DATETIME(6) NOT NULL,
			updated_at DATETIME(6) NOT NULL,
			UNIQUE KEY idx_users_email (email)
		)`)
}

// createCollectionsTable creates the collections table. The root collection
// is implicit and has no row.
func createCollectionsTable() Migration {
	return tableMigration(constants.TableCollections, `
		CREATE TABLE IF NOT EXISTS collections (
			collection_id BIGINT NOT NULL AUTO_INCREMENT PRIMARY KEY,
			name VARCHAR(254) NOT NULL,
			description TEXT NULL,
			personal_owner_id BIGINT NULL,
			archived BOOLEAN NOT NULL DEFAULT FALSE,
			created_at DATETIME(6) NOT NULL,
			updated_at DATETIME(6) NOT NULL,
			UNIQUE KEY idx_collections_personal_owner (personal_owner_id),
			CONSTRAINT fk_collections_owner FOREIGN KEY (personal_owner_id) REFERENCES users(user_id) ON DELETE CASCADE
		)`)
}

// createCollectionPermissionsTable creates the collection_permissions table.
// A NULL collection_id grants access to the root collection.
func createCollectionPermissionsTable() Migration {
	return tableMigration(constants.TableCollectionPermissions, `
		CREATE TABLE IF NOT EXISTS collection_permissions (
			permission_id BIGINT NOT NULL AUTO_INCREMENT PRIMARY KEY,
			role VARCHAR(20) NOT NULL,
			collection_id BIGINT NULL,
			access_level VARCHAR(10) NOT NULL,
			KEY idx_permissions_role_collection (role, collection_id),
			CONSTRAINT fk_permissions_collection FOREIGN KEY (collection_id) REFERENCES collections(collection_id) ON DELETE CASCADE
		)`)
}

// createCardsTable creates the cards table
func createCardsTable() Migration {
	return tableMigration(constants.TableCards, `
		CREATE TABLE IF NOT EXISTS cards (
			card_id BIGINT NOT NULL AUTO_INCREMENT PRIMARY KEY,
			collection_id BIGINT NULL,
			name VARCHAR(254) NOT NULL,
			description TEXT NULL,
			display VARCHAR(254) NOT NULL,
			dataset_query LONGTEXT NOT NULL,
			visualization_settings LONGTEXT NOT NULL,
			result_metadata LONGTEXT NULL,
			dataset BOOLEAN NOT NULL DEFAULT FALSE,
			cache_ttl INT NULL,
			query_average_duration DOUBLE NULL,
			last_query_start DATETIME(6) NULL,
			archived BOOLEAN NOT NULL DEFAULT FALSE,
			creator_id BIGINT NULL,
			created_at DATETIME(6) NOT NULL,
			updated_at DATETIME(6) NOT NULL,
			KEY idx_cards_collection (collection_id, archived),
			CONSTRAINT fk_cards_collection FOREIGN KEY (collection_id) REFERENCES collections(collection_id) ON DELETE SET NULL,
			CONSTRAINT fk_cards_creator FOREIGN KEY (creator_id) REFERENCES users(user_id) ON DELETE SET NULL
		)`)
}

// createModerationReviewsTable creates the moderation_reviews table
func createModerationReviewsTable() Migration {
	return tableMigration(constants.TableModerationReviews, `
		CREATE TABLE IF NOT EXISTS moderation_reviews (
			review_id BIGINT NOT NULL AUTO_INCREMENT PRIMARY KEY,
			card_id BIGINT NOT NULL,
			moderator_id BIGINT NOT NULL,
			status VARCHAR(32) NULL,
			text TEXT NULL,
			most_recent BOOLEAN NOT NULL DEFAULT FALSE,
			created_at DATETIME(6) NOT NULL,
			updated_at DATETIME(6) NOT NULL,
			KEY idx_reviews_card (card_id, most_recent),
			CONSTRAINT fk_reviews_card FOREIGN KEY (card_id) REFERENCES cards(card_id) ON DELETE CASCADE,
			CONSTRAINT fk_reviews_moderator FOREIGN KEY (moderator_id) REFERENCES users(user_id) ON DELETE CASCADE
		)`)
}

// createDataTablesTable creates the data_tables table. Ids come from the
// warehouse metadata sync and are not generated here.
func createDataTablesTable() Migration {
	return tableMigration(constants.TableDataTables, `
		CREATE TABLE IF NOT EXISTS data_tables (
			table_id BIGINT NOT NULL PRIMARY KEY,
			name VARCHAR(254) NOT NULL,
			display_name VARCHAR(254) NOT NULL,
			schema_name VARCHAR(254) NULL,
			description TEXT NULL,
			field_count INT NOT NULL DEFAULT 0,
			updated_at DATETIME(6) NOT NULL
		)`)
}

// createTimelinesTable creates the timelines table
func createTimelinesTable() Migration {
	return tableMigration(constants.TableTimelines, `
		CREATE TABLE IF NOT EXISTS timelines (
			timeline_id BIGINT NOT NULL AUTO_INCREMENT PRIMARY KEY,
			collection_id BIGINT NULL,
			name VARCHAR(255) NOT NULL,
			description TEXT NULL,
			icon VARCHAR(32) NOT NULL,
			is_default BOOLEAN NOT NULL DEFAULT FALSE,
			archived BOOLEAN NOT NULL DEFAULT FALSE,
			creator_id BIGINT NOT NULL,
			created_at DATETIME(6) NOT NULL,
			updated_at DATETIME(6) NOT NULL,
			KEY idx_timelines_collection (collection_id, archived),
			CONSTRAINT fk_timelines_collection FOREIGN KEY (collection_id) REFERENCES collections(collection_id) ON DELETE CASCADE,
			CONSTRAINT fk_timelines_creator FOREIGN KEY (creator_id) REFERENCES users(user_id)
		)`)
}

// createTimelineEventsTable creates the timeline_events table
func createTimelineEventsTable() Migration {
	return tableMigration(constants.TableTimelineEvents, `
		CREATE TABLE IF NOT EXISTS timeline_events (
			event_id BIGINT NOT NULL AUTO_INCREMENT PRIMARY KEY,
			timeline_id BIGINT NOT NULL,
			name VARCHAR(255) NOT NULL,
			description TEXT NULL,
			event_timestamp DATETIME(6) NOT NULL,
			time_matters BOOLEAN NOT NULL DEFAULT FALSE,
			timezone VARCHAR(64) NOT NULL,
			icon VARCHAR(32) NOT NULL,
			archived BOOLEAN NOT NULL DEFAULT FALSE,
			creator_id BIGINT NOT NULL,
			created_at DATETIME(6) NOT NULL,
			updated_at DATETIME(6) NOT NULL,
			KEY idx_events_timeline (timeline_id, archived, event_timestamp),
			CONSTRAINT fk_events_timeline FOREIGN KEY (timeline_id) REFERENCES timelines(timeline_id) ON DELETE CASCADE,
			CONSTRAINT fk_events_creator FOREIGN KEY (creator_id) REFERENCES users(user_id)
		)`)
}
