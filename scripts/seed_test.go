package scripts

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yasinhessnawi1/Annotate_Backend/internal/constants"
	"github.com/yasinhessnawi1/Annotate_Backend/internal/database"
)

// createMockDB creates a mock database for testing
func createMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	return db, mock, func() { db.Close() }
}

// createMockDBAndTx creates a mock database and transaction for testing
func createMockDBAndTx(t *testing.T) (*sql.Tx, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	mock.ExpectBegin()
	tx, err := db.Begin()
	require.NoError(t, err)

	return tx, mock, func() {
		_ = tx.Rollback()
		db.Close()
	}
}

const rootGrantsQuery = "SELECT role FROM collection_permissions WHERE collection_id IS NULL"

func TestNewSeeder(t *testing.T) {
	db, _, cleanup := createMockDB(t)
	defer cleanup()

	pool := &database.Pool{DB: db}
	seeder := NewSeeder(pool)

	assert.NotNil(t, seeder)
	assert.Equal(t, pool, seeder.db)
}

func TestSeedRootPermissions(t *testing.T) {
	t.Run("Fresh database", func(t *testing.T) {
		tx, mock, cleanup := createMockDBAndTx(t)
		defer cleanup()

		mock.ExpectQuery(rootGrantsQuery).WillReturnRows(sqlmock.NewRows([]string{"role"}))
		mock.ExpectExec("INSERT INTO collection_permissions").
			WithArgs(constants.RoleAdmin, constants.AccessWrite).
			WillReturnResult(sqlmock.NewResult(1, 1))
		mock.ExpectExec("INSERT INTO collection_permissions").
			WithArgs(constants.RoleEditor, constants.AccessWrite).
			WillReturnResult(sqlmock.NewResult(2, 1))
		mock.ExpectExec("INSERT INTO collection_permissions").
			WithArgs(constants.RoleReadonly, constants.AccessRead).
			WillReturnResult(sqlmock.NewResult(3, 1))

		seeder := &Seeder{}
		require.NoError(t, seeder.seedRootPermissions(context.Background(), tx))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Existing grants are kept", func(t *testing.T) {
		tx, mock, cleanup := createMockDBAndTx(t)
		defer cleanup()

		mock.ExpectQuery(rootGrantsQuery).WillReturnRows(
			sqlmock.NewRows([]string{"role"}).AddRow(constants.RoleAdmin).AddRow(constants.RoleReadonly))
		mock.ExpectExec("INSERT INTO collection_permissions").
			WithArgs(constants.RoleEditor, constants.AccessWrite).
			WillReturnResult(sqlmock.NewResult(4, 1))

		seeder := &Seeder{}
		require.NoError(t, seeder.seedRootPermissions(context.Background(), tx))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Insert fails", func(t *testing.T) {
		tx, mock, cleanup := createMockDBAndTx(t)
		defer cleanup()

		mock.ExpectQuery(rootGrantsQuery).WillReturnRows(sqlmock.NewRows([]string{"role"}))
		mock.ExpectExec("INSERT INTO collection_permissions").
			WillReturnError(errors.New("table is read only"))

		seeder := &Seeder{}
		assert.Error(t, seeder.seedRootPermissions(context.Background(), tx))
	})
}

func TestSeedDatabase(t *testing.T) {
	t.Run("Runs pending seeds", func(t *testing.T) {
		db, mock, cleanup := createMockDB(t)
		defer cleanup()

		mock.ExpectExec("CREATE TABLE IF NOT EXISTS seeds").WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectQuery("SELECT name FROM seeds").WillReturnRows(sqlmock.NewRows([]string{"name"}))
		mock.ExpectBegin()
		mock.ExpectQuery(rootGrantsQuery).WillReturnRows(
			sqlmock.NewRows([]string{"role"}).
				AddRow(constants.RoleAdmin).AddRow(constants.RoleEditor).AddRow(constants.RoleReadonly))
		mock.ExpectExec("INSERT INTO seeds").WithArgs("root_collection_permissions").
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		seeder := NewSeeder(&database.Pool{DB: db})
		require.NoError(t, seeder.SeedDatabase(context.Background()))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Skips executed seeds", func(t *testing.T) {
		db, mock, cleanup := createMockDB(t)
		defer cleanup()

		mock.ExpectExec("CREATE TABLE IF NOT EXISTS seeds").WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectQuery("SELECT name FROM seeds").
			WillReturnRows(sqlmock.NewRows([]string{"name"}).AddRow("root_collection_permissions"))

		seeder := NewSeeder(&database.Pool{DB: db})
		require.NoError(t, seeder.SeedDatabase(context.Background()))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Seed failure rolls back", func(t *testing.T) {
		db, mock, cleanup := createMockDB(t)
		defer cleanup()

		mock.ExpectExec("CREATE TABLE IF NOT EXISTS seeds").WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectQuery("SELECT name FROM seeds").WillReturnRows(sqlmock.NewRows([]string{"name"}))
		mock.ExpectBegin()
		mock.ExpectQuery(rootGrantsQuery).WillReturnError(errors.New("no such table"))
		mock.ExpectRollback()

		seeder := NewSeeder(&database.Pool{DB: db})
		assert.Error(t, seeder.SeedDatabase(context.Background()))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Seeds table cannot be created", func(t *testing.T) {
		db, mock, cleanup := createMockDB(t)
		defer cleanup()

		mock.ExpectExec("CREATE TABLE IF NOT EXISTS seeds").WillReturnError(errors.New("access denied"))

		seeder := NewSeeder(&database.Pool{DB: db})
		assert.Error(t, seeder.SeedDatabase(context.Background()))
	})
}
