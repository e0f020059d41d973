package migrations_test

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yasinhessnawi1/Annotate_Backend/internal/database"
	"github.com/yasinhessnawi1/Annotate_Backend/migrations"
)

const (
	createMigrationsTable = "CREATE TABLE IF NOT EXISTS migrations"
	selectExecuted        = "SELECT name FROM migrations"
	tableExistsQuery      = "SELECT COUNT\\(\\*\\)\\s+FROM information_schema.tables"
	insertMigration       = "INSERT INTO migrations"
)

func newMigrator(t *testing.T) (*migrations.Migrator, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	return migrations.NewMigrator(&database.Pool{DB: db}), mock, func() { db.Close() }
}

func executedRows(skip string) *sqlmock.Rows {
	rows := sqlmock.NewRows([]string{"name"})
	for _, m := range migrations.GetMigrations() {
		if m.Name != skip {
			rows.AddRow(m.Name)
		}
	}
	return rows
}

func TestGetMigrations(t *testing.T) {
	all := migrations.GetMigrations()
	require.Len(t, all, 8)

	seen := make(map[string]bool)
	for _, m := range all {
		assert.False(t, seen[m.Name], "duplicate migration %s", m.Name)
		seen[m.Name] = true
		assert.NotEmpty(t, m.TableName)
		assert.NotNil(t, m.RunSQL)
	}
	assert.True(t, seen["create_timelines_table"])
	assert.True(t, seen["create_timeline_events_table"])
}

func TestRunMigrations(t *testing.T) {
	tests := []struct {
		name    string
		setup   func(sqlmock.Sqlmock)
		wantErr bool
	}{
		{
			name: "Error - Create migrations table fails",
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(createMigrationsTable).
					WillReturnError(errors.New("access denied"))
			},
			wantErr: true,
		},
		{
			name: "Error - Get executed migrations fails",
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(createMigrationsTable).WillReturnResult(sqlmock.NewResult(0, 0))
				mock.ExpectQuery(selectExecuted).WillReturnError(errors.New("lost connection"))
			},
			wantErr: true,
		},
		{
			name: "Error - Table exists check fails",
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(createMigrationsTable).WillReturnResult(sqlmock.NewResult(0, 0))
				mock.ExpectQuery(selectExecuted).WillReturnRows(sqlmock.NewRows([]string{"name"}))
				mock.ExpectQuery(tableExistsQuery).WithArgs("users").
					WillReturnError(errors.New("lost connection"))
			},
			wantErr: true,
		},
		{
			name: "Success - Everything already executed",
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(createMigrationsTable).WillReturnResult(sqlmock.NewResult(0, 0))
				mock.ExpectQuery(selectExecuted).WillReturnRows(executedRows(""))
			},
		},
		{
			name: "Success - Existing table is only recorded",
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(createMigrationsTable).WillReturnResult(sqlmock.NewResult(0, 0))
				mock.ExpectQuery(selectExecuted).WillReturnRows(executedRows("create_data_tables_table"))
				mock.ExpectQuery(tableExistsQuery).WithArgs("data_tables").
					WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
				mock.ExpectExec(insertMigration).
					WithArgs("create_data_tables_table", "Creates the data_tables table").
					WillReturnResult(sqlmock.NewResult(0, 1))
			},
		},
		{
			name: "Success - Missing table is created",
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(createMigrationsTable).WillReturnResult(sqlmock.NewResult(0, 0))
				mock.ExpectQuery(selectExecuted).WillReturnRows(executedRows("create_timeline_events_table"))
				mock.ExpectQuery(tableExistsQuery).WithArgs("timeline_events").
					WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
				mock.ExpectBegin()
				mock.ExpectExec("CREATE TABLE IF NOT EXISTS timeline_events").
					WillReturnResult(sqlmock.NewResult(0, 0))
				mock.ExpectExec(insertMigration).
					WithArgs("create_timeline_events_table", "Creates the timeline_events table").
					WillReturnResult(sqlmock.NewResult(0, 1))
				mock.ExpectCommit()
			},
		},
		{
			name: "Error - Migration SQL fails and is rolled back",
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(createMigrationsTable).WillReturnResult(sqlmock.NewResult(0, 0))
				mock.ExpectQuery(selectExecuted).WillReturnRows(executedRows("create_timelines_table"))
				mock.ExpectQuery(tableExistsQuery).WithArgs("timelines").
					WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
				mock.ExpectBegin()
				mock.ExpectExec("CREATE TABLE IF NOT EXISTS timelines").
					WillReturnError(errors.New("syntax error"))
				mock.ExpectRollback()
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			migrator, mock, cleanup := newMigrator(t)
			defer cleanup()

			tt.setup(mock)

			err := migrator.RunMigrations(context.Background())
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}
