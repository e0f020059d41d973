package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yasinhessnawi1/Annotate_Backend/internal/database"
	"github.com/yasinhessnawi1/Annotate_Backend/internal/models"
	"github.com/yasinhessnawi1/Annotate_Backend/internal/repository"
	"github.com/yasinhessnawi1/Annotate_Backend/internal/utils"
)

var eventRowColumns = []string{"event_id", "timeline_id", "name", "description", "event_timestamp", "time_matters", "timezone", "icon", "archived", "creator_id", "created_at", "updated_at"}

func setupTimelineEventRepositoryTest(t *testing.T) (repository.TimelineEventRepository, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return repository.NewTimelineEventRepository(&database.Pool{DB: db}), mock
}

func TestTimelineEventRepository_Create(t *testing.T) {
	repo, mock := setupTimelineEventRepositoryTest(t)

	ts := time.Date(2022, 10, 12, 0, 0, 0, 0, time.UTC)
	event := &models.TimelineEvent{
		TimelineID: 3,
		Name:       "RC1",
		Timestamp:  ts,
		Timezone:   "UTC",
		Icon:       "star",
		CreatorID:  1,
	}

	mock.ExpectExec("INSERT INTO timeline_events").
		WithArgs(3, "RC1", nil, ts, false, "UTC", "star", false, 1, sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(40, 1))

	require.NoError(t, repo.Create(context.Background(), event))

	assert.Equal(t, int64(40), event.ID)
	assert.Equal(t, models.EventActive, event.State())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTimelineEventRepository_GetByID(t *testing.T) {
	repo, mock := setupTimelineEventRepositoryTest(t)

	now := time.Now().UTC()
	mock.ExpectQuery("SELECT (.+) FROM timeline_events WHERE event_id = ?").
		WithArgs(40).
		WillReturnRows(sqlmock.NewRows(eventRowColumns).
			AddRow(40, 3, "RC1", "First *candidate*", now, true, "Europe/Oslo", "cloud", true, 1, now, now))

	event, err := repo.GetByID(context.Background(), 40)

	require.NoError(t, err)
	assert.Equal(t, "First *candidate*", *event.Description)
	assert.True(t, event.TimeMatters)
	assert.Equal(t, models.EventArchived, event.State())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTimelineEventRepository_GetByID_NotFound(t *testing.T) {
	repo, mock := setupTimelineEventRepositoryTest(t)

	mock.ExpectQuery("SELECT (.+) FROM timeline_events").
		WithArgs(41).
		WillReturnRows(sqlmock.NewRows(eventRowColumns))

	_, err := repo.GetByID(context.Background(), 41)
	assert.True(t, utils.IsNotFoundError(err))
}

func TestTimelineEventRepository_Update(t *testing.T) {
	t.Run("updated", func(t *testing.T) {
		repo, mock := setupTimelineEventRepositoryTest(t)

		ts := time.Date(2022, 10, 30, 0, 0, 0, 0, time.UTC)
		mock.ExpectExec("UPDATE timeline_events").
			WithArgs(3, "RC2", "notes", ts, false, "UTC", "star", false, sqlmock.AnyArg(), 40).
			WillReturnResult(sqlmock.NewResult(0, 1))

		event := &models.TimelineEvent{ID: 40, TimelineID: 3, Name: "RC2", Description: strPtr("notes"), Timestamp: ts, Timezone: "UTC", Icon: "star"}
		assert.NoError(t, repo.Update(context.Background(), event))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing event", func(t *testing.T) {
		repo, mock := setupTimelineEventRepositoryTest(t)

		mock.ExpectExec("UPDATE timeline_events").WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.Update(context.Background(), &models.TimelineEvent{ID: 40})
		assert.True(t, utils.IsNotFoundError(err))
	})
}

func TestTimelineEventRepository_ListByTimelines(t *testing.T) {
	t.Run("calendar threshold", func(t *testing.T) {
		repo, mock := setupTimelineEventRepositoryTest(t)

		start := time.Date(2022, 1, 1, 0, 0, 0, 0, time.UTC)
		now := time.Now().UTC()
		mock.ExpectQuery("SELECT (.+) FROM timeline_events WHERE timeline_id IN \\(\\?, \\?\\) AND archived = \\? AND event_timestamp >= \\? ORDER BY event_timestamp").
			WithArgs(1, 2, false, start).
			WillReturnRows(sqlmock.NewRows(eventRowColumns).
				AddRow(5, 1, "Launch", nil, start, false, "UTC", "star", false, 1, now, now))

		events, err := repo.ListByTimelines(context.Background(), []int64{1, 2}, repository.EventFilter{Start: &start})

		require.NoError(t, err)
		require.Len(t, events, 1)
		assert.Nil(t, events[0].Description)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("archived without threshold", func(t *testing.T) {
		repo, mock := setupTimelineEventRepositoryTest(t)

		mock.ExpectQuery("SELECT (.+) FROM timeline_events WHERE timeline_id IN \\(\\?\\) AND archived = \\? ORDER BY").
			WithArgs(1, true).
			WillReturnRows(sqlmock.NewRows(eventRowColumns))

		events, err := repo.ListByTimelines(context.Background(), []int64{1}, repository.EventFilter{Archived: true})

		require.NoError(t, err)
		assert.Empty(t, events)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("no timelines", func(t *testing.T) {
		repo, mock := setupTimelineEventRepositoryTest(t)

		events, err := repo.ListByTimelines(context.Background(), nil, repository.EventFilter{})

		require.NoError(t, err)
		assert.Empty(t, events)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
