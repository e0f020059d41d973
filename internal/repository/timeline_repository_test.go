package repository_test

import (
	"context"
	"errors"
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

var timelineRowColumns = []string{"timeline_id", "collection_id", "name", "description", "icon", "is_default", "archived", "creator_id", "created_at", "updated_at"}

func setupTimelineRepositoryTest(t *testing.T) (repository.TimelineRepository, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return repository.NewTimelineRepository(&database.Pool{DB: db}), mock
}

func TestTimelineRepository_Create(t *testing.T) {
	repo, mock := setupTimelineRepositoryTest(t)

	timeline := &models.Timeline{Name: "Our analytics events", Icon: "star", Default: true, CreatorID: 1}

	mock.ExpectExec("INSERT INTO timelines").
		WithArgs(nil, "Our analytics events", nil, "star", true, false, 1, sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(3, 1))

	require.NoError(t, repo.Create(context.Background(), timeline))

	assert.Equal(t, int64(3), timeline.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTimelineRepository_GetByID(t *testing.T) {
	repo, mock := setupTimelineRepositoryTest(t)

	now := time.Now().UTC()
	mock.ExpectQuery("SELECT (.+) FROM timelines WHERE timeline_id = ?").
		WithArgs(3).
		WillReturnRows(sqlmock.NewRows(timelineRowColumns).
			AddRow(3, 8, "Releases", "Product releases", "balloons", false, false, 1, now, now))

	timeline, err := repo.GetByID(context.Background(), 3)

	require.NoError(t, err)
	assert.Equal(t, int64(8), *timeline.CollectionID)
	assert.Equal(t, "Product releases", *timeline.Description)
	assert.Equal(t, "balloons", timeline.Icon)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTimelineRepository_GetByID_NotFound(t *testing.T) {
	repo, mock := setupTimelineRepositoryTest(t)

	mock.ExpectQuery("SELECT (.+) FROM timelines").
		WithArgs(4).
		WillReturnRows(sqlmock.NewRows(timelineRowColumns))

	_, err := repo.GetByID(context.Background(), 4)
	assert.True(t, utils.IsNotFoundError(err))
}

func TestTimelineRepository_Update(t *testing.T) {
	repo, mock := setupTimelineRepositoryTest(t)

	mock.ExpectExec("UPDATE timelines").
		WithArgs("Launches", nil, "star", true, sqlmock.AnyArg(), 3).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Update(context.Background(), &models.Timeline{ID: 3, Name: "Launches", Icon: "star", Archived: true})

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTimelineRepository_ListByCollection(t *testing.T) {
	t.Run("active only", func(t *testing.T) {
		repo, mock := setupTimelineRepositoryTest(t)

		now := time.Now().UTC()
		mock.ExpectQuery("SELECT (.+) FROM timelines WHERE collection_id <=> \\? AND archived = FALSE ORDER BY is_default DESC").
			WithArgs(nil).
			WillReturnRows(sqlmock.NewRows(timelineRowColumns).
				AddRow(1, nil, "Our analytics events", nil, "star", true, false, 1, now, now))

		timelines, err := repo.ListByCollection(context.Background(), nil, false)

		require.NoError(t, err)
		require.Len(t, timelines, 1)
		assert.Nil(t, timelines[0].CollectionID)
		assert.True(t, timelines[0].Default)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("including archived", func(t *testing.T) {
		repo, mock := setupTimelineRepositoryTest(t)

		mock.ExpectQuery("SELECT (.+) FROM timelines WHERE collection_id <=> \\? ORDER BY").
			WithArgs(5).
			WillReturnRows(sqlmock.NewRows(timelineRowColumns))

		timelines, err := repo.ListByCollection(context.Background(), int64Ptr(5), true)

		require.NoError(t, err)
		assert.Empty(t, timelines)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("database error", func(t *testing.T) {
		repo, mock := setupTimelineRepositoryTest(t)

		mock.ExpectQuery("SELECT (.+) FROM timelines").WillReturnError(errors.New("gone"))

		_, err := repo.ListByCollection(context.Background(), nil, false)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to list timelines")
	})
}
