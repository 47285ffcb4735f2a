package repository_test

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/Gambit142/Community-Connect-sub000/models"
	"github.com/Gambit142/Community-Connect-sub000/repository"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestEventFindByID_Success(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	repo := repository.NewGormEventRepo(gormDB)

	id := uuid.New()
	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "creator_id", "title", "price", "status", "created_at", "updated_at"}).
		AddRow(id, uuid.New(), "Community Picnic", int64(0), models.EventStatusPublished, now, now)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "events"`)).
		WithArgs(id, 1).
		WillReturnRows(rows)

	e, err := repo.FindByID(context.Background(), id)
	assert.NoError(t, err)
	assert.Equal(t, "Community Picnic", e.Title)
	assert.True(t, e.FreeEntry())
	assert.True(t, e.Bookable())
}

func TestEventFindByID_NotFound(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	repo := repository.NewGormEventRepo(gormDB)

	id := uuid.New()
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "events"`)).
		WithArgs(id, 1).
		WillReturnRows(sqlmock.NewRows([]string{}))

	e, err := repo.FindByID(context.Background(), id)
	assert.ErrorIs(t, err, repository.ErrNotFound)
	assert.Nil(t, e)
}

func TestIsAttendee(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	repo := repository.NewGormEventRepo(gormDB)

	eventID, userID := uuid.New(), uuid.New()
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT count(*) FROM "event_attendees"`)).
		WithArgs(eventID, userID).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	attending, err := repo.IsAttendee(context.Background(), eventID, userID)
	assert.NoError(t, err)
	assert.True(t, attending)
}

func TestAddAttendee_Inserted(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	repo := repository.NewGormEventRepo(gormDB)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO "event_attendees"`)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	added, err := repo.AddAttendee(context.Background(), uuid.New(), uuid.New())
	assert.NoError(t, err)
	assert.True(t, added)
}

func TestAddAttendee_AlreadyPresent(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	repo := repository.NewGormEventRepo(gormDB)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO "event_attendees"`)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	added, err := repo.AddAttendee(context.Background(), uuid.New(), uuid.New())
	assert.NoError(t, err)
	assert.False(t, added)
}

func TestCountAttendees(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	repo := repository.NewGormEventRepo(gormDB)

	eventID := uuid.New()
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT count(*) FROM "event_attendees"`)).
		WithArgs(eventID).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(12))

	count, err := repo.CountAttendees(context.Background(), eventID)
	assert.NoError(t, err)
	assert.Equal(t, int64(12), count)
}
