package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"recruiting-platform/internal/common/database"
	apperrors "recruiting-platform/internal/common/errors"
	"recruiting-platform/internal/common/logger"
	"recruiting-platform/internal/models"
)

func newMockStore(t *testing.T) (*ApplicationStore, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	client := &database.PostgresClient{DB: db}
	store := NewApplicationStore(client, logger.NewTestLogger(t))
	return store, mock, func() { db.Close() }
}

func TestApplicationStore_Create(t *testing.T) {
	store, mock, cleanup := newMockStore(t)
	defer cleanup()

	app := &models.Application{
		ID:          "app-123",
		JobID:       "job-456",
		CandidateID: "cand-789",
		Answers:     map[string]string{"Possui CNH?": "Sim"},
	}

	mock.ExpectExec(`INSERT INTO applications`).
		WithArgs(app.ID, app.JobID, app.CandidateID, "NEW", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	err := store.Create(context.Background(), app)
	assert.NoError(t, err)
	assert.Equal(t, models.StageNew, app.Stage)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestApplicationStore_Create_Duplicate(t *testing.T) {
	store, mock, cleanup := newMockStore(t)
	defer cleanup()

	app := &models.Application{ID: "app-123", JobID: "job-456", CandidateID: "cand-789"}

	mock.ExpectExec(`INSERT INTO applications`).
		WithArgs(app.ID, app.JobID, app.CandidateID, "NEW", sqlmock.AnyArg()).
		WillReturnError(&pq.Error{Code: "23505"})

	err := store.Create(context.Background(), app)
	require.Error(t, err)

	stdErr, ok := err.(*apperrors.StandardError)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrCodeDuplicateApplication, stdErr.Code)
	assert.False(t, stdErr.Retryable)
}

func TestApplicationStore_GetByID(t *testing.T) {
	store, mock, cleanup := newMockStore(t)
	defer cleanup()

	now := time.Now()
	rows := sqlmock.NewRows([]string{
		"id", "job_id", "candidate_id", "stage", "answers", "created_at", "updated_at",
		"full_name", "email", "title",
	}).AddRow("app-123", "job-456", "cand-789", "INTERVIEW", []byte(`{"Possui CNH?":"Sim"}`),
		now, now, "Maria Silva", "maria@example.com", "Desenvolvedor Go")

	mock.ExpectQuery(`SELECT a.id, a.job_id`).
		WithArgs("app-123").
		WillReturnRows(rows)

	app, err := store.GetByID(context.Background(), "app-123")
	require.NoError(t, err)
	assert.Equal(t, models.StageInterview, app.Stage)
	assert.Equal(t, "Maria Silva", app.CandidateName)
	assert.Equal(t, "Desenvolvedor Go", app.JobTitle)
	assert.Equal(t, "Sim", app.Answers["Possui CNH?"])
}

func TestApplicationStore_GetByID_NotFound(t *testing.T) {
	store, mock, cleanup := newMockStore(t)
	defer cleanup()

	mock.ExpectQuery(`SELECT a.id, a.job_id`).
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "job_id", "candidate_id", "stage", "answers", "created_at", "updated_at",
			"full_name", "email", "title",
		}))

	_, err := store.GetByID(context.Background(), "missing")
	require.Error(t, err)

	stdErr, ok := err.(*apperrors.StandardError)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrCodeApplicationNotFound, stdErr.Code)
}

func TestApplicationStore_UpdateStage(t *testing.T) {
	store, mock, cleanup := newMockStore(t)
	defer cleanup()

	mock.ExpectExec(`UPDATE applications SET stage`).
		WithArgs("HIRED", "app-123").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := store.UpdateStage(context.Background(), "app-123", models.StageHired)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestApplicationStore_UpdateStage_NotFound(t *testing.T) {
	store, mock, cleanup := newMockStore(t)
	defer cleanup()

	mock.ExpectExec(`UPDATE applications SET stage`).
		WithArgs("REJECTED", "missing").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := store.UpdateStage(context.Background(), "missing", models.StageRejected)
	require.Error(t, err)

	stdErr, ok := err.(*apperrors.StandardError)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrCodeApplicationNotFound, stdErr.Code)
}
