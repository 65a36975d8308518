// Package postgres implements the relational persistence layer.
package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	stderrors "errors"
	"fmt"

	"github.com/lib/pq"

	"recruiting-platform/internal/common/database"
	apperrors "recruiting-platform/internal/common/errors"
	"recruiting-platform/internal/common/logger"
	"recruiting-platform/internal/models"
)

const uniqueViolation = "23505"

// ApplicationStore persists job applications.
//
// Stage writes go through whatever client the store was constructed with.
// The pipeline service is handed a store backed by the service-role client
// so stage updates are not subject to per-candidate ownership checks.
type ApplicationStore struct {
	client *database.PostgresClient
	logger logger.Logger
}

// NewApplicationStore creates an application store on the given client.
func NewApplicationStore(client *database.PostgresClient, log logger.Logger) *ApplicationStore {
	return &ApplicationStore{client: client, logger: log}
}

// Create inserts a new application in stage NEW.
func (s *ApplicationStore) Create(ctx context.Context, app *models.Application) error {
	answersJSON, err := json.Marshal(app.Answers)
	if err != nil {
		return apperrors.NewQueryExecutionFailedError("marshal_answers", err)
	}

	query := `
		INSERT INTO applications (id, job_id, candidate_id, stage, answers, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, NOW(), NOW())`

	_, err = s.client.Exec(ctx, query, app.ID, app.JobID, app.CandidateID, string(models.StageNew), answersJSON)
	if err != nil {
		var pqErr *pq.Error
		if stderrors.As(err, &pqErr) && string(pqErr.Code) == uniqueViolation {
			return apperrors.NewDuplicateApplicationError(app.JobID, app.CandidateID)
		}
		return apperrors.NewQueryExecutionFailedError("insert_application", err)
	}

	app.Stage = models.StageNew
	s.logger.WithFields(map[string]interface{}{
		"applicationId": app.ID,
		"jobId":         app.JobID,
	}).Info("Application created")
	return nil
}

// GetByID loads a single application joined with candidate and job context.
func (s *ApplicationStore) GetByID(ctx context.Context, id string) (*models.Application, error) {
	query := `
		SELECT a.id, a.job_id, a.candidate_id, a.stage, a.answers, a.created_at, a.updated_at,
		       p.full_name, p.email, j.title
		FROM applications a
		JOIN profiles p ON p.id = a.candidate_id
		JOIN jobs j ON j.id = a.job_id
		WHERE a.id = $1`

	row := s.client.QueryRow(ctx, query, id)
	app, err := scanApplication(row)
	if err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NewApplicationNotFoundError(id)
		}
		return nil, apperrors.NewQueryExecutionFailedError("get_application", err)
	}
	return app, nil
}

// ListByJob returns all applications for a job, newest first.
func (s *ApplicationStore) ListByJob(ctx context.Context, jobID string) ([]*models.Application, error) {
	query := `
		SELECT a.id, a.job_id, a.candidate_id, a.stage, a.answers, a.created_at, a.updated_at,
		       p.full_name, p.email, j.title
		FROM applications a
		JOIN profiles p ON p.id = a.candidate_id
		JOIN jobs j ON j.id = a.job_id
		WHERE a.job_id = $1
		ORDER BY a.created_at DESC`

	rows, err := s.client.Query(ctx, query, jobID)
	if err != nil {
		return nil, apperrors.NewQueryExecutionFailedError("list_applications_by_job", err)
	}
	defer rows.Close()

	return collectApplications(rows)
}

// ListByCandidate returns a candidate's applications, newest first.
func (s *ApplicationStore) ListByCandidate(ctx context.Context, candidateID string) ([]*models.Application, error) {
	query := `
		SELECT a.id, a.job_id, a.candidate_id, a.stage, a.answers, a.created_at, a.updated_at,
		       p.full_name, p.email, j.title
		FROM applications a
		JOIN profiles p ON p.id = a.candidate_id
		JOIN jobs j ON j.id = a.job_id
		WHERE a.candidate_id = $1
		ORDER BY a.created_at DESC`

	rows, err := s.client.Query(ctx, query, candidateID)
	if err != nil {
		return nil, apperrors.NewQueryExecutionFailedError("list_applications_by_candidate", err)
	}
	defer rows.Close()

	return collectApplications(rows)
}

// UpdateStage durably moves an application to a new stage.
func (s *ApplicationStore) UpdateStage(ctx context.Context, id string, stage models.Stage) error {
	query := `UPDATE applications SET stage = $1, updated_at = NOW() WHERE id = $2`

	result, err := s.client.Exec(ctx, query, string(stage), id)
	if err != nil {
		return apperrors.NewStageUpdateFailedError(err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return apperrors.NewStageUpdateFailedError(err)
	}
	if affected == 0 {
		return apperrors.NewApplicationNotFoundError(id)
	}

	s.logger.WithFields(map[string]interface{}{
		"applicationId": id,
		"stage":         string(stage),
	}).Info("Application stage updated")
	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanApplication(row rowScanner) (*models.Application, error) {
	var app models.Application
	var answersJSON []byte

	err := row.Scan(&app.ID, &app.JobID, &app.CandidateID, &app.Stage, &answersJSON,
		&app.CreatedAt, &app.UpdatedAt, &app.CandidateName, &app.CandidateEmail, &app.JobTitle)
	if err != nil {
		return nil, err
	}

	if len(answersJSON) > 0 {
		if err := json.Unmarshal(answersJSON, &app.Answers); err != nil {
			return nil, fmt.Errorf("failed to decode answers: %w", err)
		}
	}
	return &app, nil
}

func collectApplications(rows *sql.Rows) ([]*models.Application, error) {
	var apps []*models.Application
	for rows.Next() {
		app, err := scanApplication(rows)
		if err != nil {
			return nil, apperrors.NewQueryExecutionFailedError("scan_application", err)
		}
		apps = append(apps, app)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewQueryExecutionFailedError("iterate_applications", err)
	}
	return apps, nil
}
