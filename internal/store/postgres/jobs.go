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

// JobStore persists job postings.
type JobStore struct {
	client *database.PostgresClient
	logger logger.Logger
}

// NewJobStore creates a job store on the given client.
func NewJobStore(client *database.PostgresClient, log logger.Logger) *JobStore {
	return &JobStore{client: client, logger: log}
}

const jobColumns = `j.id, j.title, j.description, j.location, j.salary_range, j.work_model,
	j.contract_type, j.category_id, COALESCE(c.name, ''), j.requirements, j.screening_questions,
	j.status, j.created_at, j.updated_at`

// Create inserts a new posting.
func (s *JobStore) Create(ctx context.Context, job *models.Job) error {
	questionsJSON, err := json.Marshal(job.ScreeningQuestions)
	if err != nil {
		return apperrors.NewQueryExecutionFailedError("marshal_questions", err)
	}

	query := `
		INSERT INTO jobs (id, title, description, location, salary_range, work_model,
			contract_type, category_id, requirements, screening_questions, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NULLIF($8, ''), $9, $10, $11, NOW(), NOW())`

	_, err = s.client.Exec(ctx, query, job.ID, job.Title, job.Description, job.Location,
		job.SalaryRange, job.WorkModel, job.ContractType, job.CategoryID,
		pq.Array(job.Requirements), questionsJSON, string(job.Status))
	if err != nil {
		return apperrors.NewQueryExecutionFailedError("insert_job", err)
	}

	s.logger.WithFields(map[string]interface{}{"jobId": job.ID, "title": job.Title}).Info("Job created")
	return nil
}

// Update rewrites a posting's editable fields.
func (s *JobStore) Update(ctx context.Context, job *models.Job) error {
	questionsJSON, err := json.Marshal(job.ScreeningQuestions)
	if err != nil {
		return apperrors.NewQueryExecutionFailedError("marshal_questions", err)
	}

	query := `
		UPDATE jobs SET title = $1, description = $2, location = $3, salary_range = $4,
			work_model = $5, contract_type = $6, category_id = NULLIF($7, ''),
			requirements = $8, screening_questions = $9, status = $10, updated_at = NOW()
		WHERE id = $11`

	result, err := s.client.Exec(ctx, query, job.Title, job.Description, job.Location,
		job.SalaryRange, job.WorkModel, job.ContractType, job.CategoryID,
		pq.Array(job.Requirements), questionsJSON, string(job.Status), job.ID)
	if err != nil {
		return apperrors.NewQueryExecutionFailedError("update_job", err)
	}
	if affected, err := result.RowsAffected(); err == nil && affected == 0 {
		return apperrors.NewJobNotFoundError(job.ID)
	}
	return nil
}

// Delete removes a posting and its applications.
func (s *JobStore) Delete(ctx context.Context, id string) error {
	result, err := s.client.Exec(ctx, `DELETE FROM jobs WHERE id = $1`, id)
	if err != nil {
		return apperrors.NewQueryExecutionFailedError("delete_job", err)
	}
	if affected, err := result.RowsAffected(); err == nil && affected == 0 {
		return apperrors.NewJobNotFoundError(id)
	}
	s.logger.WithFields(map[string]interface{}{"jobId": id}).Info("Job deleted")
	return nil
}

// GetByID loads a single posting.
func (s *JobStore) GetByID(ctx context.Context, id string) (*models.Job, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM jobs j
		LEFT JOIN categories c ON c.id = j.category_id
		WHERE j.id = $1`, jobColumns)

	row := s.client.QueryRow(ctx, query, id)
	job, err := scanJob(row)
	if err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NewJobNotFoundError(id)
		}
		return nil, apperrors.NewQueryExecutionFailedError("get_job", err)
	}
	return job, nil
}

// ListOpen returns open postings for the public board, newest first.
func (s *JobStore) ListOpen(ctx context.Context) ([]*models.Job, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM jobs j
		LEFT JOIN categories c ON c.id = j.category_id
		WHERE j.status = 'OPEN'
		ORDER BY j.created_at DESC`, jobColumns)

	return s.list(ctx, query)
}

// ListAll returns every posting for the admin panel, newest first.
func (s *JobStore) ListAll(ctx context.Context) ([]*models.Job, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM jobs j
		LEFT JOIN categories c ON c.id = j.category_id
		ORDER BY j.created_at DESC`, jobColumns)

	return s.list(ctx, query)
}

func (s *JobStore) list(ctx context.Context, query string, args ...interface{}) ([]*models.Job, error) {
	rows, err := s.client.Query(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewQueryExecutionFailedError("list_jobs", err)
	}
	defer rows.Close()

	var jobs []*models.Job
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, apperrors.NewQueryExecutionFailedError("scan_job", err)
		}
		jobs = append(jobs, job)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewQueryExecutionFailedError("iterate_jobs", err)
	}
	return jobs, nil
}

func scanJob(row rowScanner) (*models.Job, error) {
	var job models.Job
	var categoryID sql.NullString
	var questionsJSON []byte

	err := row.Scan(&job.ID, &job.Title, &job.Description, &job.Location, &job.SalaryRange,
		&job.WorkModel, &job.ContractType, &categoryID, &job.CategoryName,
		pq.Array(&job.Requirements), &questionsJSON, &job.Status, &job.CreatedAt, &job.UpdatedAt)
	if err != nil {
		return nil, err
	}

	job.CategoryID = categoryID.String
	if len(questionsJSON) > 0 {
		if err := json.Unmarshal(questionsJSON, &job.ScreeningQuestions); err != nil {
			return nil, fmt.Errorf("failed to decode screening questions: %w", err)
		}
	}
	return &job, nil
}
