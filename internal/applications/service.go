// Package applications handles candidate submissions to job postings.
package applications

import (
	"context"

	"github.com/google/uuid"

	apperrors "recruiting-platform/internal/common/errors"
	"recruiting-platform/internal/common/logger"
	"recruiting-platform/internal/models"
	"recruiting-platform/internal/screening"
)

// JobReader loads postings for submission checks.
type JobReader interface {
	GetByID(ctx context.Context, id string) (*models.Job, error)
}

// ProfileReader loads the applying candidate.
type ProfileReader interface {
	GetByID(ctx context.Context, id string) (*models.Profile, error)
}

// ApplicationWriter persists submissions.
type ApplicationWriter interface {
	Create(ctx context.Context, app *models.Application) error
	ListByCandidate(ctx context.Context, candidateID string) ([]*models.Application, error)
}

// Service runs the apply flow.
type Service struct {
	jobs     JobReader
	profiles ProfileReader
	store    ApplicationWriter
	logger   logger.Logger
}

// NewService creates an applications service.
func NewService(jobs JobReader, profiles ProfileReader, store ApplicationWriter, log logger.Logger) *Service {
	return &Service{jobs: jobs, profiles: profiles, store: store, logger: log}
}

// Apply submits a candidate to a job. The posting must be open, the candidate
// must have a stored resume, and required screening questions must be
// answered. Duplicate submissions surface as a conflict.
func (s *Service) Apply(ctx context.Context, candidateID, jobID string, answers map[string]string) (*models.Application, error) {
	job, err := s.jobs.GetByID(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if job.Status != models.JobStatusOpen {
		return nil, apperrors.NewJobValidationFailedError("job is not open for applications")
	}

	profile, err := s.profiles.GetByID(ctx, candidateID)
	if err != nil {
		return nil, err
	}
	if profile.ResumeKey == "" {
		return nil, apperrors.NewResumeRequiredError()
	}

	if err := screening.ValidateAnswers(job.ScreeningQuestions, answers); err != nil {
		return nil, err
	}

	app := &models.Application{
		ID:          uuid.New().String(),
		JobID:       jobID,
		CandidateID: candidateID,
		Answers:     answers,
	}
	if err := s.store.Create(ctx, app); err != nil {
		return nil, err
	}

	s.logger.WithFields(map[string]interface{}{
		"applicationId": app.ID,
		"jobId":         jobID,
		"candidateId":   candidateID,
	}).Info("Application submitted")
	return app, nil
}

// ListForCandidate returns a candidate's own submissions.
func (s *Service) ListForCandidate(ctx context.Context, candidateID string) ([]*models.Application, error) {
	return s.store.ListByCandidate(ctx, candidateID)
}
