// Package jobs manages posting lifecycle for the admin panel. Postgres is the
// source of truth; the search index follows writes on a best effort basis.
package jobs

import (
	"context"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	apperrors "recruiting-platform/internal/common/errors"
	"recruiting-platform/internal/common/logger"
	"recruiting-platform/internal/models"
)

// Store is the posting persistence surface.
type Store interface {
	Create(ctx context.Context, job *models.Job) error
	Update(ctx context.Context, job *models.Job) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*models.Job, error)
	ListOpen(ctx context.Context) ([]*models.Job, error)
	ListAll(ctx context.Context) ([]*models.Job, error)
}

// Indexer mirrors postings into the search index.
type Indexer interface {
	IndexJob(ctx context.Context, job *models.Job) error
	DeleteJob(ctx context.Context, jobID string) error
}

// Input is the posting create and update payload.
type Input struct {
	Title              string                     `json:"title"`
	Description        string                     `json:"description"`
	Location           string                     `json:"location"`
	SalaryRange        string                     `json:"salaryRange"`
	WorkModel          string                     `json:"workModel"`
	ContractType       string                     `json:"contractType"`
	CategoryID         string                     `json:"categoryId"`
	Requirements       []string                   `json:"requirements"`
	ScreeningQuestions []models.ScreeningQuestion `json:"screeningQuestions"`
	Status             string                     `json:"status"`
}

// Validate checks the posting payload.
func (in Input) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.Title, validation.Required, validation.Length(3, 200)),
		validation.Field(&in.Description, validation.Required),
		validation.Field(&in.Location, validation.Required),
		validation.Field(&in.WorkModel, validation.Required, validation.In(
			models.WorkModelOnSite, models.WorkModelHybrid, models.WorkModelRemote)),
		validation.Field(&in.ContractType, validation.Required, validation.In(
			models.ContractTypeCLT, models.ContractTypePJ,
			models.ContractTypeInternship, models.ContractTypeTemporary)),
		validation.Field(&in.Status, validation.In(
			string(models.JobStatusOpen), string(models.JobStatusClosed))),
	)
}

// Service implements posting CRUD.
type Service struct {
	store   Store
	indexer Indexer
	logger  logger.Logger
}

// NewService creates a jobs service. The indexer may be nil when search is
// disabled.
func NewService(store Store, indexer Indexer, log logger.Logger) *Service {
	return &Service{store: store, indexer: indexer, logger: log}
}

// Create inserts a posting and mirrors it into the index.
func (s *Service) Create(ctx context.Context, input Input) (*models.Job, error) {
	if err := input.Validate(); err != nil {
		return nil, apperrors.NewJobValidationFailedError(err.Error())
	}

	job := input.toJob()
	job.ID = uuid.New().String()
	if job.Status == "" {
		job.Status = models.JobStatusOpen
	}

	if err := s.store.Create(ctx, job); err != nil {
		return nil, err
	}
	s.reindex(ctx, job)
	return job, nil
}

// Update rewrites a posting and mirrors the change into the index.
func (s *Service) Update(ctx context.Context, id string, input Input) (*models.Job, error) {
	if err := input.Validate(); err != nil {
		return nil, apperrors.NewJobValidationFailedError(err.Error())
	}

	existing, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	job := input.toJob()
	job.ID = existing.ID
	job.CreatedAt = existing.CreatedAt
	if job.Status == "" {
		job.Status = existing.Status
	}

	if err := s.store.Update(ctx, job); err != nil {
		return nil, err
	}
	s.reindex(ctx, job)
	return job, nil
}

// Delete removes a posting and its index document.
func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.store.Delete(ctx, id); err != nil {
		return err
	}
	if s.indexer != nil {
		if err := s.indexer.DeleteJob(ctx, id); err != nil {
			s.logger.WithError(err).WithFields(map[string]interface{}{"jobId": id}).
				Warn("Failed to remove job from search index")
		}
	}
	return nil
}

// Get loads a single posting.
func (s *Service) Get(ctx context.Context, id string) (*models.Job, error) {
	return s.store.GetByID(ctx, id)
}

// ListOpen returns the public board list.
func (s *Service) ListOpen(ctx context.Context) ([]*models.Job, error) {
	return s.store.ListOpen(ctx)
}

// ListAll returns every posting for the admin panel.
func (s *Service) ListAll(ctx context.Context) ([]*models.Job, error) {
	return s.store.ListAll(ctx)
}

func (s *Service) reindex(ctx context.Context, job *models.Job) {
	if s.indexer == nil {
		return
	}
	if err := s.indexer.IndexJob(ctx, job); err != nil {
		s.logger.WithError(err).WithFields(map[string]interface{}{"jobId": job.ID}).
			Warn("Failed to index job, search results may lag")
	}
}

func (in Input) toJob() *models.Job {
	return &models.Job{
		Title:              in.Title,
		Description:        in.Description,
		Location:           in.Location,
		SalaryRange:        in.SalaryRange,
		WorkModel:          in.WorkModel,
		ContractType:       in.ContractType,
		CategoryID:         in.CategoryID,
		Requirements:       in.Requirements,
		ScreeningQuestions: in.ScreeningQuestions,
		Status:             models.JobStatus(in.Status),
	}
}
