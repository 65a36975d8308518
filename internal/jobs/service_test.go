package jobs

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "recruiting-platform/internal/common/errors"
	"recruiting-platform/internal/common/logger"
	"recruiting-platform/internal/models"
)

type fakeStore struct {
	jobs map[string]*models.Job
}

func newFakeStore() *fakeStore {
	return &fakeStore{jobs: make(map[string]*models.Job)}
}

func (f *fakeStore) Create(_ context.Context, job *models.Job) error {
	f.jobs[job.ID] = job
	return nil
}

func (f *fakeStore) Update(_ context.Context, job *models.Job) error {
	if _, ok := f.jobs[job.ID]; !ok {
		return apperrors.NewJobNotFoundError(job.ID)
	}
	f.jobs[job.ID] = job
	return nil
}

func (f *fakeStore) Delete(_ context.Context, id string) error {
	if _, ok := f.jobs[id]; !ok {
		return apperrors.NewJobNotFoundError(id)
	}
	delete(f.jobs, id)
	return nil
}

func (f *fakeStore) GetByID(_ context.Context, id string) (*models.Job, error) {
	job, ok := f.jobs[id]
	if !ok {
		return nil, apperrors.NewJobNotFoundError(id)
	}
	return job, nil
}

func (f *fakeStore) ListOpen(_ context.Context) ([]*models.Job, error) {
	var out []*models.Job
	for _, job := range f.jobs {
		if job.Status == models.JobStatusOpen {
			out = append(out, job)
		}
	}
	return out, nil
}

func (f *fakeStore) ListAll(_ context.Context) ([]*models.Job, error) {
	var out []*models.Job
	for _, job := range f.jobs {
		out = append(out, job)
	}
	return out, nil
}

type fakeIndexer struct {
	indexed  []string
	deleted  []string
	indexErr error
}

func (f *fakeIndexer) IndexJob(_ context.Context, job *models.Job) error {
	if f.indexErr != nil {
		return f.indexErr
	}
	f.indexed = append(f.indexed, job.ID)
	return nil
}

func (f *fakeIndexer) DeleteJob(_ context.Context, jobID string) error {
	f.deleted = append(f.deleted, jobID)
	return nil
}

func validInput() Input {
	return Input{
		Title:        "Desenvolvedor Go",
		Description:  "Backend de alto volume",
		Location:     "Sao Paulo, SP",
		WorkModel:    models.WorkModelRemote,
		ContractType: models.ContractTypeCLT,
	}
}

func TestCreate(t *testing.T) {
	store := newFakeStore()
	indexer := &fakeIndexer{}
	svc := NewService(store, indexer, logger.NewTestLogger(t))

	job, err := svc.Create(context.Background(), validInput())
	require.NoError(t, err)

	assert.NotEmpty(t, job.ID)
	assert.Equal(t, models.JobStatusOpen, job.Status)
	assert.Contains(t, store.jobs, job.ID)
	assert.Equal(t, []string{job.ID}, indexer.indexed)
}

func TestCreate_InvalidInput(t *testing.T) {
	svc := NewService(newFakeStore(), nil, logger.NewTestLogger(t))

	cases := []func(*Input){
		func(in *Input) { in.Title = "" },
		func(in *Input) { in.WorkModel = "OFFICE" },
		func(in *Input) { in.ContractType = "FREELA" },
		func(in *Input) { in.Status = "DRAFT" },
	}

	for _, mutate := range cases {
		input := validInput()
		mutate(&input)

		_, err := svc.Create(context.Background(), input)
		require.Error(t, err)

		stdErr, ok := err.(*apperrors.StandardError)
		require.True(t, ok)
		assert.Equal(t, apperrors.ErrCodeJobValidationFailed, stdErr.Code)
	}
}

func TestCreate_IndexFailureIsNotFatal(t *testing.T) {
	store := newFakeStore()
	indexer := &fakeIndexer{indexErr: errors.New("es unavailable")}
	svc := NewService(store, indexer, logger.NewTestLogger(t))

	job, err := svc.Create(context.Background(), validInput())
	require.NoError(t, err)
	assert.Contains(t, store.jobs, job.ID)
}

func TestUpdate(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store, &fakeIndexer{}, logger.NewTestLogger(t))

	created, err := svc.Create(context.Background(), validInput())
	require.NoError(t, err)

	input := validInput()
	input.Title = "Desenvolvedor Go Senior"
	input.Status = string(models.JobStatusClosed)

	updated, err := svc.Update(context.Background(), created.ID, input)
	require.NoError(t, err)

	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, "Desenvolvedor Go Senior", updated.Title)
	assert.Equal(t, models.JobStatusClosed, updated.Status)
}

func TestUpdate_NotFound(t *testing.T) {
	svc := NewService(newFakeStore(), nil, logger.NewTestLogger(t))

	_, err := svc.Update(context.Background(), "missing", validInput())
	require.Error(t, err)

	stdErr, ok := err.(*apperrors.StandardError)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrCodeJobNotFound, stdErr.Code)
}

func TestDelete_RemovesIndexDocument(t *testing.T) {
	store := newFakeStore()
	indexer := &fakeIndexer{}
	svc := NewService(store, indexer, logger.NewTestLogger(t))

	job, err := svc.Create(context.Background(), validInput())
	require.NoError(t, err)

	require.NoError(t, svc.Delete(context.Background(), job.ID))
	assert.Empty(t, store.jobs)
	assert.Equal(t, []string{job.ID}, indexer.deleted)
}
