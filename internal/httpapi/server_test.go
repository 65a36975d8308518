package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"recruiting-platform/internal/auth"
	"recruiting-platform/internal/cep"
	apperrors "recruiting-platform/internal/common/errors"
	"recruiting-platform/internal/common/logger"
	"recruiting-platform/internal/dashboard"
	"recruiting-platform/internal/jobs"
	"recruiting-platform/internal/models"
	"recruiting-platform/internal/pipeline"
	"recruiting-platform/internal/search"
	"recruiting-platform/internal/store/postgres"
)

const (
	candidateToken = "token-candidate"
	adminToken     = "token-admin"
)

type fakeAuth struct{}

func (f *fakeAuth) Signup(_ context.Context, input auth.SignupInput) (*models.Profile, string, error) {
	if err := input.Validate(); err != nil {
		return nil, "", apperrors.NewProfileValidationFailedError(err.Error())
	}
	return &models.Profile{ID: "cand-1", Email: input.Email, Role: models.RoleCandidate}, candidateToken, nil
}

func (f *fakeAuth) Login(_ context.Context, email, password string) (*auth.Session, string, error) {
	if password != "s3nh4-segura" {
		return nil, "", apperrors.NewAuthenticationFailedError("password mismatch")
	}
	if email == "admin@example.com" {
		return &auth.Session{ProfileID: "admin-1", Role: models.RoleAdmin}, adminToken, nil
	}
	return &auth.Session{ProfileID: "cand-1", Role: models.RoleCandidate}, candidateToken, nil
}

func (f *fakeAuth) Logout(context.Context, string) error { return nil }

func (f *fakeAuth) Validate(_ context.Context, token string) (*auth.Session, error) {
	switch token {
	case candidateToken:
		return &auth.Session{ProfileID: "cand-1", Role: models.RoleCandidate}, nil
	case adminToken:
		return &auth.Session{ProfileID: "admin-1", Role: models.RoleAdmin}, nil
	}
	return nil, apperrors.NewSessionInvalidError("unknown token")
}

type fakeProfiles struct{}

func (f *fakeProfiles) GetByID(_ context.Context, id string) (*models.Profile, error) {
	return &models.Profile{ID: id, FullName: "Maria Silva", Role: models.RoleCandidate,
		ResumeKey: "resumes/cand-1/abc.pdf"}, nil
}

func (f *fakeProfiles) Update(context.Context, *models.Profile) error { return nil }

func (f *fakeProfiles) SetResumeKey(context.Context, string, string) error { return nil }

func (f *fakeProfiles) SearchTalents(_ context.Context, term string) ([]*models.Profile, error) {
	if term == "nobody" {
		return nil, nil
	}
	return []*models.Profile{{ID: "cand-1", FullName: "Maria Silva"}}, nil
}

type fakeJobService struct{}

func (f *fakeJobService) Create(_ context.Context, input jobs.Input) (*models.Job, error) {
	if err := input.Validate(); err != nil {
		return nil, apperrors.NewJobValidationFailedError(err.Error())
	}
	return &models.Job{ID: "job-1", Title: input.Title, Status: models.JobStatusOpen}, nil
}

func (f *fakeJobService) Update(_ context.Context, id string, input jobs.Input) (*models.Job, error) {
	return &models.Job{ID: id, Title: input.Title}, nil
}

func (f *fakeJobService) Delete(context.Context, string) error { return nil }

func (f *fakeJobService) Get(_ context.Context, id string) (*models.Job, error) {
	if id != "job-1" {
		return nil, apperrors.NewJobNotFoundError(id)
	}
	return &models.Job{ID: "job-1", Title: "Desenvolvedor Go", Status: models.JobStatusOpen}, nil
}

func (f *fakeJobService) ListOpen(context.Context) ([]*models.Job, error) {
	return []*models.Job{{ID: "job-1", Title: "Desenvolvedor Go"}}, nil
}

func (f *fakeJobService) ListAll(context.Context) ([]*models.Job, error) {
	return []*models.Job{{ID: "job-1"}, {ID: "job-2"}}, nil
}

type fakeCategories struct{}

func (f *fakeCategories) List(context.Context) ([]*models.Category, error) {
	return []*models.Category{{ID: "cat-1", Name: "Tecnologia"}}, nil
}

type fakeApplicationService struct{}

func (f *fakeApplicationService) Apply(_ context.Context, candidateID, jobID string, _ map[string]string) (*models.Application, error) {
	if jobID != "job-1" {
		return nil, apperrors.NewJobNotFoundError(jobID)
	}
	return &models.Application{ID: "app-1", JobID: jobID, CandidateID: candidateID,
		Stage: models.StageNew}, nil
}

func (f *fakeApplicationService) ListForCandidate(context.Context, string) ([]*models.Application, error) {
	return []*models.Application{{ID: "app-1"}}, nil
}

type fakeApplicationReader struct{}

func (f *fakeApplicationReader) ListByJob(context.Context, string) ([]*models.Application, error) {
	return []*models.Application{
		{ID: "app-1", Stage: models.StageNew},
		{ID: "app-2", Stage: models.StageNew},
		{ID: "app-3", Stage: models.StageInterview},
	}, nil
}

func (f *fakeApplicationReader) GetByID(_ context.Context, id string) (*models.Application, error) {
	return &models.Application{ID: id, CandidateID: "cand-1"}, nil
}

type fakePipeline struct {
	lastStage string
}

func (f *fakePipeline) UpdateStatus(_ context.Context, applicationID, newStage string) (*pipeline.Result, error) {
	if !models.IsValidStage(newStage) {
		return nil, apperrors.NewInvalidStageError(newStage)
	}
	f.lastStage = newStage
	return &pipeline.Result{Success: true, NotificationSent: newStage == "INTERVIEW", Stage: newStage}, nil
}

type fakeSearch struct {
	lastParams search.Params
}

func (f *fakeSearch) SearchJobs(_ context.Context, params search.Params) ([]*models.Job, error) {
	f.lastParams = params
	return []*models.Job{{ID: "job-1", Title: "Desenvolvedor Go"}}, nil
}

type fakeResumes struct{}

func (f *fakeResumes) Upload(_ context.Context, candidateID, contentType string, _ io.Reader) (string, error) {
	if contentType != "application/pdf" {
		return "", apperrors.NewInvalidResumeTypeError(contentType)
	}
	return "resumes/" + candidateID + "/new.pdf", nil
}

func (f *fakeResumes) DownloadURL(_ context.Context, key string) (string, error) {
	if key == "" {
		return "", apperrors.NewResumeRequiredError()
	}
	return "https://bucket.s3.amazonaws.com/" + key + "?signed", nil
}

func (f *fakeResumes) Delete(context.Context, string) error { return nil }

type fakeDashboard struct {
	invalidations int
}

func (f *fakeDashboard) GetStats(context.Context) (*dashboard.Stats, error) {
	return &dashboard.Stats{OpenJobs: 3, Candidates: 10, Applications: 25,
		OpenJobsByCategory: []postgres.CategoryCount{{Category: "Tecnologia", Count: 3}}}, nil
}

func (f *fakeDashboard) Invalidate(context.Context) { f.invalidations++ }

type fakeCEP struct{}

func (f *fakeCEP) Lookup(_ context.Context, code string) (*cep.Address, error) {
	if code != "01310100" {
		return nil, errors.New("not found")
	}
	return &cep.Address{Street: "Avenida Paulista", City: "São Paulo", State: "SP"}, nil
}

func newTestRouter(t *testing.T) (*gin.Engine, *fakePipeline, *fakeDashboard) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	pipe := &fakePipeline{}
	dash := &fakeDashboard{}
	server := NewServer(Deps{
		Auth:         &fakeAuth{},
		Profiles:     &fakeProfiles{},
		Jobs:         &fakeJobService{},
		Categories:   &fakeCategories{},
		Applications: &fakeApplicationService{},
		Board:        &fakeApplicationReader{},
		Pipeline:     pipe,
		Search:       &fakeSearch{},
		Resumes:      &fakeResumes{},
		Dashboard:    dash,
		CEP:          &fakeCEP{},
		Logger:       logger.NewTestLogger(t),
	})
	return server.Router(), pipe, dash
}

func doRequest(router *gin.Engine, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		payload, _ := json.Marshal(body)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestPublicJobs(t *testing.T) {
	router, _, _ := newTestRouter(t)

	rec := doRequest(router, http.MethodGet, "/api/v1/jobs", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Jobs []models.Job `json:"jobs"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Jobs, 1)
	assert.Equal(t, "Desenvolvedor Go", body.Jobs[0].Title)
}

func TestGetJob_NotFound(t *testing.T) {
	router, _, _ := newTestRouter(t)

	rec := doRequest(router, http.MethodGet, "/api/v1/jobs/missing", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSignupAndLogin(t *testing.T) {
	router, _, _ := newTestRouter(t)

	rec := doRequest(router, http.MethodPost, "/api/v1/auth/signup", "", map[string]string{
		"email":    "maria@example.com",
		"password": "s3nh4-segura",
		"fullName": "Maria Silva",
	})
	assert.Equal(t, http.StatusCreated, rec.Code)

	rec = doRequest(router, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"email":    "maria@example.com",
		"password": "s3nh4-segura",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), candidateToken)
}

func TestLogin_WrongPassword(t *testing.T) {
	router, _, _ := newTestRouter(t)

	rec := doRequest(router, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"email":    "maria@example.com",
		"password": "errada",
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthenticatedRoutesRejectAnonymous(t *testing.T) {
	router, _, _ := newTestRouter(t)

	for _, path := range []string{"/api/v1/profile", "/api/v1/applications", "/api/v1/me"} {
		rec := doRequest(router, http.MethodGet, path, "", nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code, path)
	}
}

func TestAdminRoutesRejectCandidates(t *testing.T) {
	router, _, _ := newTestRouter(t)

	rec := doRequest(router, http.MethodGet, "/api/v1/admin/jobs", candidateToken, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = doRequest(router, http.MethodGet, "/api/v1/admin/dashboard", candidateToken, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestApply(t *testing.T) {
	router, _, _ := newTestRouter(t)

	rec := doRequest(router, http.MethodPost, "/api/v1/jobs/job-1/apply", candidateToken,
		map[string]interface{}{"answers": map[string]string{"Possui CNH?": "Sim"}})
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Body.String(), "app-1")
}

func TestUpdateStatus(t *testing.T) {
	router, pipe, dash := newTestRouter(t)

	rec := doRequest(router, http.MethodPost, "/api/v1/admin/applications/app-1/status",
		adminToken, map[string]string{"status": "INTERVIEW"})
	require.Equal(t, http.StatusOK, rec.Code)

	var result pipeline.Result
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.True(t, result.Success)
	assert.True(t, result.NotificationSent)
	assert.Equal(t, "INTERVIEW", pipe.lastStage)
	assert.Equal(t, 1, dash.invalidations)
}

func TestUpdateStatus_InvalidStage(t *testing.T) {
	router, _, _ := newTestRouter(t)

	rec := doRequest(router, http.MethodPost, "/api/v1/admin/applications/app-1/status",
		adminToken, map[string]string{"status": "ARCHIVED"})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestJobBoard_GroupsColumns(t *testing.T) {
	router, _, _ := newTestRouter(t)

	rec := doRequest(router, http.MethodGet, "/api/v1/admin/jobs/job-1/applications", adminToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Columns map[string][]models.Application `json:"columns"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Len(t, body.Columns["NEW"], 2)
	assert.Len(t, body.Columns["INTERVIEW"], 1)
	assert.Empty(t, body.Columns["HIRED"])
}

func TestDashboard(t *testing.T) {
	router, _, _ := newTestRouter(t)

	rec := doRequest(router, http.MethodGet, "/api/v1/admin/dashboard", adminToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Tecnologia")
}

func TestTalents(t *testing.T) {
	router, _, _ := newTestRouter(t)

	rec := doRequest(router, http.MethodGet, "/api/v1/admin/talents?q=maria", adminToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Maria Silva")

	rec = doRequest(router, http.MethodGet, "/api/v1/admin/talents?q=nobody", adminToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"talents":[]`)
}

func TestSearchParamsForwarded(t *testing.T) {
	gin.SetMode(gin.TestMode)

	fs := &fakeSearch{}
	server := NewServer(Deps{
		Auth:         &fakeAuth{},
		Profiles:     &fakeProfiles{},
		Jobs:         &fakeJobService{},
		Categories:   &fakeCategories{},
		Applications: &fakeApplicationService{},
		Board:        &fakeApplicationReader{},
		Pipeline:     &fakePipeline{},
		Search:       fs,
		Resumes:      &fakeResumes{},
		Dashboard:    &fakeDashboard{},
		CEP:          &fakeCEP{},
		Logger:       logger.NewNoOpLogger(),
	})
	router := server.Router()

	rec := doRequest(router, http.MethodGet,
		"/api/v1/jobs?q=golang&workModel=REMOTE&sort=title", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	assert.Equal(t, "golang", fs.lastParams.Term)
	assert.Equal(t, "REMOTE", fs.lastParams.WorkModel)
	assert.Equal(t, search.SortTitle, fs.lastParams.SortBy)
}

func TestCEPLookup(t *testing.T) {
	router, _, _ := newTestRouter(t)

	rec := doRequest(router, http.MethodGet, "/api/v1/cep/01310100", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Avenida Paulista")

	rec = doRequest(router, http.MethodGet, "/api/v1/cep/99999999", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCategories(t *testing.T) {
	router, _, _ := newTestRouter(t)

	rec := doRequest(router, http.MethodGet, "/api/v1/categories", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Tecnologia")
}
