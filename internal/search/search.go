// Package search maintains the job postings index and serves board queries.
package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/elastic/go-elasticsearch/v8/esapi"

	"recruiting-platform/internal/common/database"
	apperrors "recruiting-platform/internal/common/errors"
	"recruiting-platform/internal/common/logger"
	"recruiting-platform/internal/common/metrics"
	"recruiting-platform/internal/models"
)

// jobDocument is the indexed shape of a posting. Screening questions stay out
// of the index; they are only needed at application time.
type jobDocument struct {
	ID           string   `json:"id"`
	Title        string   `json:"title"`
	Description  string   `json:"description"`
	Location     string   `json:"location"`
	SalaryRange  string   `json:"salaryRange,omitempty"`
	WorkModel    string   `json:"workModel"`
	ContractType string   `json:"contractType"`
	CategoryID   string   `json:"categoryId,omitempty"`
	CategoryName string   `json:"categoryName,omitempty"`
	Requirements []string `json:"requirements,omitempty"`
	Status       string   `json:"status"`
	CreatedAt    string   `json:"createdAt"`
}

// Service indexes postings on write and answers board searches.
type Service struct {
	client *database.ElasticsearchClient
	index  string
	logger logger.Logger
}

// NewService creates a search service against the given index.
func NewService(client *database.ElasticsearchClient, index string, log logger.Logger) *Service {
	return &Service{client: client, index: index, logger: log}
}

// IndexJob writes or overwrites a posting document.
func (s *Service) IndexJob(ctx context.Context, job *models.Job) error {
	doc := jobDocument{
		ID:           job.ID,
		Title:        job.Title,
		Description:  job.Description,
		Location:     job.Location,
		SalaryRange:  job.SalaryRange,
		WorkModel:    job.WorkModel,
		ContractType: job.ContractType,
		CategoryID:   job.CategoryID,
		CategoryName: job.CategoryName,
		Requirements: job.Requirements,
		Status:       string(job.Status),
		CreatedAt:    job.CreatedAt.UTC().Format(time.RFC3339),
	}

	payload, err := json.Marshal(doc)
	if err != nil {
		return apperrors.NewSearchQueryFailedError("index_job", err)
	}

	req := esapi.IndexRequest{
		Index:      s.index,
		DocumentID: job.ID,
		Body:       bytes.NewReader(payload),
		Refresh:    "false",
	}

	res, err := req.Do(ctx, s.client.Client)
	if err != nil {
		return apperrors.NewSearchQueryFailedError("index_job", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return apperrors.NewSearchQueryFailedError("index_job", fmt.Errorf("index response: %s", res.Status()))
	}

	s.logger.WithFields(map[string]interface{}{"jobId": job.ID}).Debug("Job indexed")
	return nil
}

// DeleteJob removes a posting document. A missing document is not an error.
func (s *Service) DeleteJob(ctx context.Context, jobID string) error {
	req := esapi.DeleteRequest{
		Index:      s.index,
		DocumentID: jobID,
	}

	res, err := req.Do(ctx, s.client.Client)
	if err != nil {
		return apperrors.NewSearchQueryFailedError("delete_job", err)
	}
	defer res.Body.Close()

	if res.IsError() && res.StatusCode != 404 {
		return apperrors.NewSearchQueryFailedError("delete_job", fmt.Errorf("delete response: %s", res.Status()))
	}
	return nil
}

// SearchJobs runs a board query and returns matching postings.
func (s *Service) SearchJobs(ctx context.Context, params Params) ([]*models.Job, error) {
	body := BuildQuery(params)

	payload, err := json.Marshal(body)
	if err != nil {
		metrics.SearchQueriesTotal.WithLabelValues("failure").Inc()
		return nil, apperrors.NewSearchQueryFailedError("search_jobs", err)
	}

	res, err := s.client.Client.Search(
		s.client.Client.Search.WithContext(ctx),
		s.client.Client.Search.WithIndex(s.index),
		s.client.Client.Search.WithBody(bytes.NewReader(payload)),
	)
	if err != nil {
		metrics.SearchQueriesTotal.WithLabelValues("failure").Inc()
		return nil, apperrors.NewSearchQueryFailedError("search_jobs", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		metrics.SearchQueriesTotal.WithLabelValues("failure").Inc()
		if res.StatusCode == 404 {
			return nil, apperrors.NewIndexNotFoundError(s.index)
		}
		return nil, apperrors.NewSearchQueryFailedError("search_jobs", fmt.Errorf("search response: %s", res.Status()))
	}

	var response struct {
		Hits struct {
			Hits []struct {
				Source jobDocument `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&response); err != nil {
		metrics.SearchQueriesTotal.WithLabelValues("failure").Inc()
		return nil, apperrors.NewSearchQueryFailedError("decode_search_response", err)
	}

	jobs := make([]*models.Job, 0, len(response.Hits.Hits))
	for _, hit := range response.Hits.Hits {
		jobs = append(jobs, documentToJob(hit.Source))
	}

	metrics.SearchQueriesTotal.WithLabelValues("success").Inc()
	return jobs, nil
}

func documentToJob(doc jobDocument) *models.Job {
	job := &models.Job{
		ID:           doc.ID,
		Title:        doc.Title,
		Description:  doc.Description,
		Location:     doc.Location,
		SalaryRange:  doc.SalaryRange,
		WorkModel:    doc.WorkModel,
		ContractType: doc.ContractType,
		CategoryID:   doc.CategoryID,
		CategoryName: doc.CategoryName,
		Requirements: doc.Requirements,
		Status:       models.JobStatus(doc.Status),
	}
	if t, err := time.Parse(time.RFC3339, doc.CreatedAt); err == nil {
		job.CreatedAt = t
	}
	return job
}
