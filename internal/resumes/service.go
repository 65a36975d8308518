// Package resumes stores candidate resume files in object storage.
package resumes

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"

	apperrors "recruiting-platform/internal/common/errors"
	"recruiting-platform/internal/common/logger"
)

// ObjectStore is the storage surface behind resume files.
type ObjectStore interface {
	PutObject(ctx context.Context, bucket, key, contentType string, body io.Reader) error
	DeleteObject(ctx context.Context, bucket, key string) error
	PresignGet(ctx context.Context, bucket, key string, ttl time.Duration) (string, error)
}

// Service uploads resumes and hands out time limited download links.
type Service struct {
	store      ObjectStore
	bucket     string
	presignTTL time.Duration
	logger     logger.Logger
}

// NewService creates a resume service on the given bucket.
func NewService(store ObjectStore, bucket string, presignTTL time.Duration, log logger.Logger) *Service {
	return &Service{store: store, bucket: bucket, presignTTL: presignTTL, logger: log}
}

// Upload stores a PDF resume for a candidate and returns its object key. Any
// previous resume object for the candidate is replaced by key convention.
func (s *Service) Upload(ctx context.Context, candidateID, contentType string, body io.Reader) (string, error) {
	if contentType != "application/pdf" {
		return "", apperrors.NewInvalidResumeTypeError(contentType)
	}

	key := fmt.Sprintf("resumes/%s/%s.pdf", candidateID, uuid.New().String())
	if err := s.store.PutObject(ctx, s.bucket, key, contentType, body); err != nil {
		return "", apperrors.NewResumeUploadFailedError(err)
	}

	s.logger.WithFields(map[string]interface{}{
		"candidateId": candidateID,
		"key":         key,
	}).Info("Resume uploaded")
	return key, nil
}

// DownloadURL returns a presigned link for a stored resume.
func (s *Service) DownloadURL(ctx context.Context, key string) (string, error) {
	if key == "" {
		return "", apperrors.NewResumeRequiredError()
	}
	url, err := s.store.PresignGet(ctx, s.bucket, key, s.presignTTL)
	if err != nil {
		return "", apperrors.NewResumeUploadFailedError(err)
	}
	return url, nil
}

// Delete removes a stored resume object.
func (s *Service) Delete(ctx context.Context, key string) error {
	if key == "" {
		return nil
	}
	if err := s.store.DeleteObject(ctx, s.bucket, key); err != nil {
		return apperrors.NewResumeUploadFailedError(err)
	}
	return nil
}
