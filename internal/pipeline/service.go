// Package pipeline implements the hiring workflow. Moving an application to a
// new stage is a two step operation: a durable privileged database write
// followed by a best effort candidate notification. The write is fatal on
// failure; the notification never is.
package pipeline

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	apperrors "recruiting-platform/internal/common/errors"
	"recruiting-platform/internal/common/logger"
	"recruiting-platform/internal/common/metrics"
	"recruiting-platform/internal/common/observability"
	"recruiting-platform/internal/models"
	"recruiting-platform/internal/notify"
)

// ApplicationStore is the persistence surface the pipeline needs. It must be
// backed by the privileged database role so stage writes succeed regardless
// of which admin account triggered them.
type ApplicationStore interface {
	GetByID(ctx context.Context, id string) (*models.Application, error)
	UpdateStage(ctx context.Context, id string, stage models.Stage) error
}

// AlertPublisher receives stage change events for recruiter subscriptions.
type AlertPublisher interface {
	PublishStageChange(ctx context.Context, applicationID, jobTitle, candidateName, fromStage, toStage string)
}

// Result reports the outcome of a stage update. Success refers to the durable
// write only; NotificationSent tells whether the candidate email went out.
type Result struct {
	Success          bool   `json:"success"`
	NotificationSent bool   `json:"notificationSent"`
	Stage            string `json:"stage"`
}

// Config tunes pipeline behavior.
type Config struct {
	// AllowedTransitions restricts stage moves per source stage. An empty
	// map allows any stage to move to any other stage.
	AllowedTransitions map[string][]string
}

// Service runs stage updates.
type Service struct {
	store  ApplicationStore
	mailer notify.Mailer
	alerts AlertPublisher
	config Config
	obs    *observability.Metrics
	logger logger.Logger
}

// NewService creates a pipeline service. The alerts publisher and the
// observability metrics may be nil.
func NewService(store ApplicationStore, mailer notify.Mailer, alerts AlertPublisher, cfg Config, obs *observability.Metrics, log logger.Logger) *Service {
	return &Service{
		store:  store,
		mailer: mailer,
		alerts: alerts,
		config: cfg,
		obs:    obs,
		logger: log,
	}
}

// UpdateStatus moves an application to a new stage.
//
// The database write happens first and any failure aborts the operation. Only
// after the write succeeds is the candidate notified, and a notification
// failure is logged but never fails the request. The INTERVIEW, REJECTED and
// HIRED stages notify the candidate; NEW and OFFER are silent moves.
func (s *Service) UpdateStatus(ctx context.Context, applicationID, newStage string) (*Result, error) {
	start := time.Now()

	if !models.IsValidStage(newStage) {
		return nil, apperrors.NewInvalidStageError(newStage)
	}
	stage := models.Stage(newStage)

	app, err := s.store.GetByID(ctx, applicationID)
	if err != nil {
		return nil, err
	}

	if !s.transitionAllowed(app.Stage, stage) {
		return nil, apperrors.NewStageTransitionForbiddenError(string(app.Stage), newStage)
	}

	if err := s.store.UpdateStage(ctx, applicationID, stage); err != nil {
		metrics.RecordStageTransition(newStage, false)
		return nil, err
	}
	metrics.RecordStageTransition(newStage, true)
	s.recordObservability(ctx, newStage, time.Since(start))

	sent := s.notifyCandidate(ctx, app, stage)

	if s.alerts != nil {
		s.alerts.PublishStageChange(ctx, app.ID, app.JobTitle, app.CandidateName,
			string(app.Stage), newStage)
	}

	s.logger.WithFields(map[string]interface{}{
		"applicationId":    applicationID,
		"fromStage":        string(app.Stage),
		"toStage":          newStage,
		"notificationSent": sent,
	}).Info("Stage update completed")

	return &Result{Success: true, NotificationSent: sent, Stage: newStage}, nil
}

// notifyCandidate sends the stage email when one exists for the stage.
// Returns whether an email actually went out; a simulated send does not
// count.
func (s *Service) notifyCandidate(ctx context.Context, app *models.Application, stage models.Stage) bool {
	tmpl, ok := templateForStage(stage)
	if !ok {
		return false
	}

	vars := map[string]string{
		"candidateName": app.CandidateName,
		"jobTitle":      app.JobTitle,
	}
	subject := renderTemplate(tmpl.Subject, vars)
	body := renderTemplate(tmpl.Body, vars)

	sent, err := s.mailer.Send(ctx, app.CandidateEmail, subject, body)
	if err != nil {
		metrics.RecordNotification(string(stage), "failure")
		s.logger.WithError(err).WithFields(map[string]interface{}{
			"applicationId": app.ID,
			"stage":         string(stage),
		}).Warn("Candidate notification failed, stage update kept")
		return false
	}
	if !sent {
		metrics.RecordNotification(string(stage), "simulated")
		return false
	}

	metrics.RecordNotification(string(stage), "success")
	if s.obs != nil {
		s.obs.NotificationSent.Add(ctx, 1,
			metric.WithAttributes(attribute.String("stage", string(stage))))
	}
	return true
}

func (s *Service) transitionAllowed(from, to models.Stage) bool {
	if len(s.config.AllowedTransitions) == 0 {
		return true
	}
	allowed, ok := s.config.AllowedTransitions[string(from)]
	if !ok {
		return false
	}
	for _, stage := range allowed {
		if stage == string(to) {
			return true
		}
	}
	return false
}

func (s *Service) recordObservability(ctx context.Context, stage string, elapsed time.Duration) {
	if s.obs == nil {
		return
	}
	attrs := metric.WithAttributes(attribute.String("stage", stage))
	s.obs.StageUpdates.Add(ctx, 1, attrs)
	s.obs.StageDuration.Record(ctx, elapsed.Seconds(), attrs)
}
