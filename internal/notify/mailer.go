// Package notify delivers candidate emails and admin alerts.
package notify

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"

	apperrors "recruiting-platform/internal/common/errors"
	"recruiting-platform/internal/common/logger"
)

// Mailer sends a single email to a candidate. The boolean reports whether an
// email was actually handed to a provider; the simulation mailer logs the
// payload and returns false.
type Mailer interface {
	Send(ctx context.Context, to, subject, htmlBody string) (bool, error)
}

// SESAPI is the subset of the SES client used by the mailer.
type SESAPI interface {
	SendEmail(ctx context.Context, input *ses.SendEmailInput) (*ses.SendEmailOutput, error)
}

// SESMailer sends emails through Amazon SES.
type SESMailer struct {
	client    SESAPI
	fromEmail string
	fromName  string
	logger    logger.Logger
}

// NewSESMailer creates an SES backed mailer.
func NewSESMailer(client SESAPI, fromEmail, fromName string, log logger.Logger) *SESMailer {
	return &SESMailer{
		client:    client,
		fromEmail: fromEmail,
		fromName:  fromName,
		logger:    log,
	}
}

// Send delivers a single HTML email.
func (m *SESMailer) Send(ctx context.Context, to, subject, htmlBody string) (bool, error) {
	source := m.fromEmail
	if m.fromName != "" {
		source = fmt.Sprintf("%s <%s>", m.fromName, m.fromEmail)
	}

	input := &ses.SendEmailInput{
		Source: aws.String(source),
		Destination: &types.Destination{
			ToAddresses: []string{to},
		},
		Message: &types.Message{
			Subject: &types.Content{
				Data:    aws.String(subject),
				Charset: aws.String("UTF-8"),
			},
			Body: &types.Body{
				Html: &types.Content{
					Data:    aws.String(htmlBody),
					Charset: aws.String("UTF-8"),
				},
			},
		},
	}

	result, err := m.client.SendEmail(ctx, input)
	if err != nil {
		return false, apperrors.NewNotificationSendFailedError("email", err)
	}

	m.logger.WithFields(map[string]interface{}{
		"to":        to,
		"subject":   subject,
		"messageId": aws.ToString(result.MessageId),
	}).Info("Email sent")
	return true, nil
}

// SimulationMailer logs the email instead of sending it. It is used when no
// email provider is configured so the pipeline flow stays exercisable in
// development environments.
type SimulationMailer struct {
	logger logger.Logger
}

// NewSimulationMailer creates a log-only mailer.
func NewSimulationMailer(log logger.Logger) *SimulationMailer {
	return &SimulationMailer{logger: log}
}

// Send logs the email payload. Nothing is dispatched, so the returned flag is
// always false.
func (m *SimulationMailer) Send(_ context.Context, to, subject, _ string) (bool, error) {
	m.logger.WithFields(map[string]interface{}{
		"to":      to,
		"subject": subject,
	}).Info("Email simulated, no provider configured")
	return false, nil
}
