package notify

import (
	"context"
	"encoding/json"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sns"

	"recruiting-platform/internal/common/logger"
)

// SNSAPI is the subset of the SNS client used by the notifier.
type SNSAPI interface {
	Publish(ctx context.Context, input *sns.PublishInput) (*sns.PublishOutput, error)
}

// AdminNotifier publishes pipeline events to an SNS topic so recruiters can
// subscribe to hiring activity. Publishing is best effort.
type AdminNotifier struct {
	client   SNSAPI
	topicARN string
	logger   logger.Logger
}

// NewAdminNotifier creates an SNS backed admin notifier.
func NewAdminNotifier(client SNSAPI, topicARN string, log logger.Logger) *AdminNotifier {
	return &AdminNotifier{client: client, topicARN: topicARN, logger: log}
}

type stageChangeEvent struct {
	ApplicationID string    `json:"applicationId"`
	JobTitle      string    `json:"jobTitle"`
	CandidateName string    `json:"candidateName"`
	FromStage     string    `json:"fromStage"`
	ToStage       string    `json:"toStage"`
	OccurredAt    time.Time `json:"occurredAt"`
}

// PublishStageChange publishes a stage change event. Failures are logged and
// never surfaced to the caller.
func (n *AdminNotifier) PublishStageChange(ctx context.Context, applicationID, jobTitle, candidateName, fromStage, toStage string) {
	event := stageChangeEvent{
		ApplicationID: applicationID,
		JobTitle:      jobTitle,
		CandidateName: candidateName,
		FromStage:     fromStage,
		ToStage:       toStage,
		OccurredAt:    time.Now().UTC(),
	}

	payload, err := json.Marshal(event)
	if err != nil {
		n.logger.WithError(err).Warn("Failed to encode stage change event")
		return
	}

	_, err = n.client.Publish(ctx, &sns.PublishInput{
		TopicArn: aws.String(n.topicARN),
		Subject:  aws.String("Pipeline stage change"),
		Message:  aws.String(string(payload)),
	})
	if err != nil {
		n.logger.WithError(err).WithFields(map[string]interface{}{
			"applicationId": applicationID,
		}).Warn("Failed to publish stage change alert")
		return
	}

	n.logger.WithFields(map[string]interface{}{
		"applicationId": applicationID,
		"toStage":       toStage,
	}).Debug("Stage change alert published")
}
