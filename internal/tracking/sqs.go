package tracking

import (
	"context"
	"encoding/json"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"

	"github.com/enshittification/inevitable-newspack-newsletters-backup/internal/pkg/logger"
)

// SQSPublisher forwards click events to an SQS queue for external
// analytics consumers. It is registered on the event bus as a plain
// subscriber; delivery failures are logged and dropped.
type SQSPublisher struct {
	client   *sqs.Client
	queueURL string
}

// NewSQSPublisher creates an SQS-backed click event publisher.
func NewSQSPublisher(client *sqs.Client, queueURL string) *SQSPublisher {
	return &SQSPublisher{client: client, queueURL: queueURL}
}

// Notify implements Subscriber.
func (p *SQSPublisher) Notify(ctx context.Context, evt ClickEvent) {
	body, err := json.Marshal(evt)
	if err != nil {
		logger.Error("marshal click event", "error", err.Error())
		return
	}

	_, err = p.client.SendMessage(ctx, &sqs.SendMessageInput{
		QueueUrl:    aws.String(p.queueURL),
		MessageBody: aws.String(string(body)),
	})
	if err != nil {
		logger.Error("publish click event to SQS", "error", err.Error())
	}
}
