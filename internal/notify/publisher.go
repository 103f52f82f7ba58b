// Package notify publishes order flow events to named channels backed by SQS
// queues. Delivery is at-least-once and never awaited for correctness of the
// caller's state.
package notify

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/service/sqs"
	sqstypes "github.com/aws/aws-sdk-go-v2/service/sqs/types"

	"github.com/abcretail/orderflow/internal/aws"
)

// Channel names consumed downstream.
const (
	ChannelOrderNotifications = "order-notifications"
	ChannelStockUpdates       = "stock-updates"
	ChannelStockReconcile     = "stock-reconcile"
)

// Publisher routes channel names to SQS queue URLs.
type Publisher struct {
	sqs    aws.SQSAPI
	queues map[string]string
}

// NewPublisher returns a Publisher bound to a channel -> queue URL map.
func NewPublisher(sqsClient aws.SQSAPI, queues map[string]string) *Publisher {
	return &Publisher{
		sqs:    sqsClient,
		queues: queues,
	}
}

// Publish marshals payload to JSON and sends it on the queue backing the
// channel. The channel name travels as a message attribute so consumers
// sharing a queue can dispatch on it.
func (p *Publisher) Publish(ctx context.Context, channel string, payload interface{}) error {
	queueURL, ok := p.queues[channel]
	if !ok || queueURL == "" {
		return fmt.Errorf("no queue configured for channel %q", channel)
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}
	bodyStr := string(body)

	input := &sqs.SendMessageInput{
		QueueUrl:    &queueURL,
		MessageBody: &bodyStr,
		MessageAttributes: map[string]sqstypes.MessageAttributeValue{
			"channel": {
				DataType:    awsString("String"),
				StringValue: &channel,
			},
		},
	}

	if _, err := p.sqs.SendMessage(ctx, input); err != nil {
		return fmt.Errorf("send message: %w", err)
	}
	return nil
}

func awsString(s string) *string { return &s }
