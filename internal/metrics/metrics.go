// Package metrics publishes operational counters to CloudWatch. Counters are
// best-effort: a failed put is logged and dropped, never surfaced to callers.
package metrics

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	cwtypes "github.com/aws/aws-sdk-go-v2/service/cloudwatch/types"
	"go.uber.org/zap"

	"github.com/abcretail/orderflow/internal/aws"
)

// Metric names.
const (
	OrdersCreated  = "OrdersCreated"
	NotifyFailures = "NotifyFailures"
	ReconcileRuns  = "ReconcileRuns"
)

type Publisher struct {
	client    aws.CloudWatchAPI
	namespace string
	logger    *zap.Logger
}

func NewPublisher(client aws.CloudWatchAPI, namespace string, logger *zap.Logger) *Publisher {
	return &Publisher{
		client:    client,
		namespace: namespace,
		logger:    logger,
	}
}

// Count emits a single counter datum.
func (p *Publisher) Count(ctx context.Context, name string, value float64) {
	_, err := p.client.PutMetricData(ctx, &cloudwatch.PutMetricDataInput{
		Namespace: &p.namespace,
		MetricData: []cwtypes.MetricDatum{
			{
				MetricName: &name,
				Value:      &value,
				Unit:       cwtypes.StandardUnitCount,
			},
		},
	})
	if err != nil {
		p.logger.Warn("failed to put metric", zap.String("metric", name), zap.Error(err))
	}
}
