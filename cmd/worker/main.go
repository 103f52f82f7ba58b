package main

import (
	"context"
	"log"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/abcretail/orderflow/internal/aws"
	"github.com/abcretail/orderflow/internal/config"
	"github.com/abcretail/orderflow/internal/logger"
	"github.com/abcretail/orderflow/internal/metrics"
	"github.com/abcretail/orderflow/internal/notify"
	"github.com/abcretail/orderflow/internal/orders"
	"github.com/abcretail/orderflow/internal/reconcile"
	"github.com/abcretail/orderflow/internal/store"
)

func buildProcessor(ctx context.Context) (*Processor, *zap.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}

	zl, err := logger.New(cfg.Log.Level)
	if err != nil {
		return nil, nil, err
	}

	clients, err := aws.NewAWSClients(ctx, cfg.AWS.Region)
	if err != nil {
		return nil, nil, err
	}

	entities := store.NewStore(clients.DynamoDB, cfg.AWS.EntityTable)
	publisher := notify.NewPublisher(clients.SQS, map[string]string{
		notify.ChannelOrderNotifications: cfg.AWS.OrderNotificationsURL,
		notify.ChannelStockUpdates:       cfg.AWS.StockUpdatesURL,
		notify.ChannelStockReconcile:     cfg.AWS.StockReconcileURL,
	})
	meters := metrics.NewPublisher(clients.CloudWatch, cfg.AWS.MetricsNamespace, zl)
	markers := reconcile.NewStore(clients.DynamoDB, cfg.AWS.ReconcileTable, cfg.Engine.ReconcileTTL)
	engine := orders.NewEngine(entities, publisher, meters, markers, zl, orders.Opts{
		StrictTransitions:  cfg.Engine.StrictTransitions,
		AtomicStockUpdates: cfg.Engine.AtomicStockUpdates,
		StoreTimeout:       cfg.Engine.StoreTimeout,
		NotifyTimeout:      cfg.Engine.NotifyTimeout,
	})

	return NewProcessor(engine, zl), zl, nil
}

func main() {
	ctx := context.Background()

	processor, zl, err := buildProcessor(ctx)
	if err != nil {
		log.Fatalf("failed to build worker: %v", err)
	}
	defer zl.Sync()

	// RUN_LOCAL simulates a single SQS delivery for development.
	if viper.GetBool("RUN_LOCAL") {
		body := viper.GetString("LOCAL_SQS_BODY")
		if body == "" {
			body = `{"order_id":"local-order-1","product_id":"local-product-1","quantity":1}`
		}
		event := events.SQSEvent{
			Records: []events.SQSMessage{{Body: body}},
		}
		if err := processor.Handle(ctx, event); err != nil {
			zl.Fatal("local handler error", zap.Error(err))
		}
		return
	}

	lambda.Start(processor.Handle)
}
