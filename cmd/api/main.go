package main

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	ginadapter "github.com/awslabs/aws-lambda-go-api-proxy/gin"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/abcretail/orderflow/internal/aws"
	"github.com/abcretail/orderflow/internal/config"
	"github.com/abcretail/orderflow/internal/handlers"
	"github.com/abcretail/orderflow/internal/logger"
	"github.com/abcretail/orderflow/internal/notify"
	"github.com/abcretail/orderflow/internal/orders"
)

func setupRouter(cfg handlers.HandlerConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	// health
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	handlers.RegisterOrderRoutes(r, cfg)

	return r
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	zl, err := logger.New(cfg.Log.Level)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer zl.Sync()

	clients, err := aws.NewAWSClients(context.Background(), cfg.AWS.Region)
	if err != nil {
		zl.Fatal("failed to init aws clients", zap.Error(err))
	}

	hcfg := handlers.HandlerConfig{
		DynamoDBClient:   clients.DynamoDB,
		SQSClient:        clients.SQS,
		CloudWatchClient: clients.CloudWatch,
		EntityTable:      cfg.AWS.EntityTable,
		ReconcileTable:   cfg.AWS.ReconcileTable,
		QueueURLs: map[string]string{
			notify.ChannelOrderNotifications: cfg.AWS.OrderNotificationsURL,
			notify.ChannelStockUpdates:       cfg.AWS.StockUpdatesURL,
			notify.ChannelStockReconcile:     cfg.AWS.StockReconcileURL,
		},
		MetricsNamespace: cfg.AWS.MetricsNamespace,
		ReconcileTTL:     cfg.Engine.ReconcileTTL,
		EngineOpts: orders.Opts{
			StrictTransitions:  cfg.Engine.StrictTransitions,
			AtomicStockUpdates: cfg.Engine.AtomicStockUpdates,
			StoreTimeout:       cfg.Engine.StoreTimeout,
			NotifyTimeout:      cfg.Engine.NotifyTimeout,
		},
		Logger: zl,
	}

	r := setupRouter(hcfg)

	// run a plain HTTP server for development; the default is Lambda behind
	// API Gateway.
	if cfg.Server.RunLocal {
		addr := fmt.Sprintf(":%d", cfg.Server.Port)
		zl.Info("running local server", zap.String("addr", addr))
		if err := r.Run(addr); err != nil {
			zl.Fatal("failed to run local server", zap.Error(err))
		}
		return
	}

	adapter := ginadapter.New(r)

	lambda.Start(func(ctx context.Context, req events.APIGatewayProxyRequest) (interface{}, error) {
		return adapter.ProxyWithContext(ctx, req)
	})
}
