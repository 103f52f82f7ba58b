package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/abcretail/orderflow/internal/aws"
	"github.com/abcretail/orderflow/internal/metrics"
	"github.com/abcretail/orderflow/internal/notify"
	"github.com/abcretail/orderflow/internal/orders"
	"github.com/abcretail/orderflow/internal/reconcile"
	"github.com/abcretail/orderflow/internal/store"
	"github.com/abcretail/orderflow/internal/validation"
)

// HandlerConfig groups dependencies for the order routes.
type HandlerConfig struct {
	DynamoDBClient   aws.DynamoDBAPI
	SQSClient        aws.SQSAPI
	CloudWatchClient aws.CloudWatchAPI
	EntityTable      string
	ReconcileTable   string
	QueueURLs        map[string]string
	MetricsNamespace string
	ReconcileTTL     time.Duration
	EngineOpts       orders.Opts
	Logger           *zap.Logger
}

// RegisterOrderRoutes wires the lifecycle engine and registers the order API.
func RegisterOrderRoutes(r *gin.Engine, cfg HandlerConfig) {
	v := validation.New()
	entities := store.NewStore(cfg.DynamoDBClient, cfg.EntityTable)
	publisher := notify.NewPublisher(cfg.SQSClient, cfg.QueueURLs)
	meters := metrics.NewPublisher(cfg.CloudWatchClient, cfg.MetricsNamespace, cfg.Logger)
	markers := reconcile.NewStore(cfg.DynamoDBClient, cfg.ReconcileTable, cfg.ReconcileTTL)
	engine := orders.NewEngine(entities, publisher, meters, markers, cfg.Logger, cfg.EngineOpts)

	r.POST("/orders", func(c *gin.Context) {
		ctx := c.Request.Context()

		var req validation.CreateOrderRequest
		if err := validation.BindAndValidate(c, &req, v); err != nil {
			// BindAndValidate already wrote a 400
			return
		}
		orderDate, err := validation.ParseOrderDate(req.OrderDate)
		if err != nil {
			// unreachable after validation; belt and braces for direct calls
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_order_date"})
			return
		}

		order, err := engine.CreateOrder(ctx, orders.CreateOrderInput{
			CustomerID: req.CustomerID,
			ProductID:  req.ProductID,
			OrderDate:  orderDate,
			Quantity:   req.Quantity,
		})
		if err != nil {
			writeError(c, err)
			return
		}

		c.Header("Location", fmt.Sprintf("/orders/%s", order.RowKey))
		c.JSON(http.StatusCreated, order)
	})

	r.GET("/orders", func(c *gin.Context) {
		list, err := engine.ListOrders(c.Request.Context())
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"orders": list})
	})

	r.GET("/orders/:id", func(c *gin.Context) {
		order, err := engine.GetOrder(c.Request.Context(), c.Param("id"))
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, order)
	})

	r.PUT("/orders/:id", func(c *gin.Context) {
		var req validation.EditOrderRequest
		if err := validation.BindAndValidate(c, &req, v); err != nil {
			return
		}
		orderDate, err := validation.ParseOrderDate(req.OrderDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_order_date"})
			return
		}

		order, err := engine.EditOrder(c.Request.Context(), c.Param("id"), orderDate, req.Status)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, order)
	})

	r.DELETE("/orders/:id", func(c *gin.Context) {
		if err := engine.DeleteOrder(c.Request.Context(), c.Param("id")); err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true})
	})

	r.POST("/orders/status", func(c *gin.Context) {
		var req validation.UpdateStatusRequest
		if err := validation.BindAndValidate(c, &req, v); err != nil {
			return
		}

		order, err := engine.UpdateStatus(c.Request.Context(), req.ID, req.NewStatus)
		if err != nil {
			var nfe *orders.NotFoundError
			if errors.As(err, &nfe) {
				c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Order not found"})
				return
			}
			var ve *orders.ValidationError
			if errors.As(err, &ve) {
				c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": ve.Message})
				return
			}
			c.JSON(http.StatusBadGateway, gin.H{"success": false, "message": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "message": fmt.Sprintf("Order status updated to %s", order.Status)})
	})

	// Quote responses keep the form layer's success-flag contract: a missing
	// product and a lookup failure both come back as success=false.
	r.GET("/products/:id/quote", func(c *gin.Context) {
		quote, err := engine.GetProductQuote(c.Request.Context(), c.Param("id"))
		if err != nil {
			c.JSON(http.StatusOK, gin.H{"success": false})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"success":     true,
			"price":       quote.Price,
			"stock":       quote.Stock,
			"productName": quote.ProductName,
		})
	})

	r.GET("/products", func(c *gin.Context) {
		list, err := engine.ListProducts(c.Request.Context())
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"products": list})
	})

	r.GET("/customers", func(c *gin.Context) {
		list, err := engine.ListCustomers(c.Request.Context())
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"customers": list})
	})
}

// writeError maps engine errors onto HTTP responses. Persistence failures
// carry the phase so the caller can tell whether an order record was written.
func writeError(c *gin.Context, err error) {
	var ve *orders.ValidationError
	var se *orders.StockError
	var nfe *orders.NotFoundError
	var pe *orders.PersistenceError

	switch {
	case errors.As(err, &ve):
		c.JSON(http.StatusBadRequest, gin.H{"error": "validation_failed", "message": ve.Message})
	case errors.As(err, &se):
		c.JSON(http.StatusConflict, gin.H{
			"error":     "insufficient_stock",
			"message":   fmt.Sprintf("Insufficient stock. Available: %d", se.Available),
			"available": se.Available,
		})
	case errors.As(err, &nfe):
		c.JSON(http.StatusNotFound, gin.H{"error": "not_found", "message": nfe.Error()})
	case errors.As(err, &pe):
		c.JSON(http.StatusBadGateway, gin.H{
			"error":           "persistence_failed",
			"phase":           string(pe.Phase),
			"order_persisted": pe.OrderPersisted(),
		})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal_error"})
	}
}
