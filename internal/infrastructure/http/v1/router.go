// Package v1 provides HTTP API version 1.
package v1

import (
	"context"
	"encoding/json"

	"github.com/gin-gonic/gin"

	"galen/internal/domain/batchalloc"
	"galen/internal/domain/catalogs/customer"
	"galen/internal/domain/catalogs/product"
	"galen/internal/domain/orders"
	"galen/internal/infrastructure/http/v1/handlers"
	"galen/internal/infrastructure/http/v1/middleware"
	"galen/internal/infrastructure/storage/postgres"
	"galen/internal/infrastructure/storage/postgres/catalog_repo"
	"galen/internal/infrastructure/storage/postgres/counter_repo"
	"galen/internal/infrastructure/storage/postgres/order_repo"
	"galen/pkg/logger"
)

// RouterConfig holds router configuration.
type RouterConfig struct {
	// Pool is the database connection pool (for health checks)
	Pool *postgres.Pool

	// TxManager provides transactional access for repositories
	TxManager *postgres.TxManager

	// Logger for request logging
	Logger *logger.Logger

	// Audit records entity changes; optional
	Audit *postgres.AuditService

	// MaxRangeSize caps batch range expansion (0 means default)
	MaxRangeSize int
}

// NewRouter creates and configures the Gin router.
func NewRouter(cfg RouterConfig) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()

	// Global middleware (order matters!)
	router.Use(middleware.Recovery())
	router.Use(middleware.Trace())
	router.Use(middleware.Logger(cfg.Logger))
	router.Use(middleware.ErrorHandler())

	// Health endpoints
	healthHandler := handlers.NewHealthHandler(cfg.Pool)
	health := router.Group("/health")
	{
		health.GET("/live", healthHandler.Live)
		health.GET("/ready", healthHandler.Ready)
		health.GET("/info", healthHandler.Info)
	}

	baseHandler := handlers.NewBaseHandler()
	sequencer := postgres.NewSequenceStore(cfg.TxManager)

	// Order service is shared between the document routes and the
	// allocator, which clones orders through it.
	orderRepo := order_repo.NewProductionOrderRepo(cfg.TxManager)
	orderService := orders.NewService(orderRepo, sequencer, cfg.TxManager)
	registerAuditHooks(orderService, cfg.Audit)

	allocator := batchalloc.New(batchalloc.Config{
		Counters:     counter_repo.NewCounterRepo(cfg.TxManager),
		Orders:       orderService,
		MaxRangeSize: cfg.MaxRangeSize,
	})

	// API v1
	v1 := router.Group("/api/v1")
	{
		registerCatalogRoutes(v1, cfg, baseHandler, sequencer)
		registerOrderRoutes(v1, cfg, baseHandler, orderService, allocator)
	}

	return router
}

// registerCatalogRoutes registers catalog endpoints.
func registerCatalogRoutes(rg *gin.RouterGroup, cfg RouterConfig, baseHandler *handlers.BaseHandler, sequencer *postgres.SequenceStore) {
	catalogs := rg.Group("/catalog")

	// --- PRODUCTS ---
	{
		repo := catalog_repo.NewProductRepo(cfg.TxManager)
		service := product.NewService(repo, cfg.TxManager, sequencer)
		handler := handlers.NewProductHandler(baseHandler, service)
		group := catalogs.Group("/products")
		RegisterCatalogRoutes(group, handler)
		group.GET("/by-category/:category", handler.ListByCategory)
	}

	// --- CUSTOMERS ---
	{
		repo := catalog_repo.NewCustomerRepo(cfg.TxManager)
		service := customer.NewService(repo, cfg.TxManager, sequencer)
		handler := handlers.NewCustomerHandler(baseHandler, service)
		RegisterCatalogRoutes(catalogs.Group("/customers"), handler)
	}
}

// registerOrderRoutes registers production order and batch allocation endpoints.
func registerOrderRoutes(rg *gin.RouterGroup, cfg RouterConfig, baseHandler *handlers.BaseHandler, orderService *orders.Service, allocator *batchalloc.Allocator) {
	orderHandler := handlers.NewOrderHandler(baseHandler, orderService, cfg.Audit)
	batchHandler := handlers.NewBatchHandler(baseHandler, allocator, orderService, cfg.Audit)

	group := rg.Group("/orders")
	{
		group.GET("", orderHandler.List)
		group.POST("", orderHandler.Create)
		group.GET("/by-number/:number", orderHandler.GetByNumber)
		group.GET("/by-batch/:code", orderHandler.GetByBatchCode)
		group.GET("/:id", orderHandler.Get)
		group.PUT("/:id", orderHandler.Update)
		group.DELETE("/:id", orderHandler.Delete)
		group.POST("/:id/status", orderHandler.ChangeStatus)
		group.POST("/:id/batch", batchHandler.Allocate)
	}

	batch := rg.Group("/batch")
	{
		batch.GET("/next", batchHandler.NextCode)
	}
}

// registerAuditHooks records create/update/delete of production orders
// in the audit log. Hook failures never block the business operation.
func registerAuditHooks(service *orders.Service, audit *postgres.AuditService) {
	if audit == nil {
		return
	}

	snapshot := func(doc *orders.ProductionOrder) map[string]any {
		raw, err := json.Marshal(doc)
		if err != nil {
			return map[string]any{"number": doc.Number}
		}
		var state map[string]any
		if err := json.Unmarshal(raw, &state); err != nil {
			return map[string]any{"number": doc.Number}
		}
		return state
	}

	service.Hooks().OnAfterCreate(func(ctx context.Context, doc *orders.ProductionOrder) error {
		return audit.LogChange(ctx, "production_order", doc.ID, postgres.AuditActionCreate, snapshot(doc))
	})
	service.Hooks().OnAfterUpdate(func(ctx context.Context, doc *orders.ProductionOrder) error {
		return audit.LogChange(ctx, "production_order", doc.ID, postgres.AuditActionUpdate, snapshot(doc))
	})
	service.Hooks().OnAfterDelete(func(ctx context.Context, doc *orders.ProductionOrder) error {
		return audit.LogChange(ctx, "production_order", doc.ID, postgres.AuditActionDelete, nil)
	})
}
