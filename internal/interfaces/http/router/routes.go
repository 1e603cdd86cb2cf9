package router

import (
	"time"

	"github.com/fleet/backend/internal/infrastructure/config"
	"github.com/fleet/backend/internal/infrastructure/logger"
	"github.com/fleet/backend/internal/infrastructure/telemetry"
	"github.com/fleet/backend/internal/interfaces/http/handler"
	"github.com/fleet/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Handlers are the API handlers mounted by NewEngine
type Handlers struct {
	Assignment  *handler.AssignmentHandler
	Procurement *handler.ProcurementHandler
	Inventory   *handler.InventoryHandler
	Cart        *handler.CartHandler
	User        *handler.UserHandler
	System      *handler.SystemHandler
}

// EngineOptions configures the middleware chain
type EngineOptions struct {
	HTTP           config.HTTPConfig
	ServiceName    string
	TracingEnabled bool
	// Metrics enables request metrics and /metrics when non-nil
	Metrics *telemetry.Metrics
	Logger  *zap.Logger
	// RequestTimeout bounds every API request context; zero disables it
	RequestTimeout time.Duration
}

// NewEngine builds the gin engine with the middleware chain, /health,
// /metrics and every API route under /api/v1.
//
// Middleware order:
//  1. RequestID, so every later layer can tag its output
//  2. Recovery, then request logging
//  3. Tracing and span error marking
//  4. Metrics
//  5. Security headers and CORS
//  6. Body limit and rate limit
func NewEngine(opts EngineOptions, h Handlers) *gin.Engine {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}

	middleware.SetupValidator()

	engine := gin.New()
	if len(opts.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(opts.HTTP.TrustedProxies); err != nil {
			log.Warn("Invalid trusted proxies, ignoring", zap.Error(err))
		}
	}

	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.TracingWithConfig(middleware.TracingConfig{
		ServiceName: opts.ServiceName,
		Enabled:     opts.TracingEnabled,
	}))
	engine.Use(middleware.SpanErrorMarker())
	engine.Use(middleware.Metrics(opts.Metrics))
	engine.Use(middleware.Secure())

	corsConfig := middleware.DefaultCORSConfig()
	if len(opts.HTTP.CORSAllowOrigins) > 0 {
		corsConfig.AllowOrigins = opts.HTTP.CORSAllowOrigins
	}
	if len(opts.HTTP.CORSAllowMethods) > 0 {
		corsConfig.AllowMethods = opts.HTTP.CORSAllowMethods
	}
	if len(opts.HTTP.CORSAllowHeaders) > 0 {
		corsConfig.AllowHeaders = opts.HTTP.CORSAllowHeaders
	}
	engine.Use(middleware.CORSWithConfig(corsConfig))
	engine.Use(middleware.BodyLimit(opts.HTTP.MaxBodySize))

	if opts.HTTP.RateLimitEnabled {
		limiter := middleware.NewRateLimiter(opts.HTTP.RateLimitRequests, opts.HTTP.RateLimitWindow, opts.HTTP.RateLimitBurst)
		engine.Use(middleware.RateLimit(limiter))
		log.Info("Rate limiting enabled",
			zap.Int("requests", opts.HTTP.RateLimitRequests),
			zap.Duration("window", opts.HTTP.RateLimitWindow),
			zap.Int("burst", opts.HTTP.RateLimitBurst),
		)
	}

	if h.System != nil {
		engine.GET("/health", h.System.Health)
	}
	if opts.Metrics != nil {
		engine.GET("/metrics", gin.WrapH(opts.Metrics.Handler()))
	}

	r := NewRouter(engine, WithAPIVersion("v1"))
	if opts.RequestTimeout > 0 {
		r.Use(middleware.Timeout(opts.RequestTimeout))
	}
	for _, group := range DomainGroups(h) {
		r.Register(group)
	}
	r.Setup()

	return engine
}

// DomainGroups returns the API route groups for the handlers that are set
func DomainGroups(h Handlers) []*DomainGroup {
	var groups []*DomainGroup

	if h.Procurement != nil {
		p := NewDomainGroup("procurement", "")
		p.POST("/projects", h.Procurement.CreateProject)
		p.GET("/projects", h.Procurement.ListProjects)
		p.GET("/projects/:id", h.Procurement.GetProject)

		p.POST("/purchase-orders", h.Procurement.CreatePurchaseOrder)
		p.GET("/purchase-orders", h.Procurement.ListPurchaseOrders)
		p.GET("/purchase-orders/:id", h.Procurement.GetPurchaseOrder)
		p.PUT("/purchase-orders/:id", h.Procurement.UpdatePurchaseOrder)
		p.DELETE("/purchase-orders/:id", h.Procurement.DeletePurchaseOrder)
		p.POST("/purchase-orders/:id/invoices", h.Procurement.CreateOrderInvoice)
		p.GET("/purchase-orders/:id/invoices", h.Procurement.ListOrderInvoices)

		p.POST("/invoices", h.Procurement.CreateInvoice)
		p.GET("/invoices", h.Procurement.ListInvoices)
		p.GET("/invoices/:id", h.Procurement.GetInvoice)
		p.PUT("/invoices/:id", h.Procurement.UpdateInvoice)
		p.DELETE("/invoices/:id", h.Procurement.DeleteInvoice)
		groups = append(groups, p)
	}

	if h.Assignment != nil {
		a := NewDomainGroup("assignment", "")
		a.POST("/purchase-orders/:id/inventories", h.Assignment.AssignToPurchaseOrder)
		a.DELETE("/purchase-orders/:id/inventories/:inventoryId", h.Assignment.UnassignFromPurchaseOrder)
		a.POST("/purchase-orders/:id/invoices/:invoiceId/inventories", h.Assignment.AssignToOrderInvoice)
		a.DELETE("/purchase-orders/:id/invoices/:invoiceId/inventories/:inventoryId", h.Assignment.UnassignFromOrderInvoice)
		a.POST("/invoices/:id/inventories", h.Assignment.AssignToInvoice)
		a.DELETE("/invoices/:id/inventories/:inventoryId", h.Assignment.UnassignFromInvoice)
		a.DELETE("/inventories/:id/purchase-order", h.Assignment.ClearPurchaseOrder)
		a.DELETE("/inventories/:id/invoice", h.Assignment.ClearInvoice)
		a.POST("/assignments/preview", h.Assignment.Preview)
		groups = append(groups, a)
	}

	if h.Inventory != nil {
		i := NewDomainGroup("inventory", "")
		i.POST("/models", h.Inventory.CreateModel)
		i.GET("/models", h.Inventory.ListModels)

		i.POST("/inventories", h.Inventory.Create)
		i.GET("/inventories", h.Inventory.List)
		i.GET("/inventories/:id", h.Inventory.GetByID)
		i.PUT("/inventories/:id", h.Inventory.Update)
		i.PATCH("/inventories/:id/status", h.Inventory.ChangeStatus)
		groups = append(groups, i)
	}

	if h.Cart != nil {
		c := NewDomainGroup("cart", "/carts")
		c.GET("/:session", h.Cart.Get)
		c.DELETE("/:session", h.Cart.Clear)
		c.GET("/:session/items", h.Cart.Get)
		c.POST("/:session/items", h.Cart.AddItems)
		c.DELETE("/:session/items", h.Cart.Clear)
		c.DELETE("/:session/items/:inventoryId", h.Cart.RemoveItem)
		c.GET("/:session/preview", h.Cart.Preview)
		groups = append(groups, c)
	}

	if h.User != nil {
		u := NewDomainGroup("identity", "/users")
		u.POST("", h.User.Create)
		u.GET("", h.User.List)
		u.GET("/:id", h.User.GetByID)
		u.PUT("/:id", h.User.Update)
		u.PUT("/:id/role", h.User.ChangeRole)
		u.DELETE("/:id", h.User.Delete)
		groups = append(groups, u)
	}

	if h.System != nil {
		s := NewDomainGroup("system", "/system")
		s.GET("/info", h.System.GetSystemInfo)
		groups = append(groups, s)
	}

	return groups
}
