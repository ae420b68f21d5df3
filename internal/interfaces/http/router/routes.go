package router

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/glowpos/backend/internal/infrastructure/auth"
	"github.com/glowpos/backend/internal/infrastructure/config"
	"github.com/glowpos/backend/internal/infrastructure/logger"
	"github.com/glowpos/backend/internal/infrastructure/telemetry"
	"github.com/glowpos/backend/internal/interfaces/http/handler"
	"github.com/glowpos/backend/internal/interfaces/http/middleware"
	"github.com/google/uuid"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
)

// Handlers groups the HTTP handlers mounted by NewEngine
type Handlers struct {
	Till           *handler.TillHandler
	Orders         *handler.OrderHandler
	Reconciliation *handler.ReconciliationHandler
	Commission     *handler.CommissionHandler
	Directory      *handler.DirectoryHandler
	Realtime       *handler.RealtimeHandler
	System         *handler.SystemHandler
}

// Options holds the infrastructure the middleware chain needs
type Options struct {
	Config *config.Config
	JWT    *auth.JWTService
	// Meter may be nil, which disables HTTP metrics
	Meter  *telemetry.MeterProvider
	Logger *zap.Logger
}

// NewEngine builds the gin engine with the full middleware chain and every
// route of the API.
func NewEngine(opts Options, h Handlers) (*gin.Engine, error) {
	cfg := opts.Config
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}

	defaultTenant, err := uuid.Parse(cfg.App.DefaultTenantID)
	if err != nil {
		return nil, fmt.Errorf("invalid default tenant id %q: %w", cfg.App.DefaultTenantID, err)
	}

	engine := gin.New()
	if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
		return nil, fmt.Errorf("invalid trusted proxies: %w", err)
	}

	engine.Use(
		logger.Recovery(log),
		middleware.RequestID(),
		logger.GinMiddleware(log),
		middleware.Tracing(cfg.Telemetry.ServiceName, cfg.Telemetry.Enabled),
		middleware.CORSWithConfig(middleware.CORSFromConfig(cfg.HTTP)),
		middleware.Secure(middleware.DefaultSecurityConfig()),
		middleware.BodyLimit(cfg.HTTP.MaxBodySize),
		middleware.HTTPMetrics(opts.Meter, log),
	)

	engine.GET("/health", h.System.Health)
	engine.GET("/api/v1/health", h.System.Health)
	if cfg.Swagger.Enabled {
		engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	jwtCfg := middleware.DefaultJWTConfig(opts.JWT)
	jwtCfg.AllowAnonymous = cfg.JWT.AllowAnonymous
	jwtCfg.Logger = log

	r := NewRouter(engine,
		WithAPIVersion("v1"),
		WithAPIMiddleware(
			middleware.JWTAuth(jwtCfg),
			middleware.TenantResolver(defaultTenant),
			middleware.SpanEnricher(),
			middleware.Profiling(cfg.Telemetry.ProfilingEnabled),
		),
	)
	r.Register(meRoutes(h.Directory)).
		Register(tillRoutes(h.Till)).
		Register(salesRoutes(h.Orders)).
		Register(reconciliationRoutes(h.Reconciliation)).
		Register(commissionRoutes(h.Commission)).
		Register(staffRoutes(h.Directory)).
		Register(catalogRoutes(h.Directory)).
		Register(realtimeRoutes(h.Realtime))
	r.Setup()

	return engine, nil
}

func meRoutes(h *handler.DirectoryHandler) *DomainGroup {
	return NewDomainGroup("me", "/me").
		GET("/context", h.GetMyContext)
}

func tillRoutes(h *handler.TillHandler) *DomainGroup {
	g := NewDomainGroup("till", "/till")
	g.Group("sessions", "/sessions").
		POST("", h.OpenSession).
		GET("", h.ListSessions).
		GET("/active", h.GetActiveSession).
		GET("/:id", h.GetSession).
		GET("/:id/operations", h.ListOperations).
		POST("/:id/cash-drops", h.RecordCashDrop).
		POST("/:id/counts", h.RecordTillCount).
		POST("/:id/no-sale", h.RecordNoSale).
		POST("/:id/close", h.CloseSession)
	return g
}

func salesRoutes(h *handler.OrderHandler) *DomainGroup {
	g := NewDomainGroup("sales", "/sales")
	g.Group("orders", "/orders").
		POST("", h.Create).
		GET("", h.List).
		GET("/:id", h.GetByID).
		POST("/:id/complete", h.Complete).
		POST("/:id/cancel", h.Cancel)
	return g
}

func reconciliationRoutes(h *handler.ReconciliationHandler) *DomainGroup {
	g := NewDomainGroup("reconciliation", "/reconciliation").
		GET("/preview", h.Preview)
	g.Group("reports", "/reports").
		POST("", h.Save).
		GET("", h.List).
		GET("/:id", h.GetByID)
	return g
}

func commissionRoutes(h *handler.CommissionHandler) *DomainGroup {
	g := NewDomainGroup("commission", "/commission")
	g.Group("tiers", "/tiers").
		POST("", h.CreateTier).
		GET("", h.ListTiers).
		GET("/resolve", h.ResolveTier).
		DELETE("/:id", h.DeleteTier)
	g.Group("calculations", "/calculations").
		POST("/run", h.RunBatch).
		GET("", h.ListCalculations).
		POST("/:id/pay", h.MarkPaid)
	g.GET("/performance/:employee_id", h.GetPerformance).
		GET("/rate/:employee_id", h.GetCommissionRate)
	return g
}

func staffRoutes(h *handler.DirectoryHandler) *DomainGroup {
	g := NewDomainGroup("staff", "/staff")
	g.Group("employees", "/employees").
		POST("", h.CreateEmployee).
		GET("", h.ListEmployees).
		GET("/:id", h.GetEmployee).
		PUT("/:id", h.UpdateEmployee)
	return g
}

func catalogRoutes(h *handler.DirectoryHandler) *DomainGroup {
	g := NewDomainGroup("catalog", "/catalog")
	g.Group("products", "/products").
		POST("", h.CreateProduct).
		GET("", h.ListProducts).
		GET("/:id", h.GetProduct).
		PUT("/:id", h.UpdateProduct)
	return g
}

func realtimeRoutes(h *handler.RealtimeHandler) *DomainGroup {
	return NewDomainGroup("realtime", "/realtime").
		GET("/feed", h.Feed).
		DELETE("/feed/:id", h.Dismiss).
		GET("/counters", h.Counters).
		POST("/refresh", h.Refresh).
		GET("/stream", h.Stream)
}
