package router

import (
	"github.com/fleet/ledger/internal/infrastructure/logger"
	"github.com/fleet/ledger/internal/interfaces/http/handler"
	"github.com/fleet/ledger/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

// Handlers are the ledger's HTTP handlers
type Handlers struct {
	Payables     *handler.PayableHandler
	Receivables  *handler.ReceivableHandler
	Transactions *handler.TransactionHandler
	Wallet       *handler.WalletHandler
	Organization *handler.OrganizationHandler
	Health       *handler.HealthHandler
}

// EngineConfig selects the middleware of the ledger engine
type EngineConfig struct {
	Logger      *zap.Logger
	ServiceName string
	Auth        middleware.AuthConfig
	CORS        middleware.CORSConfig
	BodyLimit   int64
	// Meter enables HTTP metrics when set
	Meter metric.Meter
	// Tracing wraps requests in otelgin spans
	Tracing bool
	// Profiling tags profile samples with the route
	Profiling bool
}

// NewEngine builds the gin engine with the full middleware chain and every ledger route.
//
// Order: request ID, recovery, access log, tracing, security headers, CORS,
// body limit, metrics. Authentication applies to /api/v1 only; the health
// probes stay public.
func NewEngine(cfg EngineConfig, h Handlers) (*gin.Engine, error) {
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	if cfg.BodyLimit <= 0 {
		cfg.BodyLimit = middleware.DefaultBodyLimit
	}
	if cfg.ServiceName == "" {
		cfg.ServiceName = "fleet-ledger"
	}
	middleware.SetupValidator()

	engine := gin.New()
	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(cfg.Logger))
	engine.Use(logger.GinMiddleware(cfg.Logger))
	if cfg.Tracing {
		engine.Use(middleware.Tracing(cfg.ServiceName), middleware.SpanErrorMarker())
	}
	engine.Use(middleware.Secure())
	engine.Use(middleware.CORSWithConfig(cfg.CORS))
	engine.Use(middleware.BodyLimit(cfg.BodyLimit))
	if cfg.Meter != nil {
		metrics, err := middleware.Metrics(cfg.Meter)
		if err != nil {
			return nil, err
		}
		engine.Use(metrics)
	}
	if cfg.Profiling {
		engine.Use(middleware.Profiling())
	}

	health := engine.Group("/health")
	health.GET("/live", h.Health.Live)
	health.GET("/ready", h.Health.Ready)

	if cfg.Auth.Logger == nil {
		cfg.Auth.Logger = cfg.Logger
	}
	r := NewRouter(engine, WithAPIVersion("v1"))
	r.Use(middleware.Auth(cfg.Auth))
	if cfg.Tracing {
		r.Use(middleware.TracingAttributes())
	}
	for _, group := range LedgerRoutes(h) {
		r.Register(group)
	}
	r.Setup()

	return engine, nil
}

// LedgerRoutes returns the /api/v1 resource groups
func LedgerRoutes(h Handlers) []*DomainGroup {
	payables := NewDomainGroup("payables", "/payables").
		POST("", h.Payables.Create).
		GET("", h.Payables.List).
		GET("/summary", h.Payables.Summary).
		GET("/:id", h.Payables.Get).
		PATCH("/:id", h.Payables.Update).
		POST("/:id/pay", h.Payables.Pay).
		POST("/:id/cancel", h.Payables.Cancel).
		DELETE("/:id", h.Payables.Delete)

	receivables := NewDomainGroup("receivables", "/receivables").
		POST("", h.Receivables.Create).
		GET("", h.Receivables.List).
		GET("/summary", h.Receivables.Summary).
		GET("/:id", h.Receivables.Get).
		PATCH("/:id", h.Receivables.Update).
		POST("/:id/receive", h.Receivables.Receive).
		POST("/:id/cancel", h.Receivables.Cancel).
		DELETE("/:id", h.Receivables.Delete)

	transactions := NewDomainGroup("transactions", "/transactions").
		POST("", h.Transactions.Create).
		GET("", h.Transactions.List).
		GET("/:id", h.Transactions.Get).
		PATCH("/:id", h.Transactions.Update).
		DELETE("/:id", h.Transactions.Delete)

	wallet := NewDomainGroup("wallet", "/wallet").
		GET("/balance", h.Wallet.Balance).
		POST("/adjust", h.Wallet.Adjust).
		GET("/adjustments", h.Wallet.Adjustments).
		GET("/summary", h.Wallet.Summary)

	companies := NewDomainGroup("companies", "/companies").
		POST("", h.Organization.CreateCompany).
		GET("", h.Organization.ListCompanies).
		GET("/current", h.Organization.CurrentCompany)

	branches := NewDomainGroup("branches", "/branches").
		POST("", h.Organization.CreateBranch).
		GET("", h.Organization.ListBranches).
		GET("/:id", h.Organization.GetBranch).
		DELETE("/:id", h.Organization.DeleteBranch)

	return []*DomainGroup{payables, receivables, transactions, wallet, companies, branches}
}
