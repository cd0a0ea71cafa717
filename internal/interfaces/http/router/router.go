package router

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/safedocs/backend/internal/infrastructure/logger"
	"github.com/safedocs/backend/internal/interfaces/http/handler"
	"github.com/safedocs/backend/internal/interfaces/http/middleware"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

// RouteRegistrar defines the interface for registering routes
type RouteRegistrar interface {
	RegisterRoutes(rg *gin.RouterGroup)
}

// Router manages versioned API route registration
type Router struct {
	engine     *gin.Engine
	apiVersion string
	middleware []gin.HandlerFunc
	registrars []RouteRegistrar
}

// RouterOption is a functional option for Router configuration
type RouterOption func(*Router)

// WithAPIVersion sets the API version prefix (e.g., "v1", "v2")
func WithAPIVersion(version string) RouterOption {
	return func(r *Router) {
		r.apiVersion = version
	}
}

// NewRouter creates a new Router instance
func NewRouter(engine *gin.Engine, opts ...RouterOption) *Router {
	r := &Router{
		engine:     engine,
		apiVersion: "v1",
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Use adds middleware to the versioned API group
func (r *Router) Use(mw ...gin.HandlerFunc) *Router {
	r.middleware = append(r.middleware, mw...)
	return r
}

// Register adds a RouteRegistrar to be registered later
func (r *Router) Register(registrar RouteRegistrar) *Router {
	r.registrars = append(r.registrars, registrar)
	return r
}

// Setup registers all routes under /api/{version}
func (r *Router) Setup() {
	api := r.engine.Group("/api/" + r.apiVersion)
	if len(r.middleware) > 0 {
		api.Use(r.middleware...)
	}
	for _, registrar := range r.registrars {
		registrar.RegisterRoutes(api)
	}
}

// DomainGroup collects the routes of one resource
type DomainGroup struct {
	name       string
	prefix     string
	routes     []routeDefinition
	subgroups  []*DomainGroup
	middleware []gin.HandlerFunc
}

type routeDefinition struct {
	method   string
	path     string
	handlers []gin.HandlerFunc
}

// NewDomainGroup creates a new domain-specific route group
func NewDomainGroup(name, prefix string) *DomainGroup {
	return &DomainGroup{name: name, prefix: prefix}
}

// Use adds middleware to this group
func (dg *DomainGroup) Use(middleware ...gin.HandlerFunc) *DomainGroup {
	dg.middleware = append(dg.middleware, middleware...)
	return dg
}

// Handle registers a route for any method
func (dg *DomainGroup) Handle(method, path string, handlers ...gin.HandlerFunc) *DomainGroup {
	dg.routes = append(dg.routes, routeDefinition{method: method, path: path, handlers: handlers})
	return dg
}

// GET registers a GET route
func (dg *DomainGroup) GET(path string, handlers ...gin.HandlerFunc) *DomainGroup {
	return dg.Handle(http.MethodGet, path, handlers...)
}

// POST registers a POST route
func (dg *DomainGroup) POST(path string, handlers ...gin.HandlerFunc) *DomainGroup {
	return dg.Handle(http.MethodPost, path, handlers...)
}

// DELETE registers a DELETE route
func (dg *DomainGroup) DELETE(path string, handlers ...gin.HandlerFunc) *DomainGroup {
	return dg.Handle(http.MethodDelete, path, handlers...)
}

// Group creates a sub-group within this domain
func (dg *DomainGroup) Group(name, prefix string) *DomainGroup {
	subgroup := NewDomainGroup(name, prefix)
	dg.subgroups = append(dg.subgroups, subgroup)
	return subgroup
}

// RegisterRoutes implements RouteRegistrar
func (dg *DomainGroup) RegisterRoutes(rg *gin.RouterGroup) {
	group := rg.Group(dg.prefix)
	if len(dg.middleware) > 0 {
		group.Use(dg.middleware...)
	}
	for _, route := range dg.routes {
		group.Handle(route.method, route.path, route.handlers...)
	}
	for _, subgroup := range dg.subgroups {
		subgroup.RegisterRoutes(group)
	}
}

// Name returns the group name
func (dg *DomainGroup) Name() string {
	return dg.name
}

// Prefix returns the group prefix
func (dg *DomainGroup) Prefix() string {
	return dg.prefix
}

// Handlers bundles the HTTP handlers the engine dispatches to
type Handlers struct {
	Documents     *handler.DocumentHandler
	Notifications *handler.NotificationHandler
	Signatures    *handler.SignatureHandler
	Investments   *handler.InvestmentHandler
	System        *handler.SystemHandler
}

// Options configures the middleware stack
type Options struct {
	ServiceName    string
	Logger         *zap.Logger
	TrustedProxies []string
	CORS           middleware.CORSConfig
	Security       middleware.SecurityConfig
	MaxBodySize    int64
	// Auth guards /api/v1 and, when required, the Swagger UI
	Auth gin.HandlerFunc
	// SummaryLimiter throttles the LLM-backed endpoints; nil disables it
	SummaryLimiter *middleware.RateLimiter
	Swagger        middleware.SwaggerConfig
	// Meter enables HTTP metrics when set
	Meter          metric.Meter
	TracingOptions []otelgin.Option
}

// New builds the engine with the full middleware stack and every route.
//
// Middleware order: RequestID, Recovery, Tracing, Logger, Metrics, Secure,
// CORS, BodyLimit. The logger runs inside the tracing span so log lines carry
// the trace id.
func New(h Handlers, opts Options) (*gin.Engine, error) {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.ServiceName == "" {
		opts.ServiceName = "safe-documents"
	}
	if opts.Auth == nil {
		return nil, fmt.Errorf("router: an auth middleware is required")
	}

	middleware.SetupValidator()

	engine := gin.New()
	if len(opts.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(opts.TrustedProxies); err != nil {
			return nil, fmt.Errorf("router: trusted proxies: %w", err)
		}
	}

	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(opts.Logger))
	engine.Use(middleware.Tracing(opts.ServiceName, opts.TracingOptions...)...)
	engine.Use(logger.GinMiddleware(opts.Logger))
	if opts.Meter != nil {
		metrics, err := middleware.HTTPMetrics(opts.Meter)
		if err != nil {
			return nil, fmt.Errorf("router: http metrics: %w", err)
		}
		engine.Use(metrics)
	}
	engine.Use(middleware.SecureWithConfig(opts.Security))
	engine.Use(middleware.CORSWithConfig(opts.CORS))
	if opts.MaxBodySize > 0 {
		engine.Use(middleware.BodyLimit(opts.MaxBodySize))
	}

	if h.System != nil {
		engine.GET("/health", h.System.Health)
		engine.GET("/system/info", h.System.GetSystemInfo)
	}
	engine.GET("/swagger/*any",
		middleware.SwaggerProtection(opts.Swagger, opts.Auth),
		ginSwagger.WrapHandler(swaggerFiles.Handler))

	pipelineRoutes(h, opts.SummaryLimiter).RegisterRoutes(&engine.RouterGroup)

	r := NewRouter(engine, WithAPIVersion("v1")).Use(opts.Auth)
	for _, g := range apiRoutes(h) {
		r.Register(g)
	}
	r.Setup()

	return engine, nil
}

// pipelineRoutes are the unauthenticated form endpoints at the root
func pipelineRoutes(h Handlers, limiter *middleware.RateLimiter) *DomainGroup {
	g := NewDomainGroup("pipeline", "")

	var throttle []gin.HandlerFunc
	if limiter != nil {
		throttle = append(throttle, middleware.RateLimit(limiter))
	}
	with := func(fn gin.HandlerFunc) []gin.HandlerFunc {
		return append(append([]gin.HandlerFunc{}, throttle...), fn)
	}

	if h.Documents != nil {
		g.POST("/generate-summary", with(h.Documents.GenerateSummary)...)
		g.POST("/api/summarize", with(h.Documents.StreamSummary)...)
		g.POST("/convert-to-pdf", h.Documents.ConvertToPDF)
	}
	if h.Notifications != nil {
		g.POST("/send-email", with(h.Notifications.SendEmail)...)
		g.POST("/send-investment-email", h.Notifications.SendInvestmentEmail)
	}
	if h.Signatures != nil {
		g.POST("/ampersand", h.Signatures.Ampersand)
	}
	return g
}

// apiRoutes are the authenticated resources under /api/v1
func apiRoutes(h Handlers) []RouteRegistrar {
	var groups []RouteRegistrar

	if h.Documents != nil {
		docs := NewDomainGroup("documents", "/documents")
		docs.POST("/generate", h.Documents.GenerateDocument)
		groups = append(groups, docs)

		templates := NewDomainGroup("templates", "/templates")
		templates.GET("", h.Documents.ListTemplates)
		groups = append(groups, templates)
	}

	if h.Investments != nil {
		inv := NewDomainGroup("investments", "/investments")
		inv.POST("", h.Investments.Create)
		inv.GET("", h.Investments.List)
		inv.GET("/:id", h.Investments.Get)
		inv.DELETE("/:id", h.Investments.Delete)
		doc := inv.Group("investment-document", "/:id/document")
		doc.POST("", h.Investments.GenerateDocument)
		doc.GET("", h.Investments.GetDocument)
		groups = append(groups, inv)
	}

	return groups
}
