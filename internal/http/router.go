package http

import (
	"net/http"
	"reflect"
	"strings"
	"sync"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/guttosm/shipment-packaging/internal/metrics"
	"github.com/guttosm/shipment-packaging/internal/middleware"
	"github.com/guttosm/shipment-packaging/internal/service"
)

// RouterConfig carries the services behind the API and the knobs of the
// middleware chain. Nil services leave their routes unregistered.
type RouterConfig struct {
	RateLimit         int
	RateWindow        time.Duration
	RequestTimeout    time.Duration
	CompressionLevel  int
	APIKeys           map[string]bool
	EnableAuth        bool
	EnableIdempotency bool
	IdempotencyStore  middleware.IdempotencyStore
	CORSOrigins       []string
	SwaggerUser       string
	SwaggerPass       string
	AuditLogger       *middleware.AsyncLogger
	LoggingService    service.LoggingService
	TokenService      service.TokenService
	ShipmentService   service.ShipmentService
	BuilderService    service.BuilderService
	PackageTypes      *service.PackageTypeManager
	ShippingMethods   *service.ShippingMethodRegistry
}

// DefaultRouterConfig has rate limiting and timeouts on, auth off.
func DefaultRouterConfig() RouterConfig {
	return RouterConfig{
		RateLimit:        100,
		RateWindow:       time.Minute,
		RequestTimeout:   30 * time.Second,
		CompressionLevel: -1,
	}
}

var registerFieldNamesOnce sync.Once

// registerJSONFieldNames makes validator errors name fields by their JSON key.
func registerJSONFieldNames() {
	registerFieldNamesOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
			if name == "-" {
				return ""
			}
			return name
		})
	})
}

// NewRouter assembles the engine. Probes, metrics and docs sit at the root,
// the token endpoint under /api, and everything else under /api behind the
// identity chain.
func NewRouter(health *HealthHandler, cfg RouterConfig) *gin.Engine {
	registerJSONFieldNames()

	engine := gin.New()
	engine.Use(corsHandler(cfg.CORSOrigins))
	engine.Use(edgeChain(&cfg)...)

	if health != nil {
		health.Register(engine)
	}
	engine.GET("/metrics", gin.WrapH(promhttp.Handler()))
	mountDocs(engine, cfg.SwaggerUser, cfg.SwaggerPass)

	api := engine.Group("/api")
	if cfg.TokenService != nil {
		NewAuthRoutes(cfg.TokenService, cfg.APIKeys, cfg.AuditLogger).RegisterRoutes(api)
	}

	protected := api.Group("", userChain(&cfg)...)
	for _, group := range routeGroups(&cfg) {
		group.RegisterRoutes(protected)
	}
	return engine
}

func corsHandler(origins []string) gin.HandlerFunc {
	if len(origins) == 0 {
		origins = []string{"http://localhost:3000", "http://127.0.0.1:3000"}
	}
	return cors.New(cors.Config{
		AllowOrigins: origins,
		AllowMethods: []string{
			http.MethodGet, http.MethodPost, http.MethodPut,
			http.MethodPatch, http.MethodDelete, http.MethodOptions,
		},
		AllowHeaders: []string{
			"Origin", "Content-Type", "Accept-Encoding", "Accept-Language", "Authorization",
			middleware.APIKeyHeader, middleware.IdempotencyKeyHeader,
			middleware.RequestIDHeader, middleware.UserIDHeader,
		},
		ExposeHeaders: []string{
			middleware.RequestIDHeader, middleware.IdempotencyReplayedHeader,
			"Retry-After", "X-RateLimit-Limit", "X-RateLimit-Remaining", "X-RateLimit-Reset",
		},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	})
}

// edgeChain runs for every request. The request ID comes first so that
// recovery, logging and error rendering can all report it.
func edgeChain(cfg *RouterConfig) []gin.HandlerFunc {
	chain := []gin.HandlerFunc{
		middleware.RequestID(),
		middleware.Recovery(),
		metrics.PrometheusMiddleware(),
		middleware.Compression(cfg.CompressionLevel),
		middleware.RequestLogger(cfg.AuditLogger),
		middleware.ErrorHandler(),
	}
	if cfg.RequestTimeout > 0 {
		chain = append(chain, middleware.Timeout(cfg.RequestTimeout))
	}
	if cfg.RateLimit > 0 {
		chain = append(chain, middleware.NewRateLimiter(cfg.RateLimit, cfg.RateWindow).RateLimit())
	}
	return chain
}

// userChain resolves the acting user, then applies the per-user limit and
// idempotency, which both key on that user.
func userChain(cfg *RouterConfig) []gin.HandlerFunc {
	identity := middleware.HeaderIdentity()
	if cfg.EnableAuth && cfg.TokenService != nil {
		identity = middleware.JWTAuth(cfg.TokenService)
	}
	chain := []gin.HandlerFunc{identity}

	if cfg.RateLimit > 0 {
		chain = append(chain, middleware.NewRateLimiter(cfg.RateLimit, cfg.RateWindow).UserRateLimit())
	}
	if cfg.EnableIdempotency {
		idem := middleware.DefaultIdempotencyConfig()
		if cfg.IdempotencyStore != nil {
			idem.Store = cfg.IdempotencyStore
		}
		chain = append(chain, middleware.Idempotency(idem))
	}
	return chain
}

// mountDocs serves the Swagger UI, behind basic auth when credentials are set.
func mountDocs(engine *gin.Engine, user, pass string) {
	docs := engine.Group("/swagger")
	if user != "" && pass != "" {
		docs.Use(gin.BasicAuth(gin.Accounts{user: pass}))
	}
	docs.GET("/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
}

// RouteGroup mounts one area of the API.
type RouteGroup interface {
	RegisterRoutes(rg *gin.RouterGroup)
}

func routeGroups(cfg *RouterConfig) []RouteGroup {
	var groups []RouteGroup
	if cfg.ShipmentService != nil && cfg.PackageTypes != nil && cfg.ShippingMethods != nil {
		groups = append(groups, NewShipmentRoutes(
			NewCatalogHandler(cfg.PackageTypes, cfg.ShippingMethods),
			NewShipmentHandler(cfg.ShipmentService, cfg.LoggingService, cfg.AuditLogger),
		))
	}
	if cfg.BuilderService != nil {
		groups = append(groups, NewBuilderRoutes(NewBuilderHandler(cfg.BuilderService, cfg.AuditLogger)))
	}
	return groups
}
