// Package app provides router configuration.
package app

import (
	"github.com/guttosm/shipment-packaging/config"
	"github.com/guttosm/shipment-packaging/internal/http"
	"github.com/guttosm/shipment-packaging/internal/middleware"
)

// RouterComponents holds router-related components.
type RouterComponents struct {
	HealthHandler *http.HealthHandler
	AuditLogger   *middleware.AsyncLogger
	Config        http.RouterConfig
}

// InitializeRouter builds the health checks, the audit logger and the router
// configuration. db may be nil.
func InitializeRouter(services *ServiceComponents, db *DatabaseComponents, cfg config.Config) *RouterComponents {
	healthHandler := http.NewHealthHandler()
	if db != nil {
		for name, cb := range db.Breakers {
			healthHandler.RegisterCircuitBreaker(name, cb)
		}
		healthHandler.RegisterChecker("mongodb_ping", http.CheckerFunc(db.DB.HealthCheck))
	}

	auditLogger := middleware.NewAsyncLogger(services.Logging, middleware.DefaultAsyncLoggerConfig())

	routerCfg := http.RouterConfig{
		RateLimit:         cfg.Server.RateLimit,
		RateWindow:        cfg.Server.RateWindow,
		RequestTimeout:    cfg.Server.RequestTimeout,
		CompressionLevel:  cfg.Server.CompressionLevel,
		APIKeys:           cfg.Auth.APIKeys,
		EnableAuth:        cfg.Auth.Enabled,
		EnableIdempotency: cfg.Server.Idempotency,
		CORSOrigins:       cfg.Server.CORSOrigins,
		SwaggerUser:       cfg.Server.SwaggerUser,
		SwaggerPass:       cfg.Server.SwaggerPass,
		AuditLogger:       auditLogger,
		LoggingService:    services.Logging,
		TokenService:      services.Tokens,
		ShipmentService:   services.Shipments,
		BuilderService:    services.Builder,
		PackageTypes:      services.Catalog.PackageTypes,
		ShippingMethods:   services.Catalog.Methods,
	}
	if cfg.Server.Idempotency {
		routerCfg.IdempotencyStore = middleware.NewIdempotencyStore(10000, middleware.IdempotencyKeyTTL)
	}

	return &RouterComponents{
		HealthHandler: healthHandler,
		AuditLogger:   auditLogger,
		Config:        routerCfg,
	}
}
