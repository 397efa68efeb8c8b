// Package app provides database initialization and setup.
package app

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/guttosm/shipment-packaging/config"
	"github.com/guttosm/shipment-packaging/internal/circuitbreaker"
	"github.com/guttosm/shipment-packaging/internal/repository"
)

// Breaker names, also used as health check keys.
const (
	BreakerShipments = "mongodb_shipments"
	BreakerPackages  = "mongodb_packages"
	BreakerSessions  = "mongodb_sessions"
	BreakerLogs      = "mongodb_logs"
)

// DatabaseComponents holds the MongoDB repositories, each behind its own
// circuit breaker.
type DatabaseComponents struct {
	DB        *repository.MongoDB
	Shipments repository.ShipmentRepositoryInterface
	Packages  repository.PackageRepositoryInterface
	Logs      repository.LogsRepositoryInterface
	// Sessions is nil unless builder sessions are stored in MongoDB.
	Sessions  repository.SessionStoreInterface
	Breakers  map[string]*circuitbreaker.CircuitBreaker
}

// InitializeDatabase connects to MongoDB and creates the repositories.
// Returns nil if the database is disabled or the connection fails.
func InitializeDatabase(cfg config.DatabaseConfig, session config.SessionConfig) *DatabaseComponents {
	if !cfg.Enabled {
		return nil
	}

	db, err := repository.NewMongoDB(cfg.URI, cfg.DatabaseName)
	if err != nil {
		log.Error().Err(err).Msg("Failed to connect to MongoDB - continuing with in-memory storage")
		return nil
	}

	log.Info().Str("database", cfg.DatabaseName).Msg("Connected to MongoDB")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	ttlDays := int(cfg.LogsTTL.Hours() / 24)
	if ttlDays > 0 {
		if err := db.SetLogsTTL(ctx, ttlDays); err != nil {
			log.Warn().Err(err).Msg("Failed to set logs TTL index (may already exist)")
		}
	}

	breakers := map[string]*circuitbreaker.CircuitBreaker{
		BreakerShipments: newBreaker(cfg, BreakerShipments),
		BreakerPackages:  newBreaker(cfg, BreakerPackages),
		BreakerLogs:      newBreaker(cfg, BreakerLogs),
	}

	components := &DatabaseComponents{
		DB:        db,
		Shipments: repository.NewShipmentRepositoryWithCircuitBreaker(repository.NewShipmentRepository(db), breakers[BreakerShipments]),
		Packages:  repository.NewPackageRepositoryWithCircuitBreaker(repository.NewPackageRepository(db), breakers[BreakerPackages]),
		Logs:      repository.NewLogsRepositoryWithCircuitBreaker(repository.NewLogsRepository(db), breakers[BreakerLogs]),
		Breakers:  breakers,
	}

	if session.Store == config.SessionStoreMongoDB {
		breakers[BreakerSessions] = newBreaker(cfg, BreakerSessions)
		components.Sessions = repository.NewSessionStoreWithCircuitBreaker(
			repository.NewSessionStore(db, session.TTL), breakers[BreakerSessions])
	}

	return components
}

// Close disconnects from MongoDB.
func (d *DatabaseComponents) Close(ctx context.Context) error {
	if d == nil || d.DB == nil {
		return nil
	}
	return d.DB.Close(ctx)
}

func newBreaker(cfg config.DatabaseConfig, name string) *circuitbreaker.CircuitBreaker {
	cbCfg := circuitbreaker.DefaultConfig()
	cbCfg.Name = name
	if cfg.CircuitBreakerFailureThreshold > 0 {
		cbCfg.FailureThreshold = cfg.CircuitBreakerFailureThreshold
	}
	if cfg.CircuitBreakerSuccessThreshold > 0 {
		cbCfg.SuccessThreshold = cfg.CircuitBreakerSuccessThreshold
	}
	if cfg.CircuitBreakerTimeout > 0 {
		cbCfg.Timeout = cfg.CircuitBreakerTimeout
	}
	return circuitbreaker.New(cbCfg)
}
