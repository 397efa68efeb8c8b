// Package app provides service initialization.
package app

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/guttosm/shipment-packaging/config"
	"github.com/guttosm/shipment-packaging/internal/events"
	"github.com/guttosm/shipment-packaging/internal/repository"
	"github.com/guttosm/shipment-packaging/internal/service"
)

// ServiceComponents holds the business services and the stores behind them.
type ServiceComponents struct {
	Catalog   *service.Catalog
	Shipments service.ShipmentService
	Builder   service.BuilderService
	Logging   service.LoggingService
	// Tokens is nil when authentication is disabled.
	Tokens    service.TokenService
	Publisher events.Publisher
}

// InitializeServices wires the services to MongoDB when db is set and to the
// in-memory stores otherwise.
func InitializeServices(cfg config.Config, catalog *service.Catalog, db *DatabaseComponents) *ServiceComponents {
	var (
		shipments repository.ShipmentRepositoryInterface = repository.NewMemoryShipmentRepository()
		packages  repository.PackageRepositoryInterface  = repository.NewMemoryPackageRepository()
		logs      repository.LogsRepositoryInterface     = repository.NewMemoryLogsRepository()
		sessions  service.TransientStore                 = service.NewMemorySessionStore(cfg.Session.Capacity, cfg.Session.TTL)
	)
	if db != nil {
		shipments = db.Shipments
		packages = db.Packages
		logs = db.Logs
		if db.Sessions != nil {
			sessions = db.Sessions
		}
	} else if cfg.Session.Store == config.SessionStoreMongoDB {
		log.Warn().Msg("MongoDB session store requested without a database - using memory")
	}

	publisher := InitializePublisher(cfg.Kafka)

	components := &ServiceComponents{
		Catalog:   catalog,
		Shipments: service.NewShipmentService(shipments, packages, catalog.Methods, catalog.PackageTypes, publisher),
		Builder:   service.NewBuilderService(sessions, shipments, packages, catalog.Methods, catalog.PackageTypes, publisher),
		Logging:   service.NewLoggingService(logs),
		Publisher: publisher,
	}
	if cfg.Auth.Enabled {
		components.Tokens = service.NewTokenService(service.NewTokenConfigFromAuthConfig(cfg.Auth))
	}
	return components
}

// InitializePublisher returns a Kafka publisher when brokers are configured
// and a publisher that drops events otherwise.
func InitializePublisher(cfg config.KafkaConfig) events.Publisher {
	if !cfg.Enabled() {
		return events.NopPublisher{}
	}
	log.Info().Strs("brokers", cfg.Brokers).Str("topic", cfg.ShipmentsTopic).Msg("Publishing shipment events to Kafka")
	return events.NewKafkaPublisher(events.KafkaConfig{
		Brokers:      cfg.Brokers,
		Topic:        cfg.ShipmentsTopic,
		BatchTimeout: cfg.BatchTimeout,
		RequiredAcks: 1,
	})
}

// Close flushes and closes the event publisher.
func (s *ServiceComponents) Close(context.Context) error {
	if s == nil || s.Publisher == nil {
		return nil
	}
	return s.Publisher.Close()
}
