// Package app provides application initialization and dependency injection.
package app

import (
	"context"
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/guttosm/shipment-packaging/config"
	"github.com/guttosm/shipment-packaging/internal/http"
)

// App is the wired application. Close releases what InitializeApp opened.
type App struct {
	Router   *gin.Engine
	Services *ServiceComponents
	Database *DatabaseComponents
	Routing  *RouterComponents
}

// InitializeApp creates and wires all application dependencies.
func InitializeApp(cfg config.Config) (*App, error) {
	// Logger first, every other component logs through it.
	InitializeLogger(cfg.Log)

	catalog, err := InitializeCatalog(cfg.Catalog)
	if err != nil {
		return nil, err
	}

	dbComponents := InitializeDatabase(cfg.Database, cfg.Session)
	serviceComponents := InitializeServices(cfg, catalog, dbComponents)
	routerComponents := InitializeRouter(serviceComponents, dbComponents, cfg)

	return &App{
		Router:   http.NewRouter(routerComponents.HealthHandler, routerComponents.Config),
		Services: serviceComponents,
		Database: dbComponents,
		Routing:  routerComponents,
	}, nil
}

// Drain marks the service as not ready.
func (a *App) Drain() {
	if a.Routing != nil {
		a.Routing.HealthHandler.Drain()
	}
}

// Close drains the audit log, then closes the publisher and the database.
// The audit log goes first because its entries are written to the database.
func (a *App) Close(ctx context.Context) error {
	var errs []error
	if a.Routing != nil {
		if err := a.Routing.AuditLogger.Close(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	if err := a.Services.Close(ctx); err != nil {
		errs = append(errs, err)
	}
	if err := a.Database.Close(ctx); err != nil {
		errs = append(errs, err)
	}
	if len(errs) == 0 {
		log.Info().Msg("Application resources released")
	}
	return errors.Join(errs...)
}
