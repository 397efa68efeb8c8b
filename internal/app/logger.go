// Package app provides logger initialization.
package app

import (
	"github.com/guttosm/shipment-packaging/config"
	"github.com/guttosm/shipment-packaging/internal/logger"
)

// ServiceName identifies this process in logs and events.
const ServiceName = "shipment-packaging"

// Version is set at build time with -ldflags "-X ...app.Version=...".
var Version = "dev"

// InitializeLogger configures the global logger from cfg.
func InitializeLogger(cfg config.LogConfig) {
	logger.Init(logger.Options{
		Level:   cfg.Level,
		Pretty:  cfg.Pretty,
		Service: ServiceName,
		Version: Version,
	})
}
