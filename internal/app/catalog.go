// Package app provides catalog initialization.
package app

import (
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/guttosm/shipment-packaging/config"
	"github.com/guttosm/shipment-packaging/internal/service"
)

// InitializeCatalog loads the package types, products and shipping methods.
// An empty path selects the embedded default catalog.
func InitializeCatalog(cfg config.CatalogConfig) (*service.Catalog, error) {
	spec, err := config.LoadCatalog(cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	catalog, err := service.BuildCatalog(spec, service.NewFlatRateCalculator())
	if err != nil {
		return nil, fmt.Errorf("build catalog: %w", err)
	}

	source := cfg.Path
	if source == "" {
		source = "embedded"
	}
	log.Info().
		Str("source", source).
		Int("package_types", len(spec.PackageTypes)).
		Int("products", len(spec.Products)).
		Int("shipping_methods", len(spec.ShippingMethods)).
		Msg("Catalog loaded")
	return catalog, nil
}
