// Package main is the entry point for the shipment packaging service.
//
// @title           Shipment Packaging API
// @version         1.0.0
// @description     Packages order shipments into parcels, prices them per shipping method
// @description     and stages manual packaging edits per user.
//
// @contact.name   API Support
// @contact.email  support@example.com
// @contact.url    https://github.com/guttosm/shipment-packaging
//
// @license.name  MIT
// @license.url   https://opensource.org/licenses/MIT
//
// @host      localhost:8080
// @BasePath  /
//
// @securityDefinitions.apikey  ApiKeyAuth
// @in                          header
// @name                        X-API-Key
// @description                 API key for the token endpoint.
//
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
// @description                 Bearer token issued by /api/auth/token. Without authentication, send X-User-ID instead.
//
// @tag.name        Shipments
// @tag.description Shipment packaging
//
// @tag.name        Builder
// @tag.description Interactive packaging sessions
//
// @tag.name        Rates
// @tag.description Shipping rates
//
// @tag.name        Catalog
// @tag.description Package types and shipping methods
//
// @tag.name        Auth
// @tag.description Token issuance
//
// @tag.name        Health
// @tag.description Health check endpoints
package main

import (
	"github.com/rs/zerolog/log"

	_ "github.com/guttosm/shipment-packaging/docs" // swagger docs

	"github.com/guttosm/shipment-packaging/config"
	"github.com/guttosm/shipment-packaging/internal/app"
)

func main() {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}

	application, err := app.InitializeApp(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize application")
	}

	server := app.NewServer(application.Router, cfg.Server)
	server.OnDrain(application.Drain)
	server.OnShutdown(application.Close)

	if err := server.Run(); err != nil {
		log.Fatal().Err(err).Msg("Server error")
	}
}
