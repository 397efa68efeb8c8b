package app

import (
	"time"

	"github.com/guttosm/shipment-packaging/config"
)

// testConfig is a memory-only configuration with no broker.
func testConfig() config.Config {
	return config.Config{
		Server: config.ServerConfig{
			Port:           "8080",
			RateLimit:      100,
			RateWindow:     time.Minute,
			RequestTimeout: 5 * time.Second,
			Idempotency:    true,
		},
		Session: config.SessionConfig{
			Store:    config.SessionStoreMemory,
			TTL:      time.Hour,
			Capacity: 100,
		},
		Auth: config.AuthConfig{
			JWTSecretKey: "test-secret",
			TokenTTL:     time.Hour,
		},
		Log: config.LogConfig{Level: "error"},
	}
}
