//go:build integration

package app

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/guttosm/shipment-packaging/config"
	"github.com/guttosm/shipment-packaging/internal/testutil"
)

// TestMain starts one MongoDB container for the app integration tests.
func TestMain(m *testing.M) {
	os.Exit(testutil.SetupTestMainWithMongoDB(context.Background(), m))
}

// mongoConfig points at a fresh database in the shared container.
func mongoConfig(t *testing.T) config.DatabaseConfig {
	t.Helper()
	return config.DatabaseConfig{
		URI:                            testutil.GetSharedContainerURI(),
		DatabaseName:                   testutil.SanitizeDBName(t.Name()),
		LogsTTL:                        30 * 24 * time.Hour,
		Enabled:                        true,
		CircuitBreakerFailureThreshold: 5,
		CircuitBreakerSuccessThreshold: 2,
		CircuitBreakerTimeout:          30 * time.Second,
	}
}
