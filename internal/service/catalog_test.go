package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/guttosm/shipment-packaging/config"
	"github.com/guttosm/shipment-packaging/internal/domain/model"
)

func TestBuildCatalog_Default(t *testing.T) {
	cfg, err := config.LoadCatalog("")
	require.NoError(t, err)

	catalog, err := BuildCatalog(cfg, NewFlatRateCalculator())
	require.NoError(t, err)

	flat, err := catalog.Methods.Get("flat_rate")
	require.NoError(t, err)
	var chain []string
	for _, p := range flat.Packagers() {
		chain = append(chain, p.ID())
	}
	assert.Equal(t, []string{PackagerManual, PackagerAllInOne}, chain)
	assert.Equal(t, "custom_box", flat.DefaultPackageType().ID)

	assert.Contains(t, catalog.PackageTypes.GetDefinitionsByShippingMethod("flat_rate"), "envelope")
	assert.NotContains(t, catalog.PackageTypes.GetDefinitionsByShippingMethod("pickup"), "envelope")

	product, err := catalog.Products.PurchasedEntity(context.Background(), model.ShipmentItem{PurchasedEntityID: "sku-mug"})
	require.NoError(t, err)
	require.NotNil(t, product)
	assert.Len(t, product.Packaging, 2)
}

func TestBuildCatalog_MissingChargesAreZero(t *testing.T) {
	cfg, err := config.LoadCatalog("")
	require.NoError(t, err)
	catalog, err := BuildCatalog(cfg, NewFlatRateCalculator())
	require.NoError(t, err)

	pickup, err := catalog.Methods.Get("pickup")
	require.NoError(t, err)
	services := pickup.Services()
	require.Len(t, services, 1)
	assert.True(t, services[0].PerKg.IsZero())
	assert.True(t, services[0].PerPackage.IsZero())
	assert.Equal(t, "USD", services[0].PerKg.CurrencyCode)
}

func TestBuildCatalog_Errors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{
			name: "unknown packager",
			yaml: `
shipping_methods:
  - id: flat_rate
    label: Flat rate
    packagers:
      - { id: robot }
`,
		},
		{
			name: "invalid money",
			yaml: `
shipping_methods:
  - id: flat_rate
    label: Flat rate
    services:
      - id: standard
        label: Standard
        base: { number: "5", currency_code: USD }
        per_kg: { number: "x", currency_code: USD }
`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := config.ParseCatalog([]byte(tt.yaml))
			if err == nil {
				_, err = BuildCatalog(cfg, NewFlatRateCalculator())
			}
			assert.Error(t, err)
		})
	}
}
