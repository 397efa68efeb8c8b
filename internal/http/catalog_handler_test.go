package http

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/guttosm/shipment-packaging/internal/domain/dto"
	"github.com/guttosm/shipment-packaging/internal/domain/model"
	"github.com/guttosm/shipment-packaging/internal/mocks"
)

func TestCatalogHandler_ListPackageTypes(t *testing.T) {
	tests := []struct {
		name     string
		query    string
		contains []string
		excludes []string
	}{
		{
			name:     "all package types",
			contains: []string{model.DefaultPackageTypeID, "small_box", "big_box", "envelope"},
		},
		{
			name:     "restricted types are listed for their shipping method",
			query:    "?shipping_method=flat_rate",
			contains: []string{"small_box", "envelope"},
		},
		{
			name:     "restricted types are hidden from other shipping methods",
			query:    "?shipping_method=pickup",
			contains: []string{"small_box", "big_box"},
			excludes: []string{"envelope"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newTestRouter(t, RouterConfig{ShipmentService: &mocks.MockShipmentService{}})

			w := serve(router, http.MethodGet, "/api/package-types"+tt.query, "", nil)

			require.Equal(t, http.StatusOK, w.Code)
			var defs map[string]model.PackageTypeDefinition
			decodeData(t, w, &defs)
			for _, id := range tt.contains {
				assert.Contains(t, defs, id)
			}
			for _, id := range tt.excludes {
				assert.NotContains(t, defs, id)
			}
		})
	}
}

func TestCatalogHandler_ListShippingMethods(t *testing.T) {
	router := newTestRouter(t, RouterConfig{ShipmentService: &mocks.MockShipmentService{}})

	w := serve(router, http.MethodGet, "/api/shipping-methods", "", nil)

	require.Equal(t, http.StatusOK, w.Code)
	var methods []dto.ShippingMethodResponse
	decodeData(t, w, &methods)
	require.Len(t, methods, 2)

	flat := methods[0]
	assert.Equal(t, "flat_rate", flat.ID)
	assert.Equal(t, "custom_box", flat.DefaultPackageType)
	require.Len(t, flat.Packagers, 2)
	assert.Equal(t, "manual", flat.Packagers[0].ID)
	assert.Equal(t, "all_in_one", flat.Packagers[1].ID)
	require.Len(t, flat.Services, 2)
	assert.Equal(t, "standard", flat.Services[0].ID)

	assert.Equal(t, "pickup", methods[1].ID)
}
