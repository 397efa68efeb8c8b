package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/guttosm/shipment-packaging/internal/domain/model"
)

func TestNewPackageTypeManager(t *testing.T) {
	tests := []struct {
		name    string
		types   []model.PackageType
		wantErr error
		wantIDs []string
	}{
		{
			name:    "adds the custom box",
			types:   []model.PackageType{{ID: "small", Label: "Small"}},
			wantIDs: []string{"custom_box", "small"},
		},
		{
			name:    "keeps a configured custom box",
			types:   []model.PackageType{{ID: "custom_box", Label: "Our box"}},
			wantIDs: []string{"custom_box"},
		},
		{
			name:    "rejects missing id",
			types:   []model.PackageType{{Label: "Nameless"}},
			wantErr: model.ErrValidation,
		},
		{
			name:    "rejects duplicates",
			types:   []model.PackageType{{ID: "a"}, {ID: "a"}},
			wantErr: model.ErrValidation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			manager, err := NewPackageTypeManager(tt.types)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantIDs, manager.IDs())
		})
	}
}

func TestPackageTypeManager_Definitions(t *testing.T) {
	manager := testPackageTypes(t)

	defs := manager.GetDefinitions()
	assert.Len(t, defs, 5)
	assert.Equal(t, "Big box", defs["big"].Label)

	flat := manager.GetDefinitionsByShippingMethod(testMethodID)
	assert.Contains(t, flat, "envelope")
	assert.Len(t, flat, 5)

	pickup := manager.GetDefinitionsByShippingMethod("pickup")
	assert.NotContains(t, pickup, "envelope")
	assert.Contains(t, pickup, model.DefaultPackageTypeID)
}

func TestPackageTypeManager_CreateInstance(t *testing.T) {
	manager := testPackageTypes(t)

	envelope, err := manager.CreateInstance("envelope")
	require.NoError(t, err)
	assert.True(t, envelope.Weight.Equal(model.MustWeight("40", model.Gram)))

	// Instances are copies.
	envelope.ShippingMethods[0] = "changed"
	again, err := manager.CreateInstance("envelope")
	require.NoError(t, err)
	assert.Equal(t, []string{testMethodID}, again.ShippingMethods)

	_, err = manager.CreateInstance("crate")
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestPackageTypeManager_List(t *testing.T) {
	manager := testPackageTypes(t)

	var ids []string
	for _, pt := range manager.List() {
		ids = append(ids, pt.ID)
	}
	assert.Equal(t, []string{"big", "small", "tared", "envelope", model.DefaultPackageTypeID}, ids)
}
