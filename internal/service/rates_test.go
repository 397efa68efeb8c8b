package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/guttosm/shipment-packaging/internal/domain/model"
)

func TestFlatRateCalculator_CalculateRates(t *testing.T) {
	env := newTestEnv(t)
	method, err := env.methods.Get(testMethodID)
	require.NoError(t, err)

	tests := []struct {
		name         string
		build        func(t *testing.T) *model.Shipment
		wantStandard string
		wantExpress  string
	}{
		{
			name: "unpackaged shipment counts as one parcel",
			build: func(t *testing.T) *model.Shipment {
				return newTestShipment(t, testMethodID, testItem(t, "A", 1, "4", "10"))
			},
			// 5 + 2*4 + 1*1, 15 + 3*4
			wantStandard: "14",
			wantExpress:  "27",
		},
		{
			name: "hydrated packages",
			build: func(t *testing.T) *model.Shipment {
				shipment := newTestShipment(t, "per_unit", testItem(t, "C", 3, "3", "9"))
				per, err := env.methods.Get("per_unit")
				require.NoError(t, err)
				require.NoError(t, per.PackageShipment(context.Background(), shipment))
				return shipment
			},
			// 5 + 2*3 + 1*3, 15 + 3*3
			wantStandard: "14",
			wantExpress:  "24",
		},
		{
			name: "package references only",
			build: func(t *testing.T) *model.Shipment {
				item, err := model.NewShipmentItem("A", "Grams", 1, model.MustWeight("500", model.Gram), model.MustMoney("10", "USD"))
				require.NoError(t, err)
				shipment := newTestShipment(t, testMethodID, item)
				shipment.PackageIDs = []string{"p1", "p2"}
				return shipment
			},
			// 5 + 2*0.5 + 1*2, 15 + 3*0.5
			wantStandard: "8",
			wantExpress:  "16.5",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rates, err := NewFlatRateCalculator().CalculateRates(context.Background(), method, tt.build(t))
			require.NoError(t, err)
			require.Len(t, rates, 2)

			assert.Equal(t, "flat_rate--standard", rates[0].ID)
			assert.Equal(t, testMethodID, rates[0].ShippingMethodID)
			assert.Equal(t, "standard", rates[0].Service.ID)
			assert.Equal(t, 5, rates[0].DeliveryDays)
			assert.True(t, rates[0].Amount.Equal(model.MustMoney(tt.wantStandard, "USD")), "standard %s", rates[0].Amount)

			assert.Equal(t, "flat_rate--express", rates[1].ID)
			assert.True(t, rates[1].Amount.Equal(model.MustMoney(tt.wantExpress, "USD")), "express %s", rates[1].Amount)
		})
	}
}

func TestFlatRateCalculator_Errors(t *testing.T) {
	env := newTestEnv(t)
	method, err := env.methods.Get(testMethodID)
	require.NoError(t, err)

	t.Run("shipment without weight", func(t *testing.T) {
		shipment := model.NewShipment(testOrderID, "")
		_, err := NewFlatRateCalculator().CalculateRates(context.Background(), method, shipment)
		assert.ErrorIs(t, err, model.ErrConsistency)
	})

	t.Run("canceled context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		shipment := newTestShipment(t, testMethodID, testItem(t, "A", 1, "1", "1"))
		_, err := NewFlatRateCalculator().CalculateRates(ctx, method, shipment)
		assert.ErrorIs(t, err, context.Canceled)
	})

	t.Run("currency mismatch between base and per kg", func(t *testing.T) {
		def := testMethodDefinition("mixed")
		def.Services = []ServiceRate{{
			Service:    model.ShippingService{ID: "standard"},
			Base:       model.MustMoney("5", "USD"),
			PerKg:      model.MustMoney("1", "EUR"),
			PerPackage: model.ZeroMoney("USD"),
		}}
		mixed := env.method(t, def)
		shipment := newTestShipment(t, "mixed", testItem(t, "A", 1, "1", "1"))
		_, err := NewFlatRateCalculator().CalculateRates(context.Background(), mixed, shipment)
		assert.ErrorIs(t, err, model.ErrCurrencyMismatch)
	})
}

func TestShippingMethod_CalculateRates_WithoutCalculator(t *testing.T) {
	env := newTestEnv(t)
	method, err := NewShippingMethod(testMethodDefinition("bare"), env.packageTypes, env.packagers, nil)
	require.NoError(t, err)

	rates, err := method.CalculateRates(context.Background(), newTestShipment(t, "bare", testItem(t, "A", 1, "1", "1")))
	require.NoError(t, err)
	assert.Empty(t, rates)
}
