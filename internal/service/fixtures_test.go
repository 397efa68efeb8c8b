package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/guttosm/shipment-packaging/internal/domain/model"
)

const (
	testOrderID   = "order-1"
	testMethodID  = "flat_rate"
	testProductID = "sku-d"
)

func testPackageTypes(t *testing.T) *PackageTypeManager {
	t.Helper()
	types, err := NewPackageTypeManager([]model.PackageType{
		{ID: "big", Label: "Big box", Weight: model.ZeroWeight(model.Gram)},
		{ID: "small", Label: "Small box", Weight: model.ZeroWeight(model.Gram)},
		{ID: "tared", Label: "Tared box", Weight: model.MustWeight("100", model.Gram)},
		{ID: "envelope", Label: "Envelope", Weight: model.MustWeight("40", model.Gram), ShippingMethods: []string{testMethodID}},
	})
	require.NoError(t, err)
	return types
}

func testProducts(t *testing.T) *CatalogProductLookup {
	t.Helper()
	weight := model.MustWeight("1", model.Kilogram)
	products, err := NewCatalogProductLookup([]model.Product{
		{
			ID:     testProductID,
			Title:  "Product D",
			Price:  model.MustMoney("1", "USD"),
			Weight: &weight,
			Packaging: []model.PackagingRule{
				{PackageTypeID: "small", Min: 5, Max: 9},
				{PackageTypeID: "big", Min: 10, Max: 20},
			},
		},
		{
			ID:     "sku-broken",
			Title:  "Broken rule",
			Price:  model.MustMoney("1", "USD"),
			Weight: &weight,
			Packaging: []model.PackagingRule{
				{PackageTypeID: "missing", Min: 1, Max: 2},
			},
		},
		{ID: "sku-loose", Title: "No rules", Price: model.MustMoney("1", "USD")},
	})
	require.NoError(t, err)
	return products
}

func testItem(t *testing.T, orderItemID string, quantity int, weightKg, value string) model.ShipmentItem {
	t.Helper()
	item, err := model.NewShipmentItem(orderItemID, "Item "+orderItemID, quantity, model.MustWeight(weightKg, model.Kilogram), model.MustMoney(value, "USD"))
	require.NoError(t, err)
	return item
}

func productItem(t *testing.T, orderItemID, productID string, quantity int, weightKg, value string) model.ShipmentItem {
	t.Helper()
	item := testItem(t, orderItemID, quantity, weightKg, value)
	item.PurchasedEntityID = productID
	return item
}

func testServices() []ServiceRate {
	return []ServiceRate{
		{
			Service:      model.ShippingService{ID: "standard", Label: "Standard"},
			Description:  "Five business days",
			Base:         model.MustMoney("5", "USD"),
			PerKg:        model.MustMoney("2", "USD"),
			PerPackage:   model.MustMoney("1", "USD"),
			DeliveryDays: 5,
		},
		{
			Service:      model.ShippingService{ID: "express", Label: "Express"},
			Base:         model.MustMoney("15", "USD"),
			PerKg:        model.MustMoney("3", "USD"),
			PerPackage:   model.ZeroMoney("USD"),
			DeliveryDays: 1,
		},
	}
}

func testMethodDefinition(id string, packagers ...PackagerSetting) ShippingMethodDefinition {
	return ShippingMethodDefinition{
		ID:                 id,
		Label:              "Flat rate",
		DefaultPackageType: "big",
		Services:           testServices(),
		Packagers:          packagers,
	}
}

type testEnv struct {
	packageTypes *PackageTypeManager
	products     *CatalogProductLookup
	packagers    *PackagerRegistry
	methods      *ShippingMethodRegistry
}

// newTestEnv registers flat_rate (manual then all-in-one), per_unit
// (individual) and no_packagers.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	env := &testEnv{
		packageTypes: testPackageTypes(t),
		products:     testProducts(t),
	}
	env.packagers = NewPackagerRegistry(PackagerDeps{PackageTypes: env.packageTypes, Products: env.products})

	defs := []ShippingMethodDefinition{
		testMethodDefinition(testMethodID,
			PackagerSetting{ID: PackagerAllInOne, Enabled: true, Weight: 10},
			PackagerSetting{ID: PackagerManual, Enabled: true, Weight: -10},
		),
		testMethodDefinition("per_unit", PackagerSetting{ID: PackagerIndividual, Enabled: true}),
		testMethodDefinition("no_packagers"),
	}
	methods := make([]*ShippingMethod, 0, len(defs))
	for _, def := range defs {
		methods = append(methods, env.method(t, def))
	}
	registry, err := NewShippingMethodRegistry(methods...)
	require.NoError(t, err)
	env.methods = registry
	return env
}

func (e *testEnv) method(t *testing.T, def ShippingMethodDefinition) *ShippingMethod {
	t.Helper()
	method, err := NewShippingMethod(def, e.packageTypes, e.packagers, NewFlatRateCalculator())
	require.NoError(t, err)
	return method
}

func newTestShipment(t *testing.T, methodID string, items ...model.ShipmentItem) *model.Shipment {
	t.Helper()
	shipment := model.NewShipment(testOrderID, "")
	shipment.ShippingMethodID = methodID
	require.NoError(t, shipment.SetItems(items))
	return shipment
}

// recordingPackager counts invocations and packages nothing.
type recordingPackager struct {
	calls int
	err   error
}

func (p *recordingPackager) ID() string    { return "recording" }
func (p *recordingPackager) Label() string { return "Recording" }

func (p *recordingPackager) PackageItems(context.Context, *model.Shipment, *ShippingMethod) error {
	p.calls++
	return p.err
}
