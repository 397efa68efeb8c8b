package repository

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/guttosm/shipment-packaging/internal/domain/model"
)

var testBox = model.PackageType{
	ID:     "small_box",
	Label:  "Small box",
	Weight: model.MustWeight("120", model.Gram),
}

func testShipment(t *testing.T, orderID string, createdAt time.Time) *model.Shipment {
	t.Helper()
	item, err := model.NewShipmentItem("42", "Coffee mug", 2, model.MustWeight("0.7", model.Kilogram), model.MustMoney("24.00", "USD"))
	require.NoError(t, err)

	shipment := model.NewShipment(orderID, "")
	shipment.ShippingMethodID = "flat_rate"
	shipment.CreatedAt = createdAt
	require.NoError(t, shipment.SetItems([]model.ShipmentItem{item}))

	pkg := model.NewPackage(shipment.ID, testBox, "")
	require.NoError(t, pkg.AddItem(item))
	shipment.AddPackage(pkg)
	shipment.SetUnpackagedItems(nil)
	return shipment
}
