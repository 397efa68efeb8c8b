package service

import (
	"context"

	"github.com/guttosm/shipment-packaging/internal/domain/model"
)

// AllInOnePackager puts every unpackaged item into a single package of the
// shipping method's default package type.
type AllInOnePackager struct{}

// NewAllInOnePackager creates the all-in-one packager.
func NewAllInOnePackager() *AllInOnePackager {
	return &AllInOnePackager{}
}

// ID implements Packager.
func (p *AllInOnePackager) ID() string { return PackagerAllInOne }

// Label implements Packager.
func (p *AllInOnePackager) Label() string { return "Default: All items in one package" }

// PackageItems implements Packager.
func (p *AllInOnePackager) PackageItems(ctx context.Context, shipment *model.Shipment, method *ShippingMethod) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if len(shipment.Data.UnpackagedItems) == 0 {
		return nil
	}
	packageType := method.DefaultPackageType()
	if err := shipment.SetPackageType(packageType); err != nil {
		return err
	}

	pkg := model.NewPackage(shipment.ID, packageType, packageType.Label)
	items := shipment.Data.UnpackagedItems
	if err := pkg.SetItems(append([]model.ShipmentItem(nil), items...)); err != nil {
		return err
	}
	shipment.AddPackage(pkg)
	shipment.AppendPackagedItems(takePool(shipment)...)
	return nil
}
