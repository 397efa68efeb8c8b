package service

import (
	"context"
	"fmt"

	"github.com/guttosm/shipment-packaging/internal/domain/model"
)

// IndividualPackager ships every unit in its own package. Package titles are
// the package type label followed by the unit index within the line.
type IndividualPackager struct{}

// NewIndividualPackager creates the per-unit packager.
func NewIndividualPackager() *IndividualPackager {
	return &IndividualPackager{}
}

// ID implements Packager.
func (p *IndividualPackager) ID() string { return PackagerIndividual }

// Label implements Packager.
func (p *IndividualPackager) Label() string { return "Default: Each item in its own package" }

// PackageItems implements Packager.
func (p *IndividualPackager) PackageItems(ctx context.Context, shipment *model.Shipment, method *ShippingMethod) error {
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

	var (
		packages []*model.Package
		units    []model.ShipmentItem
	)
	for _, item := range shipment.Data.UnpackagedItems {
		split, err := item.SplitUnits()
		if err != nil {
			return err
		}
		for i, unit := range split {
			pkg := model.NewPackage(shipment.ID, packageType, fmt.Sprintf("%s-%d", packageType.Label, i))
			if err := pkg.AddItem(unit); err != nil {
				return err
			}
			packages = append(packages, pkg)
			units = append(units, unit)
		}
	}

	for _, pkg := range packages {
		shipment.AddPackage(pkg)
	}
	takePool(shipment)
	shipment.AppendPackagedItems(units...)
	return nil
}
