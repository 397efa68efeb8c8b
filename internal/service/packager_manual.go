package service

import (
	"context"
	"fmt"

	"github.com/guttosm/shipment-packaging/internal/domain/model"
)

// ManualPackager packs items by the packaging rules of their products. Rules
// are tried largest maximum first. Full packages of a rule's maximum are
// filled while possible, and a remainder inside [min, max] closes the item.
// Whatever is left stays in the pool for the next packager.
type ManualPackager struct {
	packageTypes *PackageTypeManager
	products     ProductLookup
}

// NewManualPackager creates the rule based packager.
func NewManualPackager(packageTypes *PackageTypeManager, products ProductLookup) *ManualPackager {
	return &ManualPackager{
		packageTypes: packageTypes,
		products:     products,
	}
}

// ID implements Packager.
func (p *ManualPackager) ID() string { return PackagerManual }

// Label implements Packager.
func (p *ManualPackager) Label() string { return "Manual: Package by product packaging rules" }

// PackageItems implements Packager.
func (p *ManualPackager) PackageItems(ctx context.Context, shipment *model.Shipment, _ *ShippingMethod) error {
	if p.products == nil || p.packageTypes == nil {
		return nil
	}

	var (
		remaining []model.ShipmentItem
		packaged  []model.ShipmentItem
		packages  []*model.Package
	)
	for _, item := range shipment.Data.UnpackagedItems {
		if err := ctx.Err(); err != nil {
			return err
		}
		product, err := p.products.PurchasedEntity(ctx, item)
		if err != nil {
			return fmt.Errorf("resolve product for item %s: %w", item.ID, err)
		}
		if !product.Packageable() {
			remaining = append(remaining, item)
			continue
		}

		parts, leftover, err := p.packageItem(item, product.Packaging)
		if err != nil {
			return err
		}
		for _, part := range parts {
			packages = append(packages, part.pkg)
			packaged = append(packaged, part.item)
		}
		if leftover != nil {
			remaining = append(remaining, *leftover)
		}
	}

	for _, pkg := range packages {
		shipment.AddPackage(pkg)
	}
	shipment.SetUnpackagedItems(remaining)
	shipment.AppendPackagedItems(packaged...)
	return nil
}

type packagedPart struct {
	pkg  *model.Package
	item model.ShipmentItem
}

// packageItem applies rules to one item. leftover is nil when every unit was packaged.
func (p *ManualPackager) packageItem(item model.ShipmentItem, rules []model.PackagingRule) ([]packagedPart, *model.ShipmentItem, error) {
	if err := model.ValidateRules(rules); err != nil {
		return nil, nil, err
	}
	var parts []packagedPart
	quantity := item.Quantity

	for _, rule := range model.SortRules(rules) {
		if quantity == 0 {
			break
		}
		packageType, err := p.packageTypes.CreateInstance(rule.PackageTypeID)
		if err != nil {
			return nil, nil, err
		}
		for quantity >= rule.Max {
			part, err := newRulePart(item, packageType, rule.Max)
			if err != nil {
				return nil, nil, err
			}
			parts = append(parts, part)
			quantity -= rule.Max
		}
		if quantity > 0 && quantity >= rule.Min && quantity <= rule.Max {
			part, err := newRulePart(item, packageType, quantity)
			if err != nil {
				return nil, nil, err
			}
			parts = append(parts, part)
			quantity = 0
		}
	}

	switch {
	case quantity == 0:
		return parts, nil, nil
	case quantity == item.Quantity:
		return parts, &item, nil
	default:
		leftover, err := item.WithQuantity(quantity)
		if err != nil {
			return nil, nil, err
		}
		return parts, &leftover, nil
	}
}

func newRulePart(item model.ShipmentItem, packageType model.PackageType, quantity int) (packagedPart, error) {
	unit, err := item.Split(quantity)
	if err != nil {
		return packagedPart{}, err
	}
	pkg := model.NewPackage("", packageType, packageType.Label)
	if err := pkg.AddItem(unit); err != nil {
		return packagedPart{}, err
	}
	return packagedPart{pkg: pkg, item: unit}, nil
}
