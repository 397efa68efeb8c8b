package service

import (
	"fmt"

	"github.com/guttosm/shipment-packaging/config"
	"github.com/guttosm/shipment-packaging/internal/domain/model"
)

// Catalog is the resolved static configuration: package types, products,
// packagers and shipping methods wired together.
type Catalog struct {
	PackageTypes *PackageTypeManager
	Products     *CatalogProductLookup
	Packagers    *PackagerRegistry
	Methods      *ShippingMethodRegistry
}

// BuildCatalog resolves cfg. Every shipping method prices through rates.
func BuildCatalog(cfg *config.Catalog, rates RateCalculator) (*Catalog, error) {
	types, err := cfg.ModelPackageTypes()
	if err != nil {
		return nil, err
	}
	packageTypes, err := NewPackageTypeManager(types)
	if err != nil {
		return nil, err
	}
	products, err := cfg.ModelProducts()
	if err != nil {
		return nil, err
	}
	lookup, err := NewCatalogProductLookup(products)
	if err != nil {
		return nil, err
	}
	packagers := NewPackagerRegistry(PackagerDeps{PackageTypes: packageTypes, Products: lookup})

	methods := make([]*ShippingMethod, 0, len(cfg.ShippingMethods))
	for _, spec := range cfg.ShippingMethods {
		def, err := methodDefinition(spec)
		if err != nil {
			return nil, err
		}
		method, err := NewShippingMethod(def, packageTypes, packagers, rates)
		if err != nil {
			return nil, err
		}
		methods = append(methods, method)
	}
	registry, err := NewShippingMethodRegistry(methods...)
	if err != nil {
		return nil, err
	}

	return &Catalog{
		PackageTypes: packageTypes,
		Products:     lookup,
		Packagers:    packagers,
		Methods:      registry,
	}, nil
}

func methodDefinition(spec config.ShippingMethodSpec) (ShippingMethodDefinition, error) {
	def := ShippingMethodDefinition{
		ID:                 spec.ID,
		Label:              spec.Label,
		DefaultPackageType: spec.DefaultPackageType,
	}
	for _, p := range spec.Packagers {
		def.Packagers = append(def.Packagers, PackagerSetting{ID: p.ID, Enabled: p.IsEnabled(), Weight: p.Weight})
	}
	for _, s := range spec.Services {
		rate, err := serviceRate(s)
		if err != nil {
			return ShippingMethodDefinition{}, fmt.Errorf("shipping method %s: %w", spec.ID, err)
		}
		def.Services = append(def.Services, rate)
	}
	return def, nil
}

// serviceRate converts a service spec. Missing per-kg and per-package
// charges are zero in the currency of the base charge.
func serviceRate(spec config.ServiceSpec) (ServiceRate, error) {
	base, err := spec.Base.ToModel()
	if err != nil {
		return ServiceRate{}, fmt.Errorf("service %s: %w", spec.ID, err)
	}
	rate := ServiceRate{
		Service:      model.ShippingService{ID: spec.ID, Label: spec.Label},
		Description:  spec.Description,
		Base:         base,
		PerKg:        model.ZeroMoney(base.CurrencyCode),
		PerPackage:   model.ZeroMoney(base.CurrencyCode),
		DeliveryDays: spec.DeliveryDays,
	}
	if spec.PerKg != nil {
		if rate.PerKg, err = spec.PerKg.ToModel(); err != nil {
			return ServiceRate{}, fmt.Errorf("service %s: %w", spec.ID, err)
		}
	}
	if spec.PerPackage != nil {
		if rate.PerPackage, err = spec.PerPackage.ToModel(); err != nil {
			return ServiceRate{}, fmt.Errorf("service %s: %w", spec.ID, err)
		}
	}
	return rate, nil
}
