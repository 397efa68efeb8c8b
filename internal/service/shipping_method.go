package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/guttosm/shipment-packaging/internal/domain/model"
	"github.com/guttosm/shipment-packaging/internal/logger"
	"github.com/guttosm/shipment-packaging/internal/metrics"
)

// ServiceRate is one flat-rate service level of a shipping method.
type ServiceRate struct {
	Service      model.ShippingService
	Description  string
	Base         model.Money
	PerKg        model.Money
	PerPackage   model.Money
	DeliveryDays int
}

// PackagerSetting enables a packager on a shipping method. Lower weights run first.
type PackagerSetting struct {
	ID      string
	Enabled bool
	Weight  int
}

// ShippingMethodDefinition is the configuration of a shipping method.
type ShippingMethodDefinition struct {
	ID                 string
	Label              string
	DefaultPackageType string
	Services           []ServiceRate
	Packagers          []PackagerSetting
}

// ShippingMethod packages shipments with an ordered packager chain and prices
// them through a RateCalculator.
type ShippingMethod struct {
	id                 string
	label              string
	defaultPackageType model.PackageType
	services           []ServiceRate
	packagers          []Packager
	rates              RateCalculator
}

// NewShippingMethod resolves a definition against the package type and
// packager registries. Enabled packagers are ordered by weight; equal weights
// keep their configured order.
func NewShippingMethod(def ShippingMethodDefinition, types *PackageTypeManager, packagers *PackagerRegistry, rates RateCalculator) (*ShippingMethod, error) {
	if def.ID == "" {
		return nil, fmt.Errorf("%w: shipping method without id", model.ErrValidation)
	}
	packageTypeID := def.DefaultPackageType
	if packageTypeID == "" {
		packageTypeID = model.DefaultPackageTypeID
	}
	packageType, err := types.CreateInstance(packageTypeID)
	if err != nil {
		return nil, fmt.Errorf("shipping method %s: %w", def.ID, err)
	}

	settings := make([]PackagerSetting, 0, len(def.Packagers))
	for _, setting := range def.Packagers {
		if setting.Enabled {
			settings = append(settings, setting)
		}
	}
	sort.SliceStable(settings, func(i, j int) bool {
		return settings[i].Weight < settings[j].Weight
	})

	chain := make([]Packager, 0, len(settings))
	for _, setting := range settings {
		packager, err := packagers.Get(setting.ID)
		if err != nil {
			return nil, fmt.Errorf("shipping method %s: %w", def.ID, err)
		}
		chain = append(chain, packager)
	}

	return &ShippingMethod{
		id:                 def.ID,
		label:              def.Label,
		defaultPackageType: packageType,
		services:           append([]ServiceRate(nil), def.Services...),
		packagers:          chain,
		rates:              rates,
	}, nil
}

// ID returns the method id.
func (m *ShippingMethod) ID() string { return m.id }

// Label returns the display label.
func (m *ShippingMethod) Label() string { return m.label }

// DefaultPackageType returns a copy of the default package type.
func (m *ShippingMethod) DefaultPackageType() model.PackageType {
	pt := m.defaultPackageType
	pt.ShippingMethods = append([]string(nil), m.defaultPackageType.ShippingMethods...)
	return pt
}

// Services returns the configured service levels.
func (m *ShippingMethod) Services() []ServiceRate {
	return append([]ServiceRate(nil), m.services...)
}

// Packagers returns the enabled packagers in execution order.
func (m *ShippingMethod) Packagers() []Packager {
	return append([]Packager(nil), m.packagers...)
}

// PackageShipment runs the packager chain on a copy of shipment and applies
// the result only when every packager succeeded. The chain stops as soon as
// the pool is empty. Afterwards the shipment items are the remaining pool
// followed by everything packaged.
func (m *ShippingMethod) PackageShipment(ctx context.Context, shipment *model.Shipment) error {
	if len(m.packagers) == 0 {
		return nil
	}
	work := shipment.Clone()
	work.SeedUnpackagedItems()
	if len(work.Data.UnpackagedItems) == 0 {
		return nil
	}

	start := time.Now()
	for _, packager := range m.packagers {
		if len(work.Data.UnpackagedItems) == 0 {
			break
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		before := len(work.Packages)
		if err := packager.PackageItems(ctx, work, m); err != nil {
			metrics.RecordPackagerRun(packager.ID(), "error", 0)
			return fmt.Errorf("packager %s: %w", packager.ID(), err)
		}
		created := len(work.Packages) - before
		metrics.RecordPackagerRun(packager.ID(), "success", created)
		logger.Ctx(ctx).Debug().
			Str("shipment_id", work.ID).
			Str("packager", packager.ID()).
			Int("packages_created", created).
			Int("unpackaged", len(work.Data.UnpackagedItems)).
			Msg("packager finished")
	}

	items := make([]model.ShipmentItem, 0, len(work.Data.UnpackagedItems)+len(work.Data.PackagedItems))
	items = append(items, work.Data.UnpackagedItems...)
	items = append(items, work.Data.PackagedItems...)
	if err := work.SetItems(items); err != nil {
		return fmt.Errorf("reconcile shipment items: %w", err)
	}

	*shipment = *work
	metrics.RecordPackaging(m.id, time.Since(start))
	return nil
}

// CalculateRates prices the shipment for every service of the method.
func (m *ShippingMethod) CalculateRates(ctx context.Context, shipment *model.Shipment) ([]model.ShippingRate, error) {
	if m.rates == nil {
		return []model.ShippingRate{}, nil
	}
	return m.rates.CalculateRates(ctx, m, shipment)
}

// SelectRate applies rate to the shipment.
func (m *ShippingMethod) SelectRate(shipment *model.Shipment, rate model.ShippingRate) error {
	if rate.ShippingMethodID != m.id {
		return fmt.Errorf("%w: rate %s belongs to shipping method %q", model.ErrInvalidArgument, rate.ID, rate.ShippingMethodID)
	}
	shipment.SelectRate(rate)
	return nil
}

// ShippingMethodRegistry is the read-only set of configured shipping methods.
type ShippingMethodRegistry struct {
	methods map[string]*ShippingMethod
	order   []string
}

// NewShippingMethodRegistry indexes methods by id.
func NewShippingMethodRegistry(methods ...*ShippingMethod) (*ShippingMethodRegistry, error) {
	r := &ShippingMethodRegistry{methods: make(map[string]*ShippingMethod, len(methods))}
	for _, method := range methods {
		if _, dup := r.methods[method.ID()]; dup {
			return nil, fmt.Errorf("%w: duplicate shipping method %q", model.ErrValidation, method.ID())
		}
		r.methods[method.ID()] = method
		r.order = append(r.order, method.ID())
	}
	return r, nil
}

// Get returns the method with id.
func (r *ShippingMethodRegistry) Get(id string) (*ShippingMethod, error) {
	method, ok := r.methods[id]
	if !ok {
		return nil, fmt.Errorf("%w: shipping method %q", model.ErrNotFound, id)
	}
	return method, nil
}

// List returns the methods in configuration order.
func (r *ShippingMethodRegistry) List() []*ShippingMethod {
	out := make([]*ShippingMethod, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.methods[id])
	}
	return out
}
