package service

import (
	"context"
	"fmt"
	"sort"

	"github.com/guttosm/shipment-packaging/internal/domain/model"
)

// Built-in packager ids.
const (
	PackagerAllInOne   = "all_in_one"
	PackagerIndividual = "individual"
	PackagerManual     = "manual"
)

// Packager distributes the unpackaged items of a shipment into packages.
//
// Implementations read and rewrite only Data.UnpackagedItems,
// Data.PackagedItems and Packages. Items that cannot be packaged are left in
// the pool rather than reported as errors.
type Packager interface {
	ID() string
	Label() string
	PackageItems(ctx context.Context, shipment *model.Shipment, method *ShippingMethod) error
}

// ProductLookup resolves the purchasable entity behind a shipment item. It
// returns nil when the item references no known product.
type ProductLookup interface {
	PurchasedEntity(ctx context.Context, item model.ShipmentItem) (*model.Product, error)
}

// PackagerDeps are the collaborators available to packager factories.
type PackagerDeps struct {
	PackageTypes *PackageTypeManager
	Products     ProductLookup
}

// PackagerFactory builds a packager from its dependencies.
type PackagerFactory func(deps PackagerDeps) Packager

// PackagerRegistry maps packager ids to factories.
type PackagerRegistry struct {
	deps      PackagerDeps
	factories map[string]PackagerFactory
}

// NewPackagerRegistry returns a registry with the built-in packagers.
func NewPackagerRegistry(deps PackagerDeps) *PackagerRegistry {
	r := &PackagerRegistry{
		deps:      deps,
		factories: make(map[string]PackagerFactory),
	}
	r.Register(PackagerAllInOne, func(PackagerDeps) Packager { return NewAllInOnePackager() })
	r.Register(PackagerIndividual, func(PackagerDeps) Packager { return NewIndividualPackager() })
	r.Register(PackagerManual, func(d PackagerDeps) Packager { return NewManualPackager(d.PackageTypes, d.Products) })
	return r
}

// Register adds or replaces a factory.
func (r *PackagerRegistry) Register(id string, factory PackagerFactory) {
	r.factories[id] = factory
}

// Get builds the packager registered under id.
func (r *PackagerRegistry) Get(id string) (Packager, error) {
	factory, ok := r.factories[id]
	if !ok {
		return nil, fmt.Errorf("%w: packager %q", model.ErrNotFound, id)
	}
	return factory(r.deps), nil
}

// IDs returns the registered ids in sorted order.
func (r *PackagerRegistry) IDs() []string {
	ids := make([]string, 0, len(r.factories))
	for id := range r.factories {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// takePool empties the pool and returns its previous contents.
func takePool(shipment *model.Shipment) []model.ShipmentItem {
	pool := shipment.Data.UnpackagedItems
	shipment.SetUnpackagedItems([]model.ShipmentItem{})
	return pool
}
