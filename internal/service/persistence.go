package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/guttosm/shipment-packaging/internal/domain/model"
	"github.com/guttosm/shipment-packaging/internal/events"
	"github.com/guttosm/shipment-packaging/internal/logger"
	"github.com/guttosm/shipment-packaging/internal/repository"
)

// defaultWriteConcurrency bounds parallel package writes.
const defaultWriteConcurrency = 8

// shipmentPersistence loads and stores shipments together with their packages.
type shipmentPersistence struct {
	shipments   repository.ShipmentRepositoryInterface
	packages    repository.PackageRepositoryInterface
	publisher   events.Publisher
	concurrency int
}

func newShipmentPersistence(shipments repository.ShipmentRepositoryInterface, packages repository.PackageRepositoryInterface, publisher events.Publisher) *shipmentPersistence {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	return &shipmentPersistence{
		shipments:   shipments,
		packages:    packages,
		publisher:   publisher,
		concurrency: defaultWriteConcurrency,
	}
}

// load returns the shipment with its packages hydrated in reference order.
func (p *shipmentPersistence) load(ctx context.Context, id string) (*model.Shipment, error) {
	shipment, err := p.shipments.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load shipment %s: %w", id, err)
	}
	if shipment == nil {
		return nil, fmt.Errorf("%w: shipment %s", model.ErrNotFound, id)
	}
	packages, err := p.packages.FindByIDs(ctx, shipment.PackageIDs)
	if err != nil {
		return nil, fmt.Errorf("load packages of shipment %s: %w", id, err)
	}
	shipment.Packages = packages
	return shipment, nil
}

// savePackages writes packages concurrently. The first error cancels the rest.
func (p *shipmentPersistence) savePackages(ctx context.Context, packages []*model.Package) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.concurrency)
	for _, pkg := range packages {
		pkg := pkg
		g.Go(func() error {
			if err := p.packages.Save(gctx, pkg); err != nil {
				return fmt.Errorf("save package %s: %w", pkg.ID, err)
			}
			return nil
		})
	}
	return g.Wait()
}

// save writes the packages, then the shipment, then removes stale packages.
// Packages that reuse a persisted ID are written under a fresh one first, so
// stored package documents are never rewritten in place. The shipment save
// switches the references; a failure before it leaves the persisted shipment
// and its packages unchanged and only orphans the new documents.
func (p *shipmentPersistence) save(ctx context.Context, shipment *model.Shipment, stale []string) error {
	if len(stale) > 0 && len(shipment.Packages) > 0 {
		shipment.SetPackages(reissue(shipment.Packages, stale))
	}
	if err := p.savePackages(ctx, shipment.Packages); err != nil {
		return err
	}
	if err := p.shipments.Save(ctx, shipment); err != nil {
		return fmt.Errorf("save shipment %s: %w", shipment.ID, err)
	}
	p.deleteStale(ctx, shipment, stale)
	return nil
}

// reissue returns the packages with every ID found in persisted replaced by a
// new one. The input packages are not modified.
func reissue(packages []*model.Package, persisted []string) []*model.Package {
	out := make([]*model.Package, 0, len(packages))
	for _, pkg := range packages {
		if contains(persisted, pkg.ID) {
			pkg = pkg.Clone()
			pkg.ID = uuid.NewString()
		}
		out = append(out, pkg)
	}
	return out
}

// deleteStale removes packages no longer referenced. Failures only leave orphans.
func (p *shipmentPersistence) deleteStale(ctx context.Context, shipment *model.Shipment, stale []string) {
	var ids []string
	for _, id := range stale {
		if !contains(shipment.PackageIDs, id) {
			ids = append(ids, id)
		}
	}
	if len(ids) == 0 {
		return
	}
	if err := p.packages.DeleteMany(ctx, ids); err != nil {
		logger.Ctx(ctx).Warn().Err(err).
			Str("shipment_id", shipment.ID).
			Strs("package_ids", ids).
			Msg("failed to delete stale packages")
	}
}

// publish hands an event to the broker. Delivery failures are logged only,
// the state change has already been persisted.
func (p *shipmentPersistence) publish(ctx context.Context, event events.Event) {
	if err := p.publisher.Publish(ctx, event); err != nil {
		logger.Ctx(ctx).Warn().Err(err).
			Str("event_type", event.Type).
			Str("subject", event.Subject).
			Msg("failed to publish event")
	}
}

func contains(values []string, v string) bool {
	for _, candidate := range values {
		if candidate == v {
			return true
		}
	}
	return false
}
