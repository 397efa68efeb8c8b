package service

import (
	"context"
	"fmt"

	"github.com/guttosm/shipment-packaging/internal/domain/model"
	"github.com/guttosm/shipment-packaging/internal/events"
	"github.com/guttosm/shipment-packaging/internal/logger"
	"github.com/guttosm/shipment-packaging/internal/repository"
)

// ShipmentService manages the lifecycle of shipments and their packaging.
type ShipmentService interface {
	// Create builds a shipment from a proposal, packages it and saves it.
	Create(ctx context.Context, proposal model.ProposedShipment) (*model.Shipment, error)
	// Get returns a shipment with its packages.
	Get(ctx context.Context, id string) (*model.Shipment, error)
	// ListByOrder returns the shipments of an order with their packages.
	ListByOrder(ctx context.Context, orderID string) ([]*model.Shipment, error)
	// UpdateItems replaces the items. Any prior packaging is discarded.
	UpdateItems(ctx context.Context, id string, items []model.ShipmentItem) (*model.Shipment, error)
	// Repackage drops all packages and runs the packager chain again.
	Repackage(ctx context.Context, id string) (*model.Shipment, error)
	// CalculateRates prices the shipment with its shipping method.
	CalculateRates(ctx context.Context, id string) ([]model.ShippingRate, error)
	// SelectRate applies the rate of serviceID to the shipment.
	SelectRate(ctx context.Context, id, serviceID string) (*model.Shipment, error)
	// Delete removes the shipment and its packages.
	Delete(ctx context.Context, id string) error
	// MarkNeedsRepackage flags packaged shipments of an order containing the order item.
	MarkNeedsRepackage(ctx context.Context, orderID, orderItemID string) (int, error)
}

// ShipmentServiceImpl implements ShipmentService.
type ShipmentServiceImpl struct {
	store        *shipmentPersistence
	methods      *ShippingMethodRegistry
	packageTypes *PackageTypeManager
}

// NewShipmentService creates a new shipment service. publisher may be nil.
func NewShipmentService(
	shipments repository.ShipmentRepositoryInterface,
	packages repository.PackageRepositoryInterface,
	methods *ShippingMethodRegistry,
	packageTypes *PackageTypeManager,
	publisher events.Publisher,
) ShipmentService {
	return &ShipmentServiceImpl{
		store:        newShipmentPersistence(shipments, packages, publisher),
		methods:      methods,
		packageTypes: packageTypes,
	}
}

// Create implements ShipmentService.
func (s *ShipmentServiceImpl) Create(ctx context.Context, proposal model.ProposedShipment) (*model.Shipment, error) {
	shipment, method, err := shipmentFromProposal(s.methods, s.packageTypes, proposal)
	if err != nil {
		return nil, err
	}
	if err := shipment.Validate(); err != nil {
		return nil, err
	}
	if err := method.PackageShipment(ctx, shipment); err != nil {
		return nil, err
	}
	if err := s.store.save(ctx, shipment, nil); err != nil {
		return nil, err
	}

	logger.Ctx(ctx).Info().
		Str("shipment_id", shipment.ID).
		Str("order_id", shipment.OrderID).
		Str("shipping_method", method.ID()).
		Int("packages", len(shipment.Packages)).
		Int("unpackaged", len(shipment.Data.UnpackagedItems)).
		Msg("shipment created")
	s.store.publish(ctx, events.ShipmentPackaged(shipment, "create"))
	return shipment, nil
}

// shipmentFromProposal builds an unsaved shipment and resolves its shipping method.
func shipmentFromProposal(methods *ShippingMethodRegistry, packageTypes *PackageTypeManager, proposal model.ProposedShipment) (*model.Shipment, *ShippingMethod, error) {
	if proposal.ShippingMethodID == "" {
		return nil, nil, fmt.Errorf("%w: shipping method is required", model.ErrValidation)
	}
	method, err := methods.Get(proposal.ShippingMethodID)
	if err != nil {
		return nil, nil, err
	}
	var packageType *model.PackageType
	if proposal.PackageTypeID != "" {
		pt, err := packageTypes.CreateInstance(proposal.PackageTypeID)
		if err != nil {
			return nil, nil, err
		}
		packageType = &pt
	}

	shipment := model.NewShipment(proposal.OrderID, proposal.Type)
	if err := shipment.PopulateFromProposed(proposal, packageType); err != nil {
		return nil, nil, err
	}
	return shipment, method, nil
}

// Get implements ShipmentService.
func (s *ShipmentServiceImpl) Get(ctx context.Context, id string) (*model.Shipment, error) {
	return s.store.load(ctx, id)
}

// ListByOrder implements ShipmentService.
func (s *ShipmentServiceImpl) ListByOrder(ctx context.Context, orderID string) ([]*model.Shipment, error) {
	shipments, err := s.store.shipments.FindByOrder(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("list shipments of order %s: %w", orderID, err)
	}
	for _, shipment := range shipments {
		packages, err := s.store.packages.FindByIDs(ctx, shipment.PackageIDs)
		if err != nil {
			return nil, fmt.Errorf("load packages of shipment %s: %w", shipment.ID, err)
		}
		shipment.Packages = packages
	}
	if shipments == nil {
		shipments = []*model.Shipment{}
	}
	return shipments, nil
}

// UpdateItems implements ShipmentService.
func (s *ShipmentServiceImpl) UpdateItems(ctx context.Context, id string, items []model.ShipmentItem) (*model.Shipment, error) {
	shipment, err := s.store.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := shipment.SetItems(items); err != nil {
		return nil, err
	}
	stale := shipment.ResetPackagingData()
	if err := shipment.Validate(); err != nil {
		return nil, err
	}
	if err := s.store.save(ctx, shipment, stale); err != nil {
		return nil, err
	}
	logger.Ctx(ctx).Info().
		Str("shipment_id", shipment.ID).
		Int("items", len(shipment.Items)).
		Int("packages_removed", len(stale)).
		Msg("shipment items updated, packaging reset")
	return shipment, nil
}

// Repackage implements ShipmentService.
func (s *ShipmentServiceImpl) Repackage(ctx context.Context, id string) (*model.Shipment, error) {
	shipment, err := s.store.load(ctx, id)
	if err != nil {
		return nil, err
	}
	method, err := s.methods.Get(shipment.ShippingMethodID)
	if err != nil {
		return nil, err
	}
	stale := shipment.ResetPackagingData()
	if err := method.PackageShipment(ctx, shipment); err != nil {
		return nil, err
	}
	if err := s.store.save(ctx, shipment, stale); err != nil {
		return nil, err
	}
	logger.Ctx(ctx).Info().
		Str("shipment_id", shipment.ID).
		Int("packages", len(shipment.Packages)).
		Int("packages_removed", len(stale)).
		Msg("shipment repackaged")
	s.store.publish(ctx, events.ShipmentPackaged(shipment, "repackage"))
	return shipment, nil
}

// CalculateRates implements ShipmentService.
func (s *ShipmentServiceImpl) CalculateRates(ctx context.Context, id string) ([]model.ShippingRate, error) {
	shipment, err := s.store.load(ctx, id)
	if err != nil {
		return nil, err
	}
	method, err := s.methods.Get(shipment.ShippingMethodID)
	if err != nil {
		return nil, err
	}
	return method.CalculateRates(ctx, shipment)
}

// SelectRate implements ShipmentService.
func (s *ShipmentServiceImpl) SelectRate(ctx context.Context, id, serviceID string) (*model.Shipment, error) {
	shipment, err := s.store.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := selectServiceRate(ctx, s.methods, shipment, serviceID); err != nil {
		return nil, err
	}
	if err := s.store.shipments.Save(ctx, shipment); err != nil {
		return nil, fmt.Errorf("save shipment %s: %w", shipment.ID, err)
	}
	return shipment, nil
}

// Delete implements ShipmentService.
func (s *ShipmentServiceImpl) Delete(ctx context.Context, id string) error {
	shipment, err := s.store.shipments.FindByID(ctx, id)
	if err != nil {
		return fmt.Errorf("load shipment %s: %w", id, err)
	}
	if shipment == nil {
		return fmt.Errorf("%w: shipment %s", model.ErrNotFound, id)
	}
	if err := s.store.shipments.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete shipment %s: %w", id, err)
	}

	ids := append([]string(nil), shipment.PackageIDs...)
	orphans, err := s.store.packages.FindByShipment(ctx, id)
	if err != nil {
		return fmt.Errorf("find packages of shipment %s: %w", id, err)
	}
	for _, pkg := range orphans {
		if !contains(ids, pkg.ID) {
			ids = append(ids, pkg.ID)
		}
	}
	if err := s.store.packages.DeleteMany(ctx, ids); err != nil {
		return fmt.Errorf("delete packages of shipment %s: %w", id, err)
	}

	logger.Ctx(ctx).Info().Str("shipment_id", id).Int("packages_removed", len(ids)).Msg("shipment deleted")
	s.store.publish(ctx, events.NewEvent(events.TypeShipmentDeleted, id, shipment.OrderID, map[string]interface{}{
		"shipment_id": id,
		"package_ids": ids,
	}))
	return nil
}

// MarkNeedsRepackage implements ShipmentService.
func (s *ShipmentServiceImpl) MarkNeedsRepackage(ctx context.Context, orderID, orderItemID string) (int, error) {
	shipments, err := s.store.shipments.FindByOrder(ctx, orderID)
	if err != nil {
		return 0, fmt.Errorf("list shipments of order %s: %w", orderID, err)
	}
	marked := 0
	for _, shipment := range shipments {
		if !shipment.HasPackages() || !shipment.HasOrderItem(orderItemID) || shipment.Data.NeedsRepackage {
			continue
		}
		shipment.Data.NeedsRepackage = true
		if err := s.store.shipments.Save(ctx, shipment); err != nil {
			return marked, fmt.Errorf("save shipment %s: %w", shipment.ID, err)
		}
		marked++
	}
	if marked > 0 {
		logger.Ctx(ctx).Info().
			Str("order_id", orderID).
			Str("order_item_id", orderItemID).
			Int("shipments", marked).
			Msg("shipments flagged for repackaging")
	}
	return marked, nil
}

// selectServiceRate prices shipment with its method and applies the rate of serviceID.
func selectServiceRate(ctx context.Context, methods *ShippingMethodRegistry, shipment *model.Shipment, serviceID string) error {
	method, err := methods.Get(shipment.ShippingMethodID)
	if err != nil {
		return err
	}
	rates, err := method.CalculateRates(ctx, shipment)
	if err != nil {
		return err
	}
	for _, rate := range rates {
		if rate.Service.ID == serviceID {
			return method.SelectRate(shipment, rate)
		}
	}
	return fmt.Errorf("%w: service %q for shipping method %s", model.ErrNotFound, serviceID, method.ID())
}
