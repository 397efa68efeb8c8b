package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/guttosm/shipment-packaging/internal/domain/model"
	"github.com/guttosm/shipment-packaging/internal/events"
	"github.com/guttosm/shipment-packaging/internal/logger"
	"github.com/guttosm/shipment-packaging/internal/metrics"
	"github.com/guttosm/shipment-packaging/internal/repository"
)

// Builder operation names used for metrics and logs.
const (
	BuilderOpOpen          = "open"
	BuilderOpAddPackage    = "add_package"
	BuilderOpRemovePackage = "remove_package"
	BuilderOpMoveItem      = "move_item"
	BuilderOpCommit        = "commit"
	BuilderOpDiscard       = "discard"
)

// BuilderService stages interactive packaging edits per user. Nothing is
// persisted to the shipment until Commit.
type BuilderService interface {
	// Open returns the session for key, creating it when absent. seed is
	// required when key addresses a shipment that does not exist yet.
	Open(ctx context.Context, key model.SessionKey, seed *model.ProposedShipment) (*model.BuilderSession, error)
	Get(ctx context.Context, key model.SessionKey) (*model.BuilderSession, error)
	// AddPackage appends an empty package. An empty packageTypeID uses the
	// shipping method default.
	AddPackage(ctx context.Context, key model.SessionKey, packageTypeID string) (*model.BuilderSession, error)
	RemovePackage(ctx context.Context, key model.SessionKey, index int) (*model.BuilderSession, error)
	MoveItem(ctx context.Context, key model.SessionKey, itemKey string, from, to model.Container) (*model.BuilderSession, error)
	// Commit persists the staged packaging and closes the session.
	Commit(ctx context.Context, key model.SessionKey) (*model.Shipment, error)
	// Discard drops the session. Discarding a missing session is not an error.
	Discard(ctx context.Context, key model.SessionKey) error
}

// BuilderServiceImpl implements BuilderService on top of a TransientStore.
type BuilderServiceImpl struct {
	sessions     TransientStore
	store        *shipmentPersistence
	methods      *ShippingMethodRegistry
	packageTypes *PackageTypeManager
	locks        *keyedMutex
}

// NewBuilderService creates a new builder service. publisher may be nil.
func NewBuilderService(
	sessions TransientStore,
	shipments repository.ShipmentRepositoryInterface,
	packages repository.PackageRepositoryInterface,
	methods *ShippingMethodRegistry,
	packageTypes *PackageTypeManager,
	publisher events.Publisher,
) BuilderService {
	return &BuilderServiceImpl{
		sessions:     sessions,
		store:        newShipmentPersistence(shipments, packages, publisher),
		methods:      methods,
		packageTypes: packageTypes,
		locks:        newKeyedMutex(),
	}
}

func validateKey(key model.SessionKey) error {
	if key.OrderID == "" {
		return fmt.Errorf("%w: session requires an order id", model.ErrValidation)
	}
	if key.UserID == "" {
		return fmt.Errorf("%w: session requires a user id", model.ErrValidation)
	}
	return nil
}

// Open implements BuilderService.
func (s *BuilderServiceImpl) Open(ctx context.Context, key model.SessionKey, seed *model.ProposedShipment) (session *model.BuilderSession, err error) {
	defer func() { metrics.RecordBuilderOperation(BuilderOpOpen, err) }()
	if err := validateKey(key); err != nil {
		return nil, err
	}
	release := s.locks.Lock(key.String())
	defer release()

	existing, err := s.load(ctx, key)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}

	if key.IsNew() {
		session, err = s.newSession(key, seed)
	} else {
		session, err = s.sessionFromShipment(ctx, key)
	}
	if err != nil {
		return nil, err
	}
	if err := s.save(ctx, key, session); err != nil {
		return nil, err
	}

	logger.Ctx(ctx).Info().
		Str("session", key.String()).
		Str("shipment_id", session.Shipment.ID).
		Int("packages", len(session.Packages)).
		Int("unpackaged", len(session.Unpackaged())).
		Msg("builder session opened")
	return session, nil
}

func (s *BuilderServiceImpl) newSession(key model.SessionKey, seed *model.ProposedShipment) (*model.BuilderSession, error) {
	if seed == nil {
		return nil, fmt.Errorf("%w: a new shipment requires a proposed shipment", model.ErrValidation)
	}
	proposal := *seed
	if proposal.OrderID == "" {
		proposal.OrderID = key.OrderID
	}
	if proposal.OrderID != key.OrderID {
		return nil, fmt.Errorf("%w: proposed shipment belongs to order %s", model.ErrInvalidArgument, proposal.OrderID)
	}
	shipment, _, err := shipmentFromProposal(s.methods, s.packageTypes, proposal)
	if err != nil {
		return nil, err
	}
	if err := shipment.Validate(); err != nil {
		return nil, err
	}
	shipment.SeedUnpackagedItems()
	return &model.BuilderSession{
		OrderID:    key.OrderID,
		ShipmentID: model.NewShipmentID,
		UserID:     key.UserID,
		Shipment:   shipment,
		Packages:   []*model.Package{},
	}, nil
}

func (s *BuilderServiceImpl) sessionFromShipment(ctx context.Context, key model.SessionKey) (*model.BuilderSession, error) {
	shipment, err := s.store.load(ctx, key.ShipmentID)
	if err != nil {
		return nil, err
	}
	if shipment.OrderID != key.OrderID {
		return nil, fmt.Errorf("%w: shipment %s in order %s", model.ErrNotFound, key.ShipmentID, key.OrderID)
	}
	packages := shipment.Packages
	if packages == nil {
		packages = []*model.Package{}
	}
	shipment.Packages = []*model.Package{}
	shipment.SeedUnpackagedItems()
	return &model.BuilderSession{
		OrderID:    key.OrderID,
		ShipmentID: shipment.ID,
		UserID:     key.UserID,
		Shipment:   shipment,
		Packages:   packages,
	}, nil
}

// Get implements BuilderService.
func (s *BuilderServiceImpl) Get(ctx context.Context, key model.SessionKey) (*model.BuilderSession, error) {
	if err := validateKey(key); err != nil {
		return nil, err
	}
	session, err := s.load(ctx, key)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, fmt.Errorf("%w: %s", model.ErrSessionNotFound, key)
	}
	return session, nil
}

// AddPackage implements BuilderService.
func (s *BuilderServiceImpl) AddPackage(ctx context.Context, key model.SessionKey, packageTypeID string) (*model.BuilderSession, error) {
	return s.mutate(ctx, key, BuilderOpAddPackage, func(session *model.BuilderSession) error {
		packageType, err := s.resolvePackageType(session.Shipment, packageTypeID)
		if err != nil {
			return err
		}
		session.AddPackage(model.NewPackage(session.Shipment.ID, packageType, ""))
		return nil
	})
}

func (s *BuilderServiceImpl) resolvePackageType(shipment *model.Shipment, id string) (model.PackageType, error) {
	if id != "" {
		return s.packageTypes.CreateInstance(id)
	}
	if shipment.PackageType != nil {
		return *shipment.PackageType, nil
	}
	method, err := s.methods.Get(shipment.ShippingMethodID)
	if err != nil {
		return model.PackageType{}, err
	}
	return method.DefaultPackageType(), nil
}

// RemovePackage implements BuilderService.
func (s *BuilderServiceImpl) RemovePackage(ctx context.Context, key model.SessionKey, index int) (*model.BuilderSession, error) {
	return s.mutate(ctx, key, BuilderOpRemovePackage, func(session *model.BuilderSession) error {
		_, err := session.RemovePackage(index)
		return err
	})
}

// MoveItem implements BuilderService.
func (s *BuilderServiceImpl) MoveItem(ctx context.Context, key model.SessionKey, itemKey string, from, to model.Container) (*model.BuilderSession, error) {
	return s.mutate(ctx, key, BuilderOpMoveItem, func(session *model.BuilderSession) error {
		return session.MoveItem(itemKey, from, to)
	})
}

// mutate applies fn to the stored session under the key lock. The session is
// written back only when fn succeeds, so a failed edit leaves it unchanged.
func (s *BuilderServiceImpl) mutate(ctx context.Context, key model.SessionKey, op string, fn func(*model.BuilderSession) error) (session *model.BuilderSession, err error) {
	defer func() { metrics.RecordBuilderOperation(op, err) }()
	if err := validateKey(key); err != nil {
		return nil, err
	}
	release := s.locks.Lock(key.String())
	defer release()

	session, err = s.load(ctx, key)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, fmt.Errorf("%w: %s", model.ErrSessionNotFound, key)
	}
	if err := fn(session); err != nil {
		return nil, err
	}
	if err := s.save(ctx, key, session); err != nil {
		return nil, err
	}
	logger.Ctx(ctx).Debug().
		Str("session", key.String()).
		Str("operation", op).
		Int64("version", session.Version).
		Msg("builder session updated")
	return session, nil
}

// Commit implements BuilderService.
func (s *BuilderServiceImpl) Commit(ctx context.Context, key model.SessionKey) (shipment *model.Shipment, err error) {
	defer func() { metrics.RecordBuilderOperation(BuilderOpCommit, err) }()
	if err := validateKey(key); err != nil {
		return nil, err
	}
	release := s.locks.Lock(key.String())
	defer release()

	session, err := s.load(ctx, key)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, fmt.Errorf("%w: %s", model.ErrSessionNotFound, key)
	}

	shipment = session.Shipment
	if err := shipment.Validate(); err != nil {
		return nil, err
	}
	if err := checkConservation(shipment.Items, append(session.PackagedItems(), session.Unpackaged()...)); err != nil {
		return nil, err
	}

	shipment.Data.PackagedItems = session.PackagedItems()
	shipment.Data.NeedsRepackage = false
	shipment.SetPackages(session.Packages)
	if shipment.ShippingService != "" {
		if err := selectServiceRate(ctx, s.methods, shipment, shipment.ShippingService); err != nil {
			return nil, fmt.Errorf("re-rate shipment %s: %w", shipment.ID, err)
		}
	}

	var stale []string
	if !key.IsNew() {
		persisted, err := s.store.shipments.FindByID(ctx, shipment.ID)
		if err != nil {
			return nil, fmt.Errorf("load shipment %s: %w", shipment.ID, err)
		}
		if persisted != nil {
			stale = persisted.PackageIDs
		}
	}
	if err := s.store.save(ctx, shipment, stale); err != nil {
		return nil, err
	}
	if err := s.sessions.Delete(ctx, key.Collection(), key.Name()); err != nil {
		logger.Ctx(ctx).Warn().Err(err).Str("session", key.String()).Msg("failed to delete committed builder session")
	}

	logger.Ctx(ctx).Info().
		Str("session", key.String()).
		Str("shipment_id", shipment.ID).
		Int("packages", len(shipment.Packages)).
		Int("unpackaged", len(shipment.Data.UnpackagedItems)).
		Msg("builder session committed")
	s.store.publish(ctx, events.ShipmentPackaged(shipment, "builder"))
	return shipment, nil
}

// Discard implements BuilderService.
func (s *BuilderServiceImpl) Discard(ctx context.Context, key model.SessionKey) (err error) {
	defer func() { metrics.RecordBuilderOperation(BuilderOpDiscard, err) }()
	if err := validateKey(key); err != nil {
		return err
	}
	release := s.locks.Lock(key.String())
	defer release()

	if err := s.sessions.Delete(ctx, key.Collection(), key.Name()); err != nil {
		return fmt.Errorf("delete session %s: %w", key, err)
	}
	logger.Ctx(ctx).Info().Str("session", key.String()).Msg("builder session discarded")
	return nil
}

// load returns nil, nil when no session is stored under key.
func (s *BuilderServiceImpl) load(ctx context.Context, key model.SessionKey) (*model.BuilderSession, error) {
	raw, ok, err := s.sessions.Get(ctx, key.Collection(), key.Name())
	if err != nil {
		return nil, fmt.Errorf("read session %s: %w", key, err)
	}
	if !ok {
		return nil, nil
	}
	var session model.BuilderSession
	if err := json.Unmarshal(raw, &session); err != nil {
		logger.Ctx(ctx).Warn().Err(err).Str("session", key.String()).Msg("dropping unreadable builder session")
		if delErr := s.sessions.Delete(ctx, key.Collection(), key.Name()); delErr != nil {
			return nil, errors.Join(err, delErr)
		}
		return nil, nil
	}
	if session.Shipment == nil {
		return nil, fmt.Errorf("%w: session %s has no shipment", model.ErrConsistency, key)
	}
	return &session, nil
}

func (s *BuilderServiceImpl) save(ctx context.Context, key model.SessionKey, session *model.BuilderSession) error {
	session.Version++
	session.UpdatedAt = time.Now().UTC()
	raw, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("encode session %s: %w", key, err)
	}
	if err := s.sessions.Set(ctx, key.Collection(), key.Name(), raw); err != nil {
		return fmt.Errorf("write session %s: %w", key, err)
	}
	return nil
}

// checkConservation verifies that placed holds the same item quantities as
// items, keyed by order item.
func checkConservation(items, placed []model.ShipmentItem) error {
	want := quantitiesByOrderItem(items)
	got := quantitiesByOrderItem(placed)
	ids := make([]string, 0, len(want)+len(got))
	for id := range want {
		ids = append(ids, id)
	}
	for id := range got {
		if _, ok := want[id]; !ok {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	for _, id := range ids {
		if want[id] != got[id] {
			return fmt.Errorf("%w: order item %s has quantity %d in the shipment but %d staged", model.ErrConsistency, id, want[id], got[id])
		}
	}
	return nil
}

func quantitiesByOrderItem(items []model.ShipmentItem) map[string]int {
	out := make(map[string]int, len(items))
	for _, item := range items {
		out[item.OrderItemID] += item.Quantity
	}
	return out
}
