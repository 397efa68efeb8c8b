package repository

import (
	"context"
	"errors"

	"github.com/guttosm/shipment-packaging/internal/circuitbreaker"
	"github.com/guttosm/shipment-packaging/internal/domain/model"
)

// ShipmentRepositoryWithCircuitBreaker wraps a shipment repository with circuit breaker protection.
type ShipmentRepositoryWithCircuitBreaker struct {
	repo           ShipmentRepositoryInterface
	circuitBreaker *circuitbreaker.CircuitBreaker
}

// NewShipmentRepositoryWithCircuitBreaker creates a new repository wrapper with circuit breaker.
func NewShipmentRepositoryWithCircuitBreaker(repo ShipmentRepositoryInterface, cb *circuitbreaker.CircuitBreaker) *ShipmentRepositoryWithCircuitBreaker {
	return &ShipmentRepositoryWithCircuitBreaker{
		repo:           repo,
		circuitBreaker: cb,
	}
}

// Save stores the shipment with circuit breaker protection.
func (r *ShipmentRepositoryWithCircuitBreaker) Save(ctx context.Context, shipment *model.Shipment) error {
	return r.circuitBreaker.Execute(ctx, func() error {
		return r.repo.Save(ctx, shipment)
	})
}

// FindByID loads a shipment with circuit breaker protection.
func (r *ShipmentRepositoryWithCircuitBreaker) FindByID(ctx context.Context, id string) (*model.Shipment, error) {
	var result *model.Shipment
	err := r.circuitBreaker.Execute(ctx, func() error {
		var cbErr error
		result, cbErr = r.repo.FindByID(ctx, id)
		return cbErr
	})
	return result, err
}

// FindByOrder loads the shipments of an order with circuit breaker protection.
func (r *ShipmentRepositoryWithCircuitBreaker) FindByOrder(ctx context.Context, orderID string) ([]*model.Shipment, error) {
	var result []*model.Shipment
	err := r.circuitBreaker.Execute(ctx, func() error {
		var cbErr error
		result, cbErr = r.repo.FindByOrder(ctx, orderID)
		return cbErr
	})
	return result, err
}

// Delete removes a shipment with circuit breaker protection.
func (r *ShipmentRepositoryWithCircuitBreaker) Delete(ctx context.Context, id string) error {
	return r.circuitBreaker.Execute(ctx, func() error {
		return r.repo.Delete(ctx, id)
	})
}

// GetCircuitBreaker returns the underlying circuit breaker for monitoring.
func (r *ShipmentRepositoryWithCircuitBreaker) GetCircuitBreaker() *circuitbreaker.CircuitBreaker {
	return r.circuitBreaker
}

// PackageRepositoryWithCircuitBreaker wraps a package repository with circuit breaker protection.
type PackageRepositoryWithCircuitBreaker struct {
	repo           PackageRepositoryInterface
	circuitBreaker *circuitbreaker.CircuitBreaker
}

// NewPackageRepositoryWithCircuitBreaker creates a new repository wrapper with circuit breaker.
func NewPackageRepositoryWithCircuitBreaker(repo PackageRepositoryInterface, cb *circuitbreaker.CircuitBreaker) *PackageRepositoryWithCircuitBreaker {
	return &PackageRepositoryWithCircuitBreaker{
		repo:           repo,
		circuitBreaker: cb,
	}
}

// Save stores the package with circuit breaker protection.
func (r *PackageRepositoryWithCircuitBreaker) Save(ctx context.Context, pkg *model.Package) error {
	return r.circuitBreaker.Execute(ctx, func() error {
		return r.repo.Save(ctx, pkg)
	})
}

// FindByIDs loads packages with circuit breaker protection.
func (r *PackageRepositoryWithCircuitBreaker) FindByIDs(ctx context.Context, ids []string) ([]*model.Package, error) {
	var result []*model.Package
	err := r.circuitBreaker.Execute(ctx, func() error {
		var cbErr error
		result, cbErr = r.repo.FindByIDs(ctx, ids)
		return cbErr
	})
	return result, err
}

// FindByShipment loads the packages of a shipment with circuit breaker protection.
func (r *PackageRepositoryWithCircuitBreaker) FindByShipment(ctx context.Context, shipmentID string) ([]*model.Package, error) {
	var result []*model.Package
	err := r.circuitBreaker.Execute(ctx, func() error {
		var cbErr error
		result, cbErr = r.repo.FindByShipment(ctx, shipmentID)
		return cbErr
	})
	return result, err
}

// DeleteMany removes packages with circuit breaker protection.
func (r *PackageRepositoryWithCircuitBreaker) DeleteMany(ctx context.Context, ids []string) error {
	return r.circuitBreaker.Execute(ctx, func() error {
		return r.repo.DeleteMany(ctx, ids)
	})
}

// GetCircuitBreaker returns the underlying circuit breaker for monitoring.
func (r *PackageRepositoryWithCircuitBreaker) GetCircuitBreaker() *circuitbreaker.CircuitBreaker {
	return r.circuitBreaker
}

// SessionStoreWithCircuitBreaker wraps a session store with circuit breaker protection.
type SessionStoreWithCircuitBreaker struct {
	store          SessionStoreInterface
	circuitBreaker *circuitbreaker.CircuitBreaker
}

// NewSessionStoreWithCircuitBreaker creates a new store wrapper with circuit breaker.
func NewSessionStoreWithCircuitBreaker(store SessionStoreInterface, cb *circuitbreaker.CircuitBreaker) *SessionStoreWithCircuitBreaker {
	return &SessionStoreWithCircuitBreaker{
		store:          store,
		circuitBreaker: cb,
	}
}

// Get reads an entry with circuit breaker protection.
func (s *SessionStoreWithCircuitBreaker) Get(ctx context.Context, collection, key string) ([]byte, bool, error) {
	var (
		value []byte
		found bool
	)
	err := s.circuitBreaker.Execute(ctx, func() error {
		var cbErr error
		value, found, cbErr = s.store.Get(ctx, collection, key)
		return cbErr
	})
	return value, found, err
}

// Set writes an entry with circuit breaker protection.
func (s *SessionStoreWithCircuitBreaker) Set(ctx context.Context, collection, key string, value []byte) error {
	return s.circuitBreaker.Execute(ctx, func() error {
		return s.store.Set(ctx, collection, key, value)
	})
}

// Delete removes an entry with circuit breaker protection.
func (s *SessionStoreWithCircuitBreaker) Delete(ctx context.Context, collection, key string) error {
	return s.circuitBreaker.Execute(ctx, func() error {
		return s.store.Delete(ctx, collection, key)
	})
}

// GetCircuitBreaker returns the underlying circuit breaker for monitoring.
func (s *SessionStoreWithCircuitBreaker) GetCircuitBreaker() *circuitbreaker.CircuitBreaker {
	return s.circuitBreaker
}

// LogsRepositoryWithCircuitBreaker wraps LogsRepository with circuit breaker protection.
type LogsRepositoryWithCircuitBreaker struct {
	repo           LogsRepositoryInterface
	circuitBreaker *circuitbreaker.CircuitBreaker
}

// NewLogsRepositoryWithCircuitBreaker creates a new repository wrapper with circuit breaker.
func NewLogsRepositoryWithCircuitBreaker(repo LogsRepositoryInterface, cb *circuitbreaker.CircuitBreaker) *LogsRepositoryWithCircuitBreaker {
	return &LogsRepositoryWithCircuitBreaker{
		repo:           repo,
		circuitBreaker: cb,
	}
}

// Create stores a single log entry. An open circuit drops the entry silently.
func (r *LogsRepositoryWithCircuitBreaker) Create(ctx context.Context, entry *LogEntryDocument) error {
	err := r.circuitBreaker.Execute(ctx, func() error {
		return r.repo.Create(ctx, entry)
	})
	if errors.Is(err, circuitbreaker.ErrCircuitOpen) {
		return nil
	}
	return err
}

// CreateMany stores multiple log entries. An open circuit drops them silently.
func (r *LogsRepositoryWithCircuitBreaker) CreateMany(ctx context.Context, entries []*LogEntryDocument) error {
	err := r.circuitBreaker.Execute(ctx, func() error {
		return r.repo.CreateMany(ctx, entries)
	})
	if errors.Is(err, circuitbreaker.ErrCircuitOpen) {
		return nil
	}
	return err
}

// Query retrieves log entries with circuit breaker protection.
func (r *LogsRepositoryWithCircuitBreaker) Query(ctx context.Context, opts LogQueryOptions) ([]*LogEntryDocument, error) {
	var result []*LogEntryDocument
	err := r.circuitBreaker.Execute(ctx, func() error {
		var cbErr error
		result, cbErr = r.repo.Query(ctx, opts)
		return cbErr
	})
	return result, err
}

// Count returns the count of log entries with circuit breaker protection.
func (r *LogsRepositoryWithCircuitBreaker) Count(ctx context.Context, opts LogQueryOptions) (int64, error) {
	var result int64
	err := r.circuitBreaker.Execute(ctx, func() error {
		var cbErr error
		result, cbErr = r.repo.Count(ctx, opts)
		return cbErr
	})
	return result, err
}

// GetCircuitBreaker returns the underlying circuit breaker for monitoring.
func (r *LogsRepositoryWithCircuitBreaker) GetCircuitBreaker() *circuitbreaker.CircuitBreaker {
	return r.circuitBreaker
}
