package repository

import (
	"context"
	"sort"
	"sync"

	"github.com/guttosm/shipment-packaging/internal/domain/model"
)

// MemoryShipmentRepository keeps shipments in process memory. Values are
// deep-copied on the way in and out so callers never share state.
type MemoryShipmentRepository struct {
	mu        sync.RWMutex
	shipments map[string]*model.Shipment
}

// NewMemoryShipmentRepository creates an empty in-memory shipment repository.
func NewMemoryShipmentRepository() *MemoryShipmentRepository {
	return &MemoryShipmentRepository{
		shipments: make(map[string]*model.Shipment),
	}
}

// Save implements ShipmentRepositoryInterface.
func (r *MemoryShipmentRepository) Save(ctx context.Context, shipment *model.Shipment) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	stored := shipment.Clone()
	stored.Packages = nil
	r.mu.Lock()
	defer r.mu.Unlock()
	r.shipments[shipment.ID] = stored
	return nil
}

// FindByID implements ShipmentRepositoryInterface.
func (r *MemoryShipmentRepository) FindByID(ctx context.Context, id string) (*model.Shipment, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	shipment, ok := r.shipments[id]
	if !ok {
		return nil, nil
	}
	return shipment.Clone(), nil
}

// FindByOrder implements ShipmentRepositoryInterface.
func (r *MemoryShipmentRepository) FindByOrder(ctx context.Context, orderID string) ([]*model.Shipment, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	var result []*model.Shipment
	for _, shipment := range r.shipments {
		if shipment.OrderID == orderID {
			result = append(result, shipment.Clone())
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.Before(result[j].CreatedAt)
	})
	return result, nil
}

// Delete implements ShipmentRepositoryInterface.
func (r *MemoryShipmentRepository) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.shipments, id)
	return nil
}

// MemoryPackageRepository keeps packages in process memory.
type MemoryPackageRepository struct {
	mu       sync.RWMutex
	packages map[string]*model.Package
}

// NewMemoryPackageRepository creates an empty in-memory package repository.
func NewMemoryPackageRepository() *MemoryPackageRepository {
	return &MemoryPackageRepository{
		packages: make(map[string]*model.Package),
	}
}

// Save implements PackageRepositoryInterface.
func (r *MemoryPackageRepository) Save(ctx context.Context, pkg *model.Package) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.packages[pkg.ID] = pkg.Clone()
	return nil
}

// FindByIDs implements PackageRepositoryInterface.
func (r *MemoryPackageRepository) FindByIDs(ctx context.Context, ids []string) ([]*model.Package, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	result := make([]*model.Package, 0, len(ids))
	for _, id := range ids {
		if pkg, ok := r.packages[id]; ok {
			result = append(result, pkg.Clone())
		}
	}
	return result, nil
}

// FindByShipment implements PackageRepositoryInterface.
func (r *MemoryPackageRepository) FindByShipment(ctx context.Context, shipmentID string) ([]*model.Package, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	var result []*model.Package
	for _, pkg := range r.packages {
		if pkg.ShipmentID == shipmentID {
			result = append(result, pkg.Clone())
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.Before(result[j].CreatedAt)
	})
	return result, nil
}

// DeleteMany implements PackageRepositoryInterface.
func (r *MemoryPackageRepository) DeleteMany(ctx context.Context, ids []string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, id := range ids {
		delete(r.packages, id)
	}
	return nil
}

// Len returns the number of stored packages.
func (r *MemoryPackageRepository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.packages)
}

// MemoryLogsRepository keeps audit entries in process memory. It backs the
// history endpoint when MongoDB is disabled.
type MemoryLogsRepository struct {
	mu      sync.RWMutex
	entries []*LogEntryDocument
}

// NewMemoryLogsRepository creates an empty in-memory logs repository.
func NewMemoryLogsRepository() *MemoryLogsRepository {
	return &MemoryLogsRepository{}
}

// Create implements LogsRepositoryInterface.
func (r *MemoryLogsRepository) Create(_ context.Context, entry *LogEntryDocument) error {
	stampLogEntry(entry)
	copied := *entry
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, &copied)
	return nil
}

// CreateMany implements LogsRepositoryInterface.
func (r *MemoryLogsRepository) CreateMany(ctx context.Context, entries []*LogEntryDocument) error {
	for _, entry := range entries {
		if err := r.Create(ctx, entry); err != nil {
			return err
		}
	}
	return nil
}

// Query implements LogsRepositoryInterface, newest first.
func (r *MemoryLogsRepository) Query(_ context.Context, opts LogQueryOptions) ([]*LogEntryDocument, error) {
	matched := r.match(opts)
	sort.Slice(matched, func(i, j int) bool {
		if !matched[i].Timestamp.Equal(matched[j].Timestamp) {
			return matched[i].Timestamp.After(matched[j].Timestamp)
		}
		return matched[i].ID.Hex() > matched[j].ID.Hex()
	})
	if opts.Skip > 0 {
		if opts.Skip >= len(matched) {
			return []*LogEntryDocument{}, nil
		}
		matched = matched[opts.Skip:]
	}
	if opts.Limit > 0 && opts.Limit < len(matched) {
		matched = matched[:opts.Limit]
	}
	return matched, nil
}

// Count implements LogsRepositoryInterface.
func (r *MemoryLogsRepository) Count(_ context.Context, opts LogQueryOptions) (int64, error) {
	return int64(len(r.match(opts))), nil
}

func (r *MemoryLogsRepository) match(opts LogQueryOptions) []*LogEntryDocument {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []*LogEntryDocument
	for _, e := range r.entries {
		switch {
		case opts.RequestID != "" && e.RequestID != opts.RequestID,
			opts.Level != "" && e.Level != opts.Level,
			opts.ActionType != "" && e.ActionType != opts.ActionType,
			opts.OrderID != "" && e.OrderID != opts.OrderID,
			opts.ShipmentID != "" && e.ShipmentID != opts.ShipmentID,
			opts.StartTime != nil && e.Timestamp.Before(*opts.StartTime),
			opts.EndTime != nil && e.Timestamp.After(*opts.EndTime):
			continue
		}
		copied := *e
		out = append(out, &copied)
	}
	return out
}
