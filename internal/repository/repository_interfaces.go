package repository

import (
	"context"

	"github.com/guttosm/shipment-packaging/internal/domain/model"
)

// ShipmentRepositoryInterface defines shipment persistence. FindByID returns
// nil, nil when the shipment does not exist.
type ShipmentRepositoryInterface interface {
	Save(ctx context.Context, shipment *model.Shipment) error
	FindByID(ctx context.Context, id string) (*model.Shipment, error)
	FindByOrder(ctx context.Context, orderID string) ([]*model.Shipment, error)
	Delete(ctx context.Context, id string) error
}

// PackageRepositoryInterface defines package persistence. FindByIDs preserves
// the requested order.
type PackageRepositoryInterface interface {
	Save(ctx context.Context, pkg *model.Package) error
	FindByIDs(ctx context.Context, ids []string) ([]*model.Package, error)
	FindByShipment(ctx context.Context, shipmentID string) ([]*model.Package, error)
	DeleteMany(ctx context.Context, ids []string) error
}

// SessionStoreInterface is a keyed transient store scoped by collection.
type SessionStoreInterface interface {
	Get(ctx context.Context, collection, key string) ([]byte, bool, error)
	Set(ctx context.Context, collection, key string, value []byte) error
	Delete(ctx context.Context, collection, key string) error
}

// LogsRepositoryInterface defines the interface for logs repository operations.
type LogsRepositoryInterface interface {
	Create(ctx context.Context, entry *LogEntryDocument) error
	CreateMany(ctx context.Context, entries []*LogEntryDocument) error
	Query(ctx context.Context, opts LogQueryOptions) ([]*LogEntryDocument, error)
	Count(ctx context.Context, opts LogQueryOptions) (int64, error)
}
