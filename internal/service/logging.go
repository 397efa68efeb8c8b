package service

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/sync/errgroup"

	"github.com/guttosm/shipment-packaging/internal/domain/model"
	"github.com/guttosm/shipment-packaging/internal/repository"
)

// Paging bounds for audit trail reads.
const (
	DefaultHistoryLimit = 50
	MaxHistoryLimit     = 500
)

// LoggingService keeps the request log and the shipment audit trail.
type LoggingService interface {
	// Record stores one entry, stamping its id and time when unset.
	Record(ctx context.Context, entry *model.LogEntry) error
	// RecordBatch stores entries in a single write.
	RecordBatch(ctx context.Context, entries []*model.LogEntry) error
	// Search returns one page of matching entries, newest first, and the
	// number of entries matching opts regardless of paging.
	Search(ctx context.Context, opts model.LogQueryOptions) (*model.LogPage, error)
	// ShipmentHistory is Search scoped to one shipment with clamped paging.
	ShipmentHistory(ctx context.Context, shipmentID string, limit, skip int) (*model.LogPage, error)
}

// LoggingServiceImpl implements LoggingService on a logs repository.
type LoggingServiceImpl struct {
	repo repository.LogsRepositoryInterface
	now  func() time.Time
}

// NewLoggingService creates a logging service backed by repo.
func NewLoggingService(repo repository.LogsRepositoryInterface) LoggingService {
	return &LoggingServiceImpl{
		repo: repo,
		now:  time.Now,
	}
}

// Record implements LoggingService.
func (s *LoggingServiceImpl) Record(ctx context.Context, entry *model.LogEntry) error {
	if entry == nil {
		return fmt.Errorf("%w: nil log entry", model.ErrInvalidArgument)
	}
	return s.repo.Create(ctx, s.toDocument(entry))
}

// RecordBatch implements LoggingService. Nil entries are skipped.
func (s *LoggingServiceImpl) RecordBatch(ctx context.Context, entries []*model.LogEntry) error {
	docs := make([]*repository.LogEntryDocument, 0, len(entries))
	for _, entry := range entries {
		if entry != nil {
			docs = append(docs, s.toDocument(entry))
		}
	}
	if len(docs) == 0 {
		return nil
	}
	return s.repo.CreateMany(ctx, docs)
}

// Search implements LoggingService. The page and the count are read
// concurrently.
func (s *LoggingServiceImpl) Search(ctx context.Context, opts model.LogQueryOptions) (*model.LogPage, error) {
	page := &model.LogPage{Entries: []model.LogEntry{}}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		docs, err := s.repo.Query(gctx, opts)
		if err != nil {
			return fmt.Errorf("query logs: %w", err)
		}
		for _, doc := range docs {
			page.Entries = append(page.Entries, *doc)
		}
		return nil
	})
	g.Go(func() error {
		count := opts
		count.Limit, count.Skip = 0, 0
		total, err := s.repo.Count(gctx, count)
		if err != nil {
			return fmt.Errorf("count logs: %w", err)
		}
		page.Total = total
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return page, nil
}

// ShipmentHistory implements LoggingService. A non-positive limit selects
// DefaultHistoryLimit, larger ones are capped at MaxHistoryLimit.
func (s *LoggingServiceImpl) ShipmentHistory(ctx context.Context, shipmentID string, limit, skip int) (*model.LogPage, error) {
	if shipmentID == "" {
		return nil, fmt.Errorf("%w: shipment id is required", model.ErrInvalidArgument)
	}
	if skip < 0 {
		return nil, fmt.Errorf("%w: skip must not be negative", model.ErrInvalidArgument)
	}
	switch {
	case limit <= 0:
		limit = DefaultHistoryLimit
	case limit > MaxHistoryLimit:
		limit = MaxHistoryLimit
	}
	return s.Search(ctx, model.LogQueryOptions{ShipmentID: shipmentID, Limit: limit, Skip: skip})
}

func (s *LoggingServiceImpl) toDocument(entry *model.LogEntry) *repository.LogEntryDocument {
	if entry.ID.IsZero() {
		entry.ID = primitive.NewObjectID()
	}
	if entry.Timestamp.IsZero() {
		entry.Timestamp = s.now().UTC()
	}
	doc := *entry
	return &doc
}
