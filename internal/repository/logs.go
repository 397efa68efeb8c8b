package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/guttosm/shipment-packaging/internal/domain/model"
)

// LogEntryDocument is the stored form of a log entry. The model already
// carries the bson mapping.
type LogEntryDocument = model.LogEntry

// LogQueryOptions filters Query and Count. Zero values are ignored.
type LogQueryOptions = model.LogQueryOptions

// newestFirst orders entries by time, with the id breaking ties between
// entries written in the same millisecond.
var newestFirst = bson.D{{Key: "timestamp", Value: -1}, {Key: "_id", Value: -1}}

// LogsRepository stores request and audit entries in the logs collection.
type LogsRepository struct {
	collection *mongo.Collection
}

// NewLogsRepository creates a logs repository on db.
func NewLogsRepository(db *MongoDB) *LogsRepository {
	return &LogsRepository{collection: db.Logs}
}

// Create implements LogsRepositoryInterface.
func (r *LogsRepository) Create(ctx context.Context, entry *LogEntryDocument) error {
	stampLogEntry(entry)
	_, err := r.collection.InsertOne(ctx, entry)
	return err
}

// CreateMany implements LogsRepositoryInterface. The insert is unordered, so
// one rejected entry does not hold back the rest of the batch.
func (r *LogsRepository) CreateMany(ctx context.Context, entries []*LogEntryDocument) error {
	if len(entries) == 0 {
		return nil
	}
	docs := make([]interface{}, 0, len(entries))
	for _, entry := range entries {
		stampLogEntry(entry)
		docs = append(docs, entry)
	}
	_, err := r.collection.InsertMany(ctx, docs, options.InsertMany().SetOrdered(false))
	return err
}

// Query implements LogsRepositoryInterface, newest first.
func (r *LogsRepository) Query(ctx context.Context, opts LogQueryOptions) ([]*LogEntryDocument, error) {
	find := options.Find().SetSort(newestFirst)
	if opts.Limit > 0 {
		find.SetLimit(int64(opts.Limit))
	}
	if opts.Skip > 0 {
		find.SetSkip(int64(opts.Skip))
	}

	cursor, err := r.collection.Find(ctx, logFilter(opts), find)
	if err != nil {
		return nil, err
	}
	entries := []*LogEntryDocument{}
	if err := cursor.All(ctx, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// Count implements LogsRepositoryInterface.
func (r *LogsRepository) Count(ctx context.Context, opts LogQueryOptions) (int64, error) {
	return r.collection.CountDocuments(ctx, logFilter(opts))
}

// logFilter turns the set options into an equality filter plus an optional
// timestamp range.
func logFilter(opts LogQueryOptions) bson.D {
	filter := bson.D{}
	for _, eq := range []struct{ field, value string }{
		{"request_id", opts.RequestID},
		{"level", opts.Level},
		{"action_type", opts.ActionType},
		{"order_id", opts.OrderID},
		{"shipment_id", opts.ShipmentID},
	} {
		if eq.value != "" {
			filter = append(filter, bson.E{Key: eq.field, Value: eq.value})
		}
	}

	between := bson.D{}
	if opts.StartTime != nil {
		between = append(between, bson.E{Key: "$gte", Value: *opts.StartTime})
	}
	if opts.EndTime != nil {
		between = append(between, bson.E{Key: "$lte", Value: *opts.EndTime})
	}
	if len(between) > 0 {
		filter = append(filter, bson.E{Key: "timestamp", Value: between})
	}
	return filter
}

func stampLogEntry(entry *LogEntryDocument) {
	if entry.ID.IsZero() {
		entry.ID = primitive.NewObjectID()
	}
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now().UTC()
	}
}
