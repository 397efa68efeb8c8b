// Package repository provides the data access layer for shipments, packages,
// builder sessions and audit logs.
package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Collection names.
const (
	shipmentsCollection = "shipments"
	packagesCollection  = "packages"
	sessionsCollection  = "builder_sessions"
	logsCollection      = "logs"
)

// logRetentionIndex is the TTL index managed by SetLogsTTL.
const logRetentionIndex = "log_retention"

// Server error codes tolerated when dropping an index.
const (
	codeNamespaceNotFound = 26
	codeIndexNotFound     = 27
)

// MongoConfig tunes the client connection pool.
type MongoConfig struct {
	MaxPoolSize            uint64
	MinPoolSize            uint64
	MaxConnIdleTime        time.Duration
	ConnectTimeout         time.Duration
	ServerSelectionTimeout time.Duration
	SocketTimeout          time.Duration
	// Compressors are offered to the server in order of preference.
	Compressors []string
}

// DefaultMongoConfig returns the pool settings used in production.
func DefaultMongoConfig() MongoConfig {
	return MongoConfig{
		MaxPoolSize:            50,
		MinPoolSize:            5,
		MaxConnIdleTime:        10 * time.Minute,
		ConnectTimeout:         10 * time.Second,
		ServerSelectionTimeout: 5 * time.Second,
		SocketTimeout:          30 * time.Second,
		Compressors:            []string{"zstd", "snappy", "zlib"},
	}
}

// MongoDB holds the client and the collections of the service.
type MongoDB struct {
	Client          *mongo.Client
	Database        *mongo.Database
	Shipments       *mongo.Collection
	Packages        *mongo.Collection
	BuilderSessions *mongo.Collection
	Logs            *mongo.Collection
}

// NewMongoDB connects with DefaultMongoConfig.
func NewMongoDB(uri, databaseName string) (*MongoDB, error) {
	return NewMongoDBWithConfig(uri, databaseName, DefaultMongoConfig())
}

// NewMongoDBWithConfig connects, pings and ensures the indexes every
// repository relies on. The client is released on any failure.
func NewMongoDBWithConfig(uri, databaseName string, cfg MongoConfig) (*MongoDB, error) {
	ctx, cancel := context.WithTimeout(context.Background(), cfg.ConnectTimeout)
	defer cancel()

	opts := options.Client().
		ApplyURI(uri).
		SetMaxPoolSize(cfg.MaxPoolSize).
		SetMinPoolSize(cfg.MinPoolSize).
		SetMaxConnIdleTime(cfg.MaxConnIdleTime).
		SetConnectTimeout(cfg.ConnectTimeout).
		SetServerSelectionTimeout(cfg.ServerSelectionTimeout).
		SetSocketTimeout(cfg.SocketTimeout).
		SetRetryWrites(true).
		SetRetryReads(true)
	if len(cfg.Compressors) > 0 {
		opts.SetCompressors(cfg.Compressors)
	}

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("connect mongodb: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping mongodb: %w", err)
	}

	db := client.Database(databaseName)
	m := &MongoDB{
		Client:          client,
		Database:        db,
		Shipments:       db.Collection(shipmentsCollection),
		Packages:        db.Collection(packagesCollection),
		BuilderSessions: db.Collection(sessionsCollection),
		Logs:            db.Collection(logsCollection),
	}
	if err := m.ensureIndexes(ctx); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}
	return m, nil
}

func index(name string, keys bson.D) mongo.IndexModel {
	return mongo.IndexModel{Keys: keys, Options: options.Index().SetName(name)}
}

// ensureIndexes creates the lookup indexes. Session documents expire at
// their own expires_at value. The logs TTL index is left to SetLogsTTL.
func (m *MongoDB) ensureIndexes(ctx context.Context) error {
	sessionKey := index("collection_key", bson.D{{Key: "collection", Value: 1}, {Key: "key", Value: 1}})
	sessionKey.Options.SetUnique(true)
	sessionExpiry := index("session_expiry", bson.D{{Key: "expires_at", Value: 1}})
	sessionExpiry.Options.SetExpireAfterSeconds(0)

	plan := []struct {
		collection *mongo.Collection
		indexes    []mongo.IndexModel
	}{
		{m.Shipments, []mongo.IndexModel{index("order_id", bson.D{{Key: "order_id", Value: 1}})}},
		{m.Packages, []mongo.IndexModel{index("shipment_id", bson.D{{Key: "shipment_id", Value: 1}})}},
		{m.BuilderSessions, []mongo.IndexModel{sessionKey, sessionExpiry}},
		{m.Logs, []mongo.IndexModel{
			index("request_id", bson.D{{Key: "request_id", Value: 1}}),
			index("shipment_history", bson.D{{Key: "shipment_id", Value: 1}, {Key: "timestamp", Value: -1}}),
		}},
	}
	for _, p := range plan {
		if _, err := p.collection.Indexes().CreateMany(ctx, p.indexes); err != nil {
			return fmt.Errorf("create indexes on %s: %w", p.collection.Name(), err)
		}
	}
	return nil
}

// SetLogsTTL replaces the retention index so log entries expire ttlDays
// after their timestamp.
func (m *MongoDB) SetLogsTTL(ctx context.Context, ttlDays int) error {
	if ttlDays <= 0 {
		return fmt.Errorf("logs ttl must be positive, got %d days", ttlDays)
	}
	if _, err := m.Logs.Indexes().DropOne(ctx, logRetentionIndex); err != nil && !missingIndex(err) {
		return fmt.Errorf("drop %s index: %w", logRetentionIndex, err)
	}

	retention := index(logRetentionIndex, bson.D{{Key: "timestamp", Value: 1}})
	retention.Options.SetExpireAfterSeconds(int32((time.Duration(ttlDays) * 24 * time.Hour).Seconds()))
	if _, err := m.Logs.Indexes().CreateOne(ctx, retention); err != nil {
		return fmt.Errorf("create %s index: %w", logRetentionIndex, err)
	}
	return nil
}

func missingIndex(err error) bool {
	var cmdErr mongo.CommandError
	return errors.As(err, &cmdErr) &&
		(cmdErr.Code == codeIndexNotFound || cmdErr.Code == codeNamespaceNotFound)
}

// Close disconnects the client.
func (m *MongoDB) Close(ctx context.Context) error {
	return m.Client.Disconnect(ctx)
}

// HealthCheck pings the primary with a two second bound.
func (m *MongoDB) HealthCheck(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return m.Client.Ping(ctx, nil)
}
