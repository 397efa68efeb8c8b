package repository

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// SessionDocument is one keyed transient entry.
type SessionDocument struct {
	Collection string    `bson:"collection"`
	Key        string    `bson:"key"`
	Value      []byte    `bson:"value"`
	ExpiresAt  time.Time `bson:"expires_at"`
	UpdatedAt  time.Time `bson:"updated_at"`
}

// SessionStore keeps builder sessions in MongoDB. Expired entries are removed
// by the TTL index and ignored on read until then.
type SessionStore struct {
	collection *mongo.Collection
	ttl        time.Duration
}

// NewSessionStore creates a MongoDB backed session store.
func NewSessionStore(db *MongoDB, ttl time.Duration) *SessionStore {
	return &SessionStore{
		collection: db.BuilderSessions,
		ttl:        ttl,
	}
}

// Get returns the stored value and whether it exists and has not expired.
func (s *SessionStore) Get(ctx context.Context, collection, key string) ([]byte, bool, error) {
	var doc SessionDocument
	err := s.collection.FindOne(ctx, bson.M{"collection": collection, "key": key}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	if time.Now().After(doc.ExpiresAt) {
		return nil, false, nil
	}
	return doc.Value, true, nil
}

// Set replaces the value and refreshes its expiry.
func (s *SessionStore) Set(ctx context.Context, collection, key string, value []byte) error {
	now := time.Now().UTC()
	_, err := s.collection.ReplaceOne(
		ctx,
		bson.M{"collection": collection, "key": key},
		SessionDocument{
			Collection: collection,
			Key:        key,
			Value:      value,
			ExpiresAt:  now.Add(s.ttl),
			UpdatedAt:  now,
		},
		options.Replace().SetUpsert(true),
	)
	return err
}

// Delete removes the entry. Deleting a missing entry is not an error.
func (s *SessionStore) Delete(ctx context.Context, collection, key string) error {
	_, err := s.collection.DeleteOne(ctx, bson.M{"collection": collection, "key": key})
	return err
}
