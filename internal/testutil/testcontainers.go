//go:build integration

// Package testutil starts the MongoDB container used by integration tests.
package testutil

import (
	"context"
	"fmt"
	"os"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/mongodb"
)

// defaultMongoImage matches the server version used in deployments.
const defaultMongoImage = "mongo:7.0"

// MongoImageEnv overrides the container image, e.g. to pin a mirror in CI.
const MongoImageEnv = "TEST_MONGO_IMAGE"

// MongoDBContainer wraps a MongoDB testcontainer.
type MongoDBContainer struct {
	Container testcontainers.Container
	URI       string
}

// SetupMongoDB starts a MongoDB container and resolves its connection string.
// Prefer the shared container in test_container.go where tests can share one.
func SetupMongoDB(ctx context.Context) (*MongoDBContainer, error) {
	image := os.Getenv(MongoImageEnv)
	if image == "" {
		image = defaultMongoImage
	}

	container, err := mongodb.Run(ctx, image)
	if err != nil {
		return nil, fmt.Errorf("start mongodb container %s: %w", image, err)
	}

	uri, err := container.ConnectionString(ctx)
	if err != nil {
		_ = container.Terminate(ctx)
		return nil, fmt.Errorf("mongodb connection string: %w", err)
	}

	return &MongoDBContainer{Container: container, URI: uri}, nil
}

// Cleanup terminates the container. It is safe on a nil receiver.
func (m *MongoDBContainer) Cleanup(ctx context.Context) error {
	if m == nil || m.Container == nil {
		return nil
	}
	if err := m.Container.Terminate(ctx); err != nil {
		return fmt.Errorf("terminate mongodb container: %w", err)
	}
	return nil
}
