//go:build integration

package testutil

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
)

// maxDBNameLength keeps generated names under the 64 byte MongoDB limit.
const maxDBNameLength = 48

var (
	shared     *MongoDBContainer
	sharedErr  error
	sharedOnce sync.Once
	dbCounter  atomic.Int64
)

// GetSharedMongoDB starts the package-wide container on first use.
func GetSharedMongoDB(ctx context.Context) (*MongoDBContainer, error) {
	sharedOnce.Do(func() {
		shared, sharedErr = SetupMongoDB(ctx)
	})
	return shared, sharedErr
}

// SetupTestMainWithMongoDB runs m against one shared container and returns
// the exit code:
//
//	func TestMain(m *testing.M) {
//		os.Exit(testutil.SetupTestMainWithMongoDB(context.Background(), m))
//	}
func SetupTestMainWithMongoDB(ctx context.Context, m *testing.M) int {
	container, err := GetSharedMongoDB(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "integration tests need docker: %v\n", err)
		return 1
	}

	code := m.Run()

	if err := container.Cleanup(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "warning: %v\n", err)
	}
	return code
}

// GetSharedContainerURI returns the connection string of the shared container.
func GetSharedContainerURI() string {
	if shared == nil {
		panic("testutil: shared MongoDB container not started, use SetupTestMainWithMongoDB")
	}
	return shared.URI
}

// SanitizeDBName turns a test name into a unique database name. Characters
// MongoDB rejects in database names become underscores.
func SanitizeDBName(testName string) string {
	name := strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', '.', ' ', '"', '$', '*', '<', '>', ':', '|', '?':
			return '_'
		}
		return r
	}, testName)
	if len(name) > maxDBNameLength {
		name = name[:maxDBNameLength]
	}
	return fmt.Sprintf("%s_%d_%d", name, os.Getpid()%10000, dbCounter.Add(1))
}
