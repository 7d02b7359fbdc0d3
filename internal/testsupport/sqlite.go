package testsupport

import (
	"testing"

	"stockwatch/internal/adapters/config"
	"stockwatch/internal/adapters/sqlite"
)

// NewTestDB opens an in-memory store with the schema applied. Each call
// returns an isolated database; it is closed with the test.
func NewTestDB(t *testing.T) *sqlite.Client {
	t.Helper()

	client, err := sqlite.NewClient(config.DatabaseConfig{Path: ":memory:"})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	t.Cleanup(func() {
		_ = client.Close()
	})

	return client
}
