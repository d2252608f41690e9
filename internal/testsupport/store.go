package testsupport

import (
	"testing"

	"pipely/internal/config"
	"pipely/internal/registry"
)

// MustOpenRegistry opens a registry.Store for tests and registers cleanup.
func MustOpenRegistry(t testing.TB, cfg *config.Config) *registry.Store {
	t.Helper()

	store, err := registry.Open(cfg)
	if err != nil {
		t.Fatalf("registry.Open: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
	})
	return store
}
