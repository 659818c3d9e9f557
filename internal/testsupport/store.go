package testsupport

import (
	"testing"

	"animelens/internal/config"
	"animelens/internal/logging"
	"animelens/internal/profile"
)

// MustOpenStore opens a profile.Store for tests and registers cleanup.
func MustOpenStore(t testing.TB, cfg *config.Config) *profile.Store {
	t.Helper()

	store, err := profile.Open(cfg, logging.NewNop())
	if err != nil {
		t.Fatalf("profile.Open: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
	})
	return store
}
