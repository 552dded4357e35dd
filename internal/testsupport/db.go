package testsupport

import (
	"testing"

	"crumb/internal/config"
	"crumb/internal/storage"
)

// MustOpenDB opens the database for cfg and registers cleanup. The test fails
// immediately if the database cannot be opened.
func MustOpenDB(t *testing.T, cfg *config.Config) *storage.DB {
	t.Helper()

	db, err := storage.Open(cfg)
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	t.Cleanup(func() {
		if err := db.Close(); err != nil {
			t.Errorf("failed to close database: %v", err)
		}
	})
	return db
}
