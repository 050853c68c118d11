package sqlite

import (
	"path/filepath"
	"testing"
)

// OpenTest opens a migrated store in a temporary directory that is removed
// when the test ends.
func OpenTest(tb testing.TB, opts ...Option) *Store {
	tb.Helper()

	store, err := New(filepath.Join(tb.TempDir(), "ledger.db"), opts...)
	if err != nil {
		tb.Fatalf("failed to open test store: %v", err)
	}
	tb.Cleanup(func() { store.Close() })
	return store
}
