package testsupport

import (
	"context"
	"testing"

	"pressmark/internal/config"
	"pressmark/internal/inbox"
)

// MustOpenStore opens an inbox.Store for tests and registers cleanup.
func MustOpenStore(t testing.TB, cfg *config.Config) *inbox.Store {
	t.Helper()

	store, err := inbox.Open(cfg)
	if err != nil {
		t.Fatalf("inbox.Open: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
	})
	return store
}

// AddBarcodeScan inserts a barcode-scan item and returns it with its ID set.
func AddBarcodeScan(t testing.TB, store *inbox.Store, barcode string) *inbox.Item {
	t.Helper()

	item, err := store.Add(context.Background(), inbox.NewBarcodeScan(barcode))
	if err != nil {
		t.Fatalf("store.Add: %v", err)
	}
	return item
}

// AddManualEntry inserts a manual-entry item and returns it with its ID set.
func AddManualEntry(t testing.TB, store *inbox.Store, title, artist, catalogNumber string) *inbox.Item {
	t.Helper()

	item, err := store.Add(context.Background(), inbox.NewManualEntry(title, artist, catalogNumber))
	if err != nil {
		t.Fatalf("store.Add: %v", err)
	}
	return item
}

// AddCoverPhoto inserts a cover-photo item and returns it with its ID set.
func AddCoverPhoto(t testing.TB, store *inbox.Store, photoRefs ...string) *inbox.Item {
	t.Helper()

	item, err := store.Add(context.Background(), inbox.NewCoverPhoto(photoRefs...))
	if err != nil {
		t.Fatalf("store.Add: %v", err)
	}
	return item
}
