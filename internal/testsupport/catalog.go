package testsupport

import (
	"context"
	"path/filepath"
	"testing"

	"restow/internal/catalog"
)

// MustOpenCatalog opens a catalog.Store on a per-test temp database and
// registers cleanup.
func MustOpenCatalog(t testing.TB) *catalog.Store {
	t.Helper()

	store, err := catalog.Open(filepath.Join(t.TempDir(), "catalog.db"))
	if err != nil {
		t.Fatalf("catalog.Open: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
	})
	return store
}

// SeedLineage creates a chain of entities with the given titles, root first,
// and returns the leaf.
func SeedLineage(t testing.TB, store *catalog.Store, titles ...string) *catalog.Entity {
	t.Helper()

	var leaf *catalog.Entity
	for _, title := range titles {
		var parentID *int64
		if leaf != nil {
			parentID = &leaf.ID
		}
		entity, err := store.CreateEntity(context.Background(), parentID, title)
		if err != nil {
			t.Fatalf("store.CreateEntity(%q): %v", title, err)
		}
		leaf = entity
	}
	return leaf
}

// SeedLinkedObject creates a stored object and links it to owner's slot.
func SeedLinkedObject(t testing.TB, store *catalog.Store, owner *catalog.Entity, slotName string, obj catalog.StoredObject) *catalog.StoredObject {
	t.Helper()

	created, err := store.CreateObject(context.Background(), &obj)
	if err != nil {
		t.Fatalf("store.CreateObject: %v", err)
	}
	if _, err := store.CreateLink(context.Background(), created.ID, owner.ID, slotName); err != nil {
		t.Fatalf("store.CreateLink: %v", err)
	}
	return created
}
