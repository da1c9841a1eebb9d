package uploads_test

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"restow/internal/catalog"
	"restow/internal/filecontext"
	"restow/internal/logging"
	"restow/internal/objectstore"
	"restow/internal/uploads"
)

func setup(t *testing.T) (*catalog.Store, *objectstore.Memory, *uploads.Orchestrator) {
	t.Helper()
	cat, err := catalog.Open(filepath.Join(t.TempDir(), "catalog.db"))
	if err != nil {
		t.Fatalf("catalog.Open: %v", err)
	}
	t.Cleanup(func() { cat.Close() })

	store := objectstore.NewMemory()
	provider := uploads.NewProvider(store, cat, "https://cdn.example.com/media", logging.NewNop())
	return cat, store, uploads.NewOrchestrator(cat, provider, logging.NewNop())
}

func mustEntity(t *testing.T, cat *catalog.Store, parent *int64, title string) *catalog.Entity {
	t.Helper()
	entity, err := cat.CreateEntity(context.Background(), parent, title)
	if err != nil {
		t.Fatalf("CreateEntity: %v", err)
	}
	return entity
}

func TestStageStoresUnderCanonicalKey(t *testing.T) {
	cat, store, orch := setup(t)
	ctx := context.Background()

	course := mustEntity(t, cat, nil, "Intro To Robotics!")
	module := mustEntity(t, cat, &course.ID, "Module 1")
	lesson := mustEntity(t, cat, &module.ID, "Lesson  One")

	scope := filecontext.NewScope()
	stored, err := orch.Stage(ctx, scope, lesson.ID, "handout", []uploads.Upload{
		{FileName: "Syllabus.PDF", ContentType: "application/pdf", ContentHash: "aabbccdd", Size: 4, Body: strings.NewReader("data")},
	})
	if err != nil {
		t.Fatalf("Stage: %v", err)
	}
	if len(stored) != 1 {
		t.Fatalf("stored %d objects", len(stored))
	}

	wantKey := "intro-to-robotics/module-1/lesson-one/syllabus.pdf"
	if stored[0].CurrentKey != wantKey {
		t.Fatalf("key = %q, want %q", stored[0].CurrentKey, wantKey)
	}
	if !store.Contains(wantKey) {
		t.Fatal("object bytes missing from store")
	}
	if stored[0].PublicURL != "https://cdn.example.com/media/"+wantKey {
		t.Fatalf("public URL = %q", stored[0].PublicURL)
	}

	links, err := cat.LinksForSlot(ctx, lesson.ID, "handout")
	if err != nil {
		t.Fatalf("LinksForSlot: %v", err)
	}
	if len(links) != 1 || links[0].ObjectID != stored[0].ID {
		t.Fatalf("unexpected links %+v", links)
	}
}

func TestStageReplacesSlotOccupant(t *testing.T) {
	cat, _, orch := setup(t)
	ctx := context.Background()
	lesson := mustEntity(t, cat, nil, "Course")

	first, err := orch.Stage(ctx, filecontext.NewScope(), lesson.ID, "cover", []uploads.Upload{
		{FileName: "old.png", ContentType: "image/png", Size: 1, Body: strings.NewReader("a")},
	})
	if err != nil {
		t.Fatalf("first Stage: %v", err)
	}
	second, err := orch.Stage(ctx, filecontext.NewScope(), lesson.ID, "cover", []uploads.Upload{
		{FileName: "new.png", ContentType: "image/png", Size: 1, Body: strings.NewReader("b")},
	})
	if err != nil {
		t.Fatalf("second Stage: %v", err)
	}

	links, err := cat.LinksForSlot(ctx, lesson.ID, "cover")
	if err != nil {
		t.Fatalf("LinksForSlot: %v", err)
	}
	if len(links) != 1 || links[0].ObjectID != second[0].ID {
		t.Fatalf("slot should hold only the new object, got %+v (old id %d)", links, first[0].ID)
	}
}

func TestStageMissingEntity(t *testing.T) {
	_, _, orch := setup(t)
	_, err := orch.Stage(context.Background(), filecontext.NewScope(), 999, "cover", nil)
	if err == nil {
		t.Fatal("expected error for unknown entity")
	}
}

func TestProviderDefaultNamingWithoutScope(t *testing.T) {
	cat, store, _ := setup(t)
	provider := uploads.NewProvider(store, cat, "https://cdn.example.com/media", logging.NewNop())

	obj, err := provider.Store(context.Background(), nil, uploads.Upload{
		FileName:    "stray.pdf",
		ContentType: "application/pdf",
		Size:        4,
		Body:        strings.NewReader("data"),
	})
	if err != nil {
		t.Fatalf("Store: %v", err)
	}
	if !strings.HasPrefix(obj.CurrentKey, "uploads/") || !strings.HasSuffix(obj.CurrentKey, ".pdf") {
		t.Fatalf("default key = %q", obj.CurrentKey)
	}
	if !store.Contains(obj.CurrentKey) {
		t.Fatal("object bytes missing from store")
	}
}

func TestProviderFallsBackWhenScopeDrained(t *testing.T) {
	cat, _, _ := setup(t)
	store := objectstore.NewMemory()
	provider := uploads.NewProvider(store, cat, "", logging.NewNop())

	scope := filecontext.NewScope()
	scope.Establish(filecontext.FileContext{TargetPath: "course/lesson", BaseName: "first.pdf"})

	ctx := context.Background()
	first, err := provider.Store(ctx, scope, uploads.Upload{FileName: "first.pdf", Size: 1, Body: strings.NewReader("a")})
	if err != nil {
		t.Fatalf("Store first: %v", err)
	}
	if first.CurrentKey != "course/lesson/first.pdf" {
		t.Fatalf("first key = %q", first.CurrentKey)
	}

	// One more file than queued contexts: permissive degradation to the
	// default name, not an error.
	second, err := provider.Store(ctx, scope, uploads.Upload{FileName: "second.pdf", Size: 1, Body: strings.NewReader("b")})
	if err != nil {
		t.Fatalf("Store second: %v", err)
	}
	if !strings.HasPrefix(second.CurrentKey, "uploads/") {
		t.Fatalf("second key = %q, want default naming", second.CurrentKey)
	}
}
