package reconciler_test

import (
	"context"
	"testing"

	"restow/internal/catalog"
	"restow/internal/logging"
	"restow/internal/objectstore"
	"restow/internal/reconciler"
	"restow/internal/relocate"
	"restow/internal/resolve"
	"restow/internal/testsupport"
)

const publicBase = "https://cdn.example.com/media"

func newReconciler(cat *catalog.Store, store objectstore.Store) *reconciler.Reconciler {
	resolver := resolve.New(store, logging.NewNop(), resolve.Options{
		PublicBaseURL:  publicBase,
		ListPageSize:   100,
		ListingScanCap: 10000,
	})
	executor := relocate.NewExecutor(store, logging.NewNop(), true)
	return reconciler.New(cat, resolver, executor, publicBase, logging.NewNop())
}

func TestRelocationPassMovesLegacyObject(t *testing.T) {
	cat := testsupport.MustOpenCatalog(t)
	store := objectstore.NewMemory()
	ctx := context.Background()

	lesson := testsupport.SeedLineage(t, cat, "Course X", "Mod 2", "Lesson 3")
	payload := []byte("pdf-bytes")
	obj := testsupport.SeedLinkedObject(t, cat, lesson, "handout", catalog.StoredObject{
		LogicalName: "notes",
		Extension:   "pdf",
		ContentType: "application/pdf",
		ContentHash: "abc123",
		CurrentKey:  "abc123.pdf",
		SizeBytes:   int64(len(payload)),
	})
	store.Seed("abc123.pdf", "application/octet-stream", payload)

	report, err := newReconciler(cat, store).RelocationPass(ctx, false)
	if err != nil {
		t.Fatalf("RelocationPass: %v", err)
	}
	if report.Processed != 1 || report.Moved != 1 || report.Errored != 0 {
		t.Fatalf("report = %+v", report)
	}

	wantKey := "course-x/mod-2/lesson-3/notes.pdf"
	if store.Contains("abc123.pdf") {
		t.Fatal("legacy key should be gone")
	}
	if !store.Contains(wantKey) {
		t.Fatalf("object missing at %q", wantKey)
	}

	updated, err := cat.GetObject(ctx, obj.ID)
	if err != nil {
		t.Fatalf("GetObject: %v", err)
	}
	if updated.CurrentKey != wantKey {
		t.Fatalf("pointer = %q, want %q", updated.CurrentKey, wantKey)
	}
	if updated.PublicURL != publicBase+"/"+wantKey {
		t.Fatalf("public URL = %q", updated.PublicURL)
	}
}

func TestRelocationPassIdempotent(t *testing.T) {
	cat := testsupport.MustOpenCatalog(t)
	store := objectstore.NewMemory()
	ctx := context.Background()

	lesson := testsupport.SeedLineage(t, cat, "Course X", "Mod 2")
	testsupport.SeedLinkedObject(t, cat, lesson, "handout", catalog.StoredObject{
		LogicalName: "notes", Extension: "pdf", ContentType: "application/pdf",
		ContentHash: "abc123", CurrentKey: "abc123.pdf", SizeBytes: 4,
	})
	store.Seed("abc123.pdf", "application/pdf", []byte("data"))

	rec := newReconciler(cat, store)
	first, err := rec.RelocationPass(ctx, false)
	if err != nil {
		t.Fatalf("first pass: %v", err)
	}
	if first.Moved != 1 {
		t.Fatalf("first pass moved = %d", first.Moved)
	}

	second, err := rec.RelocationPass(ctx, false)
	if err != nil {
		t.Fatalf("second pass: %v", err)
	}
	if second.Moved != 0 || second.AlreadyPlaced != 1 {
		t.Fatalf("second pass should be a no-op, got %+v", second)
	}
}

func TestRelocationPassNoOpMakesNoCopyOrDelete(t *testing.T) {
	cat := testsupport.MustOpenCatalog(t)
	store := objectstore.NewMemory()

	lesson := testsupport.SeedLineage(t, cat, "Course X", "Mod 2")
	key := "course-x/mod-2/notes.pdf"
	testsupport.SeedLinkedObject(t, cat, lesson, "handout", catalog.StoredObject{
		LogicalName: "notes", Extension: "pdf", CurrentKey: key, SizeBytes: 4,
	})
	store.Seed(key, "application/pdf", []byte("data"))

	report, err := newReconciler(cat, store).RelocationPass(context.Background(), false)
	if err != nil {
		t.Fatalf("RelocationPass: %v", err)
	}
	if report.AlreadyPlaced != 1 {
		t.Fatalf("report = %+v", report)
	}
	if n := store.Calls("copy"); n != 0 {
		t.Fatalf("no-op must not copy, got %d calls", n)
	}
	if n := store.Calls("delete"); n != 0 {
		t.Fatalf("no-op must not delete, got %d calls", n)
	}
}

func TestRelocationPassDryRunMutatesNothing(t *testing.T) {
	cat := testsupport.MustOpenCatalog(t)
	store := objectstore.NewMemory()
	ctx := context.Background()

	lesson := testsupport.SeedLineage(t, cat, "Course X")
	obj := testsupport.SeedLinkedObject(t, cat, lesson, "handout", catalog.StoredObject{
		LogicalName: "notes", Extension: "pdf", ContentHash: "abc123",
		CurrentKey: "abc123.pdf", SizeBytes: 4,
	})
	store.Seed("abc123.pdf", "application/pdf", []byte("data"))

	report, err := newReconciler(cat, store).RelocationPass(ctx, true)
	if err != nil {
		t.Fatalf("RelocationPass: %v", err)
	}
	if report.Moved != 1 || len(report.Moves) != 1 {
		t.Fatalf("dry-run should report the pending move, got %+v", report)
	}
	if !store.Contains("abc123.pdf") {
		t.Fatal("dry-run must not touch the store")
	}
	if n := store.Calls("copy") + store.Calls("delete"); n != 0 {
		t.Fatalf("dry-run made %d mutating store calls", n)
	}
	current, err := cat.GetObject(ctx, obj.ID)
	if err != nil {
		t.Fatalf("GetObject: %v", err)
	}
	if current.CurrentKey != "abc123.pdf" {
		t.Fatalf("dry-run must not advance the pointer, got %q", current.CurrentKey)
	}
}

func TestRelocationPassUnresolvableIsSkippedNotFatal(t *testing.T) {
	cat := testsupport.MustOpenCatalog(t)
	store := objectstore.NewMemory()

	lesson := testsupport.SeedLineage(t, cat, "Course X")
	// Object exists in the catalog but nowhere in the store.
	testsupport.SeedLinkedObject(t, cat, lesson, "handout", catalog.StoredObject{
		LogicalName: "ghost", Extension: "pdf", ContentHash: "feedface", CurrentKey: "feedface.pdf",
	})
	// A healthy second item proves the pass continued.
	store.Seed("abc123.pdf", "application/pdf", []byte("data"))
	testsupport.SeedLinkedObject(t, cat, lesson, "cover", catalog.StoredObject{
		LogicalName: "notes", Extension: "pdf", ContentHash: "abc123", CurrentKey: "abc123.pdf", SizeBytes: 4,
	})

	report, err := newReconciler(cat, store).RelocationPass(context.Background(), false)
	if err != nil {
		t.Fatalf("RelocationPass: %v", err)
	}
	if report.Unresolvable != 1 {
		t.Fatalf("expected one unresolvable item, got %+v", report)
	}
	if report.Moved != 1 {
		t.Fatalf("healthy item should still move, got %+v", report)
	}
	if len(report.Failures) != 1 {
		t.Fatalf("failures = %+v", report.Failures)
	}
}

func TestRelocationPassDestinationExistsAdvancesPointer(t *testing.T) {
	cat := testsupport.MustOpenCatalog(t)
	store := objectstore.NewMemory()
	ctx := context.Background()

	lesson := testsupport.SeedLineage(t, cat, "Course X", "Mod 2")
	payload := []byte("data")
	obj := testsupport.SeedLinkedObject(t, cat, lesson, "handout", catalog.StoredObject{
		LogicalName: "notes", Extension: "pdf", ContentType: "application/pdf",
		ContentHash: "abc123", CurrentKey: "abc123.pdf", SizeBytes: int64(len(payload)),
	})
	// A previous run copied but crashed before deleting the source.
	store.Seed("abc123.pdf", "application/pdf", payload)
	store.Seed("course-x/mod-2/notes.pdf", "application/pdf", payload)

	report, err := newReconciler(cat, store).RelocationPass(ctx, false)
	if err != nil {
		t.Fatalf("RelocationPass: %v", err)
	}
	if report.Moved != 1 {
		t.Fatalf("report = %+v", report)
	}
	if store.Contains("abc123.pdf") {
		t.Fatal("source must not survive when destination exists")
	}
	updated, err := cat.GetObject(ctx, obj.ID)
	if err != nil {
		t.Fatalf("GetObject: %v", err)
	}
	if updated.CurrentKey != "course-x/mod-2/notes.pdf" {
		t.Fatalf("pointer = %q", updated.CurrentKey)
	}
}

func TestHygienePassRemovesCorruptRows(t *testing.T) {
	cat := testsupport.MustOpenCatalog(t)
	store := objectstore.NewMemory()
	ctx := context.Background()

	owner := testsupport.SeedLineage(t, cat, "Course X")
	obj := testsupport.SeedLinkedObject(t, cat, owner, "handout", catalog.StoredObject{LogicalName: "a"})

	// Duplicate of the healthy link.
	if _, err := cat.CreateLink(ctx, obj.ID, owner.ID, "handout"); err != nil {
		t.Fatalf("CreateLink: %v", err)
	}
	// Orphaned link.
	if _, err := cat.CreateLink(ctx, 9999, owner.ID, "cover"); err != nil {
		t.Fatalf("CreateLink: %v", err)
	}
	// Dangling link.
	doomed := testsupport.SeedLineage(t, cat, "Doomed")
	if _, err := cat.CreateLink(ctx, obj.ID, doomed.ID, "cover"); err != nil {
		t.Fatalf("CreateLink: %v", err)
	}
	if _, err := cat.DeleteEntity(ctx, doomed.ID); err != nil {
		t.Fatalf("DeleteEntity: %v", err)
	}

	rec := newReconciler(cat, store)

	dry, err := rec.HygienePass(ctx, true)
	if err != nil {
		t.Fatalf("HygienePass dry-run: %v", err)
	}
	if dry.Orphaned != 1 || dry.Dangling != 1 || dry.Duplicates != 1 {
		t.Fatalf("dry-run report = %+v", dry)
	}

	// Dry-run removed nothing.
	again, err := rec.HygienePass(ctx, true)
	if err != nil {
		t.Fatalf("HygienePass: %v", err)
	}
	if again.Total() != 3 {
		t.Fatalf("dry-run should be side-effect-free, got %+v", again)
	}

	executed, err := rec.HygienePass(ctx, false)
	if err != nil {
		t.Fatalf("HygienePass execute: %v", err)
	}
	if executed.Total() != 3 {
		t.Fatalf("execute report = %+v", executed)
	}

	// Healthy link untouched; re-run finds nothing.
	links, err := cat.LinksForSlot(ctx, owner.ID, "handout")
	if err != nil {
		t.Fatalf("LinksForSlot: %v", err)
	}
	if len(links) != 1 {
		t.Fatalf("healthy link should survive, got %d", len(links))
	}
	rerun, err := rec.HygienePass(ctx, false)
	if err != nil {
		t.Fatalf("HygienePass rerun: %v", err)
	}
	if rerun.Total() != 0 {
		t.Fatalf("rerun should find nothing, got %+v", rerun)
	}
}
