package services_test

import (
	"errors"
	"strings"
	"testing"

	"restow/internal/services"
)

func TestWrapTagsMarker(t *testing.T) {
	base := errors.New("connection refused")
	err := services.Wrap(services.ErrTransient, "relocate", "copy object", "store rejected copy", base)
	if !errors.Is(err, services.ErrTransient) {
		t.Fatalf("expected ErrTransient marker, got %v", err)
	}
	if !errors.Is(err, base) {
		t.Fatalf("expected wrapped base error, got %v", err)
	}
	for _, fragment := range []string{"relocate", "copy object", "store rejected copy"} {
		if !strings.Contains(err.Error(), fragment) {
			t.Fatalf("error %q missing fragment %q", err.Error(), fragment)
		}
	}
}

func TestWrapNilMarkerDefaultsTransient(t *testing.T) {
	err := services.Wrap(nil, "catalog", "", "", nil)
	if !errors.Is(err, services.ErrTransient) {
		t.Fatalf("expected ErrTransient default, got %v", err)
	}
}

func TestIsFatal(t *testing.T) {
	if !services.IsFatal(services.Wrap(services.ErrConfiguration, "config", "load", "store.bucket is required", nil)) {
		t.Fatal("configuration errors must be fatal")
	}
	if services.IsFatal(services.Wrap(services.ErrNotFound, "resolve", "chain", "all strategies exhausted", nil)) {
		t.Fatal("resolution failures must not be fatal")
	}
}
