package logging_test

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"restow/internal/logging"
	"restow/internal/services"
)

func TestNewConsoleIncludesAttrs(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.New(logging.Options{Level: "info", Format: "console", Output: &buf})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	logger.Info("relocated object", logging.String("key", "course-x/notes.pdf"), logging.Int64("object_id", 7))
	out := buf.String()
	for _, fragment := range []string{"relocated object", "key=course-x/notes.pdf", "object_id=7"} {
		if !strings.Contains(out, fragment) {
			t.Fatalf("output %q missing %q", out, fragment)
		}
	}
}

func TestNewRejectsUnknownFormat(t *testing.T) {
	if _, err := logging.New(logging.Options{Format: "xml"}); err == nil {
		t.Fatal("expected error for unsupported format")
	}
}

func TestNewJSONFormat(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.New(logging.Options{Level: "debug", Format: "json", Output: &buf})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	logger.Debug("probe complete")
	if !strings.Contains(buf.String(), `"msg":"probe complete"`) {
		t.Fatalf("expected JSON record, got %q", buf.String())
	}
}

func TestWithContextAddsFields(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.New(logging.Options{Level: "info", Format: "console", Output: &buf})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	ctx := services.WithObjectID(context.Background(), 42)
	ctx = services.WithPass(ctx, "relocation")
	logging.WithContext(ctx, logger).Info("processing")
	out := buf.String()
	if !strings.Contains(out, "object_id=42") || !strings.Contains(out, "pass=relocation") {
		t.Fatalf("context fields missing from %q", out)
	}
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.New(logging.Options{Level: "warn", Format: "console", Output: &buf})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	logger.Info("hidden")
	logger.Warn("visible")
	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Fatalf("info record should be filtered at warn level: %q", out)
	}
	if !strings.Contains(out, "visible") {
		t.Fatalf("warn record missing: %q", out)
	}
}
