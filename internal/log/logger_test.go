package log

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"expense-tracker/internal/core"
)

func TestLoggerAddsComponent(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Component: ComponentStorage, Handler: slog.NewTextHandler(&buf, nil)})
	l.InfoContext(context.Background(), "saved", FieldRecordID, 3)

	out := buf.String()
	if !strings.Contains(out, "component=storage") || !strings.Contains(out, "id=3") {
		t.Fatalf("unexpected log line: %s", out)
	}

	buf.Reset()
	l.WithComponent(ComponentController).WarnContext(context.Background(), "no selection")
	if !strings.Contains(buf.String(), "component=controller") {
		t.Fatalf("unexpected log line: %s", buf.String())
	}
}

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"":      slog.LevelInfo,
		"debug": slog.LevelDebug,
		"INFO":  slog.LevelInfo,
		"warn":  slog.LevelWarn,
		"error": slog.LevelError,
	}
	for in, want := range cases {
		got, err := ParseLevel(in)
		if err != nil || got != want {
			t.Errorf("ParseLevel(%q) = %v, %v; want %v", in, got, err, want)
		}
	}
	if _, err := ParseLevel("loud"); err == nil {
		t.Error("expected error for unknown level")
	}
}

func TestNewFileConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state", "app.log")
	cfg, closer, err := NewFileConfig(path, slog.LevelDebug)
	if err != nil {
		t.Fatalf("NewFileConfig: %v", err)
	}
	New(cfg).DebugContext(context.Background(), "hello")
	closer.Close()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if !strings.Contains(string(data), "msg=hello") {
		t.Fatalf("log file missing record: %s", data)
	}
}

func TestLogFieldsWithError(t *testing.T) {
	f := NewFields().WithError(&core.ValidationError{Field: "item_price", Err: core.ErrInvalidAmount})
	if f[FieldErrorType] != ErrorTypeValidation {
		t.Fatalf("expected validation type, got %v", f[FieldErrorType])
	}
	f = NewFields().WithError(&core.StorageError{Op: "insert", Err: errors.New("locked")})
	if f[FieldErrorType] != ErrorTypeDatabase {
		t.Fatalf("expected database type, got %v", f[FieldErrorType])
	}
	f = NewFields().WithError(fmt.Errorf("delete: %w", core.ErrNoSelection))
	if f[FieldErrorType] != ErrorTypeSelection {
		t.Fatalf("expected selection type, got %v", f[FieldErrorType])
	}
	if len(NewFields().WithError(nil)) != 0 {
		t.Fatal("nil error should add no fields")
	}
}
