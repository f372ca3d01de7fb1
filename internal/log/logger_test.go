package log

import (
	"bytes"
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"WARN":    slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"info":    slog.LevelInfo,
		"":        slog.LevelInfo,
		"verbose": slog.LevelInfo,
	}
	for in, want := range tests {
		if got := ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestLoggerAddsComponent(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Level: slog.LevelDebug, Component: ComponentStorage, Output: &buf})

	logger.InfoContext(context.Background(), "hello", FieldCount, 3)
	out := buf.String()
	if !strings.Contains(out, "component=storage") || !strings.Contains(out, "count=3") {
		t.Fatalf("unexpected output: %q", out)
	}

	buf.Reset()
	logger.WithComponent(ComponentHTTP).Debug("debug line")
	if !strings.Contains(buf.String(), "component=http") {
		t.Fatalf("unexpected output: %q", buf.String())
	}
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Level: slog.LevelWarn, Output: &buf})
	logger.Info("hidden")
	if buf.Len() != 0 {
		t.Fatalf("info should be filtered at warn level: %q", buf.String())
	}
	logger.Warn("shown")
	if !strings.Contains(buf.String(), "shown") {
		t.Fatalf("warn should be logged: %q", buf.String())
	}
}

func TestRequestIDMiddleware(t *testing.T) {
	var buf bytes.Buffer
	base := New(Config{Level: slog.LevelInfo, Component: ComponentHTTP, Output: &buf})

	handler := Middleware(base)(RequestIDMiddleware(func(r *http.Request) string {
		return r.Header.Get("X-Request-ID")
	})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		FromContext(r.Context()).InfoContext(r.Context(), "inside")
	})))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	handler.ServeHTTP(httptest.NewRecorder(), req)

	if !strings.Contains(buf.String(), "request_id=abc-123") {
		t.Fatalf("request id missing from log: %q", buf.String())
	}
}

func TestLogFields(t *testing.T) {
	f := NewFields().WithOperation(OpCreate).WithExpense(7, 12.5, "Food", "2024-06-03").WithError(nil)
	if f[FieldOperation] != OpCreate || f[FieldExpenseID] != int64(7) || f[FieldCategory] != "Food" {
		t.Fatalf("unexpected fields: %v", f)
	}
	if _, ok := f[FieldError]; ok {
		t.Fatal("nil error should not add a field")
	}
	if len(f.ToSlice()) != 2*len(f) {
		t.Fatalf("ToSlice length mismatch")
	}
}
