package logger

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/josephgoksu/factwing/internal/diagnostics"
)

func TestWarnIncludesDiagnosticsKind(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	Warn(logger, diagnostics.ExternalUnavailable, "entity extractor failed", os.ErrDeadlineExceeded)

	out := buf.String()
	if !strings.Contains(out, "entity extractor failed") {
		t.Fatalf("expected message in log output, got: %s", out)
	}
	if !strings.Contains(out, diagnostics.ExternalUnavailable.String()) {
		t.Fatalf("expected kind in log output, got: %s", out)
	}
}

func TestWarnFallsBackToDefaultLoggerWhenNil(t *testing.T) {
	// Must not panic when given a nil logger.
	Warn(nil, diagnostics.EmptyResult, "no entities found", nil)
}

func TestGetCrashLogPathUsesBasePath(t *testing.T) {
	dir := t.TempDir()
	SetBasePath(dir)
	defer SetBasePath("")

	path := getCrashLogPath(time.Now())
	want := filepath.Join(dir, CrashLogDir)
	if !strings.HasPrefix(path, want) {
		t.Fatalf("expected crash log path under %s, got %s", want, path)
	}
}
