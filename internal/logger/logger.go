// Package logger provides crash logging, recovery, and structured
// recoverable-error reporting for factwing.
package logger

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"runtime/debug"
	"strings"
	"sync"
	"time"

	"github.com/josephgoksu/factwing/internal/diagnostics"
)

const (
	// CrashLogDir is the directory for crash logs relative to the base path.
	CrashLogDir = "crash_logs"

	// MaxCrashLogs is the maximum number of crash logs to keep.
	MaxCrashLogs = 10
)

type crashContext struct {
	mu       sync.RWMutex
	command  string
	version  string
	basePath string
}

var globalContext = &crashContext{}

// SetBasePath sets the base path for crash logs (typically .factwing).
func SetBasePath(path string) {
	globalContext.mu.Lock()
	defer globalContext.mu.Unlock()
	globalContext.basePath = path
}

// SetVersion sets the application version recorded in crash logs.
func SetVersion(version string) {
	globalContext.mu.Lock()
	defer globalContext.mu.Unlock()
	globalContext.version = version
}

// SetCommand sets the current command being executed.
func SetCommand(cmd string) {
	globalContext.mu.Lock()
	defer globalContext.mu.Unlock()
	globalContext.command = cmd
}

// crashLog is one recorded panic.
type crashLog struct {
	Timestamp  time.Time
	Version    string
	Command    string
	PanicValue string
	StackTrace string
	GoVersion  string
	OS         string
	Arch       string
}

// HandlePanic recovers from a panic, writes a crash log, prints a
// user-facing pointer to it, then exits with status 1.
// Usage: defer logger.HandlePanic()
func HandlePanic() {
	if r := recover(); r != nil {
		log := createCrashLog(r)
		path := getCrashLogPath(log.Timestamp)
		if err := writeCrashLog(log, path); err != nil {
			fmt.Fprintf(os.Stderr, "\n[CRASH] failed to write crash log: %v\n", err)
			fmt.Fprintf(os.Stderr, "[CRASH] panic: %v\n%s\n", r, debug.Stack())
		} else {
			fmt.Fprintf(os.Stderr, "\nfactwing encountered an unexpected error.\n")
			fmt.Fprintf(os.Stderr, "A crash log has been saved to:\n  %s\n", path)
		}
		os.Exit(1)
	}
}

func createCrashLog(panicValue any) crashLog {
	globalContext.mu.RLock()
	defer globalContext.mu.RUnlock()

	return crashLog{
		Timestamp:  time.Now(),
		Version:    globalContext.version,
		Command:    globalContext.command,
		PanicValue: fmt.Sprintf("%v", panicValue),
		StackTrace: string(debug.Stack()),
		GoVersion:  runtime.Version(),
		OS:         runtime.GOOS,
		Arch:       runtime.GOARCH,
	}
}

func writeCrashLog(log crashLog, path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("logger: create crash log dir: %w", err)
	}
	if err := cleanOldCrashLogs(dir); err != nil {
		fmt.Fprintf(os.Stderr, "[WARN] failed to clean old crash logs: %v\n", err)
	}
	return os.WriteFile(path, []byte(formatCrashLog(log)), 0o644)
}

func getCrashLogDir() string {
	globalContext.mu.RLock()
	basePath := globalContext.basePath
	globalContext.mu.RUnlock()

	if basePath == "" {
		basePath = ".factwing"
	}
	return filepath.Join(basePath, CrashLogDir)
}

func getCrashLogPath(t time.Time) string {
	return filepath.Join(getCrashLogDir(), fmt.Sprintf("crash_%s.log", t.Format("20060102_150405")))
}

func formatCrashLog(log crashLog) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s\nFACTWING CRASH LOG\n%s\n\n", strings.Repeat("=", 80), strings.Repeat("=", 80))
	fmt.Fprintf(&b, "Timestamp: %s\n", log.Timestamp.Format(time.RFC3339))
	fmt.Fprintf(&b, "Version:   %s\n", log.Version)
	fmt.Fprintf(&b, "Command:   %s\n", log.Command)
	fmt.Fprintf(&b, "Go:        %s\n", log.GoVersion)
	fmt.Fprintf(&b, "OS/Arch:   %s/%s\n\n", log.OS, log.Arch)
	fmt.Fprintf(&b, "%s\nPANIC VALUE\n%s\n%s\n\n", strings.Repeat("-", 80), strings.Repeat("-", 80), log.PanicValue)
	fmt.Fprintf(&b, "%s\nSTACK TRACE\n%s\n%s\n", strings.Repeat("-", 80), strings.Repeat("-", 80), log.StackTrace)
	return b.String()
}

func cleanOldCrashLogs(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	var crashLogs []os.DirEntry
	for _, e := range entries {
		if !e.IsDir() && strings.HasPrefix(e.Name(), "crash_") && strings.HasSuffix(e.Name(), ".log") {
			crashLogs = append(crashLogs, e)
		}
	}
	// Leave room for the crash log about to be written, so at most
	// MaxCrashLogs remain afterward.
	if len(crashLogs) < MaxCrashLogs {
		return nil
	}

	toRemove := len(crashLogs) - MaxCrashLogs + 1
	for i := range toRemove {
		if err := os.Remove(filepath.Join(dir, crashLogs[i].Name())); err != nil {
			return fmt.Errorf("remove old crash log %s: %w", crashLogs[i].Name(), err)
		}
	}
	return nil
}

// Warn logs a recoverable error (spec.md §7) at WARN level, identifying
// the diagnostics.Kind so the log line and the Diagnostics accumulator
// stay in sync. Recording into the Diagnostics object itself remains the
// caller's job; Warn only handles the human-visible side.
func Warn(logger *slog.Logger, kind diagnostics.Kind, msg string, err error) {
	if logger == nil {
		logger = slog.Default()
	}
	logger.Warn(msg, "kind", kind.String(), "error", err)
}
