// Package diag provides conform's own troubleshooting log.
//
// The run journal is the user-facing record of what a run did; this logger
// exists for debugging the tool itself. It is a nop unless enabled via the
// --debug flag or the debug config key.
package diag

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const logFile = "debug.log"

var log = zap.NewNop()

// L returns the active logger. Safe to call before Enable; callers get a
// nop logger until diagnostics are switched on.
func L() *zap.Logger { return log }

// Enable switches diagnostics on, appending to a log file under the user
// config directory. It returns the file path.
func Enable() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("diag: unable to determine config directory: %w", err)
	}
	dir := filepath.Join(base, "conform")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("diag: failed to create directory %s: %w", dir, err)
	}
	path := filepath.Join(dir, logFile)
	return path, EnableAt(path)
}

// EnableAt switches diagnostics on, appending to the given file.
func EnableAt(path string) error {
	cfg := zap.NewDevelopmentConfig()
	cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	cfg.OutputPaths = []string{path}
	cfg.ErrorOutputPaths = []string{path}

	logger, err := cfg.Build()
	if err != nil {
		return fmt.Errorf("diag: failed to initialize logger: %w", err)
	}
	log = logger
	return nil
}

// Sync flushes buffered log output. Call before exit.
func Sync() {
	_ = log.Sync()
}
