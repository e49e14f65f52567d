package config

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"nathanbeddoewebdev/conform/internal/config"
	"nathanbeddoewebdev/conform/internal/domain"
	"nathanbeddoewebdev/conform/internal/services/auth"
	"nathanbeddoewebdev/conform/internal/toolchains"
)

// setupTestConfig points the config package at a temp file and returns cleanup.
func setupTestConfig(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.json")
	config.SetPath(path)
	t.Cleanup(config.ResetPath)
	return path
}

// registerTestToolchain registers a mock toolchain in the global registry.
func registerTestToolchain(t *testing.T, name string) {
	t.Helper()
	toolchains.Reset()
	t.Cleanup(func() { toolchains.Reset() })
	toolchains.Register(name, func(target string, store auth.Store) (domain.Toolchain, error) {
		return nil, nil
	})
}

// execConfig creates the config command, wires up output buffers, runs with the
// given args, and returns what was written to stdout and stderr.
func execConfig(t *testing.T, args ...string) (stdout, stderr string) {
	t.Helper()
	var outBuf, errBuf bytes.Buffer
	cmd := NewCommand()
	cmd.SetOut(&outBuf)
	cmd.SetErr(&errBuf)
	cmd.SetArgs(args)
	cmd.Execute()
	return outBuf.String(), errBuf.String()
}

func TestSet_DefaultToolchain(t *testing.T) {
	setupTestConfig(t)
	registerTestToolchain(t, "dotnet")

	stdout, stderr := execConfig(t, "set", "default-toolchain", "dotnet")

	if stderr != "" {
		t.Errorf("unexpected stderr: %s", stderr)
	}
	if !strings.Contains(stdout, `"dotnet"`) {
		t.Errorf("expected confirmation with toolchain name, got: %s", stdout)
	}

	// Verify it was persisted.
	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}
	if cfg.DefaultToolchain != "dotnet" {
		t.Errorf("expected DefaultToolchain %q, got %q", "dotnet", cfg.DefaultToolchain)
	}
}

func TestSet_DefaultToolchain_UnknownToolchain(t *testing.T) {
	setupTestConfig(t)
	registerTestToolchain(t, "dotnet")

	_, stderr := execConfig(t, "set", "default-toolchain", "nonexistent")

	if !strings.Contains(stderr, "unknown toolchain") {
		t.Errorf("expected 'unknown toolchain' error, got: %s", stderr)
	}
}

func TestSet_UnknownKey(t *testing.T) {
	setupTestConfig(t)

	_, stderr := execConfig(t, "set", "bogus-key", "value")

	if !strings.Contains(stderr, "unknown configuration key") {
		t.Errorf("expected 'unknown configuration key' error, got: %s", stderr)
	}
}

func TestSet_DefaultToolchain_CaseInsensitive(t *testing.T) {
	setupTestConfig(t)
	registerTestToolchain(t, "dotnet")

	stdout, stderr := execConfig(t, "set", "default-toolchain", "DOTNET")

	if stderr != "" {
		t.Errorf("unexpected stderr: %s", stderr)
	}
	if !strings.Contains(stdout, `"dotnet"`) {
		t.Errorf("expected normalized toolchain name, got: %s", stdout)
	}
}

func TestSet_DefaultRunbook(t *testing.T) {
	path := setupTestConfig(t)

	stdout, stderr := execConfig(t, "set", "default-runbook", "docs/Migration.md")

	if stderr != "" {
		t.Errorf("unexpected stderr: %s", stderr)
	}
	if !strings.Contains(stdout, `"docs/Migration.md"`) {
		t.Errorf("expected confirmation with runbook path, got: %s", stdout)
	}

	// Runbook paths keep their case.
	cfg, err := config.LoadFrom(path)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}
	if cfg.DefaultRunbook != "docs/Migration.md" {
		t.Errorf("expected DefaultRunbook %q, got %q", "docs/Migration.md", cfg.DefaultRunbook)
	}
}

func TestSet_Debug_RejectsNonBool(t *testing.T) {
	setupTestConfig(t)

	_, stderr := execConfig(t, "set", "debug", "maybe")

	if !strings.Contains(stderr, "must be true or false") {
		t.Errorf("expected bool validation error, got: %s", stderr)
	}
}
