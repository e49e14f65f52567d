package config

import (
	"strings"
	"testing"
)

func TestLookup_Exists(t *testing.T) {
	spec := Lookup("default-toolchain")
	if spec == nil {
		t.Fatal("expected to find key 'default-toolchain', got nil")
	}
	if spec.Name != "default-toolchain" {
		t.Errorf("expected Name %q, got %q", "default-toolchain", spec.Name)
	}
}

func TestLookup_CaseInsensitive(t *testing.T) {
	spec := Lookup("DEFAULT-TOOLCHAIN")
	if spec == nil {
		t.Fatal("expected case-insensitive lookup to succeed")
	}
	if spec.Name != "default-toolchain" {
		t.Errorf("expected Name %q, got %q", "default-toolchain", spec.Name)
	}
}

func TestLookup_NotFound(t *testing.T) {
	spec := Lookup("nonexistent-key")
	if spec != nil {
		t.Errorf("expected nil for unknown key, got %+v", spec)
	}
}

func TestKeys_AllHaveGetAndSet(t *testing.T) {
	for _, k := range Keys {
		if k.Get == nil {
			t.Errorf("key %q has nil Get function", k.Name)
		}
		if k.Set == nil {
			t.Errorf("key %q has nil Set function", k.Name)
		}
		if k.Description == "" {
			t.Errorf("key %q has empty Description", k.Name)
		}
	}
}

func TestKeys_GetSetRoundtrip(t *testing.T) {
	values := map[string]string{
		"default-toolchain": "dotnet",
		"default-runbook":   "docs/runbook.md",
		"debug":             "true",
	}
	for _, k := range Keys {
		want, ok := values[k.Name]
		if !ok {
			t.Fatalf("no test value registered for key %q", k.Name)
		}
		cfg := &Config{}
		k.Set(cfg, want)
		if got := k.Get(cfg); got != want {
			t.Errorf("key %q: Set then Get = %q, want %q", k.Name, got, want)
		}
	}
}

func TestDebugKey_ParsesBools(t *testing.T) {
	spec := Lookup("debug")
	if spec == nil {
		t.Fatal("expected to find key 'debug', got nil")
	}

	cfg := &Config{}
	spec.Set(cfg, "TRUE")
	if !cfg.Debug {
		t.Error("expected 'TRUE' to enable debug")
	}
	spec.Set(cfg, "false")
	if cfg.Debug {
		t.Error("expected 'false' to disable debug")
	}
	spec.Set(cfg, "yes")
	if cfg.Debug {
		t.Error("expected unrecognized value to disable debug")
	}
}

func TestKeyNames(t *testing.T) {
	names := KeyNames()
	if len(names) != len(Keys) {
		t.Fatalf("expected %d names, got %d", len(Keys), len(names))
	}
	for i, name := range names {
		if name != Keys[i].Name {
			t.Errorf("index %d: expected %q, got %q", i, Keys[i].Name, name)
		}
	}
}

func TestKeysHelp_ContainsAllKeys(t *testing.T) {
	help := KeysHelp()
	if !strings.Contains(help, "Available keys:") {
		t.Error("expected 'Available keys:' header in help output")
	}
	for _, k := range Keys {
		if !strings.Contains(help, k.Name) {
			t.Errorf("expected key %q in help output", k.Name)
		}
		if !strings.Contains(help, k.Description) {
			t.Errorf("expected description %q in help output", k.Description)
		}
	}
}
