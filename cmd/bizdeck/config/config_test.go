package config

import (
	"os"
	"path/filepath"
	"testing"
)

// chdirTemp points the config dir at a project-local .bizdeck inside a temp dir.
func chdirTemp(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	old, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.Chdir(old) })

	local := filepath.Join(dir, ".bizdeck")
	if err := os.MkdirAll(local, 0755); err != nil {
		t.Fatal(err)
	}
	return local
}

func TestLoadMissingReturnsDefaults(t *testing.T) {
	chdirTemp(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Theme != "dark" {
		t.Errorf("expected default theme dark, got %q", cfg.Theme)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	chdirTemp(t)

	in := Config{
		APIKey:    "key-123",
		Theme:     "light",
		Model:     "gemini-3-flash-preview",
		VaultSlot: "custom_slot",
		Logging:   LoggingConfig{DebugMode: true, Level: "debug"},
	}
	if err := Save(in); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	out, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if out.APIKey != in.APIKey || out.Theme != in.Theme || out.VaultSlot != in.VaultSlot {
		t.Errorf("round trip mismatch: %+v", out)
	}
	if !out.Logging.DebugMode {
		t.Error("logging section lost in round trip")
	}
}

func TestResolveAPIKeyPrefersEnvironment(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "env-key")
	if got := ResolveAPIKey(Config{APIKey: "cfg-key"}); got != "env-key" {
		t.Errorf("expected env key to win, got %q", got)
	}

	t.Setenv("GEMINI_API_KEY", "")
	if got := ResolveAPIKey(Config{APIKey: "cfg-key"}); got != "cfg-key" {
		t.Errorf("expected config key fallback, got %q", got)
	}
}

func TestVaultDBPathDefault(t *testing.T) {
	local := chdirTemp(t)

	path, err := VaultDBPath(Config{})
	if err != nil {
		t.Fatalf("VaultDBPath failed: %v", err)
	}
	if filepath.Dir(path) != local {
		t.Errorf("expected vault db under %s, got %s", local, path)
	}

	custom, err := VaultDBPath(Config{VaultPath: "/tmp/x.db"})
	if err != nil {
		t.Fatal(err)
	}
	if custom != "/tmp/x.db" {
		t.Errorf("explicit vault path not honored: %s", custom)
	}
}
