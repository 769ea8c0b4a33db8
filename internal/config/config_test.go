package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mmynk/settleup/internal/calculator"
	"github.com/mmynk/settleup/internal/models"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "settleup.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return path
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config should be valid: %v", err)
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("Server.Port = %d, want 8080", cfg.Server.Port)
	}
	if cfg.Storage.Backend != BackendSQLite {
		t.Errorf("Storage.Backend = %q, want %q", cfg.Storage.Backend, BackendSQLite)
	}
	if cfg.Mode() != calculator.ModeHub {
		t.Errorf("Mode() = %v, want hub", cfg.Mode())
	}
	if got := cfg.DefaultRoster(); len(got) != len(models.DefaultRoster) {
		t.Errorf("DefaultRoster() has %d members, want %d", len(got), len(models.DefaultRoster))
	}
}

func TestLoad_File(t *testing.T) {
	path := writeConfig(t, `
[server]
port = 9090
shutdown_timeout = "3s"

[storage]
backend = "memory"

[settlement]
mode = "minimal"

[roster]
members = ["Alice", " Bob ", "Carol"]
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate failed: %v", err)
	}

	if cfg.Addr() != "127.0.0.1:9090" {
		t.Errorf("Addr() = %q", cfg.Addr())
	}
	if cfg.ShutdownTimeout().Seconds() != 3 {
		t.Errorf("ShutdownTimeout() = %v, want 3s", cfg.ShutdownTimeout())
	}
	if cfg.Storage.Backend != BackendMemory || cfg.Storage.DBPath == "" {
		t.Errorf("unexpected storage config: %+v", cfg.Storage)
	}
	if cfg.Mode() != calculator.ModeMinimal {
		t.Errorf("Mode() = %v, want minimal", cfg.Mode())
	}
	roster := cfg.DefaultRoster()
	if len(roster) != 3 || roster[1] != "Bob" {
		t.Errorf("DefaultRoster() = %v", roster)
	}
}

func TestLoad_UnknownKey(t *testing.T) {
	path := writeConfig(t, `
[server]
prot = 9090
`)
	_, err := Load(path)
	if err == nil || !strings.Contains(err.Error(), "server.prot") {
		t.Errorf("expected unknown key error, got %v", err)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.toml")); err == nil {
		t.Error("expected error for missing config file")
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	path := writeConfig(t, `
[server]
port = 9090
`)
	t.Setenv("SETTLEUP_PORT", "7000")
	t.Setenv("SETTLEUP_DB_PATH", "/tmp/override.db")
	t.Setenv("SETTLEUP_STORAGE", "memory")
	t.Setenv("SETTLEUP_MODE", "minimal")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("NATS_URL", "nats://localhost:4222")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Server.Port != 7000 {
		t.Errorf("Server.Port = %d, want 7000", cfg.Server.Port)
	}
	if cfg.Storage.DBPath != "/tmp/override.db" || cfg.Storage.Backend != BackendMemory {
		t.Errorf("unexpected storage config: %+v", cfg.Storage)
	}
	if cfg.Settlement.Mode != "minimal" || cfg.Log.Level != "debug" {
		t.Errorf("unexpected overrides: mode=%q level=%q", cfg.Settlement.Mode, cfg.Log.Level)
	}
	if cfg.Events.NATSURL != "nats://localhost:4222" {
		t.Errorf("Events.NATSURL = %q", cfg.Events.NATSURL)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate failed: %v", err)
	}
}

func TestLoad_InvalidPortEnv(t *testing.T) {
	t.Setenv("SETTLEUP_PORT", "eighty")
	if _, err := Load(""); err == nil {
		t.Error("expected error for non-numeric SETTLEUP_PORT")
	}
}

func TestValidate_CollectsAllErrors(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Server.Port = 0
	cfg.Storage.Backend = "postgres"
	cfg.Log.Level = "loud"
	cfg.Settlement.Mode = "fair"
	cfg.Roster.Members = []string{"Alice", "Alice", " "}
	cfg.Events.NATSURL = "http://localhost:4222"

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected validation errors")
	}
	for _, want := range []string{"invalid port", "invalid storage backend", "unknown log level", "unknown settlement mode", "invalid NATS URL scheme"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error %q missing %q", err, want)
		}
	}
	if !errors.Is(err, models.ErrDuplicateMember) || !errors.Is(err, models.ErrEmptyMemberName) {
		t.Errorf("expected roster errors in %v", err)
	}
}
