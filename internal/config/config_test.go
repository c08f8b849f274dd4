package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Port != 8640 {
		t.Errorf("port = %v, want 8640", cfg.Server.Port)
	}
	if cfg.Local.Namespace != "default" || cfg.Local.Service != "callwatch" {
		t.Errorf("local identity defaults = %+v", cfg.Local)
	}
	if cfg.Storage.SQLite.Path == "" {
		t.Error("storage path default missing")
	}
	if len(cfg.Reporter.Statuses) != 0 || len(cfg.Reporter.Series) != 0 {
		t.Errorf("reporter policy must default to empty, got %+v", cfg.Reporter)
	}
}

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := `server:
  port: 9001
reporter:
  statuses: [429, 503]
  series: ["5xx"]
  ignore_internal_server_error: true
local:
  namespace: prod
  service: checkout-svc
  bind_ip: 10.0.0.7
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Port != 9001 {
		t.Errorf("port = %v, want 9001", cfg.Server.Port)
	}
	if !cfg.Reporter.IgnoreInternalServerError {
		t.Error("ignore_internal_server_error not loaded")
	}
	ccfg := cfg.Reporter.ClassifyConfig()
	if len(ccfg.Statuses) != 2 || ccfg.Statuses[0] != 429 {
		t.Errorf("statuses = %v", ccfg.Statuses)
	}
	if len(ccfg.Series) != 1 || ccfg.Series[0] != "5xx" {
		t.Errorf("series = %v", ccfg.Series)
	}

	id := cfg.Local.Identity()
	if id.Namespace != "prod" || id.Service != "checkout-svc" || id.BindIP != "10.0.0.7" {
		t.Errorf("identity = %+v", id)
	}
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("server:\n  port: 9001\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	t.Setenv("CALLWATCH_SERVER__PORT", "9100")
	t.Setenv("CALLWATCH_LOCAL__BIND_IP", "10.9.9.9")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Server.Port != 9100 {
		t.Errorf("port = %v, want env override 9100", cfg.Server.Port)
	}
	if cfg.Local.BindIP != "10.9.9.9" {
		t.Errorf("bind_ip = %v, want env override", cfg.Local.BindIP)
	}
}

func TestLoad_StorageOff(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("storage:\n  sqlite:\n    path: \"off\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if !cfg.Storage.SQLite.Disabled() {
		t.Errorf("path %q must disable the store", cfg.Storage.SQLite.Path)
	}

	defaults, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if defaults.Storage.SQLite.Disabled() {
		t.Error("default storage path must keep the store enabled")
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected error for missing config file")
	}
}
