package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// clearDBEnv blanks every database variable so the host environment cannot leak
// into a test.
func clearDBEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{"DB_HOST", "DB_PORT", "DB_NAME", "DB_USER", "DB_PASSWORD", "STORAGE_BACKEND", "CONFIG_PATH"} {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
}

// TestLoad_PostGISRequiresAllParameters verifies that the postgis backend has no
// connection defaults.
func TestLoad_PostGISRequiresAllParameters(t *testing.T) {
	clearDBEnv(t)
	t.Setenv("DB_PASSWORD", "secret")

	_, _, err := Load("")
	if !errors.Is(err, ErrMissingParameter) {
		t.Fatalf("expected ErrMissingParameter, got %v", err)
	}
	for _, name := range []string{"DB_HOST", "DB_PORT", "DB_NAME", "DB_USER"} {
		if !strings.Contains(err.Error(), name) {
			t.Errorf("expected %s to be reported missing, got %q", name, err)
		}
	}
}

// TestLoad_PostGISFromEnv verifies that connection parameters come from the
// environment.
func TestLoad_PostGISFromEnv(t *testing.T) {
	clearDBEnv(t)
	t.Setenv("DB_HOST", "db.internal")
	t.Setenv("DB_PORT", "6543")
	t.Setenv("DB_NAME", "gis")
	t.Setenv("DB_USER", "mapper")
	t.Setenv("DB_PASSWORD", "secret")

	cfg, scr, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Storage != StoragePostGIS {
		t.Errorf("expected postgis backend, got %q", cfg.Storage)
	}
	if cfg.Host != "db.internal" || cfg.Port != 6543 || cfg.DBname != "gis" || cfg.Username != "mapper" {
		t.Errorf("unexpected postgres config: %+v", cfg.PostgresServer)
	}
	if scr.PostgresPassword != "secret" {
		t.Errorf("expected password from env, got %q", scr.PostgresPassword)
	}

	want := "host=db.internal port=6543 user=mapper password=secret dbname=gis sslmode=disable"
	if got := cfg.DSN(scr.PostgresPassword); got != want {
		t.Errorf("DSN = %q, want %q", got, want)
	}
}

// TestLoad_ORMDefaults verifies that the orm backend falls back to local defaults.
func TestLoad_ORMDefaults(t *testing.T) {
	clearDBEnv(t)
	t.Setenv("STORAGE_BACKEND", "ORM")
	t.Setenv("DB_PASSWORD", "secret")

	cfg, _, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Storage != StorageORM {
		t.Errorf("expected orm backend, got %q", cfg.Storage)
	}
	if cfg.Host != "localhost" || cfg.Port != 5432 || cfg.DBname != "postgis_35" || cfg.Username != "postgres" {
		t.Errorf("unexpected orm defaults: %+v", cfg.PostgresServer)
	}
}

// TestLoad_UnknownBackend verifies that an unknown backend name is rejected.
func TestLoad_UnknownBackend(t *testing.T) {
	clearDBEnv(t)
	t.Setenv("STORAGE_BACKEND", "mongo")
	t.Setenv("DB_PASSWORD", "secret")

	if _, _, err := Load(""); err == nil {
		t.Fatal("expected an error for an unknown backend")
	}
}

// TestLoad_YAMLWithEnvOverride verifies that the YAML file is read and the
// environment wins over it.
func TestLoad_YAMLWithEnvOverride(t *testing.T) {
	clearDBEnv(t)

	path := filepath.Join(t.TempDir(), "config.yaml")
	yaml := `env: prod
http_server:
  address: "0.0.0.0:9000"
  read_timeout: 3s
postgres_server:
  host: yaml-host
  port: 5433
  username: yaml-user
  db_name: yaml-db
loader:
  path: data/regions.geojson
`
	if err := os.WriteFile(path, []byte(yaml), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("DB_HOST", "env-host")
	t.Setenv("DB_PASSWORD", "secret")

	cfg, _, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Env != "prod" {
		t.Errorf("expected env prod, got %q", cfg.Env)
	}
	if cfg.Address != "0.0.0.0:9000" || cfg.ReadTimeout != 3*time.Second {
		t.Errorf("unexpected http config: %+v", cfg.HTTPServer)
	}
	if cfg.Host != "env-host" {
		t.Errorf("expected env to override host, got %q", cfg.Host)
	}
	if cfg.Port != 5433 || cfg.DBname != "yaml-db" {
		t.Errorf("unexpected postgres config: %+v", cfg.PostgresServer)
	}
	if cfg.Loader.Path != "data/regions.geojson" || cfg.DefaultName != "Karnataka Region" {
		t.Errorf("unexpected loader config: %+v", cfg.Loader)
	}
}

// TestLoad_MissingFile verifies that a configured but absent file is an error.
func TestLoad_MissingFile(t *testing.T) {
	clearDBEnv(t)
	t.Setenv("DB_PASSWORD", "secret")

	if _, _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected an error for a missing config file")
	}
}
