package config

import (
	"os"
	"path/filepath"
	"testing"
)

type storeSettings struct {
	Driver string `envconfig:"DRIVER" default:"sqlite"`
	DSN    string `envconfig:"DSN"`
	Seed   bool   `split_words:"true"`
}

func TestNewReadsPrefixedEnvironment(t *testing.T) {
	t.Setenv("CFGTEST_DRIVER", "postgres")
	t.Setenv("CFGTEST_SEED", "true")

	conf, err := New[storeSettings]("CFGTEST")
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if conf.Driver != "postgres" || !conf.Seed || conf.DSN != "" {
		t.Fatalf("conf = %#v", conf)
	}
}

func TestExportEnvironmentKeepsExistingValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.env")
	if err := os.WriteFile(path, []byte("CFGFILE_DRIVER=postgres\nCFGFILE_DSN=file:from-env-file.db\n"), 0o600); err != nil {
		t.Fatalf("write env file: %v", err)
	}
	t.Setenv("CFGFILE_DRIVER", "sqlite")
	t.Setenv("CFGFILE_DSN", "")
	os.Unsetenv("CFGFILE_DSN")

	if err := exportEnvironment(path); err != nil {
		t.Fatalf("exportEnvironment() error = %v", err)
	}
	if got := os.Getenv("CFGFILE_DRIVER"); got != "sqlite" {
		t.Fatalf("CFGFILE_DRIVER = %q, want process value kept", got)
	}
	if got := os.Getenv("CFGFILE_DSN"); got != "file:from-env-file.db" {
		t.Fatalf("CFGFILE_DSN = %q, want value from file", got)
	}
}

func TestExportEnvironmentIfExistsIgnoresMissingFile(t *testing.T) {
	if err := exportEnvironmentIfExists(filepath.Join(t.TempDir(), "missing.env")); err != nil {
		t.Fatalf("exportEnvironmentIfExists() error = %v", err)
	}
}

func TestNewPrefersProcessEnvironmentOverEnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "store.env")
	if err := os.WriteFile(path, []byte("CFGPREC_DRIVER=postgres\nCFGPREC_DSN=postgres://file\n"), 0o600); err != nil {
		t.Fatalf("write env file: %v", err)
	}
	t.Setenv("CFGPREC_DRIVER", "sqlite")
	t.Setenv("CFGPREC_DSN", "")
	os.Unsetenv("CFGPREC_DSN")

	if err := exportEnvironment(path); err != nil {
		t.Fatalf("exportEnvironment() error = %v", err)
	}
	conf, err := New[storeSettings]("CFGPREC")
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if conf.Driver != "sqlite" {
		t.Fatalf("Driver = %q, want process value sqlite", conf.Driver)
	}
	if conf.DSN != "postgres://file" {
		t.Fatalf("DSN = %q, want value from env file", conf.DSN)
	}
}
