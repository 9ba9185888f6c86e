package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"

	"github.com/TsigelnikovNikita/mySwap/internal/cpmm"
)

func TestLoad_Defaults(t *testing.T) {
	for _, name := range []string{"PORT", "DATABASE_URL", "REDIS_URL"} {
		t.Setenv(name, "")
	}
	cfg, err := Load("", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Port != "8080" {
		t.Errorf("port = %q, want 8080", cfg.Port)
	}
	if cfg.CacheTTL != 30*time.Second {
		t.Errorf("cache ttl = %s, want 30s", cfg.CacheTTL)
	}
	if cfg.Fee != cpmm.DefaultFee {
		t.Errorf("fee = %s, want %s", cfg.Fee, cpmm.DefaultFee)
	}
	if cfg.LogLevel != "info" || cfg.LogFormat != "json" {
		t.Errorf("unexpected log settings: %q %q", cfg.LogLevel, cfg.LogFormat)
	}
}

func TestLoad_EnvOverridesDefaults(t *testing.T) {
	t.Setenv("MYSWAP_PORT", "9090")
	t.Setenv("MYSWAP_DATABASE_URL", "postgres://localhost/myswap")
	t.Setenv("MYSWAP_FEE_NUMERATOR", "3")
	t.Setenv("MYSWAP_FEE_DENOMINATOR", "1000")

	cfg, err := Load("", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Port != "9090" {
		t.Errorf("port = %q, want 9090", cfg.Port)
	}
	if cfg.DatabaseURL != "postgres://localhost/myswap" {
		t.Errorf("database url = %q", cfg.DatabaseURL)
	}
	if cfg.Fee != (cpmm.Fee{Numerator: 3, Denominator: 1000}) {
		t.Errorf("fee = %s, want 3/1000", cfg.Fee)
	}
}

func TestLoad_BareEnvNames(t *testing.T) {
	t.Setenv("PORT", "7070")
	t.Setenv("DATABASE_URL", "postgres://db/myswap")
	t.Setenv("REDIS_URL", "redis://cache:6379/0")

	cfg, err := Load("", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Port != "7070" {
		t.Errorf("port = %q, want 7070", cfg.Port)
	}
	if cfg.DatabaseURL != "postgres://db/myswap" {
		t.Errorf("database url = %q", cfg.DatabaseURL)
	}
	if cfg.RedisURL != "redis://cache:6379/0" {
		t.Errorf("redis url = %q", cfg.RedisURL)
	}

	t.Setenv("MYSWAP_PORT", "9191")
	cfg, err = Load("", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Port != "9191" {
		t.Errorf("prefixed port should win, got %q", cfg.Port)
	}
}

func TestLoad_FlagsOverrideEnv(t *testing.T) {
	t.Setenv("MYSWAP_LOG_LEVEL", "warn")

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("log-level", "info", "")
	flags.String("port", "8080", "")
	if err := flags.Parse([]string{"--log-level=debug"}); err != nil {
		t.Fatalf("parse flags: %v", err)
	}

	cfg, err := Load("", flags)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("log level = %q, want debug", cfg.LogLevel)
	}
	if cfg.Port != "8080" {
		t.Errorf("unset flag should fall back to default, got %q", cfg.Port)
	}
}

func TestLoad_ConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "myswap.yaml")
	content := "port: \"7000\"\ncache-ttl: 5s\nlog-format: text\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Port != "7000" || cfg.CacheTTL != 5*time.Second || cfg.LogFormat != "text" {
		t.Errorf("config file not applied: %+v", cfg)
	}
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml"), nil); err == nil {
		t.Fatal("expected error for a missing explicit config file")
	}
}

func TestLoad_InvalidFee(t *testing.T) {
	t.Setenv("MYSWAP_FEE_NUMERATOR", "100")
	t.Setenv("MYSWAP_FEE_DENOMINATOR", "100")

	_, err := Load("", nil)
	if !errors.Is(err, cpmm.ErrInvalidFee) {
		t.Fatalf("expected ErrInvalidFee, got %v", err)
	}
}
