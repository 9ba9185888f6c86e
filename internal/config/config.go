// Package config loads service settings from defaults, an optional config
// file, a .env file, environment variables and command-line flags, in
// increasing order of precedence. Every key reads MYSWAP_<KEY>; port,
// database-url and redis-url also fall back to PORT, DATABASE_URL and
// REDIS_URL.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/TsigelnikovNikita/mySwap/internal/cpmm"
)

// EnvPrefix prefixes every environment variable the service reads.
const EnvPrefix = "MYSWAP"

// bareEnv maps keys to unprefixed variables read after MYSWAP_<KEY>.
var bareEnv = map[string]string{
	"port":         "PORT",
	"database-url": "DATABASE_URL",
	"redis-url":    "REDIS_URL",
}

// Config holds the resolved service settings.
type Config struct {
	Port        string
	DatabaseURL string
	RedisURL    string
	CacheTTL    time.Duration
	Fee         cpmm.Fee // default fee for new pools
	LogLevel    string
	LogFormat   string
}

// Load merges config file, .env, environment variables, and flags into
// Config. An empty cfgFile looks for ./config.{yaml,json,toml} and ignores
// its absence.
func Load(cfgFile string, flags *pflag.FlagSet) (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	for key, bare := range bareEnv {
		prefixed := EnvPrefix + "_" + strings.ToUpper(strings.ReplaceAll(key, "-", "_"))
		if err := v.BindEnv(key, prefixed, bare); err != nil {
			return Config{}, fmt.Errorf("bind env %s: %w", key, err)
		}
	}

	v.SetDefault("port", "8080")
	v.SetDefault("database-url", "")
	v.SetDefault("redis-url", "")
	v.SetDefault("cache-ttl", 30*time.Second)
	v.SetDefault("fee-numerator", cpmm.DefaultFee.Numerator)
	v.SetDefault("fee-denominator", cpmm.DefaultFee.Denominator)
	v.SetDefault("log-level", "info")
	v.SetDefault("log-format", "json")

	if flags != nil {
		if err := v.BindPFlags(flags); err != nil {
			return Config{}, fmt.Errorf("bind flags: %w", err)
		}
	}

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return Config{}, fmt.Errorf("read config: %w", err)
			}
		}
	}

	fee, err := cpmm.NewFee(v.GetUint64("fee-numerator"), v.GetUint64("fee-denominator"))
	if err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	ttl := v.GetDuration("cache-ttl")
	if ttl <= 0 {
		return Config{}, fmt.Errorf("config: cache-ttl must be positive, got %s", ttl)
	}

	cfg := Config{
		Port:        v.GetString("port"),
		DatabaseURL: v.GetString("database-url"),
		RedisURL:    v.GetString("redis-url"),
		CacheTTL:    ttl,
		Fee:         fee,
		LogLevel:    v.GetString("log-level"),
		LogFormat:   v.GetString("log-format"),
	}
	return cfg, nil
}
