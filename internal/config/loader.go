package config

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Environment variables read by Load.
const (
	EnvPrefix = "POPCAST_"
	EnvConfig = "POPCAST_CONFIG"
	EnvAddr   = "POPCAST_ADDR"
	EnvPort   = "PORT"

	listenHost = "0.0.0.0"
)

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):
//  1. defaults (New())
//  2. file (YAML) if POPCAST_CONFIG is set
//  3. env (prefix POPCAST_)
//  4. PORT, only when POPCAST_ADDR is unset
func Load(_ context.Context) (*Config, error) {
	base := New()

	k := koanf.New(".")

	if path := os.Getenv(EnvConfig); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrLoadConfig, path, err)
		}
	}

	// POPCAST_EXPORT_SHEET -> export_sheet (flat keys, underscores preserved).
	// List keys take comma-separated values.
	envProvider := env.ProviderWithValue(EnvPrefix, ".", func(k, v string) (string, interface{}) {
		key := strings.TrimPrefix(strings.ToLower(k), strings.ToLower(EnvPrefix))
		if key == "horizons" {
			return key, splitList(v)
		}
		return key, v
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: env: %w", ErrLoadConfig, err)
	}

	cfg := *base
	if k.Exists("horizons") {
		// Replace rather than merge into the default list.
		cfg.Horizons = nil
	}
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	if _, set := os.LookupEnv(EnvAddr); !set && !k.Exists("addr") {
		if port := strings.TrimSpace(os.Getenv(EnvPort)); port != "" {
			cfg.Addr = listenHost + ":" + port
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// splitList turns "7, 8,9" into ["7" "8" "9"], dropping empty items.
func splitList(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
