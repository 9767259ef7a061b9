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

const (
	// EnvPrefix prefixes every environment override
	EnvPrefix = "PB_TRACKER_"

	// EnvConfigFile names the YAML file to load when no path is given
	EnvConfigFile = "PB_TRACKER_CONFIG"
)

// replaced lists keys whose file or env value replaces the default outright
// instead of being merged into it
var replaced = []string{"national_records", "fallback", "events.targets", "events.order"}

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):
//  1. defaults (New())
//  2. YAML file at path, or at $PB_TRACKER_CONFIG when path is empty
//  3. env (prefix PB_TRACKER_, "__" separates nested keys)
func Load(_ context.Context, path string) (*Config, error) {
	base := New()

	k := koanf.New(".")

	if path == "" {
		path = os.Getenv(EnvConfigFile)
	}
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("loading config file %s: %w", path, err)
		}
	}

	// PB_TRACKER_FETCH__ATTEMPTS -> fetch.attempts
	envProvider := env.Provider(EnvPrefix, ".", func(s string) string {
		s = strings.TrimPrefix(s, EnvPrefix)
		s = strings.ToLower(s)
		return strings.ReplaceAll(s, "__", ".")
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("loading environment: %w", err)
	}

	cfg := *base
	for _, key := range replaced {
		if !k.Exists(key) {
			continue
		}
		switch key {
		case "national_records":
			cfg.NationalRecords = nil
		case "fallback":
			cfg.Fallback = nil
		case "events.targets":
			cfg.Events.Targets = nil
		case "events.order":
			cfg.Events.Order = nil
		}
	}

	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &cfg, nil
}
