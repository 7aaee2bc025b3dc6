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

// EnvPrefix prefixes every environment override.
const EnvPrefix = "DRAFTBOARD_"

// EnvConfigPath names the config file when no path is passed to Load.
const EnvConfigPath = EnvPrefix + "CONFIG"

// listKeys are the settings env overrides may set as comma-separated values.
var listKeys = map[string]bool{
	"league.boost_order":           true,
	"league.flex_positions":        true,
	"league.cheatsheet_positions":  true,
	"sources.historical_positions": true,
}

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):
//  1. defaults (New())
//  2. file (YAML) at path, or DRAFTBOARD_CONFIG when path is empty
//  3. env (prefix DRAFTBOARD_, "__" separates nested keys)
//
// A league.roster in the file replaces the default roster wholesale; env
// vars then override single slots. List settings take comma-separated env
// values.
//
// The returned Config is validated.
func Load(_ context.Context, path string) (*Config, error) {
	base := New()

	k := koanf.New(".")

	if path == "" {
		path = os.Getenv(EnvConfigPath)
	}
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrLoadConfig, path, err)
		}
		if k.Exists("league.roster") {
			base.League.Roster = map[string]int{}
		}
	}

	// DRAFTBOARD_LEAGUE__TEAMS -> league.teams, DRAFTBOARD_DATA_DIR -> data_dir.
	envProvider := env.ProviderWithValue(EnvPrefix, ".", func(key, value string) (string, any) {
		if key == EnvConfigPath {
			return "", nil
		}
		key = strings.TrimPrefix(key, EnvPrefix)
		key = strings.ReplaceAll(strings.ToLower(key), "__", ".")
		if listKeys[key] {
			return key, splitList(value)
		}
		return key, value
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: env: %w", ErrLoadConfig, err)
	}

	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}
	cfg.normalize()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func splitList(value string) []string {
	out := []string{}
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
