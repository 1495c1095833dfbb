package config

import (
	"context"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Load builds a Config by layering defaults, an optional file, and env vars.
// Order of precedence (low -> high):
//  1. defaults (New())
//  2. file (YAML) if DRP_CONFIG is set
//  3. env (prefix DRP_)
func Load(_ context.Context) (*Config, error) {
	base := New()

	k := koanf.New(".")

	if path := os.Getenv("DRP_CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, err
		}
	}

	// Environment variables: DRP_ADDR, DRP_OWNER_ADDRESS, ...
	// Keys keep their underscores to match the koanf tags on the struct.
	envProvider := env.Provider("DRP_", ".", func(s string) string {
		s = strings.ToLower(s)
		return strings.TrimPrefix(s, "drp_")
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, err
	}

	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, err
	}

	switch {
	case cfg.Addr == "":
		return nil, ErrEmptyAddr
	case strings.TrimSpace(cfg.OwnerAddress) == "":
		return nil, ErrEmptyOwner
	case cfg.JWTSecret == "":
		return nil, ErrEmptySecret
	case cfg.TokenTTLMinutes <= 0:
		return nil, ErrBadTokenTTL
	}
	return &cfg, nil
}
