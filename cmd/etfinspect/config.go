package main

import (
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/rs/zerolog"

	"github.com/unkn0wn-root/etf/internal/wire"
)

type config struct {
	LogLevel zerolog.Level
	Hex      bool
	Verify   bool
	MaxIDs   int
}

type fileConfig struct {
	LogLevel string `toml:"log_level"`
	Hex      bool   `toml:"hex"`
	Verify   bool   `toml:"verify"`
	MaxIDs   int    `toml:"max_ids"`
}

func defaultConfig() config {
	return config{
		LogLevel: zerolog.WarnLevel,
		MaxIDs:   wire.MaxIDCount,
	}
}

// loadConfig overlays the keys present in the file onto defaultConfig.
func loadConfig(path string) (config, error) {
	cfg := defaultConfig()

	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return config{}, fmt.Errorf("load etfinspect config: %w", err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return config{}, fmt.Errorf("load etfinspect config: unknown key %q", undecoded[0].String())
	}

	if meta.IsDefined("log_level") {
		lvl, err := zerolog.ParseLevel(strings.TrimSpace(raw.LogLevel))
		if err != nil {
			return config{}, fmt.Errorf("parse log_level: %w", err)
		}
		cfg.LogLevel = lvl
	}
	if meta.IsDefined("hex") {
		cfg.Hex = raw.Hex
	}
	if meta.IsDefined("verify") {
		cfg.Verify = raw.Verify
	}
	if meta.IsDefined("max_ids") {
		if raw.MaxIDs < 1 || raw.MaxIDs > wire.MaxIDCount {
			return config{}, fmt.Errorf("max_ids %d outside [1, %d]", raw.MaxIDs, wire.MaxIDCount)
		}
		cfg.MaxIDs = raw.MaxIDs
	}
	return cfg, nil
}
