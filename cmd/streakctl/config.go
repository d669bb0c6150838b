package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

const (
	formatText = "text"
	formatJSON = "json"
)

// fileConfig holds defaults that flags override.
type fileConfig struct {
	Timezone string `toml:"timezone"`
	Format   string `toml:"format"`
}

func defaultConfigPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "kanso", "streakctl.toml")
}

// loadConfig reads path, or the default location when path is empty. Only an explicitly
// requested file must exist.
func loadConfig(path string) (fileConfig, error) {
	var cfg fileConfig

	explicit := path != ""
	if !explicit {
		path = defaultConfigPath()
		if path == "" {
			return cfg, nil
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if !explicit && errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config %s: %w", path, err)
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config %s: %w", path, err)
	}

	switch cfg.Format {
	case "", formatText, formatJSON:
	default:
		return cfg, fmt.Errorf("config %s: unknown format %q (want text or json)", path, cfg.Format)
	}

	return cfg, nil
}
