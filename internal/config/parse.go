package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

func Parse() (Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse cfg: %v", err)
	}

	switch cfg.Database.Driver {
	case DriverPostgres, DriverMemory:
	default:
		return Config{}, fmt.Errorf("parse cfg: unknown db driver %q", cfg.Database.Driver)
	}

	return cfg, nil
}

// ParseClient falls back to <user config dir>/notesync for the data dir.
func ParseClient() (ClientConfig, error) {
	_ = godotenv.Load()

	var cfg ClientConfig
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return ClientConfig{}, fmt.Errorf("parse client cfg: %v", err)
	}

	if cfg.DataDir == "" {
		dir, err := os.UserConfigDir()
		if err != nil {
			return ClientConfig{}, fmt.Errorf("resolve data dir: %v", err)
		}
		cfg.DataDir = filepath.Join(dir, "notesync")
	}

	return cfg, nil
}
