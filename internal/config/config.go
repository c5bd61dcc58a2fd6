package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config defines server configuration.
type Config struct {
	DB   DBConfig   `yaml:"db"`
	View ViewConfig `yaml:"view"`
	Log  LogConfig  `yaml:"log"`
}

type DBConfig struct {
	Path string `yaml:"path"`
}

type ViewConfig struct {
	// DefaultID is the view opened for tools that don't name one.
	DefaultID string `yaml:"default_id"`
}

type LogConfig struct {
	Level string `yaml:"level"`
}

// Load reads configuration from an optional YAML file and environment variables.
func Load() (Config, error) {
	cfg := Config{
		DB: DBConfig{
			Path: "tabula.db",
		},
		View: ViewConfig{
			DefaultID: "default",
		},
		Log: LogConfig{
			Level: "info",
		},
	}

	if path := os.Getenv("TABULA_CONFIG_PATH"); path != "" {
		if err := loadFromFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}

	if dbPath := os.Getenv("TABULA_DB_PATH"); dbPath != "" {
		cfg.DB.Path = dbPath
	}
	if viewID := os.Getenv("TABULA_VIEW_ID"); viewID != "" {
		cfg.View.DefaultID = viewID
	}
	if level := os.Getenv("TABULA_LOG_LEVEL"); level != "" {
		cfg.Log.Level = level
	}

	return cfg, nil
}

func loadFromFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}
