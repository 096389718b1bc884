package main

import (
	"context"
	"os"
	"path/filepath"

	"github.com/sethvargo/go-envconfig"
	"gopkg.in/yaml.v3"
)

// Config is layered: defaults, then the yaml file, then environment
// variables. Flags override on top in main.
type Config struct {
	ServerURL string `yaml:"server_url" env:"INKWELL_SERVER_URL"`
	DBPath    string `yaml:"db_path" env:"INKWELL_DB_PATH"`
	LogLevel  string `yaml:"log_level" env:"INKWELL_LOG_LEVEL"`
}

func defaultConfigDir() string {
	base, err := os.UserConfigDir()
	if err != nil {
		base = "."
	}
	return filepath.Join(base, "inkwell")
}

func loadConfig(ctx context.Context, path string) (*Config, error) {
	cfg := &Config{
		ServerURL: "http://localhost:8600/api",
		DBPath:    filepath.Join(defaultConfigDir(), "session.db"),
		LogLevel:  "info",
	}

	if path == "" {
		path = filepath.Join(defaultConfigDir(), "config.yml")
	}

	if raw, err := os.ReadFile(path); err == nil {
		if err := yaml.Unmarshal(raw, cfg); err != nil {
			return nil, err
		}
	} else if !os.IsNotExist(err) {
		return nil, err
	}

	if err := envconfig.Process(ctx, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}
