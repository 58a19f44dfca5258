// Package config handles loading application configuration for both the
// backend and the client tools.
//
// Sources, in priority order:
//  1. Environment variables (every field has an env:"..." tag)
//  2. A YAML file, given by CONFIG_PATH or the --config flag
//  3. env-default:"..." values
package config

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config is the root configuration structure.
type Config struct {
	// Env controls log format and verbosity: "dev", "staging" or "prod".
	Env string `yaml:"env" env:"ENV" env-default:"dev"`

	// StoragePath is the SQLite .db file. Only the backend needs it.
	StoragePath string `yaml:"storage_path" env:"STORAGE_PATH"`

	HTTPServer `yaml:"http_server"`
	Client     `yaml:"client"`
}

// HTTPServer holds settings for the backend HTTP server.
type HTTPServer struct {
	// Addr is the TCP address the server listens on, e.g. "localhost:8080".
	Addr string `yaml:"address" env:"HTTP_SERVER_ADDR" env-default:"localhost:8080"`
}

// Client holds settings for the transport client and the state store.
type Client struct {
	// BaseURL is the backend origin; requests go to BaseURL + "/students".
	BaseURL string `yaml:"base_url" env:"STUDENTS_API_URL" env-default:"http://localhost:8080"`

	// RequestTimeout bounds a single request. 0 disables the deadline.
	RequestTimeout time.Duration `yaml:"request_timeout" env:"STUDENTS_REQUEST_TIMEOUT"`

	// DiscardStaleResponses drops update/delete/list responses superseded by a
	// newer request for the same record.
	DiscardStaleResponses bool `yaml:"discard_stale_responses" env:"STUDENTS_DISCARD_STALE"`
}

// Defaults for fields whose zero value is meaningful. cleanenv only applies
// env-default to zero fields, so these are preset before reading instead.
const (
	DefaultRequestTimeout        = 10 * time.Second
	DefaultDiscardStaleResponses = true
)

func defaults() Config {
	return Config{
		Client: Client{
			RequestTimeout:        DefaultRequestTimeout,
			DiscardStaleResponses: DefaultDiscardStaleResponses,
		},
	}
}

// Load reads the YAML file at path (if non-empty) and applies env overrides.
// With an empty path only the environment and defaults are used.
func Load(path string) (*Config, error) {
	cfg := defaults()

	if path == "" {
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return nil, fmt.Errorf("config.Load: read env: %w", err)
		}
		return &cfg, nil
	}

	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("config.Load: config file does not exist: %s", path)
	}
	if err := cleanenv.ReadConfig(path, &cfg); err != nil {
		return nil, fmt.Errorf("config.Load: read %s: %w", path, err)
	}
	return &cfg, nil
}

// MustLoad is used by the backend binary: it resolves the config path from
// CONFIG_PATH or --config and exits if the file is missing or invalid, or if
// no storage path is configured.
func MustLoad() *Config {
	configPath := os.Getenv("CONFIG_PATH")

	if configPath == "" {
		flags := flag.String("config", "", "Path to the configuration YAML file")
		flag.Parse()
		configPath = *flags
	}

	if configPath == "" {
		log.Fatal("config path is not set: use --config flag or CONFIG_PATH env var")
	}

	cfg, err := Load(configPath)
	if err != nil {
		log.Fatalf("cannot read config: %s", err.Error())
	}
	if cfg.StoragePath == "" {
		log.Fatal("storage_path is required")
	}

	return cfg
}
