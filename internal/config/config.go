// Package config handles loading and parsing application configuration.
// It supports two sources for the config file path (in priority order):
//  1. An environment variable:  CONFIG_PATH=/path/to/config.yaml
//  2. A command-line flag:      --config=/path/to/config.yaml
//
// A .env file in the working directory, if present, is loaded into the
// process environment first, so CONFIG_PATH and every env:"..." override
// below may live there.
package config

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"log"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

// Storage drivers accepted in storage_driver.
const (
	DriverSQLite = "sqlite"
	DriverGORM   = "gorm"
	DriverMemory = "memory"
)

// Config is the root configuration structure.
// Every field maps to a key in the YAML file AND can be overridden
// by the corresponding environment variable (env:"...").
type Config struct {
	// Env controls log format and verbosity.
	// Valid values: "dev", "staging", "prod"
	Env string `yaml:"env" env:"ENV" env-required:"true"`

	// StoragePath is the filesystem path to the SQLite .db file.
	// Ignored by the memory driver.
	StoragePath string `yaml:"storage_path" env:"STORAGE_PATH" env-required:"true"`

	// StorageDriver selects the Record Store backend.
	StorageDriver string `yaml:"storage_driver" env:"STORAGE_DRIVER" env-default:"sqlite" validate:"oneof=sqlite gorm memory"`

	HTTPServer `yaml:"http_server"`

	Forms Forms `yaml:"forms"`
}

// HTTPServer holds settings specific to the HTTP server.
// Nested under http_server: in the YAML file.
type HTTPServer struct {
	// Addr is the TCP address the server listens on, e.g. "localhost:8082".
	Addr string `yaml:"address" env:"HTTP_SERVER_ADDR" env-required:"true"`

	ReadTimeout     time.Duration `yaml:"read_timeout" env:"HTTP_SERVER_READ_TIMEOUT" env-default:"10s"`
	WriteTimeout    time.Duration `yaml:"write_timeout" env:"HTTP_SERVER_WRITE_TIMEOUT" env-default:"10s"`
	IdleTimeout     time.Duration `yaml:"idle_timeout" env:"HTTP_SERVER_IDLE_TIMEOUT" env-default:"60s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"HTTP_SERVER_SHUTDOWN_TIMEOUT" env-default:"5s"`

	// DeleteRequiresPost stops routing GET /delete/student/{id}.
	// Deleting on GET is unsafe, but it stays reachable unless this is set.
	DeleteRequiresPost bool `yaml:"delete_requires_post" env:"HTTP_SERVER_DELETE_REQUIRES_POST"`
}

// Forms controls how submissions are adapted.
type Forms struct {
	// LenientUpdate lets an update submission omit fields, overwriting
	// them with "". By default an update missing any of the four fields is
	// rejected. Creation is always lenient.
	//
	// cleanenv treats false as unset, so booleans here default to false.
	LenientUpdate bool `yaml:"lenient_update" env:"FORMS_LENIENT_UPDATE"`
}

// Load reads the config file at path, applies environment overrides and
// defaults, and validates the result.
func Load(path string) (*Config, error) {
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("config file does not exist: %s", path)
	}

	var cfg Config
	if err := cleanenv.ReadConfig(path, &cfg); err != nil {
		return nil, fmt.Errorf("cannot read config: %w", err)
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

// MustLoad reads, validates, and returns the application config.
//
// Functions prefixed with "Must" are allowed to fatal on failure. If this
// returns, the config is valid.
func MustLoad() *Config {
	// A missing .env is normal outside local development.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Printf("cannot load .env file: %s", err.Error())
	}

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
		log.Fatal(err.Error())
	}

	return cfg
}
