// Package config reads the bot's settings from the environment
package config

import (
	"fmt"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Catalog storage backends
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
)

// Config holds every setting the bot reads at startup
type Config struct {
	TelegramToken  string `env:"SPYFALL_TELEGRAM_TOKEN"`
	HTTPAddr       string `env:"SPYFALL_HTTP_ADDR"        envDefault:":8080"`
	CatalogBackend string `env:"SPYFALL_CATALOG_BACKEND"  envDefault:"file"`
	CatalogDir     string `env:"SPYFALL_CATALOG_DIR"      envDefault:"data"`
	SQLitePath     string `env:"SPYFALL_SQLITE_PATH"      envDefault:"data/catalog.db"`
	DevPassphrase  string `env:"SPYFALL_DEV_PASSPHRASE"`
	DevExitPhrase  string `env:"SPYFALL_DEV_EXIT_PHRASE"`
	InviteURL      string `env:"SPYFALL_INVITE_URL"`
	Debug          bool   `env:"SPYFALL_DEBUG"`
}

// LoadDotenv reads .env style files into the process environment.
// Variables that are already set win
func LoadDotenv(paths ...string) error {
	if err := godotenv.Load(paths...); err != nil {
		return fmt.Errorf("load dotenv: %w", err)
	}
	return nil
}

// Parse reads the configuration from the process environment
func Parse() (Config, error) {
	return parse(env.Options{})
}

// FromMap reads the configuration from the given variables only
func FromMap(environ map[string]string) (Config, error) {
	return parse(env.Options{Environment: environ})
}

func parse(opts env.Options) (Config, error) {
	var cfg Config
	if err := env.ParseWithOptions(&cfg, opts); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	cfg.CatalogBackend = strings.ToLower(strings.TrimSpace(cfg.CatalogBackend))
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects settings the bot cannot run with
func (c Config) Validate() error {
	switch c.CatalogBackend {
	case BackendFile:
		if c.CatalogDir == "" {
			return fmt.Errorf("SPYFALL_CATALOG_DIR is required for the %s backend", BackendFile)
		}
	case BackendSQLite:
		if c.SQLitePath == "" {
			return fmt.Errorf("SPYFALL_SQLITE_PATH is required for the %s backend", BackendSQLite)
		}
	default:
		return fmt.Errorf("unknown catalog backend %q (want %s or %s)", c.CatalogBackend, BackendFile, BackendSQLite)
	}
	if c.TelegramToken == "" && c.HTTPAddr == "" {
		return fmt.Errorf("nothing to serve: set SPYFALL_TELEGRAM_TOKEN or SPYFALL_HTTP_ADDR")
	}
	return nil
}
