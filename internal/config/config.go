// Package config handles loading and parsing application configuration.
// It supports two sources (in priority order):
//  1. An environment variable:  CONFIG_PATH=/path/to/config.yaml
//  2. A command-line flag:      --config=/path/to/config.yaml
//
// The parsed values are returned as a *Config pointer so the struct is
// shared by reference rather than copied everywhere.
package config

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/shopspring/decimal"

	"github.com/aanand-mishra/car-rental/internal/tax"
)

// Storage drivers accepted in storage.driver.
const (
	DriverJSON   = "json"
	DriverSQLite = "sqlite"
)

// Config is the root configuration structure.
// Every field maps to a key in the YAML file and most can be overridden
// by the corresponding environment variable (env:"...").
type Config struct {
	// Env controls log format and verbosity: "dev", "staging", "prod".
	Env string `yaml:"env" env:"ENV" env-required:"true"`

	// Locale is the BCP 47 tag used to format receipts.
	Locale string `yaml:"locale" env:"LOCALE" env-default:"pt-BR"`

	Storage    Storage    `yaml:"storage"`
	HTTPServer HTTPServer `yaml:"http_server"`

	// TaxRules replaces the built-in age tiers when non-empty. Order matters:
	// the first matching rule wins.
	TaxRules []TaxRule `yaml:"tax_rules"`
}

// Storage selects the record backend.
type Storage struct {
	Driver         string `yaml:"driver"          env:"STORAGE_DRIVER"     env-default:"json"`
	CarsPath       string `yaml:"cars_path"       env:"CARS_PATH"          env-default:"database/cars.json"`
	CategoriesPath string `yaml:"categories_path" env:"CATEGORIES_PATH"    env-default:"database/carCategory.json"`
	CustomersPath  string `yaml:"customers_path"  env:"CUSTOMERS_PATH"     env-default:"database/customer.json"`
	SQLitePath     string `yaml:"sqlite_path"     env:"SQLITE_PATH"        env-default:"database/rental.db"`
}

// HTTPServer holds settings specific to the HTTP server.
type HTTPServer struct {
	// Addr is the TCP address the server listens on, e.g. "localhost:8082".
	Addr string `yaml:"address" env:"HTTP_SERVER_ADDR" env-required:"true"`
}

// TaxRule is the YAML shape of tax.Rule.
type TaxRule struct {
	From int     `yaml:"from"`
	To   int     `yaml:"to"`
	Then float64 `yaml:"then"`
}

// MustLoad reads, validates, and returns the application config.
// Functions prefixed with "Must" are allowed to fatal on failure: if this
// returns, the config is valid.
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

	return cfg
}

// Load reads the YAML file at path, applies environment overrides and
// validates the result.
func Load(path string) (*Config, error) {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("config file does not exist: %s", path)
	}

	var cfg Config
	if err := cleanenv.ReadConfig(path, &cfg); err != nil {
		return nil, err
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// TaxTable returns the configured tax rules, or the built-in table when
// none are configured.
func (c *Config) TaxTable() tax.Table {
	if len(c.TaxRules) == 0 {
		return tax.DefaultTable()
	}

	table := make(tax.Table, 0, len(c.TaxRules))
	for _, r := range c.TaxRules {
		table = append(table, tax.Rule{From: r.From, To: r.To, Then: decimal.NewFromFloat(r.Then)})
	}
	return table
}

func (c *Config) validate() error {
	switch c.Storage.Driver {
	case DriverJSON, DriverSQLite:
	default:
		return fmt.Errorf("unknown storage driver %q", c.Storage.Driver)
	}

	if err := c.TaxTable().Validate(); err != nil {
		return fmt.Errorf("tax_rules: %w", err)
	}

	return nil
}
