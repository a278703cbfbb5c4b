// Package config loads runtime configuration from the environment.
package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config is populated from CASHIER_* environment variables. Redis, the
// order archive, kafka and the printer are optional; the core runs without
// any of them.
type Config struct {
	HTTPPort        string        `envconfig:"HTTP_PORT" default:"8080"`
	ShutdownTimeout time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"10s"`

	TaxRate        float64 `envconfig:"TAX_RATE" default:"0.11"`
	Locale         string  `envconfig:"LOCALE" default:"id-ID"`
	CurrencySymbol string  `envconfig:"CURRENCY_SYMBOL" default:"Rp"`
	StoreName      string  `envconfig:"STORE_NAME" default:"CashierPro Lite"`
	StoreAddress   string  `envconfig:"STORE_ADDRESS" default:"Jl. Pahlawan No. 123"`

	CatalogDBPath         string `envconfig:"CATALOG_DB_PATH" default:"cashier.db"`
	CatalogMigrationsPath string `envconfig:"CATALOG_MIGRATIONS_PATH" default:"internal/catalog/migrations"`

	RedisAddr     string `envconfig:"REDIS_ADDR"`
	RedisPassword string `envconfig:"REDIS_PASSWORD"`

	ArchiveHost           string `envconfig:"ARCHIVE_DB_HOST"`
	ArchivePort           int    `envconfig:"ARCHIVE_DB_PORT" default:"5432"`
	ArchiveUser           string `envconfig:"ARCHIVE_DB_USER" default:"cashier"`
	ArchivePassword       string `envconfig:"ARCHIVE_DB_PASSWORD"`
	ArchiveDBName         string `envconfig:"ARCHIVE_DB_NAME" default:"cashier"`
	ArchiveMigrationsPath string `envconfig:"ARCHIVE_MIGRATIONS_PATH" default:"internal/archive/migrations"`

	KafkaBrokers []string `envconfig:"KAFKA_BROKERS"`

	PrinterURL     string        `envconfig:"PRINTER_URL"`
	PrinterTimeout time.Duration `envconfig:"PRINTER_TIMEOUT" default:"5s"`
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("cashier", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}
	if cfg.TaxRate < 0 {
		return nil, fmt.Errorf("tax rate must not be negative, got %g", cfg.TaxRate)
	}
	return &cfg, nil
}
