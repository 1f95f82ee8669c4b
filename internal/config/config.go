// Package config loads CLI configuration from the environment, an optional
// .env file and an optional YAML file.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/ukaji3/planingest-go/pkg/planingest"
	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes every environment variable, e.g. PLANINGEST_LOGGING_LEVEL.
const EnvPrefix = "PLANINGEST"

// DotEnvFile is read from the working directory when present.
const DotEnvFile = ".env"

// Config represents the complete CLI configuration
type Config struct {
	Logging LoggingConfig `yaml:"logging" envconfig:"LOGGING"`
	Ingest  IngestConfig  `yaml:"ingest" envconfig:"INGEST"`
	Metrics MetricsConfig `yaml:"metrics" envconfig:"METRICS"`
	Tracing TracingConfig `yaml:"tracing" envconfig:"TRACING"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level  string `yaml:"level" envconfig:"LEVEL" default:"info" validate:"oneof=debug info warn error"`
	Format string `yaml:"format" envconfig:"FORMAT" default:"console" validate:"oneof=json console"`
}

// IngestConfig contains defaults for ingestion runs
type IngestConfig struct {
	Variant      string                `yaml:"variant" envconfig:"VARIANT" validate:"omitempty,oneof=shovel operational natural"`
	CopperMarker string                `yaml:"copper_marker" envconfig:"COPPER_MARKER" default:"Cu" validate:"required"`
	MaxBytes     int64                 `yaml:"max_bytes" envconfig:"MAX_BYTES" default:"33554432" validate:"gt=0"`
	Concurrency  int                   `yaml:"concurrency" envconfig:"CONCURRENCY" default:"4" validate:"min=1,max=64"`
	Fields       planingest.FieldNames `yaml:"fields" envconfig:"FIELDS"`
}

// MetricsConfig contains metrics export configuration
type MetricsConfig struct {
	// TextfilePath receives a Prometheus text-format dump after each run.
	TextfilePath string `yaml:"textfile_path" envconfig:"TEXTFILE_PATH"`
}

// TracingConfig contains tracing configuration
type TracingConfig struct {
	Enabled bool `yaml:"enabled" envconfig:"ENABLED" default:"false"`
}

// Load builds the configuration. Defaults are overridden by the environment
// (including DotEnvFile), which is overridden by the keys present in
// configFile. An empty configFile skips the file.
func Load(configFile string) (*Config, error) {
	if err := godotenv.Load(DotEnvFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load %s: %w", DotEnvFile, err)
	}

	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	if configFile != "" {
		if err := loadFromFile(configFile, &cfg); err != nil {
			return nil, fmt.Errorf("failed to load config from file: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return &cfg, nil
}

// loadFromFile decodes a YAML file over cfg; keys absent from the file keep
// their current values.
func loadFromFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("%s: %w", path, err)
	}
	return nil
}

// Validate checks field values.
func (c *Config) Validate() error {
	return validator.New(validator.WithRequiredStructEnabled()).Struct(c)
}

// Variant returns the configured default variant, if any.
func (c *Config) Variant() (planingest.Variant, bool) {
	if c.Ingest.Variant == "" {
		return "", false
	}
	return planingest.Variant(c.Ingest.Variant), true
}
