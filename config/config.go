package config

import (
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/kbukum/prepkit/logger"
	"github.com/kbukum/prepkit/preprocess"
	"github.com/kbukum/prepkit/store"
)

// Config is the root configuration for a preprocessing application.
type Config struct {
	Name        string           `yaml:"name" mapstructure:"name" validate:"required"`
	Environment string           `yaml:"environment" mapstructure:"environment" validate:"oneof=development staging production"`
	Debug       bool             `yaml:"debug" mapstructure:"debug"`
	Logging     logger.Config    `yaml:"logging" mapstructure:"logging"`
	Store       StoreConfig      `yaml:"store" mapstructure:"store"`
	Preprocess  PreprocessConfig `yaml:"preprocess" mapstructure:"preprocess"`
}

// StoreConfig selects and configures the fitted-state store backend.
type StoreConfig struct {
	Backend string `yaml:"backend" mapstructure:"backend" validate:"oneof=local memory none"`
	Path    string `yaml:"path" mapstructure:"path"`
}

// PreprocessConfig holds stage behavior shared across a pipeline.
type PreprocessConfig struct {
	Strict  bool   `yaml:"strict" mapstructure:"strict"`
	Padding string `yaml:"padding" mapstructure:"padding" validate:"oneof=truncate strict"`
}

// ApplyDefaults fills unset fields with their defaults.
func (c *Config) ApplyDefaults() {
	if c.Environment == "" {
		c.Environment = "development"
	}
	if c.Environment == "development" {
		c.Debug = true
	}
	c.Logging.ApplyDefaults()
	if c.Store.Backend == "" {
		c.Store.Backend = "none"
	}
	if c.Store.Backend == "local" && c.Store.Path == "" {
		c.Store.Path = "./state"
	}
	if c.Preprocess.Padding == "" {
		c.Preprocess.Padding = "truncate"
	}
}

var validate = validator.New()

// Validate checks the configuration after defaults are applied.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if err := c.Logging.Validate(); err != nil {
		return fmt.Errorf("config.logging: %w", err)
	}
	if c.Store.Backend == "local" && c.Store.Path == "" {
		return fmt.Errorf("config.store: path is required for the local backend")
	}
	return nil
}

// Open creates the configured store. A "none" backend returns nil: stages run
// without persistence.
func (c StoreConfig) Open() (store.Store, error) {
	switch c.Backend {
	case "local":
		return store.NewLocal(c.Path)
	case "memory":
		return store.NewMemory(), nil
	case "none":
		return nil, nil
	default:
		return nil, fmt.Errorf("config.store: unknown backend %q", c.Backend)
	}
}

// PadPolicy maps the configured padding mode to a stage policy.
func (c PreprocessConfig) PadPolicy() preprocess.PadPolicy {
	if c.Padding == "strict" {
		return preprocess.PadStrict
	}
	return preprocess.PadTruncate
}

// StageOptions converts the configuration into stage options. The returned
// slice can be extended per stage, e.g. with preprocess.WithStore.
func (c *Config) StageOptions() []preprocess.Option {
	log := logger.New(&c.Logging, c.Name)
	opts := []preprocess.Option{
		preprocess.WithLogger(log),
		preprocess.WithPadPolicy(c.Preprocess.PadPolicy()),
	}
	if c.Preprocess.Strict {
		opts = append(opts, preprocess.WithStrict())
	}
	return opts
}
