package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const envPrefix = "PREPKIT"

// LoaderOption customizes Load.
type LoaderOption func(*loaderOptions)

type loaderOptions struct {
	configFile string
	envFile    string
}

// WithConfigFile sets an explicit config file path instead of searching the
// standard locations.
func WithConfigFile(path string) LoaderOption {
	return func(o *loaderOptions) { o.configFile = path }
}

// WithEnvFile sets an explicit .env file path.
func WithEnvFile(path string) LoaderOption {
	return func(o *loaderOptions) { o.envFile = path }
}

// Load reads configuration into cfg from, in increasing precedence: the YAML
// config file, a .env file, and process environment variables prefixed with
// PREPKIT_ (nested keys joined by underscores, e.g. PREPKIT_STORE_PATH).
// Defaults are applied and the result validated before returning.
func Load(cfg *Config, opts ...LoaderOption) error {
	var lo loaderOptions
	for _, opt := range opts {
		opt(&lo)
	}

	if lo.envFile == "" {
		lo.envFile = findFirst(".env", "config/.env")
	}
	if lo.envFile != "" {
		if err := godotenv.Load(lo.envFile); err != nil {
			return fmt.Errorf("load env file %s: %w", lo.envFile, err)
		}
	}

	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if lo.configFile == "" {
		lo.configFile = findFirst("config.yml", "config.yaml", "config/config.yml", "config/config.yaml")
	}
	if lo.configFile != "" {
		v.SetConfigFile(lo.configFile)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("read config file %s: %w", lo.configFile, err)
		}
	}

	bindKeys(v, cfg)
	if err := v.Unmarshal(cfg); err != nil {
		return fmt.Errorf("unmarshal config: %w", err)
	}

	cfg.ApplyDefaults()
	return cfg.Validate()
}

// bindKeys registers every config key with viper so AutomaticEnv can resolve
// it even when the key never appears in a config file.
func bindKeys(v *viper.Viper, _ *Config) {
	keys := []string{
		"name", "environment", "debug",
		"logging.level", "logging.format", "logging.output",
		"logging.no_color", "logging.timestamp", "logging.caller",
		"store.backend", "store.path",
		"preprocess.strict", "preprocess.padding",
	}
	for _, key := range keys {
		// BindEnv only fails on an empty key.
		_ = v.BindEnv(key)
	}
}

func findFirst(paths ...string) string {
	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}
