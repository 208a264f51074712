// Package config loads and validates application configuration.
//
// Configuration is read from a YAML file, an optional .env file and
// PREPKIT_-prefixed environment variables, in increasing precedence. The
// loaded Config opens the fitted-state store and produces the stage options
// a pipeline is built with.
//
//	var cfg config.Config
//	if err := config.Load(&cfg); err != nil {
//	    ...
//	}
//	st, err := cfg.Store.Open()
//	enc := preprocess.NewTextEncoder(append(cfg.StageOptions(), preprocess.WithStore(st, "text_encoder"))...)
package config
