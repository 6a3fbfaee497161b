// Package config loads typed configuration structs from environment
// variables.
//
// Each component declares its own Config struct with `env` tags; the
// entrypoint composes and loads them once at startup and passes them into
// constructors. Nothing in the core services reads the environment directly,
// which keeps configuration explicit and testable.
//
// A .env file in the working directory is loaded once (if present) before
// the first parse, matching the usual development workflow.
//
//	type AppConfig struct {
//	    Port   int    `env:"PORT" envDefault:"8080"`
//	    Secret string `env:"SECRET,required"`
//	}
//
//	var cfg AppConfig
//	config.MustLoad(&cfg)
package config
