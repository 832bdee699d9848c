// Package config provides unified configuration for the folio backend.
//
// Configuration is loaded with a layered approach:
//  1. Built-in defaults
//  2. YAML config file (discovered or explicitly specified)
//  3. Environment variable overrides (FOLIO_ prefix)
//  4. File reference resolution (_file suffix fields)
//  5. Validation
package config

import "time"

// Config holds all configuration for the folio backend.
type Config struct {
	Server        ServerConfig        `yaml:"server"`
	Storage       StorageConfig       `yaml:"storage"`
	Security      SecurityConfig      `yaml:"security"`
	Observability ObservabilityConfig `yaml:"observability"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port         int           `yaml:"port"`          // default: 8080
	ReadTimeout  time.Duration `yaml:"read_timeout"`  // default: 30s
	WriteTimeout time.Duration `yaml:"write_timeout"` // default: 30s
}

// StorageConfig holds persistence settings.
type StorageConfig struct {
	Type     string         `yaml:"type"` // "memory" or "postgres", default: "memory"
	Postgres PostgresConfig `yaml:"postgres"`
}

// PostgresConfig holds PostgreSQL-specific settings.
type PostgresConfig struct {
	DSN            string `yaml:"dsn"`
	DSNFile        string `yaml:"dsn_file"`         // _file variant for dsn
	MaxConns       int32  `yaml:"max_conns"`        // default: 25
	MigrateOnStart bool   `yaml:"migrate_on_start"` // default: false
}

// SecurityConfig holds credential hashing, token, and rate limit settings.
// TokenSecret and Pepper have no defaults; the process refuses to start
// without them.
type SecurityConfig struct {
	TokenSecret     string        `yaml:"token_secret"`
	TokenSecretFile string        `yaml:"token_secret_file"` // _file variant for token_secret
	TokenLifetime   time.Duration `yaml:"token_lifetime"`    // default: 48h
	Pepper          string        `yaml:"pepper"`
	PepperFile      string        `yaml:"pepper_file"` // _file variant for pepper
	SaltLength      int           `yaml:"salt_length"` // default: 128
	Iterations      int           `yaml:"iterations"`  // default: 10000
	KeyLength       int           `yaml:"key_length"`  // default: 128
	Digest          string        `yaml:"digest"`      // default: "sha512"
	SignInPerMinute int           `yaml:"sign_in_per_minute"` // default: 10
	SignInBurst     int           `yaml:"sign_in_burst"`      // default: 5
}

// ObservabilityConfig holds monitoring and instrumentation settings.
type ObservabilityConfig struct {
	Metrics MetricsConfig `yaml:"metrics"`
}

// MetricsConfig holds Prometheus metrics endpoint settings.
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"` // default: true
	Path    string `yaml:"path"`    // default: "/metrics"
}

// Defaults returns a Config with all default values filled in.
func Defaults() Config {
	return Config{
		Server: ServerConfig{
			Port:         8080,
			ReadTimeout:  30 * time.Second,
			WriteTimeout: 30 * time.Second,
		},
		Storage: StorageConfig{
			Type: "memory",
			Postgres: PostgresConfig{
				MaxConns: 25,
			},
		},
		Security: SecurityConfig{
			TokenLifetime:   48 * time.Hour,
			SaltLength:      128,
			Iterations:      10000,
			KeyLength:       128,
			Digest:          "sha512",
			SignInPerMinute: 10,
			SignInBurst:     5,
		},
		Observability: ObservabilityConfig{
			Metrics: MetricsConfig{
				Enabled: true,
				Path:    "/metrics",
			},
		},
	}
}
