package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Load loads configuration from a layered set of sources.
//
// The loading order is:
//  1. Built-in defaults
//  2. YAML config file (explicit path, FOLIO_CONFIG env, ./config.yaml, /etc/folio/config.yaml)
//  3. Environment variable overrides
//  4. File reference resolution (_file suffix)
//  5. Validation
func Load(configPath string) (*Config, error) {
	// Start with defaults.
	cfg := Defaults()

	// Discover and load YAML config file.
	filePath := discoverConfigFile(configPath)
	if filePath != "" {
		if err := loadYAMLFile(filePath, &cfg); err != nil {
			return nil, fmt.Errorf("loading config file %s: %w", filePath, err)
		}
	}

	// Apply environment variable overrides.
	applyEnvOverrides(&cfg)

	// Resolve _file references.
	if err := resolveFileReferences(&cfg); err != nil {
		return nil, fmt.Errorf("resolving file references: %w", err)
	}

	// Validate.
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	return &cfg, nil
}

// discoverConfigFile finds the config file path using the discovery order:
// 1. Explicit configPath argument
// 2. FOLIO_CONFIG environment variable
// 3. ./config.yaml in the current directory
// 4. /etc/folio/config.yaml
//
// Returns empty string if no config file is found.
func discoverConfigFile(configPath string) string {
	// Explicit path takes priority.
	if configPath != "" {
		return configPath
	}

	if envPath := os.Getenv("FOLIO_CONFIG"); envPath != "" {
		return envPath
	}

	candidates := []string{
		"config.yaml",
		"/etc/folio/config.yaml",
	}
	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// loadYAMLFile reads and parses a YAML file into the Config struct.
// Fields not present in the YAML retain their current (default) values.
func loadYAMLFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

// applyEnvOverrides maps FOLIO_* environment variables to config fields.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("FOLIO_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		}
	}
	if v := os.Getenv("FOLIO_STORAGE"); v != "" {
		cfg.Storage.Type = v
	}
	if v := os.Getenv("FOLIO_POSTGRES_DSN"); v != "" {
		cfg.Storage.Postgres.DSN = v
	}
	if v := os.Getenv("FOLIO_TOKEN_SECRET"); v != "" {
		cfg.Security.TokenSecret = v
	}
	if v := os.Getenv("FOLIO_TOKEN_LIFETIME"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Security.TokenLifetime = d
		}
	}
	if v := os.Getenv("FOLIO_PEPPER"); v != "" {
		cfg.Security.Pepper = v
	}
	if v := os.Getenv("FOLIO_SIGNIN_PER_MINUTE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Security.SignInPerMinute = n
		}
	}
}

// resolveFileReferences reads _file fields and populates the corresponding
// value fields. For each field ending in _file, if the value field is empty
// and the file field is set, the file is read, whitespace is trimmed, and
// the value field is populated.
func resolveFileReferences(cfg *Config) error {
	// security.token_secret_file -> security.token_secret
	if cfg.Security.TokenSecretFile != "" && cfg.Security.TokenSecret == "" {
		val, err := readSecretFile(cfg.Security.TokenSecretFile)
		if err != nil {
			return fmt.Errorf("security.token_secret_file: %w", err)
		}
		cfg.Security.TokenSecret = val
	}

	// security.pepper_file -> security.pepper
	if cfg.Security.PepperFile != "" && cfg.Security.Pepper == "" {
		val, err := readSecretFile(cfg.Security.PepperFile)
		if err != nil {
			return fmt.Errorf("security.pepper_file: %w", err)
		}
		cfg.Security.Pepper = val
	}

	// storage.postgres.dsn_file -> storage.postgres.dsn
	if cfg.Storage.Postgres.DSNFile != "" && cfg.Storage.Postgres.DSN == "" {
		val, err := readSecretFile(cfg.Storage.Postgres.DSNFile)
		if err != nil {
			return fmt.Errorf("storage.postgres.dsn_file: %w", err)
		}
		cfg.Storage.Postgres.DSN = val
	}

	return nil
}

// readSecretFile reads a file and returns its content with surrounding whitespace trimmed.
func readSecretFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}
