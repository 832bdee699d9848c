package config

import (
	"errors"
	"fmt"
)

// Validate checks the configuration for required fields and valid values.
// Returns an error with a descriptive field path on failure.
func (c *Config) Validate() error {
	var errs []error

	// The token secret and pepper are deployment secrets with no safe
	// defaults; refusing to start beats silently signing with "".
	if c.Security.TokenSecret == "" {
		errs = append(errs, fmt.Errorf("security.token_secret or security.token_secret_file is required"))
	}
	if c.Security.Pepper == "" {
		errs = append(errs, fmt.Errorf("security.pepper or security.pepper_file is required"))
	}

	if c.Security.TokenLifetime <= 0 {
		errs = append(errs, fmt.Errorf("security.token_lifetime must be > 0, got %s", c.Security.TokenLifetime))
	}
	if c.Security.SaltLength <= 0 {
		errs = append(errs, fmt.Errorf("security.salt_length must be > 0, got %d", c.Security.SaltLength))
	}
	if c.Security.Iterations <= 0 {
		errs = append(errs, fmt.Errorf("security.iterations must be > 0, got %d", c.Security.Iterations))
	}
	if c.Security.KeyLength <= 0 {
		errs = append(errs, fmt.Errorf("security.key_length must be > 0, got %d", c.Security.KeyLength))
	}

	switch c.Security.Digest {
	case "sha1", "sha256", "sha512":
		// valid
	default:
		errs = append(errs, fmt.Errorf("security.digest must be \"sha1\", \"sha256\", or \"sha512\", got %q", c.Security.Digest))
	}

	if c.Security.SignInPerMinute <= 0 {
		errs = append(errs, fmt.Errorf("security.sign_in_per_minute must be > 0, got %d", c.Security.SignInPerMinute))
	}

	// server.port must be positive.
	if c.Server.Port <= 0 {
		errs = append(errs, fmt.Errorf("server.port must be > 0, got %d", c.Server.Port))
	}

	// storage.type must be a known value.
	switch c.Storage.Type {
	case "memory", "postgres":
		// valid
	default:
		errs = append(errs, fmt.Errorf("storage.type must be \"memory\" or \"postgres\", got %q", c.Storage.Type))
	}

	// If storage.type is "postgres", DSN or DSNFile must be set.
	if c.Storage.Type == "postgres" {
		if c.Storage.Postgres.DSN == "" && c.Storage.Postgres.DSNFile == "" {
			errs = append(errs, fmt.Errorf("storage.postgres.dsn or storage.postgres.dsn_file is required when storage.type is \"postgres\""))
		}
	}

	return errors.Join(errs...)
}
