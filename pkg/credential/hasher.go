// Package credential derives and verifies salted, peppered, iterated
// one-way password hashes.
//
// Hashes are computed as PBKDF2(pepper || password, salt) with a
// configurable iteration count, output length, and digest. The pepper is a
// process-wide secret that is never stored alongside a credential record;
// the salt is random per credential and persisted next to the hash.
// Verification re-derives the hash from the stored salt and compares in
// constant time.
package credential

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/sha512"
	"crypto/subtle"
	"fmt"
	"hash"

	"golang.org/x/crypto/pbkdf2"
)

// Config holds the key-derivation parameters. The zero values of the
// numeric fields fall back to the defaults below; Pepper has no default
// and must be supplied.
type Config struct {
	// Pepper is the process-wide secret mixed into every hash.
	Pepper string

	// SaltLength is the length in bytes of generated salts (default: 128).
	SaltLength int

	// Iterations is the PBKDF2 iteration count (default: 10000).
	Iterations int

	// KeyLength is the derived hash length in bytes (default: 128).
	KeyLength int

	// Digest selects the underlying hash: "sha256" or "sha512"
	// (default: "sha512").
	Digest string
}

func (c *Config) defaults() {
	if c.SaltLength == 0 {
		c.SaltLength = 128
	}
	if c.Iterations == 0 {
		c.Iterations = 10000
	}
	if c.KeyLength == 0 {
		c.KeyLength = 128
	}
	if c.Digest == "" {
		c.Digest = "sha512"
	}
}

// Hasher derives and verifies password hashes with a fixed parameter set.
// A Hasher is immutable and safe for concurrent use.
type Hasher struct {
	pepper     string
	saltLength int
	iterations int
	keyLength  int
	digest     func() hash.Hash
}

// New creates a Hasher. Misconfiguration (missing pepper, unknown digest,
// negative parameters) is an error here so the process refuses to start
// rather than run with an unusable parameter set; there is no per-request
// error path.
func New(cfg Config) (*Hasher, error) {
	cfg.defaults()

	if cfg.Pepper == "" {
		return nil, fmt.Errorf("credential: pepper is required")
	}
	if cfg.SaltLength < 0 || cfg.Iterations < 1 || cfg.KeyLength < 1 {
		return nil, fmt.Errorf("credential: invalid parameters (salt=%d iterations=%d keylen=%d)",
			cfg.SaltLength, cfg.Iterations, cfg.KeyLength)
	}

	var digest func() hash.Hash
	switch cfg.Digest {
	case "sha256":
		digest = sha256.New
	case "sha512":
		digest = sha512.New
	default:
		return nil, fmt.Errorf("credential: unknown digest %q", cfg.Digest)
	}

	return &Hasher{
		pepper:     cfg.Pepper,
		saltLength: cfg.SaltLength,
		iterations: cfg.Iterations,
		keyLength:  cfg.KeyLength,
		digest:     digest,
	}, nil
}

// Derive computes the hash of password under the given salt. A nil salt
// generates a new random one. The result is deterministic for a fixed
// (password, salt, pepper, parameters) tuple, which is what lets Verify
// re-derive an identical hash from the stored salt.
func (h *Hasher) Derive(password string, salt []byte) (derived, outSalt []byte, err error) {
	if salt == nil {
		salt = make([]byte, h.saltLength)
		if _, err := rand.Read(salt); err != nil {
			return nil, nil, fmt.Errorf("credential: generating salt: %w", err)
		}
	}

	key := pbkdf2.Key([]byte(h.pepper+password), salt, h.iterations, h.keyLength, h.digest)
	return key, salt, nil
}

// Verify re-derives the candidate password under the stored salt and
// compares against the stored hash in constant time. Ordinary equality
// would short-circuit on the first differing byte and leak a timing
// side-channel.
func (h *Hasher) Verify(password string, storedHash, storedSalt []byte) bool {
	derived, _, err := h.Derive(password, storedSalt)
	if err != nil {
		return false
	}
	return subtle.ConstantTimeCompare(derived, storedHash) == 1
}
