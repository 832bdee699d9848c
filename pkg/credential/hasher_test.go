package credential

import (
	"bytes"
	"testing"
)

func testHasher(t *testing.T) *Hasher {
	t.Helper()
	// Small parameters keep the test fast; the derivation path is identical.
	h, err := New(Config{Pepper: "test-pepper", SaltLength: 16, Iterations: 100, KeyLength: 32})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return h
}

func TestDeriveVerifyRoundTrip(t *testing.T) {
	h := testHasher(t)

	hash, salt, err := h.Derive("Str0ng!pass", nil)
	if err != nil {
		t.Fatalf("Derive: %v", err)
	}
	if len(hash) != 32 {
		t.Errorf("hash length = %d, want 32", len(hash))
	}
	if len(salt) != 16 {
		t.Errorf("salt length = %d, want 16", len(salt))
	}

	if !h.Verify("Str0ng!pass", hash, salt) {
		t.Error("Verify with the correct password must succeed")
	}
	if h.Verify("wrong-password", hash, salt) {
		t.Error("Verify with a wrong password must fail")
	}
}

func TestDeriveDeterministic(t *testing.T) {
	h := testHasher(t)

	first, salt, err := h.Derive("secret", nil)
	if err != nil {
		t.Fatalf("Derive: %v", err)
	}
	second, _, err := h.Derive("secret", salt)
	if err != nil {
		t.Fatalf("Derive: %v", err)
	}

	if !bytes.Equal(first, second) {
		t.Error("same (password, salt, pepper, params) must derive identical hashes")
	}
}

func TestFreshSaltPerDerivation(t *testing.T) {
	h := testHasher(t)

	_, s1, _ := h.Derive("secret", nil)
	_, s2, _ := h.Derive("secret", nil)

	if bytes.Equal(s1, s2) {
		t.Error("each derivation without a salt must generate a fresh one")
	}
}

func TestSingleByteMutationFails(t *testing.T) {
	h := testHasher(t)

	hash, salt, err := h.Derive("Str0ng!pass", nil)
	if err != nil {
		t.Fatalf("Derive: %v", err)
	}

	for i := range hash {
		mutated := bytes.Clone(hash)
		mutated[i] ^= 0x01
		if h.Verify("Str0ng!pass", mutated, salt) {
			t.Fatalf("hash byte %d mutated, Verify must fail", i)
		}
	}

	for i := range salt {
		mutated := bytes.Clone(salt)
		mutated[i] ^= 0x01
		if h.Verify("Str0ng!pass", hash, mutated) {
			t.Fatalf("salt byte %d mutated, Verify must fail", i)
		}
	}
}

func TestPepperChangesHash(t *testing.T) {
	a, _ := New(Config{Pepper: "pepper-a", SaltLength: 16, Iterations: 100, KeyLength: 32})
	b, _ := New(Config{Pepper: "pepper-b", SaltLength: 16, Iterations: 100, KeyLength: 32})

	hash, salt, _ := a.Derive("secret", nil)
	if b.Verify("secret", hash, salt) {
		t.Error("a hash derived under one pepper must not verify under another")
	}
}

func TestNewRejectsMisconfiguration(t *testing.T) {
	cases := []struct {
		name string
		cfg  Config
	}{
		{"missing pepper", Config{}},
		{"unknown digest", Config{Pepper: "p", Digest: "md5"}},
		{"negative iterations", Config{Pepper: "p", Iterations: -1}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := New(tc.cfg); err == nil {
				t.Error("New must reject the configuration")
			}
		})
	}
}

func TestDefaults(t *testing.T) {
	h, err := New(Config{Pepper: "p"})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if h.saltLength != 128 || h.iterations != 10000 || h.keyLength != 128 {
		t.Errorf("defaults = (%d, %d, %d), want (128, 10000, 128)",
			h.saltLength, h.iterations, h.keyLength)
	}
}
