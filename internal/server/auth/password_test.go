package auth

import (
	"strings"
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func TestPasswordHasher_RoundTrip(t *testing.T) {
	t.Parallel()

	h := NewPasswordHasher(bcrypt.MinCost)

	hash, err := h.Hash("hunter22")
	if err != nil {
		t.Fatalf("Hash error: %v", err)
	}
	if hash == "hunter22" {
		t.Fatalf("hash must differ from plaintext")
	}
	if !h.Verify("hunter22", hash) {
		t.Fatalf("expected password to verify")
	}
	if h.Verify("hunter23", hash) {
		t.Fatalf("wrong password must not verify")
	}
	if h.Verify("hunter22", "not-a-bcrypt-hash") {
		t.Fatalf("malformed hash must not verify")
	}
}

func TestPasswordHasher_Salted(t *testing.T) {
	t.Parallel()

	h := NewPasswordHasher(bcrypt.MinCost)
	a, _ := h.Hash("same")
	b, _ := h.Hash("same")
	if a == b {
		t.Fatalf("two hashes of the same password must differ")
	}
}

func TestNewPasswordHasher_DefaultCost(t *testing.T) {
	t.Parallel()

	h := NewPasswordHasher(0)
	if h.cost != PasswordCost {
		t.Fatalf("cost = %d, want %d", h.cost, PasswordCost)
	}

	hash, err := NewPasswordHasher(PasswordCost).Hash("x")
	if err != nil {
		t.Fatalf("Hash error: %v", err)
	}
	cost, err := bcrypt.Cost([]byte(hash))
	if err != nil || cost != 12 {
		t.Fatalf("cost = %d, err = %v; want 12", cost, err)
	}
}

func TestPasswordHasher_LongPasswords(t *testing.T) {
	t.Parallel()

	h := NewPasswordHasher(bcrypt.MinCost)
	long := strings.Repeat("x", 80)

	hash, err := h.Hash(long)
	if err != nil {
		t.Fatalf("Hash error: %v", err)
	}
	if !h.Verify(long, hash) {
		t.Fatalf("expected long password to verify")
	}
	// bcrypt alone would ignore everything after byte 72.
	if h.Verify(strings.Repeat("x", 72)+"yyyyyyyy", hash) {
		t.Fatalf("passwords differing after byte 72 must not verify")
	}
}
