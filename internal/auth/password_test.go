package auth

import (
	"testing"

	"golang.org/x/crypto/bcrypt"
)

// テストではワークファクタを最小にして実行時間を抑える。
const testBcryptCost = bcrypt.MinCost

func TestPasswordHasher_HashAndCompare_Roundtrip(t *testing.T) {
	hasher := NewPasswordHasher(testBcryptCost)

	hash, err := hasher.Hash("secret-password")
	if err != nil {
		t.Fatalf("Hash returned error: %v", err)
	}
	if hash == "secret-password" {
		t.Fatal("hash must not equal the plaintext password")
	}

	if !hasher.Compare(hash, "secret-password") {
		t.Error("expected correct password to match")
	}
	if hasher.Compare(hash, "wrong-password") {
		t.Error("expected wrong password not to match")
	}
}

func TestPasswordHasher_Hash_ProducesUniqueSalts(t *testing.T) {
	hasher := NewPasswordHasher(testBcryptCost)

	hash1, err := hasher.Hash("same-password")
	if err != nil {
		t.Fatalf("Hash returned error: %v", err)
	}
	hash2, err := hasher.Hash("same-password")
	if err != nil {
		t.Fatalf("Hash returned error: %v", err)
	}

	if hash1 == hash2 {
		t.Error("two hashes of the same password should differ (random salt)")
	}
}

func TestNewPasswordHasher_NonPositiveCost_UsesDefault(t *testing.T) {
	hasher := NewPasswordHasher(0)
	if hasher.cost != DefaultBcryptCost {
		t.Errorf("cost = %d, want %d", hasher.cost, DefaultBcryptCost)
	}

	hasher = NewPasswordHasher(-5)
	if hasher.cost != DefaultBcryptCost {
		t.Errorf("cost = %d, want %d", hasher.cost, DefaultBcryptCost)
	}
}

func TestPasswordHasher_Compare_InvalidHashFormat_ReturnsFalse(t *testing.T) {
	hasher := NewPasswordHasher(testBcryptCost)

	if hasher.Compare("not-a-bcrypt-hash", "anything") {
		t.Error("expected invalid stored hash not to match")
	}
}
