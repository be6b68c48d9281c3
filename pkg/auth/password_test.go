package auth

import "testing"

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("secret123")
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	if hash == "secret123" || hash == "" {
		t.Fatalf("hash looks wrong: %q", hash)
	}
	if !CheckPassword("secret123", hash) {
		t.Fatalf("expected password to verify")
	}
	if CheckPassword("wrong", hash) {
		t.Fatalf("wrong password must not verify")
	}
}

func TestCheckPasswordRejectsGarbageHash(t *testing.T) {
	if CheckPassword("secret123", "not-a-bcrypt-hash") {
		t.Fatalf("garbage hash must not verify")
	}
}
