package auth

import (
	"errors"
	"testing"
)

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("correct horse battery")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if hash == "correct horse battery" {
		t.Fatal("hash must not equal the plaintext")
	}
	if !CheckPassword("correct horse battery", hash) {
		t.Fatal("correct password rejected")
	}
	if CheckPassword("wrong password", hash) {
		t.Fatal("wrong password accepted")
	}
}

func TestHashPasswordRejectsShort(t *testing.T) {
	if _, err := HashPassword("short"); !errors.Is(err, ErrWeakPassword) {
		t.Fatalf("got %v, want ErrWeakPassword", err)
	}
}

func TestGenerateSessionToken(t *testing.T) {
	a, err := GenerateSessionToken()
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	b, err := GenerateSessionToken()
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if len(a) != 64 {
		t.Fatalf("token length = %d, want 64", len(a))
	}
	if a == b {
		t.Fatal("two tokens must differ")
	}
}

func TestValidateEmail(t *testing.T) {
	for _, ok := range []string{"a@b.com", "user+tag@example.org"} {
		if err := ValidateEmail(ok); err != nil {
			t.Fatalf("ValidateEmail(%q) = %v", ok, err)
		}
	}
	for _, bad := range []string{"", "no-at", "@lead.com", "trail@", "two@@x"} {
		if err := ValidateEmail(bad); !errors.Is(err, ErrInvalidEmail) {
			t.Fatalf("ValidateEmail(%q) = %v, want ErrInvalidEmail", bad, err)
		}
	}
}
