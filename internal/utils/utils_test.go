package utils

import (
	"strings"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"
)

func TestPasswordRoundTrip(t *testing.T) {
	t.Parallel()

	hash, err := HashPassword("farmer123", bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if !VerifyPassword(hash, "farmer123") {
		t.Fatal("expected password to verify")
	}
	if VerifyPassword(hash, "farmer124") {
		t.Fatal("wrong password verified")
	}
}

func TestSessionTokenRoundTrip(t *testing.T) {
	t.Parallel()

	tok, err := NewSessionToken("s3cret", 42, "vet", time.Hour)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	claims, err := ParseSessionToken("s3cret", tok.Signed)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	uid, err := claims.UserID()
	if err != nil || uid != 42 {
		t.Fatalf("uid=%d err=%v", uid, err)
	}
	if claims.Role != "vet" {
		t.Fatalf("role=%q", claims.Role)
	}
	if HashToken(claims.ID) != tok.Hash {
		t.Fatal("stored hash does not match jti")
	}
	if strings.Contains(tok.Signed, tok.Hash) {
		t.Fatal("cookie must not carry the stored hash")
	}
}

func TestParseSessionTokenRejects(t *testing.T) {
	t.Parallel()

	tok, err := NewSessionToken("s3cret", 1, "admin", time.Hour)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if _, err := ParseSessionToken("other", tok.Signed); err == nil {
		t.Fatal("expected signature failure")
	}
	expired, err := NewSessionToken("s3cret", 1, "admin", -time.Minute)
	if err != nil {
		t.Fatalf("issue expired: %v", err)
	}
	if _, err := ParseSessionToken("s3cret", expired.Signed); err == nil {
		t.Fatal("expected expiry failure")
	}
	if _, err := ParseSessionToken("s3cret", "not-a-jwt"); err == nil {
		t.Fatal("expected malformed failure")
	}
}
