package auth

import (
	"testing"
	"time"
)

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("hunter2hunter2")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if hash == "hunter2hunter2" {
		t.Fatalf("hash must not equal plaintext")
	}
	if !CheckPassword(hash, "hunter2hunter2") {
		t.Fatalf("expected password to verify")
	}
	if CheckPassword(hash, "wrong-password") {
		t.Fatalf("expected wrong password to fail")
	}
}

func TestTokenPairRoundTrip(t *testing.T) {
	const secret = "test-secret"

	access, refresh, err := NewTokenPair(42, "a@b.edu", "student", secret, time.Minute, time.Hour)
	if err != nil {
		t.Fatalf("new token pair: %v", err)
	}

	claims, err := ParseTokenOfType(access, secret, TokenTypeAccess)
	if err != nil {
		t.Fatalf("parse access: %v", err)
	}
	if claims.UserID != 42 || claims.Email != "a@b.edu" || claims.Role != "student" {
		t.Fatalf("unexpected claims: %+v", claims)
	}
	if claims.ID == "" {
		t.Fatalf("expected jti to be set")
	}

	if _, err := ParseTokenOfType(refresh, secret, TokenTypeRefresh); err != nil {
		t.Fatalf("parse refresh: %v", err)
	}

	// A refresh token presented as an access token must be rejected.
	if _, err := ParseTokenOfType(refresh, secret, TokenTypeAccess); err != ErrWrongTokenUse {
		t.Fatalf("expected ErrWrongTokenUse, got %v", err)
	}

	// Tampered secret must fail.
	if _, err := ParseToken(access, "other-secret"); err == nil {
		t.Fatalf("expected invalid token with wrong secret")
	}
}

func TestExpiredTokenRejected(t *testing.T) {
	const secret = "test-secret"
	access, _, err := NewTokenPair(1, "x@y.edu", "admin", secret, -time.Minute, time.Hour)
	if err != nil {
		t.Fatalf("new token pair: %v", err)
	}
	if _, err := ParseToken(access, secret); err == nil {
		t.Fatalf("expected expired token to be rejected")
	}
}
