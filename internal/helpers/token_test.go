package helpers

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func TestIssueAndVerifyToken(t *testing.T) {
	ti := NewTokenIssuer("test-secret-key", 7*24*time.Hour)

	signed, err := ti.IssueToken("64f1b2c3d4e5f6a7b8c9d0e1", "tourist")
	if err != nil {
		t.Fatalf("failed to issue token: %v", err)
	}

	claims, err := ti.VerifyToken(signed)
	if err != nil {
		t.Fatalf("failed to verify token: %v", err)
	}
	if claims.Subject != "64f1b2c3d4e5f6a7b8c9d0e1" {
		t.Errorf("expected subject to round-trip, got %s", claims.Subject)
	}
	if claims.Role != "tourist" {
		t.Errorf("expected role tourist, got %s", claims.Role)
	}
}

func TestVerifyTamperedSignature(t *testing.T) {
	ti := NewTokenIssuer("test-secret-key", time.Hour)
	signed, err := ti.IssueToken("user-1", "host")
	if err != nil {
		t.Fatalf("failed to issue token: %v", err)
	}

	parts := strings.Split(signed, ".")
	tampered := parts[0] + "." + parts[1] + "." + "AAAA" + parts[2][4:]

	_, err = ti.VerifyToken(tampered)
	if !errors.Is(err, ErrTokenInvalid) {
		t.Errorf("expected ErrTokenInvalid, got %v", err)
	}
}

func TestVerifyWrongSecret(t *testing.T) {
	signed, err := NewTokenIssuer("secret-a", time.Hour).IssueToken("user-1", "tourist")
	if err != nil {
		t.Fatalf("failed to issue token: %v", err)
	}

	_, err = NewTokenIssuer("secret-b", time.Hour).VerifyToken(signed)
	if !errors.Is(err, ErrTokenInvalid) {
		t.Errorf("expected ErrTokenInvalid, got %v", err)
	}
}

func TestVerifyExpiredToken(t *testing.T) {
	ti := NewTokenIssuer("test-secret-key", -time.Minute)
	signed, err := ti.IssueToken("user-1", "tourist")
	if err != nil {
		t.Fatalf("failed to issue token: %v", err)
	}

	_, err = ti.VerifyToken(signed)
	if !errors.Is(err, ErrTokenExpired) {
		t.Errorf("expected ErrTokenExpired, got %v", err)
	}
}

func TestVerifyMalformedToken(t *testing.T) {
	ti := NewTokenIssuer("test-secret-key", time.Hour)
	if _, err := ti.VerifyToken("not-a-token"); !errors.Is(err, ErrTokenInvalid) {
		t.Errorf("expected ErrTokenInvalid for malformed input, got %v", err)
	}
}
