package utils

import (
	"errors"
	"testing"
	"time"
)

func TestTokenRoundTrip(t *testing.T) {
	secret := []byte("test-secret")
	tok, exp, err := GenerateToken(secret, "admin", RoleAdmin, time.Hour)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if time.Until(exp) < 59*time.Minute {
		t.Fatalf("unexpected expiry %s", exp)
	}

	claims, err := ParseToken(secret, tok)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if claims.Subject != "admin" || claims.Role != RoleAdmin {
		t.Fatalf("unexpected claims %+v", claims)
	}
}

func TestParseTokenRejects(t *testing.T) {
	secret := []byte("test-secret")
	expired, _, err := GenerateToken(secret, "admin", RoleAdmin, -time.Minute)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	other, _, err := GenerateToken([]byte("other"), "admin", RoleAdmin, time.Hour)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	for name, tok := range map[string]string{"expired": expired, "wrong secret": other, "garbage": "abc.def.ghi"} {
		if _, err := ParseToken(secret, tok); !errors.Is(err, ErrInvalidToken) {
			t.Fatalf("%s: expected ErrInvalidToken, got %v", name, err)
		}
	}

	if _, _, err := GenerateToken(nil, "admin", RoleAdmin, time.Hour); err == nil {
		t.Fatalf("expected an error for an empty secret")
	}
}
