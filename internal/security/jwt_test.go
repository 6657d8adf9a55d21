package security

import (
	"strings"
	"testing"
	"time"
)

func TestGenerateAndParseRoundTrip(t *testing.T) {
	provider := NewJWTProvider("secret")
	token, _, err := provider.Generate(Principal{UserID: "65f1c0c2a1b2c3d4e5f60718", Role: RoleRecruiter}, time.Minute)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	claims, err := provider.Parse(token)
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}
	principal, err := claims.Principal()
	if err != nil {
		t.Fatalf("unexpected principal error: %v", err)
	}
	if principal.UserID != "65f1c0c2a1b2c3d4e5f60718" || principal.Role != RoleRecruiter {
		t.Fatalf("unexpected principal %+v", principal)
	}
}

func TestParseRejectsTamperedSignature(t *testing.T) {
	provider := NewJWTProvider("secret")
	token, _, err := provider.Generate(Principal{UserID: "u1", Role: RoleStudent}, time.Minute)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	other := NewJWTProvider("other")
	if _, err := other.Parse(token); err == nil {
		t.Fatalf("expected signature error")
	}
	if _, err := provider.Parse(strings.TrimSuffix(token, token[len(token)-2:])); err == nil {
		t.Fatalf("expected error for truncated signature")
	}
}

func TestParseRejectsExpiredToken(t *testing.T) {
	provider := NewJWTProvider("secret")
	token, _, err := provider.Generate(Principal{UserID: "u1", Role: RoleStudent}, -time.Minute)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := provider.Parse(token); err == nil {
		t.Fatalf("expected expired token error")
	}
}

func TestClaimsPrincipalRejectsUnknownRole(t *testing.T) {
	claims := Claims{UserID: "u1", Role: "admin"}
	if _, err := claims.Principal(); err == nil {
		t.Fatalf("expected unknown role error")
	}
}
