package auth

import (
	"testing"
	"time"

	"blogd/internal/models"
)

func testIssuer(t *testing.T, ttl time.Duration) *TokenIssuer {
	t.Helper()
	issuer, err := NewTokenIssuer("test-secret", ttl)
	if err != nil {
		t.Fatalf("new issuer: %v", err)
	}
	return issuer
}

func TestNewTokenIssuerValidation(t *testing.T) {
	if _, err := NewTokenIssuer("", time.Hour); err == nil {
		t.Fatal("expected error for empty secret")
	}
	if _, err := NewTokenIssuer("secret", 0); err == nil {
		t.Fatal("expected error for zero ttl")
	}
}

func TestIssueAndVerify(t *testing.T) {
	issuer := testIssuer(t, time.Hour)
	user := &models.User{
		ID:            "us-ab12",
		UserName:      "alice",
		ProfilePicKey: "images/alice.png",
		IsAdmin:       true,
	}

	token, err := issuer.Issue(user, time.Now())
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	claims, err := issuer.Verify(token)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if claims.Subject != "us-ab12" {
		t.Fatalf("expected subject us-ab12, got %q", claims.Subject)
	}
	if claims.UserName != "alice" {
		t.Fatalf("expected user_name alice, got %q", claims.UserName)
	}
	if !claims.IsAdmin {
		t.Fatal("expected admin flag to survive the round trip")
	}

	identity := claims.Identity()
	if identity.UserID != "us-ab12" || identity.ProfilePicKey != "images/alice.png" {
		t.Fatalf("unexpected identity %+v", identity)
	}
}

func TestVerifyRejectsExpired(t *testing.T) {
	issuer := testIssuer(t, time.Minute)
	user := &models.User{ID: "us-ab12", UserName: "alice"}

	token, err := issuer.Issue(user, time.Now().Add(-2*time.Minute))
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	if _, err := issuer.Verify(token); err != ErrInvalidToken {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
	issuer := testIssuer(t, time.Hour)
	other, err := NewTokenIssuer("other-secret", time.Hour)
	if err != nil {
		t.Fatalf("new issuer: %v", err)
	}

	token, err := other.Issue(&models.User{ID: "us-ab12", UserName: "alice"}, time.Now())
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	if _, err := issuer.Verify(token); err != ErrInvalidToken {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestVerifyRejectsGarbage(t *testing.T) {
	issuer := testIssuer(t, time.Hour)

	for _, raw := range []string{"", "   ", "not.a.token"} {
		if _, err := issuer.Verify(raw); err != ErrInvalidToken {
			t.Fatalf("Verify(%q): expected ErrInvalidToken, got %v", raw, err)
		}
	}
}
