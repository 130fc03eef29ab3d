package security

import (
	"errors"
	"testing"
	"time"

	"github.com/mahesh553/Resumefinal-sub000/internal/core/domain"
	"github.com/mahesh553/Resumefinal-sub000/internal/infra/config"
)

func newTestVerifier(t *testing.T) *TokenVerifier {
	t.Helper()

	verifier, err := NewTokenVerifier(config.JWTSettings{
		Secret: "test-secret",
		Issuer: "access-control-service",
	})
	if err != nil {
		t.Fatalf("NewTokenVerifier returned error: %v", err)
	}
	return verifier
}

func TestVerifyAccessTokenRoundTrip(t *testing.T) {
	verifier := newTestVerifier(t)

	token, err := verifier.IssueAccessToken(domain.Principal{
		ID:    "user-1",
		Email: "user@example.com",
		Role:  domain.LegacyRoleAdmin,
	}, time.Minute)
	if err != nil {
		t.Fatalf("IssueAccessToken returned error: %v", err)
	}

	principal, err := verifier.VerifyAccessToken(token)
	if err != nil {
		t.Fatalf("VerifyAccessToken returned error: %v", err)
	}

	if principal.ID != "user-1" {
		t.Fatalf("unexpected principal id: %s", principal.ID)
	}
	if principal.Email != "user@example.com" {
		t.Fatalf("unexpected principal email: %s", principal.Email)
	}
	if principal.Role != domain.LegacyRoleAdmin {
		t.Fatalf("unexpected principal role: %s", principal.Role)
	}
}

func TestVerifyAccessTokenExpired(t *testing.T) {
	verifier := newTestVerifier(t)

	token, err := verifier.IssueAccessToken(domain.Principal{ID: "user-1"}, -time.Minute)
	if err != nil {
		t.Fatalf("IssueAccessToken returned error: %v", err)
	}

	if _, err := verifier.VerifyAccessToken(token); !errors.Is(err, ErrTokenExpired) {
		t.Fatalf("expected ErrTokenExpired, got %v", err)
	}
}

func TestVerifyAccessTokenWrongSecret(t *testing.T) {
	verifier := newTestVerifier(t)

	other, err := NewTokenVerifier(config.JWTSettings{
		Secret: "different-secret",
		Issuer: "access-control-service",
	})
	if err != nil {
		t.Fatalf("NewTokenVerifier returned error: %v", err)
	}

	token, err := other.IssueAccessToken(domain.Principal{ID: "user-1"}, time.Minute)
	if err != nil {
		t.Fatalf("IssueAccessToken returned error: %v", err)
	}

	if _, err := verifier.VerifyAccessToken(token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestVerifyAccessTokenUnknownRoleDefaultsToUser(t *testing.T) {
	verifier := newTestVerifier(t)

	token, err := verifier.IssueAccessToken(domain.Principal{
		ID:   "user-1",
		Role: domain.LegacyRole("superuser"),
	}, time.Minute)
	if err != nil {
		t.Fatalf("IssueAccessToken returned error: %v", err)
	}

	principal, err := verifier.VerifyAccessToken(token)
	if err != nil {
		t.Fatalf("VerifyAccessToken returned error: %v", err)
	}

	if principal.Role != domain.LegacyRoleUser {
		t.Fatalf("expected role to default to user, got %s", principal.Role)
	}
}
