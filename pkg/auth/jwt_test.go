package auth

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/dieselhub/dieselhub/pkg/observability/logger"
)

const testIssuer = "dieselhub-admin"

var testSecret = []byte("test-secret-at-least-32-bytes-long")

func newVerifier(t *testing.T) *Verifier {
	t.Helper()
	v, err := NewVerifier(testSecret, testIssuer, logger.Noop())
	if err != nil {
		t.Fatalf("new verifier failed: %v", err)
	}
	return v
}

func TestNewVerifier_Validates(t *testing.T) {
	if _, err := NewVerifier(nil, testIssuer, logger.Noop()); err == nil {
		t.Fatal("expected error for empty secret")
	}
	if _, err := NewVerifier(testSecret, "", logger.Noop()); err == nil {
		t.Fatal("expected error for empty issuer")
	}
}

func TestVerifier_RoundTrip(t *testing.T) {
	v := newVerifier(t)

	token, err := v.Issue("admin-1", []string{"editor", "admin"}, time.Hour)
	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}
	claims, err := v.Verify(token)
	if err != nil {
		t.Fatalf("verify failed: %v", err)
	}
	if claims.Subject != "admin-1" {
		t.Fatalf("subject = %q", claims.Subject)
	}
	if claims.Issuer != testIssuer {
		t.Fatalf("issuer = %q", claims.Issuer)
	}
	if len(claims.Roles) != 2 || claims.Roles[0] != "editor" {
		t.Fatalf("roles = %v", claims.Roles)
	}
	if claims.ExpiresAt.IsZero() || claims.IssuedAt.IsZero() {
		t.Fatal("time claims not extracted")
	}
}

func TestVerifier_RejectsExpired(t *testing.T) {
	v := newVerifier(t)

	token, err := v.Issue("admin-1", nil, -time.Minute)
	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}
	if _, err := v.Verify(token); err == nil {
		t.Fatal("expected error for expired token")
	}
}

func TestVerifier_RejectsWrongIssuer(t *testing.T) {
	other, err := NewVerifier(testSecret, "somebody-else", logger.Noop())
	if err != nil {
		t.Fatalf("new verifier failed: %v", err)
	}
	token, err := other.Issue("admin-1", nil, time.Hour)
	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}
	if _, err := newVerifier(t).Verify(token); err == nil {
		t.Fatal("expected error for wrong issuer")
	}
}

func TestVerifier_RejectsWrongSecret(t *testing.T) {
	other, err := NewVerifier([]byte("a-completely-different-signing-key"), testIssuer, logger.Noop())
	if err != nil {
		t.Fatalf("new verifier failed: %v", err)
	}
	token, err := other.Issue("admin-1", nil, time.Hour)
	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}
	if _, err := newVerifier(t).Verify(token); err == nil {
		t.Fatal("expected error for wrong signature")
	}
}

func TestVerifier_RejectsNoneAlgorithm(t *testing.T) {
	unsigned := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{
		"sub": "admin-1",
		"iss": testIssuer,
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	token, err := unsigned.SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("sign failed: %v", err)
	}
	if _, err := newVerifier(t).Verify(token); err == nil {
		t.Fatal("expected error for alg=none token")
	}
}

func TestVerifier_RequiresExpiry(t *testing.T) {
	eternal := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "admin-1",
		"iss": testIssuer,
	})
	token, err := eternal.SignedString(testSecret)
	if err != nil {
		t.Fatalf("sign failed: %v", err)
	}
	if _, err := newVerifier(t).Verify(token); err == nil {
		t.Fatal("expected error for token without exp")
	}
}

func TestIdentity(t *testing.T) {
	ctx := context.Background()

	if got := (StaticIdentity("seed")).ActorID(ctx); got != "seed" {
		t.Fatalf("static actor = %q", got)
	}

	var ident ContextIdentity
	if got := ident.ActorID(ctx); got != "" {
		t.Fatalf("expected anonymous without claims, got %q", got)
	}
	withClaims := WithClaims(ctx, &Claims{Subject: "admin-1"})
	if got := ident.ActorID(withClaims); got != "admin-1" {
		t.Fatalf("actor = %q", got)
	}
}
