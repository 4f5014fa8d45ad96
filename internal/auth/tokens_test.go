package auth

import (
	"strings"
	"testing"
	"time"
)

func TestIssuePairAndValidate(t *testing.T) {
	iss, err := NewIssuer("test-secret")
	if err != nil {
		t.Fatalf("NewIssuer: %v", err)
	}

	pair, err := iss.IssuePair("a@x.com")
	if err != nil {
		t.Fatalf("IssuePair: %v", err)
	}
	if pair.AccessToken == "" || pair.RefreshToken == "" {
		t.Fatalf("expected both tokens, got %+v", pair)
	}
	if pair.AccessToken == pair.RefreshToken {
		t.Fatalf("access and refresh tokens must differ")
	}

	access, err := iss.Validate(pair.AccessToken, TokenKindAccess)
	if err != nil {
		t.Fatalf("validate access: %v", err)
	}
	if access.Subject != "a@x.com" {
		t.Fatalf("unexpected subject: %s", access.Subject)
	}
	if access.ID == "" {
		t.Fatalf("expected jti on access token")
	}

	refresh, err := iss.Validate(pair.RefreshToken, TokenKindRefresh)
	if err != nil {
		t.Fatalf("validate refresh: %v", err)
	}
	if refresh.ID == access.ID {
		t.Fatalf("access and refresh tokens must carry distinct jtis")
	}
}

func TestValidateRejectsKindMismatch(t *testing.T) {
	iss, err := NewIssuer("test-secret")
	if err != nil {
		t.Fatalf("NewIssuer: %v", err)
	}
	pair, err := iss.IssuePair("a@x.com")
	if err != nil {
		t.Fatalf("IssuePair: %v", err)
	}
	if _, err := iss.Validate(pair.RefreshToken, TokenKindAccess); err == nil {
		t.Fatalf("expected refresh token to fail access validation")
	}
	if _, err := iss.Validate(pair.AccessToken, TokenKindRefresh); err == nil {
		t.Fatalf("expected access token to fail refresh validation")
	}
}

func TestValidateRejectsExpiredToken(t *testing.T) {
	current := time.Now().UTC()
	iss, err := NewIssuer("test-secret", WithClock(func() time.Time { return current }))
	if err != nil {
		t.Fatalf("NewIssuer: %v", err)
	}
	pair, err := iss.IssuePair("a@x.com")
	if err != nil {
		t.Fatalf("IssuePair: %v", err)
	}

	// Access token expires after one hour, refresh after a day.
	current = current.Add(2 * time.Hour)
	if _, err := iss.Validate(pair.AccessToken, TokenKindAccess); err == nil {
		t.Fatalf("expected expired access token to be rejected")
	}
	if _, err := iss.Validate(pair.RefreshToken, TokenKindRefresh); err != nil {
		t.Fatalf("refresh token should still be valid after 2h: %v", err)
	}

	current = current.Add(23 * time.Hour)
	if _, err := iss.Validate(pair.RefreshToken, TokenKindRefresh); err == nil {
		t.Fatalf("expected expired refresh token to be rejected")
	}
}

func TestValidateRejectsTamperedSignature(t *testing.T) {
	iss, err := NewIssuer("test-secret")
	if err != nil {
		t.Fatalf("NewIssuer: %v", err)
	}
	pair, err := iss.IssuePair("a@x.com")
	if err != nil {
		t.Fatalf("IssuePair: %v", err)
	}

	other, err := NewIssuer("other-secret")
	if err != nil {
		t.Fatalf("NewIssuer: %v", err)
	}
	if _, err := other.Validate(pair.AccessToken, TokenKindAccess); err == nil {
		t.Fatalf("expected token signed with another secret to be rejected")
	}

	parts := strings.Split(pair.AccessToken, ".")
	tampered := parts[0] + "." + parts[1] + "." + strings.Repeat("A", len(parts[2]))
	if _, err := iss.Validate(tampered, TokenKindAccess); err == nil {
		t.Fatalf("expected tampered signature to be rejected")
	}
}

func TestIssuerTTLOptions(t *testing.T) {
	current := time.Now().UTC()
	iss, err := NewIssuer("test-secret",
		WithClock(func() time.Time { return current }),
		WithAccessTTL(time.Minute),
		WithRefreshTTL(10*time.Minute),
	)
	if err != nil {
		t.Fatalf("NewIssuer: %v", err)
	}
	pair, err := iss.IssuePair("a@x.com")
	if err != nil {
		t.Fatalf("IssuePair: %v", err)
	}
	if got := pair.AccessExpiresAt.Sub(current); got != time.Minute {
		t.Fatalf("unexpected access expiry delta: %v", got)
	}
	if got := pair.RefreshExpiresAt.Sub(current); got != 10*time.Minute {
		t.Fatalf("unexpected refresh expiry delta: %v", got)
	}
}
