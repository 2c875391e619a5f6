package token

import (
	"testing"
	"time"

	"github.com/taskforge/backend/domain"
)

func newTestService() *Service {
	return NewService(Config{
		AccessSecret:  "access-secret",
		RefreshSecret: "refresh-secret",
		AccessTTL:     time.Minute,
		RefreshTTL:    time.Hour,
		Issuer:        "test",
	})
}

func TestIssueAndVerifyAccess(t *testing.T) {
	svc := newTestService()

	signed, err := svc.IssueAccess(Identity{UserID: "user-1", Email: "a@example.com"})
	if err != nil {
		t.Fatalf("issue access: %v", err)
	}

	id, err := svc.VerifyAccess(signed)
	if err != nil {
		t.Fatalf("verify access: %v", err)
	}
	if id.UserID != "user-1" || id.Email != "a@example.com" {
		t.Fatalf("unexpected identity %+v", id)
	}
}

func TestIssueAndVerifyRefresh(t *testing.T) {
	svc := newTestService()

	signed, err := svc.IssueRefresh(Identity{UserID: "user-2", Email: "b@example.com"})
	if err != nil {
		t.Fatalf("issue refresh: %v", err)
	}

	id, err := svc.VerifyRefresh(signed)
	if err != nil {
		t.Fatalf("verify refresh: %v", err)
	}
	if id.UserID != "user-2" {
		t.Fatalf("expected user-2, got %q", id.UserID)
	}
}

func TestIssueFailsWithoutSecret(t *testing.T) {
	svc := NewService(Config{RefreshSecret: "only-refresh"})

	if _, err := svc.IssueAccess(Identity{UserID: "u"}); !domain.IsDomainError(err, domain.ErrCodeConfig) {
		t.Fatalf("expected CONFIG error, got %v", err)
	}

	// The refresh pair is configured and keeps working independently.
	if _, err := svc.IssueRefresh(Identity{UserID: "u"}); err != nil {
		t.Fatalf("issue refresh: %v", err)
	}
}

func TestVerifyRejectsCrossClassTokens(t *testing.T) {
	svc := newTestService()

	refresh, err := svc.IssueRefresh(Identity{UserID: "u"})
	if err != nil {
		t.Fatalf("issue refresh: %v", err)
	}

	if _, err := svc.VerifyAccess(refresh); !domain.IsDomainError(err, domain.ErrCodeInvalidToken) {
		t.Fatalf("expected INVALID_TOKEN for refresh token on access path, got %v", err)
	}
}

func TestVerifyRejectsExpiredToken(t *testing.T) {
	// Bypass the constructor so the negative TTL is not replaced by a default.
	svc := &Service{cfg: Config{AccessSecret: "s", AccessTTL: -time.Minute}}

	signed, err := svc.IssueAccess(Identity{UserID: "u"})
	if err != nil {
		t.Fatalf("issue access: %v", err)
	}

	if _, err := svc.VerifyAccess(signed); !domain.IsDomainError(err, domain.ErrCodeInvalidToken) {
		t.Fatalf("expected INVALID_TOKEN for expired token, got %v", err)
	}
}

func TestVerifyRejectsMalformedToken(t *testing.T) {
	svc := newTestService()

	if _, err := svc.VerifyAccess("not-a-jwt"); !domain.IsDomainError(err, domain.ErrCodeInvalidToken) {
		t.Fatalf("expected INVALID_TOKEN for malformed token, got %v", err)
	}
}
