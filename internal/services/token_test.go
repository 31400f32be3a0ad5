package services

import (
	"testing"
	"time"

	"github.com/yungbote/interviewday-backend/internal/logger"
)

func testTokenService(t *testing.T) *tokenService {
	t.Helper()
	log, err := logger.New("development")
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	return &tokenService{
		log:       log,
		apiKey:    "test-key",
		secretKey: "test-secret",
		ttl:       time.Hour,
	}
}

func TestTokenIssueAndVerify(t *testing.T) {
	ts := testTokenService(t)
	token, expiresAt, err := ts.Issue("test-key")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if token == "" {
		t.Fatal("empty token")
	}
	if remaining := time.Until(expiresAt); remaining < 59*time.Minute {
		t.Errorf("expiry too near: %v", remaining)
	}
	claims, err := ts.Verify(token)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if claims.Subject != "scheduler" {
		t.Errorf("subject = %q", claims.Subject)
	}
}

func TestTokenIssueRejectsWrongKey(t *testing.T) {
	ts := testTokenService(t)
	if _, _, err := ts.Issue("wrong"); err == nil {
		t.Fatal("expected error for wrong api key")
	}
}

func TestTokenVerifyRejectsGarbage(t *testing.T) {
	ts := testTokenService(t)
	if _, err := ts.Verify("not.a.token"); err == nil {
		t.Fatal("expected error for malformed token")
	}
	if _, err := ts.Verify(""); err == nil {
		t.Fatal("expected error for empty token")
	}
}

func TestTokenVerifyRejectsExpired(t *testing.T) {
	ts := testTokenService(t)
	ts.ttl = -time.Minute
	token, _, err := ts.Issue("test-key")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if _, err := ts.Verify(token); err == nil {
		t.Fatal("expected error for expired token")
	}
}
