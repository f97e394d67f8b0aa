package token

import (
	"testing"
	"time"

	"bookmart/pkg/domain"
)

func TestIssueAndVerify(t *testing.T) {
	m, err := NewManager("test-secret", Options{})
	if err != nil {
		t.Fatalf("new manager: %v", err)
	}
	raw, err := m.Issue(domain.User{ID: "user-1", Email: "a@x.com"})
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	id, err := m.Verify(raw)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if id.UserID != "user-1" || id.Email != "a@x.com" {
		t.Fatalf("unexpected identity: %+v", id)
	}
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
	issuer, _ := NewManager("secret-a", Options{})
	verifier, _ := NewManager("secret-b", Options{})
	raw, err := issuer.Issue(domain.User{ID: "user-1", Email: "a@x.com"})
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if _, err := verifier.Verify(raw); err == nil {
		t.Fatalf("expected token signed with another secret to be rejected")
	}
}

func TestVerifyRejectsExpired(t *testing.T) {
	m, _ := NewManager("test-secret", Options{TTL: -time.Second})
	raw, err := m.Issue(domain.User{ID: "user-1", Email: "a@x.com"})
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if _, err := m.Verify(raw); err == nil {
		t.Fatalf("expected expired token to be rejected")
	}
}

func TestVerifyRejectsWrongAudience(t *testing.T) {
	issuer, _ := NewManager("test-secret", Options{Audience: "other-api"})
	verifier, _ := NewManager("test-secret", Options{})
	raw, err := issuer.Issue(domain.User{ID: "user-1", Email: "a@x.com"})
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if _, err := verifier.Verify(raw); err == nil {
		t.Fatalf("expected token with wrong audience to be rejected")
	}
}

func TestVerifyRejectsGarbage(t *testing.T) {
	m, _ := NewManager("test-secret", Options{})
	for _, raw := range []string{"", "   ", "not.a.token"} {
		if _, err := m.Verify(raw); err == nil {
			t.Fatalf("expected %q to be rejected", raw)
		}
	}
}
