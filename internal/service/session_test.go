package service_test

import (
	"errors"
	"testing"
	"time"

	"github.com/DerDob/kleiderkammer/internal/domain"
	"github.com/DerDob/kleiderkammer/internal/service"
)

const testSessionSecret = "test-secret-for-session-service-tests"

func TestSession_IssueAndValidate(t *testing.T) {
	sessions := service.NewSessionService(testSessionSecret, time.Hour)

	user := &domain.User{
		Name:   "Ada Lovelace",
		Email:  "ada@x.com",
		Groups: []string{"staff", "kleiderkammer-admin"},
	}

	token, err := sessions.Issue(user)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	got, err := sessions.Validate(token)
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if got.Email != user.Email {
		t.Fatalf("expected email %q, got %q", user.Email, got.Email)
	}
	if got.Name != user.Name {
		t.Fatalf("expected name %q, got %q", user.Name, got.Name)
	}
	if len(got.Groups) != 2 || got.Groups[0] != "staff" || got.Groups[1] != "kleiderkammer-admin" {
		t.Fatalf("expected groups to round-trip, got %v", got.Groups)
	}
}

func TestSession_ValidateGarbage(t *testing.T) {
	sessions := service.NewSessionService(testSessionSecret, time.Hour)

	_, err := sessions.Validate("not-a-jwt")
	if !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}

func TestSession_ValidateWrongSecret(t *testing.T) {
	sessions := service.NewSessionService(testSessionSecret, time.Hour)
	other := service.NewSessionService("a-completely-different-secret-value", time.Hour)

	token, err := other.Issue(&domain.User{Email: "ada@x.com"})
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	_, err = sessions.Validate(token)
	if !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized for foreign signature, got %v", err)
	}
}

func TestSession_ValidateExpired(t *testing.T) {
	sessions := service.NewSessionService(testSessionSecret, -time.Minute)

	token, err := sessions.Issue(&domain.User{Email: "ada@x.com"})
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	_, err = sessions.Validate(token)
	if !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized for expired token, got %v", err)
	}
}
