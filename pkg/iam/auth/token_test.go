package auth

import (
	"testing"
	"time"

	"github.com/thaihadefi/Innovation-Project-sub000/pkg/kernel"
)

func TestJWTServiceRoundTrip(t *testing.T) {
	svc := NewJWTService("test-secret", "board-test", time.Hour)

	original := &AuthContext{
		UserID:    kernel.NewUserID("user-1"),
		CompanyID: kernel.NewCompanyID("company-1"),
		Scopes:    CompanyScopes(),
	}

	token, err := svc.GenerateToken(original)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	got, err := svc.ValidateToken(token)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if got.UserID != original.UserID {
		t.Errorf("user id: got %s, want %s", got.UserID, original.UserID)
	}
	if got.CompanyID != original.CompanyID {
		t.Errorf("company id: got %s, want %s", got.CompanyID, original.CompanyID)
	}
	if !got.IsCompany() {
		t.Error("expected company context")
	}
	if !got.HasScope(ScopeApplicationsReview) {
		t.Error("expected review scope to survive the round trip")
	}
	if got.HasScope(ScopeDispatchRead) {
		t.Error("unexpected dispatch scope")
	}
}

func TestJWTServiceRejectsWrongSecret(t *testing.T) {
	minted := NewJWTService("secret-a", "board-test", time.Hour)
	verifier := NewJWTService("secret-b", "board-test", time.Hour)

	token, err := minted.GenerateToken(&AuthContext{
		UserID: kernel.NewUserID("user-1"),
		Scopes: ApplicantScopes(),
	})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	if _, err := verifier.ValidateToken(token); err == nil {
		t.Fatal("expected validation to fail with a different secret")
	}
}

func TestJWTServiceRejectsExpired(t *testing.T) {
	svc := NewJWTService("test-secret", "board-test", -time.Minute)

	token, err := svc.GenerateToken(&AuthContext{
		UserID: kernel.NewUserID("user-1"),
		Scopes: ApplicantScopes(),
	})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	if _, err := svc.ValidateToken(token); err == nil {
		t.Fatal("expected validation to fail on an expired token")
	}
}

func TestHasAnyScopeWildcard(t *testing.T) {
	authCtx := &AuthContext{Scopes: []Scope{ScopeAll}}

	if !authCtx.HasAnyScope(ScopeJobsWrite, ScopeApplicationsReview) {
		t.Error("wildcard scope should satisfy any requirement")
	}
}
