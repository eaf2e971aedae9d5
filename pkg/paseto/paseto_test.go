package pasetotoken

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

func newTestManager(t *testing.T) *Manager {
	t.Helper()

	mgr, err := New(Config{
		Mode:     ModeLocal,
		Issuer:   "agendaq",
		Audience: "agendaq-api",
	}, NewLocalKeys())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return mgr
}

func TestIssueAndVerifyAccess(t *testing.T) {
	mgr := newTestManager(t)
	userID := uuid.New()

	token, err := mgr.IssueAccess(userID, "clinic-7")
	if err != nil {
		t.Fatalf("IssueAccess() error = %v", err)
	}

	claims, err := mgr.Verify(token)
	if err != nil {
		t.Fatalf("Verify() error = %v", err)
	}
	if claims.Type != TokenTypeAccess {
		t.Errorf("type = %q, want access", claims.Type)
	}
	if claims.UserID != userID {
		t.Errorf("user id = %s, want %s", claims.UserID, userID)
	}
	if claims.TenantID != "clinic-7" {
		t.Errorf("tenant = %q, want clinic-7", claims.TenantID)
	}
	if claims.IsExpired() {
		t.Error("fresh token reported expired")
	}
}

func TestVerifyRejectsGarbage(t *testing.T) {
	mgr := newTestManager(t)

	tests := []struct {
		name  string
		token string
	}{
		{"empty", ""},
		{"not a token", "hello"},
		{"wrong version", "v2.local.abcdef"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := mgr.Verify(tt.token); err == nil {
				t.Fatal("Verify() accepted an invalid token")
			}
		})
	}
}

func TestVerifyRejectsForeignKey(t *testing.T) {
	mgr := newTestManager(t)
	other := newTestManager(t)

	token, err := other.IssueAccess(uuid.New(), "clinic-7")
	if err != nil {
		t.Fatalf("IssueAccess() error = %v", err)
	}

	if _, err := mgr.Verify(token); err == nil {
		t.Fatal("Verify() accepted a token issued under another key")
	}
}

func TestRefreshTokenType(t *testing.T) {
	mgr := newTestManager(t)

	token, err := mgr.IssueRefresh(uuid.New(), "clinic-7")
	if err != nil {
		t.Fatalf("IssueRefresh() error = %v", err)
	}

	claims, err := mgr.Verify(token)
	if err != nil {
		t.Fatalf("Verify() error = %v", err)
	}
	if claims.Type != TokenTypeRefresh {
		t.Errorf("type = %q, want refresh", claims.Type)
	}
	if claims.ExpiresAt.Before(time.Now().Add(24 * time.Hour)) {
		t.Errorf("refresh expiry too short: %s", claims.ExpiresAt)
	}
}

func TestTokenWithoutTenant(t *testing.T) {
	mgr := newTestManager(t)

	token, err := mgr.IssueAccess(uuid.New(), "")
	if err != nil {
		t.Fatalf("IssueAccess() error = %v", err)
	}

	claims, err := mgr.Verify(token)
	if err != nil {
		t.Fatalf("Verify() error = %v", err)
	}
	if claims.TenantID != "" {
		t.Errorf("tenant = %q, want empty", claims.TenantID)
	}
}

func TestPublicModeIssueAndVerify(t *testing.T) {
	mgr, err := New(Config{
		Mode:     ModePublic,
		Issuer:   "agendaq",
		Audience: "agendaq-api",
	}, NewPublicKeys())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	userID := uuid.New()
	token, err := mgr.IssueAccess(userID, "clinic-7")
	if err != nil {
		t.Fatalf("IssueAccess() error = %v", err)
	}

	claims, err := mgr.Verify(token)
	if err != nil {
		t.Fatalf("Verify() error = %v", err)
	}
	if claims.UserID != userID || claims.TenantID != "clinic-7" {
		t.Errorf("claims = %+v", claims)
	}
}

func TestExportHexRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		keys Keys
	}{
		{"local", NewLocalKeys()},
		{"public", NewPublicKeys()},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			loaded, err := LoadKeys(tt.keys.ExportHex())
			if err != nil {
				t.Fatalf("LoadKeys() error = %v", err)
			}

			issuer, err := New(Config{Mode: tt.keys.Mode, Issuer: "agendaq", Audience: "agendaq-api"}, tt.keys)
			if err != nil {
				t.Fatalf("New(issuer) error = %v", err)
			}
			verifier, err := New(Config{Mode: loaded.Mode, Issuer: "agendaq", Audience: "agendaq-api"}, loaded)
			if err != nil {
				t.Fatalf("New(verifier) error = %v", err)
			}

			token, err := issuer.IssueAccess(uuid.New(), "clinic-7")
			if err != nil {
				t.Fatalf("IssueAccess() error = %v", err)
			}
			if _, err := verifier.Verify(token); err != nil {
				t.Fatalf("Verify() error = %v", err)
			}
		})
	}
}
