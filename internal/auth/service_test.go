package auth

import (
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func newAuthServiceForTests(t *testing.T) *Service {
	t.Helper()
	repo, err := NewFileRepo(t.TempDir())
	if err != nil {
		t.Fatalf("new auth repo: %v", err)
	}
	return NewService(repo, log.New(io.Discard, "", 0), ServiceOptions{})
}

func TestService_VerifyOTP_TooManyAttempts(t *testing.T) {
	svc := newAuthServiceForTests(t)
	now := time.Date(2026, 2, 7, 9, 0, 0, 0, time.UTC)

	if _, _, err := svc.RequestOTP("tester@example.com", now); err != nil {
		t.Fatalf("request otp: %v", err)
	}

	for i := 0; i < svc.maxOTPAttempts-1; i++ {
		if _, _, _, err := svc.VerifyOTP("tester@example.com", "000000", now.Add(30*time.Second)); err != ErrInvalidOTP {
			t.Fatalf("attempt %d expected ErrInvalidOTP, got %v", i+1, err)
		}
	}

	if _, _, _, err := svc.VerifyOTP("tester@example.com", "000000", now.Add(45*time.Second)); err != ErrTooManyOTPAttempts {
		t.Fatalf("final attempt expected ErrTooManyOTPAttempts, got %v", err)
	}
}

func TestService_VerifyOTP_ProvisionsUserWithDefaultDisplayName(t *testing.T) {
	svc := newAuthServiceForTests(t)
	now := time.Date(2026, 2, 7, 9, 0, 0, 0, time.UTC)

	_, code, err := svc.RequestOTP("nadia@example.com", now)
	if err != nil {
		t.Fatalf("request otp: %v", err)
	}
	u, _, _, err := svc.VerifyOTP("nadia@example.com", code, now.Add(time.Minute))
	if err != nil {
		t.Fatalf("verify otp: %v", err)
	}
	if u.DisplayName != "nadia" {
		t.Fatalf("expected default display name from email, got %q", u.DisplayName)
	}
	if u.Role != "staff" {
		t.Fatalf("expected staff role, got %q", u.Role)
	}
}

func TestService_UpdateProfile(t *testing.T) {
	svc := newAuthServiceForTests(t)
	now := time.Date(2026, 2, 7, 9, 0, 0, 0, time.UTC)

	_, code, err := svc.RequestOTP("nadia@example.com", now)
	if err != nil {
		t.Fatalf("request otp: %v", err)
	}
	u, _, _, err := svc.VerifyOTP("nadia@example.com", code, now.Add(time.Minute))
	if err != nil {
		t.Fatalf("verify otp: %v", err)
	}

	updated, err := svc.UpdateProfile(u.ID, "  Nadia K  ")
	if err != nil {
		t.Fatalf("update profile: %v", err)
	}
	if updated.DisplayName != "Nadia K" {
		t.Fatalf("expected trimmed display name, got %q", updated.DisplayName)
	}
}

func TestService_AuthenticateRequest_ExpiredSessionIsRejected(t *testing.T) {
	svc := newAuthServiceForTests(t)
	now := time.Date(2026, 2, 7, 10, 0, 0, 0, time.UTC)

	_, code, err := svc.RequestOTP("expired@example.com", now)
	if err != nil {
		t.Fatalf("request otp: %v", err)
	}
	u, token, exp, err := svc.VerifyOTP("expired@example.com", code, now.Add(time.Minute))
	if err != nil {
		t.Fatalf("verify otp: %v", err)
	}
	if u.Email != "expired@example.com" {
		t.Fatalf("unexpected user: %+v", u)
	}

	req := httptest.NewRequest("GET", "/api/auth/session", nil)
	req.AddCookie(&http.Cookie{Name: svc.cookieName, Value: token})

	if _, _, ok := svc.AuthenticateRequest(req, exp.Add(time.Second)); ok {
		t.Fatalf("expected expired session to be rejected")
	}
	if _, ok := svc.repo.GetSessionByTokenHash(hashToken(token)); ok {
		t.Fatalf("expected expired session to be removed from repo")
	}
}

func TestService_OptionsOverrideDefaults(t *testing.T) {
	repo, err := NewFileRepo(t.TempDir())
	if err != nil {
		t.Fatalf("new auth repo: %v", err)
	}
	svc := NewService(repo, log.New(io.Discard, "", 0), ServiceOptions{
		OTPTTL:         5 * time.Minute,
		SessionTTL:     24 * time.Hour,
		MaxOTPAttempts: 3,
	})
	if svc.otpTTL != 5*time.Minute {
		t.Fatalf("expected 5m otp ttl, got %s", svc.otpTTL)
	}
	if svc.sessionTTL != 24*time.Hour {
		t.Fatalf("expected 24h session ttl, got %s", svc.sessionTTL)
	}
	if svc.maxOTPAttempts != 3 {
		t.Fatalf("expected 3 max otp attempts, got %d", svc.maxOTPAttempts)
	}
}
