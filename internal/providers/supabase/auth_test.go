package supabase

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func newTestAuth(t *testing.T, handler http.HandlerFunc) *AuthClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	c, err := NewAuthClient(Options{BaseURL: srv.URL, AnonKey: "anon", HTTPClient: srv.Client()})
	if err != nil {
		t.Fatalf("NewAuthClient() error: %v", err)
	}
	return c
}

func TestSignInWithPassword(t *testing.T) {
	c := newTestAuth(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/auth/v1/token" || r.URL.Query().Get("grant_type") != "password" {
			t.Errorf("unexpected url %s", r.URL)
		}
		if r.Header.Get("apikey") != "anon" {
			t.Errorf("missing apikey header")
		}
		var body passwordGrantRequest
		_ = json.NewDecoder(r.Body).Decode(&body)
		if body.Email != "shop@example.com" || body.Password != "secret" {
			t.Errorf("unexpected body %+v", body)
		}
		_, _ = w.Write([]byte(`{"access_token":"tok","refresh_token":"ref","expires_at":1900000000,"user":{"id":"u1","email":"shop@example.com"}}`))
	})

	sess, err := c.SignInWithPassword(context.Background(), " shop@example.com ", "secret")
	if err != nil {
		t.Fatalf("SignInWithPassword() error: %v", err)
	}
	if sess.Token != "tok" || sess.RefreshToken != "ref" || sess.Identity.UserID != "u1" {
		t.Fatalf("unexpected session %+v", sess)
	}
	if sess.Identity.ExpiresAt.Unix() != 1900000000 {
		t.Fatalf("ExpiresAt = %v", sess.Identity.ExpiresAt)
	}
}

func TestSignInWithPasswordErrors(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		body      string
		wantErr   string
		wantCreds bool
	}{
		{name: "invalid grant", status: 400, body: `{"error":"invalid_grant","error_description":"Invalid login credentials"}`, wantErr: "Invalid login credentials", wantCreds: true},
		{name: "error code", status: 400, body: `{"code":400,"error_code":"invalid_credentials","msg":"Invalid login credentials"}`, wantCreds: true},
		{name: "server error", status: 500, body: `boom`, wantErr: "status 500: boom"},
		{name: "missing token", status: 200, body: `{"user":{"id":"u1"}}`, wantErr: "without access_token"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			c := newTestAuth(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				_, _ = w.Write([]byte(tc.body))
			})
			_, err := c.SignInWithPassword(context.Background(), "a@b.c", "x")
			if err == nil {
				t.Fatal("expected error")
			}
			if tc.wantCreds != errors.Is(err, ErrInvalidCredentials) {
				t.Fatalf("errors.Is(ErrInvalidCredentials) = %v for %v", !tc.wantCreds, err)
			}
			if tc.wantErr != "" && !strings.Contains(err.Error(), tc.wantErr) {
				t.Fatalf("error = %v, want containing %q", err, tc.wantErr)
			}
		})
	}
}

func TestSignOut(t *testing.T) {
	called := false
	c := newTestAuth(t, func(w http.ResponseWriter, r *http.Request) {
		called = true
		if r.URL.Path != "/auth/v1/logout" || r.Header.Get("Authorization") != "Bearer tok" {
			t.Errorf("unexpected request %s %q", r.URL.Path, r.Header.Get("Authorization"))
		}
		w.WriteHeader(http.StatusNoContent)
	})
	if err := c.SignOut(context.Background(), "tok"); err != nil {
		t.Fatalf("SignOut() error: %v", err)
	}
	if !called {
		t.Fatal("logout endpoint not called")
	}
}

func TestNewAuthClientRequiresBaseURL(t *testing.T) {
	if _, err := NewAuthClient(Options{}); err == nil {
		t.Fatal("expected error without base url")
	}
}
