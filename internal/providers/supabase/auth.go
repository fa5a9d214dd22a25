// Package supabase talks to the GoTrue auth API of a Supabase project.
package supabase

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"tailorpreview/internal/domain"
)

// ErrInvalidCredentials is returned when GoTrue rejects a password grant.
var ErrInvalidCredentials = errors.New("supabase: invalid login credentials")

type Options struct {
	BaseURL    string
	AnonKey    string
	HTTPClient *http.Client
}

// AuthClient signs users in and out with email and password.
type AuthClient struct {
	baseURL    string
	anonKey    string
	httpClient *http.Client
}

type passwordGrantRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type tokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
	ExpiresAt    int64  `json:"expires_at"`
	User         struct {
		ID    string `json:"id"`
		Email string `json:"email"`
	} `json:"user"`
}

// GoTrue has used several error shapes across versions.
type errorResponse struct {
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description"`
	ErrorCode        string `json:"error_code"`
	Msg              string `json:"msg"`
	Message          string `json:"message"`
}

func (e errorResponse) text() string {
	for _, v := range []string{e.ErrorDescription, e.Msg, e.Message, e.Error, e.ErrorCode} {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

func NewAuthClient(opts Options) (*AuthClient, error) {
	baseURL := strings.TrimRight(strings.TrimSpace(opts.BaseURL), "/")
	if baseURL == "" {
		return nil, errors.New("supabase: base url is required")
	}
	if _, err := url.Parse(baseURL); err != nil {
		return nil, fmt.Errorf("supabase: invalid base url: %w", err)
	}
	client := opts.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	return &AuthClient{baseURL: baseURL, anonKey: opts.AnonKey, httpClient: client}, nil
}

// SignInWithPassword exchanges credentials for a session.
func (c *AuthClient) SignInWithPassword(ctx context.Context, email, password string) (domain.Session, error) {
	body, err := json.Marshal(passwordGrantRequest{Email: strings.TrimSpace(email), Password: password})
	if err != nil {
		return domain.Session{}, fmt.Errorf("marshal request: %w", err)
	}
	req, err := c.newRequest(ctx, "/auth/v1/token?grant_type=password", body)
	if err != nil {
		return domain.Session{}, err
	}

	var tok tokenResponse
	if err := c.do(req, &tok); err != nil {
		return domain.Session{}, err
	}
	if tok.AccessToken == "" {
		return domain.Session{}, errors.New("supabase: token response without access_token")
	}

	expires := time.Unix(tok.ExpiresAt, 0).UTC()
	if tok.ExpiresAt == 0 && tok.ExpiresIn > 0 {
		expires = time.Now().Add(time.Duration(tok.ExpiresIn) * time.Second).UTC()
	}
	return domain.Session{
		Token:        tok.AccessToken,
		RefreshToken: tok.RefreshToken,
		Identity: domain.Identity{
			UserID:    tok.User.ID,
			Email:     tok.User.Email,
			ExpiresAt: expires,
		},
	}, nil
}

// SignOut revokes the session behind token.
func (c *AuthClient) SignOut(ctx context.Context, token string) error {
	req, err := c.newRequest(ctx, "/auth/v1/logout", nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	return c.do(req, nil)
}

func (c *AuthClient) newRequest(ctx context.Context, path string, body []byte) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.anonKey != "" {
		req.Header.Set("apikey", c.anonKey)
	}
	return req, nil
}

func (c *AuthClient) do(req *http.Request, out any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("supabase auth: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		data, _ := io.ReadAll(resp.Body)
		var apiErr errorResponse
		_ = json.Unmarshal(data, &apiErr)
		msg := apiErr.text()
		if msg == "" {
			msg = strings.TrimSpace(string(data))
		}
		if apiErr.Error == "invalid_grant" || apiErr.ErrorCode == "invalid_credentials" {
			return fmt.Errorf("%w: %s", ErrInvalidCredentials, msg)
		}
		return fmt.Errorf("supabase auth status %d: %s", resp.StatusCode, msg)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode supabase response: %w", err)
	}
	return nil
}
