// Package credentials persists provider API keys so operators can rotate
// them with tailorctl instead of redeploying.
package credentials

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"tailorpreview/internal/infra"
	"tailorpreview/internal/sqlinline"
)

const ProviderGemini = "gemini"

var ErrEmptyToken = errors.New("credentials: token is required")

type Store struct {
	sql infra.SQLExecutor
}

func NewStore(sql infra.SQLExecutor) *Store {
	return &Store{sql: sql}
}

// Token returns the key saved for provider. A missing row is not an error.
func (s *Store) Token(ctx context.Context, provider string) (string, error) {
	var token string
	err := s.sql.QueryRow(ctx, sqlinline.QSelectIntegrationToken, provider).Scan(&token)
	switch {
	case infra.IsNoRows(err):
		return "", nil
	case err != nil:
		return "", fmt.Errorf("credentials: load %s: %w", provider, err)
	}
	return strings.TrimSpace(token), nil
}

// Set stores token for provider and records who wrote it.
func (s *Store) Set(ctx context.Context, provider, token, source string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return ErrEmptyToken
	}
	props, err := json.Marshal(struct {
		Source string `json:"source,omitempty"`
	}{source})
	if err != nil {
		return err
	}
	if _, err := s.sql.Exec(ctx, sqlinline.QUpsertIntegrationToken, provider, token, props); err != nil {
		return fmt.Errorf("credentials: save %s: %w", provider, err)
	}
	return nil
}

func (s *Store) GeminiAPIKey(ctx context.Context) (string, error) {
	return s.Token(ctx, ProviderGemini)
}

func (s *Store) SetGeminiAPIKey(ctx context.Context, key string) error {
	return s.Set(ctx, ProviderGemini, key, "tailorctl")
}

// ResolveGeminiKey returns configured when set, else the stored key.
func (s *Store) ResolveGeminiKey(ctx context.Context, configured string) (string, error) {
	if key := strings.TrimSpace(configured); key != "" {
		return key, nil
	}
	if s == nil {
		return "", nil
	}
	return s.GeminiAPIKey(ctx)
}
