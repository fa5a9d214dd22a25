// Package settings stores the per-user system prompt override.
package settings

import (
	"context"
	"fmt"
	"strings"

	"tailorpreview/internal/domain"
)

// PromptKey namespaces stored overrides.
const PromptKey = "tailor_vto_prompt"

const maxPromptLength = 8000

// Backend is a string key-value store. Get reports false for a missing key.
type Backend interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}

// Prompt is the effective prompt for a user.
type Prompt struct {
	Prompt string `json:"prompt"`
	Custom bool   `json:"custom"`
}

// Service resolves prompt overrides against a compiled-in default.
type Service struct {
	backend       Backend
	defaultPrompt string
}

func NewService(backend Backend, defaultPrompt string) *Service {
	return &Service{backend: backend, defaultPrompt: defaultPrompt}
}

func promptKey(userID string) string {
	return PromptKey + ":" + userID
}

// Prompt returns the user's override, or the default when none is stored.
func (s *Service) Prompt(ctx context.Context, userID string) (Prompt, error) {
	v, ok, err := s.backend.Get(ctx, promptKey(userID))
	if err != nil {
		return Prompt{}, fmt.Errorf("%w: read prompt: %v", domain.ErrPersistence, err)
	}
	if !ok || strings.TrimSpace(v) == "" {
		return Prompt{Prompt: s.defaultPrompt}, nil
	}
	return Prompt{Prompt: v, Custom: true}, nil
}

// SystemPrompt is Prompt without the error: failures fall back to the default.
func (s *Service) SystemPrompt(ctx context.Context, userID string) string {
	p, err := s.Prompt(ctx, userID)
	if err != nil {
		return s.defaultPrompt
	}
	return p.Prompt
}

// SetPrompt stores an override.
func (s *Service) SetPrompt(ctx context.Context, userID, prompt string) (Prompt, error) {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return Prompt{}, fmt.Errorf("%w: prompt must not be empty", domain.ErrValidation)
	}
	if len(prompt) > maxPromptLength {
		return Prompt{}, fmt.Errorf("%w: prompt exceeds %d characters", domain.ErrValidation, maxPromptLength)
	}
	if err := s.backend.Set(ctx, promptKey(userID), prompt); err != nil {
		return Prompt{}, fmt.Errorf("%w: write prompt: %v", domain.ErrPersistence, err)
	}
	return Prompt{Prompt: prompt, Custom: true}, nil
}

// ResetPrompt clears the override and returns the default.
func (s *Service) ResetPrompt(ctx context.Context, userID string) (Prompt, error) {
	if err := s.backend.Delete(ctx, promptKey(userID)); err != nil {
		return Prompt{}, fmt.Errorf("%w: reset prompt: %v", domain.ErrPersistence, err)
	}
	return Prompt{Prompt: s.defaultPrompt}, nil
}
