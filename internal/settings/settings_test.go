package settings

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"

	"tailorpreview/internal/domain"
)

func TestServicePromptLifecycle(t *testing.T) {
	svc := NewService(NewMemoryBackend(), "default prompt")
	ctx := context.Background()

	p, err := svc.Prompt(ctx, "u1")
	if err != nil || p.Prompt != "default prompt" || p.Custom {
		t.Fatalf("Prompt() = %+v, %v", p, err)
	}

	if _, err := svc.SetPrompt(ctx, "u1", "  shop prompt "); err != nil {
		t.Fatalf("SetPrompt() error: %v", err)
	}
	p, _ = svc.Prompt(ctx, "u1")
	if p.Prompt != "shop prompt" || !p.Custom {
		t.Fatalf("Prompt() after set = %+v", p)
	}
	if other := svc.SystemPrompt(ctx, "u2"); other != "default prompt" {
		t.Fatalf("override leaked to another user: %q", other)
	}

	reset, err := svc.ResetPrompt(ctx, "u1")
	if err != nil || reset.Custom || reset.Prompt != "default prompt" {
		t.Fatalf("ResetPrompt() = %+v, %v", reset, err)
	}
	if got := svc.SystemPrompt(ctx, "u1"); got != "default prompt" {
		t.Fatalf("SystemPrompt() after reset = %q", got)
	}
}

func TestServiceSetPromptValidation(t *testing.T) {
	svc := NewService(NewMemoryBackend(), "d")
	for _, prompt := range []string{"", "   ", strings.Repeat("x", maxPromptLength+1)} {
		if _, err := svc.SetPrompt(context.Background(), "u1", prompt); !errors.Is(err, domain.ErrValidation) {
			t.Fatalf("SetPrompt(len %d) error = %v, want ErrValidation", len(prompt), err)
		}
	}
}

type failingBackend struct{}

func (failingBackend) Get(context.Context, string) (string, bool, error) { return "", false, errors.New("down") }
func (failingBackend) Set(context.Context, string, string) error         { return errors.New("down") }
func (failingBackend) Delete(context.Context, string) error              { return errors.New("down") }

func TestServiceBackendFailures(t *testing.T) {
	svc := NewService(failingBackend{}, "d")
	ctx := context.Background()
	if _, err := svc.Prompt(ctx, "u1"); !errors.Is(err, domain.ErrPersistence) {
		t.Fatalf("Prompt() error = %v, want ErrPersistence", err)
	}
	if got := svc.SystemPrompt(ctx, "u1"); got != "d" {
		t.Fatalf("SystemPrompt() = %q, want default", got)
	}
	if _, err := svc.SetPrompt(ctx, "u1", "x"); !errors.Is(err, domain.ErrPersistence) {
		t.Fatalf("SetPrompt() error = %v, want ErrPersistence", err)
	}
	if _, err := svc.ResetPrompt(ctx, "u1"); !errors.Is(err, domain.ErrPersistence) {
		t.Fatalf("ResetPrompt() error = %v, want ErrPersistence", err)
	}
}

type stubRedis struct {
	values map[string]string
}

func (s *stubRedis) Get(ctx context.Context, key string) *redis.StringCmd {
	v, ok := s.values[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(v, nil)
}

func (s *stubRedis) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd {
	s.values[key] = value.(string)
	return redis.NewStatusResult("OK", nil)
}

func (s *stubRedis) Del(ctx context.Context, keys ...string) *redis.IntCmd {
	var n int64
	for _, k := range keys {
		if _, ok := s.values[k]; ok {
			delete(s.values, k)
			n++
		}
	}
	return redis.NewIntResult(n, nil)
}

func TestRedisBackend(t *testing.T) {
	stub := &stubRedis{values: map[string]string{}}
	backend := NewRedisBackend(stub)
	ctx := context.Background()

	if _, ok, err := backend.Get(ctx, "k"); ok || err != nil {
		t.Fatalf("Get(missing) = ok %v, err %v", ok, err)
	}
	if err := backend.Set(ctx, "k", "v"); err != nil {
		t.Fatalf("Set() error: %v", err)
	}
	if v, ok, err := backend.Get(ctx, "k"); !ok || err != nil || v != "v" {
		t.Fatalf("Get() = %q, %v, %v", v, ok, err)
	}
	if err := backend.Delete(ctx, "k"); err != nil {
		t.Fatalf("Delete() error: %v", err)
	}
	if _, ok := stub.values["k"]; ok {
		t.Fatal("expected key to be deleted")
	}
}

func TestServiceUsesNamespacedKeys(t *testing.T) {
	stub := &stubRedis{values: map[string]string{}}
	svc := NewService(NewRedisBackend(stub), "d")
	if _, err := svc.SetPrompt(context.Background(), "u1", "p"); err != nil {
		t.Fatalf("SetPrompt() error: %v", err)
	}
	if stub.values["tailor_vto_prompt:u1"] != "p" {
		t.Fatalf("stored values = %#v", stub.values)
	}
}
