package credentials

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// fakeSQL holds one token per provider and records the last write.
type fakeSQL struct {
	tokens   map[string]string
	readErr  error
	writeErr error
	lastArgs []any
}

func (f *fakeSQL) Exec(_ context.Context, _ string, args ...any) (pgconn.CommandTag, error) {
	f.lastArgs = args
	if f.writeErr != nil {
		return pgconn.CommandTag{}, f.writeErr
	}
	if f.tokens == nil {
		f.tokens = map[string]string{}
	}
	f.tokens[args[0].(string)] = args[1].(string)
	return pgconn.NewCommandTag("INSERT 0 1"), nil
}

func (f *fakeSQL) QueryRow(_ context.Context, _ string, args ...any) pgx.Row {
	return tokenRow{f: f, provider: args[0].(string)}
}

func (f *fakeSQL) Query(context.Context, string, ...any) (pgx.Rows, error) {
	return nil, errors.New("unused")
}

type tokenRow struct {
	f        *fakeSQL
	provider string
}

func (r tokenRow) Scan(dest ...any) error {
	if r.f.readErr != nil {
		return r.f.readErr
	}
	token, ok := r.f.tokens[r.provider]
	if !ok {
		return pgx.ErrNoRows
	}
	*dest[0].(*string) = token
	return nil
}

func TestToken(t *testing.T) {
	tests := []struct {
		name    string
		db      *fakeSQL
		want    string
		wantErr bool
	}{
		{"stored", &fakeSQL{tokens: map[string]string{ProviderGemini: " abc123 "}}, "abc123", false},
		{"missing row", &fakeSQL{}, "", false},
		{"db failure", &fakeSQL{readErr: errors.New("conn reset")}, "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NewStore(tt.db).GeminiAPIKey(context.Background())
			if (err != nil) != tt.wantErr {
				t.Fatalf("GeminiAPIKey() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Fatalf("GeminiAPIKey() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSetGeminiAPIKey(t *testing.T) {
	db := &fakeSQL{}
	store := NewStore(db)
	if err := store.SetGeminiAPIKey(context.Background(), " secret "); err != nil {
		t.Fatalf("SetGeminiAPIKey() error: %v", err)
	}
	if len(db.lastArgs) != 3 || db.lastArgs[1] != "secret" {
		t.Fatalf("upsert args = %v", db.lastArgs)
	}
	var props map[string]string
	if err := json.Unmarshal(db.lastArgs[2].([]byte), &props); err != nil || props["source"] != "tailorctl" {
		t.Fatalf("properties = %s (%v)", db.lastArgs[2], err)
	}
	if got, _ := store.GeminiAPIKey(context.Background()); got != "secret" {
		t.Fatalf("round trip = %q", got)
	}
}

func TestSetRejectsEmptyToken(t *testing.T) {
	db := &fakeSQL{}
	if err := NewStore(db).SetGeminiAPIKey(context.Background(), "  "); !errors.Is(err, ErrEmptyToken) {
		t.Fatalf("SetGeminiAPIKey() error = %v, want ErrEmptyToken", err)
	}
	if db.lastArgs != nil {
		t.Fatal("empty token must not reach the database")
	}
}

func TestSetWrapsWriteError(t *testing.T) {
	db := &fakeSQL{writeErr: errors.New("read only")}
	err := NewStore(db).Set(context.Background(), "other", "tok", "")
	if err == nil || !strings.Contains(err.Error(), "save other") {
		t.Fatalf("Set() error = %v", err)
	}
}

func TestResolveGeminiKey(t *testing.T) {
	stored := NewStore(&fakeSQL{tokens: map[string]string{ProviderGemini: "stored"}})
	tests := []struct {
		name       string
		store      *Store
		configured string
		want       string
	}{
		{"configured wins", stored, " env-key ", "env-key"},
		{"falls back to stored", stored, "", "stored"},
		{"nil store", nil, "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.store.ResolveGeminiKey(context.Background(), tt.configured)
			if err != nil || got != tt.want {
				t.Fatalf("ResolveGeminiKey() = %q, %v; want %q", got, err, tt.want)
			}
		})
	}
}
