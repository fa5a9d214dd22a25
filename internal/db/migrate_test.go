package db

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"testing"
)

type recordingExecer struct {
	stmts  []string
	failAt int
}

func (r *recordingExecer) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	r.stmts = append(r.stmts, query)
	if r.failAt > 0 && len(r.stmts) == r.failAt {
		return nil, errors.New("syntax error")
	}
	return nil, nil
}

func TestStatements(t *testing.T) {
	stmts := Statements()
	if len(stmts) < 5 {
		t.Fatalf("Statements() returned %d statements", len(stmts))
	}
	tables := map[string]bool{}
	for _, s := range stmts {
		if strings.HasPrefix(s, "--") || !strings.HasSuffix(s, ";") {
			t.Fatalf("unexpected statement %q", s)
		}
		for _, table := range []string{"profiles", "catalog", "customers", "gallery", "integration_tokens"} {
			if strings.HasPrefix(s, "create table if not exists "+table+" ") {
				tables[table] = true
			}
		}
	}
	if len(tables) != 5 {
		t.Fatalf("missing tables, found %v", tables)
	}
}

func TestMigrate(t *testing.T) {
	rec := &recordingExecer{}
	if err := Migrate(context.Background(), rec); err != nil {
		t.Fatalf("Migrate() error: %v", err)
	}
	if len(rec.stmts) != len(Statements()) {
		t.Fatalf("Migrate() ran %d statements", len(rec.stmts))
	}

	failing := &recordingExecer{failAt: 2}
	err := Migrate(context.Background(), failing)
	if err == nil || !strings.Contains(err.Error(), "statement 2") {
		t.Fatalf("Migrate() error = %v, want failure at statement 2", err)
	}
}
