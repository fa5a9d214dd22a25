package main

import (
	"bytes"
	"testing"
	"time"

	"tailorpreview/internal/domain"
	"tailorpreview/internal/session"
)

func TestAuthEvents(t *testing.T) {
	events := authEvents([]string{"a", "b", "c"}, true)
	want := []session.EventType{session.EventSignedIn, session.EventTokenRefreshed, session.EventTokenRefreshed, session.EventSignedOut}
	if len(events) != len(want) {
		t.Fatalf("authEvents() = %+v", events)
	}
	for i, ev := range events {
		if ev.Type != want[i] {
			t.Fatalf("event %d = %s, want %s", i, ev.Type, want[i])
		}
	}
	if events[1].Token != "b" || events[3].Token != "" {
		t.Fatalf("tokens not carried: %+v", events)
	}
	if got := authEvents([]string{"a"}, false); len(got) != 1 || got[0].Type != session.EventSignedIn {
		t.Fatalf("single token = %+v", got)
	}
}

func TestPrintState(t *testing.T) {
	tests := []struct {
		name  string
		state session.State
		want  string
	}{
		{"signed out", session.Unauthenticated(), "unauthenticated surface=login\n"},
		{
			"admin",
			session.Authenticated(domain.Identity{UserID: "u1", ExpiresAt: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)}, domain.RoleAdmin),
			"authenticated surface=admin user=u1 role=admin expires=2026-01-02T03:04:05Z\n",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			printState(&buf, tt.state)
			if buf.String() != tt.want {
				t.Fatalf("printState() = %q, want %q", buf.String(), tt.want)
			}
		})
	}
}
