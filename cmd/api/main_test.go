package main

import (
	"net/http/httptest"
	"testing"
)

func TestCheckOrigin(t *testing.T) {
	tests := []struct {
		allowed []string
		origin  string
		want    bool
	}{
		{allowed: []string{"http://localhost:5173"}, origin: "", want: true},
		{allowed: []string{"http://localhost:5173"}, origin: "http://localhost:5173", want: true},
		{allowed: []string{"http://localhost:5173"}, origin: "https://evil.test", want: false},
		{allowed: []string{"*"}, origin: "https://any.test", want: true},
	}
	for _, tc := range tests {
		r := httptest.NewRequest("GET", "/v1/jobs/state/ws", nil)
		if tc.origin != "" {
			r.Header.Set("Origin", tc.origin)
		}
		if got := checkOrigin(tc.allowed)(r); got != tc.want {
			t.Fatalf("checkOrigin(%v)(%q) = %v, want %v", tc.allowed, tc.origin, got, tc.want)
		}
	}
}
