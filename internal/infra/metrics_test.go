package infra

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestMetricsNilReceiverIsSafe(t *testing.T) {
	var m *Metrics
	m.ObserveHTTP("GET", "/v1/healthz", 200, time.Millisecond)
	m.ObserveSQL("exec", time.Now())
	m.RecordJob("COMPLETED")
	m.ObserveGeneration("gemini-2.5-flash-image", nil, time.Now())
	m.RoleFallback()
	if m.Registry() != nil {
		t.Fatal("expected nil registry")
	}
}

func TestMetricsHandlerExposesCollectors(t *testing.T) {
	m := NewMetrics()
	m.ObserveHTTP("GET", "/v1/healthz", 200, time.Millisecond)
	m.RecordJob("FAILED")
	m.ObserveGeneration("gemini-2.5-flash-image", errors.New("boom"), time.Now())
	m.RoleFallback()

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	body := rec.Body.String()
	for _, want := range []string{
		"tailorpreview_http_requests_total",
		`tailorpreview_jobs_finished_total{status="FAILED"} 1`,
		`tailorpreview_imagegen_calls_total{model="gemini-2.5-flash-image",outcome="error"} 1`,
		"tailorpreview_session_role_fallbacks_total 1",
	} {
		if !strings.Contains(body, want) {
			t.Fatalf("metrics output missing %q", want)
		}
	}
}
