package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestNew(t *testing.T) {
	m := New()

	if m == nil {
		t.Fatal("New returned nil")
	}
	if m.registry == nil {
		t.Error("registry is nil")
	}
	if m.ToolExecutionsTotal == nil {
		t.Error("ToolExecutionsTotal is nil")
	}
	if m.ToolExecutionDuration == nil {
		t.Error("ToolExecutionDuration is nil")
	}
	if m.ValidationFailuresTotal == nil {
		t.Error("ValidationFailuresTotal is nil")
	}
}

func TestMetrics_Endpoint(t *testing.T) {
	m := New()

	m.ObserveExecution("exec", "ok", 120*time.Millisecond)
	m.ObserveExecution("exec", "error", 5*time.Millisecond)
	m.ObserveValidationFailures("sample", 3)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status: %d", rec.Code)
	}

	body := rec.Body.String()
	for _, want := range []string{
		`saku_tool_executions_total{status="ok",tool="exec"} 1`,
		`saku_tool_executions_total{status="error",tool="exec"} 1`,
		`saku_validation_failures_total{tool="sample"} 3`,
		"saku_tool_execution_duration_seconds",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("metrics output missing %q", want)
		}
	}
}
