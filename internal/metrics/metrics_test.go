package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func scrape(t *testing.T, m *Metrics) string {
	t.Helper()
	srv := httptest.NewServer(m.Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	if err != nil {
		t.Fatalf("scrape failed: %v", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}
	return string(body)
}

func TestMetrics_Exposition(t *testing.T) {
	m := New()
	m.ObserveAnswer("app_ranking", "quick", 5*time.Millisecond)
	m.ObserveAnswer("app_ranking", "quick", 7*time.Millisecond)
	m.BackendError("generation")
	m.SetIndexDocuments(42)
	m.IndexBuilt()

	body := scrape(t, m)

	want := []string{
		`focusask_questions_total{intent="app_ranking",path="quick"} 2`,
		`focusask_answer_duration_seconds_count{path="quick"} 2`,
		`focusask_backend_errors_total{backend="generation"} 1`,
		`focusask_index_documents 42`,
		`focusask_index_builds_total 1`,
	}
	for _, w := range want {
		if !strings.Contains(body, w) {
			t.Errorf("Expected %q in exposition", w)
		}
	}
}

func TestMetrics_SeparateRegistries(t *testing.T) {
	a, b := New(), New()
	a.SetIndexDocuments(3)

	if !strings.Contains(scrape(t, b), "focusask_index_documents 0") {
		t.Error("Expected registries to be independent")
	}
}

func TestMetrics_NilSafe(t *testing.T) {
	var m *Metrics
	m.ObserveAnswer("general", "retrieval", time.Second)
	m.BackendError("embedding")
	m.SetIndexDocuments(1)
	m.IndexBuilt()

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("Expected 404 from nil metrics, got %d", rec.Code)
	}
}
