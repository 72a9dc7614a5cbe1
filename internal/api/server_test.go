package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/khanglvm/focus-ask/internal/classify"
	"github.com/khanglvm/focus-ask/internal/engine"
	"github.com/khanglvm/focus-ask/internal/metrics"
)

type stubEngine struct {
	question   string
	rebuildErr error
}

func (s *stubEngine) Ask(ctx context.Context, question string) engine.Response {
	s.question = question
	return engine.Response{Answer: "You used chrome the most today.", Intent: classify.AppRanking, Path: "quick"}
}

func (s *stubEngine) Classify(question string) classify.Intent {
	return classify.Classify(question)
}

func (s *stubEngine) IndexStatus() engine.IndexStatus {
	return engine.IndexStatus{Documents: 3, Model: "hash-256", Granularities: map[string]int{"app_summary": 1}}
}

func (s *stubEngine) Rebuild(ctx context.Context) (int, error) {
	return 5, s.rebuildErr
}

func (s *stubEngine) Stats() engine.Stats {
	return engine.Stats{Records: 2, TotalSeconds: 420}
}

func do(t *testing.T, h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestAsk(t *testing.T) {
	eng := &stubEngine{}
	h := NewServer(eng, nil).Handler()

	rec := do(t, h, http.MethodPost, "/v1/ask", `{"question":"what app did I use most today?"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp["intent"] != "app_ranking" || resp["path"] != "quick" {
		t.Errorf("Unexpected response: %v", resp)
	}
	if eng.question != "what app did I use most today?" {
		t.Errorf("Expected question forwarded, got %q", eng.question)
	}
}

func TestAsk_MissingQuestion(t *testing.T) {
	h := NewServer(&stubEngine{}, nil).Handler()

	rec := do(t, h, http.MethodPost, "/v1/ask", `{}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected 400, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "question required") {
		t.Errorf("Expected error message, got %s", rec.Body.String())
	}
}

func TestIntent(t *testing.T) {
	h := NewServer(&stubEngine{}, nil).Handler()

	rec := do(t, h, http.MethodGet, "/v1/intent?q=week+usage", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"intent":"weekly_trend"`) {
		t.Errorf("Expected weekly_trend, got %s", rec.Body.String())
	}

	if rec := do(t, h, http.MethodGet, "/v1/intent", ""); rec.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 without q, got %d", rec.Code)
	}
}

func TestIndexAndStats(t *testing.T) {
	h := NewServer(&stubEngine{}, nil).Handler()

	rec := do(t, h, http.MethodGet, "/v1/index", "")
	if !strings.Contains(rec.Body.String(), `"documents":3`) {
		t.Errorf("Unexpected index status: %s", rec.Body.String())
	}

	rec = do(t, h, http.MethodGet, "/v1/stats", "")
	if !strings.Contains(rec.Body.String(), `"total_seconds":420`) {
		t.Errorf("Unexpected stats: %s", rec.Body.String())
	}
}

func TestRebuild(t *testing.T) {
	eng := &stubEngine{}
	h := NewServer(eng, nil).Handler()

	rec := do(t, h, http.MethodPost, "/v1/index/rebuild", "")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"documents":5`) {
		t.Errorf("Unexpected rebuild response %d: %s", rec.Code, rec.Body.String())
	}

	eng.rebuildErr = errors.New("embedding backend failed")
	rec = do(t, h, http.MethodPost, "/v1/index/rebuild", "")
	if rec.Code != http.StatusInternalServerError {
		t.Errorf("Expected 500, got %d", rec.Code)
	}
}

func TestHealthAndMetrics(t *testing.T) {
	m := metrics.New()
	m.SetIndexDocuments(3)
	h := NewServer(&stubEngine{}, m).Handler()

	if rec := do(t, h, http.MethodGet, "/healthz", ""); !strings.Contains(rec.Body.String(), `"status":"ok"`) {
		t.Errorf("Expected ok status, got %q", rec.Body.String())
	}

	rec := do(t, h, http.MethodGet, "/metrics", "")
	if !strings.Contains(rec.Body.String(), "focusask_index_documents 3") {
		t.Errorf("Expected metrics exposition, got %s", rec.Body.String())
	}
}
