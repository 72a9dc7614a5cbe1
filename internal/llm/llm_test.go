package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/khanglvm/focus-ask/internal/config"
)

func TestOllamaGenerator_Generate(t *testing.T) {
	var got ollamaGenerateRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/generate" {
			t.Errorf("Expected /api/generate, got %s", r.URL.Path)
		}
		json.NewDecoder(r.Body).Decode(&got)
		w.Write([]byte(`{"response":"Answer: You used chrome most."}`))
	}))
	defer srv.Close()

	g := NewOllamaGenerator(WithBaseURL(srv.URL+"/"), WithModel("tiny"))
	out, err := g.Generate(context.Background(), "hello")
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if out != "Answer: You used chrome most." {
		t.Errorf("Unexpected output %q", out)
	}
	if got.Model != "tiny" || got.Stream {
		t.Errorf("Unexpected request %+v", got)
	}
	if got.Options["temperature"] != DefaultTemperature {
		t.Errorf("Expected temperature %v, got %v", DefaultTemperature, got.Options["temperature"])
	}
}

func TestOllamaGenerator_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not found", http.StatusNotFound)
	}))
	defer srv.Close()

	_, err := NewOllamaGenerator(WithBaseURL(srv.URL)).Generate(context.Background(), "x")
	if err == nil || !strings.Contains(err.Error(), "404") {
		t.Errorf("Expected 404 error, got %v", err)
	}
}

func TestOpenAIGenerator_Generate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer sk-test" {
			t.Errorf("Missing bearer token")
		}
		if r.URL.Path != "/chat/completions" {
			t.Errorf("Expected /chat/completions, got %s", r.URL.Path)
		}
		w.Write([]byte(`{"choices":[{"message":{"content":"About 7 minutes."}}]}`))
	}))
	defer srv.Close()

	g := NewOpenAIGenerator("sk-test", "", srv.URL+"/", 0.1, time.Second)
	out, err := g.Generate(context.Background(), "q")
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if out != "About 7 minutes." {
		t.Errorf("Unexpected output %q", out)
	}
}

func TestOpenAIGenerator_ZeroTemperature(t *testing.T) {
	var body map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&body)
		w.Write([]byte(`{"choices":[{"message":{"content":"ok"}}]}`))
	}))
	defer srv.Close()

	if _, err := NewOpenAIGenerator("k", "m", srv.URL, 0, time.Second).Generate(context.Background(), "q"); err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	temp, ok := body["temperature"].(float64)
	if !ok {
		t.Fatalf("Expected temperature in request, got %v", body)
	}
	if temp <= 0 || temp > 1e-6 {
		t.Errorf("Expected near-zero temperature, got %v", temp)
	}
	if body["model"] != "m" {
		t.Errorf("Expected model m, got %v", body["model"])
	}
}

func TestRequestTemperature(t *testing.T) {
	if got := requestTemperature(0.7); got != float32(0.7) {
		t.Errorf("Expected 0.7, got %v", got)
	}
	if got := requestTemperature(0); got <= 0 {
		t.Errorf("Expected positive temperature for zero, got %v", got)
	}
}

func TestOllamaGenerator_ZeroTemperature(t *testing.T) {
	var got ollamaGenerateRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&got)
		w.Write([]byte(`{"response":"ok"}`))
	}))
	defer srv.Close()

	g := NewOllamaGenerator(WithBaseURL(srv.URL), WithTemperature(0))
	if _, err := g.Generate(context.Background(), "q"); err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if got.Options["temperature"] != 0.0 {
		t.Errorf("Expected temperature 0, got %v", got.Options["temperature"])
	}
}

func TestOpenAIGenerator_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":{"message":"bad key"}}`))
	}))
	defer srv.Close()

	_, err := NewOpenAIGenerator("k", "m", srv.URL, 0, time.Second).Generate(context.Background(), "q")
	if err == nil || !strings.Contains(err.Error(), "bad key") {
		t.Errorf("Expected API error, got %v", err)
	}
}

func TestCommandGenerator(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("requires a POSIX shell")
	}

	g := NewCommandGenerator("cat", nil, nil, 5*time.Second)
	out, err := g.Generate(context.Background(), "echo me")
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if out != "echo me" {
		t.Errorf("Expected prompt echoed, got %q", out)
	}

	slow := NewCommandGenerator("sleep", []string{"5"}, nil, 50*time.Millisecond)
	if _, err := slow.Generate(context.Background(), ""); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Expected deadline exceeded, got %v", err)
	}
}

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		cfg     config.GenerationConfig
		wantErr bool
	}{
		{"default ollama", config.GenerationConfig{}, false},
		{"openai", config.GenerationConfig{Provider: "openai", APIKey: "k"}, false},
		{"openai missing key", config.GenerationConfig{Provider: "openai"}, true},
		{"command", config.GenerationConfig{Provider: "command", Command: "cat"}, false},
		{"command missing", config.GenerationConfig{Provider: "command"}, true},
		{"none", config.GenerationConfig{Provider: "none"}, false},
		{"unknown", config.GenerationConfig{Provider: "bard"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.cfg)
			if (err != nil) != tt.wantErr {
				t.Errorf("Expected error=%v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestDisabled(t *testing.T) {
	g, _ := New(config.GenerationConfig{Provider: ProviderNone})
	if _, err := g.Generate(context.Background(), "x"); !errors.Is(err, ErrDisabled) {
		t.Errorf("Expected ErrDisabled, got %v", err)
	}
}
