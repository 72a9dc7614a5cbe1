package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const chromeLog = "app_name,duration,timestamp\nchrome,120,2024-01-01 10:00:00\nchrome,300,2024-01-01 10:05:00\n"

// setupWorkspace writes a usage log and a config pointing at it, with
// offline embedding and generation disabled.
func setupWorkspace(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()

	logPath := filepath.Join(dir, "usage_log.csv")
	if err := os.WriteFile(logPath, []byte(chromeLog), 0600); err != nil {
		t.Fatalf("failed to write log: %v", err)
	}

	cfg := map[string]any{
		"usage_log":  map[string]any{"path": logPath},
		"index":      map[string]any{"path": filepath.Join(dir, "data", "index.db")},
		"embedding":  map[string]any{"provider": "hash", "dimensions": 256},
		"generation": map[string]any{"provider": "none", "timeout_seconds": 5},
	}
	data, err := json.Marshal(cfg)
	if err != nil {
		t.Fatalf("failed to marshal config: %v", err)
	}

	cfgPath := filepath.Join(dir, "focus-ask.json")
	if err := os.WriteFile(cfgPath, data, 0600); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return cfgPath
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	cmd := NewRootCmd()
	cmd.SetArgs(args)

	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)

	err := cmd.Execute()
	return buf.String(), err
}

func TestNewRootCmd(t *testing.T) {
	cmd := NewRootCmd()
	if cmd.Use != "focus-ask" {
		t.Errorf("Expected Use='focus-ask', got %q", cmd.Use)
	}

	want := []string{"ask", "benchmark", "classify", "config", "history", "index", "serve", "serve-http", "stats", "version"}
	for _, name := range want {
		found := false
		for _, sub := range cmd.Commands() {
			if sub.Name() == name {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("Subcommand %q not registered", name)
		}
	}

	if cmd.PersistentFlags().Lookup("config") == nil {
		t.Error("Flag 'config' not registered")
	}
}

func TestAskCommand_QuickPath(t *testing.T) {
	cfgPath := setupWorkspace(t)

	out, err := execute(t, "--config", cfgPath, "ask", "--now", "2024-01-01 18:00", "what app did I use most today?")
	if err != nil {
		t.Fatalf("ask failed: %v", err)
	}
	if !strings.Contains(out, "You used chrome the most today, for about 7 minutes") {
		t.Errorf("Unexpected answer: %q", out)
	}
}

func TestAskCommand_JSON(t *testing.T) {
	cfgPath := setupWorkspace(t)

	out, err := execute(t, "--config", cfgPath, "ask", "--json", "--now", "2024-01-01 18:00", "what", "app", "did", "I", "use", "most", "today")
	if err != nil {
		t.Fatalf("ask failed: %v", err)
	}

	var resp struct {
		Answer string `json:"answer"`
		Intent string `json:"intent"`
		Path   string `json:"path"`
	}
	if err := json.Unmarshal([]byte(out), &resp); err != nil {
		t.Fatalf("Expected JSON output, got %q: %v", out, err)
	}
	if resp.Intent != "app_ranking" || resp.Path != "quick" {
		t.Errorf("Expected app_ranking/quick, got %s/%s", resp.Intent, resp.Path)
	}
}

func TestAskCommand_Errors(t *testing.T) {
	cfgPath := setupWorkspace(t)

	tests := []struct {
		name string
		args []string
	}{
		{"no question", []string{"--config", cfgPath, "ask"}},
		{"bad --now", []string{"--config", cfgPath, "ask", "--now", "yesterday", "hi"}},
		{"missing config", []string{"--config", filepath.Join(t.TempDir(), "nope.json"), "ask", "hi"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := execute(t, tt.args...); err == nil {
				t.Error("Expected error")
			}
		})
	}
}

func TestClassifyCommand(t *testing.T) {
	out, err := execute(t, "classify", "week", "usage")
	if err != nil {
		t.Fatalf("classify failed: %v", err)
	}
	if strings.TrimSpace(out) != "weekly_trend" {
		t.Errorf("Expected weekly_trend, got %q", out)
	}

	out, err = execute(t, "classify", "--list")
	if err != nil {
		t.Fatalf("classify --list failed: %v", err)
	}
	if lines := strings.Split(strings.TrimSpace(out), "\n"); len(lines) != 8 {
		t.Errorf("Expected 8 intents, got %d: %q", len(lines), out)
	}

	if _, err := execute(t, "classify"); err == nil {
		t.Error("Expected error without a question")
	}
}

func TestIndexCommands(t *testing.T) {
	cfgPath := setupWorkspace(t)

	out, err := execute(t, "--config", cfgPath, "index", "build")
	if err != nil {
		t.Fatalf("index build failed: %v", err)
	}
	if !strings.Contains(out, "Documents: 3") {
		t.Errorf("Expected 3 documents, got %q", out)
	}

	out, err = execute(t, "--config", cfgPath, "index", "status")
	if err != nil {
		t.Fatalf("index status failed: %v", err)
	}
	if !strings.Contains(out, "Documents: 3") || !strings.Contains(out, "hash-256") {
		t.Errorf("Unexpected status: %q", out)
	}

	out, err = execute(t, "--config", cfgPath, "index", "rebuild")
	if err != nil {
		t.Fatalf("index rebuild failed: %v", err)
	}
	if !strings.Contains(out, "Indexed 3 documents") {
		t.Errorf("Unexpected rebuild output: %q", out)
	}
}

func TestStatsCommand(t *testing.T) {
	cfgPath := setupWorkspace(t)

	out, err := execute(t, "--config", cfgPath, "stats")
	if err != nil {
		t.Fatalf("stats failed: %v", err)
	}
	for _, want := range []string{"Records:   2", "Total:     7m", "chrome", "10:00"} {
		if !strings.Contains(out, want) {
			t.Errorf("Expected %q in %q", want, out)
		}
	}

	out, err = execute(t, "--config", cfgPath, "stats", "--json")
	if err != nil {
		t.Fatalf("stats --json failed: %v", err)
	}
	if !strings.Contains(out, `"total_seconds": 420`) {
		t.Errorf("Unexpected JSON stats: %q", out)
	}
}

func TestHistoryCommand(t *testing.T) {
	cfgPath := setupWorkspace(t)

	if _, err := execute(t, "--config", cfgPath, "ask", "--now", "2024-01-01 18:00", "what app did I use most today?"); err != nil {
		t.Fatalf("ask failed: %v", err)
	}

	out, err := execute(t, "--config", cfgPath, "history")
	if err != nil {
		t.Fatalf("history failed: %v", err)
	}
	if !strings.Contains(out, "app_ranking") {
		t.Errorf("Expected app_ranking in history, got %q", out)
	}

	if _, err := execute(t, "--config", cfgPath, "history", "--clear"); err != nil {
		t.Fatalf("history --clear failed: %v", err)
	}

	out, err = execute(t, "--config", cfgPath, "history")
	if err != nil {
		t.Fatalf("history failed: %v", err)
	}
	if !strings.Contains(out, "No questions recorded") {
		t.Errorf("Expected empty history, got %q", out)
	}

	if _, err := execute(t, "--config", cfgPath, "history", "--days", "0"); err == nil {
		t.Error("Expected error for --days 0")
	}
}

func TestConfigCommands(t *testing.T) {
	path := filepath.Join(t.TempDir(), "focus-ask.json")

	out, err := execute(t, "--config", path, "config", "init")
	if err != nil {
		t.Fatalf("config init failed: %v", err)
	}
	if !strings.Contains(out, path) {
		t.Errorf("Expected path in output, got %q", out)
	}

	if _, err := execute(t, "--config", path, "config", "init"); err == nil {
		t.Error("Expected error when config exists")
	}
	if _, err := execute(t, "--config", path, "config", "init", "--force"); err != nil {
		t.Errorf("config init --force failed: %v", err)
	}

	out, err = execute(t, "--config", path, "config", "show")
	if err != nil {
		t.Fatalf("config show failed: %v", err)
	}
	if !strings.Contains(out, `"usage_log"`) || !strings.Contains(out, `"top_k": 3`) {
		t.Errorf("Unexpected config: %q", out)
	}

	out, err = execute(t, "--config", path, "config", "path")
	if err != nil || strings.TrimSpace(out) != path {
		t.Errorf("Expected %s, got %q (%v)", path, out, err)
	}
}

func TestBenchmarkCommand(t *testing.T) {
	cfgPath := setupWorkspace(t)

	out, err := execute(t, "--config", cfgPath, "benchmark", "-n", "2", "-q", "what are my peak hours?")
	if err != nil {
		t.Fatalf("benchmark failed: %v", err)
	}
	if !strings.Contains(out, "hourly_pattern") || !strings.Contains(out, "Iterations per question: 2") {
		t.Errorf("Unexpected benchmark output: %q", out)
	}
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "version")
	if err != nil {
		t.Fatalf("version failed: %v", err)
	}
	if !strings.Contains(out, "Version:") || !strings.Contains(out, "Commit:") {
		t.Errorf("Unexpected version output: %q", out)
	}
}

func TestFormatMinutes(t *testing.T) {
	tests := []struct {
		minutes int64
		want    string
	}{
		{0, "0m"},
		{45, "45m"},
		{60, "1h 0m"},
		{135, "2h 15m"},
	}

	for _, tt := range tests {
		if got := formatMinutes(tt.minutes); got != tt.want {
			t.Errorf("formatMinutes(%d): expected %q, got %q", tt.minutes, tt.want, got)
		}
	}
}
