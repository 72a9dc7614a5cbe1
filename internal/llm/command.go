package llm

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"
)

// execCommand is a variable that allows tests to mock exec.CommandContext
var execCommand = exec.CommandContext

// CommandGenerator runs a local program per prompt. The prompt is written to
// stdin and stdout is the completion.
type CommandGenerator struct {
	command string
	args    []string
	env     map[string]string
	timeout time.Duration
}

// NewCommandGenerator creates a generator backed by a local process.
func NewCommandGenerator(command string, args []string, env map[string]string, timeout time.Duration) *CommandGenerator {
	return &CommandGenerator{command: command, args: args, env: env, timeout: timeout}
}

// Generate implements Generator. The process is killed when the timeout or ctx expires.
func (g *CommandGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	cmd := execCommand(ctx, g.command, g.args...)
	cmd.Env = os.Environ()
	for key, value := range g.env {
		cmd.Env = append(cmd.Env, fmt.Sprintf("%s=%s", key, value))
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdin = strings.NewReader(prompt)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return "", fmt.Errorf("command %s: %w", g.command, ctx.Err())
		}
		msg := strings.TrimSpace(stderr.String())
		if msg != "" {
			return "", fmt.Errorf("command %s failed: %w: %s", g.command, err, msg)
		}
		return "", fmt.Errorf("command %s failed: %w", g.command, err)
	}

	return stdout.String(), nil
}
