/*
Package llm provides the language-generation backends used on the retrieval
fallback path.

A Generator turns a prompt into text. Calls are single-attempt: a slow or failed
backend surfaces only through the returned error and callers decide how to
degrade.
*/
package llm

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/khanglvm/focus-ask/internal/config"
)

// Generator produces a completion for a prompt.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Provider names accepted by New.
const (
	ProviderOllama  = "ollama"
	ProviderOpenAI  = "openai"
	ProviderCommand = "command"
	ProviderNone    = "none"
)

// DefaultTemperature keeps answers close to the retrieved data.
const DefaultTemperature = 0.1

// ErrDisabled is returned by the generator for provider "none".
var ErrDisabled = errors.New("language generation is disabled")

// New builds the generator selected by cfg.Provider.
func New(cfg config.GenerationConfig) (Generator, error) {
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 60 * time.Second
	}

	switch cfg.Provider {
	case ProviderOllama, "":
		opts := []OllamaOption{WithTimeout(timeout), WithTemperature(cfg.Temperature)}
		if cfg.BaseURL != "" {
			opts = append(opts, WithBaseURL(cfg.BaseURL))
		}
		if cfg.Model != "" {
			opts = append(opts, WithModel(cfg.Model))
		}
		return NewOllamaGenerator(opts...), nil
	case ProviderOpenAI:
		if cfg.APIKey == "" {
			return nil, fmt.Errorf("generation.api_key is required for provider %q", ProviderOpenAI)
		}
		return NewOpenAIGenerator(cfg.APIKey, cfg.Model, cfg.BaseURL, cfg.Temperature, timeout), nil
	case ProviderCommand:
		if cfg.Command == "" {
			return nil, fmt.Errorf("generation.command is required for provider %q", ProviderCommand)
		}
		return NewCommandGenerator(cfg.Command, cfg.Args, cfg.Env, timeout), nil
	case ProviderNone:
		return Disabled{}, nil
	default:
		return nil, fmt.Errorf("unknown generation provider %q", cfg.Provider)
	}
}

// Disabled always fails with ErrDisabled.
type Disabled struct{}

// Generate implements Generator.
func (Disabled) Generate(ctx context.Context, prompt string) (string, error) {
	return "", ErrDisabled
}
