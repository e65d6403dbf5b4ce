package providers

import (
	"context"
	"fmt"
)

// Request contains the prompts sent to an LLM for one audit pass.
type Request struct {
	SystemPrompt string
	UserPrompt   string
	MaxTokens    int
	Temperature  float64
}

// Response contains the raw provider output.
type Response struct {
	Content    string
	TokensUsed int
}

// Auditor is the provider abstraction interface.
type Auditor interface {
	Audit(ctx context.Context, req Request) (Response, error)
	Name() string
}

// New creates a provider by name.
func New(ctx context.Context, provider, model string) (Auditor, error) {
	switch provider {
	case "anthropic":
		return NewAnthropic(model)
	case "openai":
		return NewOpenAI(model)
	case "gemini", "google":
		return NewGemini(ctx, model)
	case "ollama", "lmstudio":
		return NewOllama(model)
	default:
		return nil, fmt.Errorf("unknown provider: %s", provider)
	}
}
