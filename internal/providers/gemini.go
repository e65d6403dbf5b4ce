package providers

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
)

// Gemini implements the Auditor interface using the Google generative
// AI SDK.
type Gemini struct {
	client *genai.Client
	model  *genai.GenerativeModel
	name   string
}

// NewGemini creates a new Gemini provider. The API key is read from
// GEMINI_API_KEY, falling back to GOOGLE_API_KEY.
func NewGemini(ctx context.Context, modelName string) (*Gemini, error) {
	key := os.Getenv("GEMINI_API_KEY")
	if key == "" {
		key = os.Getenv("GOOGLE_API_KEY")
	}
	if key == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY environment variable is not set")
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(key))
	if err != nil {
		return nil, fmt.Errorf("creating gemini client: %w", err)
	}

	if modelName == "" {
		modelName = "gemini-1.5-pro"
	}
	model := client.GenerativeModel(modelName)
	model.SetTemperature(0)

	return &Gemini{client: client, model: model, name: modelName}, nil
}

func (g *Gemini) Name() string { return "gemini" }

// Close releases the underlying gRPC connection.
func (g *Gemini) Close() error { return g.client.Close() }

func (g *Gemini) Audit(ctx context.Context, req Request) (Response, error) {
	model := g.requestModel(req)

	result, err := model.GenerateContent(ctx, genai.Text(req.UserPrompt))
	if err != nil {
		return Response{}, fmt.Errorf("gemini generate: %w", err)
	}
	if len(result.Candidates) == 0 || result.Candidates[0].Content == nil {
		return Response{}, fmt.Errorf("empty response from gemini")
	}

	var content strings.Builder
	for _, part := range result.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			content.WriteString(string(text))
		}
	}
	if content.Len() == 0 {
		return Response{}, fmt.Errorf("no text content in gemini response")
	}

	resp := Response{Content: content.String()}
	if result.UsageMetadata != nil {
		resp.TokensUsed = int(result.UsageMetadata.TotalTokenCount)
	}
	return resp, nil
}

// requestModel returns a per-request copy of the shared model with the
// request's system prompt and token limit applied. Chunked audits call
// Audit from several goroutines at once; the shared model is never
// written after construction.
func (g *Gemini) requestModel(req Request) *genai.GenerativeModel {
	model := *g.model
	model.SystemInstruction = &genai.Content{
		Parts: []genai.Part{genai.Text(req.SystemPrompt)},
	}
	if req.MaxTokens > 0 {
		model.SetMaxOutputTokens(int32(req.MaxTokens))
	}
	return &model
}

// ListGeminiModels returns the generation-capable model names available
// to the configured key.
func ListGeminiModels(ctx context.Context) ([]string, error) {
	g, err := NewGemini(ctx, "")
	if err != nil {
		return nil, err
	}
	defer g.Close()

	iter := g.client.ListModels(ctx)
	var names []string
	for {
		m, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, err
		}
		if strings.Contains(m.Name, "gemini") {
			names = append(names, strings.TrimPrefix(m.Name, "models/"))
		}
	}
	return names, nil
}
