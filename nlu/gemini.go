package nlu

import (
	"context"
	"fmt"

	"google.golang.org/genai"
)

const modelName = "models/gemini-2.0-flash"

// Completer produces a raw text completion for a prompt. The reply is
// expected, but never trusted, to contain a single JSON object.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// Gemini implements Completer over the GenAI SDK.
type Gemini struct {
	client *genai.Client
}

// NewGemini connects to the Gemini API with the given key.
func NewGemini(ctx context.Context, apiKey string) (*Gemini, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}
	return &Gemini{client: client}, nil
}

// Complete runs one turn-based generation and returns the raw reply text.
func (g *Gemini) Complete(ctx context.Context, prompt string) (string, error) {
	resp, err := g.client.Models.GenerateContent(ctx, modelName, genai.Text(prompt), nil)
	if err != nil {
		return "", fmt.Errorf("gemini generate: %w", err)
	}
	return resp.Text(), nil
}
