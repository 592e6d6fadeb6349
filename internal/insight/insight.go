// Package insight asks a generative model for a short commentary on the portfolio.
package insight

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	"google.golang.org/genai"

	"github.com/ndewijer/folio/internal/apperrors"
)

const systemPrompt = `You are a concise portfolio assistant. You receive a snapshot of a personal
investment portfolio and recent headlines for its holdings. Reply in Markdown with
a short overview, notable movers, and any headline worth attention.
Do not give personalised financial advice.`

// Generator produces Markdown commentary from a prompt.
type Generator interface {
	Generate(ctx context.Context, apiKey, model, prompt string) (string, error)
}

// GenAIGenerator calls the Gemini API through the genai SDK.
type GenAIGenerator struct{}

// Generate sends prompt to model. A client is created per call because the key
// is user supplied and can change at runtime.
func (GenAIGenerator) Generate(ctx context.Context, apiKey, model, prompt string) (string, error) {
	if apiKey == "" {
		return "", apperrors.ErrAIKeyMissing
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return "", fmt.Errorf("failed to create AI client: %w", err)
	}

	cfg := &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: systemPrompt}}},
	}

	resp, err := client.Models.GenerateContent(ctx, model, genai.Text(prompt), cfg)
	if err != nil {
		return "", fmt.Errorf("AI request failed: %w", err)
	}

	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return "", fmt.Errorf("AI returned an empty response")
	}
	return text, nil
}

// RenderHTML converts Markdown to HTML.
func RenderHTML(markdown string) (string, error) {
	var buf bytes.Buffer
	if err := goldmark.Convert([]byte(markdown), &buf); err != nil {
		return "", fmt.Errorf("failed to render markdown: %w", err)
	}
	return buf.String(), nil
}
