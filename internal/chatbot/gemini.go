package chatbot

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"school-clinic-server/internal/config"
)

// Gemini is a Generator backed by the Google Gemini API.
type Gemini struct {
	client    *genai.Client
	modelName string
}

// NewGemini creates a Gemini generator from the configured API key and model.
func NewGemini(ctx context.Context, cfg config.GeminiConfig) (*Gemini, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(cfg.APIKey))
	if err != nil {
		return nil, fmt.Errorf("gemini client: %w", err)
	}
	return &Gemini{client: client, modelName: cfg.Model}, nil
}

// Close releases the underlying API client.
func (g *Gemini) Close() error {
	if g.client != nil {
		return g.client.Close()
	}
	return nil
}

// Generate starts a chat session seeded with history and sends the message.
func (g *Gemini) Generate(ctx context.Context, history []Turn, message string) (string, error) {
	m := g.client.GenerativeModel(g.modelName)
	cs := m.StartChat()
	for _, t := range history {
		cs.History = append(cs.History, &genai.Content{
			Role:  t.Role,
			Parts: []genai.Part{genai.Text(t.Text)},
		})
	}

	resp, err := cs.SendMessage(ctx, genai.Text(message))
	if err != nil {
		return "", fmt.Errorf("gemini send message: %w", err)
	}
	return responseText(resp)
}

// responseText flattens the text parts of the first candidate. A response
// without content (safety block, empty candidate list) is an error, so the
// caller takes its failure path instead of replying with an empty string.
func responseText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", errors.New("gemini: response has no content")
	}

	var b strings.Builder
	for _, p := range resp.Candidates[0].Content.Parts {
		if t, ok := p.(genai.Text); ok {
			b.WriteString(string(t))
		}
	}
	return b.String(), nil
}

var _ Generator = (*Gemini)(nil)
