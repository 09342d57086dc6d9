package chatbot

import (
	"testing"

	"github.com/google/generative-ai-go/genai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResponseTextConcatenatesParts(t *testing.T) {
	resp := &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: &genai.Content{
				Role:  "model",
				Parts: []genai.Part{genai.Text("Booked for "), genai.Text("2026-09-01!")},
			},
		}},
	}

	text, err := responseText(resp)
	require.NoError(t, err)
	assert.Equal(t, "Booked for 2026-09-01!", text)
}

func TestResponseTextEmptyResponse(t *testing.T) {
	tests := []struct {
		name string
		resp *genai.GenerateContentResponse
	}{
		{"nil response", nil},
		{"no candidates", &genai.GenerateContentResponse{}},
		{"candidate without content", &genai.GenerateContentResponse{Candidates: []*genai.Candidate{{}}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := responseText(tt.resp)
			assert.Error(t, err, "a contentless response must fail so callers apologize instead of echoing nothing")
		})
	}
}
