package chatbot

import "context"

// Turn is one entry of the conversation sent to the text-generation model.
// Role is either "user" or "model".
type Turn struct {
	Role string
	Text string
}

// Generator is the external text-generation capability: given an ordered
// conversation and a new message, return the generated text. Implementations
// must treat the call as a single blocking request with no internal retry.
type Generator interface {
	Generate(ctx context.Context, history []Turn, message string) (string, error)
}
