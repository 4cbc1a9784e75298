// Package llm provides the text-completion client consumed by the
// extraction pipeline.
package llm

import "context"

// Message roles understood by the completion service.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is a single role-tagged message in a completion request.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Request describes one completion call: an ordered message list, an
// optional system instruction, and a sampling temperature.
type Request struct {
	Messages    []Message
	System      string
	Temperature float64
}

// Prompt builds a single-user-message request, the common case for
// extraction prompts.
func Prompt(text string, temperature float64) Request {
	return Request{
		Messages:    []Message{{Role: RoleUser, Content: text}},
		Temperature: temperature,
	}
}

// Client defines the interface for the text-completion service.
type Client interface {
	// Complete sends the request and returns the raw completion text.
	Complete(ctx context.Context, req Request) (string, error)

	// CompleteWithSchema sends the request and unmarshals the response
	// into schema (a pointer to the target value). The response is
	// treated as untrusted: markdown fences are stripped and mildly
	// non-compliant JSON is sanitized before decoding.
	CompleteWithSchema(ctx context.Context, req Request, schema any) error
}
