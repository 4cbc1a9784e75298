// Package extraction turns conversation text into knowledge nodes and
// edges by delegating to a text-completion service and parsing its
// untrusted JSON output.
package extraction

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/mempalace/mempalace/pkg/llm"
)

// InsightCandidate is an unvalidated, model-produced record proposed
// for promotion to a graph node.
type InsightCandidate struct {
	Title      string   `json:"title"`
	Content    string   `json:"content"`
	Summary    string   `json:"summary"`
	Keywords   []string `json:"keywords"`
	Type       string   `json:"type"`
	Importance float64  `json:"importance"`
}

// DefaultMaxPromptChars bounds how much conversation text goes into the
// extraction prompt.
const DefaultMaxPromptChars = 2000

const insightPrompt = `You are a personal knowledge assistant that distills conversations into discrete insights.

Extract the distinct insights from this conversation. For each insight, provide:
- title: A short, specific title
- content: The full insight in one or two sentences
- summary: A one-line gloss
- keywords: 2-5 lowercase topic words
- type: One of [insight, fact, idea, question, solution, pattern, connection]
- importance: A number between 0 and 1

Conversation:
---
%s
---

Return ONLY a valid JSON array:
[{"title": "...", "content": "...", "summary": "...", "keywords": ["..."], "type": "...", "importance": 0.5}, ...]`

// InsightExtractor extracts insight candidates from conversation text.
type InsightExtractor struct {
	Client         llm.Client
	MaxPromptChars int
	Temperature    float64
}

// NewInsightExtractor creates an extractor with the default prompt budget.
func NewInsightExtractor(client llm.Client) *InsightExtractor {
	return &InsightExtractor{
		Client:         client,
		MaxPromptChars: DefaultMaxPromptChars,
		Temperature:    0.3,
	}
}

// Extract issues a single completion call and decodes the response into
// insight candidates. Extraction is best-effort: the caller is expected
// to treat any returned error as zero insights for this conversation.
// No retries are performed here beyond the client's own transport
// retries.
func (e *InsightExtractor) Extract(ctx context.Context, conversation string) ([]InsightCandidate, error) {
	if strings.TrimSpace(conversation) == "" {
		return []InsightCandidate{}, nil
	}

	limit := e.MaxPromptChars
	if limit <= 0 {
		limit = DefaultMaxPromptChars
	}
	if len(conversation) > limit {
		// Back up to a rune boundary so the cut never splits a
		// multi-byte character.
		for limit > 0 && !utf8.RuneStart(conversation[limit]) {
			limit--
		}
		conversation = conversation[:limit]
	}

	prompt := fmt.Sprintf(insightPrompt, conversation)

	var candidates []InsightCandidate
	if err := e.Client.CompleteWithSchema(ctx, llm.Prompt(prompt, e.Temperature), &candidates); err != nil {
		return nil, fmt.Errorf("failed to extract insights: %w", err)
	}

	// Drop unusable candidates instead of failing the batch.
	kept := candidates[:0]
	for _, c := range candidates {
		if strings.TrimSpace(c.Title) == "" || strings.TrimSpace(c.Content) == "" {
			continue
		}
		for i, kw := range c.Keywords {
			c.Keywords[i] = strings.ToLower(strings.TrimSpace(kw))
		}
		if c.Importance < 0 {
			c.Importance = 0
		}
		if c.Importance > 1 {
			c.Importance = 1
		}
		kept = append(kept, c)
	}
	return kept, nil
}
