package extraction

import (
	"context"
	"fmt"
	"log"

	"github.com/mempalace/mempalace/pkg/graph"
	"github.com/mempalace/mempalace/pkg/llm"
)

// Verdict is the JSON shape the completion service is asked to return
// for a single pair of nodes.
type Verdict struct {
	Connected   bool    `json:"connected"`
	Type        string  `json:"type"`
	Strength    float64 `json:"strength"`
	Description string  `json:"description"`
}

const verdictPrompt = `You are a personal knowledge assistant that links related insights.

Decide whether these two insights are meaningfully related.

Insight A:
Title: %s
Summary: %s

Insight B:
Title: %s
Summary: %s

If related, classify the relationship as one of [similar, causal, contradictory, elaborative, temporal, thematic] and rate its strength between 0 and 1.

Return ONLY valid JSON:
{"connected": true|false, "type": "...", "strength": 0.5, "description": "one short sentence"}`

// DefaultMaxComparisons caps how many existing nodes a new node is
// compared against. Discovery costs one completion call per pair, so an
// uncapped graph makes ingestion arbitrarily slow.
const DefaultMaxComparisons = 50

// CandidateSelector picks which existing nodes to compare a new node
// against. The default keeps the most recent DefaultMaxComparisons.
type CandidateSelector func(newNode *graph.Node, g *graph.Graph) []*graph.Node

// ConnectionDiscoverer evaluates pairwise relationships between a new
// node and existing nodes, one completion call per pair.
type ConnectionDiscoverer struct {
	Client         llm.Client
	MaxComparisons int
	Select         CandidateSelector
	Temperature    float64
}

// NewConnectionDiscoverer creates a discoverer with the default
// recency-capped candidate selection.
func NewConnectionDiscoverer(client llm.Client) *ConnectionDiscoverer {
	return &ConnectionDiscoverer{
		Client:         client,
		MaxComparisons: DefaultMaxComparisons,
		Temperature:    0.2,
	}
}

// Candidates picks the existing nodes Discover will compare newNode
// against: the injected selector, or the MaxComparisons most recent.
// Callers serializing graph mutations must invoke this under the same
// exclusion; the returned slice is theirs to hand to Discover.
func (d *ConnectionDiscoverer) Candidates(newNode *graph.Node, g *graph.Graph) []*graph.Node {
	if d.Select != nil {
		return d.Select(newNode, g)
	}
	limit := d.MaxComparisons
	if limit <= 0 {
		limit = DefaultMaxComparisons
	}
	return g.NodesByRecency(limit)
}

// Discover returns zero or more edges from newNode to the candidate
// nodes. Only the candidates' titles and summaries are read, both
// immutable after commit, so the calls run without any graph lock. A
// failed or malformed verdict for one pair yields no edge for that pair
// and does not abort the rest. Context cancellation stops the loop and
// returns whatever was found before it.
func (d *ConnectionDiscoverer) Discover(ctx context.Context, newNode *graph.Node, candidates []*graph.Node) []*graph.Connection {
	var connections []*graph.Connection
	for _, existing := range candidates {
		if ctx.Err() != nil {
			break
		}
		if existing.ID == newNode.ID {
			continue
		}

		verdict, err := d.evaluatePair(ctx, newNode, existing)
		if err != nil {
			log.Printf("mempalace: connection check %s -> %s failed: %v", newNode.ID, existing.ID, err)
			continue
		}
		if !verdict.Connected {
			continue
		}

		ctype, ok := graph.ParseConnectionType(verdict.Type)
		if !ok || verdict.Description == "" || verdict.Strength < 0 || verdict.Strength > 1 {
			// Malformed verdict counts as "no connection".
			continue
		}
		connections = append(connections, graph.NewConnection(newNode.ID, existing.ID, ctype, verdict.Strength, verdict.Description))
	}
	return connections
}

func (d *ConnectionDiscoverer) evaluatePair(ctx context.Context, a, b *graph.Node) (*Verdict, error) {
	prompt := fmt.Sprintf(verdictPrompt, a.Title, a.Summary, b.Title, b.Summary)

	var verdict Verdict
	if err := d.Client.CompleteWithSchema(ctx, llm.Prompt(prompt, d.Temperature), &verdict); err != nil {
		return nil, err
	}
	return &verdict, nil
}
