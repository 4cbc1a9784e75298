// Package recall answers free-text queries by merging keyword matches
// from the graph with TF-IDF ranked matches from the lexical index.
package recall

import (
	"sort"
	"strings"
	"time"

	"github.com/mempalace/mempalace/pkg/graph"
	"github.com/mempalace/mempalace/pkg/index"
)

const (
	// statisticalLimit caps the TF-IDF pass.
	statisticalLimit = 20

	accessWeight  = 0.1
	recencyBoost  = 0.2
	recencyWindow = 24 * time.Hour
)

// Engine reads the graph and the lexical index to produce ranked
// results. Recall is a write operation: every returned node has its
// access metadata touched, so callers must hold the same exclusion a
// mutation would.
type Engine struct {
	Graph *graph.Graph
	Index *index.SearchIndex

	// Now is overridable for tests; defaults to time.Now.
	Now func() time.Time
}

// New creates an engine over the given graph and index.
func New(g *graph.Graph, idx *index.SearchIndex) *Engine {
	return &Engine{Graph: g, Index: idx, Now: time.Now}
}

// Recall returns nodes ordered most-to-least relevant. limit <= 0
// returns all matches.
func (e *Engine) Recall(query string, limit int) []*graph.Node {
	now := e.now()

	// Keyword pass: the raw query as one case-insensitive substring
	// against title, content, summary, and keywords. Multi-word queries
	// only match here when the exact phrase appears verbatim.
	matched := make(map[string]*graph.Node)
	needle := strings.ToLower(strings.TrimSpace(query))
	if needle != "" {
		for _, node := range e.Graph.AllNodes() {
			if nodeMatches(node, needle) {
				matched[node.ID] = node
			}
		}
	}

	// Statistical pass: per-token TF-IDF, top N by accumulated score.
	for _, m := range e.Index.TopMatches(query, statisticalLimit) {
		if node := e.Graph.Node(m.NodeID); node != nil {
			matched[node.ID] = node
		}
	}

	// Merge is a set: a node found by both passes appears once.
	results := make([]*graph.Node, 0, len(matched))
	for _, node := range matched {
		results = append(results, node)
	}
	sort.SliceStable(results, func(i, j int) bool {
		si, sj := e.composite(results[i], now), e.composite(results[j], now)
		if si != sj {
			return si > sj
		}
		return results[i].ID < results[j].ID
	})

	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}

	// Touch after ranking so this query scores against pre-query
	// access counts.
	for _, node := range results {
		e.Graph.Touch(node.ID, now)
	}
	return results
}

// composite is the ranking score: importance, plus a weight per prior
// access, plus a flat boost for nodes created in the last 24 hours.
func (e *Engine) composite(node *graph.Node, now time.Time) float64 {
	score := node.Importance + accessWeight*float64(node.AccessCount)
	if now.Sub(node.CreatedAt) < recencyWindow {
		score += recencyBoost
	}
	return score
}

func (e *Engine) now() time.Time {
	if e.Now != nil {
		return e.Now()
	}
	return time.Now()
}

func nodeMatches(node *graph.Node, needle string) bool {
	if strings.Contains(strings.ToLower(node.Title), needle) ||
		strings.Contains(strings.ToLower(node.Content), needle) ||
		strings.Contains(strings.ToLower(node.Summary), needle) {
		return true
	}
	for _, kw := range node.Keywords {
		if strings.Contains(strings.ToLower(kw), needle) {
			return true
		}
	}
	return false
}
