// Package index provides a term-frequency / document-frequency index
// with TF-IDF scoring over node text.
package index

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"
	"unicode"

	"github.com/mempalace/mempalace/pkg/graph"
)

// ErrAlreadyIndexed indicates an IndexNode call for a node id that has
// been indexed before. Re-indexing would inflate the document and term
// counts, so it is rejected outright.
var ErrAlreadyIndexed = errors.New("node already indexed")

// SearchIndex holds term statistics for all indexed nodes. Fields are
// exported with JSON tags so the whole structure snapshots as one blob.
// TotalDocuments only ever grows; node removal is not supported.
type SearchIndex struct {
	TermFrequency     map[string]map[string]int `json:"termFrequency"`
	DocumentFrequency map[string]int            `json:"documentFrequency"`
	NodeWordCounts    map[string]int            `json:"nodeWordCounts"`
	TotalDocuments    int                       `json:"totalDocuments"`
}

// New creates an empty index.
func New() *SearchIndex {
	return &SearchIndex{
		TermFrequency:     make(map[string]map[string]int),
		DocumentFrequency: make(map[string]int),
		NodeWordCounts:    make(map[string]int),
	}
}

// IndexNode tokenizes the node's title, content, and summary and folds
// the counts into the index. Each node id may be indexed exactly once.
func (s *SearchIndex) IndexNode(node *graph.Node) error {
	if node.ID == "" {
		return fmt.Errorf("index node: empty id")
	}
	if _, seen := s.NodeWordCounts[node.ID]; seen {
		return fmt.Errorf("index node %s: %w", node.ID, ErrAlreadyIndexed)
	}

	tokens := Tokenize(node.Title + " " + node.Content + " " + node.Summary)
	s.NodeWordCounts[node.ID] = len(tokens)
	s.TotalDocuments++

	counts := make(map[string]int, len(tokens))
	for _, tok := range tokens {
		counts[tok]++
	}
	for term, count := range counts {
		postings := s.TermFrequency[term]
		if postings == nil {
			postings = make(map[string]int)
			s.TermFrequency[term] = postings
		}
		postings[node.ID] = count
		s.DocumentFrequency[term]++
	}
	return nil
}

// TFIDF computes tf*idf for a term in a node. Returns 0 when the term
// does not occur in the node or has no document frequency.
func (s *SearchIndex) TFIDF(term, nodeID string) float64 {
	postings, ok := s.TermFrequency[term]
	if !ok {
		return 0
	}
	count, ok := postings[nodeID]
	if !ok {
		return 0
	}
	words := s.NodeWordCounts[nodeID]
	df := s.DocumentFrequency[term]
	if words == 0 || df == 0 {
		return 0
	}

	tf := float64(count) / float64(words)
	idf := math.Log(float64(s.TotalDocuments) / float64(df))
	return tf * idf
}

// Match is a scored node id from a query pass.
type Match struct {
	NodeID string
	Score  float64
}

// TopMatches splits the query on whitespace and accumulates per-node
// TF-IDF over all tokens, returning up to limit nodes by score.
func (s *SearchIndex) TopMatches(query string, limit int) []Match {
	scores := make(map[string]float64)
	for _, token := range strings.Fields(strings.ToLower(query)) {
		postings, ok := s.TermFrequency[token]
		if !ok {
			continue
		}
		for nodeID := range postings {
			scores[nodeID] += s.TFIDF(token, nodeID)
		}
	}

	matches := make([]Match, 0, len(scores))
	for nodeID, score := range scores {
		matches = append(matches, Match{NodeID: nodeID, Score: score})
	}
	sort.Slice(matches, func(i, j int) bool {
		if matches[i].Score != matches[j].Score {
			return matches[i].Score > matches[j].Score
		}
		return matches[i].NodeID < matches[j].NodeID
	})
	if limit > 0 && len(matches) > limit {
		matches = matches[:limit]
	}
	return matches
}

// Tokenize lowercases the text, strips punctuation, and drops tokens of
// length <= 2.
func Tokenize(text string) []string {
	var tokens []string
	var current []rune
	flush := func() {
		if len(current) > 2 {
			tokens = append(tokens, string(current))
		}
		current = current[:0]
	}
	for _, r := range strings.ToLower(text) {
		if unicode.IsLetter(r) || unicode.IsNumber(r) {
			current = append(current, r)
			continue
		}
		flush()
	}
	flush()
	return tokens
}
