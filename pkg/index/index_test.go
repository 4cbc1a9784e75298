package index

import (
	"errors"
	"math"
	"reflect"
	"testing"

	"github.com/mempalace/mempalace/pkg/graph"
)

func contentNode(id, content string) *graph.Node {
	return &graph.Node{ID: id, Content: content}
}

func TestTokenize(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{
			name: "lowercases and splits on punctuation",
			text: "Rust, indexing; SERVICE!",
			want: []string{"rust", "indexing", "service"},
		},
		{
			name: "drops short tokens",
			text: "we go to the big city",
			want: []string{"the", "big", "city"},
		},
		{
			name: "keeps digits",
			text: "http2 and utf8 won in 2024",
			want: []string{"http2", "and", "utf8", "won", "2024"},
		},
		{
			name: "empty input",
			text: "",
			want: nil,
		},
		{
			name: "only punctuation",
			text: "... --- !!!",
			want: nil,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Tokenize(tt.text)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Tokenize(%q) = %v, want %v", tt.text, got, tt.want)
			}
		})
	}
}

func TestSearchIndex_TFIDF(t *testing.T) {
	idx := New()

	// "rust" appears twice among ten tokens of the first node and in no
	// other node, so tf = 0.2 and idf = ln(3).
	docs := []*graph.Node{
		contentNode("n1", "rust rust index fast fast safe safe code code code"),
		contentNode("n2", "garden watering schedule for summer herbs outside"),
		contentNode("n3", "meeting notes about the quarterly budget review"),
	}
	for _, d := range docs {
		if err := idx.IndexNode(d); err != nil {
			t.Fatalf("IndexNode(%s) failed: %v", d.ID, err)
		}
	}

	want := 0.2 * math.Log(3)
	got := idx.TFIDF("rust", "n1")
	if math.Abs(got-want) > 1e-9 {
		t.Errorf("TFIDF(rust, n1) = %f, want %f", got, want)
	}

	if got := idx.TFIDF("rust", "n2"); got != 0 {
		t.Errorf("TFIDF(rust, n2) = %f, want 0", got)
	}
	if got := idx.TFIDF("unseen", "n1"); got != 0 {
		t.Errorf("TFIDF(unseen, n1) = %f, want 0", got)
	}
}

func TestSearchIndex_TFIDF_CommonTermScoresZero(t *testing.T) {
	idx := New()
	for i, content := range []string{"shared alpha", "shared beta", "shared gamma"} {
		if err := idx.IndexNode(contentNode(string(rune('a'+i)), content)); err != nil {
			t.Fatalf("IndexNode failed: %v", err)
		}
	}

	// A term in every document has idf = ln(1) = 0.
	if got := idx.TFIDF("shared", "a"); got != 0 {
		t.Errorf("TFIDF(shared, a) = %f, want 0", got)
	}
}

func TestSearchIndex_IndexNode_RejectsRepeat(t *testing.T) {
	idx := New()
	node := contentNode("n1", "first pass content")
	if err := idx.IndexNode(node); err != nil {
		t.Fatalf("IndexNode failed: %v", err)
	}

	err := idx.IndexNode(node)
	if !errors.Is(err, ErrAlreadyIndexed) {
		t.Fatalf("expected ErrAlreadyIndexed, got %v", err)
	}

	if idx.TotalDocuments != 1 {
		t.Errorf("TotalDocuments = %d after rejected re-index, want 1", idx.TotalDocuments)
	}
	if df := idx.DocumentFrequency["first"]; df != 1 {
		t.Errorf("DocumentFrequency[first] = %d, want 1", df)
	}
}

func TestSearchIndex_IndexNode_EmptyID(t *testing.T) {
	idx := New()
	if err := idx.IndexNode(&graph.Node{Content: "no id"}); err == nil {
		t.Error("expected error for empty node id")
	}
}

func TestSearchIndex_TopMatches(t *testing.T) {
	idx := New()
	docs := []*graph.Node{
		contentNode("n1", "rust compiler borrow checker rust rust"),
		contentNode("n2", "rust service deployment pipeline with staging"),
		contentNode("n3", "cooking pasta with fresh basil tonight"),
	}
	for _, d := range docs {
		if err := idx.IndexNode(d); err != nil {
			t.Fatalf("IndexNode failed: %v", err)
		}
	}

	matches := idx.TopMatches("rust compiler", 10)
	if len(matches) != 2 {
		t.Fatalf("TopMatches returned %d matches, want 2", len(matches))
	}
	if matches[0].NodeID != "n1" {
		t.Errorf("top match = %s, want n1", matches[0].NodeID)
	}
	if matches[0].Score <= matches[1].Score {
		t.Errorf("scores not descending: %f <= %f", matches[0].Score, matches[1].Score)
	}

	if got := idx.TopMatches("rust compiler", 1); len(got) != 1 {
		t.Errorf("limit 1 returned %d matches", len(got))
	}
	if got := idx.TopMatches("quantum", 10); len(got) != 0 {
		t.Errorf("unknown term returned %d matches, want 0", len(got))
	}
}
