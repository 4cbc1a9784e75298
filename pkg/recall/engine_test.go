package recall

import (
	"testing"
	"time"

	"github.com/mempalace/mempalace/pkg/graph"
	"github.com/mempalace/mempalace/pkg/index"
)

type fixture struct {
	g   *graph.Graph
	idx *index.SearchIndex
	eng *Engine
	now time.Time
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		g:   graph.New(),
		idx: index.New(),
		now: time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC),
	}
	f.eng = New(f.g, f.idx)
	f.eng.Now = func() time.Time { return f.now }
	return f
}

// add creates a node with the given content, backdates it past the
// recency window, and indexes it.
func (f *fixture) add(t *testing.T, title, content string, importance float64, keywords ...string) *graph.Node {
	t.Helper()
	n := graph.NewNode(graph.NodeParams{
		Title:      title,
		Content:    content,
		Summary:    title,
		Keywords:   keywords,
		Type:       "insight",
		Importance: importance,
	})
	n.CreatedAt = f.now.Add(-48 * time.Hour)
	if err := f.g.AddNode(n); err != nil {
		t.Fatalf("AddNode failed: %v", err)
	}
	if err := f.idx.IndexNode(n); err != nil {
		t.Fatalf("IndexNode failed: %v", err)
	}
	return n
}

func TestEngine_Recall_MatchesAndRanks(t *testing.T) {
	f := newFixture(t)
	low := f.add(t, "Rust build times", "Rust compile times are slow on the old laptop.", 0.3, "rust")
	high := f.add(t, "Rust for indexing", "The indexing service will be written in rust.", 0.8, "rust", "indexing")
	f.add(t, "Garden watering", "Water the tomatoes every other morning.", 0.9, "garden")

	results := f.eng.Recall("rust", 10)
	if len(results) != 2 {
		t.Fatalf("Recall returned %d nodes, want 2", len(results))
	}
	if results[0].ID != high.ID || results[1].ID != low.ID {
		t.Errorf("Recall order = %s, %s; want importance-descending", results[0].Title, results[1].Title)
	}
}

func TestEngine_Recall_MergeIsASet(t *testing.T) {
	f := newFixture(t)
	// Matches the keyword pass (substring in title) and the statistical
	// pass (indexed token) at once.
	n := f.add(t, "Rust for indexing", "The indexing service will be written in rust.", 0.8, "rust")

	results := f.eng.Recall("rust", 10)
	if len(results) != 1 {
		t.Fatalf("Recall returned %d nodes, want 1 (no duplicates)", len(results))
	}
	if results[0].ID != n.ID {
		t.Errorf("Recall returned wrong node %s", results[0].Title)
	}
}

func TestEngine_Recall_KeywordFieldMatch(t *testing.T) {
	f := newFixture(t)
	// Query term appears only in the keywords list.
	n := f.add(t, "Deployment cadence", "Ship on Tuesdays after standup.", 0.5, "release", "cadence")

	results := f.eng.Recall("release", 10)
	if len(results) != 1 || results[0].ID != n.ID {
		t.Fatalf("keyword-only match not found: %v", results)
	}
}

func TestEngine_Recall_RecencyBoost(t *testing.T) {
	f := newFixture(t)
	older := f.add(t, "Rust ownership notes", "Notes about rust ownership rules.", 0.5, "rust")
	fresh := f.add(t, "Rust async pitfalls", "Pitfalls when mixing rust async runtimes.", 0.4, "rust")
	fresh.CreatedAt = f.now.Add(-time.Hour)

	// 0.4 + 0.2 recency beats 0.5 without it.
	results := f.eng.Recall("rust", 10)
	if len(results) != 2 {
		t.Fatalf("Recall returned %d nodes, want 2", len(results))
	}
	if results[0].ID != fresh.ID || results[1].ID != older.ID {
		t.Errorf("recency boost not applied: order = %s, %s", results[0].Title, results[1].Title)
	}
}

func TestEngine_Recall_AccessCountRaisesRank(t *testing.T) {
	f := newFixture(t)
	a := f.add(t, "Rust ownership notes", "Notes about rust ownership rules.", 0.5, "rust")
	b := f.add(t, "Rust async pitfalls", "Pitfalls when mixing rust async runtimes.", 0.45, "rust")

	first := f.eng.Recall("rust", 10)
	if first[0].ID != a.ID {
		t.Fatalf("unexpected initial order")
	}

	// Recall both repeatedly; equal touches keep the order. Then touch b
	// alone until its access bonus overtakes the importance gap.
	f.g.Touch(b.ID, f.now)
	results := f.eng.Recall("rust", 10)
	if results[0].ID != b.ID {
		t.Errorf("access count did not raise rank: top = %s", results[0].Title)
	}
}

func TestEngine_Recall_TouchesResults(t *testing.T) {
	f := newFixture(t)
	n := f.add(t, "Rust for indexing", "The indexing service will be written in rust.", 0.8, "rust")
	f.add(t, "Garden watering", "Water the tomatoes every other morning.", 0.9, "garden")

	before := n.AccessCount
	f.eng.Recall("rust", 10)

	got := f.g.Node(n.ID)
	if got.AccessCount != before+1 {
		t.Errorf("AccessCount = %d, want %d", got.AccessCount, before+1)
	}
	if !got.LastAccessedAt.Equal(f.now) {
		t.Errorf("LastAccessedAt = %v, want %v", got.LastAccessedAt, f.now)
	}

	// The non-matching node is untouched.
	for _, other := range f.g.AllNodes() {
		if other.ID != n.ID && other.AccessCount != 0 {
			t.Errorf("non-result node %s was touched", other.Title)
		}
	}
}

func TestEngine_Recall_Limit(t *testing.T) {
	f := newFixture(t)
	for _, title := range []string{"Rust one", "Rust two", "Rust three"} {
		f.add(t, title, title+" content about rust.", 0.5, "rust")
	}

	if got := f.eng.Recall("rust", 2); len(got) != 2 {
		t.Errorf("Recall with limit 2 returned %d nodes", len(got))
	}
	if got := f.eng.Recall("rust", 0); len(got) != 3 {
		t.Errorf("Recall with limit 0 returned %d nodes, want all", len(got))
	}
}

func TestEngine_Recall_NoMatches(t *testing.T) {
	f := newFixture(t)
	f.add(t, "Garden watering", "Water the tomatoes every other morning.", 0.9, "garden")

	if got := f.eng.Recall("blockchain", 10); len(got) != 0 {
		t.Errorf("Recall returned %d nodes for unrelated query", len(got))
	}
	if got := f.eng.Recall("   ", 10); len(got) != 0 {
		t.Errorf("Recall returned %d nodes for blank query", len(got))
	}
}
