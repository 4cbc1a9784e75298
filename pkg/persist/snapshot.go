package persist

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"github.com/mempalace/mempalace/pkg/graph"
	"github.com/mempalace/mempalace/pkg/index"
)

// Snapshot keys. The /v1 suffix leaves room for a schema migration.
const (
	GraphKey = "graph/v1"
	IndexKey = "index/v1"
)

// Snapshotter persists the graph and index as two independent JSON
// blobs, overwriting on every save.
type Snapshotter struct {
	Store BlobStore
}

// NewSnapshotter creates a snapshotter over the given store.
func NewSnapshotter(store BlobStore) *Snapshotter {
	return &Snapshotter{Store: store}
}

// Save writes both structures. A failure leaves in-memory state valid;
// durability is best-effort and the error is surfaced to the caller.
func (s *Snapshotter) Save(ctx context.Context, g *graph.Graph, idx *index.SearchIndex) error {
	graphBlob, err := json.Marshal(g)
	if err != nil {
		return fmt.Errorf("failed to marshal graph: %w", err)
	}
	indexBlob, err := json.Marshal(idx)
	if err != nil {
		return fmt.Errorf("failed to marshal index: %w", err)
	}

	if err := s.Store.Put(ctx, GraphKey, graphBlob); err != nil {
		return fmt.Errorf("failed to save graph: %w", err)
	}
	if err := s.Store.Put(ctx, IndexKey, indexBlob); err != nil {
		return fmt.Errorf("failed to save index: %w", err)
	}
	return nil
}

// Load restores both structures. A missing or undecodable blob degrades
// silently to the empty structure; the process starts with whatever is
// recoverable rather than failing.
func (s *Snapshotter) Load(ctx context.Context) (*graph.Graph, *index.SearchIndex) {
	g := graph.New()
	if blob, err := s.Store.Get(ctx, GraphKey); err == nil {
		loaded := graph.New()
		if err := json.Unmarshal(blob, loaded); err != nil {
			log.Printf("mempalace: graph snapshot undecodable, starting empty: %v", err)
		} else {
			g = normalizeGraph(loaded)
		}
	} else if !errors.Is(err, ErrNotFound) {
		log.Printf("mempalace: graph snapshot unreadable, starting empty: %v", err)
	}

	idx := index.New()
	if blob, err := s.Store.Get(ctx, IndexKey); err == nil {
		loaded := index.New()
		if err := json.Unmarshal(blob, loaded); err != nil {
			log.Printf("mempalace: index snapshot undecodable, starting empty: %v", err)
		} else {
			idx = normalizeIndex(loaded)
		}
	} else if !errors.Is(err, ErrNotFound) {
		log.Printf("mempalace: index snapshot unreadable, starting empty: %v", err)
	}

	return g, idx
}

// normalizeGraph guards against nil maps from a sparse snapshot.
func normalizeGraph(g *graph.Graph) *graph.Graph {
	if g.Nodes == nil {
		g.Nodes = make(map[string]*graph.Node)
	}
	if g.Topics == nil {
		g.Topics = make(map[string][]string)
	}
	return g
}

func normalizeIndex(idx *index.SearchIndex) *index.SearchIndex {
	if idx.TermFrequency == nil {
		idx.TermFrequency = make(map[string]map[string]int)
	}
	if idx.DocumentFrequency == nil {
		idx.DocumentFrequency = make(map[string]int)
	}
	if idx.NodeWordCounts == nil {
		idx.NodeWordCounts = make(map[string]int)
	}
	return idx
}
