// Package palace is the entry point for the memory palace: a personal
// knowledge graph that distills conversations into linked, searchable
// insight nodes and answers free-text recall queries.
package palace

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/mempalace/mempalace/pkg/extraction"
	"github.com/mempalace/mempalace/pkg/graph"
	"github.com/mempalace/mempalace/pkg/index"
	"github.com/mempalace/mempalace/pkg/llm"
	"github.com/mempalace/mempalace/pkg/metrics"
	"github.com/mempalace/mempalace/pkg/persist"
	"github.com/mempalace/mempalace/pkg/recall"
)

// Manager owns the graph, the lexical index, and the extraction
// pipeline. It is the sole writer: ingestion and recall (which touches
// access metadata) are serialized under one mutex, and every committed
// mutation is followed by a snapshot save.
type Manager struct {
	cfg        Config
	mu         sync.Mutex
	graph      *graph.Graph
	index      *index.SearchIndex
	engine     *recall.Engine
	extractor  *extraction.InsightExtractor
	discoverer *extraction.ConnectionDiscoverer
	snapshot   *persist.Snapshotter
	metrics    metrics.Collector
	lastErr    string
}

// Option customizes a Manager beyond its Config.
type Option func(*Manager)

// WithClient injects a completion client, replacing the OpenAI default.
func WithClient(client llm.Client) Option {
	return func(m *Manager) {
		m.extractor.Client = client
		m.discoverer.Client = client
	}
}

// WithBlobStore injects a blob store, replacing the SQLite default.
func WithBlobStore(store persist.BlobStore) Option {
	return func(m *Manager) {
		m.snapshot = persist.NewSnapshotter(store)
	}
}

// WithMetrics injects a metrics collector.
func WithMetrics(collector metrics.Collector) Option {
	return func(m *Manager) {
		m.metrics = collector
	}
}

// WithCandidateSelector overrides which existing nodes connection
// discovery compares a new node against.
func WithCandidateSelector(sel extraction.CandidateSelector) Option {
	return func(m *Manager) {
		m.discoverer.Select = sel
	}
}

// New creates a Manager. When no blob store option is given, a SQLite
// store is opened at cfg.DBPath.
func New(cfg Config, opts ...Option) (*Manager, error) {
	cfg.applyDefaults()

	client := llm.NewOpenAIClient(cfg.OpenAIKey)
	client.Model = cfg.Model
	client.SetTimeout(cfg.CallTimeout)

	extractor := extraction.NewInsightExtractor(client)
	extractor.MaxPromptChars = cfg.MaxPromptChars
	extractor.Temperature = cfg.Temperature

	discoverer := extraction.NewConnectionDiscoverer(client)
	discoverer.MaxComparisons = cfg.MaxComparisons

	g := graph.New()
	idx := index.New()

	m := &Manager{
		cfg:        cfg,
		graph:      g,
		index:      idx,
		engine:     recall.New(g, idx),
		extractor:  extractor,
		discoverer: discoverer,
		metrics:    metrics.NewNoopCollector(),
	}
	for _, opt := range opts {
		opt(m)
	}

	if m.snapshot == nil {
		store, err := persist.NewSQLiteBlobStore(cfg.DBPath)
		if err != nil {
			return nil, fmt.Errorf("failed to open snapshot store: %w", err)
		}
		m.snapshot = persist.NewSnapshotter(store)
	}
	return m, nil
}

// Load restores the graph and index from the snapshot store. Missing or
// corrupt snapshots degrade silently to empty structures.
func (m *Manager) Load(ctx context.Context) {
	g, idx := m.snapshot.Load(ctx)

	m.mu.Lock()
	m.graph = g
	m.index = idx
	m.engine = recall.New(g, idx)
	m.mu.Unlock()

	m.metrics.SetStorageCount(ctx, "nodes", int64(g.NodeCount()))
	m.metrics.SetStorageCount(ctx, "connections", int64(g.ConnectionCount()))
}

// Ingest distills a conversation into zero or more nodes, links each
// new node against existing nodes, and persists the result. Extraction
// and discovery failures are non-fatal: they yield fewer nodes or
// edges, never an aborted graph.
func (m *Manager) Ingest(ctx context.Context, conversationID, text string, messageIDs []string) ([]*graph.Node, error) {
	start := time.Now()

	candidates, err := m.extractor.Extract(ctx, text)
	if err != nil {
		// Best-effort: a failed extraction yields zero insights.
		m.metrics.RecordError(ctx, "ingest", ClassifyError(err))
		m.setLastError(err)
		log.Printf("mempalace: insight extraction failed: %v", err)
		m.metrics.RecordOperation(ctx, "ingest", "degraded", time.Since(start).Milliseconds())
		return nil, nil
	}
	m.metrics.RecordStage(ctx, "ingest", "extract", time.Since(start).Milliseconds())

	created := make([]*graph.Node, 0, len(candidates))
	for _, candidate := range candidates {
		node := nodeFromCandidate(candidate, conversationID, messageIDs)

		// Discovery is network-bound; snapshot the candidate set under
		// the lock, run the calls unlocked, then commit node and edges
		// together.
		discoverStart := time.Now()
		connections := m.discoverer.Discover(ctx, node, m.candidatesFor(node))
		m.metrics.RecordStage(ctx, "ingest", "discover", time.Since(discoverStart).Milliseconds())

		// An abandoned ingestion must not commit late results.
		if ctx.Err() != nil {
			return created, ctx.Err()
		}

		if err := m.commitNode(node, connections); err != nil {
			m.metrics.RecordError(ctx, "ingest", ClassifyError(err))
			return created, err
		}
		created = append(created, node)
	}

	if err := m.save(ctx); err != nil {
		m.metrics.RecordError(ctx, "ingest", ClassifyError(err))
		m.setLastError(err)
		log.Printf("mempalace: snapshot save failed: %v", err)
	}

	stats := m.Stats()
	m.metrics.SetStorageCount(ctx, "nodes", int64(stats.Nodes))
	m.metrics.SetStorageCount(ctx, "connections", int64(stats.Connections))
	m.metrics.RecordOperation(ctx, "ingest", "success", time.Since(start).Milliseconds())
	return created, nil
}

// Recall returns ranked nodes for a free-text query. Matched nodes have
// their access metadata updated, which is why recall takes the write
// lock and triggers a save.
func (m *Manager) Recall(ctx context.Context, query string) ([]*graph.Node, error) {
	start := time.Now()

	m.mu.Lock()
	results := m.engine.Recall(query, m.cfg.RecallLimit)
	m.mu.Unlock()

	if len(results) > 0 {
		if err := m.save(ctx); err != nil {
			m.metrics.RecordError(ctx, "recall", ClassifyError(err))
			m.setLastError(err)
			log.Printf("mempalace: snapshot save failed: %v", err)
		}
	}

	m.metrics.RecordOperation(ctx, "recall", "success", time.Since(start).Milliseconds())
	return results, nil
}

// Save snapshots the current graph and index.
func (m *Manager) Save(ctx context.Context) error {
	if err := m.save(ctx); err != nil {
		m.setLastError(err)
		return err
	}
	return nil
}

// Stats summarizes the in-memory graph.
type Stats struct {
	Nodes       int `json:"nodes"`
	Connections int `json:"connections"`
	Topics      int `json:"topics"`
	Indexed     int `json:"indexed"`
}

// Stats returns counts for the current graph and index.
func (m *Manager) Stats() Stats {
	m.mu.Lock()
	defer m.mu.Unlock()
	return Stats{
		Nodes:       m.graph.NodeCount(),
		Connections: m.graph.ConnectionCount(),
		Topics:      m.graph.TopicCount(),
		Indexed:     m.index.TotalDocuments,
	}
}

// LastError returns the most recent non-fatal error message, or "".
func (m *Manager) LastError() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastErr
}

func (m *Manager) setLastError(err error) {
	m.mu.Lock()
	m.lastErr = err.Error()
	m.mu.Unlock()
}

// candidatesFor selects the existing nodes discovery will compare node
// against. Selection walks the timeline and node map, which concurrent
// commits mutate, so it runs under the lock; the returned slice is a
// private snapshot and discovery then reads only each candidate's
// immutable title and summary.
func (m *Manager) candidatesFor(node *graph.Node) []*graph.Node {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.discoverer.Candidates(node, m.graph)
}

// commitNode applies a node, its index entry, and all of its discovered
// edges under one lock acquisition so no partial edge set is visible to
// a concurrent recall.
func (m *Manager) commitNode(node *graph.Node, connections []*graph.Connection) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.graph.AddNode(node); err != nil {
		return err
	}
	if err := m.index.IndexNode(node); err != nil {
		return err
	}
	for _, conn := range connections {
		if err := m.graph.AddConnection(conn); err != nil {
			// A re-discovered pair is a no-op, not a failure.
			if errors.Is(err, graph.ErrDuplicateConnection) {
				continue
			}
			return err
		}
	}
	return nil
}

func (m *Manager) save(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snapshot.Save(ctx, m.graph, m.index)
}

// nodeFromCandidate maps an insight candidate plus provenance onto a
// node. Unknown type strings fall back to insight inside NewNode.
func nodeFromCandidate(c extraction.InsightCandidate, conversationID string, messageIDs []string) *graph.Node {
	return graph.NewNode(graph.NodeParams{
		Title:                c.Title,
		Content:              c.Content,
		Summary:              c.Summary,
		Keywords:             c.Keywords,
		Type:                 c.Type,
		Importance:           c.Importance,
		SourceConversationID: conversationID,
		SourceMessageIDs:     messageIDs,
	})
}
