package graph

import (
	"errors"
	"fmt"
	"time"
)

// ErrDuplicateNode indicates an AddNode call with an id already present.
var ErrDuplicateNode = errors.New("node id already present in graph")

// ErrDuplicateConnection indicates an edge with the same ordered pair
// and type as an existing one. Re-running discovery over an unchanged
// graph is therefore a no-op at the graph level.
var ErrDuplicateConnection = errors.New("connection already present for this pair and type")

// ErrUnknownNode indicates an edge endpoint that does not exist.
var ErrUnknownNode = errors.New("connection references unknown node")

// Graph is the aggregate holding all nodes, edges, the keyword topic
// index, and the insertion-ordered timeline. It is not safe for
// concurrent use; the orchestrator serializes access.
type Graph struct {
	Nodes       map[string]*Node    `json:"nodes"`
	Connections []*Connection       `json:"connections"`
	Topics      map[string][]string `json:"topics"`
	Timeline    []string            `json:"timeline"`
}

// New creates an empty graph.
func New() *Graph {
	return &Graph{
		Nodes:  make(map[string]*Node),
		Topics: make(map[string][]string),
	}
}

// Node returns the node with the given id, or nil.
func (g *Graph) Node(id string) *Node {
	return g.Nodes[id]
}

// AddNode inserts a node, appends it to the timeline, and buckets each
// of its keywords into the topic index. Node ids are never reused, so a
// duplicate id is rejected rather than upserted.
func (g *Graph) AddNode(node *Node) error {
	if node.ID == "" {
		return fmt.Errorf("add node: empty id")
	}
	if _, exists := g.Nodes[node.ID]; exists {
		return fmt.Errorf("add node %s: %w", node.ID, ErrDuplicateNode)
	}

	g.Nodes[node.ID] = node
	g.Timeline = append(g.Timeline, node.ID)
	for _, kw := range node.Keywords {
		g.Topics[kw] = append(g.Topics[kw], node.ID)
	}
	return nil
}

// AddConnection appends an edge and records the target in the source
// node's adjacency list. The node record is mutated in place, so fields
// unrelated to adjacency (timestamps, access count, embedding) are
// untouched. Both endpoints must already exist.
func (g *Graph) AddConnection(conn *Connection) error {
	source, ok := g.Nodes[conn.SourceID]
	if !ok {
		return fmt.Errorf("add connection %s -> %s: source: %w", conn.SourceID, conn.TargetID, ErrUnknownNode)
	}
	if _, ok := g.Nodes[conn.TargetID]; !ok {
		return fmt.Errorf("add connection %s -> %s: target: %w", conn.SourceID, conn.TargetID, ErrUnknownNode)
	}
	for _, existing := range g.Connections {
		if existing.SourceID == conn.SourceID && existing.TargetID == conn.TargetID && existing.Type == conn.Type {
			return fmt.Errorf("add connection %s -> %s (%s): %w", conn.SourceID, conn.TargetID, conn.Type, ErrDuplicateConnection)
		}
	}

	g.Connections = append(g.Connections, conn)
	source.Connections = append(source.Connections, conn.TargetID)
	return nil
}

// Touch records an access to a node: increments the access count and
// stamps the last-accessed time. Part of the recall write path.
func (g *Graph) Touch(id string, now time.Time) {
	if node, ok := g.Nodes[id]; ok {
		node.AccessCount++
		node.LastAccessedAt = now
	}
}

// NodesByRecency returns up to limit nodes, newest first by insertion
// order. limit <= 0 returns all nodes.
func (g *Graph) NodesByRecency(limit int) []*Node {
	n := len(g.Timeline)
	if limit <= 0 || limit > n {
		limit = n
	}
	nodes := make([]*Node, 0, limit)
	for i := n - 1; i >= n-limit; i-- {
		nodes = append(nodes, g.Nodes[g.Timeline[i]])
	}
	return nodes
}

// AllNodes returns every node in insertion order.
func (g *Graph) AllNodes() []*Node {
	nodes := make([]*Node, 0, len(g.Timeline))
	for _, id := range g.Timeline {
		nodes = append(nodes, g.Nodes[id])
	}
	return nodes
}

// NodeCount returns the number of nodes in the graph.
func (g *Graph) NodeCount() int {
	return len(g.Nodes)
}

// ConnectionCount returns the number of edges in the graph.
func (g *Graph) ConnectionCount() int {
	return len(g.Connections)
}

// TopicCount returns the number of distinct keywords indexed.
func (g *Graph) TopicCount() int {
	return len(g.Topics)
}
