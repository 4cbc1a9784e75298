// Package graph provides the knowledge graph data model: nodes, typed
// connections, and the in-memory aggregate that holds them.
package graph

import (
	"time"

	"github.com/google/uuid"
)

// NodeType categorizes a knowledge node.
type NodeType string

const (
	NodeTypeInsight    NodeType = "insight"
	NodeTypeFact       NodeType = "fact"
	NodeTypeIdea       NodeType = "idea"
	NodeTypeQuestion   NodeType = "question"
	NodeTypeSolution   NodeType = "solution"
	NodeTypePattern    NodeType = "pattern"
	NodeTypeConnection NodeType = "connection"
)

var validNodeTypes = map[NodeType]bool{
	NodeTypeInsight:    true,
	NodeTypeFact:       true,
	NodeTypeIdea:       true,
	NodeTypeQuestion:   true,
	NodeTypeSolution:   true,
	NodeTypePattern:    true,
	NodeTypeConnection: true,
}

// ParseNodeType maps a raw string to a NodeType.
// Unrecognized values normalize to NodeTypeInsight.
func ParseNodeType(s string) NodeType {
	t := NodeType(s)
	if validNodeTypes[t] {
		return t
	}
	return NodeTypeInsight
}

// ConnectionType categorizes the relationship an edge expresses.
type ConnectionType string

const (
	ConnectionSimilar       ConnectionType = "similar"
	ConnectionCausal        ConnectionType = "causal"
	ConnectionContradictory ConnectionType = "contradictory"
	ConnectionElaborative   ConnectionType = "elaborative"
	ConnectionTemporal      ConnectionType = "temporal"
	ConnectionThematic      ConnectionType = "thematic"
)

var validConnectionTypes = map[ConnectionType]bool{
	ConnectionSimilar:       true,
	ConnectionCausal:        true,
	ConnectionContradictory: true,
	ConnectionElaborative:   true,
	ConnectionTemporal:      true,
	ConnectionThematic:      true,
}

// ParseConnectionType maps a raw string to a ConnectionType.
// Returns false when the value is not a member of the enumeration.
func ParseConnectionType(s string) (ConnectionType, bool) {
	t := ConnectionType(s)
	return t, validConnectionTypes[t]
}

// Node is a single extracted knowledge unit.
type Node struct {
	ID                   string    `json:"id"`
	Title                string    `json:"title"`
	Content              string    `json:"content"`
	Summary              string    `json:"summary"`
	Keywords             []string  `json:"keywords,omitempty"`
	SourceConversationID string    `json:"sourceConversationId,omitempty"`
	SourceMessageIDs     []string  `json:"sourceMessageIds,omitempty"`
	CreatedAt            time.Time `json:"createdAt"`
	LastAccessedAt       time.Time `json:"lastAccessedAt"`
	AccessCount          int       `json:"accessCount"`
	Importance           float64   `json:"importance"`
	Type                 NodeType  `json:"nodeType"`
	Connections          []string  `json:"connections,omitempty"`
	Embedding            []float32 `json:"embedding,omitempty"` // reserved for future semantic scoring
}

// Connection is a directed, typed, weighted edge between two nodes.
// Edges are not symmetric: a causal A->B does not imply B->A.
type Connection struct {
	ID          string         `json:"id"`
	SourceID    string         `json:"sourceNodeId"`
	TargetID    string         `json:"targetNodeId"`
	Type        ConnectionType `json:"connectionType"`
	Strength    float64        `json:"strength"`
	Description string         `json:"description"`
	CreatedAt   time.Time      `json:"createdAt"`
}

// NodeParams carries the inputs for NewNode.
type NodeParams struct {
	Title                string
	Content              string
	Summary              string
	Keywords             []string
	Type                 string
	Importance           float64
	SourceConversationID string
	SourceMessageIDs     []string
}

// NewNode constructs a node from extraction output and provenance.
// Timestamps are stamped at construction, the access count starts at
// zero, and the adjacency list starts empty.
func NewNode(p NodeParams) *Node {
	now := time.Now()
	return &Node{
		ID:                   uuid.New().String(),
		Title:                p.Title,
		Content:              p.Content,
		Summary:              p.Summary,
		Keywords:             p.Keywords,
		SourceConversationID: p.SourceConversationID,
		SourceMessageIDs:     p.SourceMessageIDs,
		CreatedAt:            now,
		LastAccessedAt:       now,
		AccessCount:          0,
		Importance:           clamp01(p.Importance),
		Type:                 ParseNodeType(p.Type),
	}
}

// NewConnection constructs an edge between two existing nodes.
func NewConnection(sourceID, targetID string, ctype ConnectionType, strength float64, description string) *Connection {
	return &Connection{
		ID:          uuid.New().String(),
		SourceID:    sourceID,
		TargetID:    targetID,
		Type:        ctype,
		Strength:    clamp01(strength),
		Description: description,
		CreatedAt:   time.Now(),
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
