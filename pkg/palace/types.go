package palace

import (
	"github.com/mempalace/mempalace/pkg/extraction"
	"github.com/mempalace/mempalace/pkg/graph"
)

// Type re-exports for caller convenience

// Node is re-exported from the graph package.
type Node = graph.Node

// Connection is re-exported from the graph package.
type Connection = graph.Connection

// NodeType is re-exported from the graph package.
type NodeType = graph.NodeType

// InsightCandidate is re-exported from the extraction package.
type InsightCandidate = extraction.InsightCandidate
