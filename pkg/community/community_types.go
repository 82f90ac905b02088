package community

import "fmt"

// Node is a node identifier as stored by a partition: a string, an
// integer, a float64 or a bool.
type Node any

// Edge is an ordered pair of node identifiers.
type Edge [2]Node

// String renders the edge as "from-to".
func (e Edge) String() string {
	return fmt.Sprintf("%v-%v", e[0], e[1])
}

// Kind identifies the clustering variant of a Partition
type Kind int

const (
	// KindNode is a crisp node clustering
	KindNode Kind = iota
	// KindFuzzyNode is a node clustering with soft membership weights
	KindFuzzyNode
	// KindEdge is a clustering of edges
	KindEdge
	// KindFuzzyEdge is an edge clustering that also carries an allocation matrix
	KindFuzzyEdge
)

// String returns the string representation of a kind
func (k Kind) String() string {
	switch k {
	case KindNode:
		return "node"
	case KindFuzzyNode:
		return "fuzzy_node"
	case KindEdge:
		return "edge"
	case KindFuzzyEdge:
		return "fuzzy_edge"
	default:
		return "unknown"
	}
}

// Metadata describes how a partition was produced.
// Fields a source cannot supply are left at their zero value.
type Metadata struct {
	MethodName       string
	MethodParameters map[string]any
	Overlap          bool
	NodeCoverage     float64 // Fraction of graph nodes assigned to some community
}

// Partition is a community detection result.
// It is implemented only by *NodeClustering, *FuzzyNodeClustering and *EdgeClustering.
type Partition interface {
	Meta() Metadata
	Kind() Kind
	// Len returns the number of communities
	Len() int

	partition()
}

// NodeClustering groups nodes into communities
type NodeClustering struct {
	Metadata
	Communities [][]Node
}

// FuzzyNodeClustering groups nodes into communities with soft memberships.
// AllocationMatrix is persisted as-is and never interpreted here.
type FuzzyNodeClustering struct {
	Metadata
	Communities      [][]Node
	AllocationMatrix any
}

// EdgeClustering groups edges into communities.
// When Fuzzy is set the partition also carries an AllocationMatrix.
type EdgeClustering struct {
	Metadata
	Communities      [][]Edge
	Fuzzy            bool
	AllocationMatrix any
}

func (c *NodeClustering) Meta() Metadata      { return c.Metadata }
func (c *FuzzyNodeClustering) Meta() Metadata { return c.Metadata }
func (c *EdgeClustering) Meta() Metadata      { return c.Metadata }

func (c *NodeClustering) Kind() Kind      { return KindNode }
func (c *FuzzyNodeClustering) Kind() Kind { return KindFuzzyNode }

func (c *EdgeClustering) Kind() Kind {
	if c.Fuzzy {
		return KindFuzzyEdge
	}
	return KindEdge
}

func (c *NodeClustering) Len() int      { return len(c.Communities) }
func (c *FuzzyNodeClustering) Len() int { return len(c.Communities) }
func (c *EdgeClustering) Len() int      { return len(c.Communities) }

func (*NodeClustering) partition()      {}
func (*FuzzyNodeClustering) partition() {}
func (*EdgeClustering) partition()      {}
