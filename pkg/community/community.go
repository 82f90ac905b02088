// Package community holds the in-memory model of a community detection
// result: which nodes (or edges) belong to which community, and how the
// result was produced.
package community

import (
	"sort"

	"github.com/samber/lo"
)

// NewNodeClustering creates a node clustering from communities and metadata
func NewNodeClustering(communities [][]Node, meta Metadata) *NodeClustering {
	return &NodeClustering{
		Metadata:    meta,
		Communities: communities,
	}
}

// FromAssignment builds a node clustering from a node -> community ID map,
// as produced by label propagation or connected components.
// Communities are ordered by ID and nodes within a community ascend.
func FromAssignment(assignment map[uint64]int, meta Metadata) *NodeClustering {
	communityNodes := make(map[int][]uint64)
	for nodeID, label := range assignment {
		communityNodes[label] = append(communityNodes[label], nodeID)
	}

	labels := lo.Keys(communityNodes)
	sort.Ints(labels)

	communities := make([][]Node, 0, len(labels))
	for _, label := range labels {
		nodes := communityNodes[label]
		if len(nodes) == 0 {
			continue
		}
		sort.Slice(nodes, func(i, j int) bool { return nodes[i] < nodes[j] })
		communities = append(communities, lo.Map(nodes, func(id uint64, _ int) Node { return id }))
	}

	return NewNodeClustering(communities, meta)
}

// AllocationMatrix returns the soft membership weights of p, if it has any.
func AllocationMatrix(p Partition) (any, bool) {
	if IsNil(p) {
		return nil, false
	}
	switch c := p.(type) {
	case *FuzzyNodeClustering:
		return c.AllocationMatrix, true
	case *EdgeClustering:
		if c.Fuzzy {
			return c.AllocationMatrix, true
		}
	}
	return nil, false
}

// IsNil reports whether p is nil or a nil pointer to one of the variants.
func IsNil(p Partition) bool {
	switch c := p.(type) {
	case nil:
		return true
	case *NodeClustering:
		return c == nil
	case *FuzzyNodeClustering:
		return c == nil
	case *EdgeClustering:
		return c == nil
	default:
		return false
	}
}
