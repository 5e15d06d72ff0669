package multiplex

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"
)

// TestForNodeIsABijectionProperty checks that ForNode maps every global
// index in [0, numNodes) to a distinct (GroupIndex, NodeIndex) pair, for
// arbitrary network and group counts - the addressing scheme never
// collides two different nodes onto the same slot.
func TestForNodeIsABijectionProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		numGroups := rapid.IntRange(1, 9).Draw(t, "numGroups")
		numNodes := rapid.IntRange(1, 60).Draw(t, "numNodes")

		seen := make(map[GroupInfo]bool, numNodes)
		for i := 0; i < numNodes; i++ {
			info := ForNode(numGroups, i)
			assert.GreaterOrEqual(t, info.GroupIndex, 0)
			assert.Less(t, info.GroupIndex, numGroups)
			assert.GreaterOrEqual(t, info.NodeIndex, 0)
			assert.False(t, seen[info], "global index %d collided with an earlier node at %+v", i, info)
			seen[info] = true
		}
	})
}

// TestSamplePeerIndicesExcludesSelfProperty checks that, across arbitrary
// network sizes and peer counts, a node's sampled peers are distinct,
// in-range, and never include the node itself.
func TestSamplePeerIndicesExcludesSelfProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		numNodes := rapid.IntRange(1, 40).Draw(t, "numNodes")
		self := rapid.IntRange(0, numNodes-1).Draw(t, "self")
		peersPerNode := rapid.IntRange(0, numNodes+5).Draw(t, "peersPerNode")

		peers := samplePeerIndices(numNodes, self, peersPerNode)

		wantLen := peersPerNode
		if wantLen > numNodes-1 {
			wantLen = numNodes - 1
		}
		if wantLen < 0 {
			wantLen = 0
		}
		assert.Len(t, peers, wantLen)

		seen := make(map[int]bool, len(peers))
		for _, p := range peers {
			assert.NotEqual(t, self, p)
			assert.GreaterOrEqual(t, p, 0)
			assert.Less(t, p, numNodes)
			assert.False(t, seen[p], "peer %d sampled twice", p)
			seen[p] = true
		}
	})
}
