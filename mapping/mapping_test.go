package mapping_test

import (
	"testing"
	"testing/quick"

	"github.com/graybat-go/graybat/graph"
	"github.com/graybat-go/graybat/mapping"
	"github.com/graybat-go/graybat/pattern"
)

// No property-testing library appears anywhere in the retrieved example
// pack, so this one check intentionally reaches for testing/quick instead
// of a third-party dependency (see DESIGN.md).

func checkPartition(t *testing.T, m mapping.Mapping) {
	t.Helper()
	prop := func(vertexCount uint8, peerCount uint8) bool {
		vc := int(vertexCount)%64 + 1
		pc := int(peerCount)%32 + 1

		g := graph.New(0, pattern.Chain(vc)())

		seen := make(map[graph.VertexID]int)
		for peerID := 0; peerID < pc; peerID++ {
			for _, v := range m(peerID, pc, g) {
				seen[v.ID]++
			}
		}
		if len(seen) != vc {
			return false
		}
		for _, count := range seen {
			if count != 1 {
				return false
			}
		}
		return true
	}
	if err := quick.Check(prop, &quick.Config{MaxCount: 500}); err != nil {
		t.Error(err)
	}
}

func TestConsecutiveIsAPartition(t *testing.T) {
	checkPartition(t, mapping.Consecutive)
}

func TestRoundrobinIsAPartition(t *testing.T) {
	checkPartition(t, mapping.Roundrobin)
}

func TestConsecutiveMorePeersThanVerticesYieldsEmptyShard(t *testing.T) {
	g := graph.New(0, pattern.Chain(3)())
	shard := mapping.Consecutive(5, 8, g)
	if shard != nil {
		t.Fatalf("expected empty shard for a peer past the vertex count, got %v", shard)
	}
}

func TestRoundrobinMorePeersThanVerticesYieldsEmptyShard(t *testing.T) {
	g := graph.New(0, pattern.Chain(3)())
	shard := mapping.Roundrobin(5, 8, g)
	if shard != nil {
		t.Fatalf("expected empty shard for a peer past the vertex count, got %v", shard)
	}
}
