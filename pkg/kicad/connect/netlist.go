package connect

import (
	"math"

	"github.com/dsmithnh3/grokicad-sub002/pkg/kicad/sexp"
)

// Tolerance is the position quantization step in millimeters. Points closer
// than this are treated as the same connectivity node, which absorbs the
// floating-point drift KiCad introduces when rotating or mirroring geometry.
const Tolerance = 0.01

// pointKey is a quantized sheet position. Two coordinates quantize to the
// same key iff they are within Tolerance of each other on both axes.
type pointKey struct {
	X, Y int32
}

func quantize(pos sexp.Position) pointKey {
	return pointKey{
		X: int32(math.Round(pos.X / Tolerance)),
		Y: int32(math.Round(pos.Y / Tolerance)),
	}
}

// netlist is a union-find partition over quantized positions. Keys are
// interned into a dense arena so find/union run over flat int32 slices
// instead of chasing map entries per step.
type netlist struct {
	index  map[pointKey]int32
	parent []int32
	rank   []int32
}

func newNetlist() *netlist {
	return &netlist{index: make(map[pointKey]int32)}
}

// intern returns the arena index for a key, registering it as its own
// singleton set on first sight.
func (nl *netlist) intern(key pointKey) int32 {
	if idx, ok := nl.index[key]; ok {
		return idx
	}
	idx := int32(len(nl.parent))
	nl.index[key] = idx
	nl.parent = append(nl.parent, idx)
	nl.rank = append(nl.rank, 0)
	return idx
}

// find returns the root of the set containing idx, compressing the path so
// repeated lookups are near-constant.
func (nl *netlist) find(idx int32) int32 {
	root := idx
	for nl.parent[root] != root {
		root = nl.parent[root]
	}
	for idx != root {
		next := nl.parent[idx]
		nl.parent[idx] = root
		idx = next
	}
	return root
}

// union merges the sets containing a and b, by rank.
func (nl *netlist) union(a, b int32) {
	rootA := nl.find(a)
	rootB := nl.find(b)
	if rootA == rootB {
		return
	}
	switch {
	case nl.rank[rootA] < nl.rank[rootB]:
		nl.parent[rootA] = rootB
	case nl.rank[rootA] > nl.rank[rootB]:
		nl.parent[rootB] = rootA
	default:
		nl.parent[rootB] = rootA
		nl.rank[rootA]++
	}
}

// connected reports whether two interned keys are in the same set.
func (nl *netlist) connected(a, b int32) bool {
	return nl.find(a) == nl.find(b)
}

// lookup returns the arena index for a key without interning it.
func (nl *netlist) lookup(key pointKey) (int32, bool) {
	idx, ok := nl.index[key]
	return idx, ok
}

// size returns the number of interned nodes.
func (nl *netlist) size() int {
	return len(nl.parent)
}
