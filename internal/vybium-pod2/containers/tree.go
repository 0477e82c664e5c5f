package containers

import (
	"github.com/vybium/vybium-crypto/pkg/vybium-crypto/field"
	"github.com/vybium/vybium-pod2/internal/vybium-pod2/core"
)

// Tree is a lean incremental Merkle tree over field elements.
//
// Nodes are hashed pairwise with Poseidon. A node without a right sibling is
// carried up to the next level unchanged, so the depth of a leaf's proof can
// be shorter than the height of the tree.
type Tree struct {
	levels [][]field.Element
}

// Proof is a membership proof for one leaf.
//
// Bit i of Index is the path bit for Siblings[i]: when set, the running node
// is the right child at that step.
type Proof struct {
	Root     field.Element
	Leaf     field.Element
	Index    uint64
	Siblings []field.Element
}

// Depth returns the number of hashing steps in the proof
func (p Proof) Depth() int {
	return len(p.Siblings)
}

// NewTree builds a tree over the given leaves
func NewTree(leaves []field.Element) (*Tree, error) {
	if len(leaves) == 0 {
		return nil, core.Errorf(core.CodeEmptyContainer, "cannot build a tree with no leaves")
	}

	base := make([]field.Element, len(leaves))
	copy(base, leaves)

	levels := [][]field.Element{base}
	current := base

	for len(current) > 1 {
		next := make([]field.Element, 0, (len(current)+1)/2)
		for i := 0; i < len(current); i += 2 {
			if i+1 < len(current) {
				next = append(next, core.HashPair(current[i], current[i+1]))
			} else {
				next = append(next, current[i])
			}
		}
		levels = append(levels, next)
		current = next
	}

	return &Tree{levels: levels}, nil
}

// Root returns the tree commitment
func (t *Tree) Root() field.Element {
	return t.levels[len(t.levels)-1][0]
}

// Size returns the number of leaves
func (t *Tree) Size() int {
	return len(t.levels[0])
}

// Leaves returns a copy of the leaves in stored order
func (t *Tree) Leaves() []field.Element {
	out := make([]field.Element, len(t.levels[0]))
	copy(out, t.levels[0])
	return out
}

// IndexOf returns the position of the first leaf equal to leaf, or -1
func (t *Tree) IndexOf(leaf field.Element) int {
	for i, l := range t.levels[0] {
		if l.Equal(leaf) {
			return i
		}
	}
	return -1
}

// Prove generates a membership proof for the leaf at index
func (t *Tree) Prove(index int) (Proof, error) {
	if index < 0 || index >= t.Size() {
		return Proof{}, core.Errorf(core.CodeNotFound, "leaf index %d out of range [0, %d)", index, t.Size())
	}

	var siblings []field.Element
	var path uint64
	current := index

	for level := 0; level < len(t.levels)-1; level++ {
		nodes := t.levels[level]
		sibling := current ^ 1
		if sibling < len(nodes) {
			if current&1 == 1 {
				path |= 1 << uint(len(siblings))
			}
			siblings = append(siblings, nodes[sibling])
		}
		current >>= 1
	}

	return Proof{
		Root:     t.Root(),
		Leaf:     t.levels[0][index],
		Index:    path,
		Siblings: siblings,
	}, nil
}

// Verify recomputes the root from a proof and compares it with proof.Root
func Verify(proof Proof) bool {
	if len(proof.Siblings) >= 64 {
		return false
	}
	node := proof.Leaf
	for i, sibling := range proof.Siblings {
		if (proof.Index>>uint(i))&1 == 1 {
			node = core.HashPair(sibling, node)
		} else {
			node = core.HashPair(node, sibling)
		}
	}
	return node.Equal(proof.Root)
}
