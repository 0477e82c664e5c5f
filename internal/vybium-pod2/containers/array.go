package containers

import (
	"github.com/vybium/vybium-crypto/pkg/vybium-crypto/field"
	"github.com/vybium/vybium-pod2/internal/vybium-pod2/core"
)

// Array commits to an ordered sequence as (index, value) leaf pairs
type Array struct {
	values []field.Element
	tree   *Tree
}

// NewArray builds an Array; the commitment depends on element order
func NewArray(values []field.Element) (*Array, error) {
	if len(values) == 0 {
		return nil, core.Errorf(core.CodeEmptyContainer, "array has no elements")
	}

	stored := make([]field.Element, len(values))
	copy(stored, values)

	leaves := make([]field.Element, 0, 2*len(stored))
	for i, v := range stored {
		leaves = append(leaves, field.New(uint64(i)), v)
	}

	tree, err := NewTree(leaves)
	if err != nil {
		return nil, err
	}
	return &Array{values: stored, tree: tree}, nil
}

// Commitment returns the array root
func (a *Array) Commitment() field.Element {
	return a.tree.Root()
}

// Leaves returns index, value leaf pairs
func (a *Array) Leaves() []field.Element {
	return a.tree.Leaves()
}

// Len returns the number of elements
func (a *Array) Len() int {
	return len(a.values)
}

// Values returns the elements in order
func (a *Array) Values() []field.Element {
	out := make([]field.Element, len(a.values))
	copy(out, a.values)
	return out
}

// Get returns the element at index i
func (a *Array) Get(i int) (field.Element, bool) {
	if i < 0 || i >= len(a.values) {
		return field.Zero, false
	}
	return a.values[i], true
}

// Prove returns a proof for the value leaf at position i
func (a *Array) Prove(i int) (Proof, error) {
	if i < 0 || i >= len(a.values) {
		return Proof{}, core.Errorf(core.CodeNotFound, "array index %d out of range [0, %d)", i, len(a.values))
	}
	return a.tree.Prove(2*i + 1)
}

// VerifyElement checks that proof places value at position i under proof.Root
func VerifyElement(proof Proof, i int, value field.Element) bool {
	if i < 0 || len(proof.Siblings) == 0 || proof.Index&1 != 1 {
		return false
	}
	if !proof.Leaf.Equal(value) || !proof.Siblings[0].Equal(field.New(uint64(i))) {
		return false
	}
	return Verify(proof)
}
