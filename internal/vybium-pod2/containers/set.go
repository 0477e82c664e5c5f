package containers

import (
	"sort"

	"github.com/vybium/vybium-crypto/pkg/vybium-crypto/field"
	"github.com/vybium/vybium-pod2/internal/vybium-pod2/core"
)

// setSentinel is the dummy leaf paired with every set member
var setSentinel = field.Zero

// Set commits to an unordered collection of distinct elements.
//
// Members are sorted ascending and each is followed by a sentinel leaf, so
// proofs always address a member at an even position.
type Set struct {
	values []field.Element
	tree   *Tree
}

// NewSet builds a Set; duplicate members collapse
func NewSet(values []field.Element) (*Set, error) {
	if len(values) == 0 {
		return nil, core.Errorf(core.CodeEmptyContainer, "set has no members")
	}

	sorted := make([]field.Element, len(values))
	copy(sorted, values)
	sort.Slice(sorted, func(i, j int) bool { return core.Less(sorted[i], sorted[j]) })

	unique := sorted[:0]
	for i, v := range sorted {
		if i > 0 && sorted[i-1].Equal(v) {
			continue
		}
		unique = append(unique, v)
	}

	leaves := make([]field.Element, 0, 2*len(unique))
	for _, v := range unique {
		leaves = append(leaves, v, setSentinel)
	}

	tree, err := NewTree(leaves)
	if err != nil {
		return nil, err
	}
	return &Set{values: unique, tree: tree}, nil
}

// Commitment returns the set root
func (s *Set) Commitment() field.Element {
	return s.tree.Root()
}

// Leaves returns member, sentinel leaf pairs
func (s *Set) Leaves() []field.Element {
	return s.tree.Leaves()
}

// Len returns the number of members
func (s *Set) Len() int {
	return len(s.values)
}

// Values returns the members in ascending order
func (s *Set) Values() []field.Element {
	out := make([]field.Element, len(s.values))
	copy(out, s.values)
	return out
}

func (s *Set) find(v field.Element) (int, bool) {
	i := sort.Search(len(s.values), func(i int) bool {
		return !core.Less(s.values[i], v)
	})
	return i, i < len(s.values) && s.values[i].Equal(v)
}

// Contains reports membership
func (s *Set) Contains(v field.Element) bool {
	_, ok := s.find(v)
	return ok
}

// Prove returns a membership proof for v
func (s *Set) Prove(v field.Element) (Proof, error) {
	i, ok := s.find(v)
	if !ok {
		return Proof{}, core.Errorf(core.CodeNotFound, "value %s not in set", core.FormatElement(v))
	}
	return s.tree.Prove(2 * i)
}

// VerifyMember checks that proof shows v is a member under proof.Root
func VerifyMember(proof Proof, v field.Element) bool {
	if len(proof.Siblings) == 0 || proof.Index&1 != 0 {
		return false
	}
	if !proof.Leaf.Equal(v) || !proof.Siblings[0].Equal(setSentinel) {
		return false
	}
	return Verify(proof)
}
