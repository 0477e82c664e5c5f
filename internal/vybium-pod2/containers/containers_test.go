package containers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vybium/vybium-crypto/pkg/vybium-crypto/field"
	"github.com/vybium/vybium-pod2/internal/vybium-pod2/core"
)

func elems(vs ...uint64) []field.Element {
	out := make([]field.Element, len(vs))
	for i, v := range vs {
		out[i] = field.New(v)
	}
	return out
}

// TestTreeCarriesOddNode tests the lean sibling-carry rule
func TestTreeCarriesOddNode(t *testing.T) {
	leaves := elems(1, 2, 3)
	tree, err := NewTree(leaves)
	require.NoError(t, err)

	expected := core.HashPair(core.HashPair(leaves[0], leaves[1]), leaves[2])
	assert.True(t, tree.Root().Equal(expected))

	proof, err := tree.Prove(2)
	require.NoError(t, err)
	assert.Equal(t, 1, proof.Depth())
	assert.Equal(t, uint64(1), proof.Index)
	assert.True(t, Verify(proof))

	single, err := NewTree(elems(9))
	require.NoError(t, err)
	assert.True(t, single.Root().Equal(field.New(9)))
}

// TestTreeProveVerify tests every leaf of several tree sizes
func TestTreeProveVerify(t *testing.T) {
	for size := 1; size <= 9; size++ {
		leaves := make([]field.Element, size)
		for i := range leaves {
			leaves[i] = field.New(uint64(100 + i))
		}
		tree, err := NewTree(leaves)
		require.NoError(t, err)

		for i := range leaves {
			proof, err := tree.Prove(i)
			require.NoError(t, err)
			assert.True(t, Verify(proof), "size %d leaf %d", size, i)

			forged := proof
			forged.Leaf = field.New(7)
			assert.False(t, Verify(forged), "size %d leaf %d forged", size, i)
		}
	}

	tree, err := NewTree(elems(1, 2))
	require.NoError(t, err)
	_, err = tree.Prove(2)
	assert.ErrorIs(t, err, core.ErrNotFound)
	assert.Equal(t, -1, tree.IndexOf(field.New(5)))
	assert.Equal(t, 1, tree.IndexOf(field.New(2)))
}

func TestEmptyContainers(t *testing.T) {
	_, err := NewTree(nil)
	assert.ErrorIs(t, err, core.ErrEmptyContainer)

	_, err = NewDictionary(nil)
	assert.ErrorIs(t, err, core.ErrEmptyContainer)

	_, err = NewSet(nil)
	assert.ErrorIs(t, err, core.ErrEmptyContainer)

	_, err = NewArray(nil)
	assert.ErrorIs(t, err, core.ErrEmptyContainer)

	kind, ok := core.KindOf(err)
	require.True(t, ok)
	assert.Equal(t, core.KindConstruction, kind)
}

// TestDictionary tests ordering independence, lookups and proofs
func TestDictionary(t *testing.T) {
	a := []Entry{
		{Key: field.New(30), Value: field.New(3)},
		{Key: field.New(10), Value: field.New(1)},
		{Key: field.New(20), Value: field.New(2)},
	}
	b := []Entry{a[2], a[0], a[1]}

	da, err := NewDictionary(a)
	require.NoError(t, err)
	db, err := NewDictionary(b)
	require.NoError(t, err)

	assert.True(t, Equal(da, db))
	assert.Equal(t, 3, da.Len())
	assert.Equal(t, elems(10, 1, 20, 2, 30, 3), da.Leaves())

	v, ok := da.Get(field.New(20))
	require.True(t, ok)
	assert.True(t, v.Equal(field.New(2)))

	_, ok = da.Get(field.New(25))
	assert.False(t, ok)

	for _, e := range a {
		proof, err := da.Prove(e.Key)
		require.NoError(t, err)
		assert.True(t, Verify(proof))
		assert.True(t, VerifyEntry(proof, e.Key, e.Value))
		assert.False(t, VerifyEntry(proof, e.Key, field.New(99)))
	}

	_, err = da.Prove(field.New(25))
	assert.ErrorIs(t, err, core.ErrNotFound)

	changed, err := NewDictionary([]Entry{a[0], a[1], {Key: field.New(20), Value: field.New(4)}})
	require.NoError(t, err)
	assert.False(t, Equal(da, changed))

	_, err = NewDictionary([]Entry{a[0], a[0]})
	assert.ErrorIs(t, err, core.ErrInvalidValue)
}

// TestSet tests ordering independence and membership
func TestSet(t *testing.T) {
	s1, err := NewSet(elems(5, 1, 3))
	require.NoError(t, err)
	s2, err := NewSet(elems(3, 5, 1, 1))
	require.NoError(t, err)

	assert.True(t, Equal(s1, s2))
	assert.Equal(t, 3, s2.Len())
	assert.Equal(t, elems(1, 0, 3, 0, 5, 0), s1.Leaves())
	assert.Equal(t, elems(1, 3, 5), s1.Values())

	assert.True(t, s1.Contains(field.New(3)))
	assert.False(t, s1.Contains(field.New(4)))

	proof, err := s1.Prove(field.New(5))
	require.NoError(t, err)
	assert.True(t, VerifyMember(proof, field.New(5)))
	assert.False(t, VerifyMember(proof, field.New(4)))

	_, err = s1.Prove(field.New(4))
	assert.ErrorIs(t, err, core.ErrNotFound)
}

// TestArray tests order sensitivity and positional proofs
func TestArray(t *testing.T) {
	a1, err := NewArray(elems(7, 8, 9))
	require.NoError(t, err)
	a2, err := NewArray(elems(9, 8, 7))
	require.NoError(t, err)

	assert.False(t, Equal(a1, a2))
	assert.Equal(t, elems(0, 7, 1, 8, 2, 9), a1.Leaves())

	v, ok := a1.Get(1)
	require.True(t, ok)
	assert.True(t, v.Equal(field.New(8)))
	_, ok = a1.Get(3)
	assert.False(t, ok)

	for i, v := range a1.Values() {
		proof, err := a1.Prove(i)
		require.NoError(t, err)
		assert.True(t, VerifyElement(proof, i, v))
		assert.False(t, VerifyElement(proof, i+1, v))
	}

	_, err = a1.Prove(-1)
	assert.ErrorIs(t, err, core.ErrNotFound)
}
