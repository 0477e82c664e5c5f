package containers

import (
	"sort"

	"github.com/vybium/vybium-crypto/pkg/vybium-crypto/field"
	"github.com/vybium/vybium-pod2/internal/vybium-pod2/core"
)

// Entry is one key/value pair of a Dictionary
type Entry struct {
	Key   field.Element
	Value field.Element
}

// Dictionary commits to a key/value map.
//
// Entries are sorted ascending by key and stored as interleaved key, value
// leaves, so the commitment does not depend on insertion order.
type Dictionary struct {
	entries []Entry
	tree    *Tree
}

// NewDictionary builds a Dictionary. Keys must be unique.
func NewDictionary(entries []Entry) (*Dictionary, error) {
	if len(entries) == 0 {
		return nil, core.Errorf(core.CodeEmptyContainer, "dictionary has no entries")
	}

	sorted := make([]Entry, len(entries))
	copy(sorted, entries)
	sort.SliceStable(sorted, func(i, j int) bool {
		return core.Less(sorted[i].Key, sorted[j].Key)
	})

	leaves := make([]field.Element, 0, 2*len(sorted))
	for i, e := range sorted {
		if i > 0 && sorted[i-1].Key.Equal(e.Key) {
			return nil, core.Errorf(core.CodeInvalidValue, "duplicate dictionary key %s", core.FormatElement(e.Key))
		}
		leaves = append(leaves, e.Key, e.Value)
	}

	tree, err := NewTree(leaves)
	if err != nil {
		return nil, err
	}
	return &Dictionary{entries: sorted, tree: tree}, nil
}

// Commitment returns the dictionary root
func (d *Dictionary) Commitment() field.Element {
	return d.tree.Root()
}

// Leaves returns the interleaved key, value leaves
func (d *Dictionary) Leaves() []field.Element {
	return d.tree.Leaves()
}

// Len returns the number of entries
func (d *Dictionary) Len() int {
	return len(d.entries)
}

// Entries returns the entries in key order
func (d *Dictionary) Entries() []Entry {
	out := make([]Entry, len(d.entries))
	copy(out, d.entries)
	return out
}

func (d *Dictionary) find(key field.Element) (int, bool) {
	i := sort.Search(len(d.entries), func(i int) bool {
		return !core.Less(d.entries[i].Key, key)
	})
	return i, i < len(d.entries) && d.entries[i].Key.Equal(key)
}

// Get returns the value stored under key
func (d *Dictionary) Get(key field.Element) (field.Element, bool) {
	i, ok := d.find(key)
	if !ok {
		return field.Zero, false
	}
	return d.entries[i].Value, true
}

// Prove returns a proof for the key leaf. Its first sibling is the value.
func (d *Dictionary) Prove(key field.Element) (Proof, error) {
	i, ok := d.find(key)
	if !ok {
		return Proof{}, core.Errorf(core.CodeNotFound, "key %s not in dictionary", core.FormatElement(key))
	}
	return d.tree.Prove(2 * i)
}

// VerifyEntry checks that proof binds key to value under proof.Root
func VerifyEntry(proof Proof, key, value field.Element) bool {
	if len(proof.Siblings) == 0 || proof.Index&1 != 0 {
		return false
	}
	if !proof.Leaf.Equal(key) || !proof.Siblings[0].Equal(value) {
		return false
	}
	return Verify(proof)
}
