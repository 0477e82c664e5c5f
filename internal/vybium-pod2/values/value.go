// Package values defines the immutable value tree stored in pod entries and
// its conversion to field elements.
package values

import (
	"sort"
	"sync/atomic"

	"github.com/vybium/vybium-crypto/pkg/vybium-crypto/field"
)

// Kind identifies the shape of a Value
type Kind int

const (
	KindString Kind = iota
	KindInt
	KindRaw
	KindDict
	KindArray
	KindSet
)

// String returns the name of the kind
func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindInt:
		return "int"
	case KindRaw:
		return "raw"
	case KindDict:
		return "dict"
	case KindArray:
		return "array"
	case KindSet:
		return "set"
	default:
		return "unknown"
	}
}

// Value is anything that can be stored in a pod entry
type Value interface {
	Kind() Kind
}

// Composite is an immutable Dict, Array or Set. Its Handle keys the
// encoder cache.
type Composite interface {
	Value
	Handle() Handle
}

// Handle identifies one composite instance for its whole lifetime
type Handle uint64

var handles atomic.Uint64

func nextHandle() Handle {
	return Handle(handles.Add(1))
}

// String is a text value; it encodes to its hash
type String string

// Kind implements Value
func (String) Kind() Kind { return KindString }

// Int is a signed integer value
type Int int64

// Kind implements Value
func (Int) Kind() Kind { return KindInt }

// Raw is a value that is already a field element
type Raw struct {
	Elem field.Element
}

// Kind implements Value
func (Raw) Kind() Kind { return KindRaw }

// Dict is an immutable string-keyed map
type Dict struct {
	handle Handle
	keys   []string
	vals   map[string]Value
}

// NewDict copies m into a new Dict
func NewDict(m map[string]Value) *Dict {
	vals := make(map[string]Value, len(m))
	keys := make([]string, 0, len(m))
	for k, v := range m {
		vals[k] = v
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return &Dict{handle: nextHandle(), keys: keys, vals: vals}
}

// Kind implements Value
func (*Dict) Kind() Kind { return KindDict }

// Handle implements Composite
func (d *Dict) Handle() Handle { return d.handle }

// Get returns the value under key
func (d *Dict) Get(key string) (Value, bool) {
	v, ok := d.vals[key]
	return v, ok
}

// Keys returns the keys in lexical order
func (d *Dict) Keys() []string {
	out := make([]string, len(d.keys))
	copy(out, d.keys)
	return out
}

// Len returns the number of entries
func (d *Dict) Len() int {
	return len(d.keys)
}

// Range calls fn for each entry in key order until fn returns false
func (d *Dict) Range(fn func(key string, v Value) bool) {
	for _, k := range d.keys {
		if !fn(k, d.vals[k]) {
			return
		}
	}
}

// Array is an immutable ordered sequence
type Array struct {
	handle Handle
	elems  []Value
}

// NewArray returns an Array holding elems in order
func NewArray(elems ...Value) *Array {
	stored := make([]Value, len(elems))
	copy(stored, elems)
	return &Array{handle: nextHandle(), elems: stored}
}

// Kind implements Value
func (*Array) Kind() Kind { return KindArray }

// Handle implements Composite
func (a *Array) Handle() Handle { return a.handle }

// Len returns the number of elements
func (a *Array) Len() int { return len(a.elems) }

// At returns the element at index i
func (a *Array) At(i int) Value { return a.elems[i] }

// Elems returns a copy of the elements
func (a *Array) Elems() []Value {
	out := make([]Value, len(a.elems))
	copy(out, a.elems)
	return out
}

// Set is an immutable unordered collection
type Set struct {
	handle Handle
	elems  []Value
}

// NewSet returns a Set over elems
func NewSet(elems ...Value) *Set {
	stored := make([]Value, len(elems))
	copy(stored, elems)
	return &Set{handle: nextHandle(), elems: stored}
}

// Kind implements Value
func (*Set) Kind() Kind { return KindSet }

// Handle implements Composite
func (s *Set) Handle() Handle { return s.handle }

// Len returns the number of members as given
func (s *Set) Len() int { return len(s.elems) }

// Elems returns a copy of the members as given
func (s *Set) Elems() []Value {
	out := make([]Value, len(s.elems))
	copy(out, s.elems)
	return out
}
