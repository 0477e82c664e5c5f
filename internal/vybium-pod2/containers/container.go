// Package containers implements the Merkle accumulators that give every
// structured pod value a commitment: Dictionary, Set and Array.
package containers

import "github.com/vybium/vybium-crypto/pkg/vybium-crypto/field"

// Container is the common surface of Dictionary, Set and Array
type Container interface {
	// Commitment returns the root of the backing tree
	Commitment() field.Element

	// Leaves returns the leaves in stored order
	Leaves() []field.Element

	// Len returns the number of logical entries
	Len() int
}

// Equal reports whether two containers commit to the same content
func Equal(a, b Container) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Commitment().Equal(b.Commitment())
}

var (
	_ Container = (*Dictionary)(nil)
	_ Container = (*Set)(nil)
	_ Container = (*Array)(nil)
)
