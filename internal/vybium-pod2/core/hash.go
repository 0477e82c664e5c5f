package core

import (
	"github.com/vybium/vybium-crypto/pkg/vybium-crypto/field"
	"github.com/vybium/vybium-crypto/pkg/vybium-crypto/hash"
)

// HashPair is the two-to-one compression used by container trees
func HashPair(left, right field.Element) field.Element {
	return hash.PoseidonHash([]field.Element{left, right})
}

// HashMany absorbs a variable-length sequence into one element.
// The empty sequence hashes to zero.
func HashMany(elems []field.Element) field.Element {
	if len(elems) == 0 {
		return field.Zero
	}
	return hash.PoseidonHash(elems)
}
