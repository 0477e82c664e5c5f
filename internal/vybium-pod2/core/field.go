package core

import (
	"encoding/binary"
	"fmt"
	"strconv"

	"github.com/vybium/vybium-crypto/pkg/vybium-crypto/field"
	"github.com/vybium/vybium-crypto/pkg/vybium-crypto/hash"
	"golang.org/x/crypto/sha3"
	"golang.org/x/text/unicode/norm"
)

// limbMask keeps string digest limbs strictly below the Goldilocks modulus.
const limbMask = uint64(1)<<63 - 1

// FromUint64 reduces v into the field
func FromUint64(v uint64) field.Element {
	if v >= field.P {
		v -= field.P
	}
	return field.New(v)
}

// FromInt64 maps v into the field; negative values wrap to P - |v|.
func FromInt64(v int64) field.Element {
	if v >= 0 {
		return field.New(uint64(v))
	}
	abs := uint64(-(v + 1)) + 1
	return field.Zero.Sub(FromUint64(abs))
}

// HashString hashes a string to a field element.
//
// The string is NFC-normalised so canonically equivalent keys commit
// equally, digested with SHA3-256, split into four 63-bit limbs and absorbed
// by Poseidon.
func HashString(s string) field.Element {
	sum := sha3.Sum256([]byte(norm.NFC.String(s)))
	limbs := make([]field.Element, 4)
	for i := range limbs {
		limbs[i] = field.New(binary.BigEndian.Uint64(sum[i*8:]) & limbMask)
	}
	return hash.PoseidonHash(limbs)
}

// Compare orders two elements by canonical value
func Compare(a, b field.Element) int {
	av, bv := a.Value(), b.Value()
	switch {
	case av < bv:
		return -1
	case av > bv:
		return 1
	default:
		return 0
	}
}

// Less reports whether a sorts before b
func Less(a, b field.Element) bool {
	return a.Value() < b.Value()
}

// ToBytes returns the 8-byte big-endian encoding of e
func ToBytes(e field.Element) []byte {
	out := make([]byte, 8)
	binary.BigEndian.PutUint64(out, e.Value())
	return out
}

// FormatElement renders e as a decimal string
func FormatElement(e field.Element) string {
	return strconv.FormatUint(e.Value(), 10)
}

// ParseElement parses a canonical decimal field element
func ParseElement(s string) (field.Element, error) {
	v, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return field.Zero, Wrap(CodeInvalidValue, fmt.Sprintf("invalid field element %q", s), err)
	}
	if v >= field.P {
		return field.Zero, Errorf(CodeInvalidValue, "field element %s is not below the modulus", s)
	}
	return field.New(v), nil
}
