// Package signer provides the signature schemes used to sign pod records.
package signer

import (
	"encoding/hex"
	"fmt"
	"io"

	"github.com/cloudflare/circl/sign/dilithium/mode3"
	"github.com/cloudflare/circl/sign/ed25519"
)

// Algorithm names
const (
	AlgEd25519    = "ed25519"
	AlgDilithium3 = "dilithium3"
)

// Signer holds a private key
type Signer interface {
	// Algorithm returns the scheme name
	Algorithm() string

	// PublicKey returns the raw public key
	PublicKey() []byte

	// Sign signs msg
	Sign(msg []byte) ([]byte, error)

	// PrivateKey returns the raw private key material for export
	PrivateKey() []byte
}

// Generate creates a fresh key for alg
func Generate(alg string, rand io.Reader) (Signer, error) {
	switch alg {
	case AlgEd25519, "":
		return GenerateEd25519(rand)
	case AlgDilithium3:
		return GenerateDilithium3(rand)
	default:
		return nil, fmt.Errorf("unsupported signature algorithm: %q", alg)
	}
}

// FromPrivateKey restores a signer from exported key material
func FromPrivateKey(alg string, key []byte) (Signer, error) {
	switch alg {
	case AlgEd25519:
		return Ed25519FromSeed(key)
	case AlgDilithium3:
		return Dilithium3FromBytes(key)
	default:
		return nil, fmt.Errorf("unsupported signature algorithm: %q", alg)
	}
}

// AlgorithmOf infers the scheme from a public key length
func AlgorithmOf(pub []byte) (string, bool) {
	switch len(pub) {
	case ed25519.PublicKeySize:
		return AlgEd25519, true
	case mode3.PublicKeySize:
		return AlgDilithium3, true
	default:
		return "", false
	}
}

// Verify checks sig over msg under pub. The scheme follows from the key
// length; malformed keys or signatures simply fail.
func Verify(pub, msg, sig []byte) bool {
	alg, ok := AlgorithmOf(pub)
	if !ok {
		return false
	}
	switch alg {
	case AlgEd25519:
		if len(sig) != ed25519.SignatureSize {
			return false
		}
		return ed25519.Verify(ed25519.PublicKey(pub), msg, sig)
	case AlgDilithium3:
		if len(sig) != mode3.SignatureSize {
			return false
		}
		var pk mode3.PublicKey
		if err := pk.UnmarshalBinary(pub); err != nil {
			return false
		}
		return mode3.Verify(&pk, msg, sig)
	}
	return false
}

// VerifyHex is Verify over hex-encoded key and signature
func VerifyHex(pubHex string, msg []byte, sigHex string) bool {
	pub, err := hex.DecodeString(pubHex)
	if err != nil {
		return false
	}
	sig, err := hex.DecodeString(sigHex)
	if err != nil {
		return false
	}
	return Verify(pub, msg, sig)
}

// PublicKeyHex returns the signer's public key as hex
func PublicKeyHex(s Signer) string {
	return hex.EncodeToString(s.PublicKey())
}
