package signer

import (
	"fmt"
	"io"

	"github.com/cloudflare/circl/sign/dilithium/mode3"
)

// Dilithium3Signer signs with a post-quantum Dilithium3 key
type Dilithium3Signer struct {
	sk *mode3.PrivateKey
	pk *mode3.PublicKey
}

// GenerateDilithium3 returns a new Dilithium3 signer
func GenerateDilithium3(rand io.Reader) (*Dilithium3Signer, error) {
	pk, sk, err := mode3.GenerateKey(rand)
	if err != nil {
		return nil, fmt.Errorf("failed to generate dilithium3 key: %w", err)
	}
	return &Dilithium3Signer{sk: sk, pk: pk}, nil
}

// Dilithium3FromBytes restores a signer from a packed private key
func Dilithium3FromBytes(key []byte) (*Dilithium3Signer, error) {
	var sk mode3.PrivateKey
	if err := sk.UnmarshalBinary(key); err != nil {
		return nil, fmt.Errorf("invalid dilithium3 private key: %w", err)
	}
	pk, ok := sk.Public().(*mode3.PublicKey)
	if !ok {
		return nil, fmt.Errorf("invalid dilithium3 private key: no public key")
	}
	return &Dilithium3Signer{sk: &sk, pk: pk}, nil
}

// Algorithm implements Signer
func (s *Dilithium3Signer) Algorithm() string { return AlgDilithium3 }

// PublicKey implements Signer
func (s *Dilithium3Signer) PublicKey() []byte { return s.pk.Bytes() }

// PrivateKey returns the packed private key
func (s *Dilithium3Signer) PrivateKey() []byte { return s.sk.Bytes() }

// Sign implements Signer
func (s *Dilithium3Signer) Sign(msg []byte) ([]byte, error) {
	sig := make([]byte, mode3.SignatureSize)
	mode3.SignTo(s.sk, msg, sig)
	return sig, nil
}
