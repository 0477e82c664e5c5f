package signer

import (
	"fmt"
	"io"

	"github.com/cloudflare/circl/sign/ed25519"
)

// Ed25519Signer signs with an Ed25519 key
type Ed25519Signer struct {
	priv ed25519.PrivateKey
	pub  ed25519.PublicKey
}

// GenerateEd25519 returns a new Ed25519 signer
func GenerateEd25519(rand io.Reader) (*Ed25519Signer, error) {
	pub, priv, err := ed25519.GenerateKey(rand)
	if err != nil {
		return nil, fmt.Errorf("failed to generate ed25519 key: %w", err)
	}
	return &Ed25519Signer{priv: priv, pub: pub}, nil
}

// Ed25519FromSeed derives a signer from a 32-byte seed
func Ed25519FromSeed(seed []byte) (*Ed25519Signer, error) {
	if len(seed) != ed25519.SeedSize {
		return nil, fmt.Errorf("invalid ed25519 seed length %d", len(seed))
	}
	priv := ed25519.NewKeyFromSeed(seed)
	pub := make(ed25519.PublicKey, ed25519.PublicKeySize)
	copy(pub, priv[ed25519.SeedSize:])
	return &Ed25519Signer{priv: priv, pub: pub}, nil
}

// Algorithm implements Signer
func (s *Ed25519Signer) Algorithm() string { return AlgEd25519 }

// PublicKey implements Signer
func (s *Ed25519Signer) PublicKey() []byte {
	out := make([]byte, len(s.pub))
	copy(out, s.pub)
	return out
}

// PrivateKey returns the seed
func (s *Ed25519Signer) PrivateKey() []byte {
	out := make([]byte, ed25519.SeedSize)
	copy(out, s.priv[:ed25519.SeedSize])
	return out
}

// Sign implements Signer
func (s *Ed25519Signer) Sign(msg []byte) ([]byte, error) {
	return ed25519.Sign(s.priv, msg), nil
}
