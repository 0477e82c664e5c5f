// Package signedpod implements records whose entries are committed to by a
// Dictionary and signed by their owner.
package signedpod

import (
	"log/slog"

	"github.com/vybium/vybium-crypto/pkg/vybium-crypto/field"
	"github.com/vybium/vybium-pod2/internal/vybium-pod2/containers"
	"github.com/vybium/vybium-pod2/internal/vybium-pod2/core"
	"github.com/vybium/vybium-pod2/internal/vybium-pod2/middleware"
	"github.com/vybium/vybium-pod2/internal/vybium-pod2/signer"
	"github.com/vybium/vybium-pod2/internal/vybium-pod2/values"
)

// SignedPod is an immutable signed record. ID is the Dictionary commitment
// over the entries; Signature and Signer are hex.
type SignedPod struct {
	ID        field.Element
	Entries   *values.Dict
	Signature string
	Signer    string
}

// NonePod returns the placeholder that fills unused input slots. It has id
// zero, no entries, and always verifies.
func NonePod() *SignedPod {
	return &SignedPod{ID: middleware.NonePodID}
}

// IsNone reports whether p is the placeholder
func (p *SignedPod) IsNone() bool {
	return p == nil || p.Entries == nil
}

// Sign copies entries, injects the signer's public key under `_signer`, and
// signs the commitment of the result
func Sign(entries *values.Dict, s signer.Signer) (*SignedPod, error) {
	return SignWithEncoder(values.DefaultEncoder, entries, s)
}

// SignWithEncoder is Sign with an explicit encoder arena
func SignWithEncoder(enc *values.Encoder, entries *values.Dict, s signer.Signer) (*SignedPod, error) {
	m := make(map[string]values.Value, entries.Len()+1)
	var reserved string
	entries.Range(func(key string, v values.Value) bool {
		if middleware.IsReservedKey(key) {
			reserved = key
			return false
		}
		m[key] = v
		return true
	})
	if reserved != "" {
		return nil, core.Errorf(core.CodeReservedKey, "entry %q is reserved", reserved)
	}

	signerHex := signer.PublicKeyHex(s)
	m[middleware.SignerKeyName] = values.String(signerHex)
	frozen := values.NewDict(m)

	id, err := enc.Encode(frozen)
	if err != nil {
		return nil, err
	}

	sig, err := s.Sign(core.ToBytes(id))
	if err != nil {
		return nil, core.Wrap(core.CodeInvalidValue, "failed to sign pod", err)
	}

	slog.Debug("signed pod", "id", core.FormatElement(id), "entries", frozen.Len(), "alg", s.Algorithm())

	return &SignedPod{
		ID:        id,
		Entries:   frozen,
		Signature: hexString(sig),
		Signer:    signerHex,
	}, nil
}

// Verify recomputes the commitment from Entries, requires it to equal ID,
// requires `_signer` to name Signer, and checks the signature
func (p *SignedPod) Verify() bool {
	if p.IsNone() {
		return p != nil && p.ID.IsZero()
	}

	id, err := values.DefaultEncoder.EncodeUncached(p.Entries)
	if err != nil {
		slog.Debug("signed pod entries do not encode", "error", err)
		return false
	}
	if !id.Equal(p.ID) {
		slog.Debug("signed pod id mismatch", "claimed", core.FormatElement(p.ID), "computed", core.FormatElement(id))
		return false
	}

	v, ok := p.Entries.Get(middleware.SignerKeyName)
	if !ok {
		return false
	}
	if s, ok := v.(values.String); !ok || string(s) != p.Signer {
		return false
	}

	return signer.VerifyHex(p.Signer, core.ToBytes(p.ID), p.Signature)
}

// Dictionary returns the committed container
func (p *SignedPod) Dictionary() (*containers.Dictionary, error) {
	if p.IsNone() {
		return nil, core.Errorf(core.CodeEmptyContainer, "placeholder pod has no dictionary")
	}
	return values.DefaultEncoder.Dictionary(p.Entries)
}

// KVs returns hashed key, encoded value pairs in commitment order
func (p *SignedPod) KVs() ([]containers.Entry, error) {
	if p.IsNone() {
		return nil, nil
	}
	d, err := p.Dictionary()
	if err != nil {
		return nil, err
	}
	return d.Entries(), nil
}

// Proof returns the membership proof for a hashed key
func (p *SignedPod) Proof(key field.Element) (containers.Proof, error) {
	d, err := p.Dictionary()
	if err != nil {
		return containers.Proof{}, err
	}
	return d.Prove(key)
}

// PublicStatements exposes each entry as ValueOf anchored at the pod id
func (p *SignedPod) PublicStatements() ([]middleware.Statement, error) {
	kvs, err := p.KVs()
	if err != nil {
		return nil, err
	}
	out := make([]middleware.Statement, len(kvs))
	for i, kv := range kvs {
		out[i] = middleware.ValueOf(middleware.NewAnchoredKey(p.ID, kv.Key), kv.Value)
	}
	return out, nil
}

// AnchoredKey anchors an entry name to this pod
func (p *SignedPod) AnchoredKey(name string) middleware.AnchoredKey {
	return middleware.NewAnchoredKey(p.ID, core.HashString(name))
}
