package signedpod

import (
	"encoding/hex"
	"encoding/json"

	"github.com/vybium/vybium-pod2/internal/vybium-pod2/core"
	"github.com/vybium/vybium-pod2/internal/vybium-pod2/values"
)

// wirePod is the JSON form. The id is a decimal string because field
// elements exceed the JSON safe integer range.
type wirePod struct {
	ID        string          `json:"id"`
	Entries   json.RawMessage `json:"entries"`
	Signature string          `json:"signature"`
	Signer    string          `json:"signer"`
}

func hexString(b []byte) string {
	return hex.EncodeToString(b)
}

// MarshalJSON implements json.Marshaler
func (p *SignedPod) MarshalJSON() ([]byte, error) {
	entries := json.RawMessage("{}")
	if p.Entries != nil {
		raw, err := values.MarshalJSON(p.Entries)
		if err != nil {
			return nil, err
		}
		entries = raw
	}
	return json.Marshal(wirePod{
		ID:        core.FormatElement(p.ID),
		Entries:   entries,
		Signature: p.Signature,
		Signer:    p.Signer,
	})
}

// UnmarshalJSON implements json.Unmarshaler. The result is not verified.
func (p *SignedPod) UnmarshalJSON(data []byte) error {
	var w wirePod
	if err := json.Unmarshal(data, &w); err != nil {
		return core.Wrap(core.CodeInvalidValue, "malformed signed pod json", err)
	}
	id, err := core.ParseElement(w.ID)
	if err != nil {
		return err
	}

	var entries *values.Dict
	if len(w.Entries) > 0 && string(w.Entries) != "null" {
		v, err := values.UnmarshalJSON(w.Entries)
		if err != nil {
			return err
		}
		d, ok := v.(*values.Dict)
		if !ok {
			return core.Errorf(core.CodeInvalidValue, "signed pod entries must be an object, got %s", v.Kind())
		}
		if d.Len() > 0 {
			entries = d
		}
	}

	*p = SignedPod{ID: id, Entries: entries, Signature: w.Signature, Signer: w.Signer}
	return nil
}

// Parse decodes a signed pod from its JSON form
func Parse(data []byte) (*SignedPod, error) {
	var p SignedPod
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, err
	}
	return &p, nil
}
