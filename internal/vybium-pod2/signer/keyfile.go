package signer

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
)

// KeyFile is the on-disk form of a signing key
type KeyFile struct {
	Algorithm  string `json:"algorithm"`
	PublicKey  string `json:"public_key"`
	PrivateKey string `json:"private_key"`
}

// Export converts a signer to its key file form
func Export(s Signer) KeyFile {
	return KeyFile{
		Algorithm:  s.Algorithm(),
		PublicKey:  hex.EncodeToString(s.PublicKey()),
		PrivateKey: hex.EncodeToString(s.PrivateKey()),
	}
}

// Import restores a signer and checks its public key matches the file
func Import(kf KeyFile) (Signer, error) {
	raw, err := hex.DecodeString(kf.PrivateKey)
	if err != nil {
		return nil, fmt.Errorf("invalid private key hex: %w", err)
	}
	s, err := FromPrivateKey(kf.Algorithm, raw)
	if err != nil {
		return nil, err
	}
	if kf.PublicKey != "" && kf.PublicKey != PublicKeyHex(s) {
		return nil, fmt.Errorf("public key does not match private key")
	}
	return s, nil
}

// SaveKeyFile writes s to path with owner-only permissions
func SaveKeyFile(path string, s Signer) error {
	data, err := json.MarshalIndent(Export(s), "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode key file: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write key file: %w", err)
	}
	return nil
}

// LoadKeyFile reads a signer from path
func LoadKeyFile(path string) (Signer, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read key file: %w", err)
	}
	var kf KeyFile
	if err := json.Unmarshal(data, &kf); err != nil {
		return nil, fmt.Errorf("failed to parse key file: %w", err)
	}
	return Import(kf)
}
