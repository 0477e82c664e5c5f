package vybiumpod2

import (
	"crypto/rand"

	"github.com/vybium/vybium-pod2/internal/vybium-pod2/containers"
	"github.com/vybium/vybium-pod2/internal/vybium-pod2/core"
	"github.com/vybium/vybium-pod2/internal/vybium-pod2/frontend"
	"github.com/vybium/vybium-pod2/internal/vybium-pod2/mainpod"
	"github.com/vybium/vybium-pod2/internal/vybium-pod2/prover"
	"github.com/vybium/vybium-pod2/internal/vybium-pod2/signedpod"
	"github.com/vybium/vybium-pod2/internal/vybium-pod2/signer"
	"github.com/vybium/vybium-pod2/internal/vybium-pod2/utils"
	"github.com/vybium/vybium-pod2/internal/vybium-pod2/values"
)

// DefaultParams returns the capacity of the reference circuit
func DefaultParams() *Params {
	return utils.DefaultParams()
}

// HashString maps a string to a field element
func HashString(s string) FieldElement {
	return core.HashString(s)
}

// Encode commits to a value with the shared encoder
func Encode(v Value) (FieldElement, error) {
	return values.Encode(v)
}

// NewDictBuilder starts a dictionary value
func NewDictBuilder() *DictBuilder {
	return values.NewDictBuilder()
}

// NewArrayBuilder starts an array value
func NewArrayBuilder() *ListBuilder {
	return values.NewArrayBuilder()
}

// NewSetBuilder starts a set value
func NewSetBuilder() *ListBuilder {
	return values.NewSetBuilder()
}

// GenerateSigner creates a key pair for alg from crypto/rand
func GenerateSigner(alg string) (Signer, error) {
	return signer.Generate(alg, rand.Reader)
}

// LoadSigner reads a key file written by SaveSigner
func LoadSigner(path string) (Signer, error) {
	return signer.LoadKeyFile(path)
}

// SaveSigner writes a key file readable only by the owner
func SaveSigner(path string, s Signer) error {
	return signer.SaveKeyFile(path, s)
}

// Sign signs entries. The reserved keys _type and _signer are rejected.
func Sign(entries *Dict, s Signer) (*SignedPod, error) {
	return signedpod.Sign(entries, s)
}

// ParseSignedPod decodes the JSON wire form
func ParseSignedPod(data []byte) (*SignedPod, error) {
	return signedpod.Parse(data)
}

// NewMainPodBuilder returns an empty builder for params
func NewMainPodBuilder(params *Params) *MainPodBuilder {
	return frontend.NewMainPodBuilder(params)
}

// NewOperation builds a builder operation
func NewOperation(kind NativeOperation, args ...any) Operation {
	return frontend.NewOperation(kind, args...)
}

// SelfKey anchors name at the pod under construction
func SelfKey(name string) AnchoredKey {
	return frontend.SelfKey(name)
}

// SignedKey anchors name at a signed pod
func SignedKey(pod *SignedPod, name string) AnchoredKey {
	return frontend.SignedKey(pod, name)
}

// NewMainPod assembles compiled inputs
func NewMainPod(params *Params, inputs *Inputs) (*MainPod, error) {
	return mainpod.New(params, inputs)
}

// NewExecBackend runs command once per proof
func NewExecBackend(command string, args ...string) *prover.ExecBackend {
	return prover.NewExecBackend(command, args...)
}

// DialProver connects to a prover daemon
func DialProver(target string) (*prover.GRPCBackend, error) {
	return prover.Dial(target, prover.DialOptions{})
}

// VerifyEntry checks a dictionary membership proof for key and value
func VerifyEntry(proof Proof, key, value FieldElement) bool {
	return containers.VerifyEntry(proof, key, value)
}
