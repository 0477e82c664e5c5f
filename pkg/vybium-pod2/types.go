package vybiumpod2

import (
	"github.com/vybium/vybium-crypto/pkg/vybium-crypto/field"
	"github.com/vybium/vybium-pod2/internal/vybium-pod2/containers"
	"github.com/vybium/vybium-pod2/internal/vybium-pod2/frontend"
	"github.com/vybium/vybium-pod2/internal/vybium-pod2/mainpod"
	"github.com/vybium/vybium-pod2/internal/vybium-pod2/middleware"
	"github.com/vybium/vybium-pod2/internal/vybium-pod2/prover"
	"github.com/vybium/vybium-pod2/internal/vybium-pod2/signedpod"
	"github.com/vybium/vybium-pod2/internal/vybium-pod2/signer"
	"github.com/vybium/vybium-pod2/internal/vybium-pod2/utils"
	"github.com/vybium/vybium-pod2/internal/vybium-pod2/values"
)

// FieldElement is a Goldilocks field element
type FieldElement = field.Element

// Value is an entry value: String, Int, Raw or a composite
type Value = values.Value

// Scalar and composite values
type (
	String      = values.String
	Int         = values.Int
	Raw         = values.Raw
	Dict        = values.Dict
	Array       = values.Array
	Set         = values.Set
	DictBuilder = values.DictBuilder
	ListBuilder = values.ListBuilder
	Encoder     = values.Encoder
)

// Containers and proofs
type (
	Dictionary = containers.Dictionary
	Proof      = containers.Proof
)

// Params sizes the Main Pod circuit
type Params = utils.Params

// Signer signs pods
type Signer = signer.Signer

// SignedPod is a signed record
type SignedPod = signedpod.SignedPod

// Builder types
type (
	MainPodBuilder = frontend.MainPodBuilder
	Operation      = frontend.Operation
	Statement      = frontend.Statement
	AnchoredKey    = frontend.AnchoredKey
	Entry          = frontend.Entry
	Origin         = frontend.Origin
)

// Assembled pods
type (
	MainPod = mainpod.MainPod
	Inputs  = mainpod.Inputs
	Signals = mainpod.Signals
	Report  = mainpod.Report
)

// Proof-system boundary
type (
	Backend   = prover.Backend
	Artifacts = prover.Artifacts
	Request   = prover.Request
	Result    = prover.Result
)

// NativeOperation names an operation
type NativeOperation = middleware.NativeOperation

// NativeStatement names a statement predicate
type NativeStatement = middleware.NativeStatement

// Operations
const (
	OperationNone                          = middleware.OperationNone
	OperationNewEntry                      = middleware.OperationNewEntry
	OperationCopyStatement                 = middleware.OperationCopyStatement
	OperationEqualFromEntries              = middleware.OperationEqualFromEntries
	OperationNotEqualFromEntries           = middleware.OperationNotEqualFromEntries
	OperationGtFromEntries                 = middleware.OperationGtFromEntries
	OperationLtFromEntries                 = middleware.OperationLtFromEntries
	OperationTransitiveEqualFromStatements = middleware.OperationTransitiveEqualFromStatements
	OperationGtToNotEqual                  = middleware.OperationGtToNotEqual
	OperationLtToNotEqual                  = middleware.OperationLtToNotEqual
	OperationContainsFromEntries           = middleware.OperationContainsFromEntries
	OperationNotContainsFromEntries        = middleware.OperationNotContainsFromEntries
	OperationRenameContainedBy             = middleware.OperationRenameContainedBy
	OperationSumOf                         = middleware.OperationSumOf
	OperationProductOf                     = middleware.OperationProductOf
	OperationMaxOf                         = middleware.OperationMaxOf
)

// Statement predicates
const (
	StatementNone        = middleware.StatementNone
	StatementValueOf     = middleware.StatementValueOf
	StatementEqual       = middleware.StatementEqual
	StatementNotEqual    = middleware.StatementNotEqual
	StatementGt          = middleware.StatementGt
	StatementLt          = middleware.StatementLt
	StatementContains    = middleware.StatementContains
	StatementNotContains = middleware.StatementNotContains
	StatementSumOf       = middleware.StatementSumOf
	StatementProductOf   = middleware.StatementProductOf
	StatementMaxOf       = middleware.StatementMaxOf
)

// Signature schemes
const (
	AlgEd25519    = signer.AlgEd25519
	AlgDilithium3 = signer.AlgDilithium3
)
