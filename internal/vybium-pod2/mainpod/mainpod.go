// Package mainpod lays compiled statements and operations into the fixed
// slot structure of the Main Pod circuit, checks them natively and derives
// the circuit signals.
package mainpod

import (
	"log/slog"

	"github.com/vybium/vybium-crypto/pkg/vybium-crypto/field"
	"github.com/vybium/vybium-pod2/internal/vybium-pod2/core"
	"github.com/vybium/vybium-pod2/internal/vybium-pod2/middleware"
	"github.com/vybium/vybium-pod2/internal/vybium-pod2/signedpod"
	"github.com/vybium/vybium-pod2/internal/vybium-pod2/utils"
)

// Inputs is the compiled form of a Main Pod. Statements and Operations are
// parallel; PublicStatements are repeated from Statements and are justified
// by copies.
type Inputs struct {
	SignedPods       []*signedpod.SignedPod
	Statements       []middleware.Statement
	Operations       []middleware.Operation
	PublicStatements []middleware.Statement
}

// OpRef is a resolved operation argument. An absent reference is distinct
// from a reference to slot 0.
type OpRef struct {
	Index   int
	Present bool
}

// Ref returns a present reference to slot i
func Ref(i int) OpRef {
	return OpRef{Index: i, Present: true}
}

// Signal returns the circuit encoding. The circuit wires absent references
// as 0, which it cannot tell apart from slot 0.
func (r OpRef) Signal() field.Element {
	if !r.Present {
		return field.Zero
	}
	return field.New(uint64(r.Index))
}

// ResolvedOperation is an operation whose arguments are slot references
type ResolvedOperation struct {
	Kind middleware.NativeOperation
	Args []OpRef
}

// Deref returns the statements the operation refers to. Absent or
// out-of-range references become None statements.
func (o ResolvedOperation) Deref(statements []middleware.Statement) []middleware.Statement {
	out := make([]middleware.Statement, len(o.Args))
	for i, ref := range o.Args {
		if ref.Present && ref.Index >= 0 && ref.Index < len(statements) {
			out[i] = statements[ref.Index]
		} else {
			out[i] = middleware.NoneStatement()
		}
	}
	return out
}

// MainPod is an assembled Main Pod
type MainPod struct {
	params *utils.Params

	// ID commits to the public region
	ID field.Element

	// SignedPods holds one record per input slot, NonePod where unused
	SignedPods []*signedpod.SignedPod

	// Statements holds every slot in layout order
	Statements []middleware.Statement

	// Operations justifies the private and public slots, in slot order
	Operations []ResolvedOperation
}

// TypeStatement returns the statement every Main Pod binds in its first
// public slot
func TypeStatement() middleware.Statement {
	return middleware.ValueOf(middleware.NewAnchoredKey(middleware.Self, middleware.TypeKey), middleware.TypeValue)
}

// New lays inputs into slots, resolves operation arguments and computes
// the pod id. Any structural problem aborts with an error; no partial pod
// is returned.
func New(params *utils.Params, inputs *Inputs) (*MainPod, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	params = params.Clone()

	if len(inputs.Operations) != len(inputs.Statements) {
		return nil, core.Errorf(core.CodeInvalidValue, "%d statements but %d operations",
			len(inputs.Statements), len(inputs.Operations))
	}

	pods, err := inputPods(params, inputs.SignedPods)
	if err != nil {
		return nil, err
	}

	statements, err := layoutStatements(params, pods, inputs)
	if err != nil {
		return nil, err
	}

	operations, err := resolveOperations(params, statements, inputs.Operations)
	if err != nil {
		return nil, err
	}

	pod := &MainPod{
		params:     params,
		SignedPods: pods,
		Statements: statements,
		Operations: operations,
	}
	pod.ID = pod.computeID()

	slog.Debug("main pod assembled",
		"id", core.FormatElement(pod.ID),
		"slots", len(statements),
		"signed_pods", len(inputs.SignedPods),
		"private", len(inputs.Statements),
		"public", len(inputs.PublicStatements))

	return pod, nil
}

func inputPods(params *utils.Params, given []*signedpod.SignedPod) ([]*signedpod.SignedPod, error) {
	if len(given) > params.MaxInputSignedPods {
		return nil, core.Errorf(core.CodeTooManySignedPods, "%d signed pods, max %d",
			len(given), params.MaxInputSignedPods)
	}
	pods := make([]*signedpod.SignedPod, params.MaxInputSignedPods)
	for i := range pods {
		if i < len(given) && given[i] != nil {
			pods[i] = given[i]
		} else {
			pods[i] = signedpod.NonePod()
		}
	}
	return pods, nil
}

func padStatement(params *utils.Params, s middleware.Statement) (middleware.Statement, error) {
	return s.Pad(params.MaxStatementArgs)
}

func noneStatement(params *utils.Params) middleware.Statement {
	s, _ := middleware.NoneStatement().Pad(params.MaxStatementArgs)
	return s
}

func layoutStatements(params *utils.Params, pods []*signedpod.SignedPod, inputs *Inputs) ([]middleware.Statement, error) {
	statements := make([]middleware.Statement, 0, params.TotalStatements())

	appendRegion := func(region []middleware.Statement, size int) error {
		for i := 0; i < size; i++ {
			if i < len(region) {
				padded, err := padStatement(params, region[i])
				if err != nil {
					return err
				}
				statements = append(statements, padded)
			} else {
				statements = append(statements, noneStatement(params))
			}
		}
		return nil
	}

	for i, pod := range pods {
		podStatements, err := pod.PublicStatements()
		if err != nil {
			return nil, err
		}
		if len(podStatements) > params.MaxSignedPodValues {
			return nil, core.Errorf(core.CodeTooManyPodValues, "signed pod %d has %d entries, max %d",
				i, len(podStatements), params.MaxSignedPodValues)
		}
		if err := checkProofDepth(params, i, pod); err != nil {
			return nil, err
		}
		if err := appendRegion(podStatements, params.MaxSignedPodValues); err != nil {
			return nil, err
		}
	}

	if len(inputs.Statements) > params.MaxPrivateStatements() {
		return nil, core.Errorf(core.CodeTooManyStatements, "%d statements, max %d",
			len(inputs.Statements), params.MaxPrivateStatements())
	}
	for i, st := range inputs.Statements {
		if ak, _, ok := st.ValueOfParts(); ok && ak.PodID.Equal(middleware.Self) &&
			(ak.Key.Equal(middleware.TypeKey) || ak.Key.Equal(middleware.SignerKey)) {
			return nil, core.Errorf(core.CodeReservedKey, "private statement %d binds a reserved key of the pod", i)
		}
	}
	if err := appendRegion(inputs.Statements, params.MaxPrivateStatements()); err != nil {
		return nil, err
	}

	if len(inputs.PublicStatements) > params.MaxPublicStatements-1 {
		return nil, core.Errorf(core.CodeTooManyPublicStatements, "%d public statements, max %d",
			len(inputs.PublicStatements), params.MaxPublicStatements-1)
	}
	public := make([]middleware.Statement, 0, params.MaxPublicStatements)
	public = append(public, TypeStatement())
	public = append(public, inputs.PublicStatements...)
	if err := appendRegion(public, params.MaxPublicStatements); err != nil {
		return nil, err
	}

	return statements, nil
}

func checkProofDepth(params *utils.Params, index int, pod *signedpod.SignedPod) error {
	kvs, err := pod.KVs()
	if err != nil {
		return err
	}
	for _, kv := range kvs {
		proof, err := pod.Proof(kv.Key)
		if err != nil {
			return err
		}
		if proof.Depth() > params.MaxMerkleDepth {
			return core.Errorf(core.CodeMerkleDepth, "signed pod %d needs depth %d, max %d",
				index, proof.Depth(), params.MaxMerkleDepth)
		}
	}
	return nil
}

// findArg maps an operation argument to the first slot carrying it
func findArg(statements []middleware.Statement, arg middleware.OperationArg) (OpRef, error) {
	switch arg.Kind {
	case middleware.OpArgNone:
		return OpRef{}, nil
	case middleware.OpArgKey:
		for i, s := range statements {
			if s.HasKey(arg.Key) {
				return Ref(i), nil
			}
		}
		slog.Debug("anchored key not in layout", "key", arg.Key.String())
		return OpRef{}, core.Errorf(core.CodeArgumentNotFound, "no statement carries %s", arg.Key)
	case middleware.OpArgStatement:
		for i, s := range statements {
			if s.Equal(arg.Statement) {
				return Ref(i), nil
			}
		}
		slog.Debug("statement not in layout", "statement", arg.Statement.String())
		return OpRef{}, core.Errorf(core.CodeArgumentNotFound, "no slot holds %s", arg.Statement)
	default:
		return OpRef{}, core.Errorf(core.CodeUnknownArgKind, "operation argument kind %d", int(arg.Kind))
	}
}

func resolve(params *utils.Params, statements []middleware.Statement, op middleware.Operation) (ResolvedOperation, error) {
	if !op.Kind.Valid() {
		return ResolvedOperation{}, core.Errorf(core.CodeUnsupportedOperation, "unknown operation %s", op.Kind)
	}
	padded, err := op.Pad(params.MaxOperationArgs)
	if err != nil {
		return ResolvedOperation{}, err
	}
	resolved := ResolvedOperation{Kind: padded.Kind, Args: make([]OpRef, len(padded.Args))}
	for i, arg := range padded.Args {
		ref, err := findArg(statements, arg)
		if err != nil {
			return ResolvedOperation{}, err
		}
		resolved.Args[i] = ref
	}
	return resolved, nil
}

func resolveOperations(params *utils.Params, statements []middleware.Statement, ops []middleware.Operation) ([]ResolvedOperation, error) {
	out := make([]ResolvedOperation, 0, params.MaxStatements)

	for i := 0; i < params.MaxPrivateStatements(); i++ {
		op := middleware.NoneOperation()
		if i < len(ops) {
			op = ops[i]
		}
		resolved, err := resolve(params, statements, op)
		if err != nil {
			return nil, err
		}
		out = append(out, resolved)
	}

	offset := params.OffsetPublicStatements()
	for i := 0; i < params.MaxPublicStatements; i++ {
		st := statements[offset+i]
		var op middleware.Operation
		switch {
		case i == 0:
			op = middleware.NewOperation(middleware.OperationNewEntry)
		case st.IsNone():
			op = middleware.NoneOperation()
		default:
			op = middleware.NewOperation(middleware.OperationCopyStatement, middleware.StatementOpArg(st))
		}
		resolved, err := resolve(params, statements, op)
		if err != nil {
			return nil, err
		}
		out = append(out, resolved)
	}

	return out, nil
}

// Params returns the parameters the pod was assembled with
func (p *MainPod) Params() *utils.Params {
	return p.params.Clone()
}

// PublicStatements returns the public region, starting with _type
func (p *MainPod) PublicStatements() []middleware.Statement {
	region := p.Statements[p.params.OffsetPublicStatements():]
	out := make([]middleware.Statement, len(region))
	copy(out, region)
	return out
}

// PrivateStatements returns the private region
func (p *MainPod) PrivateStatements() []middleware.Statement {
	start := p.params.OffsetPrivateStatements()
	region := p.Statements[start : start+p.params.MaxPrivateStatements()]
	out := make([]middleware.Statement, len(region))
	copy(out, region)
	return out
}

// computeID hashes the flattened public region
func (p *MainPod) computeID() field.Element {
	var flat []field.Element
	for _, s := range p.Statements[p.params.OffsetPublicStatements():] {
		flat = append(flat, s.Flatten()...)
	}
	return core.HashMany(flat)
}
