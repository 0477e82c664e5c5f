package frontend

import (
	"fmt"
	"log/slog"

	"github.com/vybium/vybium-pod2/internal/vybium-pod2/core"
	"github.com/vybium/vybium-pod2/internal/vybium-pod2/middleware"
	"github.com/vybium/vybium-pod2/internal/vybium-pod2/signedpod"
	"github.com/vybium/vybium-pod2/internal/vybium-pod2/utils"
	"github.com/vybium/vybium-pod2/internal/vybium-pod2/values"
)

// opArg is an operation argument after literal lifting
type opArg struct {
	key       *AnchoredKey
	statement *Statement
}

type step struct {
	statement Statement
	kind      middleware.NativeOperation
	args      []opArg
}

// MainPodBuilder accumulates the statements of a Main Pod together with
// the operations that justify them. It is not safe for concurrent use.
type MainPodBuilder struct {
	params  *utils.Params
	encoder *values.Encoder

	signedPods []*signedpod.SignedPod
	steps      []step
	public     []Statement

	selfNames map[string]bool
	lifted    int
}

// NewMainPodBuilder returns an empty builder. Capacity is checked by
// Compile, not while adding.
func NewMainPodBuilder(params *utils.Params) *MainPodBuilder {
	return &MainPodBuilder{
		params:    params.Clone(),
		encoder:   values.DefaultEncoder,
		selfNames: make(map[string]bool),
	}
}

// WithEncoder replaces the encoder used for literal values
func (b *MainPodBuilder) WithEncoder(enc *values.Encoder) *MainPodBuilder {
	b.encoder = enc
	return b
}

// AddSignedPod makes pod available as an input. Adding nil or the same pod
// twice is a no-op.
func (b *MainPodBuilder) AddSignedPod(pod *signedpod.SignedPod) {
	if pod == nil {
		return
	}
	for _, p := range b.signedPods {
		if p == pod || p.ID.Equal(pod.ID) {
			return
		}
	}
	b.signedPods = append(b.signedPods, pod)
}

// AddOperation applies op privately and returns the statement it proves
func (b *MainPodBuilder) AddOperation(op Operation) (Statement, error) {
	return b.apply(op, false)
}

// AddPublicOperation applies op and also publishes its statement
func (b *MainPodBuilder) AddPublicOperation(op Operation) (Statement, error) {
	return b.apply(op, true)
}

// apply undoes any entries lifted for op when op itself fails
func (b *MainPodBuilder) apply(op Operation, public bool) (Statement, error) {
	mark, lifted := len(b.steps), b.lifted
	st, err := b.add(op, public)
	if err != nil {
		for _, s := range b.steps[mark:] {
			if s.kind == middleware.OperationNewEntry {
				delete(b.selfNames, s.statement.Args[0].Key.Key)
			}
		}
		b.steps = b.steps[:mark]
		b.lifted = lifted
	}
	return st, err
}

func (b *MainPodBuilder) add(op Operation, public bool) (Statement, error) {
	pred, ok := middleware.Result(op.Kind)
	if !ok {
		return Statement{}, core.Errorf(core.CodeUnsupportedOperation, "builder cannot apply %s", op.Kind)
	}

	var (
		st   Statement
		args []opArg
		err  error
	)
	switch op.Kind {
	case middleware.OperationNone:
		if len(op.Args) != 0 {
			return Statement{}, arity(op, 0)
		}
		st = Statement{Predicate: pred}
	case middleware.OperationNewEntry:
		st, err = b.newEntry(op)
	case middleware.OperationTransitiveEqualFromStatements:
		st, args, err = b.transitive(op)
	case middleware.OperationGtToNotEqual, middleware.OperationLtToNotEqual:
		st, args, err = b.toNotEqual(op)
	default:
		st, args, err = b.fromEntries(op, pred)
	}
	if err != nil {
		return Statement{}, err
	}

	b.steps = append(b.steps, step{statement: st, kind: op.Kind, args: args})
	if public {
		b.public = append(b.public, st)
	}
	return st, nil
}

func arity(op Operation, want int) error {
	return core.Errorf(core.CodeInvalidValue, "%s takes %d arguments, got %d", op.Kind, want, len(op.Args))
}

func (b *MainPodBuilder) newEntry(op Operation) (Statement, error) {
	if len(op.Args) != 1 {
		return Statement{}, arity(op, 1)
	}
	entry, ok := op.Args[0].(Entry)
	if !ok {
		return Statement{}, core.Errorf(core.CodeUnknownArgKind, "NewEntry takes an Entry, got %T", op.Args[0])
	}
	if middleware.IsReservedKey(entry.Name) {
		return Statement{}, core.Errorf(core.CodeReservedKey, "entry name %q is reserved", entry.Name)
	}
	if b.selfNames[entry.Name] {
		return Statement{}, core.Errorf(core.CodeInvalidValue, "entry %q already exists", entry.Name)
	}
	if _, ok := literal(entry.Value); !ok {
		return Statement{}, core.Errorf(core.CodeInvalidValue, "entry %q has no value", entry.Name)
	}
	b.selfNames[entry.Name] = true
	return Statement{
		Predicate: middleware.StatementValueOf,
		Args:      []StatementArg{KeyArg(SelfKey(entry.Name)), LiteralArg(entry.Value)},
	}, nil
}

// lift turns a literal into a fresh private entry and returns its key
func (b *MainPodBuilder) lift(v values.Value) (AnchoredKey, error) {
	name := fmt.Sprintf("c%d", b.lifted)
	for b.selfNames[name] {
		b.lifted++
		name = fmt.Sprintf("c%d", b.lifted)
	}
	b.lifted++

	if _, err := b.add(NewOperation(middleware.OperationNewEntry, Entry{Name: name, Value: v}), false); err != nil {
		return AnchoredKey{}, err
	}
	slog.Debug("lifted literal", "entry", name)
	return SelfKey(name), nil
}

func (b *MainPodBuilder) keyArg(arg any) (AnchoredKey, error) {
	switch a := arg.(type) {
	case AnchoredKey:
		return a, nil
	case *AnchoredKey:
		return *a, nil
	case Entry:
		if _, err := b.add(NewOperation(middleware.OperationNewEntry, a), false); err != nil {
			return AnchoredKey{}, err
		}
		return SelfKey(a.Name), nil
	case Statement, *Statement:
		return AnchoredKey{}, core.Errorf(core.CodeUnknownArgKind, "statement where an entry is expected")
	}
	if v, ok := literal(arg); ok {
		return b.lift(v)
	}
	return AnchoredKey{}, core.Errorf(core.CodeUnknownArgKind, "operation argument of type %T", arg)
}

func (b *MainPodBuilder) fromEntries(op Operation, pred middleware.NativeStatement) (Statement, []opArg, error) {
	want := 2
	switch op.Kind {
	case middleware.OperationSumOf, middleware.OperationProductOf, middleware.OperationMaxOf:
		want = 3
	}
	if len(op.Args) != want {
		return Statement{}, nil, arity(op, want)
	}

	st := Statement{Predicate: pred}
	args := make([]opArg, 0, want)
	for _, arg := range op.Args {
		ak, err := b.keyArg(arg)
		if err != nil {
			return Statement{}, nil, err
		}
		st.Args = append(st.Args, KeyArg(ak))
		args = append(args, opArg{key: &ak})
	}
	return st, args, nil
}

func statementArg(arg any, pred middleware.NativeStatement) (Statement, error) {
	var st Statement
	switch a := arg.(type) {
	case Statement:
		st = a
	case *Statement:
		st = *a
	default:
		return Statement{}, core.Errorf(core.CodeUnknownArgKind, "expected a %s statement, got %T", pred, arg)
	}
	if st.Predicate != pred || len(st.Keys()) != 2 {
		return Statement{}, core.Errorf(core.CodeUnknownArgKind, "expected a %s statement, got %s", pred, st)
	}
	return st, nil
}

func (b *MainPodBuilder) transitive(op Operation) (Statement, []opArg, error) {
	if len(op.Args) != 2 {
		return Statement{}, nil, arity(op, 2)
	}
	first, err := statementArg(op.Args[0], middleware.StatementEqual)
	if err != nil {
		return Statement{}, nil, err
	}
	second, err := statementArg(op.Args[1], middleware.StatementEqual)
	if err != nil {
		return Statement{}, nil, err
	}
	if !first.Keys()[1].Equal(second.Keys()[0]) {
		return Statement{}, nil, core.Errorf(core.CodeInvalidValue, "%s and %s do not chain", first, second)
	}
	st := Statement{
		Predicate: middleware.StatementEqual,
		Args:      []StatementArg{KeyArg(first.Keys()[0]), KeyArg(second.Keys()[1])},
	}
	return st, []opArg{{statement: &first}, {statement: &second}}, nil
}

func (b *MainPodBuilder) toNotEqual(op Operation) (Statement, []opArg, error) {
	if len(op.Args) != 1 {
		return Statement{}, nil, arity(op, 1)
	}
	from := middleware.StatementGt
	if op.Kind == middleware.OperationLtToNotEqual {
		from = middleware.StatementLt
	}
	src, err := statementArg(op.Args[0], from)
	if err != nil {
		return Statement{}, nil, err
	}
	keys := src.Keys()
	st := Statement{
		Predicate: middleware.StatementNotEqual,
		Args:      []StatementArg{KeyArg(keys[0]), KeyArg(keys[1])},
	}
	return st, []opArg{{statement: &src}}, nil
}

// Statements returns every statement in the order it was added
func (b *MainPodBuilder) Statements() []Statement {
	out := make([]Statement, len(b.steps))
	for i, s := range b.steps {
		out[i] = s.statement
	}
	return out
}

// PublicStatements returns the published statements
func (b *MainPodBuilder) PublicStatements() []Statement {
	out := make([]Statement, len(b.public))
	copy(out, b.public)
	return out
}

// SignedPods returns the input records
func (b *MainPodBuilder) SignedPods() []*signedpod.SignedPod {
	out := make([]*signedpod.SignedPod, len(b.signedPods))
	copy(out, b.signedPods)
	return out
}
