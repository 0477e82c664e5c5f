package frontend

import (
	"log/slog"

	"github.com/vybium/vybium-pod2/internal/vybium-pod2/core"
	"github.com/vybium/vybium-pod2/internal/vybium-pod2/mainpod"
	"github.com/vybium/vybium-pod2/internal/vybium-pod2/middleware"
)

// Compile lowers the builder state into Main Pod inputs. String keys are
// hashed, literals are encoded and every region is checked against the
// builder's params.
func (b *MainPodBuilder) Compile() (*mainpod.Inputs, error) {
	params := b.params

	if len(b.signedPods) > params.MaxInputSignedPods {
		return nil, core.Errorf(core.CodeTooManySignedPods, "%d signed pods, max %d",
			len(b.signedPods), params.MaxInputSignedPods)
	}
	if len(b.steps) > params.MaxPrivateStatements() {
		return nil, core.Errorf(core.CodeTooManyStatements, "%d statements, max %d",
			len(b.steps), params.MaxPrivateStatements())
	}
	if len(b.public) > params.MaxPublicStatements-1 {
		return nil, core.Errorf(core.CodeTooManyPublicStatements, "%d public statements, max %d",
			len(b.public), params.MaxPublicStatements-1)
	}

	inputs := &mainpod.Inputs{
		SignedPods:       b.SignedPods(),
		Statements:       make([]middleware.Statement, 0, len(b.steps)),
		Operations:       make([]middleware.Operation, 0, len(b.steps)),
		PublicStatements: make([]middleware.Statement, 0, len(b.public)),
	}

	for _, s := range b.steps {
		st, err := b.lowerStatement(s.statement)
		if err != nil {
			return nil, err
		}
		op, err := b.lowerOperation(s)
		if err != nil {
			return nil, err
		}
		inputs.Statements = append(inputs.Statements, st)
		inputs.Operations = append(inputs.Operations, op)
	}
	for _, s := range b.public {
		st, err := b.lowerStatement(s)
		if err != nil {
			return nil, err
		}
		inputs.PublicStatements = append(inputs.PublicStatements, st)
	}

	slog.Debug("compiled main pod inputs",
		"signed_pods", len(inputs.SignedPods),
		"statements", len(inputs.Statements),
		"public", len(inputs.PublicStatements))
	return inputs, nil
}

// Build compiles and assembles the Main Pod
func (b *MainPodBuilder) Build() (*mainpod.MainPod, error) {
	inputs, err := b.Compile()
	if err != nil {
		return nil, err
	}
	return mainpod.New(b.params, inputs)
}

func (b *MainPodBuilder) lowerKey(ak AnchoredKey) (middleware.AnchoredKey, error) {
	if ak.Origin.Class == PodClassSigned {
		known := false
		for _, p := range b.signedPods {
			if p.ID.Equal(ak.Origin.ID) {
				known = true
				break
			}
		}
		if !known {
			return middleware.AnchoredKey{}, core.Errorf(core.CodeArgumentNotFound,
				"%s refers to a signed pod that was not added", ak)
		}
	}
	return ak.lower(), nil
}

func (b *MainPodBuilder) lowerStatement(s Statement) (middleware.Statement, error) {
	if len(s.Args) > b.params.MaxStatementArgs {
		return middleware.Statement{}, core.Errorf(core.CodeTooManyStatementArgs, "%s has %d args, max %d",
			s, len(s.Args), b.params.MaxStatementArgs)
	}
	args := make([]middleware.StatementArg, len(s.Args))
	for i, a := range s.Args {
		switch a.Kind {
		case middleware.ArgKey:
			ak, err := b.lowerKey(a.Key)
			if err != nil {
				return middleware.Statement{}, err
			}
			args[i] = middleware.KeyArg(ak)
		case middleware.ArgLiteral:
			v, err := b.encoder.Encode(a.Literal)
			if err != nil {
				return middleware.Statement{}, err
			}
			args[i] = middleware.LiteralArg(v)
		default:
			args[i] = middleware.NoneArg()
		}
	}
	return middleware.NewStatement(s.Predicate, args...), nil
}

func (b *MainPodBuilder) lowerOperation(s step) (middleware.Operation, error) {
	if len(s.args) > b.params.MaxOperationArgs {
		return middleware.Operation{}, core.Errorf(core.CodeTooManyOperationArgs, "%s has %d args, max %d",
			s.kind, len(s.args), b.params.MaxOperationArgs)
	}
	args := make([]middleware.OperationArg, len(s.args))
	for i, a := range s.args {
		switch {
		case a.key != nil:
			ak, err := b.lowerKey(*a.key)
			if err != nil {
				return middleware.Operation{}, err
			}
			args[i] = middleware.KeyOpArg(ak)
		case a.statement != nil:
			st, err := b.lowerStatement(*a.statement)
			if err != nil {
				return middleware.Operation{}, err
			}
			args[i] = middleware.StatementOpArg(st)
		default:
			return middleware.Operation{}, core.Errorf(core.CodeUnknownArgKind, "empty argument %d of %s", i, s.kind)
		}
	}
	return middleware.NewOperation(s.kind, args...), nil
}
