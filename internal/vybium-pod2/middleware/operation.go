package middleware

import (
	"fmt"
	"strings"

	"github.com/vybium/vybium-pod2/internal/vybium-pod2/core"
)

// OpArgKind tags an OperationArg
type OpArgKind int

const (
	OpArgNone OpArgKind = iota
	OpArgStatement
	OpArgKey
)

// OperationArg refers to a prior statement, either directly or through an
// anchored key it carries
type OperationArg struct {
	Kind      OpArgKind
	Statement Statement
	Key       AnchoredKey
}

// NoneOpArg returns the empty operation argument
func NoneOpArg() OperationArg {
	return OperationArg{Kind: OpArgNone}
}

// StatementOpArg refers to a statement
func StatementOpArg(s Statement) OperationArg {
	return OperationArg{Kind: OpArgStatement, Statement: s}
}

// KeyOpArg refers to the statement carrying ak
func KeyOpArg(ak AnchoredKey) OperationArg {
	return OperationArg{Kind: OpArgKey, Key: ak}
}

func (a OperationArg) String() string {
	switch a.Kind {
	case OpArgStatement:
		return a.Statement.String()
	case OpArgKey:
		return a.Key.String()
	default:
		return "none"
	}
}

// Operation is a derivation rule applied to prior statements
type Operation struct {
	Kind NativeOperation
	Args []OperationArg
}

// NewOperation builds an operation
func NewOperation(kind NativeOperation, args ...OperationArg) Operation {
	return Operation{Kind: kind, Args: args}
}

// NoneOperation returns the empty operation
func NoneOperation() Operation {
	return Operation{Kind: OperationNone}
}

// Pad returns a copy padded with None to exactly n arguments
func (o Operation) Pad(n int) (Operation, error) {
	if len(o.Args) > n {
		return Operation{}, core.Errorf(core.CodeTooManyOperationArgs,
			"%s has %d args, max %d", o.Kind, len(o.Args), n)
	}
	out := Operation{Kind: o.Kind, Args: make([]OperationArg, n)}
	copy(out.Args, o.Args)
	for i := len(o.Args); i < n; i++ {
		out.Args[i] = NoneOpArg()
	}
	return out, nil
}

// String implements fmt.Stringer
func (o Operation) String() string {
	parts := make([]string, 0, len(o.Args))
	for _, a := range o.Args {
		if a.Kind == OpArgNone {
			continue
		}
		parts = append(parts, a.String())
	}
	return fmt.Sprintf("%s(%s)", o.Kind, strings.Join(parts, ", "))
}
