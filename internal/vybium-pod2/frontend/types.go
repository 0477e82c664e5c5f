// Package frontend is the ergonomic layer over the statement IR. Callers
// name keys by string, pass literal values where entries are expected and
// let the builder lift them into entries of the pod being built.
package frontend

import (
	"fmt"
	"strings"

	"github.com/vybium/vybium-crypto/pkg/vybium-crypto/field"
	"github.com/vybium/vybium-pod2/internal/vybium-pod2/core"
	"github.com/vybium/vybium-pod2/internal/vybium-pod2/middleware"
	"github.com/vybium/vybium-pod2/internal/vybium-pod2/signedpod"
	"github.com/vybium/vybium-pod2/internal/vybium-pod2/values"
)

// PodClass tells main pods and signed pods apart in an Origin
type PodClass int

const (
	PodClassMain PodClass = iota
	PodClassSigned
)

func (c PodClass) String() string {
	switch c {
	case PodClassMain:
		return "main"
	case PodClassSigned:
		return "signed"
	default:
		return fmt.Sprintf("PodClass(%d)", int(c))
	}
}

// Origin names the pod an entry lives in
type Origin struct {
	Class PodClass
	ID    field.Element
}

// SelfOrigin is the pod under construction
func SelfOrigin() Origin {
	return Origin{Class: PodClassMain, ID: middleware.Self}
}

// SignedOrigin is an input signed pod
func SignedOrigin(pod *signedpod.SignedPod) Origin {
	return Origin{Class: PodClassSigned, ID: pod.ID}
}

// AnchoredKey is a string key in a given pod
type AnchoredKey struct {
	Origin Origin
	Key    string
}

// SelfKey anchors name at the pod under construction
func SelfKey(name string) AnchoredKey {
	return AnchoredKey{Origin: SelfOrigin(), Key: name}
}

// SignedKey anchors name at an input signed pod
func SignedKey(pod *signedpod.SignedPod, name string) AnchoredKey {
	return AnchoredKey{Origin: SignedOrigin(pod), Key: name}
}

// Equal compares origin and key name
func (ak AnchoredKey) Equal(other AnchoredKey) bool {
	return ak.Origin.Class == other.Origin.Class && ak.Origin.ID.Equal(other.Origin.ID) && ak.Key == other.Key
}

func (ak AnchoredKey) lower() middleware.AnchoredKey {
	return middleware.NewAnchoredKey(ak.Origin.ID, core.HashString(ak.Key))
}

func (ak AnchoredKey) String() string {
	return fmt.Sprintf("%s:%s.%s", ak.Origin.Class, core.FormatElement(ak.Origin.ID), ak.Key)
}

// Entry is a named value for NewEntry
type Entry struct {
	Name  string
	Value values.Value
}

// StatementArg is either an anchored key or a literal value
type StatementArg struct {
	Kind    middleware.ArgKind
	Key     AnchoredKey
	Literal values.Value
}

// KeyArg wraps an anchored key
func KeyArg(ak AnchoredKey) StatementArg {
	return StatementArg{Kind: middleware.ArgKey, Key: ak}
}

// LiteralArg wraps a value
func LiteralArg(v values.Value) StatementArg {
	return StatementArg{Kind: middleware.ArgLiteral, Literal: v}
}

// Statement is a claim in builder terms
type Statement struct {
	Predicate middleware.NativeStatement
	Args      []StatementArg
}

// Keys returns the anchored keys among the arguments, in order
func (s Statement) Keys() []AnchoredKey {
	var out []AnchoredKey
	for _, a := range s.Args {
		if a.Kind == middleware.ArgKey {
			out = append(out, a.Key)
		}
	}
	return out
}

func (s Statement) String() string {
	parts := make([]string, len(s.Args))
	for i, a := range s.Args {
		switch a.Kind {
		case middleware.ArgKey:
			parts[i] = a.Key.String()
		case middleware.ArgLiteral:
			parts[i] = fmt.Sprintf("%v", a.Literal)
		default:
			parts[i] = "none"
		}
	}
	return fmt.Sprintf("%s(%s)", s.Predicate, strings.Join(parts, ", "))
}

// Operation is an operation in builder terms. Each argument is an
// AnchoredKey, an Entry, a Statement returned by the builder, or a literal:
// a values.Value, string, int or int64.
type Operation struct {
	Kind middleware.NativeOperation
	Args []any
}

// NewOperation builds an operation
func NewOperation(kind middleware.NativeOperation, args ...any) Operation {
	return Operation{Kind: kind, Args: args}
}

// literal converts a Go scalar or value into a values.Value
func literal(arg any) (values.Value, bool) {
	switch v := arg.(type) {
	case values.Value:
		return v, v != nil
	case string:
		return values.String(v), true
	case int:
		return values.Int(v), true
	case int64:
		return values.Int(v), true
	default:
		return nil, false
	}
}
