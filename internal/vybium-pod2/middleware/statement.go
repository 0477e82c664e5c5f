package middleware

import (
	"fmt"
	"strings"

	"github.com/vybium/vybium-crypto/pkg/vybium-crypto/field"
	"github.com/vybium/vybium-pod2/internal/vybium-pod2/core"
)

// AnchoredKey addresses one entry inside one pod
type AnchoredKey struct {
	PodID field.Element
	Key   field.Element
}

// NewAnchoredKey anchors a hashed key to a pod
func NewAnchoredKey(podID, key field.Element) AnchoredKey {
	return AnchoredKey{PodID: podID, Key: key}
}

// SelfKey anchors name to the pod under construction
func SelfKey(name string) AnchoredKey {
	return AnchoredKey{PodID: Self, Key: core.HashString(name)}
}

// Equal compares pod and key
func (ak AnchoredKey) Equal(other AnchoredKey) bool {
	return ak.PodID.Equal(other.PodID) && ak.Key.Equal(other.Key)
}

// String implements fmt.Stringer
func (ak AnchoredKey) String() string {
	return fmt.Sprintf("%s.%s", core.FormatElement(ak.PodID), core.FormatElement(ak.Key))
}

// ArgKind tags a StatementArg
type ArgKind int

const (
	ArgNone ArgKind = iota
	ArgLiteral
	ArgKey
)

// StatementArg is None, a literal field element or an anchored key
type StatementArg struct {
	Kind    ArgKind
	Literal field.Element
	Key     AnchoredKey
}

// NoneArg returns the empty argument
func NoneArg() StatementArg {
	return StatementArg{Kind: ArgNone}
}

// LiteralArg wraps a field element
func LiteralArg(v field.Element) StatementArg {
	return StatementArg{Kind: ArgLiteral, Literal: v}
}

// KeyArg wraps an anchored key
func KeyArg(ak AnchoredKey) StatementArg {
	return StatementArg{Kind: ArgKey, Key: ak}
}

// IsNone reports whether the argument is empty
func (a StatementArg) IsNone() bool {
	return a.Kind == ArgNone
}

// Equal compares tag and payload
func (a StatementArg) Equal(other StatementArg) bool {
	if a.Kind != other.Kind {
		return false
	}
	switch a.Kind {
	case ArgLiteral:
		return a.Literal.Equal(other.Literal)
	case ArgKey:
		return a.Key.Equal(other.Key)
	default:
		return true
	}
}

// flatten returns tag, a, b for the pod id commitment
func (a StatementArg) flatten() []field.Element {
	switch a.Kind {
	case ArgLiteral:
		return []field.Element{field.New(uint64(ArgLiteral)), a.Literal, field.Zero}
	case ArgKey:
		return []field.Element{field.New(uint64(ArgKey)), a.Key.PodID, a.Key.Key}
	default:
		return []field.Element{field.Zero, field.Zero, field.Zero}
	}
}

func (a StatementArg) String() string {
	switch a.Kind {
	case ArgLiteral:
		return core.FormatElement(a.Literal)
	case ArgKey:
		return a.Key.String()
	default:
		return "none"
	}
}

// Statement is a typed fact
type Statement struct {
	Predicate NativeStatement
	Args      []StatementArg
}

// NewStatement builds a statement
func NewStatement(p NativeStatement, args ...StatementArg) Statement {
	return Statement{Predicate: p, Args: args}
}

// NoneStatement returns the empty statement
func NoneStatement() Statement {
	return Statement{Predicate: StatementNone}
}

// ValueOf binds an anchored key to a value
func ValueOf(ak AnchoredKey, v field.Element) Statement {
	return NewStatement(StatementValueOf, KeyArg(ak), LiteralArg(v))
}

// IsNone reports whether s is the empty statement
func (s Statement) IsNone() bool {
	return s.Predicate == StatementNone
}

// trimmed drops trailing None arguments so padded and unpadded forms compare equal
func (s Statement) trimmed() []StatementArg {
	n := len(s.Args)
	for n > 0 && s.Args[n-1].IsNone() {
		n--
	}
	return s.Args[:n]
}

// Equal compares predicate and arguments, ignoring padding
func (s Statement) Equal(other Statement) bool {
	if s.Predicate != other.Predicate {
		return false
	}
	a, b := s.trimmed(), other.trimmed()
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !a[i].Equal(b[i]) {
			return false
		}
	}
	return true
}

// Clone returns a deep copy
func (s Statement) Clone() Statement {
	args := make([]StatementArg, len(s.Args))
	copy(args, s.Args)
	return Statement{Predicate: s.Predicate, Args: args}
}

// Pad returns a copy padded with None to exactly n arguments
func (s Statement) Pad(n int) (Statement, error) {
	if len(s.Args) > n {
		return Statement{}, core.Errorf(core.CodeTooManyStatementArgs,
			"%s has %d args, max %d", s.Predicate, len(s.Args), n)
	}
	out := Statement{Predicate: s.Predicate, Args: make([]StatementArg, n)}
	copy(out.Args, s.Args)
	for i := len(s.Args); i < n; i++ {
		out.Args[i] = NoneArg()
	}
	return out, nil
}

// HasKey reports whether any argument is the anchored key ak
func (s Statement) HasKey(ak AnchoredKey) bool {
	for _, a := range s.Args {
		if a.Kind == ArgKey && a.Key.Equal(ak) {
			return true
		}
	}
	return false
}

// Key returns the anchored key in argument i
func (s Statement) Key(i int) (AnchoredKey, bool) {
	if i >= len(s.Args) || s.Args[i].Kind != ArgKey {
		return AnchoredKey{}, false
	}
	return s.Args[i].Key, true
}

// ValueOfParts returns the key and value of a ValueOf statement
func (s Statement) ValueOfParts() (AnchoredKey, field.Element, bool) {
	if s.Predicate != StatementValueOf || len(s.Args) < 2 {
		return AnchoredKey{}, field.Zero, false
	}
	if s.Args[0].Kind != ArgKey || s.Args[1].Kind != ArgLiteral {
		return AnchoredKey{}, field.Zero, false
	}
	for _, extra := range s.Args[2:] {
		if !extra.IsNone() {
			return AnchoredKey{}, field.Zero, false
		}
	}
	return s.Args[0].Key, s.Args[1].Literal, true
}

// Flatten serialises the statement as code followed by three elements per argument
func (s Statement) Flatten() []field.Element {
	out := make([]field.Element, 0, 1+3*len(s.Args))
	out = append(out, s.Predicate.Code())
	for _, a := range s.Args {
		out = append(out, a.flatten()...)
	}
	return out
}

// String implements fmt.Stringer
func (s Statement) String() string {
	args := s.trimmed()
	parts := make([]string, len(args))
	for i, a := range args {
		parts[i] = a.String()
	}
	return fmt.Sprintf("%s(%s)", s.Predicate, strings.Join(parts, ", "))
}
