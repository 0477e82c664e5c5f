package middleware

import (
	"github.com/vybium/vybium-crypto/pkg/vybium-crypto/field"
	"github.com/vybium/vybium-pod2/internal/vybium-pod2/core"
)

// checkFunc decides whether out follows from the referenced statements.
// Absent references are None statements.
type checkFunc func(refs []Statement, out Statement) bool

// checks is indexed by operation code. TestCheckTableIsExhaustive guards
// against gaps when operations are added.
var checks = [operationCount]checkFunc{
	OperationNone:                          checkNone,
	OperationNewEntry:                      checkNewEntry,
	OperationCopyStatement:                 checkCopy,
	OperationEqualFromEntries:              fromEntries(StatementEqual, func(a, b field.Element) bool { return a.Equal(b) }),
	OperationNotEqualFromEntries:           fromEntries(StatementNotEqual, func(a, b field.Element) bool { return !a.Equal(b) }),
	// Gt and Lt order canonical field values, so a negative Int sorts above every non-negative one
	OperationGtFromEntries:                 fromEntries(StatementGt, func(a, b field.Element) bool { return core.Compare(a, b) > 0 }),
	OperationLtFromEntries:                 fromEntries(StatementLt, func(a, b field.Element) bool { return core.Compare(a, b) < 0 }),
	OperationTransitiveEqualFromStatements: checkTransitiveEqual,
	OperationGtToNotEqual:                  toNotEqual(StatementGt),
	OperationLtToNotEqual:                  toNotEqual(StatementLt),
	OperationContainsFromEntries:           checkUnconstrained,
	OperationNotContainsFromEntries:        checkUnconstrained,
	OperationRenameContainedBy:             checkUnconstrained,
	OperationSumOf:                         ternary(StatementSumOf, func(a, b, c field.Element) bool { return a.Equal(b.Add(c)) }),
	OperationProductOf:                     ternary(StatementProductOf, func(a, b, c field.Element) bool { return a.Equal(b.Mul(c)) }),
	OperationMaxOf: ternary(StatementMaxOf, func(a, b, c field.Element) bool {
		if core.Compare(b, c) >= 0 {
			return a.Equal(b)
		}
		return a.Equal(c)
	}),
}

// Check reports whether applying kind to refs justifies out
func Check(kind NativeOperation, refs []Statement, out Statement) bool {
	if !kind.Valid() {
		return false
	}
	return checks[kind](refs, out)
}

// Constrained reports whether kind has a real check. The remaining kinds
// accept any output until their circuits exist.
func Constrained(kind NativeOperation) bool {
	switch kind {
	case OperationContainsFromEntries, OperationNotContainsFromEntries, OperationRenameContainedBy:
		return false
	default:
		return kind.Valid()
	}
}

func ref(refs []Statement, i int) Statement {
	if i < len(refs) {
		return refs[i]
	}
	return NoneStatement()
}

// onlyRefs reports whether every reference past the first n is None
func onlyRefs(refs []Statement, n int) bool {
	for i := n; i < len(refs); i++ {
		if !refs[i].IsNone() {
			return false
		}
	}
	return true
}

func checkNone(_ []Statement, out Statement) bool {
	return out.IsNone()
}

func checkNewEntry(refs []Statement, out Statement) bool {
	ak, _, ok := out.ValueOfParts()
	return ok && ak.PodID.Equal(Self) && onlyRefs(refs, 0)
}

func checkCopy(refs []Statement, out Statement) bool {
	src := ref(refs, 0)
	return !src.IsNone() && onlyRefs(refs, 1) && src.Equal(out)
}

func checkUnconstrained(_ []Statement, _ Statement) bool {
	return true
}

func fromEntries(pred NativeStatement, rel func(a, b field.Element) bool) checkFunc {
	return func(refs []Statement, out Statement) bool {
		ak1, v1, ok1 := ref(refs, 0).ValueOfParts()
		ak2, v2, ok2 := ref(refs, 1).ValueOfParts()
		if !ok1 || !ok2 || !onlyRefs(refs, 2) {
			return false
		}
		return rel(v1, v2) && out.Equal(NewStatement(pred, KeyArg(ak1), KeyArg(ak2)))
	}
}

func ternary(pred NativeStatement, rel func(a, b, c field.Element) bool) checkFunc {
	return func(refs []Statement, out Statement) bool {
		ak1, v1, ok1 := ref(refs, 0).ValueOfParts()
		ak2, v2, ok2 := ref(refs, 1).ValueOfParts()
		ak3, v3, ok3 := ref(refs, 2).ValueOfParts()
		if !ok1 || !ok2 || !ok3 || !onlyRefs(refs, 3) {
			return false
		}
		return rel(v1, v2, v3) && out.Equal(NewStatement(pred, KeyArg(ak1), KeyArg(ak2), KeyArg(ak3)))
	}
}

func binaryKeys(s Statement, pred NativeStatement) (AnchoredKey, AnchoredKey, bool) {
	if s.Predicate != pred {
		return AnchoredKey{}, AnchoredKey{}, false
	}
	a, ok1 := s.Key(0)
	b, ok2 := s.Key(1)
	return a, b, ok1 && ok2
}

func checkTransitiveEqual(refs []Statement, out Statement) bool {
	a, b1, ok1 := binaryKeys(ref(refs, 0), StatementEqual)
	b2, c, ok2 := binaryKeys(ref(refs, 1), StatementEqual)
	if !ok1 || !ok2 || !onlyRefs(refs, 2) || !b1.Equal(b2) {
		return false
	}
	return out.Equal(NewStatement(StatementEqual, KeyArg(a), KeyArg(c)))
}

func toNotEqual(from NativeStatement) checkFunc {
	return func(refs []Statement, out Statement) bool {
		a, b, ok := binaryKeys(ref(refs, 0), from)
		if !ok || !onlyRefs(refs, 1) {
			return false
		}
		return out.Equal(NewStatement(StatementNotEqual, KeyArg(a), KeyArg(b)))
	}
}

// Result returns the statement predicate an operation produces, and false
// when the builder cannot derive one
func Result(kind NativeOperation) (NativeStatement, bool) {
	switch kind {
	case OperationNone:
		return StatementNone, true
	case OperationNewEntry:
		return StatementValueOf, true
	case OperationEqualFromEntries, OperationTransitiveEqualFromStatements:
		return StatementEqual, true
	case OperationNotEqualFromEntries, OperationGtToNotEqual, OperationLtToNotEqual:
		return StatementNotEqual, true
	case OperationGtFromEntries:
		return StatementGt, true
	case OperationLtFromEntries:
		return StatementLt, true
	case OperationSumOf:
		return StatementSumOf, true
	case OperationProductOf:
		return StatementProductOf, true
	case OperationMaxOf:
		return StatementMaxOf, true
	default:
		return StatementNone, false
	}
}
