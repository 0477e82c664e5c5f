// Package middleware holds the statement and operation vocabulary shared by
// the builder and the Main Pod assembler.
package middleware

import (
	"fmt"

	"github.com/vybium/vybium-crypto/pkg/vybium-crypto/field"
	"github.com/vybium/vybium-pod2/internal/vybium-pod2/core"
)

// NativeStatement is a statement predicate. Values are the circuit codes.
type NativeStatement int

const (
	StatementNone NativeStatement = iota
	StatementValueOf
	StatementEqual
	StatementNotEqual
	StatementGt
	StatementLt
	StatementContains
	StatementNotContains
	StatementSumOf
	StatementProductOf
	StatementMaxOf

	statementCount
)

var statementNames = [statementCount]string{
	StatementNone:        "None",
	StatementValueOf:     "ValueOf",
	StatementEqual:       "Equal",
	StatementNotEqual:    "NotEqual",
	StatementGt:          "Gt",
	StatementLt:          "Lt",
	StatementContains:    "Contains",
	StatementNotContains: "NotContains",
	StatementSumOf:       "SumOf",
	StatementProductOf:   "ProductOf",
	StatementMaxOf:       "MaxOf",
}

// String returns the predicate name
func (s NativeStatement) String() string {
	if s.Valid() {
		return statementNames[s]
	}
	return fmt.Sprintf("NativeStatement(%d)", int(s))
}

// Valid reports whether s is a known predicate
func (s NativeStatement) Valid() bool {
	return s >= 0 && s < statementCount
}

// Code returns the circuit code as a field element
func (s NativeStatement) Code() field.Element {
	return field.New(uint64(s))
}

// NativeOperation is a derivation rule. Values are the circuit codes.
type NativeOperation int

const (
	OperationNone NativeOperation = iota
	OperationNewEntry
	OperationCopyStatement
	OperationEqualFromEntries
	OperationNotEqualFromEntries
	OperationGtFromEntries
	OperationLtFromEntries
	OperationTransitiveEqualFromStatements
	OperationGtToNotEqual
	OperationLtToNotEqual
	OperationContainsFromEntries
	OperationNotContainsFromEntries
	OperationRenameContainedBy
	OperationSumOf
	OperationProductOf
	OperationMaxOf

	operationCount
)

var operationNames = [operationCount]string{
	OperationNone:                          "None",
	OperationNewEntry:                      "NewEntry",
	OperationCopyStatement:                 "CopyStatement",
	OperationEqualFromEntries:              "EqualFromEntries",
	OperationNotEqualFromEntries:           "NotEqualFromEntries",
	OperationGtFromEntries:                 "GtFromEntries",
	OperationLtFromEntries:                 "LtFromEntries",
	OperationTransitiveEqualFromStatements: "TransitiveEqualFromStatements",
	OperationGtToNotEqual:                  "GtToNotEqual",
	OperationLtToNotEqual:                  "LtToNotEqual",
	OperationContainsFromEntries:           "ContainsFromEntries",
	OperationNotContainsFromEntries:        "NotContainsFromEntries",
	OperationRenameContainedBy:             "RenameContainedBy",
	OperationSumOf:                         "SumOf",
	OperationProductOf:                     "ProductOf",
	OperationMaxOf:                         "MaxOf",
}

// String returns the operation name
func (o NativeOperation) String() string {
	if o.Valid() {
		return operationNames[o]
	}
	return fmt.Sprintf("NativeOperation(%d)", int(o))
}

// Valid reports whether o is a known operation
func (o NativeOperation) Valid() bool {
	return o >= 0 && o < operationCount
}

// Code returns the circuit code as a field element
func (o NativeOperation) Code() field.Element {
	return field.New(uint64(o))
}

// ParseOperation looks an operation up by name
func ParseOperation(name string) (NativeOperation, bool) {
	for i, n := range operationNames {
		if n == name {
			return NativeOperation(i), true
		}
	}
	return OperationNone, false
}

// Operations returns every known operation in code order
func Operations() []NativeOperation {
	out := make([]NativeOperation, operationCount)
	for i := range out {
		out[i] = NativeOperation(i)
	}
	return out
}

// Self is the reserved id of the Main Pod under construction
var Self = field.One

// NonePodID is the id of the placeholder record filling unused input slots
var NonePodID = field.Zero

// Reserved entry names
const (
	TypeKeyName   = "_type"
	SignerKeyName = "_signer"
	MainPodType   = "MainPod"
)

// TypeKey is the hashed reserved `_type` key
var TypeKey = core.HashString(TypeKeyName)

// SignerKey is the hashed reserved `_signer` key
var SignerKey = core.HashString(SignerKeyName)

// TypeValue is the value bound to `_type` in every Main Pod
var TypeValue = core.HashString(MainPodType)

// IsReservedKey reports whether name carries protocol semantics
func IsReservedKey(name string) bool {
	return name == TypeKeyName || name == SignerKeyName
}
