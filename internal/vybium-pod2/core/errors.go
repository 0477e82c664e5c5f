package core

import (
	"errors"
	"fmt"
)

// Kind groups error codes into the failure classes a caller can react to.
type Kind int

const (
	// KindConstruction covers values and containers that cannot be built
	KindConstruction Kind = iota

	// KindCapacity covers inputs that do not fit the configured circuit shape
	KindCapacity

	// KindResolution covers operation arguments that cannot be mapped to slots
	KindResolution

	// KindCompile covers builder input the compiler refuses
	KindCompile

	// KindConfig covers invalid capacity parameters
	KindConfig
)

// String returns the name of the kind
func (k Kind) String() string {
	switch k {
	case KindConstruction:
		return "construction"
	case KindCapacity:
		return "capacity"
	case KindResolution:
		return "resolution"
	case KindCompile:
		return "compile"
	case KindConfig:
		return "config"
	default:
		return "unknown"
	}
}

// ErrorCode represents a POD2 error code
type ErrorCode int

const (
	// CodeUnknown represents an unknown error
	CodeUnknown ErrorCode = iota

	// CodeEmptyContainer is returned when a Dictionary, Set or Array has no entries
	CodeEmptyContainer

	// CodeMutableValue is returned when a value still under construction is encoded
	CodeMutableValue

	// CodeInvalidValue is returned for values the encoder does not understand
	CodeInvalidValue

	// CodeNotFound is returned when a leaf or key is absent from a container
	CodeNotFound

	// CodeTooManyStatements is returned when private statements exceed their region
	CodeTooManyStatements

	// CodeTooManyPublicStatements is returned when public statements exceed their region
	CodeTooManyPublicStatements

	// CodeTooManyStatementArgs is returned when a statement has more args than the circuit wires
	CodeTooManyStatementArgs

	// CodeTooManyOperationArgs is returned when an operation has more args than the circuit wires
	CodeTooManyOperationArgs

	// CodeTooManySignedPods is returned when more signed pods are referenced than input slots exist
	CodeTooManySignedPods

	// CodeTooManyPodValues is returned when a signed pod has more entries than its slot holds
	CodeTooManyPodValues

	// CodeMerkleDepth is returned when a membership proof is deeper than the signal ceiling
	CodeMerkleDepth

	// CodeArgumentNotFound is returned when no layout slot carries a referenced anchored key
	CodeArgumentNotFound

	// CodeUnknownArgKind is returned for operation arguments of an unexpected kind
	CodeUnknownArgKind

	// CodeUnsupportedOperation is returned for operation kinds the builder does not compile
	CodeUnsupportedOperation

	// CodeReservedKey is returned when application entries reuse a protocol key
	CodeReservedKey

	// CodeInvalidParams is returned for capacity parameters the circuit cannot have been built with
	CodeInvalidParams
)

var codeNames = map[ErrorCode]string{
	CodeUnknown:                 "unknown",
	CodeEmptyContainer:          "empty container",
	CodeMutableValue:            "mutable value",
	CodeInvalidValue:            "invalid value",
	CodeNotFound:                "not found",
	CodeTooManyStatements:       "too many statements",
	CodeTooManyPublicStatements: "too many public statements",
	CodeTooManyStatementArgs:    "too many statement args",
	CodeTooManyOperationArgs:    "too many operation args",
	CodeTooManySignedPods:       "too many signed pods",
	CodeTooManyPodValues:        "too many signed pod values",
	CodeMerkleDepth:             "merkle depth exceeded",
	CodeArgumentNotFound:        "argument not found",
	CodeUnknownArgKind:          "unknown argument kind",
	CodeUnsupportedOperation:    "unsupported operation",
	CodeReservedKey:             "reserved key",
	CodeInvalidParams:           "invalid params",
}

var codeKinds = map[ErrorCode]Kind{
	CodeEmptyContainer:          KindConstruction,
	CodeMutableValue:            KindConstruction,
	CodeInvalidValue:            KindConstruction,
	CodeNotFound:                KindConstruction,
	CodeTooManyStatements:       KindCapacity,
	CodeTooManyPublicStatements: KindCapacity,
	CodeTooManyStatementArgs:    KindCapacity,
	CodeTooManyOperationArgs:    KindCapacity,
	CodeTooManySignedPods:       KindCapacity,
	CodeTooManyPodValues:        KindCapacity,
	CodeMerkleDepth:             KindCapacity,
	CodeArgumentNotFound:        KindResolution,
	CodeUnknownArgKind:          KindResolution,
	CodeUnsupportedOperation:    KindCompile,
	CodeReservedKey:             KindCompile,
	CodeInvalidParams:           KindConfig,
}

// String returns a short description of the code
func (c ErrorCode) String() string {
	if name, ok := codeNames[c]; ok {
		return name
	}
	return fmt.Sprintf("code(%d)", int(c))
}

// Kind returns the failure class of the code
func (c ErrorCode) Kind() Kind {
	return codeKinds[c]
}

// PodError represents a POD2 error
type PodError struct {
	Code    ErrorCode
	Message string
	Cause   error
}

// Error returns the error message
func (e *PodError) Error() string {
	msg := e.Code.String()
	if e.Message != "" {
		msg = e.Message
	}
	if e.Cause != nil {
		return fmt.Sprintf("pod2 %s error [%s]: %s (caused by: %v)", e.Code.Kind(), e.Code, msg, e.Cause)
	}
	return fmt.Sprintf("pod2 %s error [%s]: %s", e.Code.Kind(), e.Code, msg)
}

// Unwrap returns the cause of the error
func (e *PodError) Unwrap() error {
	return e.Cause
}

// Is checks if the error matches the target error
func (e *PodError) Is(target error) bool {
	t, ok := target.(*PodError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// Sentinels for errors.Is. Any *PodError with the same code matches.
var (
	ErrEmptyContainer          = &PodError{Code: CodeEmptyContainer}
	ErrMutableValue            = &PodError{Code: CodeMutableValue}
	ErrInvalidValue            = &PodError{Code: CodeInvalidValue}
	ErrNotFound                = &PodError{Code: CodeNotFound}
	ErrTooManyStatements       = &PodError{Code: CodeTooManyStatements}
	ErrTooManyPublicStatements = &PodError{Code: CodeTooManyPublicStatements}
	ErrTooManyStatementArgs    = &PodError{Code: CodeTooManyStatementArgs}
	ErrTooManyOperationArgs    = &PodError{Code: CodeTooManyOperationArgs}
	ErrTooManySignedPods       = &PodError{Code: CodeTooManySignedPods}
	ErrTooManyPodValues        = &PodError{Code: CodeTooManyPodValues}
	ErrMerkleDepth             = &PodError{Code: CodeMerkleDepth}
	ErrArgumentNotFound        = &PodError{Code: CodeArgumentNotFound}
	ErrUnknownArgKind          = &PodError{Code: CodeUnknownArgKind}
	ErrUnsupportedOperation    = &PodError{Code: CodeUnsupportedOperation}
	ErrReservedKey             = &PodError{Code: CodeReservedKey}
	ErrInvalidParams           = &PodError{Code: CodeInvalidParams}
)

// Errorf builds a *PodError with a formatted message
func Errorf(code ErrorCode, format string, args ...any) error {
	return &PodError{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap builds a *PodError around a cause
func Wrap(code ErrorCode, message string, cause error) error {
	return &PodError{Code: code, Message: message, Cause: cause}
}

// KindOf reports the failure class of err. ok is false when err carries no
// *PodError.
func KindOf(err error) (kind Kind, ok bool) {
	var pe *PodError
	if errors.As(err, &pe) {
		return pe.Code.Kind(), true
	}
	return KindConstruction, false
}
