package vybiumpod2

import "github.com/vybium/vybium-pod2/internal/vybium-pod2/core"

// ErrorCode represents a POD2 error code
type ErrorCode = core.ErrorCode

// ErrorKind groups codes into failure classes
type ErrorKind = core.Kind

// PodError represents a POD2 error
type PodError = core.PodError

// Failure classes
const (
	KindConstruction = core.KindConstruction
	KindCapacity     = core.KindCapacity
	KindResolution   = core.KindResolution
	KindCompile      = core.KindCompile
	KindConfig       = core.KindConfig
)

// Sentinels for errors.Is
var (
	ErrEmptyContainer          = core.ErrEmptyContainer
	ErrMutableValue            = core.ErrMutableValue
	ErrInvalidValue            = core.ErrInvalidValue
	ErrNotFound                = core.ErrNotFound
	ErrTooManyStatements       = core.ErrTooManyStatements
	ErrTooManyPublicStatements = core.ErrTooManyPublicStatements
	ErrTooManyStatementArgs    = core.ErrTooManyStatementArgs
	ErrTooManyOperationArgs    = core.ErrTooManyOperationArgs
	ErrTooManySignedPods       = core.ErrTooManySignedPods
	ErrTooManyPodValues        = core.ErrTooManyPodValues
	ErrMerkleDepth             = core.ErrMerkleDepth
	ErrArgumentNotFound        = core.ErrArgumentNotFound
	ErrUnknownArgKind          = core.ErrUnknownArgKind
	ErrUnsupportedOperation    = core.ErrUnsupportedOperation
	ErrReservedKey             = core.ErrReservedKey
	ErrInvalidParams           = core.ErrInvalidParams
)

// KindOf reports the failure class of err
func KindOf(err error) (ErrorKind, bool) {
	return core.KindOf(err)
}
