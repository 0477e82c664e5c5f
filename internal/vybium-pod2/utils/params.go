package utils

import (
	"github.com/vybium/vybium-pod2/internal/vybium-pod2/core"
)

// Params describes the capacity of the external Main Pod circuit. Every
// field must match the circuit build the proofs are generated with.
type Params struct {
	// Input pods
	MaxInputSignedPods int `yaml:"max_input_signed_pods" json:"max_input_signed_pods"`
	MaxInputMainPods   int `yaml:"max_input_main_pods" json:"max_input_main_pods"` // recursion is not wired; must be 0
	MaxSignedPodValues int `yaml:"max_signed_pod_values" json:"max_signed_pod_values"`

	// Statements
	MaxStatements       int `yaml:"max_statements" json:"max_statements"`               // private + public
	MaxPublicStatements int `yaml:"max_public_statements" json:"max_public_statements"` // includes the _type slot
	MaxStatementArgs    int `yaml:"max_statement_args" json:"max_statement_args"`
	MaxOperationArgs    int `yaml:"max_operation_args" json:"max_operation_args"`

	// Signal shape
	MaxMerkleDepth int `yaml:"max_merkle_depth" json:"max_merkle_depth"`
	MaxOperations  int `yaml:"max_operations" json:"max_operations"`
}

// DefaultParams returns the parameters of the reference circuit build
func DefaultParams() *Params {
	return &Params{
		MaxInputSignedPods:  2,
		MaxInputMainPods:    0,
		MaxSignedPodValues:  8,
		MaxStatements:       10,
		MaxPublicStatements: 5,
		MaxStatementArgs:    5,
		MaxOperationArgs:    5,
		MaxMerkleDepth:      5,
		MaxOperations:       10,
	}
}

// Validate checks that the parameters describe a buildable circuit
func (p *Params) Validate() error {
	if p.MaxInputSignedPods < 0 {
		return core.Errorf(core.CodeInvalidParams, "max input signed pods must not be negative")
	}

	if p.MaxInputMainPods != 0 {
		return core.Errorf(core.CodeInvalidParams, "max input main pods must be 0, got %d", p.MaxInputMainPods)
	}

	if p.MaxSignedPodValues <= 0 {
		return core.Errorf(core.CodeInvalidParams, "max signed pod values must be positive")
	}

	if p.MaxPublicStatements < 1 {
		return core.Errorf(core.CodeInvalidParams, "max public statements must leave room for the _type statement")
	}

	if p.MaxStatements < p.MaxPublicStatements {
		return core.Errorf(core.CodeInvalidParams, "max statements (%d) must be at least max public statements (%d)",
			p.MaxStatements, p.MaxPublicStatements)
	}

	if p.MaxStatementArgs < 2 {
		return core.Errorf(core.CodeInvalidParams, "max statement args must be at least 2 to hold ValueOf")
	}

	if p.MaxOperationArgs < 1 {
		return core.Errorf(core.CodeInvalidParams, "max operation args must be positive")
	}

	if p.MaxMerkleDepth <= 0 || p.MaxMerkleDepth >= 64 {
		return core.Errorf(core.CodeInvalidParams, "max merkle depth must be in [1, 63], got %d", p.MaxMerkleDepth)
	}

	if p.MaxOperations < p.MaxStatements {
		return core.Errorf(core.CodeInvalidParams, "max operations (%d) must be at least max statements (%d)",
			p.MaxOperations, p.MaxStatements)
	}

	return nil
}

// MaxPrivateStatements returns the size of the private region
func (p *Params) MaxPrivateStatements() int {
	return p.MaxStatements - p.MaxPublicStatements
}

// OffsetInputSignedPods returns the first slot of the input signed pod region
func (p *Params) OffsetInputSignedPods() int {
	return 0
}

// OffsetInputMainPods returns the first slot of the input main pod region
func (p *Params) OffsetInputMainPods() int {
	return p.MaxInputSignedPods * p.MaxSignedPodValues
}

// OffsetPrivateStatements returns the first private slot
func (p *Params) OffsetPrivateStatements() int {
	return p.OffsetInputMainPods() + p.MaxInputMainPods*p.MaxPublicStatements
}

// OffsetPublicStatements returns the first public slot, which holds _type
func (p *Params) OffsetPublicStatements() int {
	return p.OffsetPrivateStatements() + p.MaxPrivateStatements()
}

// TotalStatements returns the number of statement slots in a Main Pod
func (p *Params) TotalStatements() int {
	return p.OffsetPrivateStatements() + p.MaxStatements
}

// WithMaxInputSignedPods sets the number of input signed pod slots
func (p *Params) WithMaxInputSignedPods(n int) *Params {
	p.MaxInputSignedPods = n
	return p
}

// WithMaxSignedPodValues sets the number of statements per input pod
func (p *Params) WithMaxSignedPodValues(n int) *Params {
	p.MaxSignedPodValues = n
	return p
}

// WithMaxStatements sets the number of private plus public slots
func (p *Params) WithMaxStatements(n int) *Params {
	p.MaxStatements = n
	return p
}

// WithMaxPublicStatements sets the number of public slots
func (p *Params) WithMaxPublicStatements(n int) *Params {
	p.MaxPublicStatements = n
	return p
}

// WithMaxStatementArgs sets the statement arity
func (p *Params) WithMaxStatementArgs(n int) *Params {
	p.MaxStatementArgs = n
	return p
}

// WithMaxOperationArgs sets the operation arity
func (p *Params) WithMaxOperationArgs(n int) *Params {
	p.MaxOperationArgs = n
	return p
}

// WithMaxMerkleDepth sets the proof sibling ceiling
func (p *Params) WithMaxMerkleDepth(n int) *Params {
	p.MaxMerkleDepth = n
	return p
}

// WithMaxOperations sets the operation row ceiling
func (p *Params) WithMaxOperations(n int) *Params {
	p.MaxOperations = n
	return p
}

// Clone creates a copy of the parameters
func (p *Params) Clone() *Params {
	c := *p
	return &c
}
