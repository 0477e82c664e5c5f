// Package prover is the boundary to the external proof system. An assembled
// Main Pod hands its circuit signals to a Backend together with the artifact
// paths of the compiled circuit and gets back an opaque proof.
package prover

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

var (
	// ErrEmptyProof is returned when a backend answers without a proof
	ErrEmptyProof = errors.New("prover: backend returned no proof")

	// ErrNoSignals is returned for requests without circuit input
	ErrNoSignals = errors.New("prover: request has no signals")
)

// Artifacts locates the compiled circuit on the prover side
type Artifacts struct {
	WitnessGenerator string `json:"witnessGenerator"`
	ProvingKey       string `json:"provingKey"`
}

// Request is one proving job
type Request struct {
	RequestID string          `json:"requestId"`
	Signals   json.RawMessage `json:"signals"`
	Artifacts Artifacts       `json:"artifacts"`
}

// Result is the proof system's answer
type Result struct {
	Proof         json.RawMessage `json:"proof"`
	PublicSignals []string        `json:"publicSignals"`
}

// Backend produces proofs. Implementations must honour ctx cancellation.
type Backend interface {
	Prove(ctx context.Context, req *Request) (*Result, error)
}

// NewRequest marshals signals into a request with a fresh id
func NewRequest(signals any, artifacts Artifacts) (*Request, error) {
	data, err := json.Marshal(signals)
	if err != nil {
		return nil, fmt.Errorf("prover: encode signals: %w", err)
	}
	return &Request{
		RequestID: uuid.NewString(),
		Signals:   data,
		Artifacts: artifacts,
	}, nil
}

func (r *Request) validate() error {
	if len(r.Signals) == 0 || string(r.Signals) == "null" {
		return ErrNoSignals
	}
	if r.RequestID == "" {
		r.RequestID = uuid.NewString()
	}
	return nil
}

func (r *Result) validate() error {
	if len(r.Proof) == 0 || string(r.Proof) == "null" {
		return ErrEmptyProof
	}
	return nil
}
