package mainpod

import (
	"context"
	"fmt"

	"github.com/vybium/vybium-pod2/internal/vybium-pod2/prover"
)

// Prove derives the circuit signals and hands them to backend. The pod is
// not checked first; call Verify when the inputs are untrusted.
func (p *MainPod) Prove(ctx context.Context, backend prover.Backend, artifacts prover.Artifacts) (*prover.Result, error) {
	signals, err := p.Signals()
	if err != nil {
		return nil, fmt.Errorf("derive signals: %w", err)
	}
	req, err := prover.NewRequest(signals, artifacts)
	if err != nil {
		return nil, err
	}
	return backend.Prove(ctx, req)
}
