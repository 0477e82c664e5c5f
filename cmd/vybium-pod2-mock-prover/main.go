// Command vybium-pod2-mock-prover speaks the exec prover protocol without
// running a proof system. The "proof" is a Poseidon digest of the circuit
// signals, which is enough to exercise the CLI and the prover daemon end to
// end.
package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"

	"github.com/vybium/vybium-crypto/pkg/vybium-crypto/field"
	"github.com/vybium/vybium-pod2/internal/vybium-pod2/core"
)

// Artifacts line, as written by the exec backend
type ArtifactsInput struct {
	WitnessGenerator string `json:"witnessGenerator"`
	ProvingKey       string `json:"provingKey"`
}

// Signals line, the named decimal arrays of the Main Pod circuit
type SignalsInput struct {
	InputRoots         []string   `json:"inputRoots"`
	InputHashedKeys    []string   `json:"inputHashedKeys"`
	InputValues        []string   `json:"inputValues"`
	InputProofSiblings [][]string `json:"inputProofSiblings"`
	InputProofIndices  []string   `json:"inputProofIndices"`
	InputProofDepths   []string   `json:"inputProofDepths"`
	OperationCodes     []string   `json:"operationCodes"`
	OperationArgs      [][]string `json:"operationArgs"`
}

type mockProof struct {
	Protocol         string `json:"protocol"`
	WitnessGenerator string `json:"witnessGenerator,omitempty"`
	Digest           string `json:"digest"`
	Signals          int    `json:"signals"`
}

type output struct {
	Proof         mockProof `json:"proof"`
	PublicSignals []string  `json:"publicSignals"`
}

func main() {
	scanner := bufio.NewScanner(os.Stdin)
	scanner.Buffer(make([]byte, 0, 64*1024), 64*1024*1024)

	// Line 1: artifacts
	if !scanner.Scan() {
		fatal("Failed to read artifacts")
	}
	var artifacts ArtifactsInput
	if err := json.Unmarshal(scanner.Bytes(), &artifacts); err != nil {
		fatal(fmt.Sprintf("Failed to parse artifacts: %v", err))
	}

	// Line 2: signals
	if !scanner.Scan() {
		fatal("Failed to read signals")
	}
	var signals SignalsInput
	if err := json.Unmarshal(scanner.Bytes(), &signals); err != nil {
		fatal(fmt.Sprintf("Failed to parse signals: %v", err))
	}

	logStderr(fmt.Sprintf("Witness generator: %q, proving key: %q", artifacts.WitnessGenerator, artifacts.ProvingKey))

	elems, err := flatten(signals)
	if err != nil {
		fatal(fmt.Sprintf("Failed to convert signals: %v", err))
	}
	if len(elems) == 0 {
		fatal("Signals are empty")
	}
	logStderr(fmt.Sprintf("Hashing %d signals...", len(elems)))

	digest := core.FormatElement(core.HashMany(elems))
	out := output{
		Proof: mockProof{
			Protocol:         "mock",
			WitnessGenerator: artifacts.WitnessGenerator,
			Digest:           digest,
			Signals:          len(elems),
		},
		PublicSignals: []string{digest},
	}

	data, err := json.Marshal(out)
	if err != nil {
		fatal(fmt.Sprintf("Failed to serialize proof: %v", err))
	}
	logStderr("Proof generated successfully")

	os.Stdout.Write(data)
	os.Stdout.Write([]byte("\n"))
}

// flatten parses the signals in circuit wiring order
func flatten(s SignalsInput) ([]field.Element, error) {
	var all []string
	all = append(all, s.InputRoots...)
	all = append(all, s.InputHashedKeys...)
	all = append(all, s.InputValues...)
	for _, row := range s.InputProofSiblings {
		all = append(all, row...)
	}
	all = append(all, s.InputProofIndices...)
	all = append(all, s.InputProofDepths...)
	all = append(all, s.OperationCodes...)
	for _, row := range s.OperationArgs {
		all = append(all, row...)
	}

	out := make([]field.Element, len(all))
	for i, str := range all {
		e, err := core.ParseElement(str)
		if err != nil {
			return nil, fmt.Errorf("signal %d: %w", i, err)
		}
		out[i] = e
	}
	return out, nil
}

func logStderr(msg string) {
	fmt.Fprintln(os.Stderr, "pod2-mock-prover:", msg)
}

func fatal(msg string) {
	logStderr("ERROR: " + msg)
	os.Exit(1)
}
