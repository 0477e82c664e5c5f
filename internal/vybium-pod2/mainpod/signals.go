package mainpod

import (
	"encoding/json"

	"github.com/vybium/vybium-crypto/pkg/vybium-crypto/field"
	"github.com/vybium/vybium-pod2/internal/vybium-pod2/core"
)

// Signals is the input of the external Main Pod circuit
type Signals struct {
	InputRoots         []field.Element
	InputHashedKeys    []field.Element
	InputValues        []field.Element
	InputProofSiblings [][]field.Element
	InputProofIndices  []field.Element
	InputProofDepths   []field.Element
	OperationCodes     []field.Element
	OperationArgs      [][]field.Element
}

// Signals derives the circuit input in wiring order.
//
// Per-pod key and value lists are padded by repeating their first entry.
// The placeholder pod has no entries and contributes zeros throughout.
func (p *MainPod) Signals() (*Signals, error) {
	params := p.params
	s := &Signals{}

	for i, pod := range p.SignedPods {
		s.InputRoots = append(s.InputRoots, pod.ID)

		kvs, err := pod.KVs()
		if err != nil {
			return nil, err
		}
		if len(kvs) > params.MaxSignedPodValues {
			return nil, core.Errorf(core.CodeTooManyPodValues, "signed pod %d has %d entries, max %d",
				i, len(kvs), params.MaxSignedPodValues)
		}

		for j := 0; j < params.MaxSignedPodValues; j++ {
			if len(kvs) == 0 {
				s.InputHashedKeys = append(s.InputHashedKeys, field.Zero)
				s.InputValues = append(s.InputValues, field.Zero)
				s.InputProofSiblings = append(s.InputProofSiblings, zeros(params.MaxMerkleDepth))
				s.InputProofIndices = append(s.InputProofIndices, field.Zero)
				s.InputProofDepths = append(s.InputProofDepths, field.Zero)
				continue
			}

			kv := kvs[0]
			if j < len(kvs) {
				kv = kvs[j]
			}
			proof, err := pod.Proof(kv.Key)
			if err != nil {
				return nil, err
			}
			if proof.Depth() > params.MaxMerkleDepth {
				return nil, core.Errorf(core.CodeMerkleDepth, "signed pod %d needs depth %d, max %d",
					i, proof.Depth(), params.MaxMerkleDepth)
			}

			siblings := zeros(params.MaxMerkleDepth)
			copy(siblings, proof.Siblings)

			s.InputHashedKeys = append(s.InputHashedKeys, kv.Key)
			s.InputValues = append(s.InputValues, kv.Value)
			s.InputProofSiblings = append(s.InputProofSiblings, siblings)
			s.InputProofIndices = append(s.InputProofIndices, field.New(proof.Index))
			s.InputProofDepths = append(s.InputProofDepths, field.New(uint64(proof.Depth())))
		}
	}

	for i := 0; i < params.MaxOperations; i++ {
		row := zeros(params.MaxOperationArgs)
		code := field.Zero
		if i < len(p.Operations) {
			op := p.Operations[i]
			code = op.Kind.Code()
			for j, ref := range op.Args {
				if j < len(row) {
					row[j] = ref.Signal()
				}
			}
		}
		s.OperationCodes = append(s.OperationCodes, code)
		s.OperationArgs = append(s.OperationArgs, row)
	}

	return s, nil
}

func zeros(n int) []field.Element {
	out := make([]field.Element, n)
	for i := range out {
		out[i] = field.Zero
	}
	return out
}

// Flatten concatenates every signal in wiring order
func (s *Signals) Flatten() []field.Element {
	var out []field.Element
	out = append(out, s.InputRoots...)
	out = append(out, s.InputHashedKeys...)
	out = append(out, s.InputValues...)
	for _, row := range s.InputProofSiblings {
		out = append(out, row...)
	}
	out = append(out, s.InputProofIndices...)
	out = append(out, s.InputProofDepths...)
	out = append(out, s.OperationCodes...)
	for _, row := range s.OperationArgs {
		out = append(out, row...)
	}
	return out
}

type signalsJSON struct {
	InputRoots         []string   `json:"inputRoots"`
	InputHashedKeys    []string   `json:"inputHashedKeys"`
	InputValues        []string   `json:"inputValues"`
	InputProofSiblings [][]string `json:"inputProofSiblings"`
	InputProofIndices  []string   `json:"inputProofIndices"`
	InputProofDepths   []string   `json:"inputProofDepths"`
	OperationCodes     []string   `json:"operationCodes"`
	OperationArgs      [][]string `json:"operationArgs"`
}

func decimals(es []field.Element) []string {
	out := make([]string, len(es))
	for i, e := range es {
		out[i] = core.FormatElement(e)
	}
	return out
}

func decimalRows(rows [][]field.Element) [][]string {
	out := make([][]string, len(rows))
	for i, row := range rows {
		out[i] = decimals(row)
	}
	return out
}

// MarshalJSON renders the signals as named decimal-string arrays, the
// form witness generators read
func (s *Signals) MarshalJSON() ([]byte, error) {
	return json.Marshal(signalsJSON{
		InputRoots:         decimals(s.InputRoots),
		InputHashedKeys:    decimals(s.InputHashedKeys),
		InputValues:        decimals(s.InputValues),
		InputProofSiblings: decimalRows(s.InputProofSiblings),
		InputProofIndices:  decimals(s.InputProofIndices),
		InputProofDepths:   decimals(s.InputProofDepths),
		OperationCodes:     decimals(s.OperationCodes),
		OperationArgs:      decimalRows(s.OperationArgs),
	})
}
