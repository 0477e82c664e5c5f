package mainpod

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vybium/vybium-crypto/pkg/vybium-crypto/field"
	"github.com/vybium/vybium-pod2/internal/vybium-pod2/core"
	"github.com/vybium/vybium-pod2/internal/vybium-pod2/middleware"
	"github.com/vybium/vybium-pod2/internal/vybium-pod2/prover"
	"github.com/vybium/vybium-pod2/internal/vybium-pod2/signedpod"
	"github.com/vybium/vybium-pod2/internal/vybium-pod2/signer"
	"github.com/vybium/vybium-pod2/internal/vybium-pod2/utils"
	"github.com/vybium/vybium-pod2/internal/vybium-pod2/values"
)

func govIDPod(t *testing.T) *signedpod.SignedPod {
	t.Helper()
	s, err := signer.Ed25519FromSeed(bytes.Repeat([]byte{1}, 32))
	require.NoError(t, err)
	pod, err := signedpod.Sign(values.NewDictBuilder().
		SetString("idNumber", "42424242424242").
		SetInt("dateOfBirth", 1169909384).
		SetString("socialSecurityNumber", "G2121210").
		Build(), s)
	require.NoError(t, err)
	return pod
}

var (
	c0 = middleware.SelfKey("c0")
	c1 = middleware.SelfKey("c1")
)

func equalStatement() middleware.Statement {
	return middleware.NewStatement(middleware.StatementEqual, middleware.KeyArg(c0), middleware.KeyArg(c1))
}

// equalInputs proves that two lifted literals are equal and publishes the
// equality
func equalInputs(pods ...*signedpod.SignedPod) *Inputs {
	return &Inputs{
		SignedPods: pods,
		Statements: []middleware.Statement{
			middleware.ValueOf(c0, field.New(5)),
			middleware.ValueOf(c1, field.New(5)),
			equalStatement(),
		},
		Operations: []middleware.Operation{
			middleware.NewOperation(middleware.OperationNewEntry),
			middleware.NewOperation(middleware.OperationNewEntry),
			middleware.NewOperation(middleware.OperationEqualFromEntries,
				middleware.KeyOpArg(c0), middleware.KeyOpArg(c1)),
		},
		PublicStatements: []middleware.Statement{equalStatement()},
	}
}

// TestNewLayout tests the region layout with default params
func TestNewLayout(t *testing.T) {
	gov := govIDPod(t)
	pod, err := New(utils.DefaultParams(), equalInputs(gov))
	require.NoError(t, err)

	require.Len(t, pod.Statements, 26)
	require.Len(t, pod.Operations, 10)
	require.Len(t, pod.SignedPods, 2)
	assert.True(t, pod.SignedPods[1].IsNone())

	for slot := 0; slot < 4; slot++ {
		ak, _, ok := pod.Statements[slot].ValueOfParts()
		require.True(t, ok, "slot %d", slot)
		assert.True(t, ak.PodID.Equal(gov.ID))
	}
	for slot := 4; slot < 16; slot++ {
		assert.True(t, pod.Statements[slot].IsNone(), "slot %d", slot)
	}

	assert.True(t, pod.Statements[21].Equal(TypeStatement()))
	assert.True(t, pod.Statements[22].Equal(equalStatement()))
	assert.Len(t, pod.PublicStatements(), 5)
	assert.Len(t, pod.PrivateStatements(), 5)
	for _, st := range pod.Statements {
		assert.Len(t, st.Args, 5)
	}

	eq := pod.Operations[2]
	assert.Equal(t, middleware.OperationEqualFromEntries, eq.Kind)
	assert.Equal(t, []OpRef{Ref(16), Ref(17), {}, {}, {}}, eq.Args)
	assert.Equal(t, middleware.OperationNewEntry, pod.Operations[5].Kind)
	assert.Equal(t, Ref(18), pod.Operations[6].Args[0])
	assert.Equal(t, middleware.OperationNone, pod.Operations[7].Kind)

	report := pod.Check()
	assert.True(t, report.OK(), report.String())
	assert.True(t, pod.Verify())
}

func TestParamsAreCloned(t *testing.T) {
	params := utils.DefaultParams()
	pod, err := New(params, equalInputs())
	require.NoError(t, err)

	params.MaxStatements = 20
	assert.Equal(t, 10, pod.Params().MaxStatements)
	assert.True(t, pod.Verify())
}

// TestVerifyRejects tests each native condition on a tampered pod
func TestVerifyRejects(t *testing.T) {
	tests := []struct {
		name   string
		tamper func(p *MainPod)
		slot   int
	}{
		{"changed id", func(p *MainPod) { p.ID = p.ID.Add(field.One) }, -1},
		{"private value breaks equality", func(p *MainPod) {
			p.Statements[16] = mustPad(t, middleware.ValueOf(c0, field.New(6)))
		}, 18},
		{"forward reference", func(p *MainPod) {
			p.Operations[2].Args[1] = Ref(19)
		}, 18},
		{"missing type", func(p *MainPod) {
			p.Statements[21] = mustPad(t, middleware.NoneStatement())
		}, 21},
		{"public copy changed", func(p *MainPod) {
			p.Statements[22] = mustPad(t, middleware.NewStatement(middleware.StatementEqual,
				middleware.KeyArg(c1), middleware.KeyArg(c0)))
		}, 22},
		{"input value forged", func(p *MainPod) {
			ak, v, _ := p.Statements[0].ValueOfParts()
			p.Statements[0] = mustPad(t, middleware.ValueOf(ak, v.Add(field.One)))
		}, 0},
		{"input anchored elsewhere", func(p *MainPod) {
			ak, v, _ := p.Statements[1].ValueOfParts()
			p.Statements[1] = mustPad(t, middleware.ValueOf(middleware.NewAnchoredKey(field.New(9), ak.Key), v))
		}, 1},
		{"input not a ValueOf", func(p *MainPod) {
			p.Statements[2] = mustPad(t, equalStatement())
		}, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pod, err := New(utils.DefaultParams(), equalInputs(govIDPod(t)))
			require.NoError(t, err)
			require.True(t, pod.Verify())

			tt.tamper(pod)
			assert.False(t, pod.Verify())

			report := pod.Check()
			require.False(t, report.OK())
			slots := make([]int, len(report.Failures))
			for i, f := range report.Failures {
				slots[i] = f.Slot
			}
			assert.Contains(t, slots, tt.slot, report.String())
		})
	}
}

func TestVerifyRejectsForgedSignedPod(t *testing.T) {
	gov := govIDPod(t)
	pod, err := New(utils.DefaultParams(), equalInputs(gov))
	require.NoError(t, err)

	forged := *gov
	forged.Signature = gov.Signature[:len(gov.Signature)-2] + "00"
	if forged.Signature == gov.Signature {
		forged.Signature = gov.Signature[:len(gov.Signature)-2] + "01"
	}
	pod.SignedPods[0] = &forged
	assert.False(t, pod.Verify())
}

// TestDuplicateValueOf tests that two ValueOf statements for one key fail
func TestDuplicateValueOf(t *testing.T) {
	inputs := &Inputs{
		Statements: []middleware.Statement{
			middleware.ValueOf(c0, field.New(5)),
			middleware.ValueOf(c0, field.New(6)),
		},
		Operations: []middleware.Operation{
			middleware.NewOperation(middleware.OperationNewEntry),
			middleware.NewOperation(middleware.OperationNewEntry),
		},
	}
	pod, err := New(utils.DefaultParams(), inputs)
	require.NoError(t, err)
	assert.False(t, pod.Verify())
	assert.Contains(t, pod.Check().String(), "duplicate ValueOf")
}

// TestReservedSelfKeys tests that the pod's own _type and _signer cannot
// be rebound privately
func TestReservedSelfKeys(t *testing.T) {
	for _, key := range []field.Element{middleware.TypeKey, middleware.SignerKey} {
		inputs := &Inputs{
			Statements: []middleware.Statement{
				middleware.ValueOf(middleware.NewAnchoredKey(middleware.Self, key), field.New(999)),
			},
			Operations: []middleware.Operation{middleware.NewOperation(middleware.OperationNewEntry)},
		}
		_, err := New(utils.DefaultParams(), inputs)
		assert.ErrorIs(t, err, core.ErrReservedKey)
	}
}

func TestDuplicateTypeBinding(t *testing.T) {
	inputs := &Inputs{
		Statements: []middleware.Statement{middleware.ValueOf(c0, field.New(5))},
		Operations: []middleware.Operation{middleware.NewOperation(middleware.OperationNewEntry)},
	}
	pod, err := New(utils.DefaultParams(), inputs)
	require.NoError(t, err)
	require.True(t, pod.Verify())

	slot := utils.DefaultParams().OffsetPrivateStatements()
	forged, err := middleware.ValueOf(middleware.NewAnchoredKey(middleware.Self, middleware.TypeKey), field.New(999)).
		Pad(utils.DefaultParams().MaxStatementArgs)
	require.NoError(t, err)
	pod.Statements[slot] = forged

	report := pod.Check()
	assert.False(t, report.OK())
	assert.Contains(t, report.String(), "duplicate ValueOf")
}

func TestNewErrors(t *testing.T) {
	newEntry := func(name string, v uint64) (middleware.Statement, middleware.Operation) {
		return middleware.ValueOf(middleware.SelfKey(name), field.New(v)),
			middleware.NewOperation(middleware.OperationNewEntry)
	}

	t.Run("too many statements", func(t *testing.T) {
		inputs := &Inputs{}
		for _, name := range []string{"a", "b", "c", "d", "e", "f"} {
			st, op := newEntry(name, 1)
			inputs.Statements = append(inputs.Statements, st)
			inputs.Operations = append(inputs.Operations, op)
		}
		_, err := New(utils.DefaultParams(), inputs)
		assert.ErrorIs(t, err, core.ErrTooManyStatements)
	})

	t.Run("too many public statements", func(t *testing.T) {
		inputs := equalInputs()
		for i := 0; i < 4; i++ {
			inputs.PublicStatements = append(inputs.PublicStatements, equalStatement())
		}
		_, err := New(utils.DefaultParams(), inputs)
		assert.ErrorIs(t, err, core.ErrTooManyPublicStatements)
	})

	t.Run("public statements fill the region", func(t *testing.T) {
		inputs := equalInputs()
		for i := 0; i < 3; i++ {
			inputs.PublicStatements = append(inputs.PublicStatements, equalStatement())
		}
		pod, err := New(utils.DefaultParams(), inputs)
		require.NoError(t, err)
		assert.True(t, pod.Verify())
	})

	t.Run("too many signed pods", func(t *testing.T) {
		gov := govIDPod(t)
		_, err := New(utils.DefaultParams(), equalInputs(gov, gov, gov))
		assert.ErrorIs(t, err, core.ErrTooManySignedPods)
	})

	t.Run("too many pod values", func(t *testing.T) {
		b := values.NewDictBuilder()
		for _, k := range []string{"a", "b", "c", "d", "e", "f", "g", "h"} {
			b.SetInt(k, 1)
		}
		s, err := signer.Ed25519FromSeed(bytes.Repeat([]byte{2}, 32))
		require.NoError(t, err)
		big, err := signedpod.Sign(b.Build(), s)
		require.NoError(t, err)

		_, err = New(utils.DefaultParams(), equalInputs(big))
		assert.ErrorIs(t, err, core.ErrTooManyPodValues)
	})

	t.Run("merkle depth", func(t *testing.T) {
		_, err := New(utils.DefaultParams().WithMaxMerkleDepth(2), equalInputs(govIDPod(t)))
		assert.ErrorIs(t, err, core.ErrMerkleDepth)
	})

	t.Run("argument not found", func(t *testing.T) {
		inputs := equalInputs()
		inputs.Operations[2] = middleware.NewOperation(middleware.OperationEqualFromEntries,
			middleware.KeyOpArg(c0), middleware.KeyOpArg(middleware.SelfKey("missing")))
		_, err := New(utils.DefaultParams(), inputs)
		assert.ErrorIs(t, err, core.ErrArgumentNotFound)
	})

	t.Run("unknown argument kind", func(t *testing.T) {
		inputs := equalInputs()
		inputs.Operations[2].Args[0].Kind = middleware.OpArgKind(42)
		_, err := New(utils.DefaultParams(), inputs)
		assert.ErrorIs(t, err, core.ErrUnknownArgKind)
	})

	t.Run("operation count mismatch", func(t *testing.T) {
		inputs := equalInputs()
		inputs.Operations = inputs.Operations[:2]
		_, err := New(utils.DefaultParams(), inputs)
		assert.ErrorIs(t, err, core.ErrInvalidValue)
	})

	t.Run("invalid params", func(t *testing.T) {
		_, err := New(utils.DefaultParams().WithMaxPublicStatements(0), equalInputs())
		assert.ErrorIs(t, err, core.ErrInvalidParams)
	})
}

// TestSignals tests the shape and padding of the circuit input
func TestSignals(t *testing.T) {
	gov := govIDPod(t)
	pod, err := New(utils.DefaultParams(), equalInputs(gov))
	require.NoError(t, err)

	s, err := pod.Signals()
	require.NoError(t, err)

	require.Len(t, s.InputRoots, 2)
	assert.True(t, s.InputRoots[0].Equal(gov.ID))
	assert.True(t, s.InputRoots[1].IsZero())

	require.Len(t, s.InputHashedKeys, 16)
	require.Len(t, s.InputValues, 16)
	require.Len(t, s.InputProofSiblings, 16)
	require.Len(t, s.InputProofIndices, 16)
	require.Len(t, s.InputProofDepths, 16)
	for _, row := range s.InputProofSiblings {
		assert.Len(t, row, 5)
	}

	for j := 4; j < 8; j++ {
		assert.True(t, s.InputHashedKeys[j].Equal(s.InputHashedKeys[0]))
		assert.True(t, s.InputValues[j].Equal(s.InputValues[0]))
		assert.True(t, s.InputProofIndices[j].Equal(s.InputProofIndices[0]))
	}
	assert.Equal(t, uint64(3), s.InputProofDepths[0].Value())
	for j := 8; j < 16; j++ {
		assert.True(t, s.InputHashedKeys[j].IsZero())
		assert.True(t, s.InputProofDepths[j].IsZero())
	}

	require.Len(t, s.OperationCodes, 10)
	require.Len(t, s.OperationArgs, 10)
	assert.True(t, s.OperationCodes[0].Equal(middleware.OperationNewEntry.Code()))
	assert.True(t, s.OperationCodes[2].Equal(middleware.OperationEqualFromEntries.Code()))
	assert.True(t, s.OperationCodes[6].Equal(middleware.OperationCopyStatement.Code()))

	total := 2 + 16*3 + 16*5 + 10 + 10*5
	assert.Len(t, s.Flatten(), total)

	data, err := json.Marshal(s)
	require.NoError(t, err)
	var decoded map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(data, &decoded))
	for _, key := range []string{"inputRoots", "inputHashedKeys", "inputValues", "inputProofSiblings",
		"inputProofIndices", "inputProofDepths", "operationCodes", "operationArgs"} {
		assert.Contains(t, decoded, key)
	}
	var args [][]string
	require.NoError(t, json.Unmarshal(decoded["operationArgs"], &args))
	assert.Equal(t, []string{"16", "17", "0", "0", "0"}, args[2])
}

type recordingBackend struct {
	req *prover.Request
}

func (b *recordingBackend) Prove(ctx context.Context, req *prover.Request) (*prover.Result, error) {
	b.req = req
	return &prover.Result{Proof: json.RawMessage(`{}`), PublicSignals: []string{"1"}}, nil
}

func TestProve(t *testing.T) {
	pod, err := New(utils.DefaultParams(), equalInputs())
	require.NoError(t, err)

	backend := &recordingBackend{}
	artifacts := prover.Artifacts{WitnessGenerator: "main.wasm", ProvingKey: "main.zkey"}
	res, err := pod.Prove(context.Background(), backend, artifacts)
	require.NoError(t, err)
	assert.Equal(t, []string{"1"}, res.PublicSignals)

	require.NotNil(t, backend.req)
	assert.Equal(t, artifacts, backend.req.Artifacts)
	assert.NotEmpty(t, backend.req.RequestID)
	assert.Contains(t, string(backend.req.Signals), `"operationCodes"`)
}

// TestDescribe tests the layout dump against a golden file
func TestDescribe(t *testing.T) {
	pod, err := New(utils.DefaultParams(), equalInputs(govIDPod(t)))
	require.NoError(t, err)

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, "describe_equal_literals", []byte(pod.Describe()))
}

func mustPad(t *testing.T, s middleware.Statement) middleware.Statement {
	t.Helper()
	padded, err := s.Pad(utils.DefaultParams().MaxStatementArgs)
	require.NoError(t, err)
	return padded
}
