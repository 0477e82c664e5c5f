package vybiumpod2

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type zukyc struct {
	govID   *SignedPod
	payStub *SignedPod
}

func issue(t *testing.T, alg, payStubSSN string) zukyc {
	t.Helper()
	gov, err := GenerateSigner(alg)
	require.NoError(t, err)
	employer, err := GenerateSigner(alg)
	require.NoError(t, err)

	govID, err := Sign(NewDictBuilder().
		SetString("idNumber", "42424242424242").
		SetInt("dateOfBirth", 1169909384).
		SetString("socialSecurityNumber", "G2121210").
		Build(), gov)
	require.NoError(t, err)

	payStub, err := Sign(NewDictBuilder().
		SetString("socialSecurityNumber", payStubSSN).
		SetInt("startDate", 1706367566).
		Build(), employer)
	require.NoError(t, err)

	return zukyc{govID: govID, payStub: payStub}
}

func buildKYC(t *testing.T, z zukyc) *MainPod {
	t.Helper()
	b := NewMainPodBuilder(DefaultParams())
	b.AddSignedPod(z.govID)
	b.AddSignedPod(z.payStub)

	_, err := b.AddPublicOperation(NewOperation(OperationEqualFromEntries,
		SignedKey(z.govID, "socialSecurityNumber"),
		SignedKey(z.payStub, "socialSecurityNumber")))
	require.NoError(t, err)

	_, err = b.AddPublicOperation(NewOperation(OperationLtFromEntries,
		SignedKey(z.govID, "dateOfBirth"), int64(1169909388)))
	require.NoError(t, err)

	_, err = b.AddPublicOperation(NewOperation(OperationGtFromEntries,
		SignedKey(z.payStub, "startDate"), int64(1706367000)))
	require.NoError(t, err)

	pod, err := b.Build()
	require.NoError(t, err)
	return pod
}

// TestZuKYC tests the identity and employment scenario end to end
func TestZuKYC(t *testing.T) {
	for _, alg := range []string{AlgEd25519, AlgDilithium3} {
		t.Run(alg, func(t *testing.T) {
			pod := buildKYC(t, issue(t, alg, "G2121210"))
			report := pod.Check()
			require.True(t, report.OK(), report.String())

			public := pod.PublicStatements()
			require.Len(t, public, 5)
			assert.Equal(t, StatementValueOf, public[0].Predicate)
			assert.Equal(t, StatementEqual, public[1].Predicate)
			assert.Equal(t, StatementLt, public[2].Predicate)
			assert.Equal(t, StatementGt, public[3].Predicate)
			assert.True(t, public[4].IsNone())
		})
	}
}

func TestZuKYCMismatchedSSN(t *testing.T) {
	pod := buildKYC(t, issue(t, AlgEd25519, "G2121211"))
	assert.False(t, pod.Verify())

	report := pod.Check()
	require.Len(t, report.Failures, 1)
	assert.Equal(t, DefaultParams().OffsetPrivateStatements(), report.Failures[0].Slot)
}

func TestSignedPodWireForm(t *testing.T) {
	z := issue(t, AlgEd25519, "G2121210")
	data, err := json.Marshal(z.govID)
	require.NoError(t, err)

	back, err := ParseSignedPod(data)
	require.NoError(t, err)
	assert.True(t, back.Verify())
	assert.True(t, back.ID.Equal(z.govID.ID))
}

type stubBackend struct{}

func (stubBackend) Prove(ctx context.Context, req *Request) (*Result, error) {
	return &Result{Proof: json.RawMessage(`{"protocol":"groth16"}`), PublicSignals: []string{"1"}}, nil
}

func TestProve(t *testing.T) {
	pod := buildKYC(t, issue(t, AlgEd25519, "G2121210"))
	res, err := pod.Prove(context.Background(), stubBackend{}, Artifacts{ProvingKey: "main.zkey"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"protocol":"groth16"}`, string(res.Proof))
}

func TestErrorKinds(t *testing.T) {
	b := NewMainPodBuilder(DefaultParams())
	_, err := b.AddOperation(NewOperation(OperationContainsFromEntries, 1, 2))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnsupportedOperation))

	kind, ok := KindOf(err)
	require.True(t, ok)
	assert.Equal(t, KindCompile, kind)

	var pe *PodError
	require.True(t, errors.As(err, &pe))

	_, ok = KindOf(errors.New("plain"))
	assert.False(t, ok)
}
