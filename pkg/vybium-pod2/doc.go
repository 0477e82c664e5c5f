// Package vybiumpod2 builds and checks POD2 Main Pods.
//
// A signed pod is a dictionary of entries committed to by a Merkle root and
// signed by its issuer. A Main Pod combines statements about signed pods
// into a fixed slot layout that an external circuit proves: each statement
// is justified by an operation over earlier statements, and only the public
// region is revealed.
//
// # Quick Start
//
// Signing a record:
//
//	issuer, err := vybiumpod2.GenerateSigner(vybiumpod2.AlgEd25519)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	govID, err := vybiumpod2.Sign(vybiumpod2.NewDictBuilder().
//		SetString("socialSecurityNumber", "G2121210").
//		SetInt("dateOfBirth", 1169909384).
//		Build(), issuer)
//
// Building a Main Pod that reveals only a comparison:
//
//	b := vybiumpod2.NewMainPodBuilder(vybiumpod2.DefaultParams())
//	b.AddSignedPod(govID)
//	_, err = b.AddPublicOperation(vybiumpod2.NewOperation(
//		vybiumpod2.OperationLtFromEntries,
//		vybiumpod2.SignedKey(govID, "dateOfBirth"),
//		int64(1169909388), // lifted into a private entry
//	))
//
//	pod, err := b.Build()
//	if err != nil {
//		log.Fatal(err)
//	}
//	if !pod.Verify() {
//		log.Fatal(pod.Check())
//	}
//
// Proving with an external prover:
//
//	backend := vybiumpod2.NewExecBackend("pod2-prover")
//	result, err := pod.Prove(ctx, backend, vybiumpod2.Artifacts{
//		WitnessGenerator: "main.wasm",
//		ProvingKey:       "main.zkey",
//	})
//
// # Architecture
//
// - pkg/vybium-pod2/: Public API (this package)
// - internal/vybium-pod2/: Private implementation (not importable)
//
// The public API provides stable interfaces for:
// - Values, containers and their commitments
// - Signed pods and their verification
// - The Main Pod builder, assembler and native verifier
// - The proof-system boundary
//
// Implementation details in internal/ can be refactored without breaking the public API.
//
// # License
//
// See LICENSE file in the repository root.
package vybiumpod2
