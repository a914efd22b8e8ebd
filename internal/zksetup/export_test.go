package zksetup

import (
	"sync"
	"testing"

	"github.com/consensys/gnark-crypto/ecc"
	"github.com/consensys/gnark/backend/groth16"
	"github.com/consensys/gnark/constraint"
	"github.com/consensys/gnark/frontend"
	"github.com/consensys/gnark/frontend/cs/r1cs"
	"github.com/stretchr/testify/require"

	"github.com/svhq/tornado-solana-privacy/internal/zkproof"
)

var (
	setupOnce sync.Once
	setupCCS  constraint.ConstraintSystem
	setupPK   groth16.ProvingKey
	setupVK   groth16.VerifyingKey
	setupErr  error
)

// sharedSetup compiles the statement circuit and runs Groth16 setup once for
// the whole package.
func sharedSetup(t *testing.T) (constraint.ConstraintSystem, groth16.ProvingKey, groth16.VerifyingKey) {
	t.Helper()
	setupOnce.Do(func() {
		setupCCS, setupErr = frontend.Compile(ecc.BN254.ScalarField(), r1cs.NewBuilder, &StatementCircuit{})
		if setupErr != nil {
			return
		}
		setupPK, setupVK, setupErr = groth16.Setup(setupCCS)
	})
	require.NoError(t, setupErr)
	return setupCCS, setupPK, setupVK
}

func prove(t *testing.T, inputs zkproof.PublicInputs) []byte {
	t.Helper()
	ccs, pk, _ := sharedSetup(t)
	w, err := frontend.NewWitness(NewStatementAssignment(inputs), ecc.BN254.ScalarField())
	require.NoError(t, err)
	proof, err := groth16.Prove(ccs, pk, w)
	require.NoError(t, err)
	raw, err := ExportProof(proof)
	require.NoError(t, err)
	return raw
}

func sampleInputs() zkproof.PublicInputs {
	var root, nh, recipient, relayer [32]byte
	root[31] = 0x07
	nh[31] = 0x09
	for i := range recipient {
		recipient[i] = 0xab
	}
	for i := range relayer {
		relayer[i] = 0xcd
	}
	return zkproof.PackPublicInputs(root, nh, recipient, relayer, 1_000, 0)
}

func TestExportedVerifyingKeyRoundTrips(t *testing.T) {
	_, _, vk := sharedSetup(t)
	raw, err := ExportVerifyingKey(vk)
	require.NoError(t, err)
	require.Len(t, raw, zkproof.VerifyingKeyLen)

	parsed, err := zkproof.ParseVerifyingKey(raw)
	require.NoError(t, err)
	require.Equal(t, raw, parsed.Bytes(), "parse then serialize must be the identity")
}

func TestExportedProofVerifies(t *testing.T) {
	_, _, vk := sharedSetup(t)
	raw, err := ExportVerifyingKey(vk)
	require.NoError(t, err)
	parsedVK, err := zkproof.ParseVerifyingKey(raw)
	require.NoError(t, err)

	inputs := sampleInputs()
	proofRaw := prove(t, inputs)
	require.Len(t, proofRaw, zkproof.ProofLen)

	proof, err := zkproof.ParseProof(proofRaw)
	require.NoError(t, err)
	require.NoError(t, zkproof.Verify(parsedVK, proof, inputs))
}

func TestTamperedInputRejected(t *testing.T) {
	_, _, vk := sharedSetup(t)
	raw, err := ExportVerifyingKey(vk)
	require.NoError(t, err)
	parsedVK, err := zkproof.ParseVerifyingKey(raw)
	require.NoError(t, err)

	inputs := sampleInputs()
	proofRaw := prove(t, inputs)
	proof, err := zkproof.ParseProof(proofRaw)
	require.NoError(t, err)

	// Redirect the withdrawal to a different recipient.
	tampered := inputs
	tampered[3][31] ^= 0x01
	require.ErrorIs(t, zkproof.Verify(parsedVK, proof, tampered), zkproof.ErrInvalidProof)
}

func TestTamperedProofRejected(t *testing.T) {
	_, _, vk := sharedSetup(t)
	raw, err := ExportVerifyingKey(vk)
	require.NoError(t, err)
	parsedVK, err := zkproof.ParseVerifyingKey(raw)
	require.NoError(t, err)

	inputs := sampleInputs()
	other := inputs
	other[1][31] ^= 0x01

	// A proof for different public inputs parses but fails the pairing.
	proofRaw := prove(t, other)
	proof, err := zkproof.ParseProof(proofRaw)
	require.NoError(t, err)
	require.ErrorIs(t, zkproof.Verify(parsedVK, proof, inputs), zkproof.ErrInvalidProof)
}
