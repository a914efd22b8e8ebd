// circuit.go - Withdraw-statement circuit skeleton for pipeline testing.
//
// The production circuit lives in circom (Poseidon Merkle path, nullifier
// derivation) and only its verifying key reaches the pool. This gnark
// circuit mirrors the statement's public-input layout so integration tests
// can run real proofs through the full verification pipeline without the
// circom toolchain.

package zksetup

import (
	"math/big"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	"github.com/consensys/gnark/frontend"

	"github.com/svhq/tornado-solana-privacy/internal/zkproof"
)

// StatementCircuit declares the eight public inputs in the exact order the
// pool packs them. Binding is the prover-supplied sum of all public inputs;
// constraining it keeps every input wired into the constraint system.
type StatementCircuit struct {
	Root          frontend.Variable `gnark:",public"`
	NullifierHash frontend.Variable `gnark:",public"`
	RecipientHigh frontend.Variable `gnark:",public"`
	RecipientLow  frontend.Variable `gnark:",public"`
	RelayerHigh   frontend.Variable `gnark:",public"`
	RelayerLow    frontend.Variable `gnark:",public"`
	Fee           frontend.Variable `gnark:",public"`
	Refund        frontend.Variable `gnark:",public"`

	Binding frontend.Variable
}

// Define wires the public inputs into a single binding constraint.
func (c *StatementCircuit) Define(api frontend.API) error {
	sum := api.Add(
		c.Root, c.NullifierHash,
		c.RecipientHigh, c.RecipientLow,
		c.RelayerHigh, c.RelayerLow,
		c.Fee, c.Refund,
	)
	api.AssertIsEqual(c.Binding, sum)
	return nil
}

// NewStatementAssignment builds a full witness assignment for the packed
// public inputs.
func NewStatementAssignment(inputs zkproof.PublicInputs) *StatementCircuit {
	vals := make([]*big.Int, len(inputs))
	binding := new(big.Int)
	for i := range inputs {
		vals[i] = new(big.Int).SetBytes(inputs[i][:])
		binding.Add(binding, vals[i])
	}
	binding.Mod(binding, fr.Modulus())

	return &StatementCircuit{
		Root:          vals[0],
		NullifierHash: vals[1],
		RecipientHigh: vals[2],
		RecipientLow:  vals[3],
		RelayerHigh:   vals[4],
		RelayerLow:    vals[5],
		Fee:           vals[6],
		Refund:        vals[7],
		Binding:       binding,
	}
}
