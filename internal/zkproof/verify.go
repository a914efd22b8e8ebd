// verify.go - Groth16 pairing check.
//
// Accepts iff e(-A, B) * e(alpha, beta) * e(vk_x, gamma) * e(C, delta) = 1,
// with vk_x = IC[0] + sum_i input_i * IC[i+1]. The negation of A was folded
// in at parse time, so the whole check is one multi-pairing.

package zkproof

import (
	"errors"
	"fmt"
	"math/big"

	bn254 "github.com/consensys/gnark-crypto/ecc/bn254"
	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
)

// ErrInvalidProof is returned when the pairing check fails. Wrong public
// inputs and a wrong witness are indistinguishable here.
var ErrInvalidProof = errors.New("invalid proof")

// Verify runs the Groth16 verification equation over a parsed proof and
// public inputs against a validated verifying key.
func Verify(vk *VerifyingKey, proof *Proof, inputs PublicInputs) error {
	rMod := fr.Modulus()

	var acc bn254.G1Jac
	acc.FromAffine(&vk.IC[0])
	for i := range inputs {
		s := new(big.Int).SetBytes(inputs[i][:])
		if s.Cmp(rMod) >= 0 {
			return fmt.Errorf("%w: public input %d not below the scalar modulus", ErrInvalidProof, i)
		}
		if s.Sign() == 0 {
			continue
		}
		var term bn254.G1Affine
		term.ScalarMultiplication(&vk.IC[i+1], s)
		var termJac bn254.G1Jac
		termJac.FromAffine(&term)
		acc.AddAssign(&termJac)
	}
	var vkx bn254.G1Affine
	vkx.FromJacobian(&acc)

	ok, err := bn254.PairingCheck(
		[]bn254.G1Affine{proof.NegA, vk.Alpha, vkx, proof.C},
		[]bn254.G2Affine{proof.B, vk.Beta, vk.Gamma, vk.Delta},
	)
	if err != nil {
		return fmt.Errorf("%w: pairing: %v", ErrInvalidProof, err)
	}
	if !ok {
		return ErrInvalidProof
	}
	return nil
}
