// export.go - Bridge from a gnark trusted setup to the pool's wire formats.
//
// Production pools consume keys from the circom/snarkjs ceremony, but a
// gnark-run setup produces the same BN254 Groth16 objects. These helpers
// flatten gnark keys and proofs into the pool's big-endian layouts so either
// toolchain can feed the verifier.

package zksetup

import (
	"encoding/binary"
	"errors"
	"fmt"

	bn254 "github.com/consensys/gnark-crypto/ecc/bn254"
	"github.com/consensys/gnark/backend/groth16"
	groth16bn254 "github.com/consensys/gnark/backend/groth16/bn254"

	"github.com/svhq/tornado-solana-privacy/internal/zkproof"
)

// ExportVerifyingKey serializes a gnark BN254 verifying key into the pool's
// verifying-key byte layout. The key must belong to a circuit with exactly
// eight public inputs and no commitments.
func ExportVerifyingKey(vk groth16.VerifyingKey) ([]byte, error) {
	cvk, ok := vk.(*groth16bn254.VerifyingKey)
	if !ok {
		return nil, errors.New("verifying key is not a BN254 key")
	}
	if got := len(cvk.G1.K); got != zkproof.PublicInputCount+1 {
		return nil, fmt.Errorf("circuit has %d input commitments, want %d", got, zkproof.PublicInputCount+1)
	}

	out := make([]byte, 0, zkproof.VerifyingKeyLen)
	var count [4]byte
	binary.BigEndian.PutUint32(count[:], zkproof.PublicInputCount)
	out = append(out, count[:]...)
	out = append(out, g1BE(&cvk.G1.Alpha)...)
	out = append(out, g2BE(&cvk.G2.Beta)...)
	out = append(out, g2BE(&cvk.G2.Gamma)...)
	out = append(out, g2BE(&cvk.G2.Delta)...)
	for i := range cvk.G1.K {
		out = append(out, g1BE(&cvk.G1.K[i])...)
	}
	return out, nil
}

// ExportProof serializes a gnark BN254 proof into the 256-byte proof layout
// the pool accepts. gnark and snarkjs satisfy the same pairing equation, so
// the elements map across directly; the pool applies its own A-negation.
func ExportProof(proof groth16.Proof) ([]byte, error) {
	cp, ok := proof.(*groth16bn254.Proof)
	if !ok {
		return nil, errors.New("proof is not a BN254 proof")
	}
	if len(cp.Commitments) != 0 {
		return nil, errors.New("proofs with commitments are not supported by the pool layout")
	}

	out := make([]byte, 0, zkproof.ProofLen)
	out = append(out, g1BE(&cp.Ar)...)
	out = append(out, g2BE(&cp.Bs)...)
	out = append(out, g1BE(&cp.Krs)...)
	return out, nil
}

// g1BE serializes a G1 point as uncompressed big-endian x || y.
func g1BE(p *bn254.G1Affine) []byte {
	out := make([]byte, 64)
	x := p.X.Bytes()
	y := p.Y.Bytes()
	copy(out[0:32], x[:])
	copy(out[32:64], y[:])
	return out
}

// g2BE serializes a G2 point with each coordinate imaginary-part first,
// matching the snarkjs export order.
func g2BE(p *bn254.G2Affine) []byte {
	out := make([]byte, 128)
	xi := p.X.A1.Bytes()
	xr := p.X.A0.Bytes()
	yi := p.Y.A1.Bytes()
	yr := p.Y.A0.Bytes()
	copy(out[0:32], xi[:])
	copy(out[32:64], xr[:])
	copy(out[64:96], yi[:])
	copy(out[96:128], yr[:])
	return out
}
