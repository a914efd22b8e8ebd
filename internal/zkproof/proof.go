// proof.go - Proof wire format and the proof-A curve-adaptation transform.
//
// A proof is 256 bytes in the snarkjs layout: A (G1, 64 bytes), B (G2, 128
// bytes, imaginary-part-first per coordinate), C (G1, 64 bytes), all
// big-endian uncompressed. The proving toolchain's sign convention for A
// differs from the verifier's, so A is negated on ingestion; folding the
// negation into A lets verification run as a single multi-pairing.

package zkproof

import (
	"errors"
	"fmt"
	"math/big"

	bn254 "github.com/consensys/gnark-crypto/ecc/bn254"
	"github.com/consensys/gnark-crypto/ecc/bn254/fp"
)

// ProofLen is the exact byte length of a serialized proof.
const ProofLen = 256

// ErrInvalidProofFormat is returned when the proof bytes cannot be parsed as
// curve points.
var ErrInvalidProofFormat = errors.New("invalid proof format")

// Proof holds the deserialized proof elements. A is stored already negated,
// ready for the pairing check.
type Proof struct {
	NegA bn254.G1Affine
	B    bn254.G2Affine
	C    bn254.G1Affine
}

// ParseProof deserializes a 256-byte proof, applying the A-negation
// transform.
func ParseProof(b []byte) (*Proof, error) {
	if len(b) != ProofLen {
		return nil, fmt.Errorf("%w: length %d, want %d", ErrInvalidProofFormat, len(b), ProofLen)
	}

	var aBytes [g1Len]byte
	copy(aBytes[:], b[0:g1Len])
	negABytes, err := NegateG1(aBytes)
	if err != nil {
		return nil, fmt.Errorf("%w: proof a: %v", ErrInvalidProofFormat, err)
	}

	p := &Proof{}
	if p.NegA, err = parseG1(negABytes[:]); err != nil {
		return nil, fmt.Errorf("%w: proof a: %v", ErrInvalidProofFormat, err)
	}
	if p.B, err = parseG2(b[g1Len : g1Len+g2Len]); err != nil {
		return nil, fmt.Errorf("%w: proof b: %v", ErrInvalidProofFormat, err)
	}
	if p.C, err = parseG1(b[g1Len+g2Len : ProofLen]); err != nil {
		return nil, fmt.Errorf("%w: proof c: %v", ErrInvalidProofFormat, err)
	}
	return p, nil
}

// ChangeEndianness reverses every 32-byte word of the input, converting
// between the external big-endian encoding and the little-endian limb order
// the negation path works in. Applying it twice is the identity.
func ChangeEndianness(b []byte) []byte {
	out := make([]byte, len(b))
	for off := 0; off+32 <= len(b); off += 32 {
		for i := 0; i < 32; i++ {
			out[off+i] = b[off+31-i]
		}
	}
	return out
}

// NegateG1 negates an uncompressed big-endian G1 point through the
// little-endian round trip: byte-reverse each coordinate, deserialize in the
// library's native little-endian form with a trailing flag byte extending the
// buffer to 65 bytes, negate y, serialize, and byte-reverse back. The
// trailing byte must remain zero for a canonical encoding.
func NegateG1(a [g1Len]byte) ([g1Len]byte, error) {
	var out [g1Len]byte

	le := ChangeEndianness(a[:])
	buf := make([]byte, 65)
	copy(buf, le)

	x := leToBig(buf[0:32])
	y := leToBig(buf[32:65])
	mod := fp.Modulus()
	if x.Cmp(mod) >= 0 || y.Cmp(mod) >= 0 {
		return out, errors.New("coordinate not below the field modulus")
	}
	if y.Sign() != 0 {
		y.Sub(mod, y)
	}

	neg := make([]byte, 65)
	bigToLE(x, neg[0:32])
	bigToLE(y, neg[32:65])
	copy(out[:], ChangeEndianness(neg[0:g1Len]))
	return out, nil
}

// leToBig interprets little-endian bytes as an unsigned integer.
func leToBig(b []byte) *big.Int {
	be := make([]byte, len(b))
	for i := range b {
		be[len(b)-1-i] = b[i]
	}
	return new(big.Int).SetBytes(be)
}

// bigToLE writes v into dst as little-endian bytes.
func bigToLE(v *big.Int, dst []byte) {
	be := make([]byte, len(dst))
	v.FillBytes(be)
	for i := range dst {
		dst[i] = be[len(dst)-1-i]
	}
}
