// vk.go - Groth16 verifying key wire format and structural validation.
//
// The verifying key is produced by the trusted-setup ceremony, installed once
// at pool initialization, and re-validated from its raw bytes on every
// withdrawal. Layout (big-endian throughout):
//
//	[0:4]     declared public-input count (must be 8)
//	[4:68]    alpha, uncompressed G1 (x || y)
//	[68:196]  beta, uncompressed G2
//	[196:324] gamma, uncompressed G2
//	[324:452] delta, uncompressed G2
//	[452:1028] IC[0..8], nine uncompressed G1 points
//
// G2 coordinates carry the quadratic-extension components imaginary-part
// first, matching the snarkjs export.

package zkproof

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math/big"

	bn254 "github.com/consensys/gnark-crypto/ecc/bn254"
	"github.com/consensys/gnark-crypto/ecc/bn254/fp"
)

const (
	// PublicInputCount is the number of public inputs the withdraw circuit
	// exposes: root, nullifier hash, recipient high/low, relayer high/low,
	// fee, refund.
	PublicInputCount = 8

	g1Len = 64
	g2Len = 128

	// VerifyingKeyLen is the exact byte length of a serialized key.
	VerifyingKeyLen = 4 + g1Len + 3*g2Len + (PublicInputCount+1)*g1Len
)

// ErrInvalidVerifyingKey is returned when the stored key bytes fail
// structural validation.
var ErrInvalidVerifyingKey = errors.New("invalid verifying key")

// VerifyingKey is the deserialized, structurally validated Groth16 key.
type VerifyingKey struct {
	Alpha bn254.G1Affine
	Beta  bn254.G2Affine
	Gamma bn254.G2Affine
	Delta bn254.G2Affine
	IC    [PublicInputCount + 1]bn254.G1Affine
}

// ParseVerifyingKey deserializes and validates verifying-key bytes. Every
// point must be on its curve, in the correct subgroup, and not the identity.
func ParseVerifyingKey(b []byte) (*VerifyingKey, error) {
	if len(b) != VerifyingKeyLen {
		return nil, fmt.Errorf("%w: length %d, want %d", ErrInvalidVerifyingKey, len(b), VerifyingKeyLen)
	}
	if n := binary.BigEndian.Uint32(b[0:4]); n != PublicInputCount {
		return nil, fmt.Errorf("%w: declared input count %d, want %d", ErrInvalidVerifyingKey, n, PublicInputCount)
	}

	vk := &VerifyingKey{}
	off := 4

	alpha, err := parseG1(b[off : off+g1Len])
	if err != nil {
		return nil, fmt.Errorf("%w: alpha: %v", ErrInvalidVerifyingKey, err)
	}
	if alpha.IsInfinity() {
		return nil, fmt.Errorf("%w: alpha is the identity", ErrInvalidVerifyingKey)
	}
	vk.Alpha = alpha
	off += g1Len

	for i, dst := range []*bn254.G2Affine{&vk.Beta, &vk.Gamma, &vk.Delta} {
		p, err := parseG2(b[off : off+g2Len])
		if err != nil {
			return nil, fmt.Errorf("%w: g2 element %d: %v", ErrInvalidVerifyingKey, i, err)
		}
		if p.IsInfinity() {
			return nil, fmt.Errorf("%w: g2 element %d is the identity", ErrInvalidVerifyingKey, i)
		}
		*dst = p
		off += g2Len
	}

	for i := 0; i <= PublicInputCount; i++ {
		p, err := parseG1(b[off : off+g1Len])
		if err != nil {
			return nil, fmt.Errorf("%w: ic[%d]: %v", ErrInvalidVerifyingKey, i, err)
		}
		if p.IsInfinity() {
			return nil, fmt.Errorf("%w: ic[%d] is the identity", ErrInvalidVerifyingKey, i)
		}
		vk.IC[i] = p
		off += g1Len
	}

	return vk, nil
}

// Bytes serializes the key back into the wire layout. ParseVerifyingKey and
// Bytes are inverses on any structurally valid key.
func (vk *VerifyingKey) Bytes() []byte {
	out := make([]byte, 0, VerifyingKeyLen)
	var count [4]byte
	binary.BigEndian.PutUint32(count[:], PublicInputCount)
	out = append(out, count[:]...)
	out = append(out, g1Bytes(&vk.Alpha)...)
	out = append(out, g2Bytes(&vk.Beta)...)
	out = append(out, g2Bytes(&vk.Gamma)...)
	out = append(out, g2Bytes(&vk.Delta)...)
	for i := range vk.IC {
		out = append(out, g1Bytes(&vk.IC[i])...)
	}
	return out
}

// feFromBE decodes a canonical big-endian base-field element.
func feFromBE(b []byte) (fp.Element, error) {
	v := new(big.Int).SetBytes(b)
	if v.Cmp(fp.Modulus()) >= 0 {
		return fp.Element{}, errors.New("coordinate not below the field modulus")
	}
	var e fp.Element
	e.SetBigInt(v)
	return e, nil
}

// parseG1 decodes an uncompressed big-endian G1 point (x || y) and checks it
// lies on the curve.
func parseG1(b []byte) (bn254.G1Affine, error) {
	var p bn254.G1Affine
	x, err := feFromBE(b[0:32])
	if err != nil {
		return p, fmt.Errorf("x: %w", err)
	}
	y, err := feFromBE(b[32:64])
	if err != nil {
		return p, fmt.Errorf("y: %w", err)
	}
	p.X, p.Y = x, y
	if !p.IsInfinity() && !p.IsOnCurve() {
		return bn254.G1Affine{}, errors.New("point not on curve")
	}
	return p, nil
}

// parseG2 decodes an uncompressed big-endian G2 point with each coordinate's
// extension components imaginary-part first, and checks curve and subgroup
// membership.
func parseG2(b []byte) (bn254.G2Affine, error) {
	var p bn254.G2Affine
	var err error
	if p.X.A1, err = feFromBE(b[0:32]); err != nil {
		return p, fmt.Errorf("x imaginary: %w", err)
	}
	if p.X.A0, err = feFromBE(b[32:64]); err != nil {
		return p, fmt.Errorf("x real: %w", err)
	}
	if p.Y.A1, err = feFromBE(b[64:96]); err != nil {
		return p, fmt.Errorf("y imaginary: %w", err)
	}
	if p.Y.A0, err = feFromBE(b[96:128]); err != nil {
		return p, fmt.Errorf("y real: %w", err)
	}
	if p.IsInfinity() {
		return p, nil
	}
	if !p.IsOnCurve() {
		return bn254.G2Affine{}, errors.New("point not on curve")
	}
	if !p.IsInSubGroup() {
		return bn254.G2Affine{}, errors.New("point not in the prime-order subgroup")
	}
	return p, nil
}

// g1Bytes serializes a G1 point as big-endian x || y.
func g1Bytes(p *bn254.G1Affine) []byte {
	out := make([]byte, g1Len)
	x := p.X.Bytes()
	y := p.Y.Bytes()
	copy(out[0:32], x[:])
	copy(out[32:64], y[:])
	return out
}

// g2Bytes serializes a G2 point imaginary-part first per coordinate.
func g2Bytes(p *bn254.G2Affine) []byte {
	out := make([]byte, g2Len)
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
