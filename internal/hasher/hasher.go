// hasher.go - Poseidon hashing over the BN254 scalar field.
//
// The pool commits to notes with the circom-parameter Poseidon sponge so that
// on-chain roots match what the snarkjs proving toolchain computes. All
// values cross this package boundary as 32-byte big-endian field elements.

package hasher

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	"github.com/iden3/go-iden3-crypto/poseidon"
)

// ErrNotInField is returned when an input is not a canonical field element,
// i.e. its big-endian value is >= the BN254 scalar modulus.
var ErrNotInField = errors.New("input is not a canonical BN254 scalar")

// Modulus returns the BN254 scalar field modulus as a fresh big.Int.
func Modulus() *big.Int {
	return fr.Modulus()
}

// InField reports whether the 32-byte big-endian value is strictly less than
// the field modulus.
func InField(b [32]byte) bool {
	v := new(big.Int).SetBytes(b[:])
	return v.Cmp(fr.Modulus()) < 0
}

// HashLeftRight computes the two-input Poseidon hash H(left, right).
// Both inputs must be canonical field elements.
func HashLeftRight(left, right [32]byte) ([32]byte, error) {
	if !InField(left) || !InField(right) {
		return [32]byte{}, ErrNotInField
	}
	l := new(big.Int).SetBytes(left[:])
	r := new(big.Int).SetBytes(right[:])
	h, err := poseidon.Hash([]*big.Int{l, r})
	if err != nil {
		return [32]byte{}, fmt.Errorf("poseidon hash: %w", err)
	}
	return toBytes32(h), nil
}

// HashSingle computes the one-input Poseidon hash H(x). Used for nullifier
// hashes and the empty leaf value.
func HashSingle(x [32]byte) ([32]byte, error) {
	if !InField(x) {
		return [32]byte{}, ErrNotInField
	}
	h, err := poseidon.Hash([]*big.Int{new(big.Int).SetBytes(x[:])})
	if err != nil {
		return [32]byte{}, fmt.Errorf("poseidon hash: %w", err)
	}
	return toBytes32(h), nil
}

// toBytes32 encodes a field element as a 32-byte big-endian array.
func toBytes32(v *big.Int) [32]byte {
	var out [32]byte
	v.FillBytes(out[:])
	return out
}
