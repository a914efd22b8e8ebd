// inputs.go - Public-input packing for the withdraw statement.
//
// The circuit exposes eight public inputs. A 32-byte address exceeds the
// 254-bit scalar field, so each address is split into two 128-bit halves,
// each strictly below the modulus. The prover performs the identical split;
// the zero address stands in when no relayer is declared.

package zkproof

import "encoding/binary"

// PublicInputs are the eight 32-byte big-endian field elements, in circuit
// order: root, nullifier hash, recipient high/low, relayer high/low, fee,
// refund.
type PublicInputs [PublicInputCount][32]byte

// PackPublicInputs assembles the public inputs for verification.
func PackPublicInputs(root, nullifierHash, recipient, relayer [32]byte, fee, refund uint64) PublicInputs {
	var in PublicInputs
	in[0] = root
	in[1] = nullifierHash
	in[2], in[3] = SplitAddress(recipient)
	in[4], in[5] = SplitAddress(relayer)
	in[6] = EncodeUint64(fee)
	in[7] = EncodeUint64(refund)
	return in
}

// SplitAddress splits a 32-byte address into two field elements: the high
// half carries the first 16 address bytes right-aligned, the low half the
// last 16.
func SplitAddress(addr [32]byte) (high, low [32]byte) {
	copy(high[16:], addr[0:16])
	copy(low[16:], addr[16:32])
	return high, low
}

// ReconstructAddress is the inverse of SplitAddress.
func ReconstructAddress(high, low [32]byte) [32]byte {
	var addr [32]byte
	copy(addr[0:16], high[16:32])
	copy(addr[16:32], low[16:32])
	return addr
}

// EncodeUint64 right-aligns a u64 in a 32-byte big-endian field element.
func EncodeUint64(v uint64) [32]byte {
	var out [32]byte
	binary.BigEndian.PutUint64(out[24:32], v)
	return out
}
