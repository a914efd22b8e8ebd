// state.go - Pool state record and its account serialization.
//
// The state account stores everything a verifier of the pool needs:
// denomination, authority, verifying-key bytes, and the full Merkle
// accumulator. The layout is a fixed big-endian encoding so state
// round-trips byte-identically across program upgrades.

package pool

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/svhq/tornado-solana-privacy/internal/merkle"
	"github.com/svhq/tornado-solana-privacy/internal/runtime"
)

// State is the singleton pool state record.
type State struct {
	Denomination uint64
	Authority    runtime.Address
	VerifyingKey []byte
	Tree         *merkle.Tree
}

// Serialize encodes the state: denomination, authority, verifying key
// (length-prefixed), then the tree (levels, filled subtrees, zeros, next
// index, current root index, root ring buffer).
func (s *State) Serialize() []byte {
	t := s.Tree
	size := 8 + 32 + 4 + len(s.VerifyingKey) + 4 + int(t.Levels)*64 + 4 + 4 + merkle.RootHistorySize*32
	out := make([]byte, 0, size)

	var u64buf [8]byte
	binary.BigEndian.PutUint64(u64buf[:], s.Denomination)
	out = append(out, u64buf[:]...)
	out = append(out, s.Authority[:]...)

	var u32buf [4]byte
	binary.BigEndian.PutUint32(u32buf[:], uint32(len(s.VerifyingKey)))
	out = append(out, u32buf[:]...)
	out = append(out, s.VerifyingKey...)

	binary.BigEndian.PutUint32(u32buf[:], t.Levels)
	out = append(out, u32buf[:]...)
	for i := uint32(0); i < t.Levels; i++ {
		out = append(out, t.FilledSubtrees[i][:]...)
	}
	for i := uint32(0); i < t.Levels; i++ {
		out = append(out, t.Zeros[i][:]...)
	}
	binary.BigEndian.PutUint32(u32buf[:], t.NextIndex)
	out = append(out, u32buf[:]...)
	binary.BigEndian.PutUint32(u32buf[:], t.CurrentRootIndex)
	out = append(out, u32buf[:]...)
	for i := 0; i < merkle.RootHistorySize; i++ {
		out = append(out, t.Roots[i][:]...)
	}
	return out
}

// DeserializeState decodes a state record written by Serialize.
func DeserializeState(b []byte) (*State, error) {
	r := &byteReader{buf: b}
	s := &State{}

	s.Denomination = r.u64()
	r.read(s.Authority[:])

	vkLen := r.u32()
	if vkLen > uint32(len(b)) {
		return nil, errors.New("state: verifying key length exceeds record")
	}
	s.VerifyingKey = make([]byte, vkLen)
	r.read(s.VerifyingKey)

	levels := r.u32()
	if levels < 1 || levels > 24 {
		return nil, fmt.Errorf("state: bad tree depth %d", levels)
	}
	t := &merkle.Tree{
		Levels:         levels,
		FilledSubtrees: make([][32]byte, levels),
		Zeros:          make([][32]byte, levels),
	}
	for i := uint32(0); i < levels; i++ {
		r.read(t.FilledSubtrees[i][:])
	}
	for i := uint32(0); i < levels; i++ {
		r.read(t.Zeros[i][:])
	}
	t.NextIndex = r.u32()
	t.CurrentRootIndex = r.u32()
	for i := 0; i < merkle.RootHistorySize; i++ {
		r.read(t.Roots[i][:])
	}
	if r.failed {
		return nil, errors.New("state: record truncated")
	}
	if r.off != len(b) {
		return nil, fmt.Errorf("state: %d trailing bytes", len(b)-r.off)
	}
	s.Tree = t
	return s, nil
}

// byteReader is a cursor that records underflow instead of panicking, so
// deserialization can fail once at the end.
type byteReader struct {
	buf    []byte
	off    int
	failed bool
}

func (r *byteReader) read(dst []byte) {
	if r.failed || r.off+len(dst) > len(r.buf) {
		r.failed = true
		return
	}
	copy(dst, r.buf[r.off:r.off+len(dst)])
	r.off += len(dst)
}

func (r *byteReader) u32() uint32 {
	var b [4]byte
	r.read(b[:])
	return binary.BigEndian.Uint32(b[:])
}

func (r *byteReader) u64() uint64 {
	var b [8]byte
	r.read(b[:])
	return binary.BigEndian.Uint64(b[:])
}
