package pool

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/svhq/tornado-solana-privacy/internal/merkle"
	"github.com/svhq/tornado-solana-privacy/internal/runtime"
)

func testState(t *testing.T) *State {
	t.Helper()
	tree, err := merkle.NewTree(merkle.DefaultLevels)
	require.NoError(t, err)
	for i := byte(1); i <= 3; i++ {
		var leaf [32]byte
		leaf[31] = i
		_, err := tree.Insert(leaf)
		require.NoError(t, err)
	}
	var authority runtime.Address
	authority[0] = 0xaa

	vk := make([]byte, 1028)
	for i := range vk {
		vk[i] = byte(i)
	}
	return &State{
		Denomination: 1_000_000_000,
		Authority:    authority,
		VerifyingKey: vk,
		Tree:         tree,
	}
}

func TestStateSerializationRoundTrip(t *testing.T) {
	s := testState(t)
	data := s.Serialize()

	got, err := DeserializeState(data)
	require.NoError(t, err)
	require.Equal(t, s.Denomination, got.Denomination)
	require.Equal(t, s.Authority, got.Authority)
	require.Equal(t, s.VerifyingKey, got.VerifyingKey)
	require.Equal(t, s.Tree.Levels, got.Tree.Levels)
	require.Equal(t, s.Tree.NextIndex, got.Tree.NextIndex)
	require.Equal(t, s.Tree.CurrentRootIndex, got.Tree.CurrentRootIndex)
	require.Equal(t, s.Tree.FilledSubtrees, got.Tree.FilledSubtrees)
	require.Equal(t, s.Tree.Zeros, got.Tree.Zeros)
	require.Equal(t, s.Tree.Roots, got.Tree.Roots)

	// Deterministic: re-serializing the decoded state is byte-identical.
	require.Equal(t, data, got.Serialize())
}

func TestDeserializeStateRejectsTruncated(t *testing.T) {
	data := testState(t).Serialize()
	_, err := DeserializeState(data[:len(data)-5])
	require.Error(t, err)
}

func TestDeserializeStateRejectsTrailingBytes(t *testing.T) {
	data := testState(t).Serialize()
	_, err := DeserializeState(append(data, 0))
	require.Error(t, err)
}

func TestDeserializeStateRejectsBadDepth(t *testing.T) {
	data := testState(t).Serialize()
	// The depth field sits after denomination, authority, and the
	// length-prefixed verifying key.
	off := 8 + 32 + 4 + 1028
	data[off] = 0xff
	_, err := DeserializeState(data)
	require.Error(t, err)
}
