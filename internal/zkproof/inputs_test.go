package zkproof

import (
	"bytes"
	"crypto/rand"
	"testing"
)

func TestSplitReconstructRoundTrip(t *testing.T) {
	for i := 0; i < 32; i++ {
		var addr [32]byte
		if _, err := rand.Read(addr[:]); err != nil {
			t.Fatalf("rand: %v", err)
		}
		high, low := SplitAddress(addr)
		if !bytes.Equal(high[0:16], make([]byte, 16)) || !bytes.Equal(low[0:16], make([]byte, 16)) {
			t.Fatalf("address halves must be right-aligned 128-bit values")
		}
		if got := ReconstructAddress(high, low); got != addr {
			t.Fatalf("reconstruct(split(%x)) = %x", addr, got)
		}
	}
}

func TestEncodeUint64(t *testing.T) {
	enc := EncodeUint64(1_000_000)
	if !bytes.Equal(enc[0:24], make([]byte, 24)) {
		t.Errorf("u64 must be right-aligned in 32 bytes")
	}
	want := []byte{0, 0, 0, 0, 0, 0x0f, 0x42, 0x40}
	if !bytes.Equal(enc[24:32], want) {
		t.Errorf("EncodeUint64(1000000)[24:] = %x, want %x", enc[24:32], want)
	}

	max := EncodeUint64(^uint64(0))
	for i := 24; i < 32; i++ {
		if max[i] != 0xff {
			t.Errorf("EncodeUint64(max) byte %d = %x", i, max[i])
		}
	}
}

func TestPackPublicInputsOrder(t *testing.T) {
	var root, nh, recipient, relayer [32]byte
	root[31] = 0x11
	nh[31] = 0x22
	for i := range recipient {
		recipient[i] = 0x33
	}
	for i := range relayer {
		relayer[i] = 0x44
	}

	in := PackPublicInputs(root, nh, recipient, relayer, 1_000_000, 500_000)

	if in[0] != root || in[1] != nh {
		t.Errorf("root and nullifier hash must come first")
	}
	wantRecHigh, wantRecLow := SplitAddress(recipient)
	if in[2] != wantRecHigh || in[3] != wantRecLow {
		t.Errorf("recipient split mismatch")
	}
	wantRelHigh, wantRelLow := SplitAddress(relayer)
	if in[4] != wantRelHigh || in[5] != wantRelLow {
		t.Errorf("relayer split mismatch")
	}
	if in[6] != EncodeUint64(1_000_000) || in[7] != EncodeUint64(500_000) {
		t.Errorf("fee and refund packing mismatch")
	}
}

func TestPackPublicInputsZeroRelayer(t *testing.T) {
	var root, nh, recipient, zero [32]byte
	in := PackPublicInputs(root, nh, recipient, zero, 0, 0)
	if in[4] != ([32]byte{}) || in[5] != ([32]byte{}) {
		t.Errorf("absent relayer must pack as the zero address")
	}
}
