package note

import (
	"testing"

	"github.com/svhq/tornado-solana-privacy/internal/hasher"
)

func TestNewNoteIsInField(t *testing.T) {
	n, err := New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if !hasher.InField(n.Nullifier) || !hasher.InField(n.Secret) {
		t.Errorf("note components must be canonical field elements")
	}
}

func TestCommitmentMatchesHash(t *testing.T) {
	n, err := New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	c, err := n.Commitment()
	if err != nil {
		t.Fatalf("Commitment: %v", err)
	}
	want, err := hasher.HashLeftRight(n.Nullifier, n.Secret)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if c != want {
		t.Errorf("commitment must be H(nullifier, secret)")
	}

	nh, err := n.NullifierHash()
	if err != nil {
		t.Fatalf("NullifierHash: %v", err)
	}
	wantNH, err := hasher.HashSingle(n.Nullifier)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if nh != wantNH {
		t.Errorf("nullifier hash must be H(nullifier)")
	}
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	n, err := New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	decoded, err := Decode(n.Encode())
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if *decoded != *n {
		t.Errorf("decode(encode(note)) must round-trip")
	}
}

func TestDecodeRejectsMalformed(t *testing.T) {
	for _, s := range []string{"", "abc", "00:11", "zz:zz"} {
		if _, err := Decode(s); err == nil {
			t.Errorf("Decode(%q) must fail", s)
		}
	}
}
