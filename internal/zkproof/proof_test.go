package zkproof

import (
	"bytes"
	"errors"
	"testing"

	bn254 "github.com/consensys/gnark-crypto/ecc/bn254"
	"github.com/consensys/gnark-crypto/ecc/bn254/fp"
)

func TestChangeEndiannessInvolution(t *testing.T) {
	in := make([]byte, 64)
	for i := range in {
		in[i] = byte(i + 1)
	}
	once := ChangeEndianness(in)
	twice := ChangeEndianness(once)
	if !bytes.Equal(in, twice) {
		t.Fatalf("ChangeEndianness applied twice must be the identity")
	}
	for i := 0; i < 32; i++ {
		if once[i] != in[31-i] {
			t.Fatalf("first word must be byte-reversed")
		}
		if once[32+i] != in[63-i] {
			t.Fatalf("second word must be byte-reversed")
		}
	}
}

func TestNegateG1OnGenerator(t *testing.T) {
	_, _, g1, _ := bn254.Generators()

	var enc [64]byte
	copy(enc[:], g1Bytes(&g1))
	negEnc, err := NegateG1(enc)
	if err != nil {
		t.Fatalf("NegateG1: %v", err)
	}

	neg, err := parseG1(negEnc[:])
	if err != nil {
		t.Fatalf("negated encoding does not parse: %v", err)
	}
	if !neg.X.Equal(&g1.X) {
		t.Errorf("negation must preserve x")
	}
	var ySum fp.Element
	ySum.Add(&neg.Y, &g1.Y)
	if !ySum.IsZero() {
		t.Errorf("negated y must be the additive inverse")
	}

	// Negating twice returns the original encoding.
	back, err := NegateG1(negEnc)
	if err != nil {
		t.Fatalf("NegateG1 twice: %v", err)
	}
	if back != enc {
		t.Errorf("double negation must be the identity")
	}
}

func TestNegateG1RejectsNonCanonical(t *testing.T) {
	var enc [64]byte
	for i := range enc {
		enc[i] = 0xff
	}
	if _, err := NegateG1(enc); err == nil {
		t.Errorf("coordinates above the modulus must be rejected")
	}
}

func TestParseProofRejectsBadLength(t *testing.T) {
	if _, err := ParseProof(make([]byte, 255)); !errors.Is(err, ErrInvalidProofFormat) {
		t.Errorf("expected ErrInvalidProofFormat for short proof, got %v", err)
	}
	if _, err := ParseProof(make([]byte, 257)); !errors.Is(err, ErrInvalidProofFormat) {
		t.Errorf("expected ErrInvalidProofFormat for long proof, got %v", err)
	}
}

func TestParseProofRejectsNonPoints(t *testing.T) {
	proof := make([]byte, ProofLen)
	// x = 1, y = 1 is not on the curve y^2 = x^3 + 3.
	proof[31] = 1
	proof[63] = 1
	if _, err := ParseProof(proof); !errors.Is(err, ErrInvalidProofFormat) {
		t.Errorf("expected ErrInvalidProofFormat for off-curve a, got %v", err)
	}
}

func TestParseProofAcceptsGeneratorPoints(t *testing.T) {
	_, _, g1, g2 := bn254.Generators()

	proof := make([]byte, 0, ProofLen)
	proof = append(proof, g1Bytes(&g1)...)
	proof = append(proof, g2Bytes(&g2)...)
	proof = append(proof, g1Bytes(&g1)...)

	p, err := ParseProof(proof)
	if err != nil {
		t.Fatalf("ParseProof: %v", err)
	}
	// A comes back negated.
	var ySum fp.Element
	ySum.Add(&p.NegA.Y, &g1.Y)
	if !ySum.IsZero() || !p.NegA.X.Equal(&g1.X) {
		t.Errorf("parsed proof must hold the negated a point")
	}
	if !p.C.Equal(&g1) {
		t.Errorf("c must parse untransformed")
	}
	if !p.B.Equal(&g2) {
		t.Errorf("b must parse untransformed")
	}
}
