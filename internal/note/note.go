// note.go - Client-side note material for deposits and withdrawals.
//
// A note is the (nullifier, secret) pair a depositor keeps. Its commitment
// H(nullifier, secret) goes into the tree at deposit; the nullifier hash
// H(nullifier) is revealed at withdrawal to mark the note spent.

package note

import (
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"

	"github.com/svhq/tornado-solana-privacy/internal/hasher"
)

// Note is the secret material backing one deposit.
type Note struct {
	Nullifier [32]byte
	Secret    [32]byte
}

// New draws a fresh note with both components sampled uniformly from the
// scalar field.
func New() (*Note, error) {
	n := &Note{}
	var err error
	if n.Nullifier, err = randomFieldElement(); err != nil {
		return nil, fmt.Errorf("sample nullifier: %w", err)
	}
	if n.Secret, err = randomFieldElement(); err != nil {
		return nil, fmt.Errorf("sample secret: %w", err)
	}
	return n, nil
}

// randomFieldElement samples a canonical scalar and encodes it big-endian.
func randomFieldElement() ([32]byte, error) {
	var e fr.Element
	if _, err := e.SetRandom(); err != nil {
		return [32]byte{}, err
	}
	return e.Bytes(), nil
}

// Commitment returns H(nullifier, secret), the leaf inserted at deposit.
func (n *Note) Commitment() ([32]byte, error) {
	return hasher.HashLeftRight(n.Nullifier, n.Secret)
}

// NullifierHash returns H(nullifier), revealed at withdrawal.
func (n *Note) NullifierHash() ([32]byte, error) {
	return hasher.HashSingle(n.Nullifier)
}

// Encode renders the note as a wallet string "nullifierhex:secrethex".
func (n *Note) Encode() string {
	return hex.EncodeToString(n.Nullifier[:]) + ":" + hex.EncodeToString(n.Secret[:])
}

// Decode parses a wallet string produced by Encode.
func Decode(s string) (*Note, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) != 2 {
		return nil, errors.New("note must be nullifierhex:secrethex")
	}
	n := &Note{}
	for i, dst := range []*[32]byte{&n.Nullifier, &n.Secret} {
		b, err := hex.DecodeString(parts[i])
		if err != nil {
			return nil, fmt.Errorf("decode note part %d: %w", i, err)
		}
		if len(b) != 32 {
			return nil, fmt.Errorf("note part %d must be 32 bytes, got %d", i, len(b))
		}
		copy(dst[:], b)
	}
	if !hasher.InField(n.Nullifier) || !hasher.InField(n.Secret) {
		return nil, hasher.ErrNotInField
	}
	return n, nil
}
