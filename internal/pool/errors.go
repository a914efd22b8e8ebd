// errors.go - Error tags for pool operations.
//
// Every tag aborts the enclosing transaction; there is no retry or
// partial-commit path. The verifier tags live in the zkproof package and are
// re-exported here so callers match against one surface.

package pool

import (
	"errors"

	"github.com/svhq/tornado-solana-privacy/internal/merkle"
	"github.com/svhq/tornado-solana-privacy/internal/zkproof"
)

var (
	// ErrUnknownRoot rejects a withdrawal citing a root outside the last 30.
	ErrUnknownRoot = errors.New("unknown merkle root")

	// ErrNoteAlreadySpent rejects a second spend of the same nullifier.
	ErrNoteAlreadySpent = errors.New("note has already been spent")

	// ErrDuplicateCommitment rejects a commitment already in the pool.
	ErrDuplicateCommitment = errors.New("commitment has already been submitted")

	// ErrMerkleTreeFull rejects deposits once the insertion cursor reaches
	// capacity.
	ErrMerkleTreeFull = merkle.ErrTreeFull

	// ErrInvalidProof is the pairing-check failure tag.
	ErrInvalidProof = zkproof.ErrInvalidProof

	// ErrInvalidProofFormat marks proof bytes that do not parse as points.
	ErrInvalidProofFormat = zkproof.ErrInvalidProofFormat

	// ErrInvalidVerifyingKey marks stored key bytes failing validation.
	ErrInvalidVerifyingKey = zkproof.ErrInvalidVerifyingKey

	// ErrFeeExceedsDenomination rejects fee > denomination.
	ErrFeeExceedsDenomination = errors.New("fee exceeds denomination")

	// ErrRelayerMismatch rejects a fee sink differing from the declared
	// relayer.
	ErrRelayerMismatch = errors.New("fee recipient does not match declared relayer")

	// ErrRecipientCannotBeRelayer blocks self-rebating withdrawals.
	ErrRecipientCannotBeRelayer = errors.New("recipient cannot be the relayer")

	// ErrVaultBelowRent blocks outflows that would drop the vault below its
	// rent-exemption minimum.
	ErrVaultBelowRent = errors.New("vault would drop below rent-exemption minimum")

	// ErrVaultMismatch rejects a vault account at the wrong address.
	ErrVaultMismatch = errors.New("vault account does not match derived address")

	// ErrVaultNotSystemOwned rejects a vault with an unexpected owner.
	ErrVaultNotSystemOwned = errors.New("vault account is not system-owned")

	// ErrUnauthorized rejects privileged operations signed by the wrong
	// authority.
	ErrUnauthorized = errors.New("signer is not the pool authority")
)
