// events.go - Deposit and withdrawal events.

package pool

import "github.com/svhq/tornado-solana-privacy/internal/runtime"

// DepositEvent records a successful deposit.
type DepositEvent struct {
	Commitment [32]byte
	LeafIndex  uint32
	Timestamp  int64
}

// WithdrawEvent records a successful withdrawal. Relayer is nil when the
// withdrawal declared no relayer.
type WithdrawEvent struct {
	NullifierHash [32]byte
	Recipient     runtime.Address
	Relayer       *runtime.Address
	Fee           uint64
	Timestamp     int64
}
