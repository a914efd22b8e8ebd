// pool.go - Pool controller: initialize, deposit, withdraw, migrate.
//
// The controller is the single entry point for all pool operations. It owns
// no funds itself: deposits and withdrawals route every lamport through the
// vault with the runtime transfer primitive, and spent-note bookkeeping
// lives in per-nullifier derived accounts rather than in shared state.
// Initialize, Deposit and Withdraw take a runtime snapshot before their
// first effect, so a failing check discards all partial effects;
// MigrateToVault makes a single transfer and takes no snapshot.

package pool

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/svhq/tornado-solana-privacy/internal/hasher"
	"github.com/svhq/tornado-solana-privacy/internal/merkle"
	"github.com/svhq/tornado-solana-privacy/internal/runtime"
	"github.com/svhq/tornado-solana-privacy/internal/zkproof"
)

// Derived-address seeds. These are compatibility-critical: clients derive
// the same addresses off-chain.
var (
	stateSeed      = []byte("tornado")
	vaultSeed      = []byte("vault")
	commitmentSeed = []byte("commitment")
)

// Pool drives one mixing pool instance on a runtime.
type Pool struct {
	mu        sync.Mutex
	rt        *runtime.Runtime
	programID runtime.Address
	log       zerolog.Logger

	deposits    []DepositEvent
	withdrawals []WithdrawEvent
}

// New creates a controller for the pool owned by programID.
func New(rt *runtime.Runtime, programID runtime.Address, log zerolog.Logger) *Pool {
	return &Pool{rt: rt, programID: programID, log: log}
}

// StateAddress returns the derived address of the pool state record.
func (p *Pool) StateAddress() runtime.Address {
	return runtime.DeriveAddress(p.programID, stateSeed)
}

// VaultAddress returns the derived address of the vault.
func (p *Pool) VaultAddress() runtime.Address {
	state := p.StateAddress()
	return runtime.DeriveAddress(p.programID, vaultSeed, state[:])
}

// NullifierRecordAddress returns the derived address marking a nullifier
// hash spent. The hash is the only seed.
func (p *Pool) NullifierRecordAddress(nullifierHash [32]byte) runtime.Address {
	return runtime.DeriveAddress(p.programID, nullifierHash[:])
}

// commitmentRecordAddress returns the derived address recording that a
// commitment was inserted; its existence is the duplicate-deposit check.
func (p *Pool) commitmentRecordAddress(commitment [32]byte) runtime.Address {
	return runtime.DeriveAddress(p.programID, commitmentSeed, commitment[:])
}

// Initialize creates the pool state and vault. The verifying key is
// validated before it is installed; the vault is a zero-data system-owned
// account funded to its rent minimum by the authority.
func (p *Pool) Initialize(authority runtime.Address, denomination uint64, vkBytes []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if denomination == 0 {
		return errors.New("denomination must be positive")
	}
	if _, err := zkproof.ParseVerifyingKey(vkBytes); err != nil {
		return err
	}

	tree, err := merkle.NewTree(merkle.DefaultLevels)
	if err != nil {
		return fmt.Errorf("create merkle tree: %w", err)
	}
	state := &State{
		Denomination: denomination,
		Authority:    authority,
		VerifyingKey: vkBytes,
		Tree:         tree,
	}
	data := state.Serialize()

	snap := p.rt.TakeSnapshot()
	stateAddr := p.StateAddress()
	if err := p.rt.CreateAccount(authority, stateAddr, len(data), p.programID); err != nil {
		return fmt.Errorf("create pool state: %w", err)
	}
	if err := p.rt.SetAccountData(stateAddr, data); err != nil {
		p.rt.Restore(snap)
		return fmt.Errorf("write pool state: %w", err)
	}
	if err := p.rt.CreateAccount(authority, p.VaultAddress(), 0, runtime.SystemOwner); err != nil {
		p.rt.Restore(snap)
		return fmt.Errorf("create vault: %w", err)
	}

	p.log.Info().
		Uint64("denomination", denomination).
		Str("state", stateAddr.String()).
		Str("vault", p.VaultAddress().String()).
		Msg("pool initialized")
	return nil
}

// Deposit inserts a commitment and moves the denomination into the vault.
func (p *Pool) Deposit(depositor runtime.Address, commitment [32]byte) (uint32, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if commitment == ([32]byte{}) || !hasher.InField(commitment) {
		return 0, fmt.Errorf("commitment is not a nonzero field element: %w", hasher.ErrNotInField)
	}

	state, err := p.loadState()
	if err != nil {
		return 0, err
	}

	snap := p.rt.TakeSnapshot()
	abort := func(e error) (uint32, error) {
		p.rt.Restore(snap)
		return 0, e
	}

	// The record's existence is the duplicate check; creation is atomic.
	if err := p.rt.CreateAccount(depositor, p.commitmentRecordAddress(commitment), 0, p.programID); err != nil {
		if errors.Is(err, runtime.ErrAccountExists) {
			return abort(ErrDuplicateCommitment)
		}
		return abort(fmt.Errorf("create commitment record: %w", err))
	}

	leafIndex, err := state.Tree.Insert(commitment)
	if err != nil {
		return abort(err)
	}
	if err := p.rt.Transfer(depositor, p.VaultAddress(), state.Denomination); err != nil {
		return abort(fmt.Errorf("transfer denomination: %w", err))
	}
	if err := p.storeState(state); err != nil {
		return abort(err)
	}

	ev := DepositEvent{
		Commitment: commitment,
		LeafIndex:  leafIndex,
		Timestamp:  time.Now().Unix(),
	}
	p.deposits = append(p.deposits, ev)
	p.log.Info().
		Hex("commitment", commitment[:]).
		Uint32("leaf_index", leafIndex).
		Msg("deposit")
	return leafIndex, nil
}

// WithdrawRequest is the argument tuple of a withdrawal instruction.
type WithdrawRequest struct {
	Proof         []byte
	Root          [32]byte
	NullifierHash [32]byte
	Recipient     runtime.Address
	Relayer       *runtime.Address
	Fee           uint64
	Refund        uint64
}

// WithdrawAccounts are the transaction's account-list roles. FeeRecipient
// is the account the fee is paid to; it must match the declared relayer.
// Submitter signs, pays the nullifier record's rent, and funds any refund.
type WithdrawAccounts struct {
	Vault        runtime.Address
	FeeRecipient runtime.Address
	Submitter    runtime.Address
}

// Withdraw spends a note. Checks run in a fixed order; the first failure
// aborts the transaction and restores the pre-transaction account state.
func (p *Pool) Withdraw(req WithdrawRequest, accounts WithdrawAccounts) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	state, err := p.loadState()
	if err != nil {
		return err
	}
	if err := p.validateVault(accounts.Vault); err != nil {
		return err
	}

	if req.Fee > state.Denomination {
		return ErrFeeExceedsDenomination
	}
	if !state.Tree.IsKnownRoot(req.Root) {
		return ErrUnknownRoot
	}

	snap := p.rt.TakeSnapshot()
	abort := func(e error) error {
		p.rt.Restore(snap)
		return e
	}

	// Spend marker first: creating the record is the double-spend gate, and
	// the runtime refuses a second creation at the same address.
	nullifierAddr := p.NullifierRecordAddress(req.NullifierHash)
	if err := p.rt.CreateAccount(accounts.Submitter, nullifierAddr, 0, p.programID); err != nil {
		if errors.Is(err, runtime.ErrAccountExists) {
			return abort(ErrNoteAlreadySpent)
		}
		return abort(fmt.Errorf("create nullifier record: %w", err))
	}

	vk, err := zkproof.ParseVerifyingKey(state.VerifyingKey)
	if err != nil {
		return abort(err)
	}

	var relayerAddr runtime.Address
	if req.Relayer != nil {
		relayerAddr = *req.Relayer
	}
	inputs := zkproof.PackPublicInputs(
		req.Root, req.NullifierHash,
		[32]byte(req.Recipient), [32]byte(relayerAddr),
		req.Fee, req.Refund,
	)

	proof, err := zkproof.ParseProof(req.Proof)
	if err != nil {
		return abort(err)
	}
	if err := zkproof.Verify(vk, proof, inputs); err != nil {
		return abort(err)
	}

	vault := p.VaultAddress()
	if p.rt.Balance(vault) < state.Denomination+runtime.RentExemptMinimum(0) {
		return abort(ErrVaultBelowRent)
	}

	if req.Relayer != nil && req.Fee > 0 {
		if accounts.FeeRecipient != *req.Relayer {
			return abort(ErrRelayerMismatch)
		}
		if req.Recipient == *req.Relayer {
			return abort(ErrRecipientCannotBeRelayer)
		}
		if err := p.rt.Transfer(vault, *req.Relayer, req.Fee); err != nil {
			return abort(fmt.Errorf("pay relayer fee: %w", err))
		}
	}

	if err := p.rt.Transfer(vault, req.Recipient, state.Denomination-req.Fee); err != nil {
		return abort(fmt.Errorf("pay recipient: %w", err))
	}

	// The refund is a submitter-funded tip to the recipient; it never
	// touches the vault.
	if req.Refund > 0 {
		if err := p.rt.Transfer(accounts.Submitter, req.Recipient, req.Refund); err != nil {
			return abort(fmt.Errorf("pay refund: %w", err))
		}
	}

	ev := WithdrawEvent{
		NullifierHash: req.NullifierHash,
		Recipient:     req.Recipient,
		Relayer:       req.Relayer,
		Fee:           req.Fee,
		Timestamp:     time.Now().Unix(),
	}
	p.withdrawals = append(p.withdrawals, ev)
	p.log.Info().
		Hex("nullifier_hash", req.NullifierHash[:]).
		Str("recipient", req.Recipient.String()).
		Uint64("fee", req.Fee).
		Msg("withdrawal")
	return nil
}

// MigrateToVault moves any surplus balance above the state account's rent
// minimum onto the vault. One-shot by design, idempotent in effect: a
// second call finds no surplus and transfers nothing.
func (p *Pool) MigrateToVault(authority runtime.Address) (uint64, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	state, err := p.loadState()
	if err != nil {
		return 0, err
	}
	if authority != state.Authority {
		return 0, ErrUnauthorized
	}

	stateAddr := p.StateAddress()
	data, err := p.rt.AccountData(stateAddr)
	if err != nil {
		return 0, err
	}
	rentMin := runtime.RentExemptMinimum(len(data))
	balance := p.rt.Balance(stateAddr)
	if balance <= rentMin {
		return 0, nil
	}
	surplus := balance - rentMin
	if err := p.rt.Transfer(stateAddr, p.VaultAddress(), surplus); err != nil {
		return 0, fmt.Errorf("migrate surplus: %w", err)
	}

	p.log.Info().Uint64("lamports", surplus).Msg("migrated state surplus to vault")
	return surplus, nil
}

// DepositEvents returns a copy of the emitted deposit events.
func (p *Pool) DepositEvents() []DepositEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]DepositEvent(nil), p.deposits...)
}

// WithdrawEvents returns a copy of the emitted withdrawal events.
func (p *Pool) WithdrawEvents() []WithdrawEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]WithdrawEvent(nil), p.withdrawals...)
}

// State loads the current pool state record.
func (p *Pool) State() (*State, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.loadState()
}

// loadState reads and decodes the state account. Callers hold p.mu.
func (p *Pool) loadState() (*State, error) {
	data, err := p.rt.AccountData(p.StateAddress())
	if err != nil {
		return nil, fmt.Errorf("load pool state: %w", err)
	}
	return DeserializeState(data)
}

// storeState writes the state record back to its account. Callers hold p.mu.
func (p *Pool) storeState(s *State) error {
	if err := p.rt.SetAccountData(p.StateAddress(), s.Serialize()); err != nil {
		return fmt.Errorf("store pool state: %w", err)
	}
	return nil
}

// validateVault checks the vault account passed in the transaction: it must
// sit at the derived address and be system-owned.
func (p *Pool) validateVault(vault runtime.Address) error {
	if vault != p.VaultAddress() {
		return ErrVaultMismatch
	}
	owner, err := p.rt.AccountOwner(vault)
	if err != nil {
		return fmt.Errorf("vault account: %w", err)
	}
	if owner != runtime.SystemOwner {
		return ErrVaultNotSystemOwned
	}
	return nil
}
