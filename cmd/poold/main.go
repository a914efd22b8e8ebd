// main.go - Command-line entry point for operating a pool instance.
//
// The CLI drives the pool against a locally persisted runtime snapshot, so
// the full deposit/withdraw lifecycle can be exercised end to end: fund
// accounts, initialize a pool with a verifying key, deposit notes, and
// submit withdrawals with externally generated proofs.
package main

import (
	"encoding/hex"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/svhq/tornado-solana-privacy/internal/note"
	"github.com/svhq/tornado-solana-privacy/internal/pool"
	"github.com/svhq/tornado-solana-privacy/internal/runtime"
)

func main() {
	var (
		configPath string
		cfg        *Config
		log        zerolog.Logger
	)

	rootCmd := &cobra.Command{
		Use:   "poold",
		Short: "Operate a fixed-denomination privacy pool",
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			var err error
			cfg, err = LoadConfig(configPath)
			if err != nil {
				return err
			}
			log = NewLogger(cfg.LogLevel)
			return nil
		},
	}
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "poold.json", "config file path")

	// openPool loads the runtime snapshot and wires a controller to it.
	openPool := func() (*pool.Pool, *runtime.Runtime, error) {
		var rt *runtime.Runtime
		if _, err := os.Stat(cfg.SnapshotPath); err == nil {
			rt, err = runtime.LoadFromFile(cfg.SnapshotPath)
			if err != nil {
				return nil, nil, fmt.Errorf("load snapshot: %w", err)
			}
		} else {
			rt = runtime.New()
		}
		programID, err := runtime.AddressFromHex(cfg.ProgramID)
		if err != nil {
			return nil, nil, fmt.Errorf("program id: %w", err)
		}
		return pool.New(rt, programID, log), rt, nil
	}

	save := func(rt *runtime.Runtime) error {
		return rt.SaveToFile(cfg.SnapshotPath)
	}

	var (
		airdropTo       string
		airdropLamports uint64
	)
	airdropCmd := &cobra.Command{
		Use:   "airdrop",
		Short: "Credit lamports to an account in the local runtime",
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, rt, err := openPool()
			if err != nil {
				return err
			}
			to, err := runtime.AddressFromHex(airdropTo)
			if err != nil {
				return err
			}
			rt.Airdrop(to, airdropLamports)
			return save(rt)
		},
	}
	airdropCmd.Flags().StringVar(&airdropTo, "to", "", "recipient address (hex)")
	airdropCmd.Flags().Uint64Var(&airdropLamports, "lamports", 0, "amount to credit")
	_ = airdropCmd.MarkFlagRequired("to")
	_ = airdropCmd.MarkFlagRequired("lamports")

	var (
		initDenomination uint64
		initVKPath       string
		initAuthority    string
	)
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize the pool with a denomination and verifying key",
		RunE: func(cmd *cobra.Command, _ []string) error {
			p, rt, err := openPool()
			if err != nil {
				return err
			}
			vk, err := os.ReadFile(initVKPath)
			if err != nil {
				return fmt.Errorf("read verifying key: %w", err)
			}
			authority, err := runtime.AddressFromHex(initAuthority)
			if err != nil {
				return err
			}
			if err := p.Initialize(authority, initDenomination, vk); err != nil {
				return err
			}
			fmt.Printf("state: %s\nvault: %s\n", p.StateAddress(), p.VaultAddress())
			return save(rt)
		},
	}
	initCmd.Flags().Uint64Var(&initDenomination, "denomination", 0, "pool denomination in lamports")
	initCmd.Flags().StringVar(&initVKPath, "vk", "", "path to the verifying key bytes")
	initCmd.Flags().StringVar(&initAuthority, "authority", "", "authority address (hex)")
	_ = initCmd.MarkFlagRequired("denomination")
	_ = initCmd.MarkFlagRequired("vk")
	_ = initCmd.MarkFlagRequired("authority")

	var (
		depositFrom    string
		depositNoteOut string
	)
	depositCmd := &cobra.Command{
		Use:   "deposit",
		Short: "Generate a note and deposit its commitment",
		RunE: func(cmd *cobra.Command, _ []string) error {
			p, rt, err := openPool()
			if err != nil {
				return err
			}
			depositor, err := runtime.AddressFromHex(depositFrom)
			if err != nil {
				return err
			}
			n, err := note.New()
			if err != nil {
				return err
			}
			c, err := n.Commitment()
			if err != nil {
				return err
			}
			leafIndex, err := p.Deposit(depositor, c)
			if err != nil {
				return err
			}
			if depositNoteOut != "" {
				if err := os.WriteFile(depositNoteOut, []byte(n.Encode()+"\n"), 0600); err != nil {
					return fmt.Errorf("write note: %w", err)
				}
			} else {
				fmt.Printf("note: %s\n", n.Encode())
			}
			fmt.Printf("commitment: %x\nleaf index: %d\n", c, leafIndex)
			return save(rt)
		},
	}
	depositCmd.Flags().StringVar(&depositFrom, "from", "", "depositor address (hex)")
	depositCmd.Flags().StringVar(&depositNoteOut, "note-out", "", "write the note to this file instead of stdout")
	_ = depositCmd.MarkFlagRequired("from")

	var (
		wProofPath string
		wRoot      string
		wNullifier string
		wRecipient string
		wRelayer   string
		wFee       uint64
		wRefund    uint64
		wSubmitter string
	)
	withdrawCmd := &cobra.Command{
		Use:   "withdraw",
		Short: "Submit a withdrawal with a zero-knowledge proof",
		RunE: func(cmd *cobra.Command, _ []string) error {
			p, rt, err := openPool()
			if err != nil {
				return err
			}
			proof, err := os.ReadFile(wProofPath)
			if err != nil {
				return fmt.Errorf("read proof: %w", err)
			}
			root, err := parseHash(wRoot)
			if err != nil {
				return fmt.Errorf("root: %w", err)
			}
			nh, err := parseHash(wNullifier)
			if err != nil {
				return fmt.Errorf("nullifier hash: %w", err)
			}
			recipient, err := runtime.AddressFromHex(wRecipient)
			if err != nil {
				return err
			}
			submitter, err := runtime.AddressFromHex(wSubmitter)
			if err != nil {
				return err
			}

			req := pool.WithdrawRequest{
				Proof:         proof,
				Root:          root,
				NullifierHash: nh,
				Recipient:     recipient,
				Fee:           wFee,
				Refund:        wRefund,
			}
			accounts := pool.WithdrawAccounts{
				Vault:     p.VaultAddress(),
				Submitter: submitter,
			}
			if wRelayer != "" {
				relayer, err := runtime.AddressFromHex(wRelayer)
				if err != nil {
					return err
				}
				req.Relayer = &relayer
				accounts.FeeRecipient = relayer
			}
			if err := p.Withdraw(req, accounts); err != nil {
				return err
			}
			fmt.Println("withdrawal complete")
			return save(rt)
		},
	}
	withdrawCmd.Flags().StringVar(&wProofPath, "proof", "", "path to the 256-byte proof")
	withdrawCmd.Flags().StringVar(&wRoot, "root", "", "merkle root (hex)")
	withdrawCmd.Flags().StringVar(&wNullifier, "nullifier-hash", "", "nullifier hash (hex)")
	withdrawCmd.Flags().StringVar(&wRecipient, "recipient", "", "recipient address (hex)")
	withdrawCmd.Flags().StringVar(&wRelayer, "relayer", "", "relayer address (hex, optional)")
	withdrawCmd.Flags().Uint64Var(&wFee, "fee", 0, "relayer fee in lamports")
	withdrawCmd.Flags().Uint64Var(&wRefund, "refund", 0, "submitter-funded tip to the recipient")
	withdrawCmd.Flags().StringVar(&wSubmitter, "submitter", "", "transaction submitter address (hex)")
	for _, f := range []string{"proof", "root", "nullifier-hash", "recipient", "submitter"} {
		_ = withdrawCmd.MarkFlagRequired(f)
	}

	var migrateAuthority string
	migrateCmd := &cobra.Command{
		Use:   "migrate",
		Short: "Move legacy balance from the state account onto the vault",
		RunE: func(cmd *cobra.Command, _ []string) error {
			p, rt, err := openPool()
			if err != nil {
				return err
			}
			authority, err := runtime.AddressFromHex(migrateAuthority)
			if err != nil {
				return err
			}
			moved, err := p.MigrateToVault(authority)
			if err != nil {
				return err
			}
			fmt.Printf("migrated %d lamports\n", moved)
			return save(rt)
		},
	}
	migrateCmd.Flags().StringVar(&migrateAuthority, "authority", "", "authority address (hex)")
	_ = migrateCmd.MarkFlagRequired("authority")

	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Print the pool state",
		RunE: func(cmd *cobra.Command, _ []string) error {
			p, rt, err := openPool()
			if err != nil {
				return err
			}
			state, err := p.State()
			if err != nil {
				return err
			}
			root := state.Tree.Root()
			fmt.Printf("denomination:   %d\n", state.Denomination)
			fmt.Printf("authority:      %s\n", state.Authority)
			fmt.Printf("next index:     %d\n", state.Tree.NextIndex)
			fmt.Printf("current root:   %x\n", root)
			fmt.Printf("vault balance:  %d\n", rt.Balance(p.VaultAddress()))
			return nil
		},
	}

	rootCmd.AddCommand(airdropCmd, initCmd, depositCmd, withdrawCmd, migrateCmd, showCmd)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// parseHash decodes a 32-byte hex value.
func parseHash(s string) ([32]byte, error) {
	var out [32]byte
	b, err := hex.DecodeString(s)
	if err != nil {
		return out, err
	}
	if len(b) != 32 {
		return out, fmt.Errorf("must be 32 bytes, got %d", len(b))
	}
	copy(out[:], b)
	return out, nil
}
