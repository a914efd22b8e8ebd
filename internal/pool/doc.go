// Package pool implements a fixed-denomination mixing pool with
// zero-knowledge withdrawals.
//
// Overview:
//   - Deposits insert a Poseidon commitment into a 20-level append-only
//     Merkle accumulator and move the denomination into a derived vault
//   - Withdrawals present a Groth16 proof (BN254) of knowledge of a
//     committed note, anchored to one of the last 30 Merkle roots
//   - Spent notes are marked by creating a per-nullifier derived account;
//     the runtime's create-if-absent primitive makes double spends fail
//     atomically
//
// Security model:
//   - The verifying key comes from an external trusted-setup ceremony and
//     is structurally re-validated on every withdrawal
//   - All fund movement is mediated by the runtime transfer primitive; the
//     vault never drops below its rent-exemption minimum
//   - Recipient and relayer addresses are bound into the proof as split
//     128-bit public inputs, so a relayer cannot redirect a withdrawal
//
// Usage:
//   - Create a controller with New, then Initialize, Deposit, Withdraw,
//     and MigrateToVault
//   - Client-side note material lives in the note package; proof-format
//     helpers in zkproof; gnark setup export in zksetup
package pool
