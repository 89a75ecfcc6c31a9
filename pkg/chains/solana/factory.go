// SPDX-License-Identifier: Apache-2.0

// Package solana implements the Solana wallet engine: key derivation,
// transaction construction, signing and targeted in-place edits of
// third-party transactions. Everything here is pure computation over
// caller-owned data; networking and submission live with the host.
package solana

import (
	solana "github.com/gagliardetto/solana-go"
	"go.uber.org/zap"
)

var (
	// TokenProgramID is the classic SPL Token program.
	TokenProgramID = solana.MustPublicKeyFromBase58("TokenkegQfeZyiNwAJbNbGKPFXCWuBvf9Ss623VQ5DA")
	// Token2022ProgramID is the Token-2022 program; its TransferChecked
	// encoding is byte-compatible with classic SPL Token.
	Token2022ProgramID = solana.MustPublicKeyFromBase58("TokenzQdBNbLqP5VEhdkAS6EPFLC1PHnBqCXEpPxuEb")
	// InviteEscrowProgramID is the invite escrow program.
	InviteEscrowProgramID = solana.MustPublicKeyFromBase58("inv1tEtSwRMtM44tbvJGNiTxMvDfPVnX9StyqXfDfks")

	// MemoProgramID is SPL Memo v2.
	MemoProgramID = solana.MustPublicKeyFromBase58("MemoSq4gqABAXKb96qnH8TysNcWxMyWCqXgDLGmfcHr")
	// ComputeBudgetProgramID accepts the unit-limit and unit-price requests.
	ComputeBudgetProgramID = solana.MustPublicKeyFromBase58("ComputeBudget111111111111111111111111111111")

	allowedPrograms = []solana.PublicKey{
		Token2022ProgramID,
		TokenProgramID,
		InviteEscrowProgramID,
	}
)

// lamportsPerSOL is the fixed-point scale between SOL and lamports.
const lamportsPerSOL = 1_000_000_000

// Factory is the Solana implementation of the utils, private-key and
// transaction factories.
type Factory struct {
	logger *zap.Logger
}

// NewFactory creates a Solana factory. A nil logger falls back to a no-op.
func NewFactory(logger *zap.Logger) *Factory {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Factory{logger: logger}
}

// isProgramAllowed checks the supplied program against the token-program
// allow-list.
func isProgramAllowed(program solana.PublicKey) bool {
	for _, allowed := range allowedPrograms {
		if program.Equals(allowed) {
			return true
		}
	}
	return false
}
