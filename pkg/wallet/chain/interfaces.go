// SPDX-License-Identifier: Apache-2.0

// Package chain defines the capability contracts a chain implementation
// provides and the registry that routes a Blockchain tag to one. Solana is
// the only implementor today; the seam exists so additional chains slot in
// without changing call sites.
package chain

import "github.com/jup-ag/chainkit/pkg/types"

// UtilsFactory provides chain-independent wallet utilities.
type UtilsFactory interface {
	// GenerateMnemonic generates a mnemonic of the given word count.
	GenerateMnemonic(length uint32) (types.MnemonicWords, error)
}

// PrivateKeyFactory derives and ingests private keys.
type PrivateKeyFactory interface {
	// Derive derives private keys for every path the derivation expands to.
	Derive(mnemonic types.MnemonicWords, passphrase *string, derivation types.Derivation) ([]types.DerivedPrivateKey, error)

	// DeriveFromData derives a single private key from arbitrary data.
	DeriveFromData(data string) (types.DerivedPrivateKey, error)

	// RawPrivateKey creates a validated private key from its text encoding.
	RawPrivateKey(key string) (types.ChainPrivateKey, error)

	// IsValid reports whether the address is valid for the chain.
	IsValid(address string) bool
}

// TransactionFactory constructs, mutates and signs transactions.
type TransactionFactory interface {
	SendTransaction(
		sender types.ChainPublicKey,
		receiver types.ChainPublicKey,
		amount types.DecimalNumber,
		parameters types.TransactionParameters,
	) (string, error)

	TokenTransaction(
		destination types.TokenDestination,
		owner types.ChainPublicKey,
		token types.ChainPublicKey,
		kind types.TransactionKind,
		parameters types.TransactionParameters,
	) (string, error)

	SignTransaction(
		transaction string,
		signers []types.ChainPrivateKey,
		parameters *types.TransactionParameters,
	) (types.ChainTransaction, error)

	SignMessage(message string, signers []types.ChainPrivateKey) (string, error)

	SignTypedData(typedData string, signers []types.ChainPrivateKey) (string, error)

	ModifyTransaction(
		transaction string,
		owner types.ChainPrivateKey,
		parameters types.TransactionParameters,
	) (string, error)

	ParseTransaction(transaction string) (types.ChainTransaction, error)

	GetAssociatedTokenAddress(
		walletAddress, ownerProgram, tokenMintAddress string,
	) (types.ChainPublicKey, error)

	GetProgramAddress(seeds []string, program string) (types.ChainPublicKey, error)

	GetMessage(transaction string) (string, error)

	GetTransaction(message string) (string, error)

	AppendSignatureToTransaction(signer, signature, transaction string) (string, error)
}

// Chain bundles the three capabilities a registered chain implements.
type Chain interface {
	UtilsFactory
	PrivateKeyFactory
	TransactionFactory
}
