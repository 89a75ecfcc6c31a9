// SPDX-License-Identifier: Apache-2.0

// Package wallet exposes the flat, chain-tagged operation surface the host
// binds against. Every function routes through the chain registry; all
// state lives in the caller's arguments.
package wallet

import (
	"go.uber.org/zap"

	"github.com/jup-ag/chainkit/pkg/chains/solana"
	"github.com/jup-ag/chainkit/pkg/errors"
	"github.com/jup-ag/chainkit/pkg/types"
	"github.com/jup-ag/chainkit/pkg/wallet/chain"
)

var defaultFactory = chain.NewChainFactory(zap.NewNop())

// SetLogger re-registers the built-in chains with the given logger. Hosts
// call this once at startup when they want engine diagnostics.
func SetLogger(logger *zap.Logger) {
	defaultFactory = chain.NewChainFactory(logger)
}

func keyFactory(tag types.Blockchain) (chain.Chain, *errors.KeyError) {
	impl, err := defaultFactory.GetChain(tag)
	if err != nil {
		return nil, errors.KeyGenericError(err.Error())
	}
	return impl, nil
}

func txFactory(tag types.Blockchain) (chain.Chain, *errors.TransactionError) {
	impl, err := defaultFactory.GetChain(tag)
	if err != nil {
		return nil, errors.Generic(err.Error())
	}
	return impl, nil
}

// GenerateMnemonic generates a BIP39 mnemonic of 12 or 24 words.
func GenerateMnemonic(length uint32) (types.MnemonicWords, error) {
	impl, err := keyFactory(types.Solana)
	if err != nil {
		return types.MnemonicWords{}, err
	}
	return impl.GenerateMnemonic(length)
}

// Derive derives private keys for every path the derivation expands to.
func Derive(
	tag types.Blockchain,
	mnemonic types.MnemonicWords,
	passphrase *string,
	derivation types.Derivation,
) ([]types.DerivedPrivateKey, error) {
	impl, err := keyFactory(tag)
	if err != nil {
		return nil, err
	}
	return impl.Derive(mnemonic, passphrase, derivation)
}

// DeriveFromData derives a single private key from arbitrary data.
func DeriveFromData(tag types.Blockchain, data string) (types.DerivedPrivateKey, error) {
	impl, err := keyFactory(tag)
	if err != nil {
		return types.DerivedPrivateKey{}, err
	}
	return impl.DeriveFromData(data)
}

// RawPrivateKey creates a validated private key from its text encoding.
func RawPrivateKey(tag types.Blockchain, key string) (types.ChainPrivateKey, error) {
	impl, err := keyFactory(tag)
	if err != nil {
		return types.ChainPrivateKey{}, err
	}
	return impl.RawPrivateKey(key)
}

// IsValid reports whether the address is valid for the chain.
func IsValid(tag types.Blockchain, address string) bool {
	impl, err := keyFactory(tag)
	if err != nil {
		return false
	}
	return impl.IsValid(address)
}

// ParsePublicKey probes the address against every known chain and returns
// the tagged key, or nothing when no chain accepts it.
func ParsePublicKey(address string) *types.ChainPublicKey {
	if !IsValid(types.Solana, address) {
		return nil
	}
	return &types.ChainPublicKey{Contents: address, Chain: types.Solana}
}

// ParsePrivateKey probes the key data against every known chain and
// returns the parsed key, or nothing when no chain accepts it.
func ParsePrivateKey(key string) *types.ChainPrivateKey {
	impl, err := keyFactory(types.Solana)
	if err != nil {
		return nil
	}
	parsed, parseErr := impl.RawPrivateKey(key)
	if parseErr != nil {
		return nil
	}
	return &parsed
}

// SendTransaction builds a native transfer and returns the base64 wire
// bytes.
func SendTransaction(
	tag types.Blockchain,
	sender types.ChainPublicKey,
	receiver types.ChainPublicKey,
	amount types.DecimalNumber,
	parameters types.TransactionParameters,
) (string, error) {
	impl, err := txFactory(tag)
	if err != nil {
		return "", err
	}
	return impl.SendTransaction(sender, receiver, amount, parameters)
}

// TokenTransaction builds a token transfer and returns the base64 wire
// bytes.
func TokenTransaction(
	tag types.Blockchain,
	destination types.TokenDestination,
	owner types.ChainPublicKey,
	token types.ChainPublicKey,
	kind types.TransactionKind,
	parameters types.TransactionParameters,
) (string, error) {
	impl, err := txFactory(tag)
	if err != nil {
		return "", err
	}
	return impl.TokenTransaction(destination, owner, token, kind, parameters)
}

// SignTransaction signs the transaction with the supplied signers.
func SignTransaction(
	tag types.Blockchain,
	transaction string,
	signers []types.ChainPrivateKey,
	parameters *types.TransactionParameters,
) (types.ChainTransaction, error) {
	impl, err := txFactory(tag)
	if err != nil {
		return types.ChainTransaction{}, err
	}
	return impl.SignTransaction(transaction, signers, parameters)
}

// SignMessage signs arbitrary bytes with a single signer.
func SignMessage(
	tag types.Blockchain,
	message string,
	signers []types.ChainPrivateKey,
) (string, error) {
	impl, err := txFactory(tag)
	if err != nil {
		return "", err
	}
	return impl.SignMessage(message, signers)
}

// ModifyTransaction routes to the chain's ModifyTransaction. The Solana
// implementation does not modify anything; it returns a Generic
// "not implemented" error.
func ModifyTransaction(
	tag types.Blockchain,
	transaction string,
	owner types.ChainPrivateKey,
	parameters types.TransactionParameters,
) (string, error) {
	impl, err := txFactory(tag)
	if err != nil {
		return "", err
	}
	return impl.ModifyTransaction(transaction, owner, parameters)
}

// ParseTransaction routes to the chain's ParseTransaction. The Solana
// implementation does not parse anything; it returns a Generic
// "not implemented" error.
func ParseTransaction(tag types.Blockchain, transaction string) (types.ChainTransaction, error) {
	impl, err := txFactory(tag)
	if err != nil {
		return types.ChainTransaction{}, err
	}
	return impl.ParseTransaction(transaction)
}

// GetAssociatedTokenAddress derives the canonical associated token account.
func GetAssociatedTokenAddress(
	walletAddress, ownerProgram, tokenMintAddress string,
) (types.ChainPublicKey, error) {
	impl, err := txFactory(types.Solana)
	if err != nil {
		return types.ChainPublicKey{}, err
	}
	return impl.GetAssociatedTokenAddress(walletAddress, ownerProgram, tokenMintAddress)
}

// GetProgramAddress derives the off-curve program address for the seeds.
func GetProgramAddress(seeds []string, program string) (types.ChainPublicKey, error) {
	impl, err := txFactory(types.Solana)
	if err != nil {
		return types.ChainPublicKey{}, err
	}
	return impl.GetProgramAddress(seeds, program)
}

// GetMessage extracts a transaction's message as base64 wire bytes.
func GetMessage(transaction string) (string, error) {
	impl, err := txFactory(types.Solana)
	if err != nil {
		return "", err
	}
	return impl.GetMessage(transaction)
}

// GetTransaction wraps a bare message into a placeholder-signed
// transaction.
func GetTransaction(message string) (string, error) {
	impl, err := txFactory(types.Solana)
	if err != nil {
		return "", err
	}
	return impl.GetTransaction(message)
}

// AppendSignatureToTransaction writes a caller-supplied signature into the
// signer's slot.
func AppendSignatureToTransaction(signer, signature, transaction string) (string, error) {
	impl, err := txFactory(types.Solana)
	if err != nil {
		return "", err
	}
	return impl.AppendSignatureToTransaction(signer, signature, transaction)
}

// Interface conformance of the Solana implementation.
var _ chain.Chain = (*solana.Factory)(nil)
