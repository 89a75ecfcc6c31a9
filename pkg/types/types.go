// SPDX-License-Identifier: Apache-2.0

// Package types holds the chain-tagged data model shared by every factory:
// keys, derivation descriptors, transaction parameters and the signing
// result record handed back to the host.
package types

import (
	"strconv"
	"strings"
)

// Blockchain tags every key and routes dispatch. Solana is the only chain
// today; the tag keeps call sites stable when more are added.
type Blockchain string

const (
	Solana Blockchain = "SOLANA"
)

// DerivationPathKind selects the path template a Derivation expands into.
type DerivationPathKind string

const (
	// Bip44Root derives the single account root m/44'/501'.
	Bip44Root DerivationPathKind = "BIP44_ROOT"
	// Bip44 derives accounts at m/44'/501'/{i}'.
	Bip44 DerivationPathKind = "BIP44"
	// Bip44Change derives accounts at m/44'/501'/{i}'/0'.
	Bip44Change DerivationPathKind = "BIP44_CHANGE"
	// Deprecated derives accounts at the legacy m/501'/{i}'/0/0 layout.
	Deprecated DerivationPathKind = "DEPRECATED"
)

// Format returns the path template with "{}" where the account index goes.
func (k DerivationPathKind) Format() string {
	switch k {
	case Bip44Root:
		return "m/44'/501'"
	case Bip44:
		return "m/44'/501'/{}'"
	case Bip44Change:
		return "m/44'/501'/{}'/0'"
	case Deprecated:
		return "m/501'/{}'/0/0"
	default:
		return ""
	}
}

// Derivation describes a range of accounts to derive.
type Derivation struct {
	Start uint32             `json:"start"`
	Count uint32             `json:"count"`
	Path  DerivationPathKind `json:"path"`
}

// PathWithIndex pairs an expanded path string with its account index.
type PathWithIndex struct {
	Index uint32
	Path  string
}

// PathsWithIndex expands the derivation into concrete path strings.
// Bip44Root always yields the single root path at index 0.
func (d Derivation) PathsWithIndex() []PathWithIndex {
	if d.Path == Bip44Root {
		return []PathWithIndex{{Index: 0, Path: d.Path.Format()}}
	}
	paths := make([]PathWithIndex, 0, d.Count)
	for i := d.Start; i < d.Start+d.Count; i++ {
		paths = append(paths, PathWithIndex{
			Index: i,
			Path:  strings.Replace(d.Path.Format(), "{}", strconv.FormatUint(uint64(i), 10), 1),
		})
	}
	return paths
}

// MnemonicWords is an ordered BIP39 word sequence.
type MnemonicWords struct {
	Words []string `json:"words"`
}

// MnemonicFromString splits a space-joined phrase into its words.
func MnemonicFromString(s string) MnemonicWords {
	return MnemonicWords{Words: strings.Split(s, " ")}
}

// Joined returns the space-joined sentence form used for seed derivation.
func (m MnemonicWords) Joined() string {
	return strings.Join(m.Words, " ")
}

// ChainPublicKey is a public key tagged with the chain it belongs to.
// For Solana the contents are the base58 form of a 32-byte ed25519 point.
type ChainPublicKey struct {
	Contents string     `json:"contents"`
	Chain    Blockchain `json:"chain"`
}

// ChainPrivateKey holds a base58-encoded 64-byte keypair and its public half.
type ChainPrivateKey struct {
	Contents  string         `json:"contents"`
	PublicKey ChainPublicKey `json:"public_key"`
}

// DerivedPrivateKey is a ChainPrivateKey plus its derivation provenance.
type DerivedPrivateKey struct {
	Contents  string              `json:"contents"`
	PublicKey ChainPublicKey      `json:"public_key"`
	Index     uint32              `json:"index"`
	Path      *string             `json:"path,omitempty"`
	PathKind  *DerivationPathKind `json:"path_type,omitempty"`
}

// DecimalNumber carries an arbitrary-precision decimal as its string form.
type DecimalNumber struct {
	Value string `json:"value"`
}

// NewDecimalNumber wraps a decimal string.
func NewDecimalNumber(value string) DecimalNumber {
	return DecimalNumber{Value: value}
}

// TransactionType selects the wire form a transaction payload is parsed as.
type TransactionType string

const (
	Legacy    TransactionType = "LEGACY"
	Versioned TransactionType = "VERSIONED"
)

// ExternalAddress carries chain state fetched by the host, currently only
// the recent blockhash the engine cannot obtain itself.
type ExternalAddress struct {
	RecentBlockhash string `json:"recent_blockhash"`
}

// TransactionParameters is the optional bag of knobs for construction and
// signing. Nil pointer fields mean "not requested".
type TransactionParameters struct {
	ExternalAddress        *ExternalAddress `json:"external_address,omitempty"`
	TransactionType        TransactionType  `json:"transaction_type"`
	OwnerProgram           *string          `json:"owner_program,omitempty"`
	Decimals               *uint8           `json:"decimals,omitempty"`
	Memo                   *string          `json:"memo,omitempty"`
	References             []string         `json:"references,omitempty"`
	SwapSlippageBps        *uint16          `json:"swap_slippage_bps,omitempty"`
	ComputeBudgetUnitPrice *uint64          `json:"compute_budget_unit_price,omitempty"`
	ComputeBudgetUnitLimit *uint32          `json:"compute_budget_unit_limit,omitempty"`
}

// TokenTransfer is the fungible-token transaction kind.
type TokenTransfer struct {
	Amount       DecimalNumber `json:"amount"`
	CloseAccount bool          `json:"close_account"`
}

// NftTransfer is accepted in the model but not supported on Solana.
type NftTransfer struct {
	Amount uint64  `json:"amount"`
	ID     *string `json:"id,omitempty"`
}

// TransactionKind is a tagged union; exactly one field is set.
type TransactionKind struct {
	Token *TokenTransfer `json:"token,omitempty"`
	Nft   *NftTransfer   `json:"nft,omitempty"`
}

// AccountDestination targets an existing token account.
type AccountDestination struct {
	TransferDestination string `json:"transfer_destination"`
}

// WalletDestination targets a wallet; the transfer creates the wallet's
// associated token account first.
type WalletDestination struct {
	PublicKey ChainPublicKey `json:"public_key"`
}

// TokenDestination is a tagged union; exactly one field is set.
type TokenDestination struct {
	Account *AccountDestination `json:"account,omitempty"`
	Wallet  *WalletDestination  `json:"wallet,omitempty"`
}

// ChainTransaction is the signing result: the wire bytes plus the signer,
// account and signature metadata the host needs to reason about the
// artifact without re-parsing it.
//
// The order of signatures matches the order of signer public keys in the
// message's account keys; only the first len(signatures) entries of the
// account keys are signers.
type ChainTransaction struct {
	Tx                  string           `json:"tx"`
	Signers             []ChainPublicKey `json:"signers"`
	Accounts            []ChainPublicKey `json:"accounts"`
	FullSignature       *string          `json:"full_signature,omitempty"`
	Signatures          []string         `json:"signatures,omitempty"`
	InstructionPrograms []string         `json:"instruction_programs"`
}
