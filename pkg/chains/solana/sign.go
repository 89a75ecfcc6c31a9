// SPDX-License-Identifier: Apache-2.0
package solana

import (
	stderrors "errors"

	bin "github.com/gagliardetto/binary"
	solana "github.com/gagliardetto/solana-go"
	"github.com/mr-tron/base58"
	"go.uber.org/zap"

	"github.com/jup-ag/chainkit/pkg/codec"
	"github.com/jup-ag/chainkit/pkg/errors"
	"github.com/jup-ag/chainkit/pkg/types"
)

// Sentinel signatures: all-zero marks an unsigned slot, all-0x01 is the
// placeholder some wallets use to reserve a slot. Either one means no valid
// signature occupies the slot.
var (
	zeroSignature     = solana.Signature{}
	reservedSignature = func() solana.Signature {
		var s solana.Signature
		for i := range s {
			s[i] = 0x01
		}
		return s
	}()
)

var (
	errNotEnoughSigners      = stderrors.New("not enough signers")
	errTooManySigners        = stderrors.New("too many signers")
	errKeypairPubkeyMismatch = stderrors.New("keypair-pubkey mismatch")
)

// SignTransaction parses the base64 wire bytes, applies the requested
// best-effort mutations, signs with the supplied signers and reports the
// signed artifact together with its signer, account and signature metadata.
//
// When the signers do not cover every required slot the engine falls back
// to partial signing: signatures land at their canonical positions, slots
// already holding a valid signature are left untouched.
func (f *Factory) SignTransaction(
	transaction string,
	signers []types.ChainPrivateKey,
	parameters *types.TransactionParameters,
) (types.ChainTransaction, error) {
	if len(signers) == 0 {
		return types.ChainTransaction{}, errors.SignerMissing()
	}
	if parameters == nil {
		return types.ChainTransaction{}, errors.Parameters("No parameters were provided")
	}

	transactionBytes, err := codec.FromBase64(transaction)
	if err != nil {
		return types.ChainTransaction{}, errors.ParsingFailureErr(err)
	}

	signerKeys, err := signerKeypairs(signers)
	if err != nil {
		return types.ChainTransaction{}, err
	}

	tx, err := parseTransaction(transactionBytes, parameters.TransactionType)
	if err != nil {
		return types.ChainTransaction{}, err
	}

	// Mutations are best-effort: a transaction that cannot be rewritten as
	// requested is still signed as-is.
	if parameters.SwapSlippageBps != nil {
		if err := mutateTransactionSlippageBps(tx, *parameters.SwapSlippageBps); err != nil {
			f.logger.Debug("slippage rewrite skipped", zap.Error(err))
		}
	}
	if parameters.ComputeBudgetUnitLimit != nil {
		prependComputeBudgetInstruction(&tx.Message, computeUnitLimitData(*parameters.ComputeBudgetUnitLimit))
	}
	if parameters.ComputeBudgetUnitPrice != nil {
		prependComputeBudgetInstruction(&tx.Message, computeUnitPriceData(*parameters.ComputeBudgetUnitPrice))
	}

	if parameters.ExternalAddress != nil {
		blockhash, err := solana.HashFromBase58(parameters.ExternalAddress.RecentBlockhash)
		if err != nil {
			return types.ChainTransaction{}, errors.ParsingFailureErr(err)
		}
		// A fresh blockhash invalidates existing signatures, so it is only
		// applied while every slot still holds a sentinel.
		if allSignaturesSentinel(tx.Signatures) {
			tx.Message.RecentBlockhash = blockhash
		}
	}

	signed, err := signVersioned(tx, signerKeys)
	switch {
	case err == nil:
		return f.chainTransaction(signed, signers)
	case stderrors.Is(err, errNotEnoughSigners):
		partial, err := f.partialSign(transactionBytes, signerKeys)
		if err != nil {
			return types.ChainTransaction{}, err
		}
		return f.chainTransaction(partial, signers)
	default:
		return types.ChainTransaction{}, errors.ParsingFailureErr(err)
	}
}

// SignMessage signs arbitrary bytes with a single signer. Inputs that parse
// as any Solana transaction or message form are refused so the host cannot
// obtain a valid transaction signature through this surface.
func (f *Factory) SignMessage(
	message string,
	signers []types.ChainPrivateKey,
) (string, error) {
	switch len(signers) {
	case 1:
	case 0:
		return "", errors.SignerMissing()
	default:
		return "", errors.MultipleSigners()
	}

	messageBytes, err := codec.FromBase64(message)
	if err != nil {
		return "", errors.ParsingFailureErr(err)
	}

	if looksLikeTransactionPayload(messageBytes) {
		return "", errors.SignMsgError("You cannot sign solana transactions using sign_message")
	}

	keys, err := signerKeypairs(signers[:1])
	if err != nil {
		return "", err
	}
	signature, err := keys[0].Sign(messageBytes)
	if err != nil {
		return "", errors.InstructionErr(err)
	}
	return codec.ToBase64(signature[:]), nil
}

// SignTypedData has no meaning on Solana.
func (f *Factory) SignTypedData(string, []types.ChainPrivateKey) (string, error) {
	return "", errors.Generic("Not applicable")
}

// ModifyTransaction is declared on the capability surface but its
// semantics are not defined yet.
func (f *Factory) ModifyTransaction(
	string, types.ChainPrivateKey, types.TransactionParameters,
) (string, error) {
	return "", errors.Generic("modify_transaction is not implemented")
}

// ParseTransaction is declared on the capability surface but its semantics
// are not defined yet.
func (f *Factory) ParseTransaction(string) (types.ChainTransaction, error) {
	return types.ChainTransaction{}, errors.Generic("parse_transaction is not implemented")
}

// parseTransaction deserializes the wire bytes according to the declared
// form. A payload that carries a v0 message cannot be read as legacy.
func parseTransaction(data []byte, transactionType types.TransactionType) (*solana.Transaction, error) {
	tx, err := solana.TransactionFromDecoder(bin.NewBinDecoder(data))
	if err != nil {
		return nil, errors.ParsingFailureErr(err)
	}
	if transactionType == types.Legacy && tx.Message.GetVersion() != solana.MessageVersionLegacy {
		return nil, errors.ParsingFailure("expected a legacy transaction")
	}
	return tx, nil
}

// signVersioned rebuilds the signature list from the supplied signers.
// Every required slot must be covered or the caller falls back to partial
// signing.
func signVersioned(tx *solana.Transaction, signerKeys []solana.PrivateKey) (*solana.Transaction, error) {
	numRequired := int(tx.Message.Header.NumRequiredSignatures)
	if len(tx.Message.AccountKeys) < numRequired {
		return nil, errors.ParsingFailure("account keys shorter than required signers")
	}
	expected := tx.Message.AccountKeys[:numRequired]

	if len(signerKeys) > numRequired {
		return nil, errTooManySigners
	}
	for _, key := range signerKeys {
		if signerPosition(expected, key.PublicKey()) < 0 {
			return nil, errKeypairPubkeyMismatch
		}
	}

	content, err := tx.Message.MarshalBinary()
	if err != nil {
		return nil, err
	}

	signatures := make([]solana.Signature, numRequired)
	for _, key := range signerKeys {
		position := signerPosition(expected, key.PublicKey())
		signature, err := key.Sign(content)
		if err != nil {
			return nil, err
		}
		signatures[position] = signature
	}
	for _, signature := range signatures {
		if signature == zeroSignature {
			return nil, errNotEnoughSigners
		}
	}

	tx.Signatures = signatures
	return tx, nil
}

// partialSign re-reads the original wire bytes, keeping whatever foreign
// signatures they carry, and writes each supplied signer's signature into
// its canonical slot if the slot is still unsigned.
func (f *Factory) partialSign(originalBytes []byte, signerKeys []solana.PrivateKey) (*solana.Transaction, error) {
	tx, err := solana.TransactionFromDecoder(bin.NewBinDecoder(originalBytes))
	if err != nil {
		return nil, errors.ParsingFailureErr(err)
	}

	content, err := tx.Message.MarshalBinary()
	if err != nil {
		return nil, errors.ParsingFailureErr(err)
	}

	for _, key := range signerKeys {
		position := signerPosition(tx.Message.AccountKeys, key.PublicKey())
		if position < 0 || position >= len(tx.Signatures) {
			continue
		}
		if tx.Signatures[position] != zeroSignature {
			continue
		}
		signature, err := key.Sign(content)
		if err != nil {
			return nil, errors.ParsingFailureErr(err)
		}
		tx.Signatures[position] = signature
	}

	f.logger.Debug("partially signed transaction",
		zap.Int("signers", len(signerKeys)),
		zap.Int("slots", len(tx.Signatures)))
	return tx, nil
}

// chainTransaction serializes the transaction and collects the metadata
// record handed back to the host.
func (f *Factory) chainTransaction(
	tx *solana.Transaction,
	signers []types.ChainPrivateKey,
) (types.ChainTransaction, error) {
	serialized, err := tx.MarshalBinary()
	if err != nil {
		return types.ChainTransaction{}, errors.ParsingFailureErr(err)
	}

	signerKeys := make([]types.ChainPublicKey, 0, len(signers))
	for _, signer := range signers {
		signerKeys = append(signerKeys, signer.PublicKey)
	}

	accounts := make([]types.ChainPublicKey, 0, len(tx.Message.AccountKeys))
	for _, key := range tx.Message.AccountKeys {
		accounts = append(accounts, types.ChainPublicKey{
			Contents: key.String(),
			Chain:    types.Solana,
		})
	}

	return types.ChainTransaction{
		Tx:                  codec.ToBase64(serialized),
		Signers:             signerKeys,
		Accounts:            accounts,
		FullSignature:       aggregateSignature(tx.Signatures),
		Signatures:          signaturesToBase58(tx.Signatures),
		InstructionPrograms: instructionPrograms(&tx.Message),
	}, nil
}

// aggregateSignature base58-encodes the concatenation of all raw signature
// bytes, or nothing when the transaction carries no signatures.
func aggregateSignature(signatures []solana.Signature) *string {
	if len(signatures) == 0 {
		return nil
	}
	concatenated := make([]byte, 0, len(signatures)*64)
	for _, signature := range signatures {
		concatenated = append(concatenated, signature[:]...)
	}
	encoded := base58.Encode(concatenated)
	return &encoded
}

func signaturesToBase58(signatures []solana.Signature) []string {
	if len(signatures) == 0 {
		return nil
	}
	encoded := make([]string, 0, len(signatures))
	for _, signature := range signatures {
		encoded = append(encoded, base58.Encode(signature[:]))
	}
	return encoded
}

// instructionPrograms resolves each compiled instruction's program id
// through its index into the static account keys.
func instructionPrograms(message *solana.Message) []string {
	programs := make([]string, 0, len(message.Instructions))
	for _, instruction := range message.Instructions {
		index := int(instruction.ProgramIDIndex)
		if index >= len(message.AccountKeys) {
			continue
		}
		programs = append(programs, message.AccountKeys[index].String())
	}
	return programs
}

// looksLikeTransactionPayload reports whether the bytes deserialize as any
// of the four Solana transaction or message wire forms.
func looksLikeTransactionPayload(data []byte) bool {
	if _, err := solana.TransactionFromDecoder(bin.NewBinDecoder(data)); err == nil {
		return true
	}
	message := new(solana.Message)
	if err := message.UnmarshalWithDecoder(bin.NewBinDecoder(data)); err == nil {
		return true
	}
	return false
}

func allSignaturesSentinel(signatures []solana.Signature) bool {
	for _, signature := range signatures {
		if signature != zeroSignature && signature != reservedSignature {
			return false
		}
	}
	return true
}

func signerPosition(keys []solana.PublicKey, key solana.PublicKey) int {
	for i, candidate := range keys {
		if candidate.Equals(key) {
			return i
		}
	}
	return -1
}

// signerKeypairs decodes each signer's base58 contents into a 64-byte
// ed25519 keypair.
func signerKeypairs(signers []types.ChainPrivateKey) ([]solana.PrivateKey, error) {
	keys := make([]solana.PrivateKey, 0, len(signers))
	for _, signer := range signers {
		raw, err := base58.Decode(signer.Contents)
		if err != nil {
			return nil, errors.ParsingFailureErr(err)
		}
		if len(raw) != 64 {
			return nil, errors.KeyPair("invalid keypair length")
		}
		keys = append(keys, solana.PrivateKey(raw))
	}
	return keys, nil
}
