// SPDX-License-Identifier: Apache-2.0
package solana

import (
	bin "github.com/gagliardetto/binary"
	solana "github.com/gagliardetto/solana-go"
	"github.com/mr-tron/base58"

	"github.com/jup-ag/chainkit/pkg/codec"
	"github.com/jup-ag/chainkit/pkg/errors"
	"github.com/jup-ag/chainkit/pkg/types"
)

// GetAssociatedTokenAddress derives the canonical associated token account
// for a wallet, token program and mint. The token program must be
// allow-listed.
func (f *Factory) GetAssociatedTokenAddress(
	walletAddress, ownerProgram, tokenMintAddress string,
) (types.ChainPublicKey, error) {
	wallet, err := solana.PublicKeyFromBase58(walletAddress)
	if err != nil {
		return types.ChainPublicKey{}, errors.TxPublicKeyErr(err)
	}
	program, err := solana.PublicKeyFromBase58(ownerProgram)
	if err != nil {
		return types.ChainPublicKey{}, errors.TxPublicKeyErr(err)
	}
	mint, err := solana.PublicKeyFromBase58(tokenMintAddress)
	if err != nil {
		return types.ChainPublicKey{}, errors.TxPublicKeyErr(err)
	}
	if !isProgramAllowed(program) {
		return types.ChainPublicKey{}, errors.InstructionError("wrong token program")
	}

	ata, err := associatedTokenAddress(wallet, program, mint)
	if err != nil {
		return types.ChainPublicKey{}, errors.InstructionErr(err)
	}
	return types.ChainPublicKey{Contents: ata.String(), Chain: types.Solana}, nil
}

// GetProgramAddress derives the off-curve program address for the given
// seeds. Seeds that parse as public keys contribute their 32 raw bytes,
// anything else its UTF-8 bytes. The program must be allow-listed.
func (f *Factory) GetProgramAddress(
	seeds []string,
	program string,
) (types.ChainPublicKey, error) {
	programKey, err := solana.PublicKeyFromBase58(program)
	if err != nil {
		return types.ChainPublicKey{}, errors.TxPublicKeyErr(err)
	}
	if !isProgramAllowed(programKey) {
		return types.ChainPublicKey{}, errors.InstructionError("wrong token program")
	}

	seedBytes := make([][]byte, 0, len(seeds))
	for _, seed := range seeds {
		if key, err := solana.PublicKeyFromBase58(seed); err == nil {
			seedBytes = append(seedBytes, key.Bytes())
		} else {
			seedBytes = append(seedBytes, []byte(seed))
		}
	}

	address, _, err := solana.FindProgramAddress(seedBytes, programKey)
	if err != nil {
		return types.ChainPublicKey{}, errors.GenericErr(err)
	}
	return types.ChainPublicKey{Contents: address.String(), Chain: types.Solana}, nil
}

// GetMessage extracts the message component of a transaction and returns
// it as base64 wire bytes.
func (f *Factory) GetMessage(transaction string) (string, error) {
	transactionBytes, err := codec.FromBase64(transaction)
	if err != nil {
		return "", errors.ParsingFailureErr(err)
	}

	tx, err := solana.TransactionFromDecoder(bin.NewBinDecoder(transactionBytes))
	if err != nil {
		return "", errors.ParsingFailure("Failed to parse transaction")
	}
	messageBytes, err := tx.Message.MarshalBinary()
	if err != nil {
		return "", errors.ParsingFailureErr(err)
	}
	return codec.ToBase64(messageBytes), nil
}

// GetTransaction wraps a bare message into a transaction carrying a single
// placeholder signature, the inverse of GetMessage.
func (f *Factory) GetTransaction(message string) (string, error) {
	messageBytes, err := codec.FromBase64(message)
	if err != nil {
		return "", errors.ParsingFailureErr(err)
	}

	parsed := new(solana.Message)
	if err := parsed.UnmarshalWithDecoder(bin.NewBinDecoder(messageBytes)); err != nil {
		return "", errors.ParsingFailure("Failed to parse message")
	}

	tx := &solana.Transaction{
		Signatures: []solana.Signature{{}},
		Message:    *parsed,
	}
	transactionBytes, err := tx.MarshalBinary()
	if err != nil {
		return "", errors.ParsingFailureErr(err)
	}
	return codec.ToBase64(transactionBytes), nil
}

// AppendSignatureToTransaction writes a caller-supplied signature into the
// signer's slot without any cryptographic verification.
func (f *Factory) AppendSignatureToTransaction(
	signer, signature, transaction string,
) (string, error) {
	transactionBytes, err := codec.FromBase64(transaction)
	if err != nil {
		return "", errors.ParsingFailureErr(err)
	}
	signatureBytes, err := base58.Decode(signature)
	if err != nil {
		return "", errors.ParsingFailureErr(err)
	}
	if len(signatureBytes) != 64 {
		return "", errors.ParsingFailure("invalid signature length")
	}
	signerKey, err := solana.PublicKeyFromBase58(signer)
	if err != nil {
		return "", errors.TxPublicKeyErr(err)
	}

	tx, err := solana.TransactionFromDecoder(bin.NewBinDecoder(transactionBytes))
	if err != nil {
		return "", errors.Generic("Failed to append signature to transaction")
	}

	position := signerPosition(tx.Message.AccountKeys, signerKey)
	if position < 0 {
		return "", errors.Generic("Signer not found in account keys")
	}
	if position >= len(tx.Signatures) {
		return "", errors.Generic("Failed to append signature to transaction")
	}

	copy(tx.Signatures[position][:], signatureBytes)
	serialized, err := tx.MarshalBinary()
	if err != nil {
		return "", errors.ParsingFailureErr(err)
	}
	return codec.ToBase64(serialized), nil
}
