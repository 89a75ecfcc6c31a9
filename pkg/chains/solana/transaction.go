// SPDX-License-Identifier: Apache-2.0
package solana

import (
	solana "github.com/gagliardetto/solana-go"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/jup-ag/chainkit/pkg/codec"
	"github.com/jup-ag/chainkit/pkg/errors"
	"github.com/jup-ag/chainkit/pkg/types"
)

// SendTransaction builds a native SOL transfer. Instruction order:
// compute-budget limit, compute-budget price, memo, transfer — optional
// pieces dropped when not requested.
func (f *Factory) SendTransaction(
	sender types.ChainPublicKey,
	receiver types.ChainPublicKey,
	amount types.DecimalNumber,
	parameters types.TransactionParameters,
) (string, error) {
	from, err := solana.PublicKeyFromBase58(sender.Contents)
	if err != nil {
		return "", errors.KeyPairErr(err)
	}
	to, err := solana.PublicKeyFromBase58(receiver.Contents)
	if err != nil {
		return "", errors.TxPublicKeyErr(err)
	}
	lamports, err := lamportsFromSOL(amount)
	if err != nil {
		return "", err
	}
	references, err := parseReferences(parameters.References)
	if err != nil {
		return "", err
	}

	instructions := make([]solana.Instruction, 0, 4)
	instructions = appendComputeBudget(instructions, parameters)
	if parameters.Memo != nil {
		instructions = append(instructions, memoInstruction(*parameters.Memo, from))
	}
	transfer, err := systemTransferInstruction(from, to, lamports, references)
	if err != nil {
		return "", err
	}
	instructions = append(instructions, transfer)

	f.logger.Debug("assembled native transfer",
		zap.Uint64("lamports", lamports),
		zap.Int("instructions", len(instructions)))
	return assembleTransaction(instructions, from, parameters.ExternalAddress)
}

// TokenTransaction builds an SPL / Token-2022 transfer. A wallet
// destination gets its associated token account created in the same
// transaction; close_account reclaims the source account afterwards.
func (f *Factory) TokenTransaction(
	destination types.TokenDestination,
	owner types.ChainPublicKey,
	token types.ChainPublicKey,
	kind types.TransactionKind,
	parameters types.TransactionParameters,
) (string, error) {
	if kind.Token == nil {
		return "", errors.Generic("Unsupported Transaction kind on Solana")
	}

	ownerProgram := TokenProgramID
	if parameters.OwnerProgram != nil {
		parsed, err := solana.PublicKeyFromBase58(*parameters.OwnerProgram)
		if err != nil {
			return "", errors.TxPublicKeyErr(err)
		}
		ownerProgram = parsed
	}
	var decimals uint8
	if parameters.Decimals != nil {
		decimals = *parameters.Decimals
	}

	ownerKey, err := solana.PublicKeyFromBase58(owner.Contents)
	if err != nil {
		return "", errors.TxPublicKeyErr(err)
	}
	mint, err := solana.PublicKeyFromBase58(token.Contents)
	if err != nil {
		return "", errors.TxPublicKeyErr(err)
	}
	// The source is the owner's associated token account, derived from the
	// owner, the token program and the mint.
	source, err := associatedTokenAddress(ownerKey, ownerProgram, mint)
	if err != nil {
		return "", errors.InstructionErr(err)
	}
	references, err := parseReferences(parameters.References)
	if err != nil {
		return "", err
	}
	amount, err := decimalToU64(kind.Token.Amount)
	if err != nil {
		return "", err
	}

	var transferDestination solana.PublicKey
	var createATA solana.Instruction
	switch {
	case destination.Account != nil:
		transferDestination, err = solana.PublicKeyFromBase58(destination.Account.TransferDestination)
		if err != nil {
			return "", errors.TxPublicKeyErr(err)
		}
	case destination.Wallet != nil:
		receiver, err := solana.PublicKeyFromBase58(destination.Wallet.PublicKey.Contents)
		if err != nil {
			return "", errors.TxPublicKeyErr(err)
		}
		transferDestination, err = associatedTokenAddress(receiver, ownerProgram, mint)
		if err != nil {
			return "", errors.InstructionErr(err)
		}
		createATA, err = createAssociatedTokenAccountInstruction(ownerKey, receiver, mint, ownerProgram)
		if err != nil {
			return "", err
		}
	default:
		return "", errors.Parameters("missing token destination")
	}

	instructions := make([]solana.Instruction, 0, 6)
	instructions = appendComputeBudget(instructions, parameters)
	if createATA != nil {
		instructions = append(instructions, createATA)
	}
	if parameters.Memo != nil {
		instructions = append(instructions, memoInstruction(*parameters.Memo, ownerKey))
	}
	transfer, err := transferCheckedInstruction(
		ownerProgram,
		source,
		transferDestination,
		ownerKey,
		[]solana.PublicKey{ownerKey},
		references,
		amount,
		decimals,
		mint,
	)
	if err != nil {
		return "", err
	}
	instructions = append(instructions, transfer)

	if kind.Token.CloseAccount {
		closeIx, err := closeAccountInstruction(ownerProgram, source, ownerKey, ownerKey, nil)
		if err != nil {
			return "", err
		}
		instructions = append(instructions, closeIx)
	}

	f.logger.Debug("assembled token transfer",
		zap.Uint64("amount", amount),
		zap.Bool("creates_account", createATA != nil),
		zap.Bool("closes_account", kind.Token.CloseAccount))
	return assembleTransaction(instructions, ownerKey, parameters.ExternalAddress)
}

// appendComputeBudget adds the requested compute-budget instructions in the
// fixed limit-then-price order.
func appendComputeBudget(
	instructions []solana.Instruction,
	parameters types.TransactionParameters,
) []solana.Instruction {
	if parameters.ComputeBudgetUnitLimit != nil {
		instructions = append(instructions, computeUnitLimitInstruction(*parameters.ComputeBudgetUnitLimit))
	}
	if parameters.ComputeBudgetUnitPrice != nil {
		instructions = append(instructions, computeUnitPriceInstruction(*parameters.ComputeBudgetUnitPrice))
	}
	return instructions
}

// assembleTransaction compiles the instructions into a transaction paid by
// feePayer, applies the external blockhash when one was supplied, and
// returns the base64 wire bytes with zeroed signature slots.
func assembleTransaction(
	instructions []solana.Instruction,
	feePayer solana.PublicKey,
	external *types.ExternalAddress,
) (string, error) {
	tx, err := solana.NewTransaction(instructions, solana.Hash{}, solana.TransactionPayer(feePayer))
	if err != nil {
		return "", errors.ParsingFailureErr(err)
	}

	if external != nil {
		blockhash, err := solana.HashFromBase58(external.RecentBlockhash)
		if err != nil {
			return "", errors.ParsingFailureErr(err)
		}
		tx.Message.RecentBlockhash = blockhash
	}

	// The wire format carries one slot per required signer; unfilled slots
	// stay all-zero until signing.
	tx.Signatures = make([]solana.Signature, tx.Message.Header.NumRequiredSignatures)

	serialized, err := tx.MarshalBinary()
	if err != nil {
		return "", errors.ParsingFailureErr(err)
	}
	return codec.ToBase64(serialized), nil
}

// lamportsFromSOL converts a decimal SOL amount into lamports with
// fixed-point multiplication.
func lamportsFromSOL(amount types.DecimalNumber) (uint64, error) {
	d, err := decimal.NewFromString(amount.Value)
	if err != nil {
		return 0, errors.DecimalConversion(amount.Value, err.Error())
	}
	return decimalValueToU64(d.Mul(decimal.New(1, 9)))
}

// decimalToU64 converts a token amount in base units.
func decimalToU64(amount types.DecimalNumber) (uint64, error) {
	d, err := decimal.NewFromString(amount.Value)
	if err != nil {
		return 0, errors.DecimalConversion(amount.Value, err.Error())
	}
	return decimalValueToU64(d)
}

func decimalValueToU64(d decimal.Decimal) (uint64, error) {
	if d.IsNegative() || !d.IsInteger() {
		return 0, errors.ParsingFailure("amount is not a whole non-negative number")
	}
	bi := d.BigInt()
	if !bi.IsUint64() {
		return 0, errors.ParsingFailure("amount does not fit into u64")
	}
	return bi.Uint64(), nil
}

func parseReferences(references []string) ([]solana.PublicKey, error) {
	if len(references) == 0 {
		return nil, nil
	}
	out := make([]solana.PublicKey, 0, len(references))
	for _, reference := range references {
		key, err := solana.PublicKeyFromBase58(reference)
		if err != nil {
			return nil, errors.TxPublicKeyErr(err)
		}
		out = append(out, key)
	}
	return out, nil
}
