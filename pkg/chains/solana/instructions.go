// SPDX-License-Identifier: Apache-2.0
package solana

import (
	"encoding/binary"

	solana "github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/programs/system"

	"github.com/jup-ag/chainkit/pkg/errors"
)

// SPL Token instruction tags shared by the classic and 2022 programs.
const (
	tokenInstructionTransferChecked = 12
	tokenInstructionCloseAccount    = 9
)

// Compute budget instruction tags.
const (
	computeBudgetSetUnitLimit = 2
	computeBudgetSetUnitPrice = 3
)

// systemTransferInstruction builds a native transfer, appending any
// reference accounts as read-only non-signers.
func systemTransferInstruction(
	from, to solana.PublicKey,
	lamports uint64,
	references []solana.PublicKey,
) (solana.Instruction, error) {
	transfer := system.NewTransferInstruction(lamports, from, to).Build()
	data, err := transfer.Data()
	if err != nil {
		return nil, errors.ParsingFailureErr(err)
	}

	accounts := solana.AccountMetaSlice(transfer.Accounts())
	for _, reference := range references {
		accounts = append(accounts, solana.Meta(reference))
	}
	return solana.NewInstruction(system.ProgramID, accounts, data), nil
}

// transferCheckedInstruction builds a TransferChecked for any allow-listed
// token program. The authority is marked as signer only when no explicit
// co-signers are supplied.
func transferCheckedInstruction(
	tokenProgram solana.PublicKey,
	source, destination, authority solana.PublicKey,
	signers []solana.PublicKey,
	references []solana.PublicKey,
	amount uint64,
	decimals uint8,
	mint solana.PublicKey,
) (solana.Instruction, error) {
	if !isProgramAllowed(tokenProgram) {
		return nil, errors.InstructionError("wrong token program")
	}

	data := make([]byte, 0, 10)
	data = append(data, tokenInstructionTransferChecked)
	data = binary.LittleEndian.AppendUint64(data, amount)
	data = append(data, decimals)

	authorityMeta := solana.Meta(authority)
	if len(signers) == 0 {
		authorityMeta = authorityMeta.SIGNER()
	}
	accounts := make(solana.AccountMetaSlice, 0, 4+len(signers)+len(references))
	accounts = append(accounts,
		solana.Meta(source).WRITE(),
		solana.Meta(mint),
		solana.Meta(destination).WRITE(),
		authorityMeta,
	)
	for _, signer := range signers {
		accounts = append(accounts, solana.Meta(signer).SIGNER())
	}
	for _, reference := range references {
		accounts = append(accounts, solana.Meta(reference))
	}

	return solana.NewInstruction(tokenProgram, accounts, data), nil
}

// closeAccountInstruction reclaims an emptied token account's rent.
func closeAccountInstruction(
	tokenProgram solana.PublicKey,
	account, owner, destination solana.PublicKey,
	signers []solana.PublicKey,
) (solana.Instruction, error) {
	if !isProgramAllowed(tokenProgram) {
		return nil, errors.InstructionError("wrong token program")
	}

	ownerMeta := solana.Meta(owner)
	if len(signers) == 0 {
		ownerMeta = ownerMeta.SIGNER()
	}
	accounts := make(solana.AccountMetaSlice, 0, 3+len(signers))
	accounts = append(accounts,
		solana.Meta(account).WRITE(),
		solana.Meta(destination).WRITE(),
		ownerMeta,
	)
	for _, signer := range signers {
		accounts = append(accounts, solana.Meta(signer).SIGNER())
	}

	return solana.NewInstruction(tokenProgram, accounts, []byte{tokenInstructionCloseAccount}), nil
}

// associatedTokenAddress derives the canonical associated token account for
// a wallet, token program and mint.
func associatedTokenAddress(
	wallet, tokenProgram, mint solana.PublicKey,
) (solana.PublicKey, error) {
	address, _, err := solana.FindProgramAddress(
		[][]byte{wallet.Bytes(), tokenProgram.Bytes(), mint.Bytes()},
		solana.SPLAssociatedTokenAccountProgramID,
	)
	return address, err
}

// createAssociatedTokenAccountInstruction funds and creates the wallet's
// associated token account for the given mint.
func createAssociatedTokenAccountInstruction(
	funding, wallet, mint, tokenProgram solana.PublicKey,
) (solana.Instruction, error) {
	ata, err := associatedTokenAddress(wallet, tokenProgram, mint)
	if err != nil {
		return nil, errors.InstructionErr(err)
	}

	accounts := solana.AccountMetaSlice{
		solana.Meta(funding).WRITE().SIGNER(),
		solana.Meta(ata).WRITE(),
		solana.Meta(wallet),
		solana.Meta(mint),
		solana.Meta(system.ProgramID),
		solana.Meta(tokenProgram),
	}
	return solana.NewInstruction(
		solana.SPLAssociatedTokenAccountProgramID, accounts, []byte{0}), nil
}

// memoInstruction wraps a UTF-8 payload in an SPL Memo v2 instruction
// signed by the payer.
func memoInstruction(memo string, payer solana.PublicKey) solana.Instruction {
	accounts := solana.AccountMetaSlice{solana.Meta(payer).SIGNER()}
	return solana.NewInstruction(MemoProgramID, accounts, []byte(memo))
}

// computeUnitLimitData encodes a SetComputeUnitLimit payload.
func computeUnitLimitData(units uint32) []byte {
	data := make([]byte, 0, 5)
	data = append(data, computeBudgetSetUnitLimit)
	return binary.LittleEndian.AppendUint32(data, units)
}

// computeUnitPriceData encodes a SetComputeUnitPrice payload in
// micro-lamports per compute unit.
func computeUnitPriceData(microLamports uint64) []byte {
	data := make([]byte, 0, 9)
	data = append(data, computeBudgetSetUnitPrice)
	return binary.LittleEndian.AppendUint64(data, microLamports)
}

func computeUnitLimitInstruction(units uint32) solana.Instruction {
	return solana.NewInstruction(ComputeBudgetProgramID, solana.AccountMetaSlice{}, computeUnitLimitData(units))
}

func computeUnitPriceInstruction(microLamports uint64) solana.Instruction {
	return solana.NewInstruction(ComputeBudgetProgramID, solana.AccountMetaSlice{}, computeUnitPriceData(microLamports))
}
