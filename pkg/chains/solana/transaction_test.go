// SPDX-License-Identifier: Apache-2.0
package solana

import (
	"encoding/binary"
	"testing"

	bin "github.com/gagliardetto/binary"
	solana "github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jup-ag/chainkit/pkg/codec"
	"github.com/jup-ag/chainkit/pkg/errors"
	"github.com/jup-ag/chainkit/pkg/types"
)

const (
	testSender    = "HhjkkWaHbMLLve8mmRsvpVkPQ8hz8Dt5BvXA5y7S92Hz"
	testReceiver  = "HnXJX1Bvps8piQwDYEYC6oea9GEkvQvahvRj3c97X9xr"
	testMint      = "EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v"
	testBlockhash = "BnYdjb9nS4N4TRkbW984G82pL8FuW5LYLGqTD737T8cy"
	testReference = "9nNwJNeJnQmduBZZzYP717LRF8ExHT4GAa5Y6TktWgQq"
)

func decodeTransaction(t *testing.T, encoded string) *solana.Transaction {
	t.Helper()
	raw, err := codec.FromBase64(encoded)
	require.NoError(t, err)
	tx, err := solana.TransactionFromDecoder(bin.NewBinDecoder(raw))
	require.NoError(t, err)
	return tx
}

func publicKey(s string) types.ChainPublicKey {
	return types.ChainPublicKey{Contents: s, Chain: types.Solana}
}

func baseParameters() types.TransactionParameters {
	return types.TransactionParameters{
		TransactionType: types.Versioned,
		ExternalAddress: &types.ExternalAddress{RecentBlockhash: testBlockhash},
	}
}

func instructionProgram(t *testing.T, tx *solana.Transaction, index int) solana.PublicKey {
	t.Helper()
	require.Greater(t, len(tx.Message.Instructions), index)
	programIndex := int(tx.Message.Instructions[index].ProgramIDIndex)
	require.Greater(t, len(tx.Message.AccountKeys), programIndex)
	return tx.Message.AccountKeys[programIndex]
}

func TestSendTransactionBasic(t *testing.T) {
	factory := testFactory()

	encoded, err := factory.SendTransaction(
		publicKey(testSender),
		publicKey(testReceiver),
		types.NewDecimalNumber("1.5"),
		baseParameters(),
	)
	require.NoError(t, err)

	tx := decodeTransaction(t, encoded)
	require.Len(t, tx.Message.Instructions, 1)

	assert.True(t, instructionProgram(t, tx, 0).Equals(solana.SystemProgramID))
	assert.Equal(t, testBlockhash, tx.Message.RecentBlockhash.String())
	assert.Equal(t, testSender, tx.Message.AccountKeys[0].String())

	// System transfer data: u32 tag 2, then lamports little-endian.
	data := tx.Message.Instructions[0].Data
	require.Len(t, []byte(data), 12)
	assert.Equal(t, uint32(2), binary.LittleEndian.Uint32(data[:4]))
	assert.Equal(t, uint64(1_500_000_000), binary.LittleEndian.Uint64(data[4:]))

	// Unsigned: one all-zero slot per required signer.
	require.Len(t, tx.Signatures, int(tx.Message.Header.NumRequiredSignatures))
	for _, signature := range tx.Signatures {
		assert.Equal(t, solana.Signature{}, signature)
	}
}

func TestSendTransactionInstructionOrder(t *testing.T) {
	factory := testFactory()

	memo := "order check"
	limit := uint32(400_000)
	price := uint64(1_000)
	parameters := baseParameters()
	parameters.Memo = &memo
	parameters.ComputeBudgetUnitLimit = &limit
	parameters.ComputeBudgetUnitPrice = &price

	encoded, err := factory.SendTransaction(
		publicKey(testSender),
		publicKey(testReceiver),
		types.NewDecimalNumber("0.25"),
		parameters,
	)
	require.NoError(t, err)

	tx := decodeTransaction(t, encoded)
	require.Len(t, tx.Message.Instructions, 4)

	assert.True(t, instructionProgram(t, tx, 0).Equals(ComputeBudgetProgramID))
	assert.Equal(t, []byte(tx.Message.Instructions[0].Data), computeUnitLimitData(limit))
	assert.True(t, instructionProgram(t, tx, 1).Equals(ComputeBudgetProgramID))
	assert.Equal(t, []byte(tx.Message.Instructions[1].Data), computeUnitPriceData(price))
	assert.True(t, instructionProgram(t, tx, 2).Equals(MemoProgramID))
	assert.Equal(t, []byte(memo), []byte(tx.Message.Instructions[2].Data))
	assert.True(t, instructionProgram(t, tx, 3).Equals(solana.SystemProgramID))
}

func TestSendTransactionReferences(t *testing.T) {
	factory := testFactory()

	parameters := baseParameters()
	parameters.References = []string{testReference}

	encoded, err := factory.SendTransaction(
		publicKey(testSender),
		publicKey(testReceiver),
		types.NewDecimalNumber("1"),
		parameters,
	)
	require.NoError(t, err)

	tx := decodeTransaction(t, encoded)
	transfer := tx.Message.Instructions[len(tx.Message.Instructions)-1]
	require.Len(t, transfer.Accounts, 3)
	reference := tx.Message.AccountKeys[transfer.Accounts[2]]
	assert.Equal(t, testReference, reference.String())
}

func TestSendTransactionWithoutBlockhash(t *testing.T) {
	factory := testFactory()

	encoded, err := factory.SendTransaction(
		publicKey(testSender),
		publicKey(testReceiver),
		types.NewDecimalNumber("1"),
		types.TransactionParameters{TransactionType: types.Versioned},
	)
	require.NoError(t, err)

	tx := decodeTransaction(t, encoded)
	assert.Equal(t, solana.Hash{}, tx.Message.RecentBlockhash)
}

func TestSendTransactionAmountErrors(t *testing.T) {
	factory := testFactory()

	_, err := factory.SendTransaction(
		publicKey(testSender),
		publicKey(testReceiver),
		types.NewDecimalNumber("not a number"),
		baseParameters(),
	)
	require.Error(t, err)
	var txErr *errors.TransactionError
	require.ErrorAs(t, err, &txErr)
	assert.Equal(t, errors.TxDecimalConversion, txErr.Code)

	// More lamport precision than exists.
	_, err = factory.SendTransaction(
		publicKey(testSender),
		publicKey(testReceiver),
		types.NewDecimalNumber("0.0000000001"),
		baseParameters(),
	)
	require.Error(t, err)
	require.ErrorAs(t, err, &txErr)
	assert.Equal(t, errors.TxParsingFailure, txErr.Code)

	_, err = factory.SendTransaction(
		publicKey(testSender),
		publicKey(testReceiver),
		types.NewDecimalNumber("-1"),
		baseParameters(),
	)
	require.Error(t, err)
}

func TestSendTransactionInvalidBlockhash(t *testing.T) {
	factory := testFactory()

	parameters := baseParameters()
	parameters.ExternalAddress = &types.ExternalAddress{RecentBlockhash: "nope"}

	_, err := factory.SendTransaction(
		publicKey(testSender),
		publicKey(testReceiver),
		types.NewDecimalNumber("1"),
		parameters,
	)
	require.Error(t, err)
}

func TestTokenTransactionAccountDestination(t *testing.T) {
	factory := testFactory()

	decimals := uint8(6)
	parameters := baseParameters()
	parameters.Decimals = &decimals

	destination, err := factory.GetAssociatedTokenAddress(testReceiver, TokenProgramID.String(), testMint)
	require.NoError(t, err)

	encoded, err := factory.TokenTransaction(
		types.TokenDestination{Account: &types.AccountDestination{TransferDestination: destination.Contents}},
		publicKey(testSender),
		publicKey(testMint),
		types.TransactionKind{Token: &types.TokenTransfer{Amount: types.NewDecimalNumber("2500000")}},
		parameters,
	)
	require.NoError(t, err)

	tx := decodeTransaction(t, encoded)
	require.Len(t, tx.Message.Instructions, 1)
	assert.True(t, instructionProgram(t, tx, 0).Equals(TokenProgramID))

	data := []byte(tx.Message.Instructions[0].Data)
	require.Len(t, data, 10)
	assert.Equal(t, byte(tokenInstructionTransferChecked), data[0])
	assert.Equal(t, uint64(2_500_000), binary.LittleEndian.Uint64(data[1:9]))
	assert.Equal(t, decimals, data[9])

	// Owner pays the fee.
	assert.Equal(t, testSender, tx.Message.AccountKeys[0].String())
}

func TestTokenTransactionWalletDestinationCreatesAccount(t *testing.T) {
	factory := testFactory()

	decimals := uint8(6)
	memo := "token memo"
	parameters := baseParameters()
	parameters.Decimals = &decimals
	parameters.Memo = &memo

	encoded, err := factory.TokenTransaction(
		types.TokenDestination{Wallet: &types.WalletDestination{PublicKey: publicKey(testReceiver)}},
		publicKey(testSender),
		publicKey(testMint),
		types.TransactionKind{Token: &types.TokenTransfer{Amount: types.NewDecimalNumber("1"), CloseAccount: true}},
		parameters,
	)
	require.NoError(t, err)

	tx := decodeTransaction(t, encoded)
	require.Len(t, tx.Message.Instructions, 4)
	assert.True(t, instructionProgram(t, tx, 0).Equals(solana.SPLAssociatedTokenAccountProgramID))
	assert.Equal(t, []byte{0}, []byte(tx.Message.Instructions[0].Data))
	assert.True(t, instructionProgram(t, tx, 1).Equals(MemoProgramID))
	assert.True(t, instructionProgram(t, tx, 2).Equals(TokenProgramID))
	assert.True(t, instructionProgram(t, tx, 3).Equals(TokenProgramID))
	assert.Equal(t,
		[]byte{tokenInstructionCloseAccount},
		[]byte(tx.Message.Instructions[3].Data))

	// The created account is the receiver's associated token account.
	created, err := factory.GetAssociatedTokenAddress(testReceiver, TokenProgramID.String(), testMint)
	require.NoError(t, err)
	ataIndex := tx.Message.Instructions[0].Accounts[1]
	assert.Equal(t, created.Contents, tx.Message.AccountKeys[ataIndex].String())
}

func TestTokenTransactionRejectsUnknownProgram(t *testing.T) {
	factory := testFactory()

	program := testReceiver // not a token program
	parameters := baseParameters()
	parameters.OwnerProgram = &program

	_, err := factory.TokenTransaction(
		types.TokenDestination{Wallet: &types.WalletDestination{PublicKey: publicKey(testReceiver)}},
		publicKey(testSender),
		publicKey(testMint),
		types.TransactionKind{Token: &types.TokenTransfer{Amount: types.NewDecimalNumber("1")}},
		parameters,
	)
	require.Error(t, err)
	var txErr *errors.TransactionError
	require.ErrorAs(t, err, &txErr)
	assert.Equal(t, errors.TxInstructionError, txErr.Code)
	assert.Equal(t, "wrong token program", txErr.Message)
}

func TestTokenTransactionToken2022(t *testing.T) {
	factory := testFactory()

	program := Token2022ProgramID.String()
	parameters := baseParameters()
	parameters.OwnerProgram = &program

	encoded, err := factory.TokenTransaction(
		types.TokenDestination{Wallet: &types.WalletDestination{PublicKey: publicKey(testReceiver)}},
		publicKey(testSender),
		publicKey(testMint),
		types.TransactionKind{Token: &types.TokenTransfer{Amount: types.NewDecimalNumber("42")}},
		parameters,
	)
	require.NoError(t, err)

	tx := decodeTransaction(t, encoded)
	last := len(tx.Message.Instructions) - 1
	assert.True(t, instructionProgram(t, tx, last).Equals(Token2022ProgramID))
}

func TestTokenTransactionRejectsNftKind(t *testing.T) {
	factory := testFactory()

	_, err := factory.TokenTransaction(
		types.TokenDestination{Wallet: &types.WalletDestination{PublicKey: publicKey(testReceiver)}},
		publicKey(testSender),
		publicKey(testMint),
		types.TransactionKind{Nft: &types.NftTransfer{Amount: 1}},
		baseParameters(),
	)
	require.Error(t, err)
	var txErr *errors.TransactionError
	require.ErrorAs(t, err, &txErr)
	assert.Equal(t, errors.TxGeneric, txErr.Code)
	assert.Equal(t, "Unsupported Transaction kind on Solana", txErr.Message)
}

func TestTokenTransactionFractionalAmount(t *testing.T) {
	factory := testFactory()

	_, err := factory.TokenTransaction(
		types.TokenDestination{Wallet: &types.WalletDestination{PublicKey: publicKey(testReceiver)}},
		publicKey(testSender),
		publicKey(testMint),
		types.TransactionKind{Token: &types.TokenTransfer{Amount: types.NewDecimalNumber("1.5")}},
		baseParameters(),
	)
	require.Error(t, err)
}
