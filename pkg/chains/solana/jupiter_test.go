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
	"github.com/jup-ag/chainkit/pkg/types"
)

// A mainnet Jupiter v6 swap transaction (Route).
const jupiterSwapTxBase64 = "AQAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAACAAQAGCmb9xdrDtJYk7SvJmju4CpS8tgk++rcm6zvJ55YhNnkyFyMa9+i/QdXyfkMKzum7vNcYFEYFPWEHOkn7ubmPMy8uy3ly9YjP0u4bWlq58MCtylAkiN9u7LB/14O1R2UKGEtLpKDA2nb16o7DnkNeYpajr8pWfkX5+cYZej/F5CTJAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAADBkZv5SEXMv/srbpyw5vnvIzlu8X3EmssQ5s6QAAAAAR51VvyMcBu7nTFbs5oFQf9sbLeo/SOUQKxzaJWvBOPBt324ddloZPZy+FGzut5rBy0he1fWzeROoz1hX7/AKmMlyWPTiSJ8bs9ECkUjg2DC1oTmdr/EIQEjnvY2+n4WbQ/+if11/ZKdMCbHylYed5LCas238ndUUsyGqezjOXo4AY1NdAvbDuSSJJNK0yR9lJs7g4BkENiJvgeZ7c1JKcHBQAFAm5dAgAFAAkDBgAAAAAAAAAIBgACABEEBwEBBAIAAgwCAAAAAOH1BQAAAAAHAQIBEQYdBwACAwYTBgkGEA4QCwoCAxETDxAABwcSEA0MAQYj5RfLl3rjrSoBAAAAJmQAAQDh9QUAAAAA53bhAAAAAAAsAQAHAwIAAAEJAbaRFM1U56as5v3jHnktfIiBQXM0Thew4qJELNzQaM6RBqnMqM/R0AQlAhXN"

func decodeJupiterTx(t *testing.T) *solana.Transaction {
	t.Helper()
	raw, err := codec.FromBase64(jupiterSwapTxBase64)
	require.NoError(t, err)
	tx, err := solana.TransactionFromDecoder(bin.NewBinDecoder(raw))
	require.NoError(t, err)
	return tx
}

func TestMutateSlippageBps(t *testing.T) {
	tx := decodeJupiterTx(t)

	require.NoError(t, mutateTransactionSlippageBps(tx, 12345))

	programIndex := signerPosition(tx.Message.AccountKeys, JupiterV6ProgramID)
	require.GreaterOrEqual(t, programIndex, 0)

	mutated := 0
	for _, instruction := range tx.Message.Instructions {
		if int(instruction.ProgramIDIndex) != programIndex || len(instruction.Data) <= 11 {
			continue
		}
		if !isSwapDiscriminator(instruction.Data[:8]) {
			continue
		}
		mutated++
		end := len(instruction.Data) - 1
		assert.Equal(t, uint16(12345), binary.LittleEndian.Uint16(instruction.Data[end-2:end]))
	}
	assert.Equal(t, 1, mutated)
}

func TestMutateSlippageBpsMissingProgram(t *testing.T) {
	factory := testFactory()
	encoded, err := factory.SendTransaction(
		publicKey(testSender),
		publicKey(testReceiver),
		types.NewDecimalNumber("1"),
		baseParameters(),
	)
	require.NoError(t, err)

	tx := decodeTransaction(t, encoded)
	err = mutateTransactionSlippageBps(tx, 100)
	require.Error(t, err)
}

func TestMutateSlippageBpsNoSwapInstruction(t *testing.T) {
	payer := solana.MustPublicKeyFromBase58(testSender)

	// Jupiter present in the keys, but no recognizable swap instruction.
	message := solana.Message{
		AccountKeys:     []solana.PublicKey{payer, JupiterV6ProgramID},
		RecentBlockhash: solana.MustHashFromBase58(testBlockhash),
		Instructions: []solana.CompiledInstruction{{
			ProgramIDIndex: 1,
			Data:           make([]byte, 16),
		}},
	}
	message.Header.NumRequiredSignatures = 1
	tx := &solana.Transaction{
		Signatures: []solana.Signature{{}},
		Message:    message,
	}

	err := mutateTransactionSlippageBps(tx, 100)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Could not find swap instruction")
}

func TestMutateSlippageBpsDuplicateSwap(t *testing.T) {
	payer := solana.MustPublicKeyFromBase58(testSender)

	swapData := func() []byte {
		data := make([]byte, 20)
		copy(data, routeDiscriminator)
		return data
	}

	message := solana.Message{
		AccountKeys:     []solana.PublicKey{payer, JupiterV6ProgramID},
		RecentBlockhash: solana.MustHashFromBase58(testBlockhash),
		Instructions: []solana.CompiledInstruction{
			{ProgramIDIndex: 1, Data: swapData()},
			{ProgramIDIndex: 1, Data: swapData()},
		},
	}
	message.Header.NumRequiredSignatures = 1
	tx := &solana.Transaction{
		Signatures: []solana.Signature{{}},
		Message:    message,
	}

	err := mutateTransactionSlippageBps(tx, 100)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Duplicate swap instruction")
}

func TestMutateSlippageBpsShortDataIgnored(t *testing.T) {
	payer := solana.MustPublicKeyFromBase58(testSender)

	// Discriminator matches but the data is no longer than the discriminator
	// plus slippage_bps and platform_fee_bps, so it is skipped.
	short := make([]byte, 11)
	copy(short, routeDiscriminator)

	message := solana.Message{
		AccountKeys:     []solana.PublicKey{payer, JupiterV6ProgramID},
		RecentBlockhash: solana.MustHashFromBase58(testBlockhash),
		Instructions: []solana.CompiledInstruction{{
			ProgramIDIndex: 1,
			Data:           short,
		}},
	}
	message.Header.NumRequiredSignatures = 1
	tx := &solana.Transaction{
		Signatures: []solana.Signature{{}},
		Message:    message,
	}

	err := mutateTransactionSlippageBps(tx, 100)
	require.Error(t, err)
}
