// SPDX-License-Identifier: Apache-2.0
package solana

import (
	"bytes"
	"encoding/binary"

	solana "github.com/gagliardetto/solana-go"

	"github.com/jup-ag/chainkit/pkg/errors"
)

// JupiterV6ProgramID is the Jupiter v6 swap aggregator.
var JupiterV6ProgramID = solana.MustPublicKeyFromBase58("JUP6LkbZbjS1jKKwapdHNy74zcZ3tLUZoi5QNyVTaV4")

// Anchor discriminators of the Jupiter v6 swap instructions that carry
// slippage_bps in their trailing bytes.
var (
	routeDiscriminator                  = []byte{229, 23, 203, 151, 122, 227, 173, 42}
	sharedAccountsRouteDiscriminator    = []byte{193, 32, 155, 51, 65, 214, 156, 129}
	exactOutRouteDiscriminator          = []byte{208, 51, 239, 151, 123, 43, 237, 92}
	sharedAccountsExactOutDiscriminator = []byte{176, 209, 105, 168, 154, 125, 69, 62}
)

// mutateTransactionSlippageBps rewrites the slippage_bps field of the
// transaction's Jupiter swap instruction in place. The field sits two bytes
// before the trailing platform-fee byte. Exactly one swap instruction must
// be present.
func mutateTransactionSlippageBps(tx *solana.Transaction, slippageBps uint16) error {
	programIndex := signerPosition(tx.Message.AccountKeys, JupiterV6ProgramID)
	if programIndex < 0 {
		return errors.Generic("Missing jupiter aggregator program id from static keys")
	}

	found := false
	for i := range tx.Message.Instructions {
		instruction := &tx.Message.Instructions[i]
		// Only data longer than the discriminator, slippage_bps and
		// platform_bps together is considered.
		if int(instruction.ProgramIDIndex) != programIndex || len(instruction.Data) <= 8+2+1 {
			continue
		}
		if !isSwapDiscriminator(instruction.Data[:8]) {
			continue
		}
		if found {
			return errors.Generic("Duplicate swap instruction")
		}
		found = true

		end := len(instruction.Data) - 1
		binary.LittleEndian.PutUint16(instruction.Data[end-2:end], slippageBps)
	}
	if !found {
		return errors.Generic("Could not find swap instruction")
	}
	return nil
}

func isSwapDiscriminator(discriminator []byte) bool {
	return bytes.Equal(discriminator, routeDiscriminator) ||
		bytes.Equal(discriminator, sharedAccountsRouteDiscriminator) ||
		bytes.Equal(discriminator, exactOutRouteDiscriminator) ||
		bytes.Equal(discriminator, sharedAccountsExactOutDiscriminator)
}
