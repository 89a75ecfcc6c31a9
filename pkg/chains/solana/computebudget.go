// SPDX-License-Identifier: Apache-2.0
package solana

import (
	"encoding/binary"

	solana "github.com/gagliardetto/solana-go"
)

// prependComputeBudgetInstruction injects a compute-budget request into an
// already-compiled message. The program key is appended to the static
// account keys when it is not referenced yet; all existing instructions
// keep their positions behind the new one.
//
// The compiled data carries the payload behind a u64 little-endian length
// prefix, matching the wire artifacts produced upstream.
func prependComputeBudgetInstruction(message *solana.Message, payload []byte) {
	programIndex := signerPosition(message.AccountKeys, ComputeBudgetProgramID)
	if programIndex < 0 {
		message.AccountKeys = append(message.AccountKeys, ComputeBudgetProgramID)
		programIndex = len(message.AccountKeys) - 1
	}

	data := make([]byte, 0, 8+len(payload))
	data = binary.LittleEndian.AppendUint64(data, uint64(len(payload)))
	data = append(data, payload...)

	compiled := solana.CompiledInstruction{
		ProgramIDIndex: uint16(programIndex),
		Data:           data,
	}
	message.Instructions = append(
		[]solana.CompiledInstruction{compiled}, message.Instructions...)
}
