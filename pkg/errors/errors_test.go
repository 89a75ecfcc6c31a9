// SPDX-License-Identifier: Apache-2.0
package errors

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKeyErrorFormatting(t *testing.T) {
	err := InvalidMnemonic("Only 12 or 24 word mnemonics are supported")
	assert.Equal(t, KeyInvalidMnemonic, err.Code)
	assert.Equal(t, "Invalid Mnemonic: Only 12 or 24 word mnemonics are supported", err.Error())

	assert.Equal(t, "Invalid Private Key: Broken Private Key", PrivateKey("Broken Private Key").Error())
	assert.Equal(t, KeyGeneric, KeyGenericError("boom").Code)
}

func TestTransactionErrorFormatting(t *testing.T) {
	assert.Equal(t, "Signer Missing", SignerMissing().Error())
	assert.Equal(t, "Multiple Signers is not currently supported", MultipleSigners().Error())
	assert.Equal(t, TxGeneric, Generic("Duplicate swap instruction").Code)
	assert.Equal(t, "Generic Error: Duplicate swap instruction", Generic("Duplicate swap instruction").Error())

	decimal := DecimalConversion("1.5", "fractional lamports")
	assert.Equal(t, TxDecimalConversion, decimal.Code)
	assert.Contains(t, decimal.Error(), "1.5")
}

func TestErrorWrapping(t *testing.T) {
	wrapped := ParsingFailureErr(assert.AnError)
	assert.Equal(t, TxParsingFailure, wrapped.Code)
	assert.Contains(t, wrapped.Message, assert.AnError.Error())
}
