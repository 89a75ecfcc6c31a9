// SPDX-License-Identifier: Apache-2.0
package wallet

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jup-ag/chainkit/pkg/types"
)

func TestGenerateAndDeriveRoundTrip(t *testing.T) {
	for _, length := range []uint32{12, 24} {
		mnemonic, err := GenerateMnemonic(length)
		require.NoError(t, err)
		require.Len(t, mnemonic.Words, int(length))

		keys, err := Derive(types.Solana, mnemonic, nil, types.Derivation{
			Start: 0, Count: 1, Path: types.Bip44Change,
		})
		require.NoError(t, err)
		require.Len(t, keys, 1)
		assert.True(t, IsValid(types.Solana, keys[0].PublicKey.Contents))
	}
}

func TestGenerateMnemonicRejectsLength(t *testing.T) {
	_, err := GenerateMnemonic(13)
	require.Error(t, err)
}

func TestParsePublicKey(t *testing.T) {
	parsed := ParsePublicKey("HnXJX1Bvps8piQwDYEYC6oea9GEkvQvahvRj3c97X9xr")
	require.NotNil(t, parsed)
	assert.Equal(t, types.Solana, parsed.Chain)

	for _, invalid := range []string{"s", "sh", "sha", "shaq", "shaq.", "shaq.s", "shaq.so", "shaq.sol"} {
		assert.Nil(t, ParsePublicKey(invalid), invalid)
	}
}

func TestParsePrivateKey(t *testing.T) {
	keys := []string{
		"[27,153,159,181,6,1,91,15,197,226,231,97,95,7,137,92,71,179,37,198,230,114,5,253,107,33,44,63,48,96,131,124,8,144,230,241,171,179,101,73,241,150,248,129,215,137,57,221,119,238,150,90,248,94,202,188,207,238,162,84,174,209,99,96]",
		"Z1JavLZ6voTNSNzunLw9TvtQroNnGb7ivfYur4iiJsM1TmAoWePYXNhXzkzLk95fBf6ZFj3jb461qeXWyMNdQUP",
		"4Z7cXSyeFR8wNGMVXUE1TwtKn5D5Vu7FzEv69dokLv7KrQk7h6pu4LF8ZRR9yQBhc7uSM6RTTZtU1fmaxiNrxXrs",
	}
	for _, key := range keys {
		parsed := ParsePrivateKey(key)
		require.NotNil(t, parsed, key)
		assert.Equal(t, types.Solana, parsed.PublicKey.Chain)
	}

	assert.Nil(t, ParsePrivateKey("a a a a a a a a a a a a a a a a "))
}

func TestRawPrivateKeyDispatch(t *testing.T) {
	derived, err := DeriveFromData(types.Solana, "dispatch fixture")
	require.NoError(t, err)

	parsed, err := RawPrivateKey(types.Solana, derived.Contents)
	require.NoError(t, err)
	assert.Equal(t, derived.PublicKey.Contents, parsed.PublicKey.Contents)
}

func TestUnsupportedChain(t *testing.T) {
	_, err := Derive(types.Blockchain("ETHEREUM"), types.MnemonicWords{}, nil, types.Derivation{})
	require.Error(t, err)

	assert.False(t, IsValid(types.Blockchain("ETHEREUM"), "HnXJX1Bvps8piQwDYEYC6oea9GEkvQvahvRj3c97X9xr"))
}

func TestUnimplementedOperationsError(t *testing.T) {
	_, err := ModifyTransaction(types.Solana, "", types.ChainPrivateKey{}, types.TransactionParameters{})
	require.Error(t, err)

	_, err = ParseTransaction(types.Solana, "")
	require.Error(t, err)
}

func TestAssociatedTokenAddressDispatch(t *testing.T) {
	ata, err := GetAssociatedTokenAddress(
		"HhjkkWaHbMLLve8mmRsvpVkPQ8hz8Dt5BvXA5y7S92Hz",
		"TokenkegQfeZyiNwAJbNbGKPFXCWuBvf9Ss623VQ5DA",
		"EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v",
	)
	require.NoError(t, err)
	assert.Equal(t, "EpUzTPQzX6o3Sb3MZoyXaJXh2G2LRB5sKB1tij5xEnuw", ata.Contents)
}

func TestProgramAddressDispatch(t *testing.T) {
	address, err := GetProgramAddress(
		[]string{"invite", "c8Zhu3498MhJ98PBc7CmPj3oCRJ1HZaB6gPZU3r58kJ"},
		"inv1tEtSwRMtM44tbvJGNiTxMvDfPVnX9StyqXfDfks",
	)
	require.NoError(t, err)
	assert.Equal(t, "HzdVcCqFUPkr6BetwfPyNEPEtWm5usib9nowpAu58WRw", address.Contents)
}
