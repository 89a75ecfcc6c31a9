// SPDX-License-Identifier: Apache-2.0
package solana

import (
	"crypto/ed25519"
	"crypto/sha256"
	"encoding/hex"

	"filippo.io/edwards25519"
	solana "github.com/gagliardetto/solana-go"
	"github.com/mr-tron/base58"
	bip39 "github.com/tyler-smith/go-bip39"
	"go.uber.org/zap"

	"github.com/jup-ag/chainkit/pkg/codec"
	"github.com/jup-ag/chainkit/pkg/errors"
	"github.com/jup-ag/chainkit/pkg/types"
)

// rawKeyProbe is signed and verified on raw-key import. A key whose halves
// do not belong together can still sign, but its signatures never verify;
// the probe catches that before the key is accepted.
var rawKeyProbe = []byte{0, 1, 2, 3, 4, 5, 6, 7}

// GenerateMnemonic generates a BIP39 English mnemonic of 12 or 24 words
// from CSPRNG entropy.
func (f *Factory) GenerateMnemonic(length uint32) (types.MnemonicWords, error) {
	var bits int
	switch length {
	case 12:
		bits = 128
	case 24:
		bits = 256
	default:
		return types.MnemonicWords{}, errors.InvalidMnemonic(
			"Only 12 or 24 word mnemonics are supported")
	}

	entropy, err := bip39.NewEntropy(bits)
	if err != nil {
		return types.MnemonicWords{}, errors.KeyGenericError("Cannot create mnemonic")
	}
	phrase, err := bip39.NewMnemonic(entropy)
	if err != nil || phrase == "" {
		return types.MnemonicWords{}, errors.KeyGenericError("Cannot create mnemonic")
	}

	f.logger.Debug("generated mnemonic", zap.Uint32("length", length))
	return types.MnemonicFromString(phrase), nil
}

// Derive expands the derivation descriptor into concrete paths and derives
// one hardened ed25519 keypair per path from the BIP39 seed.
func (f *Factory) Derive(
	mnemonic types.MnemonicWords,
	passphrase *string,
	derivation types.Derivation,
) ([]types.DerivedPrivateKey, error) {
	if len(mnemonic.Words) != 12 && len(mnemonic.Words) != 24 {
		return nil, errors.InvalidMnemonic("Only 12 or 24 word mnemonics are supported")
	}
	sentence := mnemonic.Joined()
	if !bip39.IsMnemonicValid(sentence) {
		return nil, errors.InvalidMnemonic("Invalid Mnemonic")
	}

	pass := ""
	if passphrase != nil {
		pass = *passphrase
	}
	seed := bip39.NewSeed(sentence, pass)
	defer zero(seed)

	paths := derivation.PathsWithIndex()
	keys := make([]types.DerivedPrivateKey, 0, len(paths))
	for _, p := range paths {
		keySeed, err := deriveSeedForPath(seed, p.Path)
		if err != nil {
			return nil, errors.DerivationPath(err.Error())
		}
		private := ed25519.NewKeyFromSeed(keySeed)
		zero(keySeed)

		path := p.Path
		kind := derivation.Path
		keys = append(keys, types.DerivedPrivateKey{
			Contents:  base58.Encode(private),
			PublicKey: publicKeyOf(private),
			Index:     p.Index,
			Path:      &path,
			PathKind:  &kind,
		})
	}

	f.logger.Debug("derived keys",
		zap.String("path_kind", string(derivation.Path)),
		zap.Int("count", len(keys)))
	return keys, nil
}

// DeriveFromData derives a single keypair from the SHA-256 of arbitrary
// caller data, with no derivation path.
func (f *Factory) DeriveFromData(data string) (types.DerivedPrivateKey, error) {
	digest := sha256.Sum256([]byte(data))
	private := ed25519.NewKeyFromSeed(digest[:])

	return types.DerivedPrivateKey{
		Contents:  base58.Encode(private),
		PublicKey: publicKeyOf(private),
		Index:     0,
	}, nil
}

// RawPrivateKey ingests a 64-byte keypair given as a decimal byte-array
// literal, base58 or hex, in that order of preference. The keypair is
// validated by signing a fixed probe and verifying the signature under the
// embedded public key.
func (f *Factory) RawPrivateKey(key string) (types.ChainPrivateKey, error) {
	var keyBytes []byte
	if data := codec.ParseStringAsByteArray(key); data != nil {
		keyBytes = data
	} else if data, err := base58.Decode(key); err == nil {
		keyBytes = data
	} else if data, err := hex.DecodeString(key); err == nil {
		keyBytes = data
	} else {
		return types.ChainPrivateKey{}, errors.PrivateKey(
			"Not a valid Base58, HEX encoded or array encoded key")
	}

	if len(keyBytes) != ed25519.PrivateKeySize {
		return types.ChainPrivateKey{}, errors.InvalidKeypair("invalid keypair length")
	}
	// The public half must decode as a curve point before the probe runs.
	if _, err := new(edwards25519.Point).SetBytes(keyBytes[32:]); err != nil {
		return types.ChainPrivateKey{}, errors.InvalidKeypairErr(err)
	}

	private := ed25519.PrivateKey(keyBytes)
	signature := ed25519.Sign(private, rawKeyProbe)
	if !ed25519.Verify(ed25519.PublicKey(keyBytes[32:]), rawKeyProbe, signature) {
		return types.ChainPrivateKey{}, errors.PrivateKey("Broken Private Key")
	}

	return types.ChainPrivateKey{
		Contents:  base58.Encode(keyBytes),
		PublicKey: publicKeyOf(private),
	}, nil
}

// IsValid reports whether the address parses as a 32-byte base58 Solana
// public key. Curve membership is deliberately not checked: program-derived
// addresses are valid targets.
func (f *Factory) IsValid(address string) bool {
	_, err := solana.PublicKeyFromBase58(address)
	return err == nil
}

func publicKeyOf(private ed25519.PrivateKey) types.ChainPublicKey {
	return types.ChainPublicKey{
		Contents: base58.Encode(private[32:]),
		Chain:    types.Solana,
	}
}
