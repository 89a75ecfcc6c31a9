// SPDX-License-Identifier: Apache-2.0

// Package security provides the standalone password-based text encryption
// helper. The construction is AES-256-EAX with a fixed salt and a nonce
// derived from a fixed constant, so equal inputs produce equal ciphertexts
// across platforms. That determinism is required for compatibility with
// existing ciphertexts; do not reuse this helper for general-purpose
// encryption.
package security

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/sha256"
	"crypto/subtle"
	"errors"
	"fmt"

	"github.com/aead/cmac"
	"golang.org/x/crypto/pbkdf2"

	"github.com/jup-ag/chainkit/pkg/codec"
)

const (
	// aesKeySize is the size of AES keys in bytes (AES-256).
	aesKeySize = 32

	// nonceSize is the size of the EAX nonce in bytes.
	nonceSize = 16

	// tagSize is the size of the EAX authentication tag in bytes.
	tagSize = 16

	// pbkdf2Iterations is the number of iterations for PBKDF2.
	pbkdf2Iterations = 600_000

	// hashSalt was generated with `openssl rand -hex 8`.
	hashSalt = "4e3cefbd9d5831a3"

	// nonceSource feeds the fixed nonce; the nonce is reused for all
	// encryptions under this helper's compatibility contract.
	nonceSource = "7a6f1d76af20316ece3016d66de2642e"
)

// EncryptPlaintext encrypts text with a password and returns the
// base64-encoded ciphertext with the authentication tag appended.
func EncryptPlaintext(plaintext, password string) (string, error) {
	block, nonce, err := prepareState(password)
	if err != nil {
		return "", err
	}
	ciphertext, err := eaxSeal(block, nonce, []byte(plaintext))
	if err != nil {
		return "", err
	}
	return codec.ToBase64(ciphertext), nil
}

// DecryptCiphertext reverses EncryptPlaintext under the same password.
func DecryptCiphertext(ciphertext, password string) (string, error) {
	block, nonce, err := prepareState(password)
	if err != nil {
		return "", err
	}
	raw, err := codec.FromBase64(ciphertext)
	if err != nil {
		return "", fmt.Errorf("invalid base64: %w", err)
	}
	plaintext, err := eaxOpen(block, nonce, raw)
	if err != nil {
		return "", err
	}
	return string(plaintext), nil
}

// prepareState derives the cipher and nonce shared by both directions.
func prepareState(password string) (cipher.Block, []byte, error) {
	key := hashedPassword(password, aesKeySize)
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create cipher: %w", err)
	}
	nonce := hashedPassword(nonceSource, nonceSize)
	return block, nonce, nil
}

// hashedPassword stretches input into the requested number of bytes.
func hashedPassword(input string, length int) []byte {
	return pbkdf2.Key([]byte(input), []byte(hashSalt), pbkdf2Iterations, length, sha256.New)
}

// eaxSeal implements EAX encryption: CTR keystream starting at the OMAC of
// the nonce, tag = OMAC(nonce) xor OMAC(header) xor OMAC(ciphertext).
func eaxSeal(block cipher.Block, nonce, plaintext []byte) ([]byte, error) {
	nonceMac, err := omac(block, 0, nonce)
	if err != nil {
		return nil, err
	}
	headerMac, err := omac(block, 1, nil)
	if err != nil {
		return nil, err
	}

	ciphertext := make([]byte, len(plaintext), len(plaintext)+tagSize)
	cipher.NewCTR(block, nonceMac).XORKeyStream(ciphertext, plaintext)

	cipherMac, err := omac(block, 2, ciphertext)
	if err != nil {
		return nil, err
	}

	tag := make([]byte, tagSize)
	for i := range tag {
		tag[i] = nonceMac[i] ^ headerMac[i] ^ cipherMac[i]
	}
	return append(ciphertext, tag...), nil
}

// eaxOpen verifies the trailing tag and decrypts.
func eaxOpen(block cipher.Block, nonce, sealed []byte) ([]byte, error) {
	if len(sealed) < tagSize {
		return nil, errors.New("ciphertext too short")
	}
	ciphertext, tag := sealed[:len(sealed)-tagSize], sealed[len(sealed)-tagSize:]

	nonceMac, err := omac(block, 0, nonce)
	if err != nil {
		return nil, err
	}
	headerMac, err := omac(block, 1, nil)
	if err != nil {
		return nil, err
	}
	cipherMac, err := omac(block, 2, ciphertext)
	if err != nil {
		return nil, err
	}

	expected := make([]byte, tagSize)
	for i := range expected {
		expected[i] = nonceMac[i] ^ headerMac[i] ^ cipherMac[i]
	}
	if subtle.ConstantTimeCompare(expected, tag) != 1 {
		return nil, errors.New("failed to decrypt data")
	}

	plaintext := make([]byte, len(ciphertext))
	cipher.NewCTR(block, nonceMac).XORKeyStream(plaintext, ciphertext)
	return plaintext, nil
}

// omac computes OMAC over a domain-separation block followed by data, per
// the EAX composition.
func omac(block cipher.Block, domain byte, data []byte) ([]byte, error) {
	mac, err := cmac.New(block)
	if err != nil {
		return nil, err
	}
	prefix := make([]byte, block.BlockSize())
	prefix[len(prefix)-1] = domain
	mac.Write(prefix)
	mac.Write(data)
	return mac.Sum(nil), nil
}
