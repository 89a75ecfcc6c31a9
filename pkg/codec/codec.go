// SPDX-License-Identifier: Apache-2.0

// Package codec provides the small encoding helpers shared across the
// library: base64, base58 and the bracketed byte-array text form used by
// hosts that export keys as "[1,2,3,...]" strings.
package codec

import (
	"encoding/base64"
	"strconv"
	"strings"

	"github.com/mr-tron/base58"
)

// ToBase64 encodes data with the standard padded alphabet.
func ToBase64(data []byte) string {
	return base64.StdEncoding.EncodeToString(data)
}

// FromBase64 decodes a standard padded base64 string.
func FromBase64(value string) ([]byte, error) {
	return base64.StdEncoding.DecodeString(value)
}

// ToBase58 encodes data with the Bitcoin alphabet.
func ToBase58(data []byte) string {
	return base58.Encode(data)
}

// FromBase58 decodes a Bitcoin-alphabet base58 string.
func FromBase58(value string) ([]byte, error) {
	return base58.Decode(value)
}

// ParseStringAsByteArray parses strings of the form "[0, 1, 255]" into the
// byte values they list. Tokens that do not parse as a u8 are dropped.
// Returns nil for any input not wrapped in brackets.
func ParseStringAsByteArray(input string) []byte {
	if !strings.HasPrefix(input, "[") || !strings.HasSuffix(input, "]") {
		return nil
	}
	inner := input[1 : len(input)-1]
	out := make([]byte, 0, len(inner)/2)
	for _, token := range strings.Split(inner, ",") {
		v, err := strconv.ParseUint(strings.TrimSpace(token), 10, 8)
		if err != nil {
			continue
		}
		out = append(out, byte(v))
	}
	return out
}
