// SPDX-License-Identifier: Apache-2.0
package solana

import (
	"crypto/hmac"
	"crypto/sha512"
	"encoding/binary"
	"fmt"
	"strconv"
	"strings"
)

// SLIP-0010 ed25519 derivation. Ed25519 only supports hardened children, so
// every path index is promoted to hardened regardless of whether the
// segment carries the ' marker.

const hardenedOffset = uint32(0x80000000)

var ed25519SeedKey = []byte("ed25519 seed")

// parseDerivationPath parses an absolute "m/44'/501'/..." path into its
// component indices. The ' markers are accepted and ignored; all indices
// derive hardened.
func parseDerivationPath(path string) ([]uint32, error) {
	segments := strings.Split(path, "/")
	if len(segments) == 0 || segments[0] != "m" {
		return nil, fmt.Errorf("derivation path must start with m: %q", path)
	}
	indices := make([]uint32, 0, len(segments)-1)
	for _, segment := range segments[1:] {
		segment = strings.TrimSuffix(segment, "'")
		index, err := strconv.ParseUint(segment, 10, 32)
		if err != nil {
			return nil, fmt.Errorf("invalid path segment %q: %w", segment, err)
		}
		if uint32(index) >= hardenedOffset {
			return nil, fmt.Errorf("path index out of range: %s", segment)
		}
		indices = append(indices, uint32(index))
	}
	return indices, nil
}

// deriveSeedForPath walks the SLIP-0010 chain from the master seed and
// returns the 32-byte ed25519 seed at the given absolute path.
func deriveSeedForPath(seed []byte, path string) ([]byte, error) {
	indices, err := parseDerivationPath(path)
	if err != nil {
		return nil, err
	}
	key, chainCode := hmacDigest(ed25519SeedKey, seed)
	for _, index := range indices {
		key, chainCode = deriveChild(key, chainCode, index|hardenedOffset)
	}
	zero(chainCode)
	return key, nil
}

func deriveChild(key, chainCode []byte, index uint32) ([]byte, []byte) {
	data := make([]byte, 0, 1+len(key)+4)
	data = append(data, 0x00)
	data = append(data, key...)
	data = binary.BigEndian.AppendUint32(data, index)
	childKey, childChain := hmacDigest(chainCode, data)
	zero(data)
	return childKey, childChain
}

func hmacDigest(key, data []byte) (il, ir []byte) {
	mac := hmac.New(sha512.New, key)
	mac.Write(data)
	sum := mac.Sum(nil)
	return sum[:32], sum[32:]
}

func zero(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
