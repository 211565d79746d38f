// Package interfaces defines the core interfaces and types for the domain resolution system.
// It provides the contract between different components without implementation details.
package interfaces

import (
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
)

// NullAddress is the zero address registries return for unset owners and resolvers.
const NullAddress = "0x0000000000000000000000000000000000000000"

// Record keys shared by the supported naming services.
const (
	IpfsHashKey     = "ipfs.html.value"
	EmailKey        = "whois.email.value"
	RedirectURLKey  = "ipfs.redirect_domain.value"
	addressKeyStart = "crypto."
	addressKeyEnd   = ".address"
)

// NodeHash is the 32-byte identity of a domain within one naming system.
type NodeHash [32]byte

// NewNodeHashFromBytes creates a node hash from a 32-byte slice.
func NewNodeHashFromBytes(source []byte) (NodeHash, error) {
	if len(source) != 32 {
		return NodeHash{}, errors.New("invalid node hash conversion from bytes: incorrect length")
	}

	var hash NodeHash
	copy(hash[:], source)
	return hash, nil
}

// NewNodeHashFromHex parses a node hash, with or without the 0x prefix.
func NewNodeHashFromHex(source string) (NodeHash, error) {
	clean := strings.TrimPrefix(source, "0x")
	if len(clean) != 64 {
		return NodeHash{}, errors.New("invalid node hash length: hex string must be 64 characters")
	}

	hashBytes, err := hex.DecodeString(clean)
	if err != nil {
		return NodeHash{}, fmt.Errorf("invalid hex format: %w", err)
	}

	return NewNodeHashFromBytes(hashBytes)
}

// Hex returns the 0x-prefixed hex representation.
func (h NodeHash) Hex() string {
	return "0x" + hex.EncodeToString(h[:])
}

// String returns the 0x-prefixed hex representation.
func (h NodeHash) String() string {
	return h.Hex()
}

// Bytes returns the raw 32-byte hash.
func (h NodeHash) Bytes() []byte {
	return h[:]
}

// IsZero reports whether h is the root hash.
func (h NodeHash) IsZero() bool {
	return h == NodeHash{}
}

// AddressKey returns the record key holding the address for a currency ticker.
func AddressKey(ticker string) string {
	return addressKeyStart + strings.ToUpper(ticker) + addressKeyEnd
}

// IsNullAddress reports whether an address or record value is empty or the zero address.
func IsNullAddress(value string) bool {
	if value == "" {
		return true
	}
	lower := strings.ToLower(value)
	if !strings.HasPrefix(lower, "0x") {
		return false
	}
	return strings.Trim(lower[2:], "0") == ""
}
