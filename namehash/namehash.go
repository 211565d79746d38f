// Package namehash computes the recursive node hashes naming-service registries
// use to identify domains.
//
// A domain's hash folds its labels from the suffix to the leftmost label,
// starting from the all-zero root:
//
//	node = H(node || H(label))
//
// The same fold serves every supported registry; only H differs. CNS and ENS
// hash with Keccak-256, ZNS with SHA-256.
package namehash

import (
	"crypto/sha256"
	"strings"

	"github.com/ethereum/go-ethereum/crypto"

	"github.com/ruteri/domain-resolution/interfaces"
)

// Root is the hash of the empty domain.
var Root = interfaces.NodeHash{}

// Options control how a label is normalized before it is hashed. A backend's
// options must be passed to both Namehash and Childhash, otherwise subtrees
// hash differently from full domains.
type Options struct {
	// LabelPrefix is prepended to every label before hashing.
	LabelPrefix []byte
}

// Hasher computes namehashes with a fixed hash function.
type Hasher struct {
	hash func(data ...[]byte) []byte
	opts Options
}

// New returns a hasher built on hash that applies opts to every label.
func New(hash func(data ...[]byte) []byte, opts Options) Hasher {
	return Hasher{hash: hash, opts: opts}
}

// Keccak256 is the hasher of Ethereum registries (CNS, ENS).
var Keccak256 = New(crypto.Keccak256, Options{})

// SHA256 is the hasher of the Zilliqa registry (ZNS).
var SHA256 = New(sha256Concat, Options{})

func sha256Concat(data ...[]byte) []byte {
	h := sha256.New()
	for _, b := range data {
		h.Write(b)
	}
	return h.Sum(nil)
}

// Options returns the label options the hasher applies in Namehash.
func (h Hasher) Options() Options {
	return h.opts
}

// Namehash returns the node hash of domain. The empty domain hashes to Root.
func (h Hasher) Namehash(domain string) interfaces.NodeHash {
	node := Root
	if domain == "" {
		return node
	}

	labels := strings.Split(domain, ".")
	for i := len(labels) - 1; i >= 0; i-- {
		node = h.Childhash(node, labels[i], h.opts)
	}
	return node
}

// Childhash hashes label under parent, one step of the Namehash fold.
func (h Hasher) Childhash(parent interfaces.NodeHash, label string, opts Options) interfaces.NodeHash {
	labelHash := h.hash(opts.LabelPrefix, []byte(label))

	var node interfaces.NodeHash
	copy(node[:], h.hash(parent[:], labelHash))
	return node
}
