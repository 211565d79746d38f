package naming

import (
	"context"

	"github.com/ruteri/domain-resolution/interfaces"
	"github.com/ruteri/domain-resolution/namehash"
	"github.com/ruteri/domain-resolution/registry"
)

// CNSSuffix is the top-level label of the Crypto Name Service.
const CNSSuffix = "crypto"

// CNS resolves .crypto domains against the CNS registry on Ethereum.
type CNS struct {
	transport interfaces.NamingTransport
	hasher    namehash.Hasher
}

// NewCNS creates a CNS naming service over the given registry transport.
func NewCNS(transport interfaces.NamingTransport) *CNS {
	return &CNS{transport: transport, hasher: namehash.Keccak256}
}

func (s *CNS) Name() string   { return CNSName }
func (s *CNS) Suffix() string { return CNSSuffix }

func (s *CNS) IsSupportedDomain(domain string) bool {
	return supportsDomain(domain, CNSSuffix)
}

func (s *CNS) Namehash(domain string) interfaces.NodeHash {
	return s.hasher.Namehash(domain)
}

func (s *CNS) Childhash(parent interfaces.NodeHash, label string) interfaces.NodeHash {
	return s.hasher.Childhash(parent, label, s.hasher.Options())
}

func (s *CNS) node(domain string) (interfaces.NodeHash, error) {
	if !s.IsSupportedDomain(domain) {
		return interfaces.NodeHash{}, unsupported(domain)
	}
	return s.Namehash(domain), nil
}

// Resolver returns the resolver contract of domain.
func (s *CNS) Resolver(ctx context.Context, domain string) (string, error) {
	node, err := s.node(domain)
	if err != nil {
		return "", err
	}
	return registry.DiscoverResolver(ctx, s.transport, domain, node)
}

// Owner returns the owner of domain.
func (s *CNS) Owner(ctx context.Context, domain string) (string, error) {
	node, err := s.node(domain)
	if err != nil {
		return "", err
	}
	return registry.FetchOwner(ctx, s.transport, domain, node)
}

// Record returns the value stored under key for domain.
func (s *CNS) Record(ctx context.Context, domain string, key string) (string, error) {
	node, err := s.node(domain)
	if err != nil {
		return "", err
	}
	return registry.FetchRecord(ctx, s.transport, domain, node, key)
}

// Address returns the domain's address for a currency ticker.
func (s *CNS) Address(ctx context.Context, domain string, ticker string) (string, error) {
	return lookupAddress(ctx, s.Record, domain, ticker)
}

// Resolve is not offered by CNS: its resolvers cannot enumerate records.
func (s *CNS) Resolve(_ context.Context, domain string) (map[string]string, error) {
	return nil, notSupported("resolve", domain)
}
