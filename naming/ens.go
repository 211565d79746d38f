package naming

import (
	"context"

	"github.com/ruteri/domain-resolution/interfaces"
	"github.com/ruteri/domain-resolution/namehash"
	"github.com/ruteri/domain-resolution/registry"
)

// ENSSuffix is the top-level label of the Ethereum Name Service.
const ENSSuffix = "eth"

// ENS resolves .eth domains against the ENS registry. Only the ETH address
// has a dedicated resolver slot; other keys are read as text records, so
// Address for any other ticker reports UnspecifiedCurrency unless the
// resolver happens to hold a matching text record.
type ENS struct {
	transport interfaces.NamingTransport
	hasher    namehash.Hasher
}

// NewENS creates an ENS naming service over the given registry transport.
func NewENS(transport interfaces.NamingTransport) *ENS {
	return &ENS{transport: transport, hasher: namehash.Keccak256}
}

func (s *ENS) Name() string   { return ENSName }
func (s *ENS) Suffix() string { return ENSSuffix }

func (s *ENS) IsSupportedDomain(domain string) bool {
	return supportsDomain(domain, ENSSuffix)
}

func (s *ENS) Namehash(domain string) interfaces.NodeHash {
	return s.hasher.Namehash(domain)
}

func (s *ENS) Childhash(parent interfaces.NodeHash, label string) interfaces.NodeHash {
	return s.hasher.Childhash(parent, label, s.hasher.Options())
}

func (s *ENS) node(domain string) (interfaces.NodeHash, error) {
	if !s.IsSupportedDomain(domain) {
		return interfaces.NodeHash{}, unsupported(domain)
	}
	return s.Namehash(domain), nil
}

func (s *ENS) Resolver(ctx context.Context, domain string) (string, error) {
	node, err := s.node(domain)
	if err != nil {
		return "", err
	}
	return registry.DiscoverResolver(ctx, s.transport, domain, node)
}

func (s *ENS) Owner(ctx context.Context, domain string) (string, error) {
	node, err := s.node(domain)
	if err != nil {
		return "", err
	}
	return registry.FetchOwner(ctx, s.transport, domain, node)
}

func (s *ENS) Record(ctx context.Context, domain string, key string) (string, error) {
	node, err := s.node(domain)
	if err != nil {
		return "", err
	}
	return registry.FetchRecord(ctx, s.transport, domain, node, key)
}

func (s *ENS) Address(ctx context.Context, domain string, ticker string) (string, error) {
	return lookupAddress(ctx, s.Record, domain, ticker)
}

func (s *ENS) Resolve(_ context.Context, domain string) (map[string]string, error) {
	return nil, notSupported("resolve", domain)
}
