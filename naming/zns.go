package naming

import (
	"context"

	"github.com/ruteri/domain-resolution/interfaces"
	"github.com/ruteri/domain-resolution/namehash"
	"github.com/ruteri/domain-resolution/registry"
)

// ZNSSuffix is the top-level label of the Zilliqa Name Service.
const ZNSSuffix = "zil"

// ZNS resolves .zil domains against the ZNS registry on Zilliqa.
type ZNS struct {
	transport interfaces.NamingTransport
	hasher    namehash.Hasher
}

// NewZNS creates a ZNS naming service over the given registry transport.
func NewZNS(transport interfaces.NamingTransport) *ZNS {
	return &ZNS{transport: transport, hasher: namehash.SHA256}
}

func (s *ZNS) Name() string   { return ZNSName }
func (s *ZNS) Suffix() string { return ZNSSuffix }

func (s *ZNS) IsSupportedDomain(domain string) bool {
	return supportsDomain(domain, ZNSSuffix)
}

func (s *ZNS) Namehash(domain string) interfaces.NodeHash {
	return s.hasher.Namehash(domain)
}

func (s *ZNS) Childhash(parent interfaces.NodeHash, label string) interfaces.NodeHash {
	return s.hasher.Childhash(parent, label, s.hasher.Options())
}

func (s *ZNS) node(domain string) (interfaces.NodeHash, error) {
	if !s.IsSupportedDomain(domain) {
		return interfaces.NodeHash{}, unsupported(domain)
	}
	return s.Namehash(domain), nil
}

func (s *ZNS) Resolver(ctx context.Context, domain string) (string, error) {
	node, err := s.node(domain)
	if err != nil {
		return "", err
	}
	return registry.DiscoverResolver(ctx, s.transport, domain, node)
}

func (s *ZNS) Owner(ctx context.Context, domain string) (string, error) {
	node, err := s.node(domain)
	if err != nil {
		return "", err
	}
	return registry.FetchOwner(ctx, s.transport, domain, node)
}

func (s *ZNS) Record(ctx context.Context, domain string, key string) (string, error) {
	node, err := s.node(domain)
	if err != nil {
		return "", err
	}
	return registry.FetchRecord(ctx, s.transport, domain, node, key)
}

func (s *ZNS) Address(ctx context.Context, domain string, ticker string) (string, error) {
	return lookupAddress(ctx, s.Record, domain, ticker)
}

// Resolve returns every record of the domain's resolver contract.
func (s *ZNS) Resolve(ctx context.Context, domain string) (map[string]string, error) {
	node, err := s.node(domain)
	if err != nil {
		return nil, err
	}

	resolver, err := registry.ResolverAt(ctx, s.transport, domain, node)
	if err != nil {
		return nil, err
	}

	lister, ok := resolver.(interfaces.RecordLister)
	if !ok {
		return nil, notSupported("resolve", domain)
	}

	records, err := lister.Records(ctx, node)
	if err != nil {
		return nil, interfaces.NewTransportError("records", err)
	}
	return records, nil
}
