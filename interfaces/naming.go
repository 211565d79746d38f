package interfaces

import "context"

// NamingService resolves domains under one suffix against one on-chain naming system.
// Implementations hold no mutable state and are safe for concurrent use.
type NamingService interface {
	// Name is the short service name, e.g. "CNS".
	Name() string

	// Suffix is the top-level label the service owns, e.g. "crypto".
	Suffix() string

	// IsSupportedDomain reports whether the domain belongs to this service.
	IsSupportedDomain(domain string) bool

	// Namehash computes the node hash of a domain with the service's hashing rules.
	Namehash(domain string) NodeHash

	// Childhash computes one step of the namehash recursion.
	Childhash(parent NodeHash, label string) NodeHash

	// Resolver returns the resolver contract address of a domain.
	Resolver(ctx context.Context, domain string) (string, error)

	// Owner returns the owner address of a domain.
	Owner(ctx context.Context, domain string) (string, error)

	// Record returns the value stored under key in the domain's resolver.
	Record(ctx context.Context, domain string, key string) (string, error)

	// Address returns the address the domain holds for a currency ticker.
	Address(ctx context.Context, domain string, ticker string) (string, error)

	// Resolve returns every record of the domain. Services that cannot
	// enumerate records fail with MethodNotSupported.
	Resolve(ctx context.Context, domain string) (map[string]string, error)
}

// OnchainRegistry reads owner and resolver addresses from a registry contract.
// An empty string means the value is absent.
type OnchainRegistry interface {
	ResolverOf(ctx context.Context, node NodeHash) (string, error)
	OwnerOf(ctx context.Context, node NodeHash) (string, error)
}

// OnchainResolver reads records from a resolver contract.
// An empty string means the record is absent.
type OnchainResolver interface {
	Get(ctx context.Context, key string, node NodeHash) (string, error)
}

// RecordLister is implemented by resolvers that can return all of their records in one call.
type RecordLister interface {
	Records(ctx context.Context, node NodeHash) (map[string]string, error)
}

// NamingTransport is the contract-call transport a naming service runs the
// registry/resolver protocol against.
type NamingTransport interface {
	OnchainRegistry

	// ResolverFor binds a resolver contract at the given address.
	ResolverFor(address string) (OnchainResolver, error)
}
