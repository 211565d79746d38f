package registry

import (
	"context"

	"github.com/ruteri/domain-resolution/interfaces"
)

// DiscoverResolver finds the resolver contract of a node.
//
// A missing resolver is ambiguous: the domain may be unregistered or merely
// unconfigured. Only then is the owner looked up to tell the two apart, so
// the common path costs a single registry call.
func DiscoverResolver(ctx context.Context, reg interfaces.OnchainRegistry, domain string, node interfaces.NodeHash) (string, error) {
	resolver, err := resolverOf(ctx, reg, domain, node)
	resolver, err = interfaces.IgnoreCode(resolver, err, interfaces.UnspecifiedResolver)
	if err != nil {
		return "", err
	}
	if resolver != "" {
		return resolver, nil
	}

	owner, err := reg.OwnerOf(ctx, node)
	if err != nil {
		return "", interfaces.NewTransportError("ownerOf", err)
	}
	if interfaces.IsNullAddress(owner) {
		return "", &interfaces.ResolutionError{Code: interfaces.UnregisteredDomain, Domain: domain}
	}
	return "", &interfaces.ResolutionError{Code: interfaces.UnspecifiedResolver, Domain: domain}
}

// resolverOf reports an unset resolver as UnspecifiedResolver.
func resolverOf(ctx context.Context, reg interfaces.OnchainRegistry, domain string, node interfaces.NodeHash) (string, error) {
	resolver, err := reg.ResolverOf(ctx, node)
	if err != nil {
		return "", interfaces.NewTransportError("resolverOf", err)
	}
	if interfaces.IsNullAddress(resolver) {
		return "", &interfaces.ResolutionError{Code: interfaces.UnspecifiedResolver, Domain: domain}
	}
	return resolver, nil
}

// FetchRecord runs the full registry/resolver protocol for one record key.
// The value is returned as stored; formatting is up to the caller.
func FetchRecord(ctx context.Context, transport interfaces.NamingTransport, domain string, node interfaces.NodeHash, key string) (string, error) {
	resolver, err := ResolverAt(ctx, transport, domain, node)
	if err != nil {
		return "", err
	}

	value, err := resolver.Get(ctx, key, node)
	if err != nil {
		return "", interfaces.NewTransportError("get", err)
	}
	if interfaces.IsNullAddress(value) {
		return "", &interfaces.ResolutionError{Code: interfaces.RecordNotFound, Domain: domain, RecordName: key}
	}
	return value, nil
}

// ResolverAt discovers the resolver of a node and binds it.
func ResolverAt(ctx context.Context, transport interfaces.NamingTransport, domain string, node interfaces.NodeHash) (interfaces.OnchainResolver, error) {
	address, err := DiscoverResolver(ctx, transport, domain, node)
	if err != nil {
		return nil, err
	}

	resolver, err := transport.ResolverFor(address)
	if err != nil {
		return nil, interfaces.NewTransportError("resolverFor", err)
	}
	return resolver, nil
}

// FetchOwner reads the owner of a node. An unset owner is UnregisteredDomain.
func FetchOwner(ctx context.Context, reg interfaces.OnchainRegistry, domain string, node interfaces.NodeHash) (string, error) {
	owner, err := reg.OwnerOf(ctx, node)
	if err != nil {
		return "", interfaces.NewTransportError("ownerOf", err)
	}
	if interfaces.IsNullAddress(owner) {
		return "", &interfaces.ResolutionError{Code: interfaces.UnregisteredDomain, Domain: domain}
	}
	return owner, nil
}
