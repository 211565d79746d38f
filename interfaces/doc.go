// Package interfaces defines core interfaces and types for blockchain domain
// resolution, separating interface definitions from implementations.
//
// # Naming Interfaces
//
// NamingService: Resolves domains under one suffix (crypto, zil, eth) to
// records, owners and resolver contracts.
//
// OnchainRegistry: The registry contract of a naming service, mapping a node
// hash to its resolver and owner.
//
// OnchainResolver: A resolver contract holding the records of a node.
//
// NamingTransport: A registry together with a way to reach resolver contracts
// by address.
//
// # Storage Interfaces
//
// ContentBackend: Serves website content by IPFS hash from IPFS, S3 mirrors
// or local directories.
//
// # Types
//
// - NodeHash: 32-byte node identifier derived from a domain by namehash
// - ResolutionError: A failed lookup carrying an error code and the domain
//
// # Errors
//
// Every failure a NamingService returns is a *ResolutionError. Sentinels such
// as ErrUnregisteredDomain match any error with the same code under errors.Is:
//
//	owner, err := service.Owner(ctx, "brad.crypto")
//	if errors.Is(err, interfaces.ErrUnregisteredDomain) {
//	    // domain has no owner
//	}
package interfaces
