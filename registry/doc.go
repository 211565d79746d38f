// Package registry provides clients for the on-chain registry and resolver
// contracts of the CNS, ENS and ZNS naming services.
//
// The package implements the interfaces.NamingTransport interface for each
// service:
//
//   - CNSClient calls the CNS registry and resolvers on Ethereum through
//     go-ethereum contract bindings.
//   - ENSClient calls the ENS registry and public resolvers on Ethereum.
//   - ZNSClient reads ZNS contract state from Zilliqa over JSON-RPC.
//
// All clients are read-only and need no transaction signing.
//
// # Lookup Protocol
//
// DiscoverResolver, FetchOwner and FetchRecord implement the two-step lookup
// shared by every service: the registry is asked for the resolver of a node,
// and only when no resolver is set is the owner consulted to tell an
// unregistered domain from a registered one without a resolver.
//
//	client, err := registry.NewCNSClient(ethClient, registryAddress)
//	if err != nil {
//	    log.Fatalf("Failed to create registry client: %v", err)
//	}
//
//	node := namehash.Keccak256.Namehash("brad.crypto")
//	btc, err := registry.FetchRecord(ctx, client, "brad.crypto", node, "crypto.BTC.address")
//
// MockNamingClient is an in-memory NamingTransport for tests.
package registry
