package registry

import (
	"context"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"

	"github.com/ruteri/domain-resolution/interfaces"
)

// ENSClient implements interfaces.NamingTransport for the ENS registry.
type ENSClient struct {
	caller   bind.ContractCaller
	address  common.Address
	contract *bind.BoundContract
}

// NewENSClient creates a client for the ENS Registry contract at the specified address.
func NewENSClient(caller bind.ContractCaller, address string) (*ENSClient, error) {
	addr, err := parseAddress(address)
	if err != nil {
		return nil, err
	}

	return &ENSClient{
		caller:   caller,
		address:  addr,
		contract: bind.NewBoundContract(addr, ensRegistryABI, caller, nil, nil),
	}, nil
}

// Address returns the registry contract address.
func (c *ENSClient) Address() string {
	return c.address.Hex()
}

// ResolverOf returns the resolver set for node, or "" when none is set.
func (c *ENSClient) ResolverOf(ctx context.Context, node interfaces.NodeHash) (string, error) {
	return callAddress(ctx, c.contract, "resolver", [32]byte(node))
}

// OwnerOf returns the owner of node, or "" when the node is not registered.
func (c *ENSClient) OwnerOf(ctx context.Context, node interfaces.NodeHash) (string, error) {
	return callAddress(ctx, c.contract, "owner", [32]byte(node))
}

// ResolverFor binds the ENS PublicResolver contract at address.
func (c *ENSClient) ResolverFor(address string) (interfaces.OnchainResolver, error) {
	addr, err := parseAddress(address)
	if err != nil {
		return nil, err
	}
	return &ensResolver{contract: bind.NewBoundContract(addr, ensResolverABI, c.caller, nil, nil)}, nil
}

// ensResolver maps the shared record namespace onto the PublicResolver:
// the ETH address lives in addr(node), every other key in text(node, key).
type ensResolver struct {
	contract *bind.BoundContract
}

var ethAddressKey = interfaces.AddressKey("ETH")

func (r *ensResolver) Get(ctx context.Context, key string, node interfaces.NodeHash) (string, error) {
	if key == ethAddressKey {
		return callAddress(ctx, r.contract, "addr", [32]byte(node))
	}
	return callString(ctx, r.contract, "text", [32]byte(node), key)
}
