// Package registry implements the registry/resolver query protocol shared by
// every naming service, and the contract-call transports it runs against.
package registry

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/rpc"

	"github.com/ruteri/domain-resolution/interfaces"
)

// ErrInvalidAddress is returned when a contract address is not a 20-byte hex string.
var ErrInvalidAddress = errors.New("invalid contract address")

// revertErrorCode is the JSON-RPC error code nodes use for reverted calls.
const revertErrorCode = 3

// CNSClient implements interfaces.NamingTransport for the Crypto Name Service
// registry on Ethereum. Tokens are identified by the namehash read as uint256.
type CNSClient struct {
	caller   bind.ContractCaller
	address  common.Address
	contract *bind.BoundContract
}

// NewCNSClient creates a client for the CNS Registry contract at the specified
// address. The caller is usually an *ethclient.Client.
func NewCNSClient(caller bind.ContractCaller, address string) (*CNSClient, error) {
	addr, err := parseAddress(address)
	if err != nil {
		return nil, err
	}

	return &CNSClient{
		caller:   caller,
		address:  addr,
		contract: bind.NewBoundContract(addr, cnsRegistryABI, caller, nil, nil),
	}, nil
}

// Address returns the registry contract address.
func (c *CNSClient) Address() string {
	return c.address.Hex()
}

// ResolverOf returns the resolver set for node, or "" when none is set.
func (c *CNSClient) ResolverOf(ctx context.Context, node interfaces.NodeHash) (string, error) {
	return callAddress(ctx, c.contract, "resolverOf", tokenID(node))
}

// OwnerOf returns the owner of node, or "" for unminted tokens.
func (c *CNSClient) OwnerOf(ctx context.Context, node interfaces.NodeHash) (string, error) {
	return callAddress(ctx, c.contract, "ownerOf", tokenID(node))
}

// ResolverFor binds the CNS Resolver contract at address.
func (c *CNSClient) ResolverFor(address string) (interfaces.OnchainResolver, error) {
	addr, err := parseAddress(address)
	if err != nil {
		return nil, err
	}
	return &cnsResolver{contract: bind.NewBoundContract(addr, cnsResolverABI, c.caller, nil, nil)}, nil
}

type cnsResolver struct {
	contract *bind.BoundContract
}

// Get returns the record stored under key, or "" when unset.
func (r *cnsResolver) Get(ctx context.Context, key string, node interfaces.NodeHash) (string, error) {
	return callString(ctx, r.contract, "get", key, tokenID(node))
}

func tokenID(node interfaces.NodeHash) *big.Int {
	return new(big.Int).SetBytes(node[:])
}

func parseAddress(address string) (common.Address, error) {
	if !common.IsHexAddress(address) {
		return common.Address{}, fmt.Errorf("%w: %q", ErrInvalidAddress, address)
	}
	return common.HexToAddress(address), nil
}

// callAddress calls a view method returning an address. Zero addresses and
// reverted calls both mean the value is absent.
func callAddress(ctx context.Context, contract *bind.BoundContract, method string, params ...interface{}) (string, error) {
	var out []interface{}
	err := contract.Call(&bind.CallOpts{Context: ctx}, &out, method, params...)
	if err != nil {
		if isRevert(err) {
			return "", nil
		}
		return "", err
	}

	addr := *abi.ConvertType(out[0], new(common.Address)).(*common.Address)
	if addr == (common.Address{}) {
		return "", nil
	}
	return addr.Hex(), nil
}

// callString calls a view method returning a string.
func callString(ctx context.Context, contract *bind.BoundContract, method string, params ...interface{}) (string, error) {
	var out []interface{}
	err := contract.Call(&bind.CallOpts{Context: ctx}, &out, method, params...)
	if err != nil {
		if isRevert(err) {
			return "", nil
		}
		return "", err
	}

	return *abi.ConvertType(out[0], new(string)).(*string), nil
}

func isRevert(err error) bool {
	var rpcErr rpc.Error
	if errors.As(err, &rpcErr) && rpcErr.ErrorCode() == revertErrorCode {
		return true
	}
	return strings.Contains(err.Error(), "execution reverted")
}
