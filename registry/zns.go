package registry

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"

	"github.com/ruteri/domain-resolution/interfaces"
)

// getSubStateMethod is the Zilliqa JSON-RPC method reading a contract field.
const getSubStateMethod = "GetSmartContractSubState"

// JSONRPCCaller issues JSON-RPC calls. *rpc.Client from go-ethereum satisfies it
// and speaks the JSON-RPC 2.0 dialect Zilliqa nodes accept.
type JSONRPCCaller interface {
	CallContext(ctx context.Context, result interface{}, method string, args ...interface{}) error
}

// ZNSClient implements interfaces.NamingTransport for the Zilliqa Name Service.
// The registry keeps Record(owner, resolver) entries in its "records" field,
// and each domain's resolver contract keeps its key/value records in its own
// "records" field.
type ZNSClient struct {
	caller  JSONRPCCaller
	address string
}

// NewZNSClient creates a client for the ZNS registry at the specified hex address.
func NewZNSClient(caller JSONRPCCaller, address string) (*ZNSClient, error) {
	if !common.IsHexAddress(address) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidAddress, address)
	}
	return &ZNSClient{caller: caller, address: zilliqaAddress(address)}, nil
}

// Address returns the registry contract address.
func (c *ZNSClient) Address() string {
	return "0x" + c.address
}

type znsRegistryRecord struct {
	Arguments []json.RawMessage `json:"arguments"`
}

// registryRecord returns owner and resolver of node, empty when absent.
func (c *ZNSClient) registryRecord(ctx context.Context, node interfaces.NodeHash) (string, string, error) {
	var result struct {
		Records map[string]znsRegistryRecord `json:"records"`
	}
	err := c.caller.CallContext(ctx, &result, getSubStateMethod, c.address, "records", []string{node.Hex()})
	if err != nil {
		return "", "", err
	}

	record, ok := result.Records[node.Hex()]
	if !ok || len(record.Arguments) < 2 {
		return "", "", nil
	}

	var owner, resolver string
	if err := json.Unmarshal(record.Arguments[0], &owner); err != nil {
		return "", "", fmt.Errorf("malformed registry record owner: %w", err)
	}
	if err := json.Unmarshal(record.Arguments[1], &resolver); err != nil {
		return "", "", fmt.Errorf("malformed registry record resolver: %w", err)
	}
	return owner, resolver, nil
}

// ResolverOf returns the resolver set for node, or "" when none is set.
func (c *ZNSClient) ResolverOf(ctx context.Context, node interfaces.NodeHash) (string, error) {
	_, resolver, err := c.registryRecord(ctx, node)
	return resolver, err
}

// OwnerOf returns the owner of node, or "" when the node is not registered.
func (c *ZNSClient) OwnerOf(ctx context.Context, node interfaces.NodeHash) (string, error) {
	owner, _, err := c.registryRecord(ctx, node)
	return owner, err
}

// ResolverFor binds the resolver contract at address.
func (c *ZNSClient) ResolverFor(address string) (interfaces.OnchainResolver, error) {
	if !common.IsHexAddress(address) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidAddress, address)
	}
	return &znsResolver{caller: c.caller, address: zilliqaAddress(address)}, nil
}

// znsResolver reads a per-domain resolver contract. Records are keyed by name
// only, so the node hash is not part of the query.
type znsResolver struct {
	caller  JSONRPCCaller
	address string
}

// Records returns every record of the resolver.
func (r *znsResolver) Records(ctx context.Context, _ interfaces.NodeHash) (map[string]string, error) {
	var result struct {
		Records map[string]string `json:"records"`
	}
	if err := r.caller.CallContext(ctx, &result, getSubStateMethod, r.address, "records", []string{}); err != nil {
		return nil, err
	}
	if result.Records == nil {
		return map[string]string{}, nil
	}
	return result.Records, nil
}

// Get returns the record stored under key, or "" when unset.
func (r *znsResolver) Get(ctx context.Context, key string, node interfaces.NodeHash) (string, error) {
	records, err := r.Records(ctx, node)
	if err != nil {
		return "", err
	}
	return records[key], nil
}

// zilliqaAddress formats an address the way Zilliqa RPC expects: lowercase hex without 0x.
func zilliqaAddress(address string) string {
	return strings.ToLower(strings.TrimPrefix(strings.TrimPrefix(address, "0x"), "0X"))
}
