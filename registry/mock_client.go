package registry

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/atomic"

	"github.com/ruteri/domain-resolution/interfaces"
)

// ErrUnknownResolver is returned by MockNamingClient for resolver addresses it does not hold.
var ErrUnknownResolver = errors.New("unknown resolver contract")

// MockNamingClient provides a simple in-memory implementation of the
// NamingTransport interface for testing purposes without requiring a
// blockchain connection. Every contract call is counted.
type MockNamingClient struct {
	mutex     sync.RWMutex
	owners    map[interfaces.NodeHash]string
	resolvers map[interfaces.NodeHash]string
	records   map[string]map[interfaces.NodeHash]map[string]string // resolver -> node -> key -> value

	calls atomic.Int64

	// Err, when set, fails every call as a transport error would.
	Err error
}

// NewMockNamingClient creates a new mock client with empty registry state.
func NewMockNamingClient() *MockNamingClient {
	return &MockNamingClient{
		owners:    make(map[interfaces.NodeHash]string),
		resolvers: make(map[interfaces.NodeHash]string),
		records:   make(map[string]map[interfaces.NodeHash]map[string]string),
	}
}

// SetOwner registers node with the given owner.
func (m *MockNamingClient) SetOwner(node interfaces.NodeHash, owner string) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.owners[node] = owner
}

// SetResolver points node at a resolver contract.
func (m *MockNamingClient) SetResolver(node interfaces.NodeHash, resolver string) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.resolvers[node] = resolver
	if _, ok := m.records[resolver]; !ok {
		m.records[resolver] = make(map[interfaces.NodeHash]map[string]string)
	}
}

// SetRecord stores a record in the resolver contract for node.
func (m *MockNamingClient) SetRecord(resolver string, node interfaces.NodeHash, key, value string) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	if _, ok := m.records[resolver]; !ok {
		m.records[resolver] = make(map[interfaces.NodeHash]map[string]string)
	}
	if _, ok := m.records[resolver][node]; !ok {
		m.records[resolver][node] = make(map[string]string)
	}
	m.records[resolver][node][key] = value
}

// Calls returns how many contract calls were made.
func (m *MockNamingClient) Calls() int64 {
	return m.calls.Load()
}

// ResolverOf returns the resolver of node, or "" when none is set.
func (m *MockNamingClient) ResolverOf(_ context.Context, node interfaces.NodeHash) (string, error) {
	m.calls.Add(1)
	if m.Err != nil {
		return "", m.Err
	}

	m.mutex.RLock()
	defer m.mutex.RUnlock()
	return m.resolvers[node], nil
}

// OwnerOf returns the owner of node, or "" when none is set.
func (m *MockNamingClient) OwnerOf(_ context.Context, node interfaces.NodeHash) (string, error) {
	m.calls.Add(1)
	if m.Err != nil {
		return "", m.Err
	}

	m.mutex.RLock()
	defer m.mutex.RUnlock()
	return m.owners[node], nil
}

// ResolverFor binds an in-memory resolver contract.
func (m *MockNamingClient) ResolverFor(address string) (interfaces.OnchainResolver, error) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	if _, ok := m.records[address]; !ok {
		return nil, ErrUnknownResolver
	}
	return &mockResolver{client: m, address: address}, nil
}

type mockResolver struct {
	client  *MockNamingClient
	address string
}

func (r *mockResolver) Get(_ context.Context, key string, node interfaces.NodeHash) (string, error) {
	r.client.calls.Add(1)
	if r.client.Err != nil {
		return "", r.client.Err
	}

	r.client.mutex.RLock()
	defer r.client.mutex.RUnlock()
	return r.client.records[r.address][node][key], nil
}

// Records returns every record the resolver holds for node.
func (r *mockResolver) Records(_ context.Context, node interfaces.NodeHash) (map[string]string, error) {
	r.client.calls.Add(1)
	if r.client.Err != nil {
		return nil, r.client.Err
	}

	r.client.mutex.RLock()
	defer r.client.mutex.RUnlock()
	out := make(map[string]string, len(r.client.records[r.address][node]))
	for k, v := range r.client.records[r.address][node] {
		out[k] = v
	}
	return out, nil
}
