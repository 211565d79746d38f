package registry

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/ruteri/domain-resolution/interfaces"
)

// MockTransport mocks the NamingTransport interface
type MockTransport struct {
	mock.Mock
}

// ResolverOf mocks the ResolverOf method
func (m *MockTransport) ResolverOf(ctx context.Context, node interfaces.NodeHash) (string, error) {
	args := m.Called(ctx, node)
	return args.String(0), args.Error(1)
}

// OwnerOf mocks the OwnerOf method
func (m *MockTransport) OwnerOf(ctx context.Context, node interfaces.NodeHash) (string, error) {
	args := m.Called(ctx, node)
	return args.String(0), args.Error(1)
}

// ResolverFor mocks the ResolverFor method
func (m *MockTransport) ResolverFor(address string) (interfaces.OnchainResolver, error) {
	args := m.Called(address)
	resolver, _ := args.Get(0).(interfaces.OnchainResolver)
	return resolver, args.Error(1)
}

// MockResolver mocks the OnchainResolver interface
type MockResolver struct {
	mock.Mock
}

// Get mocks the Get method
func (m *MockResolver) Get(ctx context.Context, key string, node interfaces.NodeHash) (string, error) {
	args := m.Called(ctx, key, node)
	return args.String(0), args.Error(1)
}
